package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/items-grid/internal/application/auth"
	"github.com/jhoicas/items-grid/internal/application/usecase"
	"github.com/jhoicas/items-grid/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC    *usecase.ItemUseCase
	AuthUC    *auth.AuthUseCase // nil o sin clientes: no se monta /auth/token
	Logger    *logger.Logger
	JWTSecret string // vacío: /items es público
}

// Router registra las rutas del recurso de ítems.
func Router(app *fiber.App, deps RouterDeps) {
	itemHandler := NewItemHandler(deps.ItemUC, deps.Logger)

	app.Get("/categories", itemHandler.Categories)

	if deps.AuthUC != nil && deps.AuthUC.Enabled() {
		app.Post("/auth/token", NewAuthHandler(deps.AuthUC).Token)
	}

	items := app.Group("/items")
	if deps.JWTSecret != "" {
		items.Use(AuthMiddleware(deps.JWTSecret))
	}
	items.Get("/", itemHandler.List)
	items.Post("/", itemHandler.Create)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)
}
