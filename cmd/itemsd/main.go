// itemsd sirve el recurso REST /items que consume el grid.
//
// Uso: go run ./cmd/itemsd
// Configuración por entorno: HTTP_PORT, ITEMS_STORAGE (memory|postgres), DATABASE_URL, JWT_SECRET, JWT_CLIENT_ID,
// JWT_CLIENT_SECRET_HASH, ITEMS_SEED_FILE.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jhoicas/items-grid/docs"
	"github.com/jhoicas/items-grid/internal/application/auth"
	"github.com/jhoicas/items-grid/internal/application/usecase"
	"github.com/jhoicas/items-grid/internal/domain/entity"
	"github.com/jhoicas/items-grid/internal/domain/repository"
	"github.com/jhoicas/items-grid/internal/infrastructure/memory"
	"github.com/jhoicas/items-grid/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/items-grid/internal/interfaces/http"
	"github.com/jhoicas/items-grid/pkg/config"
	"github.com/jhoicas/items-grid/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Items.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	categories := entity.NewCategorySet(cfg.Grid.Categories...)

	var itemRepo repository.ItemRepository
	switch cfg.Items.Storage {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("esquema")
		}
		itemRepo = postgres.NewItemRepository(pool)
	default:
		itemRepo = memory.NewItemRepository()
	}
	itemUC := usecase.NewItemUseCase(itemRepo, categories)

	if cfg.Items.SeedFile != "" && cfg.Items.Storage == "memory" {
		if err := seed(ctx, itemUC, cfg.Items.SeedFile); err != nil {
			log.Fatal().Err(err).Str("file", cfg.Items.SeedFile).Msg("semilla")
		}
		log.Info().Str("file", cfg.Items.SeedFile).Msg("semilla cargada")
	}

	authUC := auth.NewAuthUseCase(auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, auth.Client{ID: cfg.JWT.ClientID, SecretHash: cfg.JWT.ClientSecretHash})
	if authUC.Enabled() && cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_CLIENT_ID requiere JWT_SECRET")
	}

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		Storage:     cfg.Items.Storage,
		SwaggerFile: "./docs/swagger.json",
	}, httpRouter.RouterDeps{
		ItemUC:    itemUC,
		AuthUC:    authUC,
		Logger:    log,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func seed(ctx context.Context, uc *usecase.ItemUseCase, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	items, err := usecase.ParseSeed(f)
	if err != nil {
		return err
	}
	_, err = uc.Import(ctx, items)
	return err
}
