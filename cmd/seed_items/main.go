// seed_items importa ítems desde un JSON (arreglo o {"items": [...]}) a PostgreSQL en una sola transacción.
//
// Uso: go run ./cmd/seed_items [ruta/db.json]
// Por defecto busca db.json en el directorio actual.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/items-grid/internal/application/usecase"
	"github.com/jhoicas/items-grid/internal/domain/entity"
	"github.com/jhoicas/items-grid/internal/domain/repository"
	"github.com/jhoicas/items-grid/internal/infrastructure/postgres"
	"github.com/jhoicas/items-grid/pkg/config"
)

func main() {
	path := "db.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir semilla: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	items, err := usecase.ParseSeed(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	categories := entity.NewCategorySet(cfg.Grid.Categories...)
	var n int
	err = postgres.NewTxRunner(pool).Run(ctx, func(repo repository.ItemRepository) error {
		var err error
		n, err = usecase.NewItemUseCase(repo, categories).Import(ctx, items)
		return err
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Importar: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Importados %d ítems desde %s\n", n, path)
}
