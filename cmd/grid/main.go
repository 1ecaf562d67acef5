// grid es el cliente de terminal del grid editable de ítems.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/docopt/docopt-go"

	"github.com/jhoicas/items-grid/internal/application/auth"
	"github.com/jhoicas/items-grid/internal/application/grid"
	"github.com/jhoicas/items-grid/internal/domain/entity"
	"github.com/jhoicas/items-grid/internal/infrastructure/itemsapi"
	"github.com/jhoicas/items-grid/internal/interfaces/cli"
	"github.com/jhoicas/items-grid/pkg/config"
	"github.com/jhoicas/items-grid/pkg/jwt"
	"github.com/jhoicas/items-grid/pkg/logger"
	"github.com/jhoicas/items-grid/pkg/money"
)

const version = "0.1.0"

const usage = `Grid editable de ítems.

La URL por defecto se toma de ITEMS_URL (http://localhost:3000/items).

Usage:
    grid shell [--url=<url>] [--token=<token>]
    grid list [--url=<url>] [--token=<token>] [--category=<category>]
    grid export <file> [--url=<url>] [--token=<token>] [--category=<category>]
    grid token [--secret=<secret>] [--subject=<subject>]
    grid hash-secret <client_secret>
    grid -h | --help
    grid --version

Options:
    -h --help                  Mostrar esta ayuda.
    --version                  Mostrar versión.
    --url=<url>                URL de la colección /items.
    --token=<token>            Bearer para el servidor de ítems.
    --category=<category>      Filtro de categoría [default: All].
    --secret=<secret>          Secreto HS256 (por defecto JWT_SECRET).
    --subject=<subject>        Sujeto del token [default: grid].`

func main() {
	os.Exit(run())
}

// run ejecuta el comando y devuelve el código de salida.
func run() int {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		return 1
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if tokenCmd, _ := opts.Bool("token"); tokenCmd {
		return token(opts, cfg)
	}
	if hashCmd, _ := opts.Bool("hash-secret"); hashCmd {
		secret, _ := opts.String("<client_secret>")
		hash, err := auth.HashSecret(secret)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hash: %v\n", err)
			return 1
		}
		fmt.Println(hash)
		return 0
	}

	if url, _ := opts.String("--url"); url != "" {
		cfg.Items.URL = url
	}
	if tok, _ := opts.String("--token"); tok != "" {
		cfg.Items.Token = tok
	}

	client := itemsapi.NewClient(itemsapi.Config{
		URL:     cfg.Items.URL,
		Timeout: cfg.Items.Timeout,
		Token:   cfg.Items.Token,
	}, log)
	g := grid.New(client, grid.Config{
		Categories:     entity.NewCategorySet(cfg.Grid.Categories...),
		DebounceWindow: cfg.Grid.Debounce,
		DismissAfter:   cfg.Grid.DismissAfter,
	}, log)
	defer g.Close()

	sh := cli.NewShell(g, os.Stdout, cli.Options{Money: money.NewFormatter(cfg.Grid.Locale)})

	if shellCmd, _ := opts.Bool("shell"); shellCmd {
		_, _ = sh.Exec(ctx, "load")
		if err := sh.Run(ctx, os.Stdin, true); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("shell")
			return 1
		}
		return 0
	}

	// list / export: una sola pasada sin interacción.
	if _, err := sh.Exec(ctx, "load"); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	category, _ := opts.String("--category")
	if category == "" {
		category = string(entity.CategoryAll)
	}
	if err := sh.Filter(category); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if exportCmd, _ := opts.Bool("export"); exportCmd {
		file, _ := opts.String("<file>")
		if err := sh.Export(file); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}
	if n := g.Notification(); n.Visible && n.Severity == grid.SeverityError {
		return 1
	}
	return 0
}

func token(opts docopt.Opts, cfg *config.Config) int {
	secret, _ := opts.String("--secret")
	if secret == "" {
		secret = cfg.JWT.Secret
	}
	if secret == "" {
		fmt.Fprintln(os.Stderr, "falta --secret o JWT_SECRET")
		return 1
	}
	subject, _ := opts.String("--subject")
	t, err := jwt.Generate(secret, subject, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "token: %v\n", err)
		return 1
	}
	fmt.Println(t)
	return 0
}
