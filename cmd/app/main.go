package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/pokedex/internal"
	pkgconfig "github.com/starford/pokedex/pkg/config"
)

var version = "dev"

func run(mode internal.Mode) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		configPath := cmd.String("config")

		cfg := internal.NewDefaultConfig()
		found, err := pkgconfig.LoadIfExists(configPath, cfg)
		if err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
		if !found {
			slog.Info("config file not found, using defaults", slog.String("path", configPath))
		}

		opts := []internal.Option{
			internal.WithConfig(cfg),
			internal.WithConfigPath(configPath),
			internal.WithMode(mode),
			internal.WithVersion(version),
		}

		if err := internal.Run(ctx, opts...); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}

		return nil
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "pokedex",
		Usage:   "Browse the PokeAPI catalog over HTTP, in the terminal, or as MCP tools",
		Version: version,
		Action:  run(internal.ModeServe),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API with server-sent events",
				Action: run(internal.ModeServe),
			},
			{
				Name:   "tui",
				Usage:  "Browse the catalog in the terminal",
				Action: run(internal.ModeTUI),
			},
			{
				Name:   "mcp",
				Usage:  "Expose the catalog as MCP tools over stdio",
				Action: run(internal.ModeMCP),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
