package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"github.com/veleda/muninn/internal"
	pkgconfig "github.com/veleda/muninn/pkg/config"
)

const defaultConfigPath = "config/config.yaml"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	found, err := pkgconfig.LoadIfExists(configPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if !found {
		if cmd.IsSet("config") {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		// No config file at the default location: run on built-in defaults.
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}

	return cfg, nil
}

func withConfig(run func(context.Context, ...internal.Option) error) func(context.Context, *cli.Command) error {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if err := run(ctx, internal.WithConfig(cfg)); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}

		return nil
	}
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: defaultConfigPath,
		Value:       defaultConfigPath,
		Sources:     cli.EnvVars("MUNINN_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:  "muninn",
		Usage: "Publishes staged LaTeX notes as a Quarto site with search, live preview, and MCP access",
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Convert staged LaTeX notes into the Quarto site once",
				Flags:  []cli.Flag{configFlag},
				Action: withConfig(internal.RunBuild),
			},
			{
				Name:   "watch",
				Usage:  "Rebuild the site whenever the staging tree changes",
				Flags:  []cli.Flag{configFlag},
				Action: withConfig(internal.RunWatch),
			},
			{
				Name:   "serve",
				Usage:  "Serve the generated site with the preview API and live rebuild events",
				Flags:  []cli.Flag{configFlag},
				Action: withConfig(internal.RunServe),
			},
			{
				Name:   "mcp",
				Usage:  "Expose the generated site to LLM clients over MCP stdio",
				Flags:  []cli.Flag{configFlag},
				Action: withConfig(internal.RunMCP),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
