package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/neuronpad/internal"
	"github.com/starford/neuronpad/internal/ai"
	pkgconfig "github.com/starford/neuronpad/pkg/config"
)

// loadConfig reads the --config file over the defaults. Client commands may
// run without a file.
func loadConfig(cmd *cli.Command, optional bool) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	load := pkgconfig.Load[internal.Config]
	if optional {
		load = pkgconfig.LoadOptional[internal.Config]
	}
	if err := load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}

	if err := internal.RunMCP(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}
	return nil
}

func transformAction(kind ai.Kind) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd, true)
		if err != nil {
			return err
		}

		url := cfg.Gateway.URL
		if u := cmd.String("url"); u != "" {
			url = u
		}
		token := ""
		if cfg.Auth.AuthEnabled() {
			token = cfg.Auth.Token
		}

		text, err := inputText(cmd.Args().Slice(), os.Stdin)
		if err != nil {
			return err
		}

		out, err := ai.NewClient(url, token, nil).Transform(ctx, kind, text)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(os.Stdout, out)
		return err
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "neuronpad",
		Usage:  "Note store with automatic categorisation, search and AI text transforms",
		Action: run,
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
				Name:   "mcp",
				Usage:  "Serve notes and text transforms to an MCP client over stdio",
				Action: runMCP,
			},
			{
				Name:  "ai",
				Usage: "Send text to a running server's transform routes",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "url",
						Usage:   "Server base URL (overrides gateway.url)",
						Sources: cli.EnvVars("NEURONPAD_GATEWAY_URL"),
					},
				},
				Commands: []*cli.Command{
					{
						Name:      "summarize",
						Usage:     "Summarize text (reads stdin when no argument is given)",
						ArgsUsage: "[text]",
						Action:    transformAction(ai.Summarize),
					},
					{
						Name:      "grammar",
						Usage:     "Correct grammar (reads stdin when no argument is given)",
						ArgsUsage: "[text]",
						Action:    transformAction(ai.GrammarFix),
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
