package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/glamour"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/vision2ui/internal"
	pkgconfig "github.com/starford/vision2ui/pkg/config"
)

// loadConfig reads the --config file over the built-in defaults. A missing
// file is not an error.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	found, err := pkgconfig.LoadOptional(configPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if !found {
		slog.Debug("config file not found, using defaults", slog.String("path", configPath))
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}
	return nil
}

func list(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	names, err := internal.ListComponents(ctx, internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(cmd.Root().Writer, name)
	}
	return nil
}

func show(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return cli.Exit("component name is required", 2)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	content, err := internal.ComponentContent(ctx, name, internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
	if err != nil {
		return err
	}
	if cmd.Bool("raw") {
		_, err = io.WriteString(cmd.Root().Writer, content)
		return err
	}
	out, err := renderMarkdown(content, int(cmd.Int("width")))
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.Root().Writer, out)
	return err
}

// renderMarkdown renders a component document for the terminal.
func renderMarkdown(content string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := renderer.Render(content)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:   "vision2ui",
		Usage:  "UI component documentation server with REST and MCP interfaces",
		Action: serve,
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
				Usage:  "Run the REST server with file watching and change events",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the catalog over MCP on stdin/stdout",
				Action: serveMCP,
			},
			{
				Name:   "list",
				Usage:  "Print the names of all components",
				Action: list,
			},
			{
				Name:      "show",
				Usage:     "Render a component document in the terminal",
				ArgsUsage: "<component_name>",
				Action:    show,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "raw", Usage: "Print the markdown without rendering"},
					&cli.IntFlag{Name: "width", Usage: "Word wrap width", Value: 100},
				},
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
