package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/blueprints-backend/internal/app"
	"github.com/yungbote/blueprints-backend/internal/platform/logger"
)

var rootCmd = &cobra.Command{
	Use:   "blueprints",
	Short: "Blueprints backend",
	Long: `Blueprints stores named, authored drawings made of ordered integer points.

Running without a subcommand starts the HTTP API (same as "blueprints serve").
Configuration is read from the environment; see internal/app/config.go.`,
	RunE:               runServe,
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

func Execute() error {
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

func SetVersionInfo(v, c, d string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

// bootstrap loads config and a logger for the configured mode.
func bootstrap() (app.Config, *logger.Logger, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return app.Config{}, nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return app.Config{}, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
