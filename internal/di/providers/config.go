// Package providers contains dependency injection providers for the alert dashboard server.
package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/alertdash/alertdash-server/internal/config"
	"github.com/alertdash/alertdash-server/internal/logger"
)

// Args holds the command line arguments handed to config.LoadConfig.
type Args []string

// Version is the build version reported in the OpenAPI document.
type Version string

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig(do.MustInvoke[Args](i))
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*slog.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting alert dashboard server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"work_dir", cfg.Archive.WorkDir,
		"alerts_dir", cfg.Archive.AlertsDir,
		"timezone", cfg.Report.Location.String(),
		"default_variant", cfg.Report.DefaultVariant,
		"version", string(do.MustInvoke[Version](i)),
	)

	return log, nil
}
