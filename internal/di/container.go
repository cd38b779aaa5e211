// Package di provides dependency injection configuration for the alert dashboard server.
package di

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/alertdash/alertdash-server/internal/archive"
	"github.com/alertdash/alertdash-server/internal/config"
	"github.com/alertdash/alertdash-server/internal/di/providers"
	"github.com/alertdash/alertdash-server/internal/flatten"
	"github.com/alertdash/alertdash-server/internal/report"
	"github.com/alertdash/alertdash-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
// args are the command line flags (without the program name).
func NewContainer(args []string, version string) *do.RootScope {
	injector := do.New()

	// Build inputs
	do.ProvideValue(injector, providers.Args(args))
	do.ProvideValue(injector, providers.Version(version))

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Pipeline
	do.Provide(injector, providers.ProvideArchiveLoader)
	do.Provide(injector, providers.ProvideFlattener)
	do.Provide(injector, providers.ProvideReportService)

	// Server
	do.Provide(injector, providers.ProvideUploadLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns the first provider error.
// Invoking the HTTP server starts it listening.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*slog.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)

	// Pipeline
	_ = do.MustInvoke[*archive.Loader](injector)
	_ = do.MustInvoke[*flatten.Flattener](injector)
	_ = do.MustInvoke[*report.Service](injector)

	// Server
	_ = do.MustInvoke[*providers.UploadLimiterHandle](injector)
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}

	return nil
}
