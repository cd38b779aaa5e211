package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/alertdash/alertdash-server/internal/archive"
	"github.com/alertdash/alertdash-server/internal/config"
	"github.com/alertdash/alertdash-server/internal/domain"
	"github.com/alertdash/alertdash-server/internal/flatten"
	"github.com/alertdash/alertdash-server/internal/report"
	"github.com/alertdash/alertdash-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(_ do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideArchiveLoader provides the loader that owns the extraction directory.
func ProvideArchiveLoader(i do.Injector) (*archive.Loader, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	return archive.NewLoader(cfg.Archive.WorkDir, cfg.Archive.AlertsDir, log), nil
}

// ProvideFlattener provides the record flattener in the configured timezone.
func ProvideFlattener(i do.Injector) (*flatten.Flattener, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return flatten.New(cfg.Report.Location), nil
}

// ProvideReportService provides the pipeline service.
func ProvideReportService(i do.Injector) (*report.Service, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)
	loader := do.MustInvoke[*archive.Loader](i)
	flattener := do.MustInvoke[*flatten.Flattener](i)
	v := do.MustInvoke[*validation.Validator](i)

	svc := report.NewService(loader, flattener, v, domain.Variant(cfg.Report.DefaultVariant), log.With("component", "report"))

	if ext, err := svc.Current(); err == nil {
		log.Info("Existing extraction found", "extraction_id", ext.ID, "extracted_at", ext.ExtractedAt)
	}

	return svc, nil
}
