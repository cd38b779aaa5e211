package api

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/alertdash/alertdash-server/internal/archive"
	"github.com/alertdash/alertdash-server/internal/chart"
	"github.com/alertdash/alertdash-server/internal/domain"
	domainerrors "github.com/alertdash/alertdash-server/internal/errors"
	"github.com/alertdash/alertdash-server/internal/report"
)

//go:embed templates/*.html
var templates embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templates, "templates/dashboard.html"))

// pageError is the error panel shown above the dashboard.
type pageError struct {
	Code    string
	Message string
	Details any
}

// dashboardPageData contains data for the dashboard template.
type dashboardPageData struct {
	Profiles   []domain.Profile
	Profile    domain.Profile
	UploadURL  string
	Extraction *archive.Extraction
	Error      *pageError

	Report    *report.Report
	Columns   []domain.Field
	Rows      []domain.Row
	Truncated bool
	Selected  map[string]bool

	PrimaryChart  string
	ActivityChart string
	Legend        []chart.Legend
	Heatmap       *chart.HeatmapView
	BotTexts      *chart.HBarView
}

// handleDashboard serves the dashboard page.
// GET /?variant=<name>&subtype=<a>&subtype=<b>
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r, nil)
}

// renderDashboard builds the page for the query of r. A non-nil uploadErr is shown
// in the error panel and sets the response status.
func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, uploadErr error) {
	q := r.URL.Query()
	variant := q.Get("variant")
	if variant == "" {
		variant = string(s.reports.DefaultVariant())
	}
	subtypes := selectedSubtypes(q["subtype"])

	data := dashboardPageData{
		Profiles:  domain.Profiles(),
		UploadURL: "/upload",
		Selected:  make(map[string]bool, len(subtypes)),
	}
	for _, st := range subtypes {
		data.Selected[st] = true
	}

	status := http.StatusOK
	fail := func(err error) {
		status = domainerrors.CodeOf(err).HTTPStatus()
		data.Error = toPageError(err)
	}

	profile, ok := domain.LookupProfile(variant)
	if ok {
		data.Profile = profile
		data.UploadURL = "/upload?variant=" + string(profile.Variant)
	} else {
		fail(domainerrors.Validationf("unknown variant %q", variant))
	}

	if uploadErr != nil {
		fail(uploadErr)
	}

	ext, err := s.reports.Current()
	switch {
	case domainerrors.Is(err, domainerrors.ErrNoExtraction):
		// First visit: only the upload form.
	case err != nil:
		s.logger.Error("Failed to read extraction", "error", err)
		fail(err)
	case data.Error == nil:
		data.Extraction = ext
		rep, err := s.reports.Build(r.Context(), report.Options{Variant: variant, Subtypes: subtypes})
		if err != nil {
			fail(err)
			break
		}
		s.fillReport(&data, rep, subtypes)
	default:
		data.Extraction = ext
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("Failed to execute dashboard template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", CacheNoStore)
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) fillReport(data *dashboardPageData, rep *report.Report, subtypes []string) {
	p := rep.Profile
	data.Report = rep
	data.Columns = p.RowFields()

	data.Rows = rep.Rows
	if len(data.Rows) > MaxTableRows {
		data.Rows = data.Rows[:MaxTableRows]
		data.Truncated = true
	}

	if !rep.Primary.Empty() {
		data.PrimaryChart = chartURL(p.Variant, ChartPrimary, subtypes)
	}
	if rep.Activity != nil && !rep.Activity.Empty() {
		data.ActivityChart = chartURL(p.Variant, ChartActivity, subtypes)
		data.Legend = chart.WeekdayLegend()
	}

	if rep.Heatmap != nil {
		title := p.HeatmapY.Label() + " by " + p.HeatmapX.Label()
		if hm, err := chart.Heatmap(*rep.Heatmap, title); err == nil {
			data.Heatmap = &hm
		} else if !errors.Is(err, chart.ErrNoData) {
			s.logger.Warn("Failed to build heatmap", "run_id", rep.RunID, "error", err)
		}
	}

	if rep.BotTexts != nil {
		if hb, err := chart.HBars(*rep.BotTexts, "Bot message texts"); err == nil {
			data.BotTexts = &hb
		} else if !errors.Is(err, chart.ErrNoData) {
			s.logger.Warn("Failed to build bot text chart", "run_id", rep.RunID, "error", err)
		}
	}
}

func toPageError(err error) *pageError {
	var domainErr *domainerrors.Error
	if domainerrors.As(err, &domainErr) {
		return &pageError{
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Details: domainErr.Details,
		}
	}
	return &pageError{
		Code:    string(domainerrors.CodeInternal),
		Message: "internal server error",
	}
}
