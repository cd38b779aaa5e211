package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alertdash/alertdash-server/internal/chart"
	domainerrors "github.com/alertdash/alertdash-server/internal/errors"
	"github.com/alertdash/alertdash-server/internal/http/response"
	"github.com/alertdash/alertdash-server/internal/report"
)

// Chart names served under /charts/{variant}/{chart}.
const (
	ChartPrimary  = "primary"
	ChartActivity = "activity"
)

// handleChart renders one chart of a variant as SVG.
// GET /charts/{variant}/{chart}?subtype=a&subtype=b
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "chart")
	if name != ChartPrimary && name != ChartActivity {
		response.NotFound(w, "unknown chart "+name, s.logger)
		return
	}

	rep, err := s.reports.Build(r.Context(), report.Options{
		Variant:  chi.URLParam(r, "variant"),
		Subtypes: selectedSubtypes(r.URL.Query()["subtype"]),
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	svg, err := renderChart(rep, name)
	if err != nil {
		if errors.Is(err, chart.ErrNoData) || domainerrors.Is(err, domainerrors.ErrNotFound) {
			response.NotFound(w, err.Error(), s.logger)
			return
		}
		s.logger.Error("Failed to render chart", "chart", name, "run_id", rep.RunID, "error", err)
		response.InternalError(w, "failed to render chart", s.logger)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", CacheNoStore)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func renderChart(rep *report.Report, name string) ([]byte, error) {
	p := rep.Profile
	switch name {
	case ChartActivity:
		if rep.Activity == nil {
			return nil, domainerrors.NotFoundf("variant %s has no activity chart", p.Variant)
		}
		return chart.Grouped(*rep.Activity, chart.Options{Title: "Bot messages by hour and weekday", YLabel: "messages"})
	default:
		return chart.Bar(rep.Primary, chart.Options{Title: p.Title, YLabel: "records"})
	}
}
