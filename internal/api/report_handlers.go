package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/alertdash/alertdash-server/internal/report"
)

func (s *Server) registerReportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getReport",
		Method:      http.MethodGet,
		Path:        "/api/v1/report",
		Summary:     "Build report",
		Description: "Re-reads the uploaded archive and returns flattened rows and aggregated tables for one variant",
		Tags:        []string{"Reports"},
	}, s.handleGetReport)
}

// GetReportInput contains parameters for building a report.
type GetReportInput struct {
	Variant string `query:"variant" doc:"Variant name; the server default when empty"`
	Subtype string `query:"subtype" doc:"Comma-separated subtype filter; empty selects every subtype"`
}

// ReportOutput wraps the report for Huma.
type ReportOutput struct {
	Body *report.Report
}

func (s *Server) handleGetReport(ctx context.Context, input *GetReportInput) (*ReportOutput, error) {
	rep, err := s.reports.Build(ctx, report.Options{
		Variant:  input.Variant,
		Subtypes: splitSubtypes(input.Subtype),
	})
	if err != nil {
		s.logger.Warn("Failed to build report", "variant", input.Variant, "error", err)
		return nil, apiError(err)
	}

	return &ReportOutput{Body: rep}, nil
}
