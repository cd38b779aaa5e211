package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/alertdash/alertdash-server/internal/domain"
)

func (s *Server) registerVariantRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listVariants",
		Method:      http.MethodGet,
		Path:        "/api/v1/variants",
		Summary:     "List variants",
		Description: "Returns every dashboard variant with its defaults and charts",
		Tags:        []string{"Reports"},
	}, s.handleListVariants)
}

// VariantsResponse lists the variant catalogue.
type VariantsResponse struct {
	Default  domain.Variant   `json:"default" doc:"Variant used when a request names none"`
	Variants []domain.Profile `json:"variants" doc:"Variant profiles in catalogue order"`
}

// VariantsOutput wraps the variants response for Huma.
type VariantsOutput struct {
	Body VariantsResponse
}

func (s *Server) handleListVariants(_ context.Context, _ *struct{}) (*VariantsOutput, error) {
	return &VariantsOutput{
		Body: VariantsResponse{
			Default:  s.reports.DefaultVariant(),
			Variants: domain.Profiles(),
		},
	}, nil
}
