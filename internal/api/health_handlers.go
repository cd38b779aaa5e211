package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/alertdash/alertdash-server/internal/errors"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status and whether an archive is loaded",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	components := make(map[string]ComponentHealth)
	overall := "healthy"

	extraction := s.checkExtraction()
	components["extraction"] = extraction
	if extraction.Status == "unhealthy" {
		overall = "unhealthy"
	}

	uploads := s.checkUploadLimiter()
	components["uploads"] = uploads
	if uploads.Status != "healthy" && overall == "healthy" {
		overall = "degraded"
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkExtraction reports whether an archive has been uploaded and can be read.
// No upload yet is healthy: the dashboard simply shows the upload form.
func (s *Server) checkExtraction() ComponentHealth {
	if s.reports == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "report service not configured",
		}
	}

	start := time.Now()
	ext, err := s.reports.Current()
	latency := time.Since(start)

	switch {
	case domainerrors.Is(err, domainerrors.ErrNoExtraction):
		return ComponentHealth{
			Status:  "healthy",
			Latency: latency.String(),
			Message: "no archive uploaded",
		}
	case err != nil:
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "extraction directory unreadable",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
		Message: fmt.Sprintf("archive %s loaded, %d entries", ext.ID, ext.Entries),
	}
}

// checkUploadLimiter reports the number of clients the upload limiter tracks.
func (s *Server) checkUploadLimiter() ComponentHealth {
	if s.uploadLimiter == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "upload rate limiting disabled",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Message: formatClientCount(s.uploadLimiter.Len()),
	}
}

func formatClientCount(n int) string {
	if n == 1 {
		return "1 tracked client"
	}
	return fmt.Sprintf("%d tracked clients", n)
}
