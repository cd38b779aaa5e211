package providers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/alertdash/alertdash-server/internal/api"
	"github.com/alertdash/alertdash-server/internal/config"
	"github.com/alertdash/alertdash-server/internal/ratelimit"
	"github.com/alertdash/alertdash-server/internal/report"
)

// UploadLimiterHandle wraps the upload rate limiter with Shutdownable.
type UploadLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *UploadLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideUploadLimiter provides the per-client upload rate limiter.
func ProvideUploadLimiter(i do.Injector) (*UploadLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return &UploadLimiterHandle{
		KeyedRateLimiter: ratelimit.PerMinute(cfg.Upload.RatePerMinute, cfg.Upload.Burst),
	}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)
	reports := do.MustInvoke[*report.Service](i)
	limiter := do.MustInvoke[*UploadLimiterHandle](i)
	version := do.MustInvoke[Version](i)

	handler := api.NewServer(reports, limiter.KeyedRateLimiter, api.Options{
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		CORSOrigins:    cfg.Server.CORSOrigins,
		Version:        string(version),
	}, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
