// Package api assembles the dittodrive REST surface: router, middleware
// stack, and HTTP server lifecycle.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/dittodrive/internal/api/handlers"
	apimiddleware "github.com/marmos91/dittodrive/internal/api/middleware"
	"github.com/marmos91/dittodrive/internal/logger"
	"github.com/marmos91/dittodrive/pkg/drive/identity"
	"github.com/marmos91/dittodrive/pkg/drive/service"
	"github.com/marmos91/dittodrive/pkg/drive/store"
	"github.com/marmos91/dittodrive/pkg/metrics"
)

// RouterConfig carries the router's tunables.
type RouterConfig struct {
	// RequestTimeout is the per-request handler timeout.
	RequestTimeout time.Duration

	// DefaultQuotaLimit is assigned to users provisioned on first login.
	DefaultQuotaLimit int64

	// MetricsEnabled exposes /metrics and installs request metrics.
	MetricsEnabled bool
}

// NewRouter creates and configures the chi router with all middleware and
// routes.
//
// Routes:
//   - GET /health - Liveness probe
//   - GET /health/ready - Readiness probe
//   - GET /metrics - Prometheus metrics (when enabled)
//   - GET /api/v1/auth/me - Current user info
//   - /api/v1/files/* - File lifecycle, sharing, stars, links
//   - /api/v1/shared/* - Shared-link access (anonymous allowed)
func NewRouter(svc *service.DriveService, tokens *identity.TokenService, st store.Store, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	httpMetrics := metrics.NewHTTPMetrics()
	driveMetrics := metrics.NewDriveMetrics()

	// Middleware stack - order matters
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	r.Use(apimiddleware.Metrics(httpMetrics))

	healthHandler := handlers.NewHealthHandler(st)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	if cfg.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	// Root redirect to health for convenience
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	auth := apimiddleware.NewAuthenticator(tokens, st, cfg.DefaultQuotaLimit)
	fileHandler := handlers.NewFileHandler(svc, driveMetrics)
	sharedHandler := handlers.NewSharedHandler(svc)
	authHandler := handlers.NewAuthHandler(st)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.Required)
			r.Get("/auth/me", authHandler.Me)
		})

		r.Route("/files", func(r chi.Router) {
			// Authenticated routes
			r.Group(func(r chi.Router) {
				r.Use(auth.Required)

				r.Post("/upload-url", fileHandler.UploadURL)
				r.Post("/confirm-upload", fileHandler.ConfirmUpload)
				r.Get("/", fileHandler.List)
				r.Get("/trash", fileHandler.Trash)
				r.Get("/starred", fileHandler.Starred)
				r.Get("/storage", fileHandler.Storage)

				r.Put("/{id}", fileHandler.Rename)
				r.Delete("/{id}", fileHandler.SoftDelete)
				r.Post("/{id}/restore", fileHandler.Restore)
				r.Delete("/{id}/permanent", fileHandler.PermanentDelete)
				r.Post("/{id}/share", fileHandler.Share)
				r.Post("/{id}/share-email", fileHandler.ShareByEmail)
				r.Post("/{id}/public", fileHandler.MakePublic)
				r.Post("/{id}/private", fileHandler.MakePrivate)
				r.Post("/{id}/star", fileHandler.Star)
				r.Delete("/{id}/star", fileHandler.Unstar)
			})

			// Anonymous allowed: access control decides per file, so
			// public files work without a token.
			r.Group(func(r chi.Router) {
				r.Use(auth.Optional)

				r.Get("/{id}", fileHandler.Get)
				r.Get("/{id}/download", fileHandler.Download)
				r.Get("/{id}/view", fileHandler.View)
			})
		})

		r.Route("/shared", func(r chi.Router) {
			r.Use(auth.Optional)

			r.Get("/{fileId}", sharedHandler.Get)
			r.Get("/{fileId}/view", sharedHandler.View)
			r.Get("/{fileId}/download", sharedHandler.Download)
		})
	})

	return r
}

// isHealthPath returns true if the request path is a healthcheck endpoint.
func isHealthPath(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/health/")
}

// requestLogger logs requests using the internal logger.
//
// Request start is logged at DEBUG, completion at INFO. Healthcheck
// requests complete at DEBUG to reduce noise.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := chimiddleware.GetReqID(r.Context())

		logger.Debug("API request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)

		logArgs := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration.String(),
		}

		if isHealthPath(r.URL.Path) {
			logger.Debug("API request completed", logArgs...)
		} else {
			logger.Info("API request completed", logArgs...)
		}
	})
}
