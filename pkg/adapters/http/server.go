// Package http exposes the ingestion service as a JSON API, mirroring the
// console frontend's contract: spool files with POST /upload, build the
// index with POST /upsert/{jobID}.
package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/scribe"
	"github.com/aretw0/scribe/internal/ingest"
	"github.com/aretw0/scribe/pkg/domain"
	"github.com/aretw0/scribe/pkg/observability"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed openapi.yaml
var openapiSpec []byte

// Ingestor defines the interface required from the ingestion service.
type Ingestor interface {
	CreateJob(ctx context.Context, files []ingest.Upload) (*domain.Job, []ingest.Rejected, error)
	Index(ctx context.Context, jobID string) (*domain.Job, error)
	Status(ctx context.Context, jobID string) (*domain.Job, error)
	List(ctx context.Context) ([]string, error)
}

// Server wires the ingestion service to HTTP handlers.
type Server struct {
	service    Ingestor
	metrics    *observability.Metrics
	gatherer   prometheus.Gatherer
	logger     *slog.Logger
	apiVersion string
}

// Option defines a functional option for configuring the Server.
type Option func(*Server)

// WithMetrics enables request instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithGatherer sets the registry exposed on /metrics
// (default: prometheus.DefaultGatherer).
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewHandler creates the HTTP handler. The embedded OpenAPI document is
// parsed and validated at startup so a drifted spec fails fast rather than
// serving stale documentation.
func NewHandler(service Ingestor, opts ...Option) (http.Handler, error) {
	s := &Server{
		service:  service,
		gatherer: prometheus.DefaultGatherer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}
	if doc.Info != nil {
		s.apiVersion = doc.Info.Version
	}

	r := chi.NewRouter()
	r.Use(s.instrument)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/upload", s.Upload)
	r.Post("/upsert/{jobID}", s.Upsert)
	r.Get("/jobs", s.ListJobs)
	r.Get("/jobs/{jobID}", s.GetJob)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// Swagger UI
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(openapiSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// instrument records request counts and latency per route.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		s.metrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "scribe-http",
		"version":     strings.TrimSpace(scribe.Version),
		"api_version": s.apiVersion,
	})
}

// Upload handles the POST /upload request: multipart files under the "files"
// key are spooled into a fresh job.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, ingest.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart request")
		s.logger.Warn("Upload: invalid multipart body", "err", err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "Use multipart key 'files'")
		return
	}

	uploads := make([]ingest.Upload, 0, len(headers))
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()

	var totalBytes int64
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Failed to read %s", h.Filename))
			return
		}
		opened = append(opened, f)
		totalBytes += h.Size
		uploads = append(uploads, ingest.Upload{Name: h.Filename, Data: f})
	}

	job, rejected, err := s.service.CreateJob(r.Context(), uploads)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Upload failed: %v", err))
		s.logger.Error("Upload failed", "err", err)
		return
	}

	if s.metrics != nil {
		s.metrics.UploadsTotal.Inc()
		s.metrics.UploadBytes.Add(float64(totalBytes))
	}

	saved := make([]string, 0, len(job.Documents))
	for _, d := range job.Documents {
		saved = append(saved, d.Name)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"job_id":   job.ID,
		"saved":    saved,
		"rejected": rejected,
	})
}

// Upsert handles the POST /upsert/{jobID} request: builds the index for a
// spooled job and removes its spool directory on success.
func (s *Server) Upsert(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, err := s.service.Index(r.Context(), jobID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrJobNotFound):
			writeError(w, http.StatusNotFound, "Invalid job_id")
		case errors.Is(err, domain.ErrNoDocuments):
			writeError(w, http.StatusBadRequest, "No PDFs found for this job")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
			s.logger.Error("Upsert failed", "job_id", jobID, "err", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"message":   "Upsert completed",
		"job_id":    job.ID,
		"pdf_count": len(job.Documents),
		"chunks":    job.Chunks,
	})
}

// ListJobs handles the GET /jobs request.
func (s *Server) ListJobs(w http.ResponseWriter, r *http.Request) {
	ids, err := s.service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		s.logger.Error("ListJobs failed", "err", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": ids})
}

// GetJob handles the GET /jobs/{jobID} request.
func (s *Server) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, err := s.service.Status(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "Invalid job_id")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		s.logger.Error("GetJob failed", "job_id", jobID, "err", err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// -- Helpers --

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"status": "error", "message": msg})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Scribe API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`
