package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vbonduro/depositdefender/internal/domain"
	"github.com/vbonduro/depositdefender/internal/metrics"
	"github.com/vbonduro/depositdefender/internal/service"
)

const defaultThumbnailCacheSize = 256

type Server struct {
	service *service.InspectionService
	router  chi.Router
	thumbs  *lru.Cache[string, []byte]
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewServer wires the JSON API. A cacheSize below 1 uses the default.
func NewServer(svc *service.InspectionService, m *metrics.Metrics, cacheSize int, logger *slog.Logger) (*Server, error) {
	if cacheSize < 1 {
		cacheSize = defaultThumbnailCacheSize
	}
	thumbs, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create thumbnail cache: %w", err)
	}
	s := &Server{
		service: svc,
		thumbs:  thumbs,
		metrics: m,
		logger:  logger,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler { return requestLogger(s.logger, next) })
	r.Use(securityHeaders)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/share/{token}", s.handleOpenShare)

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", s.handleStats)

		r.Route("/properties", func(r chi.Router) {
			r.Get("/", s.handleListProperties)
			r.Post("/", s.handleCreateProperty)
			r.Get("/{id}", s.handleGetProperty)
			r.Patch("/{id}", s.handleUpdateProperty)
			r.Delete("/{id}", s.handleDeleteProperty)
			r.Get("/{id}/inspections", s.handleListInspections)
			r.Post("/{id}/inspections", s.handleStartInspection)
		})

		r.Route("/inspections/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetInspection)
			r.Patch("/", s.handleUpdateInspection)
			r.Delete("/", s.handleDeleteInspection)
			r.Get("/details", s.handleInspectionDetails)
			r.Get("/progress", s.handleInspectionProgress)
			r.Post("/complete", s.handleCompleteInspection)
			r.Get("/rooms", s.handleListRooms)
			r.Post("/rooms", s.handleAddRoom)
			r.Get("/reports", s.handleListReports)
			r.Post("/reports", s.handleGenerateReport)
		})

		r.Route("/rooms/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetRoom)
			r.Patch("/", s.handleUpdateRoom)
			r.Delete("/", s.handleDeleteRoom)
			r.Post("/complete", s.handleCompleteRoom)
			r.Get("/items", s.handleListItems)
		})

		r.Route("/items/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetItem)
			r.Patch("/", s.handleUpdateItem)
			r.Get("/photos", s.handleListPhotos)
			r.Post("/photos", s.handleUploadPhoto)
		})

		r.Route("/photos/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetPhoto)
			r.Delete("/", s.handleDeletePhoto)
			r.Get("/image", s.handlePhotoImage)
			r.Get("/thumbnail", s.handlePhotoThumbnail)
			r.Get("/watermarked", s.handlePhotoWatermarked)
			r.Post("/assess", s.handleAssessPhoto)
		})

		r.Route("/reports/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetReport)
			r.Delete("/", s.handleDeleteReport)
			r.Get("/download", s.handleDownloadReport)
			r.Post("/share", s.handleShareReport)
		})
	})
	return r
}

// securityHeaders sets the standard browser hardening headers on every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; img-src 'self'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HTTPServer returns an http.Server for addr with the timeouts used in
// production. Callers own its lifecycle.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrLinkInvalid):
		return http.StatusGone
	case errors.Is(err, domain.ErrStorageExhausted):
		return http.StatusInsufficientStorage
	case errors.Is(err, service.ErrAssessUnavailable):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

const maxJSONBody = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request body: %w: %w", domain.ErrValidation, err)
	}
	return nil
}

// writeBlob sends stored bytes. Photos and reports never change once
// written, so they may be cached by clients.
func writeBlob(w http.ResponseWriter, contentType, filename string, data []byte) {
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Cache-Control", "private, max-age=31536000, immutable")
	if filename != "" {
		h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	_, _ = w.Write(data)
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
