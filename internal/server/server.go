// Package server provides the HTTP REST API for the careers portal.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jonathan/careers-portal/internal/cache"
	"github.com/jonathan/careers-portal/internal/config"
	"github.com/jonathan/careers-portal/internal/events"
	"github.com/jonathan/careers-portal/internal/llm"
	"github.com/jonathan/careers-portal/internal/logger"
	"github.com/jonathan/careers-portal/internal/metrics"
	"github.com/jonathan/careers-portal/internal/notify"
	"github.com/jonathan/careers-portal/internal/rendering"
	"github.com/jonathan/careers-portal/internal/server/middleware"
	"github.com/jonathan/careers-portal/internal/server/ratelimit"
	"github.com/jonathan/careers-portal/internal/storage"
	"github.com/jonathan/careers-portal/internal/types"
)

const defaultMaxResumeBytes = 10 << 20

// Deps are the collaborators of the server. Only Config and Store are
// required; the rest fall back to no-op implementations.
type Deps struct {
	Config      *config.Config
	Store       Store
	Log         logger.Logger
	Writer      *llm.Writer
	Extractor   ResumeExtractor
	Files       storage.ResumeStore
	Cache       cache.Cache
	Events      events.Publisher
	Mailer      notify.Mailer
	PDF         rendering.PDFRenderer
	RateLimiter *ratelimit.Limiter
}

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	handler      http.Handler
	cfg          *config.Config
	store        Store
	log          logger.Logger
	writer       *llm.Writer
	cache        cache.Cache
	events       events.Publisher
	mailer       notify.Mailer
	pdf          rendering.PDFRenderer
	rateLimiter  *ratelimit.Limiter
	jwtService   *JWTService
	adminService *AdminService
	applications *ApplicationService
	corsOrigins  []string
	maxResume    int64
}

// New wires the server and its routes.
func New(deps Deps) (*Server, error) {
	if deps.Config == nil || deps.Store == nil {
		return nil, fmt.Errorf("server requires config and store")
	}
	cfg := deps.Config

	s := &Server{
		cfg:         cfg,
		store:       deps.Store,
		log:         deps.Log,
		writer:      deps.Writer,
		cache:       deps.Cache,
		events:      deps.Events,
		mailer:      deps.Mailer,
		pdf:         deps.PDF,
		rateLimiter: deps.RateLimiter,
		corsOrigins: cfg.CORSOriginList(),
		maxResume:   cfg.Uploads.MaxResumeBytes,
	}
	if s.log == nil {
		s.log = logger.NewNoOpLogger()
	}
	if s.writer == nil {
		s.writer = llm.NewWriter(nil, "", s.log)
	}
	if s.cache == nil {
		s.cache = cache.Noop{}
	}
	if s.events == nil {
		s.events = events.Noop{}
	}
	if s.mailer == nil {
		s.mailer = notify.Noop{}
	}
	if s.pdf == nil {
		s.pdf = rendering.NewChrome(cfg.Chrome.Timeout)
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}
	if s.maxResume <= 0 {
		s.maxResume = defaultMaxResumeBytes
	}
	files := deps.Files
	if files == nil {
		files = storage.Inline{}
	}
	if deps.Extractor == nil {
		return nil, fmt.Errorf("server requires a resume extractor")
	}

	passwordConfig, err := cfg.Password()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := cfg.JWT()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.adminService = NewAdminService(s.store, passwordConfig, cfg.Admin)
	s.applications = &ApplicationService{
		store:     s.store,
		extractor: deps.Extractor,
		files:     files,
		writer:    s.writer,
		events:    s.events,
		mailer:    s.mailer,
		cache:     s.cache,
		log:       s.log,
	}

	s.handler = s.withRateLimit(s.withLogging(s.withMetrics(s.withCORS(s.routes()))))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	admin := middleware.RequireAdmin(s.jwtService.AsTokenValidator())
	protect := func(h http.HandlerFunc) http.Handler { return admin(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/{$}", s.handleBanner)
	mux.Handle("GET /metrics", metrics.Handler())

	// Contact
	mux.HandleFunc("POST /api/contact", s.handleCreateContact)
	mux.Handle("GET /api/contact", protect(s.handleListContacts))

	// Jobs
	mux.Handle("POST /api/jobs", protect(s.handleCreateJob))
	mux.HandleFunc("GET /api/jobs", s.handleListJobs)
	mux.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)
	mux.Handle("PUT /api/jobs/{id}", protect(s.handleUpdateJob))
	mux.Handle("PUT /api/jobs/{id}/status", protect(s.handleUpdateJobStatus))
	mux.Handle("DELETE /api/jobs/{id}", protect(s.handleDeleteJob))

	// Applications
	mux.HandleFunc("POST /api/applications", s.handleSubmitApplication)
	mux.Handle("GET /api/applications", protect(s.handleListApplications))
	mux.HandleFunc("GET /api/applications/by-email", s.handleApplicationsByEmail)
	mux.Handle("GET /api/applications/export", protect(s.handleExportApplications))
	mux.Handle("GET /api/applications/{id}", protect(s.handleGetApplication))
	mux.Handle("PUT /api/applications/{id}/status", protect(s.handleUpdateApplicationStatus))
	mux.Handle("GET /api/applications/{id}/resume", protect(s.handleDownloadResume))

	// Blog
	mux.Handle("POST /api/blog", protect(s.handleCreateBlogPost))
	mux.HandleFunc("GET /api/blog", s.handleListBlogPosts)
	mux.HandleFunc("GET /api/blog/{slug}", s.handleGetBlogPost)
	mux.Handle("PUT /api/blog/{slug}", protect(s.handleUpdateBlogPost))
	mux.Handle("DELETE /api/blog/{slug}", protect(s.handleDeleteBlogPost))
	mux.HandleFunc("POST /api/blog/{slug}/summarize", s.handleSummarizeBlogPost)

	// Marketing content
	mux.Handle("POST /api/testimonials", protect(s.handleCreateTestimonial))
	mux.HandleFunc("GET /api/testimonials", s.handleListTestimonials)
	mux.Handle("POST /api/testimonials/generate", protect(s.handleGenerateTestimonial))
	mux.Handle("POST /api/projects", protect(s.handleCreateProject))
	mux.HandleFunc("GET /api/projects", s.handleListProjects)
	mux.HandleFunc("GET /api/projects/search", s.handleSearchProjects)
	mux.Handle("POST /api/case-studies", protect(s.handleCreateCaseStudy))
	mux.HandleFunc("GET /api/case-studies", s.handleListCaseStudies)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/chat/stream", s.handleChatStream)

	// Resume builder
	mux.HandleFunc("POST /api/resumes", s.handleCreateResume)
	mux.HandleFunc("GET /api/resumes", s.handleListResumes)
	mux.HandleFunc("POST /api/resumes/score", s.handleScoreResume)
	mux.HandleFunc("GET /api/resumes/{id}", s.handleGetResume)
	mux.HandleFunc("GET /api/resumes/{id}/pdf", s.handleResumePDF)

	// Admin
	mux.HandleFunc("POST /api/admin/register", s.handleRegister)
	mux.HandleFunc("POST /api/admin/login", s.handleLogin)
	mux.Handle("GET /api/admin/me", protect(s.handleMe))
	mux.Handle("GET /api/admin/analytics", protect(s.handleAnalytics))

	return mux
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", map[string]interface{}{"addr": s.httpServer.Addr})
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	s.log.Info("shutting down server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.rateLimiter.Stop()
	s.log.Info("server stopped", nil)
	return nil
}

// allowedOrigin returns the Access-Control-Allow-Origin value for origin.
func (s *Server) allowedOrigin(origin string) string {
	for _, o := range s.corsOrigins {
		if o == "*" {
			return "*"
		}
		if origin != "" && strings.EqualFold(o, origin) {
			return origin
		}
	}
	return ""
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if allowed := s.allowedOrigin(r.Header.Get("Origin")); allowed != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			if allowed != "*" {
				w.Header().Add("Vary", "Origin")
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *statusRecorder) code() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// withMetrics records request count and latency per route pattern. The mux
// sets r.Pattern on the shared request while routing.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		metrics.ObserveRequest(r.Method, r.Pattern, rec.code(), time.Since(start).Seconds())
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		s.log.Info("request", map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.code(),
			"remote":      r.RemoteAddr,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractClientID uses the IP from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.log.Warn("rate limit exceeded", map[string]interface{}{
		"limit":    info.Limit,
		"reset_at": info.ResetTime.Format(time.RFC3339),
	})
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// handleHealth reports liveness and database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBanner(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"message": "Careers Portal API",
		"status":  "running",
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.WithError(err).Error("failed to encode JSON response", nil)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleError maps err to a status and logs server-side failures.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		})
	}
	s.errorResponse(w, status, PublicMessage(err))
}

// decodeJSON decodes and validates a request body.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := types.Validate(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "validation error: "+types.FirstError(err))
		return false
	}
	return true
}
