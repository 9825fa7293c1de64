package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"juros/internal/cache"
	applog "juros/internal/log"
	"juros/internal/middleware/ratelimit"
	"juros/internal/middleware/security"
	"juros/internal/middleware/trace"
	"juros/internal/rates"
	"juros/internal/services"
	appweb "juros/web"
)

// CheckFunc is a readiness probe for an external dependency.
type CheckFunc func(ctx context.Context) error

// Deps are the collaborators the server needs. Service, Catalog and Logger are
// required; a nil Limiter disables rate limiting.
type Deps struct {
	Service *services.ProjectionService
	Catalog rates.Catalog
	Limiter ratelimit.Limiter
	Logger  *applog.Logger

	// Checks are run by /readyz in addition to the template and catalog checks.
	Checks map[string]CheckFunc
	// CacheStats reports the reference-rate cache on /metrics when set.
	CacheStats func() cache.Stats
	// ActiveClients reports tracked rate-limit clients on /metrics when set.
	ActiveClients func() int
}

type Server struct {
	http.Server
	templates *template.Template
	service   *services.ProjectionService
	catalog   rates.Catalog
	logger    *applog.Logger

	checks        map[string]CheckFunc
	cacheStats    func() cache.Stats
	activeClients func() int

	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware
	rateLimitMetrics *ratelimit.MetricsCollector

	started time.Time
}

// NewServer configures routes, templates and middleware, returning a
// ready-to-run http.Server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.Discard()
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	s := &Server{
		service:          deps.Service,
		catalog:          deps.Catalog,
		logger:           logger,
		checks:           deps.Checks,
		cacheStats:       deps.CacheStats,
		activeClients:    deps.ActiveClients,
		securityDetector: security.NewDetector(),
		rateLimitMetrics: ratelimit.NewMetricsCollector(),
		started:          time.Now(),
	}
	s.traceMiddleware = trace.NewMiddleware(s.securityDetector.ExtractClientIP)

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Error("Failed parsing templates",
			applog.FieldOperation, applog.OpParse,
			applog.FieldError, err.Error())
	} else {
		s.templates = t
	}

	mux := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err.Error())
	}

	limit := func(h http.HandlerFunc) http.Handler { return h }
	if deps.Limiter != nil {
		mw := ratelimit.Middleware(deps.Limiter, s.rateLimitMetrics, s.securityDetector.ExtractClientIP, s.handleRateLimited)
		limit = func(h http.HandlerFunc) http.Handler { return mw(h) }
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.Handle("/projection", limit(s.handleProjection))
	mux.Handle("/api/projection", limit(s.handleAPIProjection))
	mux.HandleFunc("/api/reference-rates", s.handleReferenceRates)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	var handler http.Handler = mux
	handler = s.securityDetector.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)
	handler = applog.Middleware(logger)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening",
			applog.FieldOperation, applog.OpStartup,
			"addr", s.Addr)
		errCh <- s.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("Shutting down HTTP server", applog.FieldOperation, applog.OpShutdown)
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "60")
	if r.URL.Path == "/api/projection" {
		writeJSONError(w, http.StatusTooManyRequests, msgRateLimited, "")
		return
	}
	ErrorResponse(http.StatusTooManyRequests, msgRateLimited).Write(w)
}
