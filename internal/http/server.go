package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trust/internal/cache"
	"trust/internal/core"
	applog "trust/internal/log"
	"trust/internal/metrics"
	"trust/internal/middleware/ratelimit"
	"trust/internal/middleware/security"
	"trust/internal/middleware/trace"
	"trust/internal/services"
	"trust/internal/store"
	"trust/internal/view"
	appweb "trust/web"
)

// Options wires the server to the rest of the application.
type Options struct {
	Addr               string
	Store              *store.Store
	Service            *services.TrustService
	Views              *view.Controller
	Metrics            *metrics.Metrics
	Gatherer           prometheus.Gatherer // served on /metrics; nil disables the endpoint
	Logger             *applog.Logger
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	templates *template.Template
	store     *store.Store
	svc       *services.TrustService
	views     *view.Controller
	metrics   *metrics.Metrics
	limiter   *ratelimit.Limiter
	logger    *applog.Logger
	previews  *cache.LRU[int64, string]

	started      time.Time
	now          func() time.Time
	shutdownOnce sync.Once
}

// NewServer parses the embedded templates and builds the router. It fails
// when the templates do not parse, since no view could be rendered.
func NewServer(opts Options) (*Server, error) {
	if opts.Store == nil || opts.Service == nil || opts.Views == nil {
		return nil, errors.New("store, service and view controller are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}

	s := &Server{
		store:    opts.Store,
		svc:      opts.Service,
		views:    opts.Views,
		metrics:  opts.Metrics,
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		logger:   logger.WithComponent(applog.ComponentHTTP),
		previews: cache.NewLRU[int64, string](512),
		started:  time.Now(),
		now:      time.Now,
	}

	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.limiter.Stop()
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = t

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(opts.Gatherer),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(gatherer prometheus.Gatherer) http.Handler {
	ip := security.NewClientIP()

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(trace.NewMiddleware(s.logger, ip.Extract, s.metrics).Handler)
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	r.Use(s.limiter.Middleware(ip.Extract, s.onRateLimited))

	r.Get("/", s.handleIndex)
	r.Post("/view/{name}", s.handleNavigate)

	r.Post("/members", s.handleCreateMember)
	r.Post("/members/{id}/delete", s.handleDeleteMember)
	r.Post("/members/{id}/select", s.handleSelectMember)
	r.Post("/selection/clear", s.handleClearSelection)

	r.Post("/donations", s.handleCreateDonation)
	r.Post("/donations/{id}/delete", s.handleDeleteDonation)

	r.Get("/words", s.handleWords)
	r.Get("/api/data", s.handleExport)
	r.Post("/api/data", s.handleImport)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		r.With(security.StaticAssetMiddleware(3600)).
			Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err.Error())
	}

	return r
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.metrics.IncRateLimited()
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "ઘણી બધી વિનંતીઓ. થોડી વાર પછી પ્રયાસ કરો.").Write(w)
}

// Shutdown stops the limiter and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"rupees": core.FormatRupees,
		"words": func(amount int64) string {
			w, err := core.ToWords(amount)
			if err != nil {
				return core.FormatRupees(amount)
			}
			return w
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("02-01-2006")
		},
	}
}
