// Package rest exposes the pessoas service over HTTP with JSON bodies.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/pessoas/internal/logging"
	"github.com/dmitrijs2005/pessoas/internal/netx"
	"github.com/dmitrijs2005/pessoas/internal/server/models"
	"github.com/dmitrijs2005/pessoas/internal/server/telemetry"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// PessoaService is what the handlers need from the service layer.
type PessoaService interface {
	Create(ctx context.Context, p *models.Pessoa) (*models.Pessoa, error)
	Get(ctx context.Context, id int64) (*models.Pessoa, error)
	List(ctx context.Context) ([]*models.Pessoa, error)
	Update(ctx context.Context, id int64, p *models.Pessoa) (*models.Pessoa, error)
	Delete(ctx context.Context, id int64) error
}

type HTTPServer struct {
	address         string
	shutdownTimeout time.Duration
	logger          logging.Logger
	pessoas         PessoaService
	metrics         *telemetry.Collector
	tracer          trace.Tracer
	validate        *validator.Validate
}

func NewHTTPServer(a string, l logging.Logger, ps PessoaService, m *telemetry.Collector, shutdownTimeout time.Duration) *HTTPServer {
	return &HTTPServer{
		address:         a,
		shutdownTimeout: shutdownTimeout,
		logger:          l.With("module", "http_server"),
		pessoas:         ps,
		metrics:         m,
		tracer:          otel.Tracer("github.com/dmitrijs2005/pessoas/internal/server/rest"),
		validate:        newValidator(),
	}
}

// Router builds the handler tree. /pessoas and /pessoas/ are both accepted.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestIDHeader)
	r.Use(s.tracing)
	r.Use(s.accessLog)
	r.Use(chimiddleware.Recoverer)

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/check", s.check)
	r.Get("/test-trace", s.testTrace)

	r.Route("/pessoas", func(r chi.Router) {
		r.Post("/", s.createPessoa)
		r.Get("/", s.listPessoas)
		r.Get("/{id}", s.getPessoa)
		r.Put("/{id}", s.updatePessoa)
		r.Delete("/{id}", s.deletePessoa)
	})

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	err := netx.ListenAndServe(ctx, srv, s.shutdownTimeout)

	s.logger.Info(ctx, "HTTP server stopped")
	return err
}
