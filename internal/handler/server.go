// Package handler implements the HTTP API of the tenere fueling log.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, message.go, fueling.go) but share the same Server struct so they
// can reach its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/tenere/fuellog/internal/domain"
)

// FuelingServicer defines the business operations the handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching the store or the parser.
type FuelingServicer interface {
	Ingest(ctx context.Context, msg domain.Message) (domain.IngestResult, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Fueling, int64, error)
	Export(ctx context.Context) ([]domain.Fueling, error)
}

// Server serves every API endpoint.
type Server struct {
	fuelings FuelingServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(fuelings FuelingServicer) *Server {
	return &Server{fuelings: fuelings}
}

// Routes registers the API endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Post("/messages", s.PostMessage)
	r.Get("/fuelings", s.ListFuelings)
	r.Get("/fuelings/export", s.ExportFuelings)
}

// Handler returns a router serving only the API endpoints, without any
// middleware. Handy in tests.
func (s *Server) Handler() chi.Router {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}
