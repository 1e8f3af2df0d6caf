// Package service contains the business logic of the tenere fueling log.
// Services validate inputs, decide what happens to each chat message and
// orchestrate repo calls. No SQL and no text parsing live here.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tenere/fuellog/internal/domain"
	"github.com/tenere/fuellog/internal/metrics"
	"github.com/tenere/fuellog/internal/repo"
)

// Parser turns message text into a fueling record. *extract.Parser
// implements it; tests substitute a stub.
type Parser interface {
	Parse(text string, fallback time.Time) domain.Fueling
	Location() *time.Location
}

// FuelingService implements ingestion and read access for the fueling log.
type FuelingService struct {
	fuelings repo.FuelingRepo
	parser   Parser
	metrics  *metrics.Metrics
	log      *slog.Logger
	now      func() time.Time
}

// NewFuelingService constructs a FuelingService. m may be nil to disable
// metrics; a nil logger falls back to slog.Default().
func NewFuelingService(fuelings repo.FuelingRepo, parser Parser, m *metrics.Metrics, logger *slog.Logger) *FuelingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FuelingService{
		fuelings: fuelings,
		parser:   parser,
		metrics:  m,
		log:      logger,
		now:      time.Now,
	}
}

// Ingest extracts a fueling from one chat message and decides what to do
// with it:
//   - no quantity found: ignored, nothing stored, no reply;
//   - group chat: stored, confirmation reply;
//   - any other chat: preview reply only, nothing stored.
//
// Returns domain.ErrValidation if the message has no text.
func (s *FuelingService) Ingest(ctx context.Context, msg domain.Message) (domain.IngestResult, error) {
	if strings.TrimSpace(msg.Text) == "" {
		return domain.IngestResult{}, fmt.Errorf("%w: text is required", domain.ErrValidation)
	}

	received := msg.ReceivedAt
	if received.IsZero() {
		received = s.now()
	}
	f := s.parser.Parse(msg.Text, received.In(s.parser.Location()))

	var result domain.IngestResult
	switch {
	case !f.Valid():
		result = domain.IngestResult{Outcome: domain.OutcomeIgnored, Fueling: f}
	case msg.ChatType == domain.ChatGroup:
		saved, err := s.fuelings.Create(ctx, f)
		if err != nil {
			s.metrics.ObserveStoreError()
			return domain.IngestResult{}, fmt.Errorf("service.FuelingService.Ingest: %w", err)
		}
		// Stores may hand the date back in another zone.
		saved.Date = saved.Date.In(s.parser.Location())
		result = domain.IngestResult{Outcome: domain.OutcomeSaved, Fueling: saved, Reply: saved.Summary()}
	default:
		result = domain.IngestResult{Outcome: domain.OutcomePreview, Fueling: f, Reply: "[DEBUG] " + f.Summary()}
	}

	s.metrics.ObserveMessage(result.Outcome, result.Fueling)
	s.log.InfoContext(ctx, "message ingested",
		"outcome", result.Outcome,
		"chat_type", msg.ChatType,
		"fueled_at", result.Fueling.Date,
	)
	return result, nil
}

// ListPaged returns one page of stored fuelings, most recent first, and the
// total count. Always returns a non-nil slice.
func (s *FuelingService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Fueling, int64, error) {
	fuelings, total, err := s.fuelings.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.FuelingService.ListPaged: %w", err)
	}
	if fuelings == nil {
		fuelings = []domain.Fueling{}
	}
	return fuelings, total, nil
}

// Export returns every stored fueling, oldest first.
// Always returns a non-nil slice.
func (s *FuelingService) Export(ctx context.Context) ([]domain.Fueling, error) {
	fuelings, err := s.fuelings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.FuelingService.Export: %w", err)
	}
	if fuelings == nil {
		return []domain.Fueling{}, nil
	}
	return fuelings, nil
}
