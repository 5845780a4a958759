package ai

import (
	"context"
	"fmt"
	"sync"

	domai "github.com/bryanwahyu/recon-dashboard/internal/domain/ai"
	"github.com/bryanwahyu/recon-dashboard/internal/domain/reports"
)

// Service implements the summary use-case: cache check before dispatch,
// no concurrent duplicate calls for the same report, and a failed call
// never clears a previously cached summary.
type Service struct {
	client domai.Client

	mu       sync.Mutex
	inflight map[reports.ReportID]struct{}
}

func NewService(client domai.Client) *Service {
	return &Service{
		client:   client,
		inflight: make(map[reports.ReportID]struct{}),
	}
}

// Enabled reports whether the summary path is offered at all.
func (s *Service) Enabled() bool { return s.client != nil }

// SummaryResult tells the caller whether the summary came from the cache.
type SummaryResult struct {
	ReportID reports.ReportID `json:"report_id"`
	Summary  string           `json:"summary"`
	Cached   bool             `json:"cached"`
}

// Summarize returns the cached summary when present, otherwise generates
// one and writes it back onto the report.
func (s *Service) Summarize(ctx context.Context, store *reports.Store, id reports.ReportID) (SummaryResult, error) {
	r, ok := store.ByID(id)
	if !ok {
		return SummaryResult{}, reports.ErrNotFound
	}

	// Cache check happens before dispatch and before the disabled check so
	// pre-seeded summaries stay readable without a credential.
	if r.HasSummary() {
		return SummaryResult{ReportID: id, Summary: r.AISummary, Cached: true}, nil
	}
	if s.client == nil {
		return SummaryResult{}, domai.ErrDisabled
	}

	s.mu.Lock()
	if _, busy := s.inflight[id]; busy {
		s.mu.Unlock()
		return SummaryResult{}, domai.ErrInFlight
	}
	s.inflight[id] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inflight, id)
		s.mu.Unlock()
	}()

	summary, err := s.client.Summarize(ctx, r)
	if err != nil {
		return SummaryResult{}, fmt.Errorf("summarize report %s: %w", r.Target, err)
	}
	store.SetSummary(id, summary)
	return SummaryResult{ReportID: id, Summary: summary, Cached: false}, nil
}
