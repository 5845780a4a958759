package reports

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bryanwahyu/recon-dashboard/internal/application"
	domain "github.com/bryanwahyu/recon-dashboard/internal/domain/reports"
)

// Service implements the load use-case and owns the current Store.
// The Store is swapped wholesale on every load pass; readers always see
// a complete snapshot, never a partially rebuilt one.
type Service struct {
	Loader domain.Loader
	Dir    string
	Clock  application.Clock

	mu          sync.RWMutex
	store       *domain.Store
	diagnostics []domain.Diagnostic
	noInput     bool
	loadedAt    time.Time
}

// LoadStats summarizes one load pass for callers and logs.
type LoadStats struct {
	ReportCount int                 `json:"report_count"`
	Skipped     int                 `json:"skipped"`
	Diagnostics []domain.Diagnostic `json:"diagnostics"`
	NoInput     bool                `json:"no_input"`
	LoadedAt    time.Time           `json:"loaded_at"`
}

// Reload runs a full load pass and replaces the current Store.
func (s *Service) Reload(ctx context.Context) (LoadStats, error) {
	res, err := s.Loader.Load(ctx, s.Dir)
	if err != nil {
		return LoadStats{}, fmt.Errorf("load reports from %s: %w", s.Dir, err)
	}

	loadedAt := s.Clock.Now()

	s.mu.Lock()
	s.store = domain.NewStore(res.Reports)
	s.diagnostics = res.Diagnostics
	s.noInput = res.NoInput
	s.loadedAt = loadedAt
	s.mu.Unlock()

	return LoadStats{
		ReportCount: len(res.Reports),
		Skipped:     len(res.Diagnostics),
		Diagnostics: res.Diagnostics,
		NoInput:     res.NoInput,
		LoadedAt:    loadedAt,
	}, nil
}

// Store returns the current Store; an empty Store before the first load.
func (s *Service) Store() *domain.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return domain.NewStore(nil)
	}
	return s.store
}

// Snapshot returns the Store together with the no-data state and the
// diagnostics of the last load pass.
func (s *Service) Snapshot() (*domain.Store, []domain.Diagnostic, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	store := s.store
	if store == nil {
		return domain.NewStore(nil), nil, true
	}
	return store, s.diagnostics, s.noInput
}

// Filtered applies the spec to the current Store.
func (s *Service) Filtered(spec domain.FilterSpec) []*domain.Report {
	return domain.Filter(s.Store().All(), spec)
}

// Get returns one report by instance ID.
func (s *Service) Get(id domain.ReportID) (*domain.Report, error) {
	r, ok := s.Store().ByID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}
