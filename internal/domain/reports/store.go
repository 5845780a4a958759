package reports

// Store holds the Reports of the current load pass in file-enumeration
// order. It is rebuilt wholesale on every load; the only mutation it
// permits is the AI summary cache write.
type Store struct {
	reports []*Report
	byID    map[ReportID]*Report
}

func NewStore(list []*Report) *Store {
	s := &Store{
		reports: list,
		byID:    make(map[ReportID]*Report, len(list)),
	}
	for _, r := range list {
		s.byID[r.ID] = r
	}
	return s
}

func (s *Store) Len() int { return len(s.reports) }

// All returns the reports in insertion order. The slice is a copy so
// callers cannot reorder the Store; the elements are shared.
func (s *Store) All() []*Report {
	out := make([]*Report, len(s.reports))
	copy(out, s.reports)
	return out
}

// ByID looks up a single report by its instance ID.
func (s *Store) ByID(id ReportID) (*Report, bool) {
	r, ok := s.byID[id]
	return r, ok
}

// ByTarget returns every report for the given target, preserving order.
// Targets are not unique across files.
func (s *Store) ByTarget(target string) []*Report {
	var out []*Report
	for _, r := range s.reports {
		if r.Target == target {
			out = append(out, r)
		}
	}
	return out
}

// SetSummary caches a freshly generated AI summary on the report. Empty
// summaries are ignored so a failed call can never clear the cache.
func (s *Store) SetSummary(id ReportID, summary string) bool {
	r, ok := s.byID[id]
	if !ok || summary == "" {
		return false
	}
	r.AISummary = summary
	return true
}
