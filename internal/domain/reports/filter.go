package reports

import (
	"strings"
	"time"
)

// FilterSpec narrows a report set. All present fields are ANDed together;
// Targets is an OR within itself. The zero value is the identity filter.
type FilterSpec struct {
	Targets  []string  `json:"selected_targets,omitempty"`
	DateFrom time.Time `json:"date_from,omitzero"`
	DateTo   time.Time `json:"date_to,omitzero"`
	Keyword  string    `json:"keyword,omitempty"`
}

func (f FilterSpec) IsZero() bool {
	return len(f.Targets) == 0 && f.DateFrom.IsZero() && f.DateTo.IsZero() &&
		strings.TrimSpace(f.Keyword) == ""
}

// Matches reports whether r satisfies every present filter field.
func (f FilterSpec) Matches(r *Report) bool {
	if len(f.Targets) > 0 && !containsFold(f.Targets, r.Target) {
		return false
	}
	if !f.DateFrom.IsZero() || !f.DateTo.IsZero() {
		// A report without a parseable date never matches a date filter.
		if r.DateUnknown {
			return false
		}
		if !f.DateFrom.IsZero() && r.ScanDate.Before(truncateDay(f.DateFrom)) {
			return false
		}
		if !f.DateTo.IsZero() && r.ScanDate.After(endOfDay(f.DateTo)) {
			return false
		}
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" && !matchesKeyword(r, kw) {
		return false
	}
	return true
}

// Filter returns the subsequence of reports matching the spec, preserving
// relative order. An empty result is a valid "no matches" state.
func Filter(list []*Report, spec FilterSpec) []*Report {
	if spec.IsZero() {
		return list
	}
	out := make([]*Report, 0, len(list))
	for _, r := range list {
		if spec.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func matchesKeyword(r *Report, keyword string) bool {
	kw := strings.ToLower(keyword)
	if strings.Contains(strings.ToLower(r.Target), kw) {
		return true
	}
	for _, sub := range r.Subdomains {
		if strings.Contains(strings.ToLower(sub), kw) {
			return true
		}
	}
	for _, v := range r.Vulnerabilities {
		if strings.Contains(strings.ToLower(v.Title), kw) ||
			strings.Contains(strings.ToLower(v.Description), kw) ||
			strings.Contains(strings.ToLower(v.AffectedService), kw) {
			return true
		}
	}
	for port, service := range r.OpenPorts {
		if strings.Contains(strings.ToLower(port), kw) ||
			strings.Contains(strings.ToLower(service), kw) {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return truncateDay(t).Add(24*time.Hour - time.Nanosecond)
}
