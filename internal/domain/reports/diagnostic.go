package reports

import "time"

// Diagnostic records one input file skipped during a load pass.
type Diagnostic struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// LoadResult is the outcome of one load pass over the reports directory.
// NoInput distinguishes "nothing to load" from an empty-but-present batch
// so callers can render a setup message instead of a failure.
type LoadResult struct {
	Reports     []*Report    `json:"reports"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	NoInput     bool         `json:"no_input"`
	LoadedAt    time.Time    `json:"loaded_at"`
}
