package reports

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReportID identifies a loaded Report instance for the lifetime of one
// process. Two files sharing the same target still get distinct IDs.
type ReportID string

func NewReportID() ReportID { return ReportID(uuid.New().String()) }

// Severity enum. Unrecognized values pass through as-is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Vulnerability is one finding inside a report, kept in source order.
type Vulnerability struct {
	Severity        Severity `json:"severity"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	AffectedService string   `json:"affected_service,omitempty"`
	CVEID           string   `json:"cve_id,omitempty"`
}

// DateKeyUnknown groups reports whose scan_date could not be parsed.
const DateKeyUnknown = "unknown"

// Aggregate Root: Report, one reconnaissance scan of a single target.
type Report struct {
	ID              ReportID          `json:"id"`
	Target          string            `json:"target"`
	ScanDate        time.Time         `json:"scan_date,omitzero"`
	DateUnknown     bool              `json:"date_unknown,omitempty"`
	Subdomains      []string          `json:"subdomains"`
	OpenPorts       map[string]string `json:"open_ports"`
	Vulnerabilities []Vulnerability   `json:"vulnerabilities"`
	AISummary       string            `json:"ai_summary,omitempty"`
	SourceFile      string            `json:"source_file,omitempty"`
}

// DateKey returns the timeline bucket label for the report.
func (r *Report) DateKey() string {
	if r.DateUnknown {
		return DateKeyUnknown
	}
	return r.ScanDate.Format("2006-01-02")
}

// HasSummary reports whether an AI summary is cached for this report.
func (r *Report) HasSummary() bool {
	return strings.TrimSpace(r.AISummary) != ""
}
