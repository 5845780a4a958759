package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	domain "github.com/bryanwahyu/recon-dashboard/internal/domain/reports"
)

// FSLoader reads a flat directory of JSON report files. One bad file never
// blocks the rest of the batch; it becomes a diagnostic instead.
type FSLoader struct{}

func New() *FSLoader { return &FSLoader{} }

// Wire format consumed from disk. Unmarshal errors on wrong value types
// count as schema violations for the whole file.
type reportDoc struct {
	Target          string            `json:"target"`
	ScanDate        string            `json:"scan_date"`
	Subdomains      []string          `json:"subdomains"`
	OpenPorts       map[string]string `json:"open_ports"`
	Vulnerabilities []vulnDoc         `json:"vulnerabilities"`
	AISummary       string            `json:"ai_summary"`
}

type vulnDoc struct {
	Severity        string `json:"severity"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	AffectedService string `json:"affected_service"`
	CVEID           string `json:"cve_id"`
}

// Formats tried for scan_date, most common first.
var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	time.RFC3339,
}

// Load enumerates *.json files in dir and parses each into a Report.
// A missing or empty directory is the no-input state, not an error.
func (l *FSLoader) Load(ctx context.Context, dir string) (*domain.LoadResult, error) {
	res := &domain.LoadResult{LoadedAt: time.Now()}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			res.NoInput = true
			return res, nil
		}
		return nil, fmt.Errorf("read reports dir: %w", err)
	}

	// os.ReadDir sorts by name; that order is the Store's insertion order.
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		res.NoInput = true
		return res, nil
	}

	for _, name := range files {
		r, err := l.parseFile(filepath.Join(dir, name))
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, domain.Diagnostic{
				File:   name,
				Reason: err.Error(),
			})
			continue
		}
		r.SourceFile = name
		res.Reports = append(res.Reports, r)
	}
	return res, nil
}

func (l *FSLoader) parseFile(path string) (*domain.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var doc reportDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	target := strings.TrimSpace(doc.Target)
	if target == "" {
		return nil, fmt.Errorf("missing required field: target")
	}

	r := &domain.Report{
		ID:         domain.NewReportID(),
		Target:     target,
		Subdomains: dedupSubdomains(doc.Subdomains),
		OpenPorts:  doc.OpenPorts,
		AISummary:  strings.TrimSpace(doc.AISummary),
	}
	if r.OpenPorts == nil {
		r.OpenPorts = map[string]string{}
	}

	if t, ok := parseDate(doc.ScanDate); ok {
		r.ScanDate = t
	} else {
		r.DateUnknown = true
	}

	// Partial-record tolerance: a finding missing severity or title is
	// skipped without rejecting the whole report.
	r.Vulnerabilities = make([]domain.Vulnerability, 0, len(doc.Vulnerabilities))
	for _, v := range doc.Vulnerabilities {
		sev := strings.ToLower(strings.TrimSpace(v.Severity))
		title := strings.TrimSpace(v.Title)
		if sev == "" || title == "" {
			continue
		}
		r.Vulnerabilities = append(r.Vulnerabilities, domain.Vulnerability{
			Severity:        domain.Severity(sev),
			Title:           title,
			Description:     v.Description,
			AffectedService: v.AffectedService,
			CVEID:           v.CVEID,
		})
	}

	return r, nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dedupSubdomains collapses duplicates within one report, keeping the
// first occurrence's position.
func dedupSubdomains(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
