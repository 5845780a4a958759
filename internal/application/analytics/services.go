package analytics

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	domain "github.com/bryanwahyu/recon-dashboard/internal/domain/reports"
)

// Pure aggregation functions over a report sequence (the full Store or a
// filtered subset). None of them mutate their input and all of them are
// deterministic for a given input order.

// KPISummary value object
type KPISummary struct {
	ReportCount           int     `json:"report_count"`
	UniqueSubdomainCount  int     `json:"unique_subdomain_count"`
	AvgOpenPortsPerTarget float64 `json:"average_open_ports_per_target"`
	TotalVulnerabilities  int     `json:"total_vulnerability_count"`
}

// SeverityCounts value object
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Total    int `json:"total"`
}

// CountPoint is one labeled bucket of a categorical chart.
type CountPoint struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// KPIs computes the headline scalars. Zero reports yields all-zero values,
// never a division error.
func KPIs(list []*domain.Report) KPISummary {
	if len(list) == 0 {
		return KPISummary{}
	}

	unique := make(map[string]struct{})
	perReportPorts := make([]float64, 0, len(list))
	totalVulns := 0
	for _, r := range list {
		for _, sub := range r.Subdomains {
			unique[sub] = struct{}{}
		}
		perReportPorts = append(perReportPorts, float64(len(r.OpenPorts)))
		totalVulns += len(r.Vulnerabilities)
	}

	avg := stat.Mean(perReportPorts, nil)
	return KPISummary{
		ReportCount:           len(list),
		UniqueSubdomainCount:  len(unique),
		AvgOpenPortsPerTarget: round1(avg),
		TotalVulnerabilities:  totalVulns,
	}
}

// SubdomainDistribution maps target to its subdomain count. Labels keep
// first-appearance order; a later report for the same target overwrites
// the count.
func SubdomainDistribution(list []*domain.Report) []CountPoint {
	counts := make(map[string]int, len(list))
	order := make([]string, 0, len(list))
	for _, r := range list {
		if _, seen := counts[r.Target]; !seen {
			order = append(order, r.Target)
		}
		counts[r.Target] = len(r.Subdomains)
	}

	out := make([]CountPoint, 0, len(order))
	for _, target := range order {
		out = append(out, CountPoint{Label: target, Count: counts[target]})
	}
	return out
}

// PortDistribution counts occurrences of each open port across all given
// reports, most frequent first. Collapsing rare ports into an "other"
// bucket is left to the presentation layer.
func PortDistribution(list []*domain.Report) []CountPoint {
	counts := make(map[string]int)
	for _, r := range list {
		for port := range r.OpenPorts {
			counts[port]++
		}
	}

	out := make([]CountPoint, 0, len(counts))
	for port, n := range counts {
		out = append(out, CountPoint{Label: port, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// TimelineDistribution counts reports per scan date, ascending. Reports
// with an unparseable date land in a trailing "unknown" bucket instead of
// being dropped.
func TimelineDistribution(list []*domain.Report) []CountPoint {
	counts := make(map[string]int)
	unknown := 0
	for _, r := range list {
		if r.DateUnknown {
			unknown++
			continue
		}
		counts[r.DateKey()]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]CountPoint, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, CountPoint{Label: k, Count: counts[k]})
	}
	if unknown > 0 {
		out = append(out, CountPoint{Label: domain.DateKeyUnknown, Count: unknown})
	}
	return out
}

// SeverityDistribution tallies vulnerability severities. Unrecognized
// severities count toward Total only.
func SeverityDistribution(list []*domain.Report) SeverityCounts {
	var c SeverityCounts
	for _, r := range list {
		for _, v := range r.Vulnerabilities {
			switch v.Severity {
			case domain.SeverityCritical:
				c.Critical++
			case domain.SeverityHigh:
				c.High++
			case domain.SeverityMedium:
				c.Medium++
			case domain.SeverityLow:
				c.Low++
			}
			c.Total++
		}
	}
	return c
}

// UniqueTargets returns the sorted distinct targets of the given reports.
func UniqueTargets(list []*domain.Report) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, r := range list {
		if _, ok := seen[r.Target]; ok {
			continue
		}
		seen[r.Target] = struct{}{}
		out = append(out, r.Target)
	}
	sort.Strings(out)
	return out
}

// DateRange returns the earliest and latest known scan dates; ok is false
// when no report carries a parseable date.
func DateRange(list []*domain.Report) (min, max time.Time, ok bool) {
	for _, r := range list {
		if r.DateUnknown {
			continue
		}
		if !ok || r.ScanDate.Before(min) {
			min = r.ScanDate
		}
		if !ok || r.ScanDate.After(max) {
			max = r.ScanDate
		}
		ok = true
	}
	return min, max, ok
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
