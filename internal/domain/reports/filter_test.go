package reports

import (
	"testing"
	"time"
)

func mkReport(target, date string) *Report {
	r := &Report{ID: NewReportID(), Target: target}
	if date == "" {
		r.DateUnknown = true
	} else {
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			panic(err)
		}
		r.ScanDate = t
	}
	return r
}

func targets(list []*Report) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.Target
	}
	return out
}

func TestFilter_EmptySpecIsIdentity(t *testing.T) {
	list := []*Report{mkReport("x", "2025-01-01"), mkReport("y", "")}
	got := Filter(list, FilterSpec{})
	if len(got) != 2 {
		t.Fatalf("expected identity filter, got %d reports", len(got))
	}
}

func TestFilter_SelectedTargets(t *testing.T) {
	list := []*Report{
		mkReport("x", ""),
		mkReport("y", ""),
		mkReport("x", ""),
		mkReport("z", ""),
	}

	got := Filter(list, FilterSpec{Targets: []string{"x"}})
	if len(got) != 2 {
		t.Fatalf("expected 2 reports for target x, got %d", len(got))
	}
	for _, r := range got {
		if r.Target != "x" {
			t.Errorf("unexpected target %q", r.Target)
		}
	}
	// relative order preserved
	if got[0] != list[0] || got[1] != list[2] {
		t.Error("expected relative order preserved")
	}
}

func TestFilter_DateRange(t *testing.T) {
	list := []*Report{
		mkReport("a", "2025-01-01"),
		mkReport("b", "2025-01-15"),
		mkReport("c", "2025-02-01"),
		mkReport("d", ""),
	}

	from, _ := time.Parse("2006-01-02", "2025-01-10")
	to, _ := time.Parse("2006-01-02", "2025-01-31")

	got := Filter(list, FilterSpec{DateFrom: from, DateTo: to})
	if len(got) != 1 || got[0].Target != "b" {
		t.Fatalf("expected only b, got %v", targets(got))
	}
}

func TestFilter_DateRangeInclusiveBounds(t *testing.T) {
	list := []*Report{mkReport("a", "2025-01-10"), mkReport("b", "2025-01-31")}

	from, _ := time.Parse("2006-01-02", "2025-01-10")
	to, _ := time.Parse("2006-01-02", "2025-01-31")

	got := Filter(list, FilterSpec{DateFrom: from, DateTo: to})
	if len(got) != 2 {
		t.Fatalf("expected inclusive bounds to match both, got %v", targets(got))
	}
}

func TestFilter_DateRangeExcludingAll(t *testing.T) {
	list := []*Report{mkReport("a", "2025-01-01")}
	from, _ := time.Parse("2006-01-02", "2030-01-01")

	got := Filter(list, FilterSpec{DateFrom: from})
	if len(got) != 0 {
		t.Fatalf("expected empty sequence, got %v", targets(got))
	}
}

func TestFilter_Keyword(t *testing.T) {
	withVuln := mkReport("a.com", "")
	withVuln.Vulnerabilities = []Vulnerability{
		{Severity: SeverityHigh, Title: "Outdated Apache", Description: "CVE pending"},
	}
	withSub := mkReport("b.com", "")
	withSub.Subdomains = []string{"apache.b.com"}
	withPort := mkReport("c.com", "")
	withPort.OpenPorts = map[string]string{"8080": "apache-tomcat"}
	miss := mkReport("d.com", "")

	list := []*Report{withVuln, withSub, withPort, miss}

	got := Filter(list, FilterSpec{Keyword: "APACHE"})
	if len(got) != 3 {
		t.Fatalf("expected 3 case-insensitive matches, got %v", targets(got))
	}
	for _, r := range got {
		if r.Target == "d.com" {
			t.Error("d.com should not match")
		}
	}
}

func TestFilter_ConjunctionAcrossFields(t *testing.T) {
	a := mkReport("a.com", "2025-01-01")
	a.Subdomains = []string{"dev.a.com"}
	b := mkReport("a.com", "2025-06-01")
	b.Subdomains = []string{"dev.a.com"}

	from, _ := time.Parse("2006-01-02", "2025-05-01")
	got := Filter([]*Report{a, b}, FilterSpec{
		Targets:  []string{"a.com"},
		DateFrom: from,
		Keyword:  "dev",
	})
	if len(got) != 1 || got[0] != b {
		t.Fatalf("expected only the June report, got %v", targets(got))
	}
}

func TestFilterSpec_IsZero(t *testing.T) {
	if !(FilterSpec{}).IsZero() {
		t.Error("zero spec should be zero")
	}
	if (FilterSpec{Keyword: "x"}).IsZero() {
		t.Error("spec with keyword should not be zero")
	}
	if (FilterSpec{Keyword: "   "}).IsZero() == false {
		t.Error("blank keyword should still be the identity filter")
	}
}
