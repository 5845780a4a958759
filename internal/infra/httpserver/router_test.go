package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appai "github.com/bryanwahyu/recon-dashboard/internal/application/ai"
	appreports "github.com/bryanwahyu/recon-dashboard/internal/application/reports"
	domain "github.com/bryanwahyu/recon-dashboard/internal/domain/reports"
)

type staticLoader struct{ result *domain.LoadResult }

func (l *staticLoader) Load(ctx context.Context, dir string) (*domain.LoadResult, error) {
	return l.result, nil
}

type staticClock struct{}

func (staticClock) Now() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

func seedReport(target, date string, subs []string) *domain.Report {
	r := &domain.Report{ID: domain.NewReportID(), Target: target, Subdomains: subs, OpenPorts: map[string]string{}}
	if date == "" {
		r.DateUnknown = true
	} else {
		t, _ := time.Parse("2006-01-02", date)
		r.ScanDate = t
	}
	return r
}

func newTestRouter(t *testing.T, list []*domain.Report, noInput bool) (http.Handler, *appreports.Service) {
	t.Helper()
	svc := &appreports.Service{
		Loader: &staticLoader{result: &domain.LoadResult{Reports: list, NoInput: noInput}},
		Dir:    t.TempDir(),
		Clock:  staticClock{},
	}
	if _, err := svc.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	return NewRouter(svc, appai.NewService(nil), svc.Dir, nil), svc
}

func getJSON(t *testing.T, h http.Handler, url string, out any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("invalid JSON from %s: %v", url, err)
		}
	}
	return rec
}

func TestSummaryEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, []*domain.Report{
		seedReport("a.com", "2025-01-01", []string{"x", "y"}),
		seedReport("b.com", "2025-01-02", []string{"y"}),
	}, false)

	var body struct {
		State string `json:"state"`
		KPIs  struct {
			ReportCount          int `json:"report_count"`
			UniqueSubdomainCount int `json:"unique_subdomain_count"`
		} `json:"kpis"`
	}
	rec := getJSON(t, h, "/v1/summary", &body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body.State != stateOK {
		t.Errorf("expected state ok, got %q", body.State)
	}
	if body.KPIs.ReportCount != 2 || body.KPIs.UniqueSubdomainCount != 2 {
		t.Errorf("unexpected kpis: %+v", body.KPIs)
	}
}

func TestSummaryEndpoint_NoData(t *testing.T) {
	h, _ := newTestRouter(t, nil, true)

	var body struct {
		State string `json:"state"`
	}
	rec := getJSON(t, h, "/v1/summary", &body)
	if rec.Code != http.StatusOK {
		t.Fatalf("no-data must not be an error, got %d", rec.Code)
	}
	if body.State != stateNoData {
		t.Errorf("expected no_data state, got %q", body.State)
	}
}

func TestReportsEndpoint_FilterAndNoMatches(t *testing.T) {
	h, _ := newTestRouter(t, []*domain.Report{
		seedReport("a.com", "2025-01-01", nil),
		seedReport("b.com", "2025-01-02", nil),
	}, false)

	var body struct {
		State   string            `json:"state"`
		Count   int               `json:"count"`
		Reports []json.RawMessage `json:"reports"`
	}
	getJSON(t, h, "/v1/reports?targets=a.com", &body)
	if body.Count != 1 || len(body.Reports) != 1 {
		t.Errorf("expected 1 filtered report, got %d", body.Count)
	}

	getJSON(t, h, "/v1/reports?q=nomatch", &body)
	if body.State != stateNoMatches || body.Count != 0 {
		t.Errorf("expected no_matches with 0 reports, got %q/%d", body.State, body.Count)
	}
}

func TestReportsEndpoint_BadDateParam(t *testing.T) {
	h, _ := newTestRouter(t, []*domain.Report{seedReport("a.com", "", nil)}, false)

	rec := getJSON(t, h, "/v1/reports?date_from=01-2025", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad date, got %d", rec.Code)
	}
}

func TestGetReportByID(t *testing.T) {
	r := seedReport("a.com", "2025-01-01", nil)
	h, _ := newTestRouter(t, []*domain.Report{r}, false)

	var got domain.Report
	rec := getJSON(t, h, "/v1/reports/"+string(r.ID), &got)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Target != "a.com" {
		t.Errorf("unexpected report %+v", got)
	}

	rec = getJSON(t, h, "/v1/reports/00000000-0000-0000-0000-000000000000", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown ID, got %d", rec.Code)
	}

	rec = getJSON(t, h, "/v1/reports/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed ID, got %d", rec.Code)
	}
}

func TestTimelineChart(t *testing.T) {
	h, _ := newTestRouter(t, []*domain.Report{
		seedReport("a.com", "2025-01-01", nil),
		seedReport("b.com", "2025-01-01", nil),
		seedReport("c.com", "2025-01-02", nil),
	}, false)

	var body struct {
		Data []struct {
			Label string `json:"label"`
			Count int    `json:"count"`
		} `json:"data"`
	}
	getJSON(t, h, "/v1/charts/timeline", &body)
	if len(body.Data) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(body.Data))
	}
	if body.Data[0].Label != "2025-01-01" || body.Data[0].Count != 2 {
		t.Errorf("unexpected first bucket: %+v", body.Data[0])
	}
	if body.Data[1].Label != "2025-01-02" || body.Data[1].Count != 1 {
		t.Errorf("unexpected second bucket: %+v", body.Data[1])
	}
}

func TestAISummary_DisabledWithoutCredential(t *testing.T) {
	r := seedReport("a.com", "", nil)
	h, _ := newTestRouter(t, []*domain.Report{r}, false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/reports/"+string(r.ID)+"/ai/summary", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when AI is disabled, got %d", rec.Code)
	}
}

func TestReloadEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, []*domain.Report{seedReport("a.com", "", nil)}, false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/reports/reload", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var stats struct {
		ReportCount int `json:"report_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.ReportCount != 1 {
		t.Errorf("expected 1 report after reload, got %d", stats.ReportCount)
	}
}

func TestTargetsEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, []*domain.Report{
		seedReport("b.com", "2025-01-05", nil),
		seedReport("a.com", "2025-01-01", nil),
		seedReport("b.com", "", nil),
	}, false)

	var body struct {
		State    string   `json:"state"`
		Targets  []string `json:"targets"`
		DateFrom string   `json:"date_from"`
		DateTo   string   `json:"date_to"`
	}
	getJSON(t, h, "/v1/targets", &body)
	if len(body.Targets) != 2 || body.Targets[0] != "a.com" || body.Targets[1] != "b.com" {
		t.Errorf("expected sorted unique targets, got %v", body.Targets)
	}
	if body.DateFrom != "2025-01-01" || body.DateTo != "2025-01-05" {
		t.Errorf("unexpected date range %s..%s", body.DateFrom, body.DateTo)
	}
}

func TestHealthEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, nil, true)
	rec := getJSON(t, h, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected healthy, got %d", rec.Code)
	}
}
