package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appai "github.com/bryanwahyu/recon-dashboard/internal/application/ai"
	"github.com/bryanwahyu/recon-dashboard/internal/application/analytics"
	appreports "github.com/bryanwahyu/recon-dashboard/internal/application/reports"
	domai "github.com/bryanwahyu/recon-dashboard/internal/domain/ai"
	domain "github.com/bryanwahyu/recon-dashboard/internal/domain/reports"
	"github.com/bryanwahyu/recon-dashboard/internal/middleware"
)

// Dashboard states rendered instead of errors for recoverable conditions.
const (
	stateOK        = "ok"
	stateNoData    = "no_data"
	stateNoMatches = "no_matches"
)

type Router struct {
	reportsSvc *appreports.Service
	aiSvc      *appai.Service
	reportsDir string
}

func NewRouter(reportsSvc *appreports.Service, aiSvc *appai.Service, reportsDir string, allowedOrigins []string) http.Handler {
	r := &Router{reportsSvc: reportsSvc, aiSvc: aiSvc, reportsDir: reportsDir}
	mux := chi.NewRouter()

	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(allowedOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"reports_dir": &middleware.ReportsDirChecker{Dir: reportsDir},
	}))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Get("/targets", r.wrap(r.handleTargets))
		rt.Get("/reports", r.wrap(r.handleListReports))
		rt.Get("/reports/{id}", r.wrap(r.handleGetReport))
		rt.Post("/reports/reload", r.wrap(r.handleReload))
		rt.Get("/summary", r.wrap(r.handleSummary))
		rt.Get("/charts/subdomains", r.wrap(r.handleSubdomainChart))
		rt.Get("/charts/ports", r.wrap(r.handlePortChart))
		rt.Get("/charts/timeline", r.wrap(r.handleTimelineChart))
		rt.Get("/charts/severities", r.wrap(r.handleSeverityChart))

		rt.With(middleware.AIRateLimitMiddleware(5, 1)).
			Post("/reports/{id}/ai/summary", r.wrap(r.handleAISummary))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequestError marks caller input problems so wrap can map them to 400.
type badRequestError struct{ err error }

func (e badRequestError) Error() string { return e.err.Error() }
func (e badRequestError) Unwrap() error { return e.err }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var badReq badRequestError
			switch {
			case errors.As(err, &badReq):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, domain.ErrNotFound):
				http.Error(w, "report not found", http.StatusNotFound)
			case errors.Is(err, domai.ErrDisabled):
				http.Error(w, "ai summaries disabled: set OPENROUTER_API_KEY", http.StatusServiceUnavailable)
			case errors.Is(err, domai.ErrQuotaExceeded):
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
			case errors.Is(err, domai.ErrInFlight):
				http.Error(w, "summary generation already in progress", http.StatusConflict)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// filterFromQuery builds a FilterSpec from ?targets=&date_from=&date_to=&q=
func filterFromQuery(req *http.Request) (domain.FilterSpec, error) {
	q := req.URL.Query()
	var spec domain.FilterSpec

	spec.Targets = middleware.SplitTargetsParam(q.Get("targets"))

	from, err := middleware.ValidateDateParam("date_from", q.Get("date_from"))
	if err != nil {
		return spec, badRequestError{err}
	}
	to, err := middleware.ValidateDateParam("date_to", q.Get("date_to"))
	if err != nil {
		return spec, badRequestError{err}
	}
	spec.DateFrom = from
	spec.DateTo = to

	keyword, err := middleware.ValidateKeyword(q.Get("q"))
	if err != nil {
		return spec, badRequestError{err}
	}
	spec.Keyword = keyword

	return spec, nil
}

// filteredSet resolves the current store, its no-data state and the
// filtered subset for the request.
func (r *Router) filteredSet(req *http.Request) ([]*domain.Report, string, error) {
	spec, err := filterFromQuery(req)
	if err != nil {
		return nil, "", err
	}

	store, _, noInput := r.reportsSvc.Snapshot()
	if noInput {
		return nil, stateNoData, nil
	}

	filtered := domain.Filter(store.All(), spec)
	state := stateOK
	if len(filtered) == 0 {
		state = stateNoMatches
	}
	return filtered, state, nil
}

// GET /v1/targets
// Also reports the known scan-date range so the UI can bound its pickers.
func (r *Router) handleTargets(w http.ResponseWriter, req *http.Request) error {
	store, _, noInput := r.reportsSvc.Snapshot()
	all := store.All()

	resp := map[string]any{
		"state":   stateFromNoInput(noInput),
		"targets": analytics.UniqueTargets(all),
	}
	if from, to, ok := analytics.DateRange(all); ok {
		resp["date_from"] = from.Format("2006-01-02")
		resp["date_to"] = to.Format("2006-01-02")
	}
	return writeJSON(w, resp)
}

// GET /v1/reports?targets=&date_from=&date_to=&q=
func (r *Router) handleListReports(w http.ResponseWriter, req *http.Request) error {
	filtered, state, err := r.filteredSet(req)
	if err != nil {
		return err
	}
	if filtered == nil {
		filtered = []*domain.Report{}
	}
	return writeJSON(w, map[string]any{
		"state":   state,
		"count":   len(filtered),
		"reports": filtered,
	})
}

// GET /v1/reports/{id}
func (r *Router) handleGetReport(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateReportID(id); err != nil {
		return badRequestError{err}
	}
	report, err := r.reportsSvc.Get(domain.ReportID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, report)
}

// POST /v1/reports/reload
func (r *Router) handleReload(w http.ResponseWriter, req *http.Request) error {
	stats, err := r.reportsSvc.Reload(req.Context())
	if err != nil {
		return err
	}
	middleware.RecordLoad(stats.ReportCount, stats.Skipped)
	return writeJSON(w, stats)
}

// GET /v1/summary?targets=&date_from=&date_to=&q=
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	filtered, state, err := r.filteredSet(req)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{
		"state": state,
		"kpis":  analytics.KPIs(filtered),
	})
}

// GET /v1/charts/subdomains
func (r *Router) handleSubdomainChart(w http.ResponseWriter, req *http.Request) error {
	return r.chartResponse(w, req, func(list []*domain.Report) any {
		return analytics.SubdomainDistribution(list)
	})
}

// GET /v1/charts/ports
func (r *Router) handlePortChart(w http.ResponseWriter, req *http.Request) error {
	return r.chartResponse(w, req, func(list []*domain.Report) any {
		return analytics.PortDistribution(list)
	})
}

// GET /v1/charts/timeline
func (r *Router) handleTimelineChart(w http.ResponseWriter, req *http.Request) error {
	return r.chartResponse(w, req, func(list []*domain.Report) any {
		return analytics.TimelineDistribution(list)
	})
}

// GET /v1/charts/severities
func (r *Router) handleSeverityChart(w http.ResponseWriter, req *http.Request) error {
	return r.chartResponse(w, req, func(list []*domain.Report) any {
		return analytics.SeverityDistribution(list)
	})
}

func (r *Router) chartResponse(w http.ResponseWriter, req *http.Request, build func([]*domain.Report) any) error {
	filtered, state, err := r.filteredSet(req)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{
		"state": state,
		"data":  build(filtered),
	})
}

// POST /v1/reports/{id}/ai/summary
func (r *Router) handleAISummary(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateReportID(id); err != nil {
		return badRequestError{err}
	}

	middleware.IncrementAICalls()
	result, err := r.aiSvc.Summarize(req.Context(), r.reportsSvc.Store(), domain.ReportID(id))
	if err != nil {
		middleware.IncrementAIFailed()
		return err
	}
	if result.Cached {
		middleware.IncrementAICacheHits()
	}
	return writeJSON(w, result)
}

func stateFromNoInput(noInput bool) string {
	if noInput {
		return stateNoData
	}
	return stateOK
}
