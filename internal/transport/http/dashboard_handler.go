package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/Prateek-0000/faculty-rnd-insights/internal/errors"
	"github.com/Prateek-0000/faculty-rnd-insights/internal/exporter"
	"github.com/Prateek-0000/faculty-rnd-insights/internal/grants"
)

// dashboardQuery carries the decoded filter/search parameters of a request.
type dashboardQuery struct {
	Department string `validate:"omitempty,max=64"`
	Status     string `validate:"omitempty,max=64"`
	Search     string `validate:"omitempty,max=256"`
}

func (q dashboardQuery) filter() grants.Filter {
	return grants.Filter{Department: q.Department, Status: q.Status}
}

// DashboardHandler handles dashboard data requests with RFC 7807 errors.
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the dashboard routes.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/charts", h.GetCharts)
	r.Get("/projects", h.GetProjects)
	r.Get("/projects/export", h.ExportProjects)
	r.Get("/filters", h.GetFilters)
	r.Get("/notices", h.GetNotices)

	return r
}

// decodeQuery extracts and validates the common query parameters.
func (h *DashboardHandler) decodeQuery(r *http.Request) (dashboardQuery, error) {
	q := dashboardQuery{
		Department: r.URL.Query().Get("department"),
		Status:     r.URL.Query().Get("status"),
		Search:     r.URL.Query().Get("q"),
	}
	if err := h.validate.Struct(q); err != nil {
		return q, apierrors.InvalidRequestWithError(err)
	}
	return q, nil
}

// GetSummary handles GET /api/dashboard/summary.
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	q, err := h.decodeQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), q.filter())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, summary)
}

// GetCharts handles GET /api/dashboard/charts.
func (h *DashboardHandler) GetCharts(w http.ResponseWriter, r *http.Request) {
	q, err := h.decodeQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	charts, err := h.service.Charts(r.Context(), q.filter())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, charts)
}

// GetProjects handles GET /api/dashboard/projects.
func (h *DashboardHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	q, err := h.decodeQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "fetching project table",
		slog.String("request_id", reqID),
		slog.String("department", q.Department),
		slog.String("status", q.Status),
		slog.String("search", q.Search),
	)

	table, err := h.service.Projects(r.Context(), q.filter(), q.Search)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, table)
}

// ExportProjects handles GET /api/dashboard/projects/export, streaming the
// current filtered view as a CSV download.
func (h *DashboardHandler) ExportProjects(w http.ResponseWriter, r *http.Request) {
	q, err := h.decodeQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	dataset, err := h.service.ProjectDataset(r.Context(), q.filter(), q.Search)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := "research_projects_" + time.Now().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := exporter.WriteProjectsCSV(w, dataset); err != nil {
		// Headers already sent; log rather than re-render
		h.logger.ErrorContext(r.Context(), "csv export failed",
			slog.String("error", err.Error()))
	}
}

// GetFilters handles GET /api/dashboard/filters.
func (h *DashboardHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.Options(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, options)
}

// GetNotices handles GET /api/dashboard/notices, surfacing non-fatal
// ingestion messages (encoding fallbacks, skipped sources).
func (h *DashboardHandler) GetNotices(w http.ResponseWriter, r *http.Request) {
	notices := h.service.Notices(r.Context())
	if notices == nil {
		notices = []string{}
	}
	render.JSON(w, r, map[string]interface{}{"notices": notices})
}
