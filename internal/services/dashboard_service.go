package services

import (
	"context"
	"log/slog"
	"sort"

	apperrors "github.com/Prateek-0000/faculty-rnd-insights/internal/errors"
	"github.com/Prateek-0000/faculty-rnd-insights/internal/grants"
)

// ErrNoData is returned by every dashboard operation when no department
// source could be loaded. Callers must halt presentation.
var ErrNoData = apperrors.ErrAllSourcesUnavailable

// ProjectTable is the filtered, searchable detail view of the dataset,
// restricted to the conventional display columns.
type ProjectTable struct {
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
	Total   int                      `json:"total"`
}

// FilterOptions lists the selectable values for the two equality filters.
// Each list starts with the wildcard.
type FilterOptions struct {
	Departments []string `json:"departments"`
	Statuses    []string `json:"statuses"`
}

// DashboardService answers presentation-layer queries from the immutable
// unified dataset. Every call recomputes its view synchronously; the only
// cached state is the dataset itself, owned by the store.
type DashboardService struct {
	store  *grants.Store
	logger *slog.Logger
}

// NewDashboardService creates a dashboard service over the dataset store.
func NewDashboardService(store *grants.Store, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		store:  store,
		logger: logger.With(slog.String("service", "dashboard")),
	}
}

// Summary computes the four scalar metrics over the filtered subset.
func (s *DashboardService) Summary(ctx context.Context, filter grants.Filter) (grants.Summary, error) {
	dataset, err := s.store.Dataset(ctx)
	if err != nil {
		return grants.Summary{}, err
	}
	return grants.Summarize(grants.Apply(dataset, filter)), nil
}

// Charts computes the grouped-aggregate tables over the filtered subset.
func (s *DashboardService) Charts(ctx context.Context, filter grants.Filter) (grants.Breakdowns, error) {
	dataset, err := s.store.Dataset(ctx)
	if err != nil {
		return grants.Breakdowns{}, err
	}
	return grants.Breakdown(grants.Apply(dataset, filter)), nil
}

// Projects returns the filtered and searched detail rows.
func (s *DashboardService) Projects(ctx context.Context, filter grants.Filter, query string) (*ProjectTable, error) {
	subset, err := s.projectSubset(ctx, filter, query)
	if err != nil {
		return nil, err
	}

	columns := subset.DisplayColumns()
	table := &ProjectTable{
		Columns: columns,
		Rows:    make([]map[string]interface{}, 0, len(subset.Rows)),
		Total:   len(subset.Rows),
	}
	for _, row := range subset.Rows {
		out := make(map[string]interface{}, len(columns))
		for _, col := range columns {
			switch col {
			case grants.ColDepartment:
				out[col] = row.Department
			case grants.ColAmount:
				out[col] = row.Amount
			default:
				out[col] = row.Fields[col]
			}
		}
		table.Rows = append(table.Rows, out)
	}
	return table, nil
}

// ProjectDataset returns the filtered and searched subset as a dataset, for
// consumers that need the raw rows (CSV export).
func (s *DashboardService) ProjectDataset(ctx context.Context, filter grants.Filter, query string) (*grants.Dataset, error) {
	return s.projectSubset(ctx, filter, query)
}

func (s *DashboardService) projectSubset(ctx context.Context, filter grants.Filter, query string) (*grants.Dataset, error) {
	dataset, err := s.store.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return grants.Search(grants.Apply(dataset, filter), query), nil
}

// Options returns the distinct filter values, each list headed by the
// wildcard. Statuses collapse to just the wildcard when the column is
// absent, mirroring how the filter itself degrades.
func (s *DashboardService) Options(ctx context.Context) (FilterOptions, error) {
	dataset, err := s.store.Dataset(ctx)
	if err != nil {
		return FilterOptions{}, err
	}

	departments := grants.DistinctValues(dataset, grants.ColDepartment)
	sort.Strings(departments)

	options := FilterOptions{
		Departments: append([]string{grants.Wildcard}, departments...),
		Statuses:    []string{grants.Wildcard},
	}
	if dataset.HasColumn(grants.ColStatus) {
		options.Statuses = append(options.Statuses, grants.DistinctValues(dataset, grants.ColStatus)...)
	}
	return options, nil
}

// Notices returns the non-fatal ingestion messages to surface in the UI.
func (s *DashboardService) Notices(ctx context.Context) []string {
	return s.store.Notices(ctx)
}
