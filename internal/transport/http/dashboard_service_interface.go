package http

import (
	"context"

	"github.com/Prateek-0000/faculty-rnd-insights/internal/grants"
	"github.com/Prateek-0000/faculty-rnd-insights/internal/services"
)

// DashboardServiceInterface defines the dashboard operations needed by the
// transport layer. Implemented by services.DashboardService; mocked in tests.
type DashboardServiceInterface interface {
	Summary(ctx context.Context, filter grants.Filter) (grants.Summary, error)
	Charts(ctx context.Context, filter grants.Filter) (grants.Breakdowns, error)
	Projects(ctx context.Context, filter grants.Filter, query string) (*services.ProjectTable, error)
	ProjectDataset(ctx context.Context, filter grants.Filter, query string) (*grants.Dataset, error)
	Options(ctx context.Context) (services.FilterOptions, error)
	Notices(ctx context.Context) []string
}

// HealthServiceInterface defines the health operations needed by the
// transport layer.
type HealthServiceInterface interface {
	Health(ctx context.Context) services.HealthStatus
	Ready(ctx context.Context) bool
	Version() string
}
