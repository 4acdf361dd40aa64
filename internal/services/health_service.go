package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Prateek-0000/faculty-rnd-insights/internal/grants"
)

// HealthStatus is the readiness/liveness report for the dashboard backend.
type HealthStatus struct {
	Status    string                `json:"status"`
	Version   string                `json:"version"`
	BuildTime string                `json:"build_time"`
	Timestamp time.Time             `json:"timestamp"`
	Rows      int                   `json:"rows"`
	Sources   []grants.SourceStatus `json:"sources"`
}

// HealthService reports process and dataset health.
type HealthService struct {
	store     *grants.Store
	version   string
	buildTime string
	logger    *slog.Logger
}

// NewHealthService creates a health service with build information.
func NewHealthService(store *grants.Store, version, buildTime string, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		store:     store,
		version:   version,
		buildTime: buildTime,
		logger:    logger.With(slog.String("service", "health")),
	}
}

// Health returns the full health report. Status is "healthy" when every
// source loaded, "degraded" when some did, "unavailable" when none did.
func (s *HealthService) Health(ctx context.Context) HealthStatus {
	statuses := s.store.Statuses(ctx)

	loaded := 0
	for _, st := range statuses {
		if st.Available {
			loaded++
		}
	}

	status := "healthy"
	switch {
	case loaded == 0:
		status = "unavailable"
	case loaded < len(statuses):
		status = "degraded"
	}

	rows := 0
	if dataset, err := s.store.Dataset(ctx); err == nil {
		rows = len(dataset.Rows)
	}

	return HealthStatus{
		Status:    status,
		Version:   s.version,
		BuildTime: s.buildTime,
		Timestamp: time.Now().UTC(),
		Rows:      rows,
		Sources:   statuses,
	}
}

// Ready reports whether the dashboard can serve data at all.
func (s *HealthService) Ready(ctx context.Context) bool {
	_, err := s.store.Dataset(ctx)
	return err == nil
}

// Version returns the build version string.
func (s *HealthService) Version() string {
	return s.version
}
