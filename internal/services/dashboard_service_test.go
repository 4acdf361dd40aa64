package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prateek-0000/faculty-rnd-insights/internal/grants"
)

// newTestStore builds a store over a temp directory seeded with two small
// department CSV exports.
func newTestStore(t *testing.T) *grants.Store {
	t.Helper()
	dir := t.TempDir()
	sources := grants.DefaultSources()

	cse := "Faculty Name,Title,Amount(in lakhs),Funding Agency,Status,Domain\n" +
		"Dr. Kumar,Deep Learning for Crop Yield,10,DST, ongoing ,AI\n" +
		"Dr. Rao,Secure Networks,25.5,SERB,Completed,Security\n"
	ece := "Faculty Name,Title,Amount(in lakhs),Funding Agency,Status,Domain\n" +
		"Dr. Iyer,Antenna Arrays,abc,DST,ONGOING,\n"

	require.NoError(t, os.WriteFile(filepath.Join(dir, sources[0].CSVName), []byte(cse), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, sources[1].CSVName), []byte(ece), 0o644))

	return grants.NewStore(dir, sources, slog.Default())
}

// newEmptyStore builds a store whose sources all fail to load.
func newEmptyStore(t *testing.T) *grants.Store {
	t.Helper()
	return grants.NewStore(t.TempDir(), grants.DefaultSources(), slog.Default())
}

func TestDashboardService_Summary(t *testing.T) {
	ctx := context.Background()
	service := NewDashboardService(newTestStore(t), slog.Default())

	t.Run("unfiltered", func(t *testing.T) {
		summary, err := service.Summary(ctx, grants.Filter{})
		require.NoError(t, err)

		assert.InDelta(t, 35.5, summary.TotalFunding, 1e-9)
		assert.Equal(t, 3, summary.ProjectCount)
		assert.Equal(t, 3, summary.ActiveResearchers)
	})

	t.Run("filtered by department", func(t *testing.T) {
		summary, err := service.Summary(ctx, grants.Filter{Department: "ECE", Status: grants.Wildcard})
		require.NoError(t, err)

		assert.Equal(t, 1, summary.ProjectCount)
		assert.Zero(t, summary.TotalFunding)
	})

	t.Run("filtered by normalized status", func(t *testing.T) {
		summary, err := service.Summary(ctx, grants.Filter{Department: grants.Wildcard, Status: "Ongoing"})
		require.NoError(t, err)

		assert.Equal(t, 2, summary.ProjectCount)
	})

	t.Run("no data propagates", func(t *testing.T) {
		bare := NewDashboardService(newEmptyStore(t), slog.Default())
		_, err := bare.Summary(ctx, grants.Filter{})
		assert.ErrorIs(t, err, ErrNoData)
	})
}

func TestDashboardService_Charts(t *testing.T) {
	ctx := context.Background()
	service := NewDashboardService(newTestStore(t), slog.Default())

	charts, err := service.Charts(ctx, grants.Filter{})
	require.NoError(t, err)

	// The blank ECE domain was filled with the sentinel and excluded
	assert.Equal(t, []grants.AggregateRow{
		{Key: "AI", Value: 10},
		{Key: "Security", Value: 25.5},
	}, charts.FundingByDomain)

	assert.Equal(t, []grants.AggregateRow{
		{Key: "Ongoing", Value: 2},
		{Key: "Completed", Value: 1},
	}, charts.StatusCounts)

	require.NotEmpty(t, charts.TopFaculty)
	assert.Equal(t, "Dr. Rao", charts.TopFaculty[0].Key)
}

func TestDashboardService_Projects(t *testing.T) {
	ctx := context.Background()
	service := NewDashboardService(newTestStore(t), slog.Default())

	t.Run("full table", func(t *testing.T) {
		table, err := service.Projects(ctx, grants.Filter{}, "")
		require.NoError(t, err)

		assert.Equal(t, 3, table.Total)
		require.Len(t, table.Rows, 3)
		assert.Contains(t, table.Columns, grants.ColDepartment)
		assert.Contains(t, table.Columns, grants.ColAmount)

		first := table.Rows[0]
		assert.Equal(t, "CSE", first[grants.ColDepartment])
		assert.Equal(t, 10.0, first[grants.ColAmount])
		assert.Equal(t, "Ongoing", first[grants.ColStatus])
	})

	t.Run("search narrows the table", func(t *testing.T) {
		table, err := service.Projects(ctx, grants.Filter{}, "antenna")
		require.NoError(t, err)

		require.Equal(t, 1, table.Total)
		assert.Equal(t, "Antenna Arrays", table.Rows[0][grants.ColTitle])
	})

	t.Run("search by faculty name", func(t *testing.T) {
		table, err := service.Projects(ctx, grants.Filter{}, "rao")
		require.NoError(t, err)

		require.Equal(t, 1, table.Total)
		assert.Equal(t, "Secure Networks", table.Rows[0][grants.ColTitle])
	})

	t.Run("filter and search compose", func(t *testing.T) {
		table, err := service.Projects(ctx, grants.Filter{Department: "CSE"}, "antenna")
		require.NoError(t, err)
		assert.Zero(t, table.Total)
		assert.Empty(t, table.Rows)
	})
}

func TestDashboardService_Options(t *testing.T) {
	ctx := context.Background()

	t.Run("wildcard heads both lists", func(t *testing.T) {
		service := NewDashboardService(newTestStore(t), slog.Default())
		options, err := service.Options(ctx)
		require.NoError(t, err)

		assert.Equal(t, []string{grants.Wildcard, "CSE", "ECE"}, options.Departments)
		assert.Equal(t, []string{grants.Wildcard, "Completed", "Ongoing"}, options.Statuses)
	})

	t.Run("statuses collapse without the column", func(t *testing.T) {
		dir := t.TempDir()
		sources := grants.DefaultSources()
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, sources[0].CSVName),
			[]byte("Title\nGrant A\n"), 0o644))

		service := NewDashboardService(grants.NewStore(dir, sources, slog.Default()), slog.Default())
		options, err := service.Options(ctx)
		require.NoError(t, err)

		assert.Equal(t, []string{grants.Wildcard}, options.Statuses)
	})
}

func TestDashboardService_Notices(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	sources := grants.DefaultSources()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, sources[0].CSVName),
		[]byte("Title\nGrant A\n"), 0o644))

	service := NewDashboardService(grants.NewStore(dir, sources, slog.Default()), slog.Default())

	notices := service.Notices(ctx)
	require.Len(t, notices, 1)
	assert.Contains(t, notices[0], "ECE")
}
