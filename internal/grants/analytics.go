package grants

import (
	"sort"
	"strings"
)

// Wildcard is the filter value that matches every row.
const Wildcard = "All"

// Filter is a transient, request-scoped selection. Either field may be the
// wildcard; the status filter only applies when the dataset carries a
// Status column.
type Filter struct {
	Department string
	Status     string
}

// matches reports whether a row passes the filter against the given dataset
// schema.
func (f Filter) matches(d *Dataset, row Row) bool {
	if f.Department != "" && f.Department != Wildcard && row.Department != f.Department {
		return false
	}
	if f.Status != "" && f.Status != Wildcard && d.HasColumn(ColStatus) && row.Fields[ColStatus] != f.Status {
		return false
	}
	return true
}

// Summary holds the four scalar metrics shown at the top of the dashboard.
type Summary struct {
	TotalFunding      float64 `json:"total_funding"`
	ProjectCount      int     `json:"project_count"`
	ActiveResearchers int     `json:"active_researchers"`
	AverageFunding    float64 `json:"average_funding"`
}

// AggregateRow is one entry of a grouped-aggregate table.
type AggregateRow struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// Breakdowns holds the grouped aggregates consumed by the chart layer.
type Breakdowns struct {
	FundingByDomain []AggregateRow `json:"funding_by_domain"`
	StatusCounts    []AggregateRow `json:"status_counts"`
	TopFaculty      []AggregateRow `json:"top_faculty"`
	FundingByAgency []AggregateRow `json:"funding_by_agency"`
}

// Apply returns the subset of the dataset passing the filter. The result
// shares the source schema and preserves row order.
func Apply(d *Dataset, f Filter) *Dataset {
	filtered := &Dataset{Columns: d.Columns}
	for _, row := range d.Rows {
		if f.matches(d, row) {
			filtered.Rows = append(filtered.Rows, row)
		}
	}
	return filtered
}

// Search keeps rows whose title contains the query, case-insensitively,
// OR-ed with the faculty name when that column exists. An empty query keeps
// everything.
func Search(d *Dataset, query string) *Dataset {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return d
	}

	matchFaculty := d.HasColumn(ColFacultyName)
	result := &Dataset{Columns: d.Columns}
	for _, row := range d.Rows {
		if strings.Contains(strings.ToLower(row.Fields[ColTitle]), query) {
			result.Rows = append(result.Rows, row)
			continue
		}
		if matchFaculty && strings.Contains(strings.ToLower(row.Fields[ColFacultyName]), query) {
			result.Rows = append(result.Rows, row)
		}
	}
	return result
}

// Summarize computes the scalar metrics over a (typically filtered) dataset.
// Average funding is 0 when there are no rows; researcher count is 0 when
// the faculty column is absent.
func Summarize(d *Dataset) Summary {
	s := Summary{ProjectCount: len(d.Rows)}
	for _, row := range d.Rows {
		s.TotalFunding += row.Amount
	}

	if d.HasColumn(ColFacultyName) {
		seen := make(map[string]bool)
		for _, row := range d.Rows {
			if name := row.Fields[ColFacultyName]; name != "" {
				seen[name] = true
			}
		}
		s.ActiveResearchers = len(seen)
	}

	if s.ProjectCount > 0 {
		s.AverageFunding = s.TotalFunding / float64(s.ProjectCount)
	}
	return s
}

// Breakdown computes the grouped aggregates for charting. Tables for absent
// columns come back empty rather than erroring.
func Breakdown(d *Dataset) Breakdowns {
	var b Breakdowns

	if d.HasColumn(ColDomain) {
		sums := sumBy(d, ColDomain)
		delete(sums, SentinelNoDomain)
		b.FundingByDomain = sortedByKey(sums)
	}

	if d.HasColumn(ColStatus) {
		counts := make(map[string]float64)
		for _, row := range d.Rows {
			counts[row.Fields[ColStatus]]++
		}
		b.StatusCounts = sortedByValue(counts, 0)
	}

	if d.HasColumn(ColFacultyName) {
		b.TopFaculty = sortedByValue(sumBy(d, ColFacultyName), 10)
	}

	if d.HasColumn(ColFundingAgency) {
		b.FundingByAgency = sortedByKey(sumBy(d, ColFundingAgency))
	}

	return b
}

// DistinctValues returns the sorted distinct non-empty values of a column,
// or nil when the column is absent.
func DistinctValues(d *Dataset, column string) []string {
	if !d.HasColumn(column) {
		return nil
	}
	seen := make(map[string]bool)
	for _, row := range d.Rows {
		if v := row.Field(column); v != "" {
			seen[v] = true
		}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func sumBy(d *Dataset, column string) map[string]float64 {
	sums := make(map[string]float64)
	for _, row := range d.Rows {
		sums[row.Fields[column]] += row.Amount
	}
	return sums
}

// sortedByKey flattens a map into rows ordered by key for stable output.
func sortedByKey(m map[string]float64) []AggregateRow {
	rows := make([]AggregateRow, 0, len(m))
	for k, v := range m {
		rows = append(rows, AggregateRow{Key: k, Value: v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

// sortedByValue flattens a map into rows ordered by descending value, ties
// broken by key, truncated to limit when limit > 0.
func sortedByValue(m map[string]float64, limit int) []AggregateRow {
	rows := make([]AggregateRow, 0, len(m))
	for k, v := range m {
		rows = append(rows, AggregateRow{Key: k, Value: v})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return rows[i].Value > rows[j].Value
		}
		return rows[i].Key < rows[j].Key
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
