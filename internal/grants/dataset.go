package grants

// Canonical column names as they appear in the department spreadsheets.
// Aliases seen in the wild are folded into these before batches are combined.
const (
	ColDepartment     = "Department"
	ColFacultyName    = "Faculty Name"
	ColTitle          = "Title"
	ColAmount         = "Amount(in lakhs)"
	ColFundingAgency  = "Funding Agency"
	ColCoInvestigator = "Co-investigator"
	ColStatus         = "Status"
	ColDomain         = "Domain"
)

// Sentinel values used to fill missing categorical cells.
const (
	SentinelNoCoInvestigator = "None"
	SentinelNoDomain         = "Unspecified"
	SentinelNoFaculty        = "Unknown"
)

// columnAliases maps header spellings that differ between department exports
// to their canonical form.
var columnAliases = map[string]string{
	"Funding agency":  ColFundingAgency,
	"Co-Investigator": ColCoInvestigator,
}

// displayColumns is the canonical column order for API responses and exports.
var displayColumns = []string{
	ColDepartment,
	ColFacultyName,
	ColTitle,
	ColAmount,
	ColFundingAgency,
	ColCoInvestigator,
	ColStatus,
	ColDomain,
}

// Batch is the raw tabular result of loading a single source file. Cells are
// untyped strings exactly as read; rows are aligned to Headers by index and
// may be shorter when trailing cells were empty.
type Batch struct {
	Source  string
	Headers []string
	Rows    [][]string
}

// Cell returns the value of the named column for the given row, or "" when
// the column is absent or the row is short.
func (b *Batch) Cell(row int, column string) string {
	for i, h := range b.Headers {
		if h == column && i < len(b.Rows[row]) {
			return b.Rows[row][i]
		}
	}
	return ""
}

// Row is a single normalized grant record. Department and Amount are always
// populated; the remaining cells live in Fields keyed by canonical column
// name and are only present when the source batches carried the column.
type Row struct {
	Department string
	Amount     float64
	Fields     map[string]string
}

// Field returns the named cell, or "" when the column was absent.
func (r Row) Field(column string) string {
	switch column {
	case ColDepartment:
		return r.Department
	default:
		return r.Fields[column]
	}
}

// Dataset is the unified, immutable table built from all loaded batches.
// Columns records which canonical columns are actually present so consumers
// can test presence explicitly instead of probing individual rows.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the named canonical column is present.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Empty reports whether the dataset holds no rows.
func (d *Dataset) Empty() bool {
	return len(d.Rows) == 0
}

// DisplayColumns returns the canonical display ordering restricted to the
// columns present in this dataset.
func (d *Dataset) DisplayColumns() []string {
	cols := make([]string, 0, len(displayColumns))
	for _, c := range displayColumns {
		if d.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	return cols
}
