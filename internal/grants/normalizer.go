package grants

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalizer harmonizes raw batches into the Unified Dataset: column aliases
// are folded before concatenation, the amount column is coerced to numeric,
// missing categorical cells are filled with sentinels, and status values get
// a uniform casing. Running it over already-normalized data is a no-op.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer with the given logger.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger.With(slog.String("component", "normalizer"))}
}

// Unify builds the Unified Dataset from one or more tagged batches.
// Row order within a batch and batch order are preserved; no deduplication.
func (n *Normalizer) Unify(batches []*Batch) *Dataset {
	dataset := &Dataset{}
	if len(batches) == 0 {
		return dataset
	}

	columns := n.unionColumns(batches)
	dataset.Columns = columns

	for _, batch := range batches {
		headers := canonicalHeaders(batch.Headers)
		for _, raw := range batch.Rows {
			row := Row{
				Department: batch.Source,
				Fields:     make(map[string]string, len(headers)),
			}
			for i, col := range headers {
				if col == "" || i >= len(raw) {
					continue
				}
				if col == ColAmount {
					continue
				}
				row.Fields[col] = raw[i]
			}
			if idx := headerIndex(headers, ColAmount); idx >= 0 && idx < len(raw) {
				row.Amount = coerceAmount(raw[idx])
			}
			dataset.Rows = append(dataset.Rows, row)
		}
	}

	n.fillSentinels(dataset)
	n.normalizeStatus(dataset)

	n.logger.Info("unified dataset built",
		slog.Int("batches", len(batches)),
		slog.Int("rows", len(dataset.Rows)),
		slog.Int("columns", len(dataset.Columns)))

	return dataset
}

// unionColumns computes the dataset's column set: Department first, then the
// canonical display columns present in any batch, then any extra columns in
// first-seen order.
func (n *Normalizer) unionColumns(batches []*Batch) []string {
	present := map[string]bool{ColDepartment: true}
	var extras []string
	for _, batch := range batches {
		for _, col := range canonicalHeaders(batch.Headers) {
			if col == "" || present[col] {
				continue
			}
			present[col] = true
			if !isDisplayColumn(col) {
				extras = append(extras, col)
			}
		}
	}

	columns := make([]string, 0, len(present))
	for _, col := range displayColumns {
		if present[col] {
			columns = append(columns, col)
		}
	}
	return append(columns, extras...)
}

// fillSentinels replaces empty cells with the column's sentinel default.
// Only columns actually present in the dataset are touched.
func (n *Normalizer) fillSentinels(d *Dataset) {
	sentinels := map[string]string{
		ColCoInvestigator: SentinelNoCoInvestigator,
		ColDomain:         SentinelNoDomain,
		ColFacultyName:    SentinelNoFaculty,
	}
	for col, sentinel := range sentinels {
		if !d.HasColumn(col) {
			continue
		}
		for i := range d.Rows {
			if strings.TrimSpace(d.Rows[i].Fields[col]) == "" {
				d.Rows[i].Fields[col] = sentinel
			}
		}
	}
}

// normalizeStatus applies the status casing transform when the column exists.
func (n *Normalizer) normalizeStatus(d *Dataset) {
	if !d.HasColumn(ColStatus) {
		return
	}
	for i := range d.Rows {
		d.Rows[i].Fields[ColStatus] = CanonicalStatus(d.Rows[i].Fields[ColStatus])
	}
}

// CanonicalStatus trims, lowercases, then capitalizes the first letter.
// Multi-word statuses keep only the leading capital ("in progress" becomes
// "In progress"); applying the transform twice yields the same result.
func CanonicalStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// coerceAmount parses a funding amount as a float. Unparsable or missing
// values become 0, never an error. Thousands separators are tolerated.
func coerceAmount(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// canonicalHeaders folds known aliases and trims each header.
func canonicalHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if canonical, ok := columnAliases[h]; ok {
			h = canonical
		}
		out[i] = h
	}
	return out
}

func headerIndex(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}

func isDisplayColumn(name string) bool {
	for _, c := range displayColumns {
		if c == name {
			return true
		}
	}
	return false
}
