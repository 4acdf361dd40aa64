// Package exporter renders dataset views as downloadable files.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	apperrors "github.com/Prateek-0000/faculty-rnd-insights/internal/errors"
	"github.com/Prateek-0000/faculty-rnd-insights/internal/grants"
)

// WriteProjectsCSV streams the dataset's display columns as CSV. Amounts are
// formatted with two decimals; all other cells pass through as stored.
func WriteProjectsCSV(w io.Writer, dataset *grants.Dataset) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	columns := dataset.DisplayColumns()
	if err := writer.Write(columns); err != nil {
		return apperrors.NewStorageError("failed to write CSV header row", err)
	}

	for _, row := range dataset.Rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			switch col {
			case grants.ColDepartment:
				record[i] = row.Department
			case grants.ColAmount:
				record[i] = fmt.Sprintf("%.2f", row.Amount)
			default:
				record[i] = row.Fields[col]
			}
		}
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError("failed to write CSV data row", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
