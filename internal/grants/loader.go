package grants

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	apperrors "github.com/Prateek-0000/faculty-rnd-insights/internal/errors"
)

// LoadResult is the per-source outcome of one load attempt. Exactly one of
// Batch or Err is set; Notice carries a non-fatal message (for example that
// the Latin-1 fallback decoder was used) that should surface to the user
// without blocking the pipeline.
type LoadResult struct {
	Source string
	Batch  *Batch
	Notice string
	Err    error
}

// Available reports whether the source produced a usable batch.
func (r LoadResult) Available() bool {
	return r.Batch != nil
}

// Loader reads located source files into raw record batches. A failing
// source never prevents the others from loading; the loader always returns
// either a batch or an explicit unavailable result.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader with the given logger.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "record_loader"))}
}

// Load reads one located file into a batch tagged with its source.
func (l *Loader) Load(loc Located) LoadResult {
	if !loc.Found {
		return LoadResult{
			Source: loc.Source.Tag,
			Err:    apperrors.NewSourceUnavailableError(loc.Source.Tag, nil),
		}
	}

	switch loc.Format {
	case FormatXLSX:
		return l.loadXLSX(loc)
	case FormatCSV:
		return l.loadCSV(loc)
	default:
		return LoadResult{
			Source: loc.Source.Tag,
			Err:    apperrors.NewParsingError(fmt.Sprintf("unsupported format %q for source %s", loc.Format, loc.Source.Tag), nil),
		}
	}
}

// LoadAll loads every located source in order. Results are returned for all
// sources, available or not, so the caller can aggregate warnings.
func (l *Loader) LoadAll(located []Located) []LoadResult {
	results := make([]LoadResult, 0, len(located))
	for _, loc := range located {
		result := l.Load(loc)
		if result.Err != nil {
			l.logger.Warn("source unavailable",
				slog.String("source", result.Source),
				slog.String("error", result.Err.Error()))
		} else {
			l.logger.Info("source loaded",
				slog.String("source", result.Source),
				slog.String("path", loc.Path),
				slog.String("format", string(loc.Format)),
				slog.Int("rows", len(result.Batch.Rows)))
		}
		results = append(results, result)
	}
	return results
}

// loadXLSX reads the first sheet of a spreadsheet. Any failure is soft.
func (l *Loader) loadXLSX(loc Located) LoadResult {
	f, err := excelize.OpenFile(loc.Path)
	if err != nil {
		return LoadResult{
			Source: loc.Source.Tag,
			Err:    apperrors.NewParsingError(fmt.Sprintf("open spreadsheet for source %s", loc.Source.Tag), err),
		}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return LoadResult{
			Source: loc.Source.Tag,
			Err:    apperrors.NewParsingError(fmt.Sprintf("spreadsheet for source %s has no sheets", loc.Source.Tag), nil),
		}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return LoadResult{
			Source: loc.Source.Tag,
			Err:    apperrors.NewParsingError(fmt.Sprintf("read sheet %q for source %s", sheets[0], loc.Source.Tag), err),
		}
	}

	return l.batchFromRows(loc.Source.Tag, rows)
}

// loadCSV reads a comma-separated export. The file is decoded as UTF-8
// first; invalid UTF-8 triggers a single retry through a Latin-1 decoder
// with a non-fatal notice attached to the result.
func (l *Loader) loadCSV(loc Located) LoadResult {
	data, err := os.ReadFile(loc.Path)
	if err != nil {
		return LoadResult{
			Source: loc.Source.Tag,
			Err:    apperrors.NewSourceUnavailableError(loc.Source.Tag, err),
		}
	}

	var notice string
	if !utf8.Valid(data) {
		decoded, decErr := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if decErr != nil {
			return LoadResult{
				Source: loc.Source.Tag,
				Err:    apperrors.NewDecodeError(fmt.Sprintf("decode CSV for source %s with fallback encoding", loc.Source.Tag), decErr),
			}
		}
		data = decoded
		notice = fmt.Sprintf("Loaded %s data using 'latin1' encoding to resolve character errors.", loc.Source.Tag)
		l.logger.Info("csv decoded with latin1 fallback",
			slog.String("source", loc.Source.Tag),
			slog.String("path", loc.Path))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return LoadResult{
			Source: loc.Source.Tag,
			Err:    apperrors.NewParsingError(fmt.Sprintf("parse CSV for source %s", loc.Source.Tag), err),
		}
	}

	result := l.batchFromRows(loc.Source.Tag, records)
	result.Notice = notice
	return result
}

// batchFromRows splits raw rows into header and data, stamping the source
// tag. The first non-empty row is the header; a leading byte-order mark on
// the first header cell is stripped.
func (l *Loader) batchFromRows(source string, rows [][]string) LoadResult {
	headerIdx := -1
	for i, row := range rows {
		if !rowEmpty(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return LoadResult{
			Source: source,
			Err:    apperrors.NewParsingError(fmt.Sprintf("source %s file contains no data", source), nil),
		}
	}

	headers := make([]string, len(rows[headerIdx]))
	for i, h := range rows[headerIdx] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
	}

	batch := &Batch{Source: source, Headers: headers}
	for _, row := range rows[headerIdx+1:] {
		if rowEmpty(row) {
			continue
		}
		batch.Rows = append(batch.Rows, row)
	}

	return LoadResult{Source: source, Batch: batch}
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
