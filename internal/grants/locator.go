package grants

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Format identifies the physical shape of a located source file.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Source describes one logical department source: the preferred spreadsheet
// and its comma-separated fallback export.
type Source struct {
	Tag      string `yaml:"tag"`
	XLSXName string `yaml:"xlsx_name"`
	CSVName  string `yaml:"csv_name"`
}

// DefaultSources returns the built-in department source table.
func DefaultSources() []Source {
	return []Source{
		{Tag: "CSE", XLSXName: "CSEDATA.xlsx", CSVName: "CSEDATA.xlsx - Sheet1.csv"},
		{Tag: "ECE", XLSXName: "ECEDATA.xlsx", CSVName: "ECEDATA.xlsx - Sheet1.csv"},
	}
}

// Located is the result of resolving a source against the filesystem.
type Located struct {
	Source Source
	Path   string
	Format Format
	Found  bool
}

// Locator resolves logical sources to files under a base directory,
// preferring the spreadsheet form. Pure existence checks, no reads.
type Locator struct {
	baseDir string
	logger  *slog.Logger
}

// NewLocator creates a locator rooted at baseDir.
func NewLocator(baseDir string, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{
		baseDir: baseDir,
		logger:  logger.With(slog.String("component", "source_locator")),
	}
}

// Locate resolves a single source. A missing file is not an error; the
// result simply reports Found=false and the caller skips the source.
func (l *Locator) Locate(src Source) Located {
	xlsxPath := filepath.Join(l.baseDir, src.XLSXName)
	if fileExists(xlsxPath) {
		return Located{Source: src, Path: xlsxPath, Format: FormatXLSX, Found: true}
	}

	csvPath := filepath.Join(l.baseDir, src.CSVName)
	if fileExists(csvPath) {
		return Located{Source: src, Path: csvPath, Format: FormatCSV, Found: true}
	}

	l.logger.Warn("no readable file for source",
		slog.String("source", src.Tag),
		slog.String("xlsx", xlsxPath),
		slog.String("csv", csvPath))

	return Located{Source: src, Found: false}
}

// LocateAll resolves every source in order. Unavailable sources are included
// in the result with Found=false so callers can report them.
func (l *Locator) LocateAll(sources []Source) []Located {
	located := make([]Located, 0, len(sources))
	for _, src := range sources {
		located = append(located, l.Locate(src))
	}
	return located
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
