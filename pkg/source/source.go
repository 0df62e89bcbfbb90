package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/violin/pkg/dataset"
	"github.com/matzehuels/violin/pkg/errors"
)

// Format identifies an input encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// Stdin is the path that reads from standard input.
const Stdin = "-"

// Options map input columns onto dataset roles.
type Options struct {
	ValueColumn    string `json:"value_column,omitempty" toml:"value_column"`
	CategoryColumn string `json:"category_column,omitempty" toml:"category_column"`
	// Sheet selects the XLSX worksheet; empty means the first sheet.
	Sheet string `json:"sheet,omitempty" toml:"sheet"`
	// Format overrides detection from the file extension.
	Format Format `json:"format,omitempty" toml:"format"`
}

// FormatFromPath detects the format of path from its extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported file type %q (supported: csv, tsv, json, xlsx)", ext)
	}
}

// Load reads the dataset at path. The path "-" reads standard input, as CSV
// unless opts.Format says otherwise.
func Load(ctx context.Context, path string, opts Options) (dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return dataset.Dataset{}, err
	}

	format := opts.Format
	if path == Stdin {
		if format == "" {
			format = FormatCSV
		}
		return Read(os.Stdin, format, opts)
	}
	if format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return dataset.Dataset{}, err
		}
		format = f
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return dataset.Dataset{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", path)
		}
		return dataset.Dataset{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	ds, err := Read(f, format, opts)
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return ds, nil
}

// Read decodes a dataset in the given format from r. It does not close r.
func Read(r io.Reader, format Format, opts Options) (dataset.Dataset, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r, ',', opts)
	case FormatTSV:
		return ReadCSV(r, '\t', opts)
	case FormatJSON:
		return ReadJSON(r, opts)
	case FormatXLSX:
		return ReadXLSX(r, opts)
	default:
		return dataset.Dataset{}, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
}

// FromTable maps a header and string rows onto a dataset.
func FromTable(header []string, rows [][]string, opts Options) (dataset.Dataset, error) {
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	valueIdx := -1
	if opts.ValueColumn != "" {
		if valueIdx = columnIndex(header, opts.ValueColumn); valueIdx < 0 {
			return dataset.Dataset{}, errors.New(errors.ErrCodeInvalidInput, "column %q not found", opts.ValueColumn)
		}
	} else if valueIdx = numericColumn(len(header), rows); valueIdx < 0 {
		return dataset.Dataset{}, errors.New(errors.ErrCodeInvalidInput, "no numeric column found; set a value column")
	}

	categoryIdx := -1
	if opts.CategoryColumn != "" {
		if categoryIdx = columnIndex(header, opts.CategoryColumn); categoryIdx < 0 {
			return dataset.Dataset{}, errors.New(errors.ErrCodeInvalidInput, "column %q not found", opts.CategoryColumn)
		}
	}

	ds := dataset.Dataset{
		ValueName: header[valueIdx],
		Samples:   make([]dataset.Sample, 0, len(rows)),
	}
	if categoryIdx >= 0 {
		ds.CategoryName = header[categoryIdx]
	}
	for _, row := range rows {
		if blank(row) {
			continue
		}
		s := dataset.Sample{Value: ParseValue(cell(row, valueIdx))}
		if categoryIdx >= 0 {
			s.Category = strings.TrimSpace(cell(row, categoryIdx))
		}
		ds.Samples = append(ds.Samples, s)
	}
	return ds, nil
}

// ParseValue parses a numeric cell. It returns nil for empty or non-numeric
// cells.
func ParseValue(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return dataset.Float(v)
}

// columnIndex matches name against header, exactly first and then ignoring
// case.
func columnIndex(header []string, name string) int {
	name = strings.TrimSpace(name)
	for i, h := range header {
		if h == name {
			return i
		}
	}
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// numericColumn returns the first column with at least one number and no
// non-numeric cells.
func numericColumn(width int, rows [][]string) int {
	for col := range width {
		numbers, ok := 0, true
		for _, row := range rows {
			c := strings.TrimSpace(cell(row, col))
			if c == "" {
				continue
			}
			if ParseValue(c) == nil {
				ok = false
				break
			}
			numbers++
		}
		if ok && numbers > 0 {
			return col
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
