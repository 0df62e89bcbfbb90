package source

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/violin/pkg/dataset"
	"github.com/matzehuels/violin/pkg/errors"
)

// ReadXLSX decodes one worksheet of an Excel workbook. The first row of the
// sheet is the header.
func ReadXLSX(r io.Reader, opts Options) (dataset.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return dataset.Dataset{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open workbook")
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return dataset.Dataset{}, errors.New(errors.ErrCodeInvalidInput, "workbook has no sheets")
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return dataset.Dataset{}, errors.New(errors.ErrCodeNotFound, "sheet %q not found", sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return dataset.Dataset{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read sheet %q", sheet)
	}
	if len(rows) == 0 {
		return dataset.Dataset{}, errors.New(errors.ErrCodeInvalidInput, "sheet %q is empty; expected a header row", sheet)
	}
	return FromTable(rows[0], rows[1:], opts)
}
