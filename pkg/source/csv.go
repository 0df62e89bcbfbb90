package source

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/matzehuels/violin/pkg/dataset"
	"github.com/matzehuels/violin/pkg/errors"
)

// ReadCSV decodes delimited text with a header row. Rows may have fewer
// fields than the header; missing cells are null.
func ReadCSV(r io.Reader, comma rune, opts Options) (dataset.Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = comma != '\t'

	records, err := cr.ReadAll()
	if err != nil {
		return dataset.Dataset{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse delimited text")
	}
	if len(records) == 0 {
		return dataset.Dataset{}, errors.New(errors.ErrCodeInvalidInput, "input is empty; expected a header row")
	}
	header := records[0]
	if len(header) > 0 {
		// Spreadsheet exports often start with a UTF-8 byte order mark.
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return FromTable(header, records[1:], opts)
}
