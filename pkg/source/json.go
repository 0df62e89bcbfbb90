package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/matzehuels/violin/pkg/dataset"
	"github.com/matzehuels/violin/pkg/errors"
)

// ReadJSON decodes a dataset object, a list of records or a list of values.
// See the package documentation for the accepted shapes.
func ReadJSON(r io.Reader, opts Options) (dataset.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return dataset.Dataset{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read JSON")
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return dataset.Dataset{}, errors.New(errors.ErrCodeInvalidInput, "input is empty")
	}

	switch data[0] {
	case '{':
		var ds dataset.Dataset
		if err := json.Unmarshal(data, &ds); err != nil {
			return dataset.Dataset{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode dataset")
		}
		return ds, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return dataset.Dataset{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode array")
		}
		if isRecordList(items) {
			return fromRecords(items, opts)
		}
		return fromValues(items, opts)
	default:
		return dataset.Dataset{}, errors.New(errors.ErrCodeInvalidInput, "expected a JSON object or array")
	}
}

// WriteJSON encodes ds in the object shape ReadJSON accepts. Invalid values
// are written as null.
func WriteJSON(w io.Writer, ds dataset.Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds.Canonical()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func isRecordList(items []json.RawMessage) bool {
	for _, it := range items {
		it = bytes.TrimSpace(it)
		if len(it) == 0 || bytes.Equal(it, []byte("null")) {
			continue
		}
		return it[0] == '{'
	}
	return false
}

func fromValues(items []json.RawMessage, opts Options) (dataset.Dataset, error) {
	name := opts.ValueColumn
	if name == "" {
		name = dataset.DefaultValueName
	}
	ds := dataset.Dataset{ValueName: name, Samples: make([]dataset.Sample, len(items))}
	for i, it := range items {
		v, err := jsonValue(it)
		if err != nil {
			return dataset.Dataset{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "item %d", i)
		}
		ds.Samples[i].Value = v
	}
	return ds, nil
}

func fromRecords(items []json.RawMessage, opts Options) (dataset.Dataset, error) {
	records := make([]map[string]json.RawMessage, len(items))
	keys := make(map[string]struct{})
	for i, it := range items {
		if err := json.Unmarshal(it, &records[i]); err != nil {
			return dataset.Dataset{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "record %d", i)
		}
		for k := range records[i] {
			keys[k] = struct{}{}
		}
	}

	// Records become a table with sorted columns so column detection is
	// deterministic.
	header := slices.Sorted(maps.Keys(keys))
	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(header))
		for j, k := range header {
			s, err := jsonCell(rec[k])
			if err != nil {
				return dataset.Dataset{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "record %d field %q", i, k)
			}
			row[j] = s
		}
		rows[i] = row
	}
	return FromTable(header, rows, opts)
}

// jsonValue decodes a number, a numeric string or null.
func jsonValue(raw json.RawMessage) (*float64, error) {
	s, err := jsonCell(raw)
	if err != nil {
		return nil, err
	}
	return ParseValue(s), nil
}

// jsonCell renders a scalar JSON value as a table cell.
func jsonCell(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch v := v.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("unsupported value %s", raw)
	}
}
