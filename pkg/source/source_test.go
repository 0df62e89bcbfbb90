package source

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/violin/pkg/dataset"
	"github.com/matzehuels/violin/pkg/errors"
)

func values(ds dataset.Dataset) []any {
	out := make([]any, len(ds.Samples))
	for i, s := range ds.Samples {
		if s.Value == nil {
			out[i] = nil
			continue
		}
		out[i] = *s.Value
	}
	return out
}

func TestReadCSV(t *testing.T) {
	in := "\ufeffspecies,weight,note\n" +
		"a,1.5,x\n" +
		"b, 2 ,\n" +
		"a,,missing\n" +
		",4,blank group\n" +
		"\n" +
		"b,oops\n"

	ds, err := ReadCSV(strings.NewReader(in), ',', Options{ValueColumn: "weight", CategoryColumn: "Species"})
	require.NoError(t, err)

	assert.Equal(t, "weight", ds.ValueName)
	assert.Equal(t, "species", ds.CategoryName)
	require.Len(t, ds.Samples, 5)
	assert.Equal(t, []any{1.5, 2.0, nil, 4.0, nil}, values(ds))
	assert.Equal(t, "", ds.Samples[3].Category)
	assert.Equal(t, 3, ds.ValidCount())
}

func TestReadCSVDetectsValueColumn(t *testing.T) {
	in := "name,score,rank\nx,1,a\ny,,b\nz,3.5,c\n"
	ds, err := ReadCSV(strings.NewReader(in), ',', Options{})
	require.NoError(t, err)
	assert.Equal(t, "score", ds.ValueName)
	assert.False(t, ds.Grouped())
	assert.Equal(t, []any{1.0, nil, 3.5}, values(ds))
}

func TestReadTSV(t *testing.T) {
	in := "g\tv\na\t1\nb\t\n"
	ds, err := Read(strings.NewReader(in), FormatTSV, Options{CategoryColumn: "g"})
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, nil}, values(ds))
	assert.Equal(t, "b", ds.Samples[1].Category)
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts Options
	}{
		{"empty", "", Options{}},
		{"missing value column", "a,b\n1,2\n", Options{ValueColumn: "c"}},
		{"missing category column", "a,b\n1,2\n", Options{CategoryColumn: "c"}},
		{"no numeric column", "a,b\nx,y\n", Options{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in), ',', tt.opts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), err.Error())
		})
	}
}

func TestReadJSONDataset(t *testing.T) {
	in := `{"value_name": "w", "category_name": "g",
		"samples": [{"category": "a", "value": 1}, {"category": "b", "value": null}]}`
	ds, err := ReadJSON(strings.NewReader(in), Options{})
	require.NoError(t, err)
	assert.Equal(t, "w", ds.ValueName)
	assert.True(t, ds.Grouped())
	assert.Equal(t, []any{1.0, nil}, values(ds))
}

func TestReadJSONRecords(t *testing.T) {
	in := `[{"group": "a", "v": 1.5}, null, {"group": "b", "v": "2"}, {"group": "b"}]`
	ds, err := ReadJSON(strings.NewReader(in), Options{CategoryColumn: "group"})
	require.NoError(t, err)
	assert.Equal(t, "v", ds.ValueName)
	assert.Equal(t, "group", ds.CategoryName)
	assert.Equal(t, []any{1.5, 2.0, nil}, values(ds))
}

func TestReadJSONValues(t *testing.T) {
	ds, err := ReadJSON(strings.NewReader(`[1, "2.5", null, "x"]`), Options{})
	require.NoError(t, err)
	assert.Equal(t, dataset.DefaultValueName, ds.ValueName)
	assert.Equal(t, []any{1.0, 2.5, nil, nil}, values(ds))
}

func TestReadJSONErrors(t *testing.T) {
	for _, in := range []string{"", "42", "{", `[{"a": {"b": 1}}]`, `[[1]]`} {
		_, err := ReadJSON(strings.NewReader(in), Options{})
		assert.Error(t, err, in)
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	ds := dataset.New("v", "g", []string{"a", "b"}, []float64{1, 2})
	ds.Samples = append(ds.Samples, dataset.Sample{Category: "c"})

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, ds))
	got, err := ReadJSON(&buf, Options{})
	require.NoError(t, err)
	assert.Equal(t, ds, got)
}

func workbook(t *testing.T, sheet string, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadXLSX(t *testing.T) {
	buf := workbook(t, "Sheet1", [][]any{
		{"group", "value"},
		{"a", 1.25},
		{"b", 3},
		{"b", nil},
	})
	ds, err := ReadXLSX(buf, Options{CategoryColumn: "group"})
	require.NoError(t, err)
	assert.Equal(t, "value", ds.ValueName)
	assert.Equal(t, []any{1.25, 3.0}, values(ds)[:2])
	assert.Equal(t, 2, ds.ValidCount())
}

func TestReadXLSXSheet(t *testing.T) {
	buf := workbook(t, "Data", [][]any{{"v"}, {7}})

	ds, err := ReadXLSX(bytes.NewReader(buf.Bytes()), Options{Sheet: "Data"})
	require.NoError(t, err)
	assert.Equal(t, []any{7.0}, values(ds))

	_, err = ReadXLSX(bytes.NewReader(buf.Bytes()), Options{Sheet: "Nope"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestReadXLSXInvalid(t *testing.T) {
	_, err := ReadXLSX(strings.NewReader("not a zip"), Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{
		"a.csv":       FormatCSV,
		"dir/b.TSV":   FormatTSV,
		"c.json":      FormatJSON,
		"report.xlsx": FormatXLSX,
	} {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatFromPath("image.png")
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("v\n1\n2\n"), 0o644))

	ds, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.ValidCount())

	_, err = Load(context.Background(), filepath.Join(dir, "missing.csv"), Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("a\nx\n"), 0o644))
	_, err = Load(context.Background(), bad, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	assert.Contains(t, err.Error(), "bad.csv")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Load(ctx, path, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseValue(t *testing.T) {
	assert.Nil(t, ParseValue(""))
	assert.Nil(t, ParseValue("  "))
	assert.Nil(t, ParseValue("n/a"))
	require.NotNil(t, ParseValue(" -1e3 "))
	assert.Equal(t, -1000.0, *ParseValue(" -1e3 "))
}

func TestSQLCell(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{[]byte("1.5"), "1.5"},
		{"x", "x"},
		{float64(0.1), "0.1"},
		{int64(42), "42"},
		{true, "true"},
		{ts, "2024-03-01T12:00:00Z"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sqlCell(tt.in))
	}
}

func TestOpenSQLRejectsDriver(t *testing.T) {
	_, err := OpenSQL(context.Background(), "sqlite3", "file.db")
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))

	_, err = OpenSQL(context.Background(), DriverPostgres, "")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestSQLKeyIncludesDatabase(t *testing.T) {
	db := sqlx.NewDb(nil, DriverPostgres)
	const query = "SELECT species, weight FROM penguins"
	opts := Options{CategoryColumn: "species"}

	prod, err := NewSQL(db, "postgres://prod/zoo", nil, nil, nil).key(query, opts)
	require.NoError(t, err)
	staging, err := NewSQL(db, "postgres://staging/zoo", nil, nil, nil).key(query, opts)
	require.NoError(t, err)
	again, err := NewSQL(db, "postgres://prod/zoo", nil, nil, nil).key(query, opts)
	require.NoError(t, err)

	assert.NotEqual(t, prod, staging)
	assert.Equal(t, prod, again)
	assert.True(t, strings.HasPrefix(prod, "source:"))
}
