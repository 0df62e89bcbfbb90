package errors

import (
	"strings"
	"testing"
)

func TestValidateColumnName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "value", false},
		{"spaces", "Sales Amount", false},
		{"unicode", "Größe", false},
		{"empty", "", true},
		{"control", "val\x01ue", true},
		{"too long", strings.Repeat("a", 257), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColumnName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColumnName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", GetCode(err))
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"simple", "data.csv", false},
		{"nested", "sales/2024/q1.xlsx", false},
		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../secret.csv", true},
		{"embedded traversal", "a/../../b.csv", true},
		{"backslash", `a\b.csv`, true},
		{"null byte", "a\x00.csv", true},
		{"too long", strings.Repeat("a", 501), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("expected INVALID_PATH, got %v", GetCode(err))
			}
		})
	}
}

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{"select", "SELECT region, amount FROM sales", false},
		{"lowercase with trailing semicolon", "select * from t;", false},
		{"cte", "WITH x AS (SELECT 1) SELECT * FROM x", false},
		{"leading whitespace", "\n  SELECT 1", false},
		{"empty", "  ", true},
		{"delete", "DELETE FROM sales", true},
		{"stacked", "SELECT 1; DROP TABLE sales", true},
		{"selector prefix", "selector", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.query)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQuery(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDriver(t *testing.T) {
	for _, d := range []string{"postgres", "mysql"} {
		if err := ValidateDriver(d); err != nil {
			t.Errorf("ValidateDriver(%q) = %v", d, err)
		}
	}
	if err := ValidateDriver("sqlite3"); !Is(err, ErrCodeUnsupported) {
		t.Errorf("ValidateDriver(sqlite3) = %v, want UNSUPPORTED", err)
	}
}
