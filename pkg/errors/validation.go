package errors

import (
	"regexp"
	"strings"
	"unicode"
)

const maxNameLength = 256

// ValidateColumnName validates a dataset column (field) name supplied by a
// user. Names are matched against headers, so only emptiness, length and
// control characters are rejected.
func ValidateColumnName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "column name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "column name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "column name contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath validates a dataset path received over the network. It
// prevents path traversal out of the server's data directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// readOnlyQueryRegex matches statements that start with SELECT or WITH.
var readOnlyQueryRegex = regexp.MustCompile(`(?is)^\s*(select|with)\b`)

// ValidateQuery checks that a SQL query is a single read-only statement.
func ValidateQuery(query string) error {
	q := strings.TrimSpace(query)
	if q == "" {
		return New(ErrCodeInvalidInput, "query cannot be empty")
	}
	if !readOnlyQueryRegex.MatchString(q) {
		return New(ErrCodeInvalidInput, "query must be a SELECT statement")
	}
	if strings.Contains(strings.TrimSuffix(q, ";"), ";") {
		return New(ErrCodeInvalidInput, "query must be a single statement")
	}
	return nil
}

// ValidateDriver checks a SQL driver name.
func ValidateDriver(driver string) error {
	switch driver {
	case "postgres", "mysql":
		return nil
	}
	return New(ErrCodeUnsupported, "unsupported driver %q (must be one of: postgres, mysql)", driver)
}
