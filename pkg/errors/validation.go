package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// maxProjectNameLength bounds project names accepted from files and the API.
const maxProjectNameLength = 200

// ValidateProjectName validates a human-entered project name.
//
// The rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters (newlines break the text report)
//   - Maximum length of 200 characters
func ValidateProjectName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "project name cannot be empty")
	}

	if len(name) > maxProjectNameLength {
		return New(ErrCodeInvalidInput, "project name too long (max %d characters)", maxProjectNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "project name contains invalid control characters")
		}
	}

	return nil
}

// projectExtensions lists the file extensions accepted for project documents.
var projectExtensions = map[string]bool{
	".toml": true,
	".yaml": true,
	".yml":  true,
	".json": true,
}

// ValidateProjectFilename validates the path of a project document.
// It only checks the shape of the path; existence is checked on read.
func ValidateProjectFilename(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "project file path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "project file path contains invalid characters")
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !projectExtensions[ext] {
		return New(ErrCodeInvalidFormat, "unsupported project file extension %q (must be .toml, .yaml, .yml or .json)", ext)
	}

	return nil
}

// ValidatePositive checks that a named quantity is a finite number greater than zero.
func ValidatePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", field)
	}
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be greater than zero (got %g)", field, v)
	}
	return nil
}

// ValidateFinite checks that a named quantity is a finite number.
// Plan coordinates and elevations may be negative but never NaN or infinite.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", field)
	}
	return nil
}
