package core

import (
	"path/filepath"
	"strings"
)

var spreadsheetExtensions = []string{".csv", ".xls", ".xlsx"}

// CheckSpreadsheet rejects files that are not spreadsheets before anything is uploaded.
// Columns are left to the backend.
func CheckSpreadsheet(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range spreadsheetExtensions {
		if ext == allowed {
			return nil
		}
	}
	return NewValidationError(nil, FieldError{
		Field: "file",
		Error: "file must be one of " + strings.Join(spreadsheetExtensions, ", "),
	})
}
