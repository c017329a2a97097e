package excel

import (
	"fmt"
	"strings"

	"sheetDeck/internal/fields"

	"github.com/xuri/excelize/v2"
)

type Editor struct {
	file     *excelize.File
	filepath string
}

// OpenFile opens an existing Excel file
func OpenFile(filepath string) (*Editor, error) {
	file, err := excelize.OpenFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return &Editor{
		file:     file,
		filepath: filepath,
	}, nil
}

// GetSheetNames returns all sheet names in the workbook
func (e *Editor) GetSheetNames() []string {
	return e.file.GetSheetList()
}

// HasSheet reports whether the workbook contains sheet, compared exactly
func (e *Editor) HasSheet(sheet string) bool {
	for _, name := range e.file.GetSheetList() {
		if name == sheet {
			return true
		}
	}
	return false
}

// GetColumnHeaders returns all column headers (first row)
func (e *Editor) GetColumnHeaders(sheet string) ([]string, error) {
	rows, err := e.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get first row: %w", err)
	}
	if len(rows) == 0 {
		return []string{}, nil
	}
	return rows[0], nil
}

// GetAllRows returns all rows from a sheet as displayed text
func (e *Editor) GetAllRows(sheet string) ([][]string, error) {
	return e.file.GetRows(sheet)
}

// Close closes the Excel file
func (e *Editor) Close() error {
	return e.file.Close()
}

// parseCellValue classifies a displayed cell. Plain decimal literals become
// numbers; anything else (including "007" or "1e5") stays text.
func parseCellValue(value string) fields.Value {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fields.EmptyValue()
	}
	if !isDecimalLiteral(trimmed) {
		return fields.TextValue(value)
	}
	return fields.NumberValue(trimmed)
}

func isDecimalLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	intPart, frac, hasDot := strings.Cut(s, ".")
	if intPart == "" || !allDigits(intPart) {
		return false
	}
	if len(intPart) > 1 && intPart[0] == '0' {
		return false
	}
	if hasDot && (frac == "" || !allDigits(frac)) {
		return false
	}
	return true
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
