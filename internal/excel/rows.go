package excel

import (
	"fmt"
	"strings"

	"sheetDeck/internal/errs"
	"sheetDeck/internal/fields"
	"sheetDeck/internal/logger"
)

// ExtractRecords reads sheet from the workbook at path and returns the data
// rows selected by r, in row order. Row 1 holds the column names.
func ExtractRecords(path, sheet string, r Range) ([]fields.Record, error) {
	editor, err := OpenFile(path)
	if err != nil {
		return nil, &errs.SourceReadError{Path: path, Err: err}
	}
	defer editor.Close()

	if !editor.HasSheet(sheet) {
		return nil, &errs.SourceReadError{Path: path, Sheet: sheet, Err: errs.ErrSheetNotFound}
	}

	rows, err := editor.GetAllRows(sheet)
	if err != nil {
		return nil, &errs.SourceReadError{Path: path, Sheet: sheet, Err: err}
	}

	if len(rows) == 0 {
		logger.Warn("Sheet has no header row", "path", path, "sheet", sheet)
		return []fields.Record{}, nil
	}

	columns := HeaderNames(rows[0])
	data := rows[1:]
	lo, hi := r.Bounds(len(data))

	logger.Info("Extracting records",
		"path", path,
		"sheet", sheet,
		"row_count", len(data),
		"range", fmt.Sprintf("%d-%d", lo, hi))

	records := make([]fields.Record, 0, hi-lo)
	for _, row := range data[lo:hi] {
		values := make(map[string]fields.Value, len(columns))
		for i, column := range columns {
			if i < len(row) {
				values[column] = parseCellValue(row[i])
			} else {
				values[column] = fields.EmptyValue()
			}
		}
		records = append(records, fields.NewRecord(columns, values))
	}

	return records, nil
}

// HeaderNames turns a raw header row into unique column names. A blank
// header at position i becomes "Unnamed: i"; repeated names get ".1", ".2"
// suffixes in order of appearance.
func HeaderNames(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	next := make(map[string]int, len(header))

	for i, raw := range header {
		base := raw
		if strings.TrimSpace(base) == "" {
			base = fmt.Sprintf("Unnamed: %d", i)
		}

		name := base
		if used[name] {
			n := next[base]
			if n == 0 {
				n = 1
			}
			for used[fmt.Sprintf("%s.%d", base, n)] {
				n++
			}
			name = fmt.Sprintf("%s.%d", base, n)
			next[base] = n + 1
		}

		used[name] = true
		names[i] = name
	}

	return names
}
