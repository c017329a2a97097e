package excel

import (
	"sheetDeck/internal/errs"
	"sheetDeck/internal/logger"
)

// ScanColumns returns the column names of sheet as records would see them.
func ScanColumns(path, sheet string) ([]string, error) {
	editor, err := OpenFile(path)
	if err != nil {
		return nil, &errs.SourceReadError{Path: path, Err: err}
	}
	defer editor.Close()

	if !editor.HasSheet(sheet) {
		logger.Warn("Sheet not found while scanning", "path", path, "sheet", sheet, "sheets", editor.GetSheetNames())
		return nil, &errs.SourceReadError{Path: path, Sheet: sheet, Err: errs.ErrSheetNotFound}
	}

	headers, err := editor.GetColumnHeaders(sheet)
	if err != nil {
		return nil, &errs.SourceReadError{Path: path, Sheet: sheet, Err: err}
	}

	columns := HeaderNames(headers)
	logger.Info("Scanned column headers", "path", path, "sheet", sheet, "count", len(columns))
	return columns, nil
}
