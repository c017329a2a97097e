package excel

import (
	"strconv"
	"strings"

	"sheetDeck/internal/errs"
)

// Range selects data rows by zero-based offset: Start inclusive, End
// exclusive. A nil End means through the last row.
type Range struct {
	Start int
	End   *int
}

// All selects every data row.
func All() Range {
	return Range{}
}

// ParseRange converts 1-based row numbers as typed by a person. start is
// required; a blank end selects through the last row.
func ParseRange(start, end string) (Range, error) {
	startText := strings.TrimSpace(start)
	endText := strings.TrimSpace(end)

	startRow, err := strconv.Atoi(startText)
	if err != nil {
		return Range{}, &errs.InvalidRangeError{Start: start, End: end, Err: errs.ErrNotNumeric}
	}

	r := Range{Start: startRow - 1}
	if endText == "" {
		return r, nil
	}

	endRow, err := strconv.Atoi(endText)
	if err != nil {
		return Range{}, &errs.InvalidRangeError{Start: start, End: end, Err: errs.ErrNotNumeric}
	}
	if startRow > endRow {
		return Range{}, &errs.InvalidRangeError{Start: start, End: end, Err: errs.ErrStartAfterEnd}
	}

	r.End = &endRow
	return r, nil
}

// Bounds clamps the range against rowCount. The result always satisfies
// 0 <= lo <= hi <= rowCount.
func (r Range) Bounds(rowCount int) (lo, hi int) {
	lo = clamp(r.Start, 0, rowCount)
	hi = rowCount
	if r.End != nil {
		hi = clamp(*r.End, 0, rowCount)
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
