package mapping

import (
	"encoding/json"
	"os"
)

// ReportFileName is the audit report written by the scan command.
const ReportFileName = "region_mapping.json"

// Suggestion is an advisory rename proposed for an unmatched column.
type Suggestion struct {
	Column     string  `json:"column"`
	Region     string  `json:"region"`
	Confidence float64 `json:"confidence"`
}

// Report compares sheet columns with template region names. Binding only
// ever uses exact matches; suggestions are for a person to act on.
type Report struct {
	Spreadsheet      string       `json:"spreadsheet"`
	Sheet            string       `json:"sheet"`
	Template         string       `json:"template"`
	Slides           int          `json:"slides"`
	Matched          []string     `json:"matched"`
	NamingColumns    []string     `json:"naming_columns"`
	UnmatchedColumns []string     `json:"unmatched_columns"`
	UnusedRegions    []string     `json:"unused_regions"`
	Suggestions      []Suggestion `json:"suggestions,omitempty"`
}

// SaveToFile saves the report to a JSON file
func (r *Report) SaveToFile(filepath string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}
