// Package mapping audits how spreadsheet columns line up with template
// region names and can ask Gemini for rename suggestions.
package mapping

// Audit matches columns to regions by exact, case-sensitive name. Columns in
// naming (output folder/file fields) are reported separately since they need
// no region.
func Audit(columns, regions, naming []string) Report {
	regionSet := make(map[string]bool, len(regions))
	for _, r := range regions {
		regionSet[r] = true
	}
	namingSet := make(map[string]bool, len(naming))
	for _, n := range naming {
		namingSet[n] = true
	}

	report := Report{
		Matched:          []string{},
		NamingColumns:    []string{},
		UnmatchedColumns: []string{},
		UnusedRegions:    []string{},
	}

	used := make(map[string]bool, len(columns))
	for _, column := range columns {
		switch {
		case regionSet[column]:
			report.Matched = append(report.Matched, column)
			used[column] = true
		case namingSet[column]:
			report.NamingColumns = append(report.NamingColumns, column)
		default:
			report.UnmatchedColumns = append(report.UnmatchedColumns, column)
		}
	}

	for _, region := range regions {
		if !used[region] {
			report.UnusedRegions = append(report.UnusedRegions, region)
		}
	}

	return report
}
