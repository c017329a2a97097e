package mapping

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// saveSuggestionsDebug writes the request and outcome of one Gemini call to
// <logDir>/ai_debug for later inspection. Failures are ignored.
func saveSuggestionsDebug(logDir string, columns, regions []string, suggestions []Suggestion, err error) {
	if logDir == "" {
		return
	}
	debugDir := filepath.Join(logDir, "ai_debug")
	if mkErr := os.MkdirAll(debugDir, 0755); mkErr != nil {
		return
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	file, fileErr := os.Create(filepath.Join(debugDir, fmt.Sprintf("suggest_%s.txt", timestamp)))
	if fileErr != nil {
		return
	}
	defer file.Close()

	fmt.Fprintf(file, "Region Suggestion Debug - %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(file, "===========================================\n\n")

	fmt.Fprintf(file, "UNMATCHED COLUMNS (%d):\n", len(columns))
	for i, col := range columns {
		fmt.Fprintf(file, "%d. %s\n", i+1, col)
	}

	fmt.Fprintf(file, "\nUNUSED REGIONS (%d):\n", len(regions))
	for i, region := range regions {
		fmt.Fprintf(file, "%d. %s\n", i+1, region)
	}

	fmt.Fprintf(file, "\nAI RESPONSE:\n")
	if err != nil {
		fmt.Fprintf(file, "ERROR: %v\n", err)
	} else {
		fmt.Fprintf(file, "SUCCESS - %d suggestions:\n", len(suggestions))
		for i, s := range suggestions {
			fmt.Fprintf(file, "%d. '%s' → '%s' (%.2f confidence)\n", i+1, s.Column, s.Region, s.Confidence)
		}
	}
	fmt.Fprintf(file, "\n===========================================\n")
}
