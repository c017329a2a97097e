// Package generate runs a batch: spreadsheet rows in, one presentation per
// row out. Rows are processed sequentially and the first failure aborts.
package generate

import (
	"fmt"
	"time"

	"sheetDeck/internal/deck"
	"sheetDeck/internal/errs"
	"sheetDeck/internal/excel"
	"sheetDeck/internal/fields"
	"sheetDeck/internal/logger"
	"sheetDeck/internal/output"
)

// Params are the explicit inputs of one batch.
type Params struct {
	Spreadsheet string
	Sheet       string
	Template    string
	OutputDir   string
	Range       excel.Range

	RichTextField   string
	Naming          output.Naming
	Format          deck.Format
	FailOnCollision bool
}

// DefaultParams fills everything but the three paths with the standard
// column names, sheet and formatting.
func DefaultParams(spreadsheet, template, outputDir string) Params {
	return Params{
		Spreadsheet:   spreadsheet,
		Sheet:         "Summaries",
		Template:      template,
		OutputDir:     outputDir,
		Range:         excel.All(),
		RichTextField: "Duckers Solution",
		Naming:        output.DefaultNaming(),
		Format:        deck.DefaultFormat(),
	}
}

// Result lists the written files in row order.
type Result struct {
	OutputDir string
	Files     []string
	Bound     int
}

// Run extracts the selected records and writes one presentation per record.
// The template is parsed once and instantiated afresh for every record.
func Run(p Params) (*Result, error) {
	started := time.Now()

	records, err := excel.ExtractRecords(p.Spreadsheet, p.Sheet, p.Range)
	if err != nil {
		logger.Error("Failed to read spreadsheet", "path", p.Spreadsheet, "error", err)
		return nil, err
	}

	tmpl, err := deck.LoadTemplate(p.Template)
	if err != nil {
		logger.Error("Failed to load template", "path", p.Template, "error", err)
		return nil, err
	}

	writer := output.NewWriter(p.OutputDir, output.Options{
		Naming:          p.Naming,
		FailOnCollision: p.FailOnCollision,
	})

	result := &Result{OutputDir: p.OutputDir, Files: make([]string, 0, len(records))}
	for i, rec := range records {
		fs := fields.Normalize(rec, p.RichTextField)

		doc, err := tmpl.Instantiate()
		if err != nil {
			return nil, &errs.TemplateLoadError{Path: p.Template, Err: fmt.Errorf("record %d: %w", i+1, err)}
		}

		result.Bound += deck.Bind(doc, fs, p.Format)

		path, err := writer.Write(doc, fs)
		if err != nil {
			logger.Error("Failed to write presentation", "record", i+1, "error", err)
			return nil, err
		}
		result.Files = append(result.Files, path)
	}

	logger.Info("Batch completed",
		"records", len(records),
		"files", len(result.Files),
		"regions_bound", result.Bound,
		"output", p.OutputDir,
		"duration", time.Since(started))

	return result, nil
}
