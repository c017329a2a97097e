package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sheetDeck/internal/config"
	"sheetDeck/internal/deck"
	"sheetDeck/internal/excel"
	"sheetDeck/internal/form"
	"sheetDeck/internal/generate"
	"sheetDeck/internal/logger"
	"sheetDeck/internal/mapping"

	"github.com/spf13/cobra"
)

// inputFlags override the [input], [output] and [range] config values.
type inputFlags struct {
	excel    string
	template string
	output   string
	sheet    string
	start    string
	end      string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.excel, "excel", "e", "", "Excel file with data")
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "PowerPoint template")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output folder")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Sheet to read rows from")
	cmd.Flags().StringVar(&f.start, "start", "", "Starting row (1-based)")
	cmd.Flags().StringVar(&f.end, "end", "", "Ending row (1-based, blank for last row)")
}

func (f *inputFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("excel") {
		cfg.Input.Spreadsheet = f.excel
	}
	if flags.Changed("template") {
		cfg.Input.Template = f.template
	}
	if flags.Changed("output") {
		cfg.Output.Directory = f.output
	}
	if flags.Changed("sheet") {
		cfg.Input.Sheet = f.sheet
	}
	if flags.Changed("start") {
		cfg.Range.StartRow = f.start
	}
	if flags.Changed("end") {
		cfg.Range.EndRow = f.end
	}
}

func requireInputs(cfg *config.Config) error {
	if cfg.Input.Spreadsheet == "" {
		return fmt.Errorf("no Excel file given: pass --excel or set input.spreadsheet")
	}
	if cfg.Input.Template == "" {
		return fmt.Errorf("no template given: pass --template or set input.template")
	}
	return nil
}

func newGenerateCmd(a *app) *cobra.Command {
	var flags inputFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one presentation per selected row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, a.cfg)
			return runGenerate(cmd.OutOrStdout(), a.cfg)
		},
	}
	flags.register(cmd)
	return cmd
}

func runGenerate(w io.Writer, cfg *config.Config) error {
	if err := requireInputs(cfg); err != nil {
		return err
	}

	params, err := generate.FromConfig(cfg)
	if err != nil {
		logger.Error("Invalid batch settings", "error", err)
		return err
	}

	result, err := generate.Run(params)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, successStyle.Render("PPT files generated successfully in "+result.OutputDir))
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d files, %d regions filled", len(result.Files), result.Bound)))
	return nil
}

func newFormCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "form",
		Short: "Enter the batch inputs in an interactive form, then generate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, ok, err := form.Run(form.Values{
				Spreadsheet: a.cfg.Input.Spreadsheet,
				Template:    a.cfg.Input.Template,
				OutputDir:   a.cfg.Output.Directory,
				StartRow:    a.cfg.Range.StartRow,
				EndRow:      a.cfg.Range.EndRow,
			})
			if err != nil {
				return err
			}
			if !ok {
				logger.Info("Form cancelled")
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Cancelled"))
				return nil
			}

			applyFormValues(a.cfg, values)
			return runGenerate(cmd.OutOrStdout(), a.cfg)
		},
	}
}

func applyFormValues(cfg *config.Config, v form.Values) {
	cfg.Input.Spreadsheet = v.Spreadsheet
	cfg.Input.Template = v.Template
	cfg.Output.Directory = v.OutputDir
	cfg.Range.StartRow = v.StartRow
	cfg.Range.EndRow = v.EndRow
}

func newScanCmd(a *app) *cobra.Command {
	var flags inputFlags

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Compare sheet columns with template region names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, a.cfg)

			report, err := buildReport(a.cfg)
			if err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), report)
			path, err := saveReport(a.cfg.Output.Directory, report)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Report saved to "+path))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newSuggestCmd(a *app) *cobra.Command {
	var flags inputFlags

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask Gemini which region each unmatched column was meant for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, a.cfg)

			report, err := buildReport(a.cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			suggester, err := mapping.NewSuggester(ctx, mapping.GetGeminiAPIKey(), mapping.SuggesterOptions{
				Model:         a.cfg.AI.Model,
				MinConfidence: a.cfg.AI.MinConfidence,
				LogDir:        a.cfg.Log.Directory,
			})
			if err != nil {
				return fmt.Errorf("%w (set GEMINI_API_KEY)", err)
			}
			defer suggester.Close()

			report.Suggestions, err = suggester.Suggest(ctx, report.UnmatchedColumns, report.UnusedRegions)
			if err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), report)
			path, err := saveReport(a.cfg.Output.Directory, report)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Report saved to "+path))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func buildReport(cfg *config.Config) (mapping.Report, error) {
	if err := requireInputs(cfg); err != nil {
		return mapping.Report{}, err
	}

	columns, err := excel.ScanColumns(cfg.Input.Spreadsheet, cfg.Input.Sheet)
	if err != nil {
		return mapping.Report{}, err
	}

	tmpl, err := deck.LoadTemplate(cfg.Input.Template)
	if err != nil {
		return mapping.Report{}, err
	}
	regions, err := tmpl.RegionNames()
	if err != nil {
		return mapping.Report{}, err
	}

	report := mapping.Audit(columns, regions, []string{cfg.Fields.FolderName, cfg.Fields.CaseName})
	report.Spreadsheet = cfg.Input.Spreadsheet
	report.Sheet = cfg.Input.Sheet
	report.Template = cfg.Input.Template
	report.Slides = tmpl.SlideCount()

	logger.Info("Audited columns against regions",
		"slides", report.Slides,
		"matched", len(report.Matched),
		"unmatched_columns", len(report.UnmatchedColumns),
		"unused_regions", len(report.UnusedRegions))

	return report, nil
}

func saveReport(dir string, report mapping.Report) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, mapping.ReportFileName)
	if err := report.SaveToFile(path); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}
	logger.Info("Saved mapping report", "path", path)
	return path, nil
}

func printReport(w io.Writer, r mapping.Report) {
	section := func(title string, items []string) {
		fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("%s (%d)", title, len(items))))
		for _, item := range items {
			fmt.Fprintf(w, "  %s\n", item)
		}
	}

	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Template: %s, slides: %d", r.Template, r.Slides)))
	section("Matched regions", r.Matched)
	section("Naming columns", r.NamingColumns)
	section("Columns without a region", r.UnmatchedColumns)
	section("Regions without a column", r.UnusedRegions)

	if len(r.Suggestions) > 0 {
		fmt.Fprintln(w, headingStyle.Render("Suggested renames"))
		for _, s := range r.Suggestions {
			fmt.Fprintf(w, "  %s -> %s %s\n", s.Column, s.Region, mutedStyle.Render(fmt.Sprintf("(%.2f)", s.Confidence)))
		}
	} else if len(r.UnmatchedColumns) > 0 {
		fmt.Fprintln(w, warnStyle.Render("Unmatched columns are ignored during generation"))
	}
}
