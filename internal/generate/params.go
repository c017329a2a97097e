package generate

import (
	"sheetDeck/internal/config"
	"sheetDeck/internal/deck"
	"sheetDeck/internal/excel"
	"sheetDeck/internal/output"
)

// FromConfig builds batch parameters from a loaded configuration. Row
// numbers are parsed here, so bad input surfaces as InvalidRangeError. The
// font size and alignment are checked here too.
func FromConfig(cfg *config.Config) (Params, error) {
	r, err := excel.ParseRange(cfg.Range.StartRow, cfg.Range.EndRow)
	if err != nil {
		return Params{}, err
	}

	format, err := deck.NewFormat(cfg.Format.FontSize, cfg.Format.Align)
	if err != nil {
		return Params{}, err
	}

	return Params{
		Spreadsheet:   cfg.Input.Spreadsheet,
		Sheet:         cfg.Input.Sheet,
		Template:      cfg.Input.Template,
		OutputDir:     cfg.Output.Directory,
		Range:         r,
		RichTextField: cfg.Fields.RichText,
		Naming: output.Naming{
			FolderField:   cfg.Fields.FolderName,
			FileField:     cfg.Fields.CaseName,
			DefaultFolder: cfg.Fields.DefaultFolder,
			DefaultFile:   cfg.Fields.DefaultFile,
		},
		Format:          format,
		FailOnCollision: cfg.Output.FailOnCollision,
	}, nil
}
