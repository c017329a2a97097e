package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sheetDeck/internal/logger"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Input  InputConfig  `toml:"input"`
	Output OutputConfig `toml:"output"`
	Range  RangeConfig  `toml:"range"`
	Fields FieldsConfig `toml:"fields"`
	Format FormatConfig `toml:"format"`
	Log    LogConfig    `toml:"log"`
	AI     AIConfig     `toml:"ai"`
}

type InputConfig struct {
	Spreadsheet string `toml:"spreadsheet"`
	Template    string `toml:"template"`
	Sheet       string `toml:"sheet"`
}

type OutputConfig struct {
	Directory       string `toml:"directory"`
	FailOnCollision bool   `toml:"fail_on_collision"`
}

// RangeConfig holds row numbers as a person types them: 1-based, end blank
// for "through the last row".
type RangeConfig struct {
	StartRow string `toml:"start_row"`
	EndRow   string `toml:"end_row"`
}

type FieldsConfig struct {
	RichText      string `toml:"rich_text"`
	FolderName    string `toml:"folder_name"`
	CaseName      string `toml:"case_name"`
	DefaultFolder string `toml:"default_folder"`
	DefaultFile   string `toml:"default_file"`
}

type FormatConfig struct {
	FontSize float64 `toml:"font_size"`
	Align    string  `toml:"align"`
}

type LogConfig struct {
	Directory string `toml:"directory"`
	Level     string `toml:"level"`
}

type AIConfig struct {
	Model         string  `toml:"model"`
	MinConfidence float64 `toml:"min_confidence"`
}

// Default returns the configuration written on first run
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Sheet: "Summaries",
		},
		Output: OutputConfig{
			Directory: "output",
		},
		Range: RangeConfig{
			StartRow: "1",
		},
		Fields: FieldsConfig{
			RichText:      "Duckers Solution",
			FolderName:    "Folder Name",
			CaseName:      "Case Study Name",
			DefaultFolder: "Default",
			DefaultFile:   "Slide",
		},
		Format: FormatConfig{
			FontSize: 18,
			Align:    "left",
		},
		Log: LogConfig{
			Directory: "logs",
			Level:     "info",
		},
		AI: AIConfig{
			Model:         "gemini-2.0-flash-exp",
			MinConfidence: 0.8,
		},
	}
}

// LoadConfig loads configuration from the specified config file path
func LoadConfig(configPath string) (*Config, error) {
	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Create configs directory if it doesn't exist
		configDir := filepath.Dir(configPath)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		defaultConfig := Default()
		err = SaveConfig(configPath, defaultConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}

		logger.Info("Created default config file", "path", configPath)
		return defaultConfig, nil
	}

	// Load existing config
	var config Config
	_, err := toml.DecodeFile(configPath, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	config.applyDefaults()

	logger.Info("Loaded configuration", "path", configPath)
	return &config, nil
}

// applyDefaults back-fills fields left empty in the file
func (c *Config) applyDefaults() {
	d := Default()

	if c.Input.Sheet == "" {
		c.Input.Sheet = d.Input.Sheet
	}
	if c.Output.Directory == "" {
		c.Output.Directory = d.Output.Directory
	}
	if c.Range.StartRow == "" {
		c.Range.StartRow = d.Range.StartRow
	}
	if c.Fields.RichText == "" {
		c.Fields.RichText = d.Fields.RichText
	}
	if c.Fields.FolderName == "" {
		c.Fields.FolderName = d.Fields.FolderName
	}
	if c.Fields.CaseName == "" {
		c.Fields.CaseName = d.Fields.CaseName
	}
	if c.Fields.DefaultFolder == "" {
		c.Fields.DefaultFolder = d.Fields.DefaultFolder
	}
	if c.Fields.DefaultFile == "" {
		c.Fields.DefaultFile = d.Fields.DefaultFile
	}
	if c.Format.FontSize == 0 {
		c.Format.FontSize = d.Format.FontSize
	}
	if c.Format.Align == "" {
		c.Format.Align = d.Format.Align
	}
	if c.Log.Directory == "" {
		c.Log.Directory = d.Log.Directory
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.AI.Model == "" {
		c.AI.Model = d.AI.Model
	}
	if c.AI.MinConfidence == 0 {
		c.AI.MinConfidence = d.AI.MinConfidence
	}
}

// SaveConfig saves configuration to the specified config file path
func SaveConfig(configPath string, config *Config) error {
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	err = encoder.Encode(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	logger.Info("Saved configuration", "path", configPath)
	return nil
}
