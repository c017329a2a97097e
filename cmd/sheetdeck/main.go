package main

import (
	"fmt"
	"io"
	"os"

	"sheetDeck/internal/config"
	"sheetDeck/internal/logger"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// app carries state shared by every subcommand.
type app struct {
	configPath string
	cfg        *config.Config
	logFile    io.Closer
}

func main() {
	a := &app{}
	err := a.rootCmd().Execute()
	a.teardown()
	if err != nil {
		os.Exit(1)
	}
}

// rootCmd builds the command tree. The caller closes the log file with
// teardown once Execute returns, whether or not the command failed.
func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheetdeck",
		Short: "Generate one PowerPoint deck per spreadsheet row",
		Long: `sheetdeck reads the rows of an Excel sheet and, for each row, fills the
named shapes of a PowerPoint template with that row's values.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "configs/config.toml", "Path to the TOML config file")

	rootCmd.AddCommand(
		newGenerateCmd(a),
		newFormCmd(a),
		newScanCmd(a),
		newSuggestCmd(a),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	a.cfg = cfg

	logFile, err := logger.Setup(cfg.Log.Directory, cfg.Log.Level)
	if err != nil {
		return err
	}
	a.logFile = logFile

	logger.Info("Command started", "command", cmd.Name(), "config", a.configPath)
	return nil
}

func (a *app) teardown() {
	if a.logFile != nil {
		a.logFile.Close()
		a.logFile = nil
	}
}
