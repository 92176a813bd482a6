package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"geoedit/internal/config"
	"geoedit/internal/tui"
)

var (
	configPath string
	tolerance  float64
	unitName   string
	logFile    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "geoedit [file]",
	Short: "geoedit - terminal vector map editor",
	Long: `geoedit draws, edits and cuts point, line and polygon features in the
terminal. Files given on the command line (GeoJSON, WKT, CSV or KML) are
loaded for editing; w saves the features as GeoJSON.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, closer, err := cfg.Logger()
		if err != nil {
			return err
		}
		defer closer.Close()

		opts := tui.Options{Editor: cfg.EditorOptions(), Output: cfg.Output, Log: log}
		var m tea.Model
		if len(args) > 0 {
			m = tui.NewWithPath(args[0], opts)
		} else {
			m = tui.New(opts)
		}
		log.WithField("args", args).Info("geoedit started")
		if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
			return fmt.Errorf("running ui: %w", err)
		}
		return nil
	},
}

// loadConfig reads --config and applies the flags the user set on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("tolerance") {
		cfg.Tolerance = tolerance
	}
	if flags.Changed("unit") {
		cfg.ToleranceUnit = unitName
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML config file")
	pf.Float64Var(&tolerance, "tolerance", 0.001, "cut tolerance")
	pf.StringVar(&unitName, "unit", "meters", "tolerance unit (meters, kilometers, feet, miles, map)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&logLevel, "log-level", "info", "log level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
