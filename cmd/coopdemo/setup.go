package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/b97tsk/coop/internal/config"
	"github.com/b97tsk/coop/internal/logging"
)

// loadConfig reads --config, or the built-in scenarios when it is empty.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}

	if path == "" {
		return config.DefaultConfig(), nil
	}

	return config.Load(path)
}

// newLogger builds a logger from the config, with flags taking precedence.
func newLogger(cmd *cobra.Command, cfg config.LogConfig) (*slog.Logger, error) {
	levelName, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	if levelName == "" {
		levelName = cfg.Level
	}

	formatName, err := cmd.Flags().GetString("log-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-format flag: %w", err)
	}
	if formatName == "" {
		formatName = cfg.Format
	}

	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}

	format, err := logging.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	return logging.NewLogger(level, format), nil
}

// applyColor sets color.NoColor from --color.
func applyColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}

	useColor, err := colorEnabled(mode, isTerminal(os.Stdout))
	if err != nil {
		return err
	}
	color.NoColor = !useColor

	return nil
}

func colorEnabled(mode string, tty bool) (bool, error) {
	switch mode {
	case "auto":
		return tty && os.Getenv("NO_COLOR") == "", nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("unsupported color mode %q (must be auto, on or off)", mode)
	}
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
