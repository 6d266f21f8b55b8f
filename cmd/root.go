// Package cmd provides CLI commands for the Mentor recommendation engine.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/adalundhe/mentor/core/config"
	"github.com/adalundhe/mentor/core/recommend"
)

var (
	rootConfigPath string
	rootModelsDir  string
	rootVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "mentor",
	Short: "Mentor - a course recommendation engine",
	Long: `Mentor recommends learning content by blending collaborative
filtering, content-based similarity, and popularity signals.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootConfigPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&rootModelsDir, "models", "", "Model snapshot directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Enable debug logging")
}

// loadConfig resolves the effective configuration from flags and file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(rootConfigPath)
	if err != nil {
		return nil, err
	}
	if rootModelsDir != "" {
		cfg.Models.Dir = rootModelsDir
	}
	return cfg, nil
}

// newLogger builds the CLI logger. Debug level when --verbose is set.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if rootVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newEngine builds an engine from the resolved config.
func newEngine() (*recommend.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return recommend.NewEngine(cfg, newLogger()), nil
}
