package main

import (
	"github.com/leandrodaf/eartrainer/internal/config"
	"github.com/leandrodaf/eartrainer/internal/logger"
	"github.com/leandrodaf/eartrainer/sdk/contracts"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "eartrainer",
	Short: "Functional ear training over MIDI",
	Long: `eartrainer plays an I-IV-V-I cadence followed by a test note and
grades the note you answer with, either typed or played on a MIDI keyboard.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides the config)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
}

// Execute runs the root command.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

func saveConfig(cfg *config.Config) error {
	if configPath != "" {
		return cfg.SaveTo(configPath)
	}
	return cfg.Save()
}

func newLogger(cfg *config.Config) contracts.Logger {
	log := logger.NewStandardLogger()
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	log.SetLevel(contracts.ParseLogLevel(level))
	if logFile != "" {
		log.SetDestination(contracts.FileLog, logFile)
	}
	return log
}

// syncLogger flushes buffered log entries, if the logger buffers.
func syncLogger(log contracts.Logger) {
	if s, ok := log.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
}
