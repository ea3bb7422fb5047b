package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/leandrodaf/eartrainer/internal/config"
	"github.com/spf13/cobra"
)

var presetsApply string

func init() {
	presetsCmd.Flags().StringVar(&presetsApply, "apply", "", "write the named preset into the config file")
	rootCmd.AddCommand(presetsCmd)
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List degree presets, or apply one",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if presetsApply == "" {
			printPresets(out, cfg)
			return nil
		}
		if err := cfg.ApplyPreset(presetsApply); err != nil {
			return err
		}
		if err := saveConfig(cfg); err != nil {
			return err
		}
		fmt.Fprintf(out, "preset %s applied\n", presetsApply)
		return nil
	},
}

func printPresets(out io.Writer, cfg *config.Config) {
	for _, p := range config.Presets() {
		marker := " "
		if p.Frequencies == cfg.NoteFrequency {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-7s %s  %s\n", marker, p.Name, degreeBar(p.Frequencies), mutedStyle.Render(p.Description))
	}
}

// degreeBar shows which of the twelve degrees a table tests.
func degreeBar(freq [12]int) string {
	var b strings.Builder
	for _, n := range freq {
		if n > 0 {
			b.WriteByte('x')
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}
