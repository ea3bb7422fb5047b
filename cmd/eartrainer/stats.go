package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/leandrodaf/eartrainer/internal/store"
	"github.com/spf13/cobra"
)

var statsFlags struct {
	reset bool
	runs  int
}

func init() {
	statsCmd.Flags().BoolVar(&statsFlags.reset, "reset", false, "delete all stored results")
	statsCmd.Flags().IntVar(&statsFlags.runs, "runs", 10, "number of recent runs to show")
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-note accuracy and recent runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := store.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()

		out := cmd.OutOrStdout()
		if statsFlags.reset {
			if err := st.ResetStats(); err != nil {
				return err
			}
			fmt.Fprintln(out, "statistics cleared")
			return nil
		}
		return printStats(out, st, statsFlags.runs)
	},
}

func printStats(out io.Writer, st *store.Store, runs int) error {
	stats, err := st.NoteStats()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, titleStyle.Render("Notes"))
	if len(stats) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("  nothing tested yet"))
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, n := range stats {
		fmt.Fprintf(w, "  %s\t%d/%d\t%3.0f%%\n", pitchName(n.TestNote), n.NumCorrect, n.NumTests, n.Accuracy()*100)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	recent, err := st.Runs(runs)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, titleStyle.Render("Recent runs"))
	if len(recent) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("  none"))
	}
	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, r := range recent {
		state := "finished"
		switch {
		case r.FinishedAt.IsZero():
			state = "incomplete"
		case !r.Finished:
			state = "stopped"
		}
		fmt.Fprintf(w, "  %s\t%d/%d correct\t%d planned\t%s\n",
			r.StartedAt.Format("2006-01-02 15:04"), r.NumCorrect, r.NotesTested, r.TotalNotes, state)
	}
	return w.Flush()
}
