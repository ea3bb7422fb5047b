package main

import (
	"fmt"
	"io"

	"github.com/leandrodaf/eartrainer/sdk/contracts"
	"github.com/leandrodaf/eartrainer/sdk/midi"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func init() {
	rootCmd.AddCommand(devicesCmd)
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List MIDI controllers and output ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)
		defer syncLogger(log)

		out := cmd.OutOrStdout()
		listControllers(out, log)
		return listOutputs(out)
	},
}

func listControllers(out io.Writer, log contracts.Logger) {
	fmt.Fprintln(out, titleStyle.Render("Controllers (--controller)"))
	if !midi.Supported() {
		fmt.Fprintln(out, mutedStyle.Render("  controller capture is not supported on this system"))
		return
	}
	client, err := midi.NewMIDIClient(contracts.WithLogger(log))
	if err != nil {
		fmt.Fprintln(out, warnStyle.Render("  "+err.Error()))
		return
	}
	defer client.Stop()

	devices, err := client.ListDevices()
	if err != nil {
		fmt.Fprintln(out, warnStyle.Render("  "+err.Error()))
		return
	}
	for _, d := range devices {
		fmt.Fprintf(out, "  %s\n", d)
	}
}

func listOutputs(out io.Writer) error {
	fmt.Fprintln(out, titleStyle.Render("Output ports (--out)"))
	drv, err := rtmididrv.New()
	if err != nil {
		return fmt.Errorf("rtmididrv: %w", err)
	}
	defer drv.Close()

	outs, err := drv.Outs()
	if err != nil {
		return fmt.Errorf("list MIDI outputs: %w", err)
	}
	if len(outs) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("  none"))
	}
	for i, o := range outs {
		fmt.Fprintf(out, "  %d: %s\n", i, o.String())
	}
	return nil
}
