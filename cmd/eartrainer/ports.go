package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leandrodaf/eartrainer/internal/midiout"
	"github.com/leandrodaf/eartrainer/sdk/contracts"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// noOutput selects running without sound.
const noOutput = "none"

// silentPort accepts and discards everything.
type silentPort struct{ open bool }

func (p *silentPort) Open() error       { p.open = true; return nil }
func (p *silentPort) IsOpen() bool      { return p.open }
func (p *silentPort) Send([]byte) error { return nil }

// openOutput finds the output port named by sel: an index, a case-insensitive
// name fragment, "" for the first port or "none". The port is not opened;
// the trainer opens it when a test starts. The returned func releases the driver.
func openOutput(sel string, log contracts.Logger) (midiout.Port, func(), error) {
	if sel == noOutput {
		return &silentPort{}, func() {}, nil
	}

	drv, err := rtmididrv.New()
	if err != nil {
		return nil, nil, fmt.Errorf("rtmididrv: %w", err)
	}
	release := func() { drv.Close() }

	outs, err := drv.Outs()
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("list MIDI outputs: %w", err)
	}
	if len(outs) == 0 {
		log.Warn("no MIDI output ports; running silently")
		return &silentPort{}, release, nil
	}

	out, ok := pickOutput(outs, sel)
	if !ok {
		release()
		return nil, nil, fmt.Errorf("no MIDI output matches %q", sel)
	}
	log.Info("MIDI output selected", log.Field().String("port", out.String()))
	return out, release, nil
}

func pickOutput(outs []drivers.Out, sel string) (drivers.Out, bool) {
	if sel == "" {
		return outs[0], true
	}
	if i, err := strconv.Atoi(sel); err == nil {
		if i >= 0 && i < len(outs) {
			return outs[i], true
		}
		return nil, false
	}
	for _, out := range outs {
		if strings.Contains(strings.ToLower(out.String()), strings.ToLower(sel)) {
			return out, true
		}
	}
	return nil, false
}
