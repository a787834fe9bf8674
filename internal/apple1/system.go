package apple1

import (
	"github.com/otley-retro/trimachine/internal/cpu6502"
	"github.com/otley-retro/trimachine/internal/software"
)

// System owns the CPU, bus, PIA and terminal for one 6502 machine and
// composes them the way spec §3 describes: the System is the sole owner,
// and observers only ever see read-only snapshots.
type System struct {
	CPU      *cpu6502.CPU
	Bus      *Bus
	PIA      *PIA
	Terminal *TerminalModel
}

// New builds a fresh, reset 6502 machine with the terminal wired to the
// PIA's display sink.
func New() *System {
	pia := NewPIA()
	term := NewTerminalModel()
	pia.DisplaySink = term.Write

	bus := NewBus(pia)
	cpu := cpu6502.New(bus)

	return &System{CPU: cpu, Bus: bus, PIA: pia, Terminal: term}
}

// Reset reinitializes the CPU, reading the reset vector from whichever ROM
// is currently mapped at 0xFFFC/0xFFFD.
func (s *System) Reset() { s.CPU.Reset() }

// Run executes CPU steps until at least maxCycles have been consumed. The
// 6502 machine generates no timer interrupts (spec §4.4).
func (s *System) Run(maxCycles int) int {
	consumed := 0
	for consumed < maxCycles {
		consumed += s.CPU.Step()
	}
	return consumed
}

// KeyPress delivers one 7-bit ASCII key press through the PIA.
func (s *System) KeyPress(ascii7 byte) { s.PIA.KeyPress(ascii7) }

// LoadSoftware writes each region of entry to the bus, resets the CPU if
// any region overlays ROM space, and otherwise sets PC to the entry point.
func (s *System) LoadSoftware(entry software.Entry) {
	if entry.Empty() {
		return
	}
	for _, region := range entry.Regions {
		s.Bus.LoadRegion(region.Start, region.Bytes)
	}
	if entry.OverlaysROM {
		s.Reset()
		return
	}
	s.CPU.PC = entry.EntryPoint
}

// State is a snapshot of CPU registers plus the terminal's visible lines.
type State struct {
	CPU   cpu6502.State
	Lines [24]string
}

func (s *System) State() State {
	return State{CPU: s.CPU.State(), Lines: s.Terminal.GetLines()}
}
