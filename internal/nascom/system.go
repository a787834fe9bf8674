package nascom

import (
	"github.com/otley-retro/trimachine/internal/cpuz80"
	"github.com/otley-retro/trimachine/internal/software"
)

// InterruptPeriod is the cycle count between timer interrupts: 44,350
// cycles at 1.774 MHz gives ~40 Hz, per spec §2/§4.4.
const InterruptPeriod = 44350

// System owns the CPU, bus and peripherals for one Z80 machine and
// implements cpuz80.Bus itself so it can intercept I/O port 0xFF without
// threading extra state through Bus.
type System struct {
	CPU      *cpuz80.CPU
	Mem      *Bus
	Keyboard *KeyboardMatrix
	Video    *VideoRAM

	cyclesSinceInterrupt int
	timerPending         bool
}

// New builds a fresh, reset Z80 machine.
func New() *System {
	kb := NewKeyboardMatrix()
	video := NewVideoRAM()
	mem := NewBus(kb, video)

	s := &System{Mem: mem, Keyboard: kb, Video: video}
	s.CPU = cpuz80.New(s)
	return s
}

func (s *System) Read(addr uint16) byte     { return s.Mem.Read(addr) }
func (s *System) Write(addr uint16, v byte) { s.Mem.Write(addr, v) }

// In handles the one documented input port: 0xFF reports and edge-clears
// the pending timer interrupt (spec §6).
func (s *System) In(port uint16) byte {
	if port&0xFF == 0xFF {
		if s.timerPending {
			s.timerPending = false
			return 0x80
		}
		return 0x00
	}
	return 0x00
}

func (s *System) Out(port uint16, v byte) {}

// Reset reinitializes the CPU and clears the interrupt-period accumulator.
func (s *System) Reset() {
	s.CPU.Reset()
	s.cyclesSinceInterrupt = 0
	s.timerPending = false
	s.CPU.IRQLine(false, 0)
}

// Run executes the Z80 machine's run loop (spec §4.4): fast-forward through
// HALT up to the next interrupt boundary (crediting the keyboard tick),
// otherwise execute one instruction; track cyclesSinceInterrupt and attempt
// delivery of a level-triggered IRQ while it is pending.
func (s *System) Run(maxCycles int) int {
	consumed := 0
	for consumed < maxCycles {
		remaining := maxCycles - consumed

		if s.CPU.Halted && !s.timerPending {
			wait := InterruptPeriod - s.cyclesSinceInterrupt
			if wait > remaining {
				wait = remaining
			}
			s.CPU.Cycles += uint64(wait)
			s.Keyboard.Tick(wait)
			consumed += wait
			s.cyclesSinceInterrupt += wait
			if s.cyclesSinceInterrupt >= InterruptPeriod {
				s.cyclesSinceInterrupt -= InterruptPeriod
				s.timerPending = true
			}
			continue
		}

		if s.timerPending {
			s.CPU.IRQLine(true, 0xFF)
		} else {
			s.CPU.IRQLine(false, 0)
		}

		stepCycles := s.CPU.Step()
		consumed += stepCycles
		s.Keyboard.Tick(stepCycles)
		s.cyclesSinceInterrupt += stepCycles
		if s.cyclesSinceInterrupt >= InterruptPeriod {
			s.cyclesSinceInterrupt -= InterruptPeriod
			s.timerPending = true
		}
	}
	return consumed
}

// LoadSoftware writes each region of entry to the bus, resets the CPU if
// any region overlays ROM space, and otherwise sets PC to the entry point.
func (s *System) LoadSoftware(entry software.Entry) {
	if entry.Empty() {
		return
	}
	for _, region := range entry.Regions {
		s.Mem.LoadRegion(region.Start, region.Bytes)
	}
	if entry.OverlaysROM {
		s.Reset()
		return
	}
	s.CPU.PC = entry.EntryPoint
}

// KeyDown/KeyUp forward to the keyboard matrix.
func (s *System) KeyDown(row, col int) { s.Keyboard.KeyDown(row, col) }
func (s *System) KeyUp(row, col int)   { s.Keyboard.KeyUp(row, col) }

// IsHalted reports whether the CPU is currently in the HALT state.
func (s *System) IsHalted() bool { return s.CPU.Halted }

// State is a snapshot of CPU registers plus the raw video buffer.
type State struct {
	CPU   cpuz80.State
	Video [1024]byte
}

func (s *System) State() State {
	return State{CPU: s.CPU.State(), Video: s.Video.Bytes()}
}
