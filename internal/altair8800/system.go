package altair8800

import (
	"github.com/otley-retro/trimachine/internal/cpu8080"
	"github.com/otley-retro/trimachine/internal/software"
)

// System owns the CPU, memory, serial console and front panel for one 8080
// machine, and implements cpu8080.Bus itself so it can route ports 0x10/
// 0x11 to the serial device without threading extra state through Bus.
type System struct {
	CPU    *cpu8080.CPU
	Mem    *Bus
	Serial *Serial2SIO
	Panel  *FrontPanel
}

// New builds a fresh, reset 8080 machine with its front panel attached.
func New() *System {
	mem := NewBus()
	serial := NewSerial2SIO()
	panel := NewFrontPanel()

	s := &System{Mem: mem, Serial: serial, Panel: panel}
	s.CPU = cpu8080.New(s)
	panel.Attach(s.CPU, mem)
	return s
}

func (s *System) Read(addr uint16) byte     { return s.Mem.Read(addr) }
func (s *System) Write(addr uint16, v byte) { s.Mem.Write(addr, v) }

// In routes the two documented serial ports plus the sense-switch default
// for port 0xFF (spec §6); any other port reads 0.
func (s *System) In(port byte) byte {
	switch port {
	case 0x10:
		return s.Serial.ReadStatus()
	case 0x11:
		return s.Serial.ReadData()
	case 0xFF:
		return 0x00
	default:
		return 0x00
	}
}

func (s *System) Out(port byte, v byte) {
	switch port {
	case 0x10:
		s.Serial.WriteControl(v)
	case 0x11:
		s.Serial.WriteData(v)
	}
}

// Reset stops the front panel and resets the CPU.
func (s *System) Reset() { s.Panel.Reset() }

// Run executes the 8080 machine's run loop (spec §4.4): it runs only while
// the front panel's Running flag is set; on CPU halt it clears Running and
// refreshes the panel LEDs. No timer interrupt is generated.
func (s *System) Run(maxCycles int) int {
	if !s.Panel.Running {
		return 0
	}
	consumed := 0
	for consumed < maxCycles {
		if !s.Panel.Running {
			break
		}
		consumed += s.CPU.Step()
		if s.CPU.Halted {
			s.Panel.Running = false
			s.Panel.updateLEDs()
			break
		}
	}
	return consumed
}

// LoadSoftware writes each region of entry to memory; the 8080 machine's
// bus has no ROM space, so OverlaysROM never triggers a reset here, but the
// same entry-point contract applies.
func (s *System) LoadSoftware(entry software.Entry) {
	if entry.Empty() {
		return
	}
	for _, region := range entry.Regions {
		s.Mem.LoadRegion(region.Start, region.Bytes)
	}
	s.CPU.PC = entry.EntryPoint
	s.Panel.pc = entry.EntryPoint
	s.Panel.updateLEDs()
}

// State is a snapshot of CPU registers plus the front panel's LED state.
type State struct {
	CPU         cpu8080.State
	AddressLEDs uint16
	DataLEDs    byte
	StatusLEDs  uint16
}

func (s *System) State() State {
	return State{
		CPU:         s.CPU.State(),
		AddressLEDs: s.Panel.AddressLEDs,
		DataLEDs:    s.Panel.DataLEDs,
		StatusLEDs:  s.Panel.StatusLEDs,
	}
}
