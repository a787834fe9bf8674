// Package cpu8080 implements an Intel 8080 core: the documented instruction
// set, the S Z AC P C flags, the single maskable interrupt line serviced by
// executing a bus-supplied instruction (almost always an RST), and HALT.
// The register layout and Bus interface follow the same shape as the
// sibling cpu6502 and cpuz80 packages in this module.
package cpu8080

import "github.com/otley-retro/trimachine/internal/membus"

// Bus is the 16-bit memory and 8-bit I/O interface the CPU drives.
type Bus interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
	In(port byte) byte
	Out(port byte, value byte)
}

// Status flags. Bit 1 is wired high and bit 3/5 low on real hardware; this
// core only tracks the five flags programs can observe.
const (
	FlagC  byte = 0x01
	FlagP  byte = 0x04
	FlagAC byte = 0x10
	FlagZ  byte = 0x40
	FlagS  byte = 0x80
)

// CPU is an 8080 core wired to a single Bus.
type CPU struct {
	A, F       byte
	B, C       byte
	D, E       byte
	H, L       byte
	SP, PC     uint16
	Halted     bool
	IntEnabled bool
	Cycles     uint64

	intPending bool
	intInstr   byte

	UnknownOpcodes uint64

	// PerfEnabled turns on InstructionCount bookkeeping; the reference host's
	// -perf flag reads it for MIPS reporting.
	PerfEnabled      bool
	InstructionCount uint64

	bus Bus
}

// New builds an 8080 core wired to bus and resets it.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.Reset()
	return c
}

// Reset sets PC to 0, clears interrupt-enable state and the cycle counter.
func (c *CPU) Reset() {
	c.PC = 0
	c.Halted = false
	c.IntEnabled = false
	c.intPending = false
	c.Cycles = 0
}

func (c *CPU) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }

func (c *CPU) SetBC(v uint16) { c.B = byte(v >> 8); c.C = byte(v) }
func (c *CPU) SetDE(v uint16) { c.D = byte(v >> 8); c.E = byte(v) }
func (c *CPU) SetHL(v uint16) { c.H = byte(v >> 8); c.L = byte(v) }

func (c *CPU) flag(mask byte) bool { return c.F&mask != 0 }
func (c *CPU) setFlag(mask byte, on bool) {
	if on {
		c.F |= mask
	} else {
		c.F &^= mask
	}
}

func (c *CPU) read(addr uint16) byte     { return c.bus.Read(addr) }
func (c *CPU) write(addr uint16, v byte) { c.bus.Write(addr, v) }
func (c *CPU) in(port byte) byte         { return c.bus.In(port) }
func (c *CPU) out(port byte, v byte)     { c.bus.Out(port, v) }

func (c *CPU) fetchByte() byte {
	v := c.read(c.PC)
	c.PC = membus.AddWrap16(c.PC, 1)
	return v
}

func (c *CPU) fetchWord() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push(v uint16) {
	c.SP = membus.AddWrap16(c.SP, -1)
	c.write(c.SP, byte(v>>8))
	c.SP = membus.AddWrap16(c.SP, -1)
	c.write(c.SP, byte(v))
}

func (c *CPU) pop() uint16 {
	lo := c.read(c.SP)
	c.SP = membus.AddWrap16(c.SP, 1)
	hi := c.read(c.SP)
	c.SP = membus.AddWrap16(c.SP, 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) tick(cycles int) { c.Cycles += uint64(cycles) }

// Interrupt requests service of the given opcode (conventionally an RST
// instruction, e.g. 0xFF for RST 7) the next time interrupts are enabled.
// This mirrors how real 8080 peripherals drive the data bus during the
// interrupt-acknowledge cycle: the CPU itself never picks a vector.
func (c *CPU) Interrupt(instruction byte) {
	c.intPending = true
	c.intInstr = instruction
}

// Step executes one instruction (or, while halted with no pending
// interrupt, accrues 4 cycles of idle time) and returns cycles consumed.
func (c *CPU) Step() int {
	before := c.Cycles
	if c.PerfEnabled {
		c.InstructionCount++
	}

	if c.intPending && c.IntEnabled {
		c.intPending = false
		c.IntEnabled = false
		c.Halted = false
		c.execute(c.intInstr)
		return int(c.Cycles - before)
	}

	if c.Halted {
		c.tick(4)
		return int(c.Cycles - before)
	}

	opcode := c.fetchByte()
	c.execute(opcode)
	return int(c.Cycles - before)
}

// Run executes whole instructions until at least maxCycles have been
// consumed.
func (c *CPU) Run(maxCycles int) int {
	consumed := 0
	for consumed < maxCycles {
		consumed += c.Step()
	}
	return consumed
}

// State is a read-only register snapshot.
type State struct {
	A, F, B, C, D, E, H, L byte
	SP, PC                 uint16
	Halted, IntEnabled     bool
	Cycles                 uint64
}

func (c *CPU) State() State {
	return State{
		A: c.A, F: c.F, B: c.B, C: c.C, D: c.D, E: c.E, H: c.H, L: c.L,
		SP: c.SP, PC: c.PC,
		Halted: c.Halted, IntEnabled: c.IntEnabled,
		Cycles: c.Cycles,
	}
}
