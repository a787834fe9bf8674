// Package cpuz80 implements a Zilog Z80 core: the documented instruction
// set (including the CB/ED/DD/FD/DDCB/FDCB prefix families), the canonical
// S Z H P/V N C flags, three interrupt modes, and the one-instruction EI
// delay (spec §4.1). The register layout, Bus interface and the
// group-derived CB/DD/FD dispatch style are grounded on the teacher's
// cpu_z80.go.
package cpuz80

import "github.com/otley-retro/trimachine/internal/membus"

// Bus is the 16-bit memory and 8-bit I/O interface the CPU drives.
type Bus interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
	In(port uint16) byte
	Out(port uint16, value byte)
}

// Status flags.
const (
	FlagC  byte = 0x01
	FlagN  byte = 0x02
	FlagPV byte = 0x04
	FlagH  byte = 0x10
	FlagZ  byte = 0x40
	FlagS  byte = 0x80
)

const (
	IM0 byte = iota
	IM1
	IM2
)

// CPU is a Z80 core wired to a single Bus.
type CPU struct {
	A, F byte
	B, C byte
	D, E byte
	H, L byte

	A2, F2 byte
	B2, C2 byte
	D2, E2 byte
	H2, L2 byte

	IX, IY uint16
	SP, PC uint16
	I, R   byte
	IM     byte

	IFF1, IFF2 bool
	iffDelay   int

	Halted bool
	Cycles uint64

	irqLine   bool
	irqVector byte
	nmiLine   bool
	nmiPrev   bool

	UnknownOpcodes uint64

	// PerfEnabled turns on InstructionCount bookkeeping; the reference host's
	// -perf flag reads it for MIPS reporting, mirrored from the teacher's
	// CPU_Z80.Execute MIPS loop.
	PerfEnabled      bool
	InstructionCount uint64

	bus Bus
}

// New builds a Z80 core wired to bus and resets it.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.Reset()
	return c
}

// Reset sets PC to 0 (the Z80 reset vector), clears interrupt-enable state
// and the cycle counter, per spec §4.1.
func (c *CPU) Reset() {
	c.PC = 0
	c.SP = 0xFFFF
	c.IFF1 = false
	c.IFF2 = false
	c.IM = IM0
	c.Halted = false
	c.Cycles = 0
	c.iffDelay = 0
	c.irqLine = false
	c.nmiLine = false
	c.nmiPrev = false
	c.I = 0
	c.R = 0
}

func (c *CPU) AF() uint16 { return uint16(c.A)<<8 | uint16(c.F) }
func (c *CPU) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }

func (c *CPU) SetAF(v uint16) { c.A = byte(v >> 8); c.F = byte(v) }
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

// ExAF exchanges AF with the shadow AF'.
func (c *CPU) ExAF() {
	c.A, c.A2 = c.A2, c.A
	c.F, c.F2 = c.F2, c.F
}

// Exx exchanges BC/DE/HL with their shadow counterparts.
func (c *CPU) Exx() {
	c.B, c.B2 = c.B2, c.B
	c.C, c.C2 = c.C2, c.C
	c.D, c.D2 = c.D2, c.D
	c.E, c.E2 = c.E2, c.E
	c.H, c.H2 = c.H2, c.H
	c.L, c.L2 = c.L2, c.L
}

func (c *CPU) read(addr uint16) byte     { return c.bus.Read(addr) }
func (c *CPU) write(addr uint16, v byte) { c.bus.Write(addr, v) }
func (c *CPU) in(port uint16) byte       { return c.bus.In(port) }
func (c *CPU) out(port uint16, v byte)   { c.bus.Out(port, v) }

func (c *CPU) incR() { c.R = (c.R & 0x80) | ((c.R + 1) & 0x7F) }

func (c *CPU) fetchOpcode() byte {
	op := c.read(c.PC)
	c.PC = membus.AddWrap16(c.PC, 1)
	c.incR()
	return op
}

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

// IRQLine asserts or releases the level-triggered maskable interrupt line.
// The System is expected to keep calling this (or re-attempting Step) while
// the device holds the line asserted — see spec §9 "Level-triggered IRQ
// modeling".
func (c *CPU) IRQLine(assert bool, vector byte) {
	c.irqLine = assert
	c.irqVector = vector
}

// NMI requests a non-maskable interrupt on the next Step.
func (c *CPU) NMI() { c.nmiLine = true }

// Step executes one instruction (or, while halted and no interrupt is
// pending, accrues 4 cycles of idle time) and returns cycles consumed.
func (c *CPU) Step() int {
	before := c.Cycles
	if c.PerfEnabled {
		c.InstructionCount++
	}

	if c.nmiLine && !c.nmiPrev {
		c.nmiPrev = true
		c.serviceNMI()
		return int(c.Cycles - before)
	}
	c.nmiPrev = c.nmiLine

	if c.irqLine && c.IFF1 {
		c.serviceIRQ()
		return int(c.Cycles - before)
	}

	if c.iffDelay > 0 {
		c.iffDelay--
		if c.iffDelay == 0 {
			c.IFF1 = true
			c.IFF2 = true
		}
	}

	if c.Halted {
		c.tick(4)
		return int(c.Cycles - before)
	}

	opcode := c.fetchOpcode()
	c.executeMain(opcode)
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

func (c *CPU) serviceNMI() {
	c.Halted = false
	c.IFF2 = c.IFF1
	c.IFF1 = false
	c.push(c.PC)
	c.PC = 0x0066
	c.tick(11)
}

// serviceIRQ accepts the maskable interrupt unconditionally; it does not
// check IFF1 itself. Step only calls it when the IRQ line is asserted and
// IFF1 is set.
func (c *CPU) serviceIRQ() {
	c.Halted = false
	c.IFF1 = false
	c.IFF2 = false
	switch c.IM {
	case IM0:
		c.executeMain(c.irqVector)
		c.tick(2)
	case IM1:
		c.push(c.PC)
		c.PC = 0x0038
		c.tick(13)
	case IM2:
		c.push(c.PC)
		vectorAddr := uint16(c.I)<<8 | uint16(c.irqVector&0xFE)
		lo := c.read(vectorAddr)
		hi := c.read(membus.AddWrap16(vectorAddr, 1))
		c.PC = uint16(hi)<<8 | uint16(lo)
		c.tick(19)
	}
}

// State is a read-only register snapshot.
type State struct {
	A, F, B, C, D, E, H, L     byte
	A2, F2, B2, C2, D2, E2, H2 byte
	L2                         byte
	IX, IY, SP, PC             uint16
	I, R, IM                   byte
	IFF1, IFF2, Halted         bool
	Cycles                     uint64
}

func (c *CPU) State() State {
	return State{
		A: c.A, F: c.F, B: c.B, C: c.C, D: c.D, E: c.E, H: c.H, L: c.L,
		A2: c.A2, F2: c.F2, B2: c.B2, C2: c.C2, D2: c.D2, E2: c.E2, H2: c.H2, L2: c.L2,
		IX: c.IX, IY: c.IY, SP: c.SP, PC: c.PC,
		I: c.I, R: c.R, IM: c.IM,
		IFF1: c.IFF1, IFF2: c.IFF2, Halted: c.Halted,
		Cycles: c.Cycles,
	}
}
