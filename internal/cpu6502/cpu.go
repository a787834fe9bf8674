// Package cpu6502 implements a cycle-counted MOS Technology 6502 core: the
// documented instruction set, NMOS flag semantics, and IRQ/NMI/reset
// handling described in spec §4.1. Addressing-mode helpers and the opcode
// dispatch table are grounded on the teacher's cpu_six5go2.go, generalized
// away from that repo's banked 32-bit memory map to a flat 16-bit Bus.
package cpu6502

import "github.com/otley-retro/trimachine/internal/membus"

// Bus is the 16-bit memory interface the CPU drives. Implementations must
// never fail: unmapped reads return 0, writes to read-only space are
// dropped silently (spec §7).
type Bus interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

const (
	ResetVector = 0xFFFC
	IRQVector   = 0xFFFE
	NMIVector   = 0xFFFA
	stackBase   = 0x0100
)

// Status flags, NMOS 6502 layout.
const (
	FlagC byte = 0x01
	FlagZ byte = 0x02
	FlagI byte = 0x04
	FlagD byte = 0x08
	FlagB byte = 0x10
	FlagU byte = 0x20 // unused, always reads 1
	FlagV byte = 0x40
	FlagN byte = 0x80
)

var nzTable [256]byte

func init() {
	for i := 0; i < 256; i++ {
		if i == 0 {
			nzTable[i] |= FlagZ
		}
		if i&0x80 != 0 {
			nzTable[i] |= FlagN
		}
	}
}

// CPU is a MOS 6502 core. It holds no reference to anything but its Bus;
// all peripheral behaviour lives behind that interface.
type CPU struct {
	PC uint16
	SP byte
	A  byte
	X  byte
	Y  byte
	SR byte

	Cycles uint64

	irqLine bool
	nmiLine bool
	nmiPrev bool

	UnknownOpcodes uint64

	// PerfEnabled turns on InstructionCount bookkeeping; the reference host's
	// -perf flag reads it for MIPS reporting (spec §4.1 "implementations MAY
	// expose a counter of such events for diagnostics").
	PerfEnabled      bool
	InstructionCount uint64

	bus Bus
}

// New builds a CPU wired to bus and resets it.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.Reset()
	return c
}

// Reset reads the reset vector into PC, sets SP to 0xFD, sets the
// interrupt-disable flag and clears the other flags (decimal included), and
// zeros the cycle counter (spec §4.1 "Reset").
func (c *CPU) Reset() {
	c.SP = 0xFD
	c.SR = FlagU | FlagI
	c.Cycles = 0
	c.irqLine = false
	c.nmiLine = false
	c.nmiPrev = false
	c.PC = c.read16(ResetVector)
}

// IRQ asserts (or, with state=false, releases) the level-triggered IRQ
// line. A pending IRQ is serviced at the start of the next Step unless the
// interrupt-disable flag is set.
func (c *CPU) IRQ(state bool) {
	c.irqLine = state
}

// NMI requests a non-maskable interrupt, edge-triggered on the transition
// from line=false to line=true, matching the real 6502's NMI input.
func (c *CPU) NMI() {
	c.nmiLine = true
}

// Running reports whether the core accepts Step calls. The NMOS 6502 has
// no HALT instruction in the documented set, so the core is always
// runnable. The cpuz80 and cpu8080 cores report HALT through their Halted
// field instead.
func (c *CPU) Running() bool { return true }

func (c *CPU) readByte(addr uint16) byte { return c.bus.Read(addr) }

func (c *CPU) writeByte(addr uint16, value byte) { c.bus.Write(addr, value) }

func (c *CPU) read16(addr uint16) uint16 {
	lo := c.readByte(addr)
	hi := c.readByte(membus.AddWrap16(addr, 1))
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) updateNZ(v byte) {
	c.SR = (c.SR &^ (FlagN | FlagZ)) | nzTable[v]
}

func (c *CPU) setFlag(flag byte, on bool) {
	if on {
		c.SR |= flag
	} else {
		c.SR &^= flag
	}
}

func (c *CPU) flag(flag byte) bool { return c.SR&flag != 0 }

func (c *CPU) push(v byte) {
	c.writeByte(stackBase+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) push16(v uint16) {
	c.push(byte(v >> 8))
	c.push(byte(v))
}

func (c *CPU) pop() byte {
	c.SP++
	return c.readByte(stackBase + uint16(c.SP))
}

func (c *CPU) pop16() uint16 {
	lo := c.pop()
	hi := c.pop()
	return uint16(hi)<<8 | uint16(lo)
}

// Step fetches, decodes and executes exactly one instruction (after
// servicing any pending interrupt), returning the number of cycles it
// consumed.
func (c *CPU) Step() int {
	before := c.Cycles
	if c.PerfEnabled {
		c.InstructionCount++
	}

	if c.nmiLine && !c.nmiPrev {
		c.nmiPrev = true
		c.serviceInterrupt(NMIVector, false)
		return int(c.Cycles - before)
	}
	c.nmiPrev = c.nmiLine

	if c.irqLine && !c.flag(FlagI) {
		c.serviceInterrupt(IRQVector, false)
		return int(c.Cycles - before)
	}

	opcode := c.readByte(c.PC)
	c.PC = membus.AddWrap16(c.PC, 1)
	c.execute(opcode)

	return int(c.Cycles - before)
}

// Run executes whole instructions until at least maxCycles have been
// consumed, returning the actual number consumed (spec §8 property 8: this
// is always >= maxCycles, bounded by the widest single instruction).
func (c *CPU) Run(maxCycles int) int {
	consumed := 0
	for consumed < maxCycles {
		consumed += c.Step()
	}
	return consumed
}

func (c *CPU) serviceInterrupt(vector uint16, brk bool) {
	c.push16(c.PC)
	flags := c.SR | FlagU
	if brk {
		flags |= FlagB
	} else {
		flags &^= FlagB
	}
	c.push(flags)
	c.setFlag(FlagI, true)
	c.PC = c.read16(vector)
	c.Cycles += 7
	if vector == NMIVector {
		c.nmiLine = false
		c.nmiPrev = false
	}
}

// State is a read-only snapshot of the architectural registers, used by
// hosts and tests without exposing the live CPU.
type State struct {
	PC     uint16
	SP     byte
	A      byte
	X      byte
	Y      byte
	SR     byte
	Cycles uint64
}

func (c *CPU) State() State {
	return State{PC: c.PC, SP: c.SP, A: c.A, X: c.X, Y: c.Y, SR: c.SR, Cycles: c.Cycles}
}
