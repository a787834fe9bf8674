package cpuz80

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flatBus struct {
	mem   [0x10000]byte
	ports [256]byte
}

func (b *flatBus) Read(addr uint16) byte     { return b.mem[addr] }
func (b *flatBus) Write(addr uint16, v byte) { b.mem[addr] = v }
func (b *flatBus) In(port uint16) byte       { return b.ports[byte(port)] }
func (b *flatBus) Out(port uint16, v byte)   { b.ports[byte(port)] = v }

func (b *flatBus) load(addr uint16, data ...byte) {
	for i, d := range data {
		b.mem[int(addr)+i] = d
	}
}

func newTestCPU() (*CPU, *flatBus) {
	bus := &flatBus{}
	return New(bus), bus
}

func TestResetState(t *testing.T) {
	cpu, _ := newTestCPU()
	assert.Equal(t, uint16(0), cpu.PC)
	assert.Equal(t, uint16(0xFFFF), cpu.SP)
	assert.False(t, cpu.IFF1)
	assert.Equal(t, IM0, cpu.IM)
}

func TestLDAndAddImmediate(t *testing.T) {
	cpu, bus := newTestCPU()
	bus.load(0, 0x3E, 0x10, 0xC6, 0x05) // LD A,$10; ADD A,$05
	cpu.Step()
	cpu.Step()
	assert.Equal(t, byte(0x15), cpu.A)
	assert.False(t, cpu.flag(FlagC))
}

func TestLDIRBlockCopy(t *testing.T) {
	cpu, bus := newTestCPU()
	bus.load(0x1000, 0x11, 0x22, 0x33)
	bus.load(0, 0x21, 0x00, 0x10, // LD HL,$1000
		0x11, 0x00, 0x20, // LD DE,$2000
		0x01, 0x03, 0x00, // LD BC,$0003
		0xED, 0xB0) // LDIR
	// Three loads, then LDIR moves one byte per Step (it rewinds PC while
	// BC != 0), so three more Steps finish the copy.
	for i := 0; i < 6; i++ {
		cpu.Step()
	}
	require.Equal(t, byte(0x11), bus.mem[0x2000])
	require.Equal(t, byte(0x22), bus.mem[0x2001])
	require.Equal(t, byte(0x33), bus.mem[0x2002])
	assert.Equal(t, uint16(0), cpu.BC())
	assert.False(t, cpu.flag(FlagPV))
}

func TestIM1InterruptDelayedByOneInstructionAfterEI(t *testing.T) {
	cpu, bus := newTestCPU()
	bus.load(0, 0xFB, 0x00, 0x00, 0x00) // EI; NOP; NOP; NOP
	cpu.IM = IM1
	cpu.IRQLine(true, 0xFF)

	cpu.Step() // EI
	cpu.Step() // first instruction after EI: interrupts still disabled
	assert.Equal(t, uint16(0x0002), cpu.PC)

	cpu.Step() // IFF1 becomes enabled partway through this step
	assert.Equal(t, uint16(0x0003), cpu.PC)

	cpu.Step() // now serviced
	assert.Equal(t, uint16(0x0038), cpu.PC)
	assert.False(t, cpu.IFF1)
	assert.Equal(t, uint16(0x0003), cpu.pop())
}

func TestIM2InterruptUsesVectorTable(t *testing.T) {
	cpu, bus := newTestCPU()
	cpu.I = 0x20
	cpu.IM = IM2
	cpu.IFF1 = true
	bus.load(0x2004, 0x00, 0x30) // vector table entry -> $3000
	cpu.IRQLine(true, 0x04)

	cpu.Step()
	assert.Equal(t, uint16(0x3000), cpu.PC)
	assert.False(t, cpu.IFF1)
}

func TestNMIServicedRegardlessOfIFF1(t *testing.T) {
	cpu, _ := newTestCPU()
	cpu.IFF1 = false
	cpu.NMI()
	cpu.Step()
	assert.Equal(t, uint16(0x0066), cpu.PC)
}

func TestIndexedLoadWithDisplacement(t *testing.T) {
	cpu, bus := newTestCPU()
	bus.load(0, 0xDD, 0x21, 0x00, 0x40, // LD IX,$4000
		0xDD, 0x36, 0x02, 0x99, // LD (IX+2),$99
		0xDD, 0x7E, 0x02) // LD A,(IX+2)
	cpu.Step()
	cpu.Step()
	cpu.Step()
	assert.Equal(t, byte(0x99), cpu.A)
	assert.Equal(t, byte(0x99), bus.mem[0x4002])
}

func TestUndocumentedIXHLoad(t *testing.T) {
	cpu, bus := newTestCPU()
	bus.load(0, 0xDD, 0x21, 0x34, 0x12, // LD IX,$1234
		0xDD, 0x7C) // LD A,IXH
	cpu.Step()
	cpu.Step()
	assert.Equal(t, byte(0x12), cpu.A)
}

func TestDDCBSetBit(t *testing.T) {
	cpu, bus := newTestCPU()
	bus.load(0, 0xDD, 0x21, 0x00, 0x40, // LD IX,$4000
		0xDD, 0xCB, 0x03, 0xDE) // SET 3,(IX+3)
	cpu.Step()
	cpu.Step()
	assert.Equal(t, byte(0x08), bus.mem[0x4003])
}

func TestUnknownEDOpcodeIsNoOp(t *testing.T) {
	cpu, bus := newTestCPU()
	bus.load(0, 0xED, 0x00)
	cpu.Step()
	assert.Equal(t, uint16(2), cpu.PC)
	assert.EqualValues(t, 1, cpu.UnknownOpcodes)
}

func TestRunConsumesAtLeastRequestedCycles(t *testing.T) {
	cpu, bus := newTestCPU()
	for i := 0; i < 0x20; i++ {
		bus.mem[i] = 0x00 // NOP x32, 4 cycles each
	}
	consumed := cpu.Run(10)
	assert.GreaterOrEqual(t, consumed, 10)
	assert.Less(t, consumed, 10+4)
}
