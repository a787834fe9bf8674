package cpu8080

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
func (b *flatBus) In(port byte) byte         { return b.ports[port] }
func (b *flatBus) Out(port byte, v byte)     { b.ports[port] = v }

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
	assert.False(t, cpu.IntEnabled)
}

func TestMVIAndADI(t *testing.T) {
	cpu, bus := newTestCPU()
	bus.load(0, 0x3E, 0x10, 0xC6, 0x05) // MVI A,$10; ADI $05
	cpu.Step()
	cpu.Step()
	assert.Equal(t, byte(0x15), cpu.A)
	assert.False(t, cpu.flag(FlagC))
}

func TestADISetsCarryAndParity(t *testing.T) {
	cpu, bus := newTestCPU()
	bus.load(0, 0x3E, 0xFF, 0xC6, 0x01) // MVI A,$FF; ADI $01 -> A=0
	cpu.Step()
	cpu.Step()
	assert.Equal(t, byte(0), cpu.A)
	assert.True(t, cpu.flag(FlagC))
	assert.True(t, cpu.flag(FlagZ))
	assert.True(t, cpu.flag(FlagP))
}

func TestDAAAfterBCDAdd(t *testing.T) {
	cpu, bus := newTestCPU()
	bus.load(0, 0x3E, 0x15, 0x06, 0x27, 0x80, 0x27) // MVI A,$15; MVI B,$27; ADD B; DAA
	cpu.Step()
	cpu.Step()
	cpu.Step()
	cpu.Step()
	assert.Equal(t, byte(0x42), cpu.A)
}

func TestStackPushPop(t *testing.T) {
	cpu, bus := newTestCPU()
	cpu.SP = 0x2000
	bus.load(0, 0x01, 0x34, 0x12, 0xC5, 0xC1) // LXI B,$1234; PUSH B; POP B
	cpu.Step()
	cpu.Step()
	cpu.B, cpu.C = 0, 0
	cpu.Step()
	assert.Equal(t, uint16(0x1234), cpu.BC())
}

func TestCALLAndRET(t *testing.T) {
	cpu, bus := newTestCPU()
	cpu.SP = 0x2000
	bus.load(0, 0xCD, 0x10, 0x00) // CALL $0010
	bus.load(0x0010, 0xC9)        // RET
	cpu.Step()
	assert.Equal(t, uint16(0x0010), cpu.PC)
	cpu.Step()
	assert.Equal(t, uint16(0x0003), cpu.PC)
}

func TestHaltAndInterruptResume(t *testing.T) {
	cpu, bus := newTestCPU()
	cpu.SP = 0x2000
	bus.load(0, 0xFB, 0x76) // EI; HLT
	cpu.Step()               // EI
	cpu.Step()               // HLT
	assert.True(t, cpu.Halted)

	cpu.Interrupt(0xFF) // RST 7
	cpu.Step()
	assert.False(t, cpu.Halted)
	assert.Equal(t, uint16(0x0038), cpu.PC)
	assert.Equal(t, uint16(0x0002), cpu.pop())
}

func TestUndocumentedOpcodeAliases(t *testing.T) {
	cpu, bus := newTestCPU()
	bus.load(0, 0xCB, 0x00, 0x10) // undocumented JMP alias -> $1000
	cpu.Step()
	assert.Equal(t, uint16(0x1000), cpu.PC)
}

func TestRunConsumesAtLeastRequestedCycles(t *testing.T) {
	cpu, bus := newTestCPU()
	for i := 0; i < 0x20; i++ {
		bus.mem[i] = 0x00 // NOP x32, 4 cycles each
	}
	consumed := cpu.Run(10)
	require.GreaterOrEqual(t, consumed, 10)
	assert.Less(t, consumed, 10+4)
}
