package cpu6502

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flatBus struct {
	mem [0x10000]byte
}

func (b *flatBus) Read(addr uint16) byte        { return b.mem[addr] }
func (b *flatBus) Write(addr uint16, v byte)    { b.mem[addr] = v }
func (b *flatBus) load(addr uint16, data ...byte) {
	for i, d := range data {
		b.mem[int(addr)+i] = d
	}
}

func newTestCPU(resetPC uint16) (*CPU, *flatBus) {
	bus := &flatBus{}
	bus.load(ResetVector, byte(resetPC), byte(resetPC>>8))
	cpu := New(bus)
	return cpu, bus
}

func TestResetReadsVector(t *testing.T) {
	cpu, _ := newTestCPU(0x0600)
	assert.Equal(t, uint16(0x0600), cpu.PC)
	assert.Equal(t, byte(0xFD), cpu.SP)
	assert.True(t, cpu.flag(FlagI))
}

func TestLDAImmediateSetsZeroFlag(t *testing.T) {
	cpu, bus := newTestCPU(0x0600)
	bus.load(0x0600, 0xA9, 0x00)
	cpu.Step()
	assert.Equal(t, byte(0), cpu.A)
	assert.True(t, cpu.flag(FlagZ))
	assert.False(t, cpu.flag(FlagN))
}

func TestADCSetsCarryAndOverflow(t *testing.T) {
	cpu, bus := newTestCPU(0x0600)
	bus.load(0x0600, 0xA9, 0x7F, 0x69, 0x01) // LDA #$7F; ADC #$01
	cpu.Step()
	cpu.Step()
	assert.Equal(t, byte(0x80), cpu.A)
	assert.True(t, cpu.flag(FlagN))
	assert.True(t, cpu.flag(FlagV))
	assert.False(t, cpu.flag(FlagC))
}

func TestBranchTakenCostsExtraCycle(t *testing.T) {
	cpu, bus := newTestCPU(0x0600)
	bus.load(0x0600, 0xA9, 0x00, 0xF0, 0x02) // LDA #0; BEQ +2
	cpu.Step()
	cycles := cpu.Step()
	require.Equal(t, 3, cycles)
	assert.Equal(t, uint16(0x0604), cpu.PC)
}

func TestStackRoundTrip(t *testing.T) {
	cpu, bus := newTestCPU(0x0600)
	bus.load(0x0600, 0xA9, 0x42, 0x48, 0xA9, 0x00, 0x68) // LDA #$42; PHA; LDA #0; PLA
	for i := 0; i < 4; i++ {
		cpu.Step()
	}
	assert.Equal(t, byte(0x42), cpu.A)
}

func TestIRQIgnoredWhenDisabled(t *testing.T) {
	cpu, bus := newTestCPU(0x0600)
	bus.load(IRQVector, 0x00, 0x07)
	bus.load(0x0600, 0xEA) // NOP, I flag still set from reset
	cpu.IRQ(true)
	cpu.Step()
	assert.Equal(t, uint16(0x0601), cpu.PC)
}

func TestIRQServicedWhenEnabled(t *testing.T) {
	cpu, bus := newTestCPU(0x0600)
	bus.load(IRQVector, 0x00, 0x07)
	bus.load(0x0600, 0x58) // CLI
	cpu.Step()
	cpu.IRQ(true)
	cpu.Step()
	assert.Equal(t, uint16(0x0700), cpu.PC)
	assert.True(t, cpu.flag(FlagI))
}

func TestRunConsumesAtLeastRequestedCycles(t *testing.T) {
	cpu, bus := newTestCPU(0x0600)
	for i := 0; i < 0x20; i++ {
		bus.mem[0x0600+i] = 0xEA // NOP x32, 2 cycles each
	}
	consumed := cpu.Run(10)
	assert.GreaterOrEqual(t, consumed, 10)
	assert.Less(t, consumed, 10+7)
}

func TestUnknownOpcodeIsNoOp(t *testing.T) {
	cpu, bus := newTestCPU(0x0600)
	bus.load(0x0600, 0x02) // unofficial/unknown
	cpu.Step()
	assert.Equal(t, uint16(0x0601), cpu.PC)
	assert.EqualValues(t, 1, cpu.UnknownOpcodes)
}
