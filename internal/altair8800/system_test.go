package altair8800

import (
	"testing"

	"github.com/otley-retro/trimachine/internal/software"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialStatusAndFIFOOrder(t *testing.T) {
	s := NewSerial2SIO()
	assert.Equal(t, byte(0x02), s.ReadStatus()) // TX ready, RX empty
	s.Push('A')
	s.Push('B')
	assert.Equal(t, byte(0x03), s.ReadStatus())
	assert.Equal(t, byte('A'), s.ReadData())
	assert.Equal(t, byte('B'), s.ReadData())
	assert.Equal(t, byte(0x00), s.ReadData())
	assert.Equal(t, byte(0x02), s.ReadStatus())
}

func TestBASICStyleSerialOutput(t *testing.T) {
	sys := New()
	var out []byte
	sys.Serial.TxOut = func(b byte) { out = append(out, b) }

	// For each character: poll the status port until TX ready, then emit.
	message := "HELLO WORLD"
	var program []byte
	for i := 0; i < len(message); i++ {
		poll := uint16(len(program))
		program = append(program,
			0xDB, 0x10, // POLL: IN $10
			0xE6, 0x02, // ANI $02
			0xCA, byte(poll), byte(poll>>8), // JZ POLL
			0x3E, message[i], // MVI A,c
			0xD3, 0x11) // OUT $11
	}
	program = append(program, 0x76) // HLT

	sys.Mem.LoadRegion(0, program)
	sys.Panel.Reset()
	sys.Panel.Run()
	sys.Run(100000)

	require.True(t, sys.CPU.Halted)
	assert.Equal(t, []byte(message), out)
}

func TestFrontPanelProgrammingAndRun(t *testing.T) {
	sys := New()
	sys.Panel.AddressSwitches = 0
	sys.Panel.Examine()
	sys.Panel.DataSwitches = 0x3E // MVI A,...
	sys.Panel.Deposit()
	sys.Panel.DataSwitches = 0x42
	sys.Panel.DepositNext()
	sys.Panel.DataSwitches = 0x76 // HLT
	sys.Panel.DepositNext()

	assert.Equal(t, byte(0x3E), sys.Mem.Read(0))
	assert.Equal(t, byte(0x42), sys.Mem.Read(1))
	assert.Equal(t, byte(0x76), sys.Mem.Read(2))

	sys.Panel.AddressSwitches = 0
	sys.Panel.Examine()
	sys.Panel.Run()
	sys.Run(1000)

	require.True(t, sys.CPU.Halted)
	assert.False(t, sys.Panel.Running)
	assert.Equal(t, byte(0x42), sys.CPU.A)
}

func TestRunReturnsZeroWhenStopped(t *testing.T) {
	sys := New()
	assert.Equal(t, 0, sys.Run(1000))
}

func TestLoadSoftwareSetsEntryPointAndPanelAddress(t *testing.T) {
	sys := New()
	entry := software.Entry{
		Regions:    []software.Region{{Start: 0x0100, Bytes: []byte{0x76}}},
		EntryPoint: 0x0100,
	}
	sys.LoadSoftware(entry)
	assert.Equal(t, uint16(0x0100), sys.CPU.PC)
	assert.Equal(t, uint16(0x0100), sys.Panel.AddressLEDs)
}
