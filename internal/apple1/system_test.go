package apple1

import (
	"strings"
	"testing"

	"github.com/otley-retro/trimachine/internal/software"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalRoundTrip(t *testing.T) {
	sys := New()
	for _, b := range []byte{0x48, 0x49, 0x0D, 0x4A} {
		sys.Terminal.Write(b)
	}
	lines := sys.Terminal.GetLines()
	assert.Equal(t, "HI"+spaces(38), lines[0])
	assert.Equal(t, "J"+spaces(39), lines[1])
	row, col := sys.Terminal.Cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, 1, col)
}

func spaces(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += " "
	}
	return s
}

func TestTerminalScrollKeepsExactly24Rows(t *testing.T) {
	sys := New()
	sys.Terminal.Write('A')
	for i := 0; i < 30; i++ {
		sys.Terminal.Write(0x0D)
	}
	sys.Terminal.Write('Z')

	lines := sys.Terminal.GetLines()
	assert.Len(t, lines, 24)
	for _, line := range lines {
		assert.Len(t, line, 40)
	}
	row, col := sys.Terminal.Cursor()
	assert.Equal(t, 23, row)
	assert.Equal(t, 1, col)
	assert.Equal(t, "Z", strings.TrimRight(lines[23], " "))
}

// monitorROM is a small hand-assembled 6502 monitor performing the same
// read-KBD/write-DSP loop a Woz Monitor image does: poll KBDCR, echo each
// key, and answer a carriage return with an address line.
//
//	FF00  D8        CLD
//	FF01  AD 11 D0  NEXTKEY: LDA $D011
//	FF04  10 FB     BPL NEXTKEY
//	FF06  AD 10 D0  LDA $D010
//	FF09  29 7F     AND #$7F
//	FF0B  C9 0D     CMP #$0D
//	FF0D  F0 06     BEQ GOTCR
//	FF0F  20 28 FF  JSR ECHO
//	FF12  4C 01 FF  JMP NEXTKEY
//	FF15  20 28 FF  GOTCR: JSR ECHO
//	FF18  A0 00     LDY #$00
//	FF1A  B9 2C FF  PRLOOP: LDA MSG,Y
//	FF1D  F0 06     BEQ DONE
//	FF1F  20 28 FF  JSR ECHO
//	FF22  C8        INY
//	FF23  D0 F5     BNE PRLOOP
//	FF25  4C 01 FF  DONE: JMP NEXTKEY
//	FF28  8D 12 D0  ECHO: STA $D012
//	FF2B  60        RTS
//	FF2C  .."FF00:",0  MSG
var monitorROM = []byte{
	0xD8,
	0xAD, 0x11, 0xD0,
	0x10, 0xFB,
	0xAD, 0x10, 0xD0,
	0x29, 0x7F,
	0xC9, 0x0D,
	0xF0, 0x06,
	0x20, 0x28, 0xFF,
	0x4C, 0x01, 0xFF,
	0x20, 0x28, 0xFF,
	0xA0, 0x00,
	0xB9, 0x2C, 0xFF,
	0xF0, 0x06,
	0x20, 0x28, 0xFF,
	0xC8,
	0xD0, 0xF5,
	0x4C, 0x01, 0xFF,
	0x8D, 0x12, 0xD0,
	0x60,
	'F', 'F', '0', '0', ':', 0x00,
}

func TestMonitorROMEchoesAddressLine(t *testing.T) {
	rom := make([]byte, 0x100)
	copy(rom, monitorROM)
	rom[0xFC] = 0x00 // reset vector -> $FF00
	rom[0xFD] = 0xFF

	sys := New()
	sys.Bus.LoadROM(rom)
	sys.Reset()

	for _, key := range []byte{'F', 'F', '0', '0', 0x0D} {
		sys.KeyPress(key)
		sys.Run(5000)
	}

	lines := sys.Terminal.GetLines()
	assert.Equal(t, "FF00", strings.TrimRight(lines[0], " "))
	assert.Equal(t, "FF00:", strings.TrimRight(lines[1], " "))
}

func TestPIAKeyReadClearsStatusOnce(t *testing.T) {
	sys := New()
	sys.KeyPress('F')
	assert.True(t, sys.PIA.KBDCR&0x80 != 0)
	first := sys.PIA.Read(0)
	assert.True(t, first&0x80 != 0)
	assert.False(t, sys.PIA.KBDCR&0x80 != 0)
	second := sys.PIA.Read(0)
	assert.Equal(t, first, second)
}

func TestPIAWriteDisplayEmitsLow7Bits(t *testing.T) {
	sys := New()
	var got byte
	sys.PIA.DisplaySink = func(b byte) { got = b }
	sys.PIA.Write(2, 0xC8) // 'H' with bit7 set, as ROM output typically is
	assert.Equal(t, byte(0x48), got)
	assert.Equal(t, byte(0x48), sys.PIA.DSP)
}

func TestBusDispatchesPIAWindowAndROM(t *testing.T) {
	sys := New()
	sys.Bus.LoadROM([]byte{0xEA, 0xEA})
	assert.Equal(t, byte(0xEA), sys.Bus.Read(0xFF00))
	assert.Equal(t, byte(0x00), sys.Bus.Read(0xFF02))

	sys.Bus.Write(0xFF00, 0x99) // ROM writes are dropped
	assert.Equal(t, byte(0xEA), sys.Bus.Read(0xFF00))

	sys.Bus.Write(0x0000, 0x42) // plain RAM
	assert.Equal(t, byte(0x42), sys.Bus.Read(0x0000))

	sys.KeyPress('A') // PIA window: 0xD010 is KBD
	assert.Equal(t, byte('A'|0x80), sys.Bus.Read(0xD010))
}

func TestSetRomEnabledUnmapsMonitorWindow(t *testing.T) {
	sys := New()
	sys.Bus.LoadROM([]byte{0xEA})
	sys.Bus.SetRomEnabled(false)

	sys.Bus.Write(0xFF00, 0xA9) // now plain RAM
	assert.Equal(t, byte(0xA9), sys.Bus.Read(0xFF00))

	sys.Bus.SetRomEnabled(true)
	assert.Equal(t, byte(0xEA), sys.Bus.Read(0xFF00))
}

func TestLoadSoftwareResetsOnROMOverlay(t *testing.T) {
	sys := New()
	sys.Bus.LoadROM([]byte{0x4C, 0x00, 0xFF}) // JMP $FF00 at the reset vector's target
	entry := software.Entry{
		Regions: []software.Region{
			{Start: 0xFFFC, Bytes: []byte{0x00, 0xFF}},
		},
		OverlaysROM: true,
	}
	sys.LoadSoftware(entry)
	require.Equal(t, uint16(0xFF00), sys.CPU.PC)
}

func TestLoadSoftwareSetsEntryPointWithoutROM(t *testing.T) {
	sys := New()
	entry := software.Entry{
		Regions:     []software.Region{{Start: 0x0300, Bytes: []byte{0xEA}}},
		EntryPoint:  0x0300,
		OverlaysROM: false,
	}
	sys.LoadSoftware(entry)
	assert.Equal(t, uint16(0x0300), sys.CPU.PC)
}
