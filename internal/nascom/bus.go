package nascom

import "github.com/otley-retro/trimachine/internal/membus"

const (
	romSize    = 0x3000
	deadZoneLo = 0x3000
	deadZoneHi = 0x37FF
	keyboardLo = 0x3800
	keyboardHi = 0x3BFF
	videoLo    = 0x3C00
	videoHi    = 0x3FFF
	ramLo      = 0x4000
)

// Bus is the Z80 machine's MemoryBus: ROM below 0x3000, a dead zone that
// reads 0xFF, the keyboard matrix window, the video RAM window, and user
// RAM from 0x4000 up, per spec §4.2.
type Bus struct {
	rom      [romSize]byte
	ram      [0x10000]byte
	Keyboard *KeyboardMatrix
	Video    *VideoRAM
}

// NewBus wires a Bus to the given keyboard and video peripherals.
func NewBus(kb *KeyboardMatrix, video *VideoRAM) *Bus {
	return &Bus{Keyboard: kb, Video: video}
}

func (b *Bus) Read(addr uint16) byte {
	switch {
	case addr < deadZoneLo:
		return b.rom[addr]
	case addr <= deadZoneHi:
		return 0xFF
	case addr <= keyboardHi:
		return b.Keyboard.Read(byte(addr))
	case addr <= videoHi:
		return b.Video.Read(addr - videoLo)
	default:
		return b.ram[addr]
	}
}

func (b *Bus) Write(addr uint16, v byte) {
	switch {
	case addr <= deadZoneHi:
		return // ROM and the dead zone are read-only
	case addr <= keyboardHi:
		return // keyboard is read-only
	case addr <= videoHi:
		b.Video.Write(addr-videoLo, v)
	default:
		b.ram[addr] = v
	}
}

// LoadROM writes image into the lower ROM, clearing the remainder of the
// window.
func (b *Bus) LoadROM(image []byte) {
	for i := range b.rom {
		b.rom[i] = 0
	}
	copy(b.rom[:], image)
}

// LoadRegion writes bytes starting at start, wrapping at 0xFFFF. ROM-space
// bytes go through the ROM loader path, bypassing the read-only bus write
// above; video-space bytes are written through Video.Write so downstream
// observers see a change notification; keyboard/dead-zone bytes land in
// read-only space and are discarded.
func (b *Bus) LoadRegion(start uint16, bytes []byte) {
	addr := start
	for _, v := range bytes {
		switch {
		case addr < deadZoneLo:
			b.rom[addr] = v
		case addr <= keyboardHi:
			// read-only space; nothing to load
		case addr <= videoHi:
			b.Video.Write(addr-videoLo, v)
		default:
			b.ram[addr] = v
		}
		addr = membus.AddWrap16(addr, 1)
	}
}

// OverlapsROM reports whether a region of length bytes starting at start
// falls at least partly below the dead-zone boundary, for loaders deciding
// software.Entry.OverlaysROM.
func OverlapsROM(start uint16, length int) bool {
	if length <= 0 {
		return false
	}
	return int(start) < deadZoneLo
}
