package apple1

import "github.com/otley-retro/trimachine/internal/membus"

const (
	piaBase = 0xD010
	piaTop  = 0xD013
	romBase = 0xFF00
	romSize = 0x100
)

// Bus is the 6502 machine's MemoryBus: PIA window 0xD010-0xD013 first, then
// (while ROM is enabled) the 256-byte monitor ROM at 0xFF00, otherwise RAM.
// Per spec §4.2, setRomEnabled(false) lets a diagnostic ROM image loaded as
// a plain byte region at 0xFF00 execute as ordinary RAM.
type Bus struct {
	ram        [0x10000]byte
	rom        [romSize]byte
	romEnabled bool
	pia        *PIA
}

// NewBus returns a Bus with ROM dispatch enabled and the given PIA wired in.
func NewBus(pia *PIA) *Bus {
	return &Bus{romEnabled: true, pia: pia}
}

func (b *Bus) Read(addr uint16) byte {
	if addr >= piaBase && addr <= piaTop {
		return b.pia.Read(byte(addr - piaBase))
	}
	if b.romEnabled && addr >= romBase {
		return b.rom[addr-romBase]
	}
	return b.ram[addr]
}

func (b *Bus) Write(addr uint16, v byte) {
	if addr >= piaBase && addr <= piaTop {
		b.pia.Write(byte(addr-piaBase), v)
		return
	}
	if b.romEnabled && addr >= romBase {
		return
	}
	b.ram[addr] = v
}

// SetRomEnabled toggles whether the 0xFF00-0xFFFF window is backed by ROM.
func (b *Bus) SetRomEnabled(enabled bool) { b.romEnabled = enabled }

// LoadROM writes image into the monitor ROM, clearing the remainder of the
// window so stale bytes from a previous load are never visible.
func (b *Bus) LoadROM(image []byte) {
	for i := range b.rom {
		b.rom[i] = 0
	}
	copy(b.rom[:], image)
}

// LoadRegion writes bytes starting at start, wrapping at 0xFFFF. Bytes
// landing in ROM space are honored via the ROM loader path even though the
// ordinary bus write above would discard them.
func (b *Bus) LoadRegion(start uint16, bytes []byte) {
	addr := start
	for _, v := range bytes {
		if b.romEnabled && addr >= romBase {
			b.rom[addr-romBase] = v
		} else {
			b.ram[addr] = v
		}
		addr = membus.AddWrap16(addr, 1)
	}
}

// OverlapsROM reports whether a region of length bytes starting at start
// falls at least partly inside the monitor ROM window, for loaders deciding
// software.Entry.OverlaysROM.
func OverlapsROM(start uint16, length int) bool {
	if length <= 0 {
		return false
	}
	end := int(start) + length - 1
	return end >= romBase
}
