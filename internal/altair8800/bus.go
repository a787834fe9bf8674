package altair8800

import "github.com/otley-retro/trimachine/internal/membus"

// Bus is the 8080 machine's MemoryBus: flat 64 KiB RAM, no ROM protection,
// per spec §4.2.
type Bus struct {
	ram [0x10000]byte
}

// NewBus returns a zeroed 64 KiB RAM.
func NewBus() *Bus { return &Bus{} }

func (b *Bus) Read(addr uint16) byte     { return b.ram[addr] }
func (b *Bus) Write(addr uint16, v byte) { b.ram[addr] = v }

// LoadRegion writes bytes starting at start, wrapping at 0xFFFF.
func (b *Bus) LoadRegion(start uint16, bytes []byte) {
	addr := start
	for _, v := range bytes {
		b.ram[addr] = v
		addr = membus.AddWrap16(addr, 1)
	}
}
