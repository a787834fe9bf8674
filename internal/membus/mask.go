// Package membus provides the modular address/data arithmetic shared by the
// three machine buses: every CPU register or bus offset in this codebase is
// either 16-bit (addresses) or 8-bit (data), and every add/increment on them
// must wrap instead of overflowing into Go's wider int types.
package membus

// Addr16 masks v to the 16-bit address space.
func Addr16(v int) uint16 {
	return uint16(v & 0xFFFF)
}

// Data8 masks v to a single byte.
func Data8(v int) byte {
	return byte(v & 0xFF)
}

// AddWrap16 adds delta to base and wraps at 0x10000, the behaviour required
// for program counters, index registers and loader offsets alike.
func AddWrap16(base uint16, delta int) uint16 {
	return Addr16(int(base) + delta)
}
