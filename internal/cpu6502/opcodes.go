package cpu6502

import "github.com/otley-retro/trimachine/internal/membus"

func (c *CPU) fetch() byte {
	v := c.readByte(c.PC)
	c.PC = membus.AddWrap16(c.PC, 1)
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch()
	hi := c.fetch()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) zeroPage() uint16 { return uint16(c.fetch()) }

func (c *CPU) zeroPageX() uint16 { return uint16(byte(c.fetch() + c.X)) }

func (c *CPU) zeroPageY() uint16 { return uint16(byte(c.fetch() + c.Y)) }

func (c *CPU) absolute() uint16 { return c.fetch16() }

func (c *CPU) absoluteIndexed(index byte) (uint16, bool) {
	base := c.fetch16()
	addr := membus.AddWrap16(base, int(index))
	crossed := (base & 0xFF00) != (addr & 0xFF00)
	return addr, crossed
}

func (c *CPU) absoluteX() (uint16, bool) { return c.absoluteIndexed(c.X) }
func (c *CPU) absoluteY() (uint16, bool) { return c.absoluteIndexed(c.Y) }

func (c *CPU) indirectX() uint16 {
	ptr := byte(c.fetch() + c.X)
	lo := c.readByte(uint16(ptr))
	hi := c.readByte(uint16(byte(ptr + 1)))
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) indirectY() (uint16, bool) {
	ptr := c.fetch()
	lo := c.readByte(uint16(ptr))
	hi := c.readByte(uint16(byte(ptr + 1)))
	base := uint16(hi)<<8 | uint16(lo)
	addr := membus.AddWrap16(base, int(c.Y))
	crossed := (base & 0xFF00) != (addr & 0xFF00)
	return addr, crossed
}

func (c *CPU) branch(cond bool) {
	offset := int8(c.fetch())
	c.Cycles += 2
	if !cond {
		return
	}
	c.Cycles++
	target := membus.AddWrap16(c.PC, int(offset))
	if (c.PC & 0xFF00) != (target & 0xFF00) {
		c.Cycles++
	}
	c.PC = target
}

func (c *CPU) compare(reg, value byte) {
	result := int(reg) - int(value)
	c.setFlag(FlagC, reg >= value)
	c.updateNZ(byte(result))
}

func (c *CPU) adc(value byte) {
	if c.flag(FlagD) {
		c.adcDecimal(value)
		return
	}
	sum := int(c.A) + int(value) + boolToInt(c.flag(FlagC))
	result := byte(sum)
	c.setFlag(FlagC, sum > 0xFF)
	c.setFlag(FlagV, (c.A^value)&0x80 == 0 && (c.A^result)&0x80 != 0)
	c.A = result
	c.updateNZ(c.A)
}

func (c *CPU) adcDecimal(value byte) {
	carry := boolToInt(c.flag(FlagC))
	lo := int(c.A&0x0F) + int(value&0x0F) + carry
	hi := int(c.A>>4) + int(value>>4)
	if lo > 9 {
		lo += 6
		hi++
	}
	c.setFlag(FlagV, (c.A^value)&0x80 == 0 && (c.A^byte(hi<<4))&0x80 != 0)
	if hi > 9 {
		hi += 6
	}
	c.setFlag(FlagC, hi > 15)
	c.A = byte(lo&0x0F) | byte(hi<<4)
	c.updateNZ(c.A)
}

func (c *CPU) sbc(value byte) {
	if c.flag(FlagD) {
		c.sbcDecimal(value)
		return
	}
	c.adc(^value)
}

func (c *CPU) sbcDecimal(value byte) {
	carry := boolToInt(c.flag(FlagC))
	diff := int(c.A) - int(value) - (1 - carry)

	lo := int(c.A&0x0F) - int(value&0x0F) - (1 - carry)
	hi := int(c.A>>4) - int(value>>4)
	if lo < 0 {
		lo -= 6
		hi--
	}
	if hi < 0 {
		hi -= 6
	}

	c.setFlag(FlagC, diff >= 0)
	c.setFlag(FlagV, (c.A^value)&0x80 != 0 && (c.A^byte(diff))&0x80 != 0)
	c.A = byte(lo&0x0F) | byte(hi<<4)
	c.updateNZ(byte(diff))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (c *CPU) asl(addr uint16, accumulator bool) byte {
	var v byte
	if accumulator {
		v = c.A
	} else {
		v = c.readByte(addr)
	}
	c.setFlag(FlagC, v&0x80 != 0)
	v <<= 1
	c.updateNZ(v)
	if accumulator {
		c.A = v
	} else {
		c.writeByte(addr, v)
	}
	return v
}

func (c *CPU) lsr(addr uint16, accumulator bool) byte {
	var v byte
	if accumulator {
		v = c.A
	} else {
		v = c.readByte(addr)
	}
	c.setFlag(FlagC, v&0x01 != 0)
	v >>= 1
	c.updateNZ(v)
	if accumulator {
		c.A = v
	} else {
		c.writeByte(addr, v)
	}
	return v
}

func (c *CPU) rol(addr uint16, accumulator bool) byte {
	var v byte
	if accumulator {
		v = c.A
	} else {
		v = c.readByte(addr)
	}
	carryIn := boolToInt(c.flag(FlagC))
	c.setFlag(FlagC, v&0x80 != 0)
	v = (v << 1) | byte(carryIn)
	c.updateNZ(v)
	if accumulator {
		c.A = v
	} else {
		c.writeByte(addr, v)
	}
	return v
}

func (c *CPU) ror(addr uint16, accumulator bool) byte {
	var v byte
	if accumulator {
		v = c.A
	} else {
		v = c.readByte(addr)
	}
	carryIn := boolToInt(c.flag(FlagC))
	c.setFlag(FlagC, v&0x01 != 0)
	v = (v >> 1) | byte(carryIn<<7)
	c.updateNZ(v)
	if accumulator {
		c.A = v
	} else {
		c.writeByte(addr, v)
	}
	return v
}

func (c *CPU) inc(addr uint16) {
	v := c.readByte(addr) + 1
	c.writeByte(addr, v)
	c.updateNZ(v)
}

func (c *CPU) dec(addr uint16) {
	v := c.readByte(addr) - 1
	c.writeByte(addr, v)
	c.updateNZ(v)
}

// execute dispatches a single fetched opcode. Unknown opcodes are treated
// as a one-byte, two-cycle no-op and counted (spec §4.1/§7).
func (c *CPU) execute(opcode byte) {
	switch opcode {

	// --- Load/Store ---
	case 0xA9:
		c.A = c.fetch()
		c.updateNZ(c.A)
		c.Cycles += 2
	case 0xA5:
		c.A = c.readByte(c.zeroPage())
		c.updateNZ(c.A)
		c.Cycles += 3
	case 0xB5:
		c.A = c.readByte(c.zeroPageX())
		c.updateNZ(c.A)
		c.Cycles += 4
	case 0xAD:
		c.A = c.readByte(c.absolute())
		c.updateNZ(c.A)
		c.Cycles += 4
	case 0xBD:
		addr, crossed := c.absoluteX()
		c.A = c.readByte(addr)
		c.updateNZ(c.A)
		c.Cycles += 4
		if crossed {
			c.Cycles++
		}
	case 0xB9:
		addr, crossed := c.absoluteY()
		c.A = c.readByte(addr)
		c.updateNZ(c.A)
		c.Cycles += 4
		if crossed {
			c.Cycles++
		}
	case 0xA1:
		c.A = c.readByte(c.indirectX())
		c.updateNZ(c.A)
		c.Cycles += 6
	case 0xB1:
		addr, crossed := c.indirectY()
		c.A = c.readByte(addr)
		c.updateNZ(c.A)
		c.Cycles += 5
		if crossed {
			c.Cycles++
		}

	case 0xA2:
		c.X = c.fetch()
		c.updateNZ(c.X)
		c.Cycles += 2
	case 0xA6:
		c.X = c.readByte(c.zeroPage())
		c.updateNZ(c.X)
		c.Cycles += 3
	case 0xB6:
		c.X = c.readByte(c.zeroPageY())
		c.updateNZ(c.X)
		c.Cycles += 4
	case 0xAE:
		c.X = c.readByte(c.absolute())
		c.updateNZ(c.X)
		c.Cycles += 4
	case 0xBE:
		addr, crossed := c.absoluteY()
		c.X = c.readByte(addr)
		c.updateNZ(c.X)
		c.Cycles += 4
		if crossed {
			c.Cycles++
		}

	case 0xA0:
		c.Y = c.fetch()
		c.updateNZ(c.Y)
		c.Cycles += 2
	case 0xA4:
		c.Y = c.readByte(c.zeroPage())
		c.updateNZ(c.Y)
		c.Cycles += 3
	case 0xB4:
		c.Y = c.readByte(c.zeroPageX())
		c.updateNZ(c.Y)
		c.Cycles += 4
	case 0xAC:
		c.Y = c.readByte(c.absolute())
		c.updateNZ(c.Y)
		c.Cycles += 4
	case 0xBC:
		addr, crossed := c.absoluteX()
		c.Y = c.readByte(addr)
		c.updateNZ(c.Y)
		c.Cycles += 4
		if crossed {
			c.Cycles++
		}

	case 0x85:
		c.writeByte(c.zeroPage(), c.A)
		c.Cycles += 3
	case 0x95:
		c.writeByte(c.zeroPageX(), c.A)
		c.Cycles += 4
	case 0x8D:
		c.writeByte(c.absolute(), c.A)
		c.Cycles += 4
	case 0x9D:
		addr, _ := c.absoluteX()
		c.writeByte(addr, c.A)
		c.Cycles += 5
	case 0x99:
		addr, _ := c.absoluteY()
		c.writeByte(addr, c.A)
		c.Cycles += 5
	case 0x81:
		c.writeByte(c.indirectX(), c.A)
		c.Cycles += 6
	case 0x91:
		addr, _ := c.indirectY()
		c.writeByte(addr, c.A)
		c.Cycles += 6

	case 0x86:
		c.writeByte(c.zeroPage(), c.X)
		c.Cycles += 3
	case 0x96:
		c.writeByte(c.zeroPageY(), c.X)
		c.Cycles += 4
	case 0x8E:
		c.writeByte(c.absolute(), c.X)
		c.Cycles += 4

	case 0x84:
		c.writeByte(c.zeroPage(), c.Y)
		c.Cycles += 3
	case 0x94:
		c.writeByte(c.zeroPageX(), c.Y)
		c.Cycles += 4
	case 0x8C:
		c.writeByte(c.absolute(), c.Y)
		c.Cycles += 4

	// --- Register transfers ---
	case 0xAA: // TAX
		c.X = c.A
		c.updateNZ(c.X)
		c.Cycles += 2
	case 0xA8: // TAY
		c.Y = c.A
		c.updateNZ(c.Y)
		c.Cycles += 2
	case 0x8A: // TXA
		c.A = c.X
		c.updateNZ(c.A)
		c.Cycles += 2
	case 0x98: // TYA
		c.A = c.Y
		c.updateNZ(c.A)
		c.Cycles += 2
	case 0xBA: // TSX
		c.X = c.SP
		c.updateNZ(c.X)
		c.Cycles += 2
	case 0x9A: // TXS
		c.SP = c.X
		c.Cycles += 2

	// --- Stack ---
	case 0x48: // PHA
		c.push(c.A)
		c.Cycles += 3
	case 0x68: // PLA
		c.A = c.pop()
		c.updateNZ(c.A)
		c.Cycles += 4
	case 0x08: // PHP
		c.push(c.SR | FlagB | FlagU)
		c.Cycles += 3
	case 0x28: // PLP
		c.SR = (c.pop() &^ FlagB) | FlagU
		c.Cycles += 4

	// --- Logical ---
	case 0x29:
		c.A &= c.fetch()
		c.updateNZ(c.A)
		c.Cycles += 2
	case 0x25:
		c.A &= c.readByte(c.zeroPage())
		c.updateNZ(c.A)
		c.Cycles += 3
	case 0x35:
		c.A &= c.readByte(c.zeroPageX())
		c.updateNZ(c.A)
		c.Cycles += 4
	case 0x2D:
		c.A &= c.readByte(c.absolute())
		c.updateNZ(c.A)
		c.Cycles += 4
	case 0x3D:
		addr, crossed := c.absoluteX()
		c.A &= c.readByte(addr)
		c.updateNZ(c.A)
		c.Cycles += 4
		if crossed {
			c.Cycles++
		}
	case 0x39:
		addr, crossed := c.absoluteY()
		c.A &= c.readByte(addr)
		c.updateNZ(c.A)
		c.Cycles += 4
		if crossed {
			c.Cycles++
		}
	case 0x21:
		c.A &= c.readByte(c.indirectX())
		c.updateNZ(c.A)
		c.Cycles += 6
	case 0x31:
		addr, crossed := c.indirectY()
		c.A &= c.readByte(addr)
		c.updateNZ(c.A)
		c.Cycles += 5
		if crossed {
			c.Cycles++
		}

	case 0x09:
		c.A |= c.fetch()
		c.updateNZ(c.A)
		c.Cycles += 2
	case 0x05:
		c.A |= c.readByte(c.zeroPage())
		c.updateNZ(c.A)
		c.Cycles += 3
	case 0x15:
		c.A |= c.readByte(c.zeroPageX())
		c.updateNZ(c.A)
		c.Cycles += 4
	case 0x0D:
		c.A |= c.readByte(c.absolute())
		c.updateNZ(c.A)
		c.Cycles += 4
	case 0x1D:
		addr, crossed := c.absoluteX()
		c.A |= c.readByte(addr)
		c.updateNZ(c.A)
		c.Cycles += 4
		if crossed {
			c.Cycles++
		}
	case 0x19:
		addr, crossed := c.absoluteY()
		c.A |= c.readByte(addr)
		c.updateNZ(c.A)
		c.Cycles += 4
		if crossed {
			c.Cycles++
		}
	case 0x01:
		c.A |= c.readByte(c.indirectX())
		c.updateNZ(c.A)
		c.Cycles += 6
	case 0x11:
		addr, crossed := c.indirectY()
		c.A |= c.readByte(addr)
		c.updateNZ(c.A)
		c.Cycles += 5
		if crossed {
			c.Cycles++
		}

	case 0x49:
		c.A ^= c.fetch()
		c.updateNZ(c.A)
		c.Cycles += 2
	case 0x45:
		c.A ^= c.readByte(c.zeroPage())
		c.updateNZ(c.A)
		c.Cycles += 3
	case 0x55:
		c.A ^= c.readByte(c.zeroPageX())
		c.updateNZ(c.A)
		c.Cycles += 4
	case 0x4D:
		c.A ^= c.readByte(c.absolute())
		c.updateNZ(c.A)
		c.Cycles += 4
	case 0x5D:
		addr, crossed := c.absoluteX()
		c.A ^= c.readByte(addr)
		c.updateNZ(c.A)
		c.Cycles += 4
		if crossed {
			c.Cycles++
		}
	case 0x59:
		addr, crossed := c.absoluteY()
		c.A ^= c.readByte(addr)
		c.updateNZ(c.A)
		c.Cycles += 4
		if crossed {
			c.Cycles++
		}
	case 0x41:
		c.A ^= c.readByte(c.indirectX())
		c.updateNZ(c.A)
		c.Cycles += 6
	case 0x51:
		addr, crossed := c.indirectY()
		c.A ^= c.readByte(addr)
		c.updateNZ(c.A)
		c.Cycles += 5
		if crossed {
			c.Cycles++
		}

	case 0x24: // BIT zp
		v := c.readByte(c.zeroPage())
		c.setFlag(FlagZ, c.A&v == 0)
		c.setFlag(FlagV, v&0x40 != 0)
		c.setFlag(FlagN, v&0x80 != 0)
		c.Cycles += 3
	case 0x2C: // BIT abs
		v := c.readByte(c.absolute())
		c.setFlag(FlagZ, c.A&v == 0)
		c.setFlag(FlagV, v&0x40 != 0)
		c.setFlag(FlagN, v&0x80 != 0)
		c.Cycles += 4

	// --- Arithmetic ---
	case 0x69:
		c.adc(c.fetch())
		c.Cycles += 2
	case 0x65:
		c.adc(c.readByte(c.zeroPage()))
		c.Cycles += 3
	case 0x75:
		c.adc(c.readByte(c.zeroPageX()))
		c.Cycles += 4
	case 0x6D:
		c.adc(c.readByte(c.absolute()))
		c.Cycles += 4
	case 0x7D:
		addr, crossed := c.absoluteX()
		c.adc(c.readByte(addr))
		c.Cycles += 4
		if crossed {
			c.Cycles++
		}
	case 0x79:
		addr, crossed := c.absoluteY()
		c.adc(c.readByte(addr))
		c.Cycles += 4
		if crossed {
			c.Cycles++
		}
	case 0x61:
		c.adc(c.readByte(c.indirectX()))
		c.Cycles += 6
	case 0x71:
		addr, crossed := c.indirectY()
		c.adc(c.readByte(addr))
		c.Cycles += 5
		if crossed {
			c.Cycles++
		}

	case 0xE9:
		c.sbc(c.fetch())
		c.Cycles += 2
	case 0xE5:
		c.sbc(c.readByte(c.zeroPage()))
		c.Cycles += 3
	case 0xF5:
		c.sbc(c.readByte(c.zeroPageX()))
		c.Cycles += 4
	case 0xED:
		c.sbc(c.readByte(c.absolute()))
		c.Cycles += 4
	case 0xFD:
		addr, crossed := c.absoluteX()
		c.sbc(c.readByte(addr))
		c.Cycles += 4
		if crossed {
			c.Cycles++
		}
	case 0xF9:
		addr, crossed := c.absoluteY()
		c.sbc(c.readByte(addr))
		c.Cycles += 4
		if crossed {
			c.Cycles++
		}
	case 0xE1:
		c.sbc(c.readByte(c.indirectX()))
		c.Cycles += 6
	case 0xF1:
		addr, crossed := c.indirectY()
		c.sbc(c.readByte(addr))
		c.Cycles += 5
		if crossed {
			c.Cycles++
		}

	// --- Compare ---
	case 0xC9:
		c.compare(c.A, c.fetch())
		c.Cycles += 2
	case 0xC5:
		c.compare(c.A, c.readByte(c.zeroPage()))
		c.Cycles += 3
	case 0xD5:
		c.compare(c.A, c.readByte(c.zeroPageX()))
		c.Cycles += 4
	case 0xCD:
		c.compare(c.A, c.readByte(c.absolute()))
		c.Cycles += 4
	case 0xDD:
		addr, crossed := c.absoluteX()
		c.compare(c.A, c.readByte(addr))
		c.Cycles += 4
		if crossed {
			c.Cycles++
		}
	case 0xD9:
		addr, crossed := c.absoluteY()
		c.compare(c.A, c.readByte(addr))
		c.Cycles += 4
		if crossed {
			c.Cycles++
		}
	case 0xC1:
		c.compare(c.A, c.readByte(c.indirectX()))
		c.Cycles += 6
	case 0xD1:
		addr, crossed := c.indirectY()
		c.compare(c.A, c.readByte(addr))
		c.Cycles += 5
		if crossed {
			c.Cycles++
		}

	case 0xE0:
		c.compare(c.X, c.fetch())
		c.Cycles += 2
	case 0xE4:
		c.compare(c.X, c.readByte(c.zeroPage()))
		c.Cycles += 3
	case 0xEC:
		c.compare(c.X, c.readByte(c.absolute()))
		c.Cycles += 4

	case 0xC0:
		c.compare(c.Y, c.fetch())
		c.Cycles += 2
	case 0xC4:
		c.compare(c.Y, c.readByte(c.zeroPage()))
		c.Cycles += 3
	case 0xCC:
		c.compare(c.Y, c.readByte(c.absolute()))
		c.Cycles += 4

	// --- Increment/Decrement ---
	case 0xE6:
		c.inc(c.zeroPage())
		c.Cycles += 5
	case 0xF6:
		c.inc(c.zeroPageX())
		c.Cycles += 6
	case 0xEE:
		c.inc(c.absolute())
		c.Cycles += 6
	case 0xFE:
		addr, _ := c.absoluteX()
		c.inc(addr)
		c.Cycles += 7
	case 0xC6:
		c.dec(c.zeroPage())
		c.Cycles += 5
	case 0xD6:
		c.dec(c.zeroPageX())
		c.Cycles += 6
	case 0xCE:
		c.dec(c.absolute())
		c.Cycles += 6
	case 0xDE:
		addr, _ := c.absoluteX()
		c.dec(addr)
		c.Cycles += 7
	case 0xE8: // INX
		c.X++
		c.updateNZ(c.X)
		c.Cycles += 2
	case 0xC8: // INY
		c.Y++
		c.updateNZ(c.Y)
		c.Cycles += 2
	case 0xCA: // DEX
		c.X--
		c.updateNZ(c.X)
		c.Cycles += 2
	case 0x88: // DEY
		c.Y--
		c.updateNZ(c.Y)
		c.Cycles += 2

	// --- Shifts/Rotates ---
	case 0x0A:
		c.asl(0, true)
		c.Cycles += 2
	case 0x06:
		c.asl(c.zeroPage(), false)
		c.Cycles += 5
	case 0x16:
		c.asl(c.zeroPageX(), false)
		c.Cycles += 6
	case 0x0E:
		c.asl(c.absolute(), false)
		c.Cycles += 6
	case 0x1E:
		addr, _ := c.absoluteX()
		c.asl(addr, false)
		c.Cycles += 7

	case 0x4A:
		c.lsr(0, true)
		c.Cycles += 2
	case 0x46:
		c.lsr(c.zeroPage(), false)
		c.Cycles += 5
	case 0x56:
		c.lsr(c.zeroPageX(), false)
		c.Cycles += 6
	case 0x4E:
		c.lsr(c.absolute(), false)
		c.Cycles += 6
	case 0x5E:
		addr, _ := c.absoluteX()
		c.lsr(addr, false)
		c.Cycles += 7

	case 0x2A:
		c.rol(0, true)
		c.Cycles += 2
	case 0x26:
		c.rol(c.zeroPage(), false)
		c.Cycles += 5
	case 0x36:
		c.rol(c.zeroPageX(), false)
		c.Cycles += 6
	case 0x2E:
		c.rol(c.absolute(), false)
		c.Cycles += 6
	case 0x3E:
		addr, _ := c.absoluteX()
		c.rol(addr, false)
		c.Cycles += 7

	case 0x6A:
		c.ror(0, true)
		c.Cycles += 2
	case 0x66:
		c.ror(c.zeroPage(), false)
		c.Cycles += 5
	case 0x76:
		c.ror(c.zeroPageX(), false)
		c.Cycles += 6
	case 0x6E:
		c.ror(c.absolute(), false)
		c.Cycles += 6
	case 0x7E:
		addr, _ := c.absoluteX()
		c.ror(addr, false)
		c.Cycles += 7

	// --- Jumps/Calls ---
	case 0x4C: // JMP abs
		c.PC = c.absolute()
		c.Cycles += 3
	case 0x6C: // JMP (ind) — reproduces the NMOS page-wrap bug
		ptr := c.fetch16()
		lo := c.readByte(ptr)
		hiAddr := (ptr & 0xFF00) | uint16(byte(ptr)+1)
		hi := c.readByte(hiAddr)
		c.PC = uint16(hi)<<8 | uint16(lo)
		c.Cycles += 5
	case 0x20: // JSR
		target := c.absolute()
		c.push16(c.PC - 1)
		c.PC = target
		c.Cycles += 6
	case 0x60: // RTS
		c.PC = membus.AddWrap16(c.pop16(), 1)
		c.Cycles += 6
	case 0x40: // RTI
		c.SR = (c.pop() &^ FlagB) | FlagU
		c.PC = c.pop16()
		c.Cycles += 6

	// --- Branches ---
	case 0x10:
		c.branch(!c.flag(FlagN))
	case 0x30:
		c.branch(c.flag(FlagN))
	case 0x50:
		c.branch(!c.flag(FlagV))
	case 0x70:
		c.branch(c.flag(FlagV))
	case 0x90:
		c.branch(!c.flag(FlagC))
	case 0xB0:
		c.branch(c.flag(FlagC))
	case 0xD0:
		c.branch(!c.flag(FlagZ))
	case 0xF0:
		c.branch(c.flag(FlagZ))

	// --- Status flag changes ---
	case 0x18:
		c.setFlag(FlagC, false)
		c.Cycles += 2
	case 0x38:
		c.setFlag(FlagC, true)
		c.Cycles += 2
	case 0x58:
		c.setFlag(FlagI, false)
		c.Cycles += 2
	case 0x78:
		c.setFlag(FlagI, true)
		c.Cycles += 2
	case 0xB8:
		c.setFlag(FlagV, false)
		c.Cycles += 2
	case 0xD8:
		c.setFlag(FlagD, false)
		c.Cycles += 2
	case 0xF8:
		c.setFlag(FlagD, true)
		c.Cycles += 2

	// --- System ---
	case 0x00: // BRK
		c.PC = membus.AddWrap16(c.PC, 1)
		c.serviceInterrupt(IRQVector, true)
	case 0xEA: // NOP
		c.Cycles += 2

	default:
		c.UnknownOpcodes++
		c.Cycles += 2
	}
}
