package cpuz80

import "github.com/otley-retro/trimachine/internal/membus"

// executeIndexed runs a DD- or FD-prefixed instruction, with idx pointing
// at IX or IY. Per real Z80 behaviour, the prefix only changes the meaning
// of instructions that reference HL, H or L in the unprefixed table — every
// other opcode is decoded exactly as if unprefixed (execIndexed8Bit returns
// false for those, and this function falls back to executeMain). This mirrors the teacher's ddOps/fdOps split
// (cpu_z80.go initDDOps/initFDOps) but folds the lookup into one function
// per spec's preference for bit-derived dispatch over exhaustive tables.
func (c *CPU) executeIndexed(idx *uint16, _ bool) {
	op := c.fetchOpcode()

	switch op {
	case 0x21:
		*idx = c.fetchWord()
		c.tick(14)
		return
	case 0x22:
		addr := c.fetchWord()
		c.writeWord(addr, *idx)
		c.tick(20)
		return
	case 0x2A:
		addr := c.fetchWord()
		*idx = c.readWord(addr)
		c.tick(20)
		return
	case 0x23:
		*idx = membus.AddWrap16(*idx, 1)
		c.tick(10)
		return
	case 0x2B:
		*idx = membus.AddWrap16(*idx, -1)
		c.tick(10)
		return
	case 0x09:
		*idx = c.addIdx(*idx, c.BC())
		c.tick(15)
		return
	case 0x19:
		*idx = c.addIdx(*idx, c.DE())
		c.tick(15)
		return
	case 0x29:
		*idx = c.addIdx(*idx, *idx)
		c.tick(15)
		return
	case 0x39:
		*idx = c.addIdx(*idx, c.SP)
		c.tick(15)
		return
	case 0xE5:
		c.push(*idx)
		c.tick(15)
		return
	case 0xE1:
		*idx = c.pop()
		c.tick(14)
		return
	case 0xE3:
		lo := c.read(c.SP)
		hi := c.read(membus.AddWrap16(c.SP, 1))
		old := *idx
		c.write(c.SP, byte(old))
		c.write(membus.AddWrap16(c.SP, 1), byte(old>>8))
		*idx = uint16(hi)<<8 | uint16(lo)
		c.tick(23)
		return
	case 0xF9:
		c.SP = *idx
		c.tick(10)
		return
	case 0xE9:
		c.PC = *idx
		c.tick(8)
		return
	case 0x34:
		addr := c.idxAddr(idx)
		v := c.incReg(c.read(addr))
		c.write(addr, v)
		c.tick(23)
		return
	case 0x35:
		addr := c.idxAddr(idx)
		v := c.decReg(c.read(addr))
		c.write(addr, v)
		c.tick(23)
		return
	case 0x36:
		addr := c.idxAddr(idx)
		n := c.fetchByte()
		c.write(addr, n)
		c.tick(19)
		return
	case 0xCB:
		d := c.fetchByte()
		addr := membus.AddWrap16(*idx, int(int8(d)))
		subop := c.fetchOpcode()
		c.executeCBAt(addr, subop)
		return
	}

	if c.execIndexed8Bit(idx, op) {
		return
	}
	c.tick(4)
	c.executeMain(op)
}

func (c *CPU) addIdx(idx uint16, v uint16) uint16 {
	result := int(idx) + int(v)
	c.setFlag(FlagH, (idx&0x0FFF)+(v&0x0FFF) > 0x0FFF)
	c.setFlag(FlagC, result > 0xFFFF)
	c.setFlag(FlagN, false)
	return uint16(result)
}

func (c *CPU) idxAddr(idx *uint16) uint16 {
	d := c.fetchByte()
	return membus.AddWrap16(*idx, int(int8(d)))
}

func idxHi(idx *uint16) byte     { return byte(*idx >> 8) }
func idxLo(idx *uint16) byte     { return byte(*idx) }
func setIdxHi(idx *uint16, v byte) { *idx = uint16(v)<<8 | (*idx & 0x00FF) }
func setIdxLo(idx *uint16, v byte) { *idx = (*idx &^ 0x00FF) | uint16(v) }

// execIndexed8Bit handles the 8-bit load and ALU groups, where H/L becomes
// IXH/IXL (the common undocumented aliasing named in spec §6) and (HL)
// becomes (IX+d). Returns false when op doesn't reference HL/H/L at all, so
// the caller can fall back to unprefixed semantics.
func (c *CPU) execIndexed8Bit(idx *uint16, op byte) bool {
	if op >= 0x40 && op < 0x80 && op != 0x76 {
		y := (op >> 3) & 7
		z := op & 7
		if y == 6 || z == 6 {
			addr := c.idxAddr(idx)
			if z == 6 {
				c.writeReg8(y, c.read(addr))
			} else {
				c.write(addr, c.readReg8(z))
			}
			c.tick(19)
			return true
		}
		if y == 4 || y == 5 || z == 4 || z == 5 {
			var v byte
			switch z {
			case 4:
				v = idxHi(idx)
			case 5:
				v = idxLo(idx)
			default:
				v = c.readReg8(z)
			}
			switch y {
			case 4:
				setIdxHi(idx, v)
			case 5:
				setIdxLo(idx, v)
			default:
				c.writeReg8(y, v)
			}
			c.tick(8)
			return true
		}
		return false
	}

	if op >= 0x80 && op < 0xC0 {
		y := (op >> 3) & 7
		z := op & 7
		switch z {
		case 6:
			addr := c.idxAddr(idx)
			c.alu(y, c.read(addr))
			c.tick(19)
			return true
		case 4:
			c.alu(y, idxHi(idx))
			c.tick(8)
			return true
		case 5:
			c.alu(y, idxLo(idx))
			c.tick(8)
			return true
		}
		return false
	}

	if op&0xC7 == 0x04 { // INC r[y]
		y := (op >> 3) & 7
		switch y {
		case 6:
			addr := c.idxAddr(idx)
			c.write(addr, c.incReg(c.read(addr)))
			c.tick(23)
			return true
		case 4:
			setIdxHi(idx, c.incReg(idxHi(idx)))
			c.tick(8)
			return true
		case 5:
			setIdxLo(idx, c.incReg(idxLo(idx)))
			c.tick(8)
			return true
		}
		return false
	}

	if op&0xC7 == 0x05 { // DEC r[y]
		y := (op >> 3) & 7
		switch y {
		case 6:
			addr := c.idxAddr(idx)
			c.write(addr, c.decReg(c.read(addr)))
			c.tick(23)
			return true
		case 4:
			setIdxHi(idx, c.decReg(idxHi(idx)))
			c.tick(8)
			return true
		case 5:
			setIdxLo(idx, c.decReg(idxLo(idx)))
			c.tick(8)
			return true
		}
		return false
	}

	if op&0xC7 == 0x06 { // LD r[y],n (y==6 is 0x36, already handled)
		y := (op >> 3) & 7
		switch y {
		case 4:
			n := c.fetchByte()
			setIdxHi(idx, n)
			c.tick(11)
			return true
		case 5:
			n := c.fetchByte()
			setIdxLo(idx, n)
			c.tick(11)
			return true
		}
		return false
	}

	return false
}
