package cpuz80

import "github.com/otley-retro/trimachine/internal/membus"

// executeMain decodes and executes one unprefixed opcode, using the
// canonical x/y/z/p/q bit fields (x=op>>6, y=(op>>3)&7, z=op&7, p=y>>1,
// q=y&1) rather than an exhaustive 256-case switch — the same style the
// design notes call for on the CB/DDCB/FDCB tables, generalized to the base
// table too since the Z80 encoding is regular enough to support it.
func (c *CPU) executeMain(op byte) {
	switch op {
	case 0xCB:
		c.executeCB()
		return
	case 0xED:
		c.executeED()
		return
	case 0xDD:
		c.executeIndexed(&c.IX, false)
		return
	case 0xFD:
		c.executeIndexed(&c.IY, false)
		return
	}

	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		c.execX0(y, z, p, q)
	case 1:
		if z == 6 && y == 6 {
			c.Halted = true
			// Keep PC pointing at this opcode: real hardware re-fetches HALT
			// on every cycle it idles, so an interrupt return lands back on
			// HALT and the CPU re-enters it rather than falling through.
			c.PC = membus.AddWrap16(c.PC, -1)
			c.tick(4)
			return
		}
		c.writeReg8(y, c.readReg8(z))
		c.tick(regCycles(y, z))
	case 2:
		c.alu(y, c.readReg8(z))
		c.tick(regTickALU(z))
	case 3:
		c.execX3(y, z, p, q)
	}
}

func regCycles(y, z byte) int {
	if y == 6 || z == 6 {
		return 7
	}
	return 4
}

func regTickALU(z byte) int {
	if z == 6 {
		return 7
	}
	return 4
}

func (c *CPU) execX0(y, z, p, q byte) {
	switch z {
	case 0:
		switch {
		case y == 0:
			c.tick(4) // NOP
		case y == 1:
			c.ExAF()
			c.tick(4)
		case y == 2:
			c.B--
			offset := int8(c.fetchByte())
			if c.B != 0 {
				c.PC = membus.AddWrap16(c.PC, int(offset))
				c.tick(13)
			} else {
				c.tick(8)
			}
		case y == 3:
			offset := int8(c.fetchByte())
			c.PC = membus.AddWrap16(c.PC, int(offset))
			c.tick(12)
		default:
			offset := int8(c.fetchByte())
			if c.condition(y - 4) {
				c.PC = membus.AddWrap16(c.PC, int(offset))
				c.tick(12)
			} else {
				c.tick(7)
			}
		}
	case 1:
		if q == 0 {
			c.setRegPair(p, c.fetchWord())
			c.tick(10)
		} else {
			c.addHL(c.regPair(p))
			c.tick(11)
		}
	case 2:
		switch {
		case q == 0 && p == 0:
			c.write(c.BC(), c.A)
			c.tick(7)
		case q == 0 && p == 1:
			c.write(c.DE(), c.A)
			c.tick(7)
		case q == 0 && p == 2:
			addr := c.fetchWord()
			c.writeWord(addr, c.HL())
			c.tick(16)
		case q == 0 && p == 3:
			addr := c.fetchWord()
			c.write(addr, c.A)
			c.tick(13)
		case q == 1 && p == 0:
			c.A = c.read(c.BC())
			c.tick(7)
		case q == 1 && p == 1:
			c.A = c.read(c.DE())
			c.tick(7)
		case q == 1 && p == 2:
			addr := c.fetchWord()
			c.SetHL(c.readWord(addr))
			c.tick(16)
		case q == 1 && p == 3:
			addr := c.fetchWord()
			c.A = c.read(addr)
			c.tick(13)
		}
	case 3:
		if q == 0 {
			c.setRegPair(p, membus.AddWrap16(c.regPair(p), 1))
		} else {
			c.setRegPair(p, membus.AddWrap16(c.regPair(p), -1))
		}
		c.tick(6)
	case 4:
		c.writeReg8(y, c.incReg(c.readReg8(y)))
		c.tick(regCycles(y, 0))
	case 5:
		c.writeReg8(y, c.decReg(c.readReg8(y)))
		c.tick(regCycles(y, 0))
	case 6:
		c.writeReg8(y, c.fetchByte())
		if y == 6 {
			c.tick(10)
		} else {
			c.tick(7)
		}
	case 7:
		c.execX0Z7(y)
		c.tick(4)
	}
}

func (c *CPU) execX0Z7(y byte) {
	switch y {
	case 0: // RLCA
		carry := c.A&0x80 != 0
		c.A = (c.A << 1) | boolBit(carry)
		c.setFlag(FlagC, carry)
		c.setFlag(FlagH, false)
		c.setFlag(FlagN, false)
	case 1: // RRCA
		carry := c.A&0x01 != 0
		c.A = (c.A >> 1) | (boolBit(carry) << 7)
		c.setFlag(FlagC, carry)
		c.setFlag(FlagH, false)
		c.setFlag(FlagN, false)
	case 2: // RLA
		carry := c.A&0x80 != 0
		c.A = (c.A << 1) | boolBit(c.flag(FlagC))
		c.setFlag(FlagC, carry)
		c.setFlag(FlagH, false)
		c.setFlag(FlagN, false)
	case 3: // RRA
		carry := c.A&0x01 != 0
		c.A = (c.A >> 1) | (boolBit(c.flag(FlagC)) << 7)
		c.setFlag(FlagC, carry)
		c.setFlag(FlagH, false)
		c.setFlag(FlagN, false)
	case 4:
		c.daa()
	case 5: // CPL
		c.A = ^c.A
		c.setFlag(FlagH, true)
		c.setFlag(FlagN, true)
	case 6: // SCF
		c.setFlag(FlagC, true)
		c.setFlag(FlagH, false)
		c.setFlag(FlagN, false)
	case 7: // CCF
		c.setFlag(FlagH, c.flag(FlagC))
		c.setFlag(FlagC, !c.flag(FlagC))
		c.setFlag(FlagN, false)
	}
}

// daa implements the Z80 decimal adjust, distinct from the 8080's (see
// spec §9 "8080 DAA flag semantics" open question) in that it tracks the
// N flag to know whether the previous operation was an add or a subtract.
func (c *CPU) daa() {
	a := c.A
	correction := byte(0)
	carry := c.flag(FlagC)
	halfCarry := c.flag(FlagH)
	subtract := c.flag(FlagN)

	if halfCarry || (!subtract && a&0x0F > 9) {
		correction |= 0x06
	}
	if carry || (!subtract && a > 0x99) {
		correction |= 0x60
		carry = true
	}
	if subtract {
		a -= correction
	} else {
		a += correction
	}
	c.setFlag(FlagH, (c.A^a)&0x10 != 0)
	c.A = a
	c.setFlag(FlagC, carry)
	c.setFlag(FlagPV, parityTable[c.A])
	c.setSZ(c.A)
	c.setFlag(FlagN, subtract)
}

func (c *CPU) execX3(y, z, p, q byte) {
	switch z {
	case 0:
		if c.condition(y) {
			c.PC = c.pop()
			c.tick(11)
		} else {
			c.tick(5)
		}
	case 1:
		if q == 0 {
			c.setRegPair2(p, c.pop())
			c.tick(10)
		} else {
			switch p {
			case 0:
				c.PC = c.pop()
				c.tick(10)
			case 1:
				c.Exx()
				c.tick(4)
			case 2:
				c.PC = c.HL()
				c.tick(4)
			case 3:
				c.SP = c.HL()
				c.tick(6)
			}
		}
	case 2:
		addr := c.fetchWord()
		if c.condition(y) {
			c.PC = addr
		}
		c.tick(10)
	case 3:
		switch y {
		case 0:
			c.PC = c.fetchWord()
			c.tick(10)
		case 1:
			// CB prefix; executeMain intercepts 0xCB before reaching here.
		case 2:
			n := c.fetchByte()
			c.out(uint16(n)|uint16(c.A)<<8, c.A)
			c.tick(11)
		case 3:
			n := c.fetchByte()
			c.A = c.in(uint16(n) | uint16(c.A)<<8)
			c.tick(11)
		case 4:
			tmp := c.read(c.SP)
			tmp2 := c.read(membus.AddWrap16(c.SP, 1))
			hl := c.HL()
			c.write(c.SP, byte(hl))
			c.write(membus.AddWrap16(c.SP, 1), byte(hl>>8))
			c.SetHL(uint16(tmp2)<<8 | uint16(tmp))
			c.tick(19)
		case 5:
			de := c.DE()
			c.SetDE(c.HL())
			c.SetHL(de)
			c.tick(4)
		case 6:
			c.IFF1 = false
			c.IFF2 = false
			c.iffDelay = 0
			c.tick(4)
		case 7:
			c.iffDelay = 2
			c.tick(4)
		}
	case 4:
		addr := c.fetchWord()
		if c.condition(y) {
			c.push(c.PC)
			c.PC = addr
			c.tick(17)
		} else {
			c.tick(10)
		}
	case 5:
		if q == 0 {
			c.push(c.regPair2(p))
			c.tick(11)
		} else {
			switch p {
			case 0:
				addr := c.fetchWord()
				c.push(c.PC)
				c.PC = addr
				c.tick(17)
			default:
				// DD/ED/FD prefixes; executeMain intercepts them before
				// reaching here.
			}
		}
	case 6:
		c.alu(y, c.fetchByte())
		c.tick(7)
	case 7:
		c.push(c.PC)
		c.PC = uint16(y) * 8
		c.tick(11)
	}
}

func (c *CPU) readWord(addr uint16) uint16 {
	lo := c.read(addr)
	hi := c.read(membus.AddWrap16(addr, 1))
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) writeWord(addr uint16, v uint16) {
	c.write(addr, byte(v))
	c.write(membus.AddWrap16(addr, 1), byte(v>>8))
}
