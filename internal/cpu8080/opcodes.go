package cpu8080

import "github.com/otley-retro/trimachine/internal/membus"

var parityTable [256]bool

func init() {
	for i := 0; i < 256; i++ {
		bits := 0
		for b := 0; b < 8; b++ {
			if i&(1<<b) != 0 {
				bits++
			}
		}
		parityTable[i] = bits%2 == 0
	}
}

func (c *CPU) setSZP(v byte) {
	c.setFlag(FlagS, v&0x80 != 0)
	c.setFlag(FlagZ, v == 0)
	c.setFlag(FlagP, parityTable[v])
}

// readReg8/writeReg8 use the canonical 8080/Z80-shared 3-bit register
// encoding: 0:B 1:C 2:D 3:E 4:H 5:L 6:M(memory at HL) 7:A.
func (c *CPU) readReg8(code byte) byte {
	switch code {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.read(c.HL())
	default:
		return c.A
	}
}

func (c *CPU) writeReg8(code byte, v byte) {
	switch code {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.write(c.HL(), v)
	default:
		c.A = v
	}
}

// regPair implements the rp[p] table: 0:BC 1:DE 2:HL 3:SP.
func (c *CPU) regPair(p byte) uint16 {
	switch p {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	default:
		return c.SP
	}
}

func (c *CPU) setRegPair(p byte, v uint16) {
	switch p {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	default:
		c.SP = v
	}
}

// regPair2/setRegPair2 are the PUSH/POP table: 0:BC 1:DE 2:HL 3:PSW (A and F).
func (c *CPU) regPair2(p byte) uint16 {
	if p == 3 {
		return uint16(c.A)<<8 | uint16(c.F|0x02)&^0x28
	}
	return c.regPair(p)
}

func (c *CPU) setRegPair2(p byte, v uint16) {
	if p == 3 {
		c.A = byte(v >> 8)
		c.F = (byte(v) | 0x02) &^ 0x28
	} else {
		c.setRegPair(p, v)
	}
}

func (c *CPU) condition(y byte) bool {
	switch y {
	case 0:
		return !c.flag(FlagZ)
	case 1:
		return c.flag(FlagZ)
	case 2:
		return !c.flag(FlagC)
	case 3:
		return c.flag(FlagC)
	case 4:
		return !c.flag(FlagP)
	case 5:
		return c.flag(FlagP)
	case 6:
		return !c.flag(FlagS)
	default:
		return c.flag(FlagS)
	}
}

func (c *CPU) addA(v byte, withCarry bool) {
	carry := byte(0)
	if withCarry && c.flag(FlagC) {
		carry = 1
	}
	result := int(c.A) + int(v) + int(carry)
	c.setFlag(FlagAC, (c.A&0x0F)+(v&0x0F)+carry > 0x0F)
	c.setFlag(FlagC, result > 0xFF)
	c.A = byte(result)
	c.setSZP(c.A)
}

func (c *CPU) subA(v byte, withCarry bool, storeResult bool) {
	carry := byte(0)
	if withCarry && c.flag(FlagC) {
		carry = 1
	}
	result := int(c.A) - int(v) - int(carry)
	c.setFlag(FlagAC, int(c.A&0x0F)-int(v&0x0F)-int(carry) >= 0)
	c.setFlag(FlagC, result < 0)
	c.setSZP(byte(result))
	if storeResult {
		c.A = byte(result)
	}
}

func (c *CPU) andA(v byte) {
	c.setFlag(FlagAC, (c.A|v)&0x08 != 0)
	c.A &= v
	c.setSZP(c.A)
	c.setFlag(FlagC, false)
}

func (c *CPU) xorA(v byte) {
	c.A ^= v
	c.setSZP(c.A)
	c.setFlag(FlagC, false)
	c.setFlag(FlagAC, false)
}

func (c *CPU) orA(v byte) {
	c.A |= v
	c.setSZP(c.A)
	c.setFlag(FlagC, false)
	c.setFlag(FlagAC, false)
}

// alu applies ALU operation y (ADD,ADC,SUB,SBB,ANA,XRA,ORA,CMP) to A.
func (c *CPU) alu(y byte, v byte) {
	switch y {
	case 0:
		c.addA(v, false)
	case 1:
		c.addA(v, true)
	case 2:
		c.subA(v, false, true)
	case 3:
		c.subA(v, true, true)
	case 4:
		c.andA(v)
	case 5:
		c.xorA(v)
	case 6:
		c.orA(v)
	case 7:
		c.subA(v, false, false)
	}
}

func (c *CPU) incReg(v byte) byte {
	result := v + 1
	c.setFlag(FlagAC, v&0x0F == 0x0F)
	c.setSZP(result)
	return result
}

func (c *CPU) decReg(v byte) byte {
	result := v - 1
	c.setFlag(FlagAC, v&0x0F != 0x00)
	c.setSZP(result)
	return result
}

func (c *CPU) dad(v uint16) {
	hl := c.HL()
	result := int(hl) + int(v)
	c.setFlag(FlagC, result > 0xFFFF)
	c.SetHL(uint16(result))
}

// daa implements the 8080 decimal adjust, distinct from the Z80's: it has
// no N flag to consult, so it always applies the add-side correction.
func (c *CPU) daa() {
	var corr byte
	cy := c.flag(FlagC)
	if c.flag(FlagAC) || (c.A&0x0F) > 9 {
		corr |= 0x06
	}
	hiNibble := c.A >> 4
	if cy || hiNibble > 9 || (hiNibble == 9 && (c.A&0x0F) > 9) {
		corr |= 0x60
		cy = true
	}
	old := c.A
	c.A += corr
	c.setFlag(FlagAC, (old&0x0F)+(corr&0x0F) > 0x0F)
	c.setFlag(FlagC, cy)
	c.setSZP(c.A)
}

// execute decodes and runs one opcode using the canonical x/y/z/p/q bit
// fields, the same decomposition used by the sibling cpuz80 package since
// the 8080 base table is the ancestor of the Z80's. The undocumented
// opcodes 0xCB/0xD9/0xDD/0xED/0xFD fall naturally out of this decode as
// aliases for JMP/RET/CALL, matching real 8080 silicon.
func (c *CPU) execute(op byte) {
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
			c.tick(7)
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
	return 5
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
		c.tick(4) // NOP (y!=0 forms are undocumented NOPs on real silicon)
	case 1:
		if q == 0 {
			c.setRegPair(p, c.fetchWord())
			c.tick(10)
		} else {
			c.dad(c.regPair(p))
			c.tick(10)
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
		c.tick(5)
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
	case 0: // RLC
		carry := c.A&0x80 != 0
		c.A = (c.A << 1) | boolBit(carry)
		c.setFlag(FlagC, carry)
	case 1: // RRC
		carry := c.A&0x01 != 0
		c.A = (c.A >> 1) | (boolBit(carry) << 7)
		c.setFlag(FlagC, carry)
	case 2: // RAL
		carry := c.A&0x80 != 0
		c.A = (c.A << 1) | boolBit(c.flag(FlagC))
		c.setFlag(FlagC, carry)
	case 3: // RAR
		carry := c.A&0x01 != 0
		c.A = (c.A >> 1) | (boolBit(c.flag(FlagC)) << 7)
		c.setFlag(FlagC, carry)
	case 4:
		c.daa()
	case 5: // CMA
		c.A = ^c.A
	case 6: // STC
		c.setFlag(FlagC, true)
	case 7: // CMC
		c.setFlag(FlagC, !c.flag(FlagC))
	}
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
			case 0, 1: // 0xC9 RET, 0xD9 undocumented RET alias
				c.PC = c.pop()
				c.tick(10)
			case 2: // PCHL
				c.PC = c.HL()
				c.tick(5)
			case 3: // SPHL
				c.SP = c.HL()
				c.tick(5)
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
		case 0, 1: // 0xC3 JMP, 0xCB undocumented JMP alias
			c.PC = c.fetchWord()
			c.tick(10)
		case 2:
			n := c.fetchByte()
			c.out(n, c.A)
			c.tick(10)
		case 3:
			n := c.fetchByte()
			c.A = c.in(n)
			c.tick(10)
		case 4: // XTHL
			lo := c.read(c.SP)
			hi := c.read(membus.AddWrap16(c.SP, 1))
			hl := c.HL()
			c.write(c.SP, byte(hl))
			c.write(membus.AddWrap16(c.SP, 1), byte(hl>>8))
			c.SetHL(uint16(hi)<<8 | uint16(lo))
			c.tick(18)
		case 5: // XCHG
			de := c.DE()
			c.SetDE(c.HL())
			c.SetHL(de)
			c.tick(5)
		case 6: // DI
			c.IntEnabled = false
			c.tick(4)
		case 7: // EI
			c.IntEnabled = true
			c.tick(4)
		}
	case 4:
		addr := c.fetchWord()
		if c.condition(y) {
			c.push(c.PC)
			c.PC = addr
			c.tick(17)
		} else {
			c.tick(11)
		}
	case 5:
		if q == 0 {
			c.push(c.regPair2(p))
			c.tick(11)
		} else {
			// 0xCD CALL, plus the undocumented 0xDD/0xED/0xFD aliases
			addr := c.fetchWord()
			c.push(c.PC)
			c.PC = addr
			c.tick(17)
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

func boolBit(b bool) byte {
	if b {
		return 1
	}
	return 0
}
