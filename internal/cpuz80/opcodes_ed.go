package cpuz80

import "github.com/otley-retro/trimachine/internal/membus"

// executeED fetches and executes an ED-prefixed opcode. Only the documented
// 0x40-0x7F and 0xA0-0xBF ranges do anything; everything else is an 8-cycle
// two-byte no-op, matching real ED-prefix behaviour.
func (c *CPU) executeED() {
	op := c.fetchOpcode()
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	switch {
	case x == 1:
		c.execED40(y, z, p, q)
	case x == 2 && z <= 3 && y >= 4:
		c.execEDBlock(y, z)
	default:
		c.UnknownOpcodes++
		c.tick(8)
	}
}

func (c *CPU) execED40(y, z, p, q byte) {
	switch z {
	case 0:
		v := c.in(uint16(c.C) | uint16(c.B)<<8)
		if y != 6 {
			c.writeReg8(y, v)
		}
		c.setSZP(v)
		c.tick(12)
	case 1:
		var v byte
		if y != 6 {
			v = c.readReg8(y)
		}
		c.out(uint16(c.C)|uint16(c.B)<<8, v)
		c.tick(12)
	case 2:
		if q == 0 {
			c.sbcHL(c.regPair(p))
		} else {
			c.adcHL(c.regPair(p))
		}
		c.tick(15)
	case 3:
		addr := c.fetchWord()
		if q == 0 {
			c.writeWord(addr, c.regPair(p))
		} else {
			c.setRegPair(p, c.readWord(addr))
		}
		c.tick(20)
	case 4:
		v := c.A
		c.A = 0
		c.subA(v, false, true)
		c.tick(8)
	case 5:
		c.IFF1 = c.IFF2
		c.PC = c.pop()
		c.tick(14)
	case 6:
		switch y {
		case 0, 1, 4, 5:
			c.IM = IM0
		case 2, 6:
			c.IM = IM1
		default:
			c.IM = IM2
		}
		c.tick(8)
	case 7:
		c.execED47(y)
	}
}

func (c *CPU) execED47(y byte) {
	switch y {
	case 0:
		c.I = c.A
		c.tick(9)
	case 1:
		c.R = c.A
		c.tick(9)
	case 2:
		c.A = c.I
		c.setSZ(c.A)
		c.setFlag(FlagH, false)
		c.setFlag(FlagN, false)
		c.setFlag(FlagPV, c.IFF2)
		c.tick(9)
	case 3:
		c.A = c.R
		c.setSZ(c.A)
		c.setFlag(FlagH, false)
		c.setFlag(FlagN, false)
		c.setFlag(FlagPV, c.IFF2)
		c.tick(9)
	case 4: // RRD
		hl := c.HL()
		mem := c.read(hl)
		lo := c.A & 0x0F
		c.A = (c.A & 0xF0) | (mem & 0x0F)
		c.write(hl, (lo<<4)|(mem>>4))
		c.setSZP(c.A)
		c.tick(18)
	case 5: // RLD
		hl := c.HL()
		mem := c.read(hl)
		lo := c.A & 0x0F
		c.A = (c.A & 0xF0) | (mem >> 4)
		c.write(hl, (mem<<4)|lo)
		c.setSZP(c.A)
		c.tick(18)
	default:
		c.tick(8) // NOP (ED)
	}
}

func (c *CPU) execEDBlock(y, z byte) {
	switch z {
	case 0:
		c.blockLD(y)
	case 1:
		c.blockCP(y)
	case 2:
		c.blockIN(y)
	case 3:
		c.blockOUT(y)
	}
}

func (c *CPU) blockLD(y byte) {
	hl := c.HL()
	de := c.DE()
	bc := c.BC()

	v := c.read(hl)
	c.write(de, v)

	var step int
	if y == 4 || y == 6 {
		step = 1
	} else {
		step = -1
	}
	c.SetHL(membus.AddWrap16(hl, step))
	c.SetDE(membus.AddWrap16(de, step))
	bc--
	c.SetBC(bc)

	c.setFlag(FlagH, false)
	c.setFlag(FlagN, false)
	c.setFlag(FlagPV, bc != 0)
	c.tick(16)

	if (y == 6 || y == 7) && bc != 0 {
		c.PC = membus.AddWrap16(c.PC, -2)
		c.tick(5)
	}
}

func (c *CPU) blockCP(y byte) {
	hl := c.HL()
	bc := c.BC()
	v := c.read(hl)
	result := c.A - v

	var step int
	if y == 4 || y == 6 {
		step = 1
	} else {
		step = -1
	}
	c.SetHL(membus.AddWrap16(hl, step))
	bc--
	c.SetBC(bc)

	c.setFlag(FlagH, (c.A&0x0F) < (v&0x0F))
	c.setSZ(result)
	c.setFlag(FlagPV, bc != 0)
	c.setFlag(FlagN, true)
	c.tick(16)

	if (y == 6 || y == 7) && bc != 0 && result != 0 {
		c.PC = membus.AddWrap16(c.PC, -2)
		c.tick(5)
	}
}

func (c *CPU) blockIN(y byte) {
	hl := c.HL()
	v := c.in(uint16(c.C) | uint16(c.B)<<8)
	c.write(hl, v)
	c.B--

	var step int
	if y == 4 || y == 6 {
		step = 1
	} else {
		step = -1
	}
	c.SetHL(membus.AddWrap16(hl, step))
	c.setFlag(FlagZ, c.B == 0)
	c.setFlag(FlagN, true)
	c.tick(16)

	if (y == 6 || y == 7) && c.B != 0 {
		c.PC = membus.AddWrap16(c.PC, -2)
		c.tick(5)
	}
}

func (c *CPU) blockOUT(y byte) {
	hl := c.HL()
	v := c.read(hl)
	c.out(uint16(c.C)|uint16(c.B)<<8, v)

	var step int
	if y == 4 || y == 6 {
		step = 1
	} else {
		step = -1
	}
	c.SetHL(membus.AddWrap16(hl, step))
	c.B--
	c.setFlag(FlagZ, c.B == 0)
	c.setFlag(FlagN, true)
	c.tick(16)

	if (y == 6 || y == 7) && c.B != 0 {
		c.PC = membus.AddWrap16(c.PC, -2)
		c.tick(5)
	}
}
