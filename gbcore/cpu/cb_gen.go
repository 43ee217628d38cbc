package cpu

// init builds the entire 256-entry CB-prefixed table programmatically:
// it is fully regular, an 8-register column repeated across eight
// rotate/shift kinds (0x00-0x3F), then BIT/RES/SET crossed with all 8
// bit positions (0x40-0xFF) — 256 near-duplicate hand-written functions
// would just be this grid written out longhand (spec.md §9).
func init() {
	targets := [8]regTarget{targetB, targetC, targetD, targetE, targetH, targetL, targetHLInd, targetA}

	shiftOps := [8]func(c *CPU, r *uint8){
		func(c *CPU, r *uint8) { c.rlc(r) },
		func(c *CPU, r *uint8) { c.rrc(r) },
		func(c *CPU, r *uint8) { c.rl(r) },
		func(c *CPU, r *uint8) { c.rr(r) },
		func(c *CPU, r *uint8) { c.sla(r) },
		func(c *CPU, r *uint8) { c.sra(r) },
		func(c *CPU, r *uint8) { c.swap(r) },
		func(c *CPU, r *uint8) { c.srl(r) },
	}

	for rowIdx, row := range shiftOps {
		for colIdx, target := range targets {
			sub := uint8(rowIdx*8 + colIdx)
			t := target
			fn := row
			opcodeCBMap[sub] = cbRegisterOp(t, fn)
		}
	}

	for bitPos := uint8(0); bitPos < 8; bitPos++ {
		for colIdx, target := range targets {
			b := bitPos
			t := target

			bitSub := uint8(0x40 + int(b)*8 + colIdx)
			opcodeCBMap[bitSub] = cbBitTestOp(t, b)

			resSub := uint8(0x80 + int(b)*8 + colIdx)
			opcodeCBMap[resSub] = cbMaskOp(t, b, false)

			setSub := uint8(0xC0 + int(b)*8 + colIdx)
			opcodeCBMap[setSub] = cbMaskOp(t, b, true)
		}
	}
}

// cbRegisterOp wraps a rotate/shift helper so it reads its operand
// through regRead/regWrite, costing an extra 8 cycles for (HL) (16
// total) versus a plain register (8 total).
func cbRegisterOp(t regTarget, fn func(c *CPU, r *uint8)) Opcode {
	return func(c *CPU) int {
		if t == targetHLInd {
			value := c.regRead(t)
			fn(c, &value)
			c.regWrite(t, value)
			return 16
		}
		switch t {
		case targetB:
			fn(c, &c.b)
		case targetC:
			fn(c, &c.c)
		case targetD:
			fn(c, &c.d)
		case targetE:
			fn(c, &c.e)
		case targetH:
			fn(c, &c.h)
		case targetL:
			fn(c, &c.l)
		default:
			fn(c, &c.a)
		}
		return 8
	}
}

func cbBitTestOp(t regTarget, b uint8) Opcode {
	return func(c *CPU) int {
		c.bitTest(b, c.regRead(t))
		if t == targetHLInd {
			return 12
		}
		return 8
	}
}

func cbMaskOp(t regTarget, b uint8, set bool) Opcode {
	return func(c *CPU) int {
		value := c.regRead(t)
		if set {
			value |= 1 << b
		} else {
			value &^= 1 << b
		}
		c.regWrite(t, value)
		if t == targetHLInd {
			return 16
		}
		return 8
	}
}
