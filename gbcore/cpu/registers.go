package cpu

import "github.com/ptarmigan-labs/gbcore/gbcore/bit"

// flag is one of the four bits of the F register (spec.md §4.1).
type flag uint8

const (
	zeroFlag      flag = 0x80
	subFlag       flag = 0x40
	halfCarryFlag flag = 0x20
	carryFlag     flag = 0x10
)

func (c *CPU) setFlag(f flag) {
	c.f |= uint8(f)
}

func (c *CPU) resetFlag(f flag) {
	c.f &^= uint8(f)
}

func (c *CPU) setFlagToCondition(f flag, condition bool) {
	if condition {
		c.setFlag(f)
	} else {
		c.resetFlag(f)
	}
}

func (c *CPU) isSetFlag(f flag) bool {
	return c.f&uint8(f) != 0
}

// flagToBit returns 1 if f is set, 0 otherwise; used by ADC/SBC/RL/RR.
func (c *CPU) flagToBit(f flag) uint8 {
	if c.isSetFlag(f) {
		return 1
	}
	return 0
}

func (c *CPU) getAF() uint16 { return bit.Combine(c.a, c.f&0xF0) }
func (c *CPU) setAF(v uint16) {
	c.a = bit.High(v)
	c.f = bit.Low(v) & 0xF0
}

func (c *CPU) getBC() uint16  { return bit.Combine(c.b, c.c) }
func (c *CPU) setBC(v uint16) { c.b, c.c = bit.High(v), bit.Low(v) }

func (c *CPU) getDE() uint16  { return bit.Combine(c.d, c.e) }
func (c *CPU) setDE(v uint16) { c.d, c.e = bit.High(v), bit.Low(v) }

func (c *CPU) getHL() uint16  { return bit.Combine(c.h, c.l) }
func (c *CPU) setHL(v uint16) { c.h, c.l = bit.High(v), bit.Low(v) }
