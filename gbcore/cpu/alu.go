package cpu

import "github.com/ptarmigan-labs/gbcore/gbcore/bit"

// inc/dec implement INC r / DEC r, including the irregular INC (HL)/DEC
// (HL) opcodes (called with a pointer into a scratch byte read from and
// written back to the bus by the caller).
func (c *CPU) inc(r *uint8) {
	halfCarry := *r&0xF == 0xF
	*r++
	c.setFlagToCondition(zeroFlag, *r == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, halfCarry)
}

func (c *CPU) dec(r *uint8) {
	halfCarry := *r&0xF == 0x0
	*r--
	c.setFlagToCondition(zeroFlag, *r == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, halfCarry)
}

// rlcA/rlA/rrcA/rrA back the accumulator-only rotate shortcuts
// (0x07/0x17/0x0F/0x1F), which always clear Z regardless of the result.
func (c *CPU) rlcA() {
	carry := c.a > 0x7F
	c.a = (c.a << 1) | bit.Value(7, c.a)
	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}

func (c *CPU) rlA() {
	carryIn := c.flagToBit(carryFlag)
	carryOut := c.a > 0x7F
	c.a = (c.a << 1) | carryIn
	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carryOut)
}

func (c *CPU) rrcA() {
	carry := c.a&0x01 != 0
	c.a = (c.a >> 1) | (bit.Value(0, c.a) << 7)
	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}

func (c *CPU) rrA() {
	carryIn := c.flagToBit(carryFlag) << 7
	carryOut := c.a&0x01 != 0
	c.a = (c.a >> 1) | carryIn
	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carryOut)
}

// rlc/rl/rrc/rr/sla/sra/swap/srl are the CB-space register/memory shift
// and rotate ops: the same bit manipulation as the accumulator shortcuts,
// but Z tracks the actual result.
func (c *CPU) rlc(r *uint8) {
	value := *r
	carry := value > 0x7F
	*r = (value << 1) | bit.Value(7, value)
	c.setFlagToCondition(zeroFlag, *r == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}

func (c *CPU) rl(r *uint8) {
	value := *r
	carryIn := c.flagToBit(carryFlag)
	carryOut := value > 0x7F
	*r = (value << 1) | carryIn
	c.setFlagToCondition(zeroFlag, *r == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carryOut)
}

func (c *CPU) rrc(r *uint8) {
	value := *r
	carry := value&0x01 != 0
	*r = (value >> 1) | (bit.Value(0, value) << 7)
	c.setFlagToCondition(zeroFlag, *r == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}

func (c *CPU) rr(r *uint8) {
	value := *r
	carryIn := c.flagToBit(carryFlag) << 7
	carryOut := value&0x01 != 0
	*r = (value >> 1) | carryIn
	c.setFlagToCondition(zeroFlag, *r == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carryOut)
}

func (c *CPU) sla(r *uint8) {
	value := *r
	carry := value > 0x7F
	*r = value << 1
	c.setFlagToCondition(zeroFlag, *r == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}

func (c *CPU) sra(r *uint8) {
	value := *r
	carry := value&0x01 != 0
	*r = (value >> 1) | (value & 0x80)
	c.setFlagToCondition(zeroFlag, *r == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}

func (c *CPU) srl(r *uint8) {
	value := *r
	carry := value&0x01 != 0
	*r = value >> 1
	c.setFlagToCondition(zeroFlag, *r == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}

func (c *CPU) swap(r *uint8) {
	value := *r
	*r = (value << 4) | (value >> 4)
	c.setFlagToCondition(zeroFlag, *r == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

// bitTest implements BIT b,r: Z reflects the tested bit, H is always set.
func (c *CPU) bitTest(b uint8, value uint8) {
	c.setFlagToCondition(zeroFlag, !bit.IsSet(b, value))
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
}

// addToA sets the result of adding an 8 bit value to A, with flags.
func (c *CPU) addToA(value uint8) {
	a := c.a
	result := a + value

	carry := (uint16(a) + uint16(value)) > 0xFF
	halfCarry := (a&0xF)+(value&0xF) > 0xF

	c.a = result
	c.setFlagToCondition(zeroFlag, result == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, halfCarry)
	c.setFlagToCondition(carryFlag, carry)
}

// adc adds value and the carry flag to A, with flags.
func (c *CPU) adc(value uint8) {
	a := c.a
	carryIn := c.flagToBit(carryFlag)
	result := uint16(a) + uint16(value) + uint16(carryIn)

	halfCarry := (a&0xF)+(value&0xF)+carryIn > 0xF

	c.a = uint8(result)
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, halfCarry)
	c.setFlagToCondition(carryFlag, result > 0xFF)
}

// addToHL adds a 16 bit register to HL; Z is left untouched.
func (c *CPU) addToHL(reg uint16) {
	hl := bit.Combine(c.h, c.l)
	result := hl + reg

	carry := (uint32(hl) + uint32(reg)) > 0xFFFF
	halfCarry := (hl&0xFFF)+(reg&0xFFF) > 0xFFF

	c.h, c.l = bit.High(result), bit.Low(result)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, halfCarry)
	c.setFlagToCondition(carryFlag, carry)
}

// addSPOffset computes SP + signed offset, with the 8 bit ADD/LD HL,SP+e
// flag rule: the carries are taken from adding the offset as an unsigned
// byte to SP's low byte. Shared by ADD SP,e and LD HL,SP+e.
func (c *CPU) addSPOffset(offset int8) uint16 {
	sp := c.sp
	e := uint16(uint8(offset))
	result := uint16(int32(sp) + int32(offset))

	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, (sp&0xF)+(e&0xF) > 0xF)
	c.setFlagToCondition(carryFlag, (sp&0xFF)+(e&0xFF) > 0xFF)
	return result
}

// sub subtracts value from A, with flags.
func (c *CPU) sub(value uint8) {
	a := c.a
	c.a = a - value

	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(carryFlag, a < value)
	c.setFlagToCondition(halfCarryFlag, (int(a)&0xF)-(int(value)&0xF) < 0)
}

// sbc subtracts value and the carry flag from A, with flags.
func (c *CPU) sbc(value uint8) {
	a := c.a
	carry := int(c.flagToBit(carryFlag))

	result := int(a) - int(value) - carry
	c.a = uint8(result)

	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(carryFlag, result < 0)
	c.setFlagToCondition(halfCarryFlag, (int(a)&0xF)-(int(value)&0xF)-carry < 0)
}

// and implements AND A,s: Z tracks the result, H is always set, N and C
// are always cleared.
func (c *CPU) and(value uint8) {
	c.a &= value
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

func (c *CPU) or(value uint8) {
	c.a |= value
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

func (c *CPU) xor(value uint8) {
	c.a ^= value
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

// cp compares value against A (a subtraction whose result is discarded).
func (c *CPU) cp(value uint8) {
	a := c.a
	result := a - value

	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(carryFlag, a < value)
	c.setFlagToCondition(halfCarryFlag, (int(a)&0xF)-(int(value)&0xF) < 0)
}

// daa re-encodes A as packed BCD after an ADD/ADC/SUB/SBC sequence,
// following N and the carries those left behind (spec.md §8 scenario 3).
func (c *CPU) daa() {
	a := c.a
	carry := c.isSetFlag(carryFlag)

	if !c.isSetFlag(subFlag) {
		if carry || a > 0x99 {
			a += 0x60
			carry = true
		}
		if c.isSetFlag(halfCarryFlag) || a&0x0F > 0x09 {
			a += 0x06
		}
	} else {
		if carry {
			a -= 0x60
		}
		if c.isSetFlag(halfCarryFlag) {
			a -= 0x06
		}
	}

	c.a = a
	c.setFlagToCondition(zeroFlag, a == 0)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}
