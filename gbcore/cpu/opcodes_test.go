package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAddFlagsScenario exercises spec.md §8's worked example: 0xF1 + 0x0F
// wraps to zero while setting every flag but N.
func TestAddFlagsScenario(t *testing.T) {
	c, _ := newTestCPU()
	c.a = 0xF1
	c.b = 0x0F

	opcodeMap[0x80](c) // ADD A,B

	assert.Equal(t, uint8(0x00), c.a)
	assert.True(t, c.isSetFlag(zeroFlag))
	assert.False(t, c.isSetFlag(subFlag))
	assert.True(t, c.isSetFlag(halfCarryFlag))
	assert.True(t, c.isSetFlag(carryFlag))
}

// TestDAAAfterAddScenario re-encodes 0x45 + 0x38 (BCD 45+38=83) back into
// packed BCD after a binary ADD leaves A holding 0x7D.
func TestDAAAfterAddScenario(t *testing.T) {
	c, _ := newTestCPU()
	c.a = 0x45
	c.b = 0x38

	opcodeMap[0x80](c) // ADD A,B -> 0x7D, H clear (5+8=0xD)
	assert.Equal(t, uint8(0x7D), c.a)

	opcode0x27(c) // DAA

	assert.Equal(t, uint8(0x83), c.a)
	assert.False(t, c.isSetFlag(carryFlag))
	assert.False(t, c.isSetFlag(zeroFlag))
}

// TestAddSubCPRestoresA checks the A-restoration law from spec.md §8: for
// any s, ADD A,s; SUB s; CP s leaves A unchanged and ends with the same
// flags as CP s alone on the original A.
func TestAddSubCPRestoresA(t *testing.T) {
	for _, s := range []uint8{0x00, 0x01, 0x7F, 0x80, 0xFF, 0x42} {
		c, _ := newTestCPU()
		c.a = 0x10
		original := c.a

		c.b = s
		c.addToA(s)
		c.sub(s)

		assert.Equal(t, original, c.a, "ADD then SUB of the same value restores A (s=%#x)", s)

		c.cp(s)

		ref, _ := newTestCPU()
		ref.a = original
		ref.cp(s)
		assert.Equal(t, ref.f, c.f, "flags match CP s alone on the original A (s=%#x)", s)
	}
}

// TestCycleCountPerInstruction spot-checks the documented cycle cost of a
// representative instruction from each shape: register-only, (HL)
// memory access, and branch taken/not-taken.
func TestCycleCountPerInstruction(t *testing.T) {
	t.Run("NOP costs 4", func(t *testing.T) {
		c, _ := newTestCPU()
		assert.Equal(t, 4, opcodeMap[0x00](c))
	})

	t.Run("ADD A,B costs 4", func(t *testing.T) {
		c, _ := newTestCPU()
		assert.Equal(t, 4, opcodeMap[0x80](c))
	})

	t.Run("ADD A,(HL) costs 8", func(t *testing.T) {
		c, bus := newTestCPU()
		c.setHL(0xC000)
		bus.mem[0xC000] = 0x01
		assert.Equal(t, 8, opcodeMap[0x86](c))
	})

	t.Run("JR not taken still costs 8", func(t *testing.T) {
		c, bus := newTestCPU()
		c.pc = 0xC000
		c.resetFlag(zeroFlag)
		bus.mem[0xC000] = 0x05 // JR Z,+5, not taken since Z is clear
		assert.Equal(t, 8, opcodeMap[0x28](c))
	})

	t.Run("JR taken costs 12", func(t *testing.T) {
		c, bus := newTestCPU()
		c.pc = 0xC000
		c.setFlag(zeroFlag)
		bus.mem[0xC000] = 0x05
		assert.Equal(t, 12, opcodeMap[0x28](c))
	})

	t.Run("CB BIT costs 8 on a register, 12 on (HL)", func(t *testing.T) {
		c, bus := newTestCPU()
		assert.Equal(t, 8, opcodeCBMap[0x40](c)) // BIT 0,B

		c.setHL(0xC000)
		bus.mem[0xC000] = 0x00
		assert.Equal(t, 12, opcodeCBMap[0x46](c)) // BIT 0,(HL)
	})
}

// TestSTOPSpeedSwitch covers the CGB double-speed handshake: STOP toggles
// speed and returns early when KEY1 bit 0 is armed, otherwise it halts the
// CPU outright (spec.md §4.1).
func TestSTOPSpeedSwitch(t *testing.T) {
	t.Run("armed switch toggles speed and does not stop", func(t *testing.T) {
		c, bus := newTestCPU()
		c.pc = 0xC000
		bus.mem[0xC000] = 0x00 // STOP's discarded second byte
		bus.speedSwitchArmed = true

		cycles := opcode0x10(c)

		assert.Equal(t, 4, cycles)
		assert.True(t, bus.speedSwitchApplied)
		assert.False(t, c.stopped)
	})

	t.Run("unarmed STOP halts the CPU", func(t *testing.T) {
		c, bus := newTestCPU()
		c.pc = 0xC000
		bus.mem[0xC000] = 0x00

		opcode0x10(c)

		assert.True(t, c.stopped)
		assert.False(t, bus.speedSwitchApplied)
	})
}

// TestUndefinedOpcodesPanic confirms all eleven unmapped primary opcodes
// listed in spec.md trap, not just the six the prose calls out.
func TestUndefinedOpcodesPanic(t *testing.T) {
	undefined := []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD}
	for _, op := range undefined {
		op := op
		t.Run("", func(t *testing.T) {
			c, _ := newTestCPU()
			assert.Panics(t, func() { opcodeMap[op](c) })
		})
	}
}
