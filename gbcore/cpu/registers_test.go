package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterPairs(t *testing.T) {
	c, _ := newTestCPU()

	c.setAF(0x12F0)
	assert.Equal(t, uint16(0x12F0), c.getAF())
	assert.Equal(t, uint8(0xF0), c.f, "lower nibble of F is always masked to 0")

	c.setAF(0x120F)
	assert.Equal(t, uint8(0x00), c.f, "F's lower nibble can never be set")

	c.setBC(0xBEEF)
	assert.Equal(t, uint16(0xBEEF), c.getBC())

	c.setDE(0xCAFE)
	assert.Equal(t, uint16(0xCAFE), c.getDE())

	c.setHL(0xFEED)
	assert.Equal(t, uint16(0xFEED), c.getHL())
}

func TestFlags(t *testing.T) {
	c, _ := newTestCPU()
	c.f = 0

	c.setFlag(zeroFlag)
	assert.True(t, c.isSetFlag(zeroFlag))
	assert.Equal(t, uint8(1), c.flagToBit(zeroFlag))

	c.resetFlag(zeroFlag)
	assert.False(t, c.isSetFlag(zeroFlag))
	assert.Equal(t, uint8(0), c.flagToBit(zeroFlag))

	c.setFlagToCondition(carryFlag, true)
	assert.True(t, c.isSetFlag(carryFlag))
	c.setFlagToCondition(carryFlag, false)
	assert.False(t, c.isSetFlag(carryFlag))
}
