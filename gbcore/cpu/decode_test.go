package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name           string
		memorySetup    map[uint16]uint8
		pc             uint16
		expectedOpcode uint16
	}{
		{
			name:           "NOP",
			memorySetup:    map[uint16]uint8{0xC000: 0x00},
			pc:             0xC000,
			expectedOpcode: 0x00,
		},
		{
			name:           "INC B",
			memorySetup:    map[uint16]uint8{0xC000: 0x04},
			pc:             0xC000,
			expectedOpcode: 0x04,
		},
		{
			name:           "CB BIT 0,B",
			memorySetup:    map[uint16]uint8{0xC000: 0xCB, 0xC001: 0x40},
			pc:             0xC000,
			expectedOpcode: 0xCB40,
		},
		{
			name:           "CB SET 7,A",
			memorySetup:    map[uint16]uint8{0xC000: 0xCB, 0xC001: 0xFF},
			pc:             0xC000,
			expectedOpcode: 0xCBFF,
		},
		{
			name:           "CB at page boundary",
			memorySetup:    map[uint16]uint8{0xC0FF: 0xCB, 0xC100: 0x80},
			pc:             0xC0FF,
			expectedOpcode: 0xCB80,
		},
		{
			name:           "LD B,0xCB (not CB prefix)",
			memorySetup:    map[uint16]uint8{0xC000: 0x06, 0xC001: 0xCB},
			pc:             0xC000,
			expectedOpcode: 0x06,
		},
		{
			name:           "HALT",
			memorySetup:    map[uint16]uint8{0xC000: 0x76},
			pc:             0xC000,
			expectedOpcode: 0x76,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, bus := newTestCPU()
			c.pc = tt.pc

			for addr, value := range tt.memorySetup {
				bus.Write(addr, value)
			}

			initialPC := c.pc
			opcode := Decode(c)

			assert.Equal(t, initialPC, c.pc, "PC should not change")
			assert.Equal(t, tt.expectedOpcode, c.currentOpcode)
			assert.NotNil(t, opcode)
		})
	}
}

func TestTickAdvancesPCPastOpcode(t *testing.T) {
	c, bus := newTestCPU()
	c.pc = 0xC000
	bus.Write(0xC000, 0x00) // NOP

	c.Tick()

	assert.Equal(t, uint16(0xC001), c.pc)
}

func TestTickAdvancesPCPastCBPrefixAndSubOpcode(t *testing.T) {
	c, bus := newTestCPU()
	c.pc = 0xC000
	bus.Write(0xC000, 0xCB)
	bus.Write(0xC001, 0x00) // RLC B

	c.Tick()

	assert.Equal(t, uint16(0xC002), c.pc)
}

func TestReadImmediateAdvancesPC(t *testing.T) {
	c, bus := newTestCPU()
	c.pc = 0xC000
	bus.Write(0xC000, 0x42)

	v := c.readImmediate()

	assert.Equal(t, uint8(0x42), v)
	assert.Equal(t, uint16(0xC001), c.pc)
}

func TestReadImmediateWordIsLittleEndian(t *testing.T) {
	c, bus := newTestCPU()
	c.pc = 0xC000
	bus.Write(0xC000, 0xCD)
	bus.Write(0xC001, 0xAB)

	v := c.readImmediateWord()

	assert.Equal(t, uint16(0xABCD), v)
	assert.Equal(t, uint16(0xC002), c.pc)
}

func TestPushPopStackRoundTrip(t *testing.T) {
	c, _ := newTestCPU()
	c.sp = 0xFFFE

	c.pushStack(0xBEEF)
	assert.Equal(t, uint16(0xFFFC), c.sp)

	v := c.popStack()
	assert.Equal(t, uint16(0xBEEF), v)
	assert.Equal(t, uint16(0xFFFE), c.sp)
}
