package cpu

import "github.com/ptarmigan-labs/gbcore/gbcore/bit"

// jr performs a PC-relative jump using a signed 8 bit displacement that
// follows the opcode byte.
func (c *CPU) jr() {
	offset := bit.SignedByte(c.readImmediate())
	c.pc = uint16(int32(c.pc) + int32(offset))
}

// jp performs an absolute jump to the 16 bit immediate that follows the
// opcode byte.
func (c *CPU) jp() {
	c.pc = c.readImmediateWord()
}

// call pushes the return address and jumps to the 16 bit immediate.
func (c *CPU) call() {
	target := c.readImmediateWord()
	c.pushStack(c.pc)
	c.pc = target
}

// ret pops the return address off the stack into pc.
func (c *CPU) ret() {
	c.pc = c.popStack()
}

// rst pushes pc and jumps to one of the eight fixed restart vectors.
func (c *CPU) rst(vector uint16) {
	c.pushStack(c.pc)
	c.pc = vector
}
