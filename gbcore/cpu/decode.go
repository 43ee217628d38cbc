package cpu

import "github.com/ptarmigan-labs/gbcore/gbcore/bit"

// Opcode is a fully decoded instruction handler: it performs the
// instruction's effect (including any operand fetches) and returns the
// number of T-cycles it consumed.
type Opcode func(c *CPU) int

// opcodeMap and opcodeCBMap are built at init() time by opcodes.go
// (hand-written irregular entries) and opcodes_gen.go/cb_gen.go
// (regular LD r,r' / ALU A,r / full CB-space blocks).
var (
	opcodeMap   [0x100]Opcode
	opcodeCBMap [0x100]Opcode
)

// Decode peeks the opcode at cpu.pc — and, for a 0xCB prefix, the
// following sub-opcode byte — without advancing pc, and returns the
// handler to run. pc only moves once Tick applies opcodeLen after
// Decode returns, which keeps Decode safe to call for disassembly or
// tests without mutating CPU state.
func Decode(c *CPU) Opcode {
	b := c.bus.Read(c.pc)
	if b == 0xCB {
		sub := c.bus.Read(c.pc + 1)
		c.currentOpcode = 0xCB00 | uint16(sub)
		return opcodeCBMap[sub]
	}
	c.currentOpcode = uint16(b)
	return opcodeMap[b]
}

// readImmediate consumes the byte at pc as an operand, advancing pc.
func (c *CPU) readImmediate() uint8 {
	v := c.bus.Read(c.pc)
	c.pc++
	return v
}

// readImmediateWord consumes the little-endian word at pc as an operand,
// advancing pc by two.
func (c *CPU) readImmediateWord() uint16 {
	lo := c.readImmediate()
	hi := c.readImmediate()
	return bit.Combine(hi, lo)
}

// pushStack decrements sp by two and writes value little-endian, matching
// the real hardware's high-byte-first push order.
func (c *CPU) pushStack(value uint16) {
	c.sp--
	c.bus.Write(c.sp, bit.High(value))
	c.sp--
	c.bus.Write(c.sp, bit.Low(value))
}

// popStack reads a little-endian word off the stack and advances sp by two.
func (c *CPU) popStack() uint16 {
	lo := c.bus.Read(c.sp)
	c.sp++
	hi := c.bus.Read(c.sp)
	c.sp++
	return bit.Combine(hi, lo)
}
