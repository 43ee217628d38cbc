// Package cpu implements the Sharp SM83 CPU core: registers, a
// fetch/decode/execute step per Tick, the full unprefixed and CB-prefixed
// opcode tables, interrupt dispatch, and HALT/STOP (spec.md §4.1). Fetch
// and execute are not overlapped: each Tick fetches and executes the same
// instruction, with no prefetched opcode carried between calls.
package cpu

import "github.com/ptarmigan-labs/gbcore/gbcore/addr"

// Bus is the narrow memory/interrupt surface the CPU needs. Satisfied by
// *gbcore/mmu.Bus; kept as an interface here so cpu can be exercised
// against small stubs in tests without pulling in the whole bus.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	InterruptEnable() uint8
	InterruptFlag() uint8
	SetInterruptFlag(value uint8)
	ToggleSpeedIfArmed() bool
}

// CPU holds the full SM83 register file plus the scheduling state needed
// to reproduce IME delay, HALT, and STOP semantics.
type CPU struct {
	bus Bus

	a, f    uint8
	b, c    uint8
	d, e    uint8
	h, l    uint8
	sp, pc  uint16

	interruptsEnabled bool
	eiPending         bool
	halted            bool
	haltBug           bool
	stopped           bool

	currentOpcode uint16
	cycles        uint64
}

// New returns a CPU wired to bus, already sitting at the documented DMG
// post-boot register state. Machine calls ResetForBootROM instead when a
// boot ROM image has been loaded and should run from address 0.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.SetPostBootState()
	return c
}

// SetPostBootState sets the registers to their documented DMG post-boot
// values, for runs that skip executing the boot ROM.
func (c *CPU) SetPostBootState() {
	c.setAF(0x01B0)
	c.setBC(0x0013)
	c.setDE(0x00D8)
	c.setHL(0x014D)
	c.sp = 0xFFFE
	c.pc = 0x0100
}

// ResetForBootROM zeroes every register so execution starts at address 0,
// the entry point of the boot ROM.
func (c *CPU) ResetForBootROM() {
	c.a, c.f = 0, 0
	c.b, c.c = 0, 0
	c.d, c.e = 0, 0
	c.h, c.l = 0, 0
	c.sp, c.pc = 0, 0
}

// PC and SP expose the program counter and stack pointer for host tooling
// (save states, disassembly, test assertions).
func (c *CPU) PC() uint16 { return c.pc }
func (c *CPU) SP() uint16 { return c.sp }

// Halted reports whether the CPU is parked in HALT.
func (c *CPU) Halted() bool { return c.halted }

// opcodeLen reports how many raw opcode bytes the just-decoded
// instruction occupies: 2 for a CB-prefixed opcode, 1 otherwise. Operand
// bytes (immediates, displacements) are consumed separately by the
// handler via readImmediate/readImmediateWord.
func (c *CPU) opcodeLen() uint16 {
	if c.currentOpcode > 0xFF {
		return 2
	}
	return 1
}

// Tick executes one CPU step — either a HALT/STOP no-op, an interrupt
// dispatch, or one instruction fetch/execute — and returns the number of
// T-cycles it consumed, per the spec §5 orchestrator loop contract.
func (c *CPU) Tick() int {
	imeBefore := c.interruptsEnabled
	pending := c.handleInterrupts()

	if pending && imeBefore {
		// handleInterrupts already pushed pc and jumped to the vector.
		c.halted = false
		return 20
	}

	if c.halted {
		if pending {
			c.halted = false
			if !c.interruptsEnabled {
				// Woken with IME off: the halt bug arms, pc fails to
				// advance for the very next fetch (spec.md §4.1).
				c.haltBug = true
			}
		} else {
			c.cycles += 4
			return 4
		}
	}

	if c.stopped {
		// STOP parks the CPU the same way HALT does, woken only by a
		// pending interrupt (in practice the joypad line, spec.md §4.1).
		if pending {
			c.stopped = false
		} else {
			c.cycles += 4
			return 4
		}
	}

	if c.eiPending {
		c.eiPending = false
		c.interruptsEnabled = true
	}

	handler := Decode(c)
	if c.haltBug {
		c.haltBug = false
	} else {
		c.pc += c.opcodeLen()
	}

	cycles := handler(c)
	c.cycles += uint64(cycles)
	return cycles
}

// requestedInterrupts returns the bits that are both enabled and pending.
func (c *CPU) requestedInterrupts() uint8 {
	return c.bus.InterruptEnable() & c.bus.InterruptFlag() & 0x1F
}

// handleInterrupts reports whether any enabled interrupt source is
// pending, and — only when IME is set — dispatches the highest-priority
// one as a synthetic 20-cycle instruction (spec.md §4.1, §8 scenario 4).
// With IME clear it only reports pending, leaving HALT wake-up and the
// halt bug to Tick.
func (c *CPU) handleInterrupts() bool {
	pending := c.requestedInterrupts()
	if pending == 0 {
		return false
	}
	if !c.interruptsEnabled {
		return true
	}

	var bitPos uint8
	for bitPos = 0; bitPos < 5; bitPos++ {
		if pending&(1<<bitPos) != 0 {
			break
		}
	}

	c.interruptsEnabled = false
	c.eiPending = false
	c.bus.SetInterruptFlag(c.bus.InterruptFlag() &^ (1 << bitPos))

	c.pushStack(c.pc)
	c.pc = addr.Vector(bitPos)

	c.cycles += 20
	return true
}
