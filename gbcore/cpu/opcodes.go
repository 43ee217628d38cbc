package cpu

import "fmt"

// undefinedOpcode traps one of the eleven byte values the SM83 never
// assigned an instruction to (spec.md §7): 0xD3, 0xDB, 0xDD, 0xE3, 0xE4,
// 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD.
func undefinedOpcode(cpu *CPU) int {
	panic(fmt.Sprintf("undefined opcode 0x%02X at 0x%04X", cpu.currentOpcode, cpu.pc))
}

//NOP
//#0x00:
func opcode0x00(_ *CPU) int {
	return 4
}

//LD BC, nn
//#0x01:
func opcode0x01(cpu *CPU) int {
	cpu.setBC(cpu.readImmediateWord())
	return 12
}

//LD (BC), A
//#0x02:
func opcode0x02(cpu *CPU) int {
	cpu.bus.Write(cpu.getBC(), cpu.a)
	return 8
}

//INC BC
//#0x03:
func opcode0x03(cpu *CPU) int {
	cpu.setBC(cpu.getBC() + 1)
	return 8
}

//INC B
//#0x04:
func opcode0x04(cpu *CPU) int {
	cpu.inc(&cpu.b)
	return 4
}

//DEC B
//#0x05:
func opcode0x05(cpu *CPU) int {
	cpu.dec(&cpu.b)
	return 4
}

//LD B, n
//#0x06:
func opcode0x06(cpu *CPU) int {
	cpu.b = cpu.readImmediate()
	return 8
}

//RLCA
//#0x07:
func opcode0x07(cpu *CPU) int {
	cpu.rlcA()
	return 4
}

//LD (nn), SP
//#0x08:
func opcode0x08(cpu *CPU) int {
	addr := cpu.readImmediateWord()
	cpu.bus.Write(addr, uint8(cpu.sp))
	cpu.bus.Write(addr+1, uint8(cpu.sp>>8))
	return 20
}

//ADD HL, BC
//#0x09:
func opcode0x09(cpu *CPU) int {
	cpu.addToHL(cpu.getBC())
	return 8
}

//LD A, (BC)
//#0x0A:
func opcode0x0A(cpu *CPU) int {
	cpu.a = cpu.bus.Read(cpu.getBC())
	return 8
}

//DEC BC
//#0x0B:
func opcode0x0B(cpu *CPU) int {
	cpu.setBC(cpu.getBC() - 1)
	return 8
}

//INC C
//#0x0C:
func opcode0x0C(cpu *CPU) int {
	cpu.inc(&cpu.c)
	return 4
}

//DEC C
//#0x0D:
func opcode0x0D(cpu *CPU) int {
	cpu.dec(&cpu.c)
	return 4
}

//LD C, n
//#0x0E:
func opcode0x0E(cpu *CPU) int {
	cpu.c = cpu.readImmediate()
	return 8
}

//RRCA
//#0x0F:
func opcode0x0F(cpu *CPU) int {
	cpu.rrcA()
	return 4
}

//STOP
//#0x10:
func opcode0x10(cpu *CPU) int {
	cpu.readImmediate() // STOP's second byte is always 0x00 and discarded
	if cpu.bus.ToggleSpeedIfArmed() {
		return 4
	}
	cpu.stopped = true
	return 4
}

//LD DE, nn
//#0x11:
func opcode0x11(cpu *CPU) int {
	cpu.setDE(cpu.readImmediateWord())
	return 12
}

//LD (DE), A
//#0x12:
func opcode0x12(cpu *CPU) int {
	cpu.bus.Write(cpu.getDE(), cpu.a)
	return 8
}

//INC DE
//#0x13:
func opcode0x13(cpu *CPU) int {
	cpu.setDE(cpu.getDE() + 1)
	return 8
}

//INC D
//#0x14:
func opcode0x14(cpu *CPU) int {
	cpu.inc(&cpu.d)
	return 4
}

//DEC D
//#0x15:
func opcode0x15(cpu *CPU) int {
	cpu.dec(&cpu.d)
	return 4
}

//LD D, n
//#0x16:
func opcode0x16(cpu *CPU) int {
	cpu.d = cpu.readImmediate()
	return 8
}

//RLA
//#0x17:
func opcode0x17(cpu *CPU) int {
	cpu.rlA()
	return 4
}

//JR n
//#0x18:
func opcode0x18(cpu *CPU) int {
	cpu.jr()
	return 12
}

//ADD HL, DE
//#0x19:
func opcode0x19(cpu *CPU) int {
	cpu.addToHL(cpu.getDE())
	return 8
}

//LD A, (DE)
//#0x1A:
func opcode0x1A(cpu *CPU) int {
	cpu.a = cpu.bus.Read(cpu.getDE())
	return 8
}

//DEC DE
//#0x1B:
func opcode0x1B(cpu *CPU) int {
	cpu.setDE(cpu.getDE() - 1)
	return 8
}

//INC E
//#0x1C:
func opcode0x1C(cpu *CPU) int {
	cpu.inc(&cpu.e)
	return 4
}

//DEC E
//#0x1D:
func opcode0x1D(cpu *CPU) int {
	cpu.dec(&cpu.e)
	return 4
}

//LD E, n
//#0x1E:
func opcode0x1E(cpu *CPU) int {
	cpu.e = cpu.readImmediate()
	return 8
}

//RRA
//#0x1F:
func opcode0x1F(cpu *CPU) int {
	cpu.rrA()
	return 4
}

//JR NZ, n
//#0x20:
func opcode0x20(cpu *CPU) int {
	if !cpu.isSetFlag(zeroFlag) {
		cpu.jr()
		return 12
	}
	cpu.readImmediate()
	return 8
}

//LD HL, nn
//#0x21:
func opcode0x21(cpu *CPU) int {
	cpu.setHL(cpu.readImmediateWord())
	return 12
}

//LDI (HL), A
//#0x22:
func opcode0x22(cpu *CPU) int {
	cpu.bus.Write(cpu.getHL(), cpu.a)
	cpu.setHL(cpu.getHL() + 1)
	return 8
}

//INC HL
//#0x23:
func opcode0x23(cpu *CPU) int {
	cpu.setHL(cpu.getHL() + 1)
	return 8
}

//INC H
//#0x24:
func opcode0x24(cpu *CPU) int {
	cpu.inc(&cpu.h)
	return 4
}

//DEC H
//#0x25:
func opcode0x25(cpu *CPU) int {
	cpu.dec(&cpu.h)
	return 4
}

//LD H, n
//#0x26:
func opcode0x26(cpu *CPU) int {
	cpu.h = cpu.readImmediate()
	return 8
}

//DAA
//#0x27:
func opcode0x27(cpu *CPU) int {
	cpu.daa()
	return 4
}

//JR Z, n
//#0x28:
func opcode0x28(cpu *CPU) int {
	if cpu.isSetFlag(zeroFlag) {
		cpu.jr()
		return 12
	}
	cpu.readImmediate()
	return 8
}

//ADD HL, HL
//#0x29:
func opcode0x29(cpu *CPU) int {
	cpu.addToHL(cpu.getHL())
	return 8
}

//LDI A, (HL)
//#0x2A:
func opcode0x2A(cpu *CPU) int {
	cpu.a = cpu.bus.Read(cpu.getHL())
	cpu.setHL(cpu.getHL() + 1)
	return 8
}

//DEC HL
//#0x2B:
func opcode0x2B(cpu *CPU) int {
	cpu.setHL(cpu.getHL() - 1)
	return 8
}

//INC L
//#0x2C:
func opcode0x2C(cpu *CPU) int {
	cpu.inc(&cpu.l)
	return 4
}

//DEC L
//#0x2D:
func opcode0x2D(cpu *CPU) int {
	cpu.dec(&cpu.l)
	return 4
}

//LD L, n
//#0x2E:
func opcode0x2E(cpu *CPU) int {
	cpu.l = cpu.readImmediate()
	return 8
}

//CPL
//#0x2F:
func opcode0x2F(cpu *CPU) int {
	cpu.a = ^cpu.a
	cpu.setFlag(subFlag)
	cpu.setFlag(halfCarryFlag)
	return 4
}

//JR NC, n
//#0x30:
func opcode0x30(cpu *CPU) int {
	if !cpu.isSetFlag(carryFlag) {
		cpu.jr()
		return 12
	}
	cpu.readImmediate()
	return 8
}

//LD SP, nn
//#0x31:
func opcode0x31(cpu *CPU) int {
	cpu.sp = cpu.readImmediateWord()
	return 12
}

//LDD (HL), A
//#0x32:
func opcode0x32(cpu *CPU) int {
	cpu.bus.Write(cpu.getHL(), cpu.a)
	cpu.setHL(cpu.getHL() - 1)
	return 8
}

//INC SP
//#0x33:
func opcode0x33(cpu *CPU) int {
	cpu.sp++
	return 8
}

//INC (HL)
//#0x34:
func opcode0x34(cpu *CPU) int {
	addr := cpu.getHL()
	value := cpu.bus.Read(addr)
	cpu.inc(&value)
	cpu.bus.Write(addr, value)
	return 12
}

//DEC (HL)
//#0x35:
func opcode0x35(cpu *CPU) int {
	addr := cpu.getHL()
	value := cpu.bus.Read(addr)
	cpu.dec(&value)
	cpu.bus.Write(addr, value)
	return 12
}

//LD (HL), n
//#0x36:
func opcode0x36(cpu *CPU) int {
	cpu.bus.Write(cpu.getHL(), cpu.readImmediate())
	return 12
}

//SCF
//#0x37:
func opcode0x37(cpu *CPU) int {
	cpu.setFlag(carryFlag)
	cpu.resetFlag(subFlag)
	cpu.resetFlag(halfCarryFlag)
	return 4
}

//JR C, n
//#0x38:
func opcode0x38(cpu *CPU) int {
	if cpu.isSetFlag(carryFlag) {
		cpu.jr()
		return 12
	}
	cpu.readImmediate()
	return 8
}

//ADD HL, SP
//#0x39:
func opcode0x39(cpu *CPU) int {
	cpu.addToHL(cpu.sp)
	return 8
}

//LDD A, (HL)
//#0x3A:
func opcode0x3A(cpu *CPU) int {
	cpu.a = cpu.bus.Read(cpu.getHL())
	cpu.setHL(cpu.getHL() - 1)
	return 8
}

//DEC SP
//#0x3B:
func opcode0x3B(cpu *CPU) int {
	cpu.sp--
	return 8
}

//INC A
//#0x3C:
func opcode0x3C(cpu *CPU) int {
	cpu.inc(&cpu.a)
	return 4
}

//DEC A
//#0x3D:
func opcode0x3D(cpu *CPU) int {
	cpu.dec(&cpu.a)
	return 4
}

//LD A, n
//#0x3E:
func opcode0x3E(cpu *CPU) int {
	cpu.a = cpu.readImmediate()
	return 8
}

//CCF
//#0x3F:
func opcode0x3F(cpu *CPU) int {
	cpu.resetFlag(subFlag)
	cpu.resetFlag(halfCarryFlag)
	cpu.setFlagToCondition(carryFlag, !cpu.isSetFlag(carryFlag))
	return 4
}

//HALT
//#0x76:
func opcode0x76(cpu *CPU) int {
	cpu.halted = true
	return 4
}

//RET !FZ
//#0xC0:
func opcode0xC0(cpu *CPU) int {
	if !cpu.isSetFlag(zeroFlag) {
		cpu.ret()
		return 20
	}
	return 8
}

//POP BC
//#0xC1:
func opcode0xC1(cpu *CPU) int {
	cpu.setBC(cpu.popStack())
	return 12
}

//JP !FZ, nn
//#0xC2:
func opcode0xC2(cpu *CPU) int {
	if !cpu.isSetFlag(zeroFlag) {
		cpu.jp()
		return 16
	}
	cpu.readImmediateWord()
	return 12
}

//JP nn
//#0xC3:
func opcode0xC3(cpu *CPU) int {
	cpu.jp()
	return 16
}

//CALL !FZ, nn
//#0xC4:
func opcode0xC4(cpu *CPU) int {
	if !cpu.isSetFlag(zeroFlag) {
		cpu.call()
		return 24
	}
	cpu.readImmediateWord()
	return 12
}

//PUSH BC
//#0xC5:
func opcode0xC5(cpu *CPU) int {
	cpu.pushStack(cpu.getBC())
	return 16
}

//ADD A, n
//#0xC6:
func opcode0xC6(cpu *CPU) int {
	cpu.addToA(cpu.readImmediate())
	return 8
}

//RST 0x00
//#0xC7:
func opcode0xC7(cpu *CPU) int {
	cpu.rst(0x00)
	return 16
}

//RET FZ
//#0xC8:
func opcode0xC8(cpu *CPU) int {
	if cpu.isSetFlag(zeroFlag) {
		cpu.ret()
		return 20
	}
	return 8
}

//RET
//#0xC9:
func opcode0xC9(cpu *CPU) int {
	cpu.ret()
	return 16
}

//JP FZ, nn
//#0xCA:
func opcode0xCA(cpu *CPU) int {
	if cpu.isSetFlag(zeroFlag) {
		cpu.jp()
		return 16
	}
	cpu.readImmediateWord()
	return 12
}

//CALL FZ, nn
//#0xCC:
func opcode0xCC(cpu *CPU) int {
	if cpu.isSetFlag(zeroFlag) {
		cpu.call()
		return 24
	}
	cpu.readImmediateWord()
	return 12
}

//CALL nn
//#0xCD:
func opcode0xCD(cpu *CPU) int {
	cpu.call()
	return 24
}

//ADC A, n
//#0xCE:
func opcode0xCE(cpu *CPU) int {
	cpu.adc(cpu.readImmediate())
	return 8
}

//RST 0x08
//#0xCF:
func opcode0xCF(cpu *CPU) int {
	cpu.rst(0x08)
	return 16
}

//RET !FC
//#0xD0:
func opcode0xD0(cpu *CPU) int {
	if !cpu.isSetFlag(carryFlag) {
		cpu.ret()
		return 20
	}
	return 8
}

//POP DE
//#0xD1:
func opcode0xD1(cpu *CPU) int {
	cpu.setDE(cpu.popStack())
	return 12
}

//JP !FC, nn
//#0xD2:
func opcode0xD2(cpu *CPU) int {
	if !cpu.isSetFlag(carryFlag) {
		cpu.jp()
		return 16
	}
	cpu.readImmediateWord()
	return 12
}

//CALL !FC, nn
//#0xD4:
func opcode0xD4(cpu *CPU) int {
	if !cpu.isSetFlag(carryFlag) {
		cpu.call()
		return 24
	}
	cpu.readImmediateWord()
	return 12
}

//PUSH DE
//#0xD5:
func opcode0xD5(cpu *CPU) int {
	cpu.pushStack(cpu.getDE())
	return 16
}

//SUB A, n
//#0xD6:
func opcode0xD6(cpu *CPU) int {
	cpu.sub(cpu.readImmediate())
	return 8
}

//RST 0x10
//#0xD7:
func opcode0xD7(cpu *CPU) int {
	cpu.rst(0x10)
	return 16
}

//RET FC
//#0xD8:
func opcode0xD8(cpu *CPU) int {
	if cpu.isSetFlag(carryFlag) {
		cpu.ret()
		return 20
	}
	return 8
}

//RETI
//#0xD9:
func opcode0xD9(cpu *CPU) int {
	cpu.ret()
	cpu.interruptsEnabled = true
	cpu.eiPending = false
	return 16
}

//JP FC, nn
//#0xDA:
func opcode0xDA(cpu *CPU) int {
	if cpu.isSetFlag(carryFlag) {
		cpu.jp()
		return 16
	}
	cpu.readImmediateWord()
	return 12
}

//CALL FC, nn
//#0xDC:
func opcode0xDC(cpu *CPU) int {
	if cpu.isSetFlag(carryFlag) {
		cpu.call()
		return 24
	}
	cpu.readImmediateWord()
	return 12
}

//SBC A, n
//#0xDE:
func opcode0xDE(cpu *CPU) int {
	cpu.sbc(cpu.readImmediate())
	return 8
}

//RST 0x18
//#0xDF:
func opcode0xDF(cpu *CPU) int {
	cpu.rst(0x18)
	return 16
}

//LDH (n), A
//#0xE0:
func opcode0xE0(cpu *CPU) int {
	addr := 0xFF00 | uint16(cpu.readImmediate())
	cpu.bus.Write(addr, cpu.a)
	return 12
}

//POP HL
//#0xE1:
func opcode0xE1(cpu *CPU) int {
	cpu.setHL(cpu.popStack())
	return 12
}

//LD (0xFF00 + C), A
//#0xE2:
func opcode0xE2(cpu *CPU) int {
	cpu.bus.Write(0xFF00|uint16(cpu.c), cpu.a)
	return 8
}

//PUSH HL
//#0xE5:
func opcode0xE5(cpu *CPU) int {
	cpu.pushStack(cpu.getHL())
	return 16
}

//AND A, n
//#0xE6:
func opcode0xE6(cpu *CPU) int {
	cpu.and(cpu.readImmediate())
	return 8
}

//RST 0x20
//#0xE7:
func opcode0xE7(cpu *CPU) int {
	cpu.rst(0x20)
	return 16
}

//ADD SP, n
//#0xE8:
func opcode0xE8(cpu *CPU) int {
	offset := int8(cpu.readImmediate())
	cpu.sp = cpu.addSPOffset(offset)
	return 16
}

//JP (HL)
//#0xE9:
func opcode0xE9(cpu *CPU) int {
	cpu.pc = cpu.getHL()
	return 4
}

//LD (nn), A
//#0xEA:
func opcode0xEA(cpu *CPU) int {
	cpu.bus.Write(cpu.readImmediateWord(), cpu.a)
	return 16
}

//XOR A, n
//#0xEE:
func opcode0xEE(cpu *CPU) int {
	cpu.xor(cpu.readImmediate())
	return 8
}

//RST 0x28
//#0xEF:
func opcode0xEF(cpu *CPU) int {
	cpu.rst(0x28)
	return 16
}

//LDH A, (n)
//#0xF0:
func opcode0xF0(cpu *CPU) int {
	addr := 0xFF00 | uint16(cpu.readImmediate())
	cpu.a = cpu.bus.Read(addr)
	return 12
}

//POP AF
//#0xF1:
func opcode0xF1(cpu *CPU) int {
	cpu.setAF(cpu.popStack())
	return 12
}

//LD A, (0xFF00 + C)
//#0xF2:
func opcode0xF2(cpu *CPU) int {
	cpu.a = cpu.bus.Read(0xFF00 | uint16(cpu.c))
	return 8
}

//DI
//#0xF3:
func opcode0xF3(cpu *CPU) int {
	cpu.interruptsEnabled = false
	cpu.eiPending = false
	return 4
}

//PUSH AF
//#0xF5:
func opcode0xF5(cpu *CPU) int {
	cpu.pushStack(cpu.getAF())
	return 16
}

//OR A, n
//#0xF6:
func opcode0xF6(cpu *CPU) int {
	cpu.or(cpu.readImmediate())
	return 8
}

//RST 0x30
//#0xF7:
func opcode0xF7(cpu *CPU) int {
	cpu.rst(0x30)
	return 16
}

//LD HL, SP+n
//#0xF8:
func opcode0xF8(cpu *CPU) int {
	offset := int8(cpu.readImmediate())
	result := cpu.addSPOffset(offset)
	cpu.setHL(result)
	return 12
}

//LD SP, HL
//#0xF9:
func opcode0xF9(cpu *CPU) int {
	cpu.sp = cpu.getHL()
	return 8
}

//LD A, (nn)
//#0xFA:
func opcode0xFA(cpu *CPU) int {
	cpu.a = cpu.bus.Read(cpu.readImmediateWord())
	return 16
}

//EI
//#0xFB:
func opcode0xFB(cpu *CPU) int {
	cpu.eiPending = true
	return 4
}

//CP A, n
//#0xFE:
func opcode0xFE(cpu *CPU) int {
	cpu.cp(cpu.readImmediate())
	return 8
}

//RST 0x38
//#0xFF:
func opcode0xFF(cpu *CPU) int {
	cpu.rst(0x38)
	return 16
}

func init() {
	entries := map[uint8]Opcode{
		0x00: opcode0x00, 0x01: opcode0x01, 0x02: opcode0x02, 0x03: opcode0x03,
		0x04: opcode0x04, 0x05: opcode0x05, 0x06: opcode0x06, 0x07: opcode0x07,
		0x08: opcode0x08, 0x09: opcode0x09, 0x0A: opcode0x0A, 0x0B: opcode0x0B,
		0x0C: opcode0x0C, 0x0D: opcode0x0D, 0x0E: opcode0x0E, 0x0F: opcode0x0F,
		0x10: opcode0x10, 0x11: opcode0x11, 0x12: opcode0x12, 0x13: opcode0x13,
		0x14: opcode0x14, 0x15: opcode0x15, 0x16: opcode0x16, 0x17: opcode0x17,
		0x18: opcode0x18, 0x19: opcode0x19, 0x1A: opcode0x1A, 0x1B: opcode0x1B,
		0x1C: opcode0x1C, 0x1D: opcode0x1D, 0x1E: opcode0x1E, 0x1F: opcode0x1F,
		0x20: opcode0x20, 0x21: opcode0x21, 0x22: opcode0x22, 0x23: opcode0x23,
		0x24: opcode0x24, 0x25: opcode0x25, 0x26: opcode0x26, 0x27: opcode0x27,
		0x28: opcode0x28, 0x29: opcode0x29, 0x2A: opcode0x2A, 0x2B: opcode0x2B,
		0x2C: opcode0x2C, 0x2D: opcode0x2D, 0x2E: opcode0x2E, 0x2F: opcode0x2F,
		0x30: opcode0x30, 0x31: opcode0x31, 0x32: opcode0x32, 0x33: opcode0x33,
		0x34: opcode0x34, 0x35: opcode0x35, 0x36: opcode0x36, 0x37: opcode0x37,
		0x38: opcode0x38, 0x39: opcode0x39, 0x3A: opcode0x3A, 0x3B: opcode0x3B,
		0x3C: opcode0x3C, 0x3D: opcode0x3D, 0x3E: opcode0x3E, 0x3F: opcode0x3F,

		0x76: opcode0x76,

		0xC0: opcode0xC0, 0xC1: opcode0xC1, 0xC2: opcode0xC2, 0xC3: opcode0xC3,
		0xC4: opcode0xC4, 0xC5: opcode0xC5, 0xC6: opcode0xC6, 0xC7: opcode0xC7,
		0xC8: opcode0xC8, 0xC9: opcode0xC9, 0xCA: opcode0xCA, 0xCC: opcode0xCC,
		0xCD: opcode0xCD, 0xCE: opcode0xCE, 0xCF: opcode0xCF,

		0xD0: opcode0xD0, 0xD1: opcode0xD1, 0xD2: opcode0xD2, 0xD4: opcode0xD4,
		0xD5: opcode0xD5, 0xD6: opcode0xD6, 0xD7: opcode0xD7, 0xD8: opcode0xD8,
		0xD9: opcode0xD9, 0xDA: opcode0xDA, 0xDC: opcode0xDC, 0xDE: opcode0xDE,
		0xDF: opcode0xDF,

		0xE0: opcode0xE0, 0xE1: opcode0xE1, 0xE2: opcode0xE2, 0xE5: opcode0xE5,
		0xE6: opcode0xE6, 0xE7: opcode0xE7, 0xE8: opcode0xE8, 0xE9: opcode0xE9,
		0xEA: opcode0xEA, 0xEE: opcode0xEE, 0xEF: opcode0xEF,

		0xF0: opcode0xF0, 0xF1: opcode0xF1, 0xF2: opcode0xF2, 0xF3: opcode0xF3,
		0xF5: opcode0xF5, 0xF6: opcode0xF6, 0xF7: opcode0xF7, 0xF8: opcode0xF8,
		0xF9: opcode0xF9, 0xFA: opcode0xFA, 0xFB: opcode0xFB, 0xFE: opcode0xFE,
		0xFF: opcode0xFF,

		0xD3: undefinedOpcode, 0xDB: undefinedOpcode, 0xDD: undefinedOpcode,
		0xE3: undefinedOpcode, 0xE4: undefinedOpcode, 0xEB: undefinedOpcode,
		0xEC: undefinedOpcode, 0xED: undefinedOpcode, 0xF4: undefinedOpcode,
		0xFC: undefinedOpcode, 0xFD: undefinedOpcode,
	}

	for op, handler := range entries {
		opcodeMap[op] = handler
	}

	// 0xCB is intercepted by Decode before the dispatch table is ever
	// consulted; the entry exists only so an unreachable call fails loudly
	// instead of panicking on a nil func.
	opcodeMap[0xCB] = undefinedOpcode
}
