// Package mmu implements the address-decoded system bus: cartridge ROM/RAM
// routing through the active mapper, WRAM banking, HRAM, the timer, the
// joypad register, and the OAM-DMA engine (spec.md §4.2, §4.5, §4.6, §4.7).
// VRAM, OAM, and the PPU's own registers are owned by gbcore/video and
// reached here only through the VideoUnit interface, so this package never
// imports it.
package mmu

import (
	"fmt"
	"log/slog"

	"github.com/ptarmigan-labs/gbcore/gbcore/addr"
	"github.com/ptarmigan-labs/gbcore/gbcore/bit"
	"github.com/ptarmigan-labs/gbcore/gbcore/cart"
)

// VideoUnit is the narrow surface the bus needs from the PPU: VRAM/OAM
// storage and its memory-mapped registers (LCDC..WX, VBK, HDMA1-5,
// BCPS/BCPD/OCPS/OCPD). WriteRegister returns any extra CPU-stall cycles
// a GDMA burst triggered by that write incurred.
type VideoUnit interface {
	ReadVRAM(addr uint16) uint8
	WriteVRAM(addr uint16, value uint8)
	ReadOAM(addr uint16) uint8
	WriteOAM(addr uint16, value uint8)
	ReadRegister(addr uint16) uint8
	WriteRegister(addr uint16, value uint8) (stallCycles int)
}

// SerialPort is the narrow surface the bus needs from the serial package.
type SerialPort interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
	Tick(cycles int)
}

// AudioUnit is the narrow surface the bus needs from the audio package.
type AudioUnit interface {
	ReadRegister(address uint16) byte
	WriteRegister(address uint16, value byte)
}

// Bus is the single owner of WRAM, HRAM, the timer, and the joypad; it
// routes every other address to the cartridge mapper, the video unit, the
// serial port, or the audio unit. A Bus is always part of exactly one
// Machine (spec.md §9 "machine" ownership model) — never shared.
type Bus struct {
	mbc cart.MBC

	wram     [8][0x1000]uint8 // bank 0 fixed, 1-7 switchable via SVBK (CGB)
	wramBank uint8            // 1-7, defaults to 1 on DMG

	hram [0x7F]uint8
	ie   uint8
	ifr  uint8

	video  VideoUnit
	serial SerialPort
	audio  AudioUnit
	timer  Timer
	joy    *joypad
	dma    oamDMA

	cgb            bool
	bootROMActive  bool
	bootROM        []byte
	keySwitchArmed bool
	doubleSpeed    bool

	pendingStall int
	dmaReg       uint8
}

// NewBus constructs a bus with no cartridge and no boot ROM loaded.
func NewBus(cgb bool) *Bus {
	b := &Bus{
		wramBank: 1,
		cgb:      cgb,
		mbc:      cart.NewMBC(cart.NewBlank()),
	}
	b.joy = newJoypad(func() { b.RequestInterrupt(addr.JoypadInterrupt) })
	b.timer.InterruptHandler = func() { b.RequestInterrupt(addr.TimerInterrupt) }
	return b
}

// AttachCartridge installs the mapper for a parsed cartridge.
func (b *Bus) AttachCartridge(c *cart.Cartridge) {
	b.mbc = cart.NewMBC(c)
}

// SaveRAM returns the active mapper's battery-backed state (spec.md
// §4.3), or nil if the cartridge has no battery.
func (b *Bus) SaveRAM() []byte { return b.mbc.Save() }

// LoadRAM restores mapper state previously returned by SaveRAM.
func (b *Bus) LoadRAM(blob []byte) { b.mbc.Load(blob) }

// AttachVideo wires the PPU that owns VRAM/OAM/PPU-registers.
func (b *Bus) AttachVideo(v VideoUnit) { b.video = v }

// AttachSerial wires the serial port backing SB/SC.
func (b *Bus) AttachSerial(s SerialPort) { b.serial = s }

// AttachAudio wires the APU register file backing NR10-NR52/wave RAM.
func (b *Bus) AttachAudio(a AudioUnit) { b.audio = a }

// LoadBootROM installs a boot ROM image, enabling boot-ROM-overlay reads
// of the low address range until disabled via FF50.
func (b *Bus) LoadBootROM(rom []byte) {
	b.bootROM = rom
	b.bootROMActive = len(rom) > 0
}

// SetTimerSeed seeds DIV, used when skipping the boot ROM.
func (b *Bus) SetTimerSeed(seed uint16) { b.timer.SetSeed(seed) }

// Press and Release forward button transitions to the joypad register.
func (b *Bus) Press(key JoypadKey)   { b.joy.Press(key) }
func (b *Bus) Release(key JoypadKey) { b.joy.Release(key) }

// DoubleSpeed reports whether the CGB speed switch is currently engaged.
func (b *Bus) DoubleSpeed() bool { return b.doubleSpeed }

// ToggleSpeedIfArmed flips the CGB double-speed latch when STOP executes
// with KEY1 bit 0 armed, clearing the arm bit, and reports whether a
// switch happened (spec.md §4.1's STOP/speed-switch coupling).
func (b *Bus) ToggleSpeedIfArmed() bool {
	if !b.keySwitchArmed {
		return false
	}
	b.keySwitchArmed = false
	b.doubleSpeed = !b.doubleSpeed
	return true
}

// Tick advances the timer, OAM-DMA engine, and serial port by cycles
// T-cycles. Called once per CPU-instruction from the orchestrator loop.
func (b *Bus) Tick(cycles int) {
	b.timer.Tick(cycles)
	if b.serial != nil {
		b.serial.Tick(cycles)
	}
	b.dma.tick(cycles, func(oamOffset uint8, source uint16) {
		if b.video != nil {
			b.video.WriteOAM(addr.OAMStart+uint16(oamOffset), b.Read(source))
		}
	})
}

// ConsumeStall returns and clears any CPU-stall cycles queued by a GDMA
// burst triggered since the last call (spec.md §4.5, §5).
func (b *Bus) ConsumeStall() int {
	s := b.pendingStall
	b.pendingStall = 0
	return s
}

// RequestInterrupt sets the IF bit for the given source.
func (b *Bus) RequestInterrupt(interrupt addr.Interrupt) {
	var bitPos uint8
	switch interrupt {
	case addr.VBlankInterrupt:
		bitPos = 0
	case addr.LCDSTATInterrupt:
		bitPos = 1
	case addr.TimerInterrupt:
		bitPos = 2
	case addr.SerialInterrupt:
		bitPos = 3
	case addr.JoypadInterrupt:
		bitPos = 4
	default:
		panic(fmt.Sprintf("mmu: unknown interrupt source 0x%02X", uint8(interrupt)))
	}
	b.ifr = bit.Set(bitPos, b.ifr)
}

func (b *Bus) Read(address uint16) uint8 {
	switch {
	case b.bootROMActive && b.inBootROM(address):
		return b.bootROM[address]

	case address <= 0x7FFF:
		return b.mbc.ReadROM(address)

	case address <= 0x9FFF:
		if b.video == nil {
			return 0xFF
		}
		return b.video.ReadVRAM(address)

	case address <= 0xBFFF:
		return b.mbc.ReadRAM(address)

	case address <= 0xCFFF:
		return b.wram[0][address-0xC000]

	case address <= 0xDFFF:
		return b.wram[b.wramBankOrOne()][address-0xD000]

	case address <= 0xFDFF:
		return b.Read(address - 0x2000)

	case address <= 0xFE9F:
		if b.video == nil {
			return 0xFF
		}
		return b.video.ReadOAM(address)

	case address <= 0xFEFF:
		return 0xFF

	case address == addr.P1:
		return b.joy.register()

	case address == addr.SB || address == addr.SC:
		if b.serial == nil {
			return 0xFF
		}
		return b.serial.Read(address)

	case address == addr.DIV, address == addr.TIMA, address == addr.TMA, address == addr.TAC:
		return b.timer.Read(address)

	case address == addr.IF:
		return b.ifr | 0xE0

	case address >= addr.AudioStart && address <= addr.AudioEnd:
		if b.audio == nil {
			return 0xFF
		}
		return b.audio.ReadRegister(address)

	case address == addr.DMA:
		return b.dmaReg

	case address >= addr.LCDC && address <= addr.WX,
		address == addr.VBK,
		address >= addr.HDMA1 && address <= addr.HDMA5,
		address >= addr.BCPS && address <= addr.OCPD:
		if b.video == nil {
			return 0xFF
		}
		return b.video.ReadRegister(address)

	case address == addr.KEY1:
		v := uint8(0x7E)
		if b.doubleSpeed {
			v |= 0x80
		}
		if b.keySwitchArmed {
			v |= 0x01
		}
		return v

	case address == addr.SVBK:
		return b.wramBank | 0xF8

	case address == addr.BootROMDisable:
		if b.bootROMActive {
			return 0x00
		}
		return 0x01

	case address >= 0xFF80 && address <= 0xFFFE:
		return b.hram[address-0xFF80]

	case address == addr.IE:
		return b.ie

	default:
		return 0xFF
	}
}

func (b *Bus) Write(address uint16, value uint8) {
	switch {
	case b.bootROMActive && b.inBootROM(address):
		return // boot ROM is read-only overlay

	case address <= 0x7FFF:
		b.mbc.WriteROM(address, value)

	case address <= 0x9FFF:
		if b.video != nil {
			b.video.WriteVRAM(address, value)
		}

	case address <= 0xBFFF:
		b.mbc.WriteRAM(address, value)

	case address <= 0xCFFF:
		b.wram[0][address-0xC000] = value

	case address <= 0xDFFF:
		b.wram[b.wramBankOrOne()][address-0xD000] = value

	case address <= 0xFDFF:
		b.Write(address-0x2000, value)

	case address <= 0xFE9F:
		if b.video != nil {
			b.video.WriteOAM(address, value)
		}

	case address <= 0xFEFF:
		// prohibited region: writes silently ignored (spec.md §7)

	case address == addr.P1:
		b.joy.writeSelect(value)

	case address == addr.SB || address == addr.SC:
		if b.serial != nil {
			b.serial.Write(address, value)
		}

	case address == addr.DIV, address == addr.TIMA, address == addr.TMA, address == addr.TAC:
		b.timer.Write(address, value)

	case address == addr.IF:
		b.ifr = value & 0x1F

	case address == addr.DMA:
		b.dmaReg = value
		b.dma.start(value)

	case address >= addr.AudioStart && address <= addr.AudioEnd:
		if b.audio != nil {
			b.audio.WriteRegister(address, value)
		}

	case address >= addr.LCDC && address <= addr.WX,
		address == addr.VBK,
		address >= addr.HDMA1 && address <= addr.HDMA5,
		address >= addr.BCPS && address <= addr.OCPD:
		if b.video != nil {
			b.pendingStall += b.video.WriteRegister(address, value)
		}

	case address == addr.KEY1:
		if b.cgb {
			b.keySwitchArmed = value&0x01 != 0
		}

	case address == addr.SVBK:
		if b.cgb {
			bank := value & 0x07
			if bank == 0 {
				bank = 1
			}
			b.wramBank = bank
		}

	case address == addr.BootROMDisable:
		if value != 0 {
			b.bootROMActive = false
		}

	case address >= 0xFF80 && address <= 0xFFFE:
		b.hram[address-0xFF80] = value

	case address == addr.IE:
		b.ie = value

	default:
		slog.Warn("mmu: write to unmapped address", "addr", fmt.Sprintf("0x%04X", address), "value", fmt.Sprintf("0x%02X", value))
	}
}

// InterruptEnable and InterruptFlag give the CPU direct access to IE/IF
// without routing through Read/Write's address decode.
func (b *Bus) InterruptEnable() uint8 { return b.ie }
func (b *Bus) InterruptFlag() uint8   { return b.ifr }

func (b *Bus) SetInterruptFlag(value uint8) { b.ifr = value & 0x1F }

func (b *Bus) wramBankOrOne() uint8 {
	if !b.cgb {
		return 1
	}
	return b.wramBank
}

func (b *Bus) inBootROM(address uint16) bool {
	if len(b.bootROM) <= 0x100 {
		return address < uint16(len(b.bootROM))
	}
	// CGB dual-stage boot ROM: 0x000-0x0FF then 0x200-0x8FF, with the
	// cartridge header visible at 0x100-0x1FF in between.
	return address < 0x100 || (address >= 0x200 && int(address) < len(b.bootROM))
}
