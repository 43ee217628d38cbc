// Package video implements the PPU pipeline: VRAM/OAM ownership, the
// per-dot OAM-search/draw/HBlank/VBlank state machine, DMG/CGB pixel
// compositing, palette memory, and the HDMA/GDMA transfer engine
// (spec.md §4.4, §4.5). The bus reaches all of this only through the
// VideoUnit interface it declares, so this package never imports mmu.
package video

import (
	"log/slog"

	"github.com/ptarmigan-labs/gbcore/gbcore/addr"
)

// Mode is one of the four PPU pipeline states (spec.md §3 "PPU pipeline
// state").
type Mode uint8

const (
	ModeHBlank Mode = iota
	ModeVBlank
	ModeOAMSearch
	ModeLineDraw
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	dotsOAMSearch = 80
	dotsLineDraw  = 168
	dotsPerLine   = 456
	lastLine      = 153
	vblankLine    = 144
)

// IRQRaiser requests an interrupt on the bus; satisfied by
// *mmu.Bus.RequestInterrupt.
type IRQRaiser func(addr.Interrupt)

// PPU owns VRAM (one bank on DMG, two on CGB), OAM, every LCD register,
// CGB palette RAM, and the HDMA/GDMA engine. It implements
// mmu.VideoUnit.
type PPU struct {
	vram [2][0x2000]uint8 // bank 0 always; bank 1 is CGB-only
	oam  [0xA0]uint8

	cgb bool

	lcdc, stat       uint8
	scy, scx         uint8
	ly, lyc          uint8
	wy, wx           uint8
	bgp, obp0, obp1  uint8
	vbk              uint8 // VRAM bank select, bit 0 (CGB)

	bgPalette  cgbPalette
	objPalette cgbPalette

	mode Mode
	dot  int

	lineSprites []spriteHit

	windowLineCounter int // increments only on lines the window actually drew

	framebuffer [ScreenWidth * ScreenHeight * 4]uint8

	hdma           hdmaState
	busReadForHDMA func(uint16) uint8

	raiseIRQ IRQRaiser
}

// AttachBusReader wires the callback HDMA/GDMA uses to read transfer
// source bytes, which may live anywhere in the address space (ROM,
// WRAM, ...) rather than just inside the PPU's own VRAM/OAM.
func (p *PPU) AttachBusReader(read func(uint16) uint8) { p.busReadForHDMA = read }

// New constructs a PPU parked in VBlank on line 0, matching the "parked
// in a pre-first-frame VBlank" lifecycle from spec.md §3.
func New(cgb bool, raiseIRQ IRQRaiser) *PPU {
	p := &PPU{
		cgb:      cgb,
		mode:     ModeVBlank,
		raiseIRQ: raiseIRQ,
	}
	p.stat = uint8(ModeVBlank)
	return p
}

// Framebuffer returns the RGBA8 160x144 row-major pixel buffer for the
// most recently completed frame (spec.md §4.4 "Framebuffer layout").
func (p *PPU) Framebuffer() []uint8 { return p.framebuffer[:] }

// Tick advances the PPU by cycles T-cycles (dots in single-speed mode)
// and reports whether a frame just completed and whether a GDMA burst
// is in progress (spec.md §4.4 "Returned signals per tick"). A GDMA
// burst runs to completion inside the HDMA5 register write, which
// returns the CPU stall cycles instead, so the second value is always
// false when Tick returns.
func (p *PPU) Tick(cycles int) (frameCompleted bool, ppuHaltsCPU bool) {
	if p.lcdc&0x80 == 0 {
		return false, false
	}

	for i := 0; i < cycles; i++ {
		if p.stepDot() {
			frameCompleted = true
		}
	}
	return frameCompleted, p.hdma.activeGDMA
}

// stepDot advances by exactly one dot and returns true on the dot a
// frame completes (the final dot of VBlank line 153).
func (p *PPU) stepDot() bool {
	p.dot++

	switch p.mode {
	case ModeOAMSearch:
		if p.dot == dotsOAMSearch {
			p.setMode(ModeLineDraw)
		}
	case ModeLineDraw:
		if p.dot == dotsOAMSearch+dotsLineDraw {
			p.renderLine()
			p.setMode(ModeHBlank)
		}
	case ModeHBlank:
		if p.dot == dotsPerLine {
			p.runHDMA()
			p.advanceLine()
		}
	case ModeVBlank:
		if p.dot == dotsPerLine {
			p.advanceLine()
			if p.ly == 0 {
				return true
			}
		}
	}
	return false
}

func (p *PPU) advanceLine() {
	p.dot = 0
	p.ly++
	if p.ly > lastLine {
		p.ly = 0
		p.windowLineCounter = 0
	}
	p.updateLYCFlag()

	switch {
	case p.ly == vblankLine:
		p.setMode(ModeVBlank)
		p.raiseIRQ(addr.VBlankInterrupt)
		if p.stat&0x10 != 0 {
			p.raiseIRQ(addr.LCDSTATInterrupt)
		}
	case p.ly < vblankLine:
		p.setMode(ModeOAMSearch)
		p.lineSprites = p.scanSprites()
	}
}

func (p *PPU) setMode(m Mode) {
	if p.mode == m {
		return
	}
	p.mode = m
	p.stat = (p.stat &^ 0x03) | uint8(m)

	switch m {
	case ModeHBlank:
		if p.stat&0x08 != 0 {
			p.raiseIRQ(addr.LCDSTATInterrupt)
		}
	case ModeOAMSearch:
		if p.stat&0x20 != 0 {
			p.raiseIRQ(addr.LCDSTATInterrupt)
		}
	}
}

func (p *PPU) updateLYCFlag() {
	if p.ly == p.lyc {
		p.stat |= 0x04
		if p.stat&0x40 != 0 {
			p.raiseIRQ(addr.LCDSTATInterrupt)
		}
	} else {
		p.stat &^= 0x04
	}
}

// setLCDEnable implements the LCDC bit 7 edge behavior from spec.md
// §4.4 "LCD enable": turning the LCD off snaps straight to (HBlank,
// line 0, dot 0); turning it on resumes from OAM-search of line 0.
func (p *PPU) setLCDEnable(enabled bool) {
	wasEnabled := p.lcdc&0x80 != 0
	if enabled == wasEnabled {
		return
	}
	if !enabled {
		p.mode = ModeHBlank
		p.stat = p.stat &^ 0x03
		p.dot = 0
		p.ly = 0
		slog.Debug("video: LCD disabled")
	} else {
		p.dot = 0
		p.ly = 0
		p.setMode(ModeOAMSearch)
		p.lineSprites = p.scanSprites()
		slog.Debug("video: LCD enabled")
	}
}

// oamLocked and vramLocked report whether OAM / VRAM is currently gated
// from CPU access by the PPU's mode (spec.md §3 "locked" flags; §5 "the locks
// only gate CPU access").
func (p *PPU) oamLocked() bool {
	return p.mode == ModeOAMSearch || p.mode == ModeLineDraw
}

func (p *PPU) vramLocked() bool {
	return p.mode == ModeLineDraw
}
