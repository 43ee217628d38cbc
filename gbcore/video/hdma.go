package video

// hdmaState backs HDMA1-5 (CGB VRAM DMA): a 16-byte-per-HBlank transfer
// in HDMA mode, or one atomic burst in GDMA mode (spec.md §4.5).
type hdmaState struct {
	srcHigh, srcLow uint8
	dstHigh, dstLow uint8

	lengthUnits uint8 // HDMA5 bits 0-6: (length/16)-1
	hblankMode  bool
	active      bool
	activeGDMA  bool // true only for the duration of a reported GDMA burst
}

func (h *hdmaState) source() uint16 {
	return (uint16(h.srcHigh) << 8 | uint16(h.srcLow)) &^ 0xF
}

func (h *hdmaState) dest() uint16 {
	return 0x8000 | ((uint16(h.dstHigh)<<8 | uint16(h.dstLow)) &^ 0xF &^ 0xE000)
}

// readHDMA5 reports remaining length and whether a transfer is active
// (bit 7 clear while active, per the CGB hardware convention).
func (h *hdmaState) readHDMA5() uint8 {
	if !h.active {
		return 0xFF
	}
	return h.lengthUnits & 0x7F
}

// startTransfer is called on a write to HDMA5. The source side is read
// through busReadForHDMA, since it may be ROM, WRAM, etc, outside the
// PPU's own VRAM/OAM.
func (p *PPU) startTransfer(value uint8) int {
	p.hdma.lengthUnits = value & 0x7F
	p.hdma.hblankMode = value&0x80 != 0

	if p.hdma.active && !p.hdma.hblankMode {
		// Writing to HDMA5 with bit 7 clear while an HBlank transfer is
		// active cancels it instead of starting a new one.
		p.hdma.active = false
		return 0
	}

	if !p.hdma.hblankMode {
		return p.runGDMA()
	}

	p.hdma.active = true
	return 0
}

// runGDMA copies the whole (length+1)*16 byte burst atomically and
// reports the stall cycles the CPU must absorb (spec.md §4.5 "report
// ppu_halts_cpu=true for that duration").
func (p *PPU) runGDMA() int {
	if p.busReadForHDMA == nil {
		return 0
	}

	total := (int(p.hdma.lengthUnits) + 1) * 16

	p.hdma.activeGDMA = true
	src, dst := p.hdma.source(), p.hdma.dest()
	for i := 0; i < total; i++ {
		p.WriteVRAM(dst+uint16(i), p.busReadForHDMA(src+uint16(i)))
	}
	p.hdma.activeGDMA = false
	p.hdma.active = false
	p.hdma.lengthUnits = 0x7F

	return total / 2 // one stalled CPU cycle per 2 transferred bytes
}

// runHDMA is invoked once per HBlank entry; copies 16 bytes and
// decrements the length, deactivating when it wraps past 0xFF.
func (p *PPU) runHDMA() {
	if !p.hdma.active || !p.hdma.hblankMode || p.busReadForHDMA == nil {
		return
	}

	src, dst := p.hdma.source(), p.hdma.dest()
	for i := 0; i < 16; i++ {
		p.WriteVRAM(dst+uint16(i), p.busReadForHDMA(src+uint16(i)))
	}

	p.hdma.srcLow, p.hdma.srcHigh = uint8(src+16), uint8((src+16)>>8)
	p.hdma.dstLow, p.hdma.dstHigh = uint8(dst+16), uint8((dst+16)>>8)

	if p.hdma.lengthUnits == 0 {
		p.hdma.active = false
		p.hdma.lengthUnits = 0x7F
	} else {
		p.hdma.lengthUnits--
	}
}
