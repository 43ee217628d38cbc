package video

import "github.com/ptarmigan-labs/gbcore/gbcore/addr"

// ReadVRAM and WriteVRAM implement mmu.VideoUnit's VRAM access, gated
// by the mode-3 lock (spec.md §3, §5: "the locks only gate CPU
// access" — the PPU's own mode-3 fetches bypass this method).
func (p *PPU) ReadVRAM(a uint16) uint8 {
	if p.vramLocked() {
		return 0xFF
	}
	bank := uint16(p.vbk & 0x01)
	return p.vram[bank][a-0x8000]
}

func (p *PPU) WriteVRAM(a uint16, value uint8) {
	if p.vramLocked() {
		return
	}
	bank := uint16(p.vbk & 0x01)
	p.vram[bank][a-0x8000] = value
}

// ReadOAM and WriteOAM implement mmu.VideoUnit's OAM access, gated by
// the mode-2/mode-3 lock.
func (p *PPU) ReadOAM(a uint16) uint8 {
	if p.oamLocked() {
		return 0xFF
	}
	return p.oam[a-addr.OAMStart]
}

func (p *PPU) WriteOAM(a uint16, value uint8) {
	if p.oamLocked() {
		return
	}
	p.oam[a-addr.OAMStart] = value
}

// ReadRegister implements mmu.VideoUnit's register surface: LCDC..WX,
// VBK, HDMA1-5, BCPS/BCPD/OCPS/OCPD.
func (p *PPU) ReadRegister(a uint16) uint8 {
	switch a {
	case addr.LCDC:
		return p.lcdc
	case addr.STAT:
		return p.stat | 0x80
	case addr.SCY:
		return p.scy
	case addr.SCX:
		return p.scx
	case addr.LY:
		if p.lcdc&0x80 == 0 {
			return 0
		}
		return p.ly
	case addr.LYC:
		return p.lyc
	case addr.BGP:
		return p.bgp
	case addr.OBP0:
		return p.obp0
	case addr.OBP1:
		return p.obp1
	case addr.WY:
		return p.wy
	case addr.WX:
		return p.wx
	case addr.VBK:
		if !p.cgb {
			return 0xFF
		}
		return p.vbk | 0xFE
	case addr.HDMA5:
		if !p.cgb {
			return 0xFF
		}
		return p.hdma.readHDMA5()
	case addr.HDMA1, addr.HDMA2, addr.HDMA3, addr.HDMA4:
		return 0xFF // write-only on real hardware
	case addr.BCPS:
		return p.bgPalette.readIndexReg()
	case addr.BCPD:
		return p.bgPalette.readData()
	case addr.OCPS:
		return p.objPalette.readIndexReg()
	case addr.OCPD:
		return p.objPalette.readData()
	default:
		return 0xFF
	}
}

// WriteRegister implements mmu.VideoUnit's register surface, reporting
// any extra CPU-stall cycles an HDMA5 write's GDMA burst incurred.
func (p *PPU) WriteRegister(a uint16, value uint8) (stallCycles int) {
	switch a {
	case addr.LCDC:
		p.setLCDEnable(value&0x80 != 0)
		p.lcdc = value
	case addr.STAT:
		p.stat = (p.stat & 0x07) | (value & 0x78)
	case addr.SCY:
		p.scy = value
	case addr.SCX:
		p.scx = value
	case addr.LY:
		// read-only; writes are ignored
	case addr.LYC:
		p.lyc = value
		p.updateLYCFlag()
	case addr.BGP:
		p.bgp = value
	case addr.OBP0:
		p.obp0 = value
	case addr.OBP1:
		p.obp1 = value
	case addr.WY:
		p.wy = value
	case addr.WX:
		p.wx = value
	case addr.VBK:
		if p.cgb {
			p.vbk = value & 0x01
		}
	case addr.HDMA1:
		if p.cgb {
			p.hdma.srcHigh = value
		}
	case addr.HDMA2:
		if p.cgb {
			p.hdma.srcLow = value
		}
	case addr.HDMA3:
		if p.cgb {
			p.hdma.dstHigh = value
		}
	case addr.HDMA4:
		if p.cgb {
			p.hdma.dstLow = value
		}
	case addr.HDMA5:
		if p.cgb {
			return p.startTransfer(value)
		}
	case addr.BCPS:
		p.bgPalette.writeIndex(value)
	case addr.BCPD:
		p.bgPalette.writeData(value)
	case addr.OCPS:
		p.objPalette.writeIndex(value)
	case addr.OCPD:
		p.objPalette.writeData(value)
	}
	return 0
}
