package video

import "github.com/ptarmigan-labs/gbcore/gbcore/bit"

// spriteHit is one sprite row selected for the current scanline: an
// 8-pixel color-index row already Y/X-flipped and ready to composite
// (spec.md §3 "Per-line scratchpad").
type spriteHit struct {
	screenX         int
	row             [8]uint8
	dmgPalette      uint8 // selects OBP0 (0) or OBP1 (1)
	priorityUnderBG bool
	cgbPaletteNum   uint8
	oamIndex        int
	colSelected     int // column within row chosen by spriteAt; set lazily
}

// scanSprites implements the OAMSearch sprite-selection rule: inspect
// all 40 OAM entries, keep the first 10 (in OAM order) whose row
// overlaps p.ly (spec.md §4.4 "OAMSearch").
func (p *PPU) scanSprites() []spriteHit {
	if p.lcdc&0x02 == 0 {
		return nil
	}

	height := 8
	if p.lcdc&0x04 != 0 {
		height = 16
	}

	var hits []spriteHit
	for i := 0; i < 40 && len(hits) < 10; i++ {
		base := i * 4
		y := int(p.oam[base]) - 16
		x := int(p.oam[base+1]) - 8
		tile := p.oam[base+2]
		attr := p.oam[base+3]

		line := int(p.ly)
		if line < y || line >= y+height {
			continue
		}

		rowInSprite := line - y
		if attr&0x40 != 0 { // Y flip
			rowInSprite = height - 1 - rowInSprite
		}

		if height == 16 {
			tile &^= 0x01
			if rowInSprite >= 8 {
				tile |= 0x01
				rowInSprite -= 8
			}
		}

		bank := uint16(0)
		if p.cgb && attr&0x08 != 0 {
			bank = 1
		}
		lo, hi := p.tileRowBytes(bank, tileDataAddrUnsigned(tile), rowInSprite)

		hit := spriteHit{
			screenX:         x,
			dmgPalette:      bit.Value(4, attr),
			priorityUnderBG: attr&0x80 != 0,
			cgbPaletteNum:   attr & 0x07,
			oamIndex:        i,
		}
		flipX := attr&0x20 != 0
		for px := 0; px < 8; px++ {
			bitIdx := px
			if !flipX {
				bitIdx = 7 - px
			}
			hit.row[px] = (bit.Value(uint8(bitIdx), hi) << 1) | bit.Value(uint8(bitIdx), lo)
		}

		hits = append(hits, hit)
	}

	return hits
}

// tileDataAddrUnsigned computes the VRAM offset of a tile's first byte
// using the sprite/CGB-attribute unsigned tile indexing scheme (always
// relative to 0x8000, unlike BG/window's signed-addressing LCDC bit 4).
func tileDataAddrUnsigned(tile uint8) uint16 {
	return uint16(tile) * 16
}
