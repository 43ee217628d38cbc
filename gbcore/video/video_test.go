package video

import (
	"testing"

	"github.com/ptarmigan-labs/gbcore/gbcore/addr"
	"github.com/stretchr/testify/assert"
)

func newTestPPU(cgb bool) (*PPU, *[]addr.Interrupt) {
	var raised []addr.Interrupt
	p := New(cgb, func(i addr.Interrupt) { raised = append(raised, i) })
	p.WriteRegister(addr.LCDC, 0x91) // LCD+BG enabled (OBJ off), tile data 0x8000
	return p, &raised
}

func TestModeTransitionsAcrossOneLine(t *testing.T) {
	p, _ := newTestPPU(false)

	assert.Equal(t, ModeOAMSearch, p.mode)

	p.Tick(dotsOAMSearch - 1)
	assert.Equal(t, ModeOAMSearch, p.mode)
	p.Tick(1)
	assert.Equal(t, ModeLineDraw, p.mode)

	p.Tick(dotsLineDraw - 1)
	assert.Equal(t, ModeLineDraw, p.mode)
	p.Tick(1)
	assert.Equal(t, ModeHBlank, p.mode)

	remaining := dotsPerLine - dotsOAMSearch - dotsLineDraw
	p.Tick(remaining)
	assert.Equal(t, ModeOAMSearch, p.mode)
	assert.Equal(t, uint8(1), p.ly)
}

func TestFrameCompletesAfterFullFrame(t *testing.T) {
	p, _ := newTestPPU(false)

	totalDots := dotsPerLine * 154
	completed, _ := p.Tick(totalDots - 1)
	assert.False(t, completed)

	completed, _ = p.Tick(1)
	assert.True(t, completed)
	assert.Equal(t, uint8(0), p.ly)
}

func TestSTATInterruptRaisedExactlyOnceOnModeEntry(t *testing.T) {
	p, raised := newTestPPU(false)
	p.WriteRegister(addr.STAT, 0x20) // enable mode-2 (OAM) STAT interrupt

	*raised = nil
	p.Tick(dotsOAMSearch + dotsLineDraw) // run through OAMSearch+Draw into HBlank
	p.Tick(dotsPerLine - dotsOAMSearch - dotsLineDraw) // land back on OAMSearch of next line

	count := 0
	for _, r := range *raised {
		if r == addr.LCDSTATInterrupt {
			count++
		}
	}
	assert.Equal(t, 1, count, "OAMSearch STAT interrupt fires exactly once per entry")
}

func TestLYCInterruptFiresOnMatch(t *testing.T) {
	p, raised := newTestPPU(false)
	p.WriteRegister(addr.LYC, 1)
	p.WriteRegister(addr.STAT, 0x40) // enable LYC=LY interrupt

	*raised = nil
	p.Tick(dotsPerLine) // advance to line 1

	assert.Equal(t, uint8(1), p.ly)
	assert.Contains(t, *raised, addr.LCDSTATInterrupt)
}

func TestVBlankRaisesIFAndSTAT(t *testing.T) {
	p, raised := newTestPPU(false)
	p.WriteRegister(addr.STAT, 0x10) // enable mode-1 STAT interrupt

	*raised = nil
	p.Tick(dotsPerLine * vblankLine) // advance from line 0 to line 144

	assert.Equal(t, uint8(vblankLine), p.ly)
	assert.Equal(t, ModeVBlank, p.mode)
	assert.Contains(t, *raised, addr.VBlankInterrupt)
	assert.Contains(t, *raised, addr.LCDSTATInterrupt)
}

func TestBGPRoundTripAndPaletteDecode(t *testing.T) {
	p, _ := newTestPPU(false)

	p.WriteRegister(addr.BGP, 0xE4) // 11 10 01 00 -> shades 3,2,1,0
	assert.Equal(t, uint8(0xE4), p.ReadRegister(addr.BGP))

	r, g, b := dmgTranslate(0, 0xE4)
	assert.Equal(t, dmgShades[0], [3]uint8{r, g, b})
	r, g, b = dmgTranslate(1, 0xE4)
	assert.Equal(t, dmgShades[1], [3]uint8{r, g, b})
	r, g, b = dmgTranslate(2, 0xE4)
	assert.Equal(t, dmgShades[2], [3]uint8{r, g, b})
	r, g, b = dmgTranslate(3, 0xE4)
	assert.Equal(t, dmgShades[3], [3]uint8{r, g, b})
}

func TestSpriteScanSelectsAtMostTen(t *testing.T) {
	p, _ := newTestPPU(false)
	p.WriteRegister(addr.LCDC, 0x93) // LCD+BG+OBJ enabled, 8x8 sprites

	for i := 0; i < 20; i++ {
		base := i * 4
		p.oam[base] = 16     // Y=0 on screen, overlaps line 0
		p.oam[base+1] = uint8(8 + i)
		p.oam[base+2] = 0
		p.oam[base+3] = 0
	}
	p.ly = 0

	hits := p.scanSprites()
	assert.Len(t, hits, 10)
}

func TestOAMAndVRAMLockedDuringPPUModes(t *testing.T) {
	p, _ := newTestPPU(false)

	assert.Equal(t, ModeOAMSearch, p.mode)
	assert.Equal(t, uint8(0xFF), p.ReadOAM(addr.OAMStart))
	assert.NotEqual(t, uint8(0xFF), p.ReadVRAM(0x8000)) // VRAM not locked during OAMSearch

	p.Tick(dotsOAMSearch)
	assert.Equal(t, ModeLineDraw, p.mode)
	assert.Equal(t, uint8(0xFF), p.ReadVRAM(0x8000))
	assert.Equal(t, uint8(0xFF), p.ReadOAM(addr.OAMStart))

	p.Tick(dotsLineDraw)
	assert.Equal(t, ModeHBlank, p.mode)
	assert.NotEqual(t, uint8(0xFF), p.ReadVRAM(0x8000))
	assert.NotEqual(t, uint8(0xFF), p.ReadOAM(addr.OAMStart))
}

func TestGDMACopiesAtomicallyAndReportsStall(t *testing.T) {
	p, _ := newTestPPU(true)
	src := make([]uint8, 0x1000)
	for i := range src {
		src[i] = uint8(i)
	}
	p.AttachBusReader(func(a uint16) uint8 { return src[a] })

	p.WriteRegister(addr.HDMA1, 0x00) // src high
	p.WriteRegister(addr.HDMA2, 0x00) // src low -> source 0x0000
	p.WriteRegister(addr.HDMA3, 0x80) // dest high -> 0x8000
	p.WriteRegister(addr.HDMA4, 0x00)

	stall := p.WriteRegister(addr.HDMA5, 0x00) // length unit 0 -> 16 bytes, GDMA mode

	assert.Equal(t, 8, stall)
	assert.Equal(t, uint8(0xFF), p.ReadRegister(addr.HDMA5))
	for i := 0; i < 16; i++ {
		assert.Equal(t, uint8(i), p.vram[0][i])
	}
}

func TestHDMATransfersSixteenBytesPerHBlank(t *testing.T) {
	p, _ := newTestPPU(true)
	src := make([]uint8, 0x1000)
	for i := range src {
		src[i] = uint8(0x80 + i)
	}
	p.AttachBusReader(func(a uint16) uint8 { return src[a] })

	p.WriteRegister(addr.HDMA1, 0x00)
	p.WriteRegister(addr.HDMA2, 0x00)
	p.WriteRegister(addr.HDMA3, 0x80)
	p.WriteRegister(addr.HDMA4, 0x00)
	p.WriteRegister(addr.HDMA5, 0x81) // HBlank mode, 2 units (32 bytes)

	p.runHDMA()

	for i := 0; i < 16; i++ {
		assert.Equal(t, uint8(0x80+i), p.vram[0][i])
	}
	assert.True(t, p.hdma.active)
	assert.Equal(t, uint8(0), p.hdma.lengthUnits)
}
