package mmu

// oamDMA models the 0xFF46 OAM-DMA transfer: a 3-cycle setup latency
// followed by 160 bytes copied from source into OAM at 4 T-cycles per
// byte, 640 T-cycles total (spec.md §4.5).
type oamDMA struct {
	active     bool
	source     uint16
	bytesCopied int
	setupDelay int
}

func (d *oamDMA) start(sourceHigh uint8) {
	d.active = true
	d.source = uint16(sourceHigh) << 8
	d.bytesCopied = 0
	d.setupDelay = 3
}

// tick advances the transfer and copies any bytes now due. copyByte is
// called with (destination OAM offset 0-159, source address) for each
// byte that completes this tick.
func (d *oamDMA) tick(cycles int, copyByte func(oamOffset uint8, source uint16)) {
	if !d.active {
		return
	}

	for i := 0; i < cycles; i++ {
		if d.setupDelay > 0 {
			d.setupDelay--
			continue
		}

		d.bytesCopied++
		if d.bytesCopied%4 == 0 {
			idx := d.bytesCopied/4 - 1
			copyByte(uint8(idx), d.source+uint16(idx))
		}

		if d.bytesCopied >= 160*4 {
			d.active = false
			return
		}
	}
}
