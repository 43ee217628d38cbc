package gbcore

import "github.com/ptarmigan-labs/gbcore/gbcore/addr"

// postBootIO holds the documented post-boot-ROM values of every I/O
// register that isn't already reset by its owning component's zero
// value (spec.md §8 "DMG boot logo" scenario: LCDC=0x91, BGP=0xFC, ...).
// Applied directly to the bus only when no real boot ROM image was
// supplied, standing in for the boot ROM's own register writes.
var postBootIO = []struct {
	addr  uint16
	value uint8
}{
	{addr.P1, 0xCF},
	{addr.TAC, 0xF8},
	{addr.IF, 0xE1},
	{addr.LCDC, 0x91},
	{addr.SCY, 0x00},
	{addr.SCX, 0x00},
	{addr.LYC, 0x00},
	{addr.BGP, 0xFC},
	{addr.OBP0, 0xFF},
	{addr.OBP1, 0xFF},
	{addr.WY, 0x00},
	{addr.WX, 0x00},
}

func applyPostBootIO(write func(addr uint16, value uint8)) {
	for _, reg := range postBootIO {
		write(reg.addr, reg.value)
	}
}
