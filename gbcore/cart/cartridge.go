// Package cart owns cartridge header parsing, the MBC1/2/3/5 mapper
// implementations, and the battery-backed save-blob format described in
// spec.md §4.3.
package cart

import (
	"strings"
	"unicode"
)

// MapperType identifies which memory bank controller a cartridge uses.
type MapperType int

const (
	MapperNone MapperType = iota
	MapperMBC1
	MapperMBC2
	MapperMBC3
	MapperMBC5
	MapperUnknown
)

const (
	titleAddress          = 0x134
	titleLength           = 16
	cgbFlagAddress        = 0x143
	cartridgeTypeAddress  = 0x147
	romSizeAddress        = 0x148
	ramSizeAddress        = 0x149
	headerChecksumAddress = 0x14D
)

// ramBankCounts maps the header's RAM-size code (0x149) to the number of
// 8 KiB banks, per spec.md §3's {0,1,4,8,16} enumeration.
var ramBankCounts = [...]uint8{0, 1, 1, 4, 16, 8}

// Cartridge holds the parsed header plus the raw ROM image. The MBC
// implementation (created by NewMBC) owns bank-switching and RAM.
type Cartridge struct {
	Title      string
	CGBCapable bool
	Mapper     MapperType
	HasBattery bool
	HasRTC     bool
	HasRumble  bool
	ROMBanks   int
	RAMBanks   int

	data []byte
}

// NewBlank returns an empty cartridge, equivalent to powering on the
// console with no cartridge inserted.
func NewBlank() *Cartridge {
	return &Cartridge{
		Mapper:   MapperNone,
		ROMBanks: 2,
		data:     make([]byte, 0x8000),
	}
}

// NewFromData parses a ROM image into a Cartridge. No checksum is
// enforced, matching spec.md §6.
func NewFromData(rom []byte) *Cartridge {
	c := &Cartridge{
		data: append([]byte(nil), rom...),
	}

	if len(rom) > titleAddress {
		end := titleAddress + titleLength
		if end > len(rom) {
			end = len(rom)
		}
		// On CGB-capable cartridges the last title byte holds the CGB flag.
		if end > cgbFlagAddress && (rom[cgbFlagAddress] == 0x80 || rom[cgbFlagAddress] == 0xC0) {
			end = cgbFlagAddress
		}
		c.Title = cleanTitle(rom[titleAddress:end])
	}

	if len(rom) > cgbFlagAddress {
		flag := rom[cgbFlagAddress]
		c.CGBCapable = flag == 0x80 || flag == 0xC0
	}

	var cartType, romSizeCode, ramSizeCode byte
	if len(rom) > cartridgeTypeAddress {
		cartType = rom[cartridgeTypeAddress]
	}
	if len(rom) > romSizeAddress {
		romSizeCode = rom[romSizeAddress]
	}
	if len(rom) > ramSizeAddress {
		ramSizeCode = rom[ramSizeAddress]
	}

	c.Mapper, c.HasBattery, c.HasRTC, c.HasRumble = decodeCartType(cartType)
	c.ROMBanks = 2 << romSizeCode
	if int(ramSizeCode) < len(ramBankCounts) {
		c.RAMBanks = int(ramBankCounts[ramSizeCode])
	}

	return c
}

// decodeCartType maps the header's cartridge-type byte (0x147) to a
// mapper kind plus the battery/RTC/rumble feature flags.
func decodeCartType(t byte) (mapper MapperType, battery, rtc, rumble bool) {
	switch t {
	case 0x00:
		return MapperNone, false, false, false
	case 0x08, 0x09:
		return MapperNone, t == 0x09, false, false
	case 0x01:
		return MapperMBC1, false, false, false
	case 0x02:
		return MapperMBC1, false, false, false
	case 0x03:
		return MapperMBC1, true, false, false
	case 0x05:
		return MapperMBC2, false, false, false
	case 0x06:
		return MapperMBC2, true, false, false
	case 0x0F:
		return MapperMBC3, true, true, false
	case 0x10:
		return MapperMBC3, true, true, false
	case 0x11:
		return MapperMBC3, false, false, false
	case 0x12:
		return MapperMBC3, false, false, false
	case 0x13:
		return MapperMBC3, true, false, false
	case 0x19:
		return MapperMBC5, false, false, false
	case 0x1A:
		return MapperMBC5, false, false, false
	case 0x1B:
		return MapperMBC5, true, false, false
	case 0x1C:
		return MapperMBC5, false, false, true
	case 0x1D:
		return MapperMBC5, false, false, true
	case 0x1E:
		return MapperMBC5, true, false, true
	default:
		return MapperUnknown, false, false, false
	}
}

// cleanTitle converts NUL padding to spaces, trims whitespace, and
// replaces non-printable bytes so the title is safe to log or display.
func cleanTitle(raw []byte) string {
	runes := make([]rune, 0, len(raw))
	for _, b := range raw {
		r := rune(b)
		switch {
		case r == 0:
			r = ' '
		case !unicode.IsPrint(r):
			r = '?'
		}
		runes = append(runes, r)
	}
	title := strings.TrimSpace(string(runes))
	if title == "" {
		return "(untitled)"
	}
	return title
}

// ROM returns the raw cartridge image, for mapper construction.
func (c *Cartridge) ROM() []byte {
	return c.data
}
