package cart

// MBC is the interface every memory bank controller implements. The bus
// (gbcore/mmu) routes all cartridge ROM (0x0000-0x7FFF) and cartridge RAM
// (0xA000-0xBFFF) reads/writes here; writes into the ROM range never touch
// ROM contents, they only drive mapper state (spec.md §3 invariant).
type MBC interface {
	ReadROM(addr uint16) uint8
	WriteROM(addr uint16, value uint8)
	ReadRAM(addr uint16) uint8
	WriteRAM(addr uint16, value uint8)

	// Save returns the battery-backed portion of mapper state in the
	// spec.md §4.3 layout, or nil if the cartridge has no battery.
	Save() []byte
	// Load restores mapper state previously returned by Save.
	Load(blob []byte)
}

// NewMBC constructs the mapper implementation for a parsed cartridge.
func NewMBC(c *Cartridge) MBC {
	switch c.Mapper {
	case MapperMBC1:
		return newMBC1(c)
	case MapperMBC2:
		return newMBC2(c)
	case MapperMBC3:
		return newMBC3(c)
	case MapperMBC5:
		return newMBC5(c)
	default:
		return newNoMBC(c)
	}
}

// NoMBC backs cartridges with no banking hardware (32 KiB ROM, optionally
// 8 KiB of unbanked RAM).
type NoMBC struct {
	rom        []uint8
	ram        []uint8
	hasBattery bool
}

func newNoMBC(c *Cartridge) *NoMBC {
	ramSize := 0
	if c.RAMBanks > 0 {
		ramSize = c.RAMBanks * 0x2000
	}
	return &NoMBC{
		rom:        c.ROM(),
		ram:        make([]uint8, ramSize),
		hasBattery: c.HasBattery,
	}
}

func (m *NoMBC) ReadROM(addr uint16) uint8 {
	if int(addr) >= len(m.rom) {
		return 0xFF
	}
	return m.rom[addr]
}

func (m *NoMBC) WriteROM(addr uint16, value uint8) {}

func (m *NoMBC) ReadRAM(addr uint16) uint8 {
	idx := addr - 0xA000
	if len(m.ram) == 0 || int(idx) >= len(m.ram) {
		return 0xFF
	}
	return m.ram[idx]
}

func (m *NoMBC) WriteRAM(addr uint16, value uint8) {
	idx := addr - 0xA000
	if len(m.ram) == 0 || int(idx) >= len(m.ram) {
		return
	}
	m.ram[idx] = value
}

func (m *NoMBC) Save() []byte {
	if !m.hasBattery || len(m.ram) == 0 {
		return nil
	}
	return append([]byte(nil), m.ram...)
}

func (m *NoMBC) Load(blob []byte) {
	copy(m.ram, blob)
}
