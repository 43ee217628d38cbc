package cart

// MBC2 has a built-in 512x4-bit RAM and a simpler banking scheme than
// MBC1: address bit 8 of the write selects whether the low nibble
// enables RAM or selects the ROM bank (spec.md §4.3).
type MBC2 struct {
	rom []uint8
	ram [512]uint8 // only the low nibble of each byte is meaningful

	ramEnabled bool
	romBank    uint8

	hasBattery bool
	romBanks   int
}

func newMBC2(c *Cartridge) *MBC2 {
	return &MBC2{
		rom:        c.ROM(),
		romBank:    1,
		hasBattery: c.HasBattery,
		romBanks:   c.ROMBanks,
	}
}

func (m *MBC2) ReadROM(addr uint16) uint8 {
	var offset int
	if addr <= 0x3FFF {
		offset = int(addr)
	} else {
		bank := int(m.romBank)
		if m.romBanks > 0 {
			bank %= m.romBanks
		}
		offset = bank*0x4000 + int(addr-0x4000)
	}
	if offset >= len(m.rom) {
		return 0xFF
	}
	return m.rom[offset]
}

func (m *MBC2) WriteROM(addr uint16, value uint8) {
	if addr > 0x3FFF {
		return
	}
	if bit8(addr) {
		bank := value & 0x0F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	} else {
		m.ramEnabled = value&0x0F == 0x0A
	}
}

// bit8 reports whether bit 8 of the write address is set, which selects
// between the RAM-enable and ROM-bank-select behavior of MBC2 writes.
func bit8(addr uint16) bool {
	return addr&0x0100 != 0
}

func (m *MBC2) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled {
		return 0xFF
	}
	idx := int(addr-0xA000) % len(m.ram)
	return m.ram[idx] | 0xF0
}

func (m *MBC2) WriteRAM(addr uint16, value uint8) {
	if !m.ramEnabled {
		return
	}
	idx := int(addr-0xA000) % len(m.ram)
	m.ram[idx] = value & 0x0F
}

func (m *MBC2) Save() []byte {
	if !m.hasBattery {
		return nil
	}
	blob := make([]byte, len(m.ram))
	copy(blob, m.ram[:])
	return blob
}

func (m *MBC2) Load(blob []byte) {
	n := copy(m.ram[:], blob)
	_ = n
}
