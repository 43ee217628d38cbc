package cart

// MBC1 is the first and most common mapper chip: up to 125 switchable
// 16 KiB ROM banks and up to 4 switchable 8 KiB RAM banks. The 2-bit
// upper bank register always feeds the 0x4000-0x7FFF ROM bank number; the
// mode bit decides whether it also selects the 0x0000-0x3FFF ROM bank and
// the RAM bank (spec.md §4.3).
type MBC1 struct {
	rom []uint8
	ram []uint8

	ramEnabled bool
	bankLo     uint8 // 5-bit ROM bank select, 0x2000-0x3FFF
	bankHi     uint8 // 2-bit upper ROM bank / RAM bank, 0x4000-0x5FFF
	mode       uint8 // 0 = ROM banking mode, 1 = RAM banking mode

	hasBattery bool
	romBanks   int
}

func newMBC1(c *Cartridge) *MBC1 {
	ramSize := c.RAMBanks * 0x2000
	return &MBC1{
		rom:        c.ROM(),
		ram:        make([]uint8, ramSize),
		bankLo:     1,
		hasBattery: c.HasBattery,
		romBanks:   c.ROMBanks,
	}
}

func (m *MBC1) romBankLow() int {
	if m.mode == 1 {
		return int(m.bankHi) << 5
	}
	return 0
}

func (m *MBC1) romBankHigh() int {
	bank := int(m.bankHi)<<5 | int(m.bankLo)
	if m.romBanks > 0 {
		bank %= m.romBanks
	}
	return bank
}

func (m *MBC1) ReadROM(addr uint16) uint8 {
	var offset int
	switch {
	case addr <= 0x3FFF:
		offset = m.romBankLow()*0x4000 + int(addr)
	default:
		offset = m.romBankHigh()*0x4000 + int(addr-0x4000)
	}
	if offset < 0 || offset >= len(m.rom) {
		return 0xFF
	}
	return m.rom[offset]
}

func (m *MBC1) WriteROM(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case addr <= 0x3FFF:
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.bankLo = bank
	case addr <= 0x5FFF:
		m.bankHi = value & 0x03
	default:
		m.mode = value & 0x01
	}
}

func (m *MBC1) ramBank() int {
	if m.mode == 1 {
		return int(m.bankHi)
	}
	return 0
}

func (m *MBC1) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled || len(m.ram) == 0 {
		return 0xFF
	}
	offset := m.ramBank()*0x2000 + int(addr-0xA000)
	if offset >= len(m.ram) {
		return 0xFF
	}
	return m.ram[offset]
}

func (m *MBC1) WriteRAM(addr uint16, value uint8) {
	if !m.ramEnabled || len(m.ram) == 0 {
		return
	}
	offset := m.ramBank()*0x2000 + int(addr-0xA000)
	if offset >= len(m.ram) {
		return
	}
	m.ram[offset] = value
}

func (m *MBC1) Save() []byte {
	if !m.hasBattery || len(m.ram) == 0 {
		return nil
	}
	return append([]byte(nil), m.ram...)
}

func (m *MBC1) Load(blob []byte) {
	copy(m.ram, blob)
}
