package cart

// MBC5 supports up to 512 ROM banks via a 9-bit bank number split across
// two write regions, and up to 16 RAM banks. Unlike MBC1, bank 0 is a
// legal ROM bank select (spec.md §4.3).
type MBC5 struct {
	rom []uint8
	ram []uint8

	ramEnabled bool
	romBankLo  uint8 // 0x2000-0x2FFF, low 8 bits
	romBankHi  uint8 // 0x3000-0x3FFF, bit 0 only
	ramBank    uint8 // 0x4000-0x5FFF, 4-bit

	hasBattery bool
	hasRumble  bool
	romBanks   int
}

func newMBC5(c *Cartridge) *MBC5 {
	ramSize := c.RAMBanks * 0x2000
	return &MBC5{
		rom:        c.ROM(),
		ram:        make([]uint8, ramSize),
		hasBattery: c.HasBattery,
		hasRumble:  c.HasRumble,
		romBanks:   c.ROMBanks,
	}
}

func (m *MBC5) bank() int {
	bank := int(m.romBankHi&0x01)<<8 | int(m.romBankLo)
	if m.romBanks > 0 {
		bank %= m.romBanks
	}
	return bank
}

func (m *MBC5) ReadROM(addr uint16) uint8 {
	var offset int
	switch {
	case addr <= 0x3FFF:
		offset = int(addr)
	default:
		offset = m.bank()*0x4000 + int(addr-0x4000)
	}
	if offset >= len(m.rom) {
		return 0xFF
	}
	return m.rom[offset]
}

func (m *MBC5) WriteROM(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case addr <= 0x2FFF:
		m.romBankLo = value
	case addr <= 0x3FFF:
		m.romBankHi = value & 0x01
	case addr <= 0x5FFF:
		// Bit 3 of the RAM-bank select additionally drives the rumble
		// motor on cartridges that have one; emulated as a no-op here
		// since haptic output is outside this module's scope.
		m.ramBank = value & 0x0F
	}
}

func (m *MBC5) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled || len(m.ram) == 0 {
		return 0xFF
	}
	offset := int(m.ramBank)*0x2000 + int(addr-0xA000)
	if offset >= len(m.ram) {
		return 0xFF
	}
	return m.ram[offset]
}

func (m *MBC5) WriteRAM(addr uint16, value uint8) {
	if !m.ramEnabled || len(m.ram) == 0 {
		return
	}
	offset := int(m.ramBank)*0x2000 + int(addr-0xA000)
	if offset >= len(m.ram) {
		return
	}
	m.ram[offset] = value
}

func (m *MBC5) Save() []byte {
	if !m.hasBattery || len(m.ram) == 0 {
		return nil
	}
	return append([]byte(nil), m.ram...)
}

func (m *MBC5) Load(blob []byte) {
	copy(m.ram, blob)
}
