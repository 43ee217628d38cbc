package cart

import "testing"

func newTestMBC2(banks int, battery bool) *MBC2 {
	c := &Cartridge{
		Mapper:     MapperMBC2,
		HasBattery: battery,
		ROMBanks:   banks,
		data:       makeROM(banks),
	}
	return newMBC2(c)
}

func TestMBC2ROMBankSelectViaAddressBit8(t *testing.T) {
	mbc := newTestMBC2(16, false)

	mbc.WriteROM(0x0100, 0x05) // bit 8 set -> ROM bank select
	if got := mbc.ReadROM(0x4000); got != 5 {
		t.Errorf("ReadROM(0x4000) = %d; want 5", got)
	}

	mbc.WriteROM(0x0000, 0x0A) // bit 8 clear -> RAM enable, must not change bank
	if got := mbc.ReadROM(0x4000); got != 5 {
		t.Errorf("RAM-enable write changed ROM bank: got %d; want 5", got)
	}
}

func TestMBC2RAMUpperNibbleUndefined(t *testing.T) {
	mbc := newTestMBC2(2, false)
	mbc.WriteROM(0x0000, 0x0A) // enable RAM

	mbc.WriteRAM(0xA000, 0x07)
	if got := mbc.ReadRAM(0xA000); got != 0xF7 {
		t.Errorf("ReadRAM = 0x%02X; want 0xF7 (undefined upper nibble set)", got)
	}
}

func TestMBC2SaveLoadRoundTrip(t *testing.T) {
	mbc := newTestMBC2(2, true)
	mbc.WriteROM(0x0000, 0x0A)
	mbc.WriteRAM(0xA010, 0x03)

	blob := mbc.Save()
	other := newTestMBC2(2, true)
	other.Load(blob)
	other.WriteROM(0x0000, 0x0A)

	if got := other.ReadRAM(0xA010); got != 0xF3 {
		t.Errorf("loaded RAM = 0x%02X; want 0xF3", got)
	}
}
