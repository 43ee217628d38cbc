package cart

import "testing"

func TestNewFromDataParsesHeader(t *testing.T) {
	rom := make([]uint8, 0x8000)
	copy(rom[titleAddress:], []byte("TESTGAME"))
	rom[cgbFlagAddress] = 0xC0
	rom[cartridgeTypeAddress] = 0x03 // MBC1+RAM+BATTERY
	rom[romSizeAddress] = 0x01       // 4 banks
	rom[ramSizeAddress] = 0x03       // 4 banks

	c := NewFromData(rom)

	if c.Title != "TESTGAME" {
		t.Errorf("Title = %q; want TESTGAME", c.Title)
	}
	if !c.CGBCapable {
		t.Errorf("expected CGBCapable")
	}
	if c.Mapper != MapperMBC1 || !c.HasBattery {
		t.Errorf("Mapper/HasBattery = %v/%v; want MBC1/true", c.Mapper, c.HasBattery)
	}
	if c.ROMBanks != 4 {
		t.Errorf("ROMBanks = %d; want 4", c.ROMBanks)
	}
	if c.RAMBanks != 4 {
		t.Errorf("RAMBanks = %d; want 4", c.RAMBanks)
	}
}

func TestCleanTitleFallsBackWhenEmpty(t *testing.T) {
	got := cleanTitle(make([]byte, 16))
	if got != "(untitled)" {
		t.Errorf("cleanTitle(all-NUL) = %q; want (untitled)", got)
	}
}

func TestDecodeCartTypeMBC3RTC(t *testing.T) {
	mapper, battery, rtc, rumble := decodeCartType(0x10)
	if mapper != MapperMBC3 || !battery || !rtc || rumble {
		t.Errorf("decodeCartType(0x10) = %v,%v,%v,%v; want MBC3,true,true,false", mapper, battery, rtc, rumble)
	}
}
