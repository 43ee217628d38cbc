package cart

import "testing"

func newTestMBC3(banks, ramBanks int, battery, rtc bool) *MBC3 {
	c := &Cartridge{
		Mapper:     MapperMBC3,
		HasBattery: battery,
		HasRTC:     rtc,
		ROMBanks:   banks,
		RAMBanks:   ramBanks,
		data:       makeROM(banks),
	}
	return newMBC3(c)
}

func TestMBC3SevenBitBankSelect(t *testing.T) {
	mbc := newTestMBC3(128, 0, false, false)
	mbc.WriteROM(0x2000, 0x7F)
	if got := mbc.ReadROM(0x4000); got != 0x7F {
		t.Errorf("ReadROM(0x4000) = %d; want 127", got)
	}
}

func TestMBC3RTCLatchSnapshotsLiveIntoLatched(t *testing.T) {
	mbc := newTestMBC3(2, 0, true, true)
	now := int64(1000)
	mbc.clockNow = func() int64 { return now }
	mbc.clock.lastSync = now

	mbc.WriteROM(0x0000, 0x0A) // enable RAM/RTC

	now += 90 // 1 minute 30 seconds elapsed
	mbc.WriteROM(0x6000, 0x00)
	mbc.WriteROM(0x6000, 0x01) // latch transition

	mbc.WriteROM(0x4000, rtcSeconds)
	if got := mbc.ReadRAM(0xA000); got != 30 {
		t.Errorf("latched seconds = %d; want 30", got)
	}
	mbc.WriteROM(0x4000, rtcMinutes)
	if got := mbc.ReadRAM(0xA000); got != 1 {
		t.Errorf("latched minutes = %d; want 1", got)
	}
}

func TestMBC3RTCHaltStopsAdvance(t *testing.T) {
	mbc := newTestMBC3(2, 0, true, true)
	now := int64(2000)
	mbc.clockNow = func() int64 { return now }
	mbc.clock.lastSync = now

	mbc.WriteROM(0x0000, 0x0A)
	mbc.WriteROM(0x4000, rtcDaysHi)
	mbc.WriteRAM(0xA000, 0x40) // halt bit set

	now += 3600
	mbc.WriteROM(0x6000, 0x00)
	mbc.WriteROM(0x6000, 0x01)

	mbc.WriteROM(0x4000, rtcHours)
	if got := mbc.ReadRAM(0xA000); got != 0 {
		t.Errorf("hours advanced while halted: got %d; want 0", got)
	}
}

func TestMBC3SaveLoadRoundTripIncludesRTC(t *testing.T) {
	mbc := newTestMBC3(2, 1, true, true)
	now := int64(5000)
	mbc.clockNow = func() int64 { return now }
	mbc.clock.lastSync = now

	mbc.WriteROM(0x0000, 0x0A)
	mbc.WriteRAM(0xA000, 0x55) // RAM bank 0 byte

	blob := mbc.Save()
	if len(blob) != 0x2000+18 {
		t.Fatalf("save blob length = %d; want %d", len(blob), 0x2000+18)
	}

	other := newTestMBC3(2, 1, true, true)
	other.Load(blob)
	other.WriteROM(0x0000, 0x0A)
	if got := other.ReadRAM(0xA000); got != 0x55 {
		t.Errorf("loaded RAM byte = 0x%02X; want 0x55", got)
	}
}
