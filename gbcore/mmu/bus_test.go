package mmu

import "testing"

type stubVideo struct {
	vram [0x2000]uint8
	oam  [0xA0]uint8
	regs map[uint16]uint8
}

func newStubVideo() *stubVideo {
	return &stubVideo{regs: make(map[uint16]uint8)}
}

func (v *stubVideo) ReadVRAM(a uint16) uint8     { return v.vram[a-0x8000] }
func (v *stubVideo) WriteVRAM(a uint16, x uint8) { v.vram[a-0x8000] = x }
func (v *stubVideo) ReadOAM(a uint16) uint8      { return v.oam[a-0xFE00] }
func (v *stubVideo) WriteOAM(a uint16, x uint8)  { v.oam[a-0xFE00] = x }
func (v *stubVideo) ReadRegister(a uint16) uint8 { return v.regs[a] }
func (v *stubVideo) WriteRegister(a uint16, x uint8) int {
	v.regs[a] = x
	return 0
}

func TestBusWRAMRoundTrip(t *testing.T) {
	b := NewBus(false)
	b.Write(0xC010, 0x42)
	if got := b.Read(0xC010); got != 0x42 {
		t.Errorf("WRAM round trip = 0x%02X; want 0x42", got)
	}
	// echo RAM mirrors 0xC000-0xDDFF
	if got := b.Read(0xE010); got != 0x42 {
		t.Errorf("echo RAM read = 0x%02X; want 0x42", got)
	}
}

func TestBusHRAMRoundTrip(t *testing.T) {
	b := NewBus(false)
	b.Write(0xFF90, 0x7E)
	if got := b.Read(0xFF90); got != 0x7E {
		t.Errorf("HRAM round trip = 0x%02X; want 0x7E", got)
	}
}

func TestBusWRAMBankSwitchCGB(t *testing.T) {
	b := NewBus(true)
	b.Write(0xD000, 0xAA) // bank 1 (default)
	b.Write(0xFF70, 0x02) // switch SVBK to bank 2
	b.Write(0xD000, 0xBB)
	b.Write(0xFF70, 0x01)
	if got := b.Read(0xD000); got != 0xAA {
		t.Errorf("bank 1 byte = 0x%02X; want 0xAA", got)
	}
	b.Write(0xFF70, 0x02)
	if got := b.Read(0xD000); got != 0xBB {
		t.Errorf("bank 2 byte = 0x%02X; want 0xBB", got)
	}
}

func TestBusOAMDMACopiesAfterSetupLatency(t *testing.T) {
	b := NewBus(false)
	video := newStubVideo()
	b.AttachVideo(video)

	for i := 0; i < 160; i++ {
		b.Write(0xC100+uint16(i), uint8(i+1))
	}

	b.Write(0xFF46, 0xC1) // source = 0xC100

	// 3-cycle setup latency, then one byte every 4 cycles.
	b.Tick(3)
	b.Tick(3)
	if got := video.oam[0]; got != 0 {
		t.Errorf("oam[0] = 0x%02X before its 4-cycle period elapses; want 0x00", got)
	}

	b.Tick(1) // completes byte 0's 4-cycle period
	if got := video.oam[0]; got != 1 {
		t.Errorf("oam[0] = 0x%02X; want 0x01", got)
	}

	b.Tick(4 * 159)
	for i := 0; i < 160; i++ {
		if got := video.oam[i]; got != uint8(i+1) {
			t.Fatalf("oam[%d] = 0x%02X; want 0x%02X", i, got, i+1)
		}
	}
}

func TestBusCartridgeRAMWithNoCartridgeReadsFF(t *testing.T) {
	b := NewBus(false)
	b.Write(0xA000, 0x11) // no cartridge inserted, blank cart has no RAM banks
	if got := b.Read(0xA000); got != 0xFF {
		t.Errorf("cart RAM read with no cartridge = 0x%02X; want 0xFF", got)
	}
}
