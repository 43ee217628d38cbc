package cart

import "time"

// rtc holds the MBC3 real-time-clock registers. Latching copies the live
// counters into the latched set, which is what the CPU actually reads
// until the next latch transition (spec.md §4.3).
type rtc struct {
	seconds uint8
	minutes uint8
	hours   uint8
	days    uint16 // 9-bit day counter, bit 8 lives in the flags byte
	halt    bool
	carry   bool

	latchedSeconds uint8
	latchedMinutes uint8
	latchedHours   uint8
	latchedDays    uint16
	latchedHalt    bool
	latchedCarry   bool

	latchWritePending bool // last write to 0x6000-0x7FFF was 0x00

	lastSync int64 // unix seconds of the last advance
}

// advance folds the wall-clock time elapsed since lastSync into the live
// counters. It is a no-op while the clock is halted.
func (r *rtc) advance(now int64) {
	if r.lastSync == 0 {
		r.lastSync = now
		return
	}
	elapsed := now - r.lastSync
	r.lastSync = now
	if r.halt || elapsed <= 0 {
		return
	}

	total := int64(r.seconds) + int64(r.minutes)*60 + int64(r.hours)*3600 + int64(r.days)*86400 + elapsed

	r.seconds = uint8(total % 60)
	total /= 60
	r.minutes = uint8(total % 60)
	total /= 60
	r.hours = uint8(total % 24)
	total /= 24

	if total > 0x1FF {
		r.carry = true
	}
	r.days = uint16(total & 0x1FF)
}

func (r *rtc) latch() {
	r.latchedSeconds = r.seconds
	r.latchedMinutes = r.minutes
	r.latchedHours = r.hours
	r.latchedDays = r.days
	r.latchedHalt = r.halt
	r.latchedCarry = r.carry
}

// register indices for selects 0x08-0x0C.
const (
	rtcSeconds = 0x08
	rtcMinutes = 0x09
	rtcHours   = 0x0A
	rtcDaysLo  = 0x0B
	rtcDaysHi  = 0x0C
)

func (r *rtc) read(sel uint8) uint8 {
	switch sel {
	case rtcSeconds:
		return r.latchedSeconds
	case rtcMinutes:
		return r.latchedMinutes
	case rtcHours:
		return r.latchedHours
	case rtcDaysLo:
		return uint8(r.latchedDays & 0xFF)
	case rtcDaysHi:
		v := uint8((r.latchedDays >> 8) & 0x01)
		if r.latchedHalt {
			v |= 0x40
		}
		if r.latchedCarry {
			v |= 0x80
		}
		return v
	default:
		return 0xFF
	}
}

func (r *rtc) write(sel uint8, value uint8) {
	switch sel {
	case rtcSeconds:
		r.seconds = value % 60
	case rtcMinutes:
		r.minutes = value % 60
	case rtcHours:
		r.hours = value % 24
	case rtcDaysLo:
		r.days = r.days&0x100 | uint16(value)
	case rtcDaysHi:
		r.days = r.days&0xFF | uint16(value&0x01)<<8
		r.halt = value&0x40 != 0
		r.carry = value&0x80 != 0
	}
}

// MBC3 adds RTC registers alongside MBC1-style banking, without the
// mode-dependent bank-register reuse: ROM and RAM banks select
// independently (spec.md §4.3).
type MBC3 struct {
	rom []uint8
	ram []uint8

	ramAndTimerEnabled bool
	romBank            uint8 // 7-bit, 0x2000-0x3FFF
	ramOrRTCSelect     uint8 // 0x00-0x03 RAM bank, 0x08-0x0C RTC register

	clock *rtc

	hasBattery bool
	hasRTC     bool
	romBanks   int

	clockNow func() int64 // overridden in tests; defaults to the wall clock
}

func newMBC3(c *Cartridge) *MBC3 {
	ramSize := c.RAMBanks * 0x2000
	m := &MBC3{
		rom:        c.ROM(),
		ram:        make([]uint8, ramSize),
		romBank:    1,
		hasBattery: c.HasBattery,
		hasRTC:     c.HasRTC,
		romBanks:   c.ROMBanks,
		clockNow:   func() int64 { return time.Now().Unix() },
	}
	if m.hasRTC {
		m.clock = &rtc{lastSync: m.clockNow()}
	}
	return m
}

func (m *MBC3) ReadROM(addr uint16) uint8 {
	var offset int
	switch {
	case addr <= 0x3FFF:
		offset = int(addr)
	default:
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

func (m *MBC3) WriteROM(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramAndTimerEnabled = value&0x0F == 0x0A
	case addr <= 0x3FFF:
		bank := value & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case addr <= 0x5FFF:
		m.ramOrRTCSelect = value
	default:
		if m.clock == nil {
			return
		}
		if value == 0x00 {
			m.clock.latchWritePending = true
		} else if value == 0x01 && m.clock.latchWritePending {
			m.clock.advance(m.now())
			m.clock.latch()
			m.clock.latchWritePending = false
		} else {
			m.clock.latchWritePending = false
		}
	}
}

func (m *MBC3) now() int64 {
	return m.clockNow()
}

func (m *MBC3) ReadRAM(addr uint16) uint8 {
	if !m.ramAndTimerEnabled {
		return 0xFF
	}
	if m.ramOrRTCSelect >= rtcSeconds && m.ramOrRTCSelect <= rtcDaysHi {
		if m.clock == nil {
			return 0xFF
		}
		return m.clock.read(m.ramOrRTCSelect)
	}
	offset := int(m.ramOrRTCSelect)*0x2000 + int(addr-0xA000)
	if offset >= len(m.ram) {
		return 0xFF
	}
	return m.ram[offset]
}

func (m *MBC3) WriteRAM(addr uint16, value uint8) {
	if !m.ramAndTimerEnabled {
		return
	}
	if m.ramOrRTCSelect >= rtcSeconds && m.ramOrRTCSelect <= rtcDaysHi {
		if m.clock != nil {
			m.clock.write(m.ramOrRTCSelect, value)
		}
		return
	}
	offset := int(m.ramOrRTCSelect)*0x2000 + int(addr-0xA000)
	if offset >= len(m.ram) {
		return
	}
	m.ram[offset] = value
}

// Save appends the RTC's live+latched registers and a last-sync
// timestamp after the RAM banks, per spec.md §4.3.
func (m *MBC3) Save() []byte {
	if !m.hasBattery {
		return nil
	}
	blob := append([]byte(nil), m.ram...)
	if m.clock == nil {
		return blob
	}

	m.clock.advance(m.now())

	rtcBytes := []byte{
		m.clock.seconds, m.clock.minutes, m.clock.hours,
		uint8(m.clock.days & 0xFF), rtcFlagsByte(m.clock, false),
		m.clock.latchedSeconds, m.clock.latchedMinutes, m.clock.latchedHours,
		uint8(m.clock.latchedDays & 0xFF), rtcFlagsByte(m.clock, true),
	}
	blob = append(blob, rtcBytes...)

	ts := uint64(m.clock.lastSync)
	for i := 0; i < 8; i++ {
		blob = append(blob, byte(ts>>(8*uint(i))))
	}
	return blob
}

func rtcFlagsByte(c *rtc, latched bool) uint8 {
	days, halt, carry := c.days, c.halt, c.carry
	if latched {
		days, halt, carry = c.latchedDays, c.latchedHalt, c.latchedCarry
	}
	v := uint8((days >> 8) & 0x01)
	if halt {
		v |= 0x40
	}
	if carry {
		v |= 0x80
	}
	return v
}

func (m *MBC3) Load(blob []byte) {
	n := copy(m.ram, blob)
	rest := blob[n:]
	if m.clock == nil || len(rest) < 10 {
		return
	}

	m.clock.seconds = rest[0]
	m.clock.minutes = rest[1]
	m.clock.hours = rest[2]
	m.clock.days = uint16(rest[3])
	m.clock.halt = rest[4]&0x40 != 0
	m.clock.carry = rest[4]&0x80 != 0
	m.clock.days |= uint16(rest[4]&0x01) << 8

	m.clock.latchedSeconds = rest[5]
	m.clock.latchedMinutes = rest[6]
	m.clock.latchedHours = rest[7]
	m.clock.latchedDays = uint16(rest[8])
	m.clock.latchedHalt = rest[9]&0x40 != 0
	m.clock.latchedCarry = rest[9]&0x80 != 0
	m.clock.latchedDays |= uint16(rest[9]&0x01) << 8

	if len(rest) >= 18 {
		var ts uint64
		for i := 0; i < 8; i++ {
			ts |= uint64(rest[10+i]) << (8 * uint(i))
		}
		m.clock.lastSync = int64(ts)
	}
}
