// Package audio implements the APU's register surface only: channel
// synthesis (square/wave/noise generation, envelopes, sweep, mixing)
// is an explicit Non-goal, so this is a bank of readable/writable
// registers plus the NR52 power-on/off gating a test ROM probing NR52 or
// wave RAM would observe (no length timers are modeled), grounded on the register
// layout of the teacher's jeebie/audio/apu.go with its synthesis
// engine trimmed away.
package audio

import "github.com/ptarmigan-labs/gbcore/gbcore/addr"

const waveRAMSize = 16

// APU stores the DMG/CGB sound registers without generating any
// waveform. NR52 bit 7 gates writes to every other sound register,
// matching real hardware's power-off behavior.
type APU struct {
	enabled bool

	nr10, nr11, nr12, nr13, nr14 uint8 // Channel 1
	nr21, nr22, nr23, nr24       uint8 // Channel 2
	nr30, nr31, nr32, nr33, nr34 uint8 // Channel 3
	nr41, nr42, nr43, nr44       uint8 // Channel 4
	nr50, nr51                   uint8 // Global controls

	waveRAM [waveRAMSize]uint8
}

func New() *APU {
	return &APU{}
}

// ReadRegister implements mmu.AudioUnit. Unmapped addresses in the
// sound I/O range return 0xFF, matching the open-bus read behavior of
// real hardware for unused bits.
func (a *APU) ReadRegister(address uint16) byte {
	switch address {
	case addr.NR10:
		return a.nr10 | 0x80
	case addr.NR11:
		return a.nr11 | 0x3F
	case addr.NR12:
		return a.nr12
	case addr.NR13:
		return 0xFF
	case addr.NR14:
		return a.nr14 | 0xBF
	case addr.NR21:
		return a.nr21 | 0x3F
	case addr.NR22:
		return a.nr22
	case addr.NR23:
		return 0xFF
	case addr.NR24:
		return a.nr24 | 0xBF
	case addr.NR30:
		return a.nr30 | 0x7F
	case addr.NR31:
		return 0xFF
	case addr.NR32:
		return a.nr32 | 0x9F
	case addr.NR33:
		return 0xFF
	case addr.NR34:
		return a.nr34 | 0xBF
	case addr.NR41:
		return 0xFF
	case addr.NR42:
		return a.nr42
	case addr.NR43:
		return a.nr43
	case addr.NR44:
		return a.nr44 | 0xBF
	case addr.NR50:
		return a.nr50
	case addr.NR51:
		return a.nr51
	case addr.NR52:
		return a.readNR52()
	default:
		if address >= addr.WaveRAMStart && address <= addr.WaveRAMEnd {
			return a.waveRAM[address-addr.WaveRAMStart]
		}
		return 0xFF
	}
}

// WriteRegister implements mmu.AudioUnit. Writes to any register but
// NR52 and wave RAM are dropped while the APU is powered off.
func (a *APU) WriteRegister(address uint16, value byte) {
	if address >= addr.WaveRAMStart && address <= addr.WaveRAMEnd {
		a.waveRAM[address-addr.WaveRAMStart] = value
		return
	}

	if address == addr.NR52 {
		a.writeNR52(value)
		return
	}

	if !a.enabled {
		return
	}

	switch address {
	case addr.NR10:
		a.nr10 = value
	case addr.NR11:
		a.nr11 = value
	case addr.NR12:
		a.nr12 = value
	case addr.NR13:
		a.nr13 = value
	case addr.NR14:
		a.nr14 = value
	case addr.NR21:
		a.nr21 = value
	case addr.NR22:
		a.nr22 = value
	case addr.NR23:
		a.nr23 = value
	case addr.NR24:
		a.nr24 = value
	case addr.NR30:
		a.nr30 = value
	case addr.NR31:
		a.nr31 = value
	case addr.NR32:
		a.nr32 = value
	case addr.NR33:
		a.nr33 = value
	case addr.NR34:
		a.nr34 = value
	case addr.NR41:
		a.nr41 = value
	case addr.NR42:
		a.nr42 = value
	case addr.NR43:
		a.nr43 = value
	case addr.NR44:
		a.nr44 = value
	case addr.NR50:
		a.nr50 = value
	case addr.NR51:
		a.nr51 = value
	}
}

func (a *APU) readNR52() uint8 {
	v := uint8(0x70) // bits 4-6 always read as 1
	if a.enabled {
		v |= 0x80
	}
	return v
}

// writeNR52 powers the APU on/off. Powering off clears every other
// register, matching the real NR52 power toggle.
func (a *APU) writeNR52(value uint8) {
	wasEnabled := a.enabled
	a.enabled = value&0x80 != 0

	if wasEnabled && !a.enabled {
		a.nr10, a.nr11, a.nr12, a.nr13, a.nr14 = 0, 0, 0, 0, 0
		a.nr21, a.nr22, a.nr23, a.nr24 = 0, 0, 0, 0
		a.nr30, a.nr31, a.nr32, a.nr33, a.nr34 = 0, 0, 0, 0, 0
		a.nr41, a.nr42, a.nr43, a.nr44 = 0, 0, 0, 0
		a.nr50, a.nr51 = 0, 0
	}
}
