package mmu

import (
	"github.com/ptarmigan-labs/gbcore/gbcore/bit"
)

// JoypadKey is one of the eight buttons on the Game Boy controller
// (spec.md §4.7).
type JoypadKey uint8

const (
	JoypadRight JoypadKey = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

// joypad tracks button/d-pad state and the P1 selection lines. 1 means
// released, 0 means pressed, matching the hardware's active-low wiring.
type joypad struct {
	buttons uint8
	dpad    uint8
	p1      uint8

	requestInterrupt func()
}

func newJoypad(requestInterrupt func()) *joypad {
	return &joypad{
		buttons:          0x0F,
		dpad:             0x0F,
		requestInterrupt: requestInterrupt,
	}
}

// register computes the current P1 value from the selection bits and the
// selected button group, matching the real hardware's AND-of-both-groups
// behavior when both selection bits are active.
func (j *joypad) register() uint8 {
	result := uint8(0b11000000) | (j.p1 & 0b00110000)

	selectDpad := !bit.IsSet(4, j.p1)
	selectButtons := !bit.IsSet(5, j.p1)

	switch {
	case selectButtons && !selectDpad:
		result |= j.buttons & 0x0F
	case selectDpad && !selectButtons:
		result |= j.dpad & 0x0F
	case selectButtons && selectDpad:
		result |= j.buttons & j.dpad & 0x0F
	default:
		result |= 0x0F
	}

	return result
}

func (j *joypad) writeSelect(value uint8) {
	j.p1 = value & 0b00110000
}

func (j *joypad) Press(key JoypadKey) {
	oldButtons, oldDpad := j.buttons, j.dpad
	j.setLine(key, false)

	selectDpad := !bit.IsSet(4, j.p1)
	selectButtons := !bit.IsSet(5, j.p1)

	edge := (selectButtons && oldButtons&^j.buttons != 0) || (selectDpad && oldDpad&^j.dpad != 0)
	if edge && j.requestInterrupt != nil {
		j.requestInterrupt()
	}
}

func (j *joypad) Release(key JoypadKey) {
	j.setLine(key, true)
}

func (j *joypad) setLine(key JoypadKey, released bool) {
	var group *uint8
	var bitIndex uint8

	switch key {
	case JoypadRight:
		group, bitIndex = &j.dpad, 0
	case JoypadLeft:
		group, bitIndex = &j.dpad, 1
	case JoypadUp:
		group, bitIndex = &j.dpad, 2
	case JoypadDown:
		group, bitIndex = &j.dpad, 3
	case JoypadA:
		group, bitIndex = &j.buttons, 0
	case JoypadB:
		group, bitIndex = &j.buttons, 1
	case JoypadSelect:
		group, bitIndex = &j.buttons, 2
	case JoypadStart:
		group, bitIndex = &j.buttons, 3
	default:
		return
	}

	if released {
		*group = bit.Set(bitIndex, *group)
	} else {
		*group = bit.Reset(bitIndex, *group)
	}
}
