// Package gbcore is the root orchestrator: it wires the CPU, bus, PPU,
// serial port, and APU register file into one Machine and drives the
// spec.md §5 run loop (CPU tick → timer/PPU/DMA tick → frame
// present), grounded on the teacher's jeebie/core.go Emulator.
package gbcore

import (
	"log/slog"

	"github.com/ptarmigan-labs/gbcore/gbcore/addr"
	"github.com/ptarmigan-labs/gbcore/gbcore/audio"
	"github.com/ptarmigan-labs/gbcore/gbcore/cart"
	"github.com/ptarmigan-labs/gbcore/gbcore/cpu"
	"github.com/ptarmigan-labs/gbcore/gbcore/mmu"
	"github.com/ptarmigan-labs/gbcore/gbcore/serial"
	"github.com/ptarmigan-labs/gbcore/gbcore/video"
)

// Buttons is the host's per-iteration snapshot of the 8 joypad lines
// (spec.md §6 "Input").
type Buttons struct {
	Up, Down, Left, Right bool
	A, B, Start, Select   bool
}

// systemDIVSeed is the documented DMG post-boot DIV seed (0xAB00..),
// matching the teacher's own choice of 0xABCC.
const systemDIVSeed = 0xABCC

// Machine is the whole emulated console: one Bus, CPU, PPU, serial
// port, and APU register file, always wired together (spec.md §9
// "machine" ownership model — a Bus is never shared between Machines).
type Machine struct {
	bus    *mmu.Bus
	cpu    *cpu.CPU
	ppu    *video.PPU
	serial *serial.LogSink
	audio  *audio.APU

	hasBattery bool
}

// New constructs a Machine. romData may be nil, in which case a blank
// cartridge is synthesized (spec.md §7 "ROM load failure" recovery
// path). bootROM, if non-empty, is mapped at 0x0000 and the CPU starts
// executing from address 0; otherwise the CPU and I/O registers are
// initialized directly to their documented post-boot state. forceDMG
// downgrades a CGB-capable cartridge to DMG mode.
func New(romData []byte, bootROM []byte, forceDMG bool) *Machine {
	var cartridge *cart.Cartridge
	if len(romData) == 0 {
		slog.Warn("gbcore: no ROM data supplied, using blank cartridge")
		cartridge = cart.NewBlank()
	} else {
		cartridge = cart.NewFromData(romData)
	}

	cgb := cartridge.CGBCapable && !forceDMG

	bus := mmu.NewBus(cgb)
	bus.AttachCartridge(cartridge)
	bus.SetTimerSeed(systemDIVSeed)

	m := &Machine{
		bus:        bus,
		hasBattery: cartridge.HasBattery,
	}

	m.ppu = video.New(cgb, func(i addr.Interrupt) { bus.RequestInterrupt(i) })
	m.ppu.AttachBusReader(bus.Read)
	bus.AttachVideo(m.ppu)

	m.serial = serial.NewLogSink(func() { bus.RequestInterrupt(addr.SerialInterrupt) })
	bus.AttachSerial(m.serial)

	m.audio = audio.New()
	bus.AttachAudio(m.audio)

	m.cpu = cpu.New(bus)

	if len(bootROM) > 0 {
		bus.LoadBootROM(bootROM)
		m.cpu.ResetForBootROM()
	} else {
		applyPostBootIO(bus.Write)
	}

	return m
}

// RunFrame advances emulation until the PPU completes exactly one
// frame, applying buttons before the first instruction of this call
// (spec.md §5, §6 "Input"). It implements the orchestrator loop: CPU
// tick, then timer/serial/DMA tick, then PPU tick extended by any
// HDMA/GDMA stall the PPU register write queued.
func (m *Machine) RunFrame(buttons Buttons) {
	m.applyButtons(buttons)

	for {
		cycles := m.cpu.Tick()
		m.bus.Tick(cycles)

		ppuCycles := cycles
		if m.bus.DoubleSpeed() {
			ppuCycles = cycles / 2
		}

		frameDone, _ := m.ppu.Tick(ppuCycles)

		for stall := m.bus.ConsumeStall(); stall > 0; stall = m.bus.ConsumeStall() {
			m.bus.Tick(stall)
			done, _ := m.ppu.Tick(stall)
			frameDone = frameDone || done
		}

		if frameDone {
			return
		}
	}
}

func (m *Machine) applyButtons(b Buttons) {
	m.setKey(mmu.JoypadUp, b.Up)
	m.setKey(mmu.JoypadDown, b.Down)
	m.setKey(mmu.JoypadLeft, b.Left)
	m.setKey(mmu.JoypadRight, b.Right)
	m.setKey(mmu.JoypadA, b.A)
	m.setKey(mmu.JoypadB, b.B)
	m.setKey(mmu.JoypadStart, b.Start)
	m.setKey(mmu.JoypadSelect, b.Select)
}

func (m *Machine) setKey(key mmu.JoypadKey, pressed bool) {
	if pressed {
		m.bus.Press(key)
	} else {
		m.bus.Release(key)
	}
}

// Framebuffer returns the RGBA8 160x144 row-major pixel buffer for the
// most recently completed frame.
func (m *Machine) Framebuffer() []uint8 { return m.ppu.Framebuffer() }

// SaveRAM returns the cartridge's battery-backed save blob in the
// spec.md §4.3 layout, or nil if the cartridge has no battery.
func (m *Machine) SaveRAM() []byte {
	if !m.hasBattery {
		return nil
	}
	return m.bus.SaveRAM()
}

// LoadRAM restores a save blob previously returned by SaveRAM. Wiring
// this to disk is the host's responsibility (spec.md §1 "Out of
// scope").
func (m *Machine) LoadRAM(blob []byte) {
	if !m.hasBattery || len(blob) == 0 {
		return
	}
	m.bus.LoadRAM(blob)
}

// Close returns the final save blob to persist, if the cartridge has
// a battery, implementing the spec.md §3 "Lifecycle" drop behavior.
// The host is responsible for actually writing it to disk.
func (m *Machine) Close() []byte {
	return m.SaveRAM()
}
