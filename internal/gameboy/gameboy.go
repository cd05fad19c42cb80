// Package gameboy is the composition root: it wires the cartridge, bus,
// CPU, timer, APU, PPU, and joypad together and drives the fixed
// per-instruction peripheral advancement order the core depends on for
// determinism.
package gameboy

import (
	"github.com/sirupsen/logrus"

	"github.com/halcyon-systems/dmgcore/internal/apu"
	"github.com/halcyon-systems/dmgcore/internal/bus"
	"github.com/halcyon-systems/dmgcore/internal/cartridge"
	"github.com/halcyon-systems/dmgcore/internal/cpu"
	"github.com/halcyon-systems/dmgcore/internal/interrupts"
	"github.com/halcyon-systems/dmgcore/internal/joypad"
	"github.com/halcyon-systems/dmgcore/internal/ppu"
	"github.com/halcyon-systems/dmgcore/internal/timer"
)

// MasterClock is the DMG's fixed oscillator frequency in Hz.
const MasterClock = 4194304

// TicksPerFrame is the number of master ticks that make up one 60Hz frame.
const TicksPerFrame = MasterClock / 60

// GameBoy owns every peripheral and the single-threaded tick loop.
type GameBoy struct {
	Cart *cartridge.Cartridge
	Bus  *bus.Bus
	CPU  *cpu.CPU

	irq    *interrupts.Controller
	timer  *timer.Controller
	apu    *apu.APU
	ppu    *ppu.PPU
	joypad *joypad.State

	log *logrus.Entry
}

// New builds a GameBoy around a parsed cartridge and an optional boot ROM
// image (nil skips the boot shadow and starts execution at the cartridge's
// entry point).
func New(cart *cartridge.Cartridge, bootROM []byte, log *logrus.Entry) *GameBoy {
	irq := &interrupts.Controller{}
	t := timer.New(irq)
	a := apu.New()
	j := joypad.New(irq)
	p := ppu.New(irq)
	b := bus.New(cart, p, a, t, j, irq, bootROM)
	c := cpu.New(irq)
	c.Log = log

	if len(bootROM) == 0 {
		// no boot ROM mapped: start at the cartridge entry point with the
		// post-boot stack pointer. Only PC and SP are seeded; the other
		// registers stay at zero.
		c.PC = 0x0100
		c.SP = 0xFFFE
	}

	return &GameBoy{
		Cart:   cart,
		Bus:    b,
		CPU:    c,
		irq:    irq,
		timer:  t,
		apu:    a,
		ppu:    p,
		joypad: j,
		log:    log,
	}
}

// SetPressed updates one button's state; takes effect no later than the
// next instruction.
func (g *GameBoy) SetPressed(btn joypad.Button, pressed bool) {
	g.joypad.SetPressed(btn, pressed)
}

// Samples exposes the APU's bounded output channel.
func (g *GameBoy) Samples() <-chan apu.Sample { return g.apu.Samples }

// Frame returns the most recently completed frame buffer (2-bit shade
// indices) and clears the ready flag.
func (g *GameBoy) Frame() ([ppu.ScreenHeight][ppu.ScreenWidth]uint8, bool) {
	if !g.ppu.FrameReady {
		return g.ppu.Frame, false
	}
	g.ppu.FrameReady = false
	return g.ppu.Frame, true
}

// ProcessFrame runs the tick loop until one 60Hz frame's worth of master
// ticks has been consumed by the CPU and its peripherals.
func (g *GameBoy) ProcessFrame() {
	var consumed uint32
	for consumed < TicksPerFrame {
		consumed += uint32(g.Step())
	}
}

// Step executes exactly one CPU instruction (or idle cycle) and advances
// every peripheral by the same tick count, in the fixed order the spec's
// determinism guarantee depends on: timer, then APU, then PPU. The bus's
// own DMA progress is ticked alongside since it contends for the same
// memory the other peripherals don't touch.
func (g *GameBoy) Step() uint8 {
	ticks := g.CPU.Tick(g.Bus)

	g.timer.Tick(ticks)
	g.apu.Tick(ticks)
	g.ppu.Tick(ticks)
	g.Bus.Tick(ticks)
	g.Cart.Tick(ticks)

	return ticks
}
