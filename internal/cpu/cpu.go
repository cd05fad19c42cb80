// Package cpu implements the Sharp SM83 interpreter: register file, the
// primary and bit-prefix opcode tables, and interrupt servicing. The bus is
// never embedded in the CPU; every method that touches memory takes it as
// an explicit parameter.
package cpu

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/halcyon-systems/dmgcore/internal/bus"
	"github.com/halcyon-systems/dmgcore/internal/interrupts"
)

// State is the CPU's run state.
type State uint8

const (
	Running State = iota
	Halted
	Stopped
)

// CPU is the register file plus execution state. PC and SP are kept
// outside Registers since they have no 8-bit half that participates in
// opcode-indexed register selection.
type CPU struct {
	Registers
	PC, SP uint16

	State State

	ime      bool
	imeDelay uint8 // 1 once EI has executed; IME is armed on the *next* tick

	irq *interrupts.Controller

	// Strict makes undefined opcodes fatal, for development/debug builds.
	// When false (the default, matching a release build) an undefined
	// opcode degrades to a logged no-op, since real cartridges have been
	// observed to hit these edge cases.
	Strict bool
	Log    *logrus.Entry
}

// New returns a CPU with every register, PC and SP at zero, the state a
// mapped boot ROM starts from; callers running without a boot ROM set PC
// and SP themselves (see gameboy.New).
func New(irq *interrupts.Controller) *CPU {
	return &CPU{irq: irq}
}

// programFault handles an undefined-opcode or illegal-access condition per
// the core's fault taxonomy: fatal in a strict/development build, a logged
// degrade-to-no-op otherwise.
func (c *CPU) programFault(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if c.Strict {
		panic("cpu: program fault: " + msg)
	}
	if c.Log != nil {
		c.Log.Warn("cpu: program fault: " + msg)
	}
}

// Tick executes exactly one instruction (or one HALT/STOP idle cycle) and
// returns the number of master-clock ticks it consumed.
func (c *CPU) Tick(b *bus.Bus) uint8 {
	var ticks uint8

	switch c.State {
	case Halted:
		ticks = 4
		if c.irq.HasPendingEnabled() {
			c.State = Running
		}
	case Stopped:
		ticks = 4
		if b.Joypad.AnyPressed() {
			c.State = Running
		}
	default:
		if c.imeDelay > 0 {
			c.imeDelay--
			if c.imeDelay == 0 {
				c.ime = true
			}
		}

		opcode := c.fetch8(b)
		ticks = c.execute(b, opcode)
	}

	if c.ime && c.irq.HasPendingEnabled() {
		ticks += c.serviceInterrupt(b)
	}

	return ticks
}

// serviceInterrupt pushes PC, jumps to the highest-priority pending and
// enabled interrupt's vector, and charges the fixed 20-tick cost.
func (c *CPU) serviceInterrupt(b *bus.Bus) uint8 {
	source, ok := c.irq.NextPending()
	if !ok {
		return 0
	}
	c.ime = false
	c.irq.Clear(source)
	c.push16(b, c.PC)
	c.PC = source.Vector()
	return 20
}

func (c *CPU) fetch8(b *bus.Bus) uint8 {
	v := b.Read(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16(b *bus.Bus) uint16 {
	lo := c.fetch8(b)
	hi := c.fetch8(b)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push16(b *bus.Bus, v uint16) {
	c.SP--
	b.Write(c.SP, uint8(v>>8))
	c.SP--
	b.Write(c.SP, uint8(v))
}

func (c *CPU) pop16(b *bus.Bus) uint16 {
	lo := b.Read(c.SP)
	c.SP++
	hi := b.Read(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// operand8 resolves one of the seven register slots or (HL), returning the
// current value and a setter that writes back to the correct place.
func (c *CPU) operand8(b *bus.Bus, index uint8) (get func() uint8, set func(uint8)) {
	if index&0x7 == 6 {
		addr := c.hl()
		return func() uint8 { return b.Read(addr) }, func(v uint8) { b.Write(addr, v) }
	}
	r := c.reg8(index)
	return func() uint8 { return *r }, func(v uint8) { *r = v }
}
