// Package joypad emulates the two 4-bit key rows exposed at 0xFF00.
package joypad

import (
	"github.com/halcyon-systems/dmgcore/internal/interrupts"
)

// Button identifies one of the eight physical buttons.
type Button uint8

const (
	Right Button = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// isAction reports whether a button lives in the action row (A,B,Select,
// Start) as opposed to the direction row (Right,Left,Up,Down).
func (b Button) isAction() bool { return b >= A }

// bitIndex is the bit position of a button within its row's low nibble.
func (b Button) bitIndex() uint8 {
	if b.isAction() {
		return uint8(b - A)
	}
	return uint8(b)
}

// State holds the two 4-bit rows (a pressed button reads as 0, inverted)
// and the row-select register written by software at 0xFF00.
type State struct {
	direction uint8 // low nibble, bit=0 means pressed
	action    uint8 // low nibble, bit=0 means pressed

	actionDeselected    bool // register bit 5; true means the action row is NOT selected (active low)
	directionDeselected bool // register bit 4; true means the direction row is NOT selected (active low)

	irq *interrupts.Controller
}

// New returns a joypad with both rows unpressed and both rows selected.
func New(irq *interrupts.Controller) *State {
	return &State{
		direction: 0x0F,
		action:    0x0F,
		irq:       irq,
	}
}

// Read returns the value of the 0xFF00 register: the low nibble reflects
// whichever row(s) are selected, the upper bits always read as set along
// with the two select bits echoed back.
func (s *State) Read() uint8 {
	b := uint8(0xC0)
	if s.directionDeselected {
		b |= 1 << 4
	}
	if s.actionDeselected {
		b |= 1 << 5
	}

	nibble := uint8(0x0F)
	if !s.directionDeselected {
		nibble &= s.direction
	}
	if !s.actionDeselected {
		nibble &= s.action
	}
	return b | nibble
}

// Write updates the row-select bits (4 and 5); the low nibble is read-only
// from software's perspective.
func (s *State) Write(v uint8) {
	s.directionDeselected = v&(1<<4) != 0
	s.actionDeselected = v&(1<<5) != 0
}

// AnyPressed reports whether any button is currently held, regardless of
// row selection. STOP mode wakes on any keypad input.
func (s *State) AnyPressed() bool {
	return s.direction != 0x0F || s.action != 0x0F
}

// SetPressed updates the state of a single button. A zero-to-one edge (a
// release-to-press transition) on any button raises the joypad interrupt,
// regardless of whether its row is currently selected — matching real
// hardware, which wires all eight inputs to the interrupt line.
func (s *State) SetPressed(b Button, pressed bool) {
	row := &s.direction
	if b.isAction() {
		row = &s.action
	}
	bit := uint8(1) << b.bitIndex()

	wasPressed := *row&bit == 0
	if pressed {
		*row &^= bit
	} else {
		*row |= bit
	}
	nowPressed := *row&bit == 0

	if !wasPressed && nowPressed && s.irq != nil {
		s.irq.Request(interrupts.Joypad)
	}
}
