package joypad

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halcyon-systems/dmgcore/internal/interrupts"
)

// Scenario 7: select-action-row (write 0x10 selects action row), press
// Start, release Start, and confirm the interrupt-pending bit.
func TestKeypadPressPropagation(t *testing.T) {
	irq := &interrupts.Controller{}
	s := New(irq)

	s.Write(0x10) // direction bit set -> direction deselected, action selected

	s.SetPressed(Start, true)
	assert.Equal(t, uint8(0), s.Read()&(1<<3), "Start pressed should clear bit 3")
	assert.True(t, irq.Pending(interrupts.Joypad))

	irq.Clear(interrupts.Joypad)
	s.SetPressed(Start, false)
	assert.NotEqual(t, uint8(0), s.Read()&(1<<3), "Start released should set bit 3")
	assert.False(t, irq.Pending(interrupts.Joypad), "release must not re-raise the interrupt")
}

func TestDeselectedRowReadsAllOnes(t *testing.T) {
	s := New(&interrupts.Controller{})
	s.Write(0x20) // action deselected, direction selected
	s.SetPressed(A, true)
	assert.Equal(t, uint8(0x0F), s.Read()&0x0F, "action row deselected should read as unpressed")
}

func TestAnyPressedTracksBothRows(t *testing.T) {
	s := New(&interrupts.Controller{})
	assert.False(t, s.AnyPressed())
	s.SetPressed(Down, true)
	assert.True(t, s.AnyPressed())
	s.SetPressed(Down, false)
	assert.False(t, s.AnyPressed())
}

func TestSetPressedOnlyRaisesOnEdge(t *testing.T) {
	irq := &interrupts.Controller{}
	s := New(irq)
	s.SetPressed(B, true)
	irq.Clear(interrupts.Joypad)
	s.SetPressed(B, true) // already pressed, no new edge
	assert.False(t, irq.Pending(interrupts.Joypad))
}
