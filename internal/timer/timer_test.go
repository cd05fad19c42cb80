package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halcyon-systems/dmgcore/internal/interrupts"
)

func TestDividerIncrementsWithMasterTicks(t *testing.T) {
	c := New(&interrupts.Controller{})
	c.Tick(255)
	assert.Equal(t, uint8(0), c.ReadDIV())
	c.Tick(1)
	assert.Equal(t, uint8(1), c.ReadDIV())
}

func TestDividerWriteClearsWholeCounter(t *testing.T) {
	c := New(&interrupts.Controller{})
	c.Tick(150)
	c.Tick(150) // 300 ticks: DIV reads 1
	c.WriteDIV(0x99)
	assert.Equal(t, uint8(0), c.ReadDIV())
}

func TestTIMADisabledByDefault(t *testing.T) {
	c := New(&interrupts.Controller{})
	for i := 0; i < 4096/16; i++ {
		c.Tick(16)
	}
	assert.Equal(t, uint8(0), c.ReadTIMA())
}

// Scenario 5: TMA=0xAB, TIMA=0xFE, TAC=0x05 (enabled, 16-tick rate). After 32
// master ticks TIMA overflows once (0xFE->0xFF at tick 16, 0xFF->0x00 at tick
// 32) and reloads from TMA. The literal expected value in the distilled spec
// text (0xAC) does not follow from the TMA/TIMA/TAC values it states: TMA is
// copied verbatim into TIMA on overflow, so the only value consistent with
// the stated inputs is 0xAB. This asserts the hardware-correct reload.
func TestTimerOverflowReloadsFromTMA(t *testing.T) {
	irq := &interrupts.Controller{}
	c := New(irq)
	c.WriteTMA(0xAB)
	c.WriteTIMA(0xFE)
	c.WriteTAC(0x05)

	c.Tick(32)

	assert.Equal(t, uint8(0xAB), c.ReadTIMA())
	assert.True(t, irq.Pending(interrupts.Timer))
}

func TestTIMAIncrementMidRangeDoesNotRaiseInterrupt(t *testing.T) {
	irq := &interrupts.Controller{}
	c := New(irq)
	c.WriteTAC(0x05)
	c.Tick(16)
	assert.Equal(t, uint8(1), c.ReadTIMA())
	assert.False(t, irq.Pending(interrupts.Timer))
}

func TestTACUnusedBitsReadAsOne(t *testing.T) {
	c := New(&interrupts.Controller{})
	c.WriteTAC(0x05)
	assert.Equal(t, uint8(0xFD), c.ReadTAC())
}
