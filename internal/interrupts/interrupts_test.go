package interrupts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestAndClear(t *testing.T) {
	var c Controller
	assert.False(t, c.Pending(Timer))
	c.Request(Timer)
	assert.True(t, c.Pending(Timer))
	c.Clear(Timer)
	assert.False(t, c.Pending(Timer))
}

func TestHasPendingEnabledRequiresBoth(t *testing.T) {
	var c Controller
	c.Request(VBlank)
	assert.False(t, c.HasPendingEnabled(), "pending but not enabled should not count")

	c.WriteEnable(1 << VBlank)
	assert.True(t, c.HasPendingEnabled())
}

func TestNextPendingRespectsPriorityOrder(t *testing.T) {
	var c Controller
	c.WriteEnable(0x1F)
	c.Request(Joypad)
	c.Request(LCDStat)

	src, ok := c.NextPending()
	assert.True(t, ok)
	assert.Equal(t, LCDStat, src, "LCDStat has higher priority than Joypad")
}

func TestFlagRegisterUpperBitsReadAsOne(t *testing.T) {
	var c Controller
	assert.Equal(t, uint8(0xE0), c.ReadFlag())
	c.Request(Serial)
	assert.Equal(t, uint8(0xE0|1<<Serial), c.ReadFlag())
}

func TestWriteFlagDemultiplexesAllFiveBits(t *testing.T) {
	var c Controller
	c.WriteFlag(0x1F)
	for s := VBlank; s <= Joypad; s++ {
		assert.True(t, c.Pending(s))
	}
}

func TestVectorsAreFixed(t *testing.T) {
	assert.Equal(t, uint16(0x40), VBlank.Vector())
	assert.Equal(t, uint16(0x60), Joypad.Vector())
}
