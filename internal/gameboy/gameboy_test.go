package gameboy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-systems/dmgcore/internal/cartridge"
)

func testROM(t *testing.T) []byte {
	t.Helper()
	rom := make([]byte, 0x8000)
	rom[0x147], rom[0x148], rom[0x149] = 0x00, 0x00, 0x00 // MBC0, 2 banks, no RAM
	return rom
}

func TestNewWithoutBootROMSeedsPostBootState(t *testing.T) {
	rom := testROM(t)
	cart, err := cartridge.New(rom)
	require.NoError(t, err)

	g := New(cart, nil, nil)
	assert.Equal(t, uint16(0x0100), g.CPU.PC)
	assert.Equal(t, uint16(0xFFFE), g.CPU.SP)
}

func TestNewWithBootROMDoesNotSeedRegisters(t *testing.T) {
	rom := testROM(t)
	cart, err := cartridge.New(rom)
	require.NoError(t, err)

	boot := make([]byte, 256)
	g := New(cart, boot, nil)
	assert.Equal(t, uint16(0), g.CPU.PC, "PC must start at the boot ROM's entry point, address 0")
}

func TestProcessFrameConsumesExactlyOneFrameOfTicks(t *testing.T) {
	rom := testROM(t) // all-zero program: an infinite run of NOPs
	cart, err := cartridge.New(rom)
	require.NoError(t, err)

	g := New(cart, nil, nil)

	var consumed uint32
	for consumed < TicksPerFrame {
		consumed += uint32(g.Step())
	}

	assert.GreaterOrEqual(t, consumed, uint32(TicksPerFrame))
	// NOP costs 4 ticks uniformly, so the loop can overshoot by at most 3.
	assert.Less(t, consumed-TicksPerFrame, uint32(4))
}

func TestFrameClearsReadyFlagOnRead(t *testing.T) {
	rom := testROM(t)
	cart, err := cartridge.New(rom)
	require.NoError(t, err)

	g := New(cart, nil, nil)
	g.Bus.Write(0xFF40, 0x80) // LCD on; it is off by default and would never complete a frame
	g.ProcessFrame()

	_, ready := g.Frame()
	assert.True(t, ready, "one frame's worth of NOPs should complete at least one PPU frame")

	_, readyAgain := g.Frame()
	assert.False(t, readyAgain, "FrameReady must be cleared after being read once")
}
