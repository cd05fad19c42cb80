package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-systems/dmgcore/internal/apu"
	"github.com/halcyon-systems/dmgcore/internal/cartridge"
	"github.com/halcyon-systems/dmgcore/internal/interrupts"
	"github.com/halcyon-systems/dmgcore/internal/joypad"
	"github.com/halcyon-systems/dmgcore/internal/ppu"
	"github.com/halcyon-systems/dmgcore/internal/timer"
)

func newTestBus(t *testing.T, bootROM []byte) *Bus {
	t.Helper()
	rom := make([]byte, 0x8000)
	rom[0x147], rom[0x148], rom[0x149] = 0x00, 0x00, 0x00
	cart, err := cartridge.New(rom)
	require.NoError(t, err)

	irq := &interrupts.Controller{}
	return New(cart, ppu.New(irq), apu.New(), timer.New(irq), joypad.New(irq), irq, bootROM)
}

func TestEchoRAMMirrorsWorkRAM(t *testing.T) {
	b := newTestBus(t, nil)
	b.Write(0xC010, 0x55)
	assert.Equal(t, uint8(0x55), b.Read(0xE010), "echo RAM must read back what was written to WRAM")

	b.Write(0xE020, 0xAA)
	assert.Equal(t, uint8(0xAA), b.Read(0xC020), "a write through the echo window must reach WRAM")
}

func TestBootROMShadowUntilLatchWrite(t *testing.T) {
	boot := make([]byte, 256)
	boot[0x00] = 0x11
	b := newTestBus(t, boot)

	assert.Equal(t, uint8(0x11), b.Read(0x0000), "boot ROM shadows the cartridge at reset")

	b.Write(0xFF50, 0x01)
	assert.NotEqual(t, uint8(0x11), b.Read(0x0000), "boot ROM must be unmapped after any write to 0xFF50")
}

func TestNoBootROMLeavesCartridgeVisible(t *testing.T) {
	b := newTestBus(t, nil)
	assert.Equal(t, uint8(0x00), b.Read(0x0000))
}

func TestOAMDMACopiesExactly160Bytes(t *testing.T) {
	b := newTestBus(t, nil)
	for i := uint16(0); i < 0x100; i++ {
		b.Write(0xC000+i, uint8(i))
	}

	b.Write(0xFF46, 0xC0) // source = 0xC000

	// DMA blocks normal OAM access for the duration of the transfer and
	// copies one byte every 4 master ticks.
	for i := 0; i < 160; i++ {
		assert.Equal(t, uint8(0xFF), b.Read(0xFE00), "OAM reads 0xFF while a DMA transfer is active")
		b.Tick(4)
	}

	assert.Equal(t, uint8(0x00), b.Read(0xFE00))
	assert.Equal(t, uint8(159), b.Read(0xFE9F))
}

// tickPPU advances the PPU in small steps, since Tick checks only one
// mode-boundary per call and its parameter is a uint8.
func tickPPU(b *Bus, n int) {
	for n > 0 {
		step := 4
		if n < step {
			step = n
		}
		b.PPU.Tick(uint8(step))
		n -= step
	}
}

func TestOAMDMAReadsVRAMDuringDrawBypassingModeGating(t *testing.T) {
	b := newTestBus(t, nil)

	b.Write(0xFF40, 0x80) // LCD on, enters OAMScan with VRAM accessible
	b.Write(0x8000, 0x77)

	tickPPU(b, 80) // ticksOAMScan: OAMScan -> Draw, VRAM now gated for the CPU
	assert.Equal(t, uint8(0xFF), b.Read(0x8000), "CPU-side VRAM reads are gated during Draw")

	b.Write(0xFF46, 0x80) // DMA source = 0x8000 (VRAM)
	for i := 0; i < 160; i++ {
		b.Tick(4)
	}

	tickPPU(b, 172) // ticksDraw: Draw -> HBlank, so the CPU-side OAM read below is not gated
	assert.Equal(t, uint8(0x77), b.Read(0xFE00), "DMA must read real VRAM contents even while the PPU is in Draw mode")
}

func TestOAMWritesBlockedDuringDMA(t *testing.T) {
	b := newTestBus(t, nil)
	b.Write(0xFF46, 0x00)
	b.Write(0xFE00, 0x42) // should be dropped, DMA is active
	for i := 0; i < 160; i++ {
		b.Tick(4)
	}
	assert.NotEqual(t, uint8(0x42), b.Read(0xFE00))
}
