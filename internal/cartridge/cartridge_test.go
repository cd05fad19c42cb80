package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeROM builds a minimal valid header over nBanks*16KiB of ROM, stamping
// each bank's first byte with the bank index so bank-select tests can
// confirm which bank a read landed in.
func makeROM(cartType, romSizeByte, ramSizeByte byte, nBanks int) []byte {
	rom := make([]byte, nBanks*0x4000)
	if len(rom) < 0x150 {
		rom = append(rom, make([]byte, 0x150-len(rom))...)
	}
	rom[0x147] = cartType
	rom[0x148] = romSizeByte
	rom[0x149] = ramSizeByte
	for b := 0; b < nBanks; b++ {
		rom[b*0x4000] = byte(b)
	}
	return rom
}

func TestParseHeaderMBC0(t *testing.T) {
	rom := makeROM(0x00, 0x00, 0x00, 2)
	h, err := ParseHeader(rom)
	require.NoError(t, err)
	assert.Equal(t, TypeMBC0, h.MBCType)
	assert.Equal(t, 2, h.ROMBanks)
}

func TestParseHeaderRejectsShortImage(t *testing.T) {
	_, err := ParseHeader(make([]byte, 0x10))
	assert.Error(t, err)
}

func TestParseHeaderRejectsUnknownMBCType(t *testing.T) {
	rom := makeROM(0x20, 0x00, 0x00, 2)
	_, err := ParseHeader(rom)
	assert.Error(t, err)
}

// Scenario 6: writing 0x00 or 0x01 to 0x2000 both select ROM bank 1;
// writing 0x02 selects ROM bank 2.
func TestMBC1ROMBankSelect(t *testing.T) {
	rom := makeROM(0x01, 0x02, 0x00, 8) // MBC1, 8 banks
	cart, err := New(rom)
	require.NoError(t, err)

	cart.Write(0x2000, 0x00)
	assert.Equal(t, byte(1), cart.Read(0x4000), "writing 0 selects bank 1, not bank 0")

	cart.Write(0x2000, 0x01)
	assert.Equal(t, byte(1), cart.Read(0x4000))

	cart.Write(0x2000, 0x02)
	assert.Equal(t, byte(2), cart.Read(0x4000))
}

// The 5-bit low bank register is forced to 1 whenever it would otherwise
// be 0, so selecting banks 0x20/0x40/0x60 (whose low 5 bits are all zero)
// actually lands on 0x21/0x41/0x61 — a well-known MBC1 quirk, not a bug.
func TestMBC1BankSelectSkipsZeroBoundaryBanks(t *testing.T) {
	rom := makeROM(0x01, 0x06, 0x00, 128) // MBC1, 128 banks
	cart, err := New(rom)
	require.NoError(t, err)

	cases := []struct {
		bankHigh2  byte
		wantEffect byte
	}{
		{0x01, 0x21},
		{0x02, 0x41},
		{0x03, 0x61},
	}
	for _, c := range cases {
		cart.Write(0x4000, c.bankHigh2)
		cart.Write(0x2000, 0x00) // low 5 bits all zero, forced to 1
		assert.Equal(t, c.wantEffect, cart.Read(0x4000), "bankHigh2=%#x must select bank %#x, not %#x", c.bankHigh2, c.wantEffect, c.wantEffect&^0x01)
	}
}

func TestMBC1LowWindowAlwaysBankZero(t *testing.T) {
	rom := makeROM(0x01, 0x02, 0x00, 8)
	cart, err := New(rom)
	require.NoError(t, err)
	cart.Write(0x2000, 0x05)
	assert.Equal(t, byte(0), cart.Read(0x0000))
}

func TestMBC1RAMEnableGatesAccess(t *testing.T) {
	rom := makeROM(0x03, 0x00, 0x02, 2) // MBC1+RAM+battery, 1 RAM bank
	cart, err := New(rom)
	require.NoError(t, err)

	assert.Equal(t, byte(0xFF), cart.Read(0xA000), "RAM must read 0xFF while disabled")

	cart.Write(0x0000, 0x0A) // enable
	cart.Write(0xA000, 0x42)
	assert.Equal(t, byte(0x42), cart.Read(0xA000))

	cart.Write(0x0000, 0x00) // disable
	assert.Equal(t, byte(0xFF), cart.Read(0xA000))
}

func TestMBC0IgnoresAllWrites(t *testing.T) {
	rom := makeROM(0x00, 0x00, 0x00, 2)
	cart, err := New(rom)
	require.NoError(t, err)
	cart.Write(0x2000, 0x7F)
	assert.Equal(t, byte(1), cart.Read(0x4000), "bank-select writes to MBC0 are no-ops")
}

// tickSeconds advances the cartridge's RTC by whole seconds' worth of
// master ticks, chunked to fit Tick's uint8 parameter.
func tickSeconds(cart *Cartridge, seconds int) {
	remaining := seconds * masterTicksPerSecond
	for remaining > 0 {
		step := 200
		if remaining < step {
			step = remaining
		}
		cart.Tick(uint8(step))
		remaining -= step
	}
}

func TestMBC3RTCSecondsAdvanceOnTick(t *testing.T) {
	rom := makeROM(0x0F, 0x00, 0x00, 2) // MBC3+TIMER+BATTERY
	cart, err := New(rom)
	require.NoError(t, err)

	cart.Write(0x0000, 0x0A) // enable RAM/RTC access
	cart.Write(0x4000, 0x08) // select RTC seconds register
	cart.Write(0x6000, 0x00) // latch-control edge: 0 then 1
	cart.Write(0x6000, 0x01)
	assert.Equal(t, byte(0), cart.Read(0xA000), "seconds register starts at zero")

	tickSeconds(cart, 2)

	cart.Write(0x6000, 0x00)
	cart.Write(0x6000, 0x01) // re-latch to see the advanced value
	assert.Equal(t, byte(2), cart.Read(0xA000))
}

func TestMBC3RTCHaltStopsClock(t *testing.T) {
	rom := makeROM(0x0F, 0x00, 0x00, 2)
	cart, err := New(rom)
	require.NoError(t, err)

	cart.Write(0x0000, 0x0A)
	cart.Write(0x4000, 0x0C) // select day-high/flags register
	cart.Write(0xA000, 1<<6) // set halt flag

	cart.Write(0x4000, 0x08) // back to seconds
	tickSeconds(cart, 5)

	cart.Write(0x6000, 0x00)
	cart.Write(0x6000, 0x01)
	assert.Equal(t, byte(0), cart.Read(0xA000), "a halted RTC must not advance")
}

func TestMBC3WithoutLatchDoesNotExposeLiveSeconds(t *testing.T) {
	rom := makeROM(0x0F, 0x00, 0x00, 2)
	cart, err := New(rom)
	require.NoError(t, err)

	cart.Write(0x0000, 0x0A)
	cart.Write(0x4000, 0x08)
	tickSeconds(cart, 3)

	assert.Equal(t, byte(0), cart.Read(0xA000), "reads reflect the last latch, not the live counter")
}

func TestCartridgeRAMRoundTrip(t *testing.T) {
	rom := makeROM(0x03, 0x00, 0x02, 2)
	cart, err := New(rom)
	require.NoError(t, err)

	cart.Write(0x0000, 0x0A)
	cart.Write(0xA000, 0x99)
	saved := append([]byte(nil), cart.RAM()...)

	cart2, err := New(rom)
	require.NoError(t, err)
	cart2.LoadRAM(saved)
	cart2.Write(0x0000, 0x0A)
	assert.Equal(t, byte(0x99), cart2.Read(0xA000))
}
