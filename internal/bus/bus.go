// Package bus implements the memory-mapped address space tying the CPU to
// work RAM, the cartridge, the PPU, APU, timer, joypad, and interrupt
// controller, plus boot-ROM shadowing and OAM DMA.
package bus

import (
	"github.com/halcyon-systems/dmgcore/internal/apu"
	"github.com/halcyon-systems/dmgcore/internal/cartridge"
	"github.com/halcyon-systems/dmgcore/internal/interrupts"
	"github.com/halcyon-systems/dmgcore/internal/joypad"
	"github.com/halcyon-systems/dmgcore/internal/ppu"
	"github.com/halcyon-systems/dmgcore/internal/timer"
)

// Bus is the full DMG address space, 0x0000-0xFFFF.
type Bus struct {
	Cart *cartridge.Cartridge
	PPU  *ppu.PPU
	APU  *apu.APU
	Timer *timer.Controller
	Joypad *joypad.State
	IRQ  *interrupts.Controller

	wram [0x2000]byte // 0xC000-0xDFFF, echoed at 0xE000-0xFDFF
	hram [0x7F]byte   // 0xFF80-0xFFFE

	bootROM     []byte
	bootMapped  bool

	dmaActive bool
	dmaSource uint16
	dmaIndex  uint8
	dmaDelay  uint8
}

// New wires a bus around its peripherals. bootROM may be nil, in which case
// the boot shadow is skipped and the cartridge is visible from address 0
// immediately.
func New(cart *cartridge.Cartridge, p *ppu.PPU, a *apu.APU, t *timer.Controller, j *joypad.State, irq *interrupts.Controller, bootROM []byte) *Bus {
	return &Bus{
		Cart:       cart,
		PPU:        p,
		APU:        a,
		Timer:      t,
		Joypad:     j,
		IRQ:        irq,
		bootROM:    bootROM,
		bootMapped: len(bootROM) > 0,
	}
}

// Read reads one byte from the full address space.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x00FF && b.bootMapped:
		return b.bootROM[addr]
	case addr <= 0x7FFF:
		return b.Cart.Read(addr)
	case addr <= 0x9FFF:
		return b.PPU.ReadVRAM(addr)
	case addr <= 0xBFFF:
		return b.Cart.Read(addr)
	case addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr <= 0xFDFF:
		return b.wram[addr-0xE000]
	case addr <= 0xFE9F:
		if b.dmaActive {
			return 0xFF
		}
		return b.PPU.ReadOAM(addr)
	case addr <= 0xFEFF:
		return 0xFF // unusable region
	case addr == 0xFF00:
		return b.Joypad.Read()
	case addr == 0xFF01, addr == 0xFF02:
		return 0xFF // serial, unimplemented
	case addr == 0xFF04:
		return b.Timer.ReadDIV()
	case addr == 0xFF05:
		return b.Timer.ReadTIMA()
	case addr == 0xFF06:
		return b.Timer.ReadTMA()
	case addr == 0xFF07:
		return b.Timer.ReadTAC()
	case addr == 0xFF0F:
		return b.IRQ.ReadFlag()
	case addr >= 0xFF10 && addr <= 0xFF3F:
		return b.APU.Read(addr)
	case addr == 0xFF40:
		return b.PPU.ReadLCDC()
	case addr == 0xFF41:
		return b.PPU.ReadSTAT()
	case addr == 0xFF42:
		return b.PPU.ReadSCY()
	case addr == 0xFF43:
		return b.PPU.ReadSCX()
	case addr == 0xFF44:
		return b.PPU.ReadLY()
	case addr == 0xFF45:
		return b.PPU.ReadLYC()
	case addr == 0xFF46:
		return 0xFF // DMA source register, write-only
	case addr == 0xFF47:
		return b.PPU.ReadBGP()
	case addr == 0xFF48:
		return b.PPU.ReadOBP0()
	case addr == 0xFF49:
		return b.PPU.ReadOBP1()
	case addr == 0xFF4A:
		return b.PPU.ReadWY()
	case addr == 0xFF4B:
		return b.PPU.ReadWX()
	case addr == 0xFF50:
		if b.bootMapped {
			return 0xFE
		}
		return 0xFF
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	case addr == 0xFFFF:
		return b.IRQ.ReadEnable()
	}
	return 0xFF
}

// Write writes one byte to the full address space.
func (b *Bus) Write(addr uint16, v uint8) {
	switch {
	case addr <= 0x7FFF:
		b.Cart.Write(addr, v)
	case addr <= 0x9FFF:
		b.PPU.WriteVRAM(addr, v)
	case addr <= 0xBFFF:
		b.Cart.Write(addr, v)
	case addr <= 0xDFFF:
		b.wram[addr-0xC000] = v
	case addr <= 0xFDFF:
		b.wram[addr-0xE000] = v
	case addr <= 0xFE9F:
		if !b.dmaActive {
			b.PPU.WriteOAM(addr, v)
		}
	case addr <= 0xFEFF:
		// unusable region, writes ignored
	case addr == 0xFF00:
		b.Joypad.Write(v)
	case addr == 0xFF01, addr == 0xFF02:
		// serial, unimplemented
	case addr == 0xFF04:
		b.Timer.WriteDIV(v)
	case addr == 0xFF05:
		b.Timer.WriteTIMA(v)
	case addr == 0xFF06:
		b.Timer.WriteTMA(v)
	case addr == 0xFF07:
		b.Timer.WriteTAC(v)
	case addr == 0xFF0F:
		b.IRQ.WriteFlag(v)
	case addr >= 0xFF10 && addr <= 0xFF3F:
		b.APU.Write(addr, v)
	case addr == 0xFF40:
		b.PPU.WriteLCDC(v)
	case addr == 0xFF41:
		b.PPU.WriteSTAT(v)
	case addr == 0xFF42:
		b.PPU.WriteSCY(v)
	case addr == 0xFF43:
		b.PPU.WriteSCX(v)
	case addr == 0xFF44:
		// LY is read-only
	case addr == 0xFF45:
		b.PPU.WriteLYC(v)
	case addr == 0xFF46:
		b.startDMA(v)
	case addr == 0xFF47:
		b.PPU.WriteBGP(v)
	case addr == 0xFF48:
		b.PPU.WriteOBP0(v)
	case addr == 0xFF49:
		b.PPU.WriteOBP1(v)
	case addr == 0xFF4A:
		b.PPU.WriteWY(v)
	case addr == 0xFF4B:
		b.PPU.WriteWX(v)
	case addr == 0xFF50:
		b.bootMapped = false
	case addr >= 0xFF80 && addr <= 0xFFFE:
		b.hram[addr-0xFF80] = v
	case addr == 0xFFFF:
		b.IRQ.WriteEnable(v)
	}
}

func (b *Bus) startDMA(source uint8) {
	b.dmaActive = true
	b.dmaSource = uint16(source) << 8
	b.dmaIndex = 0
	b.dmaDelay = 0
}

// Tick advances any in-flight OAM DMA transfer by n master ticks. DMA copies
// one byte every 4 master ticks, independent of CPU/bus contention rules,
// and runs for exactly 160 bytes (0xA0).
func (b *Bus) Tick(n uint8) {
	if !b.dmaActive {
		return
	}
	b.dmaDelay += n
	for b.dmaDelay >= 4 && b.dmaActive {
		b.dmaDelay -= 4
		v := b.dmaRead(b.dmaSource + uint16(b.dmaIndex))
		b.PPU.WriteOAMDMA(b.dmaIndex, v)
		b.dmaIndex++
		if b.dmaIndex >= 0xA0 {
			b.dmaActive = false
		}
	}
}

// dmaRead reads a source byte for DMA, bypassing PPU mode gating (DMA has
// priority over the CPU for the duration of the transfer, but is not itself
// gated by the PPU's own mode).
func (b *Bus) dmaRead(addr uint16) uint8 {
	switch {
	case addr <= 0x7FFF:
		return b.Cart.Read(addr)
	case addr <= 0x9FFF:
		return b.PPU.ReadVRAMRaw(addr)
	case addr <= 0xBFFF:
		return b.Cart.Read(addr)
	case addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	default:
		return b.wram[(addr-0xE000)%0x2000]
	}
}
