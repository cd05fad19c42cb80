// Package ppu implements VRAM/OAM storage, the LCD control/status
// registers, palette lookup, and mode-gated bus access.
package ppu

import (
	"github.com/halcyon-systems/dmgcore/internal/interrupts"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144
)

// PPU is the pixel processing unit.
type PPU struct {
	vram [0x2000]byte
	oam  [0xA0]byte

	lcdc uint8
	stat uint8

	scy, scx uint8
	ly       uint8
	lyc      uint8
	wy, wx   uint8

	bgp, obp0, obp1 uint8

	mode        Mode
	cycle       uint16
	statIRQLine bool

	irq *interrupts.Controller

	// Frame holds the most recently completed frame as 2-bit DMG shade
	// indices (0=lightest .. 3=darkest); a frame-sink adapter maps these
	// through a palette to actual pixel colors.
	Frame        [ScreenHeight][ScreenWidth]uint8
	FrameReady   bool
}

// New returns a PPU with the LCD off and LY at 0.
func New(irq *interrupts.Controller) *PPU {
	return &PPU{irq: irq}
}

func (p *PPU) lcdOn() bool { return p.lcdc&(1<<lcdcEnable) != 0 }

// Tick advances the PPU state machine by n master ticks.
func (p *PPU) Tick(n uint8) {
	if !p.lcdOn() {
		p.mode = HBlank
		p.ly = 0
		p.cycle = 0
		return
	}

	p.cycle += uint16(n)
	switch p.mode {
	case OAMScan:
		if p.cycle >= ticksOAMScan {
			p.cycle -= ticksOAMScan
			p.setMode(Draw)
		}
	case Draw:
		if p.cycle >= ticksDraw {
			p.cycle -= ticksDraw
			p.renderScanline()
			p.setMode(HBlank)
		}
	case HBlank:
		if p.cycle >= ticksHBlank {
			p.cycle -= ticksHBlank
			p.ly++
			if p.ly >= visibleLines {
				p.setMode(VBlank)
				p.irq.Request(interrupts.VBlank)
				p.FrameReady = true
			} else {
				p.setMode(OAMScan)
			}
			p.checkLYC()
		}
	case VBlank:
		if p.cycle >= ticksPerLine {
			p.cycle -= ticksPerLine
			p.ly++
			p.checkLYC()
			if p.ly >= linesPerFrame {
				p.ly = 0
				p.setMode(OAMScan)
				p.checkLYC()
			}
		}
	}
}

func (p *PPU) setMode(m Mode) {
	p.mode = m
	p.updateStatIRQ()
}

func (p *PPU) checkLYC() {
	p.updateStatIRQ()
}

// updateStatIRQ re-evaluates the STAT interrupt line: it fires on LY=LYC
// equality (if enabled) and on entry to HBlank/VBlank/OAM-scan, each gated
// independently by STAT bits 3/4/5.
func (p *PPU) updateStatIRQ() {
	line := false
	if p.ly == p.lyc && p.stat&(1<<statLYCInterrupt) != 0 {
		line = true
	}
	switch p.mode {
	case HBlank:
		line = line || p.stat&(1<<statHBlankInterrupt) != 0
	case VBlank:
		line = line || p.stat&(1<<statVBlankInterrupt) != 0
	case OAMScan:
		line = line || p.stat&(1<<statOAMInterrupt) != 0
	}

	if line && !p.statIRQLine {
		p.irq.Request(interrupts.LCDStat)
	}
	p.statIRQLine = line
}

// vramAccessible reports whether the CPU may read/write VRAM right now.
func (p *PPU) vramAccessible() bool { return p.mode != Draw }

// oamAccessible reports whether the CPU may read/write OAM right now.
func (p *PPU) oamAccessible() bool { return p.mode != OAMScan && p.mode != Draw }

// ReadVRAM reads VRAM (0x8000-0x9FFF), gated by the current mode.
func (p *PPU) ReadVRAM(addr uint16) uint8 {
	if !p.vramAccessible() {
		return 0xFF
	}
	return p.vram[addr-0x8000]
}

// WriteVRAM writes VRAM, gated by the current mode.
func (p *PPU) WriteVRAM(addr uint16, v uint8) {
	if !p.vramAccessible() {
		return
	}
	p.vram[addr-0x8000] = v
}

// ReadVRAMRaw reads VRAM directly, bypassing mode gating. OAM DMA has its
// own bus access independent of the CPU-side mode restrictions, so its
// reads must not be turned into 0xFF by Draw-mode gating meant for the CPU.
func (p *PPU) ReadVRAMRaw(addr uint16) uint8 { return p.vram[addr-0x8000] }

// ReadOAM reads OAM (0xFE00-0xFE9F), gated by the current mode.
func (p *PPU) ReadOAM(addr uint16) uint8 {
	if !p.oamAccessible() {
		return 0xFF
	}
	return p.oam[addr-0xFE00]
}

// WriteOAM writes OAM, gated by the current mode.
func (p *PPU) WriteOAM(addr uint16, v uint8) {
	if !p.oamAccessible() {
		return
	}
	p.oam[addr-0xFE00] = v
}

// WriteOAMDMA writes OAM unconditionally: DMA has exclusive bus access for
// its duration, so the PPU's own mode gating does not apply to it.
func (p *PPU) WriteOAMDMA(index uint8, v uint8) {
	p.oam[index] = v
}

// ReadLCDC / WriteLCDC etc. are always readable; LY is read-only and the
// low two bits of STAT are read-only (they mirror the current mode).
func (p *PPU) ReadLCDC() uint8 { return p.lcdc }
func (p *PPU) WriteLCDC(v uint8) {
	wasOn := p.lcdOn()
	p.lcdc = v
	switch {
	case wasOn && !p.lcdOn():
		p.mode = HBlank
		p.ly = 0
		p.cycle = 0
	case !wasOn && p.lcdOn():
		p.mode = OAMScan
		p.ly = 0
		p.cycle = 0
	}
}

func (p *PPU) ReadSTAT() uint8 {
	return (p.stat & 0xF8) | uint8(p.mode) | 0x80
}
func (p *PPU) WriteSTAT(v uint8) {
	p.stat = (v & 0x78) | (p.stat & 0x07)
	p.updateStatIRQ()
}

func (p *PPU) ReadSCY() uint8    { return p.scy }
func (p *PPU) WriteSCY(v uint8)  { p.scy = v }
func (p *PPU) ReadSCX() uint8    { return p.scx }
func (p *PPU) WriteSCX(v uint8)  { p.scx = v }
func (p *PPU) ReadLY() uint8     { return p.ly }
func (p *PPU) ReadLYC() uint8    { return p.lyc }
func (p *PPU) WriteLYC(v uint8)  { p.lyc = v; p.checkLYC() }
func (p *PPU) ReadWY() uint8     { return p.wy }
func (p *PPU) WriteWY(v uint8)   { p.wy = v }
func (p *PPU) ReadWX() uint8     { return p.wx }
func (p *PPU) WriteWX(v uint8)   { p.wx = v }
func (p *PPU) ReadBGP() uint8    { return p.bgp }
func (p *PPU) WriteBGP(v uint8)  { p.bgp = v }
func (p *PPU) ReadOBP0() uint8   { return p.obp0 }
func (p *PPU) WriteOBP0(v uint8) { p.obp0 = v }
func (p *PPU) ReadOBP1() uint8   { return p.obp1 }
func (p *PPU) WriteOBP1(v uint8) { p.obp1 = v }
