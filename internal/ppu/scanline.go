package ppu

// renderScanline composes one row of the frame buffer at LY, combining
// background, window, and sprite layers. It runs once per scanline at the
// Draw-to-HBlank transition rather than pixel-by-pixel, trading fetch-timing
// fidelity for a far simpler implementation; nothing in this core depends on
// sub-scanline timing.
func (p *PPU) renderScanline() {
	if p.ly >= visibleLines {
		return
	}

	var bgIndex [ScreenWidth]uint8
	if p.lcdc&(1<<lcdcBGPriority) != 0 {
		p.renderBackground(&bgIndex)
		if p.lcdc&(1<<lcdcWindowEnable) != 0 {
			p.renderWindow(&bgIndex)
		}
	}

	for x := 0; x < ScreenWidth; x++ {
		p.Frame[p.ly][x] = applyPalette(p.bgp, bgIndex[x])
	}

	if p.lcdc&(1<<lcdcSpriteEnable) != 0 {
		p.renderSprites(&bgIndex)
	}
}

func (p *PPU) renderBackground(out *[ScreenWidth]uint8) {
	y := p.ly + p.scy
	mapBase := uint16(0x9800)
	if p.lcdc&(1<<lcdcBGMap) != 0 {
		mapBase = 0x9C00
	}
	tileRow := uint16(y/8) * 32

	for x := uint8(0); x < ScreenWidth; x++ {
		scrolledX := x + p.scx
		tileCol := uint16(scrolledX / 8)
		tileIndex := p.vram[mapBase+tileRow+tileCol-0x8000]
		addr := p.tileAddress(tileIndex)

		line := y % 8
		lo := p.vram[addr+uint16(line)*2-0x8000]
		hi := p.vram[addr+uint16(line)*2+1-0x8000]

		bit := 7 - (scrolledX % 8)
		out[x] = colorIndex(lo, hi, bit)
	}
}

func (p *PPU) renderWindow(out *[ScreenWidth]uint8) {
	if p.ly < p.wy {
		return
	}
	wx := int(p.wx) - 7
	mapBase := uint16(0x9800)
	if p.lcdc&(1<<lcdcWindowMap) != 0 {
		mapBase = 0x9C00
	}
	windowLine := p.ly - p.wy
	tileRow := uint16(windowLine/8) * 32

	for x := 0; x < ScreenWidth; x++ {
		if x < wx {
			continue
		}
		wpx := uint16(x - wx)
		tileCol := wpx / 8
		tileIndex := p.vram[mapBase+tileRow+tileCol-0x8000]
		addr := p.tileAddress(tileIndex)

		line := windowLine % 8
		lo := p.vram[addr+uint16(line)*2-0x8000]
		hi := p.vram[addr+uint16(line)*2+1-0x8000]

		bit := uint8(7 - (wpx % 8))
		out[x] = colorIndex(lo, hi, bit)
	}
}

// tileAddress resolves a tile index into a VRAM tile-data address per
// LCDC bit 4: unsigned indexing from 0x8000, or signed indexing from 0x9000.
func (p *PPU) tileAddress(index uint8) uint16 {
	if p.lcdc&(1<<lcdcTileData) != 0 {
		return 0x8000 + uint16(index)*16
	}
	return uint16(int32(0x9000) + int32(int8(index))*16)
}

func colorIndex(lo, hi uint8, bit uint8) uint8 {
	loBit := (lo >> bit) & 1
	hiBit := (hi >> bit) & 1
	return (hiBit << 1) | loBit
}

func applyPalette(palette uint8, index uint8) uint8 {
	return (palette >> (index * 2)) & 0x03
}

// spriteEntry mirrors the four-byte OAM layout for one sprite.
type spriteEntry struct {
	y, x, tile, attr uint8
}

func (p *PPU) renderSprites(bg *[ScreenWidth]uint8) {
	tall := p.lcdc&(1<<lcdcSpriteSize) != 0
	height := uint8(8)
	if tall {
		height = 16
	}

	var visible []spriteEntry
	for i := 0; i < 40 && len(visible) < 10; i++ {
		e := spriteEntry{
			y:    p.oam[i*4] - 16,
			x:    p.oam[i*4+1] - 8,
			tile: p.oam[i*4+2],
			attr: p.oam[i*4+3],
		}
		if p.ly >= e.y && p.ly < e.y+height {
			visible = append(visible, e)
		}
	}

	for x := 0; x < ScreenWidth; x++ {
		for _, e := range visible {
			if uint8(x) < e.x || uint8(x) >= e.x+8 {
				continue
			}

			line := p.ly - e.y
			if e.attr&(1<<6) != 0 {
				line = height - 1 - line
			}
			tile := e.tile
			if tall {
				tile &^= 1
				if line >= 8 {
					tile |= 1
					line -= 8
				}
			}

			col := uint8(x) - e.x
			if e.attr&(1<<5) != 0 {
				col = 7 - col
			}
			bit := 7 - col

			addr := 0x8000 + uint16(tile)*16
			lo := p.vram[addr+uint16(line)*2-0x8000]
			hi := p.vram[addr+uint16(line)*2+1-0x8000]
			idx := colorIndex(lo, hi, bit)
			if idx == 0 {
				continue // transparent
			}

			if e.attr&(1<<7) != 0 && bg[x] != 0 {
				continue // behind background, background not color 0
			}

			palette := p.obp0
			if e.attr&(1<<4) != 0 {
				palette = p.obp1
			}
			p.Frame[p.ly][x] = applyPalette(palette, idx)
			break
		}
	}
}
