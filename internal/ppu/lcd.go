package ppu

// Mode is the PPU's current scan state. Its numeric ordering matches the
// two low bits of the STAT register and controls VRAM/OAM visibility from
// the bus.
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	OAMScan
	Draw
)

const (
	ticksOAMScan = 80
	ticksDraw    = 172
	ticksHBlank  = 204
	ticksPerLine = ticksOAMScan + ticksDraw + ticksHBlank // 456
	linesPerFrame = 154
	visibleLines  = 144
)

// lcdc bit positions.
const (
	lcdcEnable       = 7
	lcdcWindowMap    = 6
	lcdcWindowEnable = 5
	lcdcTileData     = 4
	lcdcBGMap        = 3
	lcdcSpriteSize   = 2
	lcdcSpriteEnable = 1
	lcdcBGPriority   = 0
)

// stat bit positions.
const (
	statLYCInterrupt    = 6
	statOAMInterrupt    = 5
	statVBlankInterrupt = 4
	statHBlankInterrupt = 3
	statLYCEqual        = 2
)
