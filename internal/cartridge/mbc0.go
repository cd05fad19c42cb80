package cartridge

// mbc0 is a fixed mapping with no bank switching and ignores all writes.
type mbc0 struct {
	rom []byte
	ram []byte
}

func newMBC0(rom []byte, h *Header) *mbc0 {
	return &mbc0{rom: rom, ram: make([]byte, h.RAMBanks*h.RAMBankSize)}
}

func (m *mbc0) Read(addr uint16) uint8 {
	switch {
	case addr < 0x8000:
		return readAt(m.rom, int(addr))
	case addr >= 0xA000 && addr < 0xC000:
		return readAt(m.ram, int(addr-0xA000))
	}
	return 0xFF
}

func (m *mbc0) Write(addr uint16, value uint8) {
	if addr >= 0xA000 && addr < 0xC000 {
		writeAt(m.ram, int(addr-0xA000), value)
	}
	// writes to the ROM region are ignored.
}

func (m *mbc0) RAM() []byte         { return m.ram }
func (m *mbc0) LoadRAM(data []byte) { copy(m.ram, data) }
