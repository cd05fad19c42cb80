package cartridge

// mbc2 has a fixed 512x4-bit built-in RAM (no external RAM chip) and a
// single 4-bit ROM bank register, selected by address bit 8 of the write.
type mbc2 struct {
	rom []byte
	ram []byte // 512 nibbles stored one per byte, only the low nibble used

	ramEnabled bool
	romBank    uint8

	romBankMask uint8
}

func newMBC2(rom []byte, h *Header) *mbc2 {
	return &mbc2{
		rom:         rom,
		ram:         make([]byte, 512),
		romBank:     1,
		romBankMask: romBankMask(h.ROMBanks),
	}
}

func (m *mbc2) Read(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		return readAt(m.rom, int(addr))
	case addr < 0x8000:
		bank := m.romBank
		if m.romBankMask != 0 {
			bank &= m.romBankMask
		}
		return readAt(m.rom, romBankBase(int(bank))+int(addr-0x4000))
	case addr >= 0xA000 && addr < 0xC000:
		if !m.ramEnabled {
			return 0xFF
		}
		// 0xA200-0xBFFF mirrors the 512-byte RAM at 0xA000-0xA1FF.
		off := int(addr-0xA000) % 0x200
		return readAt(m.ram, off) | 0xF0
	}
	return 0xFF
}

func (m *mbc2) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x4000:
		if addr&0x100 == 0 {
			m.ramEnabled = value&0x0F == 0x0A
		} else {
			v := value & 0x0F
			if v == 0 {
				v = 1
			}
			m.romBank = v
		}
	case addr >= 0xA000 && addr < 0xC000:
		if !m.ramEnabled {
			return
		}
		off := int(addr-0xA000) % 0x200
		writeAt(m.ram, off, value&0x0F)
	}
}

func (m *mbc2) RAM() []byte         { return m.ram }
func (m *mbc2) LoadRAM(data []byte) { copy(m.ram, data) }
