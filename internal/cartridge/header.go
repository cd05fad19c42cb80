package cartridge

import "fmt"

// Type identifies the memory-bank-controller family a cartridge uses.
type Type uint8

const (
	TypeMBC0 Type = iota
	TypeMBC1
	TypeMBC2
	TypeMBC3
)

// Header holds the parsed fields of the cartridge header (0x0134-0x014D)
// needed to construct the right MBC and size its backing storage.
type Header struct {
	Title       string
	MBCType     Type
	HasBattery  bool
	HasRTC      bool
	ROMBanks    int
	RAMBanks    int
	ROMSize     int
	RAMBankSize int
}

var batteryCarts = map[byte]bool{
	0x03: true, 0x06: true, 0x09: true, 0x0D: true,
	0x0F: true, 0x10: true, 0x13: true,
	0x1B: true, 0x1E: true, 0x22: true,
}

var rtcCarts = map[byte]bool{0x0F: true, 0x10: true}

// ParseHeader reads the cartridge header out of a full ROM image and
// reports an error for any byte combination it does not recognize — a
// header parse failure is an input fault (spec §7.2): reported before the
// tick loop begins, never during it.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < 0x150 {
		return nil, fmt.Errorf("cartridge: image too short to contain a header (%d bytes)", len(rom))
	}

	h := &Header{RAMBankSize: 0x2000}

	cartType := rom[0x147]
	switch {
	case cartType == 0x00 || cartType == 0x08 || cartType == 0x09:
		h.MBCType = TypeMBC0
	case cartType >= 0x01 && cartType <= 0x03:
		h.MBCType = TypeMBC1
	case cartType >= 0x05 && cartType <= 0x06:
		h.MBCType = TypeMBC2
	case cartType >= 0x0F && cartType <= 0x13:
		h.MBCType = TypeMBC3
	default:
		return nil, fmt.Errorf("cartridge: unsupported MBC type byte 0x%02X", cartType)
	}
	h.HasBattery = batteryCarts[cartType]
	h.HasRTC = rtcCarts[cartType]

	romSizeByte := rom[0x148]
	switch {
	case romSizeByte <= 0x08:
		h.ROMBanks = 2 << romSizeByte
	case romSizeByte == 0x52:
		h.ROMBanks = 72
	case romSizeByte == 0x53:
		h.ROMBanks = 80
	case romSizeByte == 0x54:
		h.ROMBanks = 96
	default:
		return nil, fmt.Errorf("cartridge: invalid ROM size byte 0x%02X", romSizeByte)
	}
	h.ROMSize = h.ROMBanks * 0x4000

	ramSizeByte := rom[0x149]
	switch ramSizeByte {
	case 0x00:
		if h.MBCType == TypeMBC2 {
			h.RAMBanks = 1
		} else {
			h.RAMBanks = 0
		}
	case 0x02:
		h.RAMBanks = 1
	case 0x03:
		h.RAMBanks = 4
	case 0x04:
		h.RAMBanks = 16
	case 0x05:
		h.RAMBanks = 8
	default:
		return nil, fmt.Errorf("cartridge: invalid RAM size byte 0x%02X", ramSizeByte)
	}

	if h.MBCType == TypeMBC2 {
		// MBC2 has 512x4 bits of built-in RAM, addressed as 512 bytes.
		h.RAMBankSize = 512
	}

	title := make([]byte, 0, 16)
	for i := 0x134; i <= 0x143; i++ {
		if rom[i] == 0 {
			break
		}
		title = append(title, rom[i])
	}
	h.Title = string(title)

	return h, nil
}

// romBankMask returns (1 << ceil(log2(bankCount))) - 1, the mask applied to
// MBC1 ROM bank numbers after adjustment.
func romBankMask(bankCount int) uint8 {
	if bankCount <= 1 {
		return 0
	}
	bits := 0
	for (1 << bits) < bankCount {
		bits++
	}
	return uint8((1 << bits) - 1)
}
