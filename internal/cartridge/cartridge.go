// Package cartridge implements the external-cartridge address space: ROM
// image storage, battery-backed RAM, and the MBC0/1/2/3 bank-controller
// family that rewrites address translation on writes to the ROM region.
//
// The four MBC variants share one read/write signature and are dispatched
// through the small unexported mbc interface, one implementation per
// variant; there is no tagged union or single switch over the variants.
package cartridge

import "fmt"

// mbc is the internal dispatch surface every variant implements.
type mbc interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
	RAM() []byte
	LoadRAM(data []byte)
}

// Cartridge owns the ROM image, external RAM, and the active bank
// controller. It exposes read(address)->byte and write(address, byte) to
// the bus for its two address windows (0x0000-0x7FFF and 0xA000-0xBFFF).
type Cartridge struct {
	Header *Header
	impl   mbc
}

// New parses the header from rom and constructs the matching MBC. Errors
// here are input faults and must be surfaced before the tick loop starts.
func New(rom []byte) (*Cartridge, error) {
	header, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}

	var m mbc
	switch header.MBCType {
	case TypeMBC0:
		m = newMBC0(rom, header)
	case TypeMBC1:
		m = newMBC1(rom, header)
	case TypeMBC2:
		m = newMBC2(rom, header)
	case TypeMBC3:
		m = newMBC3(rom, header)
	default:
		return nil, fmt.Errorf("cartridge: unhandled MBC type %v", header.MBCType)
	}

	return &Cartridge{Header: header, impl: m}, nil
}

// Read dispatches a read to the active MBC.
func (c *Cartridge) Read(addr uint16) uint8 { return c.impl.Read(addr) }

// Write dispatches a write to the active MBC.
func (c *Cartridge) Write(addr uint16, value uint8) { c.impl.Write(addr, value) }

// RAM returns the cartridge's battery-backed RAM for save persistence. It
// is empty (zero-length) for cartridges without external RAM.
func (c *Cartridge) RAM() []byte { return c.impl.RAM() }

// LoadRAM restores previously saved battery-backed RAM.
func (c *Cartridge) LoadRAM(data []byte) { c.impl.LoadRAM(data) }

// ticker is implemented by MBC variants that free-run an internal clock
// (currently only MBC3's RTC) off the master-clock tick count.
type ticker interface {
	Tick(n uint8)
}

// Tick advances any MBC-internal clock by n master ticks; a no-op for
// variants without one.
func (c *Cartridge) Tick(n uint8) {
	if t, ok := c.impl.(ticker); ok {
		t.Tick(n)
	}
}

// romBankBase returns the byte offset of ROM bank n.
func romBankBase(n int) int { return n * 0x4000 }

// ramBankBase returns the byte offset of RAM bank n given the bank size.
func ramBankBase(n, bankSize int) int { return n * bankSize }

func readAt(data []byte, offset int) uint8 {
	if offset < 0 || offset >= len(data) {
		return 0xFF
	}
	return data[offset]
}

func writeAt(data []byte, offset int, v uint8) {
	if offset < 0 || offset >= len(data) {
		return
	}
	data[offset] = v
}
