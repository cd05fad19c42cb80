// Package bits provides the BitField helper used throughout the core to
// pack and unpack the individual fields of an 8-bit hardware register.
package bits

import "fmt"

// Field is an 8-bit hardware register viewed as a bag of bits and bit
// ranges. It carries no state beyond the raw byte and is usually embedded
// by value inside the register structs that need it.
type Field uint8

// Bit returns the value (0 or 1) of bit i.
func (f Field) Bit(i uint8) uint8 {
	if i >= 8 {
		panic(fmt.Sprintf("bits: bit index %d out of range", i))
	}
	return uint8(f>>i) & 1
}

// Test reports whether bit i is set.
func (f Field) Test(i uint8) bool {
	return f.Bit(i) == 1
}

// Range reads the inclusive bit range [lo, hi] and returns it right-aligned.
func (f Field) Range(lo, hi uint8) uint8 {
	if hi >= 8 || lo > hi {
		panic(fmt.Sprintf("bits: range [%d,%d] out of range", lo, hi))
	}
	width := hi - lo + 1
	mask := uint8(1<<width) - 1
	return (uint8(f) >> lo) & mask
}

// WithRange returns f with the inclusive bit range [lo, hi] replaced by the
// low bits of value; bits of value above the range's width are discarded.
func (f Field) WithRange(lo, hi uint8, value uint8) Field {
	if hi >= 8 || lo > hi {
		panic(fmt.Sprintf("bits: range [%d,%d] out of range", lo, hi))
	}
	width := hi - lo + 1
	mask := uint8(1<<width) - 1
	value &= mask
	cleared := uint8(f) &^ (mask << lo)
	return Field(cleared | (value << lo))
}

// Set returns f with bit i set.
func (f Field) Set(i uint8) Field {
	if i >= 8 {
		panic(fmt.Sprintf("bits: bit index %d out of range", i))
	}
	return Field(uint8(f) | (1 << i))
}

// Reset returns f with bit i cleared.
func (f Field) Reset(i uint8) Field {
	if i >= 8 {
		panic(fmt.Sprintf("bits: bit index %d out of range", i))
	}
	return Field(uint8(f) &^ (1 << i))
}

// With returns f with bit i set to the given boolean value.
func (f Field) With(i uint8, v bool) Field {
	if v {
		return f.Set(i)
	}
	return f.Reset(i)
}

// Byte returns the raw underlying byte.
func (f Field) Byte() uint8 { return uint8(f) }
