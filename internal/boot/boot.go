// Package boot validates and exposes the 256-byte DMG boot ROM image. The
// image itself is not bundled into this module — unlike the CGB-era image
// some reference emulators embed, the original DMG boot ROM is copyrighted
// Nintendo firmware — so it is loaded from an external path supplied at
// startup; a GameBoy built with no image simply skips the boot shadow and
// starts execution at the cartridge entry point, a supported mode the bus
// already implements.
package boot

import (
	"fmt"

	"github.com/cespare/xxhash"
)

// Size is the fixed length of the DMG boot ROM.
const Size = 256

// ROM is a validated boot ROM image plus its content hash, used to
// distinguish known boot ROM dumps for diagnostic logging.
type ROM struct {
	raw  []byte
	hash uint64
}

// Load validates a boot ROM image and wraps it. It rejects anything other
// than the fixed 256-byte DMG length; this module has no CGB mode to
// accept the larger CGB boot ROM size some source material also supports.
func Load(raw []byte) (*ROM, error) {
	if len(raw) != Size {
		return nil, fmt.Errorf("boot: invalid boot ROM length: got %d, want %d", len(raw), Size)
	}
	return &ROM{raw: append([]byte(nil), raw...), hash: xxhash.Sum64(raw)}, nil
}

// Bytes returns the raw 256-byte image.
func (r *ROM) Bytes() []byte { return r.raw }

// Hash returns the 64-bit content hash of the image, useful for logging
// which boot ROM dump is in use without echoing the binary itself.
func (r *ROM) Hash() uint64 { return r.hash }
