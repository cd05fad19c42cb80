// Package cartio loads cartridge images from disk — plain, zipped, or
// 7-zipped — and manages the battery-backed save file that sits alongside
// them, named from a content hash rather than the ROM's own filename so a
// renamed or relocated ROM still finds its save.
package cartio

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/sevenzip"
	"github.com/cespare/xxhash"
)

// LoadROM reads a cartridge image from disk, transparently extracting the
// first entry of a .zip or .7z archive. Plain .gb/.gbc files and anything
// with an unrecognized extension are returned as-is.
func LoadROM(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cartio: open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("cartio: read %s: %w", path, err)
	}

	switch filepath.Ext(path) {
	case ".zip":
		return extractZip(data)
	case ".7z":
		return extractSevenZip(f, int64(len(data)))
	default:
		return data, nil
	}
}

func extractZip(data []byte) ([]byte, error) {
	r, err := zip.NewReader(byteReaderAt(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("cartio: open zip: %w", err)
	}
	if len(r.File) == 0 {
		return nil, fmt.Errorf("cartio: empty zip archive")
	}
	rc, err := r.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("cartio: open zip entry: %w", err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func extractSevenZip(f *os.File, size int64) ([]byte, error) {
	r, err := sevenzip.NewReader(f, size)
	if err != nil {
		return nil, fmt.Errorf("cartio: open 7z: %w", err)
	}
	if len(r.File) == 0 {
		return nil, fmt.Errorf("cartio: empty 7z archive")
	}
	rc, err := r.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("cartio: open 7z entry: %w", err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// byteReaderAt adapts a byte slice to io.ReaderAt for zip.NewReader.
type byteReaderAt []byte

func (b byteReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b)) {
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// SavePath derives the battery-save path for a ROM from its content hash
// rather than its filename, so the save survives a rename or a move into a
// differently-named copy of the same ROM.
func SavePath(saveDir string, rom []byte) string {
	return filepath.Join(saveDir, fmt.Sprintf("%016x.sav", xxhash.Sum64(rom)))
}

// LoadSave reads a save file if one exists; a missing file is not an error,
// it just means the cartridge starts with zeroed RAM.
func LoadSave(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cartio: read save %s: %w", path, err)
	}
	return data, nil
}

// WriteSave persists cartridge RAM to its save file.
func WriteSave(path string, ram []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cartio: create save dir: %w", err)
	}
	if err := os.WriteFile(path, ram, 0o644); err != nil {
		return fmt.Errorf("cartio: write save %s: %w", path, err)
	}
	return nil
}
