package snapshot

import (
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"graphdb/internal/hierarchy"
	"graphdb/internal/object"
)

// SaveFile writes a zstd-compressed snapshot of h to path, replacing
// any existing file only after the new one is fully flushed.
func SaveFile(path string, h *hierarchy.Hierarchy) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	if err := Save(enc, h); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadFile restores a Hierarchy from a file written by SaveFile.
func LoadFile(path string, reg object.PointerRegistry) (*hierarchy.Hierarchy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return Load(io.Reader(dec), reg)
}
