package wire

import (
	"errors"
	"hash/crc32"
	"io"

	"github.com/valyala/bytebufferpool"
)

var (
	ErrChecksumMismatch = errors.New("wire: frame CRC-32C mismatch")
	ErrFrameTooLarge    = errors.New("wire: frame exceeds MaxFrameSize")
)

// MaxFrameSize bounds a single frame's payload to keep FrameSize within
// its 16-bit wire field.
const MaxFrameSize = 1<<16 - 1

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// checksum computes the frame's CRC-32C with the header's Checksum
// field treated as zero, per §6 ("verifying per-frame CRC-32C over the
// frame with chk zeroed during computation").
func checksum(hdr Header, payload []byte) uint32 {
	hdr.Checksum = 0
	var hb [HeaderSize]byte
	hdr.Marshal(hb[:])
	c := crc32.Checksum(hb[:], castagnoli)
	return crc32.Update(c, castagnoli, payload)
}

// WriteFrame encodes hdr+payload to w, computing and installing the
// CRC-32C checksum. The buffer used for the header is drawn from a
// pool to avoid a per-frame allocation (C11's bytebufferpool wiring).
func WriteFrame(w io.Writer, hdr Header, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	hdr.FrameSize = uint16(len(payload))
	hdr.Checksum = checksum(hdr, payload)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	var hb [HeaderSize]byte
	hdr.Marshal(hb[:])
	buf.Write(hb[:])
	buf.Write(payload)

	_, err := w.Write(buf.B)
	return err
}

// ReadFrame reads one header+payload frame from r, verifying its
// checksum. A mismatch returns ErrChecksumMismatch; callers must close
// the connection on this error (§6, §7 "Protocol" errors).
func ReadFrame(r io.Reader) (Header, []byte, error) {
	var hb [HeaderSize]byte
	if _, err := io.ReadFull(r, hb[:]); err != nil {
		return Header{}, nil, err
	}
	hdr := UnmarshalHeader(hb[:])

	payload := make([]byte, hdr.FrameSize)
	if hdr.FrameSize > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Header{}, nil, err
		}
	}
	if checksum(hdr, payload) != hdr.Checksum {
		return Header{}, nil, ErrChecksumMismatch
	}
	return hdr, payload, nil
}
