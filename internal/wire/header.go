// Package wire implements the length-prefixed, CRC-32C-checked binary
// frame protocol and its TLV value encoding (§6, C11).
package wire

import "encoding/binary"

// HeaderSize is the fixed on-wire byte width of Header.
const HeaderSize = 1 + 1 + 4 + 2 + 4 + 4

// Flag bits set on Header.Flags.
const (
	FlagFirst  byte = 1 << 0
	FlagLast   byte = 1 << 1
	FlagReqRes byte = 1 << 2 // set on responses
)

// Header is the fixed 16-byte frame header (§6 "Wire frame"):
//
//	struct Header { u8 cmd; u8 flags; u32 seqno_le; u16 frame_bsize_le;
//	                u32 msg_bsize_le; u32 chk_le; }
type Header struct {
	Cmd       byte
	Flags     byte
	Seqno     uint32
	FrameSize uint16 // size of this frame's payload, excluding the header
	MsgSize   uint32 // total size of the message this frame belongs to
	Checksum  uint32 // CRC-32C over the frame with Checksum zeroed
}

// Marshal writes the header's 16 bytes into b, which must be at least
// HeaderSize long.
func (h Header) Marshal(b []byte) {
	b[0] = h.Cmd
	b[1] = h.Flags
	binary.LittleEndian.PutUint32(b[2:6], h.Seqno)
	binary.LittleEndian.PutUint16(b[6:8], h.FrameSize)
	binary.LittleEndian.PutUint32(b[8:12], h.MsgSize)
	binary.LittleEndian.PutUint32(b[12:16], h.Checksum)
}

// UnmarshalHeader reads a Header from the first HeaderSize bytes of b.
func UnmarshalHeader(b []byte) Header {
	return Header{
		Cmd:       b[0],
		Flags:     b[1],
		Seqno:     binary.LittleEndian.Uint32(b[2:6]),
		FrameSize: binary.LittleEndian.Uint16(b[6:8]),
		MsgSize:   binary.LittleEndian.Uint32(b[8:12]),
		Checksum:  binary.LittleEndian.Uint32(b[12:16]),
	}
}
