package wire

import (
	"bytes"
	"errors"
	"io"

	"github.com/valyala/bytebufferpool"
)

var (
	ErrMalformedMessage = errors.New("wire: malformed value encoding")
	ErrUnknownValueKind = errors.New("wire: unknown value kind")
	ErrSeqnoMismatch    = errors.New("wire: frame seqno does not match in-progress message")
)

// Reassembler accumulates frames sharing one seqno into a complete
// message, per §6: frames are reassembled until the LAST flag is set.
// Not safe for concurrent use; one Reassembler serves one connection.
type Reassembler struct {
	buf    *bytebufferpool.ByteBuffer
	seqno  uint32
	cmd    byte
	flags  byte
	active bool
}

func NewReassembler() *Reassembler {
	return &Reassembler{}
}

// Feed folds one frame into the in-progress message. It returns the
// complete message body and true once a frame with FlagLast arrives;
// otherwise it returns (nil, false) and waits for more frames.
func (r *Reassembler) Feed(hdr Header, payload []byte) ([]byte, bool, error) {
	if hdr.Flags&FlagFirst != 0 {
		if r.active {
			r.release()
		}
		r.buf = bytebufferpool.Get()
		r.seqno = hdr.Seqno
		r.cmd = hdr.Cmd
		r.flags = hdr.Flags
		r.active = true
	} else if !r.active || hdr.Seqno != r.seqno {
		return nil, false, ErrSeqnoMismatch
	}

	r.buf.Write(payload)

	if hdr.Flags&FlagLast == 0 {
		return nil, false, nil
	}

	msg := make([]byte, r.buf.Len())
	copy(msg, r.buf.B)
	r.release()
	return msg, true, nil
}

// Cmd and Flags return the command id and flags carried on the first
// frame of the message currently being assembled (valid only between
// the FIRST frame and Feed returning done=true).
func (r *Reassembler) Cmd() byte   { return r.cmd }
func (r *Reassembler) Flags() byte { return r.flags }

func (r *Reassembler) release() {
	bytebufferpool.Put(r.buf)
	r.buf = nil
	r.active = false
}

// WriteMessage splits msg into one or more frames of at most
// MaxFrameSize bytes each and writes them to w, setting FlagFirst on
// the first frame and FlagLast on the last (a single-frame message
// carries both).
func WriteMessage(w io.Writer, cmd byte, flags byte, seqno uint32, msg []byte) error {
	total := uint32(len(msg))
	if total == 0 {
		hdr := Header{Cmd: cmd, Flags: flags | FlagFirst | FlagLast, Seqno: seqno, MsgSize: 0}
		return WriteFrame(w, hdr, nil)
	}

	r := bytes.NewReader(msg)
	chunk := make([]byte, MaxFrameSize)
	first := true
	for r.Len() > 0 {
		n, _ := r.Read(chunk)
		f := flags
		if first {
			f |= FlagFirst
		}
		if r.Len() == 0 {
			f |= FlagLast
		}
		hdr := Header{Cmd: cmd, Flags: f, Seqno: seqno, MsgSize: total}
		if err := WriteFrame(w, hdr, chunk[:n]); err != nil {
			return err
		}
		first = false
	}
	return nil
}
