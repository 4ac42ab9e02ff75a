package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{Cmd: 7, Flags: FlagFirst | FlagLast, Seqno: 42, FrameSize: 10, MsgSize: 10, Checksum: 0xdeadbeef}
	var b [HeaderSize]byte
	h.Marshal(b[:])
	got := UnmarshalHeader(b[:])
	assert.Equal(t, h, got)
}

func TestWriteReadFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	hdr := Header{Cmd: 1, Flags: FlagFirst | FlagLast, Seqno: 3}
	payload := []byte("hello frame")
	require.NoError(t, WriteFrame(&buf, hdr, payload))

	gotHdr, gotPayload, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, payload, gotPayload)
	assert.Equal(t, hdr.Cmd, gotHdr.Cmd)
	assert.Equal(t, hdr.Seqno, gotHdr.Seqno)
	assert.Equal(t, uint16(len(payload)), gotHdr.FrameSize)
}

func TestReadFrameDetectsChecksumMismatch(t *testing.T) {
	var buf bytes.Buffer
	hdr := Header{Cmd: 1, Flags: FlagFirst | FlagLast, Seqno: 3}
	require.NoError(t, WriteFrame(&buf, hdr, []byte("payload")))

	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] ^= 0xff

	_, _, err := ReadFrame(bytes.NewReader(corrupted))
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestWriteMessageSplitsAcrossFrames(t *testing.T) {
	var buf bytes.Buffer
	msg := bytes.Repeat([]byte("x"), MaxFrameSize+100)
	require.NoError(t, WriteMessage(&buf, 5, 0, 1, msg))

	r := NewReassembler()
	var result []byte
	var done bool
	for {
		hdr, payload, err := ReadFrame(&buf)
		require.NoError(t, err)
		result, done, err = r.Feed(hdr, payload)
		require.NoError(t, err)
		if done {
			break
		}
	}
	assert.Equal(t, msg, result)
}

func TestWriteMessageEmptyMessage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, 2, 0, 9, nil))

	hdr, payload, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, FlagFirst|FlagLast, hdr.Flags)
	assert.Empty(t, payload)
}

func TestReassemblerRejectsSeqnoMismatchMidMessage(t *testing.T) {
	r := NewReassembler()
	_, done, err := r.Feed(Header{Seqno: 1, Flags: FlagFirst}, []byte("a"))
	require.NoError(t, err)
	require.False(t, done)

	_, _, err = r.Feed(Header{Seqno: 2}, []byte("b"))
	assert.ErrorIs(t, err, ErrSeqnoMismatch)
}

func TestReassemblerStartsFreshOnNewFirstFrame(t *testing.T) {
	r := NewReassembler()
	_, done, err := r.Feed(Header{Seqno: 1, Flags: FlagFirst}, []byte("stale"))
	require.NoError(t, err)
	require.False(t, done)

	msg, done, err := r.Feed(Header{Seqno: 2, Flags: FlagFirst | FlagLast}, []byte("fresh"))
	require.NoError(t, err)
	require.True(t, done)
	assert.Equal(t, "fresh", string(msg))
}

func TestValueRoundTripNull(t *testing.T) {
	b := AppendNull(nil)
	v, n, err := DecodeValue(b)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, KindNull, v.Kind)
}

func TestValueRoundTripDouble(t *testing.T) {
	b := AppendDouble(nil, 3.14159)
	v, n, err := DecodeValue(b)
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.InDelta(t, 3.14159, v.Double, 1e-9)
}

func TestValueRoundTripLong(t *testing.T) {
	b := AppendLong(nil, -12345)
	v, _, err := DecodeValue(b)
	require.NoError(t, err)
	assert.Equal(t, int64(-12345), v.Long)
}

func TestValueRoundTripString(t *testing.T) {
	b := AppendString(nil, "hello graph")
	v, n, err := DecodeValue(b)
	require.NoError(t, err)
	assert.Equal(t, "hello graph", v.Str)
	assert.Equal(t, len(b), n)
}

func TestValueRoundTripError(t *testing.T) {
	b := AppendError(nil, ErrorValue{Code: 404, Message: "not found"})
	v, _, err := DecodeValue(b)
	require.NoError(t, err)
	assert.Equal(t, int32(404), v.Err.Code)
	assert.Equal(t, "not found", v.Err.Message)
}

func TestValueArrayWithPostponedLengthThenEnd(t *testing.T) {
	b := AppendArrayHeader(nil, PostponedLength)
	b = AppendLong(b, 1)
	b = AppendLong(b, 2)
	b = AppendArrayEnd(b)

	v, n, err := DecodeValue(b)
	require.NoError(t, err)
	assert.Equal(t, PostponedLength, v.ArrayLen)
	b = b[n:]

	v, n, err = DecodeValue(b)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Long)
	b = b[n:]

	v, n, err = DecodeValue(b)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Long)
	b = b[n:]

	v, _, err = DecodeValue(b)
	require.NoError(t, err)
	assert.Equal(t, KindArrayEnd, v.Kind)
}

func TestValueUnknownKind(t *testing.T) {
	_, _, err := DecodeValue([]byte{0xfe})
	assert.ErrorIs(t, err, ErrUnknownValueKind)
}
