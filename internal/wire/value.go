package wire

import (
	"encoding/binary"
	"math"
)

// ValueKind is the TLV type tag prefixing every encoded value (§6
// "Value encoding").
type ValueKind byte

const (
	KindNull ValueKind = iota
	KindError
	KindDouble
	KindLong
	KindString
	KindArray
	KindArrayEnd
)

// PostponedLength marks an array whose element count wasn't known when
// encoding started; the array is terminated by a KindArrayEnd value
// instead of being bounded by a count.
const PostponedLength uint32 = 0xffffffff

// ErrorValue carries an error reply's numeric code and message.
type ErrorValue struct {
	Code    int32
	Message string
}

// AppendNull appends a null value (no payload beyond the tag).
func AppendNull(b []byte) []byte {
	return append(b, byte(KindNull))
}

// AppendError appends an error value: i32 code + u32 msg_len + msg bytes.
func AppendError(b []byte, e ErrorValue) []byte {
	b = append(b, byte(KindError))
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(e.Code))
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(e.Message)))
	b = append(b, hdr[:]...)
	return append(b, e.Message...)
}

// AppendDouble appends an 8-byte little-endian float64 value.
func AppendDouble(b []byte, v float64) []byte {
	b = append(b, byte(KindDouble))
	var w [8]byte
	binary.LittleEndian.PutUint64(w[:], math.Float64bits(v))
	return append(b, w[:]...)
}

// AppendLong appends an 8-byte little-endian int64 value.
func AppendLong(b []byte, v int64) []byte {
	b = append(b, byte(KindLong))
	var w [8]byte
	binary.LittleEndian.PutUint64(w[:], uint64(v))
	return append(b, w[:]...)
}

// AppendString appends a u32-length-prefixed string value.
func AppendString(b []byte, s string) []byte {
	b = append(b, byte(KindString))
	var w [4]byte
	binary.LittleEndian.PutUint32(w[:], uint32(len(s)))
	b = append(b, w[:]...)
	return append(b, s...)
}

// AppendArrayHeader appends an array value tag with either a known
// element count or PostponedLength; callers then append n (or an
// unbounded run, closed with AppendArrayEnd) element values in turn.
func AppendArrayHeader(b []byte, n uint32) []byte {
	b = append(b, byte(KindArray))
	var w [4]byte
	binary.LittleEndian.PutUint32(w[:], n)
	return append(b, w[:]...)
}

// AppendArrayEnd appends the array terminator used after a postponed-
// length array header.
func AppendArrayEnd(b []byte) []byte {
	return append(b, byte(KindArrayEnd))
}

// Value is a decoded TLV value. Kind selects which field is populated:
// KindDouble -> Double, KindLong -> Long, KindString -> Str,
// KindError -> Err, KindArray -> ArrayLen (PostponedLength if open-ended).
type Value struct {
	Kind     ValueKind
	Double   float64
	Long     int64
	Str      string
	Err      ErrorValue
	ArrayLen uint32
}

// EncodeValue appends v's TLV encoding to b, the inverse of DecodeValue.
func EncodeValue(b []byte, v Value) []byte {
	switch v.Kind {
	case KindNull:
		return AppendNull(b)
	case KindError:
		return AppendError(b, v.Err)
	case KindDouble:
		return AppendDouble(b, v.Double)
	case KindLong:
		return AppendLong(b, v.Long)
	case KindString:
		return AppendString(b, v.Str)
	case KindArray:
		return AppendArrayHeader(b, v.ArrayLen)
	case KindArrayEnd:
		return AppendArrayEnd(b)
	default:
		return b
	}
}

// DecodeValue reads one TLV value from the front of b, returning the
// value and the number of bytes consumed.
func DecodeValue(b []byte) (Value, int, error) {
	if len(b) < 1 {
		return Value{}, 0, ErrMalformedMessage
	}
	kind := ValueKind(b[0])
	rest := b[1:]
	switch kind {
	case KindNull, KindArrayEnd:
		return Value{Kind: kind}, 1, nil
	case KindDouble:
		if len(rest) < 8 {
			return Value{}, 0, ErrMalformedMessage
		}
		v := math.Float64frombits(binary.LittleEndian.Uint64(rest[:8]))
		return Value{Kind: kind, Double: v}, 9, nil
	case KindLong:
		if len(rest) < 8 {
			return Value{}, 0, ErrMalformedMessage
		}
		v := int64(binary.LittleEndian.Uint64(rest[:8]))
		return Value{Kind: kind, Long: v}, 9, nil
	case KindString:
		if len(rest) < 4 {
			return Value{}, 0, ErrMalformedMessage
		}
		n := binary.LittleEndian.Uint32(rest[:4])
		rest = rest[4:]
		if uint32(len(rest)) < n {
			return Value{}, 0, ErrMalformedMessage
		}
		return Value{Kind: kind, Str: string(rest[:n])}, 1 + 4 + int(n), nil
	case KindError:
		if len(rest) < 8 {
			return Value{}, 0, ErrMalformedMessage
		}
		code := int32(binary.LittleEndian.Uint32(rest[:4]))
		n := binary.LittleEndian.Uint32(rest[4:8])
		rest = rest[8:]
		if uint32(len(rest)) < n {
			return Value{}, 0, ErrMalformedMessage
		}
		return Value{Kind: kind, Err: ErrorValue{Code: code, Message: string(rest[:n])}}, 1 + 8 + int(n), nil
	case KindArray:
		if len(rest) < 4 {
			return Value{}, 0, ErrMalformedMessage
		}
		n := binary.LittleEndian.Uint32(rest[:4])
		return Value{Kind: kind, ArrayLen: n}, 5, nil
	default:
		return Value{}, 0, ErrUnknownValueKind
	}
}
