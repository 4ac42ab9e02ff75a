package modify

import (
	"encoding/binary"
	"errors"
	"math"

	"graphdb/internal/ids"
)

var ErrMalformedValue = errors.New("modify: malformed value blob")

// decodeIncrementLong/decodeIncrementDouble decode the (default, delta) pair carried by
// CodeIncrementLong/CodeIncrementDouble (16 bytes: two little-endian
// 64-bit words, reinterpreted as int64 or float64 by the caller).
func decodeIncrementLong(v []byte) (def, delta int64, err error) {
	if len(v) != 16 {
		return 0, 0, ErrMalformedValue
	}
	return int64(binary.LittleEndian.Uint64(v[0:8])), int64(binary.LittleEndian.Uint64(v[8:16])), nil
}

func decodeIncrementDouble(v []byte) (def, delta float64, err error) {
	if len(v) != 16 {
		return 0, 0, ErrMalformedValue
	}
	def = math.Float64frombits(binary.LittleEndian.Uint64(v[0:8]))
	delta = math.Float64frombits(binary.LittleEndian.Uint64(v[8:16]))
	return def, delta, nil
}

// decodeDouble/decodeLong read the 8-byte little-endian scalar value
// blob carried by CodeSetDouble/CodeSetLong and their default variants.
func decodeDouble(v []byte) (float64, error) {
	if len(v) != 8 {
		return 0, ErrMalformedValue
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(v)), nil
}

func decodeLong(v []byte) (int64, error) {
	if len(v) != 8 {
		return 0, ErrMalformedValue
	}
	return int64(binary.LittleEndian.Uint64(v)), nil
}

// opSet is the decoded (adds, deletes, replaces) triple carried by
// CodeSetOp — a direct generalization of the original's
// SelvaModify_OpSet (§ modify.h), applied atomically to a set field.
type opSet struct {
	adds      []ids.NodeId
	deletes   []ids.NodeId
	replaces  []ids.NodeId
	isReplace bool
}

// decodeOpSet reads three length-prefixed (u32 count) runs of 10-byte
// NodeIds: adds, deletes, replaces. An empty replaces run with
// isReplace left false means "no replace", since count==0 is
// ambiguous with "replace with empty set" — callers needing that must
// use the adds/deletes form instead.
func decodeOpSet(v []byte) (opSet, error) {
	var out opSet
	rest := v
	for _, dst := range []*[]ids.NodeId{&out.adds, &out.deletes, &out.replaces} {
		if len(rest) < 4 {
			return opSet{}, ErrMalformedValue
		}
		count := binary.LittleEndian.Uint32(rest[:4])
		rest = rest[4:]
		need := int(count) * ids.Size
		if len(rest) < need {
			return opSet{}, ErrMalformedValue
		}
		for i := 0; i < int(count); i++ {
			id := ids.FromBytes(rest[i*ids.Size : (i+1)*ids.Size])
			*dst = append(*dst, id)
		}
		rest = rest[need:]
	}
	out.isReplace = len(out.replaces) > 0
	return out, nil
}

// decodeArrayInsert decodes a (u32 index, string) pair for CodeArrayInsertAt.
func decodeArrayInsert(v []byte) (index int, s string, err error) {
	if len(v) < 4 {
		return 0, "", ErrMalformedValue
	}
	idx := binary.LittleEndian.Uint32(v[:4])
	return int(idx), string(v[4:]), nil
}

func decodeArrayRemove(v []byte) (index int, err error) {
	if len(v) != 4 {
		return 0, ErrMalformedValue
	}
	return int(binary.LittleEndian.Uint32(v)), nil
}

// edgeMetaOp decodes CodeEdgeMetaOp's value: a destination NodeId, an
// op byte ('s' = set string field), and a (meta_field, meta_value) pair.
type edgeMetaOp struct {
	dst       ids.NodeId
	op        byte
	metaField string
	metaValue string
}

func decodeEdgeMetaOp(v []byte) (edgeMetaOp, error) {
	if len(v) < ids.Size+1+4 {
		return edgeMetaOp{}, ErrMalformedValue
	}
	dst := ids.FromBytes(v[:ids.Size])
	op := v[ids.Size]
	rest := v[ids.Size+1:]
	if len(rest) < 4 {
		return edgeMetaOp{}, ErrMalformedValue
	}
	flen := binary.LittleEndian.Uint32(rest[:4])
	rest = rest[4:]
	if len(rest) < int(flen) {
		return edgeMetaOp{}, ErrMalformedValue
	}
	field := string(rest[:flen])
	value := string(rest[flen:])
	return edgeMetaOp{dst: dst, op: op, metaField: field, metaValue: value}, nil
}

// decodeAliasList reads a run of length-prefixed (u32) alias strings
// (CodeAliasQuery's value).
func decodeAliasList(v []byte) ([]string, error) {
	var out []string
	rest := v
	for len(rest) > 0 {
		if len(rest) < 4 {
			return nil, ErrMalformedValue
		}
		n := binary.LittleEndian.Uint32(rest[:4])
		rest = rest[4:]
		if len(rest) < int(n) {
			return nil, ErrMalformedValue
		}
		out = append(out, string(rest[:n]))
		rest = rest[n:]
	}
	return out, nil
}
