package modify

import (
	"encoding/binary"
	"time"

	"graphdb/internal/hierarchy"
	"graphdb/internal/object"
	"graphdb/internal/subscribe"
)

// applyTriplet dispatches one triplet against node per its TypeCode
// (§4.6 "Type codes"), returning its reply/repl_state and deferring a
// field-change event through pre when the field's observable value
// actually moved.
func (x *Executor) applyTriplet(node *hierarchy.Node, t Triplet, pre []*subscribe.Marker, now time.Time) (TripletResult, error) {
	// "parents"/"children" are reserved field names dispatched against
	// the hierarchy itself rather than the node's object, mirroring the
	// original's field_str[0] == 'p'/'c' special-casing in modify.c.
	if t.TypeCode == CodeSetOp && (t.Field == "parents" || t.Field == "children") {
		return x.applyHierarchyEdges(node, t, pre, now)
	}

	switch t.TypeCode {
	case CodeSetString, CodeSetDouble, CodeSetLong:
		return x.applyPlainSet(node, t, pre, now)
	case CodeSetStringDefault, CodeSetDoubleDefault, CodeSetLongDefault:
		return x.applyDefaultSet(node, t, pre, now)
	case CodeIncrementLong:
		def, delta, err := decodeIncrementLong(t.Value)
		if err != nil {
			return TripletResult{}, err
		}
		if _, err := node.Fields.IncrementLong(t.Field, def, delta); err != nil {
			return TripletResult{}, err
		}
		x.Subs.DeferFieldChangeEvents(pre, node.ID, t.Field, now)
		return TripletResult{Reply: "UPDATED", State: StateReplicate}, nil
	case CodeIncrementDouble:
		def, delta, err := decodeIncrementDouble(t.Value)
		if err != nil {
			return TripletResult{}, err
		}
		if _, err := node.Fields.IncrementDouble(t.Field, def, delta); err != nil {
			return TripletResult{}, err
		}
		x.Subs.DeferFieldChangeEvents(pre, node.ID, t.Field, now)
		return TripletResult{Reply: "UPDATED", State: StateReplicate}, nil
	case CodeSetOp:
		return x.applySetOp(node, t, pre, now)
	case CodeDelField:
		if err := node.Fields.Del(t.Field); err != nil {
			if err == object.ErrNotFound {
				return TripletResult{Reply: "OK", State: StateUnchanged}, nil
			}
			return TripletResult{}, err
		}
		x.Subs.DeferFieldChangeEvents(pre, node.ID, t.Field, now)
		return TripletResult{Reply: "UPDATED", State: StateUpdated}, nil
	case CodeUserMetaSet:
		if len(t.Value) != 4 {
			return TripletResult{}, ErrMalformedValue
		}
		meta := binary.LittleEndian.Uint32(t.Value)
		prev, err := node.Fields.UserMetaGet(t.Field)
		if err == nil && prev == meta {
			return TripletResult{Reply: "OK", State: StateUnchanged}, nil
		}
		if err := node.Fields.UserMetaSet(t.Field, meta); err != nil {
			return TripletResult{}, err
		}
		x.Subs.DeferFieldChangeEvents(pre, node.ID, t.Field, now)
		return TripletResult{Reply: "UPDATED", State: StateReplicate}, nil
	case CodeArrayPush:
		if err := node.Fields.ArrayAppendString(t.Field, string(t.Value)); err != nil {
			return TripletResult{}, err
		}
		x.Subs.DeferFieldChangeEvents(pre, node.ID, t.Field, now)
		return TripletResult{Reply: "UPDATED", State: StateReplicate}, nil
	case CodeArrayInsertAt:
		idx, s, err := decodeArrayInsert(t.Value)
		if err != nil {
			return TripletResult{}, err
		}
		if err := node.Fields.ArrayInsertStringAt(t.Field, idx, s); err != nil {
			return TripletResult{}, err
		}
		x.Subs.DeferFieldChangeEvents(pre, node.ID, t.Field, now)
		return TripletResult{Reply: "UPDATED", State: StateReplicate}, nil
	case CodeArrayRemoveAt:
		idx, err := decodeArrayRemove(t.Value)
		if err != nil {
			return TripletResult{}, err
		}
		if err := node.Fields.ArrayRemoveAt(t.Field, idx); err != nil {
			return TripletResult{}, err
		}
		x.Subs.DeferFieldChangeEvents(pre, node.ID, t.Field, now)
		return TripletResult{Reply: "UPDATED", State: StateReplicate}, nil
	case CodeEdgeMetaOp:
		return x.applyEdgeMetaOp(node, t, pre, now)
	default:
		return TripletResult{}, ErrUnknownTypeCode
	}
}

func (x *Executor) applyPlainSet(node *hierarchy.Node, t Triplet, pre []*subscribe.Marker, now time.Time) (TripletResult, error) {
	var err error
	switch t.TypeCode {
	case CodeSetString:
		err = node.Fields.UpdateString(t.Field, string(t.Value))
	case CodeSetDouble:
		v, derr := decodeDouble(t.Value)
		if derr != nil {
			return TripletResult{}, derr
		}
		err = node.Fields.UpdateDouble(t.Field, v)
	case CodeSetLong:
		v, derr := decodeLong(t.Value)
		if derr != nil {
			return TripletResult{}, derr
		}
		err = node.Fields.UpdateLong(t.Field, v)
	}
	if err == object.ErrAlreadyExists {
		return TripletResult{Reply: "OK", State: StateUnchanged}, nil
	}
	if err != nil {
		return TripletResult{}, err
	}
	x.Subs.DeferFieldChangeEvents(pre, node.ID, t.Field, now)
	return TripletResult{Reply: "UPDATED", State: StateUpdated}, nil
}

func (x *Executor) applyDefaultSet(node *hierarchy.Node, t Triplet, pre []*subscribe.Marker, now time.Time) (TripletResult, error) {
	var err error
	switch t.TypeCode {
	case CodeSetStringDefault:
		err = node.Fields.SetStringDefault(t.Field, string(t.Value))
	case CodeSetDoubleDefault:
		v, derr := decodeDouble(t.Value)
		if derr != nil {
			return TripletResult{}, derr
		}
		err = node.Fields.SetDoubleDefault(t.Field, v)
	case CodeSetLongDefault:
		v, derr := decodeLong(t.Value)
		if derr != nil {
			return TripletResult{}, derr
		}
		err = node.Fields.SetLongDefault(t.Field, v)
	}
	if err == object.ErrAlreadyExists {
		return TripletResult{Reply: "OK", State: StateUnchanged}, nil
	}
	if err != nil {
		return TripletResult{}, err
	}
	x.Subs.DeferFieldChangeEvents(pre, node.ID, t.Field, now)
	return TripletResult{Reply: "UPDATED", State: StateUpdated}, nil
}

func (x *Executor) applySetOp(node *hierarchy.Node, t Triplet, pre []*subscribe.Marker, now time.Time) (TripletResult, error) {
	op, err := decodeOpSet(t.Value)
	if err != nil {
		return TripletResult{}, err
	}
	if op.isReplace {
		if err := node.Fields.Del(t.Field); err != nil && err != object.ErrNotFound {
			return TripletResult{}, err
		}
		for _, id := range op.replaces {
			if err := node.Fields.SetAddNodeId(t.Field, id); err != nil {
				return TripletResult{}, err
			}
		}
	} else {
		for _, id := range op.adds {
			if err := node.Fields.SetAddNodeId(t.Field, id); err != nil {
				return TripletResult{}, err
			}
		}
		for _, id := range op.deletes {
			if err := node.Fields.SetRemoveNodeId(t.Field, id); err != nil {
				return TripletResult{}, err
			}
		}
	}
	x.Subs.DeferFieldChangeEvents(pre, node.ID, t.Field, now)
	return TripletResult{Reply: "UPDATED", State: StateReplicate}, nil
}

// applyHierarchyEdges routes a set-op triplet against the reserved
// "parents"/"children" field names to the Hierarchy itself: adds
// preserve existing links (hierarchy.Add's semantics), deletes remove
// the named links, and a replace clears then reinstalls (hierarchy.Set*).
func (x *Executor) applyHierarchyEdges(node *hierarchy.Node, t Triplet, pre []*subscribe.Marker, now time.Time) (TripletResult, error) {
	op, err := decodeOpSet(t.Value)
	if err != nil {
		return TripletResult{}, err
	}
	isParents := t.Field == "parents"
	switch {
	case op.isReplace:
		if isParents {
			x.H.SetParents(node.ID, op.replaces, true)
		} else {
			x.H.SetChildren(node.ID, op.replaces)
		}
	default:
		if isParents {
			if len(op.adds) > 0 {
				x.H.Add(node.ID, op.adds, nil, true)
			}
			if len(op.deletes) > 0 {
				x.H.DelEdges(node.ID, op.deletes, nil)
			}
		} else {
			if len(op.adds) > 0 {
				x.H.Add(node.ID, nil, op.adds, true)
			}
			if len(op.deletes) > 0 {
				x.H.DelEdges(node.ID, nil, op.deletes)
			}
		}
	}
	x.Subs.DeferFieldChangeEvents(pre, node.ID, t.Field, now)
	return TripletResult{Reply: "UPDATED", State: StateReplicate}, nil
}

func (x *Executor) applyEdgeMetaOp(node *hierarchy.Node, t Triplet, pre []*subscribe.Marker, now time.Time) (TripletResult, error) {
	op, err := decodeEdgeMetaOp(t.Value)
	if err != nil {
		return TripletResult{}, err
	}
	meta, err := x.Edges.GetEdgeMetadata(node.ID, t.Field, op.dst, true)
	if err != nil {
		return TripletResult{}, err
	}
	if err := meta.SetString(op.metaField, op.metaValue); err != nil {
		return TripletResult{}, err
	}
	x.Subs.DeferFieldChangeEvents(pre, node.ID, t.Field, now)
	return TripletResult{Reply: "UPDATED", State: StateReplicate}, nil
}
