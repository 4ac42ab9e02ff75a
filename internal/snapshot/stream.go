// Package snapshot implements hierarchy-wide save/restore (§6
// "Persistence", §8 "Snapshot round-trip") and the durable stores that
// back it: a local zstd-compressed file and a circuit-breaker-guarded
// DynamoDB table as a remote replica.
package snapshot

import (
	"encoding/binary"
	"errors"
	"io"

	"graphdb/internal/hierarchy"
	"graphdb/internal/ids"
	"graphdb/internal/object"
)

// Version is the monotonic encoding version stamped at the head of
// every snapshot stream; Load refuses anything else (§6 "the loader
// refuses unknown versions").
const Version uint32 = 1

var ErrUnknownVersion = errors.New("snapshot: unknown encoding version")

// Save writes h as an opaque ordered stream of
// (node_id, children_count, child_ids…, node_object…) records
// terminated by a 10-byte all-zero EOF sentinel (§6 "Persistence").
// Node order follows h.AllIDs(), the hierarchy's own key order, so the
// object serializer's per-node key-order walk composes with a
// deterministic node order at the stream level too.
func Save(w io.Writer, h *hierarchy.Hierarchy) error {
	if err := binary.Write(w, binary.LittleEndian, Version); err != nil {
		return err
	}
	for _, id := range h.AllIDs() {
		n, ok := h.Find(id)
		if !ok {
			continue
		}
		if err := writeNodeID(w, id); err != nil {
			return err
		}
		children := n.Children.Items()
		if err := binary.Write(w, binary.LittleEndian, uint32(len(children))); err != nil {
			return err
		}
		for _, c := range children {
			if err := writeNodeID(w, c); err != nil {
				return err
			}
		}
		if err := n.Fields.Save(w); err != nil {
			return err
		}
	}
	return writeNodeID(w, ids.Zero)
}

// Load rebuilds a Hierarchy from a stream written by Save. Every
// node's parent links are reconstructed transitively as each record
// installs its own children (link() maintains both sides), so parents
// never need their own record field.
func Load(r io.Reader, reg object.PointerRegistry) (*hierarchy.Hierarchy, error) {
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != Version {
		return nil, ErrUnknownVersion
	}

	h := hierarchy.New()
	for {
		id, err := readNodeID(r)
		if err != nil {
			return nil, err
		}
		if id == ids.Zero {
			break
		}

		var childCount uint32
		if err := binary.Read(r, binary.LittleEndian, &childCount); err != nil {
			return nil, err
		}
		children := make([]ids.NodeId, childCount)
		for i := range children {
			cid, err := readNodeID(r)
			if err != nil {
				return nil, err
			}
			children[i] = cid
		}

		fields, err := object.Load(r, reg)
		if err != nil {
			return nil, err
		}

		h.Add(id, nil, nil, true)
		n, _ := h.Find(id)
		n.Fields.Destroy()
		n.Fields = fields
		h.SetChildren(id, children)
	}
	return h, nil
}

func writeNodeID(w io.Writer, id ids.NodeId) error {
	_, err := w.Write(id.Bytes())
	return err
}

func readNodeID(r io.Reader) (ids.NodeId, error) {
	var buf [ids.Size]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return ids.NodeId{}, err
	}
	return ids.FromBytes(buf[:]), nil
}
