package server

import (
	"context"
	"time"

	"graphdb/internal/modify"
	"graphdb/internal/wire"
)

func registerModifyCommands(r *Registry) {
	r.Register(Command{ID: 20, Name: "selva.modify", Mode: ModeMutating, Handler: handleModify})
}

// handleModify decodes `selva.modify key flags (type_code, field,
// value)...` from the flat TLV argument list (§4.6 "Input") and runs
// it through the modify executor.
func handleModify(s *Session, args []wire.Value) ([]wire.Value, error) {
	if len(args) < 2 || args[0].Kind != wire.KindString || args[1].Kind != wire.KindString {
		return nil, ErrBadArgument
	}
	req := &modify.Request{
		Key:   args[0].Str,
		Flags: modify.ParseFlags(args[1].Str),
	}

	rest := args[2:]
	if len(rest)%3 != 0 {
		return nil, ErrBadArgument
	}
	for i := 0; i < len(rest); i += 3 {
		codeVal, fieldVal, valueVal := rest[i], rest[i+1], rest[i+2]
		if codeVal.Kind != wire.KindLong || fieldVal.Kind != wire.KindString || valueVal.Kind != wire.KindString {
			return nil, ErrBadArgument
		}
		req.Triplets = append(req.Triplets, modify.Triplet{
			TypeCode: modify.TypeCode(codeVal.Long),
			Field:    fieldVal.Str,
			Value:    []byte(valueVal.Str),
		})
	}

	res, err := s.Modify.Exec(context.Background(), req, time.Now())
	if err != nil {
		return nil, err
	}
	if res.Null {
		return []wire.Value{{Kind: wire.KindNull}}, nil
	}

	out := make([]wire.Value, 0, 2+len(res.Triplets)*2)
	out = append(out, wire.Value{Kind: wire.KindString, Str: res.NodeID.String()})
	out = append(out, wire.Value{Kind: wire.KindLong, Long: boolToLong(res.Created)})
	for i, tr := range res.Triplets {
		out = append(out, wire.Value{Kind: wire.KindString, Str: tr.Reply})
		out = append(out, wire.Value{Kind: wire.KindLong, Long: boolToLong(res.ReplicationBitmap[i])})
	}
	return out, nil
}

func boolToLong(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
