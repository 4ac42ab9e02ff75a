package server

import "graphdb/internal/wire"

func registerBasicCommands(r *Registry) {
	r.Register(Command{ID: 0, Name: "ping", Mode: ModePure, Handler: handlePing})
	r.Register(Command{ID: 1, Name: "echo", Mode: ModePure, Handler: handleEcho})
	r.Register(Command{ID: 2, Name: "lscmd", Mode: ModePure, Handler: handleLscmd(r)})
}

func handlePing(_ *Session, _ []wire.Value) ([]wire.Value, error) {
	return []wire.Value{{Kind: wire.KindString, Str: "pong"}}, nil
}

func handleEcho(_ *Session, args []wire.Value) ([]wire.Value, error) {
	out := make([]wire.Value, len(args))
	copy(out, args)
	return out, nil
}

// handleLscmd returns a closure over the registry so it can list
// itself once startup registration is complete.
func handleLscmd(r *Registry) Handler {
	return func(_ *Session, _ []wire.Value) ([]wire.Value, error) {
		cmds := r.List()
		out := make([]wire.Value, 0, len(cmds)*2)
		for _, c := range cmds {
			out = append(out, wire.Value{Kind: wire.KindLong, Long: int64(c.ID)})
			out = append(out, wire.Value{Kind: wire.KindString, Str: c.Name})
		}
		return out, nil
	}
}
