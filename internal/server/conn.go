package server

import (
	"io"
	"net"

	"go.uber.org/zap"

	"graphdb/internal/errors"
	"graphdb/internal/wire"
)

// ServeConn runs the frame-read/dispatch/frame-write loop for one
// accepted connection until the peer disconnects or a Protocol/
// Resource-kind error forces a close (§7 propagation rules), mirroring
// the original's per-connection read loop generalized from the
// process-wide client table to one goroutine per net.Conn.
func ServeConn(conn net.Conn, reg *Registry, session *Session, log *zap.Logger) {
	defer conn.Close()

	reasm := wire.NewReassembler()
	var seqno uint32

	for {
		hdr, payload, err := wire.ReadFrame(conn)
		if err != nil {
			if err != io.EOF {
				log.Debug("conn: read frame failed", zap.Error(err))
			}
			return
		}

		msg, done, err := reasm.Feed(hdr, payload)
		if err != nil {
			log.Warn("conn: reassembly failed, closing", zap.Error(err))
			return
		}
		if !done {
			continue
		}

		args, decErr := decodeArgs(msg)
		seqno = hdr.Seqno

		var reply []wire.Value
		if decErr != nil {
			reply = []wire.Value{{Kind: wire.KindError, Err: wire.ErrorValue{Code: int32(errors.KindProtocol), Message: decErr.Error()}}}
			writeReply(conn, hdr.Cmd, seqno, reply, log)
			return
		} else {
			reply, err = reg.Dispatch(session, hdr.Cmd, args)
			if err != nil {
				kind := errors.Classify(err)
				if err == ErrUnknownCommand {
					kind = errors.KindProtocol
				}
				reply = []wire.Value{{Kind: wire.KindError, Err: wire.ErrorValue{Code: int32(kind), Message: err.Error()}}}
				if kind.Closes() {
					writeReply(conn, hdr.Cmd, seqno, reply, log)
					return
				}
			}
		}

		writeReply(conn, hdr.Cmd, seqno, reply, log)
	}
}

func decodeArgs(msg []byte) ([]wire.Value, error) {
	var out []wire.Value
	for len(msg) > 0 {
		v, n, err := wire.DecodeValue(msg)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		msg = msg[n:]
	}
	return out, nil
}

func writeReply(conn net.Conn, cmd byte, seqno uint32, values []wire.Value, log *zap.Logger) {
	var body []byte
	for _, v := range values {
		body = wire.EncodeValue(body, v)
	}
	if err := wire.WriteMessage(conn, cmd, wire.FlagReqRes, seqno, body); err != nil {
		log.Debug("conn: write reply failed", zap.Error(err))
	}
}
