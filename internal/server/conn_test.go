package server

import (
	"io"
	"net"
	"testing"

	"go.uber.org/zap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphdb/internal/errors"
	"graphdb/internal/wire"
)

func readReply(t *testing.T, conn net.Conn) []wire.Value {
	t.Helper()
	reasm := wire.NewReassembler()
	for {
		hdr, payload, err := wire.ReadFrame(conn)
		require.NoError(t, err)
		msg, done, err := reasm.Feed(hdr, payload)
		require.NoError(t, err)
		if !done {
			continue
		}
		var out []wire.Value
		for len(msg) > 0 {
			v, n, err := wire.DecodeValue(msg)
			require.NoError(t, err)
			out = append(out, v)
			msg = msg[n:]
		}
		return out
	}
}

func TestServeConnDispatchesPing(t *testing.T) {
	server, client := net.Pipe()
	reg := NewDefaultRegistry()
	session := newTestSession()

	go ServeConn(server, reg, session, zap.NewNop())
	defer client.Close()

	require.NoError(t, wire.WriteMessage(client, 0, 0, 1, nil))
	reply := readReply(t, client)

	require.Len(t, reply, 1)
	assert.Equal(t, "pong", reply[0].Str)
}

func TestServeConnClosesOnUnknownCommand(t *testing.T) {
	server, client := net.Pipe()
	reg := NewDefaultRegistry()
	session := newTestSession()

	go ServeConn(server, reg, session, zap.NewNop())
	defer client.Close()

	require.NoError(t, wire.WriteMessage(client, 255, 0, 1, nil))
	reply := readReply(t, client)
	require.Len(t, reply, 1)
	assert.Equal(t, wire.KindError, reply[0].Kind)
	assert.Equal(t, int32(errors.KindProtocol), reply[0].Err.Code)

	// an unknown command is a Protocol error: the server closes the connection.
	_, _, err := wire.ReadFrame(client)
	assert.ErrorIs(t, err, io.EOF)
}
