package di_test

import (
	"testing"

	"graphdb/internal/di"
	"graphdb/internal/edge"
	"graphdb/internal/hierarchy"
	"graphdb/internal/ids"
	"graphdb/internal/index"
	"graphdb/internal/modify"
	"graphdb/internal/query"
	"graphdb/internal/server"
	"graphdb/internal/subscribe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewServerBuildsUsableSession(t *testing.T) {
	h := hierarchy.New()
	es := edge.NewStore(h)
	subs := subscribe.NewStore(h, nil, nil)
	idx := index.NewStore(64, 0.5, di.NewMaterializer(h, es), nil)
	mod := modify.NewExecutor(h, es, subs, nil)
	q := &query.Engine{H: h, Edges: es, Index: idx}
	reg := server.NewDefaultRegistry()

	srv := di.NewServer(nil, zap.NewNop(), nil, h, es, subs, idx, nil, mod, q, reg, nil)
	require.NotNil(t, srv)

	session := srv.NewSession()
	require.NotNil(t, session)

	out, err := reg.Dispatch(session, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "pong", out[0].Str)

	h.Add(ids.New("a"), []ids.NodeId{ids.Root}, nil, true)
	assert.Equal(t, 2, srv.Hierarchy.Len())
}
