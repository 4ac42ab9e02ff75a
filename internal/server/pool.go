// Package server implements the connection-level command dispatch
// layer: a stream-slot pool per connection and a table-driven command
// registry (§6 "External interfaces", C11).
package server

import (
	"errors"
	"sync/atomic"
)

// MaxStreams bounds the number of concurrent response streams one
// connection may hold open at once, mirroring the original's
// conn_ctx.streams.free_map bitmask width.
const MaxStreams = 32

const allStreamsFree uint32 = 1<<MaxStreams - 1

// ErrStreamsExhausted is returned when a connection has no free
// stream slot left (§7 "Resource").
var ErrStreamsExhausted = errors.New("server: stream slots exhausted")

// StreamPool tracks which of a connection's MaxStreams response
// streams are in use, grounded on conn.c's clients_map/free_map
// bitmap allocator (adapted from a process-wide client table to a
// per-connection stream table, since Go connections are goroutine-
// scoped rather than slab-allocated).
type StreamPool struct {
	free atomic.Uint32
}

// NewStreamPool returns a pool with every stream slot free.
func NewStreamPool() *StreamPool {
	p := &StreamPool{}
	p.free.Store(allStreamsFree)
	return p
}

// Alloc claims the lowest-numbered free slot, returning its index, or
// ErrStreamsExhausted when none remain.
func (p *StreamPool) Alloc() (int, error) {
	for {
		cur := p.free.Load()
		if cur == 0 {
			return 0, ErrStreamsExhausted
		}
		i := ffs(cur)
		next := cur &^ (1 << uint(i))
		if p.free.CompareAndSwap(cur, next) {
			return i, nil
		}
	}
}

// Release returns slot i to the free pool.
func (p *StreamPool) Release(i int) {
	for {
		cur := p.free.Load()
		next := cur | (1 << uint(i))
		if p.free.CompareAndSwap(cur, next) {
			return
		}
	}
}

// AllFree reports whether every slot is currently free, the condition
// conn.c's free_conn_ctx waits for before reclaiming a connection.
func (p *StreamPool) AllFree() bool {
	return p.free.Load() == allStreamsFree
}

// InUse returns the count of currently allocated slots.
func (p *StreamPool) InUse() int {
	free := p.free.Load()
	n := 0
	for i := 0; i < MaxStreams; i++ {
		if free&(1<<uint(i)) == 0 {
			n++
		}
	}
	return n
}

func ffs(bits uint32) int {
	for i := 0; i < MaxStreams; i++ {
		if bits&(1<<uint(i)) != 0 {
			return i
		}
	}
	return -1
}
