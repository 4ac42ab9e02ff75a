package modify

import (
	"sync"

	"graphdb/internal/ids"
)

// AliasResolver looks up an alias's current target NodeId, if one is
// registered (§4.6 step 2). The modify executor only needs read access
// plus the ability to register newly-claimed aliases (step 8). The
// table is held in process memory only; nothing persists it or mirrors
// it to another store.
type AliasResolver interface {
	Resolve(alias string) (ids.NodeId, bool)
	Claim(alias string, target ids.NodeId)
}

// AliasTable is the in-process alias -> NodeId lookup table, a direct
// generalization of the original's alias hash key (modify.c's
// open_aliases_key/update_alias) into a standalone map guarded by a
// mutex rather than a Redis hash.
type AliasTable struct {
	mu      sync.RWMutex
	byAlias map[string]ids.NodeId
}

func NewAliasTable() *AliasTable {
	return &AliasTable{byAlias: make(map[string]ids.NodeId)}
}

func (a *AliasTable) Resolve(alias string) (ids.NodeId, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	id, ok := a.byAlias[alias]
	return id, ok
}

func (a *AliasTable) Claim(alias string, target ids.NodeId) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.byAlias[alias] = target
}
