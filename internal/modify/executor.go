package modify

import (
	"context"
	"fmt"
	"time"

	"graphdb/internal/edge"
	"graphdb/internal/hierarchy"
	"graphdb/internal/ids"
	"graphdb/internal/object"
	"graphdb/internal/subscribe"
)

// TripletResult is the per-triplet outcome (§4.6 step 6): a reply
// string sent back to the caller and the replication classification
// that decides whether the triplet is re-sent to replicas.
type TripletResult struct {
	Reply string
	State ReplState
}

// Result is the full outcome of one modify command.
type Result struct {
	Null     bool // C-exists or U-missing short-circuit: reply is null
	Created  bool
	NodeID   ids.NodeId
	Triplets []TripletResult

	// ReplicationBitmap has one entry per input triplet (§4.6 step 7);
	// true means the triplet's value must be shipped to replicas.
	ReplicationBitmap []bool
}

// Executor runs modify commands against a Hierarchy/edge.Store pair,
// firing subscription triggers and alias resolution along the way
// (§4.6, C10).
type Executor struct {
	H       *hierarchy.Hierarchy
	Edges   *edge.Store
	Subs    *subscribe.Store
	Aliases AliasResolver

	// Replica marks this executor as a replication target: when true,
	// step 10's authoritative timestamp-stamping and triplet
	// replication are skipped since the triplets already arrived
	// pre-stamped from the authoritative source.
	Replica bool
}

// NewExecutor wires an executor from its collaborators. A nil Subs or
// Aliases is replaced with an inert default.
func NewExecutor(h *hierarchy.Hierarchy, edges *edge.Store, subs *subscribe.Store, aliases AliasResolver) *Executor {
	if subs == nil {
		subs = subscribe.NewStore(h, nil, nil)
	}
	if aliases == nil {
		aliases = NewAliasTable()
	}
	return &Executor{H: h, Edges: edges, Subs: subs, Aliases: aliases}
}

// Exec runs the full §4.6 control flow for one modify command. now is
// the response timestamp used to stamp updatedAt/createdAt (step 10).
func (x *Executor) Exec(ctx context.Context, req *Request, now time.Time) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	key := ids.New(req.Key)
	flags := req.Flags

	// Step 2: alias pre-scan. Any triplet carrying a resolvable $alias
	// list redirects the target node; unresolved aliases are claimed
	// against the final node id at step 8.
	var pendingAliases []string
	triplets := make([]Triplet, 0, len(req.Triplets))
	for _, t := range req.Triplets {
		if t.TypeCode != CodeAliasQuery {
			triplets = append(triplets, t)
			continue
		}
		names, err := decodeAliasList(t.Value)
		if err != nil {
			return nil, fmt.Errorf("modify: %s: %w", t.Field, err)
		}
		resolved := false
		for _, name := range names {
			if target, ok := x.Aliases.Resolve(name); ok {
				key = target
				resolved = true
				break
			}
		}
		if !resolved {
			pendingAliases = append(pendingAliases, names...)
		}
	}

	_, exists := x.H.Find(key)

	// Step 3: C/U short-circuit.
	if exists && flags.FailIfExists {
		return &Result{Null: true, NodeID: key}, nil
	}
	if !exists && flags.FailIfMissing {
		return &Result{Null: true, NodeID: key}, nil
	}

	pre := x.Subs.Precheck(key)

	// Step 4: create if missing. hierarchy.Add already defaults an empty
	// parent list to ROOT unless noRoot is set.
	created := false
	if !exists {
		x.H.Add(key, nil, nil, flags.NoRootParent)
		created = true
	}

	node, _ := x.H.Find(key)

	// Step 5: M clears all fields of a pre-existing node.
	if flags.ClearFirst && !created {
		clearAllFields(node)
	}

	// Step 6/7: dispatch each triplet in order, tracking replication bits.
	results := make([]TripletResult, len(triplets))
	bitmap := make([]bool, len(triplets))
	anyChange := created
	for i, t := range triplets {
		res, err := x.applyTriplet(node, t, pre, now)
		if err != nil {
			results[i] = TripletResult{Reply: err.Error(), State: StateUnchanged}
			continue
		}
		results[i] = res
		bitmap[i] = res.State != StateUnchanged
		if res.State != StateUnchanged {
			anyChange = true
		}
	}

	// Step 8: queue any still-unresolved aliases as set-op inserts on
	// the node's own "aliases" field, and claim them in the table.
	for _, name := range pendingAliases {
		if err := node.Fields.SetAddString("aliases", name); err == nil {
			x.Aliases.Claim(name, key)
			anyChange = true
		}
	}

	// Step 9: fire created/updated triggers.
	kind := subscribe.EventUpdated
	if created {
		kind = subscribe.EventCreated
	}
	x.Subs.DeferTriggerEvents(pre, key, kind, now)

	// Step 10: authoritative timestamp stamping, skipped on a replica.
	if !x.Replica && anyChange {
		_ = node.Fields.SetString("updatedAt", now.UTC().Format(time.RFC3339Nano))
		if created {
			_ = node.Fields.SetStringDefault("createdAt", now.UTC().Format(time.RFC3339Nano))
		}
	}

	// Step 11: flush deferred subscription events.
	if err := x.Subs.DispatchDeferred(ctx); err != nil {
		return nil, err
	}

	return &Result{
		Created:           created,
		NodeID:            key,
		Triplets:          results,
		ReplicationBitmap: bitmap,
	}, nil
}

func clearAllFields(n *hierarchy.Node) {
	var keys []string
	n.Fields.ForeachKey(func(k string, _ object.Tag) bool {
		keys = append(keys, k)
		return true
	})
	for _, k := range keys {
		_ = n.Fields.Del(k)
	}
}
