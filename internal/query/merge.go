package query

import (
	"graphdb/internal/hierarchy"
	"graphdb/internal/ids"
	"graphdb/internal/object"
)

// emitter bundles the scratch state needed to emit one find response:
// a ReplySink, the requested field groups or merge strategy, and —
// for merge modes — the set of already-sent names so each is sent at
// most once across seeds (§4.7 "mark sent fields in a scratch map").
type emitter struct {
	sink  object.ReplySink
	lang  []string
	flags object.ReplyFlag
	p     *Params
	sent  map[string]struct{}
}

func newEmitter(sink object.ReplySink, lang []string, flags object.ReplyFlag, p *Params) *emitter {
	return &emitter{sink: sink, lang: lang, flags: flags, p: p, sent: make(map[string]struct{})}
}

// EmitNode sends one matched node's contribution to the reply, honoring
// fields/merge/plain-NodeId precedence (§4.7 step 3's "emit according
// to fields or merge, or — if neither is set — emit the NodeId").
func (e *emitter) EmitNode(h *hierarchy.Hierarchy, id ids.NodeId) {
	n, ok := h.Find(id)
	if !ok {
		return
	}
	switch {
	case e.p.Merge == MergeAll:
		e.mergeAll(n)
	case e.p.Merge == MergeNamed:
		e.mergeNamed(n)
	case e.p.Merge == MergeDeep:
		e.mergeDeep(n)
	case e.p.FieldsExpr != nil:
		e.fieldsFromExpr(h, n)
	case len(e.p.FieldGroups) > 0:
		e.fieldGroups(n)
	case len(e.p.ExcludedFields) > 0:
		e.allExcept(n)
	default:
		e.sink.String(id.String(), id.String(), "")
	}
}

func (e *emitter) mergeAll(n *hierarchy.Node) {
	n.Fields.ForeachKey(func(key string, tag object.Tag) bool {
		if _, done := e.sent[key]; done {
			return true
		}
		if err := n.Fields.ReplyWithObject(e.sink, e.lang, &key, e.flags); err == nil {
			e.sent[key] = struct{}{}
		}
		return true
	})
}

func (e *emitter) mergeNamed(n *hierarchy.Node) {
	for _, group := range e.p.FieldGroups {
		for _, field := range group {
			if _, done := e.sent[field]; done {
				break
			}
			if !n.Fields.Exists(field) {
				continue
			}
			if err := n.Fields.ReplyWithObject(e.sink, e.lang, &field, e.flags); err == nil {
				e.sent[field] = struct{}{}
			}
			break
		}
	}
}

func (e *emitter) mergeDeep(n *hierarchy.Node) {
	root := e.p.MergePath
	var key *string
	if root != "" {
		key = &root
	}
	e.deepWalk(n.Fields, root, key)
}

func (e *emitter) deepWalk(o *object.Object, prefix string, key *string) {
	var target *object.Object = o
	if key != nil && *key != "" {
		obj, err := target.GetObject(*key)
		if err != nil {
			return
		}
		target = obj
	}
	target.ForeachKey(func(k string, tag object.Tag) bool {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		if tag == object.Obj {
			e.deepWalk(target, full, &k)
			return true
		}
		if _, done := e.sent[full]; done {
			return true
		}
		if err := target.ReplyWithObject(e.sink, e.lang, &k, e.flags); err == nil {
			e.sent[full] = struct{}{}
		}
		return true
	})
}

func (e *emitter) fieldGroups(n *hierarchy.Node) {
	for _, group := range e.p.FieldGroups {
		for _, field := range group {
			if n.Fields.Exists(field) {
				_ = n.Fields.ReplyWithObject(e.sink, e.lang, &field, e.flags)
				break
			}
		}
	}
}

func (e *emitter) allExcept(n *hierarchy.Node) {
	excluded := make(map[string]struct{}, len(e.p.ExcludedFields))
	for _, f := range e.p.ExcludedFields {
		excluded[f] = struct{}{}
	}
	n.Fields.ForeachKey(func(key string, tag object.Tag) bool {
		if _, skip := excluded[key]; skip {
			return true
		}
		_ = n.Fields.ReplyWithObject(e.sink, e.lang, &key, e.flags)
		return true
	})
}

func (e *emitter) fieldsFromExpr(h *hierarchy.Hierarchy, n *hierarchy.Node) {
	ctxObj := n.Fields
	names, err := evalFieldNameSet(h, n, e.p.FieldsExpr)
	if err != nil {
		return
	}
	for _, name := range names {
		if !ctxObj.Exists(name) {
			continue
		}
		_ = ctxObj.ReplyWithObject(e.sink, e.lang, &name, e.flags)
	}
}
