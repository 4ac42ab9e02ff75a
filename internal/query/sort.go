package query

import (
	"math"
	"sort"
	"strings"

	"graphdb/internal/hierarchy"
	"graphdb/internal/ids"
	"graphdb/internal/object"
)

// localizedTextMeta is the user-meta value marking a string field as
// locale-dependent (§4.7 "if the value's user-meta is localized-text").
const localizedTextMeta = 1

// sortKey classifies a field value for the ordering contract: numeric
// fields sort by IEEE-754 order (NaN at the boundary), text fields by a
// collation key, anything else falls back to NodeId order with
// mismatched types ordered by type tag.
type sortKey struct {
	id      ids.NodeId
	tag     object.Tag
	num     float64
	hasNum  bool
	text    string
	hasText bool
}

func keyFor(h *hierarchy.Hierarchy, id ids.NodeId, field string, lang []string) sortKey {
	k := sortKey{id: id}
	n, ok := h.Find(id)
	if !ok {
		return k
	}
	k.tag = n.Fields.GetType(field)
	switch k.tag {
	case object.Double:
		if v, err := n.Fields.GetDouble(field); err == nil {
			k.num, k.hasNum = v, true
		}
	case object.Long:
		if v, err := n.Fields.GetLong(field); err == nil {
			k.num, k.hasNum = float64(v), true
		}
	case object.String:
		meta, _ := n.Fields.UserMetaGet(field)
		if meta == localizedTextMeta {
			if s, matchedLang, err := n.Fields.GetStringLang(field); err == nil {
				_ = matchedLang
				k.text, k.hasText = collationKey(s), true
				break
			}
		}
		if s, err := n.Fields.GetString(field); err == nil {
			k.text, k.hasText = collationKey(s), true
		}
	}
	return k
}

// collationKey is a simplified stand-in for a locale-aware collation
// transform (no such library is in reach here): case-fold then compare
// byte-wise. Real locale ordering (accents, script-specific rules) is
// out of scope until a collation dependency is wired.
func collationKey(s string) string {
	return strings.ToLower(s)
}

// less implements the full ordering contract: numeric < text < NodeId
// by type-tag boundary when types mismatch; NaN sorts at the numeric
// boundary (treated as the smallest numeric value).
func (a sortKey) less(b sortKey) bool {
	if a.hasNum && b.hasNum {
		an, bn := a.num, b.num
		if math.IsNaN(an) {
			return !math.IsNaN(bn)
		}
		if math.IsNaN(bn) {
			return false
		}
		return an < bn
	}
	if a.hasText && b.hasText {
		return a.text < b.text
	}
	if a.hasNum != b.hasNum && (a.hasNum || b.hasNum) {
		// numeric sorts before text/fallback at a type-mismatch boundary
		return a.hasNum
	}
	if a.hasText != b.hasText && (a.hasText || b.hasText) {
		return a.hasText
	}
	return a.id.Less(b.id)
}

// sortHits orders ids by field according to the §4.7 contract.
func sortHits(h *hierarchy.Hierarchy, items []ids.NodeId, order Order, lang []string) {
	if order.Field == "" {
		return
	}
	keys := make(map[ids.NodeId]sortKey, len(items))
	for _, id := range items {
		keys[id] = keyFor(h, id, order.Field, lang)
	}
	sort.SliceStable(items, func(i, j int) bool {
		ki, kj := keys[items[i]], keys[items[j]]
		if order.Desc {
			return kj.less(ki)
		}
		return ki.less(kj)
	})
}
