package object

import "strings"

// splitPath splits a dotted key path on unescaped '.'; a literal dot is
// written as "\.".
func splitPath(key string) []string {
	if !strings.ContainsAny(key, ".\\") {
		return []string{key}
	}
	var segs []string
	var cur strings.Builder
	escaped := false
	for _, r := range key {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '.':
			segs = append(segs, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	segs = append(segs, cur.String())
	return segs
}
