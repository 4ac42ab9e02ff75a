// Package modify implements the modify command executor (§4.6, C10):
// triplet dispatch, N/M/C/U flags, alias resolution, per-triplet
// reply/repl_state, and the replication bitmap.
package modify

// TypeCode is the single-byte triplet operation selector (§4.6 "Type
// codes"). Byte values for set/increment reuse the original source's
// SelvaModify_ArgType encoding ('0' value, '2' default, '4' increment,
// '5' set-op) where a direct analogue exists; the rest are assigned
// here since the distilled spec names the operations without fixing
// their wire bytes.
type TypeCode byte

const (
	CodeSetString        TypeCode = '0'
	CodeSetStringDefault TypeCode = '2' // set only if NULL
	CodeSetDouble        TypeCode = 'f'
	CodeSetDoubleDefault TypeCode = 'F'
	CodeSetLong          TypeCode = 'i'
	CodeSetLongDefault   TypeCode = 'I'
	CodeIncrementLong    TypeCode = '4' // value: (default int64, delta int64)
	CodeIncrementDouble  TypeCode = 'g' // value: (default float64, delta float64)
	CodeSetOp            TypeCode = '5' // value: (adds, deletes, replaces) of NodeIds
	CodeDelField         TypeCode = 'd'
	CodeUserMetaSet      TypeCode = 'm'
	CodeArrayPush        TypeCode = 'p'
	CodeArrayInsertAt    TypeCode = 'n'
	CodeArrayRemoveAt    TypeCode = 'r'
	CodeAliasQuery       TypeCode = 'a' // value: $alias candidate list, consumed in the pre-pass
	CodeEdgeMetaOp       TypeCode = 'e'
)

// ReplState is the per-triplet replication classification (§4.6 step 6).
type ReplState uint8

const (
	StateUnchanged ReplState = iota
	StateUpdated
	StateReplicate
)

// Flags are the single-character modifiers on the modify request
// (§4.6 "Flags").
type Flags struct {
	NoRootParent  bool // N: suppress implicit ROOT parent
	ClearFirst    bool // M: clear existing fields before applying
	FailIfExists  bool // C: fail-if-exists
	FailIfMissing bool // U: fail-if-missing
}

// ParseFlags reads the free-form flag string (e.g. "NM") into Flags.
func ParseFlags(s string) Flags {
	var f Flags
	for _, c := range s {
		switch c {
		case 'N':
			f.NoRootParent = true
		case 'M':
			f.ClearFirst = true
		case 'C':
			f.FailIfExists = true
		case 'U':
			f.FailIfMissing = true
		}
	}
	return f
}
