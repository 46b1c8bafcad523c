package diff

// Kind classifies a document value into one of the four shapes the engine
// distinguishes.
type Kind int

const (
	Null Kind = iota
	Primitive
	Sequence
	Mapping
)

var kindNames = [...]string{"null", "primitive", "sequence", "mapping"}

func (k Kind) String() string {
	if k < Null || k > Mapping {
		return "unknown"
	}
	return kindNames[k]
}

// Container reports whether the kind carries nested values.
func (k Kind) Container() bool {
	return k == Sequence || k == Mapping
}

// KindOf classifies a decoded document value. Anything outside the JSON
// shapes (structs, channels, ...) classifies as Primitive and is compared
// by deep equality without descent.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return Null
	case []any:
		return Sequence
	case map[string]any:
		return Mapping
	default:
		return Primitive
	}
}
