package number

// Kind selects the numeric representation of a unit's values.
type Kind int

// Numeric kinds. Double is the default when a declaration names none.
const (
	Double Kind = iota
	Decimal
	Float
)

// String returns the name used in unit<kind> declarations.
func (k Kind) String() string {
	switch k {
	case Double:
		return "double"
	case Decimal:
		return "decimal"
	case Float:
		return "float"
	default:
		return "unknown"
	}
}

// GoType returns the Go type a generator should use for the kind.
func (k Kind) GoType() string {
	switch k {
	case Decimal:
		return "apd.Decimal"
	case Float:
		return "float32"
	default:
		return "float64"
	}
}

// ParseKind converts a declaration name to a Kind.
// The Go spellings float64 and float32 are accepted as well.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "double", "float64":
		return Double, true
	case "decimal":
		return Decimal, true
	case "float", "float32":
		return Float, true
	default:
		return Double, false
	}
}

// Kinds returns all kinds.
func Kinds() []Kind {
	return []Kind{Double, Decimal, Float}
}
