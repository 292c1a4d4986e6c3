package dimension

// Magnitude identifies one of the base dimensions tracked by a Dimension.
type Magnitude int

// Base magnitudes, in field order.
const (
	Length Magnitude = iota
	Time
	Mass
	Temperature
	ElectricCurrent
	AmountOfSubstance
	LuminousIntensity
	Other

	// Money shares the Other slot.
	Money = Other
)

// Count is the number of exponent fields in a Dimension.
const Count = 8

var magnitudeNames = [Count]string{
	"Length",
	"Time",
	"Mass",
	"Temperature",
	"ElectricCurrent",
	"AmountOfSubstance",
	"LuminousIntensity",
	"Other",
}

var magnitudeSymbols = [Count]string{"L", "T", "M", "Θ", "I", "N", "J", "¤"}

// String returns the name used for the magnitude in definitions (<Length>).
func (m Magnitude) String() string {
	if !m.IsValid() {
		return "Magnitude(?)"
	}
	return magnitudeNames[m]
}

// Symbol returns the one-letter symbol used by Dimension.String.
func (m Magnitude) Symbol() string {
	if !m.IsValid() {
		return "?"
	}
	return magnitudeSymbols[m]
}

// IsValid reports whether m names a field.
func (m Magnitude) IsValid() bool {
	return m >= 0 && m < Count
}

// ParseMagnitude looks up a magnitude by its definition name.
// "Money" is accepted as an alias of "Other".
func ParseMagnitude(name string) (Magnitude, bool) {
	if name == "Money" {
		return Money, true
	}
	for i, n := range magnitudeNames {
		if n == name {
			return Magnitude(i), true
		}
	}
	return 0, false
}

// Magnitudes returns every magnitude in field order.
func Magnitudes() []Magnitude {
	ms := make([]Magnitude, Count)
	for i := range ms {
		ms[i] = Magnitude(i)
	}
	return ms
}
