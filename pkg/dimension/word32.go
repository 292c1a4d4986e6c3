//go:build !dimension64

package dimension

// word is the packed representation: 8 fields of 4 bits.
type word = uint32

// FieldBits is the width of one exponent field.
const FieldBits = 4
