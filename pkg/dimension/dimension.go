// Package dimension implements the dimension vector algebra used to check
// the physical consistency of unit definitions.
//
// A Dimension packs one signed exponent per Magnitude into a single unsigned
// word. The default build uses a 32-bit word with 4-bit fields; building with
// the dimension64 tag switches to a 64-bit word with 8-bit fields.
//
//	speed, _ := dimension.Of(dimension.Length).Div(dimension.Of(dimension.Time))
//	speed.String() // "LT-1"
package dimension

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Exponent range of a single field.
const (
	MinExponent = -(1 << (FieldBits - 1))
	MaxExponent = 1<<(FieldBits-1) - 1
)

const fieldMask word = 1<<FieldBits - 1

var (
	// signMask has the top bit of every field set.
	signMask = replicate(1 << (FieldBits - 1))
	// carryMask clears the top bit of every field so that carries and
	// borrows never cross into the neighbouring field.
	carryMask = ^signMask
)

func replicate(field word) word {
	var w word
	for i := 0; i < Count; i++ {
		w |= field << (i * FieldBits)
	}
	return w
}

// Sentinel errors.
var (
	ErrOverflow           = errors.New("dimension exponent overflow")
	ErrFractionalExponent = errors.New("cannot create dimension with fractional exponent")
	ErrInvalidArgument    = errors.New("invalid dimension argument")
)

// OverflowError reports an operation whose result exponent left the field range.
type OverflowError struct {
	Op  string
	Lhs string
	Rhs string
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("dimension exponent overflow: %s %s %s", e.Lhs, e.Op, e.Rhs)
}

// Is makes errors.Is(err, ErrOverflow) true.
func (e *OverflowError) Is(target error) bool {
	return target == ErrOverflow
}

// Dimension is an immutable vector of Count signed exponents.
// Two dimensions are equal iff their packed words are equal, so == works.
type Dimension struct {
	bits word
}

// None is the dimensionless value.
var None = Dimension{}

// Of returns the dimension with exponent 1 at m and 0 elsewhere.
func Of(m Magnitude) Dimension {
	if !m.IsValid() {
		panic(fmt.Sprintf("dimension: invalid magnitude %d", int(m)))
	}
	return Dimension{bits: 1 << (int(m) * FieldBits)}
}

// New builds a dimension from explicit exponents in Magnitude order.
func New(exps [Count]int) (Dimension, error) {
	var d Dimension
	for i, e := range exps {
		var err error
		if d, err = d.With(Magnitude(i), e); err != nil {
			return None, err
		}
	}
	return d, nil
}

// Exponent returns the signed exponent stored for m.
func (d Dimension) Exponent(m Magnitude) int {
	raw := int((d.bits >> (int(m) * FieldBits)) & fieldMask)
	if raw&(1<<(FieldBits-1)) != 0 {
		raw -= 1 << FieldBits
	}
	return raw
}

// Exponents returns all exponents in Magnitude order.
func (d Dimension) Exponents() [Count]int {
	var exps [Count]int
	for i := range exps {
		exps[i] = d.Exponent(Magnitude(i))
	}
	return exps
}

// With returns a copy of d with the exponent for m replaced by e.
func (d Dimension) With(m Magnitude, e int) (Dimension, error) {
	if !m.IsValid() {
		return None, fmt.Errorf("%w: magnitude %d", ErrInvalidArgument, int(m))
	}
	if e < MinExponent || e > MaxExponent {
		return None, &OverflowError{Op: "with", Lhs: m.String(), Rhs: strconv.Itoa(e)}
	}
	shift := int(m) * FieldBits
	bits := d.bits &^ (fieldMask << shift)
	bits |= (word(e) & fieldMask) << shift
	return Dimension{bits: bits}, nil
}

// Equal reports whether d and o are the same dimension.
func (d Dimension) Equal(o Dimension) bool {
	return d.bits == o.bits
}

// IsNone reports whether d is dimensionless.
func (d Dimension) IsNone() bool {
	return d.bits == 0
}

// Bits returns the packed representation.
func (d Dimension) Bits() uint64 {
	return uint64(d.bits)
}

// Mul adds the exponents of d and o field by field.
func (d Dimension) Mul(o Dimension) (Dimension, error) {
	sum, ok := add(d.bits, o.bits)
	if !ok {
		return None, &OverflowError{Op: "*", Lhs: d.String(), Rhs: o.String()}
	}
	return Dimension{bits: sum}, nil
}

// Div subtracts the exponents of o from d field by field.
func (d Dimension) Div(o Dimension) (Dimension, error) {
	diff, ok := sub(d.bits, o.bits)
	if !ok {
		return None, &OverflowError{Op: "/", Lhs: d.String(), Rhs: o.String()}
	}
	return Dimension{bits: diff}, nil
}

// Inverse returns None / d.
func (d Dimension) Inverse() (Dimension, error) {
	return None.Div(d)
}

// Pow raises d to the rational power num/den. Every exponent must be
// divisible by den.
func (d Dimension) Pow(num, den int) (Dimension, error) {
	if den == 0 {
		return None, fmt.Errorf("%w: zero denominator", ErrInvalidArgument)
	}
	var exps [Count]int
	for i := range exps {
		e := d.Exponent(Magnitude(i))
		if e%den != 0 {
			return None, fmt.Errorf("%w: (%s)^(%d/%d)", ErrFractionalExponent, d, num, den)
		}
		r := e / den * num
		if r < MinExponent || r > MaxExponent {
			return None, &OverflowError{Op: "^", Lhs: d.String(), Rhs: fmt.Sprintf("%d/%d", num, den)}
		}
		exps[i] = r
	}
	return New(exps)
}

// Sqrt is Pow(1, 2).
func (d Dimension) Sqrt() (Dimension, error) {
	return d.Pow(1, 2)
}

// String renders nonzero exponents as symbol plus exponent, e.g. "LT-2M".
// The exponent is omitted when it is 1; a dimensionless value renders as "1".
func (d Dimension) String() string {
	var sb strings.Builder
	for i := 0; i < Count; i++ {
		m := Magnitude(i)
		e := d.Exponent(m)
		if e == 0 {
			continue
		}
		sb.WriteString(m.Symbol())
		if e != 1 {
			sb.WriteString(strconv.Itoa(e))
		}
	}
	if sb.Len() == 0 {
		return "1"
	}
	return sb.String()
}
