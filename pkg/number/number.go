// Package number provides arithmetic over the three numeric kinds a unit
// can be declared with: float64, arbitrary precision decimal and float32.
//
// Numbers of different kinds never mix; every binary operation between two
// kinds fails with ErrIncompatibleNumbers.
package number

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// DecimalPrecision is the number of significant digits kept by decimal arithmetic.
const DecimalPrecision = 34

var decimalContext = func() *apd.Context {
	ctx := apd.BaseContext.WithPrecision(DecimalPrecision)
	ctx.Rounding = apd.RoundHalfEven
	return ctx
}()

// Sentinel errors.
var (
	ErrIncompatibleNumbers = errors.New("incompatible numbers")
	ErrDivisionByZero      = errors.New("division by zero")
	ErrInvalidNumber       = errors.New("invalid number")
)

// Number is a value of exactly one Kind. The zero value is double 0.
type Number struct {
	kind Kind
	f64  float64
	f32  float32
	dec  *apd.Decimal
}

// FromFloat64 returns a Double.
func FromFloat64(v float64) Number {
	return Number{kind: Double, f64: v}
}

// FromFloat32 returns a Float.
func FromFloat32(v float32) Number {
	return Number{kind: Float, f32: v}
}

// FromDecimal returns a Decimal holding a copy of d.
func FromDecimal(d *apd.Decimal) Number {
	return Number{kind: Decimal, dec: new(apd.Decimal).Set(d)}
}

// One returns 1 in the given kind.
func One(k Kind) Number {
	return fromInt(k, 1)
}

// Zero returns 0 in the given kind.
func Zero(k Kind) Number {
	return fromInt(k, 0)
}

func fromInt(k Kind, v int64) Number {
	switch k {
	case Decimal:
		return Number{kind: Decimal, dec: apd.New(v, 0)}
	case Float:
		return FromFloat32(float32(v))
	default:
		return FromFloat64(float64(v))
	}
}

// Parse reads a numeric literal in the given kind.
func Parse(k Kind, text string) (Number, error) {
	switch k {
	case Decimal:
		d, _, err := apd.NewFromString(text)
		if err != nil {
			return Number{}, fmt.Errorf("%w %q for %s: %v", ErrInvalidNumber, text, k, err)
		}
		return Number{kind: Decimal, dec: d}, nil
	case Float:
		v, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return Number{}, fmt.Errorf("%w %q for %s", ErrInvalidNumber, text, k)
		}
		return FromFloat32(float32(v)), nil
	default:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Number{}, fmt.Errorf("%w %q for %s", ErrInvalidNumber, text, k)
		}
		return FromFloat64(v), nil
	}
}

// Kind returns the numeric kind of n.
func (n Number) Kind() Kind {
	return n.kind
}

func (n Number) decimal() *apd.Decimal {
	if n.dec == nil {
		return apd.New(0, 0)
	}
	return n.dec
}

func (n Number) check(o Number, op string) error {
	if n.kind != o.kind {
		return fmt.Errorf("%w: %s %s %s", ErrIncompatibleNumbers, n.kind, op, o.kind)
	}
	return nil
}

// Add returns n + o.
func (n Number) Add(o Number) (Number, error) {
	if err := n.check(o, "+"); err != nil {
		return Number{}, err
	}
	switch n.kind {
	case Decimal:
		return n.decimalOp(o, decimalContext.Add)
	case Float:
		return FromFloat32(n.f32 + o.f32), nil
	default:
		return FromFloat64(n.f64 + o.f64), nil
	}
}

// Sub returns n - o.
func (n Number) Sub(o Number) (Number, error) {
	if err := n.check(o, "-"); err != nil {
		return Number{}, err
	}
	switch n.kind {
	case Decimal:
		return n.decimalOp(o, decimalContext.Sub)
	case Float:
		return FromFloat32(n.f32 - o.f32), nil
	default:
		return FromFloat64(n.f64 - o.f64), nil
	}
}

// Mul returns n * o.
func (n Number) Mul(o Number) (Number, error) {
	if err := n.check(o, "*"); err != nil {
		return Number{}, err
	}
	switch n.kind {
	case Decimal:
		return n.decimalOp(o, decimalContext.Mul)
	case Float:
		return FromFloat32(n.f32 * o.f32), nil
	default:
		return FromFloat64(n.f64 * o.f64), nil
	}
}

// Div returns n / o. Floating kinds follow IEEE 754; decimal division by
// zero fails.
func (n Number) Div(o Number) (Number, error) {
	if err := n.check(o, "/"); err != nil {
		return Number{}, err
	}
	switch n.kind {
	case Decimal:
		if o.decimal().IsZero() {
			return Number{}, fmt.Errorf("%w: %s / %s", ErrDivisionByZero, n, o)
		}
		return n.decimalOp(o, decimalContext.Quo)
	case Float:
		return FromFloat32(n.f32 / o.f32), nil
	default:
		return FromFloat64(n.f64 / o.f64), nil
	}
}

type decimalFunc func(d, x, y *apd.Decimal) (apd.Condition, error)

func (n Number) decimalOp(o Number, fn decimalFunc) (Number, error) {
	res := new(apd.Decimal)
	if _, err := fn(res, n.decimal(), o.decimal()); err != nil {
		return Number{}, fmt.Errorf("decimal arithmetic: %w", err)
	}
	return Number{kind: Decimal, dec: res}, nil
}

// Neg returns -n.
func (n Number) Neg() Number {
	switch n.kind {
	case Decimal:
		return Number{kind: Decimal, dec: new(apd.Decimal).Neg(n.decimal())}
	case Float:
		return FromFloat32(-n.f32)
	default:
		return FromFloat64(-n.f64)
	}
}

// Equal reports exact equality. Numbers of different kinds are never equal.
func (n Number) Equal(o Number) bool {
	if n.kind != o.kind {
		return false
	}
	switch n.kind {
	case Decimal:
		return n.decimal().Cmp(o.decimal()) == 0
	case Float:
		return n.f32 == o.f32
	default:
		return n.f64 == o.f64
	}
}

// ApproxEqual compares with a relative tolerance suited to the kind:
// 1e-12 for double, 1e-6 for float, exact for decimal.
func (n Number) ApproxEqual(o Number) bool {
	if n.kind != o.kind {
		return false
	}
	switch n.kind {
	case Decimal:
		return n.Equal(o)
	case Float:
		return closeEnough(float64(n.f32), float64(o.f32), 1e-6)
	default:
		return closeEnough(n.f64, o.f64, 1e-12)
	}
}

func closeEnough(a, b, tol float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= tol*scale
}

// IsOne reports whether n equals one.
func (n Number) IsOne() bool {
	return n.Equal(One(n.kind))
}

// Float64 converts n to a float64, possibly losing precision.
func (n Number) Float64() float64 {
	switch n.kind {
	case Decimal:
		f, err := n.decimal().Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case Float:
		return float64(n.f32)
	default:
		return n.f64
	}
}

// Code renders n as source text.
func (n Number) Code() string {
	switch n.kind {
	case Decimal:
		return n.decimal().Text('f')
	case Float:
		return strconv.FormatFloat(float64(n.f32), 'g', -1, 32)
	default:
		return strconv.FormatFloat(n.f64, 'g', -1, 64)
	}
}

// String implements fmt.Stringer.
func (n Number) String() string {
	return n.Code()
}
