package dimension

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// power builds Of(m)^e without going through Mul.
func power(t *testing.T, m Magnitude, e int) Dimension {
	t.Helper()
	d, err := None.With(m, e)
	require.NoError(t, err)
	return d
}

// referenceMul unpacks every field, adds with ordinary integers and repacks.
func referenceMul(x, y Dimension) (Dimension, bool) {
	var exps [Count]int
	for i := range exps {
		e := x.Exponent(Magnitude(i)) + y.Exponent(Magnitude(i))
		if e < MinExponent || e > MaxExponent {
			return None, false
		}
		exps[i] = e
	}
	d, err := New(exps)
	return d, err == nil
}

func referenceDiv(x, y Dimension) (Dimension, bool) {
	var exps [Count]int
	for i := range exps {
		e := x.Exponent(Magnitude(i)) - y.Exponent(Magnitude(i))
		if e < MinExponent || e > MaxExponent {
			return None, false
		}
		exps[i] = e
	}
	d, err := New(exps)
	return d, err == nil
}

func randomDimension(rng *rand.Rand) Dimension {
	var exps [Count]int
	for i := range exps {
		exps[i] = MinExponent + rng.Intn(MaxExponent-MinExponent+1)
	}
	d, _ := New(exps)
	return d
}

func TestExponentRoundTrip(t *testing.T) {
	for _, m := range Magnitudes() {
		for e := MinExponent; e <= MaxExponent; e++ {
			d := power(t, m, e)
			assert.Equal(t, e, d.Exponent(m), "%s^%d", m, e)
			for _, other := range Magnitudes() {
				if other != m {
					assert.Zero(t, d.Exponent(other))
				}
			}
		}
	}
}

func TestWithOutOfRange(t *testing.T) {
	_, err := None.With(Length, MaxExponent+1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOverflow))

	_, err = None.With(Length, MinExponent-1)
	assert.True(t, errors.Is(err, ErrOverflow))

	_, err = None.With(Magnitude(Count), 1)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestMulDivAllExponentPairs(t *testing.T) {
	for _, m := range Magnitudes() {
		for a := MinExponent; a <= MaxExponent; a++ {
			for b := MinExponent; b <= MaxExponent; b++ {
				x, y := power(t, m, a), power(t, m, b)

				prod, err := x.Mul(y)
				if s := a + b; s >= MinExponent && s <= MaxExponent {
					require.NoError(t, err, "%s: %d+%d", m, a, b)
					assert.Equal(t, power(t, m, s), prod)
				} else {
					require.Error(t, err, "%s: %d+%d", m, a, b)
					assert.True(t, errors.Is(err, ErrOverflow))
				}

				quot, err := x.Div(y)
				if s := a - b; s >= MinExponent && s <= MaxExponent {
					require.NoError(t, err, "%s: %d-%d", m, a, b)
					assert.Equal(t, power(t, m, s), quot)
				} else {
					require.Error(t, err, "%s: %d-%d", m, a, b)
					assert.True(t, errors.Is(err, ErrOverflow))
				}
			}
		}
	}
}

func TestMulDivMatchReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20000; i++ {
		x, y := randomDimension(rng), randomDimension(rng)

		want, ok := referenceMul(x, y)
		got, err := x.Mul(y)
		if ok {
			require.NoError(t, err, "%s * %s", x, y)
			require.Equal(t, want, got, "%s * %s", x, y)
		} else {
			require.ErrorIs(t, err, ErrOverflow, "%s * %s", x, y)
		}

		want, ok = referenceDiv(x, y)
		got, err = x.Div(y)
		if ok {
			require.NoError(t, err, "%s / %s", x, y)
			require.Equal(t, want, got, "%s / %s", x, y)
		} else {
			require.ErrorIs(t, err, ErrOverflow, "%s / %s", x, y)
		}
	}
}

func TestOverflowErrorNamesOperands(t *testing.T) {
	x := power(t, Time, MaxExponent)
	_, err := x.Mul(Of(Time))
	require.Error(t, err)

	var oe *OverflowError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, "*", oe.Op)
	assert.Equal(t, x.String(), oe.Lhs)
	assert.Equal(t, "T", oe.Rhs)
}

func TestPowMatchesRepeatedMul(t *testing.T) {
	speed, err := Of(Length).Div(Of(Time))
	require.NoError(t, err)

	acc := speed
	for n := 1; n <= 3; n++ {
		got, err := speed.Pow(n, 1)
		require.NoError(t, err)
		assert.Equal(t, acc, got, "n=%d", n)

		acc, err = acc.Mul(speed)
		require.NoError(t, err)
	}

	inv, err := speed.Pow(-1, 1)
	require.NoError(t, err)
	want, err := speed.Inverse()
	require.NoError(t, err)
	assert.Equal(t, want, inv)
}

func TestPowFractional(t *testing.T) {
	area := power(t, Length, 2)
	root, err := area.Sqrt()
	require.NoError(t, err)
	assert.Equal(t, Of(Length), root)

	_, err = Of(Length).Sqrt()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFractionalExponent))
	assert.Contains(t, err.Error(), "cannot create dimension with fractional exponent")

	_, err = area.Pow(1, 0)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = power(t, Mass, MaxExponent).Pow(2, 1)
	assert.True(t, errors.Is(err, ErrOverflow))
}

func TestString(t *testing.T) {
	force, err := New([Count]int{1, -2, 1, 0, 0, 0, 0, 0})
	require.NoError(t, err)

	tests := []struct {
		name string
		dim  Dimension
		want string
	}{
		{"dimensionless", None, "1"},
		{"length", Of(Length), "L"},
		{"force", force, "LT-2M"},
		{"money", Of(Money), "¤"},
		{"temperature squared", power(t, Temperature, 2), "Θ2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dim.String())
		})
	}
}

func TestEquality(t *testing.T) {
	a, err := Of(Length).Mul(Of(Time))
	require.NoError(t, err)
	b, err := Of(Time).Mul(Of(Length))
	require.NoError(t, err)

	assert.True(t, a == b)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(Of(Length)))
	assert.True(t, None.IsNone())
	assert.Equal(t, a.Bits(), b.Bits())
}

func TestParseMagnitude(t *testing.T) {
	for _, m := range Magnitudes() {
		got, ok := ParseMagnitude(m.String())
		require.True(t, ok)
		assert.Equal(t, m, got)
	}

	m, ok := ParseMagnitude("Money")
	require.True(t, ok)
	assert.Equal(t, Other, m)

	_, ok = ParseMagnitude("Speed")
	assert.False(t, ok)
}
