package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/uomc/pkg/core"
	"github.com/leapstack-labs/uomc/pkg/dimension"
	"github.com/leapstack-labs/uomc/pkg/number"
)

func baseUnit(name string, m dimension.Magnitude) *core.UnitType {
	u := core.NewUnitType("", name, number.Double)
	u.Sense = core.SenseExpr{Value: dimension.Of(m), Code: m.String()}
	u.Factor = core.NumExpr{Value: number.One(number.Double), Code: "1", IsTrueValue: true}
	return u
}

func num(v float64) *Number { return &Number{Value: number.FromFloat64(v)} }

func ref(u *core.UnitType) *UnitRef { return &UnitRef{Unit: u} }

func mul(a, b Node) *Product { return &Product{Lhs: a, Rhs: b} }

func div(a, b Node) *Quotient { return &Quotient{Lhs: a, Rhs: b} }

func opStrings(u *core.UnitType) []string {
	var out []string
	for _, o := range u.Operations {
		out = append(out, o.String())
	}
	return out
}

func TestStringParenthesizesRightOperand(t *testing.T) {
	meter := baseUnit("Meter", dimension.Length)
	second := baseUnit("Second", dimension.Time)

	tests := []struct {
		name string
		node Node
		want string
	}{
		{"left nested quotient", div(div(ref(meter), ref(second)), ref(second)), "Meter / Second / Second"},
		{"right nested product", div(ref(meter), mul(num(2), num(5))), "Meter / (2 * 5)"},
		{"right nested quotient", mul(ref(meter), div(num(3), num(2))), "Meter * (3 / 2)"},
		{"right nested wedge", div(ref(meter), &Product{Lhs: ref(second), Rhs: ref(second), Wedge: true}), "Meter / (Second ^ Second)"},
		{"explicit paren", div(ref(meter), &Paren{Expr: mul(num(2), num(5))}), "Meter / (2 * 5)"},
		{"left nested product", mul(mul(num(2), ref(meter)), num(3)), "2 * Meter * 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.node.String())
		})
	}
}

func TestPredicates(t *testing.T) {
	meter := baseUnit("Meter", dimension.Length)

	tests := []struct {
		name    string
		node    Node
		numeric bool
		wedge   bool
	}{
		{"number", num(2), true, false},
		{"literal", &Literal{Code: "Math.PI"}, true, false},
		{"dimensionless", &Magnitude{Dimensionless: true}, true, false},
		{"magnitude", &Magnitude{Magnitude: dimension.Length}, false, false},
		{"unit", ref(meter), false, true},
		{"paren unit", &Paren{Expr: ref(meter)}, false, true},
		{"scaled unit", mul(num(2), ref(meter)), false, true},
		{"unit over number", div(ref(meter), num(2)), false, true},
		{"numeric product", mul(num(2), num(3)), true, false},
		{"unit product", mul(ref(meter), ref(meter)), false, false},
		{"wedge", &Product{Lhs: ref(meter), Rhs: ref(meter), Wedge: true}, false, true},
		{"negated", &Unary{Negative: true, Expr: num(1)}, true, false},
		{"sum", &Sum{Lhs: num(1), Rhs: num(2)}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.numeric, tt.node.IsNumeric())
			assert.Equal(t, tt.wedge, tt.node.IsWedgeCompatible())
		})
	}
}

func TestNormalize(t *testing.T) {
	meter := baseUnit("Meter", dimension.Length)
	second := baseUnit("Second", dimension.Time)
	kilogram := baseUnit("Kilogram", dimension.Mass)

	tests := []struct {
		name string
		node Node
		want string
	}{
		{"alias", ref(meter), "Meter"},
		{"paren alias", &Paren{Expr: ref(meter)}, "Meter"},
		{"number times unit", mul(num(0.3048), ref(meter)), "0.3048 * Meter"},
		{"unit times number", mul(ref(meter), num(100)), "Meter * 100"},
		{"unit over number", div(ref(meter), num(100)), "Meter / 100"},
		{"reciprocal", div(num(1), ref(second)), "1 / Second"},
		{"product", mul(ref(meter), ref(second)), "Meter * Second"},
		{"wedge", &Product{Lhs: ref(meter), Rhs: ref(second), Wedge: true}, "Meter ^ Second"},
		{"quotient", div(ref(meter), ref(second)), "Meter / Second"},
		{"paren operands", div(&Paren{Expr: ref(meter)}, &Paren{Expr: ref(second)}), "Meter / Second"},
		{"nested scale", mul(num(2), &Paren{Expr: mul(ref(meter), num(3))}), "Meter * (3 * 2)"},
		{"scaled over number", div(&Paren{Expr: mul(num(100), ref(meter))}, num(2)), "100 / 2 * Meter"},
		{"quotient times number", mul(&Paren{Expr: div(ref(meter), num(2))}, num(3)), "Meter * (3 / 2)"},
		{"quotient over number", div(&Paren{Expr: div(ref(meter), num(2))}, num(5)), "Meter / (2 * 5)"},
		{"left associated", div(mul(num(1000), ref(kilogram)), num(10)), "1000 / 10 * Kilogram"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.node.TryNormalize()
			require.True(t, ok)
			assert.Equal(t, tt.want, got.String())

			again, ok := got.TryNormalize()
			require.True(t, ok, "canonical form must normalize")
			assert.Equal(t, got.String(), again.String())
		})
	}
}

func TestNormalizeFails(t *testing.T) {
	meter := baseUnit("Meter", dimension.Length)
	second := baseUnit("Second", dimension.Time)
	kilogram := baseUnit("Kilogram", dimension.Mass)

	tests := []struct {
		name string
		node Node
	}{
		{"numeric", mul(num(2), num(3))},
		{"magnitude", &Magnitude{Magnitude: dimension.Length}},
		{"three units", mul(mul(ref(meter), ref(second)), ref(kilogram))},
		{"number over product", div(num(1), &Paren{Expr: mul(ref(meter), ref(second))})},
		{"sum", &Sum{Lhs: num(1), Rhs: num(2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := tt.node.TryNormalize()
			assert.False(t, ok)
			assert.Same(t, tt.node, Normalized(tt.node))
		})
	}
}

func TestBindConversion(t *testing.T) {
	meter := baseUnit("Meter", dimension.Length)
	foot := core.NewUnitType("", "Foot", number.Double)

	n := Normalized(mul(num(0.3048), ref(meter)))
	require.True(t, n.Bind(foot))

	assert.True(t, foot.IsRelative(meter))
	assert.Same(t, meter, foot.Family())
	assert.Empty(t, foot.Operations)
}

func TestBindProduct(t *testing.T) {
	kilogram := baseUnit("Kilogram", dimension.Mass)
	accel := baseUnit("Acceleration", dimension.Length)
	newton := core.NewUnitType("", "Newton", number.Double)

	require.True(t, Normalized(mul(ref(kilogram), ref(accel))).Bind(newton))
	assert.Equal(t, []string{
		"Newton = Kilogram * Acceleration",
		"Newton = Acceleration * Kilogram",
		"Kilogram = Newton / Acceleration",
		"Acceleration = Newton / Kilogram",
	}, opStrings(newton))
	assert.True(t, newton.IsPrime())
}

func TestBindSquare(t *testing.T) {
	meter := baseUnit("Meter", dimension.Length)
	square := core.NewUnitType("", "SquareMeter", number.Double)

	require.True(t, Normalized(mul(ref(meter), ref(meter))).Bind(square))
	assert.Equal(t, []string{
		"SquareMeter = Meter * Meter",
		"Meter = SquareMeter / Meter",
	}, opStrings(square))
}

func TestBindWedge(t *testing.T) {
	newton := baseUnit("Newton", dimension.Mass)
	meter := baseUnit("Meter", dimension.Length)
	joule := core.NewUnitType("", "Joule", number.Double)

	require.True(t, Normalized(&Product{Lhs: ref(newton), Rhs: ref(meter), Wedge: true}).Bind(joule))
	ops := joule.Operations
	require.Len(t, ops, 4)
	assert.Equal(t, core.OpWedge, ops[0].Operator)
	assert.Equal(t, core.OpWedge, ops[1].Operator)
	assert.Equal(t, core.OpDiv, ops[2].Operator)
}

func TestBindQuotient(t *testing.T) {
	meter := baseUnit("Meter", dimension.Length)
	second := baseUnit("Second", dimension.Time)
	speed := core.NewUnitType("", "MeterPerSecond", number.Double)

	require.True(t, Normalized(div(ref(meter), ref(second))).Bind(speed))
	assert.Equal(t, []string{
		"MeterPerSecond = Meter / Second",
		"Second = Meter / MeterPerSecond",
		"Meter = MeterPerSecond * Second",
		"Meter = Second * MeterPerSecond",
	}, opStrings(speed))
}

func TestBindSameQuotient(t *testing.T) {
	meter := baseUnit("Meter", dimension.Length)
	ratio := core.NewUnitType("", "Ratio", number.Double)

	require.True(t, Normalized(div(ref(meter), ref(meter))).Bind(ratio))
	assert.Equal(t, []string{
		"Meter = Meter / Ratio",
		"Meter = Ratio * Meter",
		"Meter = Meter * Ratio",
	}, opStrings(ratio))
}

func TestBindReciprocal(t *testing.T) {
	second := baseUnit("Second", dimension.Time)
	hertz := core.NewUnitType("", "Hertz", number.Double)

	require.True(t, Normalized(div(num(1), ref(second))).Bind(hertz))
	assert.Equal(t, []string{
		"Hertz = double / Second",
		"Second = double / Hertz",
		"double = Hertz * Second",
		"double = Second * Hertz",
	}, opStrings(hertz))
	assert.Equal(t, core.NumericType{Kind: number.Double}, hertz.Operations[0].Lhs)
	assert.False(t, hertz.IsRelative(second))
}

func TestBindRejectsNonCanonical(t *testing.T) {
	u := core.NewUnitType("", "U", number.Double)
	assert.False(t, num(1).Bind(u))
	assert.False(t, (&Magnitude{Magnitude: dimension.Length}).Bind(u))
	assert.False(t, (&Sum{Lhs: num(1), Rhs: num(1)}).Bind(u))
}

func TestContainsUnitRef(t *testing.T) {
	meter := baseUnit("Meter", dimension.Length)
	assert.True(t, ContainsUnitRef(mul(num(2), &Paren{Expr: ref(meter)})))
	assert.False(t, ContainsUnitRef(mul(num(2), &Magnitude{Magnitude: dimension.Length})))
}
