// Package ast defines the expression trees of unit and scale declarations
// and the algorithms that run over them: canonical-form rewriting, operator
// binding, and the sense and factor encoders.
//
// Dimensional expressions are multiplicative (*, /, ^); additive nodes only
// appear in scale offsets.
package ast

import (
	"strconv"

	"github.com/leapstack-labs/uomc/pkg/core"
	"github.com/leapstack-labs/uomc/pkg/dimension"
	"github.com/leapstack-labs/uomc/pkg/number"
)

// Node is an expression tree node.
type Node interface {
	// IsNumeric reports whether the subtree is a plain number.
	IsNumeric() bool
	// IsWedgeCompatible reports whether the subtree may be an operand of ^.
	IsWedgeCompatible() bool
	// TryNormalize rewrites the subtree into a canonical shape.
	TryNormalize() (Node, bool)
	// TryMultiply returns the canonical form of (node * x) for a numeric x.
	TryMultiply(x Node) (Node, bool)
	// TryDivide returns the canonical form of (node / x) for a numeric x.
	TryDivide(x Node) (Node, bool)
	// Bind derives the relations implied by candidate = node.
	Bind(candidate *core.UnitType) bool
	String() string
}

// rigid provides the behaviour of nodes that take part in neither
// rewriting nor binding.
type rigid struct{}

func (rigid) IsWedgeCompatible() bool { return false }

func (rigid) TryNormalize() (Node, bool) { return nil, false }

func (rigid) TryMultiply(Node) (Node, bool) { return nil, false }

func (rigid) TryDivide(Node) (Node, bool) { return nil, false }

func (rigid) Bind(*core.UnitType) bool { return false }

// Number is a numeric literal already converted to the declaring kind.
type Number struct {
	rigid
	Value number.Number
	Text  string // source text
}

// IsNumeric implements Node.
func (*Number) IsNumeric() bool { return true }

func (n *Number) String() string {
	if n.Text != "" {
		return n.Text
	}
	return n.Value.Code()
}

// Literal is an opaque numeric expression given as a string, such as a
// symbolic constant. Its value is unknown at compile time.
type Literal struct {
	rigid
	Code string
}

// IsNumeric implements Node.
func (*Literal) IsNumeric() bool { return true }

func (l *Literal) String() string { return strconv.Quote(l.Code) }

// Magnitude is a base dimension tag, <Length>, or the dimensionless tag <>.
type Magnitude struct {
	rigid
	Magnitude     dimension.Magnitude
	Dimensionless bool
}

// IsNumeric implements Node. Only the dimensionless tag is numeric.
func (m *Magnitude) IsNumeric() bool { return m.Dimensionless }

func (m *Magnitude) String() string {
	if m.Dimensionless {
		return "<>"
	}
	return "<" + m.Magnitude.String() + ">"
}

// UnitRef references a previously declared unit.
type UnitRef struct {
	Unit *core.UnitType
}

// IsNumeric implements Node.
func (*UnitRef) IsNumeric() bool { return false }

// IsWedgeCompatible implements Node.
func (*UnitRef) IsWedgeCompatible() bool { return true }

func (r *UnitRef) String() string { return r.Unit.Name() }

// Unary is a signed expression.
type Unary struct {
	rigid
	Negative bool
	Expr     Node
}

// IsNumeric implements Node.
func (u *Unary) IsNumeric() bool { return u.Expr.IsNumeric() }

func (u *Unary) String() string {
	if u.Negative {
		return "-" + u.Expr.String()
	}
	return "+" + u.Expr.String()
}

// Paren is a parenthesized expression.
type Paren struct {
	Expr Node
}

// IsNumeric implements Node.
func (p *Paren) IsNumeric() bool { return p.Expr.IsNumeric() }

// IsWedgeCompatible implements Node.
func (p *Paren) IsWedgeCompatible() bool { return p.Expr.IsWedgeCompatible() }

func (p *Paren) String() string { return "(" + p.Expr.String() + ")" }

// Product is Lhs * Rhs, or the wedge product Lhs ^ Rhs.
type Product struct {
	Lhs   Node
	Rhs   Node
	Wedge bool
}

// IsNumeric implements Node.
func (p *Product) IsNumeric() bool { return p.Lhs.IsNumeric() && p.Rhs.IsNumeric() }

// IsWedgeCompatible implements Node. A wedge product is, and so is a
// wedge-compatible operand scaled by a number.
func (p *Product) IsWedgeCompatible() bool {
	return p.Wedge || scaledWedge(p.Lhs, p.Rhs)
}

func (p *Product) String() string {
	op := " * "
	if p.Wedge {
		op = " ^ "
	}
	return p.Lhs.String() + op + rightOperand(p.Rhs)
}

// Quotient is Lhs / Rhs.
type Quotient struct {
	Lhs Node
	Rhs Node
}

// IsNumeric implements Node.
func (q *Quotient) IsNumeric() bool { return q.Lhs.IsNumeric() && q.Rhs.IsNumeric() }

// IsWedgeCompatible implements Node.
func (q *Quotient) IsWedgeCompatible() bool { return scaledWedge(q.Lhs, q.Rhs) }

func (q *Quotient) String() string { return q.Lhs.String() + " / " + rightOperand(q.Rhs) }

// rightOperand renders n as the right side of * or /. Operators associate
// to the left, so a nested product or quotient needs parentheses.
func rightOperand(n Node) string {
	switch n.(type) {
	case *Product, *Quotient:
		return "(" + n.String() + ")"
	}
	return n.String()
}

// Sum is Lhs + Rhs.
type Sum struct {
	rigid
	Lhs Node
	Rhs Node
}

// IsNumeric implements Node.
func (s *Sum) IsNumeric() bool { return s.Lhs.IsNumeric() && s.Rhs.IsNumeric() }

func (s *Sum) String() string { return s.Lhs.String() + " + " + s.Rhs.String() }

// Difference is Lhs - Rhs.
type Difference struct {
	rigid
	Lhs Node
	Rhs Node
}

// IsNumeric implements Node.
func (d *Difference) IsNumeric() bool { return d.Lhs.IsNumeric() && d.Rhs.IsNumeric() }

func (d *Difference) String() string { return d.Lhs.String() + " - " + d.Rhs.String() }

func scaledWedge(a, b Node) bool {
	return (a.IsNumeric() && b.IsWedgeCompatible()) || (b.IsNumeric() && a.IsWedgeCompatible())
}

// unitOf returns the unit reference n stands for, looking through parentheses.
func unitOf(n Node) (*UnitRef, bool) {
	switch n := n.(type) {
	case *UnitRef:
		return n, true
	case *Paren:
		return unitOf(n.Expr)
	default:
		return nil, false
	}
}

// ContainsUnitRef reports whether any node of the tree references a unit.
func ContainsUnitRef(n Node) bool {
	switch n := n.(type) {
	case *UnitRef:
		return true
	case *Unary:
		return ContainsUnitRef(n.Expr)
	case *Paren:
		return ContainsUnitRef(n.Expr)
	case *Product:
		return ContainsUnitRef(n.Lhs) || ContainsUnitRef(n.Rhs)
	case *Quotient:
		return ContainsUnitRef(n.Lhs) || ContainsUnitRef(n.Rhs)
	case *Sum:
		return ContainsUnitRef(n.Lhs) || ContainsUnitRef(n.Rhs)
	case *Difference:
		return ContainsUnitRef(n.Lhs) || ContainsUnitRef(n.Rhs)
	default:
		return false
	}
}
