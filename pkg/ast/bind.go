package ast

import "github.com/leapstack-labs/uomc/pkg/core"

// Binding runs on canonical trees only (see Normalized). Every operator
// fact derived from candidate = expr is stored on the candidate.

// Bind implements Node: candidate is an alias of r, so they are relatives.
func (r *UnitRef) Bind(candidate *core.UnitType) bool {
	r.Unit.AddRelative(candidate)
	return true
}

// Bind implements Node.
func (p *Paren) Bind(candidate *core.UnitType) bool { return p.Expr.Bind(candidate) }

// Bind implements Node. A scaled unit is a conversion and binds as a
// relative; a product of two units yields the operator and its inverses.
func (p *Product) Bind(candidate *core.UnitType) bool {
	switch {
	case p.Lhs.IsNumeric():
		return p.Rhs.Bind(candidate)
	case p.Rhs.IsNumeric():
		return p.Lhs.Bind(candidate)
	}
	u, uok := unitOf(p.Lhs)
	v, vok := unitOf(p.Rhs)
	if !uok || !vok {
		return false
	}
	op := core.OpMul
	if p.Wedge {
		op = core.OpWedge
	}
	candidate.AddOuterOperation(candidate, op, u.Unit, v.Unit)
	if u.Unit != v.Unit {
		candidate.AddOuterOperation(candidate, op, v.Unit, u.Unit)
	}
	candidate.AddOuterOperation(u.Unit, core.OpDiv, candidate, v.Unit)
	candidate.AddOuterOperation(v.Unit, core.OpDiv, candidate, u.Unit)
	return true
}

// Bind implements Node. u / x is a conversion, x / u a reciprocal and
// u / v a derived unit.
func (q *Quotient) Bind(candidate *core.UnitType) bool {
	if q.Rhs.IsNumeric() {
		return q.Lhs.Bind(candidate)
	}
	v, ok := unitOf(q.Rhs)
	if !ok {
		return false
	}
	if q.Lhs.IsNumeric() {
		num := core.NumericType{Kind: candidate.Kind}
		candidate.AddOuterOperation(candidate, core.OpDiv, num, v.Unit)
		candidate.AddOuterOperation(v.Unit, core.OpDiv, num, candidate)
		candidate.AddOuterOperation(num, core.OpMul, candidate, v.Unit)
		candidate.AddOuterOperation(num, core.OpMul, v.Unit, candidate)
		return true
	}
	u, ok := unitOf(q.Lhs)
	if !ok {
		return false
	}
	if u.Unit != v.Unit {
		candidate.AddOuterOperation(candidate, core.OpDiv, u.Unit, v.Unit)
	}
	candidate.AddOuterOperation(v.Unit, core.OpDiv, u.Unit, candidate)
	candidate.AddOuterOperation(u.Unit, core.OpMul, candidate, v.Unit)
	candidate.AddOuterOperation(u.Unit, core.OpMul, v.Unit, candidate)
	return true
}
