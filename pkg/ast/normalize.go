package ast

// Canonical shapes, with x numeric and u, v unit references:
//
//	u        alias
//	x * u    u * x    u / x    conversions
//	x / u             reciprocal
//	u * v    u ^ v    u / v    derived units
//
// Numeric operands are pushed towards a single unit reference without
// changing the value of the expression.

// Normalized returns the canonical form of n, or n itself when none exists.
func Normalized(n Node) Node {
	if c, ok := n.TryNormalize(); ok {
		return c
	}
	return n
}

// TryNormalize implements Node. A unit reference is its own canonical form.
func (r *UnitRef) TryNormalize() (Node, bool) { return r, true }

// TryMultiply implements Node.
func (r *UnitRef) TryMultiply(x Node) (Node, bool) {
	return &Product{Lhs: r, Rhs: x}, true
}

// TryDivide implements Node.
func (r *UnitRef) TryDivide(x Node) (Node, bool) {
	return &Quotient{Lhs: r, Rhs: x}, true
}

// TryNormalize implements Node.
func (p *Paren) TryNormalize() (Node, bool) { return p.Expr.TryNormalize() }

// TryMultiply implements Node.
func (p *Paren) TryMultiply(x Node) (Node, bool) { return p.Expr.TryMultiply(x) }

// TryDivide implements Node.
func (p *Paren) TryDivide(x Node) (Node, bool) { return p.Expr.TryDivide(x) }

// TryNormalize implements Node.
func (p *Product) TryNormalize() (Node, bool) {
	ln, rn := p.Lhs.IsNumeric(), p.Rhs.IsNumeric()
	switch {
	case ln && rn:
		return nil, false
	case ln:
		if u, ok := unitOf(p.Rhs); ok {
			return &Product{Lhs: p.Lhs, Rhs: u}, true
		}
		return p.Rhs.TryMultiply(p.Lhs)
	case rn:
		if u, ok := unitOf(p.Lhs); ok {
			return &Product{Lhs: u, Rhs: p.Rhs}, true
		}
		return p.Lhs.TryMultiply(p.Rhs)
	}
	u, uok := unitOf(p.Lhs)
	v, vok := unitOf(p.Rhs)
	if !uok || !vok {
		return nil, false
	}
	return &Product{Lhs: u, Rhs: v, Wedge: p.Wedge}, true
}

// TryMultiply implements Node: (a * b) * x.
func (p *Product) TryMultiply(x Node) (Node, bool) {
	switch {
	case p.Wedge:
		return nil, false
	case p.Lhs.IsNumeric():
		k := &Product{Lhs: p.Lhs, Rhs: x}
		if u, ok := unitOf(p.Rhs); ok {
			return &Product{Lhs: k, Rhs: u}, true
		}
		return p.Rhs.TryMultiply(k)
	case p.Rhs.IsNumeric():
		k := &Product{Lhs: p.Rhs, Rhs: x}
		if u, ok := unitOf(p.Lhs); ok {
			return &Product{Lhs: u, Rhs: k}, true
		}
		return p.Lhs.TryMultiply(k)
	default:
		return nil, false
	}
}

// TryDivide implements Node: (a * b) / x.
func (p *Product) TryDivide(x Node) (Node, bool) {
	switch {
	case p.Wedge:
		return nil, false
	case p.Lhs.IsNumeric():
		k := &Quotient{Lhs: p.Lhs, Rhs: x}
		if u, ok := unitOf(p.Rhs); ok {
			return &Product{Lhs: k, Rhs: u}, true
		}
		return p.Rhs.TryMultiply(k)
	case p.Rhs.IsNumeric():
		return p.Lhs.TryMultiply(&Quotient{Lhs: p.Rhs, Rhs: x})
	default:
		return nil, false
	}
}

// TryNormalize implements Node.
func (q *Quotient) TryNormalize() (Node, bool) {
	ln, rn := q.Lhs.IsNumeric(), q.Rhs.IsNumeric()
	switch {
	case ln && rn:
		return nil, false
	case ln:
		if v, ok := unitOf(q.Rhs); ok {
			return &Quotient{Lhs: q.Lhs, Rhs: v}, true
		}
		return nil, false
	case rn:
		if u, ok := unitOf(q.Lhs); ok {
			return &Quotient{Lhs: u, Rhs: q.Rhs}, true
		}
		return q.Lhs.TryDivide(q.Rhs)
	}
	u, uok := unitOf(q.Lhs)
	v, vok := unitOf(q.Rhs)
	if !uok || !vok {
		return nil, false
	}
	return &Quotient{Lhs: u, Rhs: v}, true
}

// TryMultiply implements Node: (a / b) * x.
func (q *Quotient) TryMultiply(x Node) (Node, bool) {
	switch {
	case q.Rhs.IsNumeric():
		return q.Lhs.TryMultiply(&Quotient{Lhs: x, Rhs: q.Rhs})
	case q.Lhs.IsNumeric():
		if v, ok := unitOf(q.Rhs); ok {
			return &Quotient{Lhs: &Product{Lhs: q.Lhs, Rhs: x}, Rhs: v}, true
		}
		return nil, false
	default:
		return nil, false
	}
}

// TryDivide implements Node: (a / b) / x.
func (q *Quotient) TryDivide(x Node) (Node, bool) {
	switch {
	case q.Rhs.IsNumeric():
		return q.Lhs.TryDivide(&Product{Lhs: q.Rhs, Rhs: x})
	case q.Lhs.IsNumeric():
		if v, ok := unitOf(q.Rhs); ok {
			return &Quotient{Lhs: &Quotient{Lhs: q.Lhs, Rhs: x}, Rhs: v}, true
		}
		return nil, false
	default:
		return nil, false
	}
}
