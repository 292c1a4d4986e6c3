package ast

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/uomc/pkg/core"
	"github.com/leapstack-labs/uomc/pkg/dimension"
	"github.com/leapstack-labs/uomc/pkg/number"
)

// ErrUnsupportedNode is returned when a node cannot take part in an encoding.
var ErrUnsupportedNode = errors.New("unsupported node")

// Codes of the neutral elements.
const (
	noneCode = "None"
	oneCode  = "1"
)

type sense struct {
	value   dimension.Dimension
	code    string
	neutral bool
}

// EncodeSense evaluates the dimension of a multiplicative expression.
// Numbers and the dimensionless tag are neutral.
func EncodeSense(n Node) (core.SenseExpr, error) {
	s, err := encodeSense(n)
	if err != nil {
		return core.SenseExpr{}, err
	}
	if s.neutral {
		return core.SenseExpr{Value: dimension.None, Code: noneCode}, nil
	}
	return core.SenseExpr{Value: s.value, Code: s.code}, nil
}

func encodeSense(n Node) (sense, error) {
	switch n := n.(type) {
	case *Number, *Literal:
		return sense{neutral: true}, nil
	case *Magnitude:
		if n.Dimensionless {
			return sense{neutral: true}, nil
		}
		return sense{value: dimension.Of(n.Magnitude), code: n.Magnitude.String()}, nil
	case *UnitRef:
		return sense{value: n.Unit.Sense.Value, code: n.Unit.Name() + ".Sense"}, nil
	case *Paren:
		s, err := encodeSense(n.Expr)
		if err != nil || s.neutral {
			return s, err
		}
		s.code = "(" + s.code + ")"
		return s, nil
	case *Product:
		l, r, err := encodeSenses(n.Lhs, n.Rhs)
		if err != nil {
			return sense{}, err
		}
		switch {
		case r.neutral:
			return l, nil
		case l.neutral:
			return r, nil
		}
		v, err := l.value.Mul(r.value)
		if err != nil {
			return sense{}, err
		}
		return sense{value: v, code: l.code + " * " + r.code}, nil
	case *Quotient:
		l, r, err := encodeSenses(n.Lhs, n.Rhs)
		if err != nil {
			return sense{}, err
		}
		if r.neutral {
			return l, nil
		}
		if l.neutral {
			l = sense{value: dimension.None, code: noneCode}
		}
		v, err := l.value.Div(r.value)
		if err != nil {
			return sense{}, err
		}
		return sense{value: v, code: l.code + " / " + r.code}, nil
	default:
		return sense{}, fmt.Errorf("%w: %T has no dimension", ErrUnsupportedNode, n)
	}
}

func encodeSenses(a, b Node) (sense, sense, error) {
	l, err := encodeSense(a)
	if err != nil {
		return sense{}, sense{}, err
	}
	r, err := encodeSense(b)
	if err != nil {
		return sense{}, sense{}, err
	}
	return l, r, nil
}

type factor struct {
	value   number.Number
	code    string
	exact   bool
	neutral bool
}

// EncodeFactor evaluates the numeric value of an expression in the given
// kind. The result is not a true value when a literal was involved.
func EncodeFactor(n Node, kind number.Kind) (core.NumExpr, error) {
	f, err := encodeFactor(n, kind)
	if err != nil {
		return core.NumExpr{}, err
	}
	if f.neutral {
		return core.NumExpr{Value: number.One(kind), Code: oneCode, IsTrueValue: true}, nil
	}
	return core.NumExpr{Value: f.value, Code: f.code, IsTrueValue: f.exact}, nil
}

func encodeFactor(n Node, kind number.Kind) (factor, error) {
	switch n := n.(type) {
	case *Number:
		return factor{value: n.Value, code: n.Value.Code(), exact: true}, nil
	case *Literal:
		return factor{value: number.One(kind), code: n.Code}, nil
	case *Magnitude:
		return factor{neutral: true, exact: true}, nil
	case *UnitRef:
		return factor{
			value: n.Unit.Factor.Value,
			code:  n.Unit.Name() + ".Factor",
			exact: n.Unit.Factor.IsTrueValue,
		}, nil
	case *Unary:
		f, err := encodeFactor(n.Expr, kind)
		if err != nil {
			return factor{}, err
		}
		f = f.materialize(kind)
		if n.Negative {
			f.value = f.value.Neg()
			f.code = "-" + f.code
		}
		return f, nil
	case *Paren:
		f, err := encodeFactor(n.Expr, kind)
		if err != nil || f.neutral {
			return f, err
		}
		f.code = "(" + f.code + ")"
		return f, nil
	case *Product:
		return encodeBinary(n.Lhs, n.Rhs, kind, " * ", number.Number.Mul, true)
	case *Quotient:
		return encodeBinary(n.Lhs, n.Rhs, kind, " / ", number.Number.Div, false)
	case *Sum:
		return encodeBinary(n.Lhs, n.Rhs, kind, " + ", number.Number.Add, false)
	case *Difference:
		return encodeBinary(n.Lhs, n.Rhs, kind, " - ", number.Number.Sub, false)
	default:
		return factor{}, fmt.Errorf("%w: %T has no value", ErrUnsupportedNode, n)
	}
}

type arith func(a, b number.Number) (number.Number, error)

// encodeBinary combines two factors. A neutral right operand is absorbed; a
// neutral left operand is absorbed only when the operation commutes.
func encodeBinary(a, b Node, kind number.Kind, op string, fn arith, commutes bool) (factor, error) {
	l, err := encodeFactor(a, kind)
	if err != nil {
		return factor{}, err
	}
	r, err := encodeFactor(b, kind)
	if err != nil {
		return factor{}, err
	}
	if op == " * " || op == " / " {
		switch {
		case r.neutral:
			return l, nil
		case l.neutral && commutes:
			return r, nil
		}
	}
	l, r = l.materialize(kind), r.materialize(kind)
	v, err := fn(l.value, r.value)
	if err != nil {
		return factor{}, err
	}
	return factor{value: v, code: l.code + op + r.code, exact: l.exact && r.exact}, nil
}

// materialize turns a neutral factor into an explicit one.
func (f factor) materialize(kind number.Kind) factor {
	if !f.neutral {
		return f
	}
	return factor{value: number.One(kind), code: oneCode, exact: true}
}
