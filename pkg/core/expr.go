package core

import (
	"github.com/leapstack-labs/uomc/pkg/dimension"
	"github.com/leapstack-labs/uomc/pkg/number"
)

// SenseExpr is a dimension together with the expression that produced it.
type SenseExpr struct {
	Value dimension.Dimension
	Code  string
}

// NumExpr is a numeric value together with the expression that produced it.
// IsTrueValue is false when the expression touched a symbolic literal whose
// value is unknown at compile time; Value is then only a placeholder.
type NumExpr struct {
	Value       number.Number
	Code        string
	IsTrueValue bool
}
