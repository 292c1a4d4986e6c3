package core

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/uomc/pkg/number"
)

// DefaultFormat is the format used for units and scales that declare none.
// The verb receives the value, the string the default symbol.
const DefaultFormat = "%v %s"

// Operator is the symbol of a bound binary operation.
type Operator string

// Operators produced by binding.
const (
	OpMul   Operator = "*"
	OpDiv   Operator = "/"
	OpWedge Operator = "^"
)

// BinaryOperation records that Lhs Operator Rhs yields Result.
type BinaryOperation struct {
	Result   AbstractType
	Operator Operator
	Lhs      AbstractType
	Rhs      AbstractType
}

// String renders the fact as "Result = Lhs op Rhs".
func (o BinaryOperation) String() string {
	return fmt.Sprintf("%s = %s %s %s", o.Result.Name(), o.Lhs.Name(), o.Operator, o.Rhs.Name())
}

// sameSignature reports whether two operations define the same operator
// overload: the result is implied by operator and operands.
func (o BinaryOperation) sameSignature(p BinaryOperation) bool {
	return o.Operator == p.Operator && o.Lhs == p.Lhs && o.Rhs == p.Rhs
}

// UnitType describes a unit of measurement.
type UnitType struct {
	MeasureType

	Kind       number.Kind
	Sense      SenseExpr
	Factor     NumExpr
	Format     string
	Tags       []string
	Operations []BinaryOperation
}

// NewUnitType creates a unit that is the only member of its family.
func NewUnitType(namespace, name string, kind number.Kind) *UnitType {
	u := &UnitType{Kind: kind, Format: DefaultFormat}
	u.init(u, namespace, name)
	return u
}

// Symbol returns the first tag, the default symbol of the unit.
func (u *UnitType) Symbol() string {
	if len(u.Tags) == 0 {
		return ""
	}
	return u.Tags[0]
}

// AddTag appends a symbol; it returns false if the unit already has it.
func (u *UnitType) AddTag(tag string) bool {
	if slices.Contains(u.Tags, tag) {
		return false
	}
	u.Tags = append(u.Tags, tag)
	return true
}

// AddOuterOperation records "lhs op rhs = result". An operation whose
// operator and operands were already recorded is ignored and false returned.
func (u *UnitType) AddOuterOperation(result AbstractType, op Operator, lhs, rhs AbstractType) bool {
	o := BinaryOperation{Result: result, Operator: op, Lhs: lhs, Rhs: rhs}
	for _, existing := range u.Operations {
		if existing.sameSignature(o) {
			return false
		}
	}
	u.Operations = append(u.Operations, o)
	return true
}

// UnitRelatives returns the units of the family in ring order.
func (u *UnitType) UnitRelatives() []*UnitType {
	var units []*UnitType
	for _, m := range u.Relatives() {
		if r, ok := m.(*UnitType); ok {
			units = append(units, r)
		}
	}
	return units
}

// String implements fmt.Stringer.
func (u *UnitType) String() string {
	return u.QualifiedName()
}
