package core

import "github.com/leapstack-labs/uomc/pkg/number"

// AbstractType is anything that can appear as an operand or result of a
// BinaryOperation: measure types and plain numbers.
type AbstractType interface {
	Namespace() string
	Name() string
	QualifiedName() string
}

// NumericType is the AbstractType of a plain number of the given kind.
type NumericType struct {
	Kind number.Kind
}

// Namespace implements AbstractType.
func (NumericType) Namespace() string { return "" }

// Name implements AbstractType.
func (n NumericType) Name() string { return n.Kind.String() }

// QualifiedName implements AbstractType.
func (n NumericType) QualifiedName() string { return n.Kind.String() }

func qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}
