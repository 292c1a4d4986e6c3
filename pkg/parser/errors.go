package parser

import (
	"fmt"

	"github.com/leapstack-labs/uomc/pkg/token"
)

// ParseError is a failure that stops parsing: a condition no diagnostic
// can describe, such as exponent overflow. It wraps the cause.
type ParseError struct {
	Pos     token.Position
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s: %v", e.Pos.Line, e.Pos.Column, e.Message, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LexError reports that the source could not be read.
type LexError struct {
	Pos token.Position
	Err error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %v", e.Pos.Line, e.Pos.Column, e.Err)
}

func (e *LexError) Unwrap() error { return e.Err }

// Common error messages
const (
	ErrUnexpectedToken  = "unexpected token %s, expected %s"
	ErrInvalidNumber    = "invalid number literal %q for %s"
	ErrUnknownKind      = "unknown numeric kind %q"
	ErrUnknownUnit      = "unknown unit %q"
	ErrUnknownMagnitude = "unknown magnitude %q"
	ErrKindMismatch     = "unit %s is %s, expected %s"
	ErrDuplicateName    = "name %q is already declared"
	ErrDuplicateTag     = "symbol %q is already used by %s"
	ErrRepeatedTag      = "symbol %q is repeated"
	ErrQualifiedName    = "declared name %q must not be qualified"
	ErrWedgeOperand     = "operand %s of ^ is not a unit or a scaled unit"
	ErrSenseMismatch    = "alternate dimension %s does not match %s"
	ErrFactorMismatch   = "alternate factor %s does not match %s"
	ErrDivisionByZero   = "division by zero in %s"
)

// Warning messages
const (
	WarnNoOperatorsDerived = "no operators derived from %s"
)
