// Package core defines the semantic model produced by the definition compiler.
//
// This package contains:
//   - Measure types (UnitType, ScaleType) and their family rings
//   - Bound operator facts (BinaryOperation)
//   - Symbolic values (SenseExpr, NumExpr)
//   - The Model collection handed to a code generator
//   - Diagnostics reported while compiling
//
// pkg/core imports only pkg/token, pkg/dimension, pkg/number and stdlib.
// The parser and AST packages depend on core, not the reverse.
package core
