// Package token defines the token types for unit definition sources.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF     TokenType = iota
	ILLEGAL           // error-recovery token, already reported by the lexer

	// Literals
	IDENT  // Meter, Metrology.Meter
	INT    // 100
	REAL   // 0.3048, 1e-3
	STRING // "m"

	// Operators and punctuation
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	CARET     // ^
	EQ        // =
	LT        // <
	GT        // >
	PIPE      // |
	LPAREN    // (
	RPAREN    // )
	COLON     // :
	SEMICOLON // ;

	// Keywords
	UNIT
	SCALE
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	INT:    "INT",
	REAL:   "REAL",
	STRING: "STRING",

	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	CARET:     "^",
	EQ:        "=",
	LT:        "<",
	GT:        ">",
	PIPE:      "|",
	LPAREN:    "(",
	RPAREN:    ")",
	COLON:     ":",
	SEMICOLON: ";",

	UNIT:  "unit",
	SCALE: "scale",
}

var keywords = map[string]TokenType{
	"unit":  UNIT,
	"scale": SCALE,
}

// LookupIdent returns the keyword token type for ident, or IDENT.
// Keywords are case sensitive.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t == UNIT || t == SCALE
}

// IsOperator returns true if the token type is an operator or punctuation.
func IsOperator(t TokenType) bool {
	return t >= PLUS && t <= SEMICOLON
}

// IsNumber returns true for INT and REAL.
func IsNumber(t TokenType) bool {
	return t == INT || t == REAL
}

// Token represents a lexical token with position information.
// For STRING tokens Literal holds the decoded text and Raw the source text
// including quotes; for every other type Raw equals Literal.
type Token struct {
	Type    TokenType
	Literal string
	Raw     string
	Pos     Position
}

// Text returns the source text of the token, for diagnostics.
func (t Token) Text() string {
	if t.Type == EOF {
		return "<EOF>"
	}
	if t.Raw != "" {
		return t.Raw
	}
	return t.Literal
}
