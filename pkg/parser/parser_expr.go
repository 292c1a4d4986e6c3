package parser

import (
	"fmt"

	"github.com/leapstack-labs/uomc/pkg/ast"
	"github.com/leapstack-labs/uomc/pkg/core"
	"github.com/leapstack-labs/uomc/pkg/dimension"
	"github.com/leapstack-labs/uomc/pkg/number"
	"github.com/leapstack-labs/uomc/pkg/token"
)

// Expression parsing. Every operator is left associative; dimensional
// expressions give *, / and ^ equal precedence.
//
//	dim_term   → dim_factor (('*' | '/' | '^') dim_factor)*
//	dim_factor → '<' [magnitude] '>' | unit_name | literal | '(' dim_term ')'
//	num_expr   → num_term (('+' | '-') num_term)*
//	num_term   → num_unary (('*' | '/') num_unary)*
//	num_unary  → ['+' | '-'] num_factor
//	num_factor → literal | '(' num_expr ')'

// parseDimTerm parses a dimensional expression in the numeric kind of the
// unit being declared.
func (p *Parser) parseDimTerm(kind number.Kind) (ast.Node, bool) {
	lhs, ok := p.parseDimFactor(kind)
	if !ok {
		return nil, false
	}
	for {
		op := p.token
		if op.Type != token.STAR && op.Type != token.SLASH && op.Type != token.CARET {
			return lhs, true
		}
		p.nextToken()
		rhs, ok := p.parseDimFactor(kind)
		if !ok {
			return nil, false
		}
		switch op.Type {
		case token.STAR:
			lhs = &ast.Product{Lhs: lhs, Rhs: rhs}
		case token.SLASH:
			lhs = &ast.Quotient{Lhs: lhs, Rhs: rhs}
		default:
			for _, operand := range []ast.Node{lhs, rhs} {
				if !operand.IsWedgeCompatible() {
					p.errorAt(op, fmt.Sprintf(ErrWedgeOperand, operand))
					return nil, false
				}
			}
			lhs = &ast.Product{Lhs: lhs, Rhs: rhs, Wedge: true}
		}
	}
}

func (p *Parser) parseDimFactor(kind number.Kind) (ast.Node, bool) {
	switch p.token.Type {
	case token.LT:
		return p.parseMagnitude()
	case token.IDENT:
		return p.parseUnitRef(kind)
	case token.INT, token.REAL, token.STRING:
		return p.parseLiteral(kind)
	case token.LPAREN:
		p.nextToken()
		inner, ok := p.parseDimTerm(kind)
		if !ok || !p.expect(token.RPAREN) {
			return nil, false
		}
		return &ast.Paren{Expr: inner}, true
	default:
		p.unexpected("magnitude, unit or number")
		return nil, false
	}
}

// parseMagnitude parses <Magnitude> or the dimensionless <>.
func (p *Parser) parseMagnitude() (ast.Node, bool) {
	p.nextToken() // skip '<'
	if p.match(token.GT) {
		return &ast.Magnitude{Dimensionless: true}, true
	}
	if !p.check(token.IDENT) {
		p.unexpected("magnitude")
		return nil, false
	}
	m, ok := dimension.ParseMagnitude(p.token.Literal)
	if !ok {
		p.errorAt(p.token, fmt.Sprintf(ErrUnknownMagnitude, p.token.Literal))
		return nil, false
	}
	p.nextToken()
	if !p.expect(token.GT) {
		return nil, false
	}
	return &ast.Magnitude{Magnitude: m}, true
}

func (p *Parser) parseUnitRef(kind number.Kind) (ast.Node, bool) {
	tok := p.token
	u, ok := p.lookupUnit(tok.Literal)
	if !ok {
		p.errorAt(tok, fmt.Sprintf(ErrUnknownUnit, tok.Literal))
		return nil, false
	}
	if u.Kind != kind {
		p.errorAt(tok, fmt.Sprintf(ErrKindMismatch, u.Name(), u.Kind, kind))
		return nil, false
	}
	p.nextToken()
	return &ast.UnitRef{Unit: u}, true
}

// lookupUnit resolves a plain or qualified unit name, trying the parser's
// namespace as well.
func (p *Parser) lookupUnit(name string) (*core.UnitType, bool) {
	if u, ok := p.model.Unit(name); ok {
		return u, true
	}
	if p.opts.Namespace == "" {
		return nil, false
	}
	return p.model.Unit(p.opts.Namespace + "." + name)
}

// parseLiteral parses a number in the given kind, or a string holding an
// opaque numeric expression.
func (p *Parser) parseLiteral(kind number.Kind) (ast.Node, bool) {
	tok := p.token
	p.nextToken()
	if tok.Type == token.STRING {
		return &ast.Literal{Code: tok.Literal}, true
	}
	v, err := number.Parse(kind, tok.Literal)
	if err != nil {
		p.errorAt(tok, fmt.Sprintf(ErrInvalidNumber, tok.Literal, kind))
		return nil, false
	}
	return &ast.Number{Value: v, Text: tok.Literal}, true
}

func (p *Parser) parseNumExpr(kind number.Kind) (ast.Node, bool) {
	lhs, ok := p.parseNumTerm(kind)
	if !ok {
		return nil, false
	}
	for p.check(token.PLUS) || p.check(token.MINUS) {
		op := p.token.Type
		p.nextToken()
		rhs, ok := p.parseNumTerm(kind)
		if !ok {
			return nil, false
		}
		if op == token.PLUS {
			lhs = &ast.Sum{Lhs: lhs, Rhs: rhs}
		} else {
			lhs = &ast.Difference{Lhs: lhs, Rhs: rhs}
		}
	}
	return lhs, true
}

func (p *Parser) parseNumTerm(kind number.Kind) (ast.Node, bool) {
	lhs, ok := p.parseNumUnary(kind)
	if !ok {
		return nil, false
	}
	for p.check(token.STAR) || p.check(token.SLASH) {
		op := p.token.Type
		p.nextToken()
		rhs, ok := p.parseNumUnary(kind)
		if !ok {
			return nil, false
		}
		if op == token.STAR {
			lhs = &ast.Product{Lhs: lhs, Rhs: rhs}
		} else {
			lhs = &ast.Quotient{Lhs: lhs, Rhs: rhs}
		}
	}
	return lhs, true
}

func (p *Parser) parseNumUnary(kind number.Kind) (ast.Node, bool) {
	if !p.check(token.PLUS) && !p.check(token.MINUS) {
		return p.parseNumFactor(kind)
	}
	negative := p.check(token.MINUS)
	p.nextToken()
	expr, ok := p.parseNumFactor(kind)
	if !ok {
		return nil, false
	}
	return &ast.Unary{Negative: negative, Expr: expr}, true
}

func (p *Parser) parseNumFactor(kind number.Kind) (ast.Node, bool) {
	switch p.token.Type {
	case token.INT, token.REAL, token.STRING:
		return p.parseLiteral(kind)
	case token.LPAREN:
		p.nextToken()
		inner, ok := p.parseNumExpr(kind)
		if !ok || !p.expect(token.RPAREN) {
			return nil, false
		}
		return &ast.Paren{Expr: inner}, true
	default:
		p.unexpected("number")
		return nil, false
	}
}
