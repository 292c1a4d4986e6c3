package parser

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/uomc/pkg/ast"
	"github.com/leapstack-labs/uomc/pkg/core"
	"github.com/leapstack-labs/uomc/pkg/number"
	"github.com/leapstack-labs/uomc/pkg/token"
)

// Scale declarations.
//
//	scale → 'scale' name [':' format] [refpoint] '=' unit_name num_expr ';'

type scaleDecl struct {
	scale     *core.ScaleType
	nameTok   token.Token
	offsetTok token.Token
	offset    ast.Node
}

func (p *Parser) parseScale() {
	decl, ok := p.parseScaleDecl()
	if !ok {
		p.synchronize()
		return
	}
	p.declareScale(decl)
}

func (p *Parser) parseScaleDecl() (*scaleDecl, bool) {
	p.nextToken() // skip 'scale'

	nameTok := p.token
	name, ok := p.parseDeclName()
	if !ok {
		return nil, false
	}

	format := p.opts.ScaleFormat
	if p.match(token.COLON) {
		if !p.check(token.STRING) {
			p.unexpected("format string")
			return nil, false
		}
		format = p.token.Literal
		p.nextToken()
	}

	refPoint := ""
	if p.check(token.IDENT) {
		refPoint = p.token.Literal
		p.nextToken()
	}

	if !p.expect(token.EQ) {
		return nil, false
	}

	if !p.check(token.IDENT) {
		p.unexpected("unit name")
		return nil, false
	}
	unitTok := p.token
	u, ok := p.lookupUnit(unitTok.Literal)
	if !ok {
		p.errorAt(unitTok, fmt.Sprintf(ErrUnknownUnit, unitTok.Literal))
		return nil, false
	}
	p.nextToken()

	offsetTok := p.token
	offset, ok := p.parseNumExpr(u.Kind)
	if !ok {
		return nil, false
	}
	if !p.expect(token.SEMICOLON) {
		return nil, false
	}

	s := core.NewScaleType(p.opts.Namespace, name, u, refPoint)
	s.Format = format
	return &scaleDecl{scale: s, nameTok: nameTok, offsetTok: offsetTok, offset: offset}, true
}

// declareScale evaluates the offset and adds the scale to the model. A scale
// joins the family of the first scale with the same reference point whose
// unit is a relative of its own.
func (p *Parser) declareScale(d *scaleDecl) {
	s := d.scale
	offset, err := ast.EncodeFactor(d.offset, s.Unit.Kind)
	if err != nil {
		if errors.Is(err, number.ErrDivisionByZero) {
			p.errorAt(d.offsetTok, fmt.Sprintf(ErrDivisionByZero, d.offset))
			return
		}
		p.fail(d.offsetTok, "cannot evaluate offset of "+s.Name(), err)
		return
	}
	s.Offset = offset

	var family *core.ScaleType
	for _, other := range p.model.Scales {
		if other.RefPoint == s.RefPoint && other.Unit.IsRelative(s.Unit) {
			family = other
			break
		}
	}

	if err := p.model.AddScale(s); err != nil {
		p.errorAt(d.nameTok, err.Error())
		return
	}
	if family != nil {
		family.AddRelative(s)
	}

	p.logger.Debug("scale declared",
		slog.String("name", s.QualifiedName()),
		slog.String("unit", s.Unit.Name()),
		slog.String("refpoint", s.RefPoint),
		slog.String("offset", s.Offset.Code))
}
