package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/uomc/pkg/ast"
	"github.com/leapstack-labs/uomc/pkg/core"
	"github.com/leapstack-labs/uomc/pkg/number"
	"github.com/leapstack-labs/uomc/pkg/token"
)

// Unit declarations.
//
//	unit     → 'unit' ['<' kind '>'] name tag+ [':' format] '=' dim_expr ';'
//	dim_expr → dim_term ('|' dim_term)*

type alternate struct {
	tok    token.Token // first token of the alternate
	node   ast.Node
	sense  core.SenseExpr
	factor core.NumExpr
}

type unitDecl struct {
	unit       *core.UnitType
	nameTok    token.Token
	alternates []alternate
}

func (p *Parser) parseUnit() {
	decl, ok := p.parseUnitDecl()
	if !ok {
		p.synchronize()
		return
	}
	p.declareUnit(decl)
}

func (p *Parser) parseUnitDecl() (*unitDecl, bool) {
	p.nextToken() // skip 'unit'

	kind := number.Double
	if p.match(token.LT) {
		if !p.check(token.IDENT) {
			p.unexpected("numeric kind")
			return nil, false
		}
		k, ok := number.ParseKind(p.token.Literal)
		if !ok {
			p.errorAt(p.token, fmt.Sprintf(ErrUnknownKind, p.token.Literal))
			return nil, false
		}
		kind = k
		p.nextToken()
		if !p.expect(token.GT) {
			return nil, false
		}
	}

	nameTok := p.token
	name, ok := p.parseDeclName()
	if !ok {
		return nil, false
	}
	u := core.NewUnitType(p.opts.Namespace, name, kind)
	u.Format = p.opts.UnitFormat

	if !p.check(token.STRING) {
		p.unexpected("symbol")
		return nil, false
	}
	for p.check(token.STRING) {
		tag := p.token.Literal
		if owner, taken := p.model.UnitBySymbol(tag); taken {
			p.errorAt(p.token, fmt.Sprintf(ErrDuplicateTag, tag, owner.Name()))
			return nil, false
		}
		if !u.AddTag(tag) {
			p.errorAt(p.token, fmt.Sprintf(ErrRepeatedTag, tag))
			return nil, false
		}
		p.nextToken()
	}

	if p.match(token.COLON) {
		if !p.check(token.STRING) {
			p.unexpected("format string")
			return nil, false
		}
		u.Format = p.token.Literal
		p.nextToken()
	}

	if !p.expect(token.EQ) {
		return nil, false
	}
	var alts []alternate
	for {
		tok := p.token
		n, ok := p.parseDimTerm(kind)
		if !ok {
			return nil, false
		}
		alts = append(alts, alternate{tok: tok, node: n})
		if !p.match(token.PIPE) {
			break
		}
	}
	if !p.expect(token.SEMICOLON) {
		return nil, false
	}
	return &unitDecl{unit: u, nameTok: nameTok, alternates: alts}, true
}

// parseDeclName parses the unqualified name of a new unit or scale.
func (p *Parser) parseDeclName() (string, bool) {
	tok := p.token
	if !p.check(token.IDENT) {
		p.unexpected("name")
		return "", false
	}
	name := tok.Literal
	if strings.Contains(name, ".") {
		p.errorAt(tok, fmt.Sprintf(ErrQualifiedName, name))
		return "", false
	}
	qualified := name
	if p.opts.Namespace != "" {
		qualified = p.opts.Namespace + "." + name
	}
	if p.model.HasName(name) || p.model.HasName(qualified) {
		p.errorAt(tok, fmt.Sprintf(ErrDuplicateName, name))
		return "", false
	}
	p.nextToken()
	return name, true
}

// declareUnit evaluates the alternates, checks that they agree and adds the
// unit to the model. Operators are bound only once the unit is accepted.
func (p *Parser) declareUnit(d *unitDecl) {
	u := d.unit
	for i := range d.alternates {
		a := &d.alternates[i]
		var err error
		if a.sense, err = ast.EncodeSense(a.node); err != nil {
			p.fail(a.tok, "cannot evaluate dimension of "+u.Name(), err)
			return
		}
		if a.factor, err = ast.EncodeFactor(a.node, u.Kind); err != nil {
			if errors.Is(err, number.ErrDivisionByZero) {
				p.errorAt(a.tok, fmt.Sprintf(ErrDivisionByZero, a.node))
				return
			}
			p.fail(a.tok, "cannot evaluate factor of "+u.Name(), err)
			return
		}
	}

	first := d.alternates[0]
	for _, a := range d.alternates[1:] {
		if !a.sense.Value.Equal(first.sense.Value) {
			p.errorAt(a.tok, fmt.Sprintf(ErrSenseMismatch, a.sense.Value, first.sense.Value))
			return
		}
		if a.factor.IsTrueValue && first.factor.IsTrueValue && !a.factor.Value.ApproxEqual(first.factor.Value) {
			p.errorAt(a.tok, fmt.Sprintf(ErrFactorMismatch, a.factor.Value, first.factor.Value))
			return
		}
	}
	u.Sense = first.sense
	u.Factor = first.factor

	if err := p.model.AddUnit(u); err != nil {
		p.errorAt(d.nameTok, err.Error())
		return
	}
	for _, a := range d.alternates {
		p.bind(u, a)
	}

	p.logger.Debug("unit declared",
		slog.String("name", u.QualifiedName()),
		slog.String("kind", u.Kind.String()),
		slog.String("sense", u.Sense.Value.String()),
		slog.String("factor", u.Factor.Code),
		slog.Int("operations", len(u.Operations)))
}

func (p *Parser) bind(u *core.UnitType, a alternate) {
	n, ok := a.node.TryNormalize()
	if !ok {
		if ast.ContainsUnitRef(a.node) {
			p.warnAt(a.tok, fmt.Sprintf(WarnNoOperatorsDerived, a.node))
		}
		return
	}
	n.Bind(u)
}
