// Package parser compiles unit and scale definitions into a core.Model.
//
// # Usage
//
//	res, err := parser.ParseString(src, parser.Options{})
//	if err != nil {
//	    // the source could not be compiled at all
//	}
//	if res.Diagnostics.HasErrors() {
//	    // some declarations were rejected
//	}
//
// # Grammar Overview
//
//	program   → (unit | scale)*
//	unit      → 'unit' ['<' kind '>'] name tag+ [':' format] '=' dim_expr ';'
//	scale     → 'scale' name [':' format] [refpoint] '=' unit_name num_expr ';'
//	dim_expr  → dim_term ('|' dim_term)*
//	dim_term  → dim_factor (('*' | '/' | '^') dim_factor)*
//	dim_factor→ '<' [magnitude] '>' | unit_name | literal | '(' dim_term ')'
//	num_expr  → num_term (('+' | '-') num_term)*
//	num_term  → num_unary (('*' | '/') num_unary)*
//	num_unary → ['+' | '-'] num_factor
//	num_factor→ literal | '(' num_expr ')'
//	literal   → INT | REAL | STRING
//
// A rejected declaration is reported as a diagnostic and parsing resumes
// after the next ';' or at the next 'unit' or 'scale' keyword. Rejected
// declarations leave no trace in the model.
package parser

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/uomc/pkg/core"
	"github.com/leapstack-labs/uomc/pkg/token"
)

// Options configures a Parser.
type Options struct {
	// Model is extended with the parsed declarations. A new model is
	// created when nil.
	Model *core.Model
	// Namespace qualifies every declared name.
	Namespace string
	// UnitFormat and ScaleFormat are used by declarations without a format.
	UnitFormat  string
	ScaleFormat string
	// Source names the input in diagnostics.
	Source string
	// Report receives every diagnostic as it is produced.
	Report core.DiagnosticFunc
	Logger *slog.Logger
}

// Result is the outcome of a compilation.
type Result struct {
	Model       *core.Model
	Diagnostics core.Diagnostics
}

// Parser compiles definitions read from a single source.
type Parser struct {
	lexer  *Lexer
	token  token.Token // current token
	opts   Options
	model  *core.Model
	logger *slog.Logger
	diags  core.Diagnostics
	err    error // hard error, stops parsing
}

// NewParser creates a parser reading definitions from r.
func NewParser(r io.Reader, opts Options) *Parser {
	if opts.Model == nil {
		opts.Model = core.NewModel()
	}
	if opts.UnitFormat == "" {
		opts.UnitFormat = core.DefaultFormat
	}
	if opts.ScaleFormat == "" {
		opts.ScaleFormat = core.DefaultFormat
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := &Parser{
		opts:   opts,
		model:  opts.Model,
		logger: logger,
	}
	p.lexer = NewLexer(r, p.lexError)
	p.nextToken()
	return p
}

// Parse reads r to the end and returns the model and its diagnostics.
// The error is non-nil only for failures that stop compilation; the result
// is returned in any case.
func Parse(r io.Reader, opts Options) (*Result, error) {
	p := NewParser(r, opts)
	err := p.Parse()
	return &Result{Model: p.model, Diagnostics: p.diags}, err
}

// ParseString parses definitions held in memory.
func ParseString(src string, opts Options) (*Result, error) {
	return Parse(strings.NewReader(src), opts)
}

// ParseFile parses the definitions file at path.
func ParseFile(path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open definitions: %w", err)
	}
	defer func() { _ = f.Close() }()
	if opts.Source == "" {
		opts.Source = path
	}
	return Parse(f, opts)
}

// Parse compiles every declaration of the source.
func (p *Parser) Parse() error {
	for p.err == nil && !p.check(token.EOF) {
		switch p.token.Type {
		case token.UNIT:
			p.parseUnit()
		case token.SCALE:
			p.parseScale()
		default:
			p.unexpected("unit or scale")
			p.synchronize()
		}
	}
	if p.err == nil && p.lexer.Err() != nil {
		p.err = &LexError{Pos: p.token.Pos, Err: p.lexer.Err()}
	}
	return p.err
}

// Model returns the model being extended.
func (p *Parser) Model() *core.Model {
	return p.model
}

// Diagnostics returns the diagnostics produced so far.
func (p *Parser) Diagnostics() core.Diagnostics {
	return p.diags
}

// Comments returns the comments skipped so far.
func (p *Parser) Comments() []*token.Comment {
	return p.lexer.Comments
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.token = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise reports it.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.unexpected(t.String())
	return false
}

// synchronize skips to just past the next ';' or to the next declaration.
func (p *Parser) synchronize() {
	for {
		switch p.token.Type {
		case token.EOF, token.UNIT, token.SCALE:
			return
		case token.SEMICOLON:
			p.nextToken()
			return
		}
		p.nextToken()
	}
}

// ---------- Diagnostics ----------

func (p *Parser) unexpected(expected string) {
	p.errorAt(p.token, fmt.Sprintf(ErrUnexpectedToken, p.token.Text(), expected))
}

// errorAt reports an error near tok. Illegal tokens were already reported
// by the lexer.
func (p *Parser) errorAt(tok token.Token, msg string) {
	if tok.Type == token.ILLEGAL {
		return
	}
	p.report(core.SeverityError, tok.Pos, tok.Text(), msg)
}

func (p *Parser) warnAt(tok token.Token, msg string) {
	p.report(core.SeverityWarning, tok.Pos, tok.Text(), msg)
}

func (p *Parser) lexError(pos token.Position, text, msg string) {
	p.report(core.SeverityError, pos, text, msg)
}

func (p *Parser) report(sev core.Severity, pos token.Position, text, msg string) {
	d := core.Diagnostic{
		Severity: sev,
		Pos:      pos,
		Token:    text,
		Message:  msg,
		Source:   p.opts.Source,
	}
	p.diags = append(p.diags, d)
	if p.opts.Report != nil {
		p.opts.Report(d)
	}
}

// fail records a hard error at tok; parsing stops.
func (p *Parser) fail(tok token.Token, msg string, err error) {
	if p.err == nil {
		p.err = &ParseError{Pos: tok.Pos, Message: msg, Err: err}
	}
}
