package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/leapstack-labs/uomc/pkg/token"
)

const eof = -1

// ErrorFunc receives lexical errors: the position and source text of the
// offending token and a message.
type ErrorFunc func(pos token.Position, text, msg string)

// Lexer tokenizes unit definitions read from an io.Reader.
// The input is normalized to NFC before it is tokenized.
type Lexer struct {
	r        *bufio.Reader
	ch       rune // current char under examination, eof at end of input
	size     int  // byte size of ch
	peek     rune // next char
	peekSize int
	line     int // current line number (1-based)
	col      int // current column number (1-based, in runes)
	offset   int // byte offset of ch
	err      error

	onError ErrorFunc

	// Comments collected during lexing
	Comments []*token.Comment
}

// NewLexer creates a new Lexer reading from r. Lexical errors are passed
// to onError, which may be nil.
func NewLexer(r io.Reader, onError ErrorFunc) *Lexer {
	l := &Lexer{
		r:       bufio.NewReader(norm.NFC.Reader(r)),
		line:    1,
		onError: onError,
	}
	l.peek, l.peekSize = l.readRune()
	l.readChar()
	return l
}

// Err returns the first error of the underlying reader, if any.
func (l *Lexer) Err() error {
	return l.err
}

func (l *Lexer) readRune() (rune, int) {
	if l.err != nil {
		return eof, 0
	}
	ch, size, err := l.r.ReadRune()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			l.err = err
		}
		return eof, 0
	}
	return ch, size
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.ch == eof {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.offset += l.size
	l.ch, l.size = l.peek, l.peekSize
	if l.ch != eof {
		l.peek, l.peekSize = l.readRune()
	}
}

// currentPos returns the position of the current character.
func (l *Lexer) currentPos() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.offset}
}

func (l *Lexer) errorf(pos token.Position, text, format string, args ...any) {
	if l.onError != nil {
		l.onError(pos, text, fmt.Sprintf(format, args...))
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()
	var tt token.TokenType

	switch l.ch {
	case eof:
		return token.Token{Type: token.EOF, Pos: pos}
	case '+':
		tt = token.PLUS
	case '-':
		tt = token.MINUS
	case '*':
		tt = token.STAR
	case '/':
		tt = token.SLASH
	case '^':
		tt = token.CARET
	case '=':
		tt = token.EQ
	case '<':
		tt = token.LT
	case '>':
		tt = token.GT
	case '|':
		tt = token.PIPE
	case '(':
		tt = token.LPAREN
	case ')':
		tt = token.RPAREN
	case ':':
		tt = token.COLON
	case ';':
		tt = token.SEMICOLON
	case '"':
		return l.readString(pos)
	default:
		switch {
		case isIdentStart(l.ch):
			lit := l.readIdentifier()
			return token.Token{Type: token.LookupIdent(lit), Literal: lit, Pos: pos}
		case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peek)):
			return l.readNumber(pos)
		default:
			text := string(l.ch)
			l.readChar()
			l.errorf(pos, text, "unexpected character %q", text)
			return token.Token{Type: token.ILLEGAL, Literal: text, Pos: pos}
		}
	}

	lit := string(l.ch)
	l.readChar()
	return token.Token{Type: tt, Literal: lit, Pos: pos}
}

// skipWhitespaceAndComments skips whitespace and collects comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' || l.ch == '\v' {
			l.readChar()
		}

		if l.ch == '/' && l.peek == '/' {
			l.collectLineComment()
			continue
		}

		if l.ch == '/' && l.peek == '*' {
			l.collectBlockComment()
			continue
		}

		break
	}
}

// collectLineComment collects a line comment.
func (l *Lexer) collectLineComment() {
	start := l.currentPos()
	var text strings.Builder
	for l.ch != '\n' && l.ch != eof {
		text.WriteRune(l.ch)
		l.readChar()
	}
	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.LineComment,
		Text: text.String(),
		Span: token.Span{Start: start, End: l.currentPos()},
	})
}

// collectBlockComment collects a block comment.
func (l *Lexer) collectBlockComment() {
	start := l.currentPos()
	var text strings.Builder
	text.WriteString("/*")
	l.readChar() // skip '/'
	l.readChar() // skip '*'

	closed := false
	for l.ch != eof {
		if l.ch == '*' && l.peek == '/' {
			text.WriteString("*/")
			l.readChar()
			l.readChar()
			closed = true
			break
		}
		text.WriteRune(l.ch)
		l.readChar()
	}
	if !closed {
		l.errorf(start, "/*", "unterminated block comment")
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.BlockComment,
		Text: text.String(),
		Span: token.Span{Start: start, End: l.currentPos()},
	})
}

// readIdentifier reads a possibly qualified identifier: Metrology.Meter.
func (l *Lexer) readIdentifier() string {
	var sb strings.Builder
	for {
		// first character of each segment may be '@'
		sb.WriteRune(l.ch)
		l.readChar()
		for isIdentPart(l.ch) {
			sb.WriteRune(l.ch)
			l.readChar()
		}
		if l.ch != '.' || !isIdentStart(l.peek) {
			return sb.String()
		}
		sb.WriteRune('.')
		l.readChar()
	}
}

// readNumber reads an INT or REAL literal.
func (l *Lexer) readNumber(pos token.Position) token.Token {
	var sb strings.Builder
	tt := token.INT

	for isDigit(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peek) {
		tt = token.REAL
		sb.WriteRune('.')
		l.readChar()
		for isDigit(l.ch) {
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		tt = token.REAL
		sb.WriteRune(l.ch)
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			sb.WriteRune(l.ch)
			l.readChar()
		}
		if !isDigit(l.ch) {
			text := sb.String()
			l.errorf(pos, text, "missing exponent digits in %q", text)
			return token.Token{Type: token.ILLEGAL, Literal: text, Pos: pos}
		}
		for isDigit(l.ch) {
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}

	return token.Token{Type: tt, Literal: sb.String(), Pos: pos}
}

// readString reads a double-quoted string literal. Literal holds the
// decoded text, Raw the source text.
func (l *Lexer) readString(pos token.Position) token.Token {
	var raw, lit strings.Builder
	raw.WriteRune(l.ch)
	l.readChar() // skip opening quote

	bad := false
	for {
		switch {
		case l.ch == eof || l.ch == '\n':
			l.errorf(pos, raw.String(), "unterminated string literal")
			return token.Token{Type: token.ILLEGAL, Literal: lit.String(), Raw: raw.String(), Pos: pos}
		case l.ch == '"':
			raw.WriteRune(l.ch)
			l.readChar()
			tt := token.STRING
			if bad {
				tt = token.ILLEGAL
			}
			return token.Token{Type: tt, Literal: lit.String(), Raw: raw.String(), Pos: pos}
		case l.ch == '\\':
			escPos := l.currentPos()
			raw.WriteRune(l.ch)
			l.readChar()
			r, text, ok := l.readEscape()
			raw.WriteString(text)
			if !ok {
				if !bad && text != "" {
					l.errorf(escPos, `\`+text, "invalid escape sequence %q", `\`+text)
				}
				bad = true
				continue
			}
			lit.WriteRune(r)
		case l.ch < 0x20 || l.ch == 0x7f:
			if !bad {
				l.errorf(l.currentPos(), raw.String(), "control character %U in string literal", l.ch)
			}
			bad = true
			l.readChar()
		default:
			raw.WriteRune(l.ch)
			lit.WriteRune(l.ch)
			l.readChar()
		}
	}
}

var simpleEscapes = map[rune]rune{
	'\\': '\\',
	'"':  '"',
	'\'': '\'',
	'0':  0,
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
}

// readEscape decodes the escape after a backslash and returns the rune, the
// consumed source text and whether the escape is valid.
func (l *Lexer) readEscape() (rune, string, bool) {
	if r, ok := simpleEscapes[l.ch]; ok {
		text := string(l.ch)
		l.readChar()
		return r, text, true
	}
	if l.ch != 'u' {
		if l.ch == eof || l.ch == '\n' {
			return 0, "", false
		}
		text := string(l.ch)
		l.readChar()
		return 0, text, false
	}

	var sb strings.Builder
	sb.WriteRune('u')
	l.readChar()
	var v rune
	for range 4 {
		d, ok := hexValue(l.ch)
		if !ok {
			return 0, sb.String(), false
		}
		sb.WriteRune(l.ch)
		v = v<<4 | d
		l.readChar()
	}
	if !utf8.ValidRune(v) {
		return 0, sb.String(), false
	}
	return v, sb.String(), true
}

func hexValue(ch rune) (rune, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return ch - '0', true
	case ch >= 'a' && ch <= 'f':
		return ch - 'a' + 10, true
	case ch >= 'A' && ch <= 'F':
		return ch - 'A' + 10, true
	default:
		return 0, false
	}
}

func isIdentStart(ch rune) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_' || ch == '@'
}

func isIdentPart(ch rune) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_' || isDigit(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens of input up to and including EOF.
func Tokenize(input string) []token.Token {
	l := NewLexer(strings.NewReader(input), nil)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}
