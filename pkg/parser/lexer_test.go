package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/uomc/pkg/token"
)

type lexIssue struct {
	pos  token.Position
	text string
	msg  string
}

func lexAll(t *testing.T, input string) ([]token.Token, []lexIssue, *Lexer) {
	t.Helper()
	var issues []lexIssue
	l := NewLexer(strings.NewReader(input), func(pos token.Position, text, msg string) {
		issues = append(issues, lexIssue{pos, text, msg})
	})
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, issues, l
		}
		require.Less(t, len(tokens), 1000, "lexer does not terminate")
	}
}

func tokenTypes(tokens []token.Token) []token.TokenType {
	types := make([]token.TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestLexerTokens(t *testing.T) {
	tokens, issues, _ := lexAll(t, `unit<decimal> Meter "m" : "%v %s" = <Length> | 100 * Metrology.Centimeter ^ (1 / 2.5) - 3 + 4;`)
	require.Empty(t, issues)

	assert.Equal(t, []token.TokenType{
		token.UNIT, token.LT, token.IDENT, token.GT, token.IDENT, token.STRING,
		token.COLON, token.STRING, token.EQ, token.LT, token.IDENT, token.GT,
		token.PIPE, token.INT, token.STAR, token.IDENT, token.CARET, token.LPAREN,
		token.INT, token.SLASH, token.REAL, token.RPAREN, token.MINUS, token.INT,
		token.PLUS, token.INT, token.SEMICOLON, token.EOF,
	}, tokenTypes(tokens))
	assert.Equal(t, "Metrology.Centimeter", tokens[15].Literal)
	assert.Equal(t, "m", tokens[5].Literal)
	assert.Equal(t, `"m"`, tokens[5].Raw)
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  token.TokenType
	}{
		{"100", token.INT},
		{"0.3048", token.REAL},
		{".5", token.REAL},
		{"1e-3", token.REAL},
		{"1.5E+2", token.REAL},
		{"6e23", token.REAL},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			require.Len(t, tokens, 2)
			assert.Equal(t, tt.want, tokens[0].Type)
			assert.Equal(t, tt.input, tokens[0].Literal)
		})
	}
}

func TestLexerIdentifiers(t *testing.T) {
	tokens := Tokenize("Meter_2 @Sec Metrology.SI.Meter unit scale units")
	assert.Equal(t, []token.TokenType{
		token.IDENT, token.IDENT, token.IDENT, token.UNIT, token.SCALE, token.IDENT, token.EOF,
	}, tokenTypes(tokens))
	assert.Equal(t, "Metrology.SI.Meter", tokens[2].Literal)
	assert.Equal(t, "@Sec", tokens[1].Literal)
}

func TestLexerAtIdentifiers(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"@", []string{"@"}},
		{"@Sec", []string{"@Sec"}},
		{"@a1 b", []string{"@a1", "b"}},
		{"Metrology.@X", []string{"Metrology.@X"}},
		{"@NS.@Meter_2", []string{"@NS.@Meter_2"}},
		{"A.5", []string{"A"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var idents []string
			for _, tok := range Tokenize(tt.input) {
				if tok.Type == token.IDENT {
					idents = append(idents, tok.Literal)
				}
			}
			assert.Equal(t, tt.want, idents)
		})
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"m"`, "m"},
		{`"a\"b"`, `a"b`},
		{`"\\ \' \t \n"`, "\\ ' \t \n"},
		{`"°C"`, "°C"},
		{`"\0"`, "\x00"},
		{`""`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, issues, _ := lexAll(t, tt.input)
			require.Empty(t, issues)
			require.Equal(t, token.STRING, tokens[0].Type)
			assert.Equal(t, tt.want, tokens[0].Literal)
			assert.Equal(t, tt.input, tokens[0].Raw)
		})
	}
}

func TestLexerNormalizesInput(t *testing.T) {
	// U+2126 OHM SIGN is canonically equivalent to U+03A9.
	tokens := Tokenize("\"\u2126\"")
	require.Equal(t, token.STRING, tokens[0].Type)
	assert.Equal(t, "\u03a9", tokens[0].Literal)

	// e followed by a combining acute accent composes to a single rune.
	tokens = Tokenize("\"e\u0301\"")
	assert.Equal(t, "\u00e9", tokens[0].Literal)
}

func TestLexerComments(t *testing.T) {
	tokens, issues, l := lexAll(t, "// units\nunit /* base */ Meter\n")
	require.Empty(t, issues)
	assert.Equal(t, []token.TokenType{token.UNIT, token.IDENT, token.EOF}, tokenTypes(tokens))
	require.Len(t, l.Comments, 2)
	assert.True(t, l.Comments[0].IsLineComment())
	assert.Equal(t, "// units", l.Comments[0].Text)
	assert.True(t, l.Comments[1].IsBlockComment())
	assert.Equal(t, "/* base */", l.Comments[1].Text)
	assert.Equal(t, 2, l.Comments[1].Span.Start.Line)
	assert.Equal(t, 6, l.Comments[1].Span.Start.Column)
}

func TestLexerPositions(t *testing.T) {
	tokens := Tokenize("unit Meter\n  \"m\" = <Length>;")
	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, tokens[0].Pos)
	assert.Equal(t, token.Position{Line: 1, Column: 6, Offset: 5}, tokens[1].Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 3, Offset: 13}, tokens[2].Pos)
	assert.Equal(t, 2, tokens[3].Pos.Line)
	assert.Equal(t, 7, tokens[3].Pos.Column)
}

func TestLexerColumnsCountRunes(t *testing.T) {
	tokens := Tokenize(`"°C" x`)
	require.Len(t, tokens, 3)
	assert.Equal(t, 6, tokens[1].Pos.Column)
	assert.Equal(t, 6, tokens[1].Pos.Offset)
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
		text  string
	}{
		{"unexpected character", "#", "unexpected character", "#"},
		{"bad escape", `"a\qb"`, "invalid escape sequence", `\q`},
		{"bad unicode escape", `"\u12G4"`, "invalid escape sequence", `\u12`},
		{"unterminated string", "\"abc\nunit", "unterminated string literal", `"abc`},
		{"control character", "\"a\x01b\"", "control character", `"a`},
		{"unterminated comment", "/* abc", "unterminated block comment", "/*"},
		{"missing exponent", "1e+", "missing exponent digits", "1e+"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, issues, _ := lexAll(t, tt.input)
			require.Len(t, issues, 1)
			assert.Contains(t, issues[0].msg, tt.msg)
			assert.Equal(t, tt.text, issues[0].text)
			assert.Equal(t, 1, issues[0].pos.Line)
			if tt.name != "unterminated comment" {
				assert.Equal(t, token.ILLEGAL, tokens[0].Type)
			}
		})
	}
}

func TestLexerStopsAfterUnterminatedString(t *testing.T) {
	tokens, _, _ := lexAll(t, "\"abc\nunit")
	assert.Equal(t, []token.TokenType{token.ILLEGAL, token.UNIT, token.EOF}, tokenTypes(tokens))
}

type failingReader struct {
	data string
	done bool
}

var errDisk = errors.New("disk on fire")

func (r *failingReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, errDisk
	}
	r.done = true
	return copy(p, r.data), nil
}

func TestLexerReadError(t *testing.T) {
	tokens, _, l := lexAll(t, "")
	assert.Equal(t, token.EOF, tokens[0].Type)
	assert.NoError(t, l.Err())

	l = NewLexer(&failingReader{data: "unit "}, nil)
	for tok := l.NextToken(); tok.Type != token.EOF; tok = l.NextToken() {
		assert.NotEqual(t, token.ILLEGAL, tok.Type)
	}
	assert.ErrorIs(t, l.Err(), errDisk)
}
