package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func tokenKinds(t *testing.T, src string) []TokenKind {
	t.Helper()
	l := NewLexer("test.st", []byte(src))
	toks, err := l.Tokenize()
	require.NoError(t, err)
	kinds := make([]TokenKind, 0, len(toks))
	for _, tok := range toks {
		if tok.Kind == EOF {
			continue
		}
		kinds = append(kinds, tok.Kind)
	}
	return kinds
}

// P1: every '|' in a structural position (block params / temps delimiters)
// lexes as PIPE; every other '|' lexes as BINARY_SELECTOR.
func TestPipeDisambiguation(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []TokenKind
	}{
		{
			name: "binary or inside parens, no temps",
			src:  "[ :x | (a | b) ]",
			want: []TokenKind{LBRACKET, COLON_PARAM, PIPE, LPAREN, IDENTIFIER, BINARY_SELECTOR, IDENTIFIER, RPAREN, RBRACKET},
		},
		{
			name: "binary or after statements, no temps",
			src:  "[ :x | a | b ]",
			want: []TokenKind{LBRACKET, COLON_PARAM, PIPE, IDENTIFIER, BINARY_SELECTOR, IDENTIFIER, RBRACKET},
		},
		{
			name: "temps then binary or",
			src:  "[ | t | t := a | b ]",
			want: []TokenKind{LBRACKET, PIPE, IDENTIFIER, PIPE, IDENTIFIER, ASSIGN, IDENTIFIER, BINARY_SELECTOR, IDENTIFIER, RBRACKET},
		},
		{
			name: "empty temps list",
			src:  "[ || ^1 ]",
			want: []TokenKind{LBRACKET, PIPE, PIPE, RETURN, INTEGER, RBRACKET},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tokenKinds(t, tc.src))
		})
	}
}

func TestLexerStringEscape(t *testing.T) {
	l := NewLexer("t", []byte(`'it''s'`))
	toks, err := l.Tokenize()
	require.NoError(t, err)
	require.Equal(t, STRING, toks[0].Kind)
	require.Equal(t, "it's", toks[0].Value)
}

func TestLexerCharLiteral(t *testing.T) {
	l := NewLexer("t", []byte(`$] `))
	toks, err := l.Tokenize()
	require.NoError(t, err)
	require.Equal(t, CHAR, toks[0].Kind)
	require.Equal(t, ']', toks[0].Value)
}

// P6: BrD+ parses iff B in [2,36] and every digit < B.
func TestRadixInteger(t *testing.T) {
	l := NewLexer("t", []byte("16rFF"))
	toks, err := l.Tokenize()
	require.NoError(t, err)
	require.Equal(t, RADIX_INTEGER, toks[0].Kind)
	require.Equal(t, int64(255), toks[0].Value)
}

func TestRadixIntegerBadDigit(t *testing.T) {
	l := NewLexer("t", []byte("2r102"))
	_, err := l.Tokenize()
	require.Error(t, err)
}

func TestScaledDecimal(t *testing.T) {
	l := NewLexer("t", []byte("3.14s2"))
	toks, err := l.Tokenize()
	require.NoError(t, err)
	require.Equal(t, SCALED_DECIMAL, toks[0].Kind)
}

func TestSignAttachment(t *testing.T) {
	// A '-' immediately after an operand is a binary selector, not a sign.
	require.Equal(t, []TokenKind{INTEGER, BINARY_SELECTOR, INTEGER}, tokenKinds(t, "3-4"))
	// A leading '-' with no preceding operand is a sign.
	require.Equal(t, []TokenKind{INTEGER}, tokenKinds(t, "-4"))
}

func TestKeywordSymbol(t *testing.T) {
	l := NewLexer("t", []byte("#at:put:"))
	toks, err := l.Tokenize()
	require.NoError(t, err)
	require.Equal(t, SYMBOL, toks[0].Kind)
	require.Equal(t, "at:put:", toks[0].Value)
}

func TestHashParenAndBracket(t *testing.T) {
	require.Equal(t, []TokenKind{HASH_LPAREN, IDENTIFIER, RPAREN}, tokenKinds(t, "#(a)"))
	require.Equal(t, []TokenKind{HASH_LBRACKET, INTEGER, INTEGER, RBRACKET}, tokenKinds(t, "#[1 2]"))
}
