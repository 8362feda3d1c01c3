package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindStringCoverage(t *testing.T) {
	for k := ILLEGAL; k < maxKind; k++ {
		s := k.String()
		require.NotEmpty(t, s, "Kind(%d) has no name", int(k))
	}
}

func TestKindGoString(t *testing.T) {
	require.Equal(t, "'+'", PLUS.GoString())
	require.Equal(t, "'=='", EQUAL_EQUAL.GoString())
	require.Equal(t, "while", WHILE.GoString())
	require.Equal(t, "identifier", IDENT.GoString())
}

func TestKeywordsRoundTrip(t *testing.T) {
	for lexeme, kind := range Keywords {
		require.Equal(t, lexeme, kindNames[kind])
	}
}

func TestTokenLexeme(t *testing.T) {
	src := []byte(`var greeting = "hi";`)
	tok := Token{Kind: IDENT, Start: 4, Length: 8, Line: 1}
	require.Equal(t, "greeting", tok.Lexeme(src))
}
