package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wisplang/wisp/lang/token"
)

func scanAll(src string) []token.Token {
	var s Scanner
	s.Init([]byte(src))
	var toks []token.Token
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks := scanAll("(){};,.+-*!= <= >= == < > /")
	require.Equal(t, []token.Kind{
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.SEMICOLON, token.COMMA, token.DOT, token.PLUS, token.MINUS, token.STAR,
		token.BANG_EQUAL, token.WHITESPACE, token.LESS_EQUAL, token.WHITESPACE,
		token.GREATER_EQUAL, token.WHITESPACE, token.EQUAL_EQUAL, token.WHITESPACE,
		token.LESS, token.WHITESPACE, token.GREATER, token.WHITESPACE, token.SLASH,
		token.EOF,
	}, kinds(toks))
}

func TestScanComment(t *testing.T) {
	toks := scanAll("// a comment\nprint")
	require.Equal(t, []token.Kind{token.WHITESPACE, token.NEWLINE, token.PRINT, token.EOF}, kinds(toks))
}

func TestScanNumber(t *testing.T) {
	toks := scanAll("123 4.5 6.")
	require.Equal(t, token.NUMBER, toks[0].Kind)
	require.Equal(t, "123", toks[0].Lexeme([]byte("123 4.5 6.")))
	require.Equal(t, token.NUMBER, toks[2].Kind)
	require.Equal(t, "4.5", toks[2].Lexeme([]byte("123 4.5 6.")))
	// trailing bare dot is not consumed: "6" then "."
	require.Equal(t, token.NUMBER, toks[4].Kind)
	require.Equal(t, token.DOT, toks[5].Kind)
}

func TestScanIdentifiersAndKeywords(t *testing.T) {
	toks := scanAll("var x = foo_bar; while")
	require.Equal(t, []token.Kind{
		token.VAR, token.WHITESPACE, token.IDENT, token.WHITESPACE, token.EQUAL,
		token.WHITESPACE, token.IDENT, token.SEMICOLON, token.WHITESPACE, token.WHILE,
		token.EOF,
	}, kinds(toks))
}

func TestScanString(t *testing.T) {
	toks := scanAll(`"hello world"`)
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, `"hello world"`, toks[0].Lexeme([]byte(`"hello world"`)))
}

func TestScanUnterminatedString(t *testing.T) {
	var s Scanner
	s.Init([]byte(`"oops`))
	tok := s.Scan()
	require.Equal(t, token.ERROR, tok.Kind)
	require.Equal(t, "unterminated string", s.ErrMsg())
}

func TestScanUnexpectedCharacter(t *testing.T) {
	var s Scanner
	s.Init([]byte("@"))
	tok := s.Scan()
	require.Equal(t, token.ERROR, tok.Kind)
	require.Equal(t, "unexpected character", s.ErrMsg())
}

func TestScanEofIsRepeatable(t *testing.T) {
	var s Scanner
	s.Init([]byte(""))
	require.Equal(t, token.EOF, s.Scan().Kind)
	require.Equal(t, token.EOF, s.Scan().Kind)
}

func TestScanTracksLines(t *testing.T) {
	toks := scanAll("var a = 1;\nvar b = 2;")
	// find the second "var" token and check its line
	count := 0
	for _, tk := range toks {
		if tk.Kind == token.VAR {
			count++
			if count == 2 {
				require.Equal(t, 2, tk.Line)
			}
		}
	}
	require.Equal(t, 2, count)
}
