// Package scanner implements the single-pass lexer. Unlike a typical
// whitespace-skipping scanner, Whitespace, Newline and Error are ordinary
// tokens returned to the caller; it is the compiler's token-consumption loop
// (lang/compiler) that decides what to do with them.
package scanner

import (
	gotoken "go/scanner"

	"github.com/wisplang/wisp/lang/token"
)

// Error and ErrorList are the standard library's scanner error types,
// reused unchanged as the compile-error sink.
type (
	Error     = gotoken.Error
	ErrorList = gotoken.ErrorList
)

// PrintError is the standard library's error-list printer.
var PrintError = gotoken.PrintError

// Scanner tokenizes a source buffer. The zero value is not usable; call
// Init first.
type Scanner struct {
	src     []byte
	start   int
	current int
	line    int
	errMsg  string
}

// Init prepares s to scan src from the beginning.
func (s *Scanner) Init(src []byte) {
	s.src = src
	s.start = 0
	s.current = 0
	s.line = 1
}

func (s *Scanner) atEnd() bool { return s.current >= len(s.src) }

func (s *Scanner) advance() byte {
	c := s.src[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.src) {
		return 0
	}
	return s.src[s.current+1]
}

func (s *Scanner) match(expected byte) bool {
	if s.atEnd() || s.src[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) makeToken(kind token.Kind) token.Token {
	return token.Token{Kind: kind, Start: s.start, Length: s.current - s.start, Line: s.line}
}

// Scan returns the next token. At end of source it returns token.EOF
// repeatedly.
func (s *Scanner) Scan() token.Token {
	s.start = s.current
	if s.atEnd() {
		return s.makeToken(token.EOF)
	}

	c := s.advance()

	switch {
	case isDigit(c):
		return s.number()
	case isAlpha(c):
		return s.identifier()
	}

	switch c {
	case '(':
		return s.makeToken(token.LEFT_PAREN)
	case ')':
		return s.makeToken(token.RIGHT_PAREN)
	case '{':
		return s.makeToken(token.LEFT_BRACE)
	case '}':
		return s.makeToken(token.RIGHT_BRACE)
	case ';':
		return s.makeToken(token.SEMICOLON)
	case ',':
		return s.makeToken(token.COMMA)
	case '.':
		return s.makeToken(token.DOT)
	case '-':
		return s.makeToken(token.MINUS)
	case '+':
		return s.makeToken(token.PLUS)
	case '*':
		return s.makeToken(token.STAR)
	case '!':
		if s.match('=') {
			return s.makeToken(token.BANG_EQUAL)
		}
		return s.makeToken(token.BANG)
	case '=':
		if s.match('=') {
			return s.makeToken(token.EQUAL_EQUAL)
		}
		return s.makeToken(token.EQUAL)
	case '<':
		if s.match('=') {
			return s.makeToken(token.LESS_EQUAL)
		}
		return s.makeToken(token.LESS)
	case '>':
		if s.match('=') {
			return s.makeToken(token.GREATER_EQUAL)
		}
		return s.makeToken(token.GREATER)
	case '/':
		if s.match('/') {
			for s.peek() != '\n' && !s.atEnd() {
				s.advance()
			}
			return s.makeToken(token.WHITESPACE)
		}
		return s.makeToken(token.SLASH)
	case ' ', '\r', '\t':
		return s.makeToken(token.WHITESPACE)
	case '\n':
		tok := s.makeToken(token.NEWLINE)
		s.line++
		return tok
	case '"':
		return s.string()
	}

	return s.errorToken("unexpected character")
}

func (s *Scanner) errorToken(msg string) token.Token {
	tok := s.makeToken(token.ERROR)
	s.errMsg = msg
	return tok
}

// ErrMsg returns the message associated with the most recently returned
// ERROR token.
func (s *Scanner) ErrMsg() string { return s.errMsg }

func (s *Scanner) string() token.Token {
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.atEnd() {
		return s.errorToken("unterminated string")
	}
	s.advance() // closing quote
	return s.makeToken(token.STRING)
}

func (s *Scanner) number() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	return s.makeToken(token.NUMBER)
}

func (s *Scanner) identifier() token.Token {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.advance()
	}
	text := string(s.src[s.start:s.current])
	if kind, ok := token.Keywords[text]; ok {
		return s.makeToken(kind)
	}
	return s.makeToken(token.IDENT)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
