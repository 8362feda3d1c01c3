package compiler

import "github.com/wisplang/wisp/lang/token"

// precedence orders binding strength for the Pratt parser, lowest first.
type precedence int

const (
	precNone precedence = iota
	precAssignment
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

type (
	prefixFn func(c *compiler, canAssign bool)
	infixFn  func(c *compiler, canAssign bool)
)

type parseRule struct {
	prefix prefixFn
	infix  infixFn
	prec   precedence
}

var rules map[token.Kind]parseRule

func init() {
	rules = map[token.Kind]parseRule{
		token.LEFT_PAREN:    {prefix: (*compiler).grouping, infix: (*compiler).call, prec: precCall},
		token.MINUS:         {prefix: (*compiler).unary, infix: (*compiler).binary, prec: precTerm},
		token.PLUS:          {infix: (*compiler).binary, prec: precTerm},
		token.SLASH:         {infix: (*compiler).binary, prec: precFactor},
		token.STAR:          {infix: (*compiler).binary, prec: precFactor},
		token.BANG:          {prefix: (*compiler).unary},
		token.BANG_EQUAL:    {infix: (*compiler).binary, prec: precEquality},
		token.EQUAL_EQUAL:   {infix: (*compiler).binary, prec: precEquality},
		token.GREATER:       {infix: (*compiler).binary, prec: precComparison},
		token.GREATER_EQUAL: {infix: (*compiler).binary, prec: precComparison},
		token.LESS:          {infix: (*compiler).binary, prec: precComparison},
		token.LESS_EQUAL:    {infix: (*compiler).binary, prec: precComparison},
		token.IDENT:         {prefix: (*compiler).namedVariable},
		token.NUMBER:        {prefix: (*compiler).number},
		token.STRING:        {prefix: (*compiler).string},
		token.AND:           {infix: (*compiler).and, prec: precAnd},
		token.OR:            {infix: (*compiler).or, prec: precOr},
		token.FALSE:         {prefix: (*compiler).literal},
		token.TRUE:          {prefix: (*compiler).literal},
		token.NIL:           {prefix: (*compiler).literal},
	}
}

func getRule(kind token.Kind) parseRule {
	return rules[kind]
}
