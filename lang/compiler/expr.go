package compiler

import (
	"strconv"

	"github.com/wisplang/wisp/lang/chunk"
	"github.com/wisplang/wisp/lang/token"
	"github.com/wisplang/wisp/lang/value"
)

func (c *compiler) expression() {
	c.parsePrecedence(precAssignment)
}

// parsePrecedence implements the core Pratt loop: consume a prefix handler
// for the current token, then keep consuming infix handlers as long as
// their precedence is at least p.
func (c *compiler) parsePrecedence(p precedence) {
	c.advance()
	rule := getRule(c.previous.Kind)
	if rule.prefix == nil {
		c.errorAtPrevious("expected expression: not usable as prefix")
		return
	}

	canAssign := p <= precAssignment
	rule.prefix(c, canAssign)

	for {
		infixRule := getRule(c.current.Kind)
		if infixRule.prec < p {
			break
		}
		c.advance()
		infixRule.infix(c, canAssign)
	}

	if canAssign && c.check(token.EQUAL) {
		c.errorAtPrevious("invalid assignment target")
	}
}

func (c *compiler) grouping(bool) {
	c.expression()
	c.consume(token.RIGHT_PAREN, "expected ')' after expression")
}

func (c *compiler) unary(bool) {
	opKind := c.previous.Kind
	c.parsePrecedence(precUnary)
	switch opKind {
	case token.MINUS:
		c.chunk.Push(chunk.Negate)
	case token.BANG:
		c.chunk.Push(chunk.Not)
	}
}

func (c *compiler) binary(bool) {
	opKind := c.previous.Kind
	rule := getRule(opKind)
	c.parsePrecedence(rule.prec + 1)

	switch opKind {
	case token.PLUS:
		c.chunk.Push(chunk.Add)
	case token.MINUS:
		c.chunk.Push(chunk.Subtract)
	case token.STAR:
		c.chunk.Push(chunk.Multiply)
	case token.SLASH:
		c.chunk.Push(chunk.Divide)
	case token.EQUAL_EQUAL:
		c.chunk.Push(chunk.Equal)
	case token.BANG_EQUAL:
		c.chunk.Push(chunk.Equal)
		c.chunk.Push(chunk.Not)
	case token.GREATER:
		c.chunk.Push(chunk.Greater)
	case token.GREATER_EQUAL:
		c.chunk.Push(chunk.Less)
		c.chunk.Push(chunk.Not)
	case token.LESS:
		c.chunk.Push(chunk.Less)
	case token.LESS_EQUAL:
		c.chunk.Push(chunk.Greater)
		c.chunk.Push(chunk.Not)
	}
}

func (c *compiler) and(bool) {
	endJmp := c.pushJmp(chunk.JmpFalse)
	c.chunk.Push(chunk.Pop)
	c.parsePrecedence(precAnd)
	c.patchAddress(endJmp)
}

func (c *compiler) or(bool) {
	endJmp := c.pushJmp(chunk.JmpTrue)
	c.chunk.Push(chunk.Pop)
	c.parsePrecedence(precOr)
	c.patchAddress(endJmp)
}

func (c *compiler) number(bool) {
	lit := c.lexeme(c.previous)
	n, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		c.errorAtPrevious("invalid number literal " + lit)
		return
	}
	c.chunk.PushConstant(chunk.Constant, value.Number(n))
}

func (c *compiler) string(bool) {
	lit := c.lexeme(c.previous)
	// strip surrounding quotes
	content := lit[1 : len(lit)-1]
	c.chunk.PushConstant(chunk.Constant, value.String(content))
}

func (c *compiler) literal(bool) {
	switch c.previous.Kind {
	case token.NIL:
		c.chunk.Push(chunk.NilOp)
	case token.TRUE:
		c.chunk.Push(chunk.True)
	case token.FALSE:
		c.chunk.Push(chunk.False)
	}
}

// resolveLocal searches locals back-to-front for a matching lexeme, but
// never looks past the active function's own frame base: this language has
// no closures, so a nested function body must not resolve an enclosing
// function's (or the top level's) locals as if they were its own — doing
// so would compute a slot against the wrong frame's base/arity. The first
// match wins; its sp-relative slot is derived from the active function
// frame (see funcFrame).
func (c *compiler) resolveLocal(name token.Token) (slot int, ok bool) {
	nameLex := c.lexeme(name)
	frame := c.curFuncFrame()
	for i := len(c.locals) - 1; i >= frame.base; i-- {
		if c.lexeme(c.locals[i].name) == nameLex {
			return frame.arity - (i - frame.base), true
		}
	}
	return 0, false
}

func (c *compiler) namedVariable(canAssign bool) {
	name := c.previous
	slot, isLocal := c.resolveLocal(name)

	if canAssign && c.match(token.EQUAL) {
		// the right-hand side is parsed above assignment precedence, so a
		// chained `a = b = 1` is left for parsePrecedence to reject
		c.parsePrecedence(precOr)
		if isLocal {
			c.chunk.Push(chunk.SetLocal)
			c.chunk.PushRaw(uint16(int16(slot)))
		} else {
			c.chunk.PushConstant(chunk.SetGlobal, value.String(c.lexeme(name)))
		}
		return
	}

	if isLocal {
		c.chunk.Push(chunk.GetLocal)
		c.chunk.PushRaw(uint16(int16(slot)))
	} else {
		c.chunk.PushConstant(chunk.GetGlobal, value.String(c.lexeme(name)))
	}
}

// call compiles a call expression's argument list once the callee has
// already been parsed and left on the stack by the Pratt loop.
func (c *compiler) call(bool) {
	c.chunk.Push(chunk.PopStoreTmp)

	argc := 0
	if !c.check(token.RIGHT_PAREN) {
		for {
			c.expression()
			argc++
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RIGHT_PAREN, "expected ')' after arguments")

	c.chunk.Push(chunk.Call)
	c.chunk.PushRaw(uint16(argc))
}
