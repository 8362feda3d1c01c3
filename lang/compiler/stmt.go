package compiler

import (
	"github.com/wisplang/wisp/lang/chunk"
	"github.com/wisplang/wisp/lang/token"
	"github.com/wisplang/wisp/lang/value"
)

func (c *compiler) declaration() {
	switch {
	case c.match(token.VAR):
		c.varDeclaration()
	case c.match(token.FUN):
		c.funDeclaration()
	default:
		c.statement()
	}
}

func (c *compiler) varDeclaration() {
	c.consume(token.IDENT, "expected variable name")
	name := c.previous

	if c.match(token.EQUAL) {
		c.expression()
	} else {
		c.chunk.Push(chunk.NilOp)
	}
	c.consume(token.SEMICOLON, "expected ';' after variable declaration")

	if c.scopeDepth > 0 {
		c.addLocal(name)
	} else {
		c.chunk.PushConstant(chunk.DefineGlobal, value.String(c.lexeme(name)))
	}
}

func (c *compiler) statement() {
	switch {
	case c.match(token.PRINT):
		c.printStatement()
	case c.match(token.LEFT_BRACE):
		c.beginScope()
		c.block()
		c.endScope()
	case c.match(token.IF):
		c.ifStatement()
	case c.match(token.WHILE):
		c.whileStatement()
	case c.match(token.FOR):
		c.forStatement()
	case c.match(token.RETURN):
		c.returnStatement()
	default:
		c.expressionStatement()
	}
}

// block parses declarations until the closing brace, which it consumes.
// The caller is responsible for begin/end-scoping around it.
func (c *compiler) block() {
	for !c.check(token.RIGHT_BRACE) && !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.RIGHT_BRACE, "expected '}' after block")
}

func (c *compiler) printStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "expected ';' after value")
	c.chunk.Push(chunk.Print)
}

func (c *compiler) expressionStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "expected ';' after expression")
	c.chunk.Push(chunk.Pop)
}

func (c *compiler) ifStatement() {
	c.consume(token.LEFT_PAREN, "expected '(' after 'if'")
	c.expression()
	c.consume(token.RIGHT_PAREN, "expected ')' after condition")

	thenJmp := c.pushJmp(chunk.JmpFalse)
	c.chunk.Push(chunk.Pop)
	c.statement()

	elseJmp := c.pushJmp(chunk.Jmp)
	c.patchAddress(thenJmp)
	c.chunk.Push(chunk.Pop)

	if c.match(token.ELSE) {
		c.statement()
	}
	c.patchAddress(elseJmp)
}

func (c *compiler) whileStatement() {
	loopStart := c.chunk.Size()
	c.consume(token.LEFT_PAREN, "expected '(' after 'while'")
	c.expression()
	c.consume(token.RIGHT_PAREN, "expected ')' after condition")

	exitJmp := c.pushJmp(chunk.JmpFalse)
	c.chunk.Push(chunk.Pop)
	c.statement()
	c.pushLoop(loopStart)

	c.patchAddress(exitJmp)
	c.chunk.Push(chunk.Pop)
}

func (c *compiler) forStatement() {
	c.beginScope()
	c.consume(token.LEFT_PAREN, "expected '(' after 'for'")

	switch {
	case c.match(token.SEMICOLON):
		// empty initializer
	case c.check(token.VAR):
		c.advance()
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := c.chunk.Size()

	exitJmp := -1
	if !c.check(token.SEMICOLON) {
		c.expression()
		exitJmp = c.pushJmp(chunk.JmpFalse)
		c.chunk.Push(chunk.Pop)
	}
	c.consume(token.SEMICOLON, "expected ';' after loop condition")

	if !c.check(token.RIGHT_PAREN) {
		bodyJmp := c.pushJmp(chunk.Jmp)
		stepStart := c.chunk.Size()
		c.expression()
		c.chunk.Push(chunk.Pop)

		c.pushLoop(loopStart)
		loopStart = stepStart
		c.patchAddress(bodyJmp)
	}
	c.consume(token.RIGHT_PAREN, "expected ')' after for clauses")

	c.statement()
	c.pushLoop(loopStart)

	if exitJmp != -1 {
		c.patchAddress(exitJmp)
		c.chunk.Push(chunk.Pop)
	}

	c.endScope()
}

// returnStatement emits the callee-cleanup Pops for every local declared
// within the function currently being compiled, derived from the invariant
// that at Return the callee's stack window must be empty: every local back
// to (and including) this function's own parameters — i.e. everything
// pushed since pushFuncFrame recorded this frame's base — must come off the
// stack before Return runs.
func (c *compiler) returnStatement() {
	if c.match(token.SEMICOLON) {
		c.chunk.Push(chunk.Return)
		return
	}

	c.expression()
	c.consume(token.SEMICOLON, "expected ';' after return value")
	c.chunk.Push(chunk.PopStoreTmp)

	base := c.curFuncFrame().base
	for i := len(c.locals) - 1; i >= base; i-- {
		c.chunk.Push(chunk.Pop)
	}

	c.chunk.Push(chunk.Return)
}

func (c *compiler) funDeclaration() {
	c.consume(token.IDENT, "expected function name")
	name := c.previous
	fnName := c.lexeme(name)

	address := c.chunk.Size() + 6

	c.beginScope()
	c.pushFuncFrame()

	c.consume(token.LEFT_PAREN, "expected '(' after function name")
	arity := 0
	if !c.check(token.RIGHT_PAREN) {
		for {
			c.consume(token.IDENT, "expected parameter name")
			c.addLocal(c.previous)
			arity++
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RIGHT_PAREN, "expected ')' after parameters")
	c.setFuncFrameArity(arity)

	c.chunk.PushConstant(chunk.Constant, &value.Function{Name: fnName, Address: address, Arity: arity})

	if c.scopeDepth-1 > 0 {
		c.addLocalAtDepth(name, c.scopeDepth-1, c.functionDepth)
	} else {
		c.chunk.PushConstant(chunk.DefineGlobal, value.String(fnName))
	}

	skip := c.pushJmp(chunk.Jmp)

	c.functionDepth++
	c.consume(token.LEFT_BRACE, "expected '{' before function body")
	c.chunk.Push(chunk.SetSP)
	c.block()
	c.endScope()
	c.chunk.Push(chunk.Return)
	c.functionDepth--

	c.patchAddress(skip)
	c.popFuncFrame()
}
