// Package compiler implements the single-pass Pratt-style bytecode
// compiler: it drives the scanner, parses expressions via a precedence
// table and statements via recursive descent, and emits directly into a
// chunk.Chunk without ever building an AST.
package compiler

import (
	gotoken "go/token"

	"github.com/wisplang/wisp/lang/chunk"
	"github.com/wisplang/wisp/lang/scanner"
	"github.com/wisplang/wisp/lang/token"
)

// local is the compile-time record of a local binding: the name token that
// introduced it, the lexical scope depth it was declared at, and the
// function-nesting depth active at that point.
type local struct {
	name      token.Token
	depth     int
	funcDepth int
}

// funcFrame tracks the sp anchor for the function currently being compiled:
// base is the index into compiler.locals where this function's own
// parameters start, and arity is its parameter count. Together they let
// resolveLocal turn a locals-slice index into the sp-relative slot the VM
// expects (GetLocal/SetLocal address stack[sp-slot], and sp is fixed at
// stack.len() when the function is entered, i.e. just above its last
// argument) — the first parameter gets slot=arity, the last gets slot=1,
// and each local declared after entry gets slot 0, -1, -2, ...
//
// Top-level code is treated as its own implicit frame (base=0, arity=0)
// anchored by a SetSP emitted once at the very start of the program.
type funcFrame struct {
	base  int
	arity int
}

// compiler holds all compile-time state for a single source file.
type compiler struct {
	src      []byte
	filename string

	scanner  scanner.Scanner
	current  token.Token
	previous token.Token

	chunk *chunk.Chunk

	locals        []local
	scopeDepth    int
	functionDepth int
	funcFrames    []funcFrame

	hasError bool
	errors   scanner.ErrorList
}

var errAbort = abortError{}

// abortError unwinds the recursive-descent statement parser on a fatal
// consume failure (missing ')' or ';', unexpected token, etc.), matching
// spec.md's "consume-failures are fatal" rule. It is recovered at the top
// of Compile.
type abortError struct{}

func (abortError) Error() string { return "compilation aborted" }

// Compile compiles src (from the named file, used only for error messages)
// into a Chunk. The returned error, if non-nil, is a scanner.ErrorList.
func Compile(src []byte, filename string) (result *chunk.Chunk, err error) {
	c := &compiler{src: src, filename: filename, chunk: &chunk.Chunk{}}
	c.scanner.Init(src)
	c.funcFrames = []funcFrame{{}}

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(abortError); !ok {
				panic(r)
			}
		}
		c.errors.Sort()
		err = c.errors.Err()
		if err == nil {
			result = c.chunk
		}
	}()

	c.advance()
	c.chunk.Push(chunk.SetSP)
	for c.current.Kind != token.EOF {
		c.declaration()
	}
	c.chunk.Push(chunk.Eof)

	return c.chunk, c.errors.Err()
}

// advance pulls the next significant token from the scanner. Whitespace is
// skipped, Newline triggers a line-table entry and is skipped, Error tokens
// are reported and skipped.
func (c *compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.scanner.Scan()
		switch c.current.Kind {
		case token.WHITESPACE:
			continue
		case token.NEWLINE:
			c.chunk.LineEnd()
			continue
		case token.ERROR:
			c.errorAtCurrent(c.scanner.ErrMsg())
			continue
		}
		return
	}
}

// consume advances past current if it has the expected kind; otherwise it
// reports an error and aborts compilation.
func (c *compiler) consume(kind token.Kind, msg string) {
	if c.current.Kind == kind {
		c.advance()
		return
	}
	c.errorAtCurrent(msg)
	panic(errAbort)
}

// check reports whether current has the given kind, without consuming it.
func (c *compiler) check(kind token.Kind) bool {
	return c.current.Kind == kind
}

// match consumes current and returns true if it has the given kind.
func (c *compiler) match(kind token.Kind) bool {
	if !c.check(kind) {
		return false
	}
	c.advance()
	return true
}

func (c *compiler) lexeme(tok token.Token) string {
	return tok.Lexeme(c.src)
}

func (c *compiler) errorAtCurrent(msg string) {
	c.errorAt(c.current, msg)
}

func (c *compiler) errorAtPrevious(msg string) {
	c.errorAt(c.previous, msg)
}

func (c *compiler) errorAt(tok token.Token, msg string) {
	c.hasError = true
	c.errors.Add(gotoken.Position{Filename: c.filename, Line: tok.Line}, msg)
}

// beginScope increments the lexical scope depth.
func (c *compiler) beginScope() {
	c.scopeDepth++
}

// endScope decrements the lexical scope depth and emits Pop for each local
// that belonged to the scope being exited, removing them from locals.
func (c *compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		c.chunk.Push(chunk.Pop)
		c.locals = c.locals[:len(c.locals)-1]
	}
}

// addLocal pushes name as a new local binding at the current scope and
// function depth.
func (c *compiler) addLocal(name token.Token) {
	c.locals = append(c.locals, local{name: name, depth: c.scopeDepth, funcDepth: c.functionDepth})
}

// addLocalAtDepth pushes name as a local binding at an explicit depth,
// used for a nested function's own name, which lives in the scope that
// contains the function declaration rather than the function's own param
// scope.
func (c *compiler) addLocalAtDepth(name token.Token, depth, funcDepth int) {
	c.locals = append(c.locals, local{name: name, depth: depth, funcDepth: funcDepth})
}

func (c *compiler) curFuncFrame() funcFrame {
	return c.funcFrames[len(c.funcFrames)-1]
}

func (c *compiler) pushFuncFrame() {
	c.funcFrames = append(c.funcFrames, funcFrame{base: len(c.locals)})
}

func (c *compiler) setFuncFrameArity(arity int) {
	c.funcFrames[len(c.funcFrames)-1].arity = arity
}

func (c *compiler) popFuncFrame() {
	c.funcFrames = c.funcFrames[:len(c.funcFrames)-1]
}
