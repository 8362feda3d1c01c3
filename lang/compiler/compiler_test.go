package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wisplang/wisp/lang/chunk"
)

func mustCompile(t *testing.T, src string) *chunk.Chunk {
	t.Helper()
	c, err := Compile([]byte(src), "test.wisp")
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}

func opcodesOf(c *chunk.Chunk) []chunk.Opcode {
	var ops []chunk.Opcode
	ip := 0
	for ip < len(c.Code) {
		op, err := chunk.OpcodeFromWord(c.Code[ip])
		if err != nil {
			ip++
			continue
		}
		ops = append(ops, op)
		ip += 1 + op.OperandWords()
	}
	return ops
}

func TestCompileArithmeticPrecedence(t *testing.T) {
	c := mustCompile(t, "print 1 + 2 * 3;")
	require.Equal(t, []chunk.Opcode{
		chunk.SetSP,
		chunk.Constant, chunk.Constant, chunk.Constant,
		chunk.Multiply, chunk.Add, chunk.Print,
		chunk.Eof,
	}, opcodesOf(c))
}

func TestCompileGlobalVarDeclarationAndAssignment(t *testing.T) {
	c := mustCompile(t, "var x = 1; x = 2;")
	ops := opcodesOf(c)
	require.Contains(t, ops, chunk.DefineGlobal)
	require.Contains(t, ops, chunk.SetGlobal)
}

func TestCompileConstantDeduplication(t *testing.T) {
	c := mustCompile(t, `print "hi"; print "hi";`)
	count := 0
	for _, v := range c.Constants {
		if v.String() == "hi" {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestCompileIfElseEmitsJumps(t *testing.T) {
	c := mustCompile(t, `if (true) { print 1; } else { print 2; }`)
	ops := opcodesOf(c)
	require.Contains(t, ops, chunk.JmpFalse)
	require.Contains(t, ops, chunk.Jmp)
}

func TestCompileWhileEmitsLoop(t *testing.T) {
	c := mustCompile(t, `while (true) { print 1; }`)
	ops := opcodesOf(c)
	require.Contains(t, ops, chunk.Loop)
	require.Contains(t, ops, chunk.JmpFalse)
}

func TestCompileForDesugarsToLoop(t *testing.T) {
	c := mustCompile(t, `for (var i = 0; i < 3; i = i + 1) { print i; }`)
	ops := opcodesOf(c)
	require.Contains(t, ops, chunk.Loop)
	require.Contains(t, ops, chunk.GetLocal)
	require.Contains(t, ops, chunk.SetLocal)
}

func TestCompileFunctionDeclarationSkipsBodyAtTopLevel(t *testing.T) {
	c := mustCompile(t, `
function add(a, b) {
  return a + b;
}
print add(1, 2);
`)
	ops := opcodesOf(c)
	require.Contains(t, ops, chunk.Jmp)
	require.Contains(t, ops, chunk.Call)
	require.Contains(t, ops, chunk.Return)

	found := false
	for _, v := range c.Constants {
		if v.Type() == "function" {
			found = true
		}
	}
	require.True(t, found, "expected a function constant in the pool")
}

func TestCompileLocalVariableUsesLocalOpcodes(t *testing.T) {
	c := mustCompile(t, `{ var a = 1; var b = 2; print a + b; }`)
	ops := opcodesOf(c)
	require.Contains(t, ops, chunk.GetLocal)
	require.NotContains(t, ops, chunk.GetGlobal)
}

func TestCompileMissingSemicolonIsError(t *testing.T) {
	_, err := Compile([]byte("print 1"), "test.wisp")
	require.Error(t, err)
}

func TestCompileInvalidAssignmentTargetIsError(t *testing.T) {
	_, err := Compile([]byte("1 + 2 = 3;"), "test.wisp")
	require.Error(t, err)
}

func TestCompileUnterminatedStringIsError(t *testing.T) {
	_, err := Compile([]byte(`print "oops;`), "test.wisp")
	require.Error(t, err)
}

func TestCompileShortCircuitAndOr(t *testing.T) {
	c := mustCompile(t, `print true and false or true;`)
	ops := opcodesOf(c)
	require.Contains(t, ops, chunk.JmpFalse)
	require.Contains(t, ops, chunk.JmpTrue)
}
