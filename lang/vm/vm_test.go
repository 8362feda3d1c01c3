package vm_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wisplang/wisp/lang/compiler"
	"github.com/wisplang/wisp/lang/vm"
)

func runProgram(t *testing.T, src string) string {
	t.Helper()
	c, err := compiler.Compile([]byte(src), "test.wisp")
	require.NoError(t, err)

	var out bytes.Buffer
	machine := &vm.VM{Stdout: &out, MaxSteps: 100000}
	err = machine.Run(context.Background(), c)
	require.NoError(t, err)
	return out.String()
}

func TestArithmeticPrecedence(t *testing.T) {
	require.Equal(t, "7\n", runProgram(t, "print 1 + 2 * 3;"))
}

func TestStringConcatenation(t *testing.T) {
	require.Equal(t, "foobar\n", runProgram(t, `var a = "foo"; var b = "bar"; print a + b;`))
}

func TestWhileLoop(t *testing.T) {
	require.Equal(t, "0\n1\n2\n", runProgram(t, `var x = 0; while (x < 3) { print x; x = x + 1; }`))
}

func TestFunctionCall(t *testing.T) {
	require.Equal(t, "7\n", runProgram(t, `function add(a,b) { return a + b; } print add(2,5);`))
}

func TestForLoop(t *testing.T) {
	require.Equal(t, "0\n1\n2\n", runProgram(t, `var i; for (i = 0; i < 3; i = i + 1) { print i; }`))
}

func TestShortCircuitAndInIfCondition(t *testing.T) {
	require.Equal(t, "f\n", runProgram(t, `if (true and false) print "t"; else print "f";`))
}

func TestShortCircuitAndDoesNotEvaluateRHS(t *testing.T) {
	require.Equal(t, "", runProgram(t, `false and unreachable;`))
}

func TestShortCircuitOrDoesNotEvaluateRHS(t *testing.T) {
	require.Equal(t, "", runProgram(t, `true or unreachable;`))
}

func TestCommentToEndOfLineIsIgnored(t *testing.T) {
	require.Equal(t, "1\n", runProgram(t, "print 1; // this is a comment\n"))
}

func TestNotOperator(t *testing.T) {
	require.Equal(t, "true\nfalse\ntrue\n", runProgram(t, `print !false; print !true; print !nil;`))
}

func TestGlobalSetBeforeDefineIsRuntimeError(t *testing.T) {
	c, err := compiler.Compile([]byte("x = 1;"), "test.wisp")
	require.NoError(t, err)

	var out bytes.Buffer
	machine := &vm.VM{Stdout: &out}
	err = machine.Run(context.Background(), c)
	require.Error(t, err)
}

func TestRecursiveFunctionViaGlobal(t *testing.T) {
	src := `
function fact(n) {
  if (n <= 1) return 1;
  return n * fact(n - 1);
}
print fact(5);
`
	require.Equal(t, "120\n", runProgram(t, src))
}

func TestInfiniteForWithReturnEscape(t *testing.T) {
	src := `
function run() {
  var i = 0;
  for (;;) {
    if (i >= 3) return i;
    print i;
    i = i + 1;
  }
}
print run();
`
	require.Equal(t, "0\n1\n2\n3\n", runProgram(t, src))
}

func TestStepBudgetCancelsRunawayLoop(t *testing.T) {
	c, err := compiler.Compile([]byte("while (true) { print 1; }"), "test.wisp")
	require.NoError(t, err)

	var out bytes.Buffer
	machine := &vm.VM{Stdout: &out, MaxSteps: 50}
	err = machine.Run(context.Background(), c)
	require.Error(t, err)
}
