package chunk

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wisplang/wisp/lang/value"
)

func TestPushConstantDeduplicates(t *testing.T) {
	var c Chunk
	c.PushConstant(Constant, value.Number(1))
	c.PushConstant(Constant, value.Number(2))
	c.PushConstant(Constant, value.Number(1))

	require.Len(t, c.Constants, 2, "constants must contain no two structurally equal entries")
	require.Equal(t, []uint16{uint16(Constant), 0, uint16(Constant), 1, uint16(Constant), 0}, c.Code)
}

func TestReplaceAtPatchesPlaceholder(t *testing.T) {
	var c Chunk
	c.Push(Jmp)
	off := c.Size()
	c.PushRaw(uint16(Panic))
	c.Push(Pop)

	c.ReplaceAt(off, uint16(c.Size()-off-1))

	word, err := c.ReadAt(off)
	require.NoError(t, err)
	require.Equal(t, uint16(1), word)
}

func TestReadAtOutOfRange(t *testing.T) {
	var c Chunk
	c.Push(Eof)
	_, err := c.ReadAt(5)
	require.Error(t, err)
}

func TestLineEndIgnoredBeforeFirstInstruction(t *testing.T) {
	var c Chunk
	c.LineEnd() // no instructions yet: silently ignored
	require.Empty(t, c.Lines)

	c.Push(Pop)
	c.LineEnd()
	require.Equal(t, []int{0}, c.Lines)
}

func TestLine(t *testing.T) {
	var c Chunk
	c.Push(Pop) // offset 0
	c.LineEnd() // Lines = [0]
	c.Push(Pop) // offset 1
	c.Push(Pop) // offset 2

	// Line counts the entries <= p; the single entry 0 is <= every offset.
	require.Equal(t, 1, c.Line(0))
	require.Equal(t, 1, c.Line(1))
	require.Equal(t, 1, c.Line(2))
}

func TestOpcodeFromWordRejectsUnknown(t *testing.T) {
	_, err := OpcodeFromWord(uint16(maxOpcode) + 50)
	require.Error(t, err)

	op, err := OpcodeFromWord(uint16(Add))
	require.NoError(t, err)
	require.Equal(t, Add, op)
}

func TestDisassembleJumpShowsTarget(t *testing.T) {
	var c Chunk
	c.Push(JmpFalse)
	off := c.Size()
	c.PushRaw(uint16(Panic))
	c.Push(Pop)
	c.ReplaceAt(off, uint16(c.Size()-off-1))
	c.Push(Eof)

	out := Disassemble(&c, "test")
	require.Contains(t, out, "-> 3")
}
