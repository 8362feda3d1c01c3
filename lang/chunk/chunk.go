// Package chunk implements the compiled bytecode container: an append-only
// code stream, a deduplicated constant pool, and a line table mapping code
// offsets back to source lines.
package chunk

import (
	"fmt"
	"strings"

	"github.com/wisplang/wisp/lang/value"
)

// Chunk holds one compiled unit: instructions, constants and line info.
type Chunk struct {
	Code      []uint16
	Constants []value.Value
	Lines     []int
}

// Push appends an opcode word.
func (c *Chunk) Push(op Opcode) {
	c.Code = append(c.Code, uint16(op))
}

// PushRaw appends a raw operand word.
func (c *Chunk) PushRaw(w uint16) {
	c.Code = append(c.Code, w)
}

// PushConstant finds v in the constant pool by structural equality,
// appending it only if no existing entry matches, then appends op followed
// by the constant's 16-bit ID.
func (c *Chunk) PushConstant(op Opcode, v value.Value) {
	id := c.internConstant(v)
	c.Push(op)
	c.PushRaw(id)
}

func (c *Chunk) internConstant(v value.Value) uint16 {
	for i, existing := range c.Constants {
		if value.Equal(existing, v) {
			return uint16(i)
		}
	}
	c.Constants = append(c.Constants, v)
	return uint16(len(c.Constants) - 1)
}

// ReplaceAt overwrites the word at off, used to patch jump/loop operands
// after the target address is known.
func (c *Chunk) ReplaceAt(off int, w uint16) {
	c.Code[off] = w
}

// ReadAt is a bounds-checked fetch of the word at ip.
func (c *Chunk) ReadAt(ip int) (uint16, error) {
	if ip < 0 || ip >= len(c.Code) {
		return 0, fmt.Errorf("ip %d out of range (code length %d)", ip, len(c.Code))
	}
	return c.Code[ip], nil
}

// GetConstant returns the constant at id, or false if id is out of range.
func (c *Chunk) GetConstant(id uint16) (value.Value, bool) {
	if int(id) >= len(c.Constants) {
		return nil, false
	}
	return c.Constants[id], true
}

// LineEnd records that the current source line ends just before the next
// instruction to be emitted. A newline encountered before any instruction
// has been emitted is silently ignored (len(Code) == 0), matching the
// reference implementation's behavior.
func (c *Chunk) LineEnd() {
	if len(c.Code) == 0 {
		return
	}
	c.Lines = append(c.Lines, len(c.Code)-1)
}

// Line returns the source line for code offset p: the count of line-table
// entries less than or equal to p.
func (c *Chunk) Line(p int) int {
	n := 0
	for _, l := range c.Lines {
		if l <= p {
			n++
		}
	}
	return n
}

// Size returns the current code length.
func (c *Chunk) Size() int { return len(c.Code) }

// Disassemble renders the chunk as a human-readable instruction listing,
// one line per instruction, with jump/loop operands shown as both the raw
// relative distance and the absolute target offset.
func Disassemble(c *Chunk, name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", name)
	ip := 0
	for ip < len(c.Code) {
		ip = disassembleInstruction(&b, c, ip)
	}
	return b.String()
}

func disassembleInstruction(b *strings.Builder, c *Chunk, ip int) int {
	op, err := OpcodeFromWord(c.Code[ip])
	if err != nil {
		fmt.Fprintf(b, "%04d    %s\n", ip, err)
		return ip + 1
	}

	switch {
	case op.OperandWords() == 0:
		fmt.Fprintf(b, "%04d    %s\n", ip, op)
		return ip + 1
	case op == Constant || op == DefineGlobal || op == GetGlobal || op == SetGlobal:
		id := c.Code[ip+1]
		cv, ok := c.GetConstant(id)
		if ok {
			fmt.Fprintf(b, "%04d    %-16s %4d '%s'\n", ip, op, id, cv.String())
		} else {
			fmt.Fprintf(b, "%04d    %-16s %4d <invalid>\n", ip, op, id)
		}
		return ip + 2
	case isJump(op):
		dist := c.Code[ip+1]
		target := ip + 2 + int(dist)
		fmt.Fprintf(b, "%04d    %-16s %4d -> %d\n", ip, op, dist, target)
		return ip + 2
	case op == Loop:
		dist := c.Code[ip+1]
		target := ip + 2 - int(dist)
		fmt.Fprintf(b, "%04d    %-16s %4d -> %d\n", ip, op, dist, target)
		return ip + 2
	default:
		operand := c.Code[ip+1]
		fmt.Fprintf(b, "%04d    %-16s %4d\n", ip, op, operand)
		return ip + 2
	}
}
