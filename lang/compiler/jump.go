package compiler

import "github.com/wisplang/wisp/lang/chunk"

// pushJmp emits op followed by a placeholder Panic word and returns the
// offset of that placeholder. Using Panic as the placeholder means a bug
// that forgets to patch the jump is caught at execution instead of
// silently jumping to the wrong place.
func (c *compiler) pushJmp(op chunk.Opcode) int {
	c.chunk.Push(op)
	off := c.chunk.Size()
	c.chunk.PushRaw(uint16(chunk.Panic))
	return off
}

// patchAddress writes the distance from the placeholder at off to the
// current end of the chunk, turning a forward jump into a live one.
func (c *compiler) patchAddress(off int) {
	c.chunk.ReplaceAt(off, uint16(c.chunk.Size()-off-1))
}

// pushLoop emits Loop followed by the backward distance to start.
func (c *compiler) pushLoop(start int) {
	c.chunk.Push(chunk.Loop)
	dist := c.chunk.Size() - start + 1
	c.chunk.PushRaw(uint16(dist))
}
