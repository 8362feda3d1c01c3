package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/wisplang/wisp/lang/chunk"
	"github.com/wisplang/wisp/lang/compiler"
	"github.com/wisplang/wisp/lang/scanner"
)

// Disasm compiles the script named in args[0] and prints a disassembly
// listing of the resulting chunk, without executing it.
func (c *Cmd) Disasm(_ context.Context, stdio mainer.Stdio, args []string) error {
	path, err := singlePath(args)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	return DisasmFile(stdio, path)
}

// DisasmFile compiles the script at path and writes a disassembly listing
// to stdio.Stdout, without executing it.
func DisasmFile(stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	ch, err := compiler.Compile(src, path)
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
		return err
	}

	fmt.Fprint(stdio.Stdout, chunk.Disassemble(ch, path))
	return nil
}
