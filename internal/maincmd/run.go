package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/wisplang/wisp/lang/compiler"
	"github.com/wisplang/wisp/lang/scanner"
	"github.com/wisplang/wisp/lang/vm"
)

// Run compiles and executes the script named in args[0].
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	path, err := singlePath(args)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	return RunFile(ctx, stdio, path)
}

// RunFile compiles and executes the script at path, writing its Print
// output to stdio.Stdout and any error to stdio.Stderr.
func RunFile(ctx context.Context, stdio mainer.Stdio, path string) error {
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

	machine := vm.VM{Stdout: stdio.Stdout}
	if err := machine.Run(ctx, ch); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	return nil
}

func singlePath(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("exactly one script path must be provided")
	}
	return args[0], nil
}
