package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/wisplang/wisp/lang/scanner"
	"github.com/wisplang/wisp/lang/token"
)

// Tokenize runs only the scanner over the script named in args[0] and
// prints the resulting token stream, one token per line.
func (c *Cmd) Tokenize(_ context.Context, stdio mainer.Stdio, args []string) error {
	path, err := singlePath(args)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	return TokenizeFile(stdio, path)
}

// TokenizeFile scans the script at path and prints its token stream to
// stdio.Stdout, one token per line.
func TokenizeFile(stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	var s scanner.Scanner
	s.Init(src)
	for {
		tok := s.Scan()
		fmt.Fprintf(stdio.Stdout, "%4d  %-16s %q\n", tok.Line, tok.Kind, tok.Lexeme(src))
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}
