package ginue

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command is one subprocess invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Secrets are masked by String.
	Secrets []string
}

// String renders the command for logs with secrets masked.
func (c Command) String() string {
	line := strings.Join(append([]string{c.Name}, c.Args...), " ")
	for _, secret := range c.Secrets {
		if secret != "" {
			line = strings.ReplaceAll(line, secret, "****")
		}
	}
	return line
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands with os/exec. Nil streams inherit the parent
// process stdio.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (r ExecRunner) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = orReader(r.Stdin, os.Stdin)
	c.Stdout = orWriter(r.Stdout, os.Stdout)
	c.Stderr = orWriter(r.Stderr, os.Stderr)
	if err := c.Run(); err != nil {
		return fmt.Errorf("ginue: run %s: %w", cmd.Name, err)
	}
	return nil
}

func orReader(r, fallback io.Reader) io.Reader {
	if r == nil {
		return fallback
	}
	return r
}

func orWriter(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}
