// Package prompt wraps interactive terminal questions behind a Driver so
// commands can be tested without a terminal.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted is returned when the user interrupts a prompt or declines a
// confirmation.
var ErrAborted = errors.New("prompt: aborted")

type InputConfig struct {
	Message   string
	Default   string
	Help      string
	Validator func(string) error
}

type ConfirmConfig struct {
	Message string
	Default bool
}

type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
}

// Driver asks questions. The survey implementation talks to the terminal;
// tests script the answers.
type Driver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	Info(ctx context.Context, msg string) error
}

// Survey is the terminal Driver.
type Survey struct {
	// Out receives Info messages, stdout when nil.
	Out  io.Writer
	opts []survey.AskOpt
}

// NewSurvey returns a terminal driver. With stdio set, prompts read and
// write through those files instead of the process stdio.
func NewSurvey(stdio ...terminal.Stdio) *Survey {
	s := &Survey{}
	if len(stdio) > 0 {
		s.opts = append(s.opts, survey.WithStdio(stdio[0].In, stdio[0].Out, stdio[0].Err))
		s.Out = stdio[0].Out
	}
	return s
}

func (d *Survey) Input(ctx context.Context, cfg InputConfig) (string, error) {
	var answer string
	q := &survey.Input{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}

	var opts []survey.AskOpt
	if validate := cfg.Validator; validate != nil {
		opts = append(opts, survey.WithValidator(func(ans any) error {
			s, _ := ans.(string)
			return validate(s)
		}))
	}
	err := d.ask(ctx, q, &answer, opts...)
	return answer, err
}

func (d *Survey) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	var answer bool
	err := d.ask(ctx, &survey.Confirm{Message: cfg.Message, Default: cfg.Default}, &answer)
	return answer, err
}

func (d *Survey) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	q := &survey.Select{Message: cfg.Message, Options: cfg.Options}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		q.Default = cfg.Options[cfg.DefaultIndex]
	}
	var answer string
	if err := d.ask(ctx, q, &answer); err != nil {
		return -1, err
	}
	return indexOf(cfg.Options, answer), nil
}

func (d *Survey) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	out := d.Out
	if out == nil {
		out = os.Stdout
	}
	_, err := fmt.Fprintln(out, msg)
	return err
}

func (d *Survey) ask(ctx context.Context, q survey.Prompt, answer any, extra ...survey.AskOpt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts := append(append([]survey.AskOpt{}, d.opts...), extra...)
	err := survey.AskOne(q, answer, opts...)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}
