package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

func heading(w io.Writer, title string) {
	fmt.Fprintln(w, bold(title))
	fmt.Fprintln(w, strings.Repeat("=", 40))
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
