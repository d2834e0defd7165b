package prompt

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// NewApp holds the answers needed to register an app.
type NewApp struct {
	Key         string
	Title       string
	DevAppID    string
	ProdAppID   string
	Category    string
	Description string
}

// Summary lists the answers for a final review.
func (a NewApp) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "key:         %s\n", a.Key)
	fmt.Fprintf(&b, "title:       %s\n", a.Title)
	fmt.Fprintf(&b, "dev app id:  %s\n", a.DevAppID)
	fmt.Fprintf(&b, "prod app id: %s\n", a.ProdAppID)
	fmt.Fprintf(&b, "category:    %s", a.Category)
	if a.Description != "" {
		fmt.Fprintf(&b, "\ndescription: %s", a.Description)
	}
	return b.String()
}

// CategoryChoice is one selectable category.
type CategoryChoice struct {
	Key  string
	Name string
}

var (
	keyPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
	idPattern  = regexp.MustCompile(`^[0-9]+$`)
)

// ValidateKey accepts identifiers usable as directory names.
func ValidateKey(s string) error {
	if !keyPattern.MatchString(strings.TrimSpace(s)) {
		return errors.New("use letters, digits, '-' or '_', starting with a letter")
	}
	return nil
}

// ValidateAppID accepts numeric kintone app ids.
func ValidateAppID(s string) error {
	if !idPattern.MatchString(strings.TrimSpace(s)) {
		return errors.New("app id must be numeric")
	}
	return nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("value is required")
	}
	return nil
}

// AskNewApp fills the blank fields of seed by prompting. Fields already set
// are kept as given. The answers are shown back and must be confirmed;
// declining returns ErrAborted.
func AskNewApp(ctx context.Context, d Driver, seed NewApp, categories []CategoryChoice) (NewApp, error) {
	out := seed
	questions := []struct {
		target   *string
		message  string
		validate func(string) error
	}{
		{&out.Key, "App key (e.g. teacherMaster)", ValidateKey},
		{&out.Title, "App title", required},
		{&out.DevAppID, "Dev app id", ValidateAppID},
		{&out.ProdAppID, "Prod app id", ValidateAppID},
	}
	for _, q := range questions {
		if *q.target != "" {
			continue
		}
		answer, err := d.Input(ctx, InputConfig{Message: q.message, Validator: q.validate})
		if err != nil {
			return NewApp{}, err
		}
		*q.target = strings.TrimSpace(answer)
	}

	if out.Category == "" {
		category, err := askCategory(ctx, d, categories)
		if err != nil {
			return NewApp{}, err
		}
		out.Category = category
	}

	if seed.Description == "" {
		desc, err := d.Input(ctx, InputConfig{Message: "Description (optional)"})
		if err != nil {
			return NewApp{}, err
		}
		out.Description = strings.TrimSpace(desc)
	}

	if err := d.Info(ctx, out.Summary()); err != nil {
		return NewApp{}, err
	}
	ok, err := d.Confirm(ctx, ConfirmConfig{Message: "Register this app?", Default: true})
	if err != nil {
		return NewApp{}, err
	}
	if !ok {
		return NewApp{}, ErrAborted
	}
	return out, nil
}

func askCategory(ctx context.Context, d Driver, categories []CategoryChoice) (string, error) {
	if len(categories) == 0 {
		answer, err := d.Input(ctx, InputConfig{Message: "Category", Default: "other"})
		return strings.TrimSpace(answer), err
	}
	options := make([]string, len(categories))
	def := 0
	for i, c := range categories {
		options[i] = c.Key
		if c.Name != "" && c.Name != c.Key {
			options[i] = c.Key + " (" + c.Name + ")"
		}
		if c.Key == "other" {
			def = i
		}
	}
	idx, err := d.Select(ctx, SelectConfig{Message: "Category", Options: options, DefaultIndex: def})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(categories) {
		return "", errors.New("prompt: no category selected")
	}
	return categories[idx].Key, nil
}
