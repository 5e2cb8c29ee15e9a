// Package report writes the outcome of a todo fetch for the user.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/calvinalkan/todofetch/internal/todo"
)

// InvalidTodoMessage is printed to stderr whenever a todo cannot be produced,
// whether the fetch or the validation failed.
const InvalidTodoMessage = "Invalid Todo: Can't decode the todo"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the supported output formats.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// ErrUnknownFormat is returned for a format not in Formats.
var ErrUnknownFormat = errors.New("unknown output format")

// ValidateFormat returns ErrUnknownFormat unless format is supported.
// The empty string selects FormatText.
func ValidateFormat(format string) error {
	if format == "" || slices.Contains(Formats, format) {
		return nil
	}

	return fmt.Errorf("%w: %s (want one of text, json, yaml)", ErrUnknownFormat, format)
}

// Reporter prints exactly one outcome per call to Report.
type Reporter struct {
	Out    io.Writer
	ErrOut io.Writer
	Format string
}

// Report prints todo on success or the invalid-todo message if err is set.
// A non-nil return means writing the success output itself failed.
func (r *Reporter) Report(t todo.Todo, err error) error {
	if err != nil {
		r.Failure(err)

		return nil
	}

	return r.Success(t)
}

// Success writes t to Out in the configured format.
func (r *Reporter) Success(t todo.Todo) error {
	out, err := Render(t, r.Format)
	if err != nil {
		return err
	}

	_, err = io.WriteString(r.Out, out)
	if err != nil {
		return fmt.Errorf("writing todo: %w", err)
	}

	return nil
}

// Failure writes the invalid-todo message to ErrOut. The error kind is not
// shown; callers log it if they need the detail.
func (r *Reporter) Failure(_ error) {
	_, _ = fmt.Fprintln(r.ErrOut, InvalidTodoMessage)
}

// Render formats t. The result ends in a newline.
func Render(t todo.Todo, format string) (string, error) {
	switch format {
	case "", FormatText:
		return fmt.Sprintf("id:        %d\ntitle:     %s\ncompleted: %t\nownerId:   %d\n",
			t.ID, t.Title, t.Completed, t.OwnerID), nil
	case FormatJSON:
		data, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding json: %w", err)
		}

		return string(data) + "\n", nil
	case FormatYAML:
		data, err := yaml.Marshal(t)
		if err != nil {
			return "", fmt.Errorf("encoding yaml: %w", err)
		}

		return string(data), nil
	}

	return "", ValidateFormat(format)
}
