package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// ErrTooManyArgs is returned when a command gets more positional args than
// it accepts.
var ErrTooManyArgs = errors.New("too many arguments")

// Command is one todofetch subcommand.
type Command struct {
	// Flags holds command-specific flags. May be empty but not nil.
	Flags *flag.FlagSet

	// Usage follows "todofetch" in help, starting with the command name.
	// Examples: "get [id]", "print-config"
	Usage string

	// Short is the one-line description in the command listing.
	Short string

	// Long is the description in command help. Short is used if empty.
	Long string

	// MaxArgs bounds positional args after flag parsing.
	MaxArgs int

	// Exec runs the command after flags are parsed.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")
	return name
}

// HelpLine returns the line shown for c in the command listing.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-22s %s", c.Usage, c.Short)
}

// WriteHelp writes "todofetch <cmd> --help" output to w.
func (c *Command) WriteHelp(w io.Writer) {
	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	fprintln(w, "Usage: todofetch", c.Usage)
	fprintln(w)
	fprintln(w, desc)

	if c.Flags.HasFlags() {
		fprintln(w)
		fprintln(w, "Flags:")
		fprint(w, c.Flags.FlagUsages())
	}
}

// Run parses args and executes the command. Returns exit code.
// Usage errors print command help to stderr.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(io.Discard)

	err := c.Flags.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		c.WriteHelp(o.Out())

		return 0
	}

	if err == nil && c.Flags.NArg() > c.MaxArgs {
		err = fmt.Errorf("%w: %s takes at most %d, got %d", ErrTooManyArgs, c.Name(), c.MaxArgs, c.Flags.NArg())
	}

	if err != nil {
		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.WriteHelp(o.ErrOut())

		return 1
	}

	err = c.Exec(ctx, o, c.Flags.Args())
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	return 0
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func fprint(w io.Writer, a ...any) {
	_, _ = fmt.Fprint(w, a...)
}
