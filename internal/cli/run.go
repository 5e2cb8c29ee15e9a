package cli

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/calvinalkan/todofetch/internal/config"

	flag "github.com/spf13/pflag"
)

// Run is the main entry point. Returns exit code.
//
// A todo that cannot be fetched or decoded is a reported outcome, not an
// error: Run prints the invalid-todo message and returns 0. Exit code 1 means
// the invocation itself was wrong (flags, config, arguments).
func Run(_ io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string) int {
	o := NewIO(out, errOut)

	globals := newGlobalFlags()
	cfg := &config.Config{}
	commands := []*Command{GetCmd(cfg), PrintConfigCmd(cfg)}

	if len(args) > 0 {
		args = args[1:]
	}

	err := globals.set.Parse(args)
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		printUsage(o.ErrOut(), globals.set, commands)

		return 1
	}

	if errors.Is(err, flag.ErrHelp) || globals.help {
		printUsage(o.Out(), globals.set, commands)

		return 0
	}

	loaded, err := config.Load(config.LoadInput{
		WorkDirOverride: globals.cwd,
		ConfigPath:      globals.configPath,
		Overrides:       globals.overrides(),
		Env:             env,
	})
	if err != nil {
		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		printUsage(o.ErrOut(), globals.set, commands)

		return 1
	}

	*cfg = loaded

	rest := globals.set.Args()
	if len(rest) == 0 {
		rest = []string{"get"}
	}

	name, cmdArgs := rest[0], rest[1:]

	for _, cmd := range commands {
		if cmd.Name() == name {
			return cmd.Run(context.Background(), o, cmdArgs)
		}
	}

	o.ErrPrintln("error: unknown command:", name)
	o.ErrPrintln()
	printUsage(o.ErrOut(), globals.set, commands)

	return 1
}

type globalFlags struct {
	set *flag.FlagSet

	help       bool
	cwd        string
	configPath string
	baseURL    string
	timeout    time.Duration
	format     string
	verbose    bool
}

func newGlobalFlags() *globalFlags {
	g := &globalFlags{set: flag.NewFlagSet("todofetch", flag.ContinueOnError)}

	// Stop at the command name so command flags reach the command.
	g.set.SetInterspersed(false)
	g.set.SetOutput(io.Discard)

	g.set.BoolVarP(&g.help, "help", "h", false, "Show help")
	g.set.StringVarP(&g.cwd, "cwd", "C", "", "Run as if started in `dir`")
	g.set.StringVarP(&g.configPath, "config", "c", "", "Use specified config `file`")
	g.set.StringVar(&g.baseURL, "base-url", "", "Fetch todos from `url`/<id>")
	g.set.DurationVar(&g.timeout, "timeout", 0, "Request timeout, 0 for none")
	g.set.StringVarP(&g.format, "format", "f", "", "Output `format`: text, json, yaml")
	g.set.BoolVarP(&g.verbose, "verbose", "v", false, "Write debug logs to stderr")

	return g
}

// overrides returns config overrides for the flags that were set.
func (g *globalFlags) overrides() config.Overrides {
	var o config.Overrides

	if g.set.Changed("base-url") {
		o.BaseURL = &g.baseURL
	}

	if g.set.Changed("timeout") {
		o.Timeout = &g.timeout
	}

	if g.set.Changed("format") {
		o.Format = &g.format
	}

	if g.set.Changed("verbose") {
		o.Verbose = &g.verbose
	}

	return o
}

func printUsage(w io.Writer, globals *flag.FlagSet, commands []*Command) {
	fprintln(w, `todofetch - fetch a todo and print it

Usage: todofetch [flags] [command] [args]

Without a command, todofetch runs "get" for todo 1.`)

	if len(commands) > 0 {
		fprintln(w)
		fprintln(w, "Commands:")

		for _, cmd := range commands {
			fprintln(w, cmd.HelpLine())
		}
	}

	fprintln(w)
	fprintln(w, "Global flags:")
	fprint(w, globals.FlagUsages())
}
