package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/calvinalkan/todofetch/internal/config"

	flag "github.com/spf13/pflag"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			execPrintConfig(io, cfg)

			return nil
		},
	}
}

func execPrintConfig(io *IO, cfg *config.Config) {
	timeout := "none"
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout).String()
	}

	io.Println("effective_cwd=" + cfg.EffectiveCwd)
	io.Println("base_url=" + cfg.BaseURL)
	io.Println("timeout=" + timeout)
	io.Println("format=" + cfg.Format)
	io.Println("user_agent=" + cfg.UserAgent)
	io.Println("max_body_bytes=" + strconv.FormatInt(cfg.MaxBodyBytes, 10))
	io.Println("verbose=" + strconv.FormatBool(cfg.Verbose))

	io.Println("")
	io.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		io.Println("(defaults only)")

		return
	}

	if cfg.Sources.Global != "" {
		io.Println("global_config=" + cfg.Sources.Global)
	}

	if cfg.Sources.Project != "" {
		io.Println("project_config=" + cfg.Sources.Project)
	}
}
