package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/calvinalkan/todofetch/internal/config"
	"github.com/calvinalkan/todofetch/internal/report"
	"github.com/calvinalkan/todofetch/internal/todo"

	flag "github.com/spf13/pflag"
)

// defaultTodoID is fetched when get is run without an id.
const defaultTodoID todo.ID = 1

// GetCmd returns the get command.
func GetCmd(cfg *config.Config) *Command {
	return &Command{
		Flags:   flag.NewFlagSet("get", flag.ContinueOnError),
		Usage:   "get [id]",
		Short:   "Fetch a todo and print it",
		MaxArgs: 1,
		Long: `Fetch the todo with the given id (default 1), check that it has an
integer id and userId, a string title and a boolean completed, and print it.

If the todo cannot be fetched or does not have that shape, prints
"` + report.InvalidTodoMessage + `" to stderr instead.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execGet(ctx, io, cfg, args)
		},
	}
}

func execGet(ctx context.Context, io *IO, cfg *config.Config, args []string) error {
	id := defaultTodoID

	if len(args) == 1 {
		parsed, err := todo.ParseID(args[0])
		if err != nil {
			return err
		}

		id = parsed
	}

	log := newLogger(io.ErrOut(), cfg.Verbose)
	defer func() { _ = log.Sync() }()

	// Own transport so idle connections are closed before Run returns.
	client := &http.Client{}
	if transport, ok := http.DefaultTransport.(*http.Transport); ok {
		client.Transport = transport.Clone()
	}
	defer client.CloseIdleConnections()

	fetcher := &todo.HTTPFetcher{
		BaseURL:      cfg.BaseURL,
		Client:       client,
		Timeout:      time.Duration(cfg.Timeout),
		UserAgent:    cfg.UserAgent,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Logger:       log,
	}

	item, err := todo.NewRepository(fetcher, log).FetchTodoByID(ctx, id)
	if err != nil {
		log.Debug("todo unavailable",
			zap.Int64("id", int64(id)),
			zap.Bool("fetch_failed", errors.Is(err, todo.ErrFetch)),
			zap.Error(err))
	}

	reporter := &report.Reporter{Out: io.Out(), ErrOut: io.ErrOut(), Format: cfg.Format}

	return reporter.Report(item, err)
}
