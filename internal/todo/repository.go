package todo

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Repository fetches and validates todos.
type Repository struct {
	fetcher Fetcher
	log     *zap.Logger
}

// NewRepository returns a Repository reading through fetcher. log may be nil.
func NewRepository(fetcher Fetcher, log *zap.Logger) *Repository {
	if log == nil {
		log = zap.NewNop()
	}

	return &Repository{fetcher: fetcher, log: log}
}

// FetchTodoByID fetches the todo and validates it.
//
// Every failure is returned as a *DecodeError. When the fetch itself failed
// the *FetchError is kept as its cause, so errors.Is(err, ErrFetch) still
// tells the two apart.
func (r *Repository) FetchTodoByID(ctx context.Context, id ID) (Todo, error) {
	data, err := r.fetcher.Fetch(ctx, id)
	if err != nil {
		r.log.Debug("fetch failed", zap.Int64("id", int64(id)), zap.Error(err))

		return Todo{}, &DecodeError{Cause: err}
	}

	todo, err := Decode(data)
	if err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			fields := make([]string, 0, len(decodeErr.Fields))
			for _, f := range decodeErr.Fields {
				fields = append(fields, f.String())
			}

			r.log.Debug("decode failed", zap.Int64("id", int64(id)), zap.Strings("fields", fields))
		}

		return Todo{}, err
	}

	r.log.Debug("decoded todo", zap.Int64("id", int64(todo.ID)))

	return todo, nil
}
