// Package todo holds the Todo record, its decoder and the fetch pipeline that
// produces it from a remote JSON endpoint.
package todo

import (
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a todo item. It is also the path segment of the request.
type ID int64

// Title is the todo's display text.
type Title string

// Completed reports whether the todo is done.
type Completed bool

// OwnerID identifies the user owning the todo. On the wire it is "userId".
type OwnerID int64

// Wire keys of the todo payload.
const (
	keyID        = "id"
	keyTitle     = "title"
	keyCompleted = "completed"
	keyOwnerID   = "userId"
)

// Todo is a validated todo record. A Todo only exists if all four fields were
// present with the right primitive type.
type Todo struct {
	ID        ID        `json:"id"        yaml:"id"`
	Title     Title     `json:"title"     yaml:"title"`
	Completed Completed `json:"completed" yaml:"completed"`
	OwnerID   OwnerID   `json:"userId"    yaml:"userId"`
}

// String renders the todo as a single-line record.
func (t Todo) String() string {
	return fmt.Sprintf("{id: %d, title: %q, completed: %t, ownerId: %d}",
		t.ID, string(t.Title), bool(t.Completed), t.OwnerID)
}

// NewID returns id as an ID. Only positive values are valid.
func NewID(id int64) (ID, error) {
	if id <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}

	return ID(id), nil
}

// ParseID parses a decimal todo id as given on the command line.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}

	return NewID(n)
}

// String returns the decimal form used in request paths.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
