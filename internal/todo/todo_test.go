package todo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/todofetch/internal/todo"
)

func Test_ParseID_Accepts_Positive_Decimal(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   string
		want todo.ID
	}{
		{in: "1", want: 1},
		{in: " 42 ", want: 42},
		{in: "9223372036854775807", want: 9223372036854775807},
	}

	for _, tc := range testCases {
		got, err := todo.ParseID(tc.in)
		require.NoError(t, err, "ParseID(%q)", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func Test_ParseID_Returns_Error_When_Not_Positive_Integer(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "0", "-1", "abc", "1.5", "0x10", "99999999999999999999"} {
		_, err := todo.ParseID(in)
		assert.ErrorIs(t, err, todo.ErrInvalidID, "ParseID(%q)", in)
	}
}

func Test_NewID_Returns_Error_When_Not_Positive(t *testing.T) {
	t.Parallel()

	_, err := todo.NewID(0)
	require.ErrorIs(t, err, todo.ErrInvalidID)

	id, err := todo.NewID(7)
	require.NoError(t, err)
	assert.Equal(t, "7", id.String())
}

func Test_Todo_String_Shows_All_Fields(t *testing.T) {
	t.Parallel()

	got := todo.Todo{ID: 1, Title: "delectus aut autem", Completed: false, OwnerID: 1}.String()
	want := `{id: 1, title: "delectus aut autem", completed: false, ownerId: 1}`

	if got != want {
		t.Errorf("String()=%q, want=%q", got, want)
	}
}
