package todo_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/todofetch/internal/todo"
)

const validTodoJSON = `{"id":1,"title":"delectus aut autem","completed":false,"userId":1}`

func Test_DecodeJSON_Returns_Todo_When_Payload_Matches(t *testing.T) {
	t.Parallel()

	got, err := todo.DecodeJSON([]byte(validTodoJSON))
	require.NoError(t, err)

	want := todo.Todo{ID: 1, Title: "delectus aut autem", Completed: false, OwnerID: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("todo mismatch (-want +got):\n%s", diff)
	}
}

func Test_Decode_Preserves_Field_Values_When_Input_Valid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		want todo.Todo
	}{
		{name: "Completed", want: todo.Todo{ID: 7, Title: "ship it", Completed: true, OwnerID: 3}},
		{name: "EmptyTitle", want: todo.Todo{ID: 2, Title: "", Completed: false, OwnerID: 9}},
		{name: "Unicode", want: todo.Todo{ID: 200, Title: "café ☕", Completed: true, OwnerID: 10}},
		{name: "LargeIDs", want: todo.Todo{ID: 1 << 53, Title: "big", Completed: false, OwnerID: 1<<62 + 1}},
		{name: "NegativeOwner", want: todo.Todo{ID: 5, Title: "x", Completed: false, OwnerID: -4}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			raw, err := json.Marshal(tc.want)
			require.NoError(t, err)

			got, err := todo.DecodeJSON(raw)
			require.NoError(t, err)

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_Decode_Ignores_Unknown_Keys_When_Present(t *testing.T) {
	t.Parallel()

	got, err := todo.DecodeJSON([]byte(`{"id":3,"title":"t","completed":true,"userId":2,"extra":[1,2]}`))
	require.NoError(t, err)
	assert.Equal(t, todo.Todo{ID: 3, Title: "t", Completed: true, OwnerID: 2}, got)
}

func Test_Decode_Accepts_Integral_Number_Forms(t *testing.T) {
	t.Parallel()

	got, err := todo.DecodeJSON([]byte(`{"id":1.0,"title":"t","completed":false,"userId":2e0}`))
	require.NoError(t, err)
	assert.Equal(t, todo.ID(1), got.ID)
	assert.Equal(t, todo.OwnerID(2), got.OwnerID)
}

func Test_Decode_Keeps_Large_Integral_Numbers_Exact(t *testing.T) {
	t.Parallel()

	got, err := todo.DecodeJSON([]byte(`{"id":9007199254740993.0,"title":"t","completed":false,"userId":9223372036854775807.000}`))
	require.NoError(t, err)
	assert.Equal(t, todo.ID(9007199254740993), got.ID)
	assert.Equal(t, todo.OwnerID(math.MaxInt64), got.OwnerID)

	got, err = todo.DecodeJSON([]byte(`{"id":0.000e-5,"title":"t","completed":false,"userId":-0.0}`))
	require.NoError(t, err)
	assert.Zero(t, got.ID)
	assert.Zero(t, got.OwnerID)
}

func Test_Decode_Rejects_Number_When_Not_Exactly_Int64(t *testing.T) {
	t.Parallel()

	for _, num := range []string{"9223372036854775808.0", "9007199254740993.0000000001", "1e999999999", "1e-999999999"} {
		_, err := todo.DecodeJSON([]byte(`{"id":` + num + `,"title":"t","completed":false,"userId":1}`))
		require.ErrorIs(t, err, todo.ErrDecode, "id %s", num)
		assert.Contains(t, err.Error(), "id: want integer, got number "+num)
	}
}

func Test_Decode_Accepts_Float64_Numbers_When_Decoded_Without_UseNumber(t *testing.T) {
	t.Parallel()

	var data any
	require.NoError(t, json.Unmarshal([]byte(validTodoJSON), &data))

	got, err := todo.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, todo.ID(1), got.ID)
}

func Test_Decode_Returns_Error_When_Field_Missing(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"id", "title", "completed", "userId"} {
		t.Run(key, func(t *testing.T) {
			t.Parallel()

			obj := map[string]any{
				"id":        json.Number("1"),
				"title":     "x",
				"completed": false,
				"userId":    json.Number("1"),
			}
			delete(obj, key)

			got, err := todo.Decode(obj)
			require.Error(t, err)
			assert.ErrorIs(t, err, todo.ErrDecode)
			assert.NotErrorIs(t, err, todo.ErrFetch)
			assert.Equal(t, todo.Todo{}, got, "no partial record on failure")

			var decodeErr *todo.DecodeError
			require.ErrorAs(t, err, &decodeErr)

			want := []todo.FieldError{{Field: key, Want: wantType(key), Got: "missing"}}
			if diff := cmp.Diff(want, decodeErr.Fields); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_Decode_Returns_Error_When_Field_Has_Wrong_Type(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		payload string
		field   string
		got     string
	}{
		{name: "CompletedString", payload: `{"id":1,"title":"x","completed":"no","userId":1}`, field: "completed", got: "string"},
		{name: "CompletedNull", payload: `{"id":1,"title":"x","completed":null,"userId":1}`, field: "completed", got: "null"},
		{name: "TitleNumber", payload: `{"id":1,"title":5,"completed":false,"userId":1}`, field: "title", got: "number"},
		{name: "IDString", payload: `{"id":"1","title":"x","completed":false,"userId":1}`, field: "id", got: "string"},
		{name: "IDFraction", payload: `{"id":1.5,"title":"x","completed":false,"userId":1}`, field: "id", got: "number 1.5"},
		{name: "UserIDBool", payload: `{"id":1,"title":"x","completed":false,"userId":true}`, field: "userId", got: "boolean"},
		{name: "UserIDObject", payload: `{"id":1,"title":"x","completed":false,"userId":{}}`, field: "userId", got: "object"},
		{name: "UserIDTooLarge", payload: `{"id":1,"title":"x","completed":false,"userId":1e30}`, field: "userId", got: "number 1e30"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := todo.DecodeJSON([]byte(tc.payload))
			require.ErrorIs(t, err, todo.ErrDecode)

			var decodeErr *todo.DecodeError
			require.ErrorAs(t, err, &decodeErr)

			want := []todo.FieldError{{Field: tc.field, Want: wantType(tc.field), Got: tc.got}}
			if diff := cmp.Diff(want, decodeErr.Fields); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_Decode_Reports_All_Bad_Fields_When_Several_Fail(t *testing.T) {
	t.Parallel()

	_, err := todo.DecodeJSON([]byte(`{"title":false,"completed":1}`))

	var decodeErr *todo.DecodeError
	require.ErrorAs(t, err, &decodeErr)

	if got, want := len(decodeErr.Fields), 4; got != want {
		t.Errorf("len(Fields)=%d, want=%d (%v)", got, want, decodeErr.Fields)
	}
}

func Test_Decode_Returns_Error_When_Not_An_Object(t *testing.T) {
	t.Parallel()

	for _, payload := range []string{`[]`, `"todo"`, `42`, `null`, `true`} {
		t.Run(payload, func(t *testing.T) {
			t.Parallel()

			_, err := todo.DecodeJSON([]byte(payload))
			assert.ErrorIs(t, err, todo.ErrDecode)
		})
	}
}

func Test_DecodeJSON_Returns_Decode_Error_When_JSON_Malformed(t *testing.T) {
	t.Parallel()

	payloads := []string{
		``,
		`{`,
		`{"id":1}x`,
		`<html></html>`,
		`{"id":1,"title":"x","completed":false,"userId":1}}`,
		`{"id":1,"title":"x","completed":false,"userId":1}]`,
	}

	for _, payload := range payloads {
		_, err := todo.DecodeJSON([]byte(payload))
		assert.ErrorIs(t, err, todo.ErrDecode, "payload %q", payload)
		assert.NotErrorIs(t, err, todo.ErrFetch, "payload %q", payload)
	}
}

func Test_DecodeError_Message_Lists_Fields(t *testing.T) {
	t.Parallel()

	err := &todo.DecodeError{Fields: []todo.FieldError{
		{Field: "completed", Want: "boolean", Got: "string"},
		{Field: "userId", Want: "integer", Got: "missing"},
	}}

	got := err.Error()
	want := "cannot decode todo: completed: want boolean, got string; userId: want integer, got missing"

	if got != want {
		t.Errorf("Error()=%q, want=%q", got, want)
	}
}

func Test_DecodeError_Matches_Fetch_When_Cause_Is_Fetch_Error(t *testing.T) {
	t.Parallel()

	cause := &todo.FetchError{URL: "http://example.invalid/1", Err: errors.New("dial tcp: no such host")}
	err := error(&todo.DecodeError{Cause: cause})

	assert.ErrorIs(t, err, todo.ErrDecode)
	assert.ErrorIs(t, err, todo.ErrFetch)
	assert.Contains(t, err.Error(), "no such host")
}

func wantType(key string) string {
	switch key {
	case "title":
		return "string"
	case "completed":
		return "boolean"
	}

	return "integer"
}
