package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"
)

const (
	typeNumber  = "number"
	typeInteger = "integer"
	typeString  = "string"
	typeBoolean = "boolean"
	typeObject  = "object"
	typeMissing = "missing"
)

// Decode checks data against the Todo shape and returns the record.
//
// data is generic JSON as produced by encoding/json: map[string]any for
// objects, json.Number or float64 for numbers. Unknown keys are ignored. On
// failure the returned *DecodeError lists every bad field and no Todo is
// returned.
func Decode(data any) (Todo, error) {
	obj, ok := data.(map[string]any)
	if !ok {
		return Todo{}, &DecodeError{Fields: []FieldError{{Field: "$", Want: typeObject, Got: typeOf(data)}}}
	}

	var (
		todo Todo
		errs []FieldError
	)

	if n, ferr := intField(obj, keyID); ferr != nil {
		errs = append(errs, *ferr)
	} else {
		todo.ID = ID(n)
	}

	if s, ferr := stringField(obj, keyTitle); ferr != nil {
		errs = append(errs, *ferr)
	} else {
		todo.Title = Title(s)
	}

	if b, ferr := boolField(obj, keyCompleted); ferr != nil {
		errs = append(errs, *ferr)
	} else {
		todo.Completed = Completed(b)
	}

	if n, ferr := intField(obj, keyOwnerID); ferr != nil {
		errs = append(errs, *ferr)
	} else {
		todo.OwnerID = OwnerID(n)
	}

	if len(errs) > 0 {
		return Todo{}, &DecodeError{Fields: errs}
	}

	return todo, nil
}

// DecodeJSON parses raw JSON and decodes it. Malformed JSON is a decode
// failure here; over the network it is a fetch failure.
func DecodeJSON(raw []byte) (Todo, error) {
	data, err := parseJSON(raw)
	if err != nil {
		return Todo{}, &DecodeError{Cause: err}
	}

	return Decode(data)
}

// parseJSON decodes raw into generic data, keeping numbers exact.
func parseJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var data any

	err := dec.Decode(&data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	// Anything but EOF here is trailing data, including a stray '}' or ']'.
	_, err = dec.Token()
	if !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON: trailing data after value")
	}

	return data, nil
}

func intField(obj map[string]any, key string) (int64, *FieldError) {
	val, ok := obj[key]
	if !ok {
		return 0, &FieldError{Field: key, Want: typeInteger, Got: typeMissing}
	}

	switch v := val.(type) {
	case json.Number:
		if n, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
			return n, nil
		}

		// 1e0 and 1.0 are still integers.
		if n, ok := integralNumber(v.String()); ok {
			return n, nil
		}

		return 0, &FieldError{Field: key, Want: typeInteger, Got: typeNumber + " " + v.String()}
	case float64:
		if n, ok := integral(v); ok {
			return n, nil
		}

		return 0, &FieldError{Field: key, Want: typeInteger, Got: typeNumber + " " + strconv.FormatFloat(v, 'g', -1, 64)}
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	}

	return 0, &FieldError{Field: key, Want: typeInteger, Got: typeOf(val)}
}

// integralNumber reports whether the JSON number s is exactly an int64.
// The precision grows with the literal so no fraction digit is rounded away.
func integralNumber(s string) (int64, bool) {
	prec := uint(len(s))*4 + 64

	f, _, err := big.ParseFloat(s, 10, prec, big.ToNearestEven)
	if err != nil || !f.IsInt() {
		return 0, false
	}

	// 1e-999999999 underflows to zero.
	mantissa, _, _ := strings.Cut(strings.ToLower(s), "e")
	if f.Sign() == 0 && strings.ContainsAny(mantissa, "123456789") {
		return 0, false
	}

	n, acc := f.Int64()

	return n, acc == big.Exact
}

func integral(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}

	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}

	return int64(f), true
}

func stringField(obj map[string]any, key string) (string, *FieldError) {
	val, ok := obj[key]
	if !ok {
		return "", &FieldError{Field: key, Want: typeString, Got: typeMissing}
	}

	s, ok := val.(string)
	if !ok {
		return "", &FieldError{Field: key, Want: typeString, Got: typeOf(val)}
	}

	return s, nil
}

func boolField(obj map[string]any, key string) (bool, *FieldError) {
	val, ok := obj[key]
	if !ok {
		return false, &FieldError{Field: key, Want: typeBoolean, Got: typeMissing}
	}

	b, ok := val.(bool)
	if !ok {
		return false, &FieldError{Field: key, Want: typeBoolean, Got: typeOf(val)}
	}

	return b, nil
}

func typeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return typeBoolean
	case string:
		return typeString
	case json.Number, float64, int, int64:
		return typeNumber
	case map[string]any:
		return typeObject
	case []any:
		return "array"
	}

	return fmt.Sprintf("%T", v)
}
