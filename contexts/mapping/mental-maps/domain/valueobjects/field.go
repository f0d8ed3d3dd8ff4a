package valueobjects

import (
	"bytes"
	"encoding/json"
)

// Field is an optional request field that remembers whether the caller sent it
// and whether the sent JSON value had the expected type.
//
//	absent          -> Present=false
//	"title": null   -> Present=true, Valid=false
//	"x": "1"        -> Present=true, Valid=false (for Field[float64])
//	"x": 1.5        -> Present=true, Valid=true, Value=1.5
type Field[T any] struct {
	Present bool
	Valid   bool
	Value   T
}

// Set builds a present, well-typed field. Used by callers that do not come through JSON.
func Set[T any](value T) Field[T] {
	return Field[T]{Present: true, Valid: true, Value: value}
}

// Invalid builds a present field whose value had the wrong type.
func Invalid[T any]() Field[T] {
	return Field[T]{Present: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	f.Valid = false
	var zero T
	f.Value = zero
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		// Type mismatches are reported as validation details, not decode failures.
		return nil
	}
	f.Value = value
	f.Valid = true
	return nil
}

// MarshalJSON keeps Field usable in response fixtures and idempotency hashes.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present || !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// ValueOr returns the value when it is present and well typed, otherwise fallback.
func (f Field[T]) ValueOr(fallback T) T {
	if f.Present && f.Valid {
		return f.Value
	}
	return fallback
}
