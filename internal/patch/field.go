// Package patch models request fields that distinguish "not sent", "sent as
// null" and "sent with a value", which partial updates depend on.
package patch

import (
	"bytes"
	"encoding/json"
)

type state uint8

const (
	stateUnset state = iota
	stateNull
	stateValue
)

// Field is a tri-state optional value. The zero value is Unset.
//
// When embedded in a request struct decoded with encoding/json, a missing key
// leaves the field Unset, an explicit null makes it Null, and anything else
// makes it a Value.
type Field[T any] struct {
	state state
	value T
}

func Unset[T any]() Field[T] {
	return Field[T]{}
}

func Null[T any]() Field[T] {
	return Field[T]{state: stateNull}
}

func Value[T any](v T) Field[T] {
	return Field[T]{state: stateValue, value: v}
}

// IsPresent reports whether the field was supplied at all, null included.
func (f Field[T]) IsPresent() bool { return f.state != stateUnset }

func (f Field[T]) IsNull() bool { return f.state == stateNull }

func (f Field[T]) IsValue() bool { return f.state == stateValue }

// Get returns the value and whether the field holds one.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.state == stateValue
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.state = stateNull
		f.value = zero
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.state = stateValue
	f.value = v
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.state != stateValue {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
