package settings

import "encoding/json"

// valueState tags a Value[T] as unset, explicitly cleared, or set to a
// concrete value.
type valueState uint8

const (
	stateUnset valueState = iota
	stateCleared
	stateSet
)

// Value is a tri-state configuration field: Unset, Cleared, or Set(V).
// Cleared is not the same as Set(zero): it is an explicit null that
// shadows any value a parent in the chain would otherwise contribute.
type Value[T any] struct {
	state valueState
	value T
}

// Unset returns the unset tri-state value.
func Unset[T any]() Value[T] {
	return Value[T]{state: stateUnset}
}

// Cleared returns the explicit-clear tri-state value.
func Cleared[T any]() Value[T] {
	return Value[T]{state: stateCleared}
}

// Set returns a tri-state value holding v.
func Set[T any](v T) Value[T] {
	return Value[T]{state: stateSet, value: v}
}

// IsUnset reports whether the value was never declared.
func (v Value[T]) IsUnset() bool {
	return v.state == stateUnset
}

// IsCleared reports whether the value was explicitly cleared.
func (v Value[T]) IsCleared() bool {
	return v.state == stateCleared
}

// IsSet reports whether the value holds a concrete V.
func (v Value[T]) IsSet() bool {
	return v.state == stateSet
}

// Get returns the held value and whether it was set. For Cleared and
// Unset it returns the zero value and false.
func (v Value[T]) Get() (T, bool) {
	if v.state != stateSet {
		var zero T
		return zero, false
	}
	return v.value, true
}

// MarshalJSON emits the wire shape for a tri-state value: Cleared serializes
// as JSON null, Unset is omitted entirely by the containing map (tri-state
// fields live in a map[string]Value[any]-shaped bag, not as struct
// fields, so "omitted" falls out of the bag never containing the key).
func (v Value[T]) MarshalJSON() ([]byte, error) {
	switch v.state {
	case stateCleared:
		return []byte("null"), nil
	case stateSet:
		return json.Marshal(v.value)
	default:
		return []byte("null"), nil
	}
}

func (v *Value[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Cleared[T]()
		return nil
	}
	var val T
	if err := json.Unmarshal(data, &val); err != nil {
		return err
	}
	*v = Set(val)
	return nil
}
