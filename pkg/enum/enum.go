package enum

import (
	"fmt"
	"reflect"
)

var enumManager = map[string]any{}

type enum[T comparable] struct {
	toEnum map[string]T
}

// New registers a value as a member of its enum type and returns it. The
// string representation of the value is used as its wire name.
func New[T comparable](value T) T {
	v := reflect.ValueOf(value)
	t := v.Type()
	if _, ok := enumManager[t.Name()]; !ok {
		enumManager[t.Name()] = enum[T]{toEnum: make(map[string]T)}
	}

	enumManager[t.Name()].(enum[T]).toEnum[v.String()] = value
	return value
}

// ToEnum converts a string to a registered member of enum type T. It returns
// an error if the string was never registered with New.
func ToEnum[T comparable](s string) (T, error) {
	var defaultT T
	e, ok := enumManager[reflect.TypeOf(defaultT).Name()]
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	t, ok := e.(enum[T]).toEnum[s]
	if !ok {
		return defaultT, fmt.Errorf("not found value %s in enum %T", s, defaultT)
	}

	return t, nil
}

// ToList returns all registered members of enum type T.
func ToList[T comparable]() []T {
	var defaultT T
	e, ok := enumManager[reflect.TypeOf(defaultT).Name()]
	if !ok {
		return nil
	}

	result := []T{}
	for _, v := range e.(enum[T]).toEnum {
		result = append(result, v)
	}

	return result
}
