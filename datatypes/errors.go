package datatypes

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories for the type lattice. Concrete errors below match
// these sentinels through errors.Is.

var (
	// ErrType is the category for values or types that cannot be used
	// where a different type is required.
	ErrType = errors.New("type error")
	// ErrInput is the category for malformed input values: failed
	// inference, unparsable type strings, invalid literal payloads.
	ErrInput = errors.New("input error")
)

// CastError is returned when a type or a concrete value cannot be
// safely cast to the requested target type.
type CastError struct {
	From  DataType
	To    DataType
	Value any
}

func (e *CastError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("value %s cannot be safely cast to %s", FormatValue(e.Value), e.To)
	}
	return fmt.Sprintf("%s cannot be safely cast to %s", e.From, e.To)
}

func (e *CastError) Is(target error) bool { return target == ErrType }

// PrecedenceError is returned by HighestPrecedence when the input types
// span families with no common representative.
type PrecedenceError struct {
	Types []DataType
}

func (e *PrecedenceError) Error() string {
	names := make([]string, len(e.Types))
	for i, t := range e.Types {
		names[i] = t.String()
	}
	return "no common type for " + strings.Join(names, ", ")
}

func (e *PrecedenceError) Is(target error) bool { return target == ErrType }

// InferenceError is returned when a native value has no inferable
// DataType and none was given explicitly.
type InferenceError struct {
	Value any
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("datatype of value %v (%T) cannot be inferred", e.Value, e.Value)
}

func (e *InferenceError) Is(target error) bool { return target == ErrInput }
