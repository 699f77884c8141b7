package ops

import (
	"errors"
	"fmt"
	"strings"

	dt "github.com/hugr-lab/expr-go/datatypes"
)

// ErrRelation is the category for operations spanning ambiguous base
// relations. Type and input categories come from the datatypes package.
var ErrRelation = errors.New("relation error")

// ArgError wraps a rule failure with the operation and field it
// occurred in, so every construction error pinpoints its argument.
type ArgError struct {
	Op    string
	Field string
	Err   error
}

func (e *ArgError) Error() string {
	if e.Field == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Field + ": " + e.Err.Error()
}

func (e *ArgError) Unwrap() error { return e.Err }

// RuleError reports an argument that does not satisfy a field rule.
type RuleError struct {
	Rule  string
	Value any
	Type  dt.DataType
}

func (e *RuleError) Error() string {
	if e.Type.Kind != dt.KindInvalid && e.Type.Kind != "" {
		return fmt.Sprintf("expected %s, got %s", e.Rule, e.Type)
	}
	return fmt.Sprintf("expected %s, got %v (%T)", e.Rule, e.Value, e.Value)
}

func (e *RuleError) Is(target error) bool { return target == dt.ErrType }

// MemberError reports a value outside a fixed membership set.
type MemberError struct {
	Value   any
	Allowed []string
}

func (e *MemberError) Error() string {
	return fmt.Sprintf("value %v is not one of %s", e.Value, strings.Join(e.Allowed, ", "))
}

func (e *MemberError) Is(target error) bool { return target == dt.ErrInput }

// ArityError reports a sequence field below its minimum length.
type ArityError struct {
	Min int
	Got int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("requires at least %d elements, got %d", e.Min, e.Got)
}

func (e *ArityError) Is(target error) bool { return target == dt.ErrInput }

// RelationError reports an operation that spans multiple base
// relations where a single one is required.
type RelationError struct {
	Tables []string
}

func (e *RelationError) Error() string {
	return "expression involves multiple base relations: " + strings.Join(e.Tables, ", ")
}

func (e *RelationError) Is(target error) bool { return target == ErrRelation }
