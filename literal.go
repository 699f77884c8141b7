package expr

import (
	"fmt"

	dt "github.com/hugr-lab/expr-go/datatypes"
	"github.com/hugr-lab/expr-go/ops"
)

// Literal builds a scalar expression from a Go value. With no explicit
// type the narrowest type is inferred from the value. An explicit type
// may be given as a DataType or a type string; the value must then be
// of that type or implicitly castable to it.
//
// A nil value yields the null literal, or a typed null when an
// explicit nullable type is given. Passing an existing literal
// expression returns it unchanged, retyped when an explicit type is
// given.
func Literal(value any, dtype ...any) (Value, error) {
	if len(dtype) > 1 {
		return nil, fmt.Errorf("%w: at most one explicit type, got %d", dt.ErrInput, len(dtype))
	}
	var explicit dt.DataType
	hasExplicit := false
	if len(dtype) == 1 && dtype[0] != nil {
		t, err := resolveType(dtype[0])
		if err != nil {
			return nil, err
		}
		explicit, hasExplicit = t, true
	}

	if v, ok := value.(Value); ok {
		lit, isLit := v.Op().(*ops.Literal)
		if !isLit {
			return nil, fmt.Errorf("%w: cannot build a literal from a %s expression", dt.ErrInput, v.Op().Kind())
		}
		if !hasExplicit || explicit.Equals(lit.Type()) {
			return v, nil
		}
		return Literal(lit.Value(), explicit)
	}

	if value == nil {
		switch {
		case !hasExplicit:
			return Null(), nil
		case explicit.IsNull():
			return Null(), nil
		case !explicit.Nullable:
			return nil, &dt.CastError{From: dt.Null, To: explicit}
		default:
			return wrapCast(ops.Cast(ops.NullLiteral(), explicit))
		}
	}

	inferred, inferErr := dt.Infer(value)
	var resolved dt.DataType
	switch {
	case hasExplicit && inferErr == nil:
		if !inferred.Equals(explicit) && !dt.CastableValue(inferred, explicit, value) {
			return nil, &dt.CastError{From: inferred, To: explicit, Value: value}
		}
		resolved = explicit
	case hasExplicit:
		resolved = explicit
	case inferErr == nil:
		resolved = inferred
	default:
		return nil, inferErr
	}

	lit, err := ops.NewLiteral(value, resolved)
	if err != nil {
		return nil, err
	}
	return Wrap(lit), nil
}

func wrapCast(node ops.Value, err error) (Value, error) {
	if err != nil {
		return nil, err
	}
	return Wrap(node), nil
}

// Sequence builds a column of literal rows from the given values.
// Expressions pass through unchanged; raw values become inferred
// literals. All elements must share a comparable type.
func Sequence(values ...any) (*ArrayValue, error) {
	nodes := make([]ops.Value, len(values))
	for i, raw := range values {
		v, err := ops.AsValue(raw)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		nodes[i] = v
	}
	list, err := ops.NewValueList(nodes)
	if err != nil {
		return nil, err
	}
	return Wrap(list).(*ArrayValue), nil
}
