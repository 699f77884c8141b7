package ops

import (
	"fmt"

	dt "github.com/hugr-lab/expr-go/datatypes"
)

// shapeOf promotes the shapes of the named value fields; with no names
// every field contributes. Nodes with no shape-bearing fields are
// scalar.
func shapeOf(op *Op, fields ...string) Shape {
	shape := ShapeScalar
	collect := func(v any) {
		switch x := v.(type) {
		case Value:
			shape = shape.Promote(x.Shape())
		case []Value:
			for _, el := range x {
				shape = shape.Promote(el.Shape())
			}
		}
	}
	if len(fields) == 0 {
		for _, f := range op.fields {
			collect(f)
		}
		return shape
	}
	for _, name := range fields {
		v, _ := op.Field(name)
		collect(v)
	}
	return shape
}

// typesOf collects the data types of the named value fields, expanding
// sequences and skipping absent optionals.
func typesOf(op *Op, fields ...string) []dt.DataType {
	var out []dt.DataType
	collect := func(v any) {
		switch x := v.(type) {
		case Value:
			out = append(out, x.Type())
		case []Value:
			for _, el := range x {
				out = append(out, el.Type())
			}
		}
	}
	if len(fields) == 0 {
		for _, f := range op.fields {
			collect(f)
		}
		return out
	}
	for _, name := range fields {
		v, _ := op.Field(name)
		collect(v)
	}
	return out
}

// ShapeLike returns an output rule with a fixed data type and the shape
// promoted from the named fields, or from all fields when none are
// named.
func ShapeLike(dtype dt.DataType, fields ...string) OutputRule {
	return func(op *Op) (dt.DataType, Shape, error) {
		return dtype, shapeOf(op, fields...), nil
	}
}

// SameTypeAs returns an output rule propagating the named field's data
// type, with shape promoted from all fields.
func SameTypeAs(field string) OutputRule {
	return func(op *Op) (dt.DataType, Shape, error) {
		v := op.Arg(field)
		if v == nil {
			return dt.DataType{}, ShapeScalar, fmt.Errorf("%w: missing field %s", dt.ErrInput, field)
		}
		return v.Type(), shapeOf(op), nil
	}
}

// Promoted returns an output rule resolving the named fields to their
// highest-precedence common type, with shape promoted from all fields.
func Promoted(fields ...string) OutputRule {
	return func(op *Op) (dt.DataType, Shape, error) {
		t, err := dt.HighestPrecedence(typesOf(op, fields...))
		if err != nil {
			return dt.DataType{}, ShapeScalar, err
		}
		return t, shapeOf(op), nil
	}
}

// Comparable returns an output rule requiring the named fields to share
// a common type and yielding a fixed output type.
func Comparable(output dt.DataType, fields ...string) OutputRule {
	return func(op *Op) (dt.DataType, Shape, error) {
		if _, err := dt.HighestPrecedence(typesOf(op, fields...)); err != nil {
			return dt.DataType{}, ShapeScalar, err
		}
		return output, shapeOf(op), nil
	}
}

// Reduced returns an output rule for aggregations: a fixed data type
// and always scalar shape.
func Reduced(dtype dt.DataType) OutputRule {
	return func(op *Op) (dt.DataType, Shape, error) {
		return dtype, ShapeScalar, nil
	}
}

// ReducedAs returns an output rule for aggregations propagating the
// named field's data type at scalar shape.
func ReducedAs(field string) OutputRule {
	return func(op *Op) (dt.DataType, Shape, error) {
		v := op.Arg(field)
		if v == nil {
			return dt.DataType{}, ShapeScalar, fmt.Errorf("%w: missing field %s", dt.ErrInput, field)
		}
		return v.Type(), ShapeScalar, nil
	}
}
