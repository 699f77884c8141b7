package ops

import (
	"fmt"

	dt "github.com/hugr-lab/expr-go/datatypes"
)

var castDef = Register(&OpDef{
	Name: "cast",
	Fields: []FieldSpec{
		{Name: "value", Rule: AnyValue},
		{Name: "to", Rule: TypeConfig},
	},
	Output: func(op *Op) (dt.DataType, Shape, error) {
		to, _ := op.Field("to")
		return to.(dt.DataType), shapeOf(op), nil
	},
	NamedAs: func(op *Op) (string, bool) {
		name, ok := op.Arg("value").Name()
		if !ok {
			return "", false
		}
		return "cast(" + name + ", " + op.Type().String() + ")", true
	},
})

// Cast converts a value to the target type. Casting to the value's own
// type is a no-op returning the value unchanged, as is casting between
// geospatial types of the same kind, which share a representation and
// differ only in spatial reference.
func Cast(value any, to dt.DataType) (Value, error) {
	v, err := AsValue(value)
	if err != nil {
		return nil, err
	}
	from := v.Type()
	if from.Equals(to) {
		return v, nil
	}
	if from.IsGeoSpatial() && to.IsGeoSpatial() && from.Kind == to.Kind {
		return v, nil
	}
	return Build(castDef, v, to)
}

var typeOfDef = Register(&OpDef{
	Name:   "typeof",
	Fields: []FieldSpec{{Name: "value", Rule: AnyValue}},
	Output: ShapeLike(dt.String),
})

// TypeOf yields the backend-reported type name of a value.
func TypeOf(value any) (*Op, error) { return Build(typeOfDef, value) }

var coalesceDef = Register(&OpDef{
	Name:   "coalesce",
	Fields: []FieldSpec{{Name: "values", Rule: ValueListOf(AnyValue, 1)}},
	Output: Promoted("values"),
})

// Coalesce yields the first non-null of its arguments.
func Coalesce(values ...any) (*Op, error) { return Build(coalesceDef, values) }

var greatestDef = Register(&OpDef{
	Name:   "greatest",
	Fields: []FieldSpec{{Name: "values", Rule: ValueListOf(AnyValue, 1)}},
	Output: Promoted("values"),
})

// Greatest yields the largest of its arguments.
func Greatest(values ...any) (*Op, error) { return Build(greatestDef, values) }

var leastDef = Register(&OpDef{
	Name:   "least",
	Fields: []FieldSpec{{Name: "values", Rule: ValueListOf(AnyValue, 1)}},
	Output: Promoted("values"),
})

// Least yields the smallest of its arguments.
func Least(values ...any) (*Op, error) { return Build(leastDef, values) }

var ifNullDef = Register(&OpDef{
	Name: "ifnull",
	Fields: []FieldSpec{
		{Name: "value", Rule: AnyValue},
		{Name: "fill", Rule: AnyValue},
	},
	Output: Promoted(),
})

// IfNull replaces nulls in value with fill.
func IfNull(value, fill any) (*Op, error) { return Build(ifNullDef, value, fill) }

var nullIfDef = Register(&OpDef{
	Name: "nullif",
	Fields: []FieldSpec{
		{Name: "value", Rule: AnyValue},
		{Name: "null_if", Rule: AnyValue},
	},
	Output: func(op *Op) (dt.DataType, Shape, error) {
		if _, err := dt.HighestPrecedence(typesOf(op)); err != nil {
			return dt.DataType{}, ShapeScalar, err
		}
		// The result can be null even when the input cannot.
		return op.Arg("value").Type().AsNullable(), shapeOf(op), nil
	},
})

// NullIf yields null where value equals nullIf, value otherwise.
func NullIf(value, nullIf any) (*Op, error) { return Build(nullIfDef, value, nullIf) }

var isNullDef = Register(&OpDef{
	Name:   "isnull",
	Fields: []FieldSpec{{Name: "value", Rule: AnyValue}},
	Output: ShapeLike(dt.Boolean),
})

// IsNull tests a value for null.
func IsNull(value any) (*Op, error) { return Build(isNullDef, value) }

var notNullDef = Register(&OpDef{
	Name:   "notnull",
	Fields: []FieldSpec{{Name: "value", Rule: AnyValue}},
	Output: ShapeLike(dt.Boolean),
})

// NotNull tests a value for non-null.
func NotNull(value any) (*Op, error) { return Build(notNullDef, value) }

var betweenDef = Register(&OpDef{
	Name: "between",
	Fields: []FieldSpec{
		{Name: "value", Rule: AnyValue},
		{Name: "lower", Rule: AnyValue},
		{Name: "upper", Rule: AnyValue},
	},
	Output: Comparable(dt.Boolean, "value", "lower", "upper"),
})

// Between tests whether value lies in [lower, upper].
func Between(value, lower, upper any) (*Op, error) {
	return Build(betweenDef, value, lower, upper)
}

var containsDef = Register(&OpDef{
	Name: "contains",
	Fields: []FieldSpec{
		{Name: "value", Rule: AnyValue},
		{Name: "options", Rule: ValueListOf(AnyValue, 1)},
	},
	Output: Comparable(dt.Boolean),
})

// Contains tests membership of value in options.
func Contains(value any, options ...any) (*Op, error) {
	return Build(containsDef, value, options)
}

var notContainsDef = Register(&OpDef{
	Name: "not_contains",
	Fields: []FieldSpec{
		{Name: "value", Rule: AnyValue},
		{Name: "options", Rule: ValueListOf(AnyValue, 1)},
	},
	Output: Comparable(dt.Boolean),
})

// NotContains tests non-membership of value in options.
func NotContains(value any, options ...any) (*Op, error) {
	return Build(notContainsDef, value, options)
}

var identicalToDef = Register(&OpDef{
	Name: "identical_to",
	Fields: []FieldSpec{
		{Name: "left", Rule: AnyValue},
		{Name: "right", Rule: AnyValue},
	},
	Output: Comparable(dt.Boolean, "left", "right"),
})

// IdenticalTo is null-safe equality: two nulls compare true.
func IdenticalTo(left, right any) (*Op, error) { return Build(identicalToDef, left, right) }

var hashDef = Register(&OpDef{
	Name: "hash",
	Fields: []FieldSpec{
		{Name: "value", Rule: AnyValue},
		{Name: "how", Rule: IsIn("fnv", "farm_fingerprint", "md5")},
	},
	Output: ShapeLike(dt.Int64),
})

// Hash yields an integer hash of a value using the named algorithm.
func Hash(value any, how string) (*Op, error) { return Build(hashDef, value, how) }

var simpleCaseDef = Register(&OpDef{
	Name: "simple_case",
	Fields: []FieldSpec{
		{Name: "base", Rule: AnyValue},
		{Name: "cases", Rule: ValueListOf(AnyValue, 1)},
		{Name: "results", Rule: ValueListOf(AnyValue, 1)},
		{Name: "default", Rule: Optional(AnyValue)},
	},
	Output: caseOutput("cases", true),
})

// SimpleCase compares base against each case in order and yields the
// matching result, or the default. The default may be nil.
func SimpleCase(base any, cases, results []any, def any) (*Op, error) {
	return Build(simpleCaseDef, base, cases, results, def)
}

var searchedCaseDef = Register(&OpDef{
	Name: "searched_case",
	Fields: []FieldSpec{
		{Name: "cases", Rule: ValueListOf(BooleanValue, 1)},
		{Name: "results", Rule: ValueListOf(AnyValue, 1)},
		{Name: "default", Rule: Optional(AnyValue)},
	},
	Output: caseOutput("cases", false),
})

// SearchedCase evaluates boolean cases in order and yields the matching
// result, or the default. The default may be nil.
func SearchedCase(cases, results []any, def any) (*Op, error) {
	return Build(searchedCaseDef, cases, results, def)
}

// caseOutput validates a case node: cases and results must pair up,
// and with compareBase the base must share a common type with every
// case. The output type is the highest precedence of the results and
// the default, forced nullable when no default is given.
func caseOutput(casesField string, compareBase bool) OutputRule {
	return func(op *Op) (dt.DataType, Shape, error) {
		cases := op.ArgList(casesField)
		results := op.ArgList("results")
		if len(cases) != len(results) {
			return dt.DataType{}, ShapeScalar, fmt.Errorf("%w: %d cases for %d results", dt.ErrInput, len(cases), len(results))
		}
		if compareBase {
			if _, err := dt.HighestPrecedence(typesOf(op, "base", casesField)); err != nil {
				return dt.DataType{}, ShapeScalar, err
			}
		}
		t, err := dt.HighestPrecedence(typesOf(op, "results", "default"))
		if err != nil {
			return dt.DataType{}, ShapeScalar, err
		}
		// Unmatched rows yield null when no default is given.
		if def, _ := op.Field("default"); def == nil {
			t = t.AsNullable()
		}
		return t, shapeOf(op), nil
	}
}
