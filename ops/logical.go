package ops

import (
	dt "github.com/hugr-lab/expr-go/datatypes"
)

func binaryBooleanDef(name string) *OpDef {
	return Register(&OpDef{
		Name: name,
		Fields: []FieldSpec{
			{Name: "left", Rule: BooleanValue},
			{Name: "right", Rule: BooleanValue},
		},
		Output: ShapeLike(dt.Boolean),
	})
}

func comparisonDef(name string) *OpDef {
	return Register(&OpDef{
		Name: name,
		Fields: []FieldSpec{
			{Name: "left", Rule: AnyValue},
			{Name: "right", Rule: AnyValue},
		},
		Output: Comparable(dt.Boolean, "left", "right"),
	})
}

var (
	andDef = binaryBooleanDef("and")
	orDef  = binaryBooleanDef("or")
	xorDef = binaryBooleanDef("xor")

	notDef = Register(&OpDef{
		Name:   "not",
		Fields: []FieldSpec{{Name: "value", Rule: BooleanValue}},
		Output: ShapeLike(dt.Boolean),
	})

	equalsDef       = comparisonDef("equals")
	notEqualsDef    = comparisonDef("not_equals")
	greaterDef      = comparisonDef("greater")
	greaterEqualDef = comparisonDef("greater_equal")
	lessDef         = comparisonDef("less")
	lessEqualDef    = comparisonDef("less_equal")
)

// And is logical conjunction.
func And(left, right any) (*Op, error) { return Build(andDef, left, right) }

// Or is logical disjunction.
func Or(left, right any) (*Op, error) { return Build(orDef, left, right) }

// Xor is logical exclusive or.
func Xor(left, right any) (*Op, error) { return Build(xorDef, left, right) }

// Not is logical negation.
func Not(value any) (*Op, error) { return Build(notDef, value) }

// Equals compares two values for equality. Both sides must share a
// common type.
func Equals(left, right any) (*Op, error) { return Build(equalsDef, left, right) }

// NotEquals compares two values for inequality.
func NotEquals(left, right any) (*Op, error) { return Build(notEqualsDef, left, right) }

// Greater compares left > right.
func Greater(left, right any) (*Op, error) { return Build(greaterDef, left, right) }

// GreaterEqual compares left >= right.
func GreaterEqual(left, right any) (*Op, error) { return Build(greaterEqualDef, left, right) }

// Less compares left < right.
func Less(left, right any) (*Op, error) { return Build(lessDef, left, right) }

// LessEqual compares left <= right.
func LessEqual(left, right any) (*Op, error) { return Build(lessEqualDef, left, right) }

var whereDef = Register(&OpDef{
	Name: "where",
	Fields: []FieldSpec{
		{Name: "condition", Rule: BooleanValue},
		{Name: "true_value", Rule: AnyValue},
		{Name: "false_value", Rule: AnyValue},
	},
	Output: Promoted("true_value", "false_value"),
})

// Where yields trueValue where condition holds and falseValue
// elsewhere. Both branches must share a common type.
func Where(condition, trueValue, falseValue any) (*Op, error) {
	return Build(whereDef, condition, trueValue, falseValue)
}
