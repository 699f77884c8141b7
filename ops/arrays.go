package ops

import (
	dt "github.com/hugr-lab/expr-go/datatypes"
)

var arrayLengthDef = Register(&OpDef{
	Name:   "array_length",
	Fields: []FieldSpec{{Name: "value", Rule: ArrayValue}},
	Output: ShapeLike(dt.Int64),
})

// ArrayLength yields the number of elements in an array.
func ArrayLength(value any) (*Op, error) { return Build(arrayLengthDef, value) }

var arrayIndexDef = Register(&OpDef{
	Name: "array_index",
	Fields: []FieldSpec{
		{Name: "value", Rule: ArrayValue},
		{Name: "index", Rule: ValueOfType(dt.Int64)},
	},
	Output: func(op *Op) (dt.DataType, Shape, error) {
		elem, _ := op.Arg("value").Type().Elem()
		// Out-of-range access yields null.
		return elem.AsNullable(), shapeOf(op), nil
	},
})

// ArrayIndex yields the element at a zero-based index; negative
// indexes count from the end.
func ArrayIndex(value, index any) (*Op, error) { return Build(arrayIndexDef, value, index) }

var arrayConcatDef = Register(&OpDef{
	Name: "array_concat",
	Fields: []FieldSpec{
		{Name: "left", Rule: ArrayValue},
		{Name: "right", Rule: ArrayValue},
	},
	Output: Promoted("left", "right"),
})

// ArrayConcat joins two arrays of a common element type.
func ArrayConcat(left, right any) (*Op, error) { return Build(arrayConcatDef, left, right) }

var arrayRepeatDef = Register(&OpDef{
	Name: "array_repeat",
	Fields: []FieldSpec{
		{Name: "value", Rule: ArrayValue},
		{Name: "times", Rule: ValueOfType(dt.Int64)},
	},
	Output: SameTypeAs("value"),
})

// ArrayRepeat concatenates an array with itself the given number of
// times.
func ArrayRepeat(value, times any) (*Op, error) { return Build(arrayRepeatDef, value, times) }

var arraySliceDef = Register(&OpDef{
	Name: "array_slice",
	Fields: []FieldSpec{
		{Name: "value", Rule: ArrayValue},
		{Name: "start", Rule: ValueOfType(dt.Int64)},
		{Name: "stop", Rule: Optional(ValueOfType(dt.Int64))},
	},
	Output: SameTypeAs("value"),
})

// ArraySlice yields the elements in [start, stop); stop may be nil to
// slice to the end.
func ArraySlice(value, start, stop any) (*Op, error) {
	return Build(arraySliceDef, value, start, stop)
}
