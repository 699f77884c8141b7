package ops

import (
	"fmt"

	dt "github.com/hugr-lab/expr-go/datatypes"
)

var mapLengthDef = Register(&OpDef{
	Name:   "map_length",
	Fields: []FieldSpec{{Name: "value", Rule: MappingValue}},
	Output: ShapeLike(dt.Int64),
})

// MapLength yields the number of entries in a map.
func MapLength(value any) (*Op, error) { return Build(mapLengthDef, value) }

var mapValueForKeyDef = Register(&OpDef{
	Name: "map_value_for_key",
	Fields: []FieldSpec{
		{Name: "value", Rule: MappingValue},
		{Name: "key", Rule: OneOf(StringValue, IntegerValue)},
	},
	Output: func(op *Op) (dt.DataType, Shape, error) {
		_, valueType, _ := op.Arg("value").Type().KeyValue()
		return valueType, shapeOf(op), nil
	},
})

// MapValueForKey yields the value stored under key.
func MapValueForKey(value, key any) (*Op, error) {
	return Build(mapValueForKeyDef, value, key)
}

var mapValueOrDefaultDef = Register(&OpDef{
	Name: "map_value_or_default_for_key",
	Fields: []FieldSpec{
		{Name: "value", Rule: MappingValue},
		{Name: "key", Rule: OneOf(StringValue, IntegerValue)},
		{Name: "default", Rule: AnyValue},
	},
	Output: func(op *Op) (dt.DataType, Shape, error) {
		_, valueType, _ := op.Arg("value").Type().KeyValue()
		def := op.Arg("default")
		defaultType := def.Type()
		if !dt.SameKind(defaultType, valueType) {
			return dt.DataType{}, ShapeScalar, fmt.Errorf(
				"%w: default value %s of type %s cannot be cast to map value type %s",
				dt.ErrType, describeValue(def), defaultType, valueType)
		}
		t, err := dt.HighestPrecedence([]dt.DataType{defaultType, valueType})
		if err != nil {
			return dt.DataType{}, ShapeScalar, err
		}
		return t, shapeOf(op), nil
	},
})

// MapValueOrDefaultForKey yields the value stored under key, or the
// default when the key is absent. The default must share the value
// type's kind; the result type is their common type.
func MapValueOrDefaultForKey(value, key, def any) (*Op, error) {
	return Build(mapValueOrDefaultDef, value, key, def)
}

var mapKeysDef = Register(&OpDef{
	Name:   "map_keys",
	Fields: []FieldSpec{{Name: "value", Rule: MappingValue}},
	Output: func(op *Op) (dt.DataType, Shape, error) {
		keyType, _, _ := op.Arg("value").Type().KeyValue()
		return dt.ArrayOf(keyType), shapeOf(op), nil
	},
})

// MapKeys yields the keys of a map as an array.
func MapKeys(value any) (*Op, error) { return Build(mapKeysDef, value) }

var mapValuesDef = Register(&OpDef{
	Name:   "map_values",
	Fields: []FieldSpec{{Name: "value", Rule: MappingValue}},
	Output: func(op *Op) (dt.DataType, Shape, error) {
		_, valueType, _ := op.Arg("value").Type().KeyValue()
		return dt.ArrayOf(valueType), shapeOf(op), nil
	},
})

// MapValues yields the values of a map as an array.
func MapValues(value any) (*Op, error) { return Build(mapValuesDef, value) }

var mapConcatDef = Register(&OpDef{
	Name: "map_concat",
	Fields: []FieldSpec{
		{Name: "left", Rule: MappingValue},
		{Name: "right", Rule: MappingValue},
	},
	Output: SameTypeAs("left"),
})

// MapConcat merges two maps; on duplicate keys the right side wins.
func MapConcat(left, right any) (*Op, error) { return Build(mapConcatDef, left, right) }

// describeValue renders a value for error text: literals by their
// payload, everything else by node kind.
func describeValue(v Value) string {
	if lit, ok := v.(*Literal); ok {
		return dt.FormatValue(lit.Value())
	}
	return v.Kind()
}
