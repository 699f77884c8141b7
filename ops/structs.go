package ops

import (
	"fmt"

	dt "github.com/hugr-lab/expr-go/datatypes"
)

var structFieldDef = Register(&OpDef{
	Name: "struct_field",
	Fields: []FieldSpec{
		{Name: "value", Rule: StructValue},
		{Name: "field", Rule: StringConfig},
	},
	Output: func(op *Op) (dt.DataType, Shape, error) {
		t := op.Arg("value").Type()
		name, _ := op.Field("field")
		fieldType, ok := t.FieldType(name.(string))
		if !ok {
			return dt.DataType{}, ShapeScalar, fmt.Errorf("%w: %q is not a field of %s", dt.ErrType, name, t)
		}
		return fieldType, shapeOf(op), nil
	},
	NamedAs: func(op *Op) (string, bool) {
		name, _ := op.Field("field")
		return name.(string), true
	},
})

// StructFieldValue projects one named field out of a struct value. The
// result resolves the field name as its own.
func StructFieldValue(value any, field string) (*Op, error) {
	return Build(structFieldDef, value, field)
}
