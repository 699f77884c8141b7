package ops

import (
	"sync"

	dt "github.com/hugr-lab/expr-go/datatypes"
)

// Literal is a typed constant node carrying a normalized value.
type Literal struct {
	value any
	dtype dt.DataType
	hash  uint64
}

// NewLiteral builds a literal of the given type. The value is
// normalized to its canonical in-memory form and validated against the
// type, including range checks on narrowing conversions.
func NewLiteral(value any, dtype dt.DataType) (*Literal, error) {
	norm, err := dt.Normalize(dtype, value)
	if err != nil {
		return nil, err
	}
	l := &Literal{value: norm, dtype: dtype}
	l.hash = hashNode(l)
	return l, nil
}

var (
	nullOnce sync.Once
	nullLit  *Literal
)

// NullLiteral returns the process-wide typeless null literal, created
// once on first use.
func NullLiteral() *Literal {
	nullOnce.Do(func() {
		nullLit = &Literal{dtype: dt.Null}
		nullLit.hash = hashNode(nullLit)
	})
	return nullLit
}

func (l *Literal) node()        {}
func (l *Literal) Kind() string { return "literal" }

func (l *Literal) Fields() []NodeField {
	return []NodeField{
		{Name: "value", Value: l.value},
		{Name: "dtype", Value: l.dtype},
	}
}

// Value returns the normalized literal payload; nil for null literals.
func (l *Literal) Value() any { return l.value }

func (l *Literal) Type() dt.DataType    { return l.dtype }
func (l *Literal) Shape() Shape         { return ShapeScalar }
func (l *Literal) Hash() uint64         { return l.hash }
func (l *Literal) Name() (string, bool) { return "", false }

// ValueList is an explicit sequence of values. Unlike other leaf
// nodes it is column shaped, the container-literal exception to the
// default scalar shape.
type ValueList struct {
	values []Value
	dtype  dt.DataType
	hash   uint64
}

// NewValueList builds a sequence node from at least one value. Its
// data type is an array of the elements' highest-precedence common
// type.
func NewValueList(values []Value) (*ValueList, error) {
	if len(values) == 0 {
		return nil, &ArityError{Min: 1, Got: 0}
	}
	types := make([]dt.DataType, len(values))
	for i, v := range values {
		types[i] = v.Type()
	}
	elem, err := dt.HighestPrecedence(types)
	if err != nil {
		return nil, err
	}
	vl := &ValueList{values: append([]Value(nil), values...), dtype: dt.ArrayOf(elem)}
	vl.hash = hashNode(vl)
	return vl, nil
}

func (v *ValueList) node()        {}
func (v *ValueList) Kind() string { return "value_list" }

func (v *ValueList) Fields() []NodeField {
	return []NodeField{{Name: "values", Value: v.values}}
}

// Values returns the ordered elements.
func (v *ValueList) Values() []Value { return v.values }

func (v *ValueList) Type() dt.DataType    { return v.dtype }
func (v *ValueList) Shape() Shape         { return ShapeColumn }
func (v *ValueList) Hash() uint64         { return v.hash }
func (v *ValueList) Name() (string, bool) { return "", false }
