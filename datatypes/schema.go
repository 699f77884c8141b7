package datatypes

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Field is one named column of a Schema.
type Field struct {
	Name string
	Type DataType
}

// Schema is an ordered, name-unique list of typed columns describing a
// base relation. Schemas are immutable once built.
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema builds a schema from ordered fields. Empty and duplicate
// column names are rejected.
func NewSchema(fields ...Field) (Schema, error) {
	index := make(map[string]int, len(fields))
	copied := make([]Field, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return Schema{}, fmt.Errorf("%w: schema field %d has an empty name", ErrInput, i)
		}
		if _, exists := index[f.Name]; exists {
			return Schema{}, fmt.Errorf("%w: duplicate schema field %q", ErrInput, f.Name)
		}
		index[f.Name] = i
		copied[i] = f
	}
	return Schema{fields: copied, index: index}, nil
}

// Len returns the number of columns.
func (s Schema) Len() int { return len(s.fields) }

// Fields returns a copy of the ordered column list.
func (s Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field returns the i-th column.
func (s Schema) Field(i int) Field { return s.fields[i] }

// Names returns the column names in order.
func (s Schema) Names() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// Type returns the type of the named column.
func (s Schema) Type(name string) (DataType, bool) {
	i, ok := s.index[name]
	if !ok {
		return DataType{}, false
	}
	return s.fields[i].Type, true
}

// Has reports whether the schema contains the named column.
func (s Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Equals reports whether two schemas have the same columns in the same
// order with structurally equal types.
func (s Schema) Equals(other Schema) bool {
	if len(s.fields) != len(other.fields) {
		return false
	}
	for i, f := range s.fields {
		if f.Name != other.fields[i].Name || !f.Type.Equals(other.fields[i].Type) {
			return false
		}
	}
	return true
}

// String renders the schema as "name: type, ..." in column order.
func (s Schema) String() string {
	var sb strings.Builder
	for i, f := range s.fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		sb.WriteString(f.Type.String())
	}
	return sb.String()
}

// Hash returns a structural hash consistent with Equals.
func (s Schema) Hash() uint64 {
	h := fnv.New64a()
	for _, f := range s.fields {
		h.Write([]byte(f.Name))
		h.Write([]byte{0})
		var sb strings.Builder
		f.Type.render(&sb, false)
		h.Write([]byte(sb.String()))
		h.Write([]byte{0})
	}
	return h.Sum64()
}
