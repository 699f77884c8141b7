package expr

import "github.com/hugr-lab/expr-go/ops"

// ArrayValue is the view over array expressions.
type ArrayValue struct{ view }

// Name returns a renamed copy.
func (a *ArrayValue) Name(name string) *ArrayValue {
	return &ArrayValue{a.renamed(name)}
}

// Length yields the element count.
func (a *ArrayValue) Length() *NumericValue { return mustNumeric(ops.ArrayLength(a.node)) }

// Index yields the element at the given position. The result view
// follows the element type and is nullable, out-of-range access being
// null.
func (a *ArrayValue) Index(index any) (Value, error) {
	return wrap(ops.ArrayIndex(a.node, index))
}

// Slice extracts the elements in [start, stop). Either bound may be
// nil to leave that side open.
func (a *ArrayValue) Slice(start, stop any) (*ArrayValue, error) {
	return wrapArray(ops.ArraySlice(a.node, start, stop))
}

// Concat appends the elements of other.
func (a *ArrayValue) Concat(other any) (*ArrayValue, error) {
	return wrapArray(ops.ArrayConcat(a.node, other))
}

// Repeat concatenates the array with itself the given number of times.
func (a *ArrayValue) Repeat(times any) (*ArrayValue, error) {
	return wrapArray(ops.ArrayRepeat(a.node, times))
}

// MapValue is the view over map expressions.
type MapValue struct{ view }

// Name returns a renamed copy.
func (m *MapValue) Name(name string) *MapValue {
	return &MapValue{m.renamed(name)}
}

// Length yields the entry count.
func (m *MapValue) Length() *NumericValue { return mustNumeric(ops.MapLength(m.node)) }

// Keys yields the map keys as an array.
func (m *MapValue) Keys() *ArrayValue { return mustArray(ops.MapKeys(m.node)) }

// Values yields the map values as an array.
func (m *MapValue) Values() *ArrayValue { return mustArray(ops.MapValues(m.node)) }

// Get yields the value stored under key, null when absent.
func (m *MapValue) Get(key any) (Value, error) {
	return wrap(ops.MapValueForKey(m.node, key))
}

// GetOrDefault yields the value stored under key, falling back to def
// when absent.
func (m *MapValue) GetOrDefault(key, def any) (Value, error) {
	return wrap(ops.MapValueOrDefaultForKey(m.node, key, def))
}

// Concat merges with other, entries of other winning on key clashes.
func (m *MapValue) Concat(other any) (*MapValue, error) {
	return wrapMap(ops.MapConcat(m.node, other))
}

// StructValue is the view over struct expressions.
type StructValue struct{ view }

// Name returns a renamed copy.
func (s *StructValue) Name(name string) *StructValue {
	return &StructValue{s.renamed(name)}
}

// Names lists the struct field names in declaration order.
func (s *StructValue) Names() []string {
	fields, _ := s.Type().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// Field yields the named field. The result view follows the field
// type and carries the field name.
func (s *StructValue) Field(name string) (Value, error) {
	return wrap(ops.StructFieldValue(s.node, name))
}
