package expr

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"
	"sync"

	dt "github.com/hugr-lab/expr-go/datatypes"
	"github.com/hugr-lab/expr-go/ops"
)

// Value is the read surface shared by every typed view: the bound graph
// node, its output contract, and name resolution. Concrete views add
// the fluent builder methods of their type family.
type Value interface {
	// Op returns the bound graph node.
	Op() ops.Value

	// Type returns the node's output data type.
	Type() dt.DataType

	// Shape reports whether the value is a scalar or a column.
	Shape() ops.Shape

	// HasName reports whether the view resolves to a name, either an
	// explicit override or the node's structural name.
	HasName() bool

	// GetName returns the resolved name, or an error when the view has
	// none.
	GetName() (string, error)

	// Equal reports structural equality: effective names, data types
	// and bound nodes must all match.
	Equal(other Value) bool

	// Hash returns a structural hash consistent with Equal.
	Hash() uint64

	// String renders the expression graph, see Render.
	String() string
}

// view is the immutable core every concrete view embeds: a graph node
// plus an optional name override. Fluent methods never mutate it; they
// build new nodes and wrap them in fresh views.
type view struct {
	node  ops.Value
	alias string
	named bool
}

func (v view) Op() ops.Value     { return v.node }
func (v view) Type() dt.DataType { return v.node.Type() }
func (v view) Shape() ops.Shape  { return v.node.Shape() }

// renamed returns a copy of the core with the override applied.
func (v view) renamed(name string) view {
	v.alias = name
	v.named = true
	return v
}

// nameOverride reports the explicit override without falling back to
// the node's structural name.
func (v view) nameOverride() (string, bool) {
	if v.named {
		return v.alias, true
	}
	return "", false
}

// effectiveName resolves the override first, then asks the node for
// its structural name.
func (v view) effectiveName() (string, bool) {
	if v.named {
		return v.alias, true
	}
	return v.node.Name()
}

func (v view) HasName() bool {
	_, ok := v.effectiveName()
	return ok
}

func (v view) GetName() (string, error) {
	name, ok := v.effectiveName()
	if !ok {
		return "", fmt.Errorf("%w: expression has no name", dt.ErrInput)
	}
	return name, nil
}

func (v view) Equal(other Value) bool {
	if other == nil {
		return false
	}
	name, ok := v.effectiveName()
	otherName, otherOk := "", other.HasName()
	if otherOk {
		otherName, _ = other.GetName()
	}
	if ok != otherOk || name != otherName {
		return false
	}
	if !v.Type().Equals(other.Type()) {
		return false
	}
	return ops.Equal(v.node, other.Op())
}

func (v view) Hash() uint64 {
	name, ok := v.effectiveName()
	if !ok {
		return v.node.Hash()
	}
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v.node.Hash())
	h.Write(buf[:])
	io.WriteString(h, name)
	return h.Sum64()
}

func (v view) String() string { return Render(v) }

// AnyValue is the fallback view for values with no family-specific
// surface: nulls and UUIDs.
type AnyValue struct{ view }

// Name returns a copy of the view with its resolved name overridden.
func (v *AnyValue) Name(name string) *AnyValue { return &AnyValue{v.view.renamed(name)} }

// BinaryValue wraps raw byte values.
type BinaryValue struct{ view }

// Name returns a copy of the view with its resolved name overridden.
func (v *BinaryValue) Name(name string) *BinaryValue { return &BinaryValue{v.view.renamed(name)} }

// WithName applies a name override while keeping the concrete view
// type of v.
func WithName(v Value, name string) Value { return renameValue(v, name) }

func renameValue(v Value, name string) Value {
	switch x := v.(type) {
	case *AnyValue:
		return x.Name(name)
	case *BooleanValue:
		return x.Name(name)
	case *NumericValue:
		return x.Name(name)
	case *StringValue:
		return x.Name(name)
	case *BinaryValue:
		return x.Name(name)
	case *TemporalValue:
		return x.Name(name)
	case *ArrayValue:
		return x.Name(name)
	case *MapValue:
		return x.Name(name)
	case *StructValue:
		return x.Name(name)
	case *GeoSpatialValue:
		return x.Name(name)
	}
	panic(fmt.Sprintf("expr: unhandled view type %T", v))
}

// The dispatch table maps a node's (type family, shape) to the view
// constructor wrapping it. It is populated once at init and read-only
// afterwards; both shapes of a family share the family's view type,
// with the shape carried by the node itself.
type dispatchKey struct {
	family dt.Family
	shape  ops.Shape
}

var dispatch map[dispatchKey]func(view) Value

func init() {
	ctors := map[dt.Family]func(view) Value{
		dt.FamilyNull:       func(v view) Value { return &AnyValue{v} },
		dt.FamilyBoolean:    func(v view) Value { return &BooleanValue{v} },
		dt.FamilyNumeric:    func(v view) Value { return &NumericValue{v} },
		dt.FamilyString:     func(v view) Value { return &StringValue{v} },
		dt.FamilyBinary:     func(v view) Value { return &BinaryValue{v} },
		dt.FamilyTemporal:   func(v view) Value { return &TemporalValue{v} },
		dt.FamilyArray:      func(v view) Value { return &ArrayValue{v} },
		dt.FamilyMap:        func(v view) Value { return &MapValue{v} },
		dt.FamilyStruct:     func(v view) Value { return &StructValue{v} },
		dt.FamilyUUID:       func(v view) Value { return &AnyValue{v} },
		dt.FamilyGeoSpatial: func(v view) Value { return &GeoSpatialValue{v} },
	}
	dispatch = make(map[dispatchKey]func(view) Value, 2*len(ctors))
	for family, ctor := range ctors {
		dispatch[dispatchKey{family, ops.ShapeScalar}] = ctor
		dispatch[dispatchKey{family, ops.ShapeColumn}] = ctor
	}
	// Every constructible family must dispatch in both shapes before
	// any value is wrapped. A hole here is an inconsistency between
	// this package and the type lattice, not a user error.
	for _, family := range dt.Families {
		for _, shape := range []ops.Shape{ops.ShapeScalar, ops.ShapeColumn} {
			if _, ok := dispatch[dispatchKey{family, shape}]; !ok {
				panic(fmt.Sprintf("expr: no view registered for %s %s values", family, shape))
			}
		}
	}
}

// Wrap binds a graph node to the concrete view of its type family.
func Wrap(node ops.Value) Value {
	key := dispatchKey{family: node.Type().Family(), shape: node.Shape()}
	ctor, ok := dispatch[key]
	if !ok {
		panic(fmt.Sprintf("expr: no view registered for %s %s values", key.family, key.shape))
	}
	return ctor(view{node: node})
}

var (
	nullOnce sync.Once
	nullView *AnyValue
)

// Null returns the process-wide untyped null view, created once on
// first use. Both the view and the literal node under it are shared:
// two calls yield the identical instance.
func Null() *AnyValue {
	nullOnce.Do(func() {
		nullView = &AnyValue{view{node: ops.NullLiteral()}}
	})
	return nullView
}
