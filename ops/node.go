// Package ops defines the operation nodes of the expression graph: the
// catalog of definitions, the field rules that validate and coerce
// arguments, and the output contracts that derive each node's data
// type and shape.
package ops

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"io"
	"sort"
	"sync"

	dt "github.com/hugr-lab/expr-go/datatypes"
)

// Shape says whether a value is a single scalar or a columnar sequence.
type Shape string

const (
	ShapeScalar Shape = "scalar"
	ShapeColumn Shape = "column"
)

// Promote returns the wider of two shapes; any column input makes the
// result a column.
func (s Shape) Promote(other Shape) Shape {
	if s == ShapeColumn || other == ShapeColumn {
		return ShapeColumn
	}
	return ShapeScalar
}

// Node is one immutable vertex of the expression graph.
type Node interface {
	// Kind returns the catalog name of the node.
	Kind() string
	// Fields returns the ordered named fields: child nodes, node
	// sequences, data types, or configuration scalars.
	Fields() []NodeField
	// Hash returns the precomputed structural hash.
	Hash() uint64

	node()
}

// Value is a node that produces a typed result.
type Value interface {
	Node
	// Type returns the result data type.
	Type() dt.DataType
	// Shape returns the result shape.
	Shape() Shape
	// Name reports the structural name the node resolves to, if any.
	Name() (string, bool)
}

// NodeField is one named field of a node.
type NodeField struct {
	Name  string
	Value any
}

// FieldSpec declares one named, rule-checked field of an operation.
type FieldSpec struct {
	Name string
	Rule Rule
}

// OutputRule derives the output data type and shape of a fully coerced
// operation.
type OutputRule func(op *Op) (dt.DataType, Shape, error)

// OpDef declares one catalog operation: its name, its ordered field
// rules, its output contract, and optionally how instances resolve a
// structural name.
type OpDef struct {
	Name    string
	Fields  []FieldSpec
	Output  OutputRule
	NamedAs func(op *Op) (string, bool)
}

var registry = struct {
	mu   sync.RWMutex
	defs map[string]*OpDef
}{defs: make(map[string]*OpDef)}

// Register adds a definition to the process-wide catalog and returns
// it. It panics on duplicate names. Definitions are registered at
// package init, before any concurrent construction.
func Register(def *OpDef) *OpDef {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, ok := registry.defs[def.Name]; ok {
		panic("ops: duplicate operation " + def.Name)
	}
	registry.defs[def.Name] = def
	return def
}

// Lookup returns the registered definition with the given name.
func Lookup(name string) (*OpDef, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	def, ok := registry.defs[name]
	return def, ok
}

// Definitions returns the registered operation names in sorted order.
func Definitions() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	names := make([]string, 0, len(registry.defs))
	for name := range registry.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Op is a catalog operation instance: a definition plus coerced field
// values and the derived output contract.
type Op struct {
	def    *OpDef
	fields []any
	dtype  dt.DataType
	shape  Shape
	hash   uint64
}

// Build constructs an operation node from raw arguments. Arguments
// match the definition's fields positionally; each is coerced by its
// field rule, then the output contract derives the node's data type
// and shape.
func Build(def *OpDef, args ...any) (*Op, error) {
	if len(args) != len(def.Fields) {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", dt.ErrInput, def.Name, len(def.Fields), len(args))
	}
	op := &Op{def: def, fields: make([]any, len(args))}
	for i, spec := range def.Fields {
		v, err := spec.Rule.Coerce(args[i])
		if err != nil {
			return nil, &ArgError{Op: def.Name, Field: spec.Name, Err: err}
		}
		op.fields[i] = v
	}
	dtype, shape, err := def.Output(op)
	if err != nil {
		return nil, &ArgError{Op: def.Name, Err: err}
	}
	op.dtype = dtype
	op.shape = shape
	op.hash = hashNode(op)
	return op, nil
}

func (o *Op) node()        {}
func (o *Op) Kind() string { return o.def.Name }

func (o *Op) Fields() []NodeField {
	out := make([]NodeField, len(o.fields))
	for i, spec := range o.def.Fields {
		out[i] = NodeField{Name: spec.Name, Value: o.fields[i]}
	}
	return out
}

// Field returns the coerced value of the named field.
func (o *Op) Field(name string) (any, bool) {
	for i, spec := range o.def.Fields {
		if spec.Name == name {
			return o.fields[i], true
		}
	}
	return nil, false
}

// Arg returns the named field as a value node, or nil when the field
// is absent or not a value.
func (o *Op) Arg(name string) Value {
	v, _ := o.Field(name)
	val, _ := v.(Value)
	return val
}

// ArgList returns the named field as a value sequence.
func (o *Op) ArgList(name string) []Value {
	v, _ := o.Field(name)
	vals, _ := v.([]Value)
	return vals
}

func (o *Op) Type() dt.DataType { return o.dtype }
func (o *Op) Shape() Shape      { return o.shape }
func (o *Op) Hash() uint64      { return o.hash }

func (o *Op) Name() (string, bool) {
	if o.def.NamedAs == nil {
		return "", false
	}
	return o.def.NamedAs(o)
}

// Equal reports structural equality of two nodes. Shared subgraphs are
// compared once; node identity and hashes short-circuit the walk.
func Equal(a, b Node) bool {
	return nodeEqual(a, b, make(map[[2]Node]bool))
}

func nodeEqual(a, b Node, seen map[[2]Node]bool) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Hash() != b.Hash() || a.Kind() != b.Kind() {
		return false
	}
	key := [2]Node{a, b}
	if eq, ok := seen[key]; ok {
		return eq
	}
	// The graph is acyclic, so marking the pair before descending only
	// serves repeated shared pairs.
	seen[key] = true
	eq := fieldsEqual(a.Fields(), b.Fields(), seen)
	seen[key] = eq
	return eq
}

func fieldsEqual(a, b []NodeField, seen map[[2]Node]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			return false
		}
		if !fieldValueEqual(a[i].Value, b[i].Value, seen) {
			return false
		}
	}
	return true
}

func fieldValueEqual(a, b any, seen map[[2]Node]bool) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Node:
		y, ok := b.(Node)
		return ok && nodeEqual(x, y, seen)
	case []Value:
		y, ok := b.([]Value)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !nodeEqual(x[i], y[i], seen) {
				return false
			}
		}
		return true
	case dt.DataType:
		y, ok := b.(dt.DataType)
		return ok && x.Equals(y)
	case dt.Schema:
		y, ok := b.(dt.Schema)
		return ok && x.Equals(y)
	default:
		if fmt.Sprintf("%T", a) != fmt.Sprintf("%T", b) {
			return false
		}
		return dt.FormatValue(a) == dt.FormatValue(b)
	}
}

// hashNode computes the structural hash of a node from its kind and
// field values. Child hashes are folded in rather than re-walked.
func hashNode(n Node) uint64 {
	h := fnv.New64a()
	io.WriteString(h, n.Kind())
	for _, f := range n.Fields() {
		io.WriteString(h, f.Name)
		hashFieldValue(h, f.Value)
	}
	return h.Sum64()
}

func hashFieldValue(h hash.Hash64, v any) {
	var buf [8]byte
	switch x := v.(type) {
	case nil:
		h.Write([]byte{0})
	case Node:
		binary.LittleEndian.PutUint64(buf[:], x.Hash())
		h.Write(buf[:])
	case []Value:
		binary.LittleEndian.PutUint64(buf[:], uint64(len(x)))
		h.Write(buf[:])
		for _, el := range x {
			binary.LittleEndian.PutUint64(buf[:], el.Hash())
			h.Write(buf[:])
		}
	case dt.DataType:
		binary.LittleEndian.PutUint64(buf[:], x.Hash())
		h.Write(buf[:])
	case dt.Schema:
		binary.LittleEndian.PutUint64(buf[:], x.Hash())
		h.Write(buf[:])
	default:
		io.WriteString(h, fmt.Sprintf("%T=", v))
		io.WriteString(h, dt.FormatValue(v))
	}
}
