package ops

import (
	"fmt"

	dt "github.com/hugr-lab/expr-go/datatypes"
)

// UnboundTable is a named base relation with a fixed schema. It is the
// only leaf a column expression can be rooted in.
type UnboundTable struct {
	name   string
	schema dt.Schema
	hash   uint64
}

// NewUnboundTable builds a base relation node.
func NewUnboundTable(name string, schema dt.Schema) (*UnboundTable, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: table name must not be empty", dt.ErrInput)
	}
	t := &UnboundTable{name: name, schema: schema}
	t.hash = hashNode(t)
	return t, nil
}

func (t *UnboundTable) node()        {}
func (t *UnboundTable) Kind() string { return "unbound_table" }

func (t *UnboundTable) Fields() []NodeField {
	return []NodeField{
		{Name: "name", Value: t.name},
		{Name: "schema", Value: t.schema},
	}
}

func (t *UnboundTable) Hash() uint64      { return t.hash }
func (t *UnboundTable) Name() string      { return t.name }
func (t *UnboundTable) Schema() dt.Schema { return t.schema }

// TableColumn projects one named column out of a base relation.
type TableColumn struct {
	table *UnboundTable
	name  string
	dtype dt.DataType
	hash  uint64
}

// NewTableColumn builds a column reference, failing when the relation
// has no column with that name.
func NewTableColumn(table *UnboundTable, name string) (*TableColumn, error) {
	typ, ok := table.Schema().Type(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a column of table %q", dt.ErrType, name, table.Name())
	}
	c := &TableColumn{table: table, name: name, dtype: typ}
	c.hash = hashNode(c)
	return c, nil
}

func (c *TableColumn) node()        {}
func (c *TableColumn) Kind() string { return "table_column" }

func (c *TableColumn) Fields() []NodeField {
	return []NodeField{
		{Name: "table", Value: c.table},
		{Name: "name", Value: c.name},
	}
}

func (c *TableColumn) Table() *UnboundTable { return c.table }
func (c *TableColumn) Type() dt.DataType    { return c.dtype }
func (c *TableColumn) Shape() Shape         { return ShapeColumn }
func (c *TableColumn) Hash() uint64         { return c.hash }
func (c *TableColumn) Name() (string, bool) { return c.name, true }

// Selection is a single-table projection of named value expressions.
type Selection struct {
	table      *UnboundTable
	selections []Value
	names      []string
	schema     dt.Schema
	hash       uint64
}

// NewSelection builds a projection of the given values over one base
// relation. Each value must be rooted in that relation only, and must
// carry a name: either an explicit entry in names, or the value's own
// resolved name. names may be nil or hold empty slots for values that
// resolve their own.
func NewSelection(table *UnboundTable, selections []Value, names []string) (*Selection, error) {
	if len(selections) == 0 {
		return nil, &ArityError{Min: 1, Got: 0}
	}
	if names != nil && len(names) != len(selections) {
		return nil, fmt.Errorf("%w: %d names for %d selections", dt.ErrInput, len(names), len(selections))
	}
	fields := make([]dt.Field, len(selections))
	resolved := make([]string, len(selections))
	for i, v := range selections {
		for _, root := range RootTables(v) {
			if root != table {
				return nil, &RelationError{Tables: []string{table.Name(), root.Name()}}
			}
		}
		name := ""
		if names != nil {
			name = names[i]
		}
		if name == "" {
			var ok bool
			if name, ok = v.Name(); !ok {
				return nil, fmt.Errorf("%w: selection %d has no name", dt.ErrInput, i)
			}
		}
		resolved[i] = name
		fields[i] = dt.Field{Name: name, Type: v.Type()}
	}
	schema, err := dt.NewSchema(fields...)
	if err != nil {
		return nil, err
	}
	s := &Selection{
		table:      table,
		selections: append([]Value(nil), selections...),
		names:      resolved,
		schema:     schema,
	}
	s.hash = hashNode(s)
	return s, nil
}

func (s *Selection) node()        {}
func (s *Selection) Kind() string { return "selection" }

func (s *Selection) Fields() []NodeField {
	return []NodeField{
		{Name: "table", Value: s.table},
		{Name: "selections", Value: s.selections},
		{Name: "names", Value: s.names},
	}
}

func (s *Selection) Table() *UnboundTable { return s.table }
func (s *Selection) Selections() []Value  { return s.selections }
func (s *Selection) Names() []string      { return s.names }
func (s *Selection) Schema() dt.Schema    { return s.schema }
func (s *Selection) Hash() uint64         { return s.hash }

// RootTables returns the distinct base relations a node transitively
// references, in first-visit order. Distinctness is by node identity.
func RootTables(n Node) []*UnboundTable {
	seen := make(map[Node]bool)
	var out []*UnboundTable
	var walk func(Node)
	walk = func(node Node) {
		if node == nil || seen[node] {
			return
		}
		seen[node] = true
		if t, ok := node.(*UnboundTable); ok {
			out = append(out, t)
			return
		}
		for _, f := range node.Fields() {
			switch v := f.Value.(type) {
			case Node:
				walk(v)
			case []Value:
				for _, el := range v {
					walk(el)
				}
			}
		}
	}
	walk(n)
	return out
}

// ToProjection promotes a value to a single-column projection of its
// root relation. Values rooted in zero or several base relations
// cannot be promoted.
func ToProjection(v Value) (*Selection, error) {
	roots := RootTables(v)
	switch len(roots) {
	case 1:
		return NewSelection(roots[0], []Value{v}, nil)
	case 0:
		return nil, fmt.Errorf("%w: expression references no base relation", ErrRelation)
	default:
		names := make([]string, len(roots))
		for i, t := range roots {
			names[i] = t.Name()
		}
		return nil, &RelationError{Tables: names}
	}
}
