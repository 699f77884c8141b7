package expr

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	dt "github.com/hugr-lab/expr-go/datatypes"
	"github.com/hugr-lab/expr-go/ops"
)

// Table names a base relation with a known schema. It is the source of
// column expressions; the relation itself stays unbound until a
// backend picks the graph up.
type Table struct {
	node *ops.UnboundTable
}

// NewTable declares a base relation.
func NewTable(name string, schema dt.Schema) (*Table, error) {
	node, err := ops.NewUnboundTable(name, schema)
	if err != nil {
		return nil, err
	}
	return &Table{node: node}, nil
}

// TableFromArrow declares a base relation from an Arrow schema.
func TableFromArrow(name string, schema *arrow.Schema) (*Table, error) {
	s, err := dt.SchemaFromArrow(schema)
	if err != nil {
		return nil, err
	}
	return NewTable(name, s)
}

// Name returns the relation name.
func (t *Table) Name() string { return t.node.Name() }

// Schema returns the relation schema.
func (t *Table) Schema() dt.Schema { return t.node.Schema() }

// Op returns the underlying relation node.
func (t *Table) Op() *ops.UnboundTable { return t.node }

// Column yields the named column as a value of the matching view.
func (t *Table) Column(name string) (Value, error) {
	node, err := ops.NewTableColumn(t.node, name)
	if err != nil {
		return nil, err
	}
	return Wrap(node), nil
}

// ColumnTypeError reports a typed column accessor applied to a column
// of another family.
type ColumnTypeError struct {
	Table  string
	Column string
	Type   dt.DataType
	Want   dt.Family
}

func (e *ColumnTypeError) Error() string {
	return fmt.Sprintf("column %s.%s is %s, not %s", e.Table, e.Column, e.Type, e.Want)
}

func (e *ColumnTypeError) Is(target error) bool { return target == dt.ErrType }

func (t *Table) columnOfFamily(name string, want dt.Family) (Value, error) {
	v, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if v.Type().Family() != want {
		return nil, &ColumnTypeError{Table: t.Name(), Column: name, Type: v.Type(), Want: want}
	}
	return v, nil
}

// BooleanColumn yields the named column as a boolean view.
func (t *Table) BooleanColumn(name string) (*BooleanValue, error) {
	v, err := t.columnOfFamily(name, dt.FamilyBoolean)
	if err != nil {
		return nil, err
	}
	return v.(*BooleanValue), nil
}

// NumericColumn yields the named column as a numeric view.
func (t *Table) NumericColumn(name string) (*NumericValue, error) {
	v, err := t.columnOfFamily(name, dt.FamilyNumeric)
	if err != nil {
		return nil, err
	}
	return v.(*NumericValue), nil
}

// StringColumn yields the named column as a string view.
func (t *Table) StringColumn(name string) (*StringValue, error) {
	v, err := t.columnOfFamily(name, dt.FamilyString)
	if err != nil {
		return nil, err
	}
	return v.(*StringValue), nil
}

// TemporalColumn yields the named column as a temporal view.
func (t *Table) TemporalColumn(name string) (*TemporalValue, error) {
	v, err := t.columnOfFamily(name, dt.FamilyTemporal)
	if err != nil {
		return nil, err
	}
	return v.(*TemporalValue), nil
}

// ArrayColumn yields the named column as an array view.
func (t *Table) ArrayColumn(name string) (*ArrayValue, error) {
	v, err := t.columnOfFamily(name, dt.FamilyArray)
	if err != nil {
		return nil, err
	}
	return v.(*ArrayValue), nil
}

// MapColumn yields the named column as a map view.
func (t *Table) MapColumn(name string) (*MapValue, error) {
	v, err := t.columnOfFamily(name, dt.FamilyMap)
	if err != nil {
		return nil, err
	}
	return v.(*MapValue), nil
}

// StructColumn yields the named column as a struct view.
func (t *Table) StructColumn(name string) (*StructValue, error) {
	v, err := t.columnOfFamily(name, dt.FamilyStruct)
	if err != nil {
		return nil, err
	}
	return v.(*StructValue), nil
}

// GeoColumn yields the named column as a geospatial view.
func (t *Table) GeoColumn(name string) (*GeoSpatialValue, error) {
	v, err := t.columnOfFamily(name, dt.FamilyGeoSpatial)
	if err != nil {
		return nil, err
	}
	return v.(*GeoSpatialValue), nil
}

// Select builds a projection of the given expressions over this
// relation. Explicit names set through Name are kept; everything else
// falls back to the node naming convention. Every expression must
// derive from this relation alone.
func (t *Table) Select(values ...any) (*ops.Selection, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: select needs at least one expression", dt.ErrInput)
	}
	nodes := make([]ops.Value, len(values))
	names := make([]string, len(values))
	hasNames := false
	for i, raw := range values {
		v, err := ops.AsValue(raw)
		if err != nil {
			return nil, fmt.Errorf("selection %d: %w", i, err)
		}
		nodes[i] = v
		if o, ok := raw.(interface{ nameOverride() (string, bool) }); ok {
			if name, named := o.nameOverride(); named {
				names[i] = name
				hasNames = true
			}
		}
	}
	if !hasNames {
		names = nil
	}
	return ops.NewSelection(t.node, nodes, names)
}
