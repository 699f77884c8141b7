package ops

import (
	"errors"
	"testing"

	dt "github.com/hugr-lab/expr-go/datatypes"
)

func testSchema(t *testing.T) dt.Schema {
	t.Helper()
	schema, err := dt.NewSchema(
		dt.Field{Name: "id", Type: dt.Int64.NonNullable()},
		dt.Field{Name: "name", Type: dt.String},
		dt.Field{Name: "age", Type: dt.Int32},
		dt.Field{Name: "weight", Type: dt.Float64},
		dt.Field{Name: "flag", Type: dt.Boolean},
		dt.Field{Name: "tags", Type: dt.ArrayOf(dt.String)},
		dt.Field{Name: "attrs", Type: dt.MapOf(dt.String, dt.Int64)},
		dt.Field{Name: "pos", Type: dt.GeometryWithSRID(4326)},
		dt.Field{Name: "born", Type: dt.Date},
		dt.Field{Name: "seen", Type: dt.TimestampWithZone("UTC")},
		dt.Field{Name: "price", Type: dt.Decimal(10, 2)},
		dt.Field{Name: "info", Type: dt.StructOf(
			dt.StructField{Name: "a", Type: dt.Int64},
			dt.StructField{Name: "b", Type: dt.String},
		)},
	)
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return schema
}

func testTable(t *testing.T) *UnboundTable {
	t.Helper()
	tbl, err := NewUnboundTable("events", testSchema(t))
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	return tbl
}

func column(t *testing.T, tbl *UnboundTable, name string) *TableColumn {
	t.Helper()
	c, err := NewTableColumn(tbl, name)
	if err != nil {
		t.Fatalf("column %s: %v", name, err)
	}
	return c
}

// mustOp adapts a constructor result, failing the test on a build
// error: mustOp(t)(Add(a, b)).
func mustOp(t *testing.T) func(*Op, error) *Op {
	return func(op *Op, err error) *Op {
		t.Helper()
		if err != nil {
			t.Fatalf("build op: %v", err)
		}
		return op
	}
}

func TestLookup(t *testing.T) {
	def, ok := Lookup("add")
	if !ok {
		t.Fatal("add is not registered")
	}
	if def.Name != "add" || len(def.Fields) != 2 {
		t.Fatalf("unexpected definition: %+v", def)
	}
	if _, ok := Lookup("no_such_op"); ok {
		t.Fatal("lookup of unknown op succeeded")
	}
}

func TestDefinitionsSorted(t *testing.T) {
	names := Definitions()
	if len(names) == 0 {
		t.Fatal("no registered definitions")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("definitions out of order: %s before %s", names[i-1], names[i])
		}
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	Register(&OpDef{Name: "cast"})
}

func TestBuildArgumentCount(t *testing.T) {
	_, err := Build(addDef, int64(1))
	if !errors.Is(err, dt.ErrInput) {
		t.Fatalf("expected input error, got %v", err)
	}
}

func TestOpFields(t *testing.T) {
	tbl := testTable(t)
	op := mustOp(t)(Add(column(t, tbl, "id"), int64(2)))

	fields := op.Fields()
	if len(fields) != 2 || fields[0].Name != "left" || fields[1].Name != "right" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
	if op.Arg("left") == nil || op.Arg("right") == nil {
		t.Fatal("value fields not resolvable")
	}
	if op.Arg("missing") != nil {
		t.Fatal("unknown field resolved")
	}
	if op.Kind() != "add" {
		t.Fatalf("kind = %q", op.Kind())
	}
}

func TestEqualStructural(t *testing.T) {
	tbl1 := testTable(t)
	tbl2 := testTable(t)

	a := mustOp(t)(Add(column(t, tbl1, "id"), int64(2)))
	b := mustOp(t)(Add(column(t, tbl2, "id"), int64(2)))
	if !Equal(a, b) {
		t.Fatal("structurally identical graphs compare unequal")
	}
	if a.Hash() != b.Hash() {
		t.Fatal("structurally identical graphs hash differently")
	}

	c := mustOp(t)(Add(column(t, tbl1, "id"), int64(3)))
	if Equal(a, c) {
		t.Fatal("graphs with different literals compare equal")
	}

	d := mustOp(t)(Subtract(column(t, tbl1, "id"), int64(2)))
	if Equal(a, d) {
		t.Fatal("different operations compare equal")
	}
}

func TestEqualDifferentConfig(t *testing.T) {
	tbl := testTable(t)
	asc := mustOp(t)(SortKey(column(t, tbl, "id"), true))
	desc := mustOp(t)(SortKey(column(t, tbl, "id"), false))
	if Equal(asc, desc) {
		t.Fatal("sort keys with different direction compare equal")
	}
}

// Equality over a deep chain in which every level shares both children
// must run in linear time; an exponential walk would time the test out.
func TestEqualSharedSubgraphs(t *testing.T) {
	build := func() Value {
		tbl := testTable(t)
		var v Value = column(t, tbl, "id")
		for i := 0; i < 50; i++ {
			v = mustOp(t)(Add(v, v))
		}
		return v
	}
	a, b := build(), build()
	if !Equal(a, b) {
		t.Fatal("shared-subgraph chains compare unequal")
	}
}

func TestEqualIdentity(t *testing.T) {
	tbl := testTable(t)
	col := column(t, tbl, "id")
	if !Equal(col, col) {
		t.Fatal("node is not equal to itself")
	}
	if Equal(col, nil) || Equal(nil, col) {
		t.Fatal("nil compares equal to a node")
	}
	if !Equal(nil, nil) {
		t.Fatal("nil is not equal to nil")
	}
}

func TestShapePromote(t *testing.T) {
	if ShapeScalar.Promote(ShapeScalar) != ShapeScalar {
		t.Fatal("scalar+scalar must stay scalar")
	}
	if ShapeScalar.Promote(ShapeColumn) != ShapeColumn {
		t.Fatal("scalar+column must be column")
	}
	if ShapeColumn.Promote(ShapeScalar) != ShapeColumn {
		t.Fatal("column+scalar must be column")
	}
}
