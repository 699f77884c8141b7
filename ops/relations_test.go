package ops

import (
	"errors"
	"testing"

	dt "github.com/hugr-lab/expr-go/datatypes"
)

func TestNewUnboundTable(t *testing.T) {
	tbl := testTable(t)
	if tbl.Name() != "events" {
		t.Fatalf("name = %q", tbl.Name())
	}
	if tbl.Kind() != "unbound_table" {
		t.Fatalf("kind = %q", tbl.Kind())
	}
	if _, err := NewUnboundTable("", testSchema(t)); !errors.Is(err, dt.ErrInput) {
		t.Fatalf("empty name must fail, got %v", err)
	}
}

func TestTableColumn(t *testing.T) {
	tbl := testTable(t)
	col := column(t, tbl, "name")
	if !col.Type().Equals(dt.String) || col.Shape() != ShapeColumn {
		t.Fatalf("contract = %s %s", col.Type(), col.Shape())
	}
	name, ok := col.Name()
	if !ok || name != "name" {
		t.Fatalf("resolved name = %q %v", name, ok)
	}

	if _, err := NewTableColumn(tbl, "ghost"); !errors.Is(err, dt.ErrType) {
		t.Fatalf("unknown column must fail with a type error, got %v", err)
	}
}

func TestRootTables(t *testing.T) {
	tblA := testTable(t)
	tblB, err := NewUnboundTable("other", testSchema(t))
	if err != nil {
		t.Fatalf("build table: %v", err)
	}

	sum := mustOp(t)(Add(column(t, tblA, "id"), column(t, tblA, "age")))
	roots := RootTables(sum)
	if len(roots) != 1 || roots[0] != tblA {
		t.Fatalf("roots = %v", roots)
	}

	mixed := mustOp(t)(Add(column(t, tblA, "id"), column(t, tblB, "id")))
	roots = RootTables(mixed)
	if len(roots) != 2 || roots[0] != tblA || roots[1] != tblB {
		t.Fatalf("mixed roots = %v", roots)
	}

	lit, _ := NewLiteral(int64(1), dt.Int64)
	if len(RootTables(lit)) != 0 {
		t.Fatal("literal has roots")
	}
}

func TestToProjection(t *testing.T) {
	tblA := testTable(t)
	tblB, err := NewUnboundTable("other", testSchema(t))
	if err != nil {
		t.Fatalf("build table: %v", err)
	}

	sel, err := ToProjection(column(t, tblA, "name"))
	if err != nil {
		t.Fatalf("promote column: %v", err)
	}
	if sel.Table() != tblA || len(sel.Selections()) != 1 {
		t.Fatalf("selection = %+v", sel)
	}
	if got := sel.Schema().String(); got != "name: string" {
		t.Fatalf("schema = %q", got)
	}

	mixed := mustOp(t)(Add(column(t, tblA, "id"), column(t, tblB, "id")))
	_, err = ToProjection(mixed)
	if !errors.Is(err, ErrRelation) {
		t.Fatalf("expected relation error, got %v", err)
	}
	var relErr *RelationError
	if !errors.As(err, &relErr) || len(relErr.Tables) != 2 {
		t.Fatalf("relation error detail = %v", err)
	}

	lit, _ := NewLiteral(int64(1), dt.Int64)
	if _, err = ToProjection(lit); !errors.Is(err, ErrRelation) {
		t.Fatalf("rootless promotion must fail, got %v", err)
	}
}

func TestNewSelection(t *testing.T) {
	tbl := testTable(t)
	id := column(t, tbl, "id")
	total := mustOp(t)(Sum(column(t, tbl, "age"), nil))

	sel, err := NewSelection(tbl, []Value{id, total}, nil)
	if err != nil {
		t.Fatalf("build selection: %v", err)
	}
	if got := sel.Names(); got[0] != "id" || got[1] != "sum" {
		t.Fatalf("names = %v", got)
	}

	// Explicit names override node conventions.
	sel, err = NewSelection(tbl, []Value{id, total}, []string{"", "age_total"})
	if err != nil {
		t.Fatalf("build selection: %v", err)
	}
	if got := sel.Names(); got[0] != "id" || got[1] != "age_total" {
		t.Fatalf("names = %v", got)
	}

	// Values with no resolvable name need an explicit one.
	lit, _ := NewLiteral(int64(1), dt.Int64)
	if _, err = NewSelection(tbl, []Value{lit}, nil); !errors.Is(err, dt.ErrInput) {
		t.Fatalf("unnamed selection must fail, got %v", err)
	}

	// Selections rooted in another relation are rejected.
	other, _ := NewUnboundTable("other", testSchema(t))
	foreign := column(t, other, "id")
	if _, err = NewSelection(tbl, []Value{foreign}, nil); !errors.Is(err, ErrRelation) {
		t.Fatalf("foreign selection must fail, got %v", err)
	}
}
