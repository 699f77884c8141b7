package ops

import (
	"errors"
	"testing"

	dt "github.com/hugr-lab/expr-go/datatypes"
)

func TestArrayLength(t *testing.T) {
	tbl := testTable(t)
	op := mustOp(t)(ArrayLength(column(t, tbl, "tags")))
	if !op.Type().Equals(dt.Int64) || op.Shape() != ShapeColumn {
		t.Fatalf("contract = %s %s", op.Type(), op.Shape())
	}
	if _, err := ArrayLength(column(t, tbl, "attrs")); !errors.Is(err, dt.ErrType) {
		t.Fatalf("map input must fail, got %v", err)
	}
}

func TestArrayIndex(t *testing.T) {
	tbl := testTable(t)
	tags := column(t, tbl, "tags")

	op := mustOp(t)(ArrayIndex(tags, int64(0)))
	if op.Type().Kind != dt.KindString || !op.Type().Nullable {
		t.Fatalf("type = %s, want nullable string", op.Type())
	}

	// Narrow index literals are cast to the slot type.
	op = mustOp(t)(ArrayIndex(tags, int8(0)))
	if idx := op.Arg("index"); idx.Kind() != "cast" {
		t.Fatalf("index = %s", idx.Kind())
	}
}

func TestArrayConcat(t *testing.T) {
	tbl := testTable(t)
	tags := column(t, tbl, "tags")

	op := mustOp(t)(ArrayConcat(tags, tags))
	if !op.Type().Equals(dt.ArrayOf(dt.String)) {
		t.Fatalf("type = %s", op.Type())
	}

	one, err := NewLiteral(int64(1), dt.Int64)
	if err != nil {
		t.Fatalf("literal: %v", err)
	}
	ints, err := NewValueList([]Value{one})
	if err != nil {
		t.Fatalf("value list: %v", err)
	}
	if _, err := ArrayConcat(tags, ints); !errors.Is(err, dt.ErrType) {
		t.Fatalf("foreign element type must fail, got %v", err)
	}
}

func TestArrayRepeatSlice(t *testing.T) {
	tbl := testTable(t)
	tags := column(t, tbl, "tags")

	op := mustOp(t)(ArrayRepeat(tags, int64(2)))
	if !op.Type().Equals(dt.ArrayOf(dt.String)) {
		t.Fatalf("repeat type = %s", op.Type())
	}
	op = mustOp(t)(ArraySlice(tags, int64(1), nil))
	if !op.Type().Equals(dt.ArrayOf(dt.String)) {
		t.Fatalf("slice type = %s", op.Type())
	}
	op = mustOp(t)(ArraySlice(tags, int64(1), int64(3)))
	if op.Arg("stop") == nil {
		t.Fatal("stop must be kept")
	}
}
