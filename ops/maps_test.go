package ops

import (
	"errors"
	"strings"
	"testing"

	dt "github.com/hugr-lab/expr-go/datatypes"
)

func TestMapLength(t *testing.T) {
	tbl := testTable(t)
	op := mustOp(t)(MapLength(column(t, tbl, "attrs")))
	if !op.Type().Equals(dt.Int64) || op.Shape() != ShapeColumn {
		t.Fatalf("contract = %s %s", op.Type(), op.Shape())
	}
	if _, err := MapLength(column(t, tbl, "tags")); !errors.Is(err, dt.ErrType) {
		t.Fatalf("array input must fail, got %v", err)
	}
}

func TestMapValueForKey(t *testing.T) {
	tbl := testTable(t)
	attrs := column(t, tbl, "attrs")

	op := mustOp(t)(MapValueForKey(attrs, "size"))
	if !op.Type().Equals(dt.Int64) || op.Shape() != ShapeColumn {
		t.Fatalf("contract = %s %s", op.Type(), op.Shape())
	}

	// Integer keys are admitted regardless of the declared key type.
	op = mustOp(t)(MapValueForKey(attrs, int64(1)))
	if !op.Type().Equals(dt.Int64) {
		t.Fatalf("type = %s", op.Type())
	}

	if _, err := MapValueForKey(attrs, float64(1)); !errors.Is(err, dt.ErrType) {
		t.Fatalf("float key must fail, got %v", err)
	}
}

func TestMapValueOrDefaultForKey(t *testing.T) {
	tbl := testTable(t)
	attrs := column(t, tbl, "attrs")

	op := mustOp(t)(MapValueOrDefaultForKey(attrs, "size", int64(0)))
	if !op.Type().Equals(dt.Int64) {
		t.Fatalf("type = %s", op.Type())
	}

	// The default widens the result along the numeric ladder.
	op = mustOp(t)(MapValueOrDefaultForKey(attrs, "size", float64(0.5)))
	if !op.Type().Equals(dt.Float64) {
		t.Fatalf("widened type = %s", op.Type())
	}

	_, err := MapValueOrDefaultForKey(attrs, "size", "missing")
	if !errors.Is(err, dt.ErrType) {
		t.Fatalf("foreign default must fail, got %v", err)
	}
	if !strings.Contains(err.Error(), `default value "missing" of type string`) {
		t.Fatalf("error text = %v", err)
	}
}

func TestMapKeysValues(t *testing.T) {
	tbl := testTable(t)
	attrs := column(t, tbl, "attrs")

	op := mustOp(t)(MapKeys(attrs))
	if !op.Type().Equals(dt.ArrayOf(dt.String)) {
		t.Fatalf("keys type = %s", op.Type())
	}
	op = mustOp(t)(MapValues(attrs))
	if !op.Type().Equals(dt.ArrayOf(dt.Int64)) {
		t.Fatalf("values type = %s", op.Type())
	}
}

func TestMapConcat(t *testing.T) {
	tbl := testTable(t)
	attrs := column(t, tbl, "attrs")

	op := mustOp(t)(MapConcat(attrs, attrs))
	if !op.Type().Equals(dt.MapOf(dt.String, dt.Int64)) {
		t.Fatalf("type = %s", op.Type())
	}

	// Untyped nulls cannot satisfy a map rule: the output contract
	// needs the key and value types.
	if _, err := MapConcat(attrs, nil); !errors.Is(err, dt.ErrType) {
		t.Fatalf("null operand must fail, got %v", err)
	}
}
