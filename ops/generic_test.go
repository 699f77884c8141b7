package ops

import (
	"errors"
	"testing"

	dt "github.com/hugr-lab/expr-go/datatypes"
)

func TestCastNoOp(t *testing.T) {
	tbl := testTable(t)
	name := column(t, tbl, "name")

	got, err := Cast(name, dt.String)
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	if got != Value(name) {
		t.Fatal("cast to own type must return the value unchanged")
	}

	// Geospatial types of the same kind share a representation.
	pos := column(t, tbl, "pos")
	got, err = Cast(pos, dt.GeometryWithSRID(3857))
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	if got != Value(pos) {
		t.Fatal("cast across spatial references must be a no-op")
	}

	// A kind change is a real cast.
	got, err = Cast(pos, dt.Geography)
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	if got.Kind() != "cast" || !got.Type().Equals(dt.Geography) {
		t.Fatalf("contract = %s %s", got.Kind(), got.Type())
	}
}

func TestCastBuildsNode(t *testing.T) {
	tbl := testTable(t)
	id := column(t, tbl, "id")

	got, err := Cast(id, dt.Float64)
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	op, ok := got.(*Op)
	if !ok || op.Kind() != "cast" {
		t.Fatalf("node = %T %s", got, got.Kind())
	}
	if !op.Type().Equals(dt.Float64) || op.Shape() != ShapeColumn {
		t.Fatalf("contract = %s %s", op.Type(), op.Shape())
	}
	if op.Arg("value") != Value(id) {
		t.Fatal("cast must wrap the source value")
	}
}

func TestCoalesce(t *testing.T) {
	tbl := testTable(t)
	age := column(t, tbl, "age")

	op := mustOp(t)(Coalesce(age, int64(5)))
	if !op.Type().Equals(dt.Int64) || op.Shape() != ShapeColumn {
		t.Fatalf("contract = %s %s", op.Type(), op.Shape())
	}

	if _, err := Coalesce(); !errors.Is(err, dt.ErrInput) {
		t.Fatalf("empty coalesce must fail, got %v", err)
	}
	if _, err := Coalesce("a", int64(1)); !errors.Is(err, dt.ErrType) {
		t.Fatalf("mixed families must fail, got %v", err)
	}
}

func TestGreatestLeast(t *testing.T) {
	op := mustOp(t)(Greatest(int64(1), float64(2)))
	if !op.Type().Equals(dt.Float64) || op.Shape() != ShapeScalar {
		t.Fatalf("greatest contract = %s %s", op.Type(), op.Shape())
	}
	op = mustOp(t)(Least(int8(1), int64(2)))
	if !op.Type().Equals(dt.Int64) {
		t.Fatalf("least type = %s", op.Type())
	}
}

func TestIfNull(t *testing.T) {
	tbl := testTable(t)
	op := mustOp(t)(IfNull(column(t, tbl, "age"), int64(0)))
	if !op.Type().Equals(dt.Int64) || op.Shape() != ShapeColumn {
		t.Fatalf("contract = %s %s", op.Type(), op.Shape())
	}
}

func TestNullIf(t *testing.T) {
	tbl := testTable(t)
	op := mustOp(t)(NullIf(column(t, tbl, "id"), int64(0)))
	if op.Type().Kind != dt.KindInt64 || !op.Type().Nullable {
		t.Fatalf("type = %s, want nullable int64", op.Type())
	}
	if _, err := NullIf(column(t, tbl, "name"), int64(1)); !errors.Is(err, dt.ErrType) {
		t.Fatalf("incomparable nullif must fail, got %v", err)
	}
}

func TestBetween(t *testing.T) {
	tbl := testTable(t)
	op := mustOp(t)(Between(column(t, tbl, "age"), int64(1), int64(10)))
	if !op.Type().Equals(dt.Boolean) || op.Shape() != ShapeColumn {
		t.Fatalf("contract = %s %s", op.Type(), op.Shape())
	}
	if _, err := Between(column(t, tbl, "name"), int64(1), int64(2)); !errors.Is(err, dt.ErrType) {
		t.Fatalf("mixed families must fail, got %v", err)
	}
}

func TestContainsShape(t *testing.T) {
	tbl := testTable(t)

	op := mustOp(t)(Contains(int64(1), int64(1), int64(2)))
	if !op.Type().Equals(dt.Boolean) || op.Shape() != ShapeScalar {
		t.Fatalf("scalar contract = %s %s", op.Type(), op.Shape())
	}

	op = mustOp(t)(Contains(column(t, tbl, "age"), int64(1), int64(2)))
	if op.Shape() != ShapeColumn {
		t.Fatalf("column contract = %s", op.Shape())
	}

	op = mustOp(t)(NotContains(int64(1), int64(2)))
	if op.Kind() != "not_contains" {
		t.Fatalf("kind = %q", op.Kind())
	}
}

func TestIdenticalTo(t *testing.T) {
	tbl := testTable(t)
	op := mustOp(t)(IdenticalTo(column(t, tbl, "age"), int64(1)))
	if !op.Type().Equals(dt.Boolean) {
		t.Fatalf("type = %s", op.Type())
	}
	if _, err := IdenticalTo(column(t, tbl, "flag"), "yes"); !errors.Is(err, dt.ErrType) {
		t.Fatalf("mixed families must fail, got %v", err)
	}
}

func TestHashAlgorithm(t *testing.T) {
	tbl := testTable(t)
	for _, how := range []string{"fnv", "farm_fingerprint", "md5"} {
		op := mustOp(t)(Hash(column(t, tbl, "name"), how))
		if !op.Type().Equals(dt.Int64) {
			t.Fatalf("%s type = %s", how, op.Type())
		}
	}
	_, err := Hash(column(t, tbl, "name"), "sha1")
	if !errors.Is(err, dt.ErrInput) {
		t.Fatalf("unknown algorithm must fail, got %v", err)
	}
	var member *MemberError
	if !errors.As(err, &member) {
		t.Fatalf("error detail = %v", err)
	}
}

func TestTypeOfOp(t *testing.T) {
	tbl := testTable(t)
	op := mustOp(t)(TypeOf(column(t, tbl, "age")))
	if !op.Type().Equals(dt.String) || op.Shape() != ShapeColumn {
		t.Fatalf("contract = %s %s", op.Type(), op.Shape())
	}
	op = mustOp(t)(TypeOf(int64(1)))
	if op.Shape() != ShapeScalar {
		t.Fatalf("scalar input, shape = %s", op.Shape())
	}
}

func TestSimpleCase(t *testing.T) {
	tbl := testTable(t)
	age := column(t, tbl, "age")

	op := mustOp(t)(SimpleCase(age,
		[]any{int64(1), int64(2)},
		[]any{"low", "high"},
		"other",
	))
	if !op.Type().Equals(dt.String) || op.Shape() != ShapeColumn {
		t.Fatalf("contract = %s %s", op.Type(), op.Shape())
	}

	// Cases and results must pair up.
	_, err := SimpleCase(age, []any{int64(1), int64(2)}, []any{"only"}, nil)
	if !errors.Is(err, dt.ErrInput) {
		t.Fatalf("unpaired case must fail, got %v", err)
	}

	// The base must be comparable with every case.
	_, err = SimpleCase(column(t, tbl, "name"), []any{int64(1)}, []any{"x"}, nil)
	if !errors.Is(err, dt.ErrType) {
		t.Fatalf("incomparable base must fail, got %v", err)
	}
}

func TestSearchedCase(t *testing.T) {
	tbl := testTable(t)
	flag := column(t, tbl, "flag")

	op := mustOp(t)(SearchedCase([]any{flag}, []any{int64(1)}, nil))
	if !op.Type().Equals(dt.Int64) || op.Shape() != ShapeColumn {
		t.Fatalf("contract = %s %s", op.Type(), op.Shape())
	}

	// The result type spans the results and the default.
	op = mustOp(t)(SearchedCase([]any{flag}, []any{int64(1)}, float64(0)))
	if !op.Type().Equals(dt.Float64) {
		t.Fatalf("type = %s", op.Type())
	}

	if _, err := SearchedCase([]any{int64(1)}, []any{"x"}, nil); !errors.Is(err, dt.ErrType) {
		t.Fatalf("non-boolean case must fail, got %v", err)
	}
}

func TestIsNullNotNull(t *testing.T) {
	tbl := testTable(t)
	op := mustOp(t)(IsNull(column(t, tbl, "age")))
	if !op.Type().Equals(dt.Boolean) || op.Shape() != ShapeColumn {
		t.Fatalf("contract = %s %s", op.Type(), op.Shape())
	}
	op = mustOp(t)(NotNull(int64(1)))
	if op.Shape() != ShapeScalar {
		t.Fatalf("shape = %s", op.Shape())
	}
}
