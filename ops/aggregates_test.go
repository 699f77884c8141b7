package ops

import (
	"errors"
	"testing"

	dt "github.com/hugr-lab/expr-go/datatypes"
)

func TestCountAggregates(t *testing.T) {
	tbl := testTable(t)
	name := column(t, tbl, "name")
	flag := column(t, tbl, "flag")

	op := mustOp(t)(Count(name, nil))
	if !op.Type().Equals(dt.Int64) || op.Shape() != ShapeScalar {
		t.Fatalf("contract = %s %s", op.Type(), op.Shape())
	}
	if got, ok := op.Name(); !ok || got != "count" {
		t.Fatalf("name = %q %v", got, ok)
	}

	op = mustOp(t)(CountDistinct(name, flag))
	if got, _ := op.Name(); got != "nunique" {
		t.Fatalf("name = %q", got)
	}
	if op.Arg("where") == nil {
		t.Fatal("filter must be kept")
	}

	// Aggregations reduce columns, not scalars.
	if _, err := Count(int64(1), nil); !errors.Is(err, dt.ErrType) {
		t.Fatalf("scalar input must fail, got %v", err)
	}
	// The filter must be boolean.
	if _, err := Count(name, name); !errors.Is(err, dt.ErrType) {
		t.Fatalf("string filter must fail, got %v", err)
	}
}

func TestSumTypes(t *testing.T) {
	tbl := testTable(t)

	tests := []struct {
		column string
		want   dt.DataType
	}{
		{column: "age", want: dt.Int64},
		{column: "weight", want: dt.Float64},
		{column: "flag", want: dt.Int64},
		{column: "price", want: dt.Decimal(38, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			op := mustOp(t)(Sum(column(t, testTable(t), tt.column), nil))
			if !op.Type().Equals(tt.want) || op.Shape() != ShapeScalar {
				t.Fatalf("contract = %s %s, want %s", op.Type(), op.Shape(), tt.want)
			}
		})
	}

	if _, err := Sum(column(t, tbl, "name"), nil); !errors.Is(err, dt.ErrType) {
		t.Fatalf("string sum must fail, got %v", err)
	}
}

func TestMeanTypes(t *testing.T) {
	tbl := testTable(t)

	op := mustOp(t)(Mean(column(t, tbl, "age"), nil))
	if !op.Type().Equals(dt.Float64) {
		t.Fatalf("int mean type = %s", op.Type())
	}
	op = mustOp(t)(Mean(column(t, tbl, "price"), nil))
	if !op.Type().Equals(dt.Decimal(38, 2)) {
		t.Fatalf("decimal mean type = %s", op.Type())
	}
	if _, err := Mean(column(t, tbl, "flag"), nil); !errors.Is(err, dt.ErrType) {
		t.Fatalf("boolean mean must fail, got %v", err)
	}
}

func TestMinMax(t *testing.T) {
	tbl := testTable(t)
	seen := column(t, tbl, "seen")

	op := mustOp(t)(Min(seen, nil))
	if !op.Type().Equals(dt.TimestampWithZone("UTC")) || op.Shape() != ShapeScalar {
		t.Fatalf("min contract = %s %s", op.Type(), op.Shape())
	}
	op = mustOp(t)(Max(column(t, tbl, "name"), nil))
	if !op.Type().Equals(dt.String) {
		t.Fatalf("max type = %s", op.Type())
	}
	if got, _ := op.Name(); got != "max" {
		t.Fatalf("name = %q", got)
	}
}

func TestSpread(t *testing.T) {
	tbl := testTable(t)
	weight := column(t, tbl, "weight")

	op := mustOp(t)(StandardDev(weight, "sample", nil))
	if !op.Type().Equals(dt.Float64) {
		t.Fatalf("std type = %s", op.Type())
	}
	op = mustOp(t)(Variance(weight, "pop", nil))
	if got, _ := op.Name(); got != "var" {
		t.Fatalf("name = %q", got)
	}
	if _, err := StandardDev(weight, "both", nil); !errors.Is(err, dt.ErrInput) {
		t.Fatalf("unknown estimator must fail, got %v", err)
	}
}

func TestBooleanAggregates(t *testing.T) {
	tbl := testTable(t)
	flag := column(t, tbl, "flag")

	op := mustOp(t)(Any(flag, nil))
	if !op.Type().Equals(dt.Boolean) || op.Shape() != ShapeScalar {
		t.Fatalf("any contract = %s %s", op.Type(), op.Shape())
	}
	op = mustOp(t)(All(flag, nil))
	if got, _ := op.Name(); got != "all" {
		t.Fatalf("name = %q", got)
	}
	if _, err := Any(column(t, tbl, "age"), nil); !errors.Is(err, dt.ErrType) {
		t.Fatalf("integer input must fail, got %v", err)
	}
}

func TestApproximateAggregates(t *testing.T) {
	tbl := testTable(t)

	op := mustOp(t)(ApproxCountDistinct(column(t, tbl, "name"), nil))
	if !op.Type().Equals(dt.Int64) || op.Shape() != ShapeScalar {
		t.Fatalf("contract = %s %s", op.Type(), op.Shape())
	}
	if got, _ := op.Name(); got != "approx_nunique" {
		t.Fatalf("name = %q", got)
	}

	op = mustOp(t)(ApproxMedian(column(t, tbl, "weight"), nil))
	if !op.Type().Equals(dt.Float64) || op.Shape() != ShapeScalar {
		t.Fatalf("contract = %s %s", op.Type(), op.Shape())
	}
	if got, _ := op.Name(); got != "approx_median" {
		t.Fatalf("name = %q", got)
	}

	if _, err := ApproxMedian(column(t, tbl, "name"), nil); !errors.Is(err, dt.ErrType) {
		t.Fatalf("string median must fail, got %v", err)
	}
}

func TestDistinct(t *testing.T) {
	tbl := testTable(t)
	age := column(t, tbl, "age")

	op := mustOp(t)(Distinct(age))
	if !op.Type().Equals(dt.Int32) || op.Shape() != ShapeColumn {
		t.Fatalf("contract = %s %s", op.Type(), op.Shape())
	}
	if got, ok := op.Name(); !ok || got != "age" {
		t.Fatalf("name = %q %v", got, ok)
	}

	if _, err := Distinct(int64(1)); !errors.Is(err, dt.ErrType) {
		t.Fatalf("scalar input must fail, got %v", err)
	}
}

func TestArbitrary(t *testing.T) {
	tbl := testTable(t)
	name := column(t, tbl, "name")

	op := mustOp(t)(Arbitrary(name, "first", nil))
	if !op.Type().Equals(dt.String) || op.Shape() != ShapeScalar {
		t.Fatalf("contract = %s %s", op.Type(), op.Shape())
	}
	if _, err := Arbitrary(name, "random", nil); !errors.Is(err, dt.ErrInput) {
		t.Fatalf("unknown picker must fail, got %v", err)
	}
}

func TestGroupConcat(t *testing.T) {
	tbl := testTable(t)

	op := mustOp(t)(GroupConcat(column(t, tbl, "name"), ",", nil))
	if !op.Type().Equals(dt.String) || op.Shape() != ShapeScalar {
		t.Fatalf("contract = %s %s", op.Type(), op.Shape())
	}
	if sep, _ := op.Field("sep"); sep != "," {
		t.Fatalf("sep = %v", sep)
	}
	if _, err := GroupConcat(column(t, tbl, "age"), ",", nil); !errors.Is(err, dt.ErrType) {
		t.Fatalf("integer input must fail, got %v", err)
	}
}

func TestArrayCollect(t *testing.T) {
	tbl := testTable(t)

	op := mustOp(t)(ArrayCollect(column(t, tbl, "age"), nil))
	if !op.Type().Equals(dt.ArrayOf(dt.Int32)) || op.Shape() != ShapeScalar {
		t.Fatalf("contract = %s %s", op.Type(), op.Shape())
	}
	if got, _ := op.Name(); got != "collect" {
		t.Fatalf("name = %q", got)
	}
}
