package ops

import (
	"errors"
	"testing"

	dt "github.com/hugr-lab/expr-go/datatypes"
	"github.com/paulmach/orb"
)

func TestGeoPredicates(t *testing.T) {
	tbl := testTable(t)
	pos := column(t, tbl, "pos")
	point, err := NewLiteral(orb.Point{37.6, 55.7}, dt.GeometryWithSRID(4326))
	if err != nil {
		t.Fatalf("point literal: %v", err)
	}

	for _, build := range []func(any, any) (*Op, error){GeoContains, GeoIntersects, GeoWithin} {
		op := mustOp(t)(build(pos, point))
		if !op.Type().Equals(dt.Boolean) || op.Shape() != ShapeColumn {
			t.Fatalf("%s contract = %s %s", op.Kind(), op.Type(), op.Shape())
		}
	}

	op := mustOp(t)(GeoDWithin(pos, point, float64(100)))
	if !op.Type().Equals(dt.Boolean) {
		t.Fatalf("dwithin type = %s", op.Type())
	}

	if _, err := GeoContains(pos, "POINT(0 0)"); !errors.Is(err, dt.ErrType) {
		t.Fatalf("string operand must fail, got %v", err)
	}
}

func TestGeoMeasures(t *testing.T) {
	tbl := testTable(t)
	pos := column(t, tbl, "pos")

	for _, build := range []func(any) (*Op, error){GeoArea, GeoLength} {
		op := mustOp(t)(build(pos))
		if !op.Type().Equals(dt.Float64) {
			t.Fatalf("%s type = %s", op.Kind(), op.Type())
		}
	}
	op := mustOp(t)(GeoDistance(pos, pos))
	if !op.Type().Equals(dt.Float64) {
		t.Fatalf("distance type = %s", op.Type())
	}
}

func TestGeoBuffer(t *testing.T) {
	tbl := testTable(t)
	pos := column(t, tbl, "pos")

	op := mustOp(t)(GeoBuffer(pos, float64(10)))
	if !op.Type().Equals(dt.GeometryWithSRID(4326)) {
		t.Fatalf("type = %s", op.Type())
	}
}

func TestGeoCentroid(t *testing.T) {
	tbl := testTable(t)

	op := mustOp(t)(GeoCentroid(column(t, tbl, "pos")))
	if !op.Type().Equals(dt.GeometryWithSRID(4326)) || op.Shape() != ShapeColumn {
		t.Fatalf("contract = %s %s", op.Type(), op.Shape())
	}
}

func TestGeoAccessors(t *testing.T) {
	tbl := testTable(t)
	pos := column(t, tbl, "pos")

	op := mustOp(t)(GeoAsText(pos))
	if !op.Type().Equals(dt.String) {
		t.Fatalf("text type = %s", op.Type())
	}
	op = mustOp(t)(GeoSRID(pos))
	if !op.Type().Equals(dt.Int32) {
		t.Fatalf("srid type = %s", op.Type())
	}
}
