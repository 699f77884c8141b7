package ops

import (
	dt "github.com/hugr-lab/expr-go/datatypes"
)

func geoPredicateDef(name string) *OpDef {
	return Register(&OpDef{
		Name: name,
		Fields: []FieldSpec{
			{Name: "left", Rule: GeoValue},
			{Name: "right", Rule: GeoValue},
		},
		Output: ShapeLike(dt.Boolean),
	})
}

func geoMeasureDef(name string) *OpDef {
	return Register(&OpDef{
		Name:   name,
		Fields: []FieldSpec{{Name: "value", Rule: GeoValue}},
		Output: ShapeLike(dt.Float64),
	})
}

var (
	geoContainsDef   = geoPredicateDef("geo_contains")
	geoIntersectsDef = geoPredicateDef("geo_intersects")
	geoWithinDef     = geoPredicateDef("geo_within")
	geoDWithinDef    = Register(&OpDef{
		Name: "geo_d_within",
		Fields: []FieldSpec{
			{Name: "left", Rule: GeoValue},
			{Name: "right", Rule: GeoValue},
			{Name: "distance", Rule: NumericValue},
		},
		Output: ShapeLike(dt.Boolean),
	})

	geoAreaDef   = geoMeasureDef("geo_area")
	geoLengthDef = geoMeasureDef("geo_length")

	geoDistanceDef = Register(&OpDef{
		Name: "geo_distance",
		Fields: []FieldSpec{
			{Name: "left", Rule: GeoValue},
			{Name: "right", Rule: GeoValue},
		},
		Output: ShapeLike(dt.Float64),
	})

	geoBufferDef = Register(&OpDef{
		Name: "geo_buffer",
		Fields: []FieldSpec{
			{Name: "value", Rule: GeoValue},
			{Name: "radius", Rule: NumericValue},
		},
		Output: SameTypeAs("value"),
	})

	geoCentroidDef = Register(&OpDef{
		Name:   "geo_centroid",
		Fields: []FieldSpec{{Name: "value", Rule: GeoValue}},
		Output: func(op *Op) (dt.DataType, Shape, error) {
			// The centroid keeps the input's spatial reference.
			return dt.GeometryWithSRID(op.Arg("value").Type().SRID()), shapeOf(op), nil
		},
	})

	geoAsTextDef = Register(&OpDef{
		Name:   "geo_as_text",
		Fields: []FieldSpec{{Name: "value", Rule: GeoValue}},
		Output: ShapeLike(dt.String),
	})

	geoSRIDDef = Register(&OpDef{
		Name:   "geo_srid",
		Fields: []FieldSpec{{Name: "value", Rule: GeoValue}},
		Output: ShapeLike(dt.Int32),
	})
)

// GeoContains tests whether left fully contains right.
func GeoContains(left, right any) (*Op, error) { return Build(geoContainsDef, left, right) }

// GeoIntersects tests whether two geometries share any point.
func GeoIntersects(left, right any) (*Op, error) { return Build(geoIntersectsDef, left, right) }

// GeoWithin tests whether left lies fully inside right.
func GeoWithin(left, right any) (*Op, error) { return Build(geoWithinDef, left, right) }

// GeoDWithin tests whether two geometries lie within the given
// distance of each other.
func GeoDWithin(left, right, distance any) (*Op, error) {
	return Build(geoDWithinDef, left, right, distance)
}

// GeoArea yields the area of a polygonal geometry.
func GeoArea(value any) (*Op, error) { return Build(geoAreaDef, value) }

// GeoLength yields the length of a linear geometry.
func GeoLength(value any) (*Op, error) { return Build(geoLengthDef, value) }

// GeoDistance yields the minimum distance between two geometries.
func GeoDistance(left, right any) (*Op, error) { return Build(geoDistanceDef, left, right) }

// GeoBuffer expands a geometry by the given radius.
func GeoBuffer(value, radius any) (*Op, error) { return Build(geoBufferDef, value, radius) }

// GeoCentroid yields the geometric center point.
func GeoCentroid(value any) (*Op, error) { return Build(geoCentroidDef, value) }

// GeoAsText renders a geometry as well-known text.
func GeoAsText(value any) (*Op, error) { return Build(geoAsTextDef, value) }

// GeoSRID yields the spatial reference identifier of a geometry.
func GeoSRID(value any) (*Op, error) { return Build(geoSRIDDef, value) }
