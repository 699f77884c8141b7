package expr

import (
	dt "github.com/hugr-lab/expr-go/datatypes"
	"github.com/hugr-lab/expr-go/ops"
)

// GeoSpatialValue is the view over geometry and geography expressions.
type GeoSpatialValue struct{ view }

// Name returns a renamed copy.
func (g *GeoSpatialValue) Name(name string) *GeoSpatialValue {
	return &GeoSpatialValue{g.renamed(name)}
}

// Contains checks whether the value contains other.
func (g *GeoSpatialValue) Contains(other any) (*BooleanValue, error) {
	return wrapBoolean(ops.GeoContains(g.node, other))
}

// Intersects checks whether the value intersects other.
func (g *GeoSpatialValue) Intersects(other any) (*BooleanValue, error) {
	return wrapBoolean(ops.GeoIntersects(g.node, other))
}

// Within checks whether the value lies within other.
func (g *GeoSpatialValue) Within(other any) (*BooleanValue, error) {
	return wrapBoolean(ops.GeoWithin(g.node, other))
}

// DWithin checks whether the value lies within the given distance of
// other.
func (g *GeoSpatialValue) DWithin(other, distance any) (*BooleanValue, error) {
	return wrapBoolean(ops.GeoDWithin(g.node, other, distance))
}

// Area yields the surface area.
func (g *GeoSpatialValue) Area() *NumericValue { return mustNumeric(ops.GeoArea(g.node)) }

// Length yields the perimeter or line length.
func (g *GeoSpatialValue) Length() *NumericValue { return mustNumeric(ops.GeoLength(g.node)) }

// Distance yields the distance to other.
func (g *GeoSpatialValue) Distance(other any) (*NumericValue, error) {
	return wrapNumeric(ops.GeoDistance(g.node, other))
}

// Buffer expands the value by the given radius.
func (g *GeoSpatialValue) Buffer(radius any) (*GeoSpatialValue, error) {
	return wrapGeo(ops.GeoBuffer(g.node, radius))
}

// Centroid yields the geometric center.
func (g *GeoSpatialValue) Centroid() *GeoSpatialValue { return mustGeo(ops.GeoCentroid(g.node)) }

// AsText renders the value as well-known text.
func (g *GeoSpatialValue) AsText() *StringValue { return mustString(ops.GeoAsText(g.node)) }

// SRID yields the spatial reference identifier.
func (g *GeoSpatialValue) SRID() *NumericValue { return mustNumeric(ops.GeoSRID(g.node)) }

// AsGeometry reinterprets the value as planar geometry, keeping the
// reference system.
func (g *GeoSpatialValue) AsGeometry() *GeoSpatialValue {
	node, err := ops.Cast(g.node, dt.GeometryWithSRID(g.Type().SRID()))
	if err != nil {
		panic("expr: " + err.Error())
	}
	out := Wrap(node).(*GeoSpatialValue)
	if node == g.node && g.named {
		out = &GeoSpatialValue{out.renamed(g.alias)}
	}
	return out
}

// AsGeography reinterprets the value as spherical geography, keeping
// the reference system.
func (g *GeoSpatialValue) AsGeography() *GeoSpatialValue {
	node, err := ops.Cast(g.node, dt.GeographyWithSRID(g.Type().SRID()))
	if err != nil {
		panic("expr: " + err.Error())
	}
	out := Wrap(node).(*GeoSpatialValue)
	if node == g.node && g.named {
		out = &GeoSpatialValue{out.renamed(g.alias)}
	}
	return out
}
