package datatypes

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

// EncodeGeometry converts an orb.Geometry to WKB bytes, the wire and
// hashing representation of geospatial literals.
func EncodeGeometry(geom orb.Geometry) ([]byte, error) {
	if geom == nil {
		return nil, fmt.Errorf("cannot encode nil geometry")
	}
	return wkb.Marshal(geom)
}

// DecodeGeometry converts WKB bytes back to an orb.Geometry.
func DecodeGeometry(wkbBytes []byte) (orb.Geometry, error) {
	if len(wkbBytes) == 0 {
		return nil, fmt.Errorf("cannot decode empty WKB data")
	}
	geom, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return nil, err
	}
	if err := validateGeometry(geom); err != nil {
		return nil, err
	}
	return geom, nil
}

// ValidateGeometry checks that a geometry is well formed enough to be
// stored in a literal: rings closed, lines with two or more points,
// collections non-empty.
func ValidateGeometry(geom orb.Geometry) error {
	return validateGeometry(geom)
}

func validateGeometry(geom orb.Geometry) error {
	if geom == nil {
		return fmt.Errorf("geometry is nil")
	}
	switch g := geom.(type) {
	case orb.Point:
		return nil
	case orb.MultiPoint:
		if len(g) == 0 {
			return fmt.Errorf("multipoint is empty")
		}
		return nil
	case orb.LineString:
		if len(g) < 2 {
			return fmt.Errorf("linestring must have at least 2 points, has %d", len(g))
		}
		return nil
	case orb.MultiLineString:
		if len(g) == 0 {
			return fmt.Errorf("multilinestring is empty")
		}
		for i, ls := range g {
			if len(ls) < 2 {
				return fmt.Errorf("multilinestring[%d] must have at least 2 points, has %d", i, len(ls))
			}
		}
		return nil
	case orb.Polygon:
		if len(g) == 0 {
			return fmt.Errorf("polygon has no rings")
		}
		for i, ring := range g {
			label := "outer ring"
			if i > 0 {
				label = fmt.Sprintf("hole[%d]", i-1)
			}
			if len(ring) < 4 {
				return fmt.Errorf("polygon %s must have at least 4 points, has %d", label, len(ring))
			}
			if !ring[0].Equal(ring[len(ring)-1]) {
				return fmt.Errorf("polygon %s is not closed", label)
			}
		}
		return nil
	case orb.MultiPolygon:
		if len(g) == 0 {
			return fmt.Errorf("multipolygon is empty")
		}
		for i, poly := range g {
			if err := validateGeometry(poly); err != nil {
				return fmt.Errorf("multipolygon[%d]: %w", i, err)
			}
		}
		return nil
	case orb.Collection:
		if len(g) == 0 {
			return fmt.Errorf("geometry collection is empty")
		}
		for i, member := range g {
			if err := validateGeometry(member); err != nil {
				return fmt.Errorf("collection[%d]: %w", i, err)
			}
		}
		return nil
	case orb.Bound:
		return fmt.Errorf("bounds cannot be stored as WKB (convert to polygon)")
	default:
		return fmt.Errorf("unknown geometry type: %T", geom)
	}
}

// GeometryTypeName returns the WKB type name for a geometry.
func GeometryTypeName(geom orb.Geometry) string {
	switch geom.(type) {
	case orb.Point:
		return "Point"
	case orb.MultiPoint:
		return "MultiPoint"
	case orb.LineString:
		return "LineString"
	case orb.MultiLineString:
		return "MultiLineString"
	case orb.Polygon:
		return "Polygon"
	case orb.MultiPolygon:
		return "MultiPolygon"
	case orb.Collection:
		return "GeometryCollection"
	case orb.Bound:
		return "Bound"
	default:
		return "Unknown"
	}
}
