// Package datatypes defines the data type lattice of the expression IR:
// kinds with nullability and parameters, castability and precedence
// rules, native value inference and normalization, and Arrow schema
// interop.
package datatypes

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Kind identifies the data type kinds of the expression IR.
type Kind string

const (
	KindInvalid   Kind = "invalid"
	KindNull      Kind = "null"
	KindBoolean   Kind = "boolean"
	KindInt8      Kind = "int8"
	KindInt16     Kind = "int16"
	KindInt32     Kind = "int32"
	KindInt64     Kind = "int64"
	KindUInt8     Kind = "uint8"
	KindUInt16    Kind = "uint16"
	KindUInt32    Kind = "uint32"
	KindUInt64    Kind = "uint64"
	KindFloat32   Kind = "float32"
	KindFloat64   Kind = "float64"
	KindDecimal   Kind = "decimal"
	KindString    Kind = "string"
	KindBinary    Kind = "binary"
	KindDate      Kind = "date"
	KindTime      Kind = "time"
	KindTimestamp Kind = "timestamp"
	KindInterval  Kind = "interval"
	KindArray     Kind = "array"
	KindMap       Kind = "map"
	KindStruct    Kind = "struct"
	KindUUID      Kind = "uuid"
	KindGeometry  Kind = "geometry"
	KindGeography Kind = "geography"
)

// Family groups kinds for view dispatch and loose compatibility checks
// such as SameKind.
type Family string

const (
	FamilyInvalid    Family = "invalid"
	FamilyNull       Family = "null"
	FamilyBoolean    Family = "boolean"
	FamilyNumeric    Family = "numeric"
	FamilyString     Family = "string"
	FamilyBinary     Family = "binary"
	FamilyTemporal   Family = "temporal"
	FamilyArray      Family = "array"
	FamilyMap        Family = "map"
	FamilyStruct     Family = "struct"
	FamilyUUID       Family = "uuid"
	FamilyGeoSpatial Family = "geospatial"
)

// Families lists every family a constructible DataType can belong to.
var Families = []Family{
	FamilyNull, FamilyBoolean, FamilyNumeric, FamilyString, FamilyBinary,
	FamilyTemporal, FamilyArray, FamilyMap, FamilyStruct, FamilyUUID,
	FamilyGeoSpatial,
}

// Family returns the family the kind belongs to.
func (k Kind) Family() Family {
	switch k {
	case KindNull:
		return FamilyNull
	case KindBoolean:
		return FamilyBoolean
	case KindInt8, KindInt16, KindInt32, KindInt64,
		KindUInt8, KindUInt16, KindUInt32, KindUInt64,
		KindFloat32, KindFloat64, KindDecimal:
		return FamilyNumeric
	case KindString:
		return FamilyString
	case KindBinary:
		return FamilyBinary
	case KindDate, KindTime, KindTimestamp, KindInterval:
		return FamilyTemporal
	case KindArray:
		return FamilyArray
	case KindMap:
		return FamilyMap
	case KindStruct:
		return FamilyStruct
	case KindUUID:
		return FamilyUUID
	case KindGeometry, KindGeography:
		return FamilyGeoSpatial
	}
	return FamilyInvalid
}

// IsNumeric returns true if the kind is a numeric kind.
func (k Kind) IsNumeric() bool {
	return k.IsInteger() || k.IsFloating() || k == KindDecimal
}

// IsInteger returns true if the kind is an integer kind.
func (k Kind) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

// IsSigned returns true if the kind is a signed integer kind.
func (k Kind) IsSigned() bool {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
	return false
}

// IsUnsigned returns true if the kind is an unsigned integer kind.
func (k Kind) IsUnsigned() bool {
	switch k {
	case KindUInt8, KindUInt16, KindUInt32, KindUInt64:
		return true
	}
	return false
}

// IsFloating returns true if the kind is a floating point kind.
func (k Kind) IsFloating() bool {
	switch k {
	case KindFloat32, KindFloat64:
		return true
	}
	return false
}

// IsTemporal returns true if the kind is a date/time kind.
func (k Kind) IsTemporal() bool {
	switch k {
	case KindDate, KindTime, KindTimestamp, KindInterval:
		return true
	}
	return false
}

// IsContainer returns true if the kind is a nested container kind.
func (k Kind) IsContainer() bool {
	switch k {
	case KindArray, KindMap, KindStruct:
		return true
	}
	return false
}

// IsGeoSpatial returns true if the kind is a geospatial kind.
func (k Kind) IsGeoSpatial() bool {
	switch k {
	case KindGeometry, KindGeography:
		return true
	}
	return false
}

// IntervalUnit is the resolution of an interval type.
type IntervalUnit string

const (
	UnitYear        IntervalUnit = "Y"
	UnitQuarter     IntervalUnit = "Q"
	UnitMonth       IntervalUnit = "M"
	UnitWeek        IntervalUnit = "W"
	UnitDay         IntervalUnit = "D"
	UnitHour        IntervalUnit = "h"
	UnitMinute      IntervalUnit = "m"
	UnitSecond      IntervalUnit = "s"
	UnitMillisecond IntervalUnit = "ms"
	UnitMicrosecond IntervalUnit = "us"
	UnitNanosecond  IntervalUnit = "ns"
)

// IntervalUnits lists the valid interval resolutions, coarsest first.
var IntervalUnits = []IntervalUnit{
	UnitYear, UnitQuarter, UnitMonth, UnitWeek, UnitDay,
	UnitHour, UnitMinute, UnitSecond, UnitMillisecond, UnitMicrosecond, UnitNanosecond,
}

// Valid reports whether the unit is one of the defined resolutions.
func (u IntervalUnit) Valid() bool {
	for _, known := range IntervalUnits {
		if u == known {
			return true
		}
	}
	return false
}

// DataType describes the domain of a value: a kind tag, parameters for
// parameterized kinds, and a nullable flag.
//
// Equals and Hash are purely structural and ignore the nullable flag at
// every nesting level; nullability is enforced only by AssignableTo and
// by the null-kind casting rule. DataType values are immutable by
// convention and safe to share.
type DataType struct {
	Kind     Kind
	Nullable bool
	Info     TypeInfo
}

// TypeInfo carries the parameters of a parameterized kind. It is nil
// for parameterless kinds.
type TypeInfo interface {
	typeInfoMarker()
}

// DecimalInfo contains precision and scale for decimal types.
type DecimalInfo struct {
	Precision int // total digits
	Scale     int // digits after the point
}

func (i *DecimalInfo) typeInfoMarker() {}

// TimestampInfo contains the timezone of a timestamp type. Zone-less
// timestamps carry no TimestampInfo at all.
type TimestampInfo struct {
	Zone string
}

func (i *TimestampInfo) typeInfoMarker() {}

// IntervalInfo contains the resolution of an interval type.
type IntervalInfo struct {
	Unit IntervalUnit
}

func (i *IntervalInfo) typeInfoMarker() {}

// ArrayInfo contains the element type of an array type.
type ArrayInfo struct {
	Elem DataType
}

func (i *ArrayInfo) typeInfoMarker() {}

// MapInfo contains the key and value types of a map type.
type MapInfo struct {
	Key   DataType
	Value DataType
}

func (i *MapInfo) typeInfoMarker() {}

// StructInfo contains the ordered field definitions of a struct type.
type StructInfo struct {
	Fields []StructField
}

func (i *StructInfo) typeInfoMarker() {}

// StructField is one named field of a struct type.
type StructField struct {
	Name string
	Type DataType
}

// GeoInfo contains the spatial reference identifier of a geospatial
// type. Types without a known SRID carry no GeoInfo at all.
type GeoInfo struct {
	SRID int
}

func (i *GeoInfo) typeInfoMarker() {}

// Parameterless types. All default types are nullable; use NonNullable
// for the strict variants.
var (
	Null      = DataType{Kind: KindNull, Nullable: true}
	Boolean   = DataType{Kind: KindBoolean, Nullable: true}
	Int8      = DataType{Kind: KindInt8, Nullable: true}
	Int16     = DataType{Kind: KindInt16, Nullable: true}
	Int32     = DataType{Kind: KindInt32, Nullable: true}
	Int64     = DataType{Kind: KindInt64, Nullable: true}
	UInt8     = DataType{Kind: KindUInt8, Nullable: true}
	UInt16    = DataType{Kind: KindUInt16, Nullable: true}
	UInt32    = DataType{Kind: KindUInt32, Nullable: true}
	UInt64    = DataType{Kind: KindUInt64, Nullable: true}
	Float32   = DataType{Kind: KindFloat32, Nullable: true}
	Float64   = DataType{Kind: KindFloat64, Nullable: true}
	String    = DataType{Kind: KindString, Nullable: true}
	Binary    = DataType{Kind: KindBinary, Nullable: true}
	Date      = DataType{Kind: KindDate, Nullable: true}
	Time      = DataType{Kind: KindTime, Nullable: true}
	Timestamp = DataType{Kind: KindTimestamp, Nullable: true}
	UUID      = DataType{Kind: KindUUID, Nullable: true}
	Geometry  = DataType{Kind: KindGeometry, Nullable: true}
	Geography = DataType{Kind: KindGeography, Nullable: true}
)

// Decimal returns a decimal type with the given precision and scale.
func Decimal(precision, scale int) DataType {
	return DataType{Kind: KindDecimal, Nullable: true, Info: &DecimalInfo{Precision: precision, Scale: scale}}
}

// TimestampWithZone returns a timestamp type carrying a timezone. An
// empty zone yields the zone-less Timestamp.
func TimestampWithZone(zone string) DataType {
	if zone == "" {
		return Timestamp
	}
	return DataType{Kind: KindTimestamp, Nullable: true, Info: &TimestampInfo{Zone: zone}}
}

// Interval returns an interval type with the given resolution.
func Interval(unit IntervalUnit) DataType {
	return DataType{Kind: KindInterval, Nullable: true, Info: &IntervalInfo{Unit: unit}}
}

// ArrayOf returns an array type with the given element type.
func ArrayOf(elem DataType) DataType {
	return DataType{Kind: KindArray, Nullable: true, Info: &ArrayInfo{Elem: elem}}
}

// MapOf returns a map type with the given key and value types.
func MapOf(key, value DataType) DataType {
	return DataType{Kind: KindMap, Nullable: true, Info: &MapInfo{Key: key, Value: value}}
}

// StructOf returns a struct type with the given ordered fields.
func StructOf(fields ...StructField) DataType {
	copied := make([]StructField, len(fields))
	copy(copied, fields)
	return DataType{Kind: KindStruct, Nullable: true, Info: &StructInfo{Fields: copied}}
}

// GeometryWithSRID returns a geometry type bound to a spatial reference
// system. SRID 0 yields the plain Geometry.
func GeometryWithSRID(srid int) DataType {
	if srid == 0 {
		return Geometry
	}
	return DataType{Kind: KindGeometry, Nullable: true, Info: &GeoInfo{SRID: srid}}
}

// GeographyWithSRID returns a geography type bound to a spatial
// reference system. SRID 0 yields the plain Geography.
func GeographyWithSRID(srid int) DataType {
	if srid == 0 {
		return Geography
	}
	return DataType{Kind: KindGeography, Nullable: true, Info: &GeoInfo{SRID: srid}}
}

// NonNullable returns a copy of t with the nullable flag cleared.
func (t DataType) NonNullable() DataType {
	t.Nullable = false
	return t
}

// AsNullable returns a copy of t with the nullable flag set.
func (t DataType) AsNullable() DataType {
	t.Nullable = true
	return t
}

// Family returns the family of the type's kind.
func (t DataType) Family() Family { return t.Kind.Family() }

// IsNumeric returns true if the type is a numeric type.
func (t DataType) IsNumeric() bool { return t.Kind.IsNumeric() }

// IsInteger returns true if the type is an integer type.
func (t DataType) IsInteger() bool { return t.Kind.IsInteger() }

// IsFloating returns true if the type is a floating point type.
func (t DataType) IsFloating() bool { return t.Kind.IsFloating() }

// IsTemporal returns true if the type is a date/time type.
func (t DataType) IsTemporal() bool { return t.Kind.IsTemporal() }

// IsContainer returns true if the type is a nested container type.
func (t DataType) IsContainer() bool { return t.Kind.IsContainer() }

// IsGeoSpatial returns true if the type is a geospatial type.
func (t DataType) IsGeoSpatial() bool { return t.Kind.IsGeoSpatial() }

// IsNull returns true if the type is the untyped null type.
func (t DataType) IsNull() bool { return t.Kind == KindNull }

// Elem returns the element type of an array type.
func (t DataType) Elem() (DataType, bool) {
	if info, ok := t.Info.(*ArrayInfo); ok {
		return info.Elem, true
	}
	return DataType{}, false
}

// KeyValue returns the key and value types of a map type.
func (t DataType) KeyValue() (DataType, DataType, bool) {
	if info, ok := t.Info.(*MapInfo); ok {
		return info.Key, info.Value, true
	}
	return DataType{}, DataType{}, false
}

// Fields returns the ordered fields of a struct type.
func (t DataType) Fields() ([]StructField, bool) {
	if info, ok := t.Info.(*StructInfo); ok {
		return info.Fields, true
	}
	return nil, false
}

// FieldType returns the type of the named struct field.
func (t DataType) FieldType(name string) (DataType, bool) {
	info, ok := t.Info.(*StructInfo)
	if !ok {
		return DataType{}, false
	}
	for _, f := range info.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return DataType{}, false
}

// PrecisionScale returns the precision and scale of a decimal type.
func (t DataType) PrecisionScale() (precision, scale int, ok bool) {
	if info, isDecimal := t.Info.(*DecimalInfo); isDecimal {
		return info.Precision, info.Scale, true
	}
	return 0, 0, false
}

// Zone returns the timezone of a timestamp type, empty when zone-less.
func (t DataType) Zone() string {
	if info, ok := t.Info.(*TimestampInfo); ok {
		return info.Zone
	}
	return ""
}

// Unit returns the resolution of an interval type.
func (t DataType) Unit() (IntervalUnit, bool) {
	if info, ok := t.Info.(*IntervalInfo); ok {
		return info.Unit, true
	}
	return "", false
}

// SRID returns the spatial reference identifier of a geospatial type,
// zero when unset.
func (t DataType) SRID() int {
	if info, ok := t.Info.(*GeoInfo); ok {
		return info.SRID
	}
	return 0
}

// Equals reports structural equality: same kind and recursively equal
// kind parameters. The nullable flag does not participate at any level.
func (t DataType) Equals(other DataType) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch info := t.Info.(type) {
	case nil:
		return other.Info == nil
	case *DecimalInfo:
		o, ok := other.Info.(*DecimalInfo)
		return ok && info.Precision == o.Precision && info.Scale == o.Scale
	case *TimestampInfo:
		o, ok := other.Info.(*TimestampInfo)
		return ok && info.Zone == o.Zone
	case *IntervalInfo:
		o, ok := other.Info.(*IntervalInfo)
		return ok && info.Unit == o.Unit
	case *ArrayInfo:
		o, ok := other.Info.(*ArrayInfo)
		return ok && info.Elem.Equals(o.Elem)
	case *MapInfo:
		o, ok := other.Info.(*MapInfo)
		return ok && info.Key.Equals(o.Key) && info.Value.Equals(o.Value)
	case *StructInfo:
		o, ok := other.Info.(*StructInfo)
		if !ok || len(info.Fields) != len(o.Fields) {
			return false
		}
		for i, f := range info.Fields {
			if f.Name != o.Fields[i].Name || !f.Type.Equals(o.Fields[i].Type) {
				return false
			}
		}
		return true
	case *GeoInfo:
		o, ok := other.Info.(*GeoInfo)
		return ok && info.SRID == o.SRID
	}
	return false
}

// AssignableTo reports whether a value of type t can occupy a slot
// declared as other: the types must be structurally equal and a
// nullable source cannot flow into a non-nullable target. The check is
// top-level; nested nullability is advisory.
func (t DataType) AssignableTo(other DataType) bool {
	if !t.Equals(other) {
		return false
	}
	return !t.Nullable || other.Nullable
}

// String renders the canonical form, e.g. "int64", "decimal(15, 2)",
// "array<string>", "struct<a: int64>", "timestamp('UTC')". Non-nullable
// types carry a "!" prefix. Parse accepts exactly this form.
func (t DataType) String() string {
	var sb strings.Builder
	t.render(&sb, true)
	return sb.String()
}

// Hash returns a structural hash consistent with Equals.
func (t DataType) Hash() uint64 {
	var sb strings.Builder
	t.render(&sb, false)
	h := fnv.New64a()
	h.Write([]byte(sb.String()))
	return h.Sum64()
}

func (t DataType) render(sb *strings.Builder, withNullable bool) {
	if withNullable && !t.Nullable {
		sb.WriteByte('!')
	}
	sb.WriteString(string(t.Kind))
	switch info := t.Info.(type) {
	case *DecimalInfo:
		fmt.Fprintf(sb, "(%d, %d)", info.Precision, info.Scale)
	case *TimestampInfo:
		fmt.Fprintf(sb, "('%s')", info.Zone)
	case *IntervalInfo:
		fmt.Fprintf(sb, "('%s')", info.Unit)
	case *GeoInfo:
		fmt.Fprintf(sb, "(%d)", info.SRID)
	case *ArrayInfo:
		sb.WriteByte('<')
		info.Elem.render(sb, withNullable)
		sb.WriteByte('>')
	case *MapInfo:
		sb.WriteByte('<')
		info.Key.render(sb, withNullable)
		sb.WriteString(", ")
		info.Value.render(sb, withNullable)
		sb.WriteByte('>')
	case *StructInfo:
		sb.WriteByte('<')
		for i, f := range info.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(": ")
			f.Type.render(sb, withNullable)
		}
		sb.WriteByte('>')
	}
}
