package datatypes

import (
	"fmt"
	"strconv"

	"github.com/apache/arrow/go/v17/arrow"
)

// Arrow field metadata keys used for geospatial columns, following the
// geoarrow/GeoParquet conventions.
const (
	arrowExtensionKey = "ARROW:extension:name"
	geoExtensionName  = "geoarrow.wkb"
	geoSRIDKey        = "srid"
	geoEdgesKey       = "edges"
)

// ToArrow converts t to the corresponding Arrow data type. Geospatial
// types convert to WKB binary storage; the geoarrow extension metadata
// that marks them lives on fields, see ArrowField. Calendar interval
// units map to Arrow's month/day/nano interval, hour and minute counts
// coarsen to second durations.
func ToArrow(t DataType) (arrow.DataType, error) {
	switch t.Kind {
	case KindNull:
		return arrow.Null, nil
	case KindBoolean:
		return arrow.FixedWidthTypes.Boolean, nil
	case KindInt8:
		return arrow.PrimitiveTypes.Int8, nil
	case KindInt16:
		return arrow.PrimitiveTypes.Int16, nil
	case KindInt32:
		return arrow.PrimitiveTypes.Int32, nil
	case KindInt64:
		return arrow.PrimitiveTypes.Int64, nil
	case KindUInt8:
		return arrow.PrimitiveTypes.Uint8, nil
	case KindUInt16:
		return arrow.PrimitiveTypes.Uint16, nil
	case KindUInt32:
		return arrow.PrimitiveTypes.Uint32, nil
	case KindUInt64:
		return arrow.PrimitiveTypes.Uint64, nil
	case KindFloat32:
		return arrow.PrimitiveTypes.Float32, nil
	case KindFloat64:
		return arrow.PrimitiveTypes.Float64, nil
	case KindDecimal:
		precision, scale, _ := t.PrecisionScale()
		return &arrow.Decimal128Type{Precision: int32(precision), Scale: int32(scale)}, nil
	case KindString:
		return arrow.BinaryTypes.String, nil
	case KindBinary, KindGeometry, KindGeography:
		return arrow.BinaryTypes.Binary, nil
	case KindDate:
		return arrow.FixedWidthTypes.Date32, nil
	case KindTime:
		return arrow.FixedWidthTypes.Time64us, nil
	case KindTimestamp:
		return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: t.Zone()}, nil
	case KindInterval:
		unit, _ := t.Unit()
		switch unit {
		case UnitSecond, UnitMinute, UnitHour:
			return &arrow.DurationType{Unit: arrow.Second}, nil
		case UnitMillisecond:
			return &arrow.DurationType{Unit: arrow.Millisecond}, nil
		case UnitMicrosecond:
			return &arrow.DurationType{Unit: arrow.Microsecond}, nil
		case UnitNanosecond:
			return &arrow.DurationType{Unit: arrow.Nanosecond}, nil
		default:
			return arrow.FixedWidthTypes.MonthDayNanoInterval, nil
		}
	case KindUUID:
		return &arrow.FixedSizeBinaryType{ByteWidth: 16}, nil
	case KindArray:
		elem, _ := t.Elem()
		arrowElem, err := ToArrow(elem)
		if err != nil {
			return nil, err
		}
		return arrow.ListOf(arrowElem), nil
	case KindMap:
		key, value, _ := t.KeyValue()
		arrowKey, err := ToArrow(key)
		if err != nil {
			return nil, err
		}
		arrowValue, err := ToArrow(value)
		if err != nil {
			return nil, err
		}
		return arrow.MapOf(arrowKey, arrowValue), nil
	case KindStruct:
		fields, _ := t.Fields()
		arrowFields := make([]arrow.Field, len(fields))
		for i, f := range fields {
			af, err := ArrowField(Field{Name: f.Name, Type: f.Type})
			if err != nil {
				return nil, err
			}
			arrowFields[i] = af
		}
		return arrow.StructOf(arrowFields...), nil
	}
	return nil, fmt.Errorf("%w: type %s has no arrow representation", ErrInput, t)
}

// FromArrow converts an Arrow data type to a DataType. Field-level
// geoarrow metadata is handled by FieldFromArrow; a bare binary type
// converts to Binary.
func FromArrow(at arrow.DataType) (DataType, error) {
	switch a := at.(type) {
	case *arrow.NullType:
		return Null, nil
	case *arrow.BooleanType:
		return Boolean, nil
	case *arrow.Int8Type:
		return Int8, nil
	case *arrow.Int16Type:
		return Int16, nil
	case *arrow.Int32Type:
		return Int32, nil
	case *arrow.Int64Type:
		return Int64, nil
	case *arrow.Uint8Type:
		return UInt8, nil
	case *arrow.Uint16Type:
		return UInt16, nil
	case *arrow.Uint32Type:
		return UInt32, nil
	case *arrow.Uint64Type:
		return UInt64, nil
	case *arrow.Float32Type:
		return Float32, nil
	case *arrow.Float64Type:
		return Float64, nil
	case *arrow.Decimal128Type:
		return Decimal(int(a.Precision), int(a.Scale)), nil
	case *arrow.Decimal256Type:
		return Decimal(int(a.Precision), int(a.Scale)), nil
	case *arrow.StringType, *arrow.LargeStringType:
		return String, nil
	case *arrow.BinaryType, *arrow.LargeBinaryType:
		return Binary, nil
	case *arrow.FixedSizeBinaryType:
		if a.ByteWidth == 16 {
			return UUID, nil
		}
		return Binary, nil
	case *arrow.Date32Type, *arrow.Date64Type:
		return Date, nil
	case *arrow.Time32Type, *arrow.Time64Type:
		return Time, nil
	case *arrow.TimestampType:
		return TimestampWithZone(a.TimeZone), nil
	case *arrow.DurationType:
		switch a.Unit {
		case arrow.Second:
			return Interval(UnitSecond), nil
		case arrow.Millisecond:
			return Interval(UnitMillisecond), nil
		case arrow.Microsecond:
			return Interval(UnitMicrosecond), nil
		case arrow.Nanosecond:
			return Interval(UnitNanosecond), nil
		}
	case *arrow.MonthIntervalType:
		return Interval(UnitMonth), nil
	case *arrow.MonthDayNanoIntervalType, *arrow.DayTimeIntervalType:
		return Interval(UnitDay), nil
	case *arrow.ListType:
		elem, err := FromArrow(a.Elem())
		if err != nil {
			return DataType{}, err
		}
		return ArrayOf(elem), nil
	case *arrow.LargeListType:
		elem, err := FromArrow(a.Elem())
		if err != nil {
			return DataType{}, err
		}
		return ArrayOf(elem), nil
	case *arrow.MapType:
		key, err := FromArrow(a.KeyType())
		if err != nil {
			return DataType{}, err
		}
		value, err := FromArrow(a.ItemType())
		if err != nil {
			return DataType{}, err
		}
		return MapOf(key, value), nil
	case *arrow.StructType:
		fields := make([]StructField, a.NumFields())
		for i := range fields {
			af := a.Field(i)
			converted, err := FieldFromArrow(af)
			if err != nil {
				return DataType{}, err
			}
			fields[i] = StructField{Name: converted.Name, Type: converted.Type}
		}
		return StructOf(fields...), nil
	}
	if ext, ok := at.(arrow.ExtensionType); ok {
		if ext.ExtensionName() == geoExtensionName {
			return Geometry, nil
		}
		return FromArrow(ext.StorageType())
	}
	return DataType{}, fmt.Errorf("%w: arrow type %s has no lattice representation", ErrInput, at)
}

// ArrowField converts a named column to an Arrow field. Geospatial
// columns are marked with geoarrow.wkb extension metadata carrying the
// SRID, and geography columns carry spherical edges.
func ArrowField(f Field) (arrow.Field, error) {
	at, err := ToArrow(f.Type)
	if err != nil {
		return arrow.Field{}, err
	}
	out := arrow.Field{Name: f.Name, Type: at, Nullable: f.Type.Nullable}
	if f.Type.IsGeoSpatial() {
		edges := "planar"
		if f.Type.Kind == KindGeography {
			edges = "spherical"
		}
		out.Metadata = arrow.MetadataFrom(map[string]string{
			arrowExtensionKey: geoExtensionName,
			geoSRIDKey:        strconv.Itoa(f.Type.SRID()),
			geoEdgesKey:       edges,
		})
	}
	return out, nil
}

// FieldFromArrow converts an Arrow field, honoring geoarrow extension
// metadata on binary columns.
func FieldFromArrow(af arrow.Field) (Field, error) {
	t, err := FromArrow(af.Type)
	if err != nil {
		return Field{}, err
	}
	if name, ok := metadataValue(af.Metadata, arrowExtensionKey); ok && name == geoExtensionName {
		srid := 0
		if raw, has := metadataValue(af.Metadata, geoSRIDKey); has {
			srid, _ = strconv.Atoi(raw)
		}
		if edges, has := metadataValue(af.Metadata, geoEdgesKey); has && edges == "spherical" {
			t = GeographyWithSRID(srid)
		} else {
			t = GeometryWithSRID(srid)
		}
	}
	if !af.Nullable {
		t = t.NonNullable()
	}
	return Field{Name: af.Name, Type: t}, nil
}

// ToArrow converts the schema to an Arrow schema.
func (s Schema) ToArrow() (*arrow.Schema, error) {
	fields := make([]arrow.Field, s.Len())
	for i := range fields {
		af, err := ArrowField(s.Field(i))
		if err != nil {
			return nil, err
		}
		fields[i] = af
	}
	return arrow.NewSchema(fields, nil), nil
}

// SchemaFromArrow converts an Arrow schema.
func SchemaFromArrow(as *arrow.Schema) (Schema, error) {
	fields := make([]Field, len(as.Fields()))
	for i, af := range as.Fields() {
		converted, err := FieldFromArrow(af)
		if err != nil {
			return Schema{}, err
		}
		fields[i] = converted
	}
	return NewSchema(fields...)
}

func metadataValue(md arrow.Metadata, key string) (string, bool) {
	idx := md.FindKey(key)
	if idx < 0 {
		return "", false
	}
	return md.Values()[idx], true
}
