package datatypes

import (
	"encoding/hex"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// MapEntry is one key/value pair of a normalized map literal. Map
// literals are stored as entry slices ordered by key so structurally
// equal maps always normalize identically.
type MapEntry struct {
	Key   any
	Value any
}

// Infer derives a DataType from a native Go value: booleans, integers
// (bare int and uint infer the narrowest kind holding the value, sized
// integers keep their width), floats, strings, []byte, time.Time,
// time.Duration, *apd.Decimal, uuid.UUID, orb geometries, and slices
// and maps of such values. Values with no inferable type fail with an
// InferenceError; struct literals always need an explicit type because
// Go maps carry no field order.
func Infer(value any) (DataType, error) {
	switch v := value.(type) {
	case nil:
		return Null, nil
	case bool:
		return Boolean, nil
	case int:
		return narrowestSigned(int64(v)), nil
	case int8:
		return Int8, nil
	case int16:
		return Int16, nil
	case int32:
		return Int32, nil
	case int64:
		return Int64, nil
	case uint:
		return narrowestUnsigned(uint64(v)), nil
	case uint8:
		return UInt8, nil
	case uint16:
		return UInt16, nil
	case uint32:
		return UInt32, nil
	case uint64:
		return UInt64, nil
	case float32:
		return Float32, nil
	case float64:
		return Float64, nil
	case string:
		return String, nil
	case []byte:
		return Binary, nil
	case time.Time:
		return inferTimestamp(v), nil
	case time.Duration:
		return Interval(UnitMicrosecond), nil
	case *apd.Decimal:
		precision, scale := decimalParams(v)
		return Decimal(precision, scale), nil
	case uuid.UUID:
		return UUID, nil
	}
	if _, ok := value.(orb.Geometry); ok {
		return Geometry, nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return inferSequence(rv)
	case reflect.Map:
		return inferMapping(rv)
	}
	return DataType{}, &InferenceError{Value: value}
}

func inferTimestamp(v time.Time) DataType {
	loc := v.Location()
	if loc == time.UTC || loc == time.Local {
		return Timestamp
	}
	return TimestampWithZone(loc.String())
}

func inferSequence(rv reflect.Value) (DataType, error) {
	if rv.Len() == 0 {
		return ArrayOf(Null), nil
	}
	elems := make([]DataType, rv.Len())
	for i := range elems {
		t, err := Infer(rv.Index(i).Interface())
		if err != nil {
			return DataType{}, err
		}
		elems[i] = t
	}
	elem, err := HighestPrecedence(elems)
	if err != nil {
		return DataType{}, err
	}
	return ArrayOf(elem), nil
}

func inferMapping(rv reflect.Value) (DataType, error) {
	if rv.Len() == 0 {
		return MapOf(Null, Null), nil
	}
	keys := make([]DataType, 0, rv.Len())
	values := make([]DataType, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		kt, err := Infer(iter.Key().Interface())
		if err != nil {
			return DataType{}, err
		}
		vt, err := Infer(iter.Value().Interface())
		if err != nil {
			return DataType{}, err
		}
		keys = append(keys, kt)
		values = append(values, vt)
	}
	key, err := HighestPrecedence(keys)
	if err != nil {
		return DataType{}, err
	}
	value, err := HighestPrecedence(values)
	if err != nil {
		return DataType{}, err
	}
	return MapOf(key, value), nil
}

func narrowestSigned(v int64) DataType {
	switch {
	case v >= math.MinInt8 && v <= math.MaxInt8:
		return Int8
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return Int16
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return Int32
	}
	return Int64
}

func narrowestUnsigned(v uint64) DataType {
	switch {
	case v <= math.MaxUint8:
		return UInt8
	case v <= math.MaxUint16:
		return UInt16
	case v <= math.MaxUint32:
		return UInt32
	}
	return UInt64
}

// decimalParams derives precision and scale from a concrete decimal.
func decimalParams(d *apd.Decimal) (precision, scale int) {
	if d.Exponent < 0 {
		scale = int(-d.Exponent)
	}
	precision = int(d.NumDigits())
	if d.Exponent > 0 {
		precision += int(d.Exponent)
	}
	if precision < scale {
		precision = scale
	}
	return precision, scale
}

// Normalize converts a native value into the canonical in-memory form
// of dtype t: int64/uint64 for integers, float64 for floats, a decimal
// rescaled to the declared scale, UTC times at microsecond resolution,
// a duration since midnight for time-of-day, unit counts for intervals,
// element slices for arrays, key-ordered []MapEntry for maps, and
// field-ordered []any for structs with every field present. It fails
// with a type error when the value does not fit t.
func Normalize(t DataType, value any) (any, error) {
	if value == nil {
		if t.Nullable {
			return nil, nil
		}
		return nil, &CastError{From: Null, To: t}
	}
	switch t.Kind {
	case KindBoolean:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case KindInt8, KindInt16, KindInt32, KindInt64:
		if i, ok := normalizeSigned(t.Kind, value); ok {
			return i, nil
		}
	case KindUInt8, KindUInt16, KindUInt32, KindUInt64:
		if u, ok := normalizeUnsigned(t.Kind, value); ok {
			return u, nil
		}
	case KindFloat32:
		if f, ok := normalizeFloat(value); ok {
			if math.Abs(f) <= math.MaxFloat32 || math.IsInf(f, 0) || math.IsNaN(f) {
				return float64(float32(f)), nil
			}
		}
	case KindFloat64:
		if f, ok := normalizeFloat(value); ok {
			return f, nil
		}
	case KindDecimal:
		return normalizeDecimal(t, value)
	case KindString:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case KindBinary:
		if b, ok := value.([]byte); ok {
			return append([]byte(nil), b...), nil
		}
	case KindDate:
		switch v := value.(type) {
		case time.Time:
			year, month, day := v.Date()
			return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
		case string:
			parsed, err := time.ParseInLocation("2006-01-02", v, time.UTC)
			if err == nil {
				return parsed, nil
			}
		}
	case KindTime:
		switch v := value.(type) {
		case time.Duration:
			if v >= 0 && v < 24*time.Hour {
				return v, nil
			}
		case string:
			parsed, err := time.Parse("15:04:05.999999999", v)
			if err == nil {
				return time.Duration(parsed.Hour())*time.Hour +
					time.Duration(parsed.Minute())*time.Minute +
					time.Duration(parsed.Second())*time.Second +
					time.Duration(parsed.Nanosecond()), nil
			}
		}
	case KindTimestamp:
		switch v := value.(type) {
		case time.Time:
			return v.UTC().Truncate(time.Microsecond), nil
		case string:
			for _, layout := range timestampLayouts {
				parsed, err := time.ParseInLocation(layout, v, time.UTC)
				if err == nil {
					return parsed.UTC().Truncate(time.Microsecond), nil
				}
			}
		}
	case KindInterval:
		unit, ok := t.Unit()
		if !ok {
			break
		}
		switch v := value.(type) {
		case time.Duration:
			step, timeBased := unitDuration[unit]
			if timeBased && v%step == 0 {
				return int64(v / step), nil
			}
		default:
			if neg, mag, isInt := rawInt(v); isInt && intFits(neg, mag, KindInt64) {
				if neg {
					return -int64(mag), nil
				}
				return int64(mag), nil
			}
		}
	case KindArray:
		return normalizeArray(t, value)
	case KindMap:
		return normalizeMap(t, value)
	case KindStruct:
		return normalizeStruct(t, value)
	case KindUUID:
		switch v := value.(type) {
		case uuid.UUID:
			return v, nil
		case [16]byte:
			return uuid.UUID(v), nil
		case string:
			parsed, err := uuid.Parse(v)
			if err == nil {
				return parsed, nil
			}
		}
	case KindGeometry, KindGeography:
		switch v := value.(type) {
		case orb.Geometry:
			if err := validateGeometry(v); err != nil {
				return nil, fmt.Errorf("%w: %s value: %s", ErrInput, t.Kind, err)
			}
			return v, nil
		case []byte:
			geom, err := DecodeGeometry(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %s value: %s", ErrInput, t.Kind, err)
			}
			return geom, nil
		}
	}
	return nil, normalizeError(t, value)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// unitDuration maps the time-based interval units to their duration.
// Calendar units (years, quarters, months) have no fixed duration.
var unitDuration = map[IntervalUnit]time.Duration{
	UnitWeek:        7 * 24 * time.Hour,
	UnitDay:         24 * time.Hour,
	UnitHour:        time.Hour,
	UnitMinute:      time.Minute,
	UnitSecond:      time.Second,
	UnitMillisecond: time.Millisecond,
	UnitMicrosecond: time.Microsecond,
	UnitNanosecond:  time.Nanosecond,
}

func normalizeError(t DataType, value any) error {
	from, err := Infer(value)
	if err != nil {
		from = DataType{Kind: KindInvalid}
	}
	return &CastError{From: from, To: t, Value: value}
}

func normalizeSigned(k Kind, value any) (int64, bool) {
	if neg, mag, ok := rawInt(value); ok {
		if !intFits(neg, mag, k) {
			return 0, false
		}
		if neg {
			return -int64(mag - 1) - 1, true
		}
		return int64(mag), true
	}
	if f, ok := rawFloat(value); ok && floatFitsInt(f, k) {
		return int64(f), true
	}
	if d, ok := value.(*apd.Decimal); ok {
		i, err := d.Int64()
		if err == nil {
			neg := i < 0
			mag := uint64(i)
			if neg {
				mag = uint64(-i)
			}
			if intFits(neg, mag, k) {
				return i, true
			}
		}
	}
	return 0, false
}

func normalizeUnsigned(k Kind, value any) (uint64, bool) {
	if neg, mag, ok := rawInt(value); ok {
		if intFits(neg, mag, k) {
			return mag, true
		}
		return 0, false
	}
	if f, ok := rawFloat(value); ok && floatFitsInt(f, k) {
		return uint64(f), true
	}
	return 0, false
}

func normalizeFloat(value any) (float64, bool) {
	if f, ok := rawFloat(value); ok {
		return f, true
	}
	if neg, mag, ok := rawInt(value); ok {
		f := float64(mag)
		if neg {
			f = -f
		}
		return f, true
	}
	return 0, false
}

func normalizeDecimal(t DataType, value any) (any, error) {
	precision, scale, ok := t.PrecisionScale()
	if !ok {
		return nil, normalizeError(t, value)
	}
	var d *apd.Decimal
	switch v := value.(type) {
	case *apd.Decimal:
		d = v
	case string:
		parsed, _, err := apd.NewFromString(v)
		if err != nil {
			return nil, normalizeError(t, value)
		}
		d = parsed
	default:
		if neg, mag, isInt := rawInt(v); isInt {
			if mag > math.MaxInt64 {
				return nil, normalizeError(t, value)
			}
			i := int64(mag)
			if neg {
				i = -i
			}
			d = apd.New(i, 0)
		} else if f, isFloat := rawFloat(v); isFloat {
			parsed, _, err := apd.NewFromString(strconv.FormatFloat(f, 'f', -1, 64))
			if err != nil {
				return nil, normalizeError(t, value)
			}
			d = parsed
		} else {
			return nil, normalizeError(t, value)
		}
	}
	var out apd.Decimal
	ctx := apd.BaseContext.WithPrecision(uint32(precision))
	res, err := ctx.Quantize(&out, d, -int32(scale))
	if err != nil || res&apd.Inexact != 0 {
		return nil, normalizeError(t, value)
	}
	return &out, nil
}

func normalizeArray(t DataType, value any) (any, error) {
	elem, _ := t.Elem()
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, normalizeError(t, value)
	}
	out := make([]any, rv.Len())
	for i := range out {
		normalized, err := Normalize(elem, rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out[i] = normalized
	}
	return out, nil
}

func normalizeMap(t DataType, value any) (any, error) {
	key, val, _ := t.KeyValue()
	var entries []MapEntry
	switch v := value.(type) {
	case []MapEntry:
		entries = make([]MapEntry, 0, len(v))
		for _, e := range v {
			nk, err := Normalize(key, e.Key)
			if err != nil {
				return nil, err
			}
			nv, err := Normalize(val, e.Value)
			if err != nil {
				return nil, err
			}
			entries = append(entries, MapEntry{Key: nk, Value: nv})
		}
	default:
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Map {
			return nil, normalizeError(t, value)
		}
		entries = make([]MapEntry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			nk, err := Normalize(key, iter.Key().Interface())
			if err != nil {
				return nil, err
			}
			nv, err := Normalize(val, iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			entries = append(entries, MapEntry{Key: nk, Value: nv})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return FormatValue(entries[i].Key) < FormatValue(entries[j].Key)
	})
	return entries, nil
}

func normalizeStruct(t DataType, value any) (any, error) {
	fields, _ := t.Fields()
	switch v := value.(type) {
	case map[string]any:
		if len(v) != len(fields) {
			return nil, fmt.Errorf("%w: struct value has %d entries, type %s has %d fields",
				ErrInput, len(v), t, len(fields))
		}
		out := make([]any, len(fields))
		for i, f := range fields {
			raw, present := v[f.Name]
			if !present {
				return nil, fmt.Errorf("%w: struct value is missing field %q of %s", ErrInput, f.Name, t)
			}
			normalized, err := Normalize(f.Type, raw)
			if err != nil {
				return nil, err
			}
			out[i] = normalized
		}
		return out, nil
	case []any:
		if len(v) != len(fields) {
			return nil, fmt.Errorf("%w: struct value has %d entries, type %s has %d fields",
				ErrInput, len(v), t, len(fields))
		}
		out := make([]any, len(fields))
		for i, f := range fields {
			normalized, err := Normalize(f.Type, v[i])
			if err != nil {
				return nil, err
			}
			out[i] = normalized
		}
		return out, nil
	}
	return nil, normalizeError(t, value)
}

// FormatValue renders a normalized literal value in a stable form used
// for hashing, map entry ordering and error text.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return strconv.Quote(x)
	case []byte:
		return "0x" + hex.EncodeToString(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case time.Duration:
		return x.String()
	case *apd.Decimal:
		return x.Text('f')
	case uuid.UUID:
		return x.String()
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = FormatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []MapEntry:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = FormatValue(e.Key) + ": " + FormatValue(e.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	if g, ok := v.(orb.Geometry); ok {
		data, err := EncodeGeometry(g)
		if err != nil {
			return "geometry(invalid)"
		}
		return "geometry(0x" + hex.EncodeToString(data) + ")"
	}
	return fmt.Sprintf("%v", v)
}
