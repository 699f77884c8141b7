package datatypes

import (
	"math"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"
)

// precedence ranks kinds inside the casting ladder. HighestPrecedence
// returns the input of greatest rank that every other input can cast
// to.
var precedence = map[Kind]int{
	KindNull:      0,
	KindBoolean:   1,
	KindInt8:      2,
	KindUInt8:     3,
	KindInt16:     4,
	KindUInt16:    5,
	KindInt32:     6,
	KindUInt32:    7,
	KindInt64:     8,
	KindUInt64:    9,
	KindFloat32:   10,
	KindFloat64:   11,
	KindDecimal:   12,
	KindDate:      20,
	KindTime:      21,
	KindTimestamp: 22,
	KindInterval:  23,
	KindString:    30,
	KindBinary:    31,
	KindUUID:      32,
	KindArray:     40,
	KindMap:       41,
	KindStruct:    42,
	KindGeometry:  50,
	KindGeography: 51,
}

// intWidth is the bit width of the integer kinds.
var intWidth = map[Kind]int{
	KindInt8: 8, KindInt16: 16, KindInt32: 32, KindInt64: 64,
	KindUInt8: 8, KindUInt16: 16, KindUInt32: 32, KindUInt64: 64,
}

// Castable reports whether values of type from can be implicitly cast
// to type to without inspecting a concrete value: widening along the
// numeric ladder, string to temporal parsing, date to timestamp,
// integer counts to intervals, and container kinds with pairwise
// castable parameters. The untyped null casts to any nullable target.
// Nullability is otherwise ignored.
func Castable(from, to DataType) bool {
	if from.Kind == KindNull {
		return to.Nullable
	}
	if from.Equals(to) {
		return true
	}
	switch to.Kind {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		switch {
		case from.Kind == KindBoolean:
			return true
		case from.Kind.IsSigned():
			return intWidth[from.Kind] <= intWidth[to.Kind]
		case from.Kind.IsUnsigned():
			return intWidth[from.Kind] < intWidth[to.Kind]
		}
	case KindUInt8, KindUInt16, KindUInt32, KindUInt64:
		switch {
		case from.Kind == KindBoolean:
			return true
		case from.Kind.IsUnsigned():
			return intWidth[from.Kind] <= intWidth[to.Kind]
		}
	case KindFloat32:
		// only integers below 24 significand bits survive exactly
		return from.Kind == KindBoolean || from.Kind.IsInteger() && intWidth[from.Kind] <= 16
	case KindFloat64:
		return from.Kind == KindBoolean || from.Kind.IsInteger() || from.Kind == KindFloat32
	case KindDecimal:
		switch {
		case from.Kind == KindBoolean, from.Kind.IsInteger(), from.Kind.IsFloating():
			return true
		case from.Kind == KindDecimal:
			fromPrec, fromScale, _ := from.PrecisionScale()
			toPrec, toScale, _ := to.PrecisionScale()
			return toScale >= fromScale && toPrec-toScale >= fromPrec-fromScale
		}
	case KindDate, KindTime:
		return from.Kind == KindString
	case KindTimestamp:
		return from.Kind == KindString || from.Kind == KindDate || from.Kind == KindTimestamp
	case KindInterval:
		return from.Kind.IsInteger()
	case KindArray:
		fromElem, ok := from.Elem()
		if !ok {
			return false
		}
		toElem, _ := to.Elem()
		return Castable(fromElem, toElem)
	case KindMap:
		fromKey, fromValue, ok := from.KeyValue()
		if !ok {
			return false
		}
		toKey, toValue, _ := to.KeyValue()
		return Castable(fromKey, toKey) && Castable(fromValue, toValue)
	case KindStruct:
		fromFields, ok := from.Fields()
		if !ok {
			return false
		}
		toFields, _ := to.Fields()
		if len(fromFields) != len(toFields) {
			return false
		}
		for i, f := range fromFields {
			if f.Name != toFields[i].Name || !Castable(f.Type, toFields[i].Type) {
				return false
			}
		}
		return true
	case KindGeometry, KindGeography:
		return from.Kind.IsGeoSpatial()
	}
	return false
}

// CastableValue is Castable with a concrete literal value of type from:
// it additionally admits range-checked narrowing, such as an int64
// literal that fits an int8 slot or a parseable uuid string.
func CastableValue(from, to DataType, value any) bool {
	if Castable(from, to) {
		return true
	}
	if value == nil {
		return false
	}
	switch {
	case from.Kind.IsInteger() && to.Kind.IsInteger():
		neg, mag, ok := rawInt(value)
		return ok && intFits(neg, mag, to.Kind)
	case from.Kind.IsInteger() && to.Kind == KindFloat32:
		_, mag, ok := rawInt(value)
		return ok && mag <= 1<<24
	case from.Kind.IsFloating() && to.Kind.IsInteger():
		f, ok := rawFloat(value)
		return ok && floatFitsInt(f, to.Kind)
	case from.Kind == KindFloat64 && to.Kind == KindFloat32:
		f, ok := rawFloat(value)
		return ok && (math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) <= math.MaxFloat32)
	case from.Kind == KindDecimal && to.Kind.IsInteger():
		d, ok := value.(*apd.Decimal)
		if !ok {
			return false
		}
		i, err := d.Int64()
		if err != nil {
			return false
		}
		neg := i < 0
		mag := uint64(i)
		if neg {
			mag = uint64(-i)
		}
		return intFits(neg, mag, to.Kind)
	case from.Kind == KindDecimal && to.Kind == KindDecimal:
		// narrowing decimals is fine when the digits actually fit
		d, ok := value.(*apd.Decimal)
		if !ok {
			return false
		}
		toPrec, toScale, _ := to.PrecisionScale()
		return decimalFits(d, toPrec, toScale)
	case from.Kind == KindString && to.Kind == KindUUID:
		s, ok := value.(string)
		if !ok {
			return false
		}
		_, err := uuid.Parse(s)
		return err == nil
	}
	return false
}

// HighestPrecedence returns the input type of maximal rank that every
// input is castable to. The result is nullable if any input is. It
// fails with a PrecedenceError naming the offending types when the
// inputs span incompatible families, and with ErrInput on an empty
// input.
func HighestPrecedence(types []DataType) (DataType, error) {
	if len(types) == 0 {
		return DataType{}, &InferenceError{Value: types}
	}
	best := -1
	for i, candidate := range types {
		accepts := true
		for _, t := range types {
			if !Castable(t, candidate.AsNullable()) {
				accepts = false
				break
			}
		}
		if accepts && (best < 0 || precedence[candidate.Kind] > precedence[types[best].Kind]) {
			best = i
		}
	}
	if best < 0 {
		return DataType{}, &PrecedenceError{Types: dedupeTypes(types)}
	}
	out := types[best]
	for _, t := range types {
		if t.Nullable {
			return out.AsNullable(), nil
		}
	}
	return out, nil
}

// SameKind reports whether two types belong to the same family, without
// requiring exact equality. The untyped null is compatible with every
// family.
func SameKind(a, b DataType) bool {
	if a.Kind == KindNull || b.Kind == KindNull {
		return true
	}
	return a.Family() == b.Family()
}

func dedupeTypes(types []DataType) []DataType {
	out := make([]DataType, 0, len(types))
	for _, t := range types {
		seen := false
		for _, kept := range out {
			if kept.Equals(t) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, t)
		}
	}
	return out
}

// signedMax holds the positive bound of the signed integer kinds.
var signedMax = map[Kind]uint64{
	KindInt8: math.MaxInt8, KindInt16: math.MaxInt16,
	KindInt32: math.MaxInt32, KindInt64: math.MaxInt64,
}

// unsignedMax holds the bound of the unsigned integer kinds.
var unsignedMax = map[Kind]uint64{
	KindUInt8: math.MaxUint8, KindUInt16: math.MaxUint16,
	KindUInt32: math.MaxUint32, KindUInt64: math.MaxUint64,
}

func intFits(neg bool, mag uint64, k Kind) bool {
	if k.IsSigned() {
		if neg {
			return mag <= signedMax[k]+1
		}
		return mag <= signedMax[k]
	}
	if k.IsUnsigned() {
		return !neg && mag <= unsignedMax[k]
	}
	return false
}

func floatFitsInt(f float64, k Kind) bool {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return false
	}
	switch k {
	case KindInt8:
		return f >= math.MinInt8 && f <= math.MaxInt8
	case KindInt16:
		return f >= math.MinInt16 && f <= math.MaxInt16
	case KindInt32:
		return f >= math.MinInt32 && f <= math.MaxInt32
	case KindInt64:
		return f >= math.MinInt64 && f < 1<<63
	case KindUInt8:
		return f >= 0 && f <= math.MaxUint8
	case KindUInt16:
		return f >= 0 && f <= math.MaxUint16
	case KindUInt32:
		return f >= 0 && f <= math.MaxUint32
	case KindUInt64:
		return f >= 0 && f < 1<<64
	}
	return false
}

// decimalFits reports whether d is representable with the given
// precision and scale without rounding.
func decimalFits(d *apd.Decimal, precision, scale int) bool {
	var scaled apd.Decimal
	ctx := apd.BaseContext.WithPrecision(uint32(precision))
	res, err := ctx.Quantize(&scaled, d, -int32(scale))
	return err == nil && res&apd.Inexact == 0
}

// rawInt extracts sign and magnitude from any native Go integer.
func rawInt(value any) (neg bool, mag uint64, ok bool) {
	var i int64
	switch v := value.(type) {
	case int:
		i = int64(v)
	case int8:
		i = int64(v)
	case int16:
		i = int64(v)
	case int32:
		i = int64(v)
	case int64:
		i = v
	case uint:
		return false, uint64(v), true
	case uint8:
		return false, uint64(v), true
	case uint16:
		return false, uint64(v), true
	case uint32:
		return false, uint64(v), true
	case uint64:
		return false, v, true
	default:
		return false, 0, false
	}
	if i < 0 {
		return true, uint64(-i), true
	}
	return false, uint64(i), true
}

// rawFloat extracts a float64 from any native Go floating point value.
func rawFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}
