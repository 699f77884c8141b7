package datatypes

import (
	"errors"
	"strings"
	"testing"

	"github.com/cockroachdb/apd/v3"
)

func TestCastableReflexive(t *testing.T) {
	for _, dtype := range sampleTypes() {
		if !Castable(dtype, dtype) {
			t.Errorf("Castable(%s, %s) must hold", dtype, dtype)
		}
	}
}

func TestCastableLadder(t *testing.T) {
	tests := []struct {
		from, to DataType
		want     bool
	}{
		{Int8, Int16, true},
		{Int16, Int8, false},
		{UInt8, Int16, true},
		{UInt16, Int16, false},
		{UInt8, UInt64, true},
		{Int8, UInt16, false},
		{Int16, Float32, true},
		{Int32, Float32, false},
		{Int64, Float64, true},
		{Float32, Float64, true},
		{Float64, Float32, false},
		{Float64, Decimal(38, 10), true},
		{Int64, Decimal(20, 0), true},
		{Boolean, Int8, true},
		{Boolean, Float64, true},
		{Decimal(10, 2), Decimal(12, 2), true},
		{Decimal(10, 2), Decimal(12, 6), false},
		{Decimal(12, 2), Decimal(10, 2), false},
		{String, Date, true},
		{String, Timestamp, true},
		{Date, Timestamp, true},
		{Timestamp, Date, false},
		{Timestamp, TimestampWithZone("UTC"), true},
		{Int32, Interval(UnitSecond), true},
		{Interval(UnitSecond), Interval(UnitMinute), false},
		{String, Int64, false},
		{Int64, String, false},
		{ArrayOf(Int8), ArrayOf(Int64), true},
		{ArrayOf(Int64), ArrayOf(Int8), false},
		{MapOf(String, Int8), MapOf(String, Float64), true},
		{Geometry, Geography, true},
		{GeometryWithSRID(3857), Geometry, true},
		{Binary, Geometry, false},
		{Null, Int64, true},
		{Null, Int64.NonNullable(), false},
	}
	for _, tt := range tests {
		if got := Castable(tt.from, tt.to); got != tt.want {
			t.Errorf("Castable(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCastableStructFields(t *testing.T) {
	from := StructOf(StructField{Name: "a", Type: Int8}, StructField{Name: "b", Type: String})
	to := StructOf(StructField{Name: "a", Type: Int64}, StructField{Name: "b", Type: String})
	if !Castable(from, to) {
		t.Error("structs with pairwise castable fields must be castable")
	}
	renamed := StructOf(StructField{Name: "x", Type: Int64}, StructField{Name: "b", Type: String})
	if Castable(from, renamed) {
		t.Error("struct casting requires matching field names")
	}
}

func TestCastableValueNarrowing(t *testing.T) {
	tests := []struct {
		from, to DataType
		value    any
		want     bool
	}{
		{Int64, Int8, int64(42), true},
		{Int64, Int8, int64(300), false},
		{Int64, Int8, int64(-128), true},
		{Int64, Int8, int64(-129), false},
		{Int64, UInt8, int64(-1), false},
		{Int64, UInt64, int64(7), true},
		{Int32, Float32, int32(1 << 20), true},
		{Int32, Float32, int32(1<<24 + 1), false},
		{Float64, Int32, float64(3), true},
		{Float64, Int32, 3.5, false},
		{Float64, Float32, 1.5, true},
		{Float64, Float32, 1e300, false},
		{String, UUID, "0192e7a6-1111-7abc-8def-0123456789ab", true},
		{String, UUID, "not-a-uuid", false},
		{String, Int64, "42", false},
	}
	for _, tt := range tests {
		if got := CastableValue(tt.from, tt.to, tt.value); got != tt.want {
			t.Errorf("CastableValue(%s, %s, %v) = %v, want %v", tt.from, tt.to, tt.value, got, tt.want)
		}
	}
}

func TestCastableValueDecimal(t *testing.T) {
	d := apd.New(12345, -2) // 123.45
	if !CastableValue(Decimal(5, 2), Int64, apd.New(123, 0)) {
		t.Error("integral decimal narrows to int64")
	}
	if CastableValue(Decimal(5, 2), Int64, d) {
		t.Error("fractional decimal must not narrow to int64")
	}
	if !CastableValue(Decimal(10, 4), Decimal(5, 2), apd.New(12345, -2)) {
		t.Error("decimal narrowing with fitting digits")
	}
	if CastableValue(Decimal(10, 4), Decimal(4, 2), apd.New(123456, -2)) {
		t.Error("decimal narrowing must respect precision")
	}
}

func TestHighestPrecedence(t *testing.T) {
	got, err := HighestPrecedence([]DataType{Int8, Int64})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equals(Int64) {
		t.Errorf("highest of int8/int64 = %s, want int64", got)
	}

	got, err = HighestPrecedence([]DataType{Int32, Float32, Float64})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equals(Float64) {
		t.Errorf("highest of int32/float32/float64 = %s, want float64", got)
	}

	got, err = HighestPrecedence([]DataType{ArrayOf(Int8), ArrayOf(Int64)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equals(ArrayOf(Int64)) {
		t.Errorf("highest of arrays = %s, want array<int64>", got)
	}

	got, err = HighestPrecedence([]DataType{Null, Int32})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equals(Int32) || !got.Nullable {
		t.Errorf("highest of null/int32 = %s, want nullable int32", got)
	}
}

func TestHighestPrecedenceIncompatible(t *testing.T) {
	_, err := HighestPrecedence([]DataType{String, Int64})
	if err == nil {
		t.Fatal("expected an error for string/int64")
	}
	if !errors.Is(err, ErrType) {
		t.Errorf("precedence failure must be a type error, got %v", err)
	}
	var pe *PrecedenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected a PrecedenceError, got %T", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "string") || !strings.Contains(msg, "int64") {
		t.Errorf("error must name the offending types, got %q", msg)
	}
}

func TestHighestPrecedenceDeterministic(t *testing.T) {
	input := []DataType{Int16, Int16, Int16}
	a, err := HighestPrecedence(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := HighestPrecedence(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.Equals(b) {
		t.Error("identical inputs must yield identical results")
	}
}

func TestSameKind(t *testing.T) {
	tests := []struct {
		a, b DataType
		want bool
	}{
		{Int64, Float64, true},
		{Int8, Decimal(10, 2), true},
		{Boolean, Int64, false},
		{String, Int64, false},
		{Date, Interval(UnitDay), true},
		{Null, String, true},
		{ArrayOf(Int64), ArrayOf(String), true},
		{ArrayOf(Int64), MapOf(String, Int64), false},
	}
	for _, tt := range tests {
		if got := SameKind(tt.a, tt.b); got != tt.want {
			t.Errorf("SameKind(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
