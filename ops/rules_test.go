package ops

import (
	"errors"
	"testing"

	dt "github.com/hugr-lab/expr-go/datatypes"
)

type wrappedValue struct {
	v Value
}

func (w wrappedValue) Op() Value { return w.v }

func TestAsValue(t *testing.T) {
	tbl := testTable(t)
	col := column(t, tbl, "id")

	v, err := AsValue(col)
	if err != nil || v != Value(col) {
		t.Fatalf("value passthrough failed: %v %v", v, err)
	}

	v, err = AsValue(wrappedValue{v: col})
	if err != nil || v != Value(col) {
		t.Fatalf("view unwrap failed: %v %v", v, err)
	}

	v, err = AsValue(nil)
	if err != nil || v != Value(NullLiteral()) {
		t.Fatalf("nil must resolve to the null literal, got %v %v", v, err)
	}

	v, err = AsValue(int64(42))
	if err != nil {
		t.Fatalf("native inference failed: %v", err)
	}
	lit, ok := v.(*Literal)
	if !ok || !lit.Type().Equals(dt.Int64) {
		t.Fatalf("expected int64 literal, got %v %v", v.Kind(), v.Type())
	}

	if _, err = AsValue(struct{ X int }{1}); !errors.Is(err, dt.ErrInput) {
		t.Fatalf("uninferrable value must fail with an input error, got %v", err)
	}
}

func TestValueRules(t *testing.T) {
	tbl := testTable(t)
	tests := []struct {
		name string
		rule Rule
		arg  any
		ok   bool
	}{
		{"any accepts literal", AnyValue, 1, true},
		{"boolean accepts flag", BooleanValue, column(t, tbl, "flag"), true},
		{"boolean rejects int", BooleanValue, column(t, tbl, "id"), false},
		{"integer accepts int32", IntegerValue, column(t, tbl, "age"), true},
		{"integer rejects float", IntegerValue, column(t, tbl, "weight"), false},
		{"numeric accepts decimal", NumericValue, column(t, tbl, "price"), true},
		{"numeric rejects string", NumericValue, column(t, tbl, "name"), false},
		{"string accepts name", StringValue, column(t, tbl, "name"), true},
		{"temporal accepts date", TemporalValue, column(t, tbl, "born"), true},
		{"temporal accepts timestamp", TemporalValue, column(t, tbl, "seen"), true},
		{"temporal rejects int", TemporalValue, column(t, tbl, "id"), false},
		{"mapping accepts map", MappingValue, column(t, tbl, "attrs"), true},
		{"mapping rejects array", MappingValue, column(t, tbl, "tags"), false},
		{"array accepts tags", ArrayValue, column(t, tbl, "tags"), true},
		{"struct accepts info", StructValue, column(t, tbl, "info"), true},
		{"geo accepts pos", GeoValue, column(t, tbl, "pos"), true},
		{"geo rejects string", GeoValue, column(t, tbl, "name"), false},
		{"scalar rule accepts null", IntegerValue, nil, true},
		{"concrete rule rejects null", MappingValue, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.rule.Coerce(tt.arg)
			if tt.ok && err != nil {
				t.Fatalf("coerce failed: %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("coerce succeeded unexpectedly")
				}
				if !errors.Is(err, dt.ErrType) {
					t.Fatalf("expected type error, got %v", err)
				}
			}
		})
	}
}

func TestValueOfTypeInsertsCast(t *testing.T) {
	tbl := testTable(t)
	rule := ValueOfType(dt.Int64)

	// An argument of a narrower castable type gets wrapped in a cast.
	coerced, err := rule.Coerce(int8(7))
	if err != nil {
		t.Fatalf("coerce failed: %v", err)
	}
	v := coerced.(Value)
	if v.Kind() != "cast" {
		t.Fatalf("expected an inserted cast, got %s", v.Kind())
	}
	if !v.Type().Equals(dt.Int64) {
		t.Fatalf("cast target = %s", v.Type())
	}

	// An argument already at the target passes through untouched.
	coerced, err = rule.Coerce(column(t, tbl, "id"))
	if err != nil {
		t.Fatalf("coerce failed: %v", err)
	}
	if coerced.(Value).Kind() != "table_column" {
		t.Fatalf("expected passthrough, got %s", coerced.(Value).Kind())
	}

	// Uncastable arguments fail with a cast error.
	_, err = rule.Coerce("nope")
	var castErr *dt.CastError
	if !errors.As(err, &castErr) {
		t.Fatalf("expected cast error, got %v", err)
	}

	// Literal narrowing is range-checked against the value.
	if _, err = ValueOfType(dt.Int8).Coerce(int64(300)); !errors.Is(err, dt.ErrType) {
		t.Fatalf("expected range failure, got %v", err)
	}
	if _, err = ValueOfType(dt.Int8).Coerce(int64(100)); err != nil {
		t.Fatalf("in-range narrowing failed: %v", err)
	}
}

func TestColumnRule(t *testing.T) {
	tbl := testTable(t)
	rule := Column(NumericValue)

	if _, err := rule.Coerce(column(t, tbl, "age")); err != nil {
		t.Fatalf("column coerce failed: %v", err)
	}
	if _, err := rule.Coerce(int64(1)); !errors.Is(err, dt.ErrType) {
		t.Fatalf("scalar must be rejected, got %v", err)
	}
	if _, err := rule.Coerce(column(t, tbl, "name")); !errors.Is(err, dt.ErrType) {
		t.Fatalf("inner rule must still apply, got %v", err)
	}
}

func TestOptionalRule(t *testing.T) {
	rule := Optional(IntegerValue)
	v, err := rule.Coerce(nil)
	if err != nil || v != nil {
		t.Fatalf("nil must stay absent, got %v %v", v, err)
	}
	if _, err := rule.Coerce(int64(5)); err != nil {
		t.Fatalf("present value failed: %v", err)
	}
	if _, err := rule.Coerce("x"); err == nil {
		t.Fatal("inner rule not applied to present value")
	}
}

func TestValueListRule(t *testing.T) {
	tbl := testTable(t)
	rule := ValueListOf(StringValue, 1)

	coerced, err := rule.Coerce([]any{"a", "b", column(t, tbl, "name")})
	if err != nil {
		t.Fatalf("list coerce failed: %v", err)
	}
	vals := coerced.([]Value)
	if len(vals) != 3 {
		t.Fatalf("got %d elements", len(vals))
	}

	var arity *ArityError
	if _, err = rule.Coerce(nil); !errors.As(err, &arity) {
		t.Fatalf("expected arity error, got %v", err)
	}
	if _, err = rule.Coerce([]any{"a", 1}); err == nil {
		t.Fatal("element rule not applied")
	}

	// A single non-slice argument is a one-element sequence.
	coerced, err = rule.Coerce("solo")
	if err != nil || len(coerced.([]Value)) != 1 {
		t.Fatalf("scalar wrap failed: %v %v", coerced, err)
	}

	// min zero admits the empty sequence.
	coerced, err = ValueListOf(StringValue, 0).Coerce(nil)
	if err != nil || len(coerced.([]Value)) != 0 {
		t.Fatalf("empty sequence failed: %v %v", coerced, err)
	}
}

func TestConfigRules(t *testing.T) {
	if v, err := StringConfig.Coerce("x"); err != nil || v != "x" {
		t.Fatalf("string config: %v %v", v, err)
	}
	if _, err := StringConfig.Coerce(1); !errors.Is(err, dt.ErrType) {
		t.Fatalf("string config accepts non-string: %v", err)
	}
	if v, err := IntConfig.Coerce(7); err != nil || v != int64(7) {
		t.Fatalf("int config: %v %v", v, err)
	}
	if v, err := BoolConfig.Coerce(true); err != nil || v != true {
		t.Fatalf("bool config: %v %v", v, err)
	}
	if v, err := TypeConfig.Coerce("array<int64>"); err != nil || !v.(dt.DataType).Equals(dt.ArrayOf(dt.Int64)) {
		t.Fatalf("type config from string: %v %v", v, err)
	}
	if v, err := TypeConfig.Coerce(dt.Float64); err != nil || !v.(dt.DataType).Equals(dt.Float64) {
		t.Fatalf("type config passthrough: %v %v", v, err)
	}
}

func TestIsInRule(t *testing.T) {
	rule := IsIn("sample", "pop")
	if v, err := rule.Coerce("pop"); err != nil || v != "pop" {
		t.Fatalf("member coerce: %v %v", v, err)
	}
	var member *MemberError
	if _, err := rule.Coerce("median"); !errors.As(err, &member) {
		t.Fatalf("expected member error, got %v", err)
	}
	if !errors.Is(&MemberError{}, dt.ErrInput) {
		t.Fatal("member error must be an input error")
	}
}
