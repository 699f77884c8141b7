package ops

import (
	"fmt"
	"strings"

	dt "github.com/hugr-lab/expr-go/datatypes"
)

// Rule validates and coerces one raw argument into its canonical field
// value. Value rules produce Value nodes, sequence rules produce
// []Value, config rules produce plain scalars.
type Rule interface {
	Coerce(arg any) (any, error)
	String() string
}

// AsValue converts a raw argument into a graph value: value nodes pass
// through, façade views are unwrapped through their Op method, nil
// becomes the null literal, and native Go values become inferred
// literals.
func AsValue(arg any) (Value, error) {
	switch v := arg.(type) {
	case nil:
		return NullLiteral(), nil
	case Value:
		return v, nil
	case interface{ Op() Value }:
		return v.Op(), nil
	default:
		typ, err := dt.Infer(arg)
		if err != nil {
			return nil, err
		}
		return NewLiteral(arg, typ)
	}
}

// Value rules accept any value whose type satisfies the predicate.
// Null-typed values satisfy scalar value rules, being castable to
// anything nullable. Container rules are concrete: their output
// contracts read type parameters, so a typeless null is rejected.
type valueRule struct {
	name     string
	ok       func(dt.DataType) bool
	concrete bool
}

func (r valueRule) String() string { return r.name }

func (r valueRule) Coerce(arg any) (any, error) {
	v, err := AsValue(arg)
	if err != nil {
		return nil, err
	}
	t := v.Type()
	if t.IsNull() && !r.concrete {
		return v, nil
	}
	if r.ok == nil || r.ok(t) {
		return v, nil
	}
	return nil, &RuleError{Rule: r.name, Value: arg, Type: t}
}

var (
	// AnyValue accepts every typed value.
	AnyValue Rule = valueRule{name: "a value"}

	BooleanValue   Rule = valueRule{name: "a boolean value", ok: func(t dt.DataType) bool { return t.Kind == dt.KindBoolean }}
	IntegerValue   Rule = valueRule{name: "an integer value", ok: dt.DataType.IsInteger}
	FloatingValue  Rule = valueRule{name: "a floating-point value", ok: dt.DataType.IsFloating}
	NumericValue   Rule = valueRule{name: "a numeric value", ok: dt.DataType.IsNumeric}
	StringValue    Rule = valueRule{name: "a string value", ok: func(t dt.DataType) bool { return t.Kind == dt.KindString }}
	BinaryValue    Rule = valueRule{name: "a binary value", ok: func(t dt.DataType) bool { return t.Kind == dt.KindBinary }}
	TemporalValue  Rule = valueRule{name: "a temporal value", ok: dt.DataType.IsTemporal}
	DateValue      Rule = valueRule{name: "a date value", ok: func(t dt.DataType) bool { return t.Kind == dt.KindDate }}
	TimeValue      Rule = valueRule{name: "a time value", ok: func(t dt.DataType) bool { return t.Kind == dt.KindTime }}
	TimestampValue Rule = valueRule{name: "a timestamp value", ok: func(t dt.DataType) bool { return t.Kind == dt.KindTimestamp }}
	IntervalValue  Rule = valueRule{name: "an interval value", ok: func(t dt.DataType) bool { return t.Kind == dt.KindInterval }}
	MappingValue   Rule = valueRule{name: "a map value", ok: func(t dt.DataType) bool { return t.Kind == dt.KindMap }, concrete: true}
	ArrayValue     Rule = valueRule{name: "an array value", ok: func(t dt.DataType) bool { return t.Kind == dt.KindArray }, concrete: true}
	StructValue    Rule = valueRule{name: "a struct value", ok: func(t dt.DataType) bool { return t.Kind == dt.KindStruct }, concrete: true}
	GeoValue       Rule = valueRule{name: "a geospatial value", ok: dt.DataType.IsGeoSpatial}
	UUIDValue      Rule = valueRule{name: "a uuid value", ok: func(t dt.DataType) bool { return t.Kind == dt.KindUUID }}
)

// OneOf accepts an argument satisfying any of the given value rules,
// tried in order.
func OneOf(rules ...Rule) Rule { return oneOfRule{rules: rules} }

type oneOfRule struct {
	rules []Rule
}

func (r oneOfRule) String() string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.String()
	}
	return strings.Join(names, " or ")
}

func (r oneOfRule) Coerce(arg any) (any, error) {
	for _, rule := range r.rules {
		if v, err := rule.Coerce(arg); err == nil {
			return v, nil
		}
	}
	v, err := AsValue(arg)
	if err != nil {
		return nil, err
	}
	return nil, &RuleError{Rule: r.String(), Value: arg, Type: v.Type()}
}

// ValueOfType accepts a value of exactly the target type, inserting an
// implicit cast when the argument's type differs but is castable. For
// literal arguments the cast is validated against the literal value.
func ValueOfType(target dt.DataType) Rule { return typedRule{target: target} }

type typedRule struct {
	target dt.DataType
}

func (r typedRule) String() string { return "a value of type " + r.target.String() }

func (r typedRule) Coerce(arg any) (any, error) {
	v, err := AsValue(arg)
	if err != nil {
		return nil, err
	}
	t := v.Type()
	if t.Equals(r.target) {
		return v, nil
	}
	var value any
	if lit, ok := v.(*Literal); ok {
		value = lit.Value()
	}
	if !dt.CastableValue(t, r.target.AsNullable(), value) {
		return nil, &dt.CastError{From: t, To: r.target, Value: value}
	}
	cast, err := Cast(v, r.target)
	if err != nil {
		return nil, err
	}
	return cast, nil
}

// Column wraps a value rule and additionally requires column shape.
func Column(inner Rule) Rule { return columnRule{inner: inner} }

type columnRule struct {
	inner Rule
}

func (r columnRule) String() string { return r.inner.String() + " with column shape" }

func (r columnRule) Coerce(arg any) (any, error) {
	coerced, err := r.inner.Coerce(arg)
	if err != nil {
		return nil, err
	}
	v, ok := coerced.(Value)
	if !ok || v.Shape() != ShapeColumn {
		return nil, &RuleError{Rule: r.String(), Value: arg, Type: typeOfCoerced(coerced)}
	}
	return v, nil
}

// Optional wraps a rule and lets the argument be absent. A nil
// argument stays nil; everything else goes through the inner rule.
func Optional(inner Rule) Rule { return optionalRule{inner: inner} }

type optionalRule struct {
	inner Rule
}

func (r optionalRule) String() string { return "optionally " + r.inner.String() }

func (r optionalRule) Coerce(arg any) (any, error) {
	if arg == nil {
		return nil, nil
	}
	return r.inner.Coerce(arg)
}

// ValueListOf accepts a sequence of arguments, each coerced by the
// element rule, with a minimum length. A nil argument is an empty
// sequence. Elements stay individual values so shape inference sees
// each one.
func ValueListOf(elem Rule, min int) Rule { return listRule{elem: elem, min: min} }

type listRule struct {
	elem Rule
	min  int
}

func (r listRule) String() string { return "a sequence of " + r.elem.String() }

func (r listRule) Coerce(arg any) (any, error) {
	var raw []any
	switch v := arg.(type) {
	case nil:
	case []any:
		raw = v
	case []Value:
		raw = make([]any, len(v))
		for i, el := range v {
			raw[i] = el
		}
	case *ValueList:
		raw = make([]any, len(v.Values()))
		for i, el := range v.Values() {
			raw[i] = el
		}
	default:
		raw = []any{v}
	}
	if len(raw) < r.min {
		return nil, &ArityError{Min: r.min, Got: len(raw)}
	}
	out := make([]Value, len(raw))
	for i, el := range raw {
		coerced, err := r.elem.Coerce(el)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		v, ok := coerced.(Value)
		if !ok {
			return nil, fmt.Errorf("element %d: %w", i, &RuleError{Rule: r.elem.String(), Value: el})
		}
		out[i] = v
	}
	return out, nil
}

// Config rules accept plain configuration scalars, not graph values.

type configRule struct {
	name string
	conv func(any) (any, bool)
}

func (r configRule) String() string { return r.name }

func (r configRule) Coerce(arg any) (any, error) {
	if v, ok := r.conv(arg); ok {
		return v, nil
	}
	return nil, &RuleError{Rule: r.name, Value: arg}
}

var (
	// StringConfig accepts a plain Go string.
	StringConfig Rule = configRule{name: "a string option", conv: func(arg any) (any, bool) {
		s, ok := arg.(string)
		return s, ok
	}}

	// BoolConfig accepts a plain Go bool.
	BoolConfig Rule = configRule{name: "a boolean option", conv: func(arg any) (any, bool) {
		b, ok := arg.(bool)
		return b, ok
	}}

	// IntConfig accepts a plain Go integer and normalizes it to int64.
	IntConfig Rule = configRule{name: "an integer option", conv: func(arg any) (any, bool) {
		switch v := arg.(type) {
		case int:
			return int64(v), true
		case int32:
			return int64(v), true
		case int64:
			return v, true
		}
		return nil, false
	}}

	// TypeConfig accepts a data type, either directly or as its
	// canonical string form.
	TypeConfig Rule = configRule{name: "a data type", conv: func(arg any) (any, bool) {
		switch v := arg.(type) {
		case dt.DataType:
			return v, true
		case string:
			t, err := dt.Parse(v)
			if err != nil {
				return nil, false
			}
			return t, true
		}
		return nil, false
	}}
)

// IsIn accepts a string drawn from a fixed membership set.
func IsIn(allowed ...string) Rule { return memberRule{allowed: allowed} }

type memberRule struct {
	allowed []string
}

func (r memberRule) String() string { return "one of " + strings.Join(r.allowed, ", ") }

func (r memberRule) Coerce(arg any) (any, error) {
	s, ok := arg.(string)
	if !ok {
		if u, isUnit := arg.(dt.IntervalUnit); isUnit {
			s, ok = string(u), true
		}
	}
	if ok {
		for _, a := range r.allowed {
			if s == a {
				return s, nil
			}
		}
	}
	return nil, &MemberError{Value: arg, Allowed: r.allowed}
}

func typeOfCoerced(v any) dt.DataType {
	if val, ok := v.(Value); ok {
		return val.Type()
	}
	return dt.DataType{}
}
