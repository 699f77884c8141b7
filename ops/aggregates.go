package ops

import (
	dt "github.com/hugr-lab/expr-go/datatypes"
)

func fixedName(name string) func(*Op) (string, bool) {
	return func(*Op) (string, bool) { return name, true }
}

// sumType widens an input type to its summation type.
func sumType(t dt.DataType) dt.DataType {
	switch {
	case t.Kind == dt.KindBoolean:
		return dt.Int64
	case t.Kind.IsSigned():
		return dt.Int64
	case t.Kind.IsUnsigned():
		return dt.UInt64
	case t.Kind == dt.KindDecimal:
		_, scale, _ := t.PrecisionScale()
		return dt.Decimal(38, scale)
	default:
		return dt.Float64
	}
}

// meanType keeps decimals decimal and makes everything else floating.
func meanType(t dt.DataType) dt.DataType {
	if t.Kind == dt.KindDecimal {
		_, scale, _ := t.PrecisionScale()
		return dt.Decimal(38, scale)
	}
	return dt.Float64
}

var whereField = FieldSpec{Name: "where", Rule: Optional(BooleanValue)}

var countDef = Register(&OpDef{
	Name: "count",
	Fields: []FieldSpec{
		{Name: "value", Rule: Column(AnyValue)},
		whereField,
	},
	Output:  Reduced(dt.Int64),
	NamedAs: fixedName("count"),
})

// Count is the number of non-null rows, optionally filtered.
func Count(value, where any) (*Op, error) { return Build(countDef, value, where) }

var countDistinctDef = Register(&OpDef{
	Name: "count_distinct",
	Fields: []FieldSpec{
		{Name: "value", Rule: Column(AnyValue)},
		whereField,
	},
	Output:  Reduced(dt.Int64),
	NamedAs: fixedName("nunique"),
})

// CountDistinct is the number of distinct non-null rows.
func CountDistinct(value, where any) (*Op, error) { return Build(countDistinctDef, value, where) }

var approxCountDistinctDef = Register(&OpDef{
	Name: "approx_count_distinct",
	Fields: []FieldSpec{
		{Name: "value", Rule: Column(AnyValue)},
		whereField,
	},
	Output:  Reduced(dt.Int64),
	NamedAs: fixedName("approx_nunique"),
})

// ApproxCountDistinct estimates the number of distinct rows using a
// sketch instead of an exact scan.
func ApproxCountDistinct(value, where any) (*Op, error) {
	return Build(approxCountDistinctDef, value, where)
}

var approxMedianDef = Register(&OpDef{
	Name: "approx_median",
	Fields: []FieldSpec{
		{Name: "value", Rule: Column(NumericValue)},
		whereField,
	},
	Output:  ReducedAs("value"),
	NamedAs: fixedName("approx_median"),
})

// ApproxMedian estimates the median of a numeric column.
func ApproxMedian(value, where any) (*Op, error) {
	return Build(approxMedianDef, value, where)
}

var sumDef = Register(&OpDef{
	Name: "sum",
	Fields: []FieldSpec{
		{Name: "value", Rule: Column(OneOf(NumericValue, BooleanValue))},
		whereField,
	},
	Output: func(op *Op) (dt.DataType, Shape, error) {
		return sumType(op.Arg("value").Type()), ShapeScalar, nil
	},
	NamedAs: fixedName("sum"),
})

// Sum totals a column at its widened summation type; booleans count
// true rows.
func Sum(value, where any) (*Op, error) { return Build(sumDef, value, where) }

var meanDef = Register(&OpDef{
	Name: "mean",
	Fields: []FieldSpec{
		{Name: "value", Rule: Column(NumericValue)},
		whereField,
	},
	Output: func(op *Op) (dt.DataType, Shape, error) {
		return meanType(op.Arg("value").Type()), ShapeScalar, nil
	},
	NamedAs: fixedName("mean"),
})

// Mean is the arithmetic average of a column.
func Mean(value, where any) (*Op, error) { return Build(meanDef, value, where) }

var minDef = Register(&OpDef{
	Name: "min",
	Fields: []FieldSpec{
		{Name: "value", Rule: Column(AnyValue)},
		whereField,
	},
	Output:  ReducedAs("value"),
	NamedAs: fixedName("min"),
})

// Min is the smallest value of a column.
func Min(value, where any) (*Op, error) { return Build(minDef, value, where) }

var maxDef = Register(&OpDef{
	Name: "max",
	Fields: []FieldSpec{
		{Name: "value", Rule: Column(AnyValue)},
		whereField,
	},
	Output:  ReducedAs("value"),
	NamedAs: fixedName("max"),
})

// Max is the largest value of a column.
func Max(value, where any) (*Op, error) { return Build(maxDef, value, where) }

func spreadDef(name string) *OpDef {
	return Register(&OpDef{
		Name: name,
		Fields: []FieldSpec{
			{Name: "value", Rule: Column(NumericValue)},
			{Name: "how", Rule: IsIn("sample", "pop")},
			whereField,
		},
		Output:  Reduced(dt.Float64),
		NamedAs: fixedName(name),
	})
}

var (
	standardDevDef = spreadDef("std")
	varianceDef    = spreadDef("var")
)

// StandardDev is the standard deviation of a column; how selects the
// sample or population estimator.
func StandardDev(value any, how string, where any) (*Op, error) {
	return Build(standardDevDef, value, how, where)
}

// Variance is the variance of a column.
func Variance(value any, how string, where any) (*Op, error) {
	return Build(varianceDef, value, how, where)
}

var anyDef = Register(&OpDef{
	Name: "any",
	Fields: []FieldSpec{
		{Name: "value", Rule: Column(BooleanValue)},
		whereField,
	},
	Output:  Reduced(dt.Boolean),
	NamedAs: fixedName("any"),
})

// Any is true when at least one row of a boolean column is true.
func Any(value, where any) (*Op, error) { return Build(anyDef, value, where) }

var allDef = Register(&OpDef{
	Name: "all",
	Fields: []FieldSpec{
		{Name: "value", Rule: Column(BooleanValue)},
		whereField,
	},
	Output:  Reduced(dt.Boolean),
	NamedAs: fixedName("all"),
})

// All is true when every row of a boolean column is true.
func All(value, where any) (*Op, error) { return Build(allDef, value, where) }

var arbitraryDef = Register(&OpDef{
	Name: "arbitrary",
	Fields: []FieldSpec{
		{Name: "value", Rule: Column(AnyValue)},
		{Name: "how", Rule: IsIn("first", "last", "heavy")},
		whereField,
	},
	Output:  ReducedAs("value"),
	NamedAs: fixedName("arbitrary"),
})

// Arbitrary picks one value of a column; how fixes which end of the
// scan wins.
func Arbitrary(value any, how string, where any) (*Op, error) {
	return Build(arbitraryDef, value, how, where)
}

var groupConcatDef = Register(&OpDef{
	Name: "group_concat",
	Fields: []FieldSpec{
		{Name: "value", Rule: Column(StringValue)},
		{Name: "sep", Rule: StringConfig},
		whereField,
	},
	Output:  Reduced(dt.String),
	NamedAs: fixedName("group_concat"),
})

// GroupConcat joins a string column into one string with a separator.
func GroupConcat(value any, sep string, where any) (*Op, error) {
	return Build(groupConcatDef, value, sep, where)
}

var distinctDef = Register(&OpDef{
	Name:   "distinct",
	Fields: []FieldSpec{{Name: "value", Rule: Column(AnyValue)}},
	Output: func(op *Op) (dt.DataType, Shape, error) {
		return op.Arg("value").Type(), ShapeColumn, nil
	},
	NamedAs: func(op *Op) (string, bool) {
		return op.Arg("value").Name()
	},
})

// Distinct drops duplicate rows of a column, keeping its type and
// resolved name.
func Distinct(value any) (*Op, error) { return Build(distinctDef, value) }

var arrayCollectDef = Register(&OpDef{
	Name: "array_collect",
	Fields: []FieldSpec{
		{Name: "value", Rule: Column(AnyValue)},
		whereField,
	},
	Output: func(op *Op) (dt.DataType, Shape, error) {
		return dt.ArrayOf(op.Arg("value").Type()), ShapeScalar, nil
	},
	NamedAs: fixedName("collect"),
})

// ArrayCollect gathers a column into a single array value.
func ArrayCollect(value, where any) (*Op, error) { return Build(arrayCollectDef, value, where) }
