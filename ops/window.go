package ops

import (
	"fmt"

	dt "github.com/hugr-lab/expr-go/datatypes"
)

var sortKeyDef = Register(&OpDef{
	Name: "sort_key",
	Fields: []FieldSpec{
		{Name: "value", Rule: Column(AnyValue)},
		{Name: "ascending", Rule: BoolConfig},
	},
	Output: SameTypeAs("value"),
})

// SortKey orders a column for window and sort contexts.
func SortKey(value any, ascending bool) (*Op, error) {
	return Build(sortKeyDef, value, ascending)
}

func rankDef(name string, dtype dt.DataType) *OpDef {
	return Register(&OpDef{
		Name:   name,
		Fields: []FieldSpec{{Name: "value", Rule: Column(AnyValue)}},
		Output: func(op *Op) (dt.DataType, Shape, error) {
			return dtype, ShapeColumn, nil
		},
	})
}

var (
	rankDensityDef = rankDef("dense_rank", dt.Int64)
	minRankDef     = rankDef("rank", dt.Int64)
	percentRankDef = rankDef("percent_rank", dt.Float64)
	cumeDistDef    = rankDef("cume_dist", dt.Float64)

	rowNumberDef = Register(&OpDef{
		Name:   "row_number",
		Fields: nil,
		Output: func(op *Op) (dt.DataType, Shape, error) {
			return dt.Int64, ShapeColumn, nil
		},
	})
)

// Rank yields the competition rank of each row under the column's
// ordering, with gaps after ties.
func Rank(value any) (*Op, error) { return Build(minRankDef, value) }

// DenseRank yields the rank of each row without gaps after ties.
func DenseRank(value any) (*Op, error) { return Build(rankDensityDef, value) }

// PercentRank yields the relative rank of each row in [0, 1].
func PercentRank(value any) (*Op, error) { return Build(percentRankDef, value) }

// CumeDist yields the cumulative distribution of each row.
func CumeDist(value any) (*Op, error) { return Build(cumeDistDef, value) }

// RowNumber numbers rows from zero in window order.
func RowNumber() (*Op, error) { return Build(rowNumberDef) }

var ntileDef = Register(&OpDef{
	Name: "ntile",
	Fields: []FieldSpec{
		{Name: "value", Rule: Column(AnyValue)},
		{Name: "buckets", Rule: ValueOfType(dt.Int64)},
	},
	Output: func(op *Op) (dt.DataType, Shape, error) {
		return dt.Int64, ShapeColumn, nil
	},
})

// NTile assigns rows to the given number of evenly sized buckets.
func NTile(value, buckets any) (*Op, error) { return Build(ntileDef, value, buckets) }

func shiftDef(name string) *OpDef {
	return Register(&OpDef{
		Name: name,
		Fields: []FieldSpec{
			{Name: "value", Rule: Column(AnyValue)},
			{Name: "offset", Rule: Optional(ValueOfType(dt.Int64))},
			{Name: "default", Rule: Optional(AnyValue)},
		},
		Output: func(op *Op) (dt.DataType, Shape, error) {
			t := op.Arg("value").Type()
			if def := op.Arg("default"); def != nil {
				promoted, err := dt.HighestPrecedence([]dt.DataType{t, def.Type()})
				if err != nil {
					return dt.DataType{}, ShapeScalar, err
				}
				return promoted, ShapeColumn, nil
			}
			// Rows shifted past the frame edge become null.
			return t.AsNullable(), ShapeColumn, nil
		},
	})
}

var (
	lagDef  = shiftDef("lag")
	leadDef = shiftDef("lead")
)

// Lag yields the value offset rows before the current one; offset and
// default may be nil.
func Lag(value, offset, def any) (*Op, error) { return Build(lagDef, value, offset, def) }

// Lead yields the value offset rows after the current one.
func Lead(value, offset, def any) (*Op, error) { return Build(leadDef, value, offset, def) }

func boundaryValueDef(name string) *OpDef {
	return Register(&OpDef{
		Name:   name,
		Fields: []FieldSpec{{Name: "value", Rule: Column(AnyValue)}},
		Output: func(op *Op) (dt.DataType, Shape, error) {
			return op.Arg("value").Type(), ShapeColumn, nil
		},
	})
}

var (
	firstValueDef = boundaryValueDef("first_value")
	lastValueDef  = boundaryValueDef("last_value")

	nthValueDef = Register(&OpDef{
		Name: "nth_value",
		Fields: []FieldSpec{
			{Name: "value", Rule: Column(AnyValue)},
			{Name: "nth", Rule: ValueOfType(dt.Int64)},
		},
		Output: func(op *Op) (dt.DataType, Shape, error) {
			return op.Arg("value").Type().AsNullable(), ShapeColumn, nil
		},
	})
)

// FirstValue yields the first value in the window frame.
func FirstValue(value any) (*Op, error) { return Build(firstValueDef, value) }

// LastValue yields the last value in the window frame.
func LastValue(value any) (*Op, error) { return Build(lastValueDef, value) }

// NthValue yields the zero-based nth value of the window frame, null
// when the frame is shorter.
func NthValue(value, nth any) (*Op, error) { return Build(nthValueDef, value, nth) }

func cumulativeDef(name string) *OpDef {
	return Register(&OpDef{
		Name:   name,
		Fields: []FieldSpec{{Name: "value", Rule: Column(AnyValue)}},
		Output: func(op *Op) (dt.DataType, Shape, error) {
			return op.Arg("value").Type(), ShapeColumn, nil
		},
	})
}

var (
	cumulativeMinDef = cumulativeDef("cumulative_min")
	cumulativeMaxDef = cumulativeDef("cumulative_max")

	cumulativeSumDef = Register(&OpDef{
		Name:   "cumulative_sum",
		Fields: []FieldSpec{{Name: "value", Rule: Column(OneOf(NumericValue, BooleanValue))}},
		Output: func(op *Op) (dt.DataType, Shape, error) {
			return sumType(op.Arg("value").Type()), ShapeColumn, nil
		},
	})
)

// CumulativeMin yields the running minimum of a column.
func CumulativeMin(value any) (*Op, error) { return Build(cumulativeMinDef, value) }

// CumulativeMax yields the running maximum of a column.
func CumulativeMax(value any) (*Op, error) { return Build(cumulativeMaxDef, value) }

// CumulativeSum yields the running total of a column at its widened
// summation type.
func CumulativeSum(value any) (*Op, error) { return Build(cumulativeSumDef, value) }

var windowDef = Register(&OpDef{
	Name: "window",
	Fields: []FieldSpec{
		{Name: "value", Rule: AnyValue},
		{Name: "group_by", Rule: ValueListOf(AnyValue, 0)},
		{Name: "order_by", Rule: ValueListOf(AnyValue, 0)},
		{Name: "preceding", Rule: Optional(IntConfig)},
		{Name: "following", Rule: Optional(IntConfig)},
	},
	Output: func(op *Op) (dt.DataType, Shape, error) {
		for _, bound := range []string{"preceding", "following"} {
			v, _ := op.Field(bound)
			if v == nil {
				continue
			}
			if n := v.(int64); n < 0 {
				return dt.DataType{}, ShapeScalar, fmt.Errorf("%w: window %s must not be negative, got %d", dt.ErrInput, bound, n)
			}
		}
		return op.Arg("value").Type(), ShapeColumn, nil
	},
	NamedAs: func(op *Op) (string, bool) {
		return op.Arg("value").Name()
	},
})

// Window evaluates a value over a window frame: partitioned by the
// group keys, ordered by the sort keys, framed by the optional row
// bounds. The result is always a column.
func Window(value any, groupBy, orderBy []any, preceding, following any) (*Op, error) {
	return Build(windowDef, value, groupBy, orderBy, preceding, following)
}
