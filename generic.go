package expr

import (
	"fmt"
	"sort"

	dt "github.com/hugr-lab/expr-go/datatypes"
	"github.com/hugr-lab/expr-go/ops"
)

// resolveType accepts a DataType or its canonical string form.
func resolveType(t any) (dt.DataType, error) {
	switch x := t.(type) {
	case dt.DataType:
		return x, nil
	case string:
		return dt.Parse(x)
	default:
		return dt.DataType{}, fmt.Errorf("%w: type must be a DataType or a type string, got %T", dt.ErrInput, t)
	}
}

// wrap adapts an operation-constructor result into a façade view.
func wrap(op *ops.Op, err error) (Value, error) {
	if err != nil {
		return nil, err
	}
	return Wrap(op), nil
}

func wrapBoolean(op *ops.Op, err error) (*BooleanValue, error) {
	if err != nil {
		return nil, err
	}
	return Wrap(op).(*BooleanValue), nil
}

func wrapNumeric(op *ops.Op, err error) (*NumericValue, error) {
	if err != nil {
		return nil, err
	}
	return Wrap(op).(*NumericValue), nil
}

func wrapString(op *ops.Op, err error) (*StringValue, error) {
	if err != nil {
		return nil, err
	}
	return Wrap(op).(*StringValue), nil
}

func wrapTemporal(op *ops.Op, err error) (*TemporalValue, error) {
	if err != nil {
		return nil, err
	}
	return Wrap(op).(*TemporalValue), nil
}

func wrapArray(op *ops.Op, err error) (*ArrayValue, error) {
	if err != nil {
		return nil, err
	}
	return Wrap(op).(*ArrayValue), nil
}

func wrapMap(op *ops.Op, err error) (*MapValue, error) {
	if err != nil {
		return nil, err
	}
	return Wrap(op).(*MapValue), nil
}

func wrapGeo(op *ops.Op, err error) (*GeoSpatialValue, error) {
	if err != nil {
		return nil, err
	}
	return Wrap(op).(*GeoSpatialValue), nil
}

// mustBoolean and friends unwrap constructors that cannot fail for a
// receiver of the right family. A failure means the catalog and the
// view types disagree.
func mustBoolean(op *ops.Op, err error) *BooleanValue {
	if err != nil {
		panic("expr: " + err.Error())
	}
	return Wrap(op).(*BooleanValue)
}

func mustNumeric(op *ops.Op, err error) *NumericValue {
	if err != nil {
		panic("expr: " + err.Error())
	}
	return Wrap(op).(*NumericValue)
}

func mustString(op *ops.Op, err error) *StringValue {
	if err != nil {
		panic("expr: " + err.Error())
	}
	return Wrap(op).(*StringValue)
}

func mustArray(op *ops.Op, err error) *ArrayValue {
	if err != nil {
		panic("expr: " + err.Error())
	}
	return Wrap(op).(*ArrayValue)
}

func mustGeo(op *ops.Op, err error) *GeoSpatialValue {
	if err != nil {
		panic("expr: " + err.Error())
	}
	return Wrap(op).(*GeoSpatialValue)
}

// Cast converts the value to the target type, given as a DataType or
// its string form. Casting to the current type is a no-op returning an
// unchanged view.
func (v view) Cast(to any) (Value, error) {
	target, err := resolveType(to)
	if err != nil {
		return nil, err
	}
	node, err := ops.Cast(v.node, target)
	if err != nil {
		return nil, err
	}
	out := Wrap(node)
	if node == v.node && v.named {
		out = renameValue(out, v.alias)
	}
	return out, nil
}

// IsNull yields whether the value is null.
func (v view) IsNull() *BooleanValue { return mustBoolean(ops.IsNull(v.node)) }

// NotNull yields whether the value is not null.
func (v view) NotNull() *BooleanValue { return mustBoolean(ops.NotNull(v.node)) }

// TypeOf yields the backend-reported type name of the value.
func (v view) TypeOf() *StringValue { return mustString(ops.TypeOf(v.node)) }

// Coalesce yields the first non-null of the value and the arguments.
func (v view) Coalesce(others ...any) (Value, error) {
	return wrap(ops.Coalesce(append([]any{v.node}, others...)...))
}

// Greatest yields the largest of the value and the arguments.
func (v view) Greatest(others ...any) (Value, error) {
	return wrap(ops.Greatest(append([]any{v.node}, others...)...))
}

// Least yields the smallest of the value and the arguments.
func (v view) Least(others ...any) (Value, error) {
	return wrap(ops.Least(append([]any{v.node}, others...)...))
}

// FillNull replaces nulls with the fill value.
func (v view) FillNull(fill any) (Value, error) { return wrap(ops.IfNull(v.node, fill)) }

// NullIf yields null where the value equals other.
func (v view) NullIf(other any) (Value, error) { return wrap(ops.NullIf(v.node, other)) }

// Between checks lower <= value <= upper.
func (v view) Between(lower, upper any) (*BooleanValue, error) {
	return wrapBoolean(ops.Between(v.node, lower, upper))
}

// In checks membership in the given options.
func (v view) In(options ...any) (*BooleanValue, error) {
	return wrapBoolean(ops.Contains(v.node, options...))
}

// NotIn checks absence from the given options.
func (v view) NotIn(options ...any) (*BooleanValue, error) {
	return wrapBoolean(ops.NotContains(v.node, options...))
}

// IdenticalTo compares with null-safe semantics: two nulls are
// identical, a null and a value are not.
func (v view) IdenticalTo(other any) (*BooleanValue, error) {
	return wrapBoolean(ops.IdenticalTo(v.node, other))
}

// HashValue yields an integer hash using the named algorithm.
func (v view) HashValue(how string) (*NumericValue, error) {
	return wrapNumeric(ops.Hash(v.node, how))
}

// Eq checks equality with other.
func (v view) Eq(other any) (*BooleanValue, error) { return wrapBoolean(ops.Equals(v.node, other)) }

// Ne checks inequality with other.
func (v view) Ne(other any) (*BooleanValue, error) { return wrapBoolean(ops.NotEquals(v.node, other)) }

// Lt checks the value is less than other.
func (v view) Lt(other any) (*BooleanValue, error) { return wrapBoolean(ops.Less(v.node, other)) }

// Le checks the value is at most other.
func (v view) Le(other any) (*BooleanValue, error) { return wrapBoolean(ops.LessEqual(v.node, other)) }

// Gt checks the value is greater than other.
func (v view) Gt(other any) (*BooleanValue, error) { return wrapBoolean(ops.Greater(v.node, other)) }

// Ge checks the value is at least other.
func (v view) Ge(other any) (*BooleanValue, error) {
	return wrapBoolean(ops.GreaterEqual(v.node, other))
}

// Case starts a simple case comparing this value against each match in
// turn.
func (v view) Case() *SimpleCaseBuilder { return &SimpleCaseBuilder{base: v.node} }

// Substitute replaces matching values through a simple case. Mapping
// entries are applied in sorted key order so construction is
// deterministic. Unmatched values fall through to def, or to the value
// itself when def is nil.
func (v view) Substitute(mapping map[any]any, def any) (Value, error) {
	if len(mapping) == 0 {
		return nil, fmt.Errorf("%w: substitute needs at least one mapping entry", dt.ErrInput)
	}
	keys := make([]any, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return dt.FormatValue(keys[i]) < dt.FormatValue(keys[j])
	})
	b := v.Case()
	for _, k := range keys {
		b = b.When(k, mapping[k])
	}
	if def == nil {
		def = v.node
	}
	return b.Else(def).End()
}

// Count counts the non-null rows of a column.
func (v view) Count() (*NumericValue, error) { return wrapNumeric(ops.Count(v.node, nil)) }

// NUnique counts the distinct rows of a column.
func (v view) NUnique() (*NumericValue, error) { return wrapNumeric(ops.CountDistinct(v.node, nil)) }

// ApproxNUnique estimates the distinct row count of a column.
func (v view) ApproxNUnique() (*NumericValue, error) {
	return wrapNumeric(ops.ApproxCountDistinct(v.node, nil))
}

// ApproxMedian estimates the median of a numeric column.
func (v view) ApproxMedian() (Value, error) { return wrap(ops.ApproxMedian(v.node, nil)) }

// Min reduces a column to its smallest value.
func (v view) Min() (Value, error) { return wrap(ops.Min(v.node, nil)) }

// Max reduces a column to its largest value.
func (v view) Max() (Value, error) { return wrap(ops.Max(v.node, nil)) }

// Arbitrary picks one value of a column, how being first, last or
// heavy.
func (v view) Arbitrary(how string) (Value, error) { return wrap(ops.Arbitrary(v.node, how, nil)) }

// Collect gathers a column into an array.
func (v view) Collect() (*ArrayValue, error) { return wrapArray(ops.ArrayCollect(v.node, nil)) }

// GroupConcat joins a string column with the separator.
func (v view) GroupConcat(sep string) (*StringValue, error) {
	return wrapString(ops.GroupConcat(v.node, sep, nil))
}

// Distinct drops duplicate rows of a column.
func (v view) Distinct() (Value, error) { return wrap(ops.Distinct(v.node)) }

// First yields the first value of a column in window order.
func (v view) First() (Value, error) { return wrap(ops.FirstValue(v.node)) }

// Last yields the last value of a column in window order.
func (v view) Last() (Value, error) { return wrap(ops.LastValue(v.node)) }

// Nth yields the value at the given position in window order, null
// when the frame is shorter.
func (v view) Nth(n any) (Value, error) { return wrap(ops.NthValue(v.node, n)) }

// Rank yields the ranking of each row with gaps after ties.
func (v view) Rank() (*NumericValue, error) { return wrapNumeric(ops.Rank(v.node)) }

// DenseRank yields the ranking of each row without gaps.
func (v view) DenseRank() (*NumericValue, error) { return wrapNumeric(ops.DenseRank(v.node)) }

// PercentRank yields the relative rank of each row.
func (v view) PercentRank() (*NumericValue, error) { return wrapNumeric(ops.PercentRank(v.node)) }

// CumeDist yields the cumulative distribution of each row.
func (v view) CumeDist() (*NumericValue, error) { return wrapNumeric(ops.CumeDist(v.node)) }

// NTile buckets rows into the given number of groups.
func (v view) NTile(buckets any) (*NumericValue, error) {
	return wrapNumeric(ops.NTile(v.node, buckets))
}

// CumMin yields the running minimum of a column.
func (v view) CumMin() (Value, error) { return wrap(ops.CumulativeMin(v.node)) }

// CumMax yields the running maximum of a column.
func (v view) CumMax() (Value, error) { return wrap(ops.CumulativeMax(v.node)) }

// Lag yields the value offset rows before the current one. A nil
// offset shifts by one row; a nil default makes the result nullable
// instead.
func (v view) Lag(offset, def any) (Value, error) { return wrap(ops.Lag(v.node, offset, def)) }

// Lead yields the value offset rows after the current one.
func (v view) Lead(offset, def any) (Value, error) { return wrap(ops.Lead(v.node, offset, def)) }

// ToProjection promotes the value to a single-table projection. The
// value must depend on exactly one base relation; anything else is a
// relation error, never a silent pick.
func (v view) ToProjection() (*ops.Selection, error) {
	sel, err := ops.ToProjection(v.node)
	if err != nil || !v.named {
		return sel, err
	}
	return ops.NewSelection(sel.Table(), []ops.Value{v.node}, []string{v.alias})
}

// Where yields trueValue where the condition holds and falseValue
// elsewhere.
func Where(condition, trueValue, falseValue any) (Value, error) {
	return wrap(ops.Where(condition, trueValue, falseValue))
}
