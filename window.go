package expr

import "github.com/hugr-lab/expr-go/ops"

// Window describes how rows are framed for an analytic expression.
// PartitionBy entries are plain expressions; OrderBy entries are
// expressions, Asc/Desc keys, or existing sort keys. Nil bounds leave
// the frame side open, zero bounds pin it to the current row.
type Window struct {
	PartitionBy []any
	OrderBy     []any
	Preceding   any
	Following   any
}

// SortKey pairs an ordering expression with its direction.
type SortKey struct {
	Value     any
	Ascending bool
}

// Asc orders by the expression ascending.
func Asc(value any) SortKey { return SortKey{Value: value, Ascending: true} }

// Desc orders by the expression descending.
func Desc(value any) SortKey { return SortKey{Value: value, Ascending: false} }

func sortKeyValue(entry any) (ops.Value, error) {
	if k, ok := entry.(SortKey); ok {
		op, err := ops.SortKey(k.Value, k.Ascending)
		if err != nil {
			return nil, err
		}
		return op, nil
	}
	v, err := ops.AsValue(entry)
	if err != nil {
		return nil, err
	}
	if v.Kind() == "sort_key" {
		return v, nil
	}
	op, err := ops.SortKey(v, true)
	if err != nil {
		return nil, err
	}
	return op, nil
}

// Over frames the value with the given window. Framing an already
// windowed value merges the frames: partition and order keys
// accumulate, the newer bounds win where set.
func (v view) Over(w Window) (Value, error) {
	node := v.node
	var groupBy, orderBy []any
	preceding, following := w.Preceding, w.Following
	if op, ok := node.(*ops.Op); ok && op.Kind() == "window" {
		for _, g := range op.ArgList("group_by") {
			groupBy = append(groupBy, g)
		}
		for _, o := range op.ArgList("order_by") {
			orderBy = append(orderBy, o)
		}
		if preceding == nil {
			if p, ok := op.Field("preceding"); ok && p != nil {
				preceding = p
			}
		}
		if following == nil {
			if f, ok := op.Field("following"); ok && f != nil {
				following = f
			}
		}
		node = op.Arg("value")
	}
	groupBy = append(groupBy, w.PartitionBy...)
	for _, entry := range w.OrderBy {
		key, err := sortKeyValue(entry)
		if err != nil {
			return nil, err
		}
		orderBy = append(orderBy, key)
	}
	out, err := ops.Window(node, groupBy, orderBy, preceding, following)
	if err != nil {
		return nil, err
	}
	res := Wrap(out)
	if v.named {
		res = renameValue(res, v.alias)
	}
	return res, nil
}
