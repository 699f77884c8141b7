package expr

import "github.com/hugr-lab/expr-go/ops"

// BooleanValue is the logical view over boolean expressions.
type BooleanValue struct{ view }

// Name returns a renamed copy.
func (b *BooleanValue) Name(name string) *BooleanValue {
	return &BooleanValue{b.renamed(name)}
}

// And combines with logical conjunction.
func (b *BooleanValue) And(other any) (*BooleanValue, error) {
	return wrapBoolean(ops.And(b.node, other))
}

// Or combines with logical disjunction.
func (b *BooleanValue) Or(other any) (*BooleanValue, error) {
	return wrapBoolean(ops.Or(b.node, other))
}

// Xor combines with exclusive disjunction.
func (b *BooleanValue) Xor(other any) (*BooleanValue, error) {
	return wrapBoolean(ops.Xor(b.node, other))
}

// Not negates the value.
func (b *BooleanValue) Not() *BooleanValue { return mustBoolean(ops.Not(b.node)) }

// Any reduces a boolean column to whether any row holds.
func (b *BooleanValue) Any() (*BooleanValue, error) { return wrapBoolean(ops.Any(b.node, nil)) }

// All reduces a boolean column to whether every row holds.
func (b *BooleanValue) All() (*BooleanValue, error) { return wrapBoolean(ops.All(b.node, nil)) }

// Ifelse yields trueValue where the condition holds and falseValue
// elsewhere.
func (b *BooleanValue) Ifelse(trueValue, falseValue any) (Value, error) {
	return wrap(ops.Where(b.node, trueValue, falseValue))
}
