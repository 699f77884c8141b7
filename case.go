package expr

import "github.com/hugr-lab/expr-go/ops"

// SimpleCaseBuilder accumulates match/result pairs compared against a
// base value. End validates the whole case at once, so a builder is
// cheap to extend and errors surface with full context.
type SimpleCaseBuilder struct {
	base    ops.Value
	cases   []any
	results []any
	def     any
}

// When appends a match and its result.
func (b *SimpleCaseBuilder) When(match, result any) *SimpleCaseBuilder {
	b.cases = append(b.cases, match)
	b.results = append(b.results, result)
	return b
}

// Else sets the fallback result.
func (b *SimpleCaseBuilder) Else(result any) *SimpleCaseBuilder {
	b.def = result
	return b
}

// End validates the accumulated case and builds the expression. With
// no Else the result is nullable.
func (b *SimpleCaseBuilder) End() (Value, error) {
	return wrap(ops.SimpleCase(b.base, b.cases, b.results, b.def))
}

// SearchedCaseBuilder accumulates condition/result pairs evaluated in
// order.
type SearchedCaseBuilder struct {
	cases   []any
	results []any
	def     any
}

// Cases starts a searched case.
func Cases() *SearchedCaseBuilder { return &SearchedCaseBuilder{} }

// When appends a condition and its result.
func (b *SearchedCaseBuilder) When(condition, result any) *SearchedCaseBuilder {
	b.cases = append(b.cases, condition)
	b.results = append(b.results, result)
	return b
}

// Else sets the fallback result.
func (b *SearchedCaseBuilder) Else(result any) *SearchedCaseBuilder {
	b.def = result
	return b
}

// End validates the accumulated case and builds the expression. With
// no Else the result is nullable.
func (b *SearchedCaseBuilder) End() (Value, error) {
	return wrap(ops.SearchedCase(b.cases, b.results, b.def))
}
