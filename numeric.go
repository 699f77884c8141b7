package expr

import "github.com/hugr-lab/expr-go/ops"

// NumericValue is the arithmetic view over numeric expressions.
type NumericValue struct{ view }

// Name returns a renamed copy.
func (n *NumericValue) Name(name string) *NumericValue {
	return &NumericValue{n.renamed(name)}
}

// Add yields the sum with other.
func (n *NumericValue) Add(other any) (*NumericValue, error) {
	return wrapNumeric(ops.Add(n.node, other))
}

// Sub yields the difference with other.
func (n *NumericValue) Sub(other any) (*NumericValue, error) {
	return wrapNumeric(ops.Subtract(n.node, other))
}

// Mul yields the product with other.
func (n *NumericValue) Mul(other any) (*NumericValue, error) {
	return wrapNumeric(ops.Multiply(n.node, other))
}

// Div yields the quotient with other. The result is floating even for
// integer operands.
func (n *NumericValue) Div(other any) (*NumericValue, error) {
	return wrapNumeric(ops.Divide(n.node, other))
}

// FloorDiv yields the quotient rounded toward negative infinity.
func (n *NumericValue) FloorDiv(other any) (*NumericValue, error) {
	return wrapNumeric(ops.FloorDivide(n.node, other))
}

// Mod yields the remainder of division by other.
func (n *NumericValue) Mod(other any) (*NumericValue, error) {
	return wrapNumeric(ops.Modulus(n.node, other))
}

// Pow raises the value to the given exponent.
func (n *NumericValue) Pow(other any) (*NumericValue, error) {
	return wrapNumeric(ops.Power(n.node, other))
}

// Neg yields the arithmetic negation.
func (n *NumericValue) Neg() *NumericValue { return mustNumeric(ops.Negate(n.node)) }

// Abs yields the absolute value.
func (n *NumericValue) Abs() *NumericValue { return mustNumeric(ops.Abs(n.node)) }

// Sign yields -1, 0 or 1 by the sign of the value.
func (n *NumericValue) Sign() *NumericValue { return mustNumeric(ops.Sign(n.node)) }

// Ceil rounds up to the nearest integer.
func (n *NumericValue) Ceil() *NumericValue { return mustNumeric(ops.Ceil(n.node)) }

// Floor rounds down to the nearest integer.
func (n *NumericValue) Floor() *NumericValue { return mustNumeric(ops.Floor(n.node)) }

// Round rounds to the given number of digits. A nil digits rounds to
// an integer.
func (n *NumericValue) Round(digits any) (*NumericValue, error) {
	return wrapNumeric(ops.Round(n.node, digits))
}

// Exp yields e raised to the value.
func (n *NumericValue) Exp() *NumericValue { return mustNumeric(ops.Exp(n.node)) }

// Ln yields the natural logarithm.
func (n *NumericValue) Ln() *NumericValue { return mustNumeric(ops.Ln(n.node)) }

// Log yields the logarithm in the given base.
func (n *NumericValue) Log(base any) (*NumericValue, error) {
	return wrapNumeric(ops.Log(n.node, base))
}

// Log2 yields the base-2 logarithm.
func (n *NumericValue) Log2() *NumericValue { return mustNumeric(ops.Log2(n.node)) }

// Log10 yields the base-10 logarithm.
func (n *NumericValue) Log10() *NumericValue { return mustNumeric(ops.Log10(n.node)) }

// Sqrt yields the square root.
func (n *NumericValue) Sqrt() *NumericValue { return mustNumeric(ops.Sqrt(n.node)) }

// Sin yields the sine.
func (n *NumericValue) Sin() *NumericValue { return mustNumeric(ops.Sin(n.node)) }

// Cos yields the cosine.
func (n *NumericValue) Cos() *NumericValue { return mustNumeric(ops.Cos(n.node)) }

// Tan yields the tangent.
func (n *NumericValue) Tan() *NumericValue { return mustNumeric(ops.Tan(n.node)) }

// Asin yields the arc sine.
func (n *NumericValue) Asin() *NumericValue { return mustNumeric(ops.Asin(n.node)) }

// Acos yields the arc cosine.
func (n *NumericValue) Acos() *NumericValue { return mustNumeric(ops.Acos(n.node)) }

// Atan yields the arc tangent.
func (n *NumericValue) Atan() *NumericValue { return mustNumeric(ops.Atan(n.node)) }

// Atan2 yields the two-argument arc tangent with the value as y.
func (n *NumericValue) Atan2(x any) (*NumericValue, error) {
	return wrapNumeric(ops.Atan2(n.node, x))
}

// Degrees converts radians to degrees.
func (n *NumericValue) Degrees() *NumericValue { return mustNumeric(ops.Degrees(n.node)) }

// Radians converts degrees to radians.
func (n *NumericValue) Radians() *NumericValue { return mustNumeric(ops.Radians(n.node)) }

// Clip bounds the value into [lower, upper]. Either bound may be nil
// to leave that side open.
func (n *NumericValue) Clip(lower, upper any) (*NumericValue, error) {
	return wrapNumeric(ops.Clip(n.node, lower, upper))
}

// BitAnd combines integer bits with AND.
func (n *NumericValue) BitAnd(other any) (*NumericValue, error) {
	return wrapNumeric(ops.BitwiseAnd(n.node, other))
}

// BitOr combines integer bits with OR.
func (n *NumericValue) BitOr(other any) (*NumericValue, error) {
	return wrapNumeric(ops.BitwiseOr(n.node, other))
}

// BitXor combines integer bits with XOR.
func (n *NumericValue) BitXor(other any) (*NumericValue, error) {
	return wrapNumeric(ops.BitwiseXor(n.node, other))
}

// BitNot inverts integer bits.
func (n *NumericValue) BitNot() (*NumericValue, error) {
	return wrapNumeric(ops.BitwiseNot(n.node))
}

// LShift shifts integer bits left.
func (n *NumericValue) LShift(other any) (*NumericValue, error) {
	return wrapNumeric(ops.BitwiseLeftShift(n.node, other))
}

// RShift shifts integer bits right.
func (n *NumericValue) RShift(other any) (*NumericValue, error) {
	return wrapNumeric(ops.BitwiseRightShift(n.node, other))
}

// Sum reduces a numeric column to its total.
func (n *NumericValue) Sum() (*NumericValue, error) { return wrapNumeric(ops.Sum(n.node, nil)) }

// Mean reduces a numeric column to its average.
func (n *NumericValue) Mean() (*NumericValue, error) { return wrapNumeric(ops.Mean(n.node, nil)) }

// Std reduces a numeric column to its standard deviation, how being
// sample or pop.
func (n *NumericValue) Std(how string) (*NumericValue, error) {
	return wrapNumeric(ops.StandardDev(n.node, how, nil))
}

// Var reduces a numeric column to its variance, how being sample or
// pop.
func (n *NumericValue) Var(how string) (*NumericValue, error) {
	return wrapNumeric(ops.Variance(n.node, how, nil))
}

// CumSum yields the running total of a column.
func (n *NumericValue) CumSum() (*NumericValue, error) {
	return wrapNumeric(ops.CumulativeSum(n.node))
}
