package ops

import (
	"fmt"

	dt "github.com/hugr-lab/expr-go/datatypes"
)

func binaryNumericDef(name string) *OpDef {
	return Register(&OpDef{
		Name: name,
		Fields: []FieldSpec{
			{Name: "left", Rule: NumericValue},
			{Name: "right", Rule: NumericValue},
		},
		Output: Promoted("left", "right"),
	})
}

func unaryFloatDef(name string) *OpDef {
	return Register(&OpDef{
		Name:   name,
		Fields: []FieldSpec{{Name: "value", Rule: NumericValue}},
		Output: ShapeLike(dt.Float64),
	})
}

func binaryIntegerDef(name string) *OpDef {
	return Register(&OpDef{
		Name: name,
		Fields: []FieldSpec{
			{Name: "left", Rule: IntegerValue},
			{Name: "right", Rule: IntegerValue},
		},
		Output: Promoted("left", "right"),
	})
}

var (
	addDef      = binaryNumericDef("add")
	subtractDef = binaryNumericDef("subtract")
	multiplyDef = binaryNumericDef("multiply")
	modulusDef  = binaryNumericDef("modulus")

	divideDef = Register(&OpDef{
		Name: "divide",
		Fields: []FieldSpec{
			{Name: "left", Rule: NumericValue},
			{Name: "right", Rule: NumericValue},
		},
		Output: ShapeLike(dt.Float64),
	})

	floorDivideDef = Register(&OpDef{
		Name: "floor_divide",
		Fields: []FieldSpec{
			{Name: "left", Rule: NumericValue},
			{Name: "right", Rule: NumericValue},
		},
		Output: ShapeLike(dt.Int64),
	})

	powerDef = Register(&OpDef{
		Name: "power",
		Fields: []FieldSpec{
			{Name: "left", Rule: NumericValue},
			{Name: "right", Rule: NumericValue},
		},
		Output: ShapeLike(dt.Float64),
	})
)

// Add yields left + right at the promoted common type.
func Add(left, right any) (*Op, error) { return Build(addDef, left, right) }

// Subtract yields left - right at the promoted common type.
func Subtract(left, right any) (*Op, error) { return Build(subtractDef, left, right) }

// Multiply yields left * right at the promoted common type.
func Multiply(left, right any) (*Op, error) { return Build(multiplyDef, left, right) }

// Divide is true division; the result is always floating-point.
func Divide(left, right any) (*Op, error) { return Build(divideDef, left, right) }

// FloorDivide divides and truncates toward negative infinity.
func FloorDivide(left, right any) (*Op, error) { return Build(floorDivideDef, left, right) }

// Modulus yields the remainder of left / right.
func Modulus(left, right any) (*Op, error) { return Build(modulusDef, left, right) }

// Power raises left to the power right.
func Power(left, right any) (*Op, error) { return Build(powerDef, left, right) }

var negateDef = Register(&OpDef{
	Name:   "negate",
	Fields: []FieldSpec{{Name: "value", Rule: OneOf(NumericValue, IntervalValue)}},
	Output: SameTypeAs("value"),
})

// Negate yields the additive inverse of a numeric or interval value.
func Negate(value any) (*Op, error) { return Build(negateDef, value) }

var absDef = Register(&OpDef{
	Name:   "abs",
	Fields: []FieldSpec{{Name: "value", Rule: NumericValue}},
	Output: SameTypeAs("value"),
})

// Abs yields the absolute value.
func Abs(value any) (*Op, error) { return Build(absDef, value) }

// roundedOutput keeps decimals decimal and makes everything else
// integral.
func roundedOutput(op *Op) (dt.DataType, Shape, error) {
	t := op.Arg("value").Type()
	if t.Kind == dt.KindDecimal {
		return t, shapeOf(op), nil
	}
	return dt.Int64, shapeOf(op), nil
}

var ceilDef = Register(&OpDef{
	Name:   "ceil",
	Fields: []FieldSpec{{Name: "value", Rule: NumericValue}},
	Output: roundedOutput,
})

// Ceil rounds up to the nearest integer.
func Ceil(value any) (*Op, error) { return Build(ceilDef, value) }

var floorDef = Register(&OpDef{
	Name:   "floor",
	Fields: []FieldSpec{{Name: "value", Rule: NumericValue}},
	Output: roundedOutput,
})

// Floor rounds down to the nearest integer.
func Floor(value any) (*Op, error) { return Build(floorDef, value) }

var roundDef = Register(&OpDef{
	Name: "round",
	Fields: []FieldSpec{
		{Name: "value", Rule: NumericValue},
		{Name: "digits", Rule: Optional(IntegerValue)},
	},
	Output: func(op *Op) (dt.DataType, Shape, error) {
		t := op.Arg("value").Type()
		switch {
		case t.Kind == dt.KindDecimal:
			return t, shapeOf(op), nil
		case op.Arg("digits") == nil:
			return dt.Int64, shapeOf(op), nil
		default:
			return dt.Float64, shapeOf(op), nil
		}
	},
})

// Round rounds to the given number of digits; with digits absent the
// result is integral.
func Round(value, digits any) (*Op, error) { return Build(roundDef, value, digits) }

var (
	expDef   = unaryFloatDef("exp")
	lnDef    = unaryFloatDef("ln")
	log2Def  = unaryFloatDef("log2")
	log10Def = unaryFloatDef("log10")
	sqrtDef  = unaryFloatDef("sqrt")

	logDef = Register(&OpDef{
		Name: "log",
		Fields: []FieldSpec{
			{Name: "value", Rule: NumericValue},
			{Name: "base", Rule: Optional(NumericValue)},
		},
		Output: ShapeLike(dt.Float64),
	})
)

// Exp yields e raised to the value.
func Exp(value any) (*Op, error) { return Build(expDef, value) }

// Ln is the natural logarithm.
func Ln(value any) (*Op, error) { return Build(lnDef, value) }

// Log is the logarithm in the given base, or natural when base is nil.
func Log(value, base any) (*Op, error) { return Build(logDef, value, base) }

// Log2 is the base-2 logarithm.
func Log2(value any) (*Op, error) { return Build(log2Def, value) }

// Log10 is the base-10 logarithm.
func Log10(value any) (*Op, error) { return Build(log10Def, value) }

// Sqrt yields the square root.
func Sqrt(value any) (*Op, error) { return Build(sqrtDef, value) }

var signDef = Register(&OpDef{
	Name:   "sign",
	Fields: []FieldSpec{{Name: "value", Rule: NumericValue}},
	Output: SameTypeAs("value"),
})

// Sign yields -1, 0 or 1 at the value's own type.
func Sign(value any) (*Op, error) { return Build(signDef, value) }

var (
	sinDef  = unaryFloatDef("sin")
	cosDef  = unaryFloatDef("cos")
	tanDef  = unaryFloatDef("tan")
	asinDef = unaryFloatDef("asin")
	acosDef = unaryFloatDef("acos")
	atanDef = unaryFloatDef("atan")

	atan2Def = Register(&OpDef{
		Name: "atan2",
		Fields: []FieldSpec{
			{Name: "y", Rule: NumericValue},
			{Name: "x", Rule: NumericValue},
		},
		Output: ShapeLike(dt.Float64),
	})

	degreesDef = unaryFloatDef("degrees")
	radiansDef = unaryFloatDef("radians")
)

// Sin yields the sine of an angle in radians.
func Sin(value any) (*Op, error) { return Build(sinDef, value) }

// Cos yields the cosine of an angle in radians.
func Cos(value any) (*Op, error) { return Build(cosDef, value) }

// Tan yields the tangent of an angle in radians.
func Tan(value any) (*Op, error) { return Build(tanDef, value) }

// Asin yields the arc sine in radians.
func Asin(value any) (*Op, error) { return Build(asinDef, value) }

// Acos yields the arc cosine in radians.
func Acos(value any) (*Op, error) { return Build(acosDef, value) }

// Atan yields the arc tangent in radians.
func Atan(value any) (*Op, error) { return Build(atanDef, value) }

// Atan2 yields the two-argument arc tangent of y/x.
func Atan2(y, x any) (*Op, error) { return Build(atan2Def, y, x) }

// Degrees converts radians to degrees.
func Degrees(value any) (*Op, error) { return Build(degreesDef, value) }

// Radians converts degrees to radians.
func Radians(value any) (*Op, error) { return Build(radiansDef, value) }

var clipDef = Register(&OpDef{
	Name: "clip",
	Fields: []FieldSpec{
		{Name: "value", Rule: NumericValue},
		{Name: "lower", Rule: Optional(NumericValue)},
		{Name: "upper", Rule: Optional(NumericValue)},
	},
	Output: func(op *Op) (dt.DataType, Shape, error) {
		if op.Arg("lower") == nil && op.Arg("upper") == nil {
			return dt.DataType{}, ShapeScalar, fmt.Errorf("%w: clip requires at least one bound", dt.ErrInput)
		}
		return op.Arg("value").Type(), shapeOf(op), nil
	},
})

// Clip limits a value to the [lower, upper] range; either bound may be
// nil, but not both.
func Clip(value, lower, upper any) (*Op, error) { return Build(clipDef, value, lower, upper) }

var (
	bitwiseAndDef        = binaryIntegerDef("bitwise_and")
	bitwiseOrDef         = binaryIntegerDef("bitwise_or")
	bitwiseXorDef        = binaryIntegerDef("bitwise_xor")
	bitwiseLeftShiftDef  = binaryIntegerDef("bitwise_left_shift")
	bitwiseRightShiftDef = binaryIntegerDef("bitwise_right_shift")

	bitwiseNotDef = Register(&OpDef{
		Name:   "bitwise_not",
		Fields: []FieldSpec{{Name: "value", Rule: IntegerValue}},
		Output: SameTypeAs("value"),
	})
)

// BitwiseAnd yields the bitwise conjunction of two integers.
func BitwiseAnd(left, right any) (*Op, error) { return Build(bitwiseAndDef, left, right) }

// BitwiseOr yields the bitwise disjunction of two integers.
func BitwiseOr(left, right any) (*Op, error) { return Build(bitwiseOrDef, left, right) }

// BitwiseXor yields the bitwise exclusive or of two integers.
func BitwiseXor(left, right any) (*Op, error) { return Build(bitwiseXorDef, left, right) }

// BitwiseNot yields the bitwise complement of an integer.
func BitwiseNot(value any) (*Op, error) { return Build(bitwiseNotDef, value) }

// BitwiseLeftShift shifts left by right bits.
func BitwiseLeftShift(left, right any) (*Op, error) {
	return Build(bitwiseLeftShiftDef, left, right)
}

// BitwiseRightShift shifts right by right bits.
func BitwiseRightShift(left, right any) (*Op, error) {
	return Build(bitwiseRightShiftDef, left, right)
}

func constantDef(name string, dtype dt.DataType) *OpDef {
	return Register(&OpDef{
		Name:   name,
		Fields: nil,
		Output: func(op *Op) (dt.DataType, Shape, error) { return dtype, ShapeScalar, nil },
	})
}

var (
	randomDef = constantDef("random", dt.Float64)
	eDef      = constantDef("e", dt.Float64)
	piDef     = constantDef("pi", dt.Float64)
)

// RandomScalar yields a uniform random number in [0, 1).
func RandomScalar() (*Op, error) { return Build(randomDef) }

// E is Euler's number.
func E() (*Op, error) { return Build(eDef) }

// Pi is the circle constant.
func Pi() (*Op, error) { return Build(piDef) }
