package ops

import (
	dt "github.com/hugr-lab/expr-go/datatypes"
)

func unaryStringDef(name string) *OpDef {
	return Register(&OpDef{
		Name:   name,
		Fields: []FieldSpec{{Name: "value", Rule: StringValue}},
		Output: ShapeLike(dt.String),
	})
}

var (
	lowercaseDef  = unaryStringDef("lowercase")
	uppercaseDef  = unaryStringDef("uppercase")
	stripDef      = unaryStringDef("strip")
	lstripDef     = unaryStringDef("lstrip")
	rstripDef     = unaryStringDef("rstrip")
	capitalizeDef = unaryStringDef("capitalize")
	reverseDef    = unaryStringDef("reverse")

	stringLengthDef = Register(&OpDef{
		Name:   "string_length",
		Fields: []FieldSpec{{Name: "value", Rule: StringValue}},
		Output: ShapeLike(dt.Int32),
	})

	stringAsciiDef = Register(&OpDef{
		Name:   "string_ascii",
		Fields: []FieldSpec{{Name: "value", Rule: StringValue}},
		Output: ShapeLike(dt.Int32),
	})
)

// Lowercase folds a string to lower case.
func Lowercase(value any) (*Op, error) { return Build(lowercaseDef, value) }

// Uppercase folds a string to upper case.
func Uppercase(value any) (*Op, error) { return Build(uppercaseDef, value) }

// Strip removes whitespace from both ends.
func Strip(value any) (*Op, error) { return Build(stripDef, value) }

// LStrip removes leading whitespace.
func LStrip(value any) (*Op, error) { return Build(lstripDef, value) }

// RStrip removes trailing whitespace.
func RStrip(value any) (*Op, error) { return Build(rstripDef, value) }

// Capitalize upper-cases the first character.
func Capitalize(value any) (*Op, error) { return Build(capitalizeDef, value) }

// Reverse reverses the characters of a string.
func Reverse(value any) (*Op, error) { return Build(reverseDef, value) }

// StringLength yields the length in characters.
func StringLength(value any) (*Op, error) { return Build(stringLengthDef, value) }

// StringAscii yields the code point of the first character.
func StringAscii(value any) (*Op, error) { return Build(stringAsciiDef, value) }

var substringDef = Register(&OpDef{
	Name: "substring",
	Fields: []FieldSpec{
		{Name: "value", Rule: StringValue},
		{Name: "start", Rule: ValueOfType(dt.Int64)},
		{Name: "length", Rule: Optional(ValueOfType(dt.Int64))},
	},
	Output: ShapeLike(dt.String),
})

// Substring slices a string from start, optionally limited to length
// characters.
func Substring(value, start, length any) (*Op, error) {
	return Build(substringDef, value, start, length)
}

var strRightDef = Register(&OpDef{
	Name: "str_right",
	Fields: []FieldSpec{
		{Name: "value", Rule: StringValue},
		{Name: "nchars", Rule: ValueOfType(dt.Int64)},
	},
	Output: ShapeLike(dt.String),
})

// StrRight yields the trailing nchars characters.
func StrRight(value, nchars any) (*Op, error) { return Build(strRightDef, value, nchars) }

var repeatDef = Register(&OpDef{
	Name: "repeat",
	Fields: []FieldSpec{
		{Name: "value", Rule: StringValue},
		{Name: "times", Rule: ValueOfType(dt.Int64)},
	},
	Output: ShapeLike(dt.String),
})

// Repeat concatenates a string with itself the given number of times.
func Repeat(value, times any) (*Op, error) { return Build(repeatDef, value, times) }

var translateDef = Register(&OpDef{
	Name: "translate",
	Fields: []FieldSpec{
		{Name: "value", Rule: StringValue},
		{Name: "from", Rule: StringValue},
		{Name: "to", Rule: StringValue},
	},
	Output: ShapeLike(dt.String),
})

// Translate replaces characters in value found in from with the
// positionally matching characters of to.
func Translate(value, from, to any) (*Op, error) { return Build(translateDef, value, from, to) }

var stringFindDef = Register(&OpDef{
	Name: "string_find",
	Fields: []FieldSpec{
		{Name: "value", Rule: StringValue},
		{Name: "substr", Rule: StringValue},
		{Name: "start", Rule: Optional(ValueOfType(dt.Int64))},
		{Name: "end", Rule: Optional(ValueOfType(dt.Int64))},
	},
	Output: ShapeLike(dt.Int64),
})

// StringFind yields the zero-based position of substr in value, or -1.
func StringFind(value, substr, start, end any) (*Op, error) {
	return Build(stringFindDef, value, substr, start, end)
}

var stringContainsDef = Register(&OpDef{
	Name: "string_contains",
	Fields: []FieldSpec{
		{Name: "value", Rule: StringValue},
		{Name: "substr", Rule: StringValue},
	},
	Output: ShapeLike(dt.Boolean),
})

// StringContains tests whether substr occurs in value.
func StringContains(value, substr any) (*Op, error) {
	return Build(stringContainsDef, value, substr)
}

func padDef(name string) *OpDef {
	return Register(&OpDef{
		Name: name,
		Fields: []FieldSpec{
			{Name: "value", Rule: StringValue},
			{Name: "length", Rule: ValueOfType(dt.Int64)},
			{Name: "pad", Rule: Optional(StringValue)},
		},
		Output: ShapeLike(dt.String),
	})
}

var (
	lpadDef = padDef("lpad")
	rpadDef = padDef("rpad")
)

// LPad pads a string on the left to the given length.
func LPad(value, length, pad any) (*Op, error) { return Build(lpadDef, value, length, pad) }

// RPad pads a string on the right to the given length.
func RPad(value, length, pad any) (*Op, error) { return Build(rpadDef, value, length, pad) }

var findInSetDef = Register(&OpDef{
	Name: "find_in_set",
	Fields: []FieldSpec{
		{Name: "needle", Rule: StringValue},
		{Name: "values", Rule: ValueListOf(StringValue, 1)},
	},
	Output: ShapeLike(dt.Int64, "needle"),
})

// FindInSet yields the position of needle in the value set, or -1.
func FindInSet(needle any, values ...any) (*Op, error) {
	return Build(findInSetDef, needle, values)
}

var stringJoinDef = Register(&OpDef{
	Name: "string_join",
	Fields: []FieldSpec{
		{Name: "sep", Rule: StringValue},
		{Name: "values", Rule: ValueListOf(StringValue, 1)},
	},
	Output: ShapeLike(dt.String),
})

// StringJoin concatenates values interleaved with sep.
func StringJoin(sep any, values ...any) (*Op, error) {
	return Build(stringJoinDef, sep, values)
}

var stringConcatDef = Register(&OpDef{
	Name:   "string_concat",
	Fields: []FieldSpec{{Name: "values", Rule: ValueListOf(StringValue, 1)}},
	Output: ShapeLike(dt.String),
})

// StringConcat concatenates its arguments.
func StringConcat(values ...any) (*Op, error) { return Build(stringConcatDef, values) }

func stringPredicateDef(name string) *OpDef {
	return Register(&OpDef{
		Name: name,
		Fields: []FieldSpec{
			{Name: "value", Rule: StringValue},
			{Name: "pattern", Rule: StringValue},
		},
		Output: ShapeLike(dt.Boolean),
	})
}

var (
	startsWithDef  = stringPredicateDef("starts_with")
	endsWithDef    = stringPredicateDef("ends_with")
	regexSearchDef = stringPredicateDef("regex_search")
)

// StartsWith tests for a prefix.
func StartsWith(value, prefix any) (*Op, error) { return Build(startsWithDef, value, prefix) }

// EndsWith tests for a suffix.
func EndsWith(value, suffix any) (*Op, error) { return Build(endsWithDef, value, suffix) }

// RegexSearch tests a string against a regular expression.
func RegexSearch(value, pattern any) (*Op, error) { return Build(regexSearchDef, value, pattern) }

func sqlLikeDef(name string) *OpDef {
	return Register(&OpDef{
		Name: name,
		Fields: []FieldSpec{
			{Name: "value", Rule: StringValue},
			{Name: "pattern", Rule: StringValue},
			{Name: "escape", Rule: Optional(StringConfig)},
		},
		Output: ShapeLike(dt.Boolean),
	})
}

var (
	stringSQLLikeDef  = sqlLikeDef("string_sql_like")
	stringSQLILikeDef = sqlLikeDef("string_sql_ilike")
)

// StringSQLLike matches a SQL LIKE pattern; escape may be nil.
func StringSQLLike(value, pattern, escape any) (*Op, error) {
	return Build(stringSQLLikeDef, value, pattern, escape)
}

// StringSQLILike matches a SQL LIKE pattern case-insensitively.
func StringSQLILike(value, pattern, escape any) (*Op, error) {
	return Build(stringSQLILikeDef, value, pattern, escape)
}

var regexExtractDef = Register(&OpDef{
	Name: "regex_extract",
	Fields: []FieldSpec{
		{Name: "value", Rule: StringValue},
		{Name: "pattern", Rule: StringValue},
		{Name: "index", Rule: ValueOfType(dt.Int64)},
	},
	Output: ShapeLike(dt.String),
})

// RegexExtract yields the regex group at index from the first match.
func RegexExtract(value, pattern, index any) (*Op, error) {
	return Build(regexExtractDef, value, pattern, index)
}

var regexReplaceDef = Register(&OpDef{
	Name: "regex_replace",
	Fields: []FieldSpec{
		{Name: "value", Rule: StringValue},
		{Name: "pattern", Rule: StringValue},
		{Name: "replacement", Rule: StringValue},
	},
	Output: ShapeLike(dt.String),
})

// RegexReplace substitutes every regex match with the replacement.
func RegexReplace(value, pattern, replacement any) (*Op, error) {
	return Build(regexReplaceDef, value, pattern, replacement)
}

var stringReplaceDef = Register(&OpDef{
	Name: "string_replace",
	Fields: []FieldSpec{
		{Name: "value", Rule: StringValue},
		{Name: "pattern", Rule: StringValue},
		{Name: "replacement", Rule: StringValue},
	},
	Output: ShapeLike(dt.String),
})

// StringReplace substitutes every literal occurrence of pattern with
// the replacement.
func StringReplace(value, pattern, replacement any) (*Op, error) {
	return Build(stringReplaceDef, value, pattern, replacement)
}

var stringSplitDef = Register(&OpDef{
	Name: "string_split",
	Fields: []FieldSpec{
		{Name: "value", Rule: StringValue},
		{Name: "delimiter", Rule: StringValue},
	},
	Output: ShapeLike(dt.ArrayOf(dt.String)),
})

// StringSplit splits a string around a delimiter.
func StringSplit(value, delimiter any) (*Op, error) {
	return Build(stringSplitDef, value, delimiter)
}

var parseURLDef = Register(&OpDef{
	Name: "parse_url",
	Fields: []FieldSpec{
		{Name: "value", Rule: StringValue},
		{Name: "extract", Rule: IsIn("PROTOCOL", "AUTHORITY", "USERINFO", "HOST", "FILE", "PATH", "QUERY", "REF")},
		{Name: "key", Rule: Optional(StringValue)},
	},
	Output: ShapeLike(dt.String),
})

// ParseURL extracts a component from a URL; key selects a query
// parameter when extract is QUERY.
func ParseURL(value any, extract string, key any) (*Op, error) {
	return Build(parseURLDef, value, extract, key)
}

var stringToTimestampDef = Register(&OpDef{
	Name: "string_to_timestamp",
	Fields: []FieldSpec{
		{Name: "value", Rule: StringValue},
		{Name: "format", Rule: StringConfig},
		{Name: "timezone", Rule: Optional(StringConfig)},
	},
	Output: func(op *Op) (dt.DataType, Shape, error) {
		zone := ""
		if v, ok := op.Field("timezone"); ok && v != nil {
			zone = v.(string)
		}
		return dt.TimestampWithZone(zone), shapeOf(op), nil
	},
})

// StringToTimestamp parses a string into a timestamp using a
// strptime-style format; timezone may be nil.
func StringToTimestamp(value any, format string, timezone any) (*Op, error) {
	return Build(stringToTimestampDef, value, format, timezone)
}
