package expr

import "github.com/hugr-lab/expr-go/ops"

// StringValue is the text view over string expressions.
type StringValue struct{ view }

// Name returns a renamed copy.
func (s *StringValue) Name(name string) *StringValue {
	return &StringValue{s.renamed(name)}
}

// Upper folds the value to upper case.
func (s *StringValue) Upper() *StringValue { return mustString(ops.Uppercase(s.node)) }

// Lower folds the value to lower case.
func (s *StringValue) Lower() *StringValue { return mustString(ops.Lowercase(s.node)) }

// Capitalize upper-cases the first character and lower-cases the rest.
func (s *StringValue) Capitalize() *StringValue { return mustString(ops.Capitalize(s.node)) }

// Reverse flips the character order.
func (s *StringValue) Reverse() *StringValue { return mustString(ops.Reverse(s.node)) }

// Strip trims whitespace from both ends.
func (s *StringValue) Strip() *StringValue { return mustString(ops.Strip(s.node)) }

// LStrip trims leading whitespace.
func (s *StringValue) LStrip() *StringValue { return mustString(ops.LStrip(s.node)) }

// RStrip trims trailing whitespace.
func (s *StringValue) RStrip() *StringValue { return mustString(ops.RStrip(s.node)) }

// Length yields the character count.
func (s *StringValue) Length() *NumericValue { return mustNumeric(ops.StringLength(s.node)) }

// Ascii yields the code point of the first character.
func (s *StringValue) Ascii() *NumericValue { return mustNumeric(ops.StringAscii(s.node)) }

// Substr extracts length characters starting at start. A nil length
// runs to the end.
func (s *StringValue) Substr(start, length any) (*StringValue, error) {
	return wrapString(ops.Substring(s.node, start, length))
}

// Right extracts the trailing nchars characters.
func (s *StringValue) Right(nchars any) (*StringValue, error) {
	return wrapString(ops.StrRight(s.node, nchars))
}

// Repeat concatenates the value with itself the given number of times.
func (s *StringValue) Repeat(times any) (*StringValue, error) {
	return wrapString(ops.Repeat(s.node, times))
}

// Translate maps each character found in from to the character at the
// same position in to.
func (s *StringValue) Translate(from, to any) (*StringValue, error) {
	return wrapString(ops.Translate(s.node, from, to))
}

// LPad left-pads to the given length with the pad string.
func (s *StringValue) LPad(length, pad any) (*StringValue, error) {
	return wrapString(ops.LPad(s.node, length, pad))
}

// RPad right-pads to the given length with the pad string.
func (s *StringValue) RPad(length, pad any) (*StringValue, error) {
	return wrapString(ops.RPad(s.node, length, pad))
}

// Replace substitutes every occurrence of pattern with replacement,
// matching literally.
func (s *StringValue) Replace(pattern, replacement any) (*StringValue, error) {
	return wrapString(ops.StringReplace(s.node, pattern, replacement))
}

// RegexExtract yields the submatch of pattern at the given group
// index, the whole match for index zero.
func (s *StringValue) RegexExtract(pattern, index any) (*StringValue, error) {
	return wrapString(ops.RegexExtract(s.node, pattern, index))
}

// RegexReplace substitutes every match of pattern with replacement.
func (s *StringValue) RegexReplace(pattern, replacement any) (*StringValue, error) {
	return wrapString(ops.RegexReplace(s.node, pattern, replacement))
}

// Find yields the zero-based position of substr, -1 when absent. The
// start and end bounds are optional.
func (s *StringValue) Find(substr, start, end any) (*NumericValue, error) {
	return wrapNumeric(ops.StringFind(s.node, substr, start, end))
}

// FindInSet yields the zero-based position of the value in the given
// list, -1 when absent.
func (s *StringValue) FindInSet(values ...any) (*NumericValue, error) {
	return wrapNumeric(ops.FindInSet(s.node, values...))
}

// Join uses the value as the separator between the given strings.
func (s *StringValue) Join(values ...any) (*StringValue, error) {
	return wrapString(ops.StringJoin(s.node, values...))
}

// Concat appends the given strings after the value.
func (s *StringValue) Concat(others ...any) (*StringValue, error) {
	return wrapString(ops.StringConcat(append([]any{s.node}, others...)...))
}

// StartsWith checks for the given prefix.
func (s *StringValue) StartsWith(prefix any) (*BooleanValue, error) {
	return wrapBoolean(ops.StartsWith(s.node, prefix))
}

// EndsWith checks for the given suffix.
func (s *StringValue) EndsWith(suffix any) (*BooleanValue, error) {
	return wrapBoolean(ops.EndsWith(s.node, suffix))
}

// Contains checks for the given substring.
func (s *StringValue) Contains(substr any) (*BooleanValue, error) {
	return wrapBoolean(ops.StringContains(s.node, substr))
}

// Like matches a SQL LIKE pattern, case sensitively.
func (s *StringValue) Like(pattern any) (*BooleanValue, error) {
	return wrapBoolean(ops.StringSQLLike(s.node, pattern, nil))
}

// ILike matches a SQL LIKE pattern, case insensitively.
func (s *StringValue) ILike(pattern any) (*BooleanValue, error) {
	return wrapBoolean(ops.StringSQLILike(s.node, pattern, nil))
}

// RegexSearch checks whether the pattern matches anywhere in the
// value.
func (s *StringValue) RegexSearch(pattern any) (*BooleanValue, error) {
	return wrapBoolean(ops.RegexSearch(s.node, pattern))
}

// Split breaks the value on the delimiter into an array of strings.
func (s *StringValue) Split(delimiter any) (*ArrayValue, error) {
	return wrapArray(ops.StringSplit(s.node, delimiter))
}

// ParseURL extracts the named URL component, extract being one of
// protocol, host, path, query, ref or userinfo. The key narrows a
// query extraction to one parameter.
func (s *StringValue) ParseURL(extract string, key any) (*StringValue, error) {
	return wrapString(ops.ParseURL(s.node, extract, key))
}

// ToTimestamp parses the value with a strptime-style format. The
// optional timezone names the zone of the result.
func (s *StringValue) ToTimestamp(format string, timezone any) (*TemporalValue, error) {
	return wrapTemporal(ops.StringToTimestamp(s.node, format, timezone))
}
