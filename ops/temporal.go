package ops

import (
	dt "github.com/hugr-lab/expr-go/datatypes"
)

func extractDef(name string, rule Rule) *OpDef {
	return Register(&OpDef{
		Name:   name,
		Fields: []FieldSpec{{Name: "value", Rule: rule}},
		Output: ShapeLike(dt.Int32),
	})
}

var (
	dateLike      = OneOf(DateValue, TimestampValue)
	timeLike      = OneOf(TimeValue, TimestampValue)
	timestampLike = OneOf(DateValue, TimeValue, TimestampValue)

	extractYearDef        = extractDef("extract_year", dateLike)
	extractQuarterDef     = extractDef("extract_quarter", dateLike)
	extractMonthDef       = extractDef("extract_month", dateLike)
	extractWeekOfYearDef  = extractDef("extract_week_of_year", dateLike)
	extractDayDef         = extractDef("extract_day", dateLike)
	extractDayOfYearDef   = extractDef("extract_day_of_year", dateLike)
	extractHourDef        = extractDef("extract_hour", timeLike)
	extractMinuteDef      = extractDef("extract_minute", timeLike)
	extractSecondDef      = extractDef("extract_second", timeLike)
	extractMillisecondDef = extractDef("extract_millisecond", timeLike)

	dayOfWeekIndexDef = Register(&OpDef{
		Name:   "day_of_week_index",
		Fields: []FieldSpec{{Name: "value", Rule: dateLike}},
		Output: ShapeLike(dt.Int16),
	})

	extractEpochSecondsDef = Register(&OpDef{
		Name:   "extract_epoch_seconds",
		Fields: []FieldSpec{{Name: "value", Rule: dateLike}},
		Output: ShapeLike(dt.Int64),
	})

	dayOfWeekNameDef = Register(&OpDef{
		Name:   "day_of_week_name",
		Fields: []FieldSpec{{Name: "value", Rule: dateLike}},
		Output: ShapeLike(dt.String),
	})
)

// ExtractYear yields the calendar year.
func ExtractYear(value any) (*Op, error) { return Build(extractYearDef, value) }

// ExtractQuarter yields the quarter of the year, 1 through 4.
func ExtractQuarter(value any) (*Op, error) { return Build(extractQuarterDef, value) }

// ExtractMonth yields the month of the year, 1 through 12.
func ExtractMonth(value any) (*Op, error) { return Build(extractMonthDef, value) }

// ExtractWeekOfYear yields the ISO week number.
func ExtractWeekOfYear(value any) (*Op, error) { return Build(extractWeekOfYearDef, value) }

// ExtractDay yields the day of the month.
func ExtractDay(value any) (*Op, error) { return Build(extractDayDef, value) }

// ExtractDayOfYear yields the ordinal day of the year.
func ExtractDayOfYear(value any) (*Op, error) { return Build(extractDayOfYearDef, value) }

// DayOfWeekIndex yields the day of the week, 0 for Monday through 6
// for Sunday.
func DayOfWeekIndex(value any) (*Op, error) { return Build(dayOfWeekIndexDef, value) }

// DayOfWeekName yields the English weekday name.
func DayOfWeekName(value any) (*Op, error) { return Build(dayOfWeekNameDef, value) }

// ExtractHour yields the hour of the day.
func ExtractHour(value any) (*Op, error) { return Build(extractHourDef, value) }

// ExtractMinute yields the minute of the hour.
func ExtractMinute(value any) (*Op, error) { return Build(extractMinuteDef, value) }

// ExtractSecond yields the second of the minute.
func ExtractSecond(value any) (*Op, error) { return Build(extractSecondDef, value) }

// ExtractMillisecond yields the millisecond of the second.
func ExtractMillisecond(value any) (*Op, error) { return Build(extractMillisecondDef, value) }

// ExtractEpochSeconds yields seconds since the Unix epoch.
func ExtractEpochSeconds(value any) (*Op, error) { return Build(extractEpochSecondsDef, value) }

var (
	dateUnits      = []string{"Y", "Q", "M", "W", "D"}
	timeUnits      = []string{"h", "m", "s", "ms", "us", "ns"}
	timestampUnits = append(append([]string{}, dateUnits...), timeUnits...)
)

var dateTruncateDef = Register(&OpDef{
	Name: "date_truncate",
	Fields: []FieldSpec{
		{Name: "value", Rule: DateValue},
		{Name: "unit", Rule: IsIn(dateUnits...)},
	},
	Output: ShapeLike(dt.Date),
})

// DateTruncate rounds a date down to the given calendar unit.
func DateTruncate(value any, unit string) (*Op, error) {
	return Build(dateTruncateDef, value, unit)
}

var timestampTruncateDef = Register(&OpDef{
	Name: "timestamp_truncate",
	Fields: []FieldSpec{
		{Name: "value", Rule: TimestampValue},
		{Name: "unit", Rule: IsIn(timestampUnits...)},
	},
	Output: SameTypeAs("value"),
})

// TimestampTruncate rounds a timestamp down to the given unit,
// preserving the timezone.
func TimestampTruncate(value any, unit string) (*Op, error) {
	return Build(timestampTruncateDef, value, unit)
}

var timeTruncateDef = Register(&OpDef{
	Name: "time_truncate",
	Fields: []FieldSpec{
		{Name: "value", Rule: TimeValue},
		{Name: "unit", Rule: IsIn(timeUnits...)},
	},
	Output: ShapeLike(dt.Time),
})

// TimeTruncate rounds a time down to the given unit.
func TimeTruncate(value any, unit string) (*Op, error) {
	return Build(timeTruncateDef, value, unit)
}

func temporalShiftDef(name string, rule Rule, output OutputRule) *OpDef {
	return Register(&OpDef{
		Name: name,
		Fields: []FieldSpec{
			{Name: "value", Rule: rule},
			{Name: "amount", Rule: IntervalValue},
		},
		Output: output,
	})
}

func temporalDiffDef(name string, rule Rule, unit dt.IntervalUnit) *OpDef {
	return Register(&OpDef{
		Name: name,
		Fields: []FieldSpec{
			{Name: "left", Rule: rule},
			{Name: "right", Rule: rule},
		},
		Output: ShapeLike(dt.Interval(unit)),
	})
}

var (
	dateAddDef      = temporalShiftDef("date_add", DateValue, ShapeLike(dt.Date))
	dateSubDef      = temporalShiftDef("date_sub", DateValue, ShapeLike(dt.Date))
	timestampAddDef = temporalShiftDef("timestamp_add", TimestampValue, SameTypeAs("value"))
	timestampSubDef = temporalShiftDef("timestamp_sub", TimestampValue, SameTypeAs("value"))
	timeAddDef      = temporalShiftDef("time_add", TimeValue, ShapeLike(dt.Time))
	timeSubDef      = temporalShiftDef("time_sub", TimeValue, ShapeLike(dt.Time))

	dateDiffDef      = temporalDiffDef("date_diff", DateValue, dt.UnitDay)
	timestampDiffDef = temporalDiffDef("timestamp_diff", TimestampValue, dt.UnitSecond)
	timeDiffDef      = temporalDiffDef("time_diff", TimeValue, dt.UnitSecond)
)

// DateAdd shifts a date forward by an interval.
func DateAdd(value, amount any) (*Op, error) { return Build(dateAddDef, value, amount) }

// DateSub shifts a date backward by an interval.
func DateSub(value, amount any) (*Op, error) { return Build(dateSubDef, value, amount) }

// DateDiff yields the difference between two dates in days.
func DateDiff(left, right any) (*Op, error) { return Build(dateDiffDef, left, right) }

// TimestampAdd shifts a timestamp forward by an interval.
func TimestampAdd(value, amount any) (*Op, error) { return Build(timestampAddDef, value, amount) }

// TimestampSub shifts a timestamp backward by an interval.
func TimestampSub(value, amount any) (*Op, error) { return Build(timestampSubDef, value, amount) }

// TimestampDiff yields the difference between two timestamps in
// seconds.
func TimestampDiff(left, right any) (*Op, error) { return Build(timestampDiffDef, left, right) }

// TimeAdd shifts a time forward by an interval.
func TimeAdd(value, amount any) (*Op, error) { return Build(timeAddDef, value, amount) }

// TimeSub shifts a time backward by an interval.
func TimeSub(value, amount any) (*Op, error) { return Build(timeSubDef, value, amount) }

// TimeDiff yields the difference between two times in seconds.
func TimeDiff(left, right any) (*Op, error) { return Build(timeDiffDef, left, right) }

var strftimeDef = Register(&OpDef{
	Name: "strftime",
	Fields: []FieldSpec{
		{Name: "value", Rule: timestampLike},
		{Name: "format", Rule: StringValue},
	},
	Output: ShapeLike(dt.String),
})

// Strftime formats a temporal value with a strftime-style pattern.
func Strftime(value, format any) (*Op, error) { return Build(strftimeDef, value, format) }

var dateFromTimestampDef = Register(&OpDef{
	Name:   "date",
	Fields: []FieldSpec{{Name: "value", Rule: TimestampValue}},
	Output: ShapeLike(dt.Date),
})

// DateFromTimestamp drops the time-of-day component of a timestamp.
func DateFromTimestamp(value any) (*Op, error) { return Build(dateFromTimestampDef, value) }

var timestampNowDef = Register(&OpDef{
	Name:   "timestamp_now",
	Fields: nil,
	Output: func(op *Op) (dt.DataType, Shape, error) {
		return dt.TimestampWithZone("UTC"), ShapeScalar, nil
	},
})

// TimestampNow is the query evaluation time.
func TimestampNow() (*Op, error) { return Build(timestampNowDef) }

var timestampFromUNIXDef = Register(&OpDef{
	Name: "timestamp_from_unix",
	Fields: []FieldSpec{
		{Name: "value", Rule: IntegerValue},
		{Name: "unit", Rule: IsIn("s", "ms", "us")},
	},
	Output: ShapeLike(dt.Timestamp),
})

// TimestampFromUNIX converts an epoch count at the given resolution
// into a timestamp.
func TimestampFromUNIX(value any, unit string) (*Op, error) {
	return Build(timestampFromUNIXDef, value, unit)
}
