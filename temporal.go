package expr

import (
	"fmt"

	dt "github.com/hugr-lab/expr-go/datatypes"
	"github.com/hugr-lab/expr-go/ops"
)

// TemporalValue is the date, time, timestamp and interval view.
type TemporalValue struct{ view }

// Name returns a renamed copy.
func (t *TemporalValue) Name(name string) *TemporalValue {
	return &TemporalValue{t.renamed(name)}
}

// Year extracts the calendar year.
func (t *TemporalValue) Year() (*NumericValue, error) {
	return wrapNumeric(ops.ExtractYear(t.node))
}

// Quarter extracts the quarter of the year.
func (t *TemporalValue) Quarter() (*NumericValue, error) {
	return wrapNumeric(ops.ExtractQuarter(t.node))
}

// Month extracts the month of the year.
func (t *TemporalValue) Month() (*NumericValue, error) {
	return wrapNumeric(ops.ExtractMonth(t.node))
}

// WeekOfYear extracts the ISO week number.
func (t *TemporalValue) WeekOfYear() (*NumericValue, error) {
	return wrapNumeric(ops.ExtractWeekOfYear(t.node))
}

// Day extracts the day of the month.
func (t *TemporalValue) Day() (*NumericValue, error) {
	return wrapNumeric(ops.ExtractDay(t.node))
}

// DayOfYear extracts the day of the year.
func (t *TemporalValue) DayOfYear() (*NumericValue, error) {
	return wrapNumeric(ops.ExtractDayOfYear(t.node))
}

// DayOfWeekIndex yields the weekday as a number, Monday being zero.
func (t *TemporalValue) DayOfWeekIndex() (*NumericValue, error) {
	return wrapNumeric(ops.DayOfWeekIndex(t.node))
}

// DayOfWeekName yields the weekday name.
func (t *TemporalValue) DayOfWeekName() (*StringValue, error) {
	return wrapString(ops.DayOfWeekName(t.node))
}

// Hour extracts the hour of the day.
func (t *TemporalValue) Hour() (*NumericValue, error) {
	return wrapNumeric(ops.ExtractHour(t.node))
}

// Minute extracts the minute of the hour.
func (t *TemporalValue) Minute() (*NumericValue, error) {
	return wrapNumeric(ops.ExtractMinute(t.node))
}

// Second extracts the second of the minute.
func (t *TemporalValue) Second() (*NumericValue, error) {
	return wrapNumeric(ops.ExtractSecond(t.node))
}

// Millisecond extracts the millisecond of the second.
func (t *TemporalValue) Millisecond() (*NumericValue, error) {
	return wrapNumeric(ops.ExtractMillisecond(t.node))
}

// EpochSeconds yields seconds since the UNIX epoch.
func (t *TemporalValue) EpochSeconds() (*NumericValue, error) {
	return wrapNumeric(ops.ExtractEpochSeconds(t.node))
}

// Truncate zeroes the value below the given unit. Units follow the
// value kind: Y, Q, M, W, D for dates, plus h, m, s, ms, us for
// timestamps and times.
func (t *TemporalValue) Truncate(unit string) (*TemporalValue, error) {
	switch t.Type().Kind {
	case dt.KindDate:
		return wrapTemporal(ops.DateTruncate(t.node, unit))
	case dt.KindTimestamp:
		return wrapTemporal(ops.TimestampTruncate(t.node, unit))
	case dt.KindTime:
		return wrapTemporal(ops.TimeTruncate(t.node, unit))
	default:
		return nil, fmt.Errorf("%w: cannot truncate %s values", dt.ErrType, t.Type())
	}
}

// Add shifts the value forward by an interval.
func (t *TemporalValue) Add(amount any) (*TemporalValue, error) {
	switch t.Type().Kind {
	case dt.KindDate:
		return wrapTemporal(ops.DateAdd(t.node, amount))
	case dt.KindTimestamp:
		return wrapTemporal(ops.TimestampAdd(t.node, amount))
	case dt.KindTime:
		return wrapTemporal(ops.TimeAdd(t.node, amount))
	default:
		return nil, fmt.Errorf("%w: cannot shift %s values", dt.ErrType, t.Type())
	}
}

// Sub shifts the value backward by an interval.
func (t *TemporalValue) Sub(amount any) (*TemporalValue, error) {
	switch t.Type().Kind {
	case dt.KindDate:
		return wrapTemporal(ops.DateSub(t.node, amount))
	case dt.KindTimestamp:
		return wrapTemporal(ops.TimestampSub(t.node, amount))
	case dt.KindTime:
		return wrapTemporal(ops.TimeSub(t.node, amount))
	default:
		return nil, fmt.Errorf("%w: cannot shift %s values", dt.ErrType, t.Type())
	}
}

// Diff yields the interval between the value and other.
func (t *TemporalValue) Diff(other any) (*TemporalValue, error) {
	switch t.Type().Kind {
	case dt.KindDate:
		return wrapTemporal(ops.DateDiff(t.node, other))
	case dt.KindTimestamp:
		return wrapTemporal(ops.TimestampDiff(t.node, other))
	case dt.KindTime:
		return wrapTemporal(ops.TimeDiff(t.node, other))
	default:
		return nil, fmt.Errorf("%w: cannot diff %s values", dt.ErrType, t.Type())
	}
}

// Strftime formats the value with a strftime-style pattern.
func (t *TemporalValue) Strftime(format any) (*StringValue, error) {
	return wrapString(ops.Strftime(t.node, format))
}

// Date drops the time component of a timestamp.
func (t *TemporalValue) Date() (*TemporalValue, error) {
	return wrapTemporal(ops.DateFromTimestamp(t.node))
}
