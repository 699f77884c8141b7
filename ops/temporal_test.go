package ops

import (
	"errors"
	"testing"

	dt "github.com/hugr-lab/expr-go/datatypes"
)

func TestTemporalExtracts(t *testing.T) {
	tbl := testTable(t)
	born := column(t, tbl, "born")
	seen := column(t, tbl, "seen")

	for _, build := range []func(any) (*Op, error){ExtractYear, ExtractQuarter, ExtractMonth, ExtractWeekOfYear, ExtractDay, ExtractDayOfYear} {
		op := mustOp(t)(build(born))
		if !op.Type().Equals(dt.Int32) || op.Shape() != ShapeColumn {
			t.Fatalf("%s contract = %s %s", op.Kind(), op.Type(), op.Shape())
		}
	}
	for _, build := range []func(any) (*Op, error){ExtractHour, ExtractMinute, ExtractSecond, ExtractMillisecond} {
		op := mustOp(t)(build(seen))
		if !op.Type().Equals(dt.Int32) {
			t.Fatalf("%s type = %s", op.Kind(), op.Type())
		}
	}

	op := mustOp(t)(ExtractEpochSeconds(seen))
	if !op.Type().Equals(dt.Int64) {
		t.Fatalf("epoch type = %s", op.Type())
	}
	op = mustOp(t)(DayOfWeekIndex(born))
	if !op.Type().Equals(dt.Int16) {
		t.Fatalf("weekday index type = %s", op.Type())
	}
	op = mustOp(t)(DayOfWeekName(born))
	if !op.Type().Equals(dt.String) {
		t.Fatalf("weekday type = %s", op.Type())
	}

	// Time-of-day components cannot be read off a bare date.
	if _, err := ExtractHour(born); !errors.Is(err, dt.ErrType) {
		t.Fatalf("hour of date must fail, got %v", err)
	}
}

func TestTruncate(t *testing.T) {
	tbl := testTable(t)
	born := column(t, tbl, "born")
	seen := column(t, tbl, "seen")

	op := mustOp(t)(DateTruncate(born, "M"))
	if !op.Type().Equals(dt.Date) {
		t.Fatalf("date truncate type = %s", op.Type())
	}

	// The timezone survives truncation.
	op = mustOp(t)(TimestampTruncate(seen, "h"))
	if !op.Type().Equals(dt.TimestampWithZone("UTC")) {
		t.Fatalf("timestamp truncate type = %s", op.Type())
	}

	if _, err := DateTruncate(born, "h"); !errors.Is(err, dt.ErrInput) {
		t.Fatalf("sub-day unit on date must fail, got %v", err)
	}
	var member *MemberError
	_, err := TimestampTruncate(seen, "fortnight")
	if !errors.As(err, &member) {
		t.Fatalf("unknown unit detail = %v", err)
	}
}

func TestTemporalArithmetic(t *testing.T) {
	tbl := testTable(t)
	born := column(t, tbl, "born")
	seen := column(t, tbl, "seen")

	days, err := NewLiteral(int64(7), dt.Interval(dt.UnitDay))
	if err != nil {
		t.Fatalf("interval literal: %v", err)
	}

	op := mustOp(t)(DateAdd(born, days))
	if !op.Type().Equals(dt.Date) {
		t.Fatalf("date add type = %s", op.Type())
	}
	op = mustOp(t)(TimestampAdd(seen, days))
	if !op.Type().Equals(dt.TimestampWithZone("UTC")) {
		t.Fatalf("timestamp add type = %s", op.Type())
	}
	op = mustOp(t)(DateDiff(born, born))
	if !op.Type().Equals(dt.Interval(dt.UnitDay)) {
		t.Fatalf("date diff type = %s", op.Type())
	}
	op = mustOp(t)(TimestampDiff(seen, seen))
	if !op.Type().Equals(dt.Interval(dt.UnitSecond)) {
		t.Fatalf("timestamp diff type = %s", op.Type())
	}

	if _, err := DateAdd(born, int64(7)); !errors.Is(err, dt.ErrType) {
		t.Fatalf("bare integer shift must fail, got %v", err)
	}
	if _, err := DateDiff(born, seen); !errors.Is(err, dt.ErrType) {
		t.Fatalf("date and timestamp diff must fail, got %v", err)
	}
}

func TestStrftime(t *testing.T) {
	tbl := testTable(t)
	op := mustOp(t)(Strftime(column(t, tbl, "seen"), "%Y-%m-%d"))
	if !op.Type().Equals(dt.String) {
		t.Fatalf("type = %s", op.Type())
	}
}

func TestDateFromTimestamp(t *testing.T) {
	tbl := testTable(t)
	op := mustOp(t)(DateFromTimestamp(column(t, tbl, "seen")))
	if !op.Type().Equals(dt.Date) {
		t.Fatalf("type = %s", op.Type())
	}
}

func TestTimestampNow(t *testing.T) {
	op := mustOp(t)(TimestampNow())
	if !op.Type().Equals(dt.TimestampWithZone("UTC")) || op.Shape() != ShapeScalar {
		t.Fatalf("contract = %s %s", op.Type(), op.Shape())
	}
}

func TestTimestampFromUNIX(t *testing.T) {
	tbl := testTable(t)
	op := mustOp(t)(TimestampFromUNIX(column(t, tbl, "id"), "ms"))
	if !op.Type().Equals(dt.Timestamp) {
		t.Fatalf("type = %s", op.Type())
	}
	if _, err := TimestampFromUNIX(column(t, tbl, "id"), "ns"); !errors.Is(err, dt.ErrInput) {
		t.Fatalf("unsupported unit must fail, got %v", err)
	}
}
