package repository

import (
	"testing"
	"time"
)

func TestDayInBucketsOnLocalCalendarDate(t *testing.T) {
	nairobi := time.FixedZone("EAT", 3*3600)

	// 22:30 UTC is already the next day in UTC+3.
	ts := time.Date(2026, 8, 31, 22, 30, 0, 0, time.UTC)
	day := DayIn(ts, nairobi)

	want := time.Date(2026, 9, 1, 0, 0, 0, 0, nairobi)
	if !day.Equal(want) {
		t.Fatalf("got %v, want %v", day, want)
	}
	if utc := ts.Truncate(24 * time.Hour); day.Equal(utc) {
		t.Fatalf("bucket must follow the configured zone, not UTC midnight")
	}
}

func TestDayInIsIdempotent(t *testing.T) {
	ny := time.FixedZone("EST", -5*3600)
	ts := time.Date(2026, 1, 1, 2, 0, 0, 0, time.UTC) // Dec 31 21:00 in UTC-5

	day := DayIn(ts, ny)
	if got := DayIn(day, ny); !got.Equal(day) {
		t.Fatalf("re-bucketing moved the date: %v vs %v", got, day)
	}
	if day.Day() != 31 || day.Month() != time.December {
		t.Fatalf("got %v, want Dec 31 local", day)
	}
}
