package domain

import (
	"errors"
	"testing"
	"time"
)

func TestCurrentQuarter_AllMonths(t *testing.T) {
	cases := []struct {
		month   time.Month
		year    int
		quarter int
		fiscal  int
	}{
		{time.January, 2026, 4, 2025},
		{time.February, 2025, 1, 2025},
		{time.March, 2025, 1, 2025},
		{time.April, 2025, 1, 2025},
		{time.May, 2025, 2, 2025},
		{time.June, 2025, 2, 2025},
		{time.July, 2025, 2, 2025},
		{time.August, 2025, 3, 2025},
		{time.September, 2025, 3, 2025},
		{time.October, 2025, 3, 2025},
		{time.November, 2025, 4, 2025},
		{time.December, 2025, 4, 2025},
	}
	for _, tc := range cases {
		w := CurrentQuarter(time.Date(tc.year, tc.month, 15, 12, 0, 0, 0, time.UTC))
		if w.Quarter != tc.quarter || w.FiscalYear != tc.fiscal {
			t.Errorf("%s %d: got Q%d FY%d, want Q%d FY%d",
				tc.month, tc.year, w.Quarter, w.FiscalYear, tc.quarter, tc.fiscal)
		}
		if !w.Contains(time.Date(tc.year, tc.month, 15, 12, 0, 0, 0, time.UTC)) {
			t.Errorf("%s %d: window does not contain its own date", tc.month, tc.year)
		}
	}
}

func TestCurrentQuarter_Q4Bounds(t *testing.T) {
	w := CurrentQuarter(time.Date(2025, time.November, 15, 0, 0, 0, 0, time.UTC))
	wantStart := time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, time.January, 31, 23, 59, 59, 0, time.UTC)
	if !w.Start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", w.Start, wantStart)
	}
	if !w.End.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", w.End, wantEnd)
	}
}

func TestCurrentQuarter_YearBoundary(t *testing.T) {
	// The last second of January still belongs to the prior fiscal year's
	// Q4; one second later Q1 of the new fiscal year begins.
	lastOfQ4 := time.Date(2026, time.January, 31, 23, 59, 59, 0, time.UTC)
	w := CurrentQuarter(lastOfQ4)
	if w.Quarter != 4 || w.FiscalYear != 2025 {
		t.Fatalf("Jan 31 23:59:59 resolved to Q%d FY%d", w.Quarter, w.FiscalYear)
	}
	if !w.Contains(lastOfQ4) {
		t.Errorf("end bound must be inclusive")
	}

	firstOfQ1 := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	w = CurrentQuarter(firstOfQ1)
	if w.Quarter != 1 || w.FiscalYear != 2026 {
		t.Fatalf("Feb 1 resolved to Q%d FY%d", w.Quarter, w.FiscalYear)
	}
}

func TestQuarterRange_AgreesWithCurrentQuarter(t *testing.T) {
	// A window resolved from a date and one resolved from the explicit
	// (quarter, year) pair must be identical.
	for month := time.January; month <= time.December; month++ {
		ts := time.Date(2025, month, 10, 8, 30, 0, 0, time.UTC)
		fromDate := CurrentQuarter(ts)
		fromPair, err := QuarterRange(fromDate.Quarter, fromDate.FiscalYear)
		if err != nil {
			t.Fatalf("%s: QuarterRange returned error: %v", month, err)
		}
		if fromDate != fromPair {
			t.Errorf("%s: date path %+v != pair path %+v", month, fromDate, fromPair)
		}
	}
}

func TestQuarterRange_InvalidQuarter(t *testing.T) {
	for _, q := range []int{0, 5, -1} {
		if _, err := QuarterRange(q, 2025); !errors.Is(err, ErrInvalidQuarter) {
			t.Errorf("quarter %d: expected ErrInvalidQuarter, got %v", q, err)
		}
	}
}

func TestQuarterWindow_Contains(t *testing.T) {
	w, err := QuarterRange(1, 2025)
	if err != nil {
		t.Fatalf("QuarterRange returned error: %v", err)
	}
	if !w.Contains(w.Start) {
		t.Errorf("start bound must be inclusive")
	}
	if !w.Contains(w.End) {
		t.Errorf("end bound must be inclusive")
	}
	if w.Contains(w.Start.Add(-time.Second)) {
		t.Errorf("second before start must be outside")
	}
	if w.Contains(w.End.Add(time.Second)) {
		t.Errorf("second after end must be outside")
	}
}

func TestDaysUntilQuarterEnd(t *testing.T) {
	cases := []struct {
		at   time.Time
		want int
	}{
		{time.Date(2025, time.April, 30, 9, 0, 0, 0, time.UTC), 0},
		{time.Date(2025, time.April, 16, 9, 0, 0, 0, time.UTC), 14},
		{time.Date(2026, time.January, 17, 23, 0, 0, 0, time.UTC), 14},
		{time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), 88},
	}
	for _, tc := range cases {
		if got := DaysUntilQuarterEnd(tc.at); got != tc.want {
			t.Errorf("DaysUntilQuarterEnd(%v) = %d, want %d", tc.at, got, tc.want)
		}
	}
}

func TestQuarterName(t *testing.T) {
	if got := QuarterName(4); got != "Q4 (Nov-Jan)" {
		t.Errorf("QuarterName(4) = %q", got)
	}
	if got := QuarterName(7); got != "Q7" {
		t.Errorf("QuarterName(7) = %q", got)
	}
}
