package domain

import (
	"fmt"
	"time"
)

// QuarterWindow is a derived value, never persisted: the fiscal quarter a
// date falls in together with its inclusive bounds. The fiscal calendar is
// February-anchored:
//
//	Q1: Feb 1 – Apr 30
//	Q2: May 1 – Jul 31
//	Q3: Aug 1 – Oct 31
//	Q4: Nov 1 – Jan 31 (spans the calendar-year boundary)
//
// A January date belongs to Q4 of the prior fiscal year: Jan 2026 is
// Q4 FY2025, with bounds Nov 1 2025 – Jan 31 2026 23:59:59. All bounds
// are UTC and End is inclusive through 23:59:59 of the last day.
type QuarterWindow struct {
	Quarter    int       `json:"quarter"`
	FiscalYear int       `json:"fiscal_year"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

// Contains reports whether t falls inside the window, bounds inclusive.
func (w QuarterWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Name returns the display name of the window's quarter, e.g. "Q4 (Nov-Jan)".
func (w QuarterWindow) Name() string {
	return QuarterName(w.Quarter)
}

// CurrentQuarter resolves the fiscal quarter containing t. Total over all
// valid dates; no error path.
func CurrentQuarter(t time.Time) QuarterWindow {
	t = t.UTC()
	year := t.Year()

	switch m := t.Month(); {
	case m >= time.February && m <= time.April:
		return quarterWindow(1, year)
	case m >= time.May && m <= time.July:
		return quarterWindow(2, year)
	case m >= time.August && m <= time.October:
		return quarterWindow(3, year)
	case m == time.January:
		// January closes the previous fiscal year's Q4.
		return quarterWindow(4, year-1)
	default: // November, December
		return quarterWindow(4, year)
	}
}

// QuarterRange returns the window for an explicit (quarter, fiscalYear)
// pair, e.g. from a filter UI. It shares the bound computation with
// CurrentQuarter so the two paths cannot diverge.
func QuarterRange(quarter, fiscalYear int) (QuarterWindow, error) {
	if quarter < 1 || quarter > 4 {
		return QuarterWindow{}, fmt.Errorf("%w: got %d", ErrInvalidQuarter, quarter)
	}
	return quarterWindow(quarter, fiscalYear), nil
}

func quarterWindow(quarter, fiscalYear int) QuarterWindow {
	var start, end time.Time
	switch quarter {
	case 1:
		start = date(fiscalYear, time.February, 1)
		end = endOfDay(fiscalYear, time.April, 30)
	case 2:
		start = date(fiscalYear, time.May, 1)
		end = endOfDay(fiscalYear, time.July, 31)
	case 3:
		start = date(fiscalYear, time.August, 1)
		end = endOfDay(fiscalYear, time.October, 31)
	default:
		start = date(fiscalYear, time.November, 1)
		end = endOfDay(fiscalYear+1, time.January, 31)
	}
	return QuarterWindow{Quarter: quarter, FiscalYear: fiscalYear, Start: start, End: end}
}

// QuarterName returns the human-readable label for a quarter index.
func QuarterName(quarter int) string {
	switch quarter {
	case 1:
		return "Q1 (Feb-Apr)"
	case 2:
		return "Q2 (May-Jul)"
	case 3:
		return "Q3 (Aug-Oct)"
	case 4:
		return "Q4 (Nov-Jan)"
	}
	return fmt.Sprintf("Q%d", quarter)
}

// DaysUntilQuarterEnd returns whole days from t's date to the last day of
// the quarter containing t. Used by the quarter-end reminder job, which
// fires when exactly 14 days remain.
func DaysUntilQuarterEnd(t time.Time) int {
	w := CurrentQuarter(t)
	t = t.UTC()
	today := date(t.Year(), t.Month(), t.Day())
	lastDay := date(w.End.Year(), w.End.Month(), w.End.Day())
	return int(lastDay.Sub(today).Hours() / 24)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func endOfDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 23, 59, 59, 0, time.UTC)
}
