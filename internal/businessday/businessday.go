// Package businessday holds the date arithmetic behind the fair-chance
// notices: elapsed time since a conviction and the business-day response
// window a candidate gets after a preliminary notice.
//
// Business days are Monday through Friday. There is no holiday calendar.
package businessday

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used throughout the case record.
const DateLayout = "2006-01-02"

// AccuracyChallengeExtension is the number of extra business days granted when
// the candidate challenges the accuracy of the conviction history report.
const AccuracyChallengeExtension = 5

// Duration is a whole-month span split into years and months.
type Duration struct {
	Years  int
	Months int
}

// TotalMonths returns the span expressed in months.
func (d Duration) TotalMonths() int {
	return d.Years*12 + d.Months
}

// String renders one of the three canonical forms: "N month(s)",
// "N year(s)" or "Y year(s) and M month(s)".
func (d Duration) String() string {
	switch {
	case d.Years == 0:
		return plural(d.Months, "month")
	case d.Months == 0:
		return plural(d.Years, "year")
	default:
		return plural(d.Years, "year") + " and " + plural(d.Months, "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// ParseDate parses an ISO calendar date in UTC.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("businessday: parse date %q: %w", value, err)
	}
	return t, nil
}

// ElapsedSince returns the whole months between the first day of the
// conviction month and the month of referenceISO. A reference date before
// the conviction clamps to zero.
func ElapsedSince(month, year, referenceISO string) (Duration, error) {
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil || m < 1 || m > 12 {
		return Duration{}, fmt.Errorf("businessday: invalid conviction month %q", month)
	}
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return Duration{}, fmt.Errorf("businessday: invalid conviction year %q", year)
	}
	ref, err := ParseDate(referenceISO)
	if err != nil {
		return Duration{}, err
	}
	total := (ref.Year()-y)*12 + int(ref.Month()) - m
	if total < 0 {
		total = 0
	}
	return Duration{Years: total / 12, Months: total % 12}, nil
}

// IsBusinessDay reports whether t falls on Monday through Friday.
func IsBusinessDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// AddBusinessDays advances start one calendar day at a time until n business
// days have been counted. The time of day is preserved; n <= 0 returns start.
func AddBusinessDays(start time.Time, n int) time.Time {
	result := start
	for added := 0; added < n; {
		result = result.AddDate(0, 0, 1)
		if IsBusinessDay(result) {
			added++
		}
	}
	return result
}

// BusinessDaysUntil counts the business dates after now's date up to and
// including end's date. It returns 0 when end is not after now.
func BusinessDaysUntil(now, end time.Time) int {
	if !end.After(now) {
		return 0
	}
	end = end.In(now.Location())
	last := civilDate(end)
	count := 0
	for day := civilDate(now).AddDate(0, 0, 1); !day.After(last); day = day.AddDate(0, 0, 1) {
		if IsBusinessDay(day) {
			count++
		}
	}
	return count
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Countdown is one evaluation of the candidate's response window.
type Countdown struct {
	Deadline     time.Time
	Expired      bool
	Days         int
	Hours        int
	Minutes      int
	Seconds      int
	BusinessDays int
}

// RemainingTime evaluates the response window that started at start. The
// window is deadlineDays business days, extended when the accuracy of the
// report was challenged.
func RemainingTime(deadlineDays int, start time.Time, accuracyChallenged bool, now time.Time) Countdown {
	total := deadlineDays
	if accuracyChallenged {
		total += AccuracyChallengeExtension
	}
	end := AddBusinessDays(start, total)
	left := end.Sub(now)
	if left <= 0 {
		return Countdown{Deadline: end, Expired: true}
	}
	return Countdown{
		Deadline:     end,
		Days:         int(left / (24 * time.Hour)),
		Hours:        int(left/time.Hour) % 24,
		Minutes:      int(left/time.Minute) % 60,
		Seconds:      int(left/time.Second) % 60,
		BusinessDays: BusinessDaysUntil(now, end),
	}
}
