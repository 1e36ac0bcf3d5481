package businessday

import (
	"fmt"
	"regexp"
	"strconv"
	"testing"
	"time"
)

func TestElapsedSinceCanonicalForms(t *testing.T) {
	cases := []struct {
		month, year, ref string
		want             string
	}{
		{"03", "2020", "2023-03-15", "3 years"},
		{"01", "2023", "2023-04-01", "3 months"},
		{"06", "2021", "2023-09-15", "2 years and 3 months"},
		{"05", "2022", "2023-06-01", "1 year and 1 month"},
		{"12", "2022", "2023-01-31", "1 month"},
		{"07", "2022", "2023-07-04", "1 year"},
		{"07", "2023", "2023-07-20", "0 months"},
	}
	for _, tc := range cases {
		got, err := ElapsedSince(tc.month, tc.year, tc.ref)
		if err != nil {
			t.Fatalf("ElapsedSince(%s, %s, %s): %v", tc.month, tc.year, tc.ref, err)
		}
		if got.String() != tc.want {
			t.Fatalf("ElapsedSince(%s, %s, %s) = %q, want %q", tc.month, tc.year, tc.ref, got, tc.want)
		}
	}
}

func TestElapsedSinceMatchesOneOfThreeForms(t *testing.T) {
	pattern := regexp.MustCompile(`^(\d+ months?|\d+ years?|\d+ years? and \d+ months?)$`)
	ref := "2024-02-29"
	for year := 2000; year <= 2024; year++ {
		for month := 1; month <= 12; month++ {
			if year == 2024 && month > 2 {
				break
			}
			got, err := ElapsedSince(fmt.Sprintf("%02d", month), strconv.Itoa(year), ref)
			if err != nil {
				t.Fatalf("ElapsedSince: %v", err)
			}
			if !pattern.MatchString(got.String()) {
				t.Fatalf("non-canonical form %q for %d-%02d", got, year, month)
			}
		}
	}
}

func TestElapsedSinceClampsNegativeSpan(t *testing.T) {
	got, err := ElapsedSince("10", "2024", "2023-01-01")
	if err != nil {
		t.Fatalf("ElapsedSince: %v", err)
	}
	if got.TotalMonths() != 0 || got.String() != "0 months" {
		t.Fatalf("expected clamp to 0 months, got %q", got)
	}
}

func TestElapsedSinceRejectsBadInput(t *testing.T) {
	for _, tc := range [][3]string{
		{"13", "2020", "2023-01-01"},
		{"00", "2020", "2023-01-01"},
		{"01", "twenty", "2023-01-01"},
		{"01", "2020", "01/02/2023"},
	} {
		if _, err := ElapsedSince(tc[0], tc[1], tc[2]); err == nil {
			t.Fatalf("expected error for %v", tc)
		}
	}
}

func TestAddBusinessDaysZeroIsIdentity(t *testing.T) {
	start := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC) // Saturday
	if got := AddBusinessDays(start, 0); !got.Equal(start) {
		t.Fatalf("AddBusinessDays(d, 0) = %v, want %v", got, start)
	}
}

func TestAddBusinessDaysSkipsWeekends(t *testing.T) {
	friday := time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC)
	got := AddBusinessDays(friday, 1)
	want := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Friday + 1 business day = %v, want %v", got, want)
	}
}

func TestAddBusinessDaysProperties(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	for offset := 0; offset < 14; offset++ {
		start := base.AddDate(0, 0, offset)
		for n := 0; n <= 25; n++ {
			end := AddBusinessDays(start, n)
			if n > 0 && !IsBusinessDay(end) {
				t.Fatalf("AddBusinessDays(%s, %d) landed on %s", start.Weekday(), n, end.Weekday())
			}
			if got := BusinessDaysUntil(start, end); got != n {
				t.Fatalf("business days between %s and %s = %d, want %d", start, end, got, n)
			}
		}
	}
}

func TestBusinessDaysUntilPastDeadline(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	if got := BusinessDaysUntil(now, now.Add(-time.Hour)); got != 0 {
		t.Fatalf("expected 0 for past deadline, got %d", got)
	}
	if got := BusinessDaysUntil(now, now); got != 0 {
		t.Fatalf("expected 0 for deadline == now, got %d", got)
	}
}

func TestRemainingTimeAtSendEqualsDeadline(t *testing.T) {
	sent := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC) // Wednesday
	cd := RemainingTime(5, sent, false, sent)
	if cd.Expired {
		t.Fatalf("countdown should not be expired at send time")
	}
	if cd.BusinessDays != 5 {
		t.Fatalf("business days = %d, want 5", cd.BusinessDays)
	}
	wantDeadline := time.Date(2024, 5, 22, 12, 0, 0, 0, time.UTC)
	if !cd.Deadline.Equal(wantDeadline) {
		t.Fatalf("deadline = %v, want %v", cd.Deadline, wantDeadline)
	}
	if cd.Days != 7 || cd.Hours != 0 || cd.Minutes != 0 || cd.Seconds != 0 {
		t.Fatalf("unexpected breakdown %+v", cd)
	}
}

func TestRemainingTimeAccuracyChallengeAddsFiveDays(t *testing.T) {
	sent := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	cd := RemainingTime(5, sent, true, sent)
	if cd.BusinessDays != 10 {
		t.Fatalf("business days = %d, want 10", cd.BusinessDays)
	}
}

func TestRemainingTimeExpired(t *testing.T) {
	sent := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	now := sent.AddDate(0, 0, 30)
	cd := RemainingTime(5, sent, false, now)
	if !cd.Expired {
		t.Fatalf("expected expired countdown, got %+v", cd)
	}
	if cd.BusinessDays != 0 || cd.Days != 0 {
		t.Fatalf("expired countdown should carry no remaining time: %+v", cd)
	}
}

func TestRemainingTimeBreakdown(t *testing.T) {
	sent := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	now := sent.Add(26*time.Hour + 3*time.Minute + 4*time.Second)
	cd := RemainingTime(5, sent, false, now)
	// deadline is 2024-05-22 12:00; 5d 21h 56m 56s remain.
	if cd.Days != 5 || cd.Hours != 21 || cd.Minutes != 56 || cd.Seconds != 56 {
		t.Fatalf("unexpected breakdown %+v", cd)
	}
	if cd.BusinessDays != 4 {
		t.Fatalf("business days = %d, want 4", cd.BusinessDays)
	}
}
