package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kingrea/fair-chance/internal/businessday"
)

const (
	// MinConvictionYear is the earliest accepted conviction year.
	MinConvictionYear = 1900
	// MinResponseDays is the shortest response window a notice may offer.
	MinResponseDays = 5
	// MaxListSlots bounds the convictions and submitted information lists.
	MaxListSlots = 3
)

// FieldError describes one invalid field, keyed by its JSON path.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects field errors. A nil value means valid.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Error())
	}
	return "record: invalid " + strings.Join(parts, "; ")
}

// For returns the message recorded for field, if any.
func (v ValidationErrors) For(field string) string {
	for _, fe := range v {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Add appends a field error.
func (v *ValidationErrors) Add(field, format string, args ...any) {
	*v = append(*v, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Err returns nil when no errors were collected.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// CheckConvictionMonth accepts "01" through "12".
func CheckConvictionMonth(month string) error {
	if len(month) != 2 {
		return fmt.Errorf("must be a two-digit month")
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return fmt.Errorf("must be between 01 and 12")
	}
	return nil
}

// CheckConvictionYear accepts four-digit years from 1900 through now's year.
func CheckConvictionYear(year string, now time.Time) error {
	y, err := strconv.Atoi(year)
	if err != nil || len(year) != 4 {
		return fmt.Errorf("must be a four-digit year")
	}
	if y < MinConvictionYear || y > now.Year() {
		return fmt.Errorf("must be between %d and %d", MinConvictionYear, now.Year())
	}
	return nil
}

// Validate checks the shape of every present field. Missing fields are never
// an error; the record is a partial projection.
func (r CaseRecord) Validate(now time.Time) error {
	var errs ValidationErrors

	dates := []struct{ field, value string }{
		{"dateConditionalOffer", r.DateConditionalOffer},
		{"dateAssessment", r.DateAssessment},
		{"dateCriminalHistory", r.DateCriminalHistory},
		{"dateReassessment", r.DateReassessment},
		{"dateOfNotice", r.DateOfNotice},
		{"preliminaryNotice.date", r.PreliminaryNotice.Date},
		{"finalNotice.date", r.FinalNotice.Date},
		{"finalNotice.dateOfNotice", r.FinalNotice.DateOfNotice},
	}
	for _, d := range dates {
		if d.value == "" {
			continue
		}
		if _, err := businessday.ParseDate(d.value); err != nil {
			errs.Add(d.field, "must be a YYYY-MM-DD date")
		}
	}

	if r.ConvictionMonth != "" {
		if err := CheckConvictionMonth(r.ConvictionMonth); err != nil {
			errs.Add("convictionMonth", "%v", err)
		}
	}
	if r.ConvictionYear != "" {
		if err := CheckConvictionYear(r.ConvictionYear, now); err != nil {
			errs.Add("convictionYear", "%v", err)
		}
	}

	for _, cat := range ActivityCategories {
		answer := r.Activities.Field(cat.Key).Answer
		if answer != "" && !answer.Valid() {
			errs.Add("activities."+cat.Key, "unknown answer %q", answer)
		}
	}
	if r.Decision != "" && !r.Decision.Valid() {
		errs.Add("decision", "unknown decision %q", r.Decision)
	}

	pn := r.PreliminaryNotice
	if pn.ResponseDeadline != 0 && pn.ResponseDeadline < MinResponseDays {
		errs.Add("preliminaryNotice.responseDeadline", "must be at least %d business days", MinResponseDays)
	}
	if len(pn.Convictions) > MaxListSlots {
		errs.Add("preliminaryNotice.convictions", "at most %d entries", MaxListSlots)
	}
	checkInstant(&errs, "preliminaryNotice.sentAt", pn.SentAt)

	ra := r.Reassessment
	checkYesNo(&errs, "reassessment.hasError", ra.HasError)
	for _, cat := range EvidenceCategories {
		checkYesNo(&errs, "reassessment.evidence."+cat.Key, ra.Evidence.Field(cat.Key).Answer)
	}
	if ra.Decision != "" && !ra.Decision.Valid() {
		errs.Add("reassessment.decision", "unknown decision %q", ra.Decision)
	}

	fn := r.FinalNotice
	checkYesNo(&errs, "finalNotice.receivedResponse", fn.ReceivedResponse)
	checkYesNo(&errs, "finalNotice.hasError", fn.HasError)
	checkYesNo(&errs, "finalNotice.allowsReconsideration", fn.AllowsReconsideration)
	if len(fn.SubmittedInformation) > MaxListSlots {
		errs.Add("finalNotice.submittedInformation", "at most %d entries", MaxListSlots)
	}
	if len(fn.Convictions) > MaxListSlots {
		errs.Add("finalNotice.convictions", "at most %d entries", MaxListSlots)
	}
	checkInstant(&errs, "finalNotice.sentAt", fn.SentAt)

	return errs.Err()
}

func checkYesNo(errs *ValidationErrors, field string, value YesNo) {
	if value != "" && !value.Valid() {
		errs.Add(field, "must be yes or no, got %q", value)
	}
}

func checkInstant(errs *ValidationErrors, field, value string) {
	if value == "" {
		return
	}
	if _, err := time.Parse(time.RFC3339, value); err != nil {
		errs.Add(field, "must be an RFC 3339 timestamp")
	}
}
