package flow

import (
	"fmt"
	"strings"
	"time"

	"github.com/kingrea/fair-chance/internal/businessday"
	"github.com/kingrea/fair-chance/internal/record"
)

const (
	// DutySlots is the number of job duty inputs on the assessment form.
	DutySlots = 4
	// ListSlots is the number of conviction and submitted-information inputs.
	ListSlots = record.MaxListSlots
)

// Form is the stage payload held by a State. Exactly one form is active.
type Form interface {
	Stage() Stage
	// Overlay returns the record fields this form owns.
	Overlay() record.CaseRecord
	// Validate returns record.ValidationErrors keyed by form field.
	Validate(now time.Time) error
}

// AssessmentForm collects the individual assessment.
type AssessmentForm struct {
	EmployerName         string
	ApplicantName        string
	PositionApplied      string
	AssessmentPerformer  string
	DateConditionalOffer string
	DateAssessment       string
	DateCriminalHistory  string
	ConvictionMonth      string
	ConvictionYear       string
	JobDuties            []string
	CriminalConduct      string
	Activities           record.ActivityRecord
	Decision             record.Decision
	RescindReason        string
	StoreAssessment      bool
}

func (AssessmentForm) Stage() Stage { return StageAssessment }

func (f AssessmentForm) Overlay() record.CaseRecord {
	store := f.StoreAssessment
	return record.CaseRecord{
		EmployerName:         f.EmployerName,
		ApplicantName:        f.ApplicantName,
		PositionApplied:      f.PositionApplied,
		AssessmentPerformer:  f.AssessmentPerformer,
		DateConditionalOffer: f.DateConditionalOffer,
		DateAssessment:       f.DateAssessment,
		DateCriminalHistory:  f.DateCriminalHistory,
		ConvictionMonth:      f.ConvictionMonth,
		ConvictionYear:       f.ConvictionYear,
		JobDuties:            cloneSlots(f.JobDuties),
		CriminalConduct:      f.CriminalConduct,
		Activities:           f.Activities,
		Decision:             f.Decision,
		RescindReason:        f.RescindReason,
		StoreAssessment:      &store,
	}
}

func (f AssessmentForm) Validate(now time.Time) error {
	var errs record.ValidationErrors
	required(&errs, "employerName", f.EmployerName, "Employer name is required")
	required(&errs, "applicantName", f.ApplicantName, "Applicant name is required")
	required(&errs, "positionApplied", f.PositionApplied, "Position is required")
	requiredDate(&errs, "dateConditionalOffer", f.DateConditionalOffer, "Conditional offer date is required")
	requiredDate(&errs, "dateAssessment", f.DateAssessment, "Assessment date is required")
	requiredDate(&errs, "dateCriminalHistory", f.DateCriminalHistory, "Criminal history date is required")
	required(&errs, "assessmentPerformer", f.AssessmentPerformer, "Assessment performer is required")
	required(&errs, "criminalConduct", f.CriminalConduct, "Criminal conduct description is required")
	if err := record.CheckConvictionMonth(f.ConvictionMonth); err != nil {
		errs.Add("convictionMonth", "Conviction month %v", err)
	}
	if err := record.CheckConvictionYear(f.ConvictionYear, now); err != nil {
		errs.Add("convictionYear", "Conviction year %v", err)
	}
	activities := f.Activities
	for _, cat := range record.ActivityCategories {
		if !activities.Field(cat.Key).Answer.Valid() {
			errs.Add("activities."+cat.Key, "Please select an answer for %s", strings.ToLower(cat.Label))
		}
	}
	decision(&errs, "decision", f.Decision, f.RescindReason)
	return errs.Err()
}

// NewAssessmentForm fills the form from the stored record, falling back to
// configured defaults and the current month and year.
func NewAssessmentForm(rec record.CaseRecord, d Defaults, now time.Time) AssessmentForm {
	f := AssessmentForm{
		EmployerName:         first(rec.EmployerName, d.EmployerName),
		ApplicantName:        rec.ApplicantName,
		PositionApplied:      rec.PositionApplied,
		AssessmentPerformer:  first(rec.AssessmentPerformer, d.AssessmentPerformer),
		DateConditionalOffer: rec.DateConditionalOffer,
		DateAssessment:       first(rec.DateAssessment, now.Format(businessday.DateLayout)),
		DateCriminalHistory:  rec.DateCriminalHistory,
		ConvictionMonth:      first(rec.ConvictionMonth, fmt.Sprintf("%02d", int(now.Month()))),
		ConvictionYear:       first(rec.ConvictionYear, fmt.Sprintf("%04d", now.Year())),
		JobDuties:            record.Slots(rec.JobDuties, max(DutySlots, len(rec.JobDuties))),
		CriminalConduct:      rec.CriminalConduct,
		Activities:           rec.Activities,
		Decision:             rec.Decision,
		RescindReason:        rec.RescindReason,
	}
	if rec.StoreAssessment != nil {
		f.StoreAssessment = *rec.StoreAssessment
	}
	return f
}

// PreliminaryForm edits the preliminary revocation notice.
type PreliminaryForm struct {
	Notice record.PreliminaryNotice
}

func (PreliminaryForm) Stage() Stage { return StagePreliminaryNotice }

func (f PreliminaryForm) Overlay() record.CaseRecord {
	n := f.Notice
	n.Convictions = cloneSlots(n.Convictions)
	n.JobDuties = cloneSlots(n.JobDuties)
	return record.CaseRecord{PreliminaryNotice: n}
}

func (f PreliminaryForm) Validate(time.Time) error {
	var errs record.ValidationErrors
	n := f.Notice
	optionalDate(&errs, "date", n.Date)
	if n.ResponseDeadline < record.MinResponseDays {
		errs.Add("responseDeadline", "Response deadline must be at least %d business days", record.MinResponseDays)
	}
	email := strings.TrimSpace(n.ResponseEmail)
	switch {
	case email == "":
		errs.Add("responseEmail", "Response email is required")
	case !strings.Contains(email, "@"):
		errs.Add("responseEmail", "Response email must be an email address")
	}
	if len(n.Convictions) > ListSlots {
		errs.Add("convictions", "At most %d convictions", ListSlots)
	}
	return errs.Err()
}

// NewPreliminaryForm seeds the notice from the case record. Values derived
// from the assessment win over a previously committed notice.
func NewPreliminaryForm(rec record.CaseRecord, d Defaults, now time.Time) PreliminaryForm {
	derived := record.PreliminaryNotice{
		ApplicantName:           rec.ApplicantName,
		Position:                rec.PositionApplied,
		JobDuties:               rec.JobDuties,
		EmployerName:            rec.AssessmentPerformer,
		EmployerCompany:         rec.EmployerName,
		ConductSeriousness:      rec.CriminalConduct,
		TimeElapsedSinceConduct: ElapsedSinceConviction(rec, rec.DateConditionalOffer),
		ReasoningForRevocation:  rec.RescindReason,
	}
	n := record.Merge(
		record.CaseRecord{PreliminaryNotice: rec.PreliminaryNotice},
		record.CaseRecord{PreliminaryNotice: derived},
	).PreliminaryNotice
	if n.Date == "" {
		n.Date = now.Format(businessday.DateLayout)
	}
	if n.ResponseDeadline == 0 {
		n.ResponseDeadline = d.responseDays()
	}
	n.Convictions = record.Slots(n.Convictions, ListSlots)
	n.JobDuties = record.Slots(n.JobDuties, max(DutySlots, len(n.JobDuties)))
	return PreliminaryForm{Notice: n}
}

// ReassessmentForm collects findings after the candidate responded.
type ReassessmentForm struct {
	EmployerName         string
	ApplicantName        string
	PositionApplied      string
	DateConditionalOffer string
	DateCriminalHistory  string
	AssessmentPerformer  string
	DateReassessment     string
	Findings             record.Reassessment
}

func (ReassessmentForm) Stage() Stage { return StageReassessment }

func (f ReassessmentForm) Overlay() record.CaseRecord {
	return record.CaseRecord{
		EmployerName:         f.EmployerName,
		ApplicantName:        f.ApplicantName,
		PositionApplied:      f.PositionApplied,
		DateConditionalOffer: f.DateConditionalOffer,
		DateCriminalHistory:  f.DateCriminalHistory,
		AssessmentPerformer:  f.AssessmentPerformer,
		DateReassessment:     f.DateReassessment,
		Reassessment:         f.Findings,
	}
}

func (f ReassessmentForm) Validate(time.Time) error {
	var errs record.ValidationErrors
	requiredDate(&errs, "dateReassessment", f.DateReassessment, "Reassessment date is required")
	optionalDate(&errs, "dateConditionalOffer", f.DateConditionalOffer)
	optionalDate(&errs, "dateCriminalHistory", f.DateCriminalHistory)
	r := f.Findings
	yesNo(&errs, "hasError", r.HasError, "Please indicate whether the report contains an error")
	if r.HasError == record.Yes && strings.TrimSpace(r.ErrorDescription) == "" {
		errs.Add("errorDescription", "Please describe the error")
	}
	for _, cat := range record.EvidenceCategories {
		yesNo(&errs, "evidence."+cat.Key, r.Evidence.Field(cat.Key).Answer, "Please answer "+strings.ToLower(cat.Label))
	}
	decision(&errs, "decision", r.Decision, r.RescindReason)
	return errs.Err()
}

// NewReassessmentForm seeds identity fields from the record, dates the
// reassessment today and defaults every evidence answer to no.
func NewReassessmentForm(rec record.CaseRecord, now time.Time) ReassessmentForm {
	findings := rec.Reassessment
	for _, cat := range record.EvidenceCategories {
		if ev := findings.Evidence.Field(cat.Key); ev.Answer == "" {
			ev.Answer = record.No
		}
	}
	return ReassessmentForm{
		EmployerName:         rec.EmployerName,
		ApplicantName:        rec.ApplicantName,
		PositionApplied:      rec.PositionApplied,
		DateConditionalOffer: rec.DateConditionalOffer,
		DateCriminalHistory:  rec.DateCriminalHistory,
		AssessmentPerformer:  rec.AssessmentPerformer,
		DateReassessment:     now.Format(businessday.DateLayout),
		Findings:             findings,
	}
}

// FinalForm edits the final revocation notice.
type FinalForm struct {
	Notice record.FinalNotice
}

func (FinalForm) Stage() Stage { return StageFinalNotice }

func (f FinalForm) Overlay() record.CaseRecord {
	n := f.Notice
	n.SubmittedInformation = cloneSlots(n.SubmittedInformation)
	n.Convictions = cloneSlots(n.Convictions)
	n.JobDuties = cloneSlots(n.JobDuties)
	return record.CaseRecord{
		EmployerAddress: n.EmployerAddress,
		EmployerPhone:   n.EmployerPhone,
		FinalNotice:     n,
	}
}

func (f FinalForm) Validate(time.Time) error {
	var errs record.ValidationErrors
	n := f.Notice
	optionalDate(&errs, "date", n.Date)
	optionalDate(&errs, "dateOfNotice", n.DateOfNotice)
	yesNo(&errs, "receivedResponse", n.ReceivedResponse, "Please indicate whether a response was received")
	yesNo(&errs, "hasError", n.HasError, "Please indicate whether the report contains an error")
	yesNo(&errs, "allowsReconsideration", n.AllowsReconsideration, "Please indicate whether reconsideration is offered")
	if n.AllowsReconsideration == record.Yes && strings.TrimSpace(n.ReconsiderationProcedure) == "" {
		errs.Add("reconsiderationProcedure", "Please describe how to request reconsideration")
	}
	if len(record.FilterBlank(n.Convictions)) == 0 {
		errs.Add("convictions", "List at least one conviction")
	}
	if len(n.Convictions) > ListSlots {
		errs.Add("convictions", "At most %d convictions", ListSlots)
	}
	if len(n.SubmittedInformation) > ListSlots {
		errs.Add("submittedInformation", "At most %d items", ListSlots)
	}
	return errs.Err()
}

// NewFinalForm seeds the final notice from the reassessment outcome. Values
// carried forward from earlier stages win over a previously saved draft.
func NewFinalForm(rec record.CaseRecord, d Defaults, now time.Time) FinalForm {
	derived := record.FinalNotice{
		ApplicantName:           rec.ApplicantName,
		DateOfNotice:            rec.DateReassessment,
		Position:                rec.PositionApplied,
		EmployerName:            rec.AssessmentPerformer,
		EmployerCompany:         rec.EmployerName,
		TimeElapsedSinceConduct: first(rec.PreliminaryNotice.TimeElapsedSinceConduct, ElapsedSinceConviction(rec, rec.DateConditionalOffer)),
		JobDuties:               rec.JobDuties,
		ConductSeriousness:      rec.CriminalConduct,
		ReasoningForRevocation:  rec.Reassessment.RescindReason,
	}
	n := record.MergeFinal(rec.FinalNotice, derived)
	if n.Date == "" {
		n.Date = now.Format(businessday.DateLayout)
	}
	if n.ReceivedResponse == "" {
		n.ReceivedResponse = record.No
	}
	if n.HasError == "" {
		n.HasError = record.No
	}
	if n.TimeElapsedSinceRelease == "" {
		n.TimeElapsedSinceRelease = rec.PreliminaryNotice.TimeElapsedSinceRelease
	}
	if len(record.FilterBlank(n.Convictions)) == 0 {
		n.Convictions = rec.PreliminaryNotice.Convictions
	}
	n.EmployerAddress = first(n.EmployerAddress, rec.EmployerAddress, d.EmployerAddress)
	n.EmployerPhone = first(n.EmployerPhone, rec.EmployerPhone, d.EmployerPhone)
	n.Convictions = record.Slots(n.Convictions, ListSlots)
	n.SubmittedInformation = record.Slots(n.SubmittedInformation, ListSlots)
	n.JobDuties = record.Slots(n.JobDuties, max(DutySlots, len(n.JobDuties)))
	return FinalForm{Notice: n}
}

// ElapsedSinceConviction renders the time between the conviction month on
// rec and reference. It is empty when either side is missing or malformed.
func ElapsedSinceConviction(rec record.CaseRecord, reference string) string {
	if rec.ConvictionMonth == "" || rec.ConvictionYear == "" || reference == "" {
		return ""
	}
	d, err := businessday.ElapsedSince(rec.ConvictionMonth, rec.ConvictionYear, reference)
	if err != nil {
		return ""
	}
	return d.String()
}

func required(errs *record.ValidationErrors, field, value, message string) {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, "%s", message)
	}
}

func requiredDate(errs *record.ValidationErrors, field, value, message string) {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, "%s", message)
		return
	}
	optionalDate(errs, field, value)
}

func optionalDate(errs *record.ValidationErrors, field, value string) {
	if value == "" {
		return
	}
	if _, err := businessday.ParseDate(value); err != nil {
		errs.Add(field, "Use the YYYY-MM-DD format")
	}
}

func yesNo(errs *record.ValidationErrors, field string, value record.YesNo, message string) {
	if !value.Valid() {
		errs.Add(field, "%s", message)
	}
}

func decision(errs *record.ValidationErrors, field string, d record.Decision, reason string) {
	if !d.Valid() {
		errs.Add(field, "Please choose to extend or rescind the offer")
		return
	}
	if d == record.DecisionRescind && strings.TrimSpace(reason) == "" {
		errs.Add("rescindReason", "Please explain why the offer is rescinded")
	}
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func cloneSlots(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}
