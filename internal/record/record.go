// Package record defines the case record carried through the fair-chance
// workflow and the rules for validating and merging partial copies of it.
package record

import "strings"

// TriState answers an assessment activity question.
type TriState string

const (
	TriYes     TriState = "yes"
	TriNo      TriState = "no"
	TriUnknown TriState = "unknown"
)

// Valid reports whether the value is a declared variant.
func (t TriState) Valid() bool {
	switch t {
	case TriYes, TriNo, TriUnknown:
		return true
	}
	return false
}

// YesNo is a two-way answer used by reassessment and final notice fields.
type YesNo string

const (
	Yes YesNo = "yes"
	No  YesNo = "no"
)

func (y YesNo) Valid() bool {
	return y == Yes || y == No
}

// Decision is the employer's outcome for an assessment.
type Decision string

const (
	DecisionExtend  Decision = "extend"
	DecisionRescind Decision = "rescind"
)

func (d Decision) Valid() bool {
	return d == DecisionExtend || d == DecisionRescind
}

// Activity is one answered rehabilitation question.
type Activity struct {
	Answer  TriState `json:"answer,omitempty"`
	Details string   `json:"details,omitempty"`
}

// Summary renders the activity the way notices list it.
func (a Activity) Summary() string {
	switch a.Answer {
	case TriYes:
		if a.Details != "" {
			return "Yes - " + a.Details
		}
		return "Yes"
	case TriUnknown:
		return "Unknown"
	default:
		return "No"
	}
}

// ActivityRecord holds the six activity categories collected at assessment.
type ActivityRecord struct {
	WorkExperience   Activity `json:"workExperience,omitzero"`
	JobTraining      Activity `json:"jobTraining,omitzero"`
	Education        Activity `json:"education,omitzero"`
	Counseling       Activity `json:"counseling,omitzero"`
	Rehabilitation   Activity `json:"rehabilitation,omitzero"`
	CommunityService Activity `json:"communityService,omitzero"`
}

// Category names one slot of a six-category questionnaire.
type Category struct {
	Key   string
	Label string
}

// ActivityCategories lists the assessment categories in display order.
var ActivityCategories = []Category{
	{Key: "workExperience", Label: "Work Experience"},
	{Key: "jobTraining", Label: "Job Training"},
	{Key: "education", Label: "Education"},
	{Key: "counseling", Label: "Counseling"},
	{Key: "rehabilitation", Label: "Rehabilitation"},
	{Key: "communityService", Label: "Community Service"},
}

// Field returns the activity stored under key, or nil for an unknown key.
func (a *ActivityRecord) Field(key string) *Activity {
	switch key {
	case "workExperience":
		return &a.WorkExperience
	case "jobTraining":
		return &a.JobTraining
	case "education":
		return &a.Education
	case "counseling":
		return &a.Counseling
	case "rehabilitation":
		return &a.Rehabilitation
	case "communityService":
		return &a.CommunityService
	}
	return nil
}

// Evidence is one yes/no finding from the candidate's response.
type Evidence struct {
	Answer YesNo  `json:"answer,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// RehabilitationEvidence is the reassessment questionnaire.
type RehabilitationEvidence struct {
	SchoolAttendance     Evidence `json:"schoolAttendance,omitzero"`
	ReligiousInstitution Evidence `json:"religiousInstitution,omitzero"`
	JobTraining          Evidence `json:"jobTraining,omitzero"`
	Counseling           Evidence `json:"counseling,omitzero"`
	CommunityInvolvement Evidence `json:"communityInvolvement,omitzero"`
	LettersOfSupport     Evidence `json:"lettersOfSupport,omitzero"`
	AdditionalEvidence   string   `json:"additionalEvidence,omitempty"`
}

// EvidenceCategories lists the reassessment categories in display order.
var EvidenceCategories = []Category{
	{Key: "schoolAttendance", Label: "School Attendance"},
	{Key: "religiousInstitution", Label: "Religious Institution Participation"},
	{Key: "jobTraining", Label: "Job Training"},
	{Key: "counseling", Label: "Counseling"},
	{Key: "communityInvolvement", Label: "Community Involvement"},
	{Key: "lettersOfSupport", Label: "Letters of Support"},
}

// Field returns the evidence stored under key, or nil for an unknown key.
func (e *RehabilitationEvidence) Field(key string) *Evidence {
	switch key {
	case "schoolAttendance":
		return &e.SchoolAttendance
	case "religiousInstitution":
		return &e.ReligiousInstitution
	case "jobTraining":
		return &e.JobTraining
	case "counseling":
		return &e.Counseling
	case "communityInvolvement":
		return &e.CommunityInvolvement
	case "lettersOfSupport":
		return &e.LettersOfSupport
	}
	return nil
}

// PreliminaryNotice is the committed content of the preliminary revocation
// letter plus its delivery stamp.
type PreliminaryNotice struct {
	Date                    string   `json:"date,omitempty"`
	ApplicantName           string   `json:"applicantName,omitempty"`
	Position                string   `json:"position,omitempty"`
	Convictions             []string `json:"convictions,omitempty"`
	ConductSeriousness      string   `json:"conductSeriousness,omitempty"`
	TimeElapsedSinceConduct string   `json:"timeElapsedSinceConduct,omitempty"`
	TimeElapsedSinceRelease string   `json:"timeElapsedSinceRelease,omitempty"`
	JobDuties               []string `json:"jobDuties,omitempty"`
	ReasoningForRevocation  string   `json:"reasoningForRevocation,omitempty"`
	EmployerName            string   `json:"employerName,omitempty"`
	EmployerCompany         string   `json:"employerCompany,omitempty"`
	ResponseDeadline        int      `json:"responseDeadline,omitempty"`
	ResponseEmail           string   `json:"responseEmail,omitempty"`
	SentAt                  string   `json:"sentAt,omitempty"`
	ReceiptID               string   `json:"receiptId,omitempty"`
}

// Reassessment holds findings after the candidate responded.
type Reassessment struct {
	HasError         YesNo                  `json:"hasError,omitempty"`
	ErrorDescription string                 `json:"errorDescription,omitempty"`
	Evidence         RehabilitationEvidence `json:"evidence,omitzero"`
	Decision         Decision               `json:"decision,omitempty"`
	RescindReason    string                 `json:"rescindReason,omitempty"`
}

// FinalNotice is the content of the final revocation letter.
type FinalNotice struct {
	Date                     string   `json:"date,omitempty"`
	DateOfNotice             string   `json:"dateOfNotice,omitempty"`
	ApplicantName            string   `json:"applicantName,omitempty"`
	Position                 string   `json:"position,omitempty"`
	ReceivedResponse         YesNo    `json:"receivedResponse,omitempty"`
	SubmittedInformation     []string `json:"submittedInformation,omitempty"`
	HasError                 YesNo    `json:"hasError,omitempty"`
	Convictions              []string `json:"convictions,omitempty"`
	ConductSeriousness       string   `json:"conductSeriousness,omitempty"`
	TimeElapsedSinceConduct  string   `json:"timeElapsedSinceConduct,omitempty"`
	TimeElapsedSinceRelease  string   `json:"timeElapsedSinceRelease,omitempty"`
	JobDuties                []string `json:"jobDuties,omitempty"`
	ReasoningForRevocation   string   `json:"reasoningForRevocation,omitempty"`
	AllowsReconsideration    YesNo    `json:"allowsReconsideration,omitempty"`
	ReconsiderationProcedure string   `json:"reconsiderationProcedure,omitempty"`
	EmployerName             string   `json:"employerName,omitempty"`
	EmployerCompany          string   `json:"employerCompany,omitempty"`
	EmployerAddress          string   `json:"employerAddress,omitempty"`
	EmployerPhone            string   `json:"employerPhone,omitempty"`
	SentAt                   string   `json:"sentAt,omitempty"`
	ReceiptID                string   `json:"receiptId,omitempty"`
}

// CaseRecord is the persisted aggregate for one candidate. Every field is
// optional; readers merge rather than replace.
type CaseRecord struct {
	EmployerName        string `json:"employerName,omitempty"`
	ApplicantName       string `json:"applicantName,omitempty"`
	PositionApplied     string `json:"positionApplied,omitempty"`
	EmployerCompany     string `json:"employerCompany,omitempty"`
	EmployerAddress     string `json:"employerAddress,omitempty"`
	EmployerPhone       string `json:"employerPhone,omitempty"`
	AssessmentPerformer string `json:"assessmentPerformer,omitempty"`

	DateConditionalOffer string `json:"dateConditionalOffer,omitempty"`
	DateAssessment       string `json:"dateAssessment,omitempty"`
	DateCriminalHistory  string `json:"dateCriminalHistory,omitempty"`
	DateReassessment     string `json:"dateReassessment,omitempty"`
	DateOfNotice         string `json:"dateOfNotice,omitempty"`

	ConvictionMonth string `json:"convictionMonth,omitempty"`
	ConvictionYear  string `json:"convictionYear,omitempty"`

	JobDuties       []string       `json:"jobDuties,omitempty"`
	CriminalConduct string         `json:"criminalConduct,omitempty"`
	Activities      ActivityRecord `json:"activities,omitzero"`

	Decision        Decision `json:"decision,omitempty"`
	RescindReason   string   `json:"rescindReason,omitempty"`
	StoreAssessment *bool    `json:"storeAssessment,omitempty"`

	PreliminaryNotice PreliminaryNotice `json:"preliminaryNotice,omitzero"`
	Reassessment      Reassessment      `json:"reassessment,omitzero"`
	FinalNotice       FinalNotice       `json:"finalNotice,omitzero"`
}

// FilterBlank drops empty and whitespace-only slots, keeping order.
func FilterBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// Slots pads or truncates values to exactly n positional entries.
func Slots(values []string, n int) []string {
	out := make([]string, n)
	copy(out, values)
	return out
}
