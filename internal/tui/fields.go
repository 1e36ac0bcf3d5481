package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/fair-chance/internal/flow"
	"github.com/kingrea/fair-chance/internal/record"
)

var (
	fieldLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	fieldFocusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	fieldErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	fieldChoiceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	fieldSectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true).MarginTop(1)
)

var (
	triChoices      = []string{"", string(record.TriYes), string(record.TriNo), string(record.TriUnknown)}
	yesNoChoices    = []string{"", string(record.Yes), string(record.No)}
	decisionChoices = []string{"", string(record.DecisionExtend), string(record.DecisionRescind)}
	boolChoices     = []string{"no", "yes"}
)

// field is one editable line of a stage form. Choice fields cycle through a
// fixed list; every other field is free text.
type field struct {
	key     string
	label   string
	section string
	choices []string
	choice  int
	input   textinput.Model
}

func newField(key, label, value string, choices []string) field {
	f := field{key: key, label: label, choices: choices}
	if choices != nil {
		for i, c := range choices {
			if c == value {
				f.choice = i
			}
		}
		return f
	}
	in := textinput.New()
	in.Prompt = "› "
	in.CharLimit = 2000
	in.Width = 60
	in.SetValue(value)
	f.input = in
	return f
}

func (f *field) value() string {
	if f.choices != nil {
		return f.choices[f.choice]
	}
	return f.input.Value()
}

func (f *field) cycle(step int) {
	if f.choices == nil {
		return
	}
	n := len(f.choices)
	f.choice = ((f.choice+step)%n + n) % n
}

func (f *field) focus() tea.Cmd {
	if f.choices != nil {
		return nil
	}
	return f.input.Focus()
}

func (f *field) blur() {
	if f.choices == nil {
		f.input.Blur()
	}
}

func (f *field) update(msg tea.Msg) tea.Cmd {
	if f.choices != nil {
		return nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

func (f *field) render(focused bool, errMsg string) string {
	label := fieldLabelStyle.Render(f.label)
	if focused {
		label = fieldFocusStyle.Render("▸ " + f.label)
	}
	var value string
	if f.choices != nil {
		current := f.choices[f.choice]
		if current == "" {
			current = "—"
		}
		value = fieldChoiceStyle.Render(fmt.Sprintf("‹ %s ›", current))
	} else {
		value = f.input.View()
	}
	lines := []string{label, "  " + value}
	if errMsg != "" {
		lines = append(lines, fieldErrorStyle.Render("  "+errMsg))
	}
	if f.section != "" {
		lines = append([]string{fieldSectionStyle.Render(f.section)}, lines...)
	}
	return strings.Join(lines, "\n")
}

// binding maps a stage form onto fields and back.
type binding interface {
	fields() []field
	collect(fields []field) flow.Form
}

type spec[T flow.Form] struct {
	key     string
	label   string
	section string
	choices []string
	read    func(*T) string
	write   func(*T, string)
}

type formBinding[T flow.Form] struct {
	base  T
	specs []spec[T]
}

func (b formBinding[T]) fields() []field {
	out := make([]field, len(b.specs))
	base := b.base
	for i, s := range b.specs {
		out[i] = newField(s.key, s.label, s.read(&base), s.choices)
		out[i].section = s.section
	}
	return out
}

func (b formBinding[T]) collect(fields []field) flow.Form {
	form := b.base
	for i, s := range b.specs {
		if i < len(fields) {
			s.write(&form, fields[i].value())
		}
	}
	return form
}

func text[T flow.Form](key, label string, ptr func(*T) *string) spec[T] {
	return spec[T]{
		key:   key,
		label: label,
		read:  func(f *T) string { return *ptr(f) },
		write: func(f *T, v string) { *ptr(f) = v },
	}
}

func choice[T flow.Form](key, label string, choices []string, ptr func(*T) *string) spec[T] {
	s := text(key, label, ptr)
	s.choices = choices
	return s
}

// slot edits one entry of a positional list. Writes copy the list so the
// form passed to the binding is never mutated.
func slot[T flow.Form](key, label string, index int, ptr func(*T) *[]string) spec[T] {
	return spec[T]{
		key:   key,
		label: label,
		read: func(f *T) string {
			values := *ptr(f)
			if index < len(values) {
				return values[index]
			}
			return ""
		},
		write: func(f *T, v string) {
			values := append([]string(nil), *ptr(f)...)
			for len(values) <= index {
				values = append(values, "")
			}
			values[index] = v
			*ptr(f) = values
		},
	}
}

func slots[T flow.Form](key, label string, n int, ptr func(*T) *[]string) []spec[T] {
	out := make([]spec[T], n)
	for i := range n {
		out[i] = slot(key, fmt.Sprintf("%s %d", label, i+1), i, ptr)
	}
	return out
}

func withSection[T flow.Form](section string, specs ...spec[T]) []spec[T] {
	if len(specs) > 0 {
		specs[0].section = section
	}
	return specs
}

func assessmentBinding(form flow.AssessmentForm) binding {
	type F = flow.AssessmentForm
	specs := withSection("Employer and applicant",
		text("employerName", "Employer name", func(f *F) *string { return &f.EmployerName }),
		text("applicantName", "Applicant name", func(f *F) *string { return &f.ApplicantName }),
		text("positionApplied", "Position applied for", func(f *F) *string { return &f.PositionApplied }),
		text("assessmentPerformer", "Assessment performed by", func(f *F) *string { return &f.AssessmentPerformer }),
	)
	specs = append(specs, withSection("Dates (YYYY-MM-DD)",
		text("dateConditionalOffer", "Conditional offer date", func(f *F) *string { return &f.DateConditionalOffer }),
		text("dateAssessment", "Assessment date", func(f *F) *string { return &f.DateAssessment }),
		text("dateCriminalHistory", "Criminal history received", func(f *F) *string { return &f.DateCriminalHistory }),
	)...)
	specs = append(specs, withSection("Conviction",
		text("convictionMonth", "Conviction month (MM)", func(f *F) *string { return &f.ConvictionMonth }),
		text("convictionYear", "Conviction year (YYYY)", func(f *F) *string { return &f.ConvictionYear }),
		text("criminalConduct", "Nature and gravity of the conduct", func(f *F) *string { return &f.CriminalConduct }),
	)...)
	specs = append(specs, withSection("Job duties",
		slots("jobDuties", "Duty", max(flow.DutySlots, len(form.JobDuties)), func(f *F) *[]string { return &f.JobDuties })...)...)
	for i, cat := range record.ActivityCategories {
		key := cat.Key
		answer := choice("activities."+key, cat.Label, triChoices, func(f *F) *string {
			return (*string)(&f.Activities.Field(key).Answer)
		})
		details := text("activities."+key+".details", cat.Label+" details", func(f *F) *string {
			return &f.Activities.Field(key).Details
		})
		if i == 0 {
			answer.section = "Activities since the conviction"
		}
		specs = append(specs, answer, details)
	}
	specs = append(specs, withSection("Decision",
		choice("decision", "Decision", decisionChoices, func(f *F) *string { return (*string)(&f.Decision) }),
		text("rescindReason", "Reason for rescinding", func(f *F) *string { return &f.RescindReason }),
		spec[F]{
			key:     "storeAssessment",
			label:   "Keep this assessment on file",
			choices: boolChoices,
			read: func(f *F) string {
				if f.StoreAssessment {
					return "yes"
				}
				return "no"
			},
			write: func(f *F, v string) { f.StoreAssessment = v == "yes" },
		},
	)...)
	return formBinding[F]{base: form, specs: specs}
}

func preliminaryBinding(form flow.PreliminaryForm) binding {
	type F = flow.PreliminaryForm
	specs := withSection("Notice",
		text("date", "Notice date", func(f *F) *string { return &f.Notice.Date }),
		text("applicantName", "Applicant name", func(f *F) *string { return &f.Notice.ApplicantName }),
		text("position", "Position", func(f *F) *string { return &f.Notice.Position }),
	)
	specs = append(specs, withSection("Convictions",
		slots("convictions", "Conviction", flow.ListSlots, func(f *F) *[]string { return &f.Notice.Convictions })...)...)
	specs = append(specs, withSection("Individualized assessment",
		text("conductSeriousness", "Seriousness of the conduct", func(f *F) *string { return &f.Notice.ConductSeriousness }),
		text("timeElapsedSinceConduct", "Time since the conduct", func(f *F) *string { return &f.Notice.TimeElapsedSinceConduct }),
		text("timeElapsedSinceRelease", "Time since release or sentence completion", func(f *F) *string { return &f.Notice.TimeElapsedSinceRelease }),
	)...)
	specs = append(specs, slots("jobDuties", "Duty", max(flow.DutySlots, len(form.Notice.JobDuties)), func(f *F) *[]string { return &f.Notice.JobDuties })...)
	specs = append(specs, withSection("Response",
		text("reasoningForRevocation", "Reasoning for revocation", func(f *F) *string { return &f.Notice.ReasoningForRevocation }),
		spec[F]{
			key:   "responseDeadline",
			label: "Response deadline (business days, at least 5)",
			read: func(f *F) string {
				if f.Notice.ResponseDeadline == 0 {
					return ""
				}
				return strconv.Itoa(f.Notice.ResponseDeadline)
			},
			write: func(f *F, v string) {
				n, err := strconv.Atoi(strings.TrimSpace(v))
				if err != nil {
					n = 0
				}
				f.Notice.ResponseDeadline = n
			},
		},
		text("responseEmail", "Response email", func(f *F) *string { return &f.Notice.ResponseEmail }),
	)...)
	specs = append(specs, withSection("Signature",
		text("employerName", "Signed by", func(f *F) *string { return &f.Notice.EmployerName }),
		text("employerCompany", "Company", func(f *F) *string { return &f.Notice.EmployerCompany }),
	)...)
	return formBinding[F]{base: form, specs: specs}
}

func reassessmentBinding(form flow.ReassessmentForm) binding {
	type F = flow.ReassessmentForm
	specs := withSection("Case",
		text("applicantName", "Applicant name", func(f *F) *string { return &f.ApplicantName }),
		text("positionApplied", "Position", func(f *F) *string { return &f.PositionApplied }),
		text("employerName", "Employer name", func(f *F) *string { return &f.EmployerName }),
		text("assessmentPerformer", "Reassessment performed by", func(f *F) *string { return &f.AssessmentPerformer }),
		text("dateReassessment", "Reassessment date", func(f *F) *string { return &f.DateReassessment }),
	)
	specs = append(specs, withSection("Accuracy of the report",
		choice("hasError", "Did the candidate show an error in the report?", yesNoChoices, func(f *F) *string { return (*string)(&f.Findings.HasError) }),
		text("errorDescription", "Describe the error", func(f *F) *string { return &f.Findings.ErrorDescription }),
	)...)
	for i, cat := range record.EvidenceCategories {
		key := cat.Key
		answer := choice("evidence."+key, cat.Label, yesNoChoices, func(f *F) *string {
			return (*string)(&f.Findings.Evidence.Field(key).Answer)
		})
		notes := text("evidence."+key+".notes", cat.Label+" notes", func(f *F) *string {
			return &f.Findings.Evidence.Field(key).Notes
		})
		if i == 0 {
			answer.section = "Evidence of rehabilitation"
		}
		specs = append(specs, answer, notes)
	}
	specs = append(specs,
		text("evidence.additionalEvidence", "Additional evidence", func(f *F) *string { return &f.Findings.Evidence.AdditionalEvidence }),
	)
	specs = append(specs, withSection("Decision",
		choice("decision", "Decision", decisionChoices, func(f *F) *string { return (*string)(&f.Findings.Decision) }),
		text("rescindReason", "Reason for rescinding", func(f *F) *string { return &f.Findings.RescindReason }),
	)...)
	return formBinding[F]{base: form, specs: specs}
}

func finalBinding(form flow.FinalForm) binding {
	type F = flow.FinalForm
	specs := withSection("Notice",
		text("date", "Notice date", func(f *F) *string { return &f.Notice.Date }),
		text("dateOfNotice", "Date of the preliminary notice", func(f *F) *string { return &f.Notice.DateOfNotice }),
		text("applicantName", "Applicant name", func(f *F) *string { return &f.Notice.ApplicantName }),
		text("position", "Position", func(f *F) *string { return &f.Notice.Position }),
	)
	specs = append(specs, withSection("Candidate response",
		choice("receivedResponse", "Did the candidate respond?", yesNoChoices, func(f *F) *string { return (*string)(&f.Notice.ReceivedResponse) }),
	)...)
	specs = append(specs, slots("submittedInformation", "Submitted information", flow.ListSlots, func(f *F) *[]string { return &f.Notice.SubmittedInformation })...)
	specs = append(specs,
		choice("hasError", "Was there an error in the report?", yesNoChoices, func(f *F) *string { return (*string)(&f.Notice.HasError) }),
	)
	specs = append(specs, withSection("Convictions",
		slots("convictions", "Conviction", flow.ListSlots, func(f *F) *[]string { return &f.Notice.Convictions })...)...)
	specs = append(specs, withSection("Individualized assessment",
		text("conductSeriousness", "Seriousness of the conduct", func(f *F) *string { return &f.Notice.ConductSeriousness }),
		text("timeElapsedSinceConduct", "Time since the conduct", func(f *F) *string { return &f.Notice.TimeElapsedSinceConduct }),
		text("timeElapsedSinceRelease", "Time since release or sentence completion", func(f *F) *string { return &f.Notice.TimeElapsedSinceRelease }),
	)...)
	specs = append(specs, slots("jobDuties", "Duty", max(flow.DutySlots, len(form.Notice.JobDuties)), func(f *F) *[]string { return &f.Notice.JobDuties })...)
	specs = append(specs,
		text("reasoningForRevocation", "Reasoning for revocation", func(f *F) *string { return &f.Notice.ReasoningForRevocation }),
	)
	specs = append(specs, withSection("Reconsideration",
		choice("allowsReconsideration", "Do you offer reconsideration?", yesNoChoices, func(f *F) *string { return (*string)(&f.Notice.AllowsReconsideration) }),
		text("reconsiderationProcedure", "How to request reconsideration", func(f *F) *string { return &f.Notice.ReconsiderationProcedure }),
	)...)
	specs = append(specs, withSection("Signature",
		text("employerName", "Signed by", func(f *F) *string { return &f.Notice.EmployerName }),
		text("employerCompany", "Company", func(f *F) *string { return &f.Notice.EmployerCompany }),
		text("employerAddress", "Address", func(f *F) *string { return &f.Notice.EmployerAddress }),
		text("employerPhone", "Phone", func(f *F) *string { return &f.Notice.EmployerPhone }),
	)...)
	return formBinding[F]{base: form, specs: specs}
}

// bindingFor returns the field binding for the active stage form.
func bindingFor(form flow.Form) binding {
	switch f := form.(type) {
	case flow.AssessmentForm:
		return assessmentBinding(f)
	case flow.PreliminaryForm:
		return preliminaryBinding(f)
	case flow.ReassessmentForm:
		return reassessmentBinding(f)
	case flow.FinalForm:
		return finalBinding(f)
	}
	return nil
}
