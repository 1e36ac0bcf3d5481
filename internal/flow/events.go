package flow

import (
	"github.com/kingrea/fair-chance/internal/delivery"
	"github.com/kingrea/fair-chance/internal/letter"
	"github.com/kingrea/fair-chance/internal/record"
)

// Event is an input to Transition.
type Event interface {
	isEvent()
}

type (
	SubmitAssessment struct{ Form AssessmentForm }
	// SaveDraft stores the form values without validating them.
	SaveDraft         struct{ Form Form }
	SubmitPreliminary struct{ Form PreliminaryForm }
	// EditNotice returns from a preview to its form.
	EditNotice  struct{}
	RequestSend struct{}
	// SendCompleted reports the outcome of a SendNotice effect.
	SendCompleted struct {
		Generation int
		Receipt    delivery.Receipt
		Err        error
	}
	// CandidateResponded reports that the candidate answered the
	// preliminary notice.
	CandidateResponded struct{ Generation int }
	ViewResponse       struct{}
	SubmitReassessment struct{ Form ReassessmentForm }
	SubmitFinal        struct{ Form FinalForm }
	Back               struct{}
)

func (SubmitAssessment) isEvent()   {}
func (SaveDraft) isEvent()          {}
func (SubmitPreliminary) isEvent()  {}
func (EditNotice) isEvent()         {}
func (RequestSend) isEvent()        {}
func (SendCompleted) isEvent()      {}
func (CandidateResponded) isEvent() {}
func (ViewResponse) isEvent()       {}
func (SubmitReassessment) isEvent() {}
func (SubmitFinal) isEvent()        {}
func (Back) isEvent()               {}

// Effect is work Transition asks the caller to perform.
type Effect interface {
	isEffect()
}

type (
	// SaveRecord persists the whole record.
	SaveRecord struct{ Record record.CaseRecord }
	// SendNotice delivers the rendered notice and answers with SendCompleted.
	SendNotice struct {
		Generation int
		Kind       letter.Kind
		Record     record.CaseRecord
	}
	// StartCountdown re-evaluates State.Countdown every second for as long
	// as the state keeps this generation.
	StartCountdown struct{ Generation int }
	// AwaitResponse waits for the candidate and answers with
	// CandidateResponded.
	AwaitResponse struct{ Generation int }
)

func (SaveRecord) isEffect()     {}
func (SendNotice) isEffect()     {}
func (StartCountdown) isEffect() {}
func (AwaitResponse) isEffect()  {}
