package flow

import (
	"time"

	"github.com/kingrea/fair-chance/internal/businessday"
	"github.com/kingrea/fair-chance/internal/record"
)

// SendFailedAlert is shown on the preview screen when delivery fails.
const SendFailedAlert = "Failed to send notice. Please try again."

// Defaults are configured values used when the case record has none.
type Defaults struct {
	ResponseDays        int
	EmployerName        string
	AssessmentPerformer string
	EmployerAddress     string
	EmployerPhone       string
}

func (d Defaults) responseDays() int {
	return max(d.ResponseDays, record.MinResponseDays)
}

// State is the whole workflow position for one case.
type State struct {
	Stage  Stage
	Screen Screen
	Record record.CaseRecord
	Form   Form

	Defaults Defaults
	// Sending is set while a notice is in flight and blocks another send.
	Sending bool
	// ResponseReady reveals the "view candidate response" action.
	ResponseReady bool
	Alert         string
	Errors        record.ValidationErrors
	// Generation changes whenever the screen changes. Timer and delivery
	// events carry the generation they were started for.
	Generation int
}

// Start opens stage for a stored case. stored may be nil. A notice that was
// already sent resumes on its Sent screen.
func Start(stage Stage, stored *record.CaseRecord, d Defaults, now time.Time) (State, []Effect) {
	var rec record.CaseRecord
	if stored != nil {
		rec = record.Merge(record.CaseRecord{}, *stored)
	}
	s := State{Record: rec, Defaults: d}
	switch stage {
	case StagePreliminaryNotice:
		if rec.PreliminaryNotice.SentAt != "" {
			s = s.enter(StagePreliminaryNotice, ScreenSent, PreliminaryForm{Notice: rec.PreliminaryNotice})
			return s, s.countdownEffects()
		}
		return s.enter(stage, ScreenForm, NewPreliminaryForm(rec, d, now)), nil
	case StageReassessment:
		return s.enter(stage, ScreenForm, NewReassessmentForm(rec, now)), nil
	case StageFinalNotice:
		if rec.FinalNotice.SentAt != "" {
			return s.enter(stage, ScreenSent, FinalForm{Notice: rec.FinalNotice}), nil
		}
		return s.enter(stage, ScreenForm, NewFinalForm(rec, d, now)), nil
	default:
		return s.enter(StageAssessment, ScreenForm, NewAssessmentForm(rec, d, now)), nil
	}
}

// Countdown reports the remaining response time for a sent preliminary
// notice. ok is false until the notice has a valid send stamp.
func (s State) Countdown(now time.Time) (businessday.Countdown, bool) {
	n := s.Record.PreliminaryNotice
	if n.SentAt == "" {
		return businessday.Countdown{}, false
	}
	sentAt, err := time.Parse(time.RFC3339, n.SentAt)
	if err != nil {
		return businessday.Countdown{}, false
	}
	days := n.ResponseDeadline
	if days == 0 {
		days = s.Defaults.responseDays()
	}
	// Weekdays are judged in the caller's zone, not the zone of the stamp.
	return businessday.RemainingTime(days, sentAt.In(now.Location()), false, now), true
}

func (s State) enter(stage Stage, screen Screen, form Form) State {
	s.Stage = stage
	s.Screen = screen
	s.Form = form
	s.Sending = false
	s.ResponseReady = false
	s.Alert = ""
	s.Errors = nil
	s.Generation++
	return s
}

func (s State) countdownEffects() []Effect {
	return []Effect{
		StartCountdown{Generation: s.Generation},
		AwaitResponse{Generation: s.Generation},
	}
}
