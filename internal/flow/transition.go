package flow

import (
	"errors"
	"time"

	"github.com/kingrea/fair-chance/internal/letter"
	"github.com/kingrea/fair-chance/internal/record"
)

// Transition advances s by ev. Events that do not apply to the current
// stage and screen leave s unchanged.
func Transition(s State, ev Event, now time.Time) (State, []Effect) {
	switch ev := ev.(type) {
	case SubmitAssessment:
		return submitAssessment(s, ev.Form, now)
	case SaveDraft:
		return saveDraft(s, ev.Form)
	case SubmitPreliminary:
		if !s.at(StagePreliminaryNotice, ScreenForm) {
			return s, nil
		}
		return submitNotice(s, ev.Form, now)
	case SubmitFinal:
		if !s.at(StageFinalNotice, ScreenForm) {
			return s, nil
		}
		return submitNotice(s, ev.Form, now)
	case EditNotice:
		if s.Screen != ScreenPreview || s.Sending {
			return s, nil
		}
		return s.enter(s.Stage, ScreenForm, s.Form), nil
	case RequestSend:
		return requestSend(s)
	case SendCompleted:
		return sendCompleted(s, ev)
	case CandidateResponded:
		if s.at(StagePreliminaryNotice, ScreenSent) && ev.Generation == s.Generation {
			s.ResponseReady = true
		}
		return s, nil
	case ViewResponse:
		if !s.at(StagePreliminaryNotice, ScreenSent) || !s.ResponseReady {
			return s, nil
		}
		return s.enter(StageReassessment, ScreenForm, NewReassessmentForm(s.Record, now)), nil
	case SubmitReassessment:
		return submitReassessment(s, ev.Form, now)
	case Back:
		return back(s, now), nil
	}
	return s, nil
}

func (s State) at(stage Stage, screen Screen) bool {
	return s.Stage == stage && s.Screen == screen
}

func submitAssessment(s State, form AssessmentForm, now time.Time) (State, []Effect) {
	if !s.at(StageAssessment, ScreenForm) {
		return s, nil
	}
	s.Form = form
	if invalid(&s, form, now) {
		return s, nil
	}
	s.Record = record.Merge(s.Record, form.Overlay())
	save := SaveRecord{Record: s.Record}
	if form.Decision == record.DecisionExtend {
		return s.enter(StageAssessment, ScreenSuccess, form), []Effect{save}
	}
	return s.enter(StagePreliminaryNotice, ScreenForm, NewPreliminaryForm(s.Record, s.Defaults, now)), []Effect{save}
}

func submitReassessment(s State, form ReassessmentForm, now time.Time) (State, []Effect) {
	if !s.at(StageReassessment, ScreenForm) {
		return s, nil
	}
	s.Form = form
	if invalid(&s, form, now) {
		return s, nil
	}
	s.Record = record.Merge(s.Record, form.Overlay())
	save := SaveRecord{Record: s.Record}
	if form.Findings.Decision == record.DecisionExtend {
		return s.enter(StageReassessment, ScreenSuccess, form), []Effect{save}
	}
	return s.enter(StageFinalNotice, ScreenForm, NewFinalForm(s.Record, s.Defaults, now)), []Effect{save}
}

// submitNotice commits a notice form to the in-memory record and opens the
// preview. Nothing is persisted until the notice is sent.
func submitNotice(s State, form Form, now time.Time) (State, []Effect) {
	s.Form = form
	if invalid(&s, form, now) {
		return s, nil
	}
	s.Record = record.Merge(s.Record, form.Overlay())
	return s.enter(s.Stage, ScreenPreview, form), nil
}

func saveDraft(s State, form Form) (State, []Effect) {
	if form == nil || s.Screen != ScreenForm || form.Stage() != s.Stage {
		return s, nil
	}
	s.Form = form
	s.Record = record.Merge(s.Record, form.Overlay())
	return s, []Effect{SaveRecord{Record: s.Record}}
}

func requestSend(s State) (State, []Effect) {
	if s.Screen != ScreenPreview || s.Sending {
		return s, nil
	}
	kind, ok := noticeKind(s.Stage)
	if !ok {
		return s, nil
	}
	s.Sending = true
	s.Alert = ""
	return s, []Effect{SendNotice{Generation: s.Generation, Kind: kind, Record: s.Record}}
}

func sendCompleted(s State, ev SendCompleted) (State, []Effect) {
	if !s.Sending || s.Screen != ScreenPreview || ev.Generation != s.Generation {
		return s, nil
	}
	s.Sending = false
	if ev.Err != nil {
		s.Alert = SendFailedAlert
		return s, nil
	}
	sentAt := ev.Receipt.SentAt.UTC().Format(time.RFC3339)
	switch s.Stage {
	case StagePreliminaryNotice:
		s.Record.PreliminaryNotice.SentAt = sentAt
		s.Record.PreliminaryNotice.ReceiptID = ev.Receipt.ID
		s = s.enter(s.Stage, ScreenSent, PreliminaryForm{Notice: s.Record.PreliminaryNotice})
		return s, append([]Effect{SaveRecord{Record: s.Record}}, s.countdownEffects()...)
	case StageFinalNotice:
		s.Record.FinalNotice.SentAt = sentAt
		s.Record.FinalNotice.ReceiptID = ev.Receipt.ID
		s = s.enter(s.Stage, ScreenSent, FinalForm{Notice: s.Record.FinalNotice})
		return s, []Effect{SaveRecord{Record: s.Record}}
	}
	return s, nil
}

func back(s State, now time.Time) State {
	switch {
	case s.Screen == ScreenPreview && !s.Sending:
		return s.enter(s.Stage, ScreenForm, s.Form)
	case s.at(StagePreliminaryNotice, ScreenForm), s.at(StageAssessment, ScreenSuccess):
		return s.enter(StageAssessment, ScreenForm, NewAssessmentForm(s.Record, s.Defaults, now))
	}
	return s
}

func noticeKind(stage Stage) (letter.Kind, bool) {
	switch stage {
	case StagePreliminaryNotice:
		return letter.KindPreliminary, true
	case StageFinalNotice:
		return letter.KindFinal, true
	}
	return "", false
}

// invalid records validation errors on s and reports whether there were any.
func invalid(s *State, form Form, now time.Time) bool {
	err := form.Validate(now)
	if err == nil {
		s.Errors = nil
		return false
	}
	var verrs record.ValidationErrors
	if !errors.As(err, &verrs) {
		verrs = record.ValidationErrors{{Field: "form", Message: err.Error()}}
	}
	s.Errors = verrs
	return true
}
