// Package flow is the fair-chance workflow as an explicit state machine.
//
// A State names the active stage and screen, carries the accumulated case
// record and exactly one stage form. Transition is a pure function from a
// state and an event to the next state plus the effects the caller must run
// (persisting, sending, starting timers). Nothing in this package performs
// I/O or reads the wall clock.
package flow

// Stage is one step of the guided workflow.
type Stage int

const (
	StageAssessment Stage = iota
	StagePreliminaryNotice
	StageReassessment
	StageFinalNotice
)

// String returns the stage name used in logs.
func (s Stage) String() string {
	switch s {
	case StageAssessment:
		return "assessment"
	case StagePreliminaryNotice:
		return "preliminary-notice"
	case StageReassessment:
		return "reassessment"
	case StageFinalNotice:
		return "final-notice"
	default:
		return "unknown"
	}
}

// FriendlyName returns the title shown above the stage.
func (s Stage) FriendlyName() string {
	switch s {
	case StageAssessment:
		return "Individual Assessment"
	case StagePreliminaryNotice:
		return "Preliminary Decision Notice"
	case StageReassessment:
		return "Individual Reassessment"
	case StageFinalNotice:
		return "Final Revocation Notice"
	default:
		return s.String()
	}
}

// Screen is the view within a stage.
type Screen int

const (
	ScreenForm Screen = iota
	ScreenPreview
	ScreenSent
	ScreenSuccess
)

func (s Screen) String() string {
	switch s {
	case ScreenForm:
		return "form"
	case ScreenPreview:
		return "preview"
	case ScreenSent:
		return "sent"
	case ScreenSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Terminal reports whether nothing further can happen on this screen.
func (s State) Terminal() bool {
	switch {
	case s.Screen == ScreenSuccess:
		return true
	case s.Stage == StageFinalNotice && s.Screen == ScreenSent:
		return true
	}
	return false
}
