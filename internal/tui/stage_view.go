package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/fair-chance/internal/businessday"
	"github.com/kingrea/fair-chance/internal/delivery"
	"github.com/kingrea/fair-chance/internal/flow"
	"github.com/kingrea/fair-chance/internal/letter"
	"github.com/kingrea/fair-chance/internal/printing"
	"github.com/kingrea/fair-chance/internal/record"
)

const (
	countdownInterval = time.Second
	visibleFields     = 8
)

var (
	stageTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	alertStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	successStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).MarginTop(1)
	summaryStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
)

// flowEventMsg carries a workflow event produced by a command.
type flowEventMsg struct {
	event flow.Event
}

type countdownTickMsg struct {
	generation int
}

type responseFailedMsg struct {
	err error
}

// stageView renders the active workflow stage and executes the effects that
// flow.Transition asks for.
type stageView struct {
	app     *App
	// ctx lives as long as the view; waits started by the view end with it.
	ctx     context.Context
	cancel  context.CancelFunc
	state   flow.State
	binding binding
	fields  []field
	focus   int
	preview viewport.Model
	letter  string
}

func newStageView(app *App, stage flow.Stage) (*stageView, tea.Cmd) {
	ctx, cancel := context.WithCancel(app.ctx)
	v := &stageView{app: app, ctx: ctx, cancel: cancel, preview: viewport.New(80, 20)}
	stored := app.forms.Load(app.ctx)
	state, effects := flow.Start(stage, stored, app.config.FlowDefaults(), app.now())
	v.install(state)
	app.logInfo("Stage · %s opened (%s)", state.Stage.FriendlyName(), state.Screen)
	return v, v.run(effects)
}

func (v *stageView) close() {
	v.cancel()
}

func (v *stageView) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case flowEventMsg:
		return v.dispatch(m.event)
	case countdownTickMsg:
		if m.generation != v.state.Generation || !v.countingDown() {
			return nil
		}
		return v.tick(m.generation)
	case responseFailedMsg:
		if !errors.Is(m.err, context.Canceled) {
			v.app.logWarn("Candidate response wait stopped: %v", m.err)
		}
		return nil
	case tea.WindowSizeMsg:
		v.preview.Width = max(20, m.Width-12)
		v.preview.Height = max(5, m.Height-18)
		return nil
	case tea.KeyMsg:
		return v.handleKey(m)
	}
	return nil
}

func (v *stageView) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+b" {
		return v.dispatch(flow.Back{})
	}
	switch v.state.Screen {
	case flow.ScreenForm:
		return v.handleFormKey(msg)
	case flow.ScreenPreview:
		switch key {
		case "e":
			return v.dispatch(flow.EditNotice{})
		case "s":
			return v.dispatch(flow.RequestSend{})
		case "p":
			v.print()
			return nil
		}
		var cmd tea.Cmd
		v.preview, cmd = v.preview.Update(msg)
		return cmd
	case flow.ScreenSent:
		switch key {
		case "v":
			return v.dispatch(flow.ViewResponse{})
		case "p":
			v.print()
		}
	}
	return nil
}

func (v *stageView) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	if len(v.fields) == 0 {
		return nil
	}
	current := &v.fields[v.focus]
	switch msg.String() {
	case "tab", "down":
		return v.moveFocus(1)
	case "shift+tab", "up":
		return v.moveFocus(-1)
	case "enter":
		return v.submit()
	case "ctrl+s":
		cmd := v.dispatch(flow.SaveDraft{Form: v.collect()})
		v.app.statusMsg = "Draft saved"
		return cmd
	case "left":
		if current.choices != nil {
			current.cycle(-1)
			return nil
		}
	case "right", " ":
		if current.choices != nil {
			current.cycle(1)
			return nil
		}
	}
	return current.update(msg)
}

func (v *stageView) moveFocus(step int) tea.Cmd {
	v.fields[v.focus].blur()
	n := len(v.fields)
	v.focus = ((v.focus+step)%n + n) % n
	return v.fields[v.focus].focus()
}

func (v *stageView) collect() flow.Form {
	if v.binding == nil {
		return v.state.Form
	}
	return v.binding.collect(v.fields)
}

func (v *stageView) submit() tea.Cmd {
	switch form := v.collect().(type) {
	case flow.AssessmentForm:
		return v.dispatch(flow.SubmitAssessment{Form: form})
	case flow.PreliminaryForm:
		return v.dispatch(flow.SubmitPreliminary{Form: form})
	case flow.ReassessmentForm:
		return v.dispatch(flow.SubmitReassessment{Form: form})
	case flow.FinalForm:
		return v.dispatch(flow.SubmitFinal{Form: form})
	}
	return nil
}

// dispatch feeds ev through the state machine and runs the resulting effects.
func (v *stageView) dispatch(ev flow.Event) tea.Cmd {
	prev := v.state
	next, effects := flow.Transition(prev, ev, v.app.now())
	if next.Generation != prev.Generation {
		v.install(next)
		v.app.logInfo("Stage · %s → %s (%s)", prev.Stage.FriendlyName(), next.Stage.FriendlyName(), next.Screen)
	} else {
		v.state = next
		v.focusFirstError()
	}
	if next.Alert != "" && next.Alert != prev.Alert {
		v.app.logError("Stage · %s: %s", next.Stage.FriendlyName(), next.Alert)
	}
	return v.run(effects)
}

// install replaces the visible screen with state.
func (v *stageView) install(state flow.State) {
	v.state = state
	v.binding = nil
	v.fields = nil
	v.focus = 0
	switch state.Screen {
	case flow.ScreenForm:
		v.binding = bindingFor(state.Form)
		if v.binding != nil {
			v.fields = v.binding.fields()
			if len(v.fields) > 0 {
				v.fields[0].focus()
			}
		}
	case flow.ScreenPreview, flow.ScreenSent:
		if kind, ok := v.noticeKind(); ok {
			body, err := letter.Render(kind, state.Record)
			if err != nil {
				v.app.logError("Render %s: %v", kind, err)
			}
			v.letter = body
			v.preview.SetContent(body)
			v.preview.GotoTop()
		}
	}
}

func (v *stageView) focusFirstError() {
	if len(v.state.Errors) == 0 {
		return
	}
	for i := range v.fields {
		if v.state.Errors.For(v.fields[i].key) != "" {
			v.fields[v.focus].blur()
			v.focus = i
			v.fields[i].focus()
			return
		}
	}
}

func (v *stageView) run(effects []flow.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, eff := range effects {
		switch e := eff.(type) {
		case flow.SaveRecord:
			v.app.forms.Save(v.app.ctx, e.Record)
		case flow.SendNotice:
			cmds = append(cmds, v.send(e))
		case flow.StartCountdown:
			cmds = append(cmds, v.tick(e.Generation))
		case flow.AwaitResponse:
			cmds = append(cmds, v.await(e.Generation))
		}
	}
	return tea.Batch(cmds...)
}

func (v *stageView) send(e flow.SendNotice) tea.Cmd {
	body, err := letter.Render(e.Kind, e.Record)
	if err != nil {
		return func() tea.Msg {
			return flowEventMsg{event: flow.SendCompleted{Generation: e.Generation, Err: err}}
		}
	}
	notice := delivery.Notice{
		CaseID:    v.app.forms.CaseID(),
		Kind:      string(e.Kind),
		Recipient: e.Record.ApplicantName,
		Subject:   e.Kind.Subject(),
		Body:      body,
	}
	sender, ctx := v.app.sender, v.app.ctx
	v.app.logInfo("Sending %s to %s", e.Kind, notice.Recipient)
	return func() tea.Msg {
		receipt, err := sender.Send(ctx, notice)
		return flowEventMsg{event: flow.SendCompleted{Generation: e.Generation, Receipt: receipt, Err: err}}
	}
}

func (v *stageView) tick(generation int) tea.Cmd {
	return tea.Tick(v.app.tickInterval, func(time.Time) tea.Msg {
		return countdownTickMsg{generation: generation}
	})
}

func (v *stageView) await(generation int) tea.Cmd {
	responses, ctx, caseID := v.app.responses, v.ctx, v.app.forms.CaseID()
	return func() tea.Msg {
		if err := responses.Await(ctx, caseID); err != nil {
			return responseFailedMsg{err: err}
		}
		return flowEventMsg{event: flow.CandidateResponded{Generation: generation}}
	}
}

func (v *stageView) countingDown() bool {
	return v.state.Stage == flow.StagePreliminaryNotice && v.state.Screen == flow.ScreenSent
}

func (v *stageView) noticeKind() (letter.Kind, bool) {
	switch v.state.Stage {
	case flow.StagePreliminaryNotice:
		return letter.KindPreliminary, true
	case flow.StageFinalNotice:
		return letter.KindFinal, true
	}
	return "", false
}

func (v *stageView) print() {
	kind, ok := v.noticeKind()
	if !ok || v.letter == "" {
		return
	}
	name := fmt.Sprintf("%s-%s", url.PathEscape(v.app.forms.CaseID()), kind)
	path, err := printing.WriteHTML(v.app.config.PrintDir(), name, v.letter, kind.Subject())
	if err != nil {
		v.app.statusMsg = fmt.Sprintf("Print failed: %v", err)
		v.app.logError("Print %s: %v", kind, err)
		return
	}
	v.app.statusMsg = fmt.Sprintf("Letter written to %s", path)
	v.app.logInfo("Printed %s to %s", kind, path)
}

func (v *stageView) View() string {
	title := stageTitleStyle.Render(fmt.Sprintf("%s · %s", v.state.Stage.FriendlyName(), titleCase(v.state.Screen.String())))
	sections := []string{title}
	if v.state.Alert != "" {
		sections = append(sections, alertStyle.Render("⚠ "+v.state.Alert))
	}
	switch v.state.Screen {
	case flow.ScreenForm:
		if v.state.Stage == flow.StageReassessment {
			sections = append(sections, summaryStyle.Render(assessmentSummary(v.state.Record)))
		}
		sections = append(sections, v.renderFields(), hintStyle.Render("Tab/↑↓ → move    ←/→ → choose    Enter → submit    Ctrl+S → save draft    Ctrl+B → back    Esc → menu"))
	case flow.ScreenPreview:
		hint := "E → edit    P → print    S → send    Esc → menu"
		if v.state.Sending {
			hint = "Sending notice..."
		}
		sections = append(sections, v.preview.View(), hintStyle.Render(hint))
	case flow.ScreenSent:
		sections = append(sections, v.renderSent())
	case flow.ScreenSuccess:
		sections = append(sections, successStyle.Render("✓ Offer extended. No notice is required for this candidate."),
			hintStyle.Render("Ctrl+B → back    Esc → menu"))
	}
	return strings.Join(sections, "\n\n")
}

func (v *stageView) renderFields() string {
	start := max(0, v.focus-visibleFields/2)
	end := min(len(v.fields), start+visibleFields)
	start = max(0, end-visibleFields)
	var rows []string
	for i := start; i < end; i++ {
		f := &v.fields[i]
		rows = append(rows, f.render(i == v.focus, v.state.Errors.For(f.key)))
	}
	if others := len(v.state.Errors); others > 0 {
		rows = append(rows, fieldErrorStyle.Render(fmt.Sprintf("%d field(s) need attention", others)))
	}
	return strings.Join(rows, "\n")
}

func (v *stageView) renderSent() string {
	if v.state.Stage == flow.StageFinalNotice {
		return lipgloss.JoinVertical(lipgloss.Left,
			successStyle.Render("✓ Final notice sent. The process is complete."),
			hintStyle.Render("P → print    Esc → menu"))
	}
	countdown, ok := v.state.Countdown(v.app.now())
	lines := []string{successStyle.Render("✓ Preliminary notice sent.")}
	if ok {
		lines = append(lines, countdownText(countdown))
	}
	hint := "Waiting for the candidate's response...    P → print    Esc → menu"
	if v.state.ResponseReady {
		lines = append(lines, successStyle.Render("Candidate response received."))
		hint = "V → view candidate response    P → print    Esc → menu"
	}
	lines = append(lines, hintStyle.Render(hint))
	return strings.Join(lines, "\n")
}

func countdownText(c businessday.Countdown) string {
	if c.Expired {
		return "The response period has ended."
	}
	return fmt.Sprintf("Time remaining: %dd %02dh %02dm %02ds\n%d business day(s) remaining (deadline %s)",
		c.Days, c.Hours, c.Minutes, c.Seconds, c.BusinessDays, c.Deadline.Format("Mon Jan 2, 2006"))
}

// assessmentSummary is the read-only view of the original assessment shown
// during reassessment.
func assessmentSummary(rec record.CaseRecord) string {
	lines := []string{"Original assessment:"}
	for _, cat := range record.ActivityCategories {
		lines = append(lines, fmt.Sprintf("  %s: %s", cat.Label, rec.Activities.Field(cat.Key).Summary()))
	}
	if rec.CriminalConduct != "" {
		lines = append(lines, "  Conduct: "+rec.CriminalConduct)
	}
	if elapsed := flow.ElapsedSinceConviction(rec, rec.DateConditionalOffer); elapsed != "" {
		lines = append(lines, "  Time elapsed: "+elapsed)
	}
	if duties := record.FilterBlank(rec.JobDuties); len(duties) > 0 {
		lines = append(lines, "  Duties: "+strings.Join(duties, "; "))
	}
	if rec.RescindReason != "" {
		lines = append(lines, "  Original reason: "+rec.RescindReason)
	}
	return strings.Join(lines, "\n")
}
