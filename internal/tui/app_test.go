package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/fair-chance/internal/config"
	"github.com/kingrea/fair-chance/internal/delivery"
	"github.com/kingrea/fair-chance/internal/flow"
	"github.com/kingrea/fair-chance/internal/record"
)

// Wednesday.
var testNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type failingSender struct{}

func (failingSender) Send(context.Context, delivery.Notice) (delivery.Receipt, error) {
	return delivery.Receipt{}, errors.New("gateway unavailable")
}

func newTestApp(t *testing.T, opts ...AppOption) *App {
	t.Helper()
	projectDir := t.TempDir()
	if err := config.InitFairChanceDir(projectDir); err != nil {
		t.Fatalf("init fairchance dir: %v", err)
	}
	baseOpts := []AppOption{
		WithClock(fixedClock),
		WithSender(&delivery.SimulatedSender{Clock: fixedClock}),
		WithResponseSource(delivery.SimulatedResponses{}),
		WithTickInterval(time.Millisecond),
	}
	app, err := NewApp(projectDir, append(baseOpts, opts...)...)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

// runCommands executes cmd and feeds workflow messages back into the model
// until nothing is left. Countdown ticks and cursor blinks are dropped so the
// loop ends.
func runCommands(t *testing.T, model tea.Model, cmd tea.Cmd) *App {
	t.Helper()
	app, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type: %T", model)
	}
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatalf("command loop did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case flowEventMsg, responseFailedMsg:
			nextModel, nextCmd := app.Update(msg)
			app, ok = nextModel.(*App)
			if !ok {
				t.Fatalf("unexpected model type: %T", nextModel)
			}
			queue = append(queue, nextCmd)
		}
	}
	return app
}

func press(t *testing.T, app *App, key tea.KeyMsg) *App {
	t.Helper()
	model, cmd := app.Update(key)
	return runCommands(t, model, cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func assessmentForm() flow.AssessmentForm {
	return flow.AssessmentForm{
		EmployerName:         "Harbor Logistics",
		ApplicantName:        "Jordan Reyes",
		PositionApplied:      "Warehouse Associate",
		AssessmentPerformer:  "Pat Lee",
		DateConditionalOffer: "2023-09-15",
		DateAssessment:       "2024-05-15",
		DateCriminalHistory:  "2024-05-01",
		ConvictionMonth:      "06",
		ConvictionYear:       "2021",
		JobDuties:            []string{"Operate forklift", "", "", ""},
		CriminalConduct:      "Theft of merchandise",
		Activities: record.ActivityRecord{
			WorkExperience:   record.Activity{Answer: record.TriYes, Details: "Food bank volunteer"},
			JobTraining:      record.Activity{Answer: record.TriNo},
			Education:        record.Activity{Answer: record.TriNo},
			Counseling:       record.Activity{Answer: record.TriNo},
			Rehabilitation:   record.Activity{Answer: record.TriNo},
			CommunityService: record.Activity{Answer: record.TriUnknown},
		},
		Decision:      record.DecisionRescind,
		RescindReason: "Unsupervised inventory access",
	}
}

// fill replaces the visible fields with values from form.
func fill(app *App, form flow.Form) {
	b := bindingFor(form)
	app.stageView.binding = b
	app.stageView.fields = b.fields()
	app.stageView.focus = 0
}

func toPreliminaryPreview(t *testing.T, app *App) *App {
	t.Helper()
	model, _ := app.openRoute(routeAssessment)
	app = model.(*App)
	fill(app, assessmentForm())
	app = press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if st := app.stageView.state; st.Stage != flow.StagePreliminaryNotice || st.Screen != flow.ScreenForm {
		t.Fatalf("expected preliminary form, got %s/%s errors=%v", st.Stage, st.Screen, st.Errors)
	}
	notice := app.stageView.collect().(flow.PreliminaryForm)
	if notice.Notice.TimeElapsedSinceConduct != "2 years and 3 months" {
		t.Fatalf("elapsed not prefilled: %q", notice.Notice.TimeElapsedSinceConduct)
	}
	notice.Notice.Convictions = []string{"Petty theft (2021)", "", ""}
	notice.Notice.ResponseEmail = "hr@harbor.example"
	fill(app, notice)
	app = press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if st := app.stageView.state; st.Screen != flow.ScreenPreview {
		t.Fatalf("expected preview, got %s errors=%v", st.Screen, st.Errors)
	}
	return app
}

func TestMainMenuListsRoutes(t *testing.T) {
	app := newTestApp(t)
	var titles []string
	for _, item := range app.mainMenu.Items() {
		titles = append(titles, item.(menuItem).title)
	}
	want := []string{routeOverview, routeAssessment, routePreliminary, routeReassessment, routeFinal, routeLegal, routeComplaint, routeExit}
	if strings.Join(titles, "|") != strings.Join(want, "|") {
		t.Fatalf("menu = %v, want %v", titles, want)
	}
}

func TestAssessmentSubmitPersistsAndHandsOff(t *testing.T) {
	app := newTestApp(t)
	app = toPreliminaryPreview(t, app)
	stored := app.forms.Load(context.Background())
	if stored == nil || stored.ApplicantName != "Jordan Reyes" {
		t.Fatalf("assessment not persisted: %+v", stored)
	}
	if stored.PreliminaryNotice.ResponseEmail != "" {
		t.Fatalf("preview must not persist the notice")
	}
	if view := app.View(); !strings.Contains(view, "Dear Jordan Reyes:") {
		t.Fatalf("preview missing letter:\n%s", view)
	}
}

func TestSendStartsCountdownAndRevealsResponse(t *testing.T) {
	app := toPreliminaryPreview(t, newTestApp(t))
	app = press(t, app, runes("s"))
	st := app.stageView.state
	if st.Screen != flow.ScreenSent {
		t.Fatalf("expected sent screen, got %s alert=%q", st.Screen, st.Alert)
	}
	if !st.ResponseReady {
		t.Fatalf("candidate response not revealed")
	}
	view := app.View()
	if !strings.Contains(view, "5 business day(s) remaining") {
		t.Fatalf("countdown missing:\n%s", view)
	}
	stored := app.forms.Load(context.Background())
	if stored == nil || stored.PreliminaryNotice.SentAt != "2024-05-15T12:00:00Z" {
		t.Fatalf("send not persisted: %+v", stored)
	}

	app = press(t, app, runes("v"))
	if st := app.stageView.state; st.Stage != flow.StageReassessment {
		t.Fatalf("expected reassessment, got %s", st.Stage)
	}
	if !strings.Contains(app.View(), "Work Experience: Yes - Food bank volunteer") {
		t.Fatalf("reassessment summary missing:\n%s", app.View())
	}
}

func TestCountdownDropsStaleTicks(t *testing.T) {
	app := toPreliminaryPreview(t, newTestApp(t))
	app = press(t, app, runes("s"))
	v := app.stageView
	if cmd := v.Update(countdownTickMsg{generation: v.state.Generation - 1}); cmd != nil {
		t.Fatalf("stale tick re-armed the countdown")
	}
	if cmd := v.Update(countdownTickMsg{generation: v.state.Generation}); cmd == nil {
		t.Fatalf("live tick did not re-arm the countdown")
	}
	app = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if app.state != stateMainMenu || app.stageView != nil {
		t.Fatalf("esc did not leave the stage")
	}
}

func TestSendFailureShowsAlert(t *testing.T) {
	app := toPreliminaryPreview(t, newTestApp(t, WithSender(failingSender{})))
	app = press(t, app, runes("s"))
	st := app.stageView.state
	if st.Screen != flow.ScreenPreview || st.Sending {
		t.Fatalf("expected to stay on preview, got %s sending=%v", st.Screen, st.Sending)
	}
	if !strings.Contains(app.View(), flow.SendFailedAlert) {
		t.Fatalf("alert not shown:\n%s", app.View())
	}
}

func TestPrintWritesLetter(t *testing.T) {
	app := toPreliminaryPreview(t, newTestApp(t))
	app = press(t, app, runes("p"))
	path := filepath.Join(app.config.PrintDir(), "default-preliminary.html")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read printed letter: %v", err)
	}
	if !strings.Contains(string(data), "Dear Jordan Reyes:") {
		t.Fatalf("printed letter missing content")
	}
	if !strings.Contains(app.statusMsg, path) {
		t.Fatalf("status = %q", app.statusMsg)
	}
}

func TestSaveDraftKeepsScreen(t *testing.T) {
	app := newTestApp(t)
	model, _ := app.openRoute(routeAssessment)
	app = model.(*App)
	form := app.stageView.collect().(flow.AssessmentForm)
	form.ApplicantName = "Jordan Reyes"
	fill(app, form)
	app = press(t, app, tea.KeyMsg{Type: tea.KeyCtrlS})
	if app.stageView.state.Screen != flow.ScreenForm || app.statusMsg != "Draft saved" {
		t.Fatalf("draft changed screen: %s status=%q", app.stageView.state.Screen, app.statusMsg)
	}
	if stored := app.forms.Load(context.Background()); stored == nil || stored.ApplicantName != "Jordan Reyes" {
		t.Fatalf("draft not stored: %+v", stored)
	}
}

func TestInvalidSubmitShowsFieldErrors(t *testing.T) {
	app := newTestApp(t)
	model, _ := app.openRoute(routeAssessment)
	app = model.(*App)
	app = press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	st := app.stageView.state
	if st.Stage != flow.StageAssessment || len(st.Errors) == 0 {
		t.Fatalf("expected validation errors, got %s errors=%v", st.Stage, st.Errors)
	}
	focused := app.stageView.fields[app.stageView.focus].key
	if st.Errors.For(focused) == "" {
		t.Fatalf("focus %q is not on an invalid field", focused)
	}
}

func TestChoiceFieldsCycle(t *testing.T) {
	f := newField("decision", "Decision", "", decisionChoices)
	f.cycle(1)
	if f.value() != string(record.DecisionExtend) {
		t.Fatalf("value = %q", f.value())
	}
	f.cycle(-2)
	if f.value() != string(record.DecisionRescind) {
		t.Fatalf("value after wrap = %q", f.value())
	}
}

func TestBindingDoesNotMutateForm(t *testing.T) {
	form := assessmentForm()
	b := bindingFor(form)
	fields := b.fields()
	for i := range fields {
		if fields[i].key == "jobDuties" {
			fields[i].input.SetValue("Drive truck")
			break
		}
	}
	got := b.collect(fields).(flow.AssessmentForm)
	if got.JobDuties[0] != "Drive truck" || form.JobDuties[0] != "Operate forklift" {
		t.Fatalf("collect = %v, original = %v", got.JobDuties, form.JobDuties)
	}
}

func TestStaticPages(t *testing.T) {
	app := newTestApp(t)
	for route, want := range map[string]string{
		routeOverview:  "Fair Chance Hiring Assessment Process",
		routeLegal:     "San Diego Fair Chance Ordinance Legal Overview",
		routeComplaint: "San Diego Fair Chance Ordinance Complaint Process",
	} {
		model, _ := app.openRoute(route)
		app = model.(*App)
		if app.state != statePage {
			t.Fatalf("%s: state = %d", route, app.state)
		}
		if view := app.View(); !strings.Contains(view, want) {
			t.Fatalf("%s: view missing %q", route, want)
		}
		app = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	}
}

// waitingResponses never reports a response; it only returns when ctx ends.
type waitingResponses struct{}

func (waitingResponses) Await(ctx context.Context, _ string) error {
	<-ctx.Done()
	return ctx.Err()
}

// expand runs cmd and any batched commands, failing if one blocks.
func expand(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("command did not return")
	}
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, expand(t, c)...)
	}
	return out
}

func TestEscWaitsForSendInFlight(t *testing.T) {
	app := toPreliminaryPreview(t, newTestApp(t))
	model, sendCmd := app.Update(runes("s"))
	app = model.(*App)
	if !app.stageView.state.Sending {
		t.Fatalf("send did not start")
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = model.(*App)
	if app.state != stateStage || app.stageView == nil {
		t.Fatalf("esc left the stage while the notice was sending")
	}

	app = runCommands(t, app, sendCmd)
	if st := app.stageView.state; st.Screen != flow.ScreenSent {
		t.Fatalf("expected sent screen, got %s", st.Screen)
	}
	stored := app.forms.Load(context.Background())
	if stored == nil || stored.PreliminaryNotice.SentAt == "" || stored.PreliminaryNotice.ReceiptID == "" {
		t.Fatalf("send stamp not persisted: %+v", stored)
	}
	if stored.PreliminaryNotice.ResponseEmail != "hr@harbor.example" {
		t.Fatalf("notice fields not persisted: %+v", stored.PreliminaryNotice)
	}

	app = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if app.state != stateMainMenu {
		t.Fatalf("esc after send did not return to the menu")
	}
}

func TestLeavingStageCancelsResponseWait(t *testing.T) {
	app := toPreliminaryPreview(t, newTestApp(t, WithResponseSource(waitingResponses{})))
	model, sendCmd := app.Update(runes("s"))
	app = model.(*App)

	var sentCmd tea.Cmd
	for _, msg := range expand(t, sendCmd) {
		model, cmd := app.Update(msg)
		app = model.(*App)
		sentCmd = cmd
	}
	if app.stageView.state.Screen != flow.ScreenSent {
		t.Fatalf("expected sent screen, got %s", app.stageView.state.Screen)
	}

	app = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	var cancelled bool
	for _, msg := range expand(t, sentCmd) {
		if failed, ok := msg.(responseFailedMsg); ok && errors.Is(failed.err, context.Canceled) {
			cancelled = true
		}
	}
	if !cancelled {
		t.Fatalf("response wait was not cancelled when the stage closed")
	}
}

func TestUnavailableStoreFallsBackToFiles(t *testing.T) {
	projectDir := t.TempDir()
	if err := config.InitFairChanceDir(projectDir); err != nil {
		t.Fatalf("init fairchance dir: %v", err)
	}
	blocker := filepath.Join(projectDir, "blocker")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	cfgYAML := "version: 1\ncase_id: default\nstore:\n  backend: sqlite\n  path: " + filepath.Join(blocker, "fairchance.db") + "\n"
	if err := os.WriteFile(filepath.Join(projectDir, config.FairChanceDir, "config.yaml"), []byte(cfgYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	app, err := NewApp(projectDir, WithClock(fixedClock))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	if !strings.Contains(app.statusMsg, "sqlite store unavailable") {
		t.Fatalf("status = %q", app.statusMsg)
	}

	app.forms.Save(context.Background(), record.CaseRecord{ApplicantName: "Jordan Reyes"})
	if stored := app.forms.Load(context.Background()); stored == nil || stored.ApplicantName != "Jordan Reyes" {
		t.Fatalf("fallback store did not round trip: %+v", stored)
	}
	if _, err := os.Stat(filepath.Join(app.config.StateDir(), "fair-chance-assessment-data.json")); err != nil {
		t.Fatalf("record not written under the state dir: %v", err)
	}
}

func TestPrintEscapesCaseID(t *testing.T) {
	app := toPreliminaryPreview(t, newTestApp(t, WithCaseID("north/7")))
	app = press(t, app, runes("p"))
	path := filepath.Join(app.config.PrintDir(), "north%2F7-preliminary.html")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("printed letter missing: %v (status %q)", err, app.statusMsg)
	}
}
