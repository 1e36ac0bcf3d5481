// Package letter renders the preliminary and final revocation notices as
// Markdown. Both renderers are pure functions of the case record.
package letter

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/kingrea/fair-chance/internal/record"
)

//go:embed templates/*.md.tmpl
var templateFS embed.FS

const (
	CheckedBox   = "☒"
	UncheckedBox = "☐"
)

// Kind identifies one of the two notices.
type Kind string

const (
	KindPreliminary Kind = "preliminary"
	KindFinal       Kind = "final"
)

// Subject returns the subject line of the notice.
func (k Kind) Subject() string {
	switch k {
	case KindPreliminary:
		return "Re: Preliminary Decision to Revoke Job Offer Because of Conviction History"
	case KindFinal:
		return "Re: Final Decision to Revoke Job Offer Because of Conviction History"
	}
	return ""
}

// ParseKind accepts "preliminary" or "final".
func ParseKind(value string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(value))); k {
	case KindPreliminary, KindFinal:
		return k, nil
	}
	return "", fmt.Errorf("letter: unknown notice %q (want preliminary or final)", value)
}

var templates = template.Must(template.New("letter").Funcs(template.FuncMap{
	"nonblank":  record.FilterBlank,
	"box":       box,
	"signature": signature,
}).ParseFS(templateFS, "templates/*.md.tmpl"))

func box(checked bool) string {
	if checked {
		return CheckedBox
	}
	return UncheckedBox
}

// signature joins the non-empty lines with Markdown hard breaks.
func signature(lines ...string) string {
	return strings.Join(record.FilterBlank(lines), "\\\n")
}

type activityLine struct {
	Label   string
	Summary string
}

type preliminaryView struct {
	record.PreliminaryNotice
	Activities []activityLine
}

// Preliminary renders the preliminary notice from the committed notice
// section and the original activity answers.
func Preliminary(rec record.CaseRecord) string {
	view := preliminaryView{PreliminaryNotice: rec.PreliminaryNotice}
	for _, cat := range record.ActivityCategories {
		view.Activities = append(view.Activities, activityLine{
			Label:   cat.Label,
			Summary: rec.Activities.Field(cat.Key).Summary(),
		})
	}
	return render("preliminary.md.tmpl", view)
}

// Final renders the final notice.
func Final(n record.FinalNotice) string {
	return render("final.md.tmpl", n)
}

// Render picks the notice for kind from rec.
func Render(kind Kind, rec record.CaseRecord) (string, error) {
	switch kind {
	case KindPreliminary:
		return Preliminary(rec), nil
	case KindFinal:
		return Final(rec.FinalNotice), nil
	}
	return "", fmt.Errorf("letter: unknown notice %q", kind)
}

// render panics on execution failure, which only a template bug can cause.
func render(name string, data any) string {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		panic(fmt.Sprintf("letter: execute %s: %v", name, err))
	}
	return b.String()
}
