package tui

import (
	"embed"
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

//go:embed pages/*.md
var pageFS embed.FS

// page is one of the static informational views.
type page struct {
	title string
	file  string
}

var (
	pageOverview  = page{title: "Overview", file: "pages/overview.md"}
	pageLegal     = page{title: "Legal Overview", file: "pages/legal.md"}
	pageComplaint = page{title: "Complaint Process", file: "pages/complaint.md"}
)

func (p page) content() (string, error) {
	data, err := pageFS.ReadFile(p.file)
	if err != nil {
		return "", fmt.Errorf("tui: read page %s: %w", p.file, err)
	}
	return string(data), nil
}

type pageView struct {
	page     page
	viewport viewport.Model
}

func newPageView(p page, width, height int) (*pageView, error) {
	body, err := p.content()
	if err != nil {
		return nil, err
	}
	vp := viewport.New(max(40, width-12), max(10, height-14))
	vp.SetContent(body)
	return &pageView{page: p, viewport: vp}, nil
}

func (v *pageView) Update(msg tea.Msg) tea.Cmd {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		v.viewport.Width = max(40, size.Width-12)
		v.viewport.Height = max(10, size.Height-14)
		return nil
	}
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return cmd
}

func (v *pageView) View() string {
	return v.viewport.View() + "\n" + hintStyle.Render("↑/↓ → scroll    Esc → menu")
}
