package tui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/atsmatch/internal/templates"
)

type templatesModel struct {
	items    []templates.Template
	cursor   int
	opened   string
	open     func(url string) error
	errMsg   string
	wantQuit bool
}

func (m templatesModel) Init() tea.Cmd {
	return nil
}

func (m templatesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		return m, tea.Quit
	case "up", "k":
		m.cursor = clamp(m.cursor-1, 0, max(len(m.items)-1, 0))
	case "down", "j":
		m.cursor = clamp(m.cursor+1, 0, max(len(m.items)-1, 0))
	case "enter", "p":
		if len(m.items) == 0 {
			return m, nil
		}
		preview, err := m.items[m.cursor].Preview()
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.openLink(preview)
	case "o":
		if len(m.items) > 0 {
			m.openLink(m.items[m.cursor].URL)
		}
	}
	return m, nil
}

func (m *templatesModel) openLink(url string) {
	if err := m.open(url); err != nil {
		m.errMsg = fmt.Sprintf("could not open browser: %v", err)
		return
	}
	m.errMsg = ""
	m.opened = url
}

func (m templatesModel) View() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render("ATS Templates"))
	b.WriteString("\n")
	for i, t := range m.items {
		if i == m.cursor {
			b.WriteString(pickerSelectedStyle.Render("> " + t.Name))
		} else {
			b.WriteString(pickerItemStyle.Render(t.Name))
		}
		b.WriteString("\n")
	}
	if m.opened != "" {
		b.WriteString(formLabelStyle.Render("Opened " + m.opened))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString(formErrorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(pickerHintStyle.Render("↑/↓ navigate  enter preview  o open document  esc back  q quit"))
	return b.String()
}

// RunTemplatesView lists templates and opens the selected one in the browser.
// Returns wantQuit=true if the user pressed q/ctrl+c.
func RunTemplatesView(items []templates.Template) (bool, error) {
	m := templatesModel{items: items, open: openURL}
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	return result.(templatesModel).wantQuit, nil
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
	return cmd.Start()
}
