package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/atsmatch/internal/model"
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			MarginBottom(1)

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// Result is what the result screen displays.
type Result struct {
	Title      string
	Fragments  []string
	Empty      bool
	Score      *model.MatchScore // nil when the result carries no score
	Missing    []string
	ResumeText string // optional parsed resume, toggled with r
	Done       string // completion line, e.g. "Analysis Complete!"
	Err        error
}

// AnalysisResult adapts an analysis for display.
func AnalysisResult(a model.Analysis, resumeText string) Result {
	score := a.Score
	return Result{
		Title:      "Resume Analyzer",
		Fragments:  a.Fragments,
		Empty:      a.Empty,
		Score:      &score,
		Missing:    a.MissingKeywords,
		ResumeText: resumeText,
		Done:       "Analysis Complete!",
	}
}

// RephraseResult adapts a rephrasal for display.
func RephraseResult(r model.Rephrasal) Result {
	return Result{
		Title:     "Magic Write",
		Fragments: r.Fragments,
		Empty:     r.Empty,
		Done:      "Rephrasing Complete!",
	}
}

type resultModel struct {
	res        Result
	viewport   viewport.Model
	bar        progress.Model
	width      int
	height     int
	ready      bool
	showResume bool
	wantQuit   bool
}

func newResultModel(res Result) resultModel {
	return resultModel{
		res: res,
		bar: progress.New(progress.WithDefaultGradient()),
	}
}

func (m resultModel) Init() tea.Cmd {
	return nil
}

func (m resultModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Title (2 lines) + border (2) + status bar (1).
		h := max(m.height-5, 5)
		w := max(m.width-4, 20)
		if !m.ready {
			m.viewport = viewport.New(w, h)
			m.ready = true
		} else {
			m.viewport.Width = w
			m.viewport.Height = h
		}
		m.bar.Width = min(w-10, 60)
		m.viewport.SetContent(m.render())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.wantQuit = true
			return m, tea.Quit
		case "esc", "backspace", "b":
			return m, tea.Quit
		case "r":
			if m.res.ResumeText != "" {
				m.showResume = !m.showResume
				m.viewport.SetContent(m.render())
				m.viewport.SetYOffset(0)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m resultModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	title := titleStyle.Render(m.res.Title)
	content := activeBorderStyle.Width(m.width - 2).Render(m.viewport.View())

	statusText := " esc back  ↑/↓ scroll  q quit"
	if m.res.ResumeText != "" {
		statusText = " r resume  esc back  ↑/↓ scroll  q quit"
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return title + "\n" + content + "\n" + statusBar
}

func (m resultModel) render() string {
	var b strings.Builder
	wrapWidth := max(m.width-8, 20)
	divider := func(label string) string {
		fill := strings.Repeat("─", max(wrapWidth-len(label), 3))
		return dividerStyle.Render(label+fill)
	}

	if m.res.ResumeText != "" {
		if m.showResume {
			b.WriteString(divider("── Parsed Resume ") + "\n\n")
			b.WriteString(bodyStyle.Render(wordWrap(m.res.ResumeText, wrapWidth)) + "\n\n")
		} else {
			b.WriteString(hintStyle.Render("  press r to show the parsed resume") + "\n\n")
		}
	}

	if m.res.Err != nil {
		b.WriteString(errorStyle.Render("⚠ "+m.res.Err.Error()) + "\n")
		return b.String()
	}

	if m.res.Empty {
		b.WriteString(hintStyle.Render("No analysis was returned.") + "\n")
		return b.String()
	}

	b.WriteString(divider("── Response ") + "\n\n")
	for _, f := range m.res.Fragments {
		b.WriteString(bodyStyle.Render(wrapLines(f, wrapWidth)) + "\n")
	}

	if s := m.res.Score; s != nil {
		b.WriteByte('\n')
		if s.Known {
			b.WriteString(labelStyle.Render(fmt.Sprintf("Your Resume Match Percentage: %d%%", s.Value)) + "\n")
			b.WriteString(m.bar.ViewAs(barFraction(s.Value)) + "\n")
		} else {
			b.WriteString(labelStyle.Render("Your Resume Match Percentage: unavailable") + "\n")
		}
		if len(m.res.Missing) > 0 {
			b.WriteString(labelStyle.Render("Missing Keywords: ") + strings.Join(m.res.Missing, ", ") + "\n")
		}
	}

	if m.res.Done != "" {
		b.WriteByte('\n')
		b.WriteString(successStyle.Render(m.res.Done) + "\n")
	}
	return b.String()
}

// barFraction maps a percentage to the progress bar's [0, 1] range.
func barFraction(percent int) float64 {
	return float64(clamp(percent, 0, 100)) / 100
}

// RunResultView shows res in the alt screen.
// Returns wantQuit=true if the user pressed q/ctrl+c, false if they pressed esc to go back.
func RunResultView(res Result) (bool, error) {
	p := tea.NewProgram(newResultModel(res), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	final := result.(resultModel)
	return final.wantQuit, nil
}

// wrapLines word-wraps each line of text separately, keeping line breaks.
func wrapLines(text string, width int) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = wordWrap(l, width)
	}
	return strings.Join(lines, "\n")
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
