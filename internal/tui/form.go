package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	formLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(1, 0, 0, 2)

	formErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(1, 0, 0, 2)

	formFieldStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 2)
)

// AnalyzerInput is what the analyzer form collects.
type AnalyzerInput struct {
	ResumePath     string
	JobDescription string
}

const (
	focusResume = iota
	focusJD
)

type analyzerFormModel struct {
	resume    textinput.Model
	jd        textarea.Model
	focus     int
	errMsg    string
	submitted bool
	cancelled bool
}

func newAnalyzerForm() analyzerFormModel {
	resume := textinput.New()
	resume.Placeholder = "path/to/resume.pdf or .docx"
	resume.Width = 60
	resume.Focus()

	jd := textarea.New()
	jd.Placeholder = "Paste the job description here"
	jd.ShowLineNumbers = false
	jd.CharLimit = 0
	jd.SetWidth(80)
	jd.SetHeight(10)

	return analyzerFormModel{resume: resume, jd: jd}
}

func (m analyzerFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m analyzerFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "tab", "shift+tab":
			return m.toggleFocus()
		case "ctrl+s":
			m.errMsg = m.validate()
			if m.errMsg == "" {
				m.submitted = true
				return m, tea.Quit
			}
			return m, nil
		case "enter":
			if m.focus == focusResume {
				return m.toggleFocus()
			}
		}
	}

	var cmd tea.Cmd
	if m.focus == focusResume {
		m.resume, cmd = m.resume.Update(msg)
	} else {
		m.jd, cmd = m.jd.Update(msg)
	}
	return m, cmd
}

func (m analyzerFormModel) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == focusResume {
		m.focus = focusJD
		m.resume.Blur()
		return m, m.jd.Focus()
	}
	m.focus = focusResume
	m.jd.Blur()
	return m, m.resume.Focus()
}

func (m analyzerFormModel) validate() string {
	if strings.TrimSpace(m.resume.Value()) == "" || strings.TrimSpace(m.jd.Value()) == "" {
		return "Please upload your resume and provide a job description."
	}
	return ""
}

func (m analyzerFormModel) input() AnalyzerInput {
	return AnalyzerInput{
		ResumePath:     strings.TrimSpace(m.resume.Value()),
		JobDescription: m.jd.Value(),
	}
}

func (m analyzerFormModel) View() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render("Resume Analyzer"))
	b.WriteString("\n")
	b.WriteString(formLabelStyle.Render("Upload your resume (PDF or DOCX)"))
	b.WriteString("\n")
	b.WriteString(formFieldStyle.Render(m.resume.View()))
	b.WriteString("\n")
	b.WriteString(formLabelStyle.Render("Job Description"))
	b.WriteString("\n")
	b.WriteString(formFieldStyle.Render(m.jd.View()))
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(formErrorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(pickerHintStyle.Render("tab switch field  ctrl+s analyze  esc back"))
	return b.String()
}

// RunAnalyzerForm asks for a resume path and a job description. ok is false
// when the user backed out.
func RunAnalyzerForm() (in AnalyzerInput, ok bool, err error) {
	p := tea.NewProgram(newAnalyzerForm())
	result, err := p.Run()
	if err != nil {
		return AnalyzerInput{}, false, err
	}
	final := result.(analyzerFormModel)
	if !final.submitted {
		return AnalyzerInput{}, false, nil
	}
	return final.input(), true, nil
}

type rephraseFormModel struct {
	text      textarea.Model
	errMsg    string
	submitted bool
}

func newRephraseForm() rephraseFormModel {
	text := textarea.New()
	text.Placeholder = "Enter the text you want to rephrase"
	text.ShowLineNumbers = false
	text.CharLimit = 0
	text.SetWidth(80)
	text.SetHeight(8)
	text.Focus()
	return rephraseFormModel{text: text}
}

func (m rephraseFormModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m rephraseFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+s":
			if strings.TrimSpace(m.text.Value()) == "" {
				m.errMsg = "Please enter some text to rephrase."
				return m, nil
			}
			m.submitted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.text, cmd = m.text.Update(msg)
	return m, cmd
}

func (m rephraseFormModel) View() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render("Magic Write"))
	b.WriteString("\n")
	b.WriteString(formLabelStyle.Render("Text to rephrase"))
	b.WriteString("\n")
	b.WriteString(formFieldStyle.Render(m.text.View()))
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(formErrorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(pickerHintStyle.Render("ctrl+s rephrase  esc back"))
	return b.String()
}

// RunRephraseForm asks for the text to rephrase. ok is false when the user
// backed out.
func RunRephraseForm() (text string, ok bool, err error) {
	p := tea.NewProgram(newRephraseForm())
	result, err := p.Run()
	if err != nil {
		return "", false, err
	}
	final := result.(rephraseFormModel)
	if !final.submitted {
		return "", false, nil
	}
	return final.text.Value(), true, nil
}
