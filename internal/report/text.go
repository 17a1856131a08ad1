package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/atsmatch/internal/model"
)

var _ model.Reporter = (*TextReporter)(nil)

const barWidth = 20

// TextReporter prints results for a human reader.
type TextReporter struct {
	w     io.Writer
	title lipgloss.Style
	fill  lipgloss.Style
	empty lipgloss.Style
	done  lipgloss.Style
}

// NewTextReporter returns a reporter writing to w. Styling degrades to plain
// text when w is not a terminal.
func NewTextReporter(w io.Writer) *TextReporter {
	r := lipgloss.NewRenderer(w)
	return &TextReporter{
		w:     w,
		title: r.NewStyle().Bold(true),
		fill:  r.NewStyle().Foreground(lipgloss.Color("42")),
		empty: r.NewStyle().Foreground(lipgloss.Color("240")),
		done:  r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	}
}

// ReportAnalysis prints every fragment, the match percentage with a bar and a
// completion line.
func (t *TextReporter) ReportAnalysis(a model.Analysis) error {
	if a.Empty {
		_, err := fmt.Fprintln(t.w, "No analysis was returned.")
		return err
	}

	var b strings.Builder
	for _, f := range a.Fragments {
		b.WriteString(f)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if a.Score.Known {
		fmt.Fprintf(&b, "%s %d%%\n", t.title.Render("Your Resume Match Percentage:"), a.Score.Value)
		b.WriteString(t.bar(a.Score.Value))
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, "%s unavailable\n", t.title.Render("Your Resume Match Percentage:"))
	}
	if a.Cached {
		b.WriteString("(replayed from history)\n")
	}
	b.WriteString(t.done.Render("Analysis Complete!"))
	b.WriteString("\n")

	_, err := io.WriteString(t.w, b.String())
	return err
}

// ReportRephrase prints the rewritten text and a completion line.
func (t *TextReporter) ReportRephrase(r model.Rephrasal) error {
	if r.Empty {
		_, err := fmt.Fprintln(t.w, "No rephrased text was returned.")
		return err
	}

	var b strings.Builder
	for _, f := range r.Fragments {
		b.WriteString(f)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if r.Cached {
		b.WriteString("(replayed from history)\n")
	}
	b.WriteString(t.done.Render("Rephrasing Complete!"))
	b.WriteString("\n")

	_, err := io.WriteString(t.w, b.String())
	return err
}

func (t *TextReporter) bar(percent int) string {
	filled := Filled(percent, barWidth)
	return "[" + t.fill.Render(strings.Repeat("█", filled)) +
		t.empty.Render(strings.Repeat("░", barWidth-filled)) + "]"
}

// Filled returns how many of width cells a percentage occupies, clamped to
// [0, width]. Scores above 100 fill the bar.
func Filled(percent, width int) int {
	switch {
	case percent <= 0:
		return 0
	case percent >= 100:
		return width
	}
	return percent * width / 100
}
