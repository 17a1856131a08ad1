package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ErrCancelled is returned by RunLoader when the user pressed ctrl+c.
var ErrCancelled = errors.New("cancelled")

type workDoneMsg[T any] struct {
	result T
	err    error
}

type spinnerTickMsg struct{}

type loaderModel[T any] struct {
	label  string
	ctx    context.Context
	cancel context.CancelFunc
	work   func(ctx context.Context) (T, error)
	frame  int
	result T
	err    error
	done   bool
}

func (m loaderModel[T]) Init() tea.Cmd {
	return tea.Batch(m.doWork(), m.tick())
}

func (m loaderModel[T]) doWork() tea.Cmd {
	ctx, work := m.ctx, m.work
	return func() tea.Msg {
		result, err := work(ctx)
		return workDoneMsg[T]{result: result, err: err}
	}
}

func (m loaderModel[T]) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m loaderModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workDoneMsg[T]:
		m.result = msg.result
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, m.tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel[T]) View() string {
	if m.done {
		return ""
	}
	spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(spinnerFrames[m.frame])
	return fmt.Sprintf("%s %s...\n", spinner, m.label)
}

// RunLoader shows a spinner labelled label while work runs. It renders inline
// (no alt screen). ctrl+c cancels the context passed to work.
func RunLoader[T any](ctx context.Context, label string, work func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := loaderModel[T]{
		label:  label,
		ctx:    ctx,
		cancel: cancel,
		work:   work,
	}
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		var zero T
		return zero, err
	}
	final := result.(loaderModel[T])
	return final.result, final.err
}
