package formatter

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type spinnerDoneMsg struct{ err error }

type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
}

func newSpinnerModel(message string) spinnerModel {
	return spinnerModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(StylePurple),
		),
		message: message,
	}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("  %s %s", m.spinner.View(), Dim(m.message))
}

// WithSpinner runs fn while a spinner animates on w. When animate is false
// fn runs directly; callers pass false for non-terminal output.
func WithSpinner(ctx context.Context, w io.Writer, message string, animate bool, fn func(context.Context) error) error {
	if !animate {
		return fn(ctx)
	}

	p := tea.NewProgram(newSpinnerModel(message),
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
		tea.WithContext(ctx),
	)

	result := make(chan error, 1)
	go func() {
		err := fn(ctx)
		result <- err
		p.Send(spinnerDoneMsg{err: err})
	}()

	// A cancelled program only stops the animation; fn owns the outcome.
	_, _ = p.Run()
	return <-result
}
