// Package teatest drives bubbletea models synchronously in tests: messages
// go straight through Update and the returned commands are drained in
// place, so no tea.Program or goroutine scheduling is involved.
package teatest

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth stops runaway command chains.
const MaxDrainDepth = 100

// CmdTimeout is how long a command may block before it is dropped. Timer
// commands such as spinner ticks never finish inside it, which keeps
// animation loops from running during a test.
const CmdTimeout = 10 * time.Millisecond

// Driver feeds messages to a model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a command produced tea.QuitMsg.
	Quitting bool
}

func New(t *testing.T, model tea.Model) *Driver {
	t.Helper()
	return &Driver{T: t, Model: model}
}

// DrainInit runs the model's Init command.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
}

// Send dispatches msg through Update and drains what it returns. Messages
// sent after quitting are ignored, as a stopped program would.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drain(cmd, 0)
}

func (d *Driver) View() string {
	return d.Model.View()
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := runWithTimeout(cmd)
	switch m := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, sub := range m {
			d.drain(sub, depth+1)
		}
	case tea.QuitMsg:
		d.Quitting = true
	default:
		updated, next := d.Model.Update(m)
		d.Model = updated
		d.drain(next, depth+1)
	}
}

func runWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(CmdTimeout):
		return nil
	}
}
