package formatter

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/appletgen/internal/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinnerModel_TicksUntilDone(t *testing.T) {
	m := newSpinnerModel("Synthesizing...")
	d := teatest.New(t, m)
	d.DrainInit()

	first := stripANSI(d.View())
	assert.Contains(t, first, "Synthesizing...")

	d.Send(m.spinner.Tick())
	assert.Contains(t, stripANSI(d.View()), "Synthesizing...")
	assert.False(t, d.Quitting)

	boom := errors.New("boom")
	d.Send(spinnerDoneMsg{err: boom})
	assert.True(t, d.Quitting)
	assert.Empty(t, d.View())

	final, ok := d.Model.(spinnerModel)
	require.True(t, ok)
	assert.ErrorIs(t, final.err, boom)
}

func TestWithSpinner_PlainRunsInline(t *testing.T) {
	var out bytes.Buffer
	called := false

	err := WithSpinner(context.Background(), &out, "working", false, func(context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Zero(t, out.Len())
}

func TestWithSpinner_AnimatedReturnsResult(t *testing.T) {
	var out bytes.Buffer
	boom := errors.New("model unavailable")

	err := WithSpinner(context.Background(), &out, "working", true, func(context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}
