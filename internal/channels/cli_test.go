package channels

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScriptedCLI(a *fakeAssistant, input string, summary bool) (*CLIChannel, *bytes.Buffer) {
	out := &bytes.Buffer{}
	c := NewCLIChannel(a, CLIOptions{
		In:             strings.NewReader(input),
		Out:            out,
		StartupSummary: summary,
	})
	return c, out
}

func TestCLI_QuitEndsSession(t *testing.T) {
	a := &fakeAssistant{reply: "Created record.", ok: true}
	c, out := newScriptedCLI(a, "add a task\n\nQUIT\nnever read\n", false)

	require.NoError(t, c.Start(context.Background()))

	assert.Equal(t, []string{"add a task"}, a.seen())
	s := out.String()
	assert.Contains(t, s, "Agent Smith, to your service")
	assert.Contains(t, s, "Ready for your commands!")
	assert.Contains(t, s, "Created record.")
	assert.Contains(t, s, "Goodbye! 👋")
	assert.NotContains(t, s, "Reviewing your backlog")
}

func TestCLI_EOFEndsSession(t *testing.T) {
	a := &fakeAssistant{ok: false}
	c, out := newScriptedCLI(a, "do something\n", false)

	require.NoError(t, c.Start(context.Background()))

	assert.Equal(t, []string{"do something"}, a.seen())
	assert.Contains(t, out.String(), NoResultText)
	assert.NotContains(t, out.String(), "Goodbye")
}

func TestCLI_StartupSummary(t *testing.T) {
	a := &fakeAssistant{summary: "Nothing overdue.", summaryOK: true}
	c, out := newScriptedCLI(a, "exit\n", true)

	require.NoError(t, c.Start(context.Background()))

	s := out.String()
	assert.Contains(t, s, "🔍 Reviewing your backlog...")
	assert.Contains(t, s, "📋 Backlog Summary:\nNothing overdue.")
	assert.Less(t, strings.Index(s, "Nothing overdue."), strings.Index(s, "Ready for your commands!"))
	assert.Empty(t, a.seen())
}

func TestCLI_Once(t *testing.T) {
	a := &fakeAssistant{reply: "Found 2 records.", ok: true}
	c, out := newScriptedCLI(a, "", false)

	require.NoError(t, c.Once(context.Background(), "list tasks"))

	assert.Equal(t, []string{"list tasks"}, a.seen())
	assert.Equal(t, "Found 2 records.\n", out.String())
}

func TestCLI_OnceReturnsRunError(t *testing.T) {
	runErr := errors.New("provider down")
	c, out := newScriptedCLI(&fakeAssistant{err: runErr}, "", false)

	err := c.Once(context.Background(), "list tasks")

	assert.ErrorIs(t, err, runErr)
	assert.Contains(t, out.String(), ErrorTextPrefix+"provider down")
}

func TestCLI_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, _ := newScriptedCLI(&fakeAssistant{}, "", false)
	err := c.Start(ctx)
	// Either the read or the cancellation can win; both end the session.
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}
