package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nfalab"
)

func newWorkspace(t *testing.T, pattern, input string) *nfalab.Workspace {
	t.Helper()
	ws, err := nfalab.New().NewWorkspace(context.Background(), "test", pattern, input)
	require.NoError(t, err)
	return ws
}

// syncBuffer is a bytes.Buffer safe for a writer and a polling reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// chanSource feeds commands pushed by the test.
type chanSource chan Command

func (c chanSource) Next(ctx context.Context) (Command, error) {
	select {
	case <-ctx.Done():
		return CommandNone, ctx.Err()
	case cmd := <-c:
		return cmd, nil
	}
}

// blockingSource ignores ctx, like a read on stdin, and unblocks on Close.
type blockingSource struct {
	closed chan struct{}
	exited chan struct{}
}

func (b *blockingSource) Next(ctx context.Context) (Command, error) {
	<-b.closed
	close(b.exited)
	return CommandNone, io.ErrClosedPipe
}

func (b *blockingSource) Close() error {
	close(b.closed)
	return nil
}

func TestRunner_Run_ClosesSource(t *testing.T) {
	ws := newWorkspace(t, "ab", "ab")
	src := &blockingSource{closed: make(chan struct{}), exited: make(chan struct{})}
	r := NewRunner(WithCommandSource(src), WithOutput(&bytes.Buffer{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Run(ctx, ws), context.Canceled)

	select {
	case <-src.exited:
	case <-time.After(2 * time.Second):
		t.Fatal("source still blocked after Run returned")
	}
}

func TestRunner_Run_Navigation(t *testing.T) {
	ws := newWorkspace(t, "ab", "ab")
	out := &bytes.Buffer{}

	r := NewRunner(
		WithCommandSource(NewLineSource(strings.NewReader("n\nn\nn\np\nr\nq\nn\n"))),
		WithOutput(out),
	)
	require.NoError(t, r.Run(context.Background(), ws))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, Help+"\n"))
	assert.Contains(t, text, "[0/2] ab  active {0}  running 0/2")
	assert.Contains(t, text, "[2/2] ab  active {3}  ACCEPTED")
	assert.Equal(t, 0, ws.View().Index, "the command after quit is never applied")
	assert.Equal(t, 6, strings.Count(text, "\n"), "forward at the end does not redraw")
}

func TestRunner_Run_EndOfInput(t *testing.T) {
	ws := newWorkspace(t, "a|b", "c")
	out := &bytes.Buffer{}

	r := NewRunner(
		WithCommandSource(NewLineSource(strings.NewReader("n\n"))),
		WithOutput(out),
		WithTrace(true),
	)
	require.NoError(t, r.Run(context.Background(), ws))

	assert.Contains(t, out.String(), "REJECTED")
	assert.Contains(t, out.String(), "**Rejected**")
	assert.Contains(t, out.String(), "| ▶ | 1 | `c` | {} | no |")
}

func TestRunner_Run_RawTerminal(t *testing.T) {
	ws := newWorkspace(t, "a", "a")
	out := &bytes.Buffer{}

	r := NewRunner(
		WithCommandSource(NewKeySource(strings.NewReader("q"))),
		WithOutput(out),
		WithRawTerminal(true),
	)
	require.NoError(t, r.Run(context.Background(), ws))
	assert.Equal(t, Help+"\r\n[0/1] a  active {0}  running 0/1\r\n", out.String())
}

func TestRunner_Run_Autoplay(t *testing.T) {
	ws := newWorkspace(t, "a*", "aaa")
	out := &syncBuffer{}
	src := make(chanSource)

	r := NewRunner(
		WithCommandSource(src),
		WithOutput(out),
		WithInterval(time.Millisecond),
	)

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background(), ws) }()

	src <- CommandTogglePlay
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "[3/3]")
	}, 2*time.Second, 5*time.Millisecond)
	src <- CommandQuit

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
	assert.Contains(t, out.String(), "playing")
	assert.True(t, ws.View().Accepted)
}

func TestRunner_Run_ContextCancel(t *testing.T) {
	ws := newWorkspace(t, "a", "a")
	ctx, cancel := context.WithCancel(context.Background())

	r := NewRunner(WithCommandSource(make(chanSource)), WithOutput(&bytes.Buffer{}))

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, ws) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("runner ignored cancellation")
	}
}

func TestRunner_Play(t *testing.T) {
	ws := newWorkspace(t, "a(b|c)*d", "abcd")
	out := &bytes.Buffer{}

	rendered := false
	r := NewRunner(
		WithOutput(out),
		WithInterval(time.Millisecond),
		WithTrace(true),
		WithRenderer(func(md string) (string, error) {
			rendered = true
			return md, nil
		}),
	)
	require.NoError(t, r.Play(context.Background(), ws))

	assert.Equal(t, 4, ws.View().Index)
	assert.Contains(t, out.String(), "[4/4] abcd")
	assert.Contains(t, out.String(), "**Accepted**")
	assert.True(t, rendered)
}

func TestRunner_Play_Cancelled(t *testing.T) {
	ws := newWorkspace(t, "a", "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(WithOutput(&bytes.Buffer{}), WithInterval(time.Hour))
	assert.ErrorIs(t, r.Play(ctx, ws), context.Canceled)
	assert.Equal(t, 0, ws.View().Index)
}
