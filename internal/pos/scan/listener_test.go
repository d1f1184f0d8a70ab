package scan

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func emitChan() (chan string, func(string)) {
	ch := make(chan string, 8)
	return ch, func(code string) { ch <- code }
}

func waitCode(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case code := <-ch:
		return code
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a code")
		return ""
	}
}

func TestListenerCarriedCodeDeliveredWithoutInput(t *testing.T) {
	ch, emit := emitChan()
	d := NewDecoder(DefaultWindow, emit)

	// The pipe stays silent: delivery must not wait for a keystroke.
	pr, pw := io.Pipe()
	defer pw.Close()

	l := NewListener(d, pr, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	l.Carry("8991234500017")
	require.Equal(t, "8991234500017", waitCode(t, ch))

	// One-shot: nothing left to deliver.
	select {
	case code := <-ch:
		t.Fatalf("unexpected second code %q", code)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestListenerCarryReplacesPendingCode(t *testing.T) {
	ch, emit := emitChan()
	d := NewDecoder(DefaultWindow, emit)

	pr, pw := io.Pipe()
	defer pw.Close()

	l := NewListener(d, pr, nil, nil)
	l.Carry("first")
	l.Carry("second")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	require.Equal(t, "second", waitCode(t, ch))
}

func TestListenerGateSuppressesKeystrokes(t *testing.T) {
	ch, emit := emitChan()
	d := NewDecoder(DefaultWindow, emit)

	open := false
	gate := func() bool { return open }

	l := NewListener(d, strings.NewReader("A1B2C3\n"), gate, nil)
	l.Run(context.Background())
	require.Empty(t, ch)

	open = true
	l = NewListener(d, strings.NewReader("A1B2C3\n"), gate, nil)
	l.Run(context.Background())
	require.Equal(t, "A1B2C3", waitCode(t, ch))
}

func TestListenerStopsOnClosedInput(t *testing.T) {
	ch, emit := emitChan()
	d := NewDecoder(DefaultWindow, emit)

	done := make(chan struct{})
	l := NewListener(d, strings.NewReader("123456\n"), nil, nil)
	go func() {
		defer close(done)
		l.Run(context.Background())
	}()

	require.Equal(t, "123456", waitCode(t, ch))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop at end of input")
	}
}
