package scan

import (
	"bufio"
	"context"
	"io"
	"log"
	"time"
)

// Listener drives a Decoder from a live character stream (the terminal's
// stdin). Gate, when set, suppresses decoding while input focus belongs
// elsewhere — the analog of ignoring keystrokes inside text fields or open
// dialogs.
type Listener struct {
	decoder *Decoder
	input   io.Reader
	gate    func() bool
	logger  *log.Logger

	carried chan string
}

// NewListener wires a decoder to an input stream.
func NewListener(decoder *Decoder, input io.Reader, gate func() bool, logger *log.Logger) *Listener {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Listener{
		decoder: decoder,
		input:   input,
		gate:    gate,
		logger:  logger,
		carried: make(chan string, 1),
	}
}

// Carry queues an externally supplied code for one-shot processing. A second
// carry before the first is consumed replaces it.
func (l *Listener) Carry(code string) {
	select {
	case <-l.carried:
	default:
	}
	l.carried <- code
}

// Run reads keystrokes until ctx is done or the input stream closes. Each
// carried code is pushed exactly once and then discarded, without waiting for
// the next keystroke.
func (l *Listener) Run(ctx context.Context) {
	reader := bufio.NewReader(l.input)
	runes := make(chan rune)
	readErr := make(chan error, 1)
	go func() {
		for {
			r, _, err := reader.ReadRune()
			if err != nil {
				readErr <- err
				return
			}
			runes <- r
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case code := <-l.carried:
			l.decoder.Push(code)
		case err := <-readErr:
			if err != io.EOF {
				l.logger.Printf("scan listener: read: %v", err)
			}
			return
		case r := <-runes:
			if l.gate != nil && !l.gate() {
				continue
			}
			l.decoder.Feed(r, time.Now())
		}
	}
}
