package scan

import (
	"strings"
	"time"
	"unicode"
)

// DefaultWindow is the inactivity gap that separates a scanner burst from
// human typing. It is a heuristic, not a guarantee: a fast enough typist can
// still produce a false scan.
const DefaultWindow = 100 * time.Millisecond

// Decoder turns a timestamped character stream into discrete barcode events.
// A hardware scanner behaves like a very fast keyboard terminated by Enter;
// characters separated by more than the window are treated as unrelated typing
// and discarded. The decoder is pure state over explicit timestamps, so tests
// feed it synthetic clocks.
type Decoder struct {
	window time.Duration
	emit   func(code string)

	buf  []rune
	last time.Time
}

// NewDecoder builds a Decoder emitting completed codes through emit. A
// non-positive window falls back to DefaultWindow.
func NewDecoder(window time.Duration, emit func(code string)) *Decoder {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Decoder{window: window, emit: emit}
}

// Feed consumes one keystroke observed at the given time. Enter terminates the
// buffer; any other printable rune accumulates.
func (d *Decoder) Feed(r rune, at time.Time) {
	if r == '\n' || r == '\r' {
		d.terminate(at)
		return
	}
	if !unicode.IsPrint(r) || r == ' ' {
		return
	}
	if len(d.buf) > 0 && at.Sub(d.last) > d.window {
		// The burst went quiet; whatever accumulated was human typing.
		d.buf = d.buf[:0]
	}
	d.buf = append(d.buf, r)
	d.last = at
}

func (d *Decoder) terminate(at time.Time) {
	if len(d.buf) > 0 && at.Sub(d.last) > d.window {
		d.buf = d.buf[:0]
		return
	}
	code := strings.TrimSpace(string(d.buf))
	d.buf = d.buf[:0]
	if code != "" && d.emit != nil {
		d.emit(code)
	}
}

// Push feeds an externally supplied code (e.g. carried over from another
// screen) straight through, bypassing the timing heuristic. The caller is
// responsible for handing each carried code over only once.
func (d *Decoder) Push(code string) {
	code = strings.TrimSpace(code)
	if code != "" && d.emit != nil {
		d.emit(code)
	}
}
