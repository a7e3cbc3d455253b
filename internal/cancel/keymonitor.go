package cancel

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// pollInterval bounds how long a deadline-based stdin read blocks, so Close
// can reclaim the terminal promptly.
const pollInterval = 150 * time.Millisecond

// isStopKey reports whether b requests cancellation: q, Q, Esc, or Ctrl+C
// (raw mode disables the usual SIGINT delivery).
func isStopKey(b byte) bool {
	return b == 'q' || b == 'Q' || b == 0x1b || b == 0x03
}

// KeyMonitor stops a search when a stop key is pressed. It puts the terminal
// into raw mode and watches stdin on a background goroutine; output is never
// blocked. When stdin is not a terminal the monitor is inert: Stopped always
// reports false and Close is a no-op.
type KeyMonitor struct {
	flag        Flag
	in          *os.File
	fd          int
	oldState    *term.State
	canDeadline bool
	done        chan struct{}
	idle        chan struct{}
	closeOnce   sync.Once
}

// NewKeyMonitor starts watching in for stop keys. Close must be called to
// restore the terminal before any other stdin use.
func NewKeyMonitor(in *os.File) (*KeyMonitor, error) {
	m := &KeyMonitor{
		in:   in,
		done: make(chan struct{}),
		idle: make(chan struct{}),
	}
	if in == nil || !isatty.IsTerminal(in.Fd()) {
		close(m.idle)
		return m, nil
	}
	fd := int(in.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		close(m.idle)
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}
	m.fd = fd
	m.oldState = oldState
	m.canDeadline = in.SetReadDeadline(time.Time{}) == nil
	go m.readLoop()
	return m, nil
}

// Active reports whether key presses are actually being watched, i.e. stdin
// is a terminal.
func (m *KeyMonitor) Active() bool {
	return m.oldState != nil
}

// Stopped reports whether a stop key has been pressed.
func (m *KeyMonitor) Stopped() bool {
	return m.flag.Stopped()
}

// Close stops watching and restores the terminal state. Safe to call more
// than once.
func (m *KeyMonitor) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.done)
		if m.oldState == nil {
			return
		}
		if m.canDeadline {
			// The reader wakes within one poll interval and exits.
			<-m.idle
			_ = m.in.SetReadDeadline(time.Time{})
		}
		err = term.Restore(m.fd, m.oldState)
	})
	return err
}

func (m *KeyMonitor) readLoop() {
	defer close(m.idle)
	buf := make([]byte, 1)
	for {
		select {
		case <-m.done:
			return
		default:
		}
		if m.canDeadline {
			_ = m.in.SetReadDeadline(time.Now().Add(pollInterval))
		}
		n, err := m.in.Read(buf)
		if n == 1 && isStopKey(buf[0]) {
			m.flag.Stop()
			return
		}
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			return
		}
	}
}
