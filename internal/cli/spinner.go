package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a message on a terminal while a request is in flight.
// On other writers it stays silent.
type spinner struct {
	w       io.Writer
	message string
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// startSpinner draws message on stderr until Stop is called.
func startSpinner(message string) *spinner {
	return startSpinnerOn(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()), message)
}

func startSpinnerOn(w io.Writer, animate bool, message string) *spinner {
	s := &spinner{w: w, message: message, done: make(chan struct{}), stopped: make(chan struct{})}
	if !animate {
		close(s.stopped)
		return s
	}
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-s.done:
				fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
			}
		}
	}()
	return s
}

// Stop clears the line. It is safe to call more than once.
func (s *spinner) Stop() {
	s.once.Do(func() { close(s.done) })
	<-s.stopped
}

// withSpinner runs fn while a spinner shows message.
func withSpinner(message string, fn func() error) error {
	s := startSpinner(message)
	defer s.Stop()
	return fn()
}
