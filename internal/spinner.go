package internal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

var frames = []string{"⠇", "⠋", "⠙", "⠸", "⢰", "⣠", "⣄", "⡆"}

type Spinner struct {
	out      io.Writer
	frames   []string
	pos      int
	mu       sync.Mutex
	message  string
	stopChan chan struct{}
	doneChan chan struct{}

	// outMu serialises the spinner frames and wrapped writes on out
	outMu sync.Mutex
	drawn bool
}

func NewSpinner() *Spinner {
	return NewSpinnerTo(os.Stderr)
}

func NewSpinnerTo(out io.Writer) *Spinner {
	return &Spinner{
		out:    out,
		frames: frames,
	}
}

// StderrIsTerminal reports whether progress can be drawn without garbling
// redirected output.
func StderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func (s *Spinner) Next() string {
	if len(s.frames) == 0 {
		return ""
	}
	frame := s.frames[s.pos]
	s.pos = (s.pos + 1) % len(s.frames)
	return frame
}

// SetMessage replaces the text next to the spinner. Safe to call while the
// spinner is running.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

func (s *Spinner) Start(message string) {
	if s.stopChan != nil {
		return
	}
	s.SetMessage(message)
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	go func() {
		defer close(s.doneChan)
		for {
			s.outMu.Lock()
			fmt.Fprintf(s.out, "\r\033[K%s %s", s.Next(), s.Message())
			s.drawn = true
			s.outMu.Unlock()
			select {
			case <-s.stopChan:
				return
			case <-time.After(100 * time.Millisecond):
			}
		}
	}()
}

func (s *Spinner) Stop() {
	if s.stopChan != nil {
		close(s.stopChan)
		<-s.doneChan
		s.stopChan = nil
		s.doneChan = nil
		s.outMu.Lock()
		fmt.Fprintf(s.out, "\r\033[K")
		s.drawn = false
		s.outMu.Unlock()
	}
}

// Wrap returns a writer that clears the spinner line before each write to w,
// so log lines start on a line of their own. The next frame redraws the
// spinner below them.
func (s *Spinner) Wrap(w io.Writer) io.Writer {
	return &spinnerWriter{spinner: s, w: w}
}

type spinnerWriter struct {
	spinner *Spinner
	w       io.Writer
}

func (sw *spinnerWriter) Write(p []byte) (int, error) {
	s := sw.spinner
	s.outMu.Lock()
	defer s.outMu.Unlock()
	if s.drawn {
		fmt.Fprintf(s.out, "\r\033[K")
		s.drawn = false
	}
	return sw.w.Write(p)
}
