package spinner

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a single status line on w. A nil writer disables output.
type Spinner struct {
	w       io.Writer
	delay   time.Duration
	message string
	width   int
	active  bool
	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
}

func New(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		delay:   100 * time.Millisecond,
		message: message,
	}
}

func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active || s.w == nil {
		return
	}
	s.active = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.loop(s.stop, s.done)
}

func (s *Spinner) loop(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()

	for i := 0; ; i++ {
		s.render(frames[i%len(frames)])
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

func (s *Spinner) render(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := fmt.Sprintf("%s %s", frame, s.message)
	s.width = max(s.width, len(line))
	fmt.Fprintf(s.w, "\r%s", line)
}

// Stop halts the animation and clears the line. It blocks until the
// render goroutine has exited.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	stop, done := s.stop, s.done
	s.mu.Unlock()

	close(stop)
	<-done

	s.mu.Lock()
	fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.width)+"\r")
	s.mu.Unlock()
}

func (s *Spinner) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Progress sets the message to "<label> done/total".
func (s *Spinner) Progress(label string, done, total int) {
	s.Update(fmt.Sprintf("%s %d/%d", label, done, total))
}

func (s *Spinner) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
