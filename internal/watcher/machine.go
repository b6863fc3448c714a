// Package watcher re-triggers analysis when watched files change.
package watcher

import (
	"errors"
	"sync"
	"time"
)

type State int

const (
	Idle State = iota
	Watching
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Watching:
		return "watching"
	default:
		return "unknown"
	}
}

var ErrAlreadyWatching = errors.New("watcher is already watching")

// Machine is the idle/watching state machine. Events arrive through Event,
// time advances through Tick. A Tick reports true once the debounce window
// after the latest event has passed; that is the signal to analyze.
type Machine struct {
	mu        sync.Mutex
	state     State
	debounce  time.Duration
	pending   bool
	lastEvent time.Time
}

func NewMachine(debounce time.Duration) *Machine {
	return &Machine{debounce: debounce}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Watching {
		return ErrAlreadyWatching
	}
	m.state = Watching
	m.pending = false
	return nil
}

// Stop returns to idle and drops any pending change.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Idle
	m.pending = false
}

// Event records a change. Events while idle are ignored.
func (m *Machine) Event(at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Watching {
		return
	}
	m.pending = true
	m.lastEvent = at
}

func (m *Machine) Tick(at time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Watching || !m.pending {
		return false
	}
	if at.Sub(m.lastEvent) < m.debounce {
		return false
	}
	m.pending = false
	return true
}
