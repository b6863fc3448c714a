package spinner

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	s := New(&bytes.Buffer{}, "Testing spinner")

	assert.Equal(t, "Testing spinner", s.message)
	assert.False(t, s.Active())
	assert.NotZero(t, s.delay)
}

func TestSpinnerStartStop(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, "Test message")

	s.Start()
	assert.True(t, s.Active())

	time.Sleep(10 * time.Millisecond)

	s.Stop()
	assert.False(t, s.Active())
	assert.Contains(t, buf.String(), "Test message")
	assert.True(t, strings.HasSuffix(buf.String(), "\r"), "line is cleared on stop")
}

func TestSpinnerDoubleStart(t *testing.T) {
	s := New(&bytes.Buffer{}, "Test message")

	s.Start()
	s.Start()
	assert.True(t, s.Active())

	s.Stop()
}

func TestSpinnerDoubleStop(t *testing.T) {
	s := New(&bytes.Buffer{}, "Test message")

	s.Start()
	s.Stop()
	s.Stop()
	assert.False(t, s.Active())
}

func TestSpinnerRestart(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, "first")

	s.Start()
	s.Stop()
	s.Update("second")
	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Stop()

	assert.Contains(t, buf.String(), "second")
}

func TestSpinnerNilWriter(t *testing.T) {
	s := New(nil, "quiet")

	s.Start()
	assert.False(t, s.Active())
	s.Stop()
}

func TestSpinnerProgress(t *testing.T) {
	s := New(&bytes.Buffer{}, "")

	s.Progress("Analyzing", 3, 4)
	assert.Equal(t, "Analyzing 3/4", s.message)
}
