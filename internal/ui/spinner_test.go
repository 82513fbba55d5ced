package ui

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("Generating key")
	assert.Equal(t, "Generating key", s.Label())
	assert.Equal(t, SpinnerPending, s.State())
}

func TestSpinnerStartStop(t *testing.T) {
	var buf strings.Builder
	var mu sync.Mutex

	s := NewSpinner("Probing")
	s.SetOutput(func(str string) {
		mu.Lock()
		buf.WriteString(str)
		mu.Unlock()
	})

	s.Start()
	assert.Equal(t, SpinnerInProgress, s.State())

	time.Sleep(50 * time.Millisecond)

	s.Stop()

	// Stop halts animation without changing state
	assert.Equal(t, SpinnerInProgress, s.State())
}

func TestSpinnerSuccess(t *testing.T) {
	var buf strings.Builder
	var mu sync.Mutex

	s := NewSpinner("Probing")
	s.SetOutput(func(str string) {
		mu.Lock()
		buf.WriteString(str)
		mu.Unlock()
	})

	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Success()

	assert.Equal(t, SpinnerSuccess, s.State())

	mu.Lock()
	output := buf.String()
	mu.Unlock()
	assert.Contains(t, output, "Probing")
	assert.Contains(t, output, SymbolComplete)
}

func TestSpinnerFail(t *testing.T) {
	var buf strings.Builder
	var mu sync.Mutex

	s := NewSpinner("Probing")
	s.SetOutput(func(str string) {
		mu.Lock()
		buf.WriteString(str)
		mu.Unlock()
	})

	s.Start()
	s.Fail()

	assert.Equal(t, SpinnerFailed, s.State())

	mu.Lock()
	output := buf.String()
	mu.Unlock()
	assert.Contains(t, output, SymbolFail)
}

func TestSpinnerSkip(t *testing.T) {
	s := NewSpinner("Probing")
	s.SetOutput(func(string) {})

	s.Start()
	s.Skip()

	assert.Equal(t, SpinnerSkipped, s.State())
}

func TestSpinnerDoubleStart(t *testing.T) {
	s := NewSpinner("Probing")
	s.SetOutput(func(string) {})

	s.Start()
	s.Start() // second start is a no-op
	s.Stop()
	s.Stop() // second stop is a no-op
}

func TestSpinnerSetLabel(t *testing.T) {
	s := NewSpinner("before")
	s.SetLabel("after")
	assert.Equal(t, "after", s.Label())
}

func TestSpinnerElapsed(t *testing.T) {
	s := NewSpinner("Probing")
	assert.Equal(t, time.Duration(0), s.Elapsed())

	s.SetOutput(func(string) {})
	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Stop()

	assert.Greater(t, s.Elapsed(), time.Duration(0))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0.05s", formatDuration(50*time.Millisecond))
	assert.Equal(t, "0.3s", formatDuration(300*time.Millisecond))
	assert.Equal(t, "1.2s", formatDuration(1200*time.Millisecond))
}
