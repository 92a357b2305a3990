package monitor

import (
	"fmt"
	"io"
	"sync"
)

// Alert writes a line for every sample it receives.
type Alert struct {
	mu    sync.Mutex
	name  string
	out   io.Writer
	count int
}

// NewAlert creates an Alert writing to out.
func NewAlert(name string, out io.Writer) *Alert {
	return &Alert{name: name, out: out}
}

// Receive writes the sample.
func (a *Alert) Receive(u Usage) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.count++
	_, err := fmt.Fprintf(a.out, "[%s] cpu %.1f%% memory %.1f%% (%d/%d bytes)\n",
		a.name, u.CPUPercent, u.MemoryPercent, u.MemoryUsed, u.MemoryTotal)
	return err
}

// Count returns the number of samples received.
func (a *Alert) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}
