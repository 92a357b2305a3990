package station

import (
	"fmt"
	"io"
	"sync"

	"observer/broker/subscription"
)

// CurrentDisplay prints every measurement it receives.
type CurrentDisplay struct {
	out io.Writer
}

// NewCurrentDisplay creates a CurrentDisplay writing to out.
func NewCurrentDisplay(out io.Writer) *CurrentDisplay {
	return &CurrentDisplay{out: out}
}

// Receive prints m.
func (d *CurrentDisplay) Receive(m Measurement) error {
	_, err := fmt.Fprintf(d.out, "[current] temp = %.1f hum = %.1f pres = %.1f\n", m.Temperature, m.Humidity, m.Pressure)
	return err
}

// HighTempAlert fires once when the temperature reaches its threshold and then
// cancels its own subscription.
type HighTempAlert struct {
	mu        sync.Mutex
	threshold float64
	out       io.Writer
	token     *subscription.Token
	fired     bool
}

// NewHighTempAlert creates an alert for temperatures at or above threshold.
func NewHighTempAlert(threshold float64, out io.Writer) *HighTempAlert {
	return &HighTempAlert{threshold: threshold, out: out, token: subscription.Inert()}
}

// Attach takes over tok so the alert can cancel itself. tok is left inert.
func (a *HighTempAlert) Attach(tok *subscription.Token) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = tok.Move()
}

// Fired reports whether the alert has triggered.
func (a *HighTempAlert) Fired() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fired
}

// Receive checks the threshold and detaches after the first alert.
func (a *HighTempAlert) Receive(m Measurement) error {
	a.mu.Lock()
	if a.fired || m.Temperature < a.threshold {
		a.mu.Unlock()
		return nil
	}
	a.fired = true
	tok := a.token
	a.mu.Unlock()

	tok.Cancel()
	_, err := fmt.Fprintf(a.out, "[alert] temperature %.1f crossed the threshold %.1f\n", m.Temperature, a.threshold)
	return err
}
