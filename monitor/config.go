package monitor

import (
	"errors"
	"fmt"
	"time"
)

// Default values for the monitor. If the values are not set, these values are used.
const (
	DefaultInterval = time.Second
	DefaultSamples  = 5
)

// ErrInvalidInterval is returned when the sampling interval is not positive.
var ErrInvalidInterval = errors.New("invalid sampling interval")

// Config contains the configuration for the monitor.
type Config struct {
	Interval time.Duration `env:"MONITOR_INTERVAL"`
	Samples  int           `env:"MONITOR_SAMPLES"` // 0 samples until the context is done
}

// Validate checks the sampling interval and count.
func (c Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("given %s: %w", c.Interval, ErrInvalidInterval)
	}
	if c.Samples < 0 {
		return fmt.Errorf("sample count must not be negative, given %d", c.Samples)
	}
	return nil
}
