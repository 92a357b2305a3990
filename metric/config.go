package metric

import (
	"errors"
	"fmt"
	"strings"
)

// Config defines the configuration for the metrics server.
type Config struct {
	Port int    `env:"METRICS_PORT"` // Port for metrics server, 0 disables it
	Path string `env:"METRICS_PATH"` // Path for metrics endpoint
}

// Default values for metrics configuration.
const (
	DefaultMetricsPort = 9090
	DefaultMetricsPath = "/metrics"
)

// Below is the Error message for the metrics configuration.
var (
	ErrInvalidPort = errors.New("invalid metrics port")
	ErrInvalidPath = errors.New("invalid metrics path")
)

// Enabled reports whether the metrics server should be started.
func (c Config) Enabled() bool {
	return c.Port != 0
}

// Validate validates the port number and the endpoint path.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("must be between 0 and 65535, given %d: %w", c.Port, ErrInvalidPort)
	}
	if c.Enabled() && !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("must start with '/', given %q: %w", c.Path, ErrInvalidPath)
	}
	return nil
}
