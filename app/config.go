// Package app wires the demo publishers, their observers and the metrics server.
package app

import (
	"errors"
	"fmt"
	"slices"

	"observer/metric"
	"observer/monitor"
)

// Names of the demos that can be run.
const (
	DemoWeather = "weather"
	DemoChat    = "chat"
	DemoMarket  = "market"
	DemoMonitor = "monitor"
	DemoAll     = "all"
)

// Demos lists every runnable demo in the order they run.
var Demos = []string{DemoWeather, DemoChat, DemoMarket, DemoMonitor}

// ErrUnknownDemo is returned when a configured demo does not exist.
var ErrUnknownDemo = errors.New("unknown demo")

// Config contains the configuration for the App.
type Config struct {
	Demos   []string `env:"DEMOS" envSeparator:","`
	Debug   bool     `env:"DEBUG"`
	Metrics metric.Config
	Monitor monitor.Config
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Demos: []string{DemoAll},
		Metrics: metric.Config{
			Port: 0,
			Path: metric.DefaultMetricsPath,
		},
		Monitor: monitor.Config{
			Interval: monitor.DefaultInterval,
			Samples:  monitor.DefaultSamples,
		},
	}
}

// Selected returns the demos to run, with "all" expanded, in run order.
func (c Config) Selected() []string {
	if slices.Contains(c.Demos, DemoAll) {
		return slices.Clone(Demos)
	}
	selected := make([]string, 0, len(c.Demos))
	for _, d := range Demos {
		if slices.Contains(c.Demos, d) {
			selected = append(selected, d)
		}
	}
	return selected
}

// Validate validates the demo names and every nested configuration.
func (c Config) Validate() error {
	if len(c.Demos) == 0 {
		return fmt.Errorf("no demo selected: %w", ErrUnknownDemo)
	}
	for _, d := range c.Demos {
		if d != DemoAll && !slices.Contains(Demos, d) {
			return fmt.Errorf("%q: %w", d, ErrUnknownDemo)
		}
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := c.Monitor.Validate(); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	return nil
}
