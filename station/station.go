// Package station contains a weather station publishing measurements to
// displays and alerts.
package station

import (
	"sync"

	"observer/broker/channel"
)

// Measurement is one reading of the station sensors.
type Measurement struct {
	Temperature float64
	Humidity    float64
	Pressure    float64
}

// Station stores the latest measurement and notifies subscribers when it changes.
type Station struct {
	mu      sync.RWMutex
	name    string
	current Measurement
	channel *channel.Channel[string, Measurement]
}

// New creates a new Station.
func New(name string, opts ...channel.Option) *Station {
	return &Station{
		name:    name,
		channel: channel.New[string, Measurement](append(opts[:len(opts):len(opts)], channel.WithName(name))...),
	}
}

// Channel returns the channel measurements are published on.
func (s *Station) Channel() *channel.Channel[string, Measurement] {
	return s.channel
}

// SetMeasurements stores m and publishes it.
func (s *Station) SetMeasurements(m Measurement) error {
	s.mu.Lock()
	s.current = m
	s.mu.Unlock()

	return s.channel.Notify(s.name, m)
}

// Current returns the latest measurement.
func (s *Station) Current() Measurement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
