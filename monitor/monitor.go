// Package monitor samples system CPU and memory usage and publishes each
// sample to its observers.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"observer/broker/channel"
)

// Usage is one system usage sample.
type Usage struct {
	CPUPercent    float64
	MemoryUsed    uint64
	MemoryTotal   uint64
	MemoryPercent float64
	SampledAt     time.Time
}

// Sampler takes a usage sample.
type Sampler interface {
	Sample(ctx context.Context) (Usage, error)
}

// SystemSampler samples the host through gopsutil.
type SystemSampler struct{}

// Sample measures CPU usage over a short window and reads virtual memory.
func (SystemSampler) Sample(ctx context.Context) (Usage, error) {
	percents, err := cpu.PercentWithContext(ctx, 100*time.Millisecond, false)
	if err != nil {
		return Usage{}, fmt.Errorf("failed to read cpu usage: %w", err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Usage{}, fmt.Errorf("failed to read memory usage: %w", err)
	}

	u := Usage{
		MemoryUsed:    vm.Used,
		MemoryTotal:   vm.Total,
		MemoryPercent: vm.UsedPercent,
		SampledAt:     time.Now(),
	}
	if len(percents) > 0 {
		u.CPUPercent = percents[0]
	}
	return u, nil
}

// Monitor periodically samples usage and notifies subscribers.
type Monitor struct {
	name    string
	config  Config
	sampler Sampler
	channel *channel.Channel[string, Usage]
}

// New creates a new Monitor. A nil sampler uses SystemSampler.
func New(name string, config Config, sampler Sampler, opts ...channel.Option) *Monitor {
	if sampler == nil {
		sampler = SystemSampler{}
	}
	return &Monitor{
		name:    name,
		config:  config,
		sampler: sampler,
		channel: channel.New[string, Usage](append(opts[:len(opts):len(opts)], channel.WithName(name))...),
	}
}

// Channel returns the channel samples are published on.
func (m *Monitor) Channel() *channel.Channel[string, Usage] {
	return m.channel
}

// Sample takes one sample and publishes it. Observer failures are returned
// after every subscriber has been notified.
func (m *Monitor) Sample(ctx context.Context) (Usage, error) {
	u, err := m.sampler.Sample(ctx)
	if err != nil {
		return Usage{}, err
	}
	return u, m.channel.Notify(m.name, u)
}

// Run samples on every interval until the configured number of samples has
// been published or ctx is done. A sampling error stops the run; observer
// failures are left to the channel's reporter.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	for taken := 0; m.config.Samples == 0 || taken < m.config.Samples; taken++ {
		if taken > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}

		u, err := m.sampler.Sample(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		_ = m.channel.Notify(m.name, u)
	}
	return nil
}

// CPUAbove returns a filter accepting samples whose CPU usage exceeds percent.
func CPUAbove(percent float64) func(string, Usage) bool {
	return func(_ string, u Usage) bool {
		return u.CPUPercent > percent
	}
}

// MemoryAbove returns a filter accepting samples whose memory usage exceeds percent.
func MemoryAbove(percent float64) func(string, Usage) bool {
	return func(_ string, u Usage) bool {
		return u.MemoryPercent > percent
	}
}
