package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"observer/broker/channel"
	"observer/metric"
	"observer/monitor"
)

// App contains the demos, the metrics server and configuration.
type App struct {
	config   Config
	out      io.Writer
	logger   *slog.Logger
	metric   *metric.Metrics
	reporter channel.Reporter
	sampler  monitor.Sampler
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger channels report to. If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithSampler replaces the system sampler of the monitor demo.
func WithSampler(s monitor.Sampler) Option {
	return func(a *App) {
		a.sampler = s
	}
}

// New creates a new instance of App writing demo output to out.
func New(config Config, out io.Writer, opts ...Option) *App {
	a := &App{
		config: config,
		out:    out,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.metric = metric.New(config.Metrics)
	a.metric.RegisterMetrics()
	a.reporter = channel.Tee(channel.LogReporter(a.logger), a.metric)
	return a
}

// Metrics returns the metrics every demo channel reports to.
func (a *App) Metrics() *metric.Metrics {
	return a.metric
}

// Run starts the metrics server if enabled and runs the selected demos in
// order. It returns when the demos finish or ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if a.config.Metrics.Enabled() {
		a.metric.Start()
		g.Go(func() error {
			<-ctx.Done()
			return a.metric.Stop()
		})
	}

	g.Go(func() error {
		defer cancel()
		for _, name := range a.config.Selected() {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(a.out, "== %s ==\n", name)
			if err := a.scenario(name)(ctx); err != nil {
				return fmt.Errorf("demo %s: %w", name, err)
			}
		}
		return nil
	})

	return g.Wait()
}

func (a *App) scenario(name string) func(context.Context) error {
	switch name {
	case DemoWeather:
		return a.runWeather
	case DemoChat:
		return a.runChat
	case DemoMarket:
		return a.runMarket
	case DemoMonitor:
		return a.runMonitor
	}
	return func(context.Context) error {
		return fmt.Errorf("%q: %w", name, ErrUnknownDemo)
	}
}
