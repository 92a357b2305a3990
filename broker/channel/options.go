package channel

import "log/slog"

// Option configures a Channel.
type Option func(*options)

type options struct {
	name     string
	logger   *slog.Logger
	reporter Reporter
}

// WithName sets the name the channel uses in reports. Defaults to a random UUID.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger of the default reporter.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithReporter replaces the default log reporter.
func WithReporter(r Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// Filter decides whether a subscriber receives a payload published by sender.
type Filter[S comparable, P any] func(sender S, payload P) bool

// SubscribeOption configures a single subscription.
type SubscribeOption[S comparable, P any] func(*slot[S, P])

// WithFilter gates delivery on f. When given more than once, every filter
// must accept the payload.
func WithFilter[S comparable, P any](f func(sender S, payload P) bool) SubscribeOption[S, P] {
	return func(s *slot[S, P]) {
		if f == nil {
			return
		}
		if s.filter == nil {
			s.filter = f
			return
		}
		prev := s.filter
		s.filter = func(sender S, payload P) bool {
			return prev(sender, payload) && f(sender, payload)
		}
	}
}
