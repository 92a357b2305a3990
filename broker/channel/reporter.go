package channel

import (
	"log/slog"
)

// Reporter is told about subscription lifecycle and delivery outcomes.
// Implementations must be safe for concurrent use and must not call back
// into the channel that reports to them.
//
//go:generate mockgen -destination=mock_reporter.go -package=channel . Reporter
type Reporter interface {
	Subscribed(channel string, id uint64)
	Unsubscribed(channel string, id uint64)
	Pruned(channel string, id uint64)
	UnknownSubscription(channel string, id uint64)
	Delivered(channel string, id uint64)
	ObserverFailed(channel string, id uint64, err error)
	FilterFailed(channel string, id uint64, err error)
}

// LogReporter returns a Reporter that writes to logger. Routine events are
// logged at debug level, unknown subscriptions at info and failures at warn.
func LogReporter(logger *slog.Logger) Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return logReporter{logger: logger}
}

type logReporter struct {
	logger *slog.Logger
}

func (r logReporter) Subscribed(channel string, id uint64) {
	r.logger.Debug("subscribed", slog.String("channel", channel), slog.Uint64("id", id))
}

func (r logReporter) Unsubscribed(channel string, id uint64) {
	r.logger.Debug("unsubscribed", slog.String("channel", channel), slog.Uint64("id", id))
}

func (r logReporter) Pruned(channel string, id uint64) {
	r.logger.Debug("pruned expired subscriber", slog.String("channel", channel), slog.Uint64("id", id))
}

func (r logReporter) UnknownSubscription(channel string, id uint64) {
	r.logger.Info("unsubscribe of unknown subscription", slog.String("channel", channel), slog.Uint64("id", id))
}

func (r logReporter) Delivered(string, uint64) {}

func (r logReporter) ObserverFailed(channel string, id uint64, err error) {
	r.logger.Warn("observer failed",
		slog.String("channel", channel),
		slog.Uint64("id", id),
		slog.Any("error", err),
	)
}

func (r logReporter) FilterFailed(channel string, id uint64, err error) {
	r.logger.Warn("filter failed",
		slog.String("channel", channel),
		slog.Uint64("id", id),
		slog.Any("error", err),
	)
}

// Tee returns a Reporter that forwards every event to each of reporters in order.
// Nil entries are skipped.
func Tee(reporters ...Reporter) Reporter {
	rs := make(tee, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			rs = append(rs, r)
		}
	}
	return rs
}

type tee []Reporter

func (t tee) Subscribed(channel string, id uint64) {
	for _, r := range t {
		r.Subscribed(channel, id)
	}
}

func (t tee) Unsubscribed(channel string, id uint64) {
	for _, r := range t {
		r.Unsubscribed(channel, id)
	}
}

func (t tee) Pruned(channel string, id uint64) {
	for _, r := range t {
		r.Pruned(channel, id)
	}
}

func (t tee) UnknownSubscription(channel string, id uint64) {
	for _, r := range t {
		r.UnknownSubscription(channel, id)
	}
}

func (t tee) Delivered(channel string, id uint64) {
	for _, r := range t {
		r.Delivered(channel, id)
	}
}

func (t tee) ObserverFailed(channel string, id uint64, err error) {
	for _, r := range t {
		r.ObserverFailed(channel, id, err)
	}
}

func (t tee) FilterFailed(channel string, id uint64, err error) {
	for _, r := range t {
		r.FilterFailed(channel, id, err)
	}
}
