package market

import (
	"errors"

	"observer/broker"
)

// Router republishes every tick on the broker topic named after its symbol.
// Ticks of symbols nobody has asked for are dropped.
type Router struct {
	source string
	broker *broker.Broker[string, Tick]
}

// NewRouter creates a Router publishing to b as source.
func NewRouter(source string, b *broker.Broker[string, Tick]) *Router {
	return &Router{source: source, broker: b}
}

// Receive forwards t to its symbol topic.
func (r *Router) Receive(t Tick) error {
	err := r.broker.Publish(t.Symbol, r.source, t)
	if errors.Is(err, broker.ErrTopicNotFound) {
		return nil
	}
	return err
}
