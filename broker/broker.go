// Package broker routes payloads to named topics, each backed by a channel.
package broker

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"observer/broker/channel"
)

// ErrTopicNotFound is returned when publishing to a topic that does not exist.
var ErrTopicNotFound = errors.New("topic not found")

// Broker holds a set of topics sharing the same sender and payload types.
type Broker[S comparable, P any] struct {
	mu     sync.RWMutex
	topics map[string]*channel.Channel[S, P]
	opts   []channel.Option
}

// New creates a new Broker. opts are applied to every topic it creates; the
// topic name always overrides any WithName among them.
func New[S comparable, P any](opts ...channel.Option) *Broker[S, P] {
	return &Broker[S, P]{
		topics: make(map[string]*channel.Channel[S, P]),
		opts:   opts,
	}
}

// Topic returns the channel for name, creating it on first use.
func (b *Broker[S, P]) Topic(name string) *channel.Channel[S, P] {
	b.mu.RLock()
	if ch, exists := b.topics[name]; exists {
		b.mu.RUnlock()
		return ch
	}
	b.mu.RUnlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	ch, exists := b.topics[name]
	if !exists {
		opts := append(slices.Clone(b.opts), channel.WithName(name))
		ch = channel.New[S, P](opts...)
		b.topics[name] = ch
	}
	return ch
}

// Publish notifies the subscribers of topic. It does not create the topic.
func (b *Broker[S, P]) Publish(topic string, sender S, payload P) error {
	b.mu.RLock()
	ch, exists := b.topics[topic]
	b.mu.RUnlock()
	if !exists {
		return fmt.Errorf("publish to %q: %w", topic, ErrTopicNotFound)
	}
	return ch.Notify(sender, payload)
}

// Remove drops topic and all of its subscriptions.
func (b *Broker[S, P]) Remove(topic string) bool {
	b.mu.Lock()
	ch, exists := b.topics[topic]
	delete(b.topics, topic)
	b.mu.Unlock()

	if exists {
		ch.Clear()
	}
	return exists
}

// Topics returns the topic names in sorted order.
func (b *Broker[S, P]) Topics() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.topics))
	for name := range b.topics {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
