// Package market contains a price feed that publishes ticks only when a
// price actually changes.
package market

import (
	"sync"

	"observer/broker/channel"
)

// Tick is a price update for one symbol.
type Tick struct {
	Symbol string
	Price  float64
}

// Feed keeps the last price per symbol and publishes changes.
type Feed struct {
	send    sync.Mutex // serializes Publish
	mu      sync.Mutex
	name    string
	prices  map[string]float64
	channel *channel.Channel[string, Tick]
}

// NewFeed creates a new Feed.
func NewFeed(name string, opts ...channel.Option) *Feed {
	return &Feed{
		name:    name,
		prices:  make(map[string]float64),
		channel: channel.New[string, Tick](append(opts[:len(opts):len(opts)], channel.WithName(name))...),
	}
}

// Channel returns the channel ticks are published on.
func (f *Feed) Channel() *channel.Channel[string, Tick] {
	return f.channel
}

// Publish records price for symbol and notifies subscribers. It reports
// false without notifying when the price is unchanged.
//
// Publishes are serialized, so subscribers see ticks in the order prices are
// stored and Price returns the tick being delivered. Subscribers must not call
// Publish on the same feed.
func (f *Feed) Publish(symbol string, price float64) (bool, error) {
	f.send.Lock()
	defer f.send.Unlock()

	f.mu.Lock()
	if old, ok := f.prices[symbol]; ok && old == price {
		f.mu.Unlock()
		return false, nil
	}
	f.prices[symbol] = price
	f.mu.Unlock()

	return true, f.channel.Notify(f.name, Tick{Symbol: symbol, Price: price})
}

// Price returns the last published price of symbol.
func (f *Feed) Price(symbol string) (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.prices[symbol]
	return p, ok
}

// Clear removes every subscriber.
func (f *Feed) Clear() {
	f.channel.Clear()
}

// Symbol accepts ticks of symbol only.
func Symbol(symbol string) func(string, Tick) bool {
	return func(_ string, t Tick) bool {
		return t.Symbol == symbol
	}
}

// Above accepts ticks priced strictly above limit.
func Above(limit float64) func(string, Tick) bool {
	return func(_ string, t Tick) bool {
		return t.Price > limit
	}
}
