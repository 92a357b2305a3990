// Package channel provides the implementation of a thread-safe publisher that
// tracks its observers without owning them.
package channel

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"weak"

	"github.com/google/uuid"
	"observer/broker/subscription"
)

// slot binds a subscription id to its observer handle and optional filter.
type slot[S comparable, P any] struct {
	id     uint64
	ref    Ref[P]
	filter Filter[S, P]
}

// live is a snapshot entry collected under the lock and invoked outside it.
type live[S comparable, P any] struct {
	id       uint64
	observer Observer[P]
	filter   Filter[S, P]
}

// Channel is a publisher of payloads of type P sent by senders identified by S.
// It holds observers through Refs only, so an observer the caller drops is
// pruned on the next Notify.
type Channel[S comparable, P any] struct {
	mu     sync.Mutex
	nextID uint64
	slots  []*slot[S, P] // ordered by id

	self     weak.Pointer[Channel[S, P]]
	name     string
	reporter Reporter
}

// New creates and initializes a new Channel instance.
func New[S comparable, P any](opts ...Option) *Channel[S, P] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.name == "" {
		o.name = uuid.NewString()
	}
	if o.reporter == nil {
		o.reporter = LogReporter(o.logger)
	}

	c := &Channel[S, P]{
		nextID:   1,
		slots:    make([]*slot[S, P], 0),
		name:     o.name,
		reporter: o.reporter,
	}
	c.self = weak.Make(c)
	return c
}

// Name returns the channel name used in reports.
func (c *Channel[S, P]) Name() string {
	return c.name
}

// Subscribe adds obs to c without taking ownership of it. The returned token
// cancels the subscription; dropping it leaves the subscription in place until
// obs is garbage collected.
func Subscribe[S comparable, P any, T any, PT interface {
	*T
	Observer[P]
}](c *Channel[S, P], obs PT, opts ...SubscribeOption[S, P]) (*subscription.Token, error) {
	if obs == nil {
		return subscription.Inert(), ErrInvalidSubscriber
	}
	return c.SubscribeRef(Weak[T, PT, P](obs), opts...)
}

// SubscribeRef adds the observer behind ref. A nil ref returns an inert token
// and ErrInvalidSubscriber.
func (c *Channel[S, P]) SubscribeRef(ref Ref[P], opts ...SubscribeOption[S, P]) (*subscription.Token, error) {
	if ref == nil {
		return subscription.Inert(), ErrInvalidSubscriber
	}

	s := &slot[S, P]{ref: ref}
	for _, opt := range opts {
		opt(s)
	}

	c.mu.Lock()
	if c.nextID == math.MaxUint64 {
		c.mu.Unlock()
		panic(ErrIDsExhausted)
	}
	s.id = c.nextID
	c.nextID++
	c.slots = append(c.slots, s)
	c.mu.Unlock()

	c.reporter.Subscribed(c.name, s.id)

	self, id := c.self, s.id
	return subscription.New(id, func() {
		if ch := self.Value(); ch != nil {
			ch.Unsubscribe(id)
		}
	}), nil
}

// Unsubscribe removes the subscription with the given id and reports whether
// it was present.
func (c *Channel[S, P]) Unsubscribe(id uint64) bool {
	c.mu.Lock()
	i, found := c.index(id)
	if found {
		c.slots = slices.Delete(c.slots, i, i+1)
	}
	c.mu.Unlock()

	if !found {
		c.reporter.UnknownSubscription(c.name, id)
		return false
	}
	c.reporter.Unsubscribed(c.name, id)
	return true
}

// Clear removes every subscription. Tokens issued before Clear stay valid to
// call but no longer find their subscription.
func (c *Channel[S, P]) Clear() {
	c.mu.Lock()
	removed := c.slots
	c.slots = make([]*slot[S, P], 0)
	c.mu.Unlock()

	for _, s := range removed {
		c.reporter.Unsubscribed(c.name, s.id)
	}
}

// Len returns the number of subscriptions, including ones whose observer is
// gone but not yet pruned.
func (c *Channel[S, P]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.slots)
}

// Notify delivers payload to every live subscriber whose filter accepts it,
// in subscription order. Subscribers whose observer is gone are pruned.
//
// Refs, observers and filters run without the lock held, so they may
// subscribe or cancel on c. A subscriber added during Notify does not receive
// the current payload. A failing ref, observer or filter does not stop
// delivery to the rest; the failures are reported and returned joined. A ref
// that panics is pruned like an expired one.
func (c *Channel[S, P]) Notify(sender S, payload P) error {
	var (
		snapshot []live[S, P]
		expired  []uint64
		errs     []error
	)
	for _, s := range c.entries() {
		obs, ok, err := safeResolve(s.ref)
		if err != nil {
			err = fmt.Errorf("subscription %d: %w", s.id, err)
			c.reporter.ObserverFailed(c.name, s.id, err)
			errs = append(errs, err)
		}
		if !ok || obs == nil {
			expired = append(expired, s.id)
			continue
		}
		snapshot = append(snapshot, live[S, P]{id: s.id, observer: obs, filter: s.filter})
	}

	for _, id := range c.prune(expired) {
		c.reporter.Pruned(c.name, id)
	}

	for _, l := range snapshot {
		if l.filter != nil {
			accepted, err := safeFilter(l.filter, sender, payload)
			if err != nil {
				err = fmt.Errorf("subscription %d: %w", l.id, err)
				c.reporter.FilterFailed(c.name, l.id, err)
				errs = append(errs, err)
				continue
			}
			if !accepted {
				continue
			}
		}

		if err := safeReceive(l.observer, payload); err != nil {
			err = fmt.Errorf("subscription %d: %w", l.id, err)
			c.reporter.ObserverFailed(c.name, l.id, err)
			errs = append(errs, err)
			continue
		}
		c.reporter.Delivered(c.name, l.id)
	}

	return errors.Join(errs...)
}

// entries copies the slot table. Slots are never mutated after insertion, so
// the copy can be read without the lock.
func (c *Channel[S, P]) entries() []*slot[S, P] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.slots)
}

// prune erases the given ids and returns the ones that were still present.
func (c *Channel[S, P]) prune(ids []uint64) []uint64 {
	if len(ids) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := ids[:0]
	for _, id := range ids {
		if i, found := c.index(id); found {
			c.slots = slices.Delete(c.slots, i, i+1)
			removed = append(removed, id)
		}
	}
	return removed
}

// index finds id in the ordered slot table. The caller must hold c.mu.
func (c *Channel[S, P]) index(id uint64) (int, bool) {
	return slices.BinarySearchFunc(c.slots, id, func(s *slot[S, P], id uint64) int {
		return cmp.Compare(s.id, id)
	})
}

func safeReceive[P any](obs Observer[P], payload P) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrObserverFailure, r)
		}
	}()
	if err := obs.Receive(payload); err != nil {
		return fmt.Errorf("%w: %w", ErrObserverFailure, err)
	}
	return nil
}

func safeResolve[P any](ref Ref[P]) (obs Observer[P], ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			obs, ok = nil, false
			err = fmt.Errorf("%w: panic: %v", ErrResolveFailure, r)
		}
	}()
	obs, ok = ref.Resolve()
	return obs, ok, nil
}

func safeFilter[S comparable, P any](f Filter[S, P], sender S, payload P) (accepted bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			accepted = false
			err = fmt.Errorf("%w: panic: %v", ErrFilterFailure, r)
		}
	}()
	return f(sender, payload), nil
}
