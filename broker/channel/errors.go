package channel

import "errors"

var (
	// ErrInvalidSubscriber is returned when subscribing a nil observer.
	ErrInvalidSubscriber = errors.New("invalid subscriber")

	// ErrUnknownSubscription is reported when cancelling an id that is not subscribed.
	ErrUnknownSubscription = errors.New("unknown subscription")

	// ErrObserverFailure wraps an error returned or a panic raised by an observer.
	ErrObserverFailure = errors.New("observer failure")

	// ErrFilterFailure wraps a panic raised by a filter. The observer is skipped.
	ErrFilterFailure = errors.New("filter failure")

	// ErrResolveFailure wraps a panic raised by a Ref. The subscription is pruned.
	ErrResolveFailure = errors.New("resolve failure")

	// ErrIDsExhausted is the panic value raised when a channel runs out of subscription ids.
	ErrIDsExhausted = errors.New("subscription ids exhausted")
)
