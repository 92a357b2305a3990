package channel

import "weak"

// Observer receives payloads published on a Channel.
type Observer[P any] interface {
	Receive(payload P) error
}

// Ref is a non-owning handle to an observer. Resolve returns false once the
// observer no longer exists, and the subscription is then pruned. Resolve is
// called without the channel lock held; a panic counts as a failure and also
// prunes the subscription.
type Ref[P any] interface {
	Resolve() (Observer[P], bool)
}

// weakRef resolves through a weak pointer, so holding it never keeps the
// observer alive.
type weakRef[T any, PT interface {
	*T
	Observer[P]
}, P any] struct {
	ptr weak.Pointer[T]
}

func (r weakRef[T, PT, P]) Resolve() (Observer[P], bool) {
	p := r.ptr.Value()
	if p == nil {
		return nil, false
	}
	return PT(p), true
}

// Weak returns a Ref that tracks obs without owning it. It returns nil for a
// nil observer.
func Weak[T any, PT interface {
	*T
	Observer[P]
}, P any](obs PT) Ref[P] {
	if obs == nil {
		return nil
	}
	return weakRef[T, PT, P]{ptr: weak.Make((*T)(obs))}
}
