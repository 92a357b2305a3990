// Package subscription provides the cancellation token handed out by a channel
// on subscribe.
package subscription

import "sync/atomic"

// Token is the caller-held handle of one subscription. It is armed while it
// owns a release action and fired once that action has run or been moved away.
type Token struct {
	id      uint64
	release atomic.Pointer[func()]
}

// New creates an armed Token that runs release on the first Cancel.
// A nil release produces an inert token.
func New(id uint64, release func()) *Token {
	t := &Token{id: id}
	if release != nil {
		t.release.Store(&release)
	}
	return t
}

// Inert returns a token that is already fired.
func Inert() *Token {
	return &Token{}
}

// ID returns the subscription id. Inert tokens return 0.
func (t *Token) ID() uint64 {
	return t.id
}

// Active reports whether the token still owns its release action.
func (t *Token) Active() bool {
	return t.release.Load() != nil
}

// Cancel runs the release action if the token is armed and reports whether
// this call was the one that ran it. Later calls are no-ops.
func (t *Token) Cancel() bool {
	f := t.release.Swap(nil)
	if f == nil {
		return false
	}
	(*f)()
	return true
}

// Close cancels the token. It lets a subscription be released with defer.
func (t *Token) Close() error {
	t.Cancel()
	return nil
}

// Move transfers the release action to a new token. The receiver is left
// fired, so only the returned token can release the subscription.
func (t *Token) Move() *Token {
	moved := &Token{id: t.id}
	if f := t.release.Swap(nil); f != nil {
		moved.release.Store(f)
	}
	return moved
}
