package channel_test

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"weak"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"observer/broker/channel"
	"observer/broker/subscription"
)

// journal records deliveries across observers in arrival order.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(entry string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// recorder is a test observer of int payloads.
type recorder struct {
	name    string
	journal *journal
	hits    *atomic.Int32
	receive func(int) error
}

func newRecorder(name string, j *journal) *recorder {
	return &recorder{name: name, journal: j, hits: &atomic.Int32{}}
}

func (r *recorder) Receive(payload int) error {
	r.hits.Add(1)
	if r.journal != nil {
		r.journal.add(fmt.Sprintf("%s:%d", r.name, payload))
	}
	if r.receive != nil {
		return r.receive(payload)
	}
	return nil
}

func newChannel() *channel.Channel[string, int] {
	return channel.New[string, int](channel.WithName("test"), channel.WithReporter(channel.Tee()))
}

// subscribeDropped subscribes an observer that nothing but the returned weak
// pointer refers to once this function returns.
func subscribeDropped(t *testing.T, c *channel.Channel[string, int], hits *atomic.Int32) (*subscription.Token, weak.Pointer[recorder]) {
	t.Helper()
	obs := &recorder{name: "dropped", hits: hits}
	tok, err := channel.Subscribe(c, obs)
	require.NoError(t, err)
	return tok, weak.Make(obs)
}

func collect(t *testing.T, wp weak.Pointer[recorder]) {
	t.Helper()
	require.Eventually(t, func() bool {
		runtime.GC()
		return wp.Value() == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNotifyInSubscriptionOrder(t *testing.T) {
	c := newChannel()
	j := &journal{}
	o1 := newRecorder("o1", j)
	o2 := newRecorder("o2", j)

	t1, err := channel.Subscribe(c, o1)
	require.NoError(t, err)
	t2, err := channel.Subscribe(c, o2)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), t1.ID())
	assert.Equal(t, uint64(2), t2.ID())

	require.NoError(t, c.Notify("sender", 5))
	assert.Equal(t, []string{"o1:5", "o2:5"}, j.list())

	runtime.KeepAlive(o1)
	runtime.KeepAlive(o2)
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name    string
		payload int
		want    []string
	}{
		{name: "given payload below threshold when notified then observer skipped", payload: 5, want: nil},
		{name: "given payload above threshold when notified then observer invoked", payload: 15, want: []string{"o1:15"}},
		{name: "given payload equal to threshold when notified then observer skipped", payload: 10, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newChannel()
			j := &journal{}
			o1 := newRecorder("o1", j)
			_, err := channel.Subscribe(c, o1, channel.WithFilter(func(_ string, p int) bool { return p > 10 }))
			require.NoError(t, err)

			require.NoError(t, c.Notify("sender", tt.payload))
			assert.Equal(t, tt.want, j.list())
			runtime.KeepAlive(o1)
		})
	}
}

func TestFilterSubset(t *testing.T) {
	c := newChannel()
	j := &journal{}

	observers := make([]*recorder, 0, 6)
	for i := 0; i < 6; i++ {
		o := newRecorder(fmt.Sprintf("o%d", i), j)
		observers = append(observers, o)
		var opts []channel.SubscribeOption[string, int]
		switch i % 3 {
		case 0:
			opts = append(opts, channel.WithFilter(func(sender string, _ int) bool { return sender == "alice" }))
		case 1:
			opts = append(opts, channel.WithFilter(func(_ string, p int) bool { return p%2 == 0 }))
		}
		_, err := channel.Subscribe(c, o, opts...)
		require.NoError(t, err)
	}

	require.NoError(t, c.Notify("bob", 3))
	assert.Equal(t, []string{"o2:3", "o5:3"}, j.list())

	runtime.KeepAlive(observers)
}

func TestFilterCombination(t *testing.T) {
	c := newChannel()
	j := &journal{}
	o := newRecorder("o", j)
	_, err := channel.Subscribe(c, o,
		channel.WithFilter(func(sender string, _ int) bool { return sender != "o" }),
		channel.WithFilter(func(_ string, p int) bool { return p > 0 }),
	)
	require.NoError(t, err)

	require.NoError(t, c.Notify("o", 1))
	require.NoError(t, c.Notify("x", -1))
	require.NoError(t, c.Notify("x", 2))
	assert.Equal(t, []string{"o:2"}, j.list())
	runtime.KeepAlive(o)
}

func TestInvalidSubscriber(t *testing.T) {
	c := newChannel()

	var obs *recorder
	tok, err := channel.Subscribe(c, obs)
	assert.ErrorIs(t, err, channel.ErrInvalidSubscriber)
	require.NotNil(t, tok)
	assert.False(t, tok.Active())
	assert.Equal(t, 0, c.Len())

	tok, err = c.SubscribeRef(nil)
	assert.ErrorIs(t, err, channel.ErrInvalidSubscriber)
	assert.False(t, tok.Cancel())
	assert.Equal(t, 0, c.Len())
}

func TestCancelIsIdempotent(t *testing.T) {
	c := newChannel()
	j := &journal{}
	o := newRecorder("o", j)

	tok, err := channel.Subscribe(c, o)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	assert.True(t, tok.Cancel())
	for i := 0; i < 5; i++ {
		assert.False(t, tok.Cancel())
	}
	assert.Equal(t, 0, c.Len())

	require.NoError(t, c.Notify("s", 1))
	assert.Empty(t, j.list())
	runtime.KeepAlive(o)
}

func TestUnsubscribeUnknown(t *testing.T) {
	ctrl := gomock.NewController(t)
	rep := channel.NewMockReporter(ctrl)
	c := channel.New[string, int](channel.WithName("test"), channel.WithReporter(rep))
	o := newRecorder("o", nil)

	rep.EXPECT().Subscribed("test", uint64(1))
	rep.EXPECT().Unsubscribed("test", uint64(1))
	// Once for the repeated Unsubscribe and once for the token.
	rep.EXPECT().UnknownSubscription("test", uint64(1)).Times(2)
	rep.EXPECT().UnknownSubscription("test", uint64(42))

	tok, err := channel.Subscribe(c, o)
	require.NoError(t, err)

	assert.True(t, c.Unsubscribe(tok.ID()))
	assert.False(t, c.Unsubscribe(tok.ID()))
	assert.False(t, c.Unsubscribe(42))

	// The token still fires once but finds nothing to remove.
	assert.True(t, tok.Cancel())
	assert.False(t, tok.Cancel())
	runtime.KeepAlive(o)
	runtime.KeepAlive(c)
}

func TestPruneDroppedObserver(t *testing.T) {
	c := newChannel()
	j := &journal{}
	keep := newRecorder("keep", j)
	_, err := channel.Subscribe(c, keep)
	require.NoError(t, err)

	var droppedHits atomic.Int32
	// The token is dropped without cancelling, which leaves the slot in place.
	_, wp := subscribeDropped(t, c, &droppedHits)
	assert.Equal(t, 2, c.Len())

	collect(t, wp)

	require.NoError(t, c.Notify("s", 1))
	assert.Equal(t, 1, c.Len())
	assert.Zero(t, droppedHits.Load())

	require.NoError(t, c.Notify("s", 2))
	assert.Equal(t, []string{"keep:1", "keep:2"}, j.list())
	assert.Zero(t, droppedHits.Load())
	runtime.KeepAlive(keep)
}

func TestPruneReportsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	rep := channel.NewMockReporter(ctrl)
	c := channel.New[string, int](channel.WithName("test"), channel.WithReporter(rep))

	rep.EXPECT().Subscribed("test", uint64(1))
	rep.EXPECT().Pruned("test", uint64(1)).Times(1)
	rep.EXPECT().UnknownSubscription("test", uint64(1))

	var hits atomic.Int32
	tok, wp := subscribeDropped(t, c, &hits)
	collect(t, wp)

	require.NoError(t, c.Notify("s", 1))
	require.NoError(t, c.Notify("s", 2))

	// Cancelling after pruning is a reported no-op.
	assert.True(t, tok.Cancel())
	assert.Zero(t, hits.Load())
	runtime.KeepAlive(c)
}

func TestCancelAfterChannelCollected(t *testing.T) {
	ctrl := gomock.NewController(t)
	rep := channel.NewMockReporter(ctrl)
	rep.EXPECT().Subscribed(gomock.Any(), gomock.Any())

	o := newRecorder("o", nil)
	tok, wc := func() (*subscription.Token, weak.Pointer[channel.Channel[string, int]]) {
		c := channel.New[string, int](channel.WithReporter(rep))
		tok, err := channel.Subscribe(c, o)
		require.NoError(t, err)
		return tok, weak.Make(c)
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		return wc.Value() == nil
	}, 2*time.Second, 10*time.Millisecond)

	assert.True(t, tok.Cancel())
	assert.False(t, tok.Active())
	runtime.KeepAlive(o)
}

func TestCancelSelfDuringNotify(t *testing.T) {
	c := newChannel()
	j := &journal{}
	o1 := newRecorder("o1", j)
	o2 := newRecorder("o2", j)

	var tok *subscription.Token
	o1.receive = func(int) error {
		tok.Cancel()
		return nil
	}

	var err error
	tok, err = channel.Subscribe(c, o1)
	require.NoError(t, err)
	_, err = channel.Subscribe(c, o2)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- c.Notify("s", 1) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("notify deadlocked")
	}

	require.NoError(t, c.Notify("s", 2))
	assert.Equal(t, []string{"o1:1", "o2:1", "o2:2"}, j.list())
	assert.Equal(t, 1, c.Len())
	runtime.KeepAlive(o1)
	runtime.KeepAlive(o2)
}

func TestSubscribeDuringNotify(t *testing.T) {
	c := newChannel()
	j := &journal{}
	late := newRecorder("late", j)
	o1 := newRecorder("o1", j)

	var subscribed bool
	o1.receive = func(int) error {
		if subscribed {
			return nil
		}
		subscribed = true
		_, err := channel.Subscribe(c, late)
		return err
	}
	_, err := channel.Subscribe(c, o1)
	require.NoError(t, err)

	require.NoError(t, c.Notify("s", 1))
	assert.Equal(t, []string{"o1:1"}, j.list())

	require.NoError(t, c.Notify("s", 2))
	assert.Equal(t, []string{"o1:1", "o1:2", "late:2"}, j.list())
	runtime.KeepAlive(o1)
	runtime.KeepAlive(late)
}

func TestObserverFailureIsolated(t *testing.T) {
	ctrl := gomock.NewController(t)
	rep := channel.NewMockReporter(ctrl)
	c := channel.New[string, int](channel.WithName("test"), channel.WithReporter(rep))

	errBoom := errors.New("boom")
	j := &journal{}
	o1 := newRecorder("o1", j)
	o1.receive = func(int) error { return errBoom }
	o2 := newRecorder("o2", j)

	rep.EXPECT().Subscribed("test", gomock.Any()).Times(2)
	rep.EXPECT().ObserverFailed("test", uint64(1), gomock.Any()).
		Do(func(_ string, _ uint64, err error) {
			assert.ErrorIs(t, err, channel.ErrObserverFailure)
			assert.ErrorIs(t, err, errBoom)
		}).Times(1)
	rep.EXPECT().Delivered("test", uint64(2)).Times(1)

	_, err := channel.Subscribe(c, o1)
	require.NoError(t, err)
	_, err = channel.Subscribe(c, o2)
	require.NoError(t, err)

	err = c.Notify("s", 3)
	assert.ErrorIs(t, err, channel.ErrObserverFailure)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, []string{"o1:3", "o2:3"}, j.list())
	runtime.KeepAlive(o1)
	runtime.KeepAlive(o2)
}

func TestPanicsAreRecovered(t *testing.T) {
	tests := []struct {
		name    string
		observe func(int) error
		filter  func(string, int) bool
		wantErr error
	}{
		{
			name:    "given panicking observer when notified then failure is returned",
			observe: func(int) error { panic("observer exploded") },
			wantErr: channel.ErrObserverFailure,
		},
		{
			name:    "given panicking filter when notified then observer is skipped",
			filter:  func(string, int) bool { panic("filter exploded") },
			wantErr: channel.ErrFilterFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newChannel()
			j := &journal{}
			bad := newRecorder("bad", j)
			bad.receive = tt.observe
			good := newRecorder("good", j)

			var opts []channel.SubscribeOption[string, int]
			if tt.filter != nil {
				opts = append(opts, channel.WithFilter(tt.filter))
			}
			_, err := channel.Subscribe(c, bad, opts...)
			require.NoError(t, err)
			_, err = channel.Subscribe(c, good)
			require.NoError(t, err)

			err = c.Notify("s", 1)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, j.list(), "good:1")
			if tt.filter != nil {
				assert.NotContains(t, j.list(), "bad:1")
			}
			runtime.KeepAlive(bad)
			runtime.KeepAlive(good)
		})
	}
}

func TestClear(t *testing.T) {
	c := newChannel()
	j := &journal{}
	o1 := newRecorder("o1", j)
	o2 := newRecorder("o2", j)
	t1, err := channel.Subscribe(c, o1)
	require.NoError(t, err)
	_, err = channel.Subscribe(c, o2)
	require.NoError(t, err)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	require.NoError(t, c.Notify("s", 1))
	assert.Empty(t, j.list())

	assert.True(t, t1.Cancel())

	t3, err := channel.Subscribe(c, o1)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), t3.ID())
	runtime.KeepAlive(o2)
}

func TestMovedTokenReleasesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	rep := channel.NewMockReporter(ctrl)
	c := channel.New[string, int](channel.WithName("test"), channel.WithReporter(rep))
	o := newRecorder("o", nil)

	rep.EXPECT().Subscribed("test", uint64(1))
	rep.EXPECT().Unsubscribed("test", uint64(1)).Times(1)

	src, err := channel.Subscribe(c, o)
	require.NoError(t, err)
	dst := src.Move()

	assert.False(t, src.Cancel())
	assert.Equal(t, 1, c.Len())
	assert.True(t, dst.Cancel())
	assert.False(t, dst.Cancel())
	assert.False(t, src.Cancel())
	assert.Equal(t, 0, c.Len())
	runtime.KeepAlive(o)
}

func TestConcurrentUse(t *testing.T) {
	c := newChannel()
	var delivered atomic.Int64

	keep := make([]*recorder, 32)
	for i := range keep {
		keep[i] = newRecorder(fmt.Sprintf("o%d", i), nil)
		keep[i].receive = func(int) error {
			delivered.Add(1)
			return nil
		}
	}

	var g errgroup.Group
	for i := range keep {
		o := keep[i]
		g.Go(func() error {
			tok, err := channel.Subscribe(c, o)
			if err != nil {
				return err
			}
			for n := 0; n < 20; n++ {
				if err := c.Notify("s", n); err != nil {
					return err
				}
			}
			if o.name[len(o.name)-1]%2 == 0 {
				tok.Cancel()
			}
			return nil
		})
	}
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			for n := 0; n < 50; n++ {
				if err := c.Notify("other", n); err != nil {
					return err
				}
				_ = c.Len()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Positive(t, delivered.Load())
	assert.Equal(t, 16, c.Len())
	runtime.KeepAlive(keep)
}

func TestDefaultName(t *testing.T) {
	a := channel.New[string, int]()
	b := channel.New[string, int]()
	assert.NotEmpty(t, a.Name())
	assert.NotEqual(t, a.Name(), b.Name())
	assert.Equal(t, "named", channel.New[string, int](channel.WithName("named")).Name())
}

// lenRef resolves to obs and records the channel length seen while resolving.
type lenRef struct {
	c    *channel.Channel[string, int]
	obs  *recorder
	seen *atomic.Int32
}

func (r lenRef) Resolve() (channel.Observer[int], bool) {
	r.seen.Store(int32(r.c.Len()))
	return r.obs, true
}

type panicRef struct{}

func (panicRef) Resolve() (channel.Observer[int], bool) {
	panic("resolve exploded")
}

func TestRefResolvesWithoutLock(t *testing.T) {
	c := newChannel()
	j := &journal{}
	o := newRecorder("o", j)
	var seen atomic.Int32

	_, err := c.SubscribeRef(lenRef{c: c, obs: o, seen: &seen})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- c.Notify("s", 1) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("notify deadlocked")
	}

	assert.Equal(t, int32(1), seen.Load())
	assert.Equal(t, []string{"o:1"}, j.list())
}

func TestPanickingRefIsPruned(t *testing.T) {
	ctrl := gomock.NewController(t)
	rep := channel.NewMockReporter(ctrl)
	c := channel.New[string, int](channel.WithName("test"), channel.WithReporter(rep))
	j := &journal{}
	good := newRecorder("good", j)

	rep.EXPECT().Subscribed("test", gomock.Any()).Times(2)
	rep.EXPECT().ObserverFailed("test", uint64(1), gomock.Any()).
		Do(func(_ string, _ uint64, err error) {
			assert.ErrorIs(t, err, channel.ErrResolveFailure)
		}).Times(1)
	rep.EXPECT().Pruned("test", uint64(1)).Times(1)
	rep.EXPECT().Delivered("test", uint64(2)).Times(2)

	_, err := c.SubscribeRef(panicRef{})
	require.NoError(t, err)
	_, err = channel.Subscribe(c, good)
	require.NoError(t, err)

	err = c.Notify("s", 1)
	assert.ErrorIs(t, err, channel.ErrResolveFailure)
	assert.Equal(t, []string{"good:1"}, j.list())
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Notify("s", 2))
	assert.Equal(t, []string{"good:1", "good:2"}, j.list())
	runtime.KeepAlive(good)
}
