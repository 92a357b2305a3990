// Package chat contains a chat room whose members filter the messages they
// receive.
package chat

import (
	"observer/broker/channel"
	"observer/broker/subscription"
)

// Message is a chat message.
type Message struct {
	From string
	Text string
}

// Member is a participant of a Room.
type Member interface {
	Name() string
	channel.Observer[Message]
}

// Filter decides whether a member receives a message from sender.
type Filter func(sender string, msg Message) bool

// Room fans messages out to its members. A member never receives its own messages.
type Room struct {
	channel *channel.Channel[string, Message]
}

// NewRoom creates a new Room.
func NewRoom(name string, opts ...channel.Option) *Room {
	return &Room{
		channel: channel.New[string, Message](append(opts[:len(opts):len(opts)], channel.WithName(name))...),
	}
}

// Join subscribes member to r. Every filter must accept a message for it to
// be delivered. The room does not keep member alive.
func Join[T any, PT interface {
	*T
	Member
}](r *Room, member PT, filters ...Filter) (*subscription.Token, error) {
	if member == nil {
		return subscription.Inert(), channel.ErrInvalidSubscriber
	}

	name := member.Name()
	opts := []channel.SubscribeOption[string, Message]{
		channel.WithFilter(func(sender string, _ Message) bool { return sender != name }),
	}
	for _, f := range filters {
		opts = append(opts, channel.WithFilter[string, Message](f))
	}
	return channel.Subscribe[string, Message, T, PT](r.channel, member, opts...)
}

// Send delivers text from sender to every other member.
func (r *Room) Send(from, text string) error {
	return r.channel.Notify(from, Message{From: from, Text: text})
}

// Members returns the number of subscriptions, including members gone but
// not yet pruned.
func (r *Room) Members() int {
	return r.channel.Len()
}

// Close removes every member.
func (r *Room) Close() {
	r.channel.Clear()
}
