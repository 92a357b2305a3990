package chat

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"observer/broker/subscription"
)

// Keyword accepts messages containing kw.
func Keyword(kw string) Filter {
	return func(_ string, msg Message) bool {
		return strings.Contains(msg.Text, kw)
	}
}

// Block rejects messages from blocked.
func Block(blocked string) Filter {
	return func(sender string, _ Message) bool {
		return sender != blocked
	}
}

// Display prints every message it receives.
type Display struct {
	name string
	out  io.Writer
}

// NewDisplay creates a Display named name writing to out.
func NewDisplay(name string, out io.Writer) *Display {
	return &Display{name: name, out: out}
}

// Name returns the member name.
func (d *Display) Name() string {
	return d.name
}

// Receive prints msg.
func (d *Display) Receive(msg Message) error {
	_, err := fmt.Fprintf(d.out, "[user: %s] [msg: %s] [from: %s]\n", d.name, msg.Text, msg.From)
	return err
}

// Bell rings once on a keyword and then leaves the room.
type Bell struct {
	mu      sync.Mutex
	name    string
	keyword string
	out     io.Writer
	token   *subscription.Token
	rung    bool
}

// NewBell creates a Bell ringing on messages equal to keyword.
func NewBell(name, keyword string, out io.Writer) *Bell {
	return &Bell{name: name, keyword: keyword, out: out, token: subscription.Inert()}
}

// Name returns the member name.
func (b *Bell) Name() string {
	return b.name
}

// Attach takes over tok so the bell can leave by itself.
func (b *Bell) Attach(tok *subscription.Token) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = tok.Move()
}

// Rung reports whether the bell has rung.
func (b *Bell) Rung() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rung
}

// Receive rings and leaves on the first message matching the keyword.
func (b *Bell) Receive(msg Message) error {
	b.mu.Lock()
	if b.rung || msg.Text != b.keyword {
		b.mu.Unlock()
		return nil
	}
	b.rung = true
	tok := b.token
	b.mu.Unlock()

	tok.Cancel()
	_, err := fmt.Fprintf(b.out, "[bell: %s] ring from %s\n", b.name, msg.From)
	return err
}
