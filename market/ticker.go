package market

import (
	"fmt"
	"io"
)

// Ticker prints every tick it receives.
type Ticker struct {
	name string
	out  io.Writer
}

// NewTicker creates a Ticker named name writing to out.
func NewTicker(name string, out io.Writer) *Ticker {
	return &Ticker{name: name, out: out}
}

// Receive prints t.
func (d *Ticker) Receive(t Tick) error {
	_, err := fmt.Fprintf(d.out, "[%s] %s %.2f\n", d.name, t.Symbol, t.Price)
	return err
}
