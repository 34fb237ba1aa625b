// Package orders keeps the history of completed orders.
package orders

import "github.com/abgdnv/glowcart/internal/catalog"

// Order is a completed checkout. Products carry the quantity sold.
type Order struct {
	CustomerName string
	Address      string
	Contact      string
	Email        string
	Products     []catalog.Product
}

// Total returns the sum of price times quantity over the order lines.
func (o Order) Total() float64 {
	var total float64
	for _, p := range o.Products {
		total += p.Price * float64(p.Quantity)
	}
	return total
}

// Log is a first-in-first-out queue of orders.
type Log struct {
	items []Order
}

// NewLog creates an empty Log.
func NewLog() *Log {
	return &Log{}
}

// Enqueue appends o to the log.
func (l *Log) Enqueue(o Order) {
	l.items = append(l.items, o)
}

// Dequeue pops the oldest order. The second result is false when the log is empty.
func (l *Log) Dequeue() (Order, bool) {
	if len(l.items) == 0 {
		return Order{}, false
	}
	o := l.items[0]
	l.items[0] = Order{}
	l.items = l.items[1:]
	return o, true
}

// Len returns the number of queued orders.
func (l *Log) Len() int {
	return len(l.items)
}

// Snapshot returns an independent copy of the log.
func (l *Log) Snapshot() *Log {
	items := make([]Order, len(l.items))
	copy(items, l.items)
	return &Log{items: items}
}

// History drains a snapshot of the log, oldest first. The log itself is left intact.
func (l *Log) History() []Order {
	snap := l.Snapshot()
	out := make([]Order, 0, snap.Len())
	for {
		o, ok := snap.Dequeue()
		if !ok {
			return out
		}
		out = append(out, o)
	}
}
