// Package cart owns the (product, quantity) lines for the current session
// and derives totals from snapshot prices.
package cart

import (
	"errors"
	"sync"
	"time"

	"github.com/ljcl79/shophub/internal/domain"
)

var (
	// ErrNotAuthenticated is the capability denial returned for cart
	// mutations attempted while anonymous.
	ErrNotAuthenticated = errors.New("sign in required to modify the cart")

	// ErrQuantityInvalid rejects quantities below 1 where clamping does
	// not apply, e.g. at the HTTP boundary.
	ErrQuantityInvalid = errors.New("quantity must be at least 1")
)

// Authorizer reports whether cart mutations are currently permitted.
// The session gate implements this; consumers define the interface.
type Authorizer interface {
	Authenticated() bool
}

// Ledger is the authoritative cart. One ledger belongs to exactly one
// logical session; operations are synchronous and immediately consistent.
type Ledger struct {
	auth Authorizer

	mu    sync.Mutex
	lines []domain.CartLine // first-added order
}

func NewLedger(auth Authorizer) *Ledger {
	return &Ledger{auth: auth}
}

// AddItem inserts a snapshot line for the product or increments an existing
// line's quantity. Quantities below 1 are clamped to 1.
func (l *Ledger) AddItem(p domain.Product, quantity int) error {
	if !l.auth.Authenticated() {
		return ErrNotAuthenticated
	}
	if quantity < 1 {
		quantity = 1
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.lines {
		if l.lines[i].ProductID == p.ID {
			l.lines[i].Quantity += quantity
			return nil
		}
	}

	l.lines = append(l.lines, domain.CartLine{
		ProductID: p.ID,
		Quantity:  quantity,
		Price:     p.Price,
		Title:     p.Title,
		Image:     p.Image,
		Category:  p.Category,
		AddedAt:   time.Now(),
	})
	return nil
}

// SetQuantity overwrites a line's quantity. A quantity below 1 removes the
// line entirely; a quantity of 0 is never stored. Unknown ids are a no-op.
func (l *Ledger) SetQuantity(productID int64, quantity int) error {
	if !l.auth.Authenticated() {
		return ErrNotAuthenticated
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.lines {
		if l.lines[i].ProductID != productID {
			continue
		}
		if quantity < 1 {
			l.lines = append(l.lines[:i], l.lines[i+1:]...)
		} else {
			l.lines[i].Quantity = quantity
		}
		return nil
	}
	return nil
}

// RemoveItem drops the line for the product if present, no-op otherwise.
func (l *Ledger) RemoveItem(productID int64) error {
	if !l.auth.Authenticated() {
		return ErrNotAuthenticated
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.lines {
		if l.lines[i].ProductID == productID {
			l.lines = append(l.lines[:i], l.lines[i+1:]...)
			return nil
		}
	}
	return nil
}

// Clear empties the cart. Unlike the other mutations it is not gated, so
// logout flows can always reset the ledger.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = nil
}

// Lines returns a copy of the cart in first-added order.
func (l *Ledger) Lines() []domain.CartLine {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.CartLine, len(l.lines))
	copy(out, l.lines)
	return out
}

// TotalItems is the sum of all line quantities.
func (l *Ledger) TotalItems() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0
	for _, line := range l.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice sums snapshot price times quantity over all lines. Live
// catalog prices are deliberately not consulted.
func (l *Ledger) TotalPrice() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0.0
	for _, line := range l.lines {
		total += line.Subtotal()
	}
	return total
}

// Snapshot captures the full cart state at this instant, with per-line
// subtotals, for display or checkout hand-off.
func (l *Ledger) Snapshot() domain.CartSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := domain.CartSnapshot{
		Items:      make([]domain.CartSnapshotItem, 0, len(l.lines)),
		CapturedAt: time.Now(),
	}
	for _, line := range l.lines {
		snap.Items = append(snap.Items, domain.CartSnapshotItem{
			ProductID: line.ProductID,
			Title:     line.Title,
			Quantity:  line.Quantity,
			UnitPrice: line.Price,
			Subtotal:  line.Subtotal(),
		})
		snap.TotalItems += line.Quantity
		snap.TotalPrice += line.Subtotal()
	}
	return snap
}
