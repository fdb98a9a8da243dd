package domain

import "time"

// CartLine is a single cart entry. Price, title, image and category are
// snapshotted at add time so the cart stays displayable even if the catalog
// reloads or the product disappears upstream.
type CartLine struct {
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	Title     string    `json:"title"`
	Image     string    `json:"image"`
	Category  string    `json:"category"`
	AddedAt   time.Time `json:"added_at"`
}

// Subtotal is the line's snapshot price times its quantity.
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// CartSnapshotItem is a display/checkout view of a cart line.
type CartSnapshotItem struct {
	ProductID int64   `json:"product_id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// CartSnapshot is the full cart state captured at a point in time.
type CartSnapshot struct {
	Items      []CartSnapshotItem `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice float64            `json:"total_price"`
	CapturedAt time.Time          `json:"captured_at"`
}
