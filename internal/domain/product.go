package domain

// Product is a catalog entry as served by the storefront API. Products are
// immutable after fetch; the catalog owns them and consumers only read.
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Rating      *Rating `json:"rating,omitempty"`
}

// Rating is the optional aggregate review score attached to a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Rate returns the product's rating value, treating a missing rating as 0.
func (p *Product) Rate() float64 {
	if p.Rating == nil {
		return 0
	}
	return p.Rating.Rate
}
