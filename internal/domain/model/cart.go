package model

// CartEntry is the backend's view of one cart line: a product reference and a
// requested quantity.
type CartEntry struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CartLine is a cart entry enriched with a cached product snapshot. Snapshot
// is nil when the product lookup failed; such lines stay visible but do not
// contribute to the total.
type CartLine struct {
	ProductID string
	Quantity  int
	Snapshot  *Product
}

// Resolved reports whether the product lookup succeeded for this line.
func (l CartLine) Resolved() bool {
	return l.Snapshot != nil
}

// Subtotal is quantity times unit price, zero for unresolved lines.
func (l CartLine) Subtotal() float64 {
	if l.Snapshot == nil {
		return 0
	}
	return float64(l.Quantity) * l.Snapshot.Price
}

// CartTotal sums subtotals over resolved lines.
func CartTotal(lines []CartLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}
