package cart

import "time"

// Cart is the single source of truth for what the checkout step submits.
// One cart per browser session, keyed by session uid.
type Cart struct {
	UID          string
	CreatedAt    time.Time
	LastModified *time.Time
	Items        []CartItem
	ShowCart     bool
}

type CartItem struct {
	VariantID    string `form:"variantId"`
	Title        string `form:"title"`
	PriceInCents int64  `form:"priceInCents"`
	Quantity     int    `form:"quantity"`
	ImageURL     string `form:"imageUrl"`
}

// TotalInCents is always recomputed, never cached
func (c Cart) TotalInCents() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.PriceInCents * int64(item.Quantity)
	}

	return total
}

func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}

	return count
}
