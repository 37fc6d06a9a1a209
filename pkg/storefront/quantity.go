package storefront

import "context"

// QuantityPolicy caps how many units of specific products a cart may hold.
// Framing-service products are capped at one so the flat service fee is
// never charged per print.
type QuantityPolicy struct {
	// Limits maps product id to its maximum cart quantity.
	Limits map[string]int
}

// Adjustment is one quantity change needed to bring a cart into policy.
type Adjustment struct {
	Key       string
	VariantID string
	From      int
	To        int
}

// Limit returns the cap for a product, ok false when unrestricted.
func (p *QuantityPolicy) Limit(productID string) (int, bool) {
	if p == nil || p.Limits == nil {
		return 0, false
	}
	limit, ok := p.Limits[productID]
	return limit, ok
}

// Clamp computes the adjustments needed to enforce the policy on a cart
// snapshot. Items within policy produce no adjustment.
func (p *QuantityPolicy) Clamp(cart *Cart) []Adjustment {
	if cart == nil {
		return nil
	}
	var adjustments []Adjustment
	for _, item := range cart.Items {
		limit, ok := p.Limit(item.ProductID)
		if !ok || item.Quantity <= limit {
			continue
		}
		adjustments = append(adjustments, Adjustment{
			Key:       item.Key,
			VariantID: item.VariantID,
			From:      item.Quantity,
			To:        limit,
		})
	}
	return adjustments
}

// Enforce fetches the cart and applies every adjustment the policy requires.
// Returns the adjustments made; an individual change failure stops the pass.
func (p *QuantityPolicy) Enforce(ctx context.Context, c *Client) ([]Adjustment, error) {
	cart, err := c.Cart(ctx)
	if err != nil {
		return nil, err
	}
	adjustments := p.Clamp(cart)
	for _, adj := range adjustments {
		id := adj.Key
		if id == "" {
			id = adj.VariantID
		}
		if err := c.ChangeQuantity(ctx, id, adj.To); err != nil {
			return adjustments, err
		}
	}
	return adjustments, nil
}
