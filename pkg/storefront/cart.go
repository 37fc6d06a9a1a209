package storefront

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/kuriosis/wallbuilder/pkg/errors"
)

// Line is one cart addition: a variant, a quantity and optional line-item
// properties (used to tag gallery items with their wall position).
type Line struct {
	VariantID  string            `json:"id"`
	Quantity   int               `json:"quantity"`
	Properties map[string]string `json:"properties,omitempty"`
}

// CartItem is one line of the cart snapshot.
type CartItem struct {
	Key        string `json:"key"`
	ProductID  string `json:"product_id"`
	VariantID  string `json:"variant_id"`
	Title      string `json:"title"`
	Quantity   int    `json:"quantity"`
	PriceMinor int64  `json:"price_minor"`
}

// Cart is a snapshot of the platform cart.
type Cart struct {
	ItemCount  int        `json:"item_count"`
	TotalMinor int64      `json:"total_minor"`
	Items      []CartItem `json:"items"`
}

// LineFailure records one batch item that could not be added.
type LineFailure struct {
	Line Line
	Err  error
}

// BatchResult reports the outcome of a sequential batch add.
type BatchResult struct {
	Added    []Line
	Failures []LineFailure
}

// Err summarizes the result: nil when everything was added, CART_PARTIAL
// when some lines failed, CART when nothing made it in.
func (r *BatchResult) Err() error {
	switch {
	case len(r.Failures) == 0:
		return nil
	case len(r.Added) == 0:
		return errors.New(errors.ErrCodeCart, "no items could be added to the cart")
	default:
		return errors.New(errors.ErrCodeCartPartial,
			"%d of %d items could not be added", len(r.Failures), len(r.Added)+len(r.Failures))
	}
}

// Add puts a single line into the cart.
func (c *Client) Add(ctx context.Context, line Line) error {
	if err := errors.ValidateQuantity(line.Quantity); err != nil {
		return err
	}
	if line.VariantID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cart line has no variant id")
	}

	if _, err := c.postJSON(ctx, "/cart/add.js", line); err != nil {
		return errors.Wrap(errors.ErrCodeCart, err, "add variant %s", line.VariantID)
	}
	return nil
}

// AddBatch adds lines one at a time, in order. A failed line is logged and
// skipped; later lines are still attempted and nothing is rolled back. The
// returned error is non-nil only when the entire batch failed; partial
// outcomes are reported through the result (see [BatchResult.Err]).
func (c *Client) AddBatch(ctx context.Context, lines []Line) (*BatchResult, error) {
	result := &BatchResult{}
	for _, line := range lines {
		if err := c.Add(ctx, line); err != nil {
			c.logger.Warn("cart add failed, continuing", "variant", line.VariantID, "err", err)
			result.Failures = append(result.Failures, LineFailure{Line: line, Err: err})
			continue
		}
		result.Added = append(result.Added, line)
	}

	if len(lines) > 0 && len(result.Added) == 0 {
		return result, result.Err()
	}
	return result, nil
}

// ChangeQuantity sets the quantity of the cart line for a variant. A
// quantity of zero removes the line.
func (c *Client) ChangeQuantity(ctx context.Context, variantID string, quantity int) error {
	if quantity < 0 {
		return errors.New(errors.ErrCodeInvalidQuantity, "quantity must not be negative, got %d", quantity)
	}
	payload := map[string]any{"id": variantID, "quantity": quantity}
	if _, err := c.postJSON(ctx, "/cart/change.js", payload); err != nil {
		return errors.Wrap(errors.ErrCodeCart, err, "change quantity for variant %s", variantID)
	}
	return nil
}

// Cart fetches the current cart snapshot. The platform response carries far
// more than needed, so the interesting fields are picked out tolerantly and
// unknown shapes degrade to an empty cart rather than an error.
func (c *Client) Cart(ctx context.Context) (*Cart, error) {
	body, err := c.getJSON(ctx, "/cart.js")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCart, err, "fetch cart")
	}

	root := gjson.ParseBytes(body)
	cart := &Cart{
		ItemCount:  int(root.Get("item_count").Int()),
		TotalMinor: root.Get("total_price").Int(),
	}
	root.Get("items").ForEach(func(_, item gjson.Result) bool {
		cart.Items = append(cart.Items, CartItem{
			Key:        item.Get("key").String(),
			ProductID:  item.Get("product_id").String(),
			VariantID:  item.Get("variant_id").String(),
			Title:      item.Get("title").String(),
			Quantity:   int(item.Get("quantity").Int()),
			PriceMinor: item.Get("final_line_price").Int(),
		})
		return true
	})
	return cart, nil
}
