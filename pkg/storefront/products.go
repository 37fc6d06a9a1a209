package storefront

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/kuriosis/wallbuilder/pkg/catalog"
	"github.com/kuriosis/wallbuilder/pkg/errors"
	"github.com/kuriosis/wallbuilder/pkg/normalize"
)

// Product is the slice of platform product data the gallery needs.
type Product struct {
	Handle   string            `json:"handle"`
	Title    string            `json:"title"`
	ImageURL string            `json:"image_url"`
	Variants []catalog.Variant `json:"variants"`
}

// Index builds a variant lookup over the product.
func (p *Product) Index() *catalog.Index {
	return catalog.NewIndex(p.Variants)
}

// ProductVariants fetches a product by handle and extracts its purchasable
// variants. The platform payload is read tolerantly: a variant without an id
// or price is skipped, option1 is treated as the size label and option2 as
// the material label, matching how gallery products are set up. Results are
// cached when the client has a cache.
func (c *Client) ProductVariants(ctx context.Context, handle string) (*Product, error) {
	if err := errors.ValidateProductHandle(handle); err != nil {
		return nil, err
	}

	if c.cache != nil {
		var cached Product
		if ok, _ := c.cache.Get("product:"+handle, &cached); ok {
			return &cached, nil
		}
	}

	body, err := c.getJSON(ctx, handlePath(handle))
	if err != nil {
		if errors.GetCode(err) == errors.ErrCodeNotFound {
			return nil, errors.New(errors.ErrCodeProductNotFound, "no product with handle %q", handle)
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch product %q", handle)
	}

	root := gjson.ParseBytes(body)
	product := &Product{
		Handle:   handle,
		Title:    root.Get("title").String(),
		ImageURL: root.Get("featured_image").String(),
	}
	root.Get("variants").ForEach(func(_, v gjson.Result) bool {
		id := v.Get("id").String()
		if id == "" || !v.Get("price").Exists() {
			return true // unusable variant, skip
		}
		sizeLabel := v.Get("option1").String()
		materialLabel := v.Get("option2").String()
		sizeKey, _ := normalize.Size(sizeLabel)
		product.Variants = append(product.Variants, catalog.Variant{
			SizeLabel:     sizeLabel,
			MaterialLabel: materialLabel,
			SizeKey:       sizeKey,
			MaterialKey:   normalize.Material(materialLabel),
			PriceMinor:    v.Get("price").Int(),
			VariantID:     id,
		})
		return true
	})

	if c.cache != nil {
		_ = c.cache.Set("product:"+handle, product)
	}
	return product, nil
}
