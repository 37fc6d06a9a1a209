package storefront

import (
	"fmt"

	"github.com/kuriosis/wallbuilder/pkg/composition"
	"github.com/kuriosis/wallbuilder/pkg/errors"
)

// LinesFromComposition flattens a composition into the cart lines checkout
// needs: one line per bound product, one per bound frame, and the framing
// service exactly once when any slot is framed. Line-item properties carry
// the wall position so the lines stay traceable in the order. Slots without
// a product contribute nothing.
func LinesFromComposition(c *composition.Composition, galleryName string) ([]Line, error) {
	if !c.HasProducts() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "composition has no products to add")
	}
	if galleryName == "" {
		galleryName = "My Gallery"
	}

	var lines []Line
	for i := range c.Slots {
		slot := &c.Slots[i]
		if slot.Product == nil {
			continue
		}

		position := fmt.Sprintf("Position %d", i+1)
		lines = append(lines, Line{
			VariantID: slot.Product.VariantID,
			Quantity:  1,
			Properties: map[string]string{
				"Gallery Item":     "Yes",
				"Gallery Name":     galleryName,
				"Product Position": position,
				"Frame Size":       slot.SizeLabel,
				"Material":         slot.Product.MaterialKey,
			},
		})

		if slot.Frame != nil {
			lines = append(lines, Line{
				VariantID: slot.Frame.VariantID,
				Quantity:  1,
				Properties: map[string]string{
					"Gallery Item":     "Yes",
					"Gallery Name":     galleryName,
					"Gallery Position": fmt.Sprintf("Frame %d", i+1),
					"Frame Type":       slot.Frame.Name,
					"Frame Size":       slot.Frame.SizeKey,
				},
			})
		}
	}

	if c.HasFramedSlots() && c.Service != nil {
		lines = append(lines, Line{
			VariantID: c.Service.VariantID,
			Quantity:  1,
			Properties: map[string]string{
				"Gallery Item": "Yes",
				"Gallery Name": galleryName,
				"Service Type": "Framing Service",
			},
		})
	}
	return lines, nil
}
