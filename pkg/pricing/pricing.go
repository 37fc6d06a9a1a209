// Package pricing computes order totals for a gallery composition.
//
// All arithmetic happens in minor currency units (integer cents) so repeated
// recomputation can never drift the way float accumulation does. Totals are a
// pure function of the composition: the engine recomputes them after every
// mutation instead of caching them anywhere they could go stale. Formatting
// into a display string is a separate stateless step applied at render time
// and never stored.
package pricing

import (
	"fmt"
	"strings"

	"github.com/kuriosis/wallbuilder/pkg/composition"
)

// Breakdown itemizes a composition's order total in minor units.
type Breakdown struct {
	ProductsMinor int64 `json:"products_minor" bson:"products_minor"`
	FramesMinor   int64 `json:"frames_minor" bson:"frames_minor"`
	ServiceMinor  int64 `json:"service_minor" bson:"service_minor"`
	TotalMinor    int64 `json:"total_minor" bson:"total_minor"`
}

// Total computes the order breakdown for c. Product and frame lines sum per
// slot. The framing service counts exactly once, and only while at least one
// slot actually has a frame binding; a service on an unframed wall is not a
// billable line.
func Total(c *composition.Composition) Breakdown {
	var b Breakdown
	for i := range c.Slots {
		if p := c.Slots[i].Product; p != nil {
			b.ProductsMinor += p.PriceMinor
		}
		if f := c.Slots[i].Frame; f != nil {
			b.FramesMinor += f.PriceMinor
		}
	}
	if c.Service != nil && c.HasFramedSlots() {
		b.ServiceMinor = c.Service.PriceMinor
	}
	b.TotalMinor = b.ProductsMinor + b.FramesMinor + b.ServiceMinor
	return b
}

// FormatMinor renders an amount of minor units with the given currency
// symbol, e.g. FormatMinor(4499, "€") == "€44.99". Negative amounts keep the
// sign in front of the symbol.
func FormatMinor(minor int64, symbol string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, symbol, minor/100, minor%100)
}

// FormatMinorComma renders like FormatMinor but with a comma decimal
// separator, matching European storefront display ("€44,99").
func FormatMinorComma(minor int64, symbol string) string {
	return strings.Replace(FormatMinor(minor, symbol), ".", ",", 1)
}
