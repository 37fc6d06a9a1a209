// Package render draws gallery compositions as standalone SVG images.
//
// The output is a plain scalable vector of positioned rectangles in the
// composition's logical coordinate space, suitable for previews in listings
// and share-link unfurls. No external tooling is involved.
package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/kuriosis/wallbuilder/pkg/composition"
	"github.com/kuriosis/wallbuilder/pkg/placement"
)

// RenderOption customizes SVG output.
type RenderOption func(*renderer)

// WithScale multiplies the output pixel size while keeping the viewBox in
// logical units. Default 1.0.
func WithScale(scale float64) RenderOption {
	return func(r *renderer) {
		if scale > 0 {
			r.scale = scale
		}
	}
}

// WithWallColor sets the background fill. Default a warm wall tone.
func WithWallColor(color string) RenderOption {
	return func(r *renderer) { r.wall = color }
}

type renderer struct {
	scale float64
	wall  string
}

// RenderSVG renders the composition. Empty slots are drawn as dashed
// placeholders, bound products as filled prints with their title, framed
// slots with a heavier border.
func RenderSVG(c *composition.Composition, opts ...RenderOption) []byte {
	r := renderer{scale: 1.0, wall: "#ece5da"}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := placement.CanvasWidth, placement.CanvasHeight
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w*r.scale, h*r.scale)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", w, h, r.wall)

	for i := range c.Slots {
		renderSlot(&buf, &c.Slots[i])
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderSlot(buf *bytes.Buffer, slot *composition.Slot) {
	rect := slot.Rect

	switch {
	case slot.Product == nil:
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#b0a89c" stroke-width="1.5" stroke-dasharray="6 4"/>`+"\n",
			rect.X, rect.Y, rect.Width, rect.Height)
		return
	case slot.Frame != nil:
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#fdfdfc" stroke="#5c4632" stroke-width="5"/>`+"\n",
			rect.X, rect.Y, rect.Width, rect.Height)
	default:
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#fdfdfc" stroke="#333333" stroke-width="1.5"/>`+"\n",
			rect.X, rect.Y, rect.Width, rect.Height)
	}

	if title := slot.Product.Title; title != "" {
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="10" fill="#555">%s</text>`+"\n",
			rect.X+rect.Width/2, rect.Y+rect.Height/2, escapeXML(title))
	}
	if slot.SizeLabel != "" {
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="8" fill="#999">%s</text>`+"\n",
			rect.X+rect.Width/2, rect.Y+rect.Height-6, escapeXML(slot.SizeLabel))
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
