package render

import (
	"strings"
	"testing"

	"github.com/kuriosis/wallbuilder/pkg/composition"
	"github.com/kuriosis/wallbuilder/pkg/placement"
)

func TestRenderSVG(t *testing.T) {
	c := composition.New()
	empty := c.AddSlot(placement.Rect{X: 20, Y: 30, Width: 100, Height: 140}, "50x70")
	filled := c.AddSlot(placement.Rect{X: 160, Y: 30, Width: 80, Height: 100}, "30x40")
	_ = empty

	if err := c.BindProduct(filled, composition.ProductBinding{
		VariantID: "v1", Title: "Art & Lines",
	}); err != nil {
		t.Fatalf("BindProduct() error = %v", err)
	}

	svg := string(RenderSVG(c))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 640.0 400.0"`) {
		t.Errorf("unexpected SVG header: %s", svg[:80])
	}
	if !strings.Contains(svg, `stroke-dasharray`) {
		t.Error("empty slot should render as dashed placeholder")
	}
	if !strings.Contains(svg, `x="160.0" y="30.0" width="80.0" height="100.0"`) {
		t.Error("bound slot rectangle missing")
	}
	if !strings.Contains(svg, "Art &amp; Lines") {
		t.Error("product title should be XML-escaped")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not closed")
	}
}

func TestRenderSVGFramedSlot(t *testing.T) {
	c := composition.New()
	idx := c.AddSlot(placement.Rect{X: 10, Y: 10, Width: 100, Height: 100}, "30x40")
	if err := c.BindProduct(idx, composition.ProductBinding{VariantID: "v1"}); err != nil {
		t.Fatalf("BindProduct() error = %v", err)
	}
	if err := c.BindFrame(idx, composition.FrameBinding{VariantID: "f1", Name: "Oak"}, nil); err != nil {
		t.Fatalf("BindFrame() error = %v", err)
	}

	svg := string(RenderSVG(c))
	if !strings.Contains(svg, `stroke="#5c4632" stroke-width="5"`) {
		t.Error("framed slot should use the heavy frame border")
	}
}

func TestRenderSVGScale(t *testing.T) {
	c := composition.New()
	svg := string(RenderSVG(c, WithScale(2.0)))
	if !strings.Contains(svg, `width="1280" height="800"`) {
		t.Errorf("scaled output dimensions wrong: %s", svg[:120])
	}
}
