package composition

import (
	"encoding/json"

	"github.com/kuriosis/wallbuilder/pkg/errors"
	"github.com/kuriosis/wallbuilder/pkg/placement"
)

// LayoutFrame is one pre-positioned frame within a layout template.
type LayoutFrame struct {
	Rect      placement.Rect `json:"rect" bson:"rect"`
	SizeLabel string         `json:"size_label" bson:"size_label"`
}

// Layout is a reusable arrangement of frames on the logical canvas. Layouts
// come from theme data (ParseLayoutFrames) or from the built-in presets.
type Layout struct {
	ID     string        `json:"id" bson:"id"`
	Name   string        `json:"name,omitempty" bson:"name,omitempty"`
	Frames []LayoutFrame `json:"frames" bson:"frames"`
}

// themeFrame mirrors the flat shape theme templates embed in data attributes:
// {"x":..,"y":..,"width":..,"height":..,"size":".."}.
type themeFrame struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Size   string  `json:"size"`
}

// ParseLayoutFrames decodes a theme-provided JSON frame array into layout
// frames. Coordinates are already in logical canvas units; each frame is
// clamped onto the canvas.
func ParseLayoutFrames(data []byte) ([]LayoutFrame, error) {
	var raw []themeFrame
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse layout frames")
	}

	frames := make([]LayoutFrame, 0, len(raw))
	for _, f := range raw {
		frames = append(frames, LayoutFrame{
			Rect:      placement.ClampToCanvas(placement.Rect{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height}),
			SizeLabel: f.Size,
		})
	}
	return frames, nil
}

// Presets returns the built-in layout templates, including the fixed "combo"
// arrangements sold as editable bundles. All coordinates are logical units.
func Presets() []Layout {
	return []Layout{
		{
			ID:   "solo-large",
			Name: "Solo",
			Frames: []LayoutFrame{
				{Rect: placement.Rect{X: 270, Y: 100, Width: 140, Height: 200}, SizeLabel: "70x100"},
			},
		},
		{
			ID:   "duo-horizontal",
			Name: "Duo",
			Frames: []LayoutFrame{
				{Rect: placement.Rect{X: 150, Y: 130, Width: 100, Height: 140}, SizeLabel: "50x70"},
				{Rect: placement.Rect{X: 390, Y: 130, Width: 100, Height: 140}, SizeLabel: "50x70"},
			},
		},
		{
			ID:   "trio-row",
			Name: "Trio",
			Frames: []LayoutFrame{
				{Rect: placement.Rect{X: 90, Y: 140, Width: 85, Height: 120}, SizeLabel: "30x40"},
				{Rect: placement.Rect{X: 277, Y: 120, Width: 85, Height: 120}, SizeLabel: "30x40"},
				{Rect: placement.Rect{X: 465, Y: 140, Width: 85, Height: 120}, SizeLabel: "30x40"},
			},
		},
		{
			ID:   "combo-four",
			Name: "Combo of 4",
			Frames: []LayoutFrame{
				{Rect: placement.Rect{X: 120, Y: 60, Width: 120, Height: 160}, SizeLabel: "50x70"},
				{Rect: placement.Rect{X: 400, Y: 60, Width: 120, Height: 160}, SizeLabel: "50x70"},
				{Rect: placement.Rect{X: 120, Y: 250, Width: 85, Height: 115}, SizeLabel: "30x40"},
				{Rect: placement.Rect{X: 400, Y: 250, Width: 85, Height: 115}, SizeLabel: "30x40"},
			},
		},
		{
			ID:   "combo-six",
			Name: "Combo of 6",
			Frames: []LayoutFrame{
				{Rect: placement.Rect{X: 60, Y: 50, Width: 85, Height: 115}, SizeLabel: "30x40"},
				{Rect: placement.Rect{X: 277, Y: 50, Width: 85, Height: 115}, SizeLabel: "30x40"},
				{Rect: placement.Rect{X: 495, Y: 50, Width: 85, Height: 115}, SizeLabel: "30x40"},
				{Rect: placement.Rect{X: 60, Y: 230, Width: 85, Height: 115}, SizeLabel: "30x40"},
				{Rect: placement.Rect{X: 277, Y: 230, Width: 85, Height: 115}, SizeLabel: "30x40"},
				{Rect: placement.Rect{X: 495, Y: 230, Width: 85, Height: 115}, SizeLabel: "30x40"},
			},
		},
	}
}

// PresetByID looks up a built-in layout.
func PresetByID(id string) (Layout, error) {
	for _, l := range Presets() {
		if l.ID == id {
			return l, nil
		}
	}
	return Layout{}, errors.New(errors.ErrCodeNotFound, "no layout preset %q", id)
}
