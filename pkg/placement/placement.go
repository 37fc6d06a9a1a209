// Package placement models frame positions on the gallery wall.
//
// All saved coordinates live in a fixed logical canvas of 640×400 units.
// Screens render the wall at whatever pixel size fits the viewport, so every
// rect is converted between the two spaces with plain linear scaling. Saving
// in logical units is what makes a layout portable across devices and device
// pixel ratios: the serialization never sees a screen pixel.
package placement

// Logical canvas dimensions. These are the serialization coordinate system
// and must never change, or every persisted layout shifts.
const (
	CanvasWidth  = 640.0
	CanvasHeight = 400.0
)

// Rect is an axis-aligned rectangle. Whether its values are logical units or
// screen pixels depends on which side of a conversion it is on.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Canvas returns the full logical canvas as a Rect at the origin.
func Canvas() Rect {
	return Rect{Width: CanvasWidth, Height: CanvasHeight}
}

// ToScreen converts a logical rect to screen pixels given the on-screen
// canvas rect. screen may be positioned anywhere; the offset is applied.
func ToScreen(logical, screen Rect) Rect {
	sx := screen.Width / CanvasWidth
	sy := screen.Height / CanvasHeight
	return Rect{
		X:      screen.X + logical.X*sx,
		Y:      screen.Y + logical.Y*sy,
		Width:  logical.Width * sx,
		Height: logical.Height * sy,
	}
}

// ToLogical is the exact inverse of ToScreen.
func ToLogical(onScreen, screen Rect) Rect {
	sx := CanvasWidth / screen.Width
	sy := CanvasHeight / screen.Height
	return Rect{
		X:      (onScreen.X - screen.X) * sx,
		Y:      (onScreen.Y - screen.Y) * sy,
		Width:  onScreen.Width * sx,
		Height: onScreen.Height * sy,
	}
}

// ClampToCanvas moves r the minimum distance needed to lie fully inside the
// logical canvas. Rects larger than the canvas are pinned to the origin.
func ClampToCanvas(r Rect) Rect {
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	if r.X+r.Width > CanvasWidth {
		r.X = CanvasWidth - r.Width
	}
	if r.Y+r.Height > CanvasHeight {
		r.Y = CanvasHeight - r.Height
	}
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	return r
}

// Contains reports whether r lies fully inside the logical canvas.
func Contains(r Rect) bool {
	return r.X >= 0 && r.Y >= 0 && r.X+r.Width <= CanvasWidth && r.Y+r.Height <= CanvasHeight
}
