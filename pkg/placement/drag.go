package placement

import "math"

// ClickThreshold is the screen-pixel displacement below which a pointer
// gesture counts as a click (select) instead of a drag (reposition). A single
// pointer gesture serves both purposes, so the distinction has to be made
// here and nowhere else.
const ClickThreshold = 5.0

// Drag accumulates a single pointer gesture over a frame.
//
// Deltas are tracked in screen space for the whole gesture and converted to
// logical units exactly once, on Release. Converting mid-drag would compound
// rounding error on every pointer event, which visibly walks the frame on
// long drags.
type Drag struct {
	logical Rect // frame rect at gesture start, logical units
	screen  Rect // on-screen canvas rect for this gesture
	startX  float64
	startY  float64
	curX    float64
	curY    float64
}

// StartDrag begins a gesture on a frame currently at logical within the given
// on-screen canvas rect. start coordinates are screen pixels.
func StartDrag(logical, screen Rect, startX, startY float64) *Drag {
	return &Drag{
		logical: logical,
		screen:  screen,
		startX:  startX,
		startY:  startY,
		curX:    startX,
		curY:    startY,
	}
}

// Move records the current pointer position in screen pixels.
func (d *Drag) Move(x, y float64) {
	d.curX = x
	d.curY = y
}

// Displacement returns the euclidean screen-pixel distance travelled so far.
func (d *Drag) Displacement() float64 {
	return math.Hypot(d.curX-d.startX, d.curY-d.startY)
}

// Preview returns the frame rect in screen pixels at the current pointer
// position, clamped so the frame stays on the canvas. Intended for rendering
// during the gesture only; nothing is committed.
func (d *Drag) Preview() Rect {
	onScreen := ToScreen(d.logical, d.screen)
	onScreen.X += d.curX - d.startX
	onScreen.Y += d.curY - d.startY
	return ToScreen(ClampToCanvas(ToLogical(onScreen, d.screen)), d.screen)
}

// Release ends the gesture. When displacement stays under ClickThreshold the
// gesture is a click: moved is false and the original rect is returned
// untouched. Otherwise the final screen position is converted back to logical
// units, clamped to the canvas, and returned as the committed rect.
func (d *Drag) Release() (committed Rect, moved bool) {
	if d.Displacement() < ClickThreshold {
		return d.logical, false
	}

	onScreen := ToScreen(d.logical, d.screen)
	onScreen.X += d.curX - d.startX
	onScreen.Y += d.curY - d.startY
	return ClampToCanvas(ToLogical(onScreen, d.screen)), true
}
