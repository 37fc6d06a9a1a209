package placement

import (
	"math"
	"testing"
)

func rectsClose(a, b Rect, tol float64) bool {
	return math.Abs(a.X-b.X) < tol &&
		math.Abs(a.Y-b.Y) < tol &&
		math.Abs(a.Width-b.Width) < tol &&
		math.Abs(a.Height-b.Height) < tol
}

func TestToScreenScaling(t *testing.T) {
	// A canvas rendered at exactly 2x logical size.
	screen := Rect{X: 10, Y: 20, Width: 1280, Height: 800}
	logical := Rect{X: 50, Y: 50, Width: 100, Height: 150}

	got := ToScreen(logical, screen)
	want := Rect{X: 110, Y: 120, Width: 200, Height: 300}
	if !rectsClose(got, want, 1e-9) {
		t.Errorf("ToScreen = %+v, want %+v", got, want)
	}
}

func TestRoundTripStability(t *testing.T) {
	screens := []Rect{
		{Width: 640, Height: 400},
		{X: 13, Y: 7, Width: 977, Height: 533},
		{Width: 320, Height: 200},
		{X: -5, Y: 40, Width: 1440.5, Height: 812.25},
	}
	rects := []Rect{
		{X: 0, Y: 0, Width: 640, Height: 400},
		{X: 50, Y: 50, Width: 100, Height: 150},
		{X: 123.4, Y: 56.7, Width: 89.1, Height: 23.45},
		{X: 639, Y: 399, Width: 1, Height: 1},
	}

	for _, screen := range screens {
		for _, r := range rects {
			// toLogical(toScreen(toLogical(R,C),C),C) == toLogical(R,C)
			l := ToLogical(r, screen)
			back := ToLogical(ToScreen(l, screen), screen)
			if !rectsClose(l, back, 1e-6) {
				t.Errorf("round trip unstable for rect %+v on screen %+v: %+v vs %+v", r, screen, l, back)
			}

			// And the plain inverse property in the other direction.
			s := ToScreen(r, screen)
			if !rectsClose(ToLogical(s, screen), r, 1e-6) {
				t.Errorf("ToLogical(ToScreen(r)) != r for %+v on %+v", r, screen)
			}
		}
	}
}

func TestClampToCanvas(t *testing.T) {
	tests := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"Inside", Rect{X: 10, Y: 10, Width: 50, Height: 50}, Rect{X: 10, Y: 10, Width: 50, Height: 50}},
		{"OffLeft", Rect{X: -20, Y: 10, Width: 50, Height: 50}, Rect{X: 0, Y: 10, Width: 50, Height: 50}},
		{"OffRight", Rect{X: 630, Y: 10, Width: 50, Height: 50}, Rect{X: 590, Y: 10, Width: 50, Height: 50}},
		{"OffBottom", Rect{X: 10, Y: 390, Width: 50, Height: 50}, Rect{X: 10, Y: 350, Width: 50, Height: 50}},
		{"Oversized", Rect{X: 100, Y: 100, Width: 700, Height: 500}, Rect{X: 0, Y: 0, Width: 700, Height: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampToCanvas(tt.in); got != tt.want {
				t.Errorf("ClampToCanvas(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDragBelowThresholdIsClick(t *testing.T) {
	logical := Rect{X: 50, Y: 50, Width: 100, Height: 150}
	screen := Rect{Width: 1280, Height: 800}

	d := StartDrag(logical, screen, 200, 200)
	d.Move(202, 201) // sub-threshold wiggle

	got, moved := d.Release()
	if moved {
		t.Error("sub-threshold release should report a click, not a move")
	}
	if got != logical {
		t.Errorf("click must leave the rect untouched: got %+v", got)
	}
}

func TestDragCommitsOnRelease(t *testing.T) {
	logical := Rect{X: 50, Y: 50, Width: 100, Height: 150}
	// 2x render scale: 100 screen px right = 50 logical units.
	screen := Rect{Width: 1280, Height: 800}

	d := StartDrag(logical, screen, 300, 300)
	d.Move(350, 320)
	d.Move(400, 340) // final position: +100, +40 screen px

	got, moved := d.Release()
	if !moved {
		t.Fatal("displacement above threshold should commit a move")
	}
	want := Rect{X: 100, Y: 70, Width: 100, Height: 150}
	if !rectsClose(got, want, 1e-9) {
		t.Errorf("committed rect = %+v, want %+v", got, want)
	}
}

func TestDragClampsToCanvas(t *testing.T) {
	logical := Rect{X: 600, Y: 350, Width: 40, Height: 50}
	screen := Rect{Width: 640, Height: 400} // 1:1 scale

	d := StartDrag(logical, screen, 0, 0)
	d.Move(500, 500) // way past the bottom-right corner

	got, moved := d.Release()
	if !moved {
		t.Fatal("expected a committed move")
	}
	if !Contains(got) {
		t.Errorf("committed rect %+v escaped the canvas", got)
	}
	if got.X != CanvasWidth-40 || got.Y != CanvasHeight-50 {
		t.Errorf("rect should be pinned to the corner, got %+v", got)
	}
}

func TestDragPreviewStaysOnCanvas(t *testing.T) {
	logical := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	screen := Rect{Width: 640, Height: 400}

	d := StartDrag(logical, screen, 50, 50)
	d.Move(-300, -300)

	preview := d.Preview()
	if preview.X < 0 || preview.Y < 0 {
		t.Errorf("preview %+v left the canvas", preview)
	}
}
