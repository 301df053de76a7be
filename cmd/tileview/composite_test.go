package main

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/tileview"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// near allows for rounding in the bilinear filter.
func near(a, b color.RGBA) bool {
	d := func(x, y uint8) bool {
		diff := int(x) - int(y)
		return diff >= -2 && diff <= 2
	}
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

// =============================================================================
// composite
// =============================================================================

func TestComposite_Empty(t *testing.T) {
	img, stats := composite(tileview.Frame{}, 4, 3)
	if got := img.Bounds(); got != image.Rect(0, 0, 4, 3) {
		t.Errorf("bounds = %v", got)
	}
	if got := img.RGBAAt(2, 1); got != background {
		t.Errorf("pixel = %v, want background", got)
	}
	if stats != (frameStats{}) {
		t.Errorf("stats = %+v, want zero", stats)
	}
}

func TestComposite_ScalesTiles(t *testing.T) {
	red := color.RGBA{0xff, 0, 0, 0xff}
	blue := color.RGBA{0, 0, 0xff, 0xff}
	f := tileview.Frame{Tiles: []tileview.DrawTile{
		// A 2x2 tile drawn over the left half, a 1x1 over the right.
		{Dest: tileview.RectF{Left: 0, Top: 0, Right: 10, Bottom: 10}, Image: solid(2, 2, red)},
		{Dest: tileview.RectF{Left: 10, Top: 0, Right: 20, Bottom: 10}, Image: solid(1, 1, blue)},
		// Off screen.
		{Dest: tileview.RectF{Left: 30, Top: 0, Right: 30, Bottom: 10}, Image: solid(1, 1, blue)},
	}}
	img, stats := composite(f, 20, 10)

	if got := img.RGBAAt(5, 5); !near(got, red) {
		t.Errorf("left pixel = %v, want red", got)
	}
	if got := img.RGBAAt(15, 5); !near(got, blue) {
		t.Errorf("right pixel = %v, want blue", got)
	}
	if diff := cmp.Diff(frameStats{tiles: 2, pixels: 5}, stats, cmp.AllowUnexported(frameStats{})); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestComposite_DebugOutlines(t *testing.T) {
	f := tileview.Frame{Debug: &tileview.DebugInfo{
		SampleSize: 1,
		Tiles: []tileview.TileDebug{
			{Dest: tileview.RectF{Left: 0, Top: 0, Right: 4, Bottom: 4}, SampleSize: 1, Visible: true, Loaded: true},
			{Dest: tileview.RectF{Left: 4, Top: 0, Right: 8, Bottom: 4}, SampleSize: 1, Visible: true},
			{Dest: tileview.RectF{Left: 0, Top: 4, Right: 8, Bottom: 8}, SampleSize: 2, Visible: true},
		},
	}}
	img, _ := composite(f, 8, 8)

	if got := img.RGBAAt(0, 0); got != outlineDone {
		t.Errorf("loaded outline = %v", got)
	}
	if got := img.RGBAAt(7, 0); got != outlineWait {
		t.Errorf("waiting outline = %v", got)
	}
	if got := img.RGBAAt(0, 7); got != background {
		t.Errorf("other level outlined: %v", got)
	}
}

func TestViewRect(t *testing.T) {
	got := viewRect(tileview.RectF{Left: 0.5, Top: -1.2, Right: 10.1, Bottom: 7})
	if want := image.Rect(0, -2, 11, 7); got != want {
		t.Errorf("viewRect = %v, want %v", got, want)
	}
}
