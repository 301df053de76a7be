package main

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/tileview"
)

var (
	background  = color.RGBA{0x20, 0x20, 0x20, 0xff}
	outlineDone = color.RGBA{0x00, 0xc0, 0x00, 0xff}
	outlineWait = color.RGBA{0xc0, 0x00, 0x00, 0xff}
)

type frameStats struct {
	tiles  int
	pixels int
}

func (s *frameStats) add(o frameStats) {
	s.tiles += o.tiles
	s.pixels += o.pixels
}

// composite paints the frame's tiles into a new width x height image,
// scaling each from its decoded size to its destination.
func composite(f tileview.Frame, width, height int) (*image.RGBA, frameStats) {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	var stats frameStats
	for _, t := range f.Tiles {
		r := viewRect(t.Dest)
		if r.Empty() || t.Image == nil {
			continue
		}
		draw.ApproxBiLinear.Scale(dst, r, t.Image, t.Image.Bounds(), draw.Over, nil)
		sz := t.Image.Bounds().Size()
		stats.tiles++
		stats.pixels += sz.X * sz.Y
	}
	if d := f.Debug; d != nil {
		for _, t := range d.Tiles {
			if !t.Visible || t.SampleSize != d.SampleSize {
				continue
			}
			c := outlineWait
			if t.Loaded {
				c = outlineDone
			}
			outline(dst, viewRect(t.Dest), c)
		}
	}
	return dst, stats
}

// viewRect rounds a destination outwards to whole pixels.
func viewRect(r tileview.RectF) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Left)), int(math.Floor(r.Top)),
		int(math.Ceil(r.Right)), int(math.Ceil(r.Bottom)),
	)
}

func outline(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		dst.SetRGBA(x, r.Min.Y, c)
		dst.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dst.SetRGBA(r.Min.X, y, c)
		dst.SetRGBA(r.Max.X-1, y, c)
	}
}
