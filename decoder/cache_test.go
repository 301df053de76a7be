package decoder_test

import (
	"context"
	"image"
	"io"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/gogpu/tileview/decoder"
)

// countingSource counts how often it is opened.
type countingSource struct {
	decoder.Source
	opens int
}

func (s *countingSource) Open() (io.ReadSeekCloser, error) {
	s.opens++
	return s.Source.Open()
}

func TestImageCache(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	cache := decoder.NewImageCache(0)
	src := &countingSource{Source: decoder.BytesSource("gradient", encodePNG(c, gradient(20, 10)))}

	first := cache.Factory()()
	w, h, err := first.Init(ctx, src)
	c.Assert(err, qt.IsNil)
	c.Assert([]int{w, h}, qt.DeepEquals, []int{20, 10})
	c.Assert(src.opens, qt.Equals, 1)
	c.Assert(cache.Len(), qt.Equals, 1)
	c.Assert(cache.Bytes(), qt.Equals, int64(20*10*4))

	second := cache.Factory()()
	w, h, err = second.Init(ctx, src)
	c.Assert(err, qt.IsNil)
	c.Assert([]int{w, h}, qt.DeepEquals, []int{20, 10})
	c.Assert(src.opens, qt.Equals, 1)
	c.Assert(cache.HitRate(), qt.Equals, 0.5)

	img, err := second.DecodeRegion(ctx, image.Rect(5, 5, 7, 7), 1)
	c.Assert(err, qt.IsNil)
	r, g, _, _ := img.At(1, 1).RGBA()
	c.Assert([]uint32{r >> 8, g >> 8}, qt.DeepEquals, []uint32{6, 6})

	// Recycling one decoder leaves the cached image to the others.
	first.Recycle()
	c.Assert(second.IsReady(), qt.IsTrue)

	cache.Forget("gradient")
	_, _, err = cache.Factory()().Init(ctx, src)
	c.Assert(err, qt.IsNil)
	c.Assert(src.opens, qt.Equals, 2)
}

func TestImageCache_Limit(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	// Room for one 10x10 image.
	cache := decoder.NewImageCache(10 * 10 * 4)
	a := &countingSource{Source: decoder.BytesSource("a", encodePNG(c, gradient(10, 10)))}
	b := &countingSource{Source: decoder.BytesSource("b", encodePNG(c, gradient(10, 10)))}

	for _, src := range []*countingSource{a, b, a} {
		_, _, err := cache.Factory()().Init(ctx, src)
		c.Assert(err, qt.IsNil)
	}
	c.Assert(a.opens, qt.Equals, 2)
	c.Assert(b.opens, qt.Equals, 1)
	c.Assert(cache.Len(), qt.Equals, 1)
}

func TestImageCache_FailedDecodeNotCached(t *testing.T) {
	c := qt.New(t)
	cache := decoder.NewImageCache(0)
	_, _, err := cache.Factory()().Init(context.Background(), decoder.BytesSource("junk", []byte("junk")))
	c.Assert(err, qt.IsNotNil)
	c.Assert(cache.Len(), qt.Equals, 0)
}
