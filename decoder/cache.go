package decoder

import (
	"image"

	"github.com/gogpu/tileview/internal/cache"
)

// ImageCache keeps images decoded by ImageDecoder so that loading the same
// source again, after a rotation change or Recycle for instance, skips
// decoding. Entries are keyed by Source.Name and bounded by an estimate of
// their memory use. It is safe for concurrent use.
type ImageCache struct {
	c *cache.Cache[string, decoded]
}

type decoded struct {
	img    image.Image
	format string
}

// NewImageCache returns a cache holding up to maxBytes of decoded pixels.
// Zero means unlimited.
func NewImageCache(maxBytes int64) *ImageCache {
	return &ImageCache{c: cache.New[string, decoded](maxBytes)}
}

// Factory returns a Factory creating ImageDecoders that share c.
func (c *ImageCache) Factory() Factory {
	return func() RegionDecoder {
		return &ImageDecoder{Cache: c}
	}
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	return c.c.Len()
}

// Bytes returns the estimated memory held.
func (c *ImageCache) Bytes() int64 {
	return c.c.Stats().Cost
}

// HitRate returns the share of loads served from the cache.
func (c *ImageCache) HitRate() float64 {
	return c.c.Stats().HitRate()
}

// Forget drops the image for name, for example after the file changed.
func (c *ImageCache) Forget(name string) {
	c.c.Delete(name)
}

func (c *ImageCache) get(name string) (decoded, bool) {
	return c.c.Get(name)
}

func (c *ImageCache) put(name string, d decoded) {
	b := d.img.Bounds()
	c.c.Set(name, d, int64(b.Dx())*int64(b.Dy())*4)
}
