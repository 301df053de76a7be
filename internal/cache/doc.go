// Package cache provides a generic, thread-safe LRU cache bounded by the
// total cost of its entries.
//
//	c := cache.New[string, image.Image](256 << 20)
//	c.Set("map.png", img, int64(len(img.Pix)))
//	img, ok := c.Get("map.png")
//
// Cost is whatever unit the caller chooses, typically bytes. A Cache must
// not be copied after creation.
package cache
