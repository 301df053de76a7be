package image

import "sync"

// Pool is a thread-safe pool for reusing ImageBuf instances.
//
// Pool groups buffers by their dimensions and format. Tiles at one pyramid
// level mostly share a size, so a buffer released by a tile that scrolled
// off screen is usually the right shape for the next one to decode.
//
// Pool also counts buffers handed out and not yet returned, which lets
// callers check that nothing leaks when an image is torn down.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*ImageBuf
	maxSize int // max buffers per bucket
	live    int
	reused  int
}

type poolKey struct {
	width  int
	height int
	format Format
}

// PoolStats is a snapshot of pool usage.
type PoolStats struct {
	// Live is the number of buffers obtained with Get and not yet Put back.
	Live int
	// Pooled is the number of idle buffers held by the pool.
	Pooled int
	// Reused is the number of Get calls served from an idle buffer.
	Reused int
}

// NewPool creates a new image buffer pool with the given maximum buffers per bucket.
// A maxPerBucket of 0 means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*ImageBuf),
		maxSize: maxPerBucket,
	}
}

// Get retrieves a cleared image buffer from the pool or creates a new one.
// Returns nil for invalid dimensions or format.
func (p *Pool) Get(width, height int, format Format) *ImageBuf {
	key := poolKey{width: width, height: height, format: format}

	p.mu.Lock()
	if bucket := p.buckets[key]; len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.live++
		p.reused++
		p.mu.Unlock()

		buf.Clear()
		return buf
	}
	p.mu.Unlock()

	buf, err := NewImageBuf(width, height, format)
	if err != nil {
		return nil
	}
	p.mu.Lock()
	p.live++
	p.mu.Unlock()
	return buf
}

// Put returns an image buffer to the pool for reuse.
// If buf is nil or the bucket is at capacity the buffer is discarded.
func (p *Pool) Put(buf *ImageBuf) {
	if buf == nil {
		return
	}

	key := poolKey{width: buf.width, height: buf.height, format: buf.format}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.live--
	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// Stats returns a snapshot of pool usage.
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := PoolStats{Live: p.live, Reused: p.reused}
	for _, bucket := range p.buckets {
		s.Pooled += len(bucket)
	}
	return s
}

// defaultPool backs pyramids and schedulers created without a pool.
var defaultPool = NewPool(8)

// Default returns the shared pool.
func Default() *Pool {
	return defaultPool
}
