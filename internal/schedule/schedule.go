// Package schedule runs image initialization and tile decodes off the
// rendering goroutine.
//
// Work for one image belongs to a session. Each session owns its decoder,
// a weight-one semaphore serializing every call into that decoder, and a
// context that is cancelled when the image is replaced or the viewer closes.
// Finished work is posted on the Results channel and applied by the
// rendering goroutine. Results carry the generation of their session, so a
// result that arrives after its session ended is recognized and dropped.
package schedule

import (
	"context"
	"errors"
	stdimage "image"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/gogpu/tileview/decoder"
	"github.com/gogpu/tileview/internal/geom"
	"github.com/gogpu/tileview/internal/image"
	"github.com/gogpu/tileview/internal/parallel"
	"github.com/gogpu/tileview/internal/pyramid"
)

// resultBuffer is the capacity of the results channel.
const resultBuffer = 64

// Kind identifies the job a Result comes from.
type Kind int

const (
	// KindInit is the result of opening an image.
	KindInit Kind = iota + 1
	// KindTile is the result of decoding one tile.
	KindTile
)

// Result is the outcome of a background job.
type Result struct {
	Kind       Kind
	Generation uint64

	// Init results.
	Width, Height int
	Rotation      geom.Rotation
	MaxTile       geom.Size

	// Tile results. Buf is nil when the decode failed or the decoder was
	// not ready; Err is nil in the latter case.
	Tile *pyramid.Tile
	Buf  *image.ImageBuf

	Err error
}

// Load describes an image to open.
type Load struct {
	Factory decoder.Factory
	Source  decoder.Source

	// Rotation is applied to decoded tiles unless ProbeEXIF is set, in which
	// case the rotation is read from the file with Prober.
	Rotation  geom.Rotation
	ProbeEXIF bool
	Prober    decoder.OrientationProber
}

// session is the state shared by the jobs of one image load.
type session struct {
	id       string
	gen      uint64
	ctx      context.Context
	cancel   context.CancelFunc
	dec      decoder.RegionDecoder
	sem      *semaphore.Weighted
	source   string
	file     geom.Size
	rotation geom.Rotation
}

// Scheduler dispatches decode work for the current session.
//
// Start, Decode, Reset and Close are called from the rendering goroutine.
type Scheduler struct {
	pool    *parallel.WorkerPool
	pixels  *image.Pool
	log     *slog.Logger
	results chan Result

	mu      sync.Mutex
	gen     uint64
	current *session

	recycling sync.WaitGroup
}

// New creates a scheduler running jobs on workers goroutines (GOMAXPROCS
// when not positive). Decoded pixels are allocated from pixels.
func New(workers int, pixels *image.Pool, log *slog.Logger) *Scheduler {
	if pixels == nil {
		pixels = image.Default()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{
		pool:    parallel.NewWorkerPool(workers),
		pixels:  pixels,
		log:     log,
		results: make(chan Result, resultBuffer),
	}
}

// Results returns the channel finished jobs are posted on.
func (s *Scheduler) Results() <-chan Result {
	return s.results
}

// Generation returns the generation of the current session, or 0 if there
// is none.
func (s *Scheduler) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return 0
	}
	return s.current.gen
}

// SessionID returns the id of the current session, or "" when there is
// none. It appears as the session attribute of every log record.
func (s *Scheduler) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.id
}

// Start ends the current session and opens l in a new one. It returns the
// generation of the new session.
func (s *Scheduler) Start(l Load) uint64 {
	s.Reset()

	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	s.gen++
	sess := &session{
		id:       uuid.NewString(),
		gen:      s.gen,
		ctx:      ctx,
		cancel:   cancel,
		dec:      l.Factory(),
		sem:      semaphore.NewWeighted(1),
		source:   l.Source.Name(),
		rotation: l.Rotation,
	}
	s.current = sess
	s.mu.Unlock()

	s.log.Info("tileview: loading image", "session", sess.id, "source", sess.source)

	if !s.pool.Submit(func() { s.initialize(sess, l) }) {
		cancel()
	}
	return sess.gen
}

func (s *Scheduler) initialize(sess *session, l Load) {
	res := Result{Kind: KindInit, Generation: sess.gen}

	if err := sess.sem.Acquire(sess.ctx, 1); err != nil {
		return
	}
	if sess.ctx.Err() != nil {
		sess.sem.Release(1)
		return
	}
	w, h, err := sess.dec.Init(sess.ctx, l.Source)
	var maxTile stdimage.Point
	if err == nil {
		maxTile = decoder.MaxTileSize(sess.dec)
	}
	sess.sem.Release(1)

	if err != nil {
		res.Err = err
		s.post(sess, res)
		return
	}
	if w <= 0 || h <= 0 {
		res.Err = errors.New("decoder reported empty dimensions")
		s.post(sess, res)
		return
	}

	rotation := l.Rotation
	if l.ProbeEXIF {
		rotation = geom.Rotate0
		if l.Prober != nil {
			deg, perr := l.Prober(l.Source)
			switch {
			case perr != nil:
				s.log.Debug("tileview: orientation probe failed", "session", sess.id, "err", perr)
			case geom.Rotation(deg).Valid():
				rotation = geom.Rotation(deg)
			}
		}
	}

	s.mu.Lock()
	sess.file = geom.Size{W: w, H: h}
	sess.rotation = rotation
	s.mu.Unlock()

	res.Width, res.Height = w, h
	res.Rotation = rotation
	res.MaxTile = geom.Size{W: maxTile.X, H: maxTile.Y}
	s.post(sess, res)
}

// Decode requests the pixels of t for the session of generation gen. The
// tile must already be marked loading. It reports false if gen is not the
// current session, in which case nothing is scheduled.
func (s *Scheduler) Decode(gen uint64, t *pyramid.Tile) bool {
	s.mu.Lock()
	sess := s.current
	if sess == nil || sess.gen != gen {
		s.mu.Unlock()
		return false
	}
	rotation := sess.rotation
	s.mu.Unlock()

	// Copy what the job needs: the tile itself belongs to the rendering
	// goroutine.
	fileRect := t.FileRect
	sample := t.SampleSize

	return s.pool.Submit(func() {
		s.decode(sess, t, fileRect, sample, rotation)
	})
}

func (s *Scheduler) decode(sess *session, t *pyramid.Tile, fileRect geom.Rect, sample int, rotation geom.Rotation) {
	res := Result{Kind: KindTile, Generation: sess.gen, Tile: t}

	if err := sess.sem.Acquire(sess.ctx, 1); err != nil {
		return
	}
	if sess.ctx.Err() != nil {
		sess.sem.Release(1)
		return
	}
	if !sess.dec.IsReady() {
		sess.sem.Release(1)
		s.post(sess, res)
		return
	}
	r := stdimage.Rect(fileRect.Left, fileRect.Top, fileRect.Right, fileRect.Bottom)
	img, err := sess.dec.DecodeRegion(sess.ctx, r, sample)
	sess.sem.Release(1)

	if err != nil {
		if sess.ctx.Err() != nil {
			return
		}
		res.Err = err
		s.post(sess, res)
		return
	}
	if sess.ctx.Err() != nil {
		return
	}

	buf := image.FromStdImage(img, s.pixels)
	if rotated := image.Rotate(buf, int(rotation), s.pixels); rotated != buf {
		s.pixels.Put(buf)
		buf = rotated
	}
	res.Buf = buf

	s.log.Debug("tileview: tile decoded", "session", sess.id,
		"sample", sample, "rect", r, "w", buf.Width(), "h", buf.Height())
	s.post(sess, res)
}

// post delivers res unless its session ends first, in which case any pixels
// go back to the pool.
func (s *Scheduler) post(sess *session, res Result) {
	if sess.ctx.Err() != nil {
		s.pixels.Put(res.Buf)
		return
	}
	select {
	case s.results <- res:
	case <-sess.ctx.Done():
		s.pixels.Put(res.Buf)
	}
}

// Reset ends the current session. Queued jobs of the session become no-ops;
// the decoder is recycled once any call into it has returned.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	sess := s.current
	s.current = nil
	s.mu.Unlock()

	if sess == nil {
		return
	}
	sess.cancel()

	s.recycling.Add(1)
	go func() {
		defer s.recycling.Done()
		// Background context: recycling must wait for an in-flight decode.
		_ = sess.sem.Acquire(context.Background(), 1)
		sess.dec.Recycle()
		sess.sem.Release(1)
		s.log.Debug("tileview: decoder recycled", "session", sess.id)
	}()
}

// Close ends the current session, waits for the workers and for the decoder
// to be recycled. Pending results are drained and their pixels returned.
func (s *Scheduler) Close() {
	s.Reset()
	s.pool.Close()
	s.recycling.Wait()

	for {
		select {
		case res := <-s.results:
			s.pixels.Put(res.Buf)
		default:
			return
		}
	}
}
