package tileview

import (
	"context"
	"log/slog"

	"github.com/gogpu/tileview/decoder"
	"github.com/gogpu/tileview/internal/anim"
	"github.com/gogpu/tileview/internal/geom"
	"github.com/gogpu/tileview/internal/gesture"
	imagebuf "github.com/gogpu/tileview/internal/image"
	"github.com/gogpu/tileview/internal/pyramid"
	"github.com/gogpu/tileview/internal/schedule"
)

// pending is a scale and center to apply on the next frame, once the view
// and image sizes are known.
type pending struct {
	scale  float64
	center geom.Point
	reset  bool // show the whole image at minimum scale instead
}

// Viewer displays a large image in a viewport, decoding only the visible
// region at the resolution the current scale needs.
//
// A Viewer is owned by one goroutine, the one that draws. All methods,
// Close included, must be called from it. Decoding runs in the background
// and its results are applied by Frame, Pump or Await.
type Viewer struct {
	opts     options
	log      *slog.Logger
	sink     EventSink
	pixels   *imagebuf.Pool
	sched    *schedule.Scheduler
	gestures *gesture.Controller
	closed   bool

	view        geom.Size
	padding     geom.Padding
	panLimit    geom.PanLimit
	scaleType   geom.ScaleType
	minScale    float64 // floor for ScaleTypeCustom
	maxScale    float64
	minTileDPI  float64
	orientation Orientation

	// Image session.
	src       decoder.Source
	gen       uint64
	session   string
	file      geom.Size
	rotation  geom.Rotation
	maxTile   geom.Size
	inited    bool
	readySent bool
	baseSent  bool

	transform    geom.Transform
	pending      *pending
	requested    geom.Point
	hasRequested bool
	anim         *anim.Animation
	pyr          *pyramid.Pyramid
	intercept    Intercept
}

// New returns a viewer with no image.
func New(opts ...Option) (*Viewer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	switch {
	case o.factory == nil:
		return nil, invalidf("nil decoder factory")
	case !(o.dpi > 0):
		return nil, invalidf("display DPI %v", o.dpi)
	case o.workers < 1:
		return nil, invalidf("%d workers", o.workers)
	case o.maxTile < 0:
		return nil, invalidf("max tile size %d", o.maxTile)
	}
	if o.prober == nil {
		o.prober = decoder.ProbeEXIF
	}

	log := o.logger
	if log == nil {
		log = Logger()
	}
	var sink EventSink = nopSink{}
	if o.sink != nil {
		sink = o.sink
	}

	cfg := gesture.DefaultConfig()
	cfg.Density = o.dpi / defaultDPI
	cfg.DoubleTapScale = o.dpi / defaultDPI

	pixels := imagebuf.NewPool(8)
	return &Viewer{
		opts:      o,
		log:       log,
		sink:      sink,
		pixels:    pixels,
		sched:     schedule.New(o.workers, pixels, log),
		gestures:  gesture.New(cfg),
		panLimit:  geom.PanLimitInside,
		scaleType: geom.ScaleTypeCenterInside,
		maxScale:  o.dpi / defaultDPI,
	}, nil
}

// --- Image lifecycle ---

// SetImage starts displaying src, replacing any current image. A non-nil
// state restores a previous scale, center and orientation once the image
// is ready.
func (v *Viewer) SetImage(src decoder.Source, state *ViewState) error {
	if v.closed {
		return ErrClosed
	}
	if src == nil {
		return invalidf("nil source")
	}
	if state != nil && !state.Orientation.Valid() {
		return invalidf("orientation %d", state.Orientation)
	}

	v.resetView(true)
	if state != nil {
		v.orientation = state.Orientation
		v.pending = &pending{scale: state.Scale, center: state.Center}
	}
	v.src = src
	v.start()
	return nil
}

func (v *Viewer) start() {
	l := schedule.Load{
		Factory: v.opts.factory,
		Source:  v.src,
		Prober:  v.opts.prober,
	}
	if v.orientation == OrientationEXIF {
		l.ProbeEXIF = true
	} else {
		l.Rotation = geom.Rotation(v.orientation)
	}
	v.gen = v.sched.Start(l)
	v.session = v.sched.SessionID()
	v.inited = false
}

// Recycle drops the current image and its tiles. The viewer can be given
// another image afterwards.
func (v *Viewer) Recycle() {
	v.resetView(true)
	v.sched.Reset()
	v.src = nil
	v.gen = 0
	v.session = ""
}

// Close releases the viewer's resources and waits for background work to
// stop. It is safe to call more than once.
func (v *Viewer) Close() error {
	if v.closed {
		return nil
	}
	v.Recycle()
	v.sched.Close()
	v.closed = true
	return nil
}

// resetView forgets the viewport and the tiles. A new image also forgets
// its dimensions and the one-shot events.
func (v *Viewer) resetView(newImage bool) {
	v.transform = geom.Transform{}
	v.pending = nil
	v.requested = geom.Point{}
	v.hasRequested = false
	v.anim = nil
	v.gestures.Reset()
	if v.pyr != nil {
		v.pyr.Release()
		v.pyr = nil
	}
	if newImage {
		v.file = geom.Size{}
		v.rotation = geom.Rotate0
		v.maxTile = geom.Size{}
		v.inited = false
		v.readySent = false
		v.baseSent = false
	}
}

// --- Results ---

// Pump applies decode results that have arrived since the last call and
// reports whether anything visible changed. Frame calls it; a host that
// redraws on demand can call it from its event loop.
func (v *Viewer) Pump() bool {
	if v.closed {
		return false
	}
	changed := false
	for {
		select {
		case res := <-v.sched.Results():
			if v.apply(res) {
				changed = true
			}
		default:
			return changed
		}
	}
}

// Await blocks until at least one decode result arrives, then applies it
// and any others already waiting.
func (v *Viewer) Await(ctx context.Context) error {
	if v.closed {
		return ErrClosed
	}
	select {
	case res := <-v.sched.Results():
		v.apply(res)
		v.Pump()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (v *Viewer) apply(res schedule.Result) bool {
	if res.Generation != v.gen {
		v.pixels.Put(res.Buf)
		return false
	}
	switch res.Kind {
	case schedule.KindInit:
		return v.imageInited(res)
	case schedule.KindTile:
		return v.tileLoaded(res)
	}
	v.pixels.Put(res.Buf)
	return false
}

func (v *Viewer) imageInited(res schedule.Result) bool {
	if res.Err != nil {
		err := &InitializationError{Source: v.src.Name(), Err: res.Err}
		v.log.Error("tileview: image initialization failed", "session", v.session, "err", res.Err)
		v.sink.InitializationError(err)
		return false
	}

	size := geom.Size{W: res.Width, H: res.Height}
	if !v.file.Empty() && v.file != size {
		v.resetView(false)
	}
	v.file = size
	v.rotation = res.Rotation
	v.maxTile = res.MaxTile
	if v.opts.maxTile > 0 {
		v.maxTile = geom.Size{W: v.opts.maxTile, H: v.opts.maxTile}
	}
	v.inited = true

	if !v.readySent {
		v.preDraw()
		v.readySent = true
		v.sink.ImageReady(res.Width, res.Height)
	}
	return true
}

func (v *Viewer) tileLoaded(res schedule.Result) bool {
	t := res.Tile
	if v.pyr == nil || t == nil || !v.pyr.Contains(t) {
		v.pixels.Put(res.Buf)
		return false
	}
	if res.Err != nil {
		v.pyr.Failed(t)
		err := &TileDecodeError{Rect: t.SRect, SampleSize: t.SampleSize, Err: res.Err}
		v.log.Warn("tileview: tile decode failed", "session", v.session,
			"sample", t.SampleSize, "err", res.Err)
		v.sink.TileLoadError(err)
		return false
	}
	if !v.pyr.Loaded(t, res.Buf) {
		return false
	}

	if !v.baseSent && v.pyr.BaseLayerReady() {
		v.baseSent = true
		v.log.Debug("tileview: base layer ready", "session", v.session)
		v.sink.BaseLayerReady()
	}
	return true
}

// --- Viewport ---

// SetViewSize sets the size of the viewport in pixels. Once an image is
// showing its scale and center are kept.
func (v *Viewer) SetViewSize(width, height int) {
	size := geom.Size{W: max(0, width), H: max(0, height)}
	if size == v.view {
		return
	}
	if v.readySent && v.transform.Valid() && !v.view.Empty() {
		v.setPending(v.transform.Scale, v.Center())
	}
	v.view = size
}

// SetPadding insets the area the image is fitted into and centered in.
func (v *Viewer) SetPadding(left, top, right, bottom int) error {
	if left < 0 || top < 0 || right < 0 || bottom < 0 {
		return invalidf("padding %d,%d,%d,%d", left, top, right, bottom)
	}
	v.padding = geom.Padding{Left: left, Top: top, Right: right, Bottom: bottom}
	v.refit()
	return nil
}

func (v *Viewer) bounds() geom.Bounds {
	return geom.Bounds{
		View:          v.view,
		Padding:       v.padding,
		Source:        v.file,
		Rotation:      v.rotation,
		PanLimit:      v.panLimit,
		ScaleType:     v.scaleType,
		MinScaleFloor: v.minScale,
		MaxScale:      v.maxScale,
		Ready:         v.IsReady(),
	}
}

// fit clamps the live transform. The first fit of an image shows it whole,
// centered at minimum scale.
func (v *Viewer) fit(center bool) {
	b := v.bounds()
	if !v.transform.Valid() {
		v.transform = b.Initial()
		return
	}
	v.transform = b.Fit(v.transform, center)
}

// refit re-applies the limits after a setting changed.
func (v *Viewer) refit() {
	if v.IsReady() {
		v.fit(true)
		v.refresh(true)
	}
}

func (v *Viewer) setPending(scale float64, center geom.Point) {
	v.pending = &pending{scale: scale, center: center}
}

// preDraw applies a pending scale and center, then clamps the transform.
func (v *Viewer) preDraw() {
	if v.view.Empty() || v.file.Empty() {
		return
	}
	if p := v.pending; p != nil {
		v.pending = nil
		b := v.bounds()
		if p.reset {
			v.transform = b.Initial()
		} else {
			scale := b.ClampScale(p.scale)
			v.transform = geom.Transform{
				Scale:     scale,
				Translate: geom.CenterAt(p.center, b.ViewCenter(), scale),
			}
		}
		v.fit(true)
		v.refresh(true)
	}
	v.fit(false)
}

// --- Tiles ---

func (v *Viewer) density() pyramid.Density {
	return pyramid.Density{MinimumTileDPI: v.minTileDPI, DisplayDPI: v.opts.dpi}
}

// initBaseLayer builds the pyramid and requests the base level, decoded at
// twice the resolution the minimum scale needs.
func (v *Viewer) initBaseLayer() {
	b := v.bounds()
	rot := b.Rotated()
	base := pyramid.BaseSampleSize(rot, b.ClampScale(0), v.density())
	v.pyr = pyramid.Build(pyramid.Params{
		Source:         v.file,
		Rotation:       v.rotation,
		View:           v.view,
		MaxTile:        v.maxTile,
		BaseSampleSize: base,
	}, v.pixels)

	tiles := v.pyr.Base()
	v.log.Debug("tileview: base layer", "session", v.session,
		"sample", base, "tiles", len(tiles), "levels", len(v.pyr.Levels()))
	for _, t := range tiles {
		t.Loading = true
		if !v.sched.Decode(v.gen, t) {
			v.pyr.Failed(t)
		}
	}
	v.preDraw()
	v.refresh(true)
}

func (v *Viewer) sampleSize() int {
	s := pyramid.SampleSize(v.rotation.Rotated(v.file), v.transform.Scale, v.density())
	return v.pyr.ClampSampleSize(s)
}

// refresh updates tile visibility for the current transform. With load it
// also requests the decode of visible tiles that have no pixels.
func (v *Viewer) refresh(load bool) {
	if v.pyr == nil || !v.transform.Valid() {
		return
	}
	visible := v.transform.VisibleSource(v.view)
	for _, t := range v.pyr.Refresh(visible, v.sampleSize(), load) {
		if !v.sched.Decode(v.gen, t) {
			v.pyr.Failed(t)
		}
	}
}

// --- Queries ---

// IsReady reports whether the image dimensions are known and the viewport
// has been initialized. Tiles may still be loading.
func (v *Viewer) IsReady() bool {
	return v.readySent && v.inited && v.transform.Valid() && v.pyr != nil && !v.file.Empty()
}

// IsBaseLayerReady reports whether every base tile has been loaded. Before
// that the viewer draws nothing.
func (v *Viewer) IsBaseLayerReady() bool {
	return v.baseSent
}

// Scale returns the current scale, or 0 before the image is ready.
func (v *Viewer) Scale() float64 {
	return v.transform.Scale
}

// Center returns the source point at the center of the viewport.
func (v *Viewer) Center() Point {
	if !v.transform.Valid() {
		return Point{}
	}
	return v.transform.ToSource(v.bounds().ViewCenter())
}

// MinScale returns the smallest scale the current settings allow.
func (v *Viewer) MinScale() float64 {
	return v.bounds().MinScale()
}

// MaxScale returns the effective largest scale. It is never below MinScale.
func (v *Viewer) MaxScale() float64 {
	return v.bounds().MaxScaleLimit()
}

// State returns the scale, center and orientation for later restoring with
// SetImage. It reports false until the viewport is initialized.
func (v *Viewer) State() (ViewState, bool) {
	if !v.transform.Valid() || v.file.Empty() {
		return ViewState{}, false
	}
	return ViewState{Scale: v.transform.Scale, Center: v.Center(), Orientation: v.orientation}, true
}

// Orientation returns the configured orientation, which may be
// OrientationEXIF.
func (v *Viewer) Orientation() Orientation {
	return v.orientation
}

// AppliedOrientation returns the rotation in use. For OrientationEXIF it is
// the value read from the image, once known.
func (v *Viewer) AppliedOrientation() Orientation {
	return Orientation(v.rotation)
}

// SourceWidth returns the unrotated width of the image, or 0 before it is
// known.
func (v *Viewer) SourceWidth() int {
	return v.file.W
}

// SourceHeight returns the unrotated height of the image, or 0 before it is
// known.
func (v *Viewer) SourceHeight() int {
	return v.file.H
}

// ViewToSource converts a view point to source coordinates. It reports
// false before the viewport is initialized.
func (v *Viewer) ViewToSource(p Point) (Point, bool) {
	if !v.transform.Valid() {
		return Point{}, false
	}
	return v.transform.ToSource(p), true
}

// SourceToView converts a source point to view coordinates. It reports
// false before the viewport is initialized.
func (v *Viewer) SourceToView(p Point) (Point, bool) {
	if !v.transform.Valid() {
		return Point{}, false
	}
	return v.transform.ToView(p), true
}
