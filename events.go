package tileview

// EventSink receives lifecycle events. Methods are called on the goroutine
// that calls Frame, Pump, Await or HandleTouch.
type EventSink interface {
	// ImageReady is sent once per image, after its dimensions are known and
	// the initial scale and center have been applied.
	ImageReady(width, height int)

	// BaseLayerReady is sent once per image when every base tile is loaded.
	BaseLayerReady()

	// TileLoadError is sent for every failed tile decode, as a
	// *TileDecodeError.
	TileLoadError(err error)

	// InitializationError is sent when the image cannot be opened, as an
	// *InitializationError.
	InitializationError(err error)
}

// GestureSink is optionally implemented by an EventSink to receive taps and
// long presses.
type GestureSink interface {
	Tap(p Point)
	LongPress(p Point)
}

// EventFuncs adapts plain functions to EventSink and GestureSink. Nil
// fields are skipped.
type EventFuncs struct {
	OnImageReady          func(width, height int)
	OnBaseLayerReady      func()
	OnTileLoadError       func(err error)
	OnInitializationError func(err error)
	OnTap                 func(p Point)
	OnLongPress           func(p Point)
}

func (f EventFuncs) ImageReady(width, height int) {
	if f.OnImageReady != nil {
		f.OnImageReady(width, height)
	}
}

func (f EventFuncs) BaseLayerReady() {
	if f.OnBaseLayerReady != nil {
		f.OnBaseLayerReady()
	}
}

func (f EventFuncs) TileLoadError(err error) {
	if f.OnTileLoadError != nil {
		f.OnTileLoadError(err)
	}
}

func (f EventFuncs) InitializationError(err error) {
	if f.OnInitializationError != nil {
		f.OnInitializationError(err)
	}
}

func (f EventFuncs) Tap(p Point) {
	if f.OnTap != nil {
		f.OnTap(p)
	}
}

func (f EventFuncs) LongPress(p Point) {
	if f.OnLongPress != nil {
		f.OnLongPress(p)
	}
}

// nopSink is used when no sink is configured.
type nopSink struct{}

func (nopSink) ImageReady(int, int)       {}
func (nopSink) BaseLayerReady()           {}
func (nopSink) TileLoadError(error)       {}
func (nopSink) InitializationError(error) {}
