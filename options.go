package tileview

import (
	"log/slog"
	"time"

	"github.com/gogpu/tileview/decoder"
)

// Option configures a Viewer during creation.
//
// Example:
//
//	v, err := tileview.New(
//	    tileview.WithDecoder(myRegionDecoder),
//	    tileview.WithEventSink(tileview.EventFuncs{
//	        OnImageReady: func(w, h int) { log.Printf("%dx%d", w, h) },
//	    }),
//	)
type Option func(*options)

type options struct {
	factory decoder.Factory
	prober  decoder.OrientationProber
	sink    EventSink
	clock   func() time.Time
	logger  *slog.Logger
	workers int
	maxTile int
	dpi     float64
	debug   bool
}

// defaultDPI is the display density the DPI based setters assume unless
// WithDisplayDPI says otherwise.
const defaultDPI = 160

func defaultOptions() options {
	return options{
		factory: decoder.NewImageDecoder,
		prober:  decoder.ProbeEXIF,
		clock:   time.Now,
		workers: 1,
		dpi:     defaultDPI,
	}
}

// WithDecoder sets the factory that creates a region decoder for each image.
// The default decodes any format registered with the image package.
func WithDecoder(f decoder.Factory) Option {
	return func(o *options) {
		o.factory = f
	}
}

// WithOrientationProber replaces the EXIF probe used for OrientationEXIF.
func WithOrientationProber(p decoder.OrientationProber) Option {
	return func(o *options) {
		o.prober = p
	}
}

// WithEventSink sets the receiver of lifecycle and gesture events.
func WithEventSink(s EventSink) Option {
	return func(o *options) {
		o.sink = s
	}
}

// WithClock sets the time source for animations and gesture timers.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithLogger sets the logger. Defaults to the package logger at creation
// time (see SetLogger).
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithWorkers sets how many background goroutines run decode jobs. Decoder
// calls are serialized regardless; extra workers only overlap pixel
// conversion and rotation.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMaxTileSize caps the tile dimension in decoded pixels, overriding the
// limit reported by the decoder.
func WithMaxTileSize(px int) Option {
	return func(o *options) {
		o.maxTile = px
	}
}

// WithDisplayDPI sets the display density used by the DPI based setters and
// to scale gesture thresholds. The default is 160.
func WithDisplayDPI(dpi float64) Option {
	return func(o *options) {
		o.dpi = dpi
	}
}

// WithDebug makes Frame carry DebugInfo.
func WithDebug(on bool) Option {
	return func(o *options) {
		o.debug = on
	}
}
