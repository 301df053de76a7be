// Command tileview renders views of a large image the way an interactive
// viewer would show them: only the tiles needed for each view are decoded,
// at the subsample level that view needs.
//
// Usage:
//
//	tileview -in map.png -width 1080 -height 1920 -scales 0.25,1,4 -center 5000,3000
//
// Every flag can also be set through a TILEVIEW_* environment variable.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/tileview"
	"github.com/gogpu/tileview/decoder"
	"github.com/gogpu/tileview/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("tileview", "error", err)
		os.Exit(1)
	}
}

// view is one rendered viewport, ready to be written.
type view struct {
	index  int
	scale  float64
	center tileview.Point
	img    *image.RGBA
	stats  frameStats
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fs := flag.NewFlagSet("tileview", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	tileview.SetLogger(slog.Default())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	start := time.Now()
	views := make(chan view)
	var total frameStats
	written := 0

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(views)
		return render(ctx, cfg, nil, views)
	})
	g.Go(func() error {
		n := max(len(cfg.Scales), 1)
		for v := range views {
			path := cfg.OutputPath(v.index, n)
			if err := writePNG(path, v.img); err != nil {
				return err
			}
			slog.Info("wrote view", "path", path, "scale", v.scale,
				"center", v.center, "tiles", v.stats.tiles)
			total.add(v.stats)
			written++
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	p.Printf("wrote %d views from %d tiles (%d decoded pixels) in %v\n",
		written, total.tiles, total.pixels, time.Since(start).Round(time.Millisecond))
	return nil
}

// maxTileFailures is how many failed tile decodes render tolerates before
// giving up.
const maxTileFailures = 8

// render drives a viewer through every requested view and sends each one
// once all its tiles are loaded. A nil factory decodes with the reference
// decoder behind an image cache.
func render(ctx context.Context, cfg *config.Config, factory decoder.Factory, out chan<- view) error {
	var (
		failure  error
		tileErr  error
		failures int
	)
	images := decoder.NewImageCache(int64(cfg.CacheMB) << 20)
	if factory == nil {
		factory = images.Factory()
	}
	v, err := tileview.New(
		tileview.WithDecoder(factory),
		tileview.WithWorkers(cfg.Workers),
		tileview.WithMaxTileSize(cfg.MaxTile),
		tileview.WithDisplayDPI(cfg.DPI),
		tileview.WithDebug(cfg.Debug),
		tileview.WithEventSink(tileview.EventFuncs{
			OnInitializationError: func(err error) { failure = err },
			OnTileLoadError: func(err error) {
				slog.Warn("tile decode failed", "error", err)
				tileErr = err
				failures++
			},
		}),
	)
	if err != nil {
		return err
	}
	defer v.Close()

	orientation, _ := cfg.ParseOrientation()
	if err := v.SetOrientation(orientation); err != nil {
		return err
	}
	if cfg.TileDPI > 0 {
		if err := v.SetMinimumTileDPI(cfg.TileDPI); err != nil {
			return err
		}
	}
	for _, s := range cfg.Scales {
		if s > v.MaxScale() {
			if err := v.SetMaxScale(s); err != nil {
				return err
			}
		}
	}
	v.SetViewSize(cfg.Width, cfg.Height)
	if err := v.SetImage(decoder.FileSource(cfg.Input), nil); err != nil {
		return err
	}

	settle := func(done func(tileview.Frame) bool) (tileview.Frame, error) {
		for {
			f := v.Frame()
			if failure != nil {
				return f, failure
			}
			if done(f) {
				return f, nil
			}
			if tileErr != nil {
				if failures > maxTileFailures {
					return f, fmt.Errorf("%d tile decodes failed, last: %w", failures, tileErr)
				}
				// Re-applying the view requests the failed tiles again.
				tileErr = nil
				v.SetScaleAndCenter(v.Scale(), v.Center())
				continue
			}
			if err := v.Await(ctx); err != nil {
				return f, err
			}
		}
	}
	if _, err := settle(func(tileview.Frame) bool { return v.IsReady() }); err != nil {
		return fmt.Errorf("open %s: %w", cfg.Input, err)
	}
	slog.Debug("image ready", "width", v.SourceWidth(), "height", v.SourceHeight(),
		"orientation", v.AppliedOrientation())

	center, hasCenter, _ := cfg.ParseCenter()
	if !hasCenter {
		center = v.Center()
	}
	scales := cfg.Scales
	if len(scales) == 0 {
		scales = []float64{0}
	}
	for i, s := range scales {
		if s > 0 {
			v.SetScaleAndCenter(s, center)
		} else {
			v.ResetScaleAndCenter()
		}
		f, err := settle(func(f tileview.Frame) bool {
			return v.IsBaseLayerReady() && !f.Loading && !f.Animating
		})
		if err != nil {
			return fmt.Errorf("view %d: %w", i+1, err)
		}
		// Tile images are only valid until the next Frame, so composite now.
		img, stats := composite(f, cfg.Width, cfg.Height)
		select {
		case out <- view{index: i, scale: v.Scale(), center: v.Center(), img: img, stats: stats}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	slog.Debug("image cache", "images", images.Len(), "bytes", images.Bytes(), "hit_rate", images.HitRate())
	return nil
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
