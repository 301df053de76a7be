package tileview

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func apply(opts ...Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.factory == nil || o.prober == nil || o.clock == nil {
		t.Fatal("default options missing decoder, prober or clock")
	}
	if o.workers != 1 {
		t.Errorf("workers = %d, want 1", o.workers)
	}
	if o.dpi != 160 {
		t.Errorf("dpi = %v, want 160", o.dpi)
	}
	if o.sink != nil || o.logger != nil || o.debug || o.maxTile != 0 {
		t.Errorf("unexpected non-zero defaults: %+v", o)
	}
}

func TestOptions(t *testing.T) {
	fixed := time.Unix(42, 0)
	o := apply(
		WithWorkers(3),
		WithMaxTileSize(512),
		WithDisplayDPI(320),
		WithDebug(true),
		WithClock(func() time.Time { return fixed }),
	)
	if o.workers != 3 || o.maxTile != 512 || o.dpi != 320 || !o.debug {
		t.Errorf("options not applied: %+v", o)
	}
	if !o.clock().Equal(fixed) {
		t.Errorf("clock() = %v, want %v", o.clock(), fixed)
	}
}

func TestWithClock_NilIgnored(t *testing.T) {
	if o := apply(WithClock(nil)); o.clock == nil {
		t.Error("WithClock(nil) cleared the clock")
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	v := newTestViewer(t, &fakeDecoder{w: 400, h: 300}, WithLogger(l))
	v.SetViewSize(100, 100)
	if err := v.SetImage(testSource, nil); err != nil {
		t.Fatalf("SetImage() error = %v", err)
	}
	waitFor(t, v, settled(v))

	if !strings.Contains(buf.String(), "loading image") {
		t.Errorf("viewer logger not used, output:\n%s", buf.String())
	}
}
