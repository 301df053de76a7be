package main

import (
	"context"
	"errors"
	"image"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/tileview/decoder"
	"github.com/gogpu/tileview/internal/config"
)

var errFlaky = errors.New("flaky read")

// flakyDecoder fails the first failures region decodes, then serves blank
// tiles of a 400x300 image.
type flakyDecoder struct {
	failures atomic.Int32
}

func (d *flakyDecoder) Init(context.Context, decoder.Source) (int, int, error) {
	return 400, 300, nil
}

func (d *flakyDecoder) DecodeRegion(_ context.Context, r image.Rectangle, sampleSize int) (image.Image, error) {
	if d.failures.Add(-1) >= 0 {
		return nil, errFlaky
	}
	return image.NewRGBA(image.Rect(0, 0, r.Dx()/sampleSize, r.Dy()/sampleSize)), nil
}

func (d *flakyDecoder) IsReady() bool { return true }
func (d *flakyDecoder) Recycle()      {}

func testConfig() *config.Config {
	return &config.Config{
		Input:       "flaky.png",
		Output:      "view.png",
		Width:       100,
		Height:      100,
		Orientation: "0",
		Workers:     1,
		DPI:         160,
		Timeout:     5 * time.Second,
		LogLevel:    "info",
	}
}

func renderWith(t *testing.T, dec *flakyDecoder) ([]view, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out := make(chan view, 4)
	err := render(ctx, testConfig(), func() decoder.RegionDecoder { return dec }, out)
	close(out)
	var views []view
	for v := range out {
		views = append(views, v)
	}
	return views, err
}

// =============================================================================
// render
// =============================================================================

func TestRender_RetriesFailedTiles(t *testing.T) {
	dec := &flakyDecoder{}
	dec.failures.Store(2)

	views, err := renderWith(t, dec)
	if err != nil {
		t.Fatalf("render() error = %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("render() sent %d views, want 1", len(views))
	}
	if views[0].stats.tiles == 0 {
		t.Error("view has no tiles")
	}
}

func TestRender_GivesUpOnPersistentFailure(t *testing.T) {
	dec := &flakyDecoder{}
	dec.failures.Store(1 << 20)

	views, err := renderWith(t, dec)
	if !errors.Is(err, errFlaky) {
		t.Fatalf("render() error = %v, want the decode error", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		t.Error("render() waited for the timeout instead of giving up")
	}
	if len(views) != 0 {
		t.Errorf("render() sent %d views, want none", len(views))
	}
}
