// Package tileview displays very large images in a viewport without ever
// decoding them at full resolution in one piece.
//
// # Overview
//
// A Viewer keeps a pyramid of tiles at power-of-two subsample factors. The
// coarsest level, the base layer, covers the whole image and is always
// loaded. As the user zooms in, finer tiles are decoded for the visible
// region only and discarded once they scroll out of view. Decoding happens
// in the background through a pluggable decoder.RegionDecoder; the viewer
// decides what to decode and where to draw it, never how pixels are blitted.
//
// # Quick Start
//
//	v, err := tileview.New()
//	if err != nil {
//	    return err
//	}
//	defer v.Close()
//
//	v.SetViewSize(1080, 1920)
//	if err := v.SetImage(decoder.FileSource("map.png"), nil); err != nil {
//	    return err
//	}
//
//	// On every frame:
//	f := v.Frame()
//	for _, t := range f.Tiles {
//	    draw(t.Image, t.Dest)
//	}
//
// # Threading
//
// A Viewer belongs to the goroutine that draws. Decode results are queued
// and applied by Frame, Pump or Await on that goroutine, so the host never
// needs locks.
//
// # Coordinate System
//
// Two spaces are used:
//   - view pixels, origin at the top-left of the viewport
//   - source pixels of the rotated image at full resolution
//
// Scale is view pixels per source pixel. ViewToSource and SourceToView
// convert between them.
//
// # Gestures
//
// HandleTouch accepts pointer events and implements one-finger pan with
// fling, two-finger pinch, double-tap zoom, double-tap-and-drag quick
// scale, taps and long presses. Tick confirms taps and long presses.
package tileview
