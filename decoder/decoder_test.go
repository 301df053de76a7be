package decoder_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/gogpu/tileview/decoder"
)

// gradient returns an opaque image whose pixel (x, y) has red = x and
// green = y.
func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	return img
}

func encodePNG(c *qt.C, img image.Image) []byte {
	var buf bytes.Buffer
	c.Assert(png.Encode(&buf, img), qt.IsNil)
	return buf.Bytes()
}

func TestImageDecoder(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	d := &decoder.ImageDecoder{}
	c.Assert(d.IsReady(), qt.IsFalse)

	_, err := d.DecodeRegion(ctx, image.Rect(0, 0, 1, 1), 1)
	c.Assert(err, qt.ErrorIs, decoder.ErrNotReady)

	w, h, err := d.Init(ctx, decoder.BytesSource("gradient", encodePNG(c, gradient(200, 100))))
	c.Assert(err, qt.IsNil)
	c.Assert(w, qt.Equals, 200)
	c.Assert(h, qt.Equals, 100)
	c.Assert(d.IsReady(), qt.IsTrue)
	c.Assert(d.Format(), qt.Equals, "png")

	c.Run("full resolution", func(c *qt.C) {
		img, err := d.DecodeRegion(ctx, image.Rect(50, 20, 60, 30), 1)
		c.Assert(err, qt.IsNil)
		c.Assert(img.Bounds(), qt.Equals, image.Rect(0, 0, 10, 10))
		r, g, _, _ := img.At(3, 4).RGBA()
		c.Assert(r>>8, qt.Equals, uint32(53))
		c.Assert(g>>8, qt.Equals, uint32(24))
	})

	c.Run("subsampled", func(c *qt.C) {
		img, err := d.DecodeRegion(ctx, image.Rect(0, 0, 101, 50), 4)
		c.Assert(err, qt.IsNil)
		c.Assert(img.Bounds(), qt.Equals, image.Rect(0, 0, 26, 13))
	})

	c.Run("clipped to the image", func(c *qt.C) {
		img, err := d.DecodeRegion(ctx, image.Rect(190, 90, 300, 300), 1)
		c.Assert(err, qt.IsNil)
		c.Assert(img.Bounds(), qt.Equals, image.Rect(0, 0, 10, 10))
	})

	c.Run("outside", func(c *qt.C) {
		_, err := d.DecodeRegion(ctx, image.Rect(300, 300, 400, 400), 1)
		c.Assert(err, qt.ErrorIs, decoder.ErrEmptyRegion)
	})

	c.Run("cancelled", func(c *qt.C) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := d.DecodeRegion(cctx, image.Rect(0, 0, 10, 10), 1)
		c.Assert(err, qt.ErrorIs, context.Canceled)
	})

	d.Recycle()
	c.Assert(d.IsReady(), qt.IsFalse)
}

func TestImageDecoder_InitErrors(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	d := &decoder.ImageDecoder{}
	_, _, err := d.Init(ctx, decoder.BytesSource("junk", []byte("not an image")))
	c.Assert(err, qt.ErrorMatches, `decoder: decode junk: .*`)

	_, _, err = d.Init(ctx, decoder.FileSource(filepath.Join(t.TempDir(), "missing.png")))
	c.Assert(err, qt.ErrorIs, os.ErrNotExist)
}

func TestFileSource(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(t.TempDir(), "img.png")
	c.Assert(os.WriteFile(path, encodePNG(c, gradient(8, 8)), 0o600), qt.IsNil)

	src := decoder.FileSource(path)
	c.Assert(src.Name(), qt.Equals, path)

	w, h, err := decoder.NewImageDecoder().Init(context.Background(), src)
	c.Assert(err, qt.IsNil)
	c.Assert([]int{w, h}, qt.DeepEquals, []int{8, 8})
}

type limited struct {
	decoder.ImageDecoder
	max image.Point
}

func (l *limited) MaxTileSize() image.Point { return l.max }

func TestMaxTileSize(t *testing.T) {
	c := qt.New(t)

	c.Assert(decoder.MaxTileSize(&decoder.ImageDecoder{}), qt.Equals, image.Pt(2048, 2048))
	c.Assert(decoder.MaxTileSize(&decoder.ImageDecoder{MaxTile: 512}), qt.Equals, image.Pt(512, 512))
	c.Assert(decoder.MaxTileSize(&limited{max: image.Pt(4096, 1024)}), qt.Equals, image.Pt(4096, 1024))
	c.Assert(decoder.MaxTileSize(&limited{}), qt.Equals, image.Pt(2048, 2048))
}

// jpegWithOrientation returns a small JPEG carrying an EXIF APP1 segment
// with the given Orientation value.
func jpegWithOrientation(c *qt.C, orientation uint16) []byte {
	var enc bytes.Buffer
	c.Assert(jpeg.Encode(&enc, gradient(16, 8), nil), qt.IsNil)

	// Little endian TIFF header, IFD0 with a single SHORT entry.
	var tiff bytes.Buffer
	tiff.WriteString("II")
	le := binary.LittleEndian
	_ = binary.Write(&tiff, le, uint16(42))
	_ = binary.Write(&tiff, le, uint32(8))
	_ = binary.Write(&tiff, le, uint16(1))
	_ = binary.Write(&tiff, le, uint16(0x0112))
	_ = binary.Write(&tiff, le, uint16(3))
	_ = binary.Write(&tiff, le, uint32(1))
	_ = binary.Write(&tiff, le, orientation)
	_ = binary.Write(&tiff, le, uint16(0))
	_ = binary.Write(&tiff, le, uint32(0))

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)

	var out bytes.Buffer
	out.Write(enc.Bytes()[:2]) // SOI
	out.Write([]byte{0xFF, 0xE1})
	_ = binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(enc.Bytes()[2:])
	return out.Bytes()
}

func TestProbeEXIF(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		orientation uint16
		want        int
	}{
		{1, 0},
		{3, 180},
		{6, 90},
		{8, 270},
	}
	for _, tt := range tests {
		got, err := decoder.ProbeEXIF(decoder.BytesSource("exif", jpegWithOrientation(c, tt.orientation)))
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.Equals, tt.want, qt.Commentf("orientation %d", tt.orientation))
	}

	// Mirrored orientations are reported as errors and callers fall back.
	_, err := decoder.ProbeEXIF(decoder.BytesSource("mirror", jpegWithOrientation(c, 2)))
	c.Assert(err, qt.ErrorMatches, `.*unsupported EXIF orientation 2`)

	// The image still decodes with the extra segment.
	_, _, err = decoder.NewImageDecoder().Init(context.Background(), decoder.BytesSource("exif", jpegWithOrientation(c, 6)))
	c.Assert(err, qt.IsNil)
}

func TestProbeEXIF_NoMetadata(t *testing.T) {
	c := qt.New(t)

	got, err := decoder.ProbeEXIF(decoder.BytesSource("plain", encodePNG(c, gradient(4, 4))))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, 0)

	_, err = decoder.ProbeEXIF(decoder.BytesSource("junk", []byte("junk")))
	c.Assert(err, qt.IsNotNil)
}
