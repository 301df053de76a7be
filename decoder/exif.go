package decoder

import (
	"fmt"
	"image"
	"io"

	"github.com/bep/imagemeta"
)

// EXIF orientation tag values that describe a pure rotation. Mirrored
// orientations are not supported and read as unrotated.
const (
	exifNormal    = 1
	exifRotate180 = 3
	exifRotate90  = 6
	exifRotate270 = 8
)

// OrientationProber reads the clockwise rotation, in degrees, that a source
// asks to be displayed with.
type OrientationProber func(src Source) (int, error)

// ProbeEXIF is an OrientationProber reading the EXIF Orientation tag. Images
// without the tag report 0. Formats without EXIF support and malformed
// metadata return an error; callers normally treat that as 0 too.
func ProbeEXIF(src Source) (int, error) {
	rc, err := src.Open()
	if err != nil {
		return 0, err
	}
	defer func() { _ = rc.Close() }()

	_, name, err := image.DecodeConfig(rc)
	if err != nil {
		return 0, fmt.Errorf("decoder: probe %s: %w", src.Name(), err)
	}
	format, ok := metaFormats[name]
	if !ok {
		return 0, fmt.Errorf("decoder: no metadata support for %s images", name)
	}
	if _, err := rc.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("decoder: probe %s: %w", src.Name(), err)
	}

	var value int
	err = imagemeta.Decode(imagemeta.Options{
		R:           rc,
		ImageFormat: format,
		Sources:     imagemeta.EXIF,
		HandleTag: func(ti imagemeta.TagInfo) error {
			if ti.Tag != "Orientation" {
				return nil
			}
			value = tagInt(ti.Value)
			return imagemeta.ErrStopWalking
		},
	})
	if err != nil {
		return 0, fmt.Errorf("decoder: read metadata of %s: %w", src.Name(), err)
	}
	return rotationFromEXIF(value)
}

var metaFormats = map[string]imagemeta.ImageFormat{
	"jpeg": imagemeta.JPEG,
	"png":  imagemeta.PNG,
	"tiff": imagemeta.TIFF,
	"webp": imagemeta.WebP,
}

func tagInt(v any) int {
	switch v := v.(type) {
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func rotationFromEXIF(v int) (int, error) {
	switch v {
	case 0, exifNormal:
		return 0, nil
	case exifRotate90:
		return 90, nil
	case exifRotate180:
		return 180, nil
	case exifRotate270:
		return 270, nil
	default:
		return 0, fmt.Errorf("decoder: unsupported EXIF orientation %d", v)
	}
}
