package image

// Rotate returns src rotated clockwise by degrees, which must be 0, 90, 180
// or 270. The result is taken from pool (nil allocates). For 0 degrees, or
// any unsupported angle, src itself is returned. src is left untouched; the
// caller decides whether to return it to a pool.
func Rotate(src *ImageBuf, degrees int, pool *Pool) *ImageBuf {
	if src == nil {
		return nil
	}
	w, h := src.width, src.height

	var dw, dh int
	switch degrees {
	case 90, 270:
		dw, dh = h, w
	case 180:
		dw, dh = w, h
	default:
		return src
	}

	var dst *ImageBuf
	if pool != nil {
		dst = pool.Get(dw, dh, src.format)
	} else {
		dst, _ = NewImageBuf(dw, dh, src.format)
	}
	if dst == nil {
		return src
	}

	bpp := src.format.BytesPerPixel()
	for y := range h {
		row := src.RowBytes(y)
		for x := range w {
			var dx, dy int
			switch degrees {
			case 90:
				dx, dy = h-1-y, x
			case 180:
				dx, dy = w-1-x, h-1-y
			case 270:
				dx, dy = y, w-1-x
			}
			off := dy*dst.stride + dx*bpp
			copy(dst.data[off:off+bpp], row[x*bpp:(x+1)*bpp])
		}
	}
	return dst
}
