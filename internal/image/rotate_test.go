package image

import (
	"strconv"
	"testing"
)

// marked returns a 3x2 buffer whose pixel (x, y) has red = 10*y + x.
func marked(t *testing.T) *ImageBuf {
	t.Helper()
	buf, err := NewImageBuf(3, 2, FormatRGBAPremul)
	if err != nil {
		t.Fatal(err)
	}
	for y := range 2 {
		for x := range 3 {
			_ = buf.SetRGBA(x, y, uint8(10*y+x), 0, 0, 255)
		}
	}
	return buf
}

func TestRotate(t *testing.T) {
	tests := []struct {
		degrees int
		w, h    int
		// want[y][x] is the red channel expected at (x, y).
		want [][]uint8
	}{
		{0, 3, 2, [][]uint8{{0, 1, 2}, {10, 11, 12}}},
		{90, 2, 3, [][]uint8{{10, 0}, {11, 1}, {12, 2}}},
		{180, 3, 2, [][]uint8{{12, 11, 10}, {2, 1, 0}}},
		{270, 2, 3, [][]uint8{{2, 12}, {1, 11}, {0, 10}}},
	}
	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.degrees), func(t *testing.T) {
			src := marked(t)
			got := Rotate(src, tt.degrees, NewPool(0))
			if got.Width() != tt.w || got.Height() != tt.h {
				t.Fatalf("Rotate(%d) size = %dx%d, want %dx%d", tt.degrees, got.Width(), got.Height(), tt.w, tt.h)
			}
			for y, row := range tt.want {
				for x, want := range row {
					if r, _, _, _ := got.GetRGBA(x, y); r != want {
						t.Errorf("Rotate(%d) pixel (%d,%d) = %d, want %d", tt.degrees, x, y, r, want)
					}
				}
			}
		})
	}
}

func TestRotate_Unsupported(t *testing.T) {
	src := marked(t)
	if got := Rotate(src, 45, nil); got != src {
		t.Error("Rotate(45) should return the source buffer")
	}
	if got := Rotate(nil, 90, nil); got != nil {
		t.Error("Rotate(nil) should return nil")
	}
}
