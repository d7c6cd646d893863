package capture

import (
	"image"

	"gocv.io/x/gocv"
)

// CropRect returns the centered region kept by a digital zoom of factor on
// a width x height frame. A factor of 1 or less keeps the whole frame. Each
// side is at least one pixel.
func CropRect(width, height int, factor float64) image.Rectangle {
	if factor <= 1 {
		return image.Rect(0, 0, width, height)
	}

	cw := max(int(float64(width)/factor), 1)
	ch := max(int(float64(height)/factor), 1)
	x := (width - cw) / 2
	y := (height - ch) / 2

	return image.Rect(x, y, x+cw, y+ch)
}

// Zoom returns a new Mat holding the center crop of frame scaled back up to
// the frame's own size. The caller must close the result.
func Zoom(frame gocv.Mat, factor float64) gocv.Mat {
	if factor <= 1 || frame.Empty() {
		return frame.Clone()
	}

	size := image.Pt(frame.Cols(), frame.Rows())
	region := frame.Region(CropRect(size.X, size.Y, factor))
	defer region.Close()

	out := gocv.NewMat()
	gocv.Resize(region, &out, size, 0, 0, gocv.InterpolationLinear)
	return out
}
