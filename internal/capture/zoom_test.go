package capture

import (
	"image"
	"testing"

	"gocv.io/x/gocv"
)

func TestCropRect(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		factor float64
		want   image.Rectangle
	}{
		{"no zoom", 1280, 720, 1.0, image.Rect(0, 0, 1280, 720)},
		{"below one is no zoom", 1280, 720, 0.5, image.Rect(0, 0, 1280, 720)},
		{"double", 1280, 720, 2.0, image.Rect(320, 180, 960, 540)},
		{"triple", 1280, 720, 3.0, image.Rect(427, 240, 853, 480)},
		{"fractional", 640, 480, 1.54, image.Rect(112, 84, 112+415, 84+311)},
		{"tiny frame clamps to one pixel", 2, 2, 3.0, image.Rect(0, 0, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CropRect(tt.w, tt.h, tt.factor)
			if got != tt.want {
				t.Errorf("CropRect(%d, %d, %v) = %v, want %v", tt.w, tt.h, tt.factor, got, tt.want)
			}
		})
	}
}

func TestCropRect_StaysInsideFrame(t *testing.T) {
	bounds := image.Rect(0, 0, 1280, 720)
	for f := 1.0; f <= 3.0; f += 0.18 {
		r := CropRect(1280, 720, f)
		if !r.In(bounds) {
			t.Errorf("factor %.2f: %v outside %v", f, r, bounds)
		}
		if r.Empty() {
			t.Errorf("factor %.2f: empty crop", f)
		}
	}
}

func TestZoom_KeepsFrameSize(t *testing.T) {
	frame := gocv.NewMatWithSize(720, 1280, gocv.MatTypeCV8UC3)
	defer frame.Close()

	for _, factor := range []float64{1.0, 1.54, 2.0, 3.0} {
		out := Zoom(frame, factor)
		if out.Cols() != 1280 || out.Rows() != 720 {
			t.Errorf("factor %.2f: got %dx%d, want 1280x720", factor, out.Cols(), out.Rows())
		}
		out.Close()
	}
}

func TestZoom_ReturnsIndependentCopy(t *testing.T) {
	frame := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC1)
	defer frame.Close()

	out := Zoom(frame, 1.0)
	defer out.Close()

	out.SetUCharAt(0, 0, 200)
	if frame.GetUCharAt(0, 0) != 0 {
		t.Error("Zoom at factor 1 should not share data with the input")
	}
}
