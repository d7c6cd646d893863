package capture

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/pantrack/internal/detector"
	"github.com/ayusman/pantrack/internal/gesture"
)

// Overlay layout
const (
	overlayScale     = 1.2
	overlayThickness = 3
	noseRadius       = 8
)

var (
	overlayOrigin = image.Pt(10, 40)

	trackColor = color.RGBA{0, 255, 0, 0}
	holdColor  = color.RGBA{255, 0, 0, 0}
)

// Overlay is what gets drawn on top of a frame.
type Overlay struct {
	Mode gesture.Mode
	Zoom float64
	// Nose is set when the face signal drove the target this cycle.
	Nose *detector.Landmark
}

// OverlayText formats the status line, e.g. "TRACK  Zoom:1.54x".
func OverlayText(mode gesture.Mode, zoom float64) string {
	return fmt.Sprintf("%s  Zoom:%.2fx", mode, zoom)
}

// DrawOverlay renders the status line and, if present, the nose marker.
func DrawOverlay(frame *gocv.Mat, o Overlay) {
	c := trackColor
	if o.Mode == gesture.Hold {
		c = holdColor
	}

	gocv.PutText(frame, OverlayText(o.Mode, o.Zoom), overlayOrigin,
		gocv.FontHersheySimplex, overlayScale, c, overlayThickness)

	if o.Nose != nil {
		center := image.Pt(int(o.Nose.X*float64(frame.Cols())), int(o.Nose.Y*float64(frame.Rows())))
		gocv.Circle(frame, center, noseRadius, trackColor, -1)
	}
}
