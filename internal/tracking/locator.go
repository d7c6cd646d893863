// Package tracking resolves the subject's horizontal position from face and
// pose landmarks and smooths it over recent frames.
package tracking

import "github.com/ayusman/pantrack/internal/detector"

// Source identifies which signal produced a target position.
type Source int

const (
	// SourceNone means no usable signal this frame.
	SourceNone Source = iota
	// SourceFace is the nose tip of the face mesh.
	SourceFace
	// SourceShoulders is the midpoint of both pose shoulders.
	SourceShoulders
)

func (s Source) String() string {
	switch s {
	case SourceFace:
		return "face"
	case SourceShoulders:
		return "shoulders"
	default:
		return "none"
	}
}

// DefaultShoulderVisibility is the visibility both shoulders must exceed
// for the pose fallback to be used.
const DefaultShoulderVisibility = 0.4

// Target is a located subject position in normalized image coordinates.
type Target struct {
	X      float64
	Y      float64
	Source Source
}

// Found reports whether a position was resolved.
func (t Target) Found() bool {
	return t.Source != SourceNone
}

// Locator picks the tracking signal: the face nose tip when a face is
// present, otherwise the shoulder midpoint when both shoulders are visible
// enough. The two signals are never blended.
type Locator struct {
	minVisibility float64
}

// NewLocator creates a locator with the given shoulder visibility threshold.
func NewLocator(minVisibility float64) *Locator {
	return &Locator{minVisibility: minVisibility}
}

// Locate returns the target for one frame.
func (l *Locator) Locate(face *detector.FaceLandmarks, pose *detector.PoseLandmarks) Target {
	// The face signal has no visibility gate.
	if nose, ok := face.Nose(); ok {
		return Target{X: nose.X, Y: nose.Y, Source: SourceFace}
	}

	if pose == nil {
		return Target{}
	}

	left, right := pose.Shoulders()
	if left.Visibility > l.minVisibility && right.Visibility > l.minVisibility {
		return Target{
			X:      (left.X + right.X) / 2,
			Y:      (left.Y + right.Y) / 2,
			Source: SourceShoulders,
		}
	}

	return Target{}
}
