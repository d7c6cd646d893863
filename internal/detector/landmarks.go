// Package detector provides landmark types and the perception interface used
// by the tracking loop.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Face mesh and pose indices read by the tracker.
const (
	// NoseTip is the face mesh point used as the primary tracking signal.
	NoseTip = 1

	LeftShoulder     = 11
	RightShoulder    = 12
	NumPoseLandmarks = 33
)

// Landmark is a normalized image-space point. X and Y are in [0,1] with Y
// increasing downward. Visibility is only meaningful for pose landmarks.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility,omitempty"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Landmark `json:"points"`
	Handedness string                 `json:"handedness"` // "Left" or "Right"
	Score      float64                `json:"score"`
}

// FaceLandmarks holds the face mesh points. Only NoseTip is consumed.
type FaceLandmarks struct {
	Points []Landmark `json:"points"`
}

// Nose returns the nose tip landmark, or false if the mesh is too short.
func (f *FaceLandmarks) Nose() (Landmark, bool) {
	if f == nil || len(f.Points) <= NoseTip {
		return Landmark{}, false
	}
	return f.Points[NoseTip], true
}

// PoseLandmarks represents the 33 body pose landmarks.
type PoseLandmarks struct {
	Points [NumPoseLandmarks]Landmark `json:"points"`
}

// Shoulders returns the left and right shoulder landmarks.
func (p *PoseLandmarks) Shoulders() (left, right Landmark) {
	return p.Points[LeftShoulder], p.Points[RightShoulder]
}

// Result is the per-frame output of a Detector. A nil field means that
// landmark set was not detected in the frame.
type Result struct {
	RightHand *HandLandmarks `json:"right_hand,omitempty"`
	Face      *FaceLandmarks `json:"face,omitempty"`
	Pose      *PoseLandmarks `json:"pose,omitempty"`
}

// Empty reports whether nothing was detected.
func (r Result) Empty() bool {
	return r.RightHand == nil && r.Face == nil && r.Pose == nil
}
