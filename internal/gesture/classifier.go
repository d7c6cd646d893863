// Package gesture turns right-hand landmarks into finger states and drives
// the TRACK/HOLD mode toggle and the digital zoom factor.
package gesture

import "github.com/ayusman/pantrack/internal/detector"

// Kind is the discrete gesture recognised from a finger State.
type Kind int

const (
	// None is any finger pattern without a meaning.
	None Kind = iota
	// Toggle is the open palm: index, middle, ring and pinky all up.
	Toggle
	// ZoomIn is the index finger alone.
	ZoomIn
	// ZoomOut is index and middle up, ring and pinky down.
	ZoomOut
)

func (k Kind) String() string {
	switch k {
	case Toggle:
		return "toggle"
	case ZoomIn:
		return "zoom-in"
	case ZoomOut:
		return "zoom-out"
	default:
		return "none"
	}
}

// State holds the up/down flag of each tracked finger for one frame.
type State struct {
	IndexUp  bool
	MiddleUp bool
	RingUp   bool
	PinkyUp  bool
}

// ToggleOpen reports whether all four tracked fingers are up.
func (s State) ToggleOpen() bool {
	return s.IndexUp && s.MiddleUp && s.RingUp && s.PinkyUp
}

// ZoomIn reports the single index finger pattern.
func (s State) ZoomIn() bool {
	return !s.ToggleOpen() && s.IndexUp && !s.MiddleUp && !s.RingUp && !s.PinkyUp
}

// ZoomOut reports the index plus middle finger pattern.
func (s State) ZoomOut() bool {
	return !s.ToggleOpen() && s.IndexUp && s.MiddleUp && !s.RingUp && !s.PinkyUp
}

// Kind returns the discrete gesture for the state.
func (s State) Kind() Kind {
	switch {
	case s.ToggleOpen():
		return Toggle
	case s.ZoomIn():
		return ZoomIn
	case s.ZoomOut():
		return ZoomOut
	default:
		return None
	}
}

// Classify derives the finger state from a hand landmark set.
// It returns false when no hand was detected.
func Classify(hand *detector.HandLandmarks) (State, bool) {
	if hand == nil {
		return State{}, false
	}

	return State{
		IndexUp:  fingerUp(hand, detector.IndexTip, detector.IndexPIP),
		MiddleUp: fingerUp(hand, detector.MiddleTip, detector.MiddlePIP),
		RingUp:   fingerUp(hand, detector.RingTip, detector.RingPIP),
		PinkyUp:  fingerUp(hand, detector.PinkyTip, detector.PinkyPIP),
	}, true
}

// fingerUp reports whether the tip sits strictly above its PIP joint on screen.
func fingerUp(hand *detector.HandLandmarks, tip, pip int) bool {
	return hand.Points[tip].Y < hand.Points[pip].Y
}
