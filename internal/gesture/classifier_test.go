package gesture

import (
	"testing"

	"github.com/ayusman/pantrack/internal/detector"
)

func TestClassify(t *testing.T) {
	hand := func(h detector.HandLandmarks) *detector.HandLandmarks { return &h }

	tests := []struct {
		name  string
		hand  *detector.HandLandmarks
		want  State
		kind  Kind
		found bool
	}{
		{
			name:  "no hand",
			hand:  nil,
			kind:  None,
			found: false,
		},
		{
			name:  "open palm toggles",
			hand:  hand(detector.OpenPalmLandmarks()),
			want:  State{IndexUp: true, MiddleUp: true, RingUp: true, PinkyUp: true},
			kind:  Toggle,
			found: true,
		},
		{
			name:  "index alone zooms in",
			hand:  hand(detector.PointLandmarks()),
			want:  State{IndexUp: true},
			kind:  ZoomIn,
			found: true,
		},
		{
			name:  "index and middle zoom out",
			hand:  hand(detector.PeaceLandmarks()),
			want:  State{IndexUp: true, MiddleUp: true},
			kind:  ZoomOut,
			found: true,
		},
		{
			name:  "fist means nothing",
			hand:  hand(detector.FistLandmarks()),
			want:  State{},
			kind:  None,
			found: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.hand)
			if ok != tt.found {
				t.Fatalf("Classify() found = %v, want %v", ok, tt.found)
			}
			if got != tt.want {
				t.Errorf("Classify() = %+v, want %+v", got, tt.want)
			}
			if got.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", got.Kind(), tt.kind)
			}
		})
	}
}

func TestFingerUp_StrictComparison(t *testing.T) {
	h := detector.FistLandmarks()
	// Tip level with the PIP joint is not up.
	h.Points[detector.IndexTip].Y = h.Points[detector.IndexPIP].Y

	state, _ := Classify(&h)
	if state.IndexUp {
		t.Error("tip level with PIP should not count as up")
	}
}

func TestState_ZoomPatternsExclusive(t *testing.T) {
	// Every one of the 16 finger combinations yields at most one gesture.
	for mask := 0; mask < 16; mask++ {
		s := State{
			IndexUp:  mask&1 != 0,
			MiddleUp: mask&2 != 0,
			RingUp:   mask&4 != 0,
			PinkyUp:  mask&8 != 0,
		}

		count := 0
		for _, b := range []bool{s.ToggleOpen(), s.ZoomIn(), s.ZoomOut()} {
			if b {
				count++
			}
		}
		if count > 1 {
			t.Errorf("state %+v matches %d gestures", s, count)
		}
	}
}

func TestKind_String(t *testing.T) {
	tests := map[Kind]string{
		None:    "none",
		Toggle:  "toggle",
		ZoomIn:  "zoom-in",
		ZoomOut: "zoom-out",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
