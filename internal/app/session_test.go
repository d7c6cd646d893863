package app

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/pantrack/internal/config"
	"github.com/ayusman/pantrack/internal/detector"
	"github.com/ayusman/pantrack/internal/gesture"
	"github.com/ayusman/pantrack/internal/tracking"
)

func newTestSession() *Session {
	return NewSession(config.DefaultTuning())
}

func handResult(h detector.HandLandmarks) detector.Result {
	return detector.Result{RightHand: &h}
}

func faceResult(x float64) detector.Result {
	return detector.Result{Face: detector.FaceAt(x)}
}

func TestSession_StartState(t *testing.T) {
	s := newTestSession()

	assert.Equal(t, gesture.Track, s.Mode())
	assert.Equal(t, 1.0, s.Zoom())
	assert.Equal(t, 90, s.Angle())

	_, n := s.Filtered()
	assert.Zero(t, n)
}

func TestSession_CenteredSubjectHoldsAngle(t *testing.T) {
	s := newTestSession()

	for i := 0; i < 5; i++ {
		out := s.Step(faceResult(0.5))
		assert.Equal(t, 90, out.Angle, "cycle %d", i+1)
		assert.True(t, out.Command)
		assert.Equal(t, tracking.SourceFace, out.Target.Source)
	}

	x, n := s.Filtered()
	assert.Equal(t, 0.5, x)
	assert.Equal(t, 5, n)
}

// A subject right of center gives a negative error, so the pan angle falls.
func TestSession_SubjectAtRightEdgeDrivesToFloor(t *testing.T) {
	s := newTestSession()

	var got []int
	for i := 0; i < 12; i++ {
		got = append(got, s.Step(faceResult(1.0)).Angle)
	}

	want := []int{84, 78, 72, 66, 60, 54, 48, 42, 36, 30, 30, 30}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("angle sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_SubjectAtLeftEdgeDrivesToCeiling(t *testing.T) {
	s := newTestSession()

	var got []int
	for i := 0; i < 12; i++ {
		got = append(got, s.Step(faceResult(0.0)).Angle)
	}

	want := []int{96, 102, 108, 114, 120, 126, 132, 138, 144, 150, 150, 150}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("angle sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_ToggleFlipsOncePerRisingEdge(t *testing.T) {
	s := newTestSession()
	open := handResult(detector.OpenPalmLandmarks())
	fist := handResult(detector.FistLandmarks())

	var toggles []bool
	var modes []gesture.Mode
	for _, r := range []detector.Result{open, open, open, fist} {
		out := s.Step(r)
		toggles = append(toggles, out.Toggled)
		modes = append(modes, out.Mode)
	}

	assert.Equal(t, []bool{true, false, false, false}, toggles)
	assert.Equal(t, []gesture.Mode{gesture.Hold, gesture.Hold, gesture.Hold, gesture.Hold}, modes)

	// Reopening the palm flips back.
	out := s.Step(open)
	assert.True(t, out.Toggled)
	assert.Equal(t, gesture.Track, out.Mode)
}

func TestSession_ZoomInScenario(t *testing.T) {
	s := newTestSession()
	point := handResult(detector.PointLandmarks())

	var smoothed []float64
	for i := 0; i < 5; i++ {
		out := s.Step(point)
		assert.Equal(t, gesture.ZoomIn, out.Gesture)
		smoothed = append(smoothed, out.Zoom)
	}

	want := []float64{1.18, 1.27, 1.36, 1.45, 1.54}
	if diff := cmp.Diff(want, smoothed, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("smoothed zoom mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_ZoomHeldWhenHandLeaves(t *testing.T) {
	s := newTestSession()
	point := handResult(detector.PointLandmarks())

	for i := 0; i < 3; i++ {
		s.Step(point)
	}
	held := s.Zoom()

	for i := 0; i < 10; i++ {
		out := s.Step(detector.Result{})
		assert.InDelta(t, held, out.Zoom, 1e-12)
	}
}

func TestSession_ToggleFrameDoesNotZoom(t *testing.T) {
	s := newTestSession()

	out := s.Step(handResult(detector.OpenPalmLandmarks()))
	require.True(t, out.Toggled)
	assert.Equal(t, 1.0, out.Zoom)
	assert.Equal(t, gesture.Toggle, out.Gesture)
}

func TestSession_HoldFreezesAngleButStillZooms(t *testing.T) {
	s := newTestSession()

	// Move off center first.
	for i := 0; i < 3; i++ {
		s.Step(faceResult(0.0))
	}
	frozen := s.Angle()

	out := s.Step(handResult(detector.OpenPalmLandmarks()))
	require.Equal(t, gesture.Hold, out.Mode)
	assert.False(t, out.Command)

	// Target and zoom gesture together: the angle stays, zoom moves.
	r := handResult(detector.PointLandmarks())
	r.Face = detector.FaceAt(0.0)
	for i := 0; i < 4; i++ {
		out = s.Step(r)
		assert.False(t, out.Command, "HOLD must not command")
		assert.Equal(t, frozen, out.Angle)
		assert.False(t, out.Target.Found(), "HOLD does not locate")
	}
	assert.Greater(t, out.Zoom, 1.0)
}

func TestSession_NoHandTracksNormally(t *testing.T) {
	s := newTestSession()

	out := s.Step(faceResult(0.3))

	assert.Equal(t, gesture.Track, out.Mode)
	assert.Equal(t, 1.0, out.Zoom)
	assert.Equal(t, gesture.None, out.Gesture)
	// error 0.2, step 6*0.4^1.8 ~= 1.15, truncated on output.
	assert.Equal(t, 91, out.Angle)
	assert.True(t, out.Command)
}

func TestSession_NoTargetStillCommands(t *testing.T) {
	s := newTestSession()

	s.Step(faceResult(0.0))
	before := s.Angle()

	out := s.Step(detector.Result{})
	assert.True(t, out.Command)
	assert.Equal(t, before, out.Angle)
	assert.False(t, out.Target.Found())

	_, n := s.Filtered()
	assert.Equal(t, 1, n, "filter must not advance without a target")
}

func TestSession_ShoulderFallback(t *testing.T) {
	s := newTestSession()

	out := s.Step(detector.Result{Pose: detector.PoseAt(0.05, 0.15, 0.9)})
	assert.Equal(t, tracking.SourceShoulders, out.Target.Source)
	assert.InDelta(t, 0.1, out.Target.X, 1e-12)
	assert.Less(t, out.Angle, 90)

	// Shoulders that are not visible enough are ignored.
	out = s.Step(detector.Result{Pose: detector.PoseAt(0.05, 0.15, 0.4)})
	assert.False(t, out.Target.Found())
}

func TestSession_FacePreferredOverShoulders(t *testing.T) {
	s := newTestSession()

	out := s.Step(detector.Result{
		Face: detector.FaceAt(0.5),
		Pose: detector.PoseAt(0.0, 0.1, 1.0),
	})
	assert.Equal(t, tracking.SourceFace, out.Target.Source)
	assert.Equal(t, 90, out.Angle)
}
