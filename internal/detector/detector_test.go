package detector

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFaceLandmarks_Nose(t *testing.T) {
	t.Run("returns nose tip", func(t *testing.T) {
		face := FaceAt(0.3)

		nose, ok := face.Nose()
		if !ok {
			t.Fatal("expected nose to be present")
		}
		if nose.X != 0.3 {
			t.Errorf("expected nose X 0.3, got %f", nose.X)
		}
	})

	t.Run("nil face has no nose", func(t *testing.T) {
		var face *FaceLandmarks
		if _, ok := face.Nose(); ok {
			t.Error("expected no nose for nil face")
		}
	})

	t.Run("short mesh has no nose", func(t *testing.T) {
		face := &FaceLandmarks{Points: []Landmark{{X: 0.5}}}
		if _, ok := face.Nose(); ok {
			t.Error("expected no nose for a one-point mesh")
		}
	})
}

func TestPoseLandmarks_Shoulders(t *testing.T) {
	pose := PoseAt(0.4, 0.6, 0.9)

	left, right := pose.Shoulders()
	if left.X != 0.4 || right.X != 0.6 {
		t.Errorf("expected shoulders at 0.4/0.6, got %f/%f", left.X, right.X)
	}
	if left.Visibility != 0.9 || right.Visibility != 0.9 {
		t.Errorf("expected visibility 0.9, got %f/%f", left.Visibility, right.Visibility)
	}
}

func TestResult_Empty(t *testing.T) {
	if !(Result{}).Empty() {
		t.Error("zero Result should be empty")
	}
	if (Result{Face: FaceAt(0.5)}).Empty() {
		t.Error("Result with a face should not be empty")
	}
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty result by default", func(t *testing.T) {
		mock := NewMockDetector()

		result, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !result.Empty() {
			t.Errorf("expected empty result, got %+v", result)
		}
	})

	t.Run("returns configured result", func(t *testing.T) {
		mock := NewMockDetector()

		hand := OpenPalmLandmarks()
		mock.SetResult(Result{RightHand: &hand})

		for i := 0; i < 3; i++ {
			result, err := mock.Detect(nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.RightHand == nil {
				t.Fatalf("call %d: expected a hand", i)
			}
		}
		if mock.Calls() != 3 {
			t.Errorf("expected 3 calls, got %d", mock.Calls())
		}
	})

	t.Run("plays back a sequence then goes empty", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetSequence([]Result{
			{Face: FaceAt(0.1)},
			{Face: FaceAt(0.2)},
		})

		for _, want := range []float64{0.1, 0.2} {
			result, _ := mock.Detect(nil)
			nose, ok := result.Face.Nose()
			if !ok || nose.X != want {
				t.Errorf("expected nose at %f, got %+v", want, result.Face)
			}
		}

		result, _ := mock.Detect(nil)
		if !result.Empty() {
			t.Errorf("expected empty result after sequence, got %+v", result)
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		result, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if !result.Empty() {
			t.Errorf("expected empty result when error is set, got %+v", result)
		}
	})

	t.Run("Close returns nil", func(t *testing.T) {
		if err := NewMockDetector().Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestHandFixtures(t *testing.T) {
	up := func(h HandLandmarks, tip, pip int) bool {
		return h.Points[tip].Y < h.Points[pip].Y
	}

	tests := []struct {
		name                       string
		hand                       HandLandmarks
		index, middle, ring, pinky bool
	}{
		{"open palm", OpenPalmLandmarks(), true, true, true, true},
		{"fist", FistLandmarks(), false, false, false, false},
		{"point", PointLandmarks(), true, false, false, false},
		{"peace", PeaceLandmarks(), true, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := up(tt.hand, IndexTip, IndexPIP); got != tt.index {
				t.Errorf("index up = %v, want %v", got, tt.index)
			}
			if got := up(tt.hand, MiddleTip, MiddlePIP); got != tt.middle {
				t.Errorf("middle up = %v, want %v", got, tt.middle)
			}
			if got := up(tt.hand, RingTip, RingPIP); got != tt.ring {
				t.Errorf("ring up = %v, want %v", got, tt.ring)
			}
			if got := up(tt.hand, PinkyTip, PinkyPIP); got != tt.pinky {
				t.Errorf("pinky up = %v, want %v", got, tt.pinky)
			}
			if tt.hand.Handedness != "Right" {
				t.Errorf("expected handedness Right, got %s", tt.hand.Handedness)
			}
		})
	}
}

func TestParseHolisticResponse(t *testing.T) {
	t.Run("all sets null", func(t *testing.T) {
		result, err := parseHolisticResponse([]byte(`{"right_hand":null,"face":null,"pose":null}` + "\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Empty() {
			t.Errorf("expected empty result, got %+v", result)
		}
	})

	t.Run("face and pose", func(t *testing.T) {
		line := `{"face":{"points":[{"x":0.1,"y":0.1,"z":0},{"x":0.42,"y":0.3,"z":0}]},` +
			`"pose":{"points":[` + posePoints(13) + `]}}`

		result, err := parseHolisticResponse([]byte(line))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		nose, ok := result.Face.Nose()
		if !ok || nose.X != 0.42 {
			t.Errorf("expected nose X 0.42, got %+v", result.Face)
		}
		if result.Pose == nil {
			t.Fatal("expected pose")
		}
		left, right := result.Pose.Shoulders()
		if left.Visibility != 0.8 || right.Visibility != 0.8 {
			t.Errorf("expected shoulder visibility 0.8, got %f/%f", left.Visibility, right.Visibility)
		}
	})

	t.Run("truncated pose is dropped", func(t *testing.T) {
		line := `{"pose":{"points":[` + posePoints(5) + `]}}`
		result, err := parseHolisticResponse([]byte(line))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Pose != nil {
			t.Error("expected truncated pose to be dropped")
		}
	})

	t.Run("partial hand is dropped", func(t *testing.T) {
		line := `{"right_hand":{"points":[{"x":0.1,"y":0.2,"z":0}],"handedness":"Right","score":0.9}}`
		result, err := parseHolisticResponse([]byte(line))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.RightHand != nil {
			t.Error("expected partial hand to be dropped")
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		if _, err := parseHolisticResponse([]byte("{not json")); err == nil {
			t.Error("expected parse error")
		}
	})
}

func posePoints(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			s += ","
		}
		s += `{"x":0.5,"y":0.5,"z":0,"visibility":0.8}`
	}
	return s
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0xFF, 0xD8, 0x01, 0x02, 0xFF, 0xD9}

	if err := writeFrame(&buf, payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := buf.Bytes()
	if len(got) != 4+len(payload) {
		t.Fatalf("expected %d bytes, got %d", 4+len(payload), len(got))
	}
	if n := binary.BigEndian.Uint32(got[:4]); n != uint32(len(payload)) {
		t.Errorf("expected length prefix %d, got %d", len(payload), n)
	}
	if !bytes.Equal(got[4:], payload) {
		t.Errorf("payload mismatch: %v", got[4:])
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriteFrame_Error(t *testing.T) {
	if err := writeFrame(failingWriter{}, []byte{1}); err == nil {
		t.Error("expected write error")
	}
}

func TestConfig_ServiceArgs(t *testing.T) {
	args := DefaultConfig().serviceArgs()

	want := []string{
		"--model-complexity", "1",
		"--refine-face", "true",
		"--min-detection-confidence", "0.60",
		"--min-tracking-confidence", "0.60",
	}
	if len(args) != len(want) {
		t.Fatalf("expected %d args, got %v", len(want), args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg %d: expected %q, got %q", i, want[i], args[i])
		}
	}
}

func TestFindInstalled(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "scripts"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scripts", serviceScript), []byte("#"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	got := findInstalled(filepath.Join("scripts", serviceScript))
	if !filepath.IsAbs(got) {
		t.Fatalf("expected an absolute path, got %q", got)
	}
	if filepath.Base(got) != serviceScript {
		t.Errorf("unexpected path %q", got)
	}

	if p := findInstalled("no/such/file.py"); p != "" {
		t.Errorf("expected no match, got %q", p)
	}
}
