package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu       sync.Mutex
	result   Result
	sequence []Result
	index    int
	err      error
	calls    int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetResult sets the result that will be returned by every Detect call.
func (m *MockDetector) SetResult(r Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result = r
	m.sequence = nil
	m.index = 0
}

// SetSequence makes Detect return the given results in order, one per call.
// Once the sequence is exhausted an empty Result is returned.
func (m *MockDetector) SetSequence(seq []Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence = seq
	m.index = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured result or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return Result{}, m.err
	}

	if m.sequence != nil {
		if m.index >= len(m.sequence) {
			return Result{}, nil
		}
		r := m.sequence[m.index]
		m.index++
		return r, nil
	}

	return m.result, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// handWithFingers builds a right hand whose listed fingers are extended
// (tip above PIP) and whose other fingers are curled (tip below PIP).
func handWithFingers(index, middle, ring, pinky bool) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Landmark{X: 0.5, Y: 0.8}
	landmarks.Points[ThumbCMC] = Landmark{X: 0.55, Y: 0.75}
	landmarks.Points[ThumbMCP] = Landmark{X: 0.60, Y: 0.70}
	landmarks.Points[ThumbIP] = Landmark{X: 0.64, Y: 0.66}
	landmarks.Points[ThumbTip] = Landmark{X: 0.68, Y: 0.62}

	finger := func(mcp, pip, dip, tip int, x float64, up bool) {
		landmarks.Points[mcp] = Landmark{X: x, Y: 0.68}
		landmarks.Points[pip] = Landmark{X: x, Y: 0.55}
		if up {
			landmarks.Points[dip] = Landmark{X: x, Y: 0.45}
			landmarks.Points[tip] = Landmark{X: x, Y: 0.35}
			return
		}
		// Curled back toward the palm.
		landmarks.Points[dip] = Landmark{X: x - 0.02, Y: 0.60, Z: -0.04}
		landmarks.Points[tip] = Landmark{X: x - 0.03, Y: 0.66, Z: -0.02}
	}

	finger(IndexMCP, IndexPIP, IndexDIP, IndexTip, 0.56, index)
	finger(MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip, 0.50, middle)
	finger(RingMCP, RingPIP, RingDIP, RingTip, 0.45, ring)
	finger(PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip, 0.40, pinky)

	return landmarks
}

// OpenPalmLandmarks returns a right hand with all four fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	return handWithFingers(true, true, true, true)
}

// FistLandmarks returns a right hand with every finger curled.
func FistLandmarks() HandLandmarks {
	return handWithFingers(false, false, false, false)
}

// PointLandmarks returns a right hand with only the index finger extended.
func PointLandmarks() HandLandmarks {
	return handWithFingers(true, false, false, false)
}

// PeaceLandmarks returns a right hand with index and middle fingers extended.
func PeaceLandmarks() HandLandmarks {
	return handWithFingers(true, true, false, false)
}

// FaceAt returns a face mesh whose nose tip sits at the given horizontal position.
func FaceAt(x float64) *FaceLandmarks {
	points := make([]Landmark, NoseTip+1)
	points[0] = Landmark{X: x, Y: 0.45}
	points[NoseTip] = Landmark{X: x, Y: 0.4}
	return &FaceLandmarks{Points: points}
}

// PoseAt returns a pose whose shoulders sit at leftX and rightX with the
// given visibility.
func PoseAt(leftX, rightX, visibility float64) *PoseLandmarks {
	pose := &PoseLandmarks{}
	pose.Points[LeftShoulder] = Landmark{X: leftX, Y: 0.7, Visibility: visibility}
	pose.Points[RightShoulder] = Landmark{X: rightX, Y: 0.7, Visibility: visibility}
	return pose
}
