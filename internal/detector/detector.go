package detector

import "gocv.io/x/gocv"

// Detector defines the interface for landmark detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the landmark sets found in it.
	// Missing sets are left nil; an empty Result is not an error.
	Detect(frame *gocv.Mat) (Result, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for holistic detection.
type Config struct {
	// ModelComplexity selects the pose model size (0, 1 or 2).
	ModelComplexity int

	// RefineFace enables iris/lip refinement of the face mesh.
	RefineFace bool

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		ModelComplexity: 1,
		RefineFace:      true,
		MinConfidence:   0.6,
		MinTrackingConf: 0.6,
	}
}
