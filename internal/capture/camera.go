// Package capture provides frame acquisition, digital zoom, overlay drawing
// and display sinks using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Default camera settings
const (
	DefaultFPS    = 30
	DefaultWidth  = 1280
	DefaultHeight = 720
)

var (
	// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")

	// ErrEndOfStream is returned once a file source has no frames left.
	ErrEndOfStream = errors.New("end of stream")

	// ErrEmptyFrame is returned when the device hands back an empty frame.
	// Callers skip the cycle.
	ErrEmptyFrame = errors.New("captured frame is empty")
)

// Camera defines the interface for frame sources.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
	// Size reports the frame dimensions the source was opened with.
	Size() (width, height int)
}

// Options selects and shapes a frame source. A non-empty File takes
// precedence over DeviceID.
type Options struct {
	DeviceID int
	File     string
	Width    int
	Height   int
	FPS      int
}

// cameraImpl manages video capture from a device or a video file.
type cameraImpl struct {
	opts    Options
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
	width   int
	height  int
}

// NewCamera creates a Camera. Zero dimensions fall back to 1280x720.
func NewCamera(opts Options) Camera {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	return &cameraImpl{
		opts:   opts,
		width:  opts.Width,
		height: opts.Height,
	}
}

// Open opens the device or file for capturing frames.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	var (
		capture *gocv.VideoCapture
		err     error
	)
	if c.opts.File != "" {
		capture, err = gocv.VideoCaptureFile(c.opts.File)
		if err != nil {
			return fmt.Errorf("open video file %s: %w", c.opts.File, err)
		}
	} else {
		capture, err = gocv.OpenVideoCapture(c.opts.DeviceID)
		if err != nil {
			return fmt.Errorf("open camera %d: %w", c.opts.DeviceID, err)
		}
		capture.Set(gocv.VideoCaptureFrameWidth, float64(c.opts.Width))
		capture.Set(gocv.VideoCaptureFrameHeight, float64(c.opts.Height))
		capture.Set(gocv.VideoCaptureFPS, float64(c.opts.FPS))
	}

	// The device may not honor the requested resolution.
	if w := int(capture.Get(gocv.VideoCaptureFrameWidth)); w > 0 {
		c.width = w
	}
	if h := int(capture.Get(gocv.VideoCaptureFrameHeight)); h > 0 {
		c.height = h
	}

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the camera and releases resources.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame.
// The caller is responsible for closing the returned Mat.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		if c.opts.File != "" {
			return nil, ErrEndOfStream
		}
		return nil, errors.New("failed to read frame from camera")
	}

	if mat.Empty() {
		mat.Close()
		if c.opts.File != "" {
			return nil, ErrEndOfStream
		}
		return nil, ErrEmptyFrame
	}

	return &mat, nil
}

// SetFPS sets the frames per second for capture.
// Values less than or equal to 0 are ignored.
func (c *cameraImpl) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.opts.FPS = fps

	if c.capture != nil && c.opts.File == "" {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the current frames per second setting.
func (c *cameraImpl) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.opts.FPS
}

// IsOpen returns true if the camera is currently open and running.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}

func (c *cameraImpl) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.width, c.height
}
