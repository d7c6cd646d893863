package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// idleShutdown stops the landmark process after this long without a frame.
const idleShutdown = 30 * time.Second

const serviceScript = "holistic_service.py"

// MediaPipeDetector runs MediaPipe Holistic in a Python process. Frames go
// to its stdin as a 4-byte big-endian length and JPEG bytes; each frame
// yields one JSON line on stdout.
type MediaPipeDetector struct {
	config Config
	script string

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  *bufio.Reader
	running bool
	idle    *time.Timer
}

// NewMediaPipeDetector locates the service script. The process itself is
// started on the first Detect call.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	script := findInstalled(filepath.Join("scripts", serviceScript))
	if script == "" {
		return nil, fmt.Errorf("%s not found", serviceScript)
	}
	return &MediaPipeDetector{config: config, script: script}, nil
}

// Detect sends one frame to the service and parses its landmark sets.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) (Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.start(); err != nil {
		return Result{}, err
	}

	// BGR as captured; the service converts to RGB.
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return Result{}, fmt.Errorf("encode frame: %w", err)
	}
	err = writeFrame(d.stdin, buf.GetBytes())
	buf.Close()
	if err != nil {
		return Result{}, err
	}

	line, err := d.stdout.ReadBytes('\n')
	if err != nil {
		return Result{}, fmt.Errorf("read landmarks: %w", err)
	}

	d.armIdle()
	return parseHolisticResponse(line)
}

// Close stops the service process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stop()
}

// writeFrame writes one length-prefixed payload in a single write.
func writeFrame(w io.Writer, payload []byte) error {
	msg := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(msg, uint32(len(payload)))
	copy(msg[4:], payload)
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// serviceArgs are the command line flags understood by the service.
func (c Config) serviceArgs() []string {
	return []string{
		"--model-complexity", strconv.Itoa(c.ModelComplexity),
		"--refine-face", strconv.FormatBool(c.RefineFace),
		"--min-detection-confidence", strconv.FormatFloat(c.MinConfidence, 'f', 2, 64),
		"--min-tracking-confidence", strconv.FormatFloat(c.MinTrackingConf, 'f', 2, 64),
	}
}

func (d *MediaPipeDetector) start() error {
	if d.running {
		return nil
	}

	python := findInstalled(filepath.Join("venv", "bin", "python"))
	if python == "" {
		python = "python3"
	}

	cmd := exec.Command(python, append([]string{d.script}, d.config.serviceArgs()...)...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("landmark service stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("landmark service stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start landmark service: %w", err)
	}

	d.cmd = cmd
	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.running = true
	return nil
}

func (d *MediaPipeDetector) stop() error {
	if !d.running {
		return nil
	}
	if d.idle != nil {
		d.idle.Stop()
		d.idle = nil
	}

	// Closing stdin ends the service's read loop.
	d.stdin.Close()
	err := d.cmd.Wait()

	d.cmd, d.stdin, d.stdout = nil, nil, nil
	d.running = false
	return err
}

func (d *MediaPipeDetector) armIdle() {
	if d.idle != nil {
		d.idle.Reset(idleShutdown)
		return
	}
	d.idle = time.AfterFunc(idleShutdown, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.stop()
	})
}

// findInstalled resolves rel against the working directory, its parent,
// the executable's directory and ~/.pantrack, returning the first absolute
// path that exists.
func findInstalled(rel string) string {
	var roots []string
	roots = append(roots, ".", "..")
	if exe, err := os.Executable(); err == nil {
		roots = append(roots, filepath.Dir(exe))
	}
	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(home, ".pantrack"))
	}

	for _, root := range roots {
		p := filepath.Join(root, rel)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
		return p
	}
	return ""
}

// holisticResponse mirrors one JSON line written by the Python service.
// Absent landmark sets are encoded as null.
type holisticResponse struct {
	RightHand *jsonHand `json:"right_hand"`
	Face      *jsonSet  `json:"face"`
	Pose      *jsonSet  `json:"pose"`
}

type jsonHand struct {
	Points     []Landmark `json:"points"`
	Handedness string     `json:"handedness"`
	Score      float64    `json:"score"`
}

type jsonSet struct {
	Points []Landmark `json:"points"`
}

func parseHolisticResponse(line []byte) (Result, error) {
	var resp holisticResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return Result{}, fmt.Errorf("parse response: %w", err)
	}

	var result Result

	// A partial hand cannot be classified, so it is treated as absent.
	if resp.RightHand != nil && len(resp.RightHand.Points) >= NumLandmarks {
		hand := &HandLandmarks{
			Handedness: resp.RightHand.Handedness,
			Score:      resp.RightHand.Score,
		}
		copy(hand.Points[:], resp.RightHand.Points)
		result.RightHand = hand
	}

	if resp.Face != nil && len(resp.Face.Points) > NoseTip {
		result.Face = &FaceLandmarks{Points: resp.Face.Points}
	}

	if resp.Pose != nil && len(resp.Pose.Points) > RightShoulder {
		pose := &PoseLandmarks{}
		copy(pose.Points[:], resp.Pose.Points)
		result.Pose = pose
	}

	return result, nil
}
