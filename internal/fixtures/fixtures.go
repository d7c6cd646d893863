// Package fixtures provides recorded landmark scenarios for end-to-end tests.
package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"gocv.io/x/gocv"

	"github.com/ayusman/pantrack/internal/detector"
)

//go:embed scenarios/*.json
var scenariosFS embed.FS

// Step is a run of identical detector results.
type Step struct {
	Repeat int      `json:"repeat"`
	Hand   string   `json:"hand,omitempty"` // open, fist, point or peace
	FaceX  *float64 `json:"face_x,omitempty"`
	Pose   *Pose    `json:"pose,omitempty"`
}

// Pose places both shoulders.
type Pose struct {
	Left       float64 `json:"left"`
	Right      float64 `json:"right"`
	Visibility float64 `json:"visibility"`
}

// Expect is the outcome after the last frame. Angle is "up", "down" or
// "steady" relative to the start angle; Zoom is "in" or "base".
type Expect struct {
	Mode     string `json:"mode"`
	Angle    string `json:"angle"`
	Zoom     string `json:"zoom"`
	Commands int    `json:"commands"`
	Toggles  int    `json:"toggles"`
}

// Scenario is one recorded sequence and its expected outcome.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Steps       []Step `json:"steps"`
	Expect      Expect `json:"expect"`
}

// Frames returns the total number of frames in the scenario.
func (s Scenario) Frames() int {
	n := 0
	for _, st := range s.Steps {
		n += st.Repeat
	}
	return n
}

// Results expands the steps into one detector result per frame.
func (s Scenario) Results() ([]detector.Result, error) {
	out := make([]detector.Result, 0, s.Frames())
	for i, st := range s.Steps {
		r, err := st.result()
		if err != nil {
			return nil, fmt.Errorf("scenario %s step %d: %w", s.Name, i, err)
		}
		for j := 0; j < st.Repeat; j++ {
			out = append(out, r)
		}
	}
	return out, nil
}

func (st Step) result() (detector.Result, error) {
	var r detector.Result

	if st.Hand != "" {
		var hand detector.HandLandmarks
		switch st.Hand {
		case "open":
			hand = detector.OpenPalmLandmarks()
		case "fist":
			hand = detector.FistLandmarks()
		case "point":
			hand = detector.PointLandmarks()
		case "peace":
			hand = detector.PeaceLandmarks()
		default:
			return r, fmt.Errorf("unknown hand %q", st.Hand)
		}
		r.RightHand = &hand
	}
	if st.FaceX != nil {
		r.Face = detector.FaceAt(*st.FaceX)
	}
	if st.Pose != nil {
		r.Pose = detector.PoseAt(st.Pose.Left, st.Pose.Right, st.Pose.Visibility)
	}
	return r, nil
}

// Load loads a scenario by name, without the .json extension.
func Load(name string) (Scenario, error) {
	data, err := scenariosFS.ReadFile(path.Join("scenarios", name+".json"))
	if err != nil {
		return Scenario{}, fmt.Errorf("load scenario %s: %w", name, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario %s: %w", name, err)
	}
	return s, nil
}

// All loads every scenario sorted by name.
func All() ([]Scenario, error) {
	entries, err := scenariosFS.ReadDir("scenarios")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)

	scenarios := make([]Scenario, 0, len(names))
	for _, name := range names {
		s, err := Load(name)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// BlankFrames returns n black BGR frames. The caller closes them.
func BlankFrames(n, width, height int) []*gocv.Mat {
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		m := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
		frames[i] = &m
	}
	return frames
}
