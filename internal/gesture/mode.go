package gesture

// Mode is the operating mode of the tracker.
type Mode int

const (
	// Track follows the subject with the pan actuator.
	Track Mode = iota
	// Hold freezes the actuator at its last angle.
	Hold
)

func (m Mode) String() string {
	if m == Hold {
		return "HOLD"
	}
	return "TRACK"
}

// ModeController flips between Track and Hold on each rising edge of the
// open-palm gesture. Holding the palm open across frames flips only once.
type ModeController struct {
	mode           Mode
	prevToggleOpen bool
}

// NewModeController creates a controller in Track mode.
func NewModeController() *ModeController {
	return &ModeController{mode: Track}
}

// Update advances the controller by one frame and reports whether the mode
// flipped. When present is false (no hand in view) nothing changes,
// including the remembered previous gesture.
func (c *ModeController) Update(state State, present bool) bool {
	if !present {
		return false
	}

	open := state.ToggleOpen()
	toggled := open && !c.prevToggleOpen
	if toggled {
		if c.mode == Track {
			c.mode = Hold
		} else {
			c.mode = Track
		}
	}
	c.prevToggleOpen = open

	return toggled
}

// Mode returns the current mode.
func (c *ModeController) Mode() Mode {
	return c.mode
}

// PrevToggleOpen returns the open-palm flag remembered from the last frame
// with a hand in view.
func (c *ModeController) PrevToggleOpen() bool {
	return c.prevToggleOpen
}
