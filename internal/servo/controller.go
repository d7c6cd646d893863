// Package servo implements the pan steering law and the actuator command
// format.
package servo

import "math"

// Config holds the steering law parameters.
type Config struct {
	AngleMin   int
	AngleMax   int
	AngleStart int
	MaxStep    float64 // degrees per frame at full error
	DeadZone   float64 // error magnitude ignored around center
	Power      float64 // exponent of the step curve
}

// DefaultConfig returns the stock steering parameters.
func DefaultConfig() Config {
	return Config{
		AngleMin:   30,
		AngleMax:   150,
		AngleStart: 90,
		MaxStep:    6,
		DeadZone:   0.10,
		Power:      1.8,
	}
}

// maxError is the error magnitude at the frame edge.
const maxError = 0.5

// Error converts a filtered horizontal position into a steering error.
// A subject left of center gives a positive error.
func Error(xFiltered float64) float64 {
	return -(xFiltered - 0.5)
}

// Step returns the unsigned step size for an error. Errors within the dead
// zone produce no step.
func (c Config) Step(err float64) float64 {
	mag := math.Abs(err)
	if mag <= c.DeadZone {
		return 0
	}
	ratio := math.Min(mag/maxError, 1.0)
	return c.MaxStep * math.Pow(ratio, c.Power)
}

// Controller keeps the commanded pan angle. Steps are accumulated in
// floating point so that sub-degree steps add up; the command is the
// truncated integer angle.
type Controller struct {
	cfg   Config
	angle float64
}

// NewController creates a controller at the configured start angle.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}
	c.angle = c.clamp(float64(cfg.AngleStart))
	return c
}

// Update steers toward the filtered position and returns the new angle.
func (c *Controller) Update(xFiltered float64) int {
	err := Error(xFiltered)
	step := c.cfg.Step(err)
	if step > 0 {
		if err > 0 {
			c.angle += step
		} else {
			c.angle -= step
		}
	}
	c.angle = c.clamp(c.angle)
	return c.Angle()
}

// Angle returns the current command angle, always within [AngleMin, AngleMax].
func (c *Controller) Angle() int {
	return int(c.angle)
}

// Exact returns the unrounded accumulator.
func (c *Controller) Exact() float64 {
	return c.angle
}

func (c *Controller) clamp(a float64) float64 {
	return math.Max(float64(c.cfg.AngleMin), math.Min(float64(c.cfg.AngleMax), a))
}
