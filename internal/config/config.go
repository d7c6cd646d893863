// Package config loads pantrack settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/ayusman/pantrack/internal/actuator"
	"github.com/ayusman/pantrack/internal/detector"
	"github.com/ayusman/pantrack/internal/gesture"
	"github.com/ayusman/pantrack/internal/servo"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "PANTRACK_"

// ErrInvalid is returned when loaded settings fail validation.
var ErrInvalid = errors.New("invalid configuration")

// Config holds every runtime option.
type Config struct {
	SerialPort string `validate:"required_unless=DryRun true"`
	BaudRate   int    `validate:"gt=0"`
	DryRun     bool

	CameraID    int `validate:"gte=0"`
	VideoFile   string
	FrameWidth  int `validate:"gt=0"`
	FrameHeight int `validate:"gt=0"`

	HTTPAddr string
	DataDir  string `validate:"required"`
	LogLevel string `validate:"oneof=debug info warn error"`
	LogFile  bool
	Headless bool
	Tray     bool

	ModelComplexity        int     `validate:"gte=0,lte=2"`
	MinDetectionConfidence float64 `validate:"gte=0,lte=1"`
	MinTrackingConfidence  float64 `validate:"gte=0,lte=1"`

	Tuning Tuning
}

// Tuning holds the control law constants.
type Tuning struct {
	AngleMin           int           `validate:"gte=0,lte=180"`
	AngleMax           int           `validate:"gtfield=AngleMin,lte=180"`
	AngleStart         int           `validate:"gtefield=AngleMin,ltefield=AngleMax"`
	MaxStep            float64       `validate:"gt=0"`
	DeadZone           float64       `validate:"gte=0,lt=0.5"`
	Power              float64       `validate:"gt=0"`
	ZoomMin            float64       `validate:"gte=1"`
	ZoomMax            float64       `validate:"gtefield=ZoomMin"`
	ZoomSpeed          float64       `validate:"gt=0"`
	TrackWindow        int           `validate:"gte=1"`
	ZoomWindow         int           `validate:"gte=1"`
	ShoulderVisibility float64       `validate:"gte=0,lte=1"`
	SettleDelay        time.Duration `validate:"gte=0"`
}

// Servo returns the steering law parameters.
func (t Tuning) Servo() servo.Config {
	return servo.Config{
		AngleMin:   t.AngleMin,
		AngleMax:   t.AngleMax,
		AngleStart: t.AngleStart,
		MaxStep:    t.MaxStep,
		DeadZone:   t.DeadZone,
		Power:      t.Power,
	}
}

// Zoom returns the zoom controller parameters.
func (t Tuning) Zoom() gesture.ZoomConfig {
	return gesture.ZoomConfig{
		Min:    t.ZoomMin,
		Max:    t.ZoomMax,
		Speed:  t.ZoomSpeed,
		Window: t.ZoomWindow,
	}
}

// Detector returns the holistic detector settings.
func (c Config) Detector() detector.Config {
	return detector.Config{
		ModelComplexity: c.ModelComplexity,
		RefineFace:      true,
		MinConfidence:   c.MinDetectionConfidence,
		MinTrackingConf: c.MinTrackingConfidence,
	}
}

// Port returns the serial line settings.
func (c Config) Port() actuator.PortOptions {
	return actuator.PortOptions{
		BaudRate:    c.BaudRate,
		SettleDelay: c.Tuning.SettleDelay,
	}
}

// DefaultTuning returns the stock control constants.
func DefaultTuning() Tuning {
	sc := servo.DefaultConfig()
	zc := gesture.DefaultZoomConfig()
	return Tuning{
		AngleMin:           sc.AngleMin,
		AngleMax:           sc.AngleMax,
		AngleStart:         sc.AngleStart,
		MaxStep:            sc.MaxStep,
		DeadZone:           sc.DeadZone,
		Power:              sc.Power,
		ZoomMin:            zc.Min,
		ZoomMax:            zc.Max,
		ZoomSpeed:          zc.Speed,
		TrackWindow:        5,
		ZoomWindow:         zc.Window,
		ShoulderVisibility: 0.4,
		SettleDelay:        2 * time.Second,
	}
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	dataDir := ".pantrack"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".pantrack")
	}

	return Config{
		SerialPort:             "/dev/ttyUSB0",
		BaudRate:               115200,
		CameraID:               0,
		FrameWidth:             1280,
		FrameHeight:            720,
		HTTPAddr:               ":8080",
		DataDir:                dataDir,
		LogLevel:               "info",
		LogFile:                true,
		ModelComplexity:        1,
		MinDetectionConfidence: 0.6,
		MinTrackingConfidence:  0.6,
		Tuning:                 DefaultTuning(),
	}
}

// Load reads envFile when it exists, then overlays PANTRACK_* variables on
// the defaults and validates the result. An empty envFile means ".env".
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from a variable lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	r := reader{lookup: lookup}

	r.str("SERIAL_PORT", &cfg.SerialPort)
	r.int("BAUD_RATE", &cfg.BaudRate)
	r.bool("DRY_RUN", &cfg.DryRun)
	r.int("CAMERA_ID", &cfg.CameraID)
	r.str("VIDEO_FILE", &cfg.VideoFile)
	r.int("FRAME_WIDTH", &cfg.FrameWidth)
	r.int("FRAME_HEIGHT", &cfg.FrameHeight)
	r.str("HTTP_ADDR", &cfg.HTTPAddr)
	r.str("DATA_DIR", &cfg.DataDir)
	r.str("LOG_LEVEL", &cfg.LogLevel)
	r.bool("LOG_FILE", &cfg.LogFile)
	r.bool("HEADLESS", &cfg.Headless)
	r.bool("TRAY", &cfg.Tray)
	r.int("MODEL_COMPLEXITY", &cfg.ModelComplexity)
	r.float("MIN_DETECTION_CONFIDENCE", &cfg.MinDetectionConfidence)
	r.float("MIN_TRACKING_CONFIDENCE", &cfg.MinTrackingConfidence)

	t := &cfg.Tuning
	r.int("ANGLE_MIN", &t.AngleMin)
	r.int("ANGLE_MAX", &t.AngleMax)
	r.int("ANGLE_START", &t.AngleStart)
	r.float("MAX_STEP", &t.MaxStep)
	r.float("DEAD_ZONE", &t.DeadZone)
	r.float("POWER", &t.Power)
	r.float("ZOOM_MIN", &t.ZoomMin)
	r.float("ZOOM_MAX", &t.ZoomMax)
	r.float("ZOOM_SPEED", &t.ZoomSpeed)
	r.int("TRACK_WINDOW", &t.TrackWindow)
	r.int("ZOOM_WINDOW", &t.ZoomWindow)
	r.float("SHOULDER_VISIBILITY", &t.ShoulderVisibility)
	r.duration("SETTLE_DELAY", &t.SettleDelay)

	if r.err != nil {
		return Config{}, r.err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// reader parses variables, keeping the first error.
type reader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *reader) get(name string) (string, bool) {
	if r.err != nil {
		return "", false
	}
	return r.lookup(EnvPrefix + name)
}

func (r *reader) fail(name, value string, err error) {
	r.err = fmt.Errorf("%s%s=%q: %w", EnvPrefix, name, value, err)
}

func (r *reader) str(name string, dst *string) {
	if v, ok := r.get(name); ok {
		*dst = v
	}
}

func (r *reader) int(name string, dst *int) {
	if v, ok := r.get(name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			r.fail(name, v, err)
			return
		}
		*dst = n
	}
}

func (r *reader) float(name string, dst *float64) {
	if v, ok := r.get(name); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			r.fail(name, v, err)
			return
		}
		*dst = f
	}
}

func (r *reader) bool(name string, dst *bool) {
	if v, ok := r.get(name); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			r.fail(name, v, err)
			return
		}
		*dst = b
	}
}

func (r *reader) duration(name string, dst *time.Duration) {
	if v, ok := r.get(name); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			r.fail(name, v, err)
			return
		}
		*dst = d
	}
}
