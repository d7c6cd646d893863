package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/pantrack/internal/actuator"
	"github.com/ayusman/pantrack/internal/app"
	"github.com/ayusman/pantrack/internal/capture"
	"github.com/ayusman/pantrack/internal/config"
	"github.com/ayusman/pantrack/internal/detector"
	"github.com/ayusman/pantrack/internal/logger"
	"github.com/ayusman/pantrack/internal/server"
	"github.com/ayusman/pantrack/internal/store"
	"github.com/ayusman/pantrack/internal/tray"
)

func main() {
	envFile := flag.String("env", ".env", "path to an optional .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pantrack: %v\n", err)
		os.Exit(2)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "pantrack: create data directory: %v\n", err)
		os.Exit(1)
	}

	log, logCloser, err := logger.New(logger.Options{
		Level: cfg.LogLevel,
		Dir:   filepath.Join(cfg.DataDir, "logs"),
		File:  cfg.LogFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "pantrack: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.Tray {
		if err := run(ctx, cfg, log, nil); err != nil {
			log.WithError(err).Error("pantrack exited with error")
			logCloser.Close()
			os.Exit(1)
		}
		return
	}

	// The tray owns the main thread; tracking runs beside it, so the
	// preview window cannot be used.
	if !cfg.Headless {
		log.Info("tray enabled: preview window disabled")
		cfg.Headless = true
	}
	t := tray.New()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	t.OnQuit(cancel)
	t.OnOpen(func() { openBrowser(log, dashboardURL(cfg.HTTPAddr)) })

	done := make(chan error, 1)
	go func() {
		done <- run(ctx, cfg, log, t)
		t.Quit()
	}()
	t.Run()
	cancel()

	if runErr := <-done; runErr != nil {
		log.WithError(runErr).Error("pantrack exited with error")
		logCloser.Close()
		os.Exit(1)
	}
}

// run wires the components from cfg and blocks until the control loop ends.
func run(ctx context.Context, cfg config.Config, log *logrus.Logger, statusTray *tray.Tray) error {
	st, err := store.New(filepath.Join(cfg.DataDir, "pantrack.db"))
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	camera := capture.NewCamera(capture.Options{
		DeviceID: cfg.CameraID,
		File:     cfg.VideoFile,
		Width:    cfg.FrameWidth,
		Height:   cfg.FrameHeight,
	})

	det, err := detector.NewMediaPipeDetector(cfg.Detector())
	if err != nil {
		return fmt.Errorf("initialize detector: %w", err)
	}
	defer det.Close()

	var sink actuator.Sink
	portName := cfg.SerialPort
	if cfg.DryRun {
		log.Warn("dry run: servo commands are logged, not sent")
		sink = actuator.NewDryRun(log)
		portName = "dry-run"
	} else {
		log.WithField("port", cfg.SerialPort).Info("opening servo port")
		port, err := actuator.Open(cfg.SerialPort, cfg.Port())
		if err != nil {
			return err
		}
		sink = port
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.WithError(err).Warn("error closing servo port")
		}
	}()

	frames := server.NewFrameBuffer()
	display := capture.MultiSink{frames}
	if !cfg.Headless {
		win := capture.NewWindow("pantrack")
		defer win.Close()
		display = append(display, win)
	}

	hub := server.NewTelemetryHub(log)
	publishers := []app.Publisher{hub}
	if statusTray != nil {
		publishers = append(publishers, statusTray)
	}

	loop, err := app.New(app.Config{
		Camera:     camera,
		Detector:   det,
		Actuator:   sink,
		Display:    display,
		Store:      st,
		Publishers: publishers,
		Tuning:     cfg.Tuning,
		PortName:   portName,
		Logger:     log,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	httpDone := make(chan struct{})
	if cfg.HTTPAddr != "" {
		srv := server.New(server.Config{
			StaticDir: findWebDir(cfg.DataDir),
			Store:     st,
			Frames:    frames,
			Telemetry: hub,
			Stats:     loop.Stats,
			Logger:    log,
		})
		go func() {
			defer close(httpDone)
			if err := srv.Serve(ctx, cfg.HTTPAddr); err != nil {
				log.WithError(err).Error("http server failed")
			}
		}()
	} else {
		close(httpDone)
	}

	err = loop.Run(ctx)
	cancel()
	<-httpDone
	return err
}

// findWebDir returns the first existing static directory, or "" if none.
func findWebDir(dataDir string) string {
	candidates := []string{"web", "../web", filepath.Join(dataDir, "web")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}

func dashboardURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/api/status"
}

func openBrowser(log logrus.FieldLogger, url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.WithError(err).Warn("failed to open browser")
	}
}
