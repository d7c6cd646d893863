// Package logger builds the process logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Fields is an alias so callers need not import logrus for field maps.
type Fields = logrus.Fields

// Options controls where and how much is logged.
type Options struct {
	Level    string
	Dir      string // rotated log files go here when File is set
	File     bool
	NoColors bool
	Output   io.Writer // defaults to os.Stderr
}

// New returns a configured logger and a closer for its file writer. The
// closer is a no-op when no file is written.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(&formatter.Formatter{
		NoColors:        opts.NoColors,
		TimestampFormat: "02 Jan 06 - 15:04:05",
		HideKeys:        false,
		CallerFirst:     true,
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			funcName := s[len(s)-1]
			if opts.NoColors {
				return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
			}
			return fmt.Sprintf(" \x1b[%dm[%s:%d][%s()]", 34, path.Base(f.File), f.Line, funcName)
		},
	})

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	writers := []io.Writer{out}

	var closer io.Closer = nopCloser{}
	if opts.File {
		if opts.Dir == "" {
			return nil, nil, fmt.Errorf("log file requested without a directory")
		}
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		fileWriter := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, fmt.Sprintf("pantrack-%s.log", time.Now().Format("2006-01-02"))),
			LocalTime:  true,
			Compress:   true,
			MaxSize:    100,
			MaxAge:     7,
			MaxBackups: 3,
		}
		writers = append(writers, fileWriter)
		closer = fileWriter
	}

	log.SetOutput(io.MultiWriter(writers...))
	log.SetReportCaller(true)

	return log, closer, nil
}

// ParseLevel maps a level name to a logrus level. Empty means info.
func ParseLevel(name string) (logrus.Level, error) {
	if name == "" {
		return logrus.InfoLevel, nil
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return 0, fmt.Errorf("log level %q: %w", name, err)
	}
	return level, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
