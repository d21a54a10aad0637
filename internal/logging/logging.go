package logging

import (
	"io"
	"os"
	"sync"

	"github.com/pion/logging"
)

var (
	mu      sync.Mutex
	output  = &switchWriter{w: os.Stdout}
	loggers []*logging.DefaultLeveledLogger

	loggerFactory = func() *logging.DefaultLoggerFactory {
		f := logging.NewDefaultLoggerFactory()
		f.Writer = output
		return f
	}()
)

// NewLogger returns a leveled logger scoped under "nv12play". Levels follow the
// PION_LOG_<LEVEL> environment variables unless SetLevel overrides them.
func NewLogger(scope string) logging.LeveledLogger {
	name := "nv12play"
	if scope != "" {
		name += "/" + scope
	}

	mu.Lock()
	defer mu.Unlock()
	l := loggerFactory.NewLogger(name)
	if dl, ok := l.(*logging.DefaultLeveledLogger); ok {
		loggers = append(loggers, dl)
	}
	return l
}

// SetOutput redirects every logger, including ones created before the call.
func SetOutput(w io.Writer) {
	output.set(w)
}

// SetLevel changes the level of every logger and the default for new ones.
func SetLevel(level logging.LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	loggerFactory.DefaultLogLevel = level
	for _, l := range loggers {
		l.SetLevel(level)
	}
}

type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) set(w io.Writer) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
