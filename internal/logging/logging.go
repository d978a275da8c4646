package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const fileName = "station-dashboard.log"

type Logger struct {
	*logrus.Logger
	file *lumberjack.Logger
}

// New writes to stdout and to a rotated file under dir.
func New(dir, level string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create logs folder failed: %w", err)
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	file := &lumberjack.Logger{
		Filename:   filepath.Join(dir, fileName),
		MaxSize:    50, // megabytes
		MaxBackups: 7,
		MaxAge:     30, // days
		Compress:   true,
	}

	l := logrus.New()
	l.SetLevel(lvl)
	l.SetOutput(io.MultiWriter(os.Stdout, file))
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return &Logger{Logger: l, file: file}, nil
}

// NewWriter logs to w only. Used by tests and the replay tool.
func NewWriter(w io.Writer) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.DebugLevel)
	return &Logger{Logger: l}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return NewWriter(io.Discard)
}

// WithRequestID scopes entries to one API request.
func (l *Logger) WithRequestID(requestID string) *logrus.Entry {
	return l.WithField("request_id", requestID)
}

func (l *Logger) Close() {
	if l.file == nil {
		return
	}
	if err := l.file.Close(); err != nil {
		l.Errorf("close log file failed: %v", err)
	}
}
