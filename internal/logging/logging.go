// Package logging builds the zap logger shared by every run: timestamped
// lines on the console and appended to a log file.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TimeLayout is the timestamp format of every log line.
const TimeLayout = "2006-01-02 15:04:05"

// Options configures [New].
type Options struct {
	// File is appended to; empty disables the file sink.
	File string
	// Console receives the same lines; nil disables the console sink.
	Console io.Writer
	// Quiet limits the console to warnings and errors.
	Quiet bool
	// Verbose enables debug lines on both sinks.
	Verbose bool
}

func encoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeTime:       zapcore.TimeEncoderOfLayout(TimeLayout),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	})
}

// New returns the logger and a function that flushes it and closes the file.
func New(opts Options) (*zap.Logger, func() error, error) {
	base := zapcore.InfoLevel
	if opts.Verbose {
		base = zapcore.DebugLevel
	}

	console := base
	if opts.Quiet {
		console = zapcore.WarnLevel
	}

	var (
		cores []zapcore.Core
		file  *os.File
	)

	if opts.Console != nil {
		cores = append(cores, zapcore.NewCore(encoder(), zapcore.AddSync(opts.Console), console))
	}

	if len(opts.File) != 0 {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, err
		}

		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}

		file = f
		cores = append(cores, zapcore.NewCore(encoder(), zapcore.AddSync(f), base))
	}

	logger := zap.New(zapcore.NewTee(cores...))

	closer := func() error {
		_ = logger.Sync()

		if file != nil {
			return file.Close()
		}

		return nil
	}

	return logger, closer, nil
}
