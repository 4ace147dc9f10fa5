// Package logging builds the zap loggers used by the command line tools.
//
// Console output is human readable. When a file is configured, entries are
// also written to it as JSON and the file is rotated by lumberjack.
//
// # Example
//
//	log, err := logging.New(logging.Options{Level: "debug", File: "fractalview.log"})
//	if err != nil {
//		return err
//	}
//	defer log.Sync()
//
//	eng := engine.New(engine.WithLogger(log))
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults for the file sink.
const (
	DefaultMaxSizeMB  = 100
	DefaultMaxBackups = 5
	DefaultMaxAgeDays = 30
)

type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// File enables the rotating JSON sink.
	File string
	// Development adds colour and caller information to console output.
	Development bool
	// Quiet disables console output, e.g. while a full-screen viewer owns
	// the terminal.
	Quiet bool
}

// ParseLevel accepts level names case-insensitively, including "warning".
func ParseLevel(s string) (zapcore.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return zapcore.InfoLevel, nil
	case "warning":
		return zapcore.WarnLevel, nil
	}
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return lvl, fmt.Errorf("logging: %w", err)
	}
	return lvl, nil
}

// New builds a logger from opts. With Quiet set and no File it returns a
// no-op logger.
func New(opts Options) (*zap.Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var console, file zapcore.WriteSyncer
	if !opts.Quiet {
		console = zapcore.Lock(os.Stderr)
	}
	if opts.File != "" {
		file = NewFileWriter(opts.File)
	}
	core := NewCore(lvl, console, file, opts.Development)

	zopts := []zap.Option{}
	if opts.Development {
		zopts = append(zopts, zap.AddCaller(), zap.Development())
	}
	return zap.New(core, zopts...), nil
}

// NewFileWriter returns a rotating sink for path.
func NewFileWriter(path string) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAgeDays,
		Compress:   true,
	})
}

// NewCore tees a console encoder on console and a JSON encoder on file.
// Either writer may be nil.
func NewCore(lvl zapcore.Level, console, file zapcore.WriteSyncer, dev bool) zapcore.Core {
	var cores []zapcore.Core
	if console != nil {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		if dev {
			cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), console, lvl))
	}
	if file != nil {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(cfg), file, lvl))
	}
	if len(cores) == 0 {
		return zapcore.NewNopCore()
	}
	return zapcore.NewTee(cores...)
}
