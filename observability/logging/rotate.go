package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupWithFile is Setup with log lines mirrored to a size-rotated file.
// An empty path falls back to stdout-only logging.
func SetupWithFile(service, env, path string) *slog.Logger {
	if strings.TrimSpace(path) == "" {
		return Setup(service, env)
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100, // megabytes
		MaxBackups: 7,
		MaxAge:     28, // days
		Compress:   true,
	}
	return setup(io.MultiWriter(os.Stdout, rotator), service, env)
}
