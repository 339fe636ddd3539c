package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

// Setup configures structured JSON logging to stdout and returns the base
// logger. Every line carries the service name and, when provided, the
// cluster environment. Devnet and localnet run at debug level.
func Setup(service, env string) *slog.Logger {
	return setup(os.Stdout, service, env)
}

func setup(out io.Writer, service, env string) *slog.Logger {
	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		AddSource:   false,
		Level:       levelFor(env),
		ReplaceAttr: replaceAttr,
	})

	attrs := []slog.Attr{slog.String("service", strings.TrimSpace(service))}
	if env = strings.TrimSpace(env); env != "" {
		attrs = append(attrs, slog.String("env", env))
	}

	withArgs := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		withArgs = append(withArgs, attr)
	}

	base := slog.New(handler).With(withArgs...)
	slog.SetDefault(base)

	// Bridge the standard library logger so dependency logs land in the
	// same stream.
	stdBridge := slog.NewLogLogger(handler.WithAttrs(attrs), slog.LevelInfo)
	stdBridge.SetFlags(0)
	log.SetOutput(stdBridge.Writer())
	log.SetFlags(0)
	log.SetPrefix("")

	return base
}

// replaceAttr renames the default slog keys to the names the log pipeline
// indexes on and masks credential fields that reach a call site unredacted.
func replaceAttr(groups []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		return slog.Attr{Key: "timestamp", Value: attr.Value}
	case slog.LevelKey:
		return slog.String("severity", strings.ToUpper(attr.Value.String()))
	case slog.MessageKey:
		return slog.Attr{Key: "message", Value: attr.Value}
	}
	if attr.Value.Kind() == slog.KindString && IsSensitive(attr.Key) {
		return slog.String(attr.Key, MaskValue(attr.Value.String()))
	}
	return attr
}

// levelFor maps the cluster environment to a log level. Development
// clusters log instruction-level detail; everything else starts at info.
func levelFor(env string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "devnet", "localnet":
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
