package logx

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

var Error = tint.Err //nolint:gochecknoglobals

func Stringer(name string, value fmt.Stringer) slog.Attr {
	return slog.String(name, value.String())
}

// NewLogger builds the application logger: colored console output for local
// runs, JSON otherwise.
func NewLogger(w io.Writer, level slog.Level, jsonFormat bool) *slog.Logger {
	if jsonFormat {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
}
