package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Options struct {
	Level     string `doc:"log from debug, info, warn or error"`
	File      string `doc:"append logs to file"`
	Format    string `doc:"format logs as text or json"         default:"text"`
	AddSource bool   `doc:"add source code position to logs"`
}

// New returns a logger configured by options.
// Invalid options are reset to their default, then reported as warnings by the returned logger.
func New(options *Options) *slog.Logger {
	var warnings []slog.Attr

	opts := &slog.HandlerOptions{AddSource: options.AddSource}
	if options.Level != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(options.Level)); err != nil {
			warnings = append(warnings, slog.String("level_option", options.Level))
			options.Level = ""
		} else {
			opts.Level = level
		}
	}

	var output io.Writer = os.Stdout
	switch options.File {
	case "", "-":
	case os.DevNull:
		return slog.New(slog.DiscardHandler)
	default:
		file, err := os.OpenFile(options.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			warnings = append(warnings, slog.String("file", options.File), slog.Any("err", err))
			options.File = ""
		} else {
			output = file
		}
	}

	var logger *slog.Logger
	switch strings.ToLower(options.Format) {
	case "json":
		logger = slog.New(slog.NewJSONHandler(output, opts))
	case "text", "":
		logger = slog.New(slog.NewTextHandler(output, opts))
	default:
		warnings = append(warnings, slog.String("format", options.Format))
		options.Format = "text"
		logger = slog.New(slog.NewTextHandler(output, opts))
	}

	if len(warnings) > 0 {
		logger.LogAttrs(context.Background(), slog.LevelWarn, "ignored invalid logger options", warnings...)
	}
	return logger
}
