package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

var logFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "log-level",
		Usage:   "log verbosity: debug, info, warn or error",
		Value:   "info",
		EnvVars: []string{"ORDIDX_LOG_LEVEL", "GOLOG_LOG_LEVEL"},
	},
	&cli.StringFlag{
		Name:    "log-format",
		Usage:   "log output format: text or json",
		Value:   "text",
		EnvVars: []string{"ORDIDX_LOG_FMT", "GOLOG_LOG_FMT"},
	},
}

type LogOptions struct {
	LogLevel  string
	LogFormat string
}

// SetupSlog builds a logger writing to w.
func SetupSlog(w io.Writer, options LogOptions) (*slog.Logger, error) {
	var hopts slog.HandlerOptions
	switch strings.ToLower(options.LogLevel) {
	case "debug":
		hopts.Level = slog.LevelDebug
	case "", "info":
		hopts.Level = slog.LevelInfo
	case "warn":
		hopts.Level = slog.LevelWarn
	case "error":
		hopts.Level = slog.LevelError
	default:
		return nil, errors.Newf("unknown log level: %#v", options.LogLevel)
	}

	var handler slog.Handler
	switch strings.ToLower(options.LogFormat) {
	case "", "text":
		handler = slog.NewTextHandler(w, &hopts)
	case "json":
		handler = slog.NewJSONHandler(w, &hopts)
	default:
		return nil, errors.Newf("invalid log format: %#v", options.LogFormat)
	}
	return slog.New(handler), nil
}

func configLogger(cctx *cli.Context) error {
	logger, err := SetupSlog(cctx.App.ErrWriter, LogOptions{
		LogLevel:  cctx.String("log-level"),
		LogFormat: cctx.String("log-format"),
	})
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
