package main

import (
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/bananamirror/relay"
)

// setupLogging installs the process logger and routes the standard log package
// through it. Production writes JSON to stdout, development colored text to stderr.
func setupLogging(env relay.Environment, level string) {
	out := os.Stderr
	if env == relay.EnvProduction {
		out = os.Stdout
	}

	h := logHandler(out, env, logLevel(env, level))
	slog.SetDefault(slog.New(h))

	log.SetFlags(0)
	log.SetOutput(slog.NewLogLogger(h, slog.LevelInfo).Writer())
}

func logHandler(w io.Writer, env relay.Environment, level slog.Level) slog.Handler {
	if env == relay.EnvProduction {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: utcTimestamp,
		})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		AddSource:  true,
		TimeFormat: "15:04:05.000",
	})
}

// utcTimestamp renames the record time to "ts" in UTC. Attributes that merely
// share the key are left alone.
func utcTimestamp(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 || a.Key != slog.TimeKey || a.Value.Kind() != slog.KindTime {
		return a
	}
	return slog.String("ts", a.Value.Time().UTC().Format(time.RFC3339Nano))
}

// logLevel parses name, defaulting to info in production and debug elsewhere
// when it is empty or unknown.
func logLevel(env relay.Environment, name string) slog.Level {
	var level slog.Level
	if name != "" && level.UnmarshalText([]byte(name)) == nil {
		return level
	}
	if env == relay.EnvProduction {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}
