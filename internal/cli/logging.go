package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/twinspect/twinspect/internal/config"
)

// setupLogging installs the default slog handler per the configuration:
// level and format from config, stderr always, optionally teed into the log
// file under the data root. The returned func closes the log file, if any.
func setupLogging(cfg *config.Config) (func(), error) {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	out := io.Writer(os.Stderr)
	closer := func() {}
	if cfg.LogToFile {
		paths := cfg.Paths()
		if err := os.MkdirAll(paths.LogsDir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(paths.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(os.Stderr, f)
		closer = func() { f.Close() }
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	slog.SetDefault(slog.New(handler))

	return closer, nil
}

// logStartup announces the process identity once logging is configured.
func logStartup(build BuildInfo, cfg *config.Config) {
	ver, sha, built, dirty := build.resolve()
	slog.Info("starting twinspect",
		"version", ver,
		"commit", sha,
		"built", built,
		"dirty", dirty,
		"go", runtime.Version(),
		"listen", cfg.Listen,
		"data_dir", cfg.DataDir,
	)
}
