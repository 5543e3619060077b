// Package logging builds the diagnostic sink for a run: an append-only text
// log file, plus a colorized handler on stderr when it is a terminal so the
// operator sees warnings inline. The logger is constructed once in main and
// passed down explicitly; there is no process-global state.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// New opens (or creates) the log file in append mode and returns the run
// logger and a close func for the underlying file. Every line carries a
// unique run id so interleaved runs can be told apart in the shared log.
func New(logFile string) (*slog.Logger, func() error, error) {
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", logFile, err)
	}

	var handler slog.Handler = slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo})
	if isatty.IsTerminal(os.Stderr.Fd()) {
		handler = tee{
			file: handler,
			term: tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelWarn}),
		}
	}

	logger := slog.New(handler).With("run", uuid.NewString())
	return logger, f.Close, nil
}

// tee duplicates records to the log file and the terminal. Each side keeps
// its own level filter.
type tee struct {
	file slog.Handler
	term slog.Handler
}

func (t tee) Enabled(ctx context.Context, level slog.Level) bool {
	return t.file.Enabled(ctx, level) || t.term.Enabled(ctx, level)
}

func (t tee) Handle(ctx context.Context, r slog.Record) error {
	if t.file.Enabled(ctx, r.Level) {
		if err := t.file.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	if t.term.Enabled(ctx, r.Level) {
		return t.term.Handle(ctx, r.Clone())
	}
	return nil
}

func (t tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	return tee{file: t.file.WithAttrs(attrs), term: t.term.WithAttrs(attrs)}
}

func (t tee) WithGroup(name string) slog.Handler {
	return tee{file: t.file.WithGroup(name), term: t.term.WithGroup(name)}
}
