// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin, leveled wrapper around log/slog, styled after the
// structured-logging package the rest of this codebase's packages pin a
// package-level `logger` to (e.g. `var logger = log.WithContext("pkg", "hattrie")`).
package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// Levels match the go-ethereum/vechain-thor convention: Trace sits below
// slog's own Debug, Crit sits above Error.
const (
	LevelTrace slog.Level = -8
	LevelDebug slog.Level = slog.LevelDebug
	LevelInfo  slog.Level = slog.LevelInfo
	LevelWarn  slog.Level = slog.LevelWarn
	LevelError slog.Level = slog.LevelError
	LevelCrit  slog.Level = 12
)

// Logger is the package's logging interface. All packages in this module
// depend on this interface, not on *slog.Logger directly, so a caller
// embedding the hat-trie can redirect its output with SetDefault.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
	With(ctx ...any) Logger
}

type logger struct {
	inner *slog.Logger
}

// New wraps an *slog.Logger, attaching the given key/value pairs as attrs.
func New(ctx ...any) Logger {
	return &logger{inner: slog.Default().With(ctx...)}
}

// NewLogger wraps an arbitrary slog.Handler.
func NewLogger(h slog.Handler) Logger {
	return &logger{inner: slog.New(h)}
}

func (l *logger) log(level slog.Level, msg string, ctx []any) {
	l.inner.Log(context.Background(), level, msg, ctx...)
}

func (l *logger) Trace(msg string, ctx ...any) { l.log(LevelTrace, msg, ctx) }
func (l *logger) Debug(msg string, ctx ...any) { l.log(LevelDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...any)  { l.log(LevelInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...any)  { l.log(LevelWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...any) { l.log(LevelError, msg, ctx) }
func (l *logger) Crit(msg string, ctx ...any)  { l.log(LevelCrit, msg, ctx) }

func (l *logger) With(ctx ...any) Logger {
	return &logger{inner: l.inner.With(ctx...)}
}

var root atomic.Value // Logger

func init() {
	root.Store(New().(Logger))
}

// SetDefault replaces the package's root logger. Every WithContext call
// made after this point derives from l.
func SetDefault(l Logger) {
	root.Store(l)
}

// Root returns the package's current root logger.
func Root() Logger {
	return root.Load().(Logger)
}

// WithContext derives a logger from Root with the given key/value pairs
// attached, the idiom used throughout this module to scope a logger to
// one package: `var logger = log.WithContext("pkg", "hattrie")`.
func WithContext(ctx ...any) Logger {
	return Root().With(ctx...)
}

// NewTextHandler returns a slog.Handler writing logfmt-ish text to w at
// or above minLevel, for callers that want an explicit non-default sink
// (tests, CLIs) without pulling in a terminal-color renderer.
func NewTextHandler(w *os.File, minLevel slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: minLevel})
}
