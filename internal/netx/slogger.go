//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/x/netcore/dialer.go
//

package netx

// SLogger abstracts the [*slog.Logger] behavior.
//
// Two log levels are used:
//   - Info for lifecycle and protocol events (handle init and cleanup,
//     perform, connect, close, TLS handshake, HTTP round trip, DNS)
//   - Debug for per-I/O and per-callback events
//
// The [*slog.Logger] type satisfies this interface.
type SLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

// DefaultSLogger returns a logger discarding all output.
//
// Libraries do not write to stdout or stderr unless configured to.
func DefaultSLogger() SLogger {
	return discardSLogger{}
}

type discardSLogger struct{}

var _ SLogger = discardSLogger{}

// Debug implements [SLogger].
func (discardSLogger) Debug(msg string, args ...any) {
	// nothing
}

// Info implements [SLogger].
func (discardSLogger) Info(msg string, args ...any) {
	// nothing
}

// WithAttrs returns a logger appending attrs to the arguments of every event.
//
// Use it to attach a span ID obtained from [NewSpanID].
func WithAttrs(logger SLogger, attrs ...any) SLogger {
	return &attrsSLogger{attrs: attrs, logger: logger}
}

type attrsSLogger struct {
	attrs  []any
	logger SLogger
}

// Debug implements [SLogger].
func (sl *attrsSLogger) Debug(msg string, args ...any) {
	sl.logger.Debug(msg, append(args, sl.attrs...)...)
}

// Info implements [SLogger].
func (sl *attrsSLogger) Info(msg string, args ...any) {
	sl.logger.Info(msg, append(args, sl.attrs...)...)
}
