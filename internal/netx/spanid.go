// SPDX-License-Identifier: GPL-3.0-or-later

package netx

import (
	"github.com/bassosimone/runtimex"
	"github.com/google/uuid"
)

// NewSpanID returns a UUIDv7 identifying a span.
//
// A span is a sequence of operations that can fail in a single, specific
// way, for example one transfer performed on an easy handle. Attach the
// span ID to the logger with [WithAttrs] to correlate events.
//
// This function panics if the system random number generator fails.
func NewSpanID() string {
	return runtimex.PanicOnError1(uuid.NewV7()).String()
}
