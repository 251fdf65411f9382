// SPDX-License-Identifier: GPL-3.0-or-later

package capi

import "sync/atomic"

// EasyHandle is an opaque easy handle. The zero value is invalid.
type EasyHandle uint64

// MultiHandle is an opaque multi handle. The zero value is invalid.
type MultiHandle uint64

// ShareHandle is an opaque share handle. The zero value is invalid.
type ShareHandle uint64

// handleSeq is shared by all kinds of handles and all engines, so that
// a handle value identifies exactly one object in the process.
var handleSeq atomic.Uint64

// NextHandle returns a fresh, never zero, process-wide unique handle value.
//
// Engines use this to allocate handles for [Engine.EasyInit],
// [Engine.MultiInit] and [Engine.ShareInit].
func NextHandle() uint64 {
	return handleSeq.Add(1)
}
