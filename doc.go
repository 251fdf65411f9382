// SPDX-License-Identifier: GPL-3.0-or-later

// Package xfer is a typed layer over a handle-based HTTP transfer API
// shaped like libcurl's easy, multi and share interfaces.
//
// The raw API is [capi.Engine]: integer handles, numeric option codes,
// raw callbacks taking an opaque data value. This package lets you
// register typed event handlers and set typed options without matching
// raw signatures and data slots by hand.
//
// # Events and kinds
//
// Each callback kind (write, read, header, debug, seek, progress, lock,
// unlock) has an event type, such as [WriteEvent], and a [Kind] value,
// such as [Write], describing its raw signature, its function and data
// option slots and its fallback.
//
// # Bindings
//
// A [Binding] pairs a trampoline matching the raw signature with the
// value to store in the data slot. Build one explicitly with the binders
// ([Kind.Method], [Kind.Static], [Kind.Func], [StaticData], [FuncData])
// or with the detectors ([DetectMethod], [DetectStatic],
// [DetectStaticData], [Detect]), which return the zero [Binding] when the
// handler lacks the shape. [Kind.Install] writes the function slot and
// the data slot back to back, using the kind's fallback for the zero
// [Binding], so the two slots always agree.
//
// # Handles
//
// [EasyRef] is a copyable reference to an easy handle and [*Easy] owns
// one. [NewEasyFor] creates an easy handle and installs every handler a
// value implements. [MultiRef] and [ShareRef] (owned by [*Multi] and
// [*Share]) follow the same split.
//
// # Engine
//
// [NewConfig] selects the pure Go engine in engine/native.
package xfer
