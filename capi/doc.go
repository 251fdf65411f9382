// SPDX-License-Identifier: GPL-3.0-or-later

// Package capi is the raw, C-shaped transfer API.
//
// It mirrors the easy/multi/share handle interface of libcurl: opaque
// integer handles, numeric option and info codes using the same values
// and type bases, integer result codes with a strerror table, and raw
// callback signatures that receive an untyped user data value.
//
// Nothing in this package is type safe on purpose. The [Engine] interface
// is the boundary between the typed layer (package xfer) and an engine
// implementation (see package native). Code outside of those two layers
// should not need to import this package except for the constants.
package capi
