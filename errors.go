// SPDX-License-Identifier: GPL-3.0-or-later

package xfer

import "errors"

// Errors returned by this package.
//
// Failures reported by the engine are returned unchanged as [capi.Code],
// [capi.MCode] or [capi.SHCode] values: use [errors.As] to inspect them.
var (
	// ErrInvalidHandle is returned when using a zero or closed reference.
	ErrInvalidHandle = errors.New("xfer: invalid handle")

	// ErrEasyInit is returned when the engine cannot create an easy handle.
	ErrEasyInit = errors.New("xfer: cannot create easy handle")

	// ErrMultiInit is returned when the engine cannot create a multi handle.
	ErrMultiInit = errors.New("xfer: cannot create multi handle")

	// ErrShareInit is returned when the engine cannot create a share handle.
	ErrShareInit = errors.New("xfer: cannot create share handle")

	// ErrUnpairedLock is returned by [AttachShare] for values implementing
	// only one of [OnLock] and [OnUnlock].
	ErrUnpairedLock = errors.New("xfer: lock and unlock handlers must be installed together")
)
