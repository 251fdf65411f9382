// SPDX-License-Identifier: GPL-3.0-or-later

package capi

import (
	"bytes"
	"context"
	"time"
)

// ErrorBufferSize is the size of an [ErrorBuffer].
const ErrorBufferSize = 256

// ErrorBuffer receives a NUL terminated error message after a failed
// transfer. Attach it with [OptErrorBuffer].
type ErrorBuffer [ErrorBufferSize]byte

// Set stores msg, truncated to fit, followed by a NUL byte.
func (b *ErrorBuffer) Set(msg string) {
	n := copy(b[:ErrorBufferSize-1], msg)
	b[n] = 0
}

// String returns the message up to the first NUL byte.
func (b *ErrorBuffer) String() string {
	if idx := bytes.IndexByte(b[:], 0); idx >= 0 {
		return string(b[:idx])
	}
	return string(b[:])
}

// MsgType is the type of a [Msg].
type MsgType int

// MsgDone is the only message type: a transfer completed.
const MsgDone MsgType = 1

// Msg is a completion message returned by [Engine.MultiInfoRead].
type Msg struct {
	Msg    MsgType
	Easy   EasyHandle
	Result Code
}

// Engine is the raw transfer API.
//
// Every method taking a handle returns a bad handle code when the handle
// is unknown. Values passed to the setopt methods and output pointers
// passed to [Engine.EasyGetinfo] follow the type base of the code.
//
// A nil callback is valid for every function option: the engine then
// uses its built-in behavior for that callback.
type Engine interface {
	// EasyInit returns a new easy handle or zero on failure.
	EasyInit() EasyHandle

	// EasyCleanup destroys the easy handle.
	EasyCleanup(h EasyHandle)

	// EasyReset resets every option of the easy handle to its default.
	EasyReset(h EasyHandle)

	// EasyDuphandle returns a new easy handle with the same options or zero.
	EasyDuphandle(h EasyHandle) EasyHandle

	// EasySetopt sets an option.
	EasySetopt(h EasyHandle, opt Option, value any) Code

	// EasyGetinfo reads an info into out.
	EasyGetinfo(h EasyHandle, info Info, out any) Code

	// EasyPerform runs the transfer and blocks until it is done.
	EasyPerform(ctx context.Context, h EasyHandle) Code

	// EasyPause pauses or resumes the transfer.
	EasyPause(h EasyHandle, flags PauseFlags) Code

	// MultiInit returns a new multi handle or zero on failure.
	MultiInit() MultiHandle

	// MultiCleanup destroys the multi handle.
	MultiCleanup(m MultiHandle) MCode

	// MultiSetopt sets a multi option.
	MultiSetopt(m MultiHandle, opt MultiOption, value any) MCode

	// MultiAddHandle adds an easy handle to the multi handle.
	MultiAddHandle(m MultiHandle, h EasyHandle) MCode

	// MultiRemoveHandle removes an easy handle from the multi handle.
	MultiRemoveHandle(m MultiHandle, h EasyHandle) MCode

	// MultiPerform drives the transfers and stores how many are running.
	MultiPerform(m MultiHandle, running *int) MCode

	// MultiWait waits up to timeout for activity and stores the number
	// of ready events.
	MultiWait(m MultiHandle, timeout time.Duration, numfds *int) MCode

	// MultiInfoRead returns the next completion message or nil and stores
	// the number of messages still queued.
	MultiInfoRead(m MultiHandle, remaining *int) *Msg

	// ShareInit returns a new share handle or zero on failure.
	ShareInit() ShareHandle

	// ShareCleanup destroys the share handle.
	ShareCleanup(s ShareHandle) SHCode

	// ShareSetopt sets a share option.
	ShareSetopt(s ShareHandle, opt ShareOption, value any) SHCode
}
