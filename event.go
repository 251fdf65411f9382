// SPDX-License-Identifier: GPL-3.0-or-later

package xfer

import "github.com/bassosimone/xfer/capi"

// WriteEvent carries a chunk of response body.
//
// Return Data.Len() to accept it, [WriteFuncPause] to pause receiving,
// anything else to fail the transfer.
type WriteEvent struct {
	Data ConstBuffer
}

func newWriteEvent(ptr *byte, size, nmemb uintptr) WriteEvent {
	return WriteEvent{Data: newConstBuffer(ptr, size*nmemb)}
}

// HeaderEvent carries one response header line including its CRLF.
type HeaderEvent struct {
	Data ConstBuffer
}

func newHeaderEvent(ptr *byte, size, nitems uintptr) HeaderEvent {
	return HeaderEvent{Data: newConstBuffer(ptr, size*nitems)}
}

// ReadEvent asks for request body bytes to be written into Buffer.
//
// Return the number of bytes written, zero at the end of the body,
// [ReadFuncAbort] or [ReadFuncPause].
type ReadEvent struct {
	Buffer MutableBuffer
}

func newReadEvent(ptr *byte, size, nitems uintptr) ReadEvent {
	return ReadEvent{Buffer: newMutableBuffer(ptr, size*nitems)}
}

// DebugEvent carries verbose information about a transfer.
type DebugEvent struct {
	Handle EasyRef
	Type   InfoType
	Data   ConstBuffer
}

func newDebugEvent(h capi.EasyHandle, typ capi.InfoType, ptr *byte, size uintptr) DebugEvent {
	return DebugEvent{Handle: lookupEasyRef(h), Type: typ, Data: newConstBuffer(ptr, size)}
}

// SeekEvent asks to move the request body to Offset relative to Origin,
// which uses the [io.Seeker] whence values.
type SeekEvent struct {
	Offset int64
	Origin int
}

func newSeekEvent(offset int64, origin int) SeekEvent {
	return SeekEvent{Offset: offset, Origin: origin}
}

// ProgressEvent reports the transfer counters.
type ProgressEvent struct {
	DLTotal int64
	DLNow   int64
	ULTotal int64
	ULNow   int64
}

func newProgressEvent(dltotal, dlnow, ultotal, ulnow int64) ProgressEvent {
	return ProgressEvent{DLTotal: dltotal, DLNow: dlnow, ULTotal: ultotal, ULNow: ulnow}
}

// LockEvent asks to lock the shared Data for Handle.
type LockEvent struct {
	Handle EasyRef
	Data   LockData
	Access LockAccess
}

func newLockEvent(h capi.EasyHandle, data capi.LockData, access capi.LockAccess) LockEvent {
	return LockEvent{Handle: lookupEasyRef(h), Data: data, Access: access}
}

// UnlockEvent asks to unlock the shared Data for Handle.
type UnlockEvent struct {
	Handle EasyRef
	Data   LockData
}

func newUnlockEvent(h capi.EasyHandle, data capi.LockData) UnlockEvent {
	return UnlockEvent{Handle: lookupEasyRef(h), Data: data}
}
