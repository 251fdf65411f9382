// SPDX-License-Identifier: GPL-3.0-or-later

package xfer

import "github.com/bassosimone/xfer/capi"

// Kind describes one callback kind.
//
// O is the option code type, E the event, R the handler result, F the
// raw callback signature and H the handler interface. The package
// defines one Kind value per callback; the type has no useful zero value.
type Kind[O, E, R, F, H any] struct {
	name     string
	fnOpt    O
	dataOpt  O
	fallback F

	// synth builds a raw callback decoding the raw arguments into an
	// event and forwarding it, with the data slot value, to call.
	synth func(call func(ev E, data any) R) F

	// invoke dispatches ev to the handler interface.
	invoke func(h H, ev E) R

	// pairOpt is the function slot of the kind sharing dataOpt, when
	// paired is set. Installing this kind writes pairFallback there.
	paired       bool
	pairOpt      O
	pairFallback any
}

// Name returns the kind name, e.g. "write".
func (k Kind[O, E, R, F, H]) Name() string {
	return k.name
}

// FuncOption returns the option code of the function slot.
func (k Kind[O, E, R, F, H]) FuncOption() O {
	return k.fnOpt
}

// DataOption returns the option code of the data slot.
func (k Kind[O, E, R, F, H]) DataOption() O {
	return k.dataOpt
}

// Fallback returns the callback installed for the zero [Binding].
func (k Kind[O, E, R, F, H]) Fallback() F {
	return k.fallback
}

// discardWrite accepts and drops every chunk.
func discardWrite(ptr *byte, size, nmemb uintptr, userdata any) uintptr {
	return size * nmemb
}

// Write is the response body kind.
var Write = Kind[capi.Option, WriteEvent, uintptr, capi.WriteCallback, OnWrite]{
	name:     "write",
	fnOpt:    capi.OptWriteFunction,
	dataOpt:  capi.OptWriteData,
	fallback: discardWrite,
	synth: func(call func(WriteEvent, any) uintptr) capi.WriteCallback {
		return func(ptr *byte, size, nmemb uintptr, userdata any) uintptr {
			return call(newWriteEvent(ptr, size, nmemb), userdata)
		}
	},
	invoke: OnWrite.OnWrite,
}

// Read is the request body kind.
var Read = Kind[capi.Option, ReadEvent, uintptr, capi.ReadCallback, OnRead]{
	name:    "read",
	fnOpt:   capi.OptReadFunction,
	dataOpt: capi.OptReadData,
	synth: func(call func(ReadEvent, any) uintptr) capi.ReadCallback {
		return func(ptr *byte, size, nitems uintptr, userdata any) uintptr {
			return call(newReadEvent(ptr, size, nitems), userdata)
		}
	},
	invoke: OnRead.OnRead,
}

// Header is the response header kind.
var Header = Kind[capi.Option, HeaderEvent, uintptr, capi.HeaderCallback, OnHeader]{
	name:    "header",
	fnOpt:   capi.OptHeaderFunction,
	dataOpt: capi.OptHeaderData,
	synth: func(call func(HeaderEvent, any) uintptr) capi.HeaderCallback {
		return func(ptr *byte, size, nitems uintptr, userdata any) uintptr {
			return call(newHeaderEvent(ptr, size, nitems), userdata)
		}
	},
	invoke: OnHeader.OnHeader,
}

// Debug is the verbose information kind. The engine only emits debug
// events with [Verbose] enabled.
var Debug = Kind[capi.Option, DebugEvent, int, capi.DebugCallback, OnDebug]{
	name:    "debug",
	fnOpt:   capi.OptDebugFunction,
	dataOpt: capi.OptDebugData,
	synth: func(call func(DebugEvent, any) int) capi.DebugCallback {
		return func(h capi.EasyHandle, typ capi.InfoType, ptr *byte, size uintptr, userdata any) int {
			return call(newDebugEvent(h, typ, ptr, size), userdata)
		}
	},
	invoke: OnDebug.OnDebug,
}

// Seek is the request body rewind kind.
var Seek = Kind[capi.Option, SeekEvent, SeekResult, capi.SeekCallback, OnSeek]{
	name:    "seek",
	fnOpt:   capi.OptSeekFunction,
	dataOpt: capi.OptSeekData,
	synth: func(call func(SeekEvent, any) SeekResult) capi.SeekCallback {
		return func(userdata any, offset int64, origin int) capi.SeekResult {
			return call(newSeekEvent(offset, origin), userdata)
		}
	},
	invoke: OnSeek.OnSeek,
}

// Progress is the transfer progress kind. The engine only emits progress
// events with [NoProgress] disabled.
var Progress = Kind[capi.Option, ProgressEvent, int, capi.XferInfoCallback, OnProgress]{
	name:    "progress",
	fnOpt:   capi.OptXferInfoFunction,
	dataOpt: capi.OptXferInfoData,
	synth: func(call func(ProgressEvent, any) int) capi.XferInfoCallback {
		return func(userdata any, dltotal, dlnow, ultotal, ulnow int64) int {
			return call(newProgressEvent(dltotal, dlnow, ultotal, ulnow), userdata)
		}
	},
	invoke: OnProgress.OnProgress,
}

// Lock is the share lock kind. It shares its data slot with [Unlock].
//
// Installing or resetting Lock alone also clears the unlock function
// slot. Use [SetLockHandlers] or [AttachShare] to install both.
var Lock = Kind[capi.ShareOption, LockEvent, Unit, capi.LockCallback, OnLock]{
	name:         "lock",
	fnOpt:        capi.ShOptLockFunc,
	dataOpt:      capi.ShOptUserData,
	paired:       true,
	pairOpt:      capi.ShOptUnlockFunc,
	pairFallback: capi.UnlockCallback(nil),
	synth: func(call func(LockEvent, any) Unit) capi.LockCallback {
		return func(h capi.EasyHandle, data capi.LockData, access capi.LockAccess, userptr any) {
			call(newLockEvent(h, data, access), userptr)
		}
	},
	invoke: func(h OnLock, ev LockEvent) Unit {
		h.OnLock(ev)
		return Unit{}
	},
}

// Unlock is the share unlock kind. It shares its data slot with [Lock].
//
// Installing or resetting Unlock alone also clears the lock function
// slot. Use [SetLockHandlers] or [AttachShare] to install both.
var Unlock = Kind[capi.ShareOption, UnlockEvent, Unit, capi.UnlockCallback, OnUnlock]{
	name:         "unlock",
	fnOpt:        capi.ShOptUnlockFunc,
	dataOpt:      capi.ShOptUserData,
	paired:       true,
	pairOpt:      capi.ShOptLockFunc,
	pairFallback: capi.LockCallback(nil),
	synth: func(call func(UnlockEvent, any) Unit) capi.UnlockCallback {
		return func(h capi.EasyHandle, data capi.LockData, userptr any) {
			call(newUnlockEvent(h, data), userptr)
		}
	},
	invoke: func(h OnUnlock, ev UnlockEvent) Unit {
		h.OnUnlock(ev)
		return Unit{}
	},
}
