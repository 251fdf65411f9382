// SPDX-License-Identifier: GPL-3.0-or-later

package xfer

// OnWrite is implemented by values handling [WriteEvent].
type OnWrite interface {
	OnWrite(ev WriteEvent) uintptr
}

// OnRead is implemented by values handling [ReadEvent].
type OnRead interface {
	OnRead(ev ReadEvent) uintptr
}

// OnHeader is implemented by values handling [HeaderEvent].
type OnHeader interface {
	OnHeader(ev HeaderEvent) uintptr
}

// OnDebug is implemented by values handling [DebugEvent].
type OnDebug interface {
	OnDebug(ev DebugEvent) int
}

// OnSeek is implemented by values handling [SeekEvent].
type OnSeek interface {
	OnSeek(ev SeekEvent) SeekResult
}

// OnProgress is implemented by values handling [ProgressEvent].
type OnProgress interface {
	OnProgress(ev ProgressEvent) int
}

// OnLock is implemented by values handling [LockEvent].
type OnLock interface {
	OnLock(ev LockEvent)
}

// OnUnlock is implemented by values handling [UnlockEvent].
type OnUnlock interface {
	OnUnlock(ev UnlockEvent)
}

// StaticHandler handles events of type E using per-registration data
// stored in the data slot. The receiver carries no state: detection uses
// the zero value of the implementing type.
//
// The data pointer is nil when the registration carries no data.
type StaticHandler[E, R, D any] interface {
	Handle(ev E, data *D) R
}

// StaticValueHandler is like [StaticHandler] but receives the data by
// value, or the zero D when the registration carries no data.
type StaticValueHandler[E, R, D any] interface {
	Handle(ev E, data D) R
}

// ByValue adapts a handler taking its data by value to one taking a
// pointer, as [FuncData] expects.
func ByValue[E, R, D any](fn func(ev E, data D) R) func(ev E, data *D) R {
	return func(ev E, data *D) R {
		var value D
		if data != nil {
			value = *data
		}
		return fn(ev, value)
	}
}

// staticValueHandler adapts a [StaticValueHandler] to [StaticHandler].
type staticValueHandler[E, R, D any] struct {
	h StaticValueHandler[E, R, D]
}

func (s staticValueHandler[E, R, D]) Handle(ev E, data *D) R {
	return ByValue(s.h.Handle)(ev, data)
}
