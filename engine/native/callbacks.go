// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"fmt"
	"log/slog"
	"time"
	"unsafe"

	"github.com/bassosimone/xfer/capi"
)

// callbackLock serializes the callbacks of the transfers sharing it.
//
// Unlike a mutex, waiting for it stops when the transfer is canceled,
// so a callback may remove another transfer of the same multi handle
// and wait for it to finish.
type callbackLock chan struct{}

func newCallbackLock() callbackLock {
	return make(callbackLock, 1)
}

// enter acquires the callback lock. It returns false, without the lock,
// when the transfer context is done first.
func (t *transfer) enter() bool {
	select {
	case t.cblock <- struct{}{}:
	case <-t.ctx.Done():
		return false
	}
	t.ez.inCallback.Store(true)
	return true
}

// leave releases the callback lock.
func (t *transfer) leave() {
	t.ez.inCallback.Store(false)
	<-t.cblock
}

// interrupted fails a transfer canceled while waiting for a callback.
func (t *transfer) interrupted() capi.Code {
	return t.fail(ctxCode(t.ctx), "Operation interrupted waiting for a callback")
}

// dataPtr returns the pointer passed to raw callbacks for data.
func dataPtr(data []byte) *byte {
	return unsafe.SliceData(data)
}

// debug passes verbose information to the debug callback, or to the
// logger when there is no callback.
func (t *transfer) debug(typ capi.InfoType, data []byte) {
	if !t.opts.verbose || t.done.Load() {
		return
	}
	fn := t.opts.debugFn
	if fn == nil {
		t.logger.Debug("nativeDebug",
			slog.String("debugType", typ.String()),
			slog.Int("debugSize", len(data)),
			slog.String("debugText", debugText(typ, data)),
		)
		return
	}
	if !t.enter() {
		return
	}
	defer t.leave()
	fn(t.ez.handle, typ, dataPtr(data), uintptr(len(data)), t.opts.debugData)
}

// debugText returns data for text and headers and nothing for payloads.
func debugText(typ capi.InfoType, data []byte) string {
	switch typ {
	case capi.InfoText, capi.InfoHeaderIn, capi.InfoHeaderOut:
		return string(data)
	default:
		return ""
	}
}

// debugf emits an [capi.InfoText] line.
func (t *transfer) debugf(format string, args ...any) {
	if t.opts.verbose {
		t.debug(capi.InfoText, []byte(fmt.Sprintf(format, args...)+"\n"))
	}
}

// progress calls the progress callback, if enabled.
func (t *transfer) progress() capi.Code {
	fn := t.opts.xferFn
	if t.opts.noProgress || fn == nil {
		return capi.CodeOK
	}
	if !t.enter() {
		return t.interrupted()
	}
	rv := fn(t.opts.xferData, t.dlTotal.Load(), t.dlNow.Load(), t.ulTotal.Load(), t.ulNow.Load())
	t.leave()
	if rv != 0 && rv != capi.XferInfoFuncContinue {
		return t.fail(capi.CodeAbortedByCallback, "Callback aborted")
	}
	return capi.CodeOK
}

// waitUnpaused blocks while any of bits is paused, calling the progress
// callback periodically.
func (t *transfer) waitUnpaused(bits capi.PauseFlags) capi.Code {
	pause := t.ez.pause
	if !pause.paused(bits) {
		return capi.CodeOK
	}
	ticker := time.NewTicker(pausePollInterval)
	defer ticker.Stop()
	for pause.paused(bits) {
		select {
		case <-t.ctx.Done():
			return t.fail(ctxCode(t.ctx), "Operation interrupted while paused")
		case <-pause.wake:
		case <-ticker.C:
			if code := t.progress(); code.Failed() {
				return code
			}
		}
	}
	return capi.CodeOK
}
