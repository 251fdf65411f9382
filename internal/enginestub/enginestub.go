// SPDX-License-Identifier: GPL-3.0-or-later

// Package enginestub provides a [capi.Engine] built from function fields.
//
// Each method calls the field of the same name with the Func suffix,
// which must be set when the method is called.
package enginestub

import (
	"context"
	"time"

	"github.com/bassosimone/xfer/capi"
)

// FuncEngine implements [capi.Engine] using function fields.
type FuncEngine struct {
	EasyInitFunc       func() capi.EasyHandle
	EasyCleanupFunc    func(h capi.EasyHandle)
	EasyResetFunc      func(h capi.EasyHandle)
	EasyDuphandleFunc  func(h capi.EasyHandle) capi.EasyHandle
	EasySetoptFunc     func(h capi.EasyHandle, opt capi.Option, value any) capi.Code
	EasyGetinfoFunc    func(h capi.EasyHandle, info capi.Info, out any) capi.Code
	EasyPerformFunc    func(ctx context.Context, h capi.EasyHandle) capi.Code
	EasyPauseFunc      func(h capi.EasyHandle, flags capi.PauseFlags) capi.Code
	MultiInitFunc      func() capi.MultiHandle
	MultiCleanupFunc   func(m capi.MultiHandle) capi.MCode
	MultiSetoptFunc    func(m capi.MultiHandle, opt capi.MultiOption, value any) capi.MCode
	MultiAddHandleFunc func(m capi.MultiHandle, h capi.EasyHandle) capi.MCode
	MultiRemoveFunc    func(m capi.MultiHandle, h capi.EasyHandle) capi.MCode
	MultiPerformFunc   func(m capi.MultiHandle, running *int) capi.MCode
	MultiWaitFunc      func(m capi.MultiHandle, timeout time.Duration, numfds *int) capi.MCode
	MultiInfoReadFunc  func(m capi.MultiHandle, remaining *int) *capi.Msg
	ShareInitFunc      func() capi.ShareHandle
	ShareCleanupFunc   func(s capi.ShareHandle) capi.SHCode
	ShareSetoptFunc    func(s capi.ShareHandle, opt capi.ShareOption, value any) capi.SHCode
}

var _ capi.Engine = &FuncEngine{}

// EasyInit calls EasyInitFunc.
func (e *FuncEngine) EasyInit() capi.EasyHandle {
	return e.EasyInitFunc()
}

// EasyCleanup calls EasyCleanupFunc.
func (e *FuncEngine) EasyCleanup(h capi.EasyHandle) {
	e.EasyCleanupFunc(h)
}

// EasyReset calls EasyResetFunc.
func (e *FuncEngine) EasyReset(h capi.EasyHandle) {
	e.EasyResetFunc(h)
}

// EasyDuphandle calls EasyDuphandleFunc.
func (e *FuncEngine) EasyDuphandle(h capi.EasyHandle) capi.EasyHandle {
	return e.EasyDuphandleFunc(h)
}

// EasySetopt calls EasySetoptFunc.
func (e *FuncEngine) EasySetopt(h capi.EasyHandle, opt capi.Option, value any) capi.Code {
	return e.EasySetoptFunc(h, opt, value)
}

// EasyGetinfo calls EasyGetinfoFunc.
func (e *FuncEngine) EasyGetinfo(h capi.EasyHandle, info capi.Info, out any) capi.Code {
	return e.EasyGetinfoFunc(h, info, out)
}

// EasyPerform calls EasyPerformFunc.
func (e *FuncEngine) EasyPerform(ctx context.Context, h capi.EasyHandle) capi.Code {
	return e.EasyPerformFunc(ctx, h)
}

// EasyPause calls EasyPauseFunc.
func (e *FuncEngine) EasyPause(h capi.EasyHandle, flags capi.PauseFlags) capi.Code {
	return e.EasyPauseFunc(h, flags)
}

// MultiInit calls MultiInitFunc.
func (e *FuncEngine) MultiInit() capi.MultiHandle {
	return e.MultiInitFunc()
}

// MultiCleanup calls MultiCleanupFunc.
func (e *FuncEngine) MultiCleanup(m capi.MultiHandle) capi.MCode {
	return e.MultiCleanupFunc(m)
}

// MultiSetopt calls MultiSetoptFunc.
func (e *FuncEngine) MultiSetopt(m capi.MultiHandle, opt capi.MultiOption, value any) capi.MCode {
	return e.MultiSetoptFunc(m, opt, value)
}

// MultiAddHandle calls MultiAddHandleFunc.
func (e *FuncEngine) MultiAddHandle(m capi.MultiHandle, h capi.EasyHandle) capi.MCode {
	return e.MultiAddHandleFunc(m, h)
}

// MultiRemoveHandle calls MultiRemoveFunc.
func (e *FuncEngine) MultiRemoveHandle(m capi.MultiHandle, h capi.EasyHandle) capi.MCode {
	return e.MultiRemoveFunc(m, h)
}

// MultiPerform calls MultiPerformFunc.
func (e *FuncEngine) MultiPerform(m capi.MultiHandle, running *int) capi.MCode {
	return e.MultiPerformFunc(m, running)
}

// MultiWait calls MultiWaitFunc.
func (e *FuncEngine) MultiWait(m capi.MultiHandle, timeout time.Duration, numfds *int) capi.MCode {
	return e.MultiWaitFunc(m, timeout, numfds)
}

// MultiInfoRead calls MultiInfoReadFunc.
func (e *FuncEngine) MultiInfoRead(m capi.MultiHandle, remaining *int) *capi.Msg {
	return e.MultiInfoReadFunc(m, remaining)
}

// ShareInit calls ShareInitFunc.
func (e *FuncEngine) ShareInit() capi.ShareHandle {
	return e.ShareInitFunc()
}

// ShareCleanup calls ShareCleanupFunc.
func (e *FuncEngine) ShareCleanup(s capi.ShareHandle) capi.SHCode {
	return e.ShareCleanupFunc(s)
}

// ShareSetopt calls ShareSetoptFunc.
func (e *FuncEngine) ShareSetopt(s capi.ShareHandle, opt capi.ShareOption, value any) capi.SHCode {
	return e.ShareSetoptFunc(s, opt, value)
}
