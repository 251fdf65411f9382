// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"log/slog"
	"sync"
	"time"

	"github.com/bassosimone/xfer/capi"
	"github.com/bassosimone/xfer/internal/netx"
)

// Engine is the pure Go [capi.Engine].
//
// Construct using [NewEngine].
type Engine struct {
	// cfg configures the network primitives.
	cfg *netx.Config

	// logger is the structured logger.
	logger netx.SLogger

	// easies maps [capi.EasyHandle] to [*easy].
	easies sync.Map

	// multis maps [capi.MultiHandle] to [*multi].
	multis sync.Map

	// shares maps [capi.ShareHandle] to [*share].
	shares sync.Map
}

// NewEngine returns a new [*Engine].
//
// The cfg argument configures dialing, TLS, resolution and clock.
//
// The logger argument receives the structured events of every transfer.
func NewEngine(cfg *netx.Config, logger netx.SLogger) *Engine {
	return &Engine{cfg: cfg, logger: logger}
}

var _ capi.Engine = &Engine{}

// NewDefaultEngine creates a new [*Engine] using [netx.NewConfig].
func NewDefaultEngine(logger netx.SLogger) *Engine {
	return NewEngine(netx.NewConfig(), logger)
}

func (e *Engine) lookupEasy(h capi.EasyHandle) (*easy, bool) {
	v, found := e.easies.Load(h)
	if !found {
		return nil, false
	}
	return v.(*easy), true
}

func (e *Engine) lookupMulti(m capi.MultiHandle) (*multi, bool) {
	v, found := e.multis.Load(m)
	if !found {
		return nil, false
	}
	return v.(*multi), true
}

func (e *Engine) lookupShare(s capi.ShareHandle) (*share, bool) {
	v, found := e.shares.Load(s)
	if !found {
		return nil, false
	}
	return v.(*share), true
}

// EasyInit implements [capi.Engine].
func (e *Engine) EasyInit() capi.EasyHandle {
	ez := newEasy(e, capi.EasyHandle(capi.NextHandle()))
	e.easies.Store(ez.handle, ez)
	e.logger.Debug("nativeEasyInit", slog.Uint64("easyHandle", uint64(ez.handle)))
	return ez.handle
}

// EasyCleanup implements [capi.Engine].
func (e *Engine) EasyCleanup(h capi.EasyHandle) {
	ez, found := e.lookupEasy(h)
	if !found {
		return
	}
	if m := ez.currentMulti(); m != nil {
		m.remove(ez)
	}
	e.easies.Delete(h)
	ez.close()
	e.logger.Debug("nativeEasyCleanup", slog.Uint64("easyHandle", uint64(h)))
}

// EasyReset implements [capi.Engine].
func (e *Engine) EasyReset(h capi.EasyHandle) {
	if ez, found := e.lookupEasy(h); found {
		ez.reset()
	}
}

// EasyDuphandle implements [capi.Engine].
func (e *Engine) EasyDuphandle(h capi.EasyHandle) capi.EasyHandle {
	ez, found := e.lookupEasy(h)
	if !found {
		return 0
	}
	dup := newEasy(e, capi.EasyHandle(capi.NextHandle()))
	dup.opts = ez.snapshot()
	if dup.opts.share != nil {
		dup.opts.share.attach()
	}
	e.easies.Store(dup.handle, dup)
	return dup.handle
}

// EasySetopt implements [capi.Engine].
func (e *Engine) EasySetopt(h capi.EasyHandle, opt capi.Option, value any) capi.Code {
	ez, found := e.lookupEasy(h)
	if !found {
		return capi.CodeBadFunctionArgument
	}
	return ez.setopt(opt, value)
}

// EasyGetinfo implements [capi.Engine].
func (e *Engine) EasyGetinfo(h capi.EasyHandle, info capi.Info, out any) capi.Code {
	ez, found := e.lookupEasy(h)
	if !found {
		return capi.CodeBadFunctionArgument
	}
	return ez.getinfo(info, out)
}

// EasyPause implements [capi.Engine].
func (e *Engine) EasyPause(h capi.EasyHandle, flags capi.PauseFlags) capi.Code {
	ez, found := e.lookupEasy(h)
	if !found {
		return capi.CodeBadFunctionArgument
	}
	ez.pause.set(flags)
	return capi.CodeOK
}

// MultiInit implements [capi.Engine].
func (e *Engine) MultiInit() capi.MultiHandle {
	m := newMulti(e, capi.MultiHandle(capi.NextHandle()))
	e.multis.Store(m.handle, m)
	return m.handle
}

// MultiCleanup implements [capi.Engine].
func (e *Engine) MultiCleanup(mh capi.MultiHandle) capi.MCode {
	m, found := e.lookupMulti(mh)
	if !found {
		return capi.MCodeBadHandle
	}
	if code := m.cleanup(); code.Failed() {
		return code
	}
	e.multis.Delete(mh)
	return capi.MCodeOK
}

// MultiSetopt implements [capi.Engine].
func (e *Engine) MultiSetopt(mh capi.MultiHandle, opt capi.MultiOption, value any) capi.MCode {
	m, found := e.lookupMulti(mh)
	if !found {
		return capi.MCodeBadHandle
	}
	return m.setopt(opt, value)
}

// MultiAddHandle implements [capi.Engine].
func (e *Engine) MultiAddHandle(mh capi.MultiHandle, h capi.EasyHandle) capi.MCode {
	m, found := e.lookupMulti(mh)
	if !found {
		return capi.MCodeBadHandle
	}
	ez, found := e.lookupEasy(h)
	if !found {
		return capi.MCodeBadEasyHandle
	}
	return m.add(ez)
}

// MultiRemoveHandle implements [capi.Engine].
func (e *Engine) MultiRemoveHandle(mh capi.MultiHandle, h capi.EasyHandle) capi.MCode {
	m, found := e.lookupMulti(mh)
	if !found {
		return capi.MCodeBadHandle
	}
	ez, found := e.lookupEasy(h)
	if !found {
		return capi.MCodeBadEasyHandle
	}
	return m.remove(ez)
}

// MultiPerform implements [capi.Engine].
func (e *Engine) MultiPerform(mh capi.MultiHandle, running *int) capi.MCode {
	m, found := e.lookupMulti(mh)
	if !found {
		return capi.MCodeBadHandle
	}
	return m.perform(running)
}

// MultiWait implements [capi.Engine].
func (e *Engine) MultiWait(mh capi.MultiHandle, timeout time.Duration, numfds *int) capi.MCode {
	m, found := e.lookupMulti(mh)
	if !found {
		return capi.MCodeBadHandle
	}
	return m.wait(timeout, numfds)
}

// MultiInfoRead implements [capi.Engine].
func (e *Engine) MultiInfoRead(mh capi.MultiHandle, remaining *int) *capi.Msg {
	m, found := e.lookupMulti(mh)
	if !found {
		*remaining = 0
		return nil
	}
	return m.infoRead(remaining)
}

// ShareInit implements [capi.Engine].
func (e *Engine) ShareInit() capi.ShareHandle {
	s := newShare(e, capi.ShareHandle(capi.NextHandle()))
	e.shares.Store(s.handle, s)
	return s.handle
}

// ShareCleanup implements [capi.Engine].
func (e *Engine) ShareCleanup(sh capi.ShareHandle) capi.SHCode {
	s, found := e.lookupShare(sh)
	if !found {
		return capi.SHCodeInvalid
	}
	if code := s.cleanup(); code.Failed() {
		return code
	}
	e.shares.Delete(sh)
	return capi.SHCodeOK
}

// ShareSetopt implements [capi.Engine].
func (e *Engine) ShareSetopt(sh capi.ShareHandle, opt capi.ShareOption, value any) capi.SHCode {
	s, found := e.lookupShare(sh)
	if !found {
		return capi.SHCodeInvalid
	}
	return s.setopt(opt, value)
}
