// SPDX-License-Identifier: GPL-3.0-or-later

package xfer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bassosimone/slogstub"
	"github.com/bassosimone/xfer/capi"
	"github.com/bassosimone/xfer/internal/enginestub"
)

// newCapturingLogger returns a logger that captures all log records into the
// returned slice.
func newCapturingLogger() (*slog.Logger, *[]slog.Record) {
	var records []slog.Record
	handler := &slogstub.FuncHandler{
		EnabledFunc: func(ctx context.Context, level slog.Level) bool {
			return true
		},
		HandleFunc: func(ctx context.Context, record slog.Record) error {
			records = append(records, record)
			return nil
		},
	}
	return slog.New(handler), &records
}

// recordingEngine is a [capi.Engine] storing the options it receives.
//
// Setting failOpt or failShareOpt makes the corresponding setopt fail.
type recordingEngine struct {
	*enginestub.FuncEngine

	mu            sync.Mutex
	options       map[capi.Option]any
	shareOptions  map[capi.ShareOption]any
	multiOptions  map[capi.MultiOption]any
	failOpt       capi.Option
	failShareOpt  capi.ShareOption
	easyCleanups  int
	shareCleanups int
	multiCleanups int
	performCode   capi.Code
	msgs          []*capi.Msg
}

func newRecordingEngine() *recordingEngine {
	re := &recordingEngine{
		options:      map[capi.Option]any{},
		shareOptions: map[capi.ShareOption]any{},
		multiOptions: map[capi.MultiOption]any{},
	}
	re.FuncEngine = &enginestub.FuncEngine{
		EasyInitFunc: func() capi.EasyHandle {
			return capi.EasyHandle(capi.NextHandle())
		},
		EasyCleanupFunc: func(h capi.EasyHandle) {
			re.mu.Lock()
			re.easyCleanups++
			re.mu.Unlock()
		},
		EasyResetFunc: func(h capi.EasyHandle) {
			re.mu.Lock()
			clear(re.options)
			re.mu.Unlock()
		},
		EasyDuphandleFunc: func(h capi.EasyHandle) capi.EasyHandle {
			return capi.EasyHandle(capi.NextHandle())
		},
		EasySetoptFunc: func(h capi.EasyHandle, opt capi.Option, value any) capi.Code {
			re.mu.Lock()
			defer re.mu.Unlock()
			if opt == re.failOpt {
				return capi.CodeUnknownOption
			}
			re.options[opt] = value
			return capi.CodeOK
		},
		EasyGetinfoFunc: func(h capi.EasyHandle, info capi.Info, out any) capi.Code {
			re.mu.Lock()
			defer re.mu.Unlock()
			switch info {
			case capi.InfoPrivate:
				value, _ := re.options[capi.OptPrivate].(string)
				*out.(*string) = value
			case capi.InfoResponseCode:
				*out.(*int64) = 200
			case capi.InfoFiletimeT:
				*out.(*int64) = -1
			case capi.InfoTotalTimeT:
				*out.(*int64) = 1500
			default:
				return capi.CodeUnknownOption
			}
			return capi.CodeOK
		},
		EasyPerformFunc: func(ctx context.Context, h capi.EasyHandle) capi.Code {
			return re.performCode
		},
		EasyPauseFunc: func(h capi.EasyHandle, flags capi.PauseFlags) capi.Code {
			return capi.CodeOK
		},
		MultiInitFunc: func() capi.MultiHandle {
			return capi.MultiHandle(capi.NextHandle())
		},
		MultiCleanupFunc: func(m capi.MultiHandle) capi.MCode {
			re.mu.Lock()
			re.multiCleanups++
			re.mu.Unlock()
			return capi.MCodeOK
		},
		MultiSetoptFunc: func(m capi.MultiHandle, opt capi.MultiOption, value any) capi.MCode {
			re.mu.Lock()
			re.multiOptions[opt] = value
			re.mu.Unlock()
			return capi.MCodeOK
		},
		MultiAddHandleFunc: func(m capi.MultiHandle, h capi.EasyHandle) capi.MCode {
			return capi.MCodeOK
		},
		MultiRemoveFunc: func(m capi.MultiHandle, h capi.EasyHandle) capi.MCode {
			return capi.MCodeOK
		},
		MultiPerformFunc: func(m capi.MultiHandle, running *int) capi.MCode {
			*running = 0
			return capi.MCodeOK
		},
		MultiWaitFunc: func(m capi.MultiHandle, timeout time.Duration, numfds *int) capi.MCode {
			*numfds = len(re.msgs)
			return capi.MCodeOK
		},
		MultiInfoReadFunc: func(m capi.MultiHandle, remaining *int) *capi.Msg {
			re.mu.Lock()
			defer re.mu.Unlock()
			if len(re.msgs) <= 0 {
				*remaining = 0
				return nil
			}
			msg := re.msgs[0]
			re.msgs = re.msgs[1:]
			*remaining = len(re.msgs)
			return msg
		},
		ShareInitFunc: func() capi.ShareHandle {
			return capi.ShareHandle(capi.NextHandle())
		},
		ShareCleanupFunc: func(s capi.ShareHandle) capi.SHCode {
			re.mu.Lock()
			re.shareCleanups++
			re.mu.Unlock()
			return capi.SHCodeOK
		},
		ShareSetoptFunc: func(s capi.ShareHandle, opt capi.ShareOption, value any) capi.SHCode {
			re.mu.Lock()
			defer re.mu.Unlock()
			if opt == re.failShareOpt {
				return capi.SHCodeBadOption
			}
			re.shareOptions[opt] = value
			return capi.SHCodeOK
		},
	}
	return re
}

// option returns the stored value of opt and whether it was set.
func (re *recordingEngine) option(opt capi.Option) (any, bool) {
	re.mu.Lock()
	defer re.mu.Unlock()
	value, found := re.options[opt]
	return value, found
}

// shareOption returns the stored value of opt and whether it was set.
func (re *recordingEngine) shareOption(opt capi.ShareOption) (any, bool) {
	re.mu.Lock()
	defer re.mu.Unlock()
	value, found := re.shareOptions[opt]
	return value, found
}

// newTestConfig returns a [*Config] using the given engine.
func newTestConfig(engine capi.Engine) *Config {
	cfg := NewConfig()
	cfg.Engine = engine
	return cfg
}

// newTestEasy returns an easy handle backed by a new recording engine.
func newTestEasy() (*Easy, *recordingEngine) {
	re := newRecordingEngine()
	e, err := NewEasy(newTestConfig(re), DefaultSLogger())
	if err != nil {
		panic(err)
	}
	return e, re
}

// counter is a handler implementing every easy callback kind.
type counter struct {
	writes, reads, headers, debugs, seeks, progresses int
}

func (c *counter) OnWrite(ev WriteEvent) uintptr {
	c.writes++
	return uintptr(ev.Data.Len())
}

func (c *counter) OnRead(ev ReadEvent) uintptr {
	c.reads++
	return 0
}

func (c *counter) OnHeader(ev HeaderEvent) uintptr {
	c.headers++
	return uintptr(ev.Data.Len())
}

func (c *counter) OnDebug(ev DebugEvent) int {
	c.debugs++
	return 0
}

func (c *counter) OnSeek(ev SeekEvent) SeekResult {
	c.seeks++
	return SeekFuncOK
}

func (c *counter) OnProgress(ev ProgressEvent) int {
	c.progresses++
	return 0
}

// writeOnly implements only [OnWrite] and [OnHeader].
type writeOnly struct {
	got []byte
}

func (w *writeOnly) OnWrite(ev WriteEvent) uintptr {
	w.got = append(w.got, ev.Data.Bytes()...)
	return uintptr(ev.Data.Len())
}

func (w *writeOnly) OnHeader(ev HeaderEvent) uintptr {
	return uintptr(ev.Data.Len())
}

// locker counts lock and unlock events.
type locker struct {
	mu             sync.Mutex
	locks, unlocks int
	lockedData     []LockData
	unlockedData   []LockData
}

func (l *locker) OnLock(ev LockEvent) {
	l.mu.Lock()
	l.locks++
	l.lockedData = append(l.lockedData, ev.Data)
	l.mu.Unlock()
}

func (l *locker) OnUnlock(ev UnlockEvent) {
	l.mu.Lock()
	l.unlocks++
	l.unlockedData = append(l.unlockedData, ev.Data)
	l.mu.Unlock()
}

// lockOnly implements [OnLock] but not [OnUnlock].
type lockOnly struct{}

func (lockOnly) OnLock(ev LockEvent) {}

// unlockOnly implements [OnUnlock] but not [OnLock].
type unlockOnly struct {
	unlocks *int
}

func (u unlockOnly) OnUnlock(ev UnlockEvent) {
	*u.unlocks++
}

// onlyWrite implements [OnWrite] and nothing else.
type onlyWrite struct {
	chunks int
}

func (w *onlyWrite) OnWrite(ev WriteEvent) uintptr {
	w.chunks++
	return uintptr(ev.Data.Len())
}
