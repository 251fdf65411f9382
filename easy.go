// SPDX-License-Identifier: GPL-3.0-or-later

package xfer

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bassosimone/xfer/capi"
)

// easyRegistry maps live easy handles to their env so that events
// carrying a raw handle can hand out a working [EasyRef].
var easyRegistry sync.Map

func registerEasy(h capi.EasyHandle, e *env) EasyRef {
	easyRegistry.Store(h, e)
	return EasyRef{handle: h, env: e}
}

func unregisterEasy(h capi.EasyHandle) {
	easyRegistry.Delete(h)
}

// lookupEasyRef returns the reference for h, which is invalid when h
// is not a live handle created by this package.
func lookupEasyRef(h capi.EasyHandle) EasyRef {
	v, found := easyRegistry.Load(h)
	if !found {
		return EasyRef{}
	}
	return EasyRef{handle: h, env: v.(*env)}
}

// EasyRef is a non-owning reference to an easy handle.
//
// The zero EasyRef is invalid. Copies refer to the same handle and stop
// working once the owning [*Easy] is closed.
type EasyRef struct {
	handle capi.EasyHandle
	env    *env
}

var _ Target[capi.Option] = EasyRef{}

// Handle returns the raw handle.
func (r EasyRef) Handle() capi.EasyHandle {
	return r.handle
}

// Valid returns whether r refers to a handle.
func (r EasyRef) Valid() bool {
	return r.handle != 0 && r.env != nil
}

func (r EasyRef) setopt(opt capi.Option, value any) error {
	if !r.Valid() {
		return ErrInvalidHandle
	}
	return r.env.engine.EasySetopt(r.handle, opt, value).Err()
}

// Set applies the settings in order and stops at the first failure.
func (r EasyRef) Set(settings ...Setting) error {
	for _, s := range settings {
		if err := r.setopt(s.option, s.value); err != nil {
			return err
		}
	}
	return nil
}

// Perform runs the transfer and blocks until it is done or ctx is done.
//
// The returned error, when not nil, is a [capi.Code].
func (r EasyRef) Perform(ctx context.Context) error {
	if !r.Valid() {
		return ErrInvalidHandle
	}
	t0 := r.env.timeNow()
	deadline, _ := ctx.Deadline()
	r.env.logger.Info(
		"easyPerformStart",
		slog.Time("deadline", deadline),
		slog.Uint64("easyHandle", uint64(r.handle)),
		slog.Time("t", t0),
	)
	err := r.env.engine.EasyPerform(ctx, r.handle).Err()
	r.env.logger.Info(
		"easyPerformDone",
		slog.Time("deadline", deadline),
		slog.Uint64("easyHandle", uint64(r.handle)),
		slog.Any("err", err),
		slog.String("errClass", r.env.errClassifier.Classify(err)),
		slog.Time("t0", t0),
		slog.Time("t", r.env.timeNow()),
	)
	return err
}

// Pause pauses or resumes the transfer. Use [PauseCont] to resume.
func (r EasyRef) Pause(flags PauseFlags) error {
	if !r.Valid() {
		return ErrInvalidHandle
	}
	return r.env.engine.EasyPause(r.handle, flags).Err()
}

// Reset restores every option to its default, including the write
// fallback.
func (r EasyRef) Reset() error {
	if !r.Valid() {
		return ErrInvalidHandle
	}
	r.env.engine.EasyReset(r.handle)
	return Write.Reset(r)
}

// Duphandle returns a new owned handle with the same options,
// including the installed handlers.
func (r EasyRef) Duphandle() (*Easy, error) {
	if !r.Valid() {
		return nil, ErrInvalidHandle
	}
	h := r.env.engine.EasyDuphandle(r.handle)
	if h == 0 {
		return nil, ErrEasyInit
	}
	e := &Easy{registerEasy(h, r.env)}
	r.env.logEasyInit(h)
	return e, nil
}

// Get reads info from r.
func Get[T any](r EasyRef, info Info[T]) (T, error) {
	if !r.Valid() {
		var zero T
		return zero, ErrInvalidHandle
	}
	return info.read(r.env.engine, r.handle)
}

// Easy owns an easy handle.
//
// Close releases the handle. Use [*Easy.Move] to transfer ownership.
type Easy struct {
	EasyRef
}

// NewEasy creates a new easy handle with the write fallback installed.
func NewEasy(cfg *Config, logger SLogger) (*Easy, error) {
	e := newEnv(cfg, logger)
	h := e.engine.EasyInit()
	if h == 0 {
		return nil, ErrEasyInit
	}
	easy := &Easy{registerEasy(h, e)}
	if err := Write.Reset(easy); err != nil {
		easy.Close()
		return nil, err
	}
	e.logEasyInit(h)
	return easy, nil
}

// Adopt takes ownership of a reference obtained with [*Easy.Release].
func Adopt(r EasyRef) *Easy {
	return &Easy{r}
}

// Ref returns a non-owning reference.
func (e *Easy) Ref() EasyRef {
	return e.EasyRef
}

// Move transfers ownership to the returned [*Easy], leaving e empty.
func (e *Easy) Move() *Easy {
	out := &Easy{e.EasyRef}
	e.EasyRef = EasyRef{}
	return out
}

// Release gives up ownership without destroying the handle.
func (e *Easy) Release() EasyRef {
	r := e.EasyRef
	e.EasyRef = EasyRef{}
	return r
}

// Close destroys the handle. Closing an empty [*Easy] is a no-op.
func (e *Easy) Close() error {
	if !e.Valid() {
		return nil
	}
	r := e.Release()
	r.env.engine.EasyCleanup(r.handle)
	unregisterEasy(r.handle)
	r.env.logger.Info(
		"easyCleanup",
		slog.Uint64("easyHandle", uint64(r.handle)),
		slog.Time("t", r.env.timeNow()),
	)
	return nil
}

func (e *env) logEasyInit(h capi.EasyHandle) {
	e.logger.Info(
		"easyInit",
		slog.Uint64("easyHandle", uint64(h)),
		slog.Time("t", e.timeNow()),
	)
}
