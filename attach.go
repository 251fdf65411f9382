// SPDX-License-Identifier: GPL-3.0-or-later

package xfer

import (
	"errors"

	"github.com/bassosimone/xfer/capi"
)

// Attach installs, as method handlers, every easy callback kind that x
// implements: [OnWrite], [OnRead], [OnHeader], [OnDebug], [OnSeek] and
// [OnProgress]. Kinds x does not implement are left untouched.
//
// Attach tries every kind and returns the joined errors.
func Attach(t Target[capi.Option], x any) error {
	return errors.Join(
		attachKind(t, Write, x),
		attachKind(t, Read, x),
		attachKind(t, Header, x),
		attachKind(t, Debug, x),
		attachKind(t, Seek, x),
		attachKind(t, Progress, x),
	)
}

func attachKind[O, E, R, F, H any](t Target[O], k Kind[O, E, R, F, H], x any) error {
	b := DetectMethod(k, x)
	if !b.Found() {
		return nil
	}
	return k.Install(t, b)
}

// NewEasyFor creates an easy handle with every handler x implements
// attached. See [Attach].
func NewEasyFor(cfg *Config, logger SLogger, x any) (*Easy, error) {
	e, err := NewEasy(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := Attach(e, x); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// LockHandler handles both share lock events.
type LockHandler interface {
	OnLock
	OnUnlock
}

// SetLockHandlers installs h as the lock and unlock handler of t: the
// lock function, then the unlock function, then the shared data slot.
// A nil h resets both kinds.
//
// On failure both kinds are reset so a lock handler never runs without
// its unlock counterpart.
func SetLockHandlers(t Target[capi.ShareOption], h LockHandler) error {
	lock, unlock := Lock.Method(h), Unlock.Method(h)
	if !lock.Found() || !unlock.Found() {
		return Lock.Reset(t)
	}
	err := t.setopt(Lock.fnOpt, lock.fn)
	if err == nil {
		err = t.setopt(Unlock.fnOpt, unlock.fn)
	}
	if err == nil {
		err = t.setopt(Lock.dataOpt, lock.data)
	}
	if err != nil {
		_ = Lock.Reset(t)
		_ = Unlock.Reset(t)
	}
	return err
}

// AttachShare installs x as lock handler when it implements
// [LockHandler]. When x implements only one of [OnLock] and [OnUnlock],
// AttachShare resets both kinds and returns [ErrUnpairedLock].
func AttachShare(t Target[capi.ShareOption], x any) error {
	lock := DetectMethod(Lock, x)
	unlock := DetectMethod(Unlock, x)
	switch {
	case lock.Found() && unlock.Found():
		return SetLockHandlers(t, x.(LockHandler))
	case lock.Found() || unlock.Found():
		return errors.Join(ErrUnpairedLock, Lock.Reset(t))
	default:
		return nil
	}
}
