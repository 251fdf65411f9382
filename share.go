// SPDX-License-Identifier: GPL-3.0-or-later

package xfer

import (
	"log/slog"

	"github.com/bassosimone/xfer/capi"
)

// ShareRef is a non-owning reference to a share handle.
//
// Attach easy handles to it using [ShareWith].
type ShareRef struct {
	handle capi.ShareHandle
	env    *env
}

var _ Target[capi.ShareOption] = ShareRef{}

// Handle returns the raw handle.
func (s ShareRef) Handle() capi.ShareHandle {
	return s.handle
}

// Valid returns whether s refers to a handle.
func (s ShareRef) Valid() bool {
	return s.handle != 0 && s.env != nil
}

func (s ShareRef) setopt(opt capi.ShareOption, value any) error {
	if !s.Valid() {
		return ErrInvalidHandle
	}
	return s.env.engine.ShareSetopt(s.handle, opt, value).Err()
}

// Share starts sharing data between the attached easy handles.
//
// The engine refuses changes while easy handles are attached.
func (s ShareRef) Share(data LockData) error {
	return s.setopt(capi.ShOptShare, data)
}

// Unshare stops sharing data.
func (s ShareRef) Unshare(data LockData) error {
	return s.setopt(capi.ShOptUnshare, data)
}

// Share owns a share handle.
type Share struct {
	ShareRef
}

// NewShare creates a new share handle.
func NewShare(cfg *Config, logger SLogger) (*Share, error) {
	e := newEnv(cfg, logger)
	h := e.engine.ShareInit()
	if h == 0 {
		return nil, ErrShareInit
	}
	e.logger.Info(
		"shareInit",
		slog.Uint64("shareHandle", uint64(h)),
		slog.Time("t", e.timeNow()),
	)
	return &Share{ShareRef{handle: h, env: e}}, nil
}

// Ref returns a non-owning reference.
func (s *Share) Ref() ShareRef {
	return s.ShareRef
}

// Move transfers ownership to the returned [*Share], leaving s empty.
func (s *Share) Move() *Share {
	out := &Share{s.ShareRef}
	s.ShareRef = ShareRef{}
	return out
}

// Close destroys the handle. It fails while easy handles are attached,
// in which case s still owns the handle. Closing an empty [*Share] is
// a no-op.
func (s *Share) Close() error {
	if !s.Valid() {
		return nil
	}
	if err := s.env.engine.ShareCleanup(s.handle).Err(); err != nil {
		return err
	}
	s.env.logger.Info(
		"shareCleanup",
		slog.Uint64("shareHandle", uint64(s.handle)),
		slog.Time("t", s.env.timeNow()),
	)
	s.ShareRef = ShareRef{}
	return nil
}
