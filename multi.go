// SPDX-License-Identifier: GPL-3.0-or-later

package xfer

import (
	"iter"
	"log/slog"
	"time"

	"github.com/bassosimone/xfer/capi"
)

// MultiSetting is a multi option code paired with its value.
type MultiSetting struct {
	option capi.MultiOption
	value  any
}

// MaxConnects bounds the idle connections cached by the multi handle.
func MaxConnects(n int) MultiSetting {
	return MultiSetting{capi.MOptMaxConnects, int64(n)}
}

// MaxTotalConnections bounds the transfers running at once. Zero means
// no limit.
func MaxTotalConnections(n int) MultiSetting {
	return MultiSetting{capi.MOptMaxTotalConnections, int64(n)}
}

// Message reports a completed transfer.
type Message struct {
	Easy EasyRef
	Code capi.Code
}

// Err returns the transfer result as an error.
func (m Message) Err() error {
	return m.Code.Err()
}

// MultiRef is a non-owning reference to a multi handle.
type MultiRef struct {
	handle capi.MultiHandle
	env    *env
}

// Handle returns the raw handle.
func (m MultiRef) Handle() capi.MultiHandle {
	return m.handle
}

// Valid returns whether m refers to a handle.
func (m MultiRef) Valid() bool {
	return m.handle != 0 && m.env != nil
}

// Set applies the settings in order and stops at the first failure.
func (m MultiRef) Set(settings ...MultiSetting) error {
	if !m.Valid() {
		return ErrInvalidHandle
	}
	for _, s := range settings {
		if err := m.env.engine.MultiSetopt(m.handle, s.option, s.value).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Add adds an easy handle. Its transfer starts at the next [MultiRef.Perform].
func (m MultiRef) Add(e EasyRef) error {
	if !m.Valid() || !e.Valid() {
		return ErrInvalidHandle
	}
	return m.env.engine.MultiAddHandle(m.handle, e.handle).Err()
}

// Remove removes an easy handle, stopping its transfer.
func (m MultiRef) Remove(e EasyRef) error {
	if !m.Valid() || !e.Valid() {
		return ErrInvalidHandle
	}
	return m.env.engine.MultiRemoveHandle(m.handle, e.handle).Err()
}

// Perform starts pending transfers and returns how many have not
// completed yet.
func (m MultiRef) Perform() (int, error) {
	if !m.Valid() {
		return 0, ErrInvalidHandle
	}
	var running int
	err := m.env.engine.MultiPerform(m.handle, &running).Err()
	return running, err
}

// Wait blocks up to timeout until a transfer completes and returns the
// number of completions observed.
func (m MultiRef) Wait(timeout time.Duration) (int, error) {
	if !m.Valid() {
		return 0, ErrInvalidHandle
	}
	var numfds int
	err := m.env.engine.MultiWait(m.handle, timeout, &numfds).Err()
	return numfds, err
}

// Messages drains the completion messages queued so far.
func (m MultiRef) Messages() iter.Seq[Message] {
	return func(yield func(Message) bool) {
		if !m.Valid() {
			return
		}
		for {
			var remaining int
			msg := m.env.engine.MultiInfoRead(m.handle, &remaining)
			if msg == nil {
				return
			}
			if msg.Msg != capi.MsgDone {
				continue
			}
			if !yield(Message{Easy: lookupEasyRef(msg.Easy), Code: msg.Result}) {
				return
			}
		}
	}
}

// Multi owns a multi handle.
type Multi struct {
	MultiRef
}

// NewMulti creates a new multi handle.
func NewMulti(cfg *Config, logger SLogger) (*Multi, error) {
	e := newEnv(cfg, logger)
	h := e.engine.MultiInit()
	if h == 0 {
		return nil, ErrMultiInit
	}
	e.logger.Info(
		"multiInit",
		slog.Uint64("multiHandle", uint64(h)),
		slog.Time("t", e.timeNow()),
	)
	return &Multi{MultiRef{handle: h, env: e}}, nil
}

// Ref returns a non-owning reference.
func (m *Multi) Ref() MultiRef {
	return m.MultiRef
}

// Move transfers ownership to the returned [*Multi], leaving m empty.
func (m *Multi) Move() *Multi {
	out := &Multi{m.MultiRef}
	m.MultiRef = MultiRef{}
	return out
}

// Close destroys the handle after removing every easy handle, which
// stops their transfers. Closing an empty [*Multi] is a no-op.
func (m *Multi) Close() error {
	if !m.Valid() {
		return nil
	}
	r := m.MultiRef
	m.MultiRef = MultiRef{}
	err := r.env.engine.MultiCleanup(r.handle).Err()
	r.env.logger.Info(
		"multiCleanup",
		slog.Any("err", err),
		slog.String("errClass", r.env.errClassifier.Classify(err)),
		slog.Uint64("multiHandle", uint64(r.handle)),
		slog.Time("t", r.env.timeNow()),
	)
	return err
}
