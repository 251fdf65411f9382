// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"context"
	"crypto/tls"
	"log/slog"
	"sync"
	"time"

	"github.com/bassosimone/xfer/capi"
	"github.com/eapache/queue"
)

// multi is the state of a multi handle.
//
// Added transfers start on the next perform, each on its own goroutine,
// and their callbacks are serialized by cblock.
type multi struct {
	handle capi.MultiHandle
	engine *Engine

	// cblock serializes the callbacks of all the transfers.
	cblock callbackLock

	dns      *dnsCache
	conns    *connCache
	sessions tls.ClientSessionCache

	// notify wakes up a waiter when a transfer completes.
	notify chan struct{}

	// mu protects the fields below.
	mu       sync.Mutex
	entries  map[capi.EasyHandle]*multiEntry
	pending  []*multiEntry
	running  int
	maxTotal int
	msgs     *queue.Queue
}

// multiEntry is a transfer added to a multi handle.
type multiEntry struct {
	ez     *easy
	cancel context.CancelFunc
	done   chan struct{}
}

func newMulti(e *Engine, h capi.MultiHandle) *multi {
	return &multi{
		handle:   h,
		engine:   e,
		cblock:   newCallbackLock(),
		dns:      newDNSCache(),
		conns:    newConnCache(defaultMaxConnects),
		sessions: tls.NewLRUClientSessionCache(0),
		notify:   make(chan struct{}, 1),
		entries:  make(map[capi.EasyHandle]*multiEntry),
		msgs:     queue.New(),
	}
}

func (m *multi) setopt(opt capi.MultiOption, value any) capi.MCode {
	v, ok := asLong(value)
	if !ok || v < 0 {
		return capi.MCodeUnknownOption
	}
	switch opt {
	case capi.MOptMaxConnects:
		m.conns.setMax(int(v))
		return capi.MCodeOK
	case capi.MOptMaxTotalConnections:
		m.mu.Lock()
		m.maxTotal = int(v)
		m.mu.Unlock()
		return capi.MCodeOK
	case capi.MOptMaxHostConnections:
		// accepted for compatibility: the cache already holds at most
		// one idle connection per transfer
		return capi.MCodeOK
	default:
		return capi.MCodeUnknownOption
	}
}

func (m *multi) add(ez *easy) capi.MCode {
	if ez.running.Load() {
		return capi.MCodeRecursiveAPICall
	}
	ez.mu.Lock()
	if ez.multi != nil {
		ez.mu.Unlock()
		return capi.MCodeAddedAlready
	}
	ez.multi = m
	ez.mu.Unlock()

	entry := &multiEntry{ez: ez}
	m.mu.Lock()
	m.entries[ez.handle] = entry
	m.pending = append(m.pending, entry)
	m.mu.Unlock()
	m.engine.logger.Info("multiAddHandle",
		slog.Uint64("multiHandle", uint64(m.handle)),
		slog.Uint64("easyHandle", uint64(ez.handle)),
	)
	return capi.MCodeOK
}

func (m *multi) remove(ez *easy) capi.MCode {
	m.mu.Lock()
	entry, found := m.entries[ez.handle]
	if !found {
		m.mu.Unlock()
		return capi.MCodeOK
	}
	if entry.cancel != nil && ez.inCallback.Load() {
		// waiting for the transfer would wait for ourselves
		m.mu.Unlock()
		return capi.MCodeRecursiveAPICall
	}
	delete(m.entries, ez.handle)
	m.pending = deleteEntry(m.pending, entry)
	cancel, done := entry.cancel, entry.done
	m.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	ez.setMulti(nil)
	m.engine.logger.Info("multiRemoveHandle",
		slog.Uint64("multiHandle", uint64(m.handle)),
		slog.Uint64("easyHandle", uint64(ez.handle)),
	)
	return capi.MCodeOK
}

func deleteEntry(entries []*multiEntry, entry *multiEntry) []*multiEntry {
	for idx, candidate := range entries {
		if candidate == entry {
			return append(entries[:idx], entries[idx+1:]...)
		}
	}
	return entries
}

// perform starts the pending transfers allowed by the limits and
// reports how many transfers have not completed yet.
func (m *multi) perform(running *int) capi.MCode {
	m.mu.Lock()
	m.startLocked()
	*running = m.running + len(m.pending)
	m.mu.Unlock()
	return capi.MCodeOK
}

func (m *multi) startLocked() {
	for len(m.pending) > 0 && (m.maxTotal <= 0 || m.running < m.maxTotal) {
		entry := m.pending[0]
		m.pending = m.pending[1:]
		if !entry.ez.running.CompareAndSwap(false, true) {
			// a transfer on this handle is still in progress
			m.finishLocked(entry, capi.CodeRecursiveAPICall)
			continue
		}
		ctx, cancel := context.WithCancel(context.Background())
		entry.cancel = cancel
		entry.done = make(chan struct{})
		m.running++
		go m.run(ctx, entry)
	}
}

func (m *multi) run(ctx context.Context, entry *multiEntry) {
	code := entry.ez.perform(ctx, m.cblock)
	entry.ez.running.Store(false)
	entry.cancel()

	m.mu.Lock()
	m.running--
	if _, found := m.entries[entry.ez.handle]; found {
		m.finishLocked(entry, code)
	}
	m.startLocked()
	m.mu.Unlock()
	close(entry.done)
}

func (m *multi) finishLocked(entry *multiEntry, code capi.Code) {
	m.msgs.Add(&capi.Msg{Msg: capi.MsgDone, Easy: entry.ez.handle, Result: code})
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// wait blocks until a completion message is queued or timeout expires.
func (m *multi) wait(timeout time.Duration, numfds *int) capi.MCode {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		m.mu.Lock()
		ready := m.msgs.Length()
		m.mu.Unlock()
		if ready > 0 {
			*numfds = ready
			return capi.MCodeOK
		}
		select {
		case <-m.notify:
		case <-timer.C:
			*numfds = 0
			return capi.MCodeOK
		}
	}
}

func (m *multi) infoRead(remaining *int) *capi.Msg {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.msgs.Length() <= 0 {
		*remaining = 0
		return nil
	}
	msg := m.msgs.Remove().(*capi.Msg)
	*remaining = m.msgs.Length()
	if *remaining <= 0 {
		// nothing left to wake up for
		select {
		case <-m.notify:
		default:
		}
	}
	return msg
}

func (m *multi) cleanup() capi.MCode {
	m.mu.Lock()
	var easies []*easy
	for _, entry := range m.entries {
		easies = append(easies, entry.ez)
	}
	m.mu.Unlock()
	for _, ez := range easies {
		m.remove(ez)
	}
	m.conns.closeAll()
	return capi.MCodeOK
}
