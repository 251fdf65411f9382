// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"crypto/tls"
	"sync"

	"github.com/bassosimone/xfer/capi"
)

// share is the state of a share handle.
type share struct {
	handle capi.ShareHandle
	engine *Engine

	dns      *dnsCache
	conns    *connCache
	sessions tls.ClientSessionCache

	// mu protects the fields below.
	mu       sync.Mutex
	shared   map[capi.LockData]bool
	lockFn   capi.LockCallback
	unlockFn capi.UnlockCallback
	userData any
	users    int
}

func newShare(e *Engine, h capi.ShareHandle) *share {
	return &share{
		handle:   h,
		engine:   e,
		dns:      newDNSCache(),
		conns:    newConnCache(defaultMaxConnects),
		sessions: tls.NewLRUClientSessionCache(0),
		shared:   make(map[capi.LockData]bool),
	}
}

func (s *share) attach() {
	s.mu.Lock()
	s.users++
	s.mu.Unlock()
}

func (s *share) detach() {
	s.mu.Lock()
	s.users--
	s.mu.Unlock()
}

// shares returns whether the given data is shared.
func (s *share) shares(data capi.LockData) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shared[data]
}

// with runs fn between the lock and the unlock callbacks for data.
func (s *share) with(h capi.EasyHandle, data capi.LockData, access capi.LockAccess, fn func()) {
	s.mu.Lock()
	lockFn, unlockFn, userData := s.lockFn, s.unlockFn, s.userData
	s.mu.Unlock()
	if lockFn != nil {
		lockFn(h, data, access, userData)
	}
	if unlockFn != nil {
		defer unlockFn(h, data, userData)
	}
	fn()
}

func (s *share) setopt(opt capi.ShareOption, value any) capi.SHCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users > 0 {
		return capi.SHCodeInUse
	}
	switch opt {
	case capi.ShOptShare, capi.ShOptUnshare:
		var data capi.LockData
		switch v := value.(type) {
		case capi.LockData:
			data = v
		case int64:
			data = capi.LockData(v)
		default:
			return capi.SHCodeBadOption
		}
		switch data {
		case capi.LockDataDNS, capi.LockDataSSLSession, capi.LockDataConnect:
			s.shared[data] = opt == capi.ShOptShare
			return capi.SHCodeOK
		case capi.LockDataCookie, capi.LockDataPSL:
			return capi.SHCodeNotBuiltIn
		default:
			return capi.SHCodeBadOption
		}
	case capi.ShOptLockFunc:
		if setFunc(&s.lockFn, value).Failed() {
			return capi.SHCodeBadOption
		}
		return capi.SHCodeOK
	case capi.ShOptUnlockFunc:
		if setFunc(&s.unlockFn, value).Failed() {
			return capi.SHCodeBadOption
		}
		return capi.SHCodeOK
	case capi.ShOptUserData:
		s.userData = value
		return capi.SHCodeOK
	default:
		return capi.SHCodeBadOption
	}
}

func (s *share) cleanup() capi.SHCode {
	s.mu.Lock()
	users := s.users
	s.mu.Unlock()
	if users > 0 {
		return capi.SHCodeInUse
	}
	s.conns.closeAll()
	return capi.SHCodeOK
}

// sharedSessionCache calls the lock callbacks around the session cache.
type sharedSessionCache struct {
	handle capi.EasyHandle
	share  *share
}

var _ tls.ClientSessionCache = &sharedSessionCache{}

// Get implements [tls.ClientSessionCache].
func (c *sharedSessionCache) Get(sessionKey string) (session *tls.ClientSessionState, ok bool) {
	c.share.with(c.handle, capi.LockDataSSLSession, capi.LockAccessShared, func() {
		session, ok = c.share.sessions.Get(sessionKey)
	})
	return
}

// Put implements [tls.ClientSessionCache].
func (c *sharedSessionCache) Put(sessionKey string, cs *tls.ClientSessionState) {
	c.share.with(c.handle, capi.LockDataSSLSession, capi.LockAccessSingle, func() {
		c.share.sessions.Put(sessionKey, cs)
	})
}
