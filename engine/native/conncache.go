// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"sync"
	"sync/atomic"

	"github.com/bassosimone/xfer/capi"
	"github.com/bassosimone/xfer/internal/netx"
)

// defaultMaxConnects is the default size of a connection cache.
const defaultMaxConnects = 5

// connKey identifies the connections a transfer may reuse.
type connKey struct {
	scheme      string
	host        string
	port        uint16
	verifyPeer  bool
	verifyHost  bool
	caInfo      string
	httpVersion capi.HTTPVersion
}

// cachedConn is an HTTP connection that may serve several transfers.
type cachedConn struct {
	key connKey
	hc  *netx.HTTPConn

	// sink is the transfer currently using the connection; it receives
	// the raw TLS bytes for the debug callback.
	sink atomic.Pointer[transfer]

	primaryIP   string
	primaryPort int64
	localIP     string
	localPort   int64
}

func (cc *cachedConn) onRead(data []byte) {
	if t := cc.sink.Load(); t != nil {
		t.debug(capi.InfoSSLDataIn, data)
	}
}

func (cc *cachedConn) onWrite(data []byte) {
	if t := cc.sink.Load(); t != nil {
		t.debug(capi.InfoSSLDataOut, data)
	}
}

func (cc *cachedConn) close() {
	cc.sink.Store(nil)
	cc.hc.Close()
}

// connCache is a bounded list of idle connections, oldest first.
type connCache struct {
	mu    sync.Mutex
	max   int
	conns []*cachedConn
}

func newConnCache(max int) *connCache {
	return &connCache{max: max}
}

// take removes and returns the newest idle connection matching key or nil.
func (c *connCache) take(key connKey) *cachedConn {
	c.mu.Lock()
	defer c.mu.Unlock()
	for idx := len(c.conns) - 1; idx >= 0; idx-- {
		if cc := c.conns[idx]; cc.key == key {
			c.conns = append(c.conns[:idx], c.conns[idx+1:]...)
			return cc
		}
	}
	return nil
}

// put adds cc to the cache and closes the connections exceeding the limit.
func (c *connCache) put(cc *cachedConn) {
	cc.sink.Store(nil)
	c.mu.Lock()
	c.conns = append(c.conns, cc)
	evicted := c.evictLocked()
	c.mu.Unlock()
	for _, old := range evicted {
		old.close()
	}
}

// setMax changes the limit and closes the connections exceeding it.
func (c *connCache) setMax(max int) {
	c.mu.Lock()
	c.max = max
	evicted := c.evictLocked()
	c.mu.Unlock()
	for _, old := range evicted {
		old.close()
	}
}

func (c *connCache) evictLocked() (evicted []*cachedConn) {
	for c.max >= 0 && len(c.conns) > c.max {
		evicted = append(evicted, c.conns[0])
		c.conns = c.conns[1:]
	}
	return
}

func (c *connCache) closeAll() {
	c.mu.Lock()
	conns := c.conns
	c.conns = nil
	c.mu.Unlock()
	for _, cc := range conns {
		cc.close()
	}
}
