// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"net/netip"
	"slices"
	"strings"
	"sync"
	"time"
)

// dnsCacheTimeout is how long resolved addresses remain valid.
const dnsCacheTimeout = 60 * time.Second

// dnsCache caches resolved addresses by host name.
type dnsCache struct {
	mu      sync.Mutex
	entries map[string]dnsCacheEntry
}

type dnsCacheEntry struct {
	addrs   []netip.Addr
	expires time.Time
}

func newDNSCache() *dnsCache {
	return &dnsCache{entries: make(map[string]dnsCacheEntry)}
}

func (c *dnsCache) get(host string, now time.Time) ([]netip.Addr, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := strings.ToLower(host)
	entry, found := c.entries[key]
	if !found {
		return nil, false
	}
	if now.After(entry.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return slices.Clone(entry.addrs), true
}

func (c *dnsCache) put(host string, addrs []netip.Addr, now time.Time) {
	c.mu.Lock()
	c.entries[strings.ToLower(host)] = dnsCacheEntry{
		addrs:   slices.Clone(addrs),
		expires: now.Add(dnsCacheTimeout),
	}
	c.mu.Unlock()
}
