// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"context"
	"crypto/tls"
	"net/netip"
	"net/url"

	"github.com/bassosimone/xfer/capi"
	"github.com/bassosimone/xfer/internal/netx"
)

// resolve returns the addresses of host using the cache when possible.
func (t *transfer) resolve(ctx context.Context, host string) ([]netip.Addr, capi.Code) {
	if addr, err := netip.ParseAddr(host); err == nil {
		return []netip.Addr{addr}, capi.CodeOK
	}

	var (
		addrs []netip.Addr
		found bool
	)
	t.withDNS(capi.LockAccessShared, func(c *dnsCache) {
		addrs, found = c.get(host, t.cfg.TimeNow())
	})
	if found {
		return addrs, capi.CodeOK
	}

	addrs, err := t.lookup(ctx, host)
	if err != nil {
		code := codeFor(ctx, phaseResolve, err)
		return nil, t.fail(code, "Could not resolve host: %s", host)
	}
	t.withDNS(capi.LockAccessSingle, func(c *dnsCache) {
		c.put(host, addrs, t.cfg.TimeNow())
	})
	return addrs, capi.CodeOK
}

// lookup selects DNS over HTTPS, the configured DNS servers or the
// system resolver, in this order.
func (t *transfer) lookup(ctx context.Context, host string) ([]netip.Addr, error) {
	switch {
	case t.opts.dohURL != "":
		return t.lookupDoH(ctx, host)

	case len(t.opts.dnsServers) > 0:
		var err error
		for _, server := range t.opts.dnsServers {
			var addrs []netip.Addr
			if addrs, err = t.lookupUDP(ctx, server, host); err == nil {
				return addrs, nil
			}
			if ctx.Err() != nil {
				return nil, err
			}
			if addrs, err = t.lookupTCP(ctx, server, host); err == nil {
				return addrs, nil
			}
		}
		return nil, err

	default:
		return netx.NewLookupFunc(t.cfg, t.logger).Call(ctx, host)
	}
}

func (t *transfer) lookupUDP(ctx context.Context, server netip.AddrPort, host string) ([]netip.Addr, error) {
	pipeline := netx.Compose4(
		netx.NewEndpointFunc(server),
		netx.NewConnectFunc(t.cfg, "udp", t.logger),
		netx.NewCancelWatchFunc(),
		netx.NewDNSOverUDPConnFunc(t.cfg, t.logger),
	)
	dnsConn, err := pipeline.Call(ctx, netx.Unit{})
	if err != nil {
		return nil, err
	}
	defer dnsConn.Close()
	return netx.LookupA(ctx, dnsConn, host)
}

func (t *transfer) lookupTCP(ctx context.Context, server netip.AddrPort, host string) ([]netip.Addr, error) {
	pipeline := netx.Compose4(
		netx.NewEndpointFunc(server),
		netx.NewConnectFunc(t.cfg, "tcp", t.logger),
		netx.NewCancelWatchFunc(),
		netx.NewDNSOverTCPConnFunc(t.cfg, t.logger),
	)
	dnsConn, err := pipeline.Call(ctx, netx.Unit{})
	if err != nil {
		return nil, err
	}
	defer dnsConn.Close()
	return netx.LookupA(ctx, dnsConn, host)
}

// lookupDoH resolves the DoH server with the system resolver and then
// queries it for host.
func (t *transfer) lookupDoH(ctx context.Context, host string) ([]netip.Addr, error) {
	server, err := url.Parse(t.opts.dohURL)
	if err != nil {
		return nil, err
	}
	serverName := server.Hostname()
	serverAddrs := []netip.Addr{}
	if addr, err := netip.ParseAddr(serverName); err == nil {
		serverAddrs = append(serverAddrs, addr)
	} else if serverAddrs, err = netx.NewLookupFunc(t.cfg, t.logger).Call(ctx, serverName); err != nil {
		return nil, err
	}
	port := defaultPort(server)

	config := &tls.Config{
		ServerName:         serverName,
		NextProtos:         []string{"h2", "http/1.1"},
		InsecureSkipVerify: !t.opts.verifyPeer,
	}
	for _, addr := range serverAddrs {
		pipeline := netx.Compose6(
			netx.NewEndpointFunc(netip.AddrPortFrom(addr, port)),
			netx.NewConnectFunc(t.cfg, "tcp", t.logger),
			netx.NewCancelWatchFunc(),
			netx.NewTLSHandshakeFunc(t.cfg, config, t.logger),
			netx.NewHTTPConnFuncTLS(t.cfg, t.logger),
			netx.NewDNSOverHTTPSConnFunc(t.cfg, t.opts.dohURL, t.logger),
		)
		var dnsConn *netx.DNSOverHTTPSConn
		if dnsConn, err = pipeline.Call(ctx, netx.Unit{}); err != nil {
			continue
		}
		addrs, err := netx.LookupA(ctx, dnsConn, host)
		dnsConn.Close()
		return addrs, err
	}
	return nil, err
}
