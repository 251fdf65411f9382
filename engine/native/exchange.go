// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"maps"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"slices"
	"strings"

	"github.com/bassosimone/runtimex"
	"github.com/bassosimone/safeconn"
	"github.com/bassosimone/xfer/capi"
	"github.com/bassosimone/xfer/internal/netx"
)

// exchange sends one request and returns the response with its connection.
//
// A request failing on a reused connection is retried once on a new one.
func (t *transfer) exchange(method string, u *url.URL, body *uploadBody,
	creds *credentials) (*http.Response, *cachedConn, capi.Code) {
	key := t.connKey(u)

	var cc *cachedConn
	if !t.opts.freshConnect {
		t.withConns(func(c *connCache) { cc = c.take(key) })
	}
	reused := cc != nil
	if reused {
		t.debugf("Re-using existing connection with host %s", u.Hostname())
		t.ez.updateInfo(func(info *transferInfo) {
			info.nameLookupTime, info.connectTime, info.appConnectTime = 0, 0, 0
		})
	} else {
		var code capi.Code
		if cc, code = t.dial(u, key); code.Failed() {
			return nil, nil, code
		}
	}

	resp, err := t.roundTrip(cc, method, u, body, creds)
	if err != nil && reused && t.ctx.Err() == nil && body.code() == capi.CodeOK {
		cc.close()
		t.debugf("Connection died, retrying a fresh connect")
		if code := body.rewind(); code.Failed() {
			return nil, nil, t.fail(code, "necessary data rewind wasn't possible")
		}
		var code capi.Code
		if cc, code = t.dial(u, key); code.Failed() {
			return nil, nil, code
		}
		resp, err = t.roundTrip(cc, method, u, body, creds)
	}
	if err != nil {
		cc.close()
		return nil, nil, t.roundTripFailure(body, err)
	}

	now := t.cfg.TimeNow()
	t.ez.updateInfo(func(info *transferInfo) {
		info.startTransferTime = now.Sub(t.hopStart)
	})
	return resp, cc, capi.CodeOK
}

func (t *transfer) roundTripFailure(body *uploadBody, err error) capi.Code {
	if code := body.code(); code.Failed() {
		return t.fail(code, "%s", code.Error())
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return t.fail(capi.CodeGotNothing, "Empty reply from server")
	}
	ph := phaseRecv
	if body != nil && !body.complete() {
		ph = phaseSend
	}
	return t.fail(codeFor(t.ctx, ph, err), "%s", err.Error())
}

func (t *transfer) roundTrip(cc *cachedConn, method string, u *url.URL,
	body *uploadBody, creds *credentials) (*http.Response, error) {
	req, err := t.newRequest(method, u, body, creds)
	if err != nil {
		return nil, err
	}
	cc.sink.Store(t)
	t.debug(capi.InfoHeaderOut, []byte(requestHeaderText(req, cc.hc.Protocol())))
	now := t.cfg.TimeNow()
	t.ez.updateInfo(func(info *transferInfo) {
		info.preTransferTime = now.Sub(t.hopStart)
	})
	return cc.hc.RoundTrip(req)
}

func (t *transfer) connKey(u *url.URL) connKey {
	return connKey{
		scheme:      u.Scheme,
		host:        strings.ToLower(u.Hostname()),
		port:        defaultPort(u),
		verifyPeer:  t.opts.verifyPeer,
		verifyHost:  t.opts.verifyHost,
		caInfo:      t.opts.caInfo,
		httpVersion: t.opts.httpVersion,
	}
}

// dial resolves, connects, handshakes and wraps the connection for HTTP.
func (t *transfer) dial(u *url.URL, key connKey) (*cachedConn, capi.Code) {
	ctx := t.ctx
	if t.opts.connectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.opts.connectTimeout)
		defer cancel()
	}

	host := u.Hostname()
	addrs, code := t.resolve(ctx, host)
	if code.Failed() {
		return nil, code
	}
	resolved := t.cfg.TimeNow()
	t.ez.updateInfo(func(info *transferInfo) {
		info.nameLookupTime = resolved.Sub(t.hopStart)
	})

	cc := &cachedConn{key: key}
	connect := netx.NewConnectFunc(t.cfg, "tcp", t.logger)
	observe := netx.NewObserveConnFunc(t.cfg, t.logger)
	if key.scheme == "https" {
		observe.OnRead = cc.onRead
		observe.OnWrite = cc.onWrite
	}
	var (
		conn    net.Conn
		lastErr error
	)
	for _, addr := range addrs {
		endpoint := netip.AddrPortFrom(addr, key.port)
		t.debugf("  Trying %s...", endpoint)
		pipeline := netx.Compose3(netx.NewEndpointFunc(endpoint), connect, observe)
		if conn, lastErr = pipeline.Call(ctx, netx.Unit{}); lastErr == nil {
			break
		}
	}
	if conn == nil {
		code := codeFor(ctx, phaseConnect, lastErr)
		if t.ctx.Err() == nil && ctx.Err() != nil {
			code = capi.CodeOperationTimedOut
		}
		return nil, t.fail(code, "Failed to connect to %s port %d: %s", host, key.port, lastErr)
	}
	cc.primaryIP, cc.primaryPort = formatAddrPort(safeconn.RemoteAddr(conn))
	cc.localIP, cc.localPort = formatAddrPort(safeconn.LocalAddr(conn))
	connected := t.cfg.TimeNow()
	t.ez.updateInfo(func(info *transferInfo) {
		info.connectTime = connected.Sub(t.hopStart)
		info.numConnects++
	})
	t.debugf("Connected to %s (%s) port %d", host, cc.primaryIP, key.port)

	if key.scheme != "https" {
		httpFunc := netx.NewHTTPConnFuncPlain(t.cfg, t.logger)
		httpFunc.KeepAlive = !t.opts.forbidReuse
		cc.hc = runtimex.PanicOnError1(httpFunc.Call(ctx, conn))
		return cc, capi.CodeOK
	}

	tlsConfig, code := t.tlsConfig(host)
	if code.Failed() {
		conn.Close()
		return nil, code
	}
	tconn, err := netx.NewTLSHandshakeFunc(t.cfg, tlsConfig, t.logger).Call(ctx, conn)
	if err != nil {
		code := codeFor(ctx, phaseTLS, err)
		if t.ctx.Err() == nil && ctx.Err() != nil {
			code = capi.CodeOperationTimedOut
		}
		return nil, t.fail(code, "TLS connect error: %s", err)
	}
	handshaked := t.cfg.TimeNow()
	t.ez.updateInfo(func(info *transferInfo) {
		info.appConnectTime = handshaked.Sub(t.hopStart)
	})
	state := tconn.ConnectionState()
	t.debugf("SSL connection using %s / %s", tls.VersionName(state.Version), tls.CipherSuiteName(state.CipherSuite))
	httpFunc := netx.NewHTTPConnFuncTLS(t.cfg, t.logger)
	httpFunc.KeepAlive = !t.opts.forbidReuse
	cc.hc = runtimex.PanicOnError1(httpFunc.Call(ctx, tconn))
	return cc, capi.CodeOK
}

// newRequest builds the request for the current hop.
func (t *transfer) newRequest(method string, u *url.URL, body *uploadBody,
	creds *credentials) (*http.Request, error) {
	target := *u
	target.User = nil

	var (
		req *http.Request
		err error
	)
	if body != nil {
		req, err = http.NewRequestWithContext(t.ctx, method, target.String(), body)
	} else {
		req, err = http.NewRequestWithContext(t.ctx, method, target.String(), nil)
	}
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.ContentLength = body.length()
		if req.ContentLength == 0 {
			req.Body = http.NoBody
		}
	}

	// an empty User-Agent suppresses the default one
	req.Header["User-Agent"] = []string{t.opts.userAgent}
	if body != nil && method == http.MethodPost && t.opts.postFields != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if ae := t.opts.acceptEncoding; ae != nil {
		value := *ae
		if value == "" {
			value = supportedEncodings
		}
		req.Header.Set("Accept-Encoding", value)
	}
	t.authorize(req, creds)
	applyCustomHeaders(req, t.opts.headers)
	return req, nil
}

// applyCustomHeaders merges lines in the "Name: value" form, where an
// empty value removes a header and "Name;" sends an empty header.
func applyCustomHeaders(req *http.Request, lines []string) {
	custom := http.Header{}
	for _, line := range lines {
		name, value, found := strings.Cut(line, ":")
		if !found {
			if name, ok := strings.CutSuffix(strings.TrimSpace(line), ";"); ok && name != "" {
				custom[http.CanonicalHeaderKey(name)] = []string{""}
			}
			continue
		}
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if name == "" {
			continue
		}
		key := http.CanonicalHeaderKey(name)
		if value == "" {
			req.Header.Del(key)
			delete(custom, key)
			if key == "User-Agent" {
				req.Header[key] = []string{""}
			}
			continue
		}
		if key == "Host" {
			req.Host = value
			continue
		}
		custom.Add(key, value)
	}
	for key, values := range custom {
		req.Header[key] = values
	}
}

// requestHeaderText formats the request header like it appears on the wire.
func requestHeaderText(req *http.Request, protocol string) string {
	version := "HTTP/1.1"
	if protocol == "h2" {
		version = "HTTP/2"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s\r\n", req.Method, req.URL.RequestURI(), version)
	host := req.Host
	if host == "" {
		host = req.URL.Host
	}
	fmt.Fprintf(&sb, "Host: %s\r\n", host)
	for _, key := range slices.Sorted(maps.Keys(req.Header)) {
		for _, value := range req.Header[key] {
			if value == "" && key == "User-Agent" {
				continue
			}
			fmt.Fprintf(&sb, "%s: %s\r\n", key, value)
		}
	}
	sb.WriteString("\r\n")
	return sb.String()
}

// release returns the connection to the cache when reusable or closes it.
func (t *transfer) release(cc *cachedConn, resp *http.Response, reusable bool) {
	resp.Body.Close()
	if !reusable || t.opts.forbidReuse || resp.Close {
		cc.close()
		return
	}
	t.withConns(func(c *connCache) { c.put(cc) })
}

// drain discards the body of a redirect and reports whether it was fully read.
func (t *transfer) drain(resp *http.Response) bool {
	count, err := io.Copy(io.Discard, resp.Body)
	t.ez.updateInfo(func(info *transferInfo) { info.sizeDownload += count })
	return err == nil
}
