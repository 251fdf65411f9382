// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bassosimone/xfer/capi"
	"github.com/bassosimone/xfer/internal/netx"
)

// EasyPerform implements [capi.Engine].
func (e *Engine) EasyPerform(ctx context.Context, h capi.EasyHandle) capi.Code {
	ez, found := e.lookupEasy(h)
	if !found {
		return capi.CodeBadFunctionArgument
	}
	if ez.currentMulti() != nil {
		return capi.CodeFailedInit
	}
	if !ez.running.CompareAndSwap(false, true) {
		return capi.CodeRecursiveAPICall
	}
	defer ez.running.Store(false)
	return ez.perform(ctx, ez.cblock)
}

// transfer is the state of a single perform.
type transfer struct {
	ez     *easy
	opts   options
	multi  *multi
	ctx    context.Context
	cblock callbackLock
	cfg    *netx.Config
	logger netx.SLogger
	t0     time.Time

	// hopStart is when the current request started.
	hopStart time.Time

	// detail is the message for the error buffer.
	detail string

	dlTotal atomic.Int64
	dlNow   atomic.Int64
	ulTotal atomic.Int64
	ulNow   atomic.Int64

	// done is set when the transfer returns so late I/O hooks are ignored.
	done atomic.Bool
}

// perform runs a transfer with callbacks serialized by cblock.
func (ez *easy) perform(ctx context.Context, cblock callbackLock) capi.Code {
	t := &transfer{
		ez:     ez,
		opts:   ez.snapshot(),
		multi:  ez.currentMulti(),
		cblock: cblock,
		cfg:    ez.engine.cfg,
	}
	t.logger = netx.WithAttrs(ez.engine.logger,
		slog.Uint64("easyHandle", uint64(ez.handle)),
		slog.String("spanID", netx.NewSpanID()),
	)
	if t.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, t.opts.timeout, errTransferTimeout)
		defer cancel()
	}
	t.ctx = ctx
	t.t0 = t.cfg.TimeNow()
	ez.updateInfo(func(info *transferInfo) { info.reset() })
	ez.pause.set(capi.PauseCont)
	if buf := t.opts.errorBuffer; buf != nil {
		buf.Set("")
	}

	deadline, _ := ctx.Deadline()
	t.logger.Info("nativeTransferStart",
		slog.Time("deadline", deadline),
		slog.String("url", t.opts.url),
		slog.Time("t", t.t0),
	)

	code := t.run()

	t.done.Store(true)
	now := t.cfg.TimeNow()
	ez.updateInfo(func(info *transferInfo) {
		info.totalTime = now.Sub(t.t0)
		info.sizeUpload = t.ulNow.Load()
	})
	if code.Failed() {
		if t.detail == "" {
			t.detail = code.Error()
		}
		if buf := t.opts.errorBuffer; buf != nil {
			buf.Set(t.detail)
		}
	}
	t.logger.Info("nativeTransferDone",
		slog.Time("deadline", deadline),
		slog.Int("code", int(code)),
		slog.String("detail", t.detail),
		slog.Time("t0", t.t0),
		slog.Time("t", now),
	)
	return code
}

// fail records the error buffer message and returns code.
func (t *transfer) fail(code capi.Code, format string, args ...any) capi.Code {
	t.detail = fmt.Sprintf(format, args...)
	t.debugf("%s", t.detail)
	return code
}

func (t *transfer) run() capi.Code {
	u, code := t.parseURL(t.opts.url)
	if code.Failed() {
		return code
	}
	method := t.method()
	body := t.newUploadBody()
	origin := u.Host
	creds := t.credentials(u)

	for {
		t.hopStart = t.cfg.TimeNow()
		hopCreds := creds
		if u.Host != origin {
			hopCreds = nil
		}
		resp, cc, code := t.exchange(method, u, body, hopCreds)
		if code.Failed() {
			return code
		}
		t.recordResponse(u, resp, cc)

		next, isRedirect := redirectLocation(u, resp)
		if isRedirect && t.opts.followLocation {
			if code := t.deliverHeaders(resp); code.Failed() {
				t.release(cc, resp, false)
				return code
			}
			t.release(cc, resp, t.drain(resp))
			if code := t.checkRedirect(next); code.Failed() {
				return code
			}
			method, body = redirectMethod(resp.StatusCode, method, body)
			if body != nil {
				if code := body.rewind(); code.Failed() {
					return t.fail(code, "necessary data rewind wasn't possible")
				}
			}
			t.debugf("Issue another request to this URL: '%s'", next.Redacted())
			u = next
			continue
		}
		if isRedirect {
			t.ez.updateInfo(func(info *transferInfo) { info.redirectURL = next.String() })
		}

		if t.opts.failOnError && resp.StatusCode >= 400 {
			t.release(cc, resp, false)
			return t.fail(capi.CodeHTTPReturnedError,
				"The requested URL returned error: %d", resp.StatusCode)
		}
		if code := t.deliverHeaders(resp); code.Failed() {
			t.release(cc, resp, false)
			return code
		}
		if !hasBody(method, resp) {
			t.release(cc, resp, true)
			return t.progress()
		}
		code = t.deliverBody(resp)
		t.release(cc, resp, !code.Failed())
		return code
	}
}

// checkRedirect accounts for one more redirect towards next.
func (t *transfer) checkRedirect(next *url.URL) capi.Code {
	var count int64
	t.ez.updateInfo(func(info *transferInfo) { count = info.redirectCount })
	if t.opts.maxRedirs >= 0 && count >= t.opts.maxRedirs {
		return t.fail(capi.CodeTooManyRedirects, "Maximum (%d) redirects followed", t.opts.maxRedirs)
	}
	if scheme := strings.ToLower(next.Scheme); scheme != "http" && scheme != "https" {
		return t.fail(capi.CodeUnsupportedProtocol, "Protocol \"%s\" not supported", next.Scheme)
	}
	now := t.cfg.TimeNow()
	t.ez.updateInfo(func(info *transferInfo) {
		info.redirectCount++
		info.redirectTime = now.Sub(t.t0)
	})
	return capi.CodeOK
}

func (t *transfer) parseURL(raw string) (*url.URL, capi.Code) {
	if raw == "" {
		return nil, t.fail(capi.CodeURLMalformat, "No URL set")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, t.fail(capi.CodeURLMalformat, "URL rejected: Malformed input to a URL function")
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, t.fail(capi.CodeUnsupportedProtocol, "Protocol \"%s\" not supported", u.Scheme)
	}
	return u, capi.CodeOK
}

func (t *transfer) method() string {
	switch {
	case t.opts.customRequest != "":
		return t.opts.customRequest
	case t.opts.noBody:
		return http.MethodHead
	case t.opts.upload:
		return http.MethodPut
	case t.opts.postFields != nil:
		return http.MethodPost
	default:
		return http.MethodGet
	}
}

func redirectLocation(u *url.URL, resp *http.Response) (*url.URL, bool) {
	switch resp.StatusCode {
	case 301, 302, 303, 307, 308:
	default:
		return nil, false
	}
	location := resp.Header.Get("Location")
	if location == "" {
		return nil, false
	}
	next, err := u.Parse(location)
	if err != nil {
		return nil, false
	}
	return next, true
}

// redirectMethod returns the method and body of the request following
// a redirect with the given status.
func redirectMethod(status int, method string, body *uploadBody) (string, *uploadBody) {
	switch {
	case status == 303 && method != http.MethodHead:
		return http.MethodGet, nil
	case (status == 301 || status == 302) && method == http.MethodPost:
		return http.MethodGet, nil
	default:
		return method, body
	}
}

func hasBody(method string, resp *http.Response) bool {
	if method == http.MethodHead {
		return false
	}
	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusNotModified:
		return false
	}
	return true
}

func (t *transfer) recordResponse(u *url.URL, resp *http.Response, cc *cachedConn) {
	effective := *u
	effective.User = nil
	var filetime int64 = -1
	if t.opts.filetime {
		if modified, err := http.ParseTime(resp.Header.Get("Last-Modified")); err == nil {
			filetime = modified.Unix()
		}
	}
	t.ez.updateInfo(func(info *transferInfo) {
		info.effectiveURL = effective.String()
		info.responseCode = int64(resp.StatusCode)
		info.httpVersion = httpVersionOf(resp)
		info.contentType = resp.Header.Get("Content-Type")
		info.filetime = filetime
		info.primaryIP = cc.primaryIP
		info.primaryPort = cc.primaryPort
		info.localIP = cc.localIP
		info.localPort = cc.localPort
	})
	if resp.ContentLength >= 0 {
		t.dlTotal.Store(resp.ContentLength)
	}
}

func httpVersionOf(resp *http.Response) capi.HTTPVersion {
	switch {
	case resp.ProtoMajor == 2:
		return capi.HTTPVersion2_0
	case resp.ProtoMajor == 1 && resp.ProtoMinor == 0:
		return capi.HTTPVersion1_0
	default:
		return capi.HTTPVersion1_1
	}
}

// defaultPort returns the port of u, defaulting from the scheme.
func defaultPort(u *url.URL) uint16 {
	if port, err := strconv.ParseUint(u.Port(), 10, 16); err == nil {
		return uint16(port)
	}
	if u.Scheme == "https" {
		return 443
	}
	return 80
}

// sessionCache returns the TLS session cache for this transfer.
func (t *transfer) sessionCache() tls.ClientSessionCache {
	if s := t.opts.share; s != nil && s.shares(capi.LockDataSSLSession) {
		return &sharedSessionCache{handle: t.ez.handle, share: s}
	}
	if t.multi != nil {
		return t.multi.sessions
	}
	return t.ez.sessions
}

// withDNS runs fn with the DNS cache for this transfer.
func (t *transfer) withDNS(access capi.LockAccess, fn func(c *dnsCache)) {
	if s := t.opts.share; s != nil && s.shares(capi.LockDataDNS) {
		s.with(t.ez.handle, capi.LockDataDNS, access, func() { fn(s.dns) })
		return
	}
	if t.multi != nil {
		fn(t.multi.dns)
		return
	}
	fn(t.ez.dns)
}

// withConns runs fn with the connection cache for this transfer.
func (t *transfer) withConns(fn func(c *connCache)) {
	if s := t.opts.share; s != nil && s.shares(capi.LockDataConnect) {
		s.with(t.ez.handle, capi.LockDataConnect, capi.LockAccessSingle, func() { fn(s.conns) })
		return
	}
	if t.multi != nil {
		fn(t.multi.conns)
		return
	}
	fn(t.ez.conns)
}
