// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"crypto/tls"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bassosimone/xfer/capi"
)

// easy is the state of an easy handle.
type easy struct {
	// handle is the public handle.
	handle capi.EasyHandle

	// engine is the owning engine.
	engine *Engine

	// running is true while a transfer is in progress.
	running atomic.Bool

	// inCallback is true while a callback of the transfer runs.
	inCallback atomic.Bool

	// pause tracks the pause state of the transfer.
	pause *pauseState

	// cblock serializes callbacks of a standalone transfer.
	cblock callbackLock

	// dns, conns and sessions are used when the handle is not part of a
	// multi and does not share the corresponding data.
	dns      *dnsCache
	conns    *connCache
	sessions tls.ClientSessionCache

	// mu protects the fields below.
	mu sync.Mutex

	// opts contains the options.
	opts options

	// info contains the result of the last transfer.
	info transferInfo

	// multi is the multi handle this handle was added to.
	multi *multi
}

func newEasy(e *Engine, h capi.EasyHandle) *easy {
	ez := &easy{
		handle:   h,
		engine:   e,
		pause:    newPauseState(),
		cblock:   newCallbackLock(),
		dns:      newDNSCache(),
		conns:    newConnCache(defaultMaxConnects),
		sessions: tls.NewLRUClientSessionCache(0),
		opts:     defaultOptions(),
	}
	ez.info.reset()
	return ez
}

// snapshot returns a copy of the options.
func (ez *easy) snapshot() options {
	ez.mu.Lock()
	defer ez.mu.Unlock()
	return ez.opts.clone()
}

func (ez *easy) currentMulti() *multi {
	ez.mu.Lock()
	defer ez.mu.Unlock()
	return ez.multi
}

func (ez *easy) setMulti(m *multi) {
	ez.mu.Lock()
	ez.multi = m
	ez.mu.Unlock()
}

// updateInfo runs fn with the info locked.
func (ez *easy) updateInfo(fn func(info *transferInfo)) {
	ez.mu.Lock()
	fn(&ez.info)
	ez.mu.Unlock()
}

func (ez *easy) reset() {
	ez.mu.Lock()
	old := ez.opts.share
	ez.opts = defaultOptions()
	ez.info.reset()
	ez.mu.Unlock()
	if old != nil {
		old.detach()
	}
	ez.pause.set(capi.PauseCont)
}

func (ez *easy) close() {
	ez.mu.Lock()
	old := ez.opts.share
	ez.opts.share = nil
	ez.mu.Unlock()
	if old != nil {
		old.detach()
	}
	ez.conns.closeAll()
}

func (ez *easy) setopt(opt capi.Option, value any) capi.Code {
	if opt == capi.OptShare {
		return ez.setShare(value)
	}
	ez.mu.Lock()
	defer ez.mu.Unlock()
	o := &ez.opts
	switch opt {
	case capi.OptURL:
		return setString(&o.url, value)
	case capi.OptVerbose:
		return setBool(&o.verbose, value)
	case capi.OptNoProgress:
		return setBool(&o.noProgress, value)
	case capi.OptNoBody:
		return setBool(&o.noBody, value)
	case capi.OptFailOnError:
		return setBool(&o.failOnError, value)
	case capi.OptUpload:
		return setBool(&o.upload, value)
	case capi.OptFollowLocation:
		return setBool(&o.followLocation, value)
	case capi.OptMaxRedirs:
		return setLong(&o.maxRedirs, value)
	case capi.OptPostFields:
		return setStringPtr(&o.postFields, value)
	case capi.OptCustomRequest:
		return setString(&o.customRequest, value)
	case capi.OptUserAgent:
		return setString(&o.userAgent, value)
	case capi.OptHTTPHeader:
		return setStrings(&o.headers, value)
	case capi.OptUserPwd:
		return setString(&o.userPwd, value)
	case capi.OptUsername:
		return setString(&o.username, value)
	case capi.OptPassword:
		return setString(&o.password, value)
	case capi.OptXOAuth2Bearer:
		return setString(&o.bearer, value)
	case capi.OptHTTPAuth:
		return setLong(&o.httpAuth, value)
	case capi.OptNetrc:
		return setLong(&o.netrc, value)
	case capi.OptNetrcFile:
		return setString(&o.netrcFile, value)
	case capi.OptInFileSizeLarge:
		return setLong(&o.inFileSize, value)
	case capi.OptTimeoutMS:
		return setMillis(&o.timeout, value)
	case capi.OptConnectTimeoutMS:
		return setMillis(&o.connectTimeout, value)
	case capi.OptSSLVerifyPeer:
		return setBool(&o.verifyPeer, value)
	case capi.OptSSLVerifyHost:
		return setBool(&o.verifyHost, value)
	case capi.OptCAInfo:
		return setString(&o.caInfo, value)
	case capi.OptHTTPVersion:
		return setLong(&o.httpVersion, value)
	case capi.OptAcceptEncoding:
		return setStringPtr(&o.acceptEncoding, value)
	case capi.OptForbidReuse:
		return setBool(&o.forbidReuse, value)
	case capi.OptFreshConnect:
		return setBool(&o.freshConnect, value)
	case capi.OptFiletime:
		return setBool(&o.filetime, value)
	case capi.OptDoHURL:
		return setString(&o.dohURL, value)
	case capi.OptDNSServers:
		var servers string
		if code := setString(&servers, value); code.Failed() {
			return code
		}
		parsed, ok := parseDNSServers(servers)
		if !ok {
			return capi.CodeBadFunctionArgument
		}
		o.dnsServers = parsed
		return capi.CodeOK
	case capi.OptErrorBuffer:
		if value == nil {
			o.errorBuffer = nil
			return capi.CodeOK
		}
		buf, ok := value.(*capi.ErrorBuffer)
		if !ok {
			return capi.CodeBadFunctionArgument
		}
		o.errorBuffer = buf
		return capi.CodeOK
	case capi.OptPrivate:
		return setString(&o.private, value)
	case capi.OptWriteFunction:
		return setFunc(&o.writeFn, value)
	case capi.OptWriteData:
		o.writeData = value
		return capi.CodeOK
	case capi.OptReadFunction:
		return setFunc(&o.readFn, value)
	case capi.OptReadData:
		o.readData = value
		return capi.CodeOK
	case capi.OptHeaderFunction:
		return setFunc(&o.headerFn, value)
	case capi.OptHeaderData:
		o.headerData = value
		return capi.CodeOK
	case capi.OptDebugFunction:
		return setFunc(&o.debugFn, value)
	case capi.OptDebugData:
		o.debugData = value
		return capi.CodeOK
	case capi.OptSeekFunction:
		return setFunc(&o.seekFn, value)
	case capi.OptSeekData:
		o.seekData = value
		return capi.CodeOK
	case capi.OptXferInfoFunction:
		return setFunc(&o.xferFn, value)
	case capi.OptXferInfoData:
		o.xferData = value
		return capi.CodeOK
	default:
		return capi.CodeUnknownOption
	}
}

// setShare attaches the handle to a share, or detaches it for a zero handle.
func (ez *easy) setShare(value any) capi.Code {
	var next *share
	switch v := value.(type) {
	case nil:
	case capi.ShareHandle:
		if v != 0 {
			s, found := ez.engine.lookupShare(v)
			if !found {
				return capi.CodeBadFunctionArgument
			}
			next = s
		}
	default:
		return capi.CodeBadFunctionArgument
	}
	if next != nil {
		next.attach()
	}
	ez.mu.Lock()
	prev := ez.opts.share
	ez.opts.share = next
	ez.mu.Unlock()
	if prev != nil {
		prev.detach()
	}
	return capi.CodeOK
}

// pauseState is the pause bit mask plus a channel to wake a paused transfer.
type pauseState struct {
	mu    sync.Mutex
	flags capi.PauseFlags
	wake  chan struct{}
}

func newPauseState() *pauseState {
	return &pauseState{wake: make(chan struct{}, 1)}
}

func (p *pauseState) set(flags capi.PauseFlags) {
	p.mu.Lock()
	p.flags = flags
	p.mu.Unlock()
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// add sets the given bits without touching the others.
func (p *pauseState) add(bits capi.PauseFlags) {
	p.mu.Lock()
	p.flags |= bits
	p.mu.Unlock()
}

func (p *pauseState) paused(bits capi.PauseFlags) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flags&bits != 0
}

// pausePollInterval is how often a paused transfer calls the progress callback.
const pausePollInterval = 100 * time.Millisecond
