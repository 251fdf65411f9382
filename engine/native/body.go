// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"io"
	"strings"
	"sync"

	"github.com/bassosimone/xfer/capi"
)

// uploadBody is the request body, produced either by the post fields
// or by the read callback. Methods are safe on a nil receiver, which
// means there is no body.
//
// The HTTP transport may read the body from its own goroutine.
type uploadBody struct {
	t     *transfer
	fixed *strings.Reader
	size  int64

	mu     sync.Mutex
	sent   int64
	eof    bool
	result capi.Code
}

func (t *transfer) newUploadBody() *uploadBody {
	switch {
	case t.opts.upload:
		if t.opts.inFileSize >= 0 {
			t.ulTotal.Store(t.opts.inFileSize)
		}
		return &uploadBody{t: t, size: t.opts.inFileSize}
	case t.opts.postFields != nil:
		fields := *t.opts.postFields
		t.ulTotal.Store(int64(len(fields)))
		return &uploadBody{t: t, fixed: strings.NewReader(fields), size: int64(len(fields))}
	default:
		return nil
	}
}

// length returns the content length or -1 when unknown.
func (b *uploadBody) length() int64 {
	return b.size
}

// code returns the failure recorded while reading, if any.
func (b *uploadBody) code() capi.Code {
	if b == nil {
		return capi.CodeOK
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.result
}

// complete returns whether the whole body was read.
func (b *uploadBody) complete() bool {
	if b == nil {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.eof
}

func (b *uploadBody) account(data []byte, err error) {
	b.mu.Lock()
	b.sent += int64(len(data))
	if err == io.EOF {
		b.eof = true
	}
	b.mu.Unlock()
	if len(data) > 0 {
		b.t.ulNow.Add(int64(len(data)))
		b.t.debug(capi.InfoDataOut, data)
	}
}

func (b *uploadBody) abort(code capi.Code) (int, error) {
	b.mu.Lock()
	b.result = code
	b.mu.Unlock()
	return 0, code
}

// Read implements [io.Reader].
func (b *uploadBody) Read(p []byte) (int, error) {
	if b.fixed != nil {
		n, err := b.fixed.Read(p)
		b.account(p[:n], err)
		return n, err
	}
	t := b.t
	fn := t.opts.readFn
	if fn == nil {
		b.account(nil, io.EOF)
		return 0, io.EOF
	}
	if len(p) <= 0 {
		return 0, nil
	}
	for {
		if !t.enter() {
			return b.abort(t.interrupted())
		}
		rv := fn(dataPtr(p), 1, uintptr(len(p)), t.opts.readData)
		t.leave()
		switch {
		case rv == capi.ReadFuncAbort:
			return b.abort(capi.CodeAbortedByCallback)
		case rv == capi.ReadFuncPause:
			t.ez.pause.add(capi.PauseSend)
			if code := t.waitUnpaused(capi.PauseSend); code.Failed() {
				return b.abort(code)
			}
		case rv > uintptr(len(p)):
			return b.abort(capi.CodeReadError)
		case rv == 0:
			b.account(nil, io.EOF)
			return 0, io.EOF
		default:
			b.account(p[:rv], nil)
			return int(rv), nil
		}
	}
}

// rewind restarts the body from the beginning using the seek callback.
func (b *uploadBody) rewind() capi.Code {
	if b == nil {
		return capi.CodeOK
	}
	b.mu.Lock()
	sent := b.sent
	b.sent, b.eof, b.result = 0, false, capi.CodeOK
	b.mu.Unlock()
	b.t.ulNow.Store(0)

	if b.fixed != nil {
		b.fixed.Seek(0, io.SeekStart)
		return capi.CodeOK
	}
	if sent <= 0 {
		return capi.CodeOK
	}
	t := b.t
	fn := t.opts.seekFn
	if fn == nil {
		return capi.CodeSendFailRewind
	}
	if !t.enter() {
		return t.interrupted()
	}
	rv := fn(t.opts.seekData, 0, io.SeekStart)
	t.leave()
	if rv != capi.SeekFuncOK {
		return capi.CodeSendFailRewind
	}
	return capi.CodeOK
}
