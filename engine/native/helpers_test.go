// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"unsafe"

	"github.com/bassosimone/xfer/capi"
	"github.com/bassosimone/xfer/internal/netx"
	"github.com/stretchr/testify/require"
)

// newTestEngine returns an engine using the default config and no logging.
func newTestEngine() *Engine {
	return NewDefaultEngine(netx.DefaultSLogger())
}

// mustSetopt sets an easy option and fails the test on error.
func mustSetopt(t *testing.T, e *Engine, h capi.EasyHandle, opt capi.Option, value any) {
	t.Helper()
	require.Equal(t, capi.CodeOK, e.EasySetopt(h, opt, value), "option %d", opt)
}

// getinfo reads info of type T and fails the test on error.
func getinfo[T any](t *testing.T, e *Engine, h capi.EasyHandle, info capi.Info) T {
	t.Helper()
	var out T
	require.Equal(t, capi.CodeOK, e.EasyGetinfo(h, info, &out), "info %x", info)
	return out
}

// perform runs a transfer without a deadline.
func perform(e *Engine, h capi.EasyHandle) capi.Code {
	return e.EasyPerform(context.Background(), h)
}

// recorder collects what the callbacks of a transfer receive.
type recorder struct {
	mu       sync.Mutex
	body     bytes.Buffer
	headers  []string
	debug    map[capi.InfoType]int
	progress int
}

func newRecorder() *recorder {
	return &recorder{debug: map[capi.InfoType]int{}}
}

// install sets the write, header, debug and progress callbacks.
func (r *recorder) install(t *testing.T, e *Engine, h capi.EasyHandle) {
	mustSetopt(t, e, h, capi.OptWriteFunction, capi.WriteCallback(recordWrite))
	mustSetopt(t, e, h, capi.OptWriteData, r)
	mustSetopt(t, e, h, capi.OptHeaderFunction, capi.HeaderCallback(recordHeader))
	mustSetopt(t, e, h, capi.OptHeaderData, r)
	mustSetopt(t, e, h, capi.OptDebugFunction, capi.DebugCallback(recordDebug))
	mustSetopt(t, e, h, capi.OptDebugData, r)
	mustSetopt(t, e, h, capi.OptXferInfoFunction, capi.XferInfoCallback(recordProgress))
	mustSetopt(t, e, h, capi.OptXferInfoData, r)
}

func (r *recorder) bodyString() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.String()
}

func bytesAt(ptr *byte, n uintptr) []byte {
	if ptr == nil || n == 0 {
		return nil
	}
	return unsafe.Slice(ptr, n)
}

func recordWrite(ptr *byte, size, nmemb uintptr, userdata any) uintptr {
	r := userdata.(*recorder)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.body.Write(bytesAt(ptr, size*nmemb))
	return size * nmemb
}

func recordHeader(ptr *byte, size, nitems uintptr, userdata any) uintptr {
	r := userdata.(*recorder)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.headers = append(r.headers, string(bytesAt(ptr, size*nitems)))
	return size * nitems
}

func recordDebug(h capi.EasyHandle, typ capi.InfoType, ptr *byte, size uintptr, userdata any) int {
	r := userdata.(*recorder)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debug[typ]++
	return 0
}

func recordProgress(userdata any, dltotal, dlnow, ultotal, ulnow int64) int {
	r := userdata.(*recorder)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress++
	return 0
}

// uploadSource serves a fixed payload through the read and seek callbacks.
type uploadSource struct {
	data  []byte
	off   int
	seeks int
}

func sourceRead(ptr *byte, size, nitems uintptr, userdata any) uintptr {
	src := userdata.(*uploadSource)
	n := copy(bytesAt(ptr, size*nitems), src.data[src.off:])
	src.off += n
	return uintptr(n)
}

func sourceSeek(userdata any, offset int64, origin int) capi.SeekResult {
	src := userdata.(*uploadSource)
	src.seeks++
	src.off = int(offset)
	return capi.SeekFuncOK
}
