// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bassosimone/xfer/capi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drive runs the multi handle until want messages arrive.
func drive(t *testing.T, e *Engine, m capi.MultiHandle, want int) []*capi.Msg {
	var msgs []*capi.Msg
	deadline := time.Now().Add(10 * time.Second)
	for len(msgs) < want && time.Now().Before(deadline) {
		var running, numfds int
		require.Equal(t, capi.MCodeOK, e.MultiPerform(m, &running))
		require.Equal(t, capi.MCodeOK, e.MultiWait(m, 100*time.Millisecond, &numfds))
		for {
			var remaining int
			msg := e.MultiInfoRead(m, &remaining)
			if msg == nil {
				break
			}
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

// A multi handle runs its transfers and reports one message each.
func TestMultiTransfers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, r.URL.Path)
	}))
	defer srv.Close()
	e := newTestEngine()
	m := e.MultiInit()
	defer e.MultiCleanup(m)
	require.Equal(t, capi.MCodeOK, e.MultiSetopt(m, capi.MOptMaxTotalConnections, int64(1)))

	recs := map[capi.EasyHandle]*recorder{}
	for _, path := range []string{"/one", "/two"} {
		h := e.EasyInit()
		defer e.EasyCleanup(h)
		rec := newRecorder()
		rec.install(t, e, h)
		mustSetopt(t, e, h, capi.OptURL, srv.URL+path)
		require.Equal(t, capi.MCodeOK, e.MultiAddHandle(m, h))
		recs[h] = rec
	}

	msgs := drive(t, e, m, 2)

	require.Len(t, msgs, 2)
	got := map[string]bool{}
	for _, msg := range msgs {
		assert.Equal(t, capi.MsgDone, msg.Msg)
		assert.Equal(t, capi.CodeOK, msg.Result)
		got[recs[msg.Easy].bodyString()] = true
	}
	assert.Equal(t, map[string]bool{"/one": true, "/two": true}, got)
}

// Adding twice, performing while added and bad handles are refused.
func TestMultiErrors(t *testing.T) {
	e := newTestEngine()
	m := e.MultiInit()
	defer e.MultiCleanup(m)
	h := e.EasyInit()
	defer e.EasyCleanup(h)

	require.Equal(t, capi.MCodeOK, e.MultiAddHandle(m, h))
	assert.Equal(t, capi.MCodeAddedAlready, e.MultiAddHandle(m, h))
	assert.Equal(t, capi.CodeFailedInit, perform(e, h))
	assert.Equal(t, capi.MCodeBadEasyHandle, e.MultiAddHandle(m, capi.EasyHandle(1<<62)))
	assert.Equal(t, capi.MCodeBadHandle, e.MultiAddHandle(capi.MultiHandle(1<<62), h))
	assert.Equal(t, capi.MCodeUnknownOption, e.MultiSetopt(m, capi.MultiOption(999), int64(1)))
	require.Equal(t, capi.MCodeOK, e.MultiRemoveHandle(m, h))
	require.Equal(t, capi.MCodeOK, e.MultiRemoveHandle(m, h))
}

// Removing a handle from its own callback is refused.
func TestMultiRemoveFromCallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "hello")
	}))
	defer srv.Close()
	e := newTestEngine()
	m := e.MultiInit()
	defer e.MultiCleanup(m)
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	var nested capi.MCode
	mustSetopt(t, e, h, capi.OptURL, srv.URL)
	mustSetopt(t, e, h, capi.OptWriteFunction, capi.WriteCallback(
		func(ptr *byte, size, nmemb uintptr, userdata any) uintptr {
			nested = e.MultiRemoveHandle(m, h)
			return size * nmemb
		}))
	require.Equal(t, capi.MCodeOK, e.MultiAddHandle(m, h))

	msgs := drive(t, e, m, 1)

	require.Len(t, msgs, 1)
	assert.Equal(t, capi.CodeOK, msgs[0].Result)
	assert.Equal(t, capi.MCodeRecursiveAPICall, nested)
}

// Cleaning up an easy handle removes it from its multi handle.
func TestMultiEasyCleanup(t *testing.T) {
	e := newTestEngine()
	m := e.MultiInit()
	defer e.MultiCleanup(m)
	h := e.EasyInit()
	require.Equal(t, capi.MCodeOK, e.MultiAddHandle(m, h))

	e.EasyCleanup(h)

	var running int
	require.Equal(t, capi.MCodeOK, e.MultiPerform(m, &running))
	assert.Equal(t, 0, running)
}

// A callback may remove another transfer of the same multi handle.
func TestMultiRemoveOtherFromCallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "x")
		if r.URL.Path == "/slow" {
			w.(http.Flusher).Flush()
			<-r.Context().Done()
		}
	}))
	defer srv.Close()
	e := newTestEngine()
	m := e.MultiInit()
	defer e.MultiCleanup(m)

	slow := e.EasyInit()
	defer e.EasyCleanup(slow)
	mustSetopt(t, e, slow, capi.OptURL, srv.URL+"/slow")
	mustSetopt(t, e, slow, capi.OptWriteFunction, capi.WriteCallback(
		func(ptr *byte, size, nmemb uintptr, userdata any) uintptr {
			return size * nmemb
		}))

	fast := e.EasyInit()
	defer e.EasyCleanup(fast)
	nested := make(chan capi.MCode, 1)
	mustSetopt(t, e, fast, capi.OptURL, srv.URL+"/fast")
	mustSetopt(t, e, fast, capi.OptWriteFunction, capi.WriteCallback(
		func(ptr *byte, size, nmemb uintptr, userdata any) uintptr {
			// give the other transfer time to wait for the callback lock
			time.Sleep(500 * time.Millisecond)
			nested <- e.MultiRemoveHandle(m, slow)
			return size * nmemb
		}))
	require.Equal(t, capi.MCodeOK, e.MultiAddHandle(m, slow))
	require.Equal(t, capi.MCodeOK, e.MultiAddHandle(m, fast))

	var running int
	require.Equal(t, capi.MCodeOK, e.MultiPerform(m, &running))
	select {
	case code := <-nested:
		assert.Equal(t, capi.MCodeOK, code)
	case <-time.After(5 * time.Second):
		t.Fatal("removing a handle from a callback did not return")
	}

	msgs := drive(t, e, m, 1)
	require.Len(t, msgs, 1)
	assert.Equal(t, fast, msgs[0].Easy)
	assert.Equal(t, capi.CodeOK, msgs[0].Result)
}

// Wait does not report a completion already read with MultiInfoRead.
func TestMultiWaitAfterInfoRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "hello")
	}))
	defer srv.Close()
	e := newTestEngine()
	m := e.MultiInit()
	defer e.MultiCleanup(m)
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	mustSetopt(t, e, h, capi.OptURL, srv.URL)
	require.Equal(t, capi.MCodeOK, e.MultiAddHandle(m, h))
	require.Len(t, drive(t, e, m, 1), 1)

	numfds := -1
	t0 := time.Now()
	require.Equal(t, capi.MCodeOK, e.MultiWait(m, 100*time.Millisecond, &numfds))

	assert.Equal(t, 0, numfds)
	assert.GreaterOrEqual(t, time.Since(t0), 100*time.Millisecond)
}
