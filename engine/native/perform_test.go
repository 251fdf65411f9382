// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/pem"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bassosimone/xfer/capi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A GET delivers the headers and body and fills the transfer info.
func TestPerformGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("X-Test", "yes")
		fmt.Fprint(w, "hello")
	}))
	defer srv.Close()
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	rec := newRecorder()
	rec.install(t, e, h)
	mustSetopt(t, e, h, capi.OptURL, srv.URL+"/path")

	require.Equal(t, capi.CodeOK, perform(e, h))

	assert.Equal(t, "hello", rec.bodyString())
	require.NotEmpty(t, rec.headers)
	assert.Equal(t, "HTTP/1.1 200 OK\r\n", rec.headers[0])
	assert.Contains(t, rec.headers, "X-Test: yes\r\n")
	assert.Equal(t, "\r\n", rec.headers[len(rec.headers)-1])
	assert.Equal(t, int64(200), getinfo[int64](t, e, h, capi.InfoResponseCode))
	assert.Equal(t, srv.URL+"/path", getinfo[string](t, e, h, capi.InfoEffectiveURL))
	assert.Equal(t, "text/plain", getinfo[string](t, e, h, capi.InfoContentType))
	assert.Equal(t, int64(5), getinfo[int64](t, e, h, capi.InfoSizeDownloadT))
	assert.Equal(t, int64(1), getinfo[int64](t, e, h, capi.InfoNumConnects))
	assert.Equal(t, "127.0.0.1", getinfo[string](t, e, h, capi.InfoPrimaryIP))
	assert.Equal(t, int64(capi.HTTPVersion1_1), getinfo[int64](t, e, h, capi.InfoHTTPVersion))
	assert.Positive(t, getinfo[int64](t, e, h, capi.InfoHeaderSize))
	assert.Positive(t, getinfo[int64](t, e, h, capi.InfoTotalTimeT))
	assert.Equal(t, int64(-1), getinfo[int64](t, e, h, capi.InfoFiletimeT))

	// no debug or progress events unless enabled
	assert.Empty(t, rec.debug)
	assert.Zero(t, rec.progress)
}

// Verbose and progress enable the corresponding events.
func TestPerformVerboseProgress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "hello")
	}))
	defer srv.Close()
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	rec := newRecorder()
	rec.install(t, e, h)
	mustSetopt(t, e, h, capi.OptURL, srv.URL)
	mustSetopt(t, e, h, capi.OptVerbose, int64(1))
	mustSetopt(t, e, h, capi.OptNoProgress, int64(0))

	require.Equal(t, capi.CodeOK, perform(e, h))

	for _, typ := range []capi.InfoType{capi.InfoText, capi.InfoHeaderOut, capi.InfoHeaderIn, capi.InfoDataIn} {
		assert.Positive(t, rec.debug[typ], typ.String())
	}
	assert.Positive(t, rec.progress)
}

// Following redirects delivers the headers of every hop.
func TestPerformRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/b", http.StatusFound)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "landed")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	t.Run("followed", func(t *testing.T) {
		e := newTestEngine()
		h := e.EasyInit()
		defer e.EasyCleanup(h)
		rec := newRecorder()
		rec.install(t, e, h)
		mustSetopt(t, e, h, capi.OptURL, srv.URL+"/a")
		mustSetopt(t, e, h, capi.OptFollowLocation, int64(1))

		require.Equal(t, capi.CodeOK, perform(e, h))

		assert.Equal(t, "landed", rec.bodyString())
		assert.Equal(t, "HTTP/1.1 302 Found\r\n", rec.headers[0])
		assert.Contains(t, rec.headers, "HTTP/1.1 200 OK\r\n")
		assert.Equal(t, int64(1), getinfo[int64](t, e, h, capi.InfoRedirectCount))
		assert.Equal(t, srv.URL+"/b", getinfo[string](t, e, h, capi.InfoEffectiveURL))
		assert.Equal(t, "", getinfo[string](t, e, h, capi.InfoRedirectURL))
	})

	t.Run("not followed", func(t *testing.T) {
		e := newTestEngine()
		h := e.EasyInit()
		defer e.EasyCleanup(h)
		mustSetopt(t, e, h, capi.OptURL, srv.URL+"/a")

		require.Equal(t, capi.CodeOK, perform(e, h))

		assert.Equal(t, int64(302), getinfo[int64](t, e, h, capi.InfoResponseCode))
		assert.Equal(t, srv.URL+"/b", getinfo[string](t, e, h, capi.InfoRedirectURL))
		assert.Equal(t, int64(0), getinfo[int64](t, e, h, capi.InfoRedirectCount))
	})
}

// The redirect limit stops redirect loops.
func TestPerformTooManyRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusMovedPermanently)
	}))
	defer srv.Close()
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	var buf capi.ErrorBuffer
	mustSetopt(t, e, h, capi.OptURL, srv.URL)
	mustSetopt(t, e, h, capi.OptFollowLocation, int64(1))
	mustSetopt(t, e, h, capi.OptMaxRedirs, int64(2))
	mustSetopt(t, e, h, capi.OptErrorBuffer, &buf)

	assert.Equal(t, capi.CodeTooManyRedirects, perform(e, h))
	assert.Equal(t, "Maximum (2) redirects followed", buf.String())
	assert.Equal(t, int64(2), getinfo[int64](t, e, h, capi.InfoRedirectCount))
}

// FAILONERROR turns error statuses into a failure.
func TestPerformFailOnError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	var buf capi.ErrorBuffer
	mustSetopt(t, e, h, capi.OptURL, srv.URL)
	mustSetopt(t, e, h, capi.OptErrorBuffer, &buf)

	require.Equal(t, capi.CodeOK, perform(e, h))
	assert.Equal(t, int64(404), getinfo[int64](t, e, h, capi.InfoResponseCode))

	mustSetopt(t, e, h, capi.OptFailOnError, int64(1))
	assert.Equal(t, capi.CodeHTTPReturnedError, perform(e, h))
	assert.Equal(t, "The requested URL returned error: 404", buf.String())
}

// An upload redirected with 307 is rewound through the seek callback.
func TestPerformUploadRewind(t *testing.T) {
	var final []byte
	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		io.ReadAll(r.Body)
		http.Redirect(w, r, "/final", http.StatusTemporaryRedirect)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		final, _ = io.ReadAll(r.Body)
		fmt.Fprint(w, r.Method)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	rec := newRecorder()
	rec.install(t, e, h)
	src := &uploadSource{data: []byte("payload")}
	mustSetopt(t, e, h, capi.OptURL, srv.URL+"/up")
	mustSetopt(t, e, h, capi.OptFollowLocation, int64(1))
	mustSetopt(t, e, h, capi.OptUpload, int64(1))
	mustSetopt(t, e, h, capi.OptInFileSizeLarge, int64(len(src.data)))
	mustSetopt(t, e, h, capi.OptReadFunction, capi.ReadCallback(sourceRead))
	mustSetopt(t, e, h, capi.OptReadData, src)
	mustSetopt(t, e, h, capi.OptSeekFunction, capi.SeekCallback(sourceSeek))
	mustSetopt(t, e, h, capi.OptSeekData, src)

	require.Equal(t, capi.CodeOK, perform(e, h))

	assert.Equal(t, "PUT", rec.bodyString())
	assert.Equal(t, "payload", string(final))
	assert.Equal(t, 1, src.seeks)
	assert.Equal(t, int64(7), getinfo[int64](t, e, h, capi.InfoSizeUploadT))
}

// An upload that cannot be rewound fails with SEND_FAIL_REWIND.
func TestPerformUploadNoSeek(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.ReadAll(r.Body)
		http.Redirect(w, r, "/again", http.StatusPermanentRedirect)
	}))
	defer srv.Close()
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	src := &uploadSource{data: []byte("payload")}
	mustSetopt(t, e, h, capi.OptURL, srv.URL)
	mustSetopt(t, e, h, capi.OptFollowLocation, int64(1))
	mustSetopt(t, e, h, capi.OptUpload, int64(1))
	mustSetopt(t, e, h, capi.OptInFileSizeLarge, int64(len(src.data)))
	mustSetopt(t, e, h, capi.OptReadFunction, capi.ReadCallback(sourceRead))
	mustSetopt(t, e, h, capi.OptReadData, src)

	assert.Equal(t, capi.CodeSendFailRewind, perform(e, h))
}

// POSTFIELDS sends a form body.
func TestPerformPostFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fmt.Fprintf(w, "%s %s %s", r.Method, r.Header.Get("Content-Type"), body)
	}))
	defer srv.Close()
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	rec := newRecorder()
	rec.install(t, e, h)
	mustSetopt(t, e, h, capi.OptURL, srv.URL)
	mustSetopt(t, e, h, capi.OptPostFields, "a=1&b=2")

	require.Equal(t, capi.CodeOK, perform(e, h))
	assert.Equal(t, "POST application/x-www-form-urlencoded a=1&b=2", rec.bodyString())
}

// Custom headers, authentication and the user agent reach the server.
func TestPerformRequestHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ := r.BasicAuth()
		fmt.Fprintf(w, "%s|%s:%s|%s|%q", r.Header.Get("X-Custom"), user, pass,
			r.Header.Get("User-Agent"), r.Header.Values("X-Empty"))
	}))
	defer srv.Close()
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	rec := newRecorder()
	rec.install(t, e, h)
	mustSetopt(t, e, h, capi.OptURL, srv.URL)
	mustSetopt(t, e, h, capi.OptUserPwd, "alice:secret")
	mustSetopt(t, e, h, capi.OptUserAgent, "xfer-test")
	mustSetopt(t, e, h, capi.OptHTTPHeader, []string{"X-Custom: 1", "X-Empty;"})

	require.Equal(t, capi.CodeOK, perform(e, h))
	assert.Equal(t, `1|alice:secret|xfer-test|[""]`, rec.bodyString())
}

// A bearer token is sent when the bearer scheme is allowed.
func TestPerformBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, r.Header.Get("Authorization"))
	}))
	defer srv.Close()
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	rec := newRecorder()
	rec.install(t, e, h)
	mustSetopt(t, e, h, capi.OptURL, srv.URL)
	mustSetopt(t, e, h, capi.OptHTTPAuth, int64(capi.AuthBearer))
	mustSetopt(t, e, h, capi.OptXOAuth2Bearer, "tok")

	require.Equal(t, capi.CodeOK, perform(e, h))
	assert.Equal(t, "Bearer tok", rec.bodyString())
}

// The body is decoded when ACCEPT_ENCODING is set.
func TestPerformDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		fmt.Fprint(gz, "compressed")
		gz.Close()
	}))
	defer srv.Close()
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	rec := newRecorder()
	rec.install(t, e, h)
	mustSetopt(t, e, h, capi.OptURL, srv.URL)
	mustSetopt(t, e, h, capi.OptAcceptEncoding, "")

	require.Equal(t, capi.CodeOK, perform(e, h))
	assert.Equal(t, "compressed", rec.bodyString())
}

// A write callback returning less than the chunk size fails the transfer.
func TestPerformWriteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "hello")
	}))
	defer srv.Close()
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	mustSetopt(t, e, h, capi.OptURL, srv.URL)
	mustSetopt(t, e, h, capi.OptWriteFunction, capi.WriteCallback(
		func(ptr *byte, size, nmemb uintptr, userdata any) uintptr { return 0 }))

	assert.Equal(t, capi.CodeWriteError, perform(e, h))
}

// A progress callback returning non-zero aborts the transfer.
func TestPerformProgressAbort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "hello")
	}))
	defer srv.Close()
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	var buf capi.ErrorBuffer
	mustSetopt(t, e, h, capi.OptURL, srv.URL)
	mustSetopt(t, e, h, capi.OptErrorBuffer, &buf)
	mustSetopt(t, e, h, capi.OptNoProgress, int64(0))
	mustSetopt(t, e, h, capi.OptXferInfoFunction, capi.XferInfoCallback(
		func(userdata any, dltotal, dlnow, ultotal, ulnow int64) int { return 1 }))

	assert.Equal(t, capi.CodeAbortedByCallback, perform(e, h))
	assert.Equal(t, "Callback aborted", buf.String())
}

// A paused transfer resumes after EasyPause with PauseCont.
func TestPerformPause(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "hello")
	}))
	defer srv.Close()
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	ez, found := e.lookupEasy(h)
	require.True(t, found)

	var (
		calls int
		got   []byte
	)
	mustSetopt(t, e, h, capi.OptURL, srv.URL)
	mustSetopt(t, e, h, capi.OptWriteFunction, capi.WriteCallback(
		func(ptr *byte, size, nmemb uintptr, userdata any) uintptr {
			calls++
			if calls == 1 {
				go func() {
					for !ez.pause.paused(capi.PauseRecv) {
						time.Sleep(time.Millisecond)
					}
					e.EasyPause(h, capi.PauseCont)
				}()
				return capi.WriteFuncPause
			}
			got = append(got, bytesAt(ptr, size*nmemb)...)
			return size * nmemb
		}))

	require.Equal(t, capi.CodeOK, perform(e, h))
	assert.Equal(t, 2, calls)
	assert.Equal(t, "hello", string(got))
}

// TIMEOUT_MS bounds the whole transfer.
func TestPerformTimeout(t *testing.T) {
	unblock := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-unblock
	}))
	defer srv.Close()
	defer close(unblock)
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	mustSetopt(t, e, h, capi.OptURL, srv.URL)
	mustSetopt(t, e, h, capi.OptTimeoutMS, int64(100))

	assert.Equal(t, capi.CodeOperationTimedOut, perform(e, h))
}

// Canceling the context aborts the transfer.
func TestPerformCanceled(t *testing.T) {
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	mustSetopt(t, e, h, capi.OptURL, "http://127.0.0.1:1/")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, capi.CodeAbortedByCallback, e.EasyPerform(ctx, h))
}

// Malformed and unsupported URLs fail before connecting.
func TestPerformBadURL(t *testing.T) {
	tests := []struct {
		// name describes what this test case verifies.
		name string

		// url is the URL option.
		url string

		// want is the expected code.
		want capi.Code
	}{
		{name: "empty", url: "", want: capi.CodeURLMalformat},
		{name: "no host", url: "http://", want: capi.CodeURLMalformat},
		{name: "unsupported scheme", url: "ftp://example.com/", want: capi.CodeUnsupportedProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			h := e.EasyInit()
			defer e.EasyCleanup(h)
			mustSetopt(t, e, h, capi.OptURL, tt.url)
			assert.Equal(t, tt.want, perform(e, h))
		})
	}
}

// A refused connection maps to COULDNT_CONNECT.
func TestPerformCouldntConnect(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	address := ln.Addr().String()
	ln.Close()
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	mustSetopt(t, e, h, capi.OptURL, "http://"+address+"/")

	assert.Equal(t, capi.CodeCouldntConnect, perform(e, h))
}

// Calling perform from a callback of the same handle is refused.
func TestPerformRecursive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "hello")
	}))
	defer srv.Close()
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	var nested capi.Code
	mustSetopt(t, e, h, capi.OptURL, srv.URL)
	mustSetopt(t, e, h, capi.OptWriteFunction, capi.WriteCallback(
		func(ptr *byte, size, nmemb uintptr, userdata any) uintptr {
			nested = perform(e, h)
			return size * nmemb
		}))

	require.Equal(t, capi.CodeOK, perform(e, h))
	assert.Equal(t, capi.CodeRecursiveAPICall, nested)
}

// Connections are reused across transfers unless reuse is forbidden.
func TestPerformConnectionReuse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "hello")
	}))
	defer srv.Close()
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	mustSetopt(t, e, h, capi.OptURL, srv.URL)

	require.Equal(t, capi.CodeOK, perform(e, h))
	assert.Equal(t, int64(1), getinfo[int64](t, e, h, capi.InfoNumConnects))
	require.Equal(t, capi.CodeOK, perform(e, h))
	assert.Equal(t, int64(0), getinfo[int64](t, e, h, capi.InfoNumConnects))

	mustSetopt(t, e, h, capi.OptFreshConnect, int64(1))
	require.Equal(t, capi.CodeOK, perform(e, h))
	assert.Equal(t, int64(1), getinfo[int64](t, e, h, capi.InfoNumConnects))
}

// writeCAFile stores the server certificate as a PEM file.
func writeCAFile(t *testing.T, srv *httptest.Server) string {
	path := filepath.Join(t.TempDir(), "ca.pem")
	data := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

// HTTPS transfers verify the peer against CAINFO and negotiate h2.
func TestPerformTLS(t *testing.T) {
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, r.Proto)
	}))
	srv.EnableHTTP2 = true
	srv.StartTLS()
	defer srv.Close()

	t.Run("untrusted", func(t *testing.T) {
		e := newTestEngine()
		h := e.EasyInit()
		defer e.EasyCleanup(h)
		mustSetopt(t, e, h, capi.OptURL, srv.URL)
		assert.Equal(t, capi.CodePeerFailedVerification, perform(e, h))
	})

	t.Run("trusted", func(t *testing.T) {
		e := newTestEngine()
		h := e.EasyInit()
		defer e.EasyCleanup(h)
		rec := newRecorder()
		rec.install(t, e, h)
		mustSetopt(t, e, h, capi.OptURL, srv.URL)
		mustSetopt(t, e, h, capi.OptCAInfo, writeCAFile(t, srv))
		mustSetopt(t, e, h, capi.OptVerbose, int64(1))

		require.Equal(t, capi.CodeOK, perform(e, h))
		assert.Equal(t, "HTTP/2.0", rec.bodyString())
		assert.Equal(t, "HTTP/2 200 \r\n", rec.headers[0])
		assert.Equal(t, int64(capi.HTTPVersion2_0), getinfo[int64](t, e, h, capi.InfoHTTPVersion))
		assert.Positive(t, getinfo[int64](t, e, h, capi.InfoAppConnectTimeT))
		assert.Positive(t, rec.debug[capi.InfoSSLDataIn])
		assert.Positive(t, rec.debug[capi.InfoSSLDataOut])
	})

	t.Run("http/1.1 only", func(t *testing.T) {
		e := newTestEngine()
		h := e.EasyInit()
		defer e.EasyCleanup(h)
		rec := newRecorder()
		rec.install(t, e, h)
		mustSetopt(t, e, h, capi.OptURL, srv.URL)
		mustSetopt(t, e, h, capi.OptCAInfo, writeCAFile(t, srv))
		mustSetopt(t, e, h, capi.OptHTTPVersion, int64(capi.HTTPVersion1_1))

		require.Equal(t, capi.CodeOK, perform(e, h))
		assert.Equal(t, "HTTP/1.1", rec.bodyString())
	})

	t.Run("verification disabled", func(t *testing.T) {
		e := newTestEngine()
		h := e.EasyInit()
		defer e.EasyCleanup(h)
		mustSetopt(t, e, h, capi.OptURL, srv.URL)
		mustSetopt(t, e, h, capi.OptSSLVerifyPeer, int64(0))
		assert.Equal(t, capi.CodeOK, perform(e, h))
	})

	t.Run("bad CA file", func(t *testing.T) {
		e := newTestEngine()
		h := e.EasyInit()
		defer e.EasyCleanup(h)
		mustSetopt(t, e, h, capi.OptURL, srv.URL)
		mustSetopt(t, e, h, capi.OptCAInfo, filepath.Join(t.TempDir(), "missing.pem"))
		assert.Equal(t, capi.CodeSSLCACertBadFile, perform(e, h))
	})
}

// A HEAD request delivers headers only.
func TestPerformHead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Last-Modified", "Mon, 02 Jan 2006 15:04:05 GMT")
		fmt.Fprint(w, strings.Repeat("x", 10))
	}))
	defer srv.Close()
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	rec := newRecorder()
	rec.install(t, e, h)
	mustSetopt(t, e, h, capi.OptURL, srv.URL)
	mustSetopt(t, e, h, capi.OptNoBody, int64(1))
	mustSetopt(t, e, h, capi.OptFiletime, int64(1))

	require.Equal(t, capi.CodeOK, perform(e, h))
	assert.Empty(t, rec.bodyString())
	assert.NotEmpty(t, rec.headers)
	assert.Equal(t, int64(1136214245), getinfo[int64](t, e, h, capi.InfoFiletimeT))
}

// A large body is delivered in bounded chunks.
func TestPerformChunks(t *testing.T) {
	payload := bytes.Repeat([]byte("abcdefgh"), 8<<10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	var (
		got     []byte
		largest uintptr
	)
	mustSetopt(t, e, h, capi.OptURL, srv.URL)
	mustSetopt(t, e, h, capi.OptWriteFunction, capi.WriteCallback(
		func(ptr *byte, size, nmemb uintptr, userdata any) uintptr {
			largest = max(largest, size*nmemb)
			got = append(got, bytesAt(ptr, size*nmemb)...)
			return size * nmemb
		}))

	require.Equal(t, capi.CodeOK, perform(e, h))
	assert.Equal(t, payload, got)
	assert.LessOrEqual(t, largest, uintptr(writeChunkSize))
}
