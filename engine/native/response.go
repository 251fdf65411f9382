// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"compress/gzip"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/bassosimone/xfer/capi"
)

// writeChunkSize is the maximum size passed to the write callback.
const writeChunkSize = 16 << 10

// supportedEncodings is the Accept-Encoding used for an empty option value.
const supportedEncodings = "gzip, deflate, br"

// responseHeaderLines returns the status line, the header lines and the
// terminating empty line, each ending with CRLF.
func responseHeaderLines(resp *http.Response) []string {
	var lines []string
	if resp.ProtoMajor == 2 {
		lines = append(lines, fmt.Sprintf("HTTP/2 %d \r\n", resp.StatusCode))
	} else {
		lines = append(lines, fmt.Sprintf("%s %s\r\n", resp.Proto, resp.Status))
	}
	if len(resp.TransferEncoding) > 0 {
		lines = append(lines, fmt.Sprintf("Transfer-Encoding: %s\r\n", strings.Join(resp.TransferEncoding, ", ")))
	}
	for _, key := range slices.Sorted(maps.Keys(resp.Header)) {
		for _, value := range resp.Header[key] {
			lines = append(lines, fmt.Sprintf("%s: %s\r\n", key, value))
		}
	}
	return append(lines, "\r\n")
}

// deliverHeaders passes each header line to the header callback.
func (t *transfer) deliverHeaders(resp *http.Response) capi.Code {
	fn := t.opts.headerFn
	for _, line := range responseHeaderLines(resp) {
		data := []byte(line)
		t.debug(capi.InfoHeaderIn, data)
		t.ez.updateInfo(func(info *transferInfo) { info.headerSize += int64(len(data)) })
		if fn == nil {
			continue
		}
		if !t.enter() {
			return t.interrupted()
		}
		rv := fn(dataPtr(data), 1, uintptr(len(data)), t.opts.headerData)
		t.leave()
		if rv != uintptr(len(data)) {
			return t.fail(capi.CodeWriteError, "Failed writing header")
		}
	}
	return capi.CodeOK
}

// countingReader counts the body bytes and remembers network errors.
type countingReader struct {
	r   io.Reader
	t   *transfer
	err error
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.t.dlNow.Add(int64(n))
		cr.t.ez.updateInfo(func(info *transferInfo) { info.sizeDownload += int64(n) })
	}
	if err != nil && !errors.Is(err, io.EOF) {
		cr.err = err
	}
	return n, err
}

// decoder wraps raw to undo the Content-Encoding when decoding is enabled.
func (t *transfer) decoder(resp *http.Response, raw io.Reader) (io.Reader, error) {
	if t.opts.acceptEncoding == nil {
		return raw, nil
	}
	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch encoding {
	case "", "identity":
		return raw, nil
	case "gzip", "x-gzip":
		return gzip.NewReader(raw)
	case "deflate":
		return zlib.NewReader(raw)
	case "br":
		return brotli.NewReader(raw), nil
	default:
		return nil, fmt.Errorf("unrecognized content encoding type %q", encoding)
	}
}

// deliverBody passes the response body to the write callback.
func (t *transfer) deliverBody(resp *http.Response) capi.Code {
	raw := &countingReader{r: resp.Body, t: t}
	reader, err := t.decoder(resp, raw)
	if errors.Is(err, io.EOF) {
		return t.progress()
	}
	if err != nil {
		return t.bodyFailure(raw, err)
	}

	buf := make([]byte, writeChunkSize)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			if code := t.write(buf[:n]); code.Failed() {
				return code
			}
		}
		if code := t.progress(); code.Failed() {
			return code
		}
		if errors.Is(err, io.EOF) {
			return capi.CodeOK
		}
		if err != nil {
			return t.bodyFailure(raw, err)
		}
	}
}

func (t *transfer) bodyFailure(raw *countingReader, err error) capi.Code {
	if raw.err != nil || t.ctx.Err() != nil {
		return t.fail(codeFor(t.ctx, phaseRecv, err), "%s", err.Error())
	}
	return t.fail(capi.CodeBadContentEncoding, "Error while processing content unencoding: %s", err.Error())
}

// write passes a chunk to the write callback, honoring pauses.
func (t *transfer) write(chunk []byte) capi.Code {
	t.debug(capi.InfoDataIn, chunk)
	fn := t.opts.writeFn
	if fn == nil {
		return capi.CodeOK
	}
	for {
		if code := t.waitUnpaused(capi.PauseRecv); code.Failed() {
			return code
		}
		if !t.enter() {
			return t.interrupted()
		}
		rv := fn(dataPtr(chunk), 1, uintptr(len(chunk)), t.opts.writeData)
		t.leave()
		switch rv {
		case uintptr(len(chunk)):
			return capi.CodeOK
		case capi.WriteFuncPause:
			t.ez.pause.add(capi.PauseRecv)
		default:
			return t.fail(capi.CodeWriteError, "Failure writing output to destination, passed %d returned %d", len(chunk), rv)
		}
	}
}
