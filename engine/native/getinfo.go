// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"time"

	"github.com/bassosimone/xfer/capi"
)

// transferInfo contains the results of the last transfer.
type transferInfo struct {
	effectiveURL  string
	responseCode  int64
	httpVersion   capi.HTTPVersion
	contentType   string
	filetime      int64
	redirectCount int64
	redirectURL   string
	sizeDownload  int64
	sizeUpload    int64
	headerSize    int64
	requestSize   int64
	primaryIP     string
	primaryPort   int64
	localIP       string
	localPort     int64
	numConnects   int64

	totalTime         time.Duration
	nameLookupTime    time.Duration
	connectTime       time.Duration
	appConnectTime    time.Duration
	preTransferTime   time.Duration
	startTransferTime time.Duration
	redirectTime      time.Duration
}

func (ti *transferInfo) reset() {
	*ti = transferInfo{filetime: -1}
}

func (ez *easy) getinfo(info capi.Info, out any) capi.Code {
	ez.mu.Lock()
	defer ez.mu.Unlock()
	ti := &ez.info

	switch info.Type() {
	case capi.InfoTypeString:
		var value string
		switch info {
		case capi.InfoEffectiveURL:
			value = ti.effectiveURL
		case capi.InfoContentType:
			value = ti.contentType
		case capi.InfoRedirectURL:
			value = ti.redirectURL
		case capi.InfoPrimaryIP:
			value = ti.primaryIP
		case capi.InfoLocalIP:
			value = ti.localIP
		case capi.InfoPrivate:
			value = ez.opts.private
		default:
			return capi.CodeUnknownOption
		}
		return store(out, value)

	case capi.InfoTypeLong:
		var value int64
		switch info {
		case capi.InfoResponseCode:
			value = ti.responseCode
		case capi.InfoHeaderSize:
			value = ti.headerSize
		case capi.InfoRequestSize:
			value = ti.requestSize
		case capi.InfoRedirectCount:
			value = ti.redirectCount
		case capi.InfoHTTPConnectCode:
			value = 0
		case capi.InfoNumConnects:
			value = ti.numConnects
		case capi.InfoPrimaryPort:
			value = ti.primaryPort
		case capi.InfoLocalPort:
			value = ti.localPort
		case capi.InfoHTTPVersion:
			value = int64(ti.httpVersion)
		default:
			return capi.CodeUnknownOption
		}
		return store(out, value)

	case capi.InfoTypeDouble:
		if info != capi.InfoTotalTime {
			return capi.CodeUnknownOption
		}
		return store(out, ti.totalTime.Seconds())

	case capi.InfoTypeOffT:
		var value int64
		switch info {
		case capi.InfoSizeDownloadT:
			value = ti.sizeDownload
		case capi.InfoSizeUploadT:
			value = ti.sizeUpload
		case capi.InfoFiletimeT:
			value = ti.filetime
		case capi.InfoTotalTimeT:
			value = ti.totalTime.Microseconds()
		case capi.InfoNameLookupTimeT:
			value = ti.nameLookupTime.Microseconds()
		case capi.InfoConnectTimeT:
			value = ti.connectTime.Microseconds()
		case capi.InfoAppConnectTimeT:
			value = ti.appConnectTime.Microseconds()
		case capi.InfoPreTransferTimeT:
			value = ti.preTransferTime.Microseconds()
		case capi.InfoStartTransferTimeT:
			value = ti.startTransferTime.Microseconds()
		case capi.InfoRedirectTimeT:
			value = ti.redirectTime.Microseconds()
		default:
			return capi.CodeUnknownOption
		}
		return store(out, value)

	default:
		return capi.CodeUnknownOption
	}
}

// store writes value into out, which must be a non-nil *T.
func store[T any](out any, value T) capi.Code {
	ptr, ok := out.(*T)
	if !ok || ptr == nil {
		return capi.CodeBadFunctionArgument
	}
	*ptr = value
	return capi.CodeOK
}
