// SPDX-License-Identifier: GPL-3.0-or-later

package xfer

import (
	"time"

	"github.com/bassosimone/xfer/capi"
)

// Info is an info code paired with the Go type it reads as. Read it
// with [Get].
type Info[T any] struct {
	code capi.Info
	read func(engine capi.Engine, h capi.EasyHandle) (T, error)
}

// Code returns the raw info code.
func (i Info[T]) Code() capi.Info {
	return i.code
}

// rawInfo reads code into a value of its raw type R and converts it.
func rawInfo[R, T any](code capi.Info, convert func(R) T) Info[T] {
	return Info[T]{
		code: code,
		read: func(engine capi.Engine, h capi.EasyHandle) (T, error) {
			var raw R
			if err := engine.EasyGetinfo(h, code, &raw).Err(); err != nil {
				var zero T
				return zero, err
			}
			return convert(raw), nil
		},
	}
}

func identity[T any](v T) T {
	return v
}

func stringInfo(code capi.Info) Info[string] {
	return rawInfo(code, identity[string])
}

func intInfo(code capi.Info) Info[int] {
	return rawInfo(code, func(v int64) int { return int(v) })
}

func int64Info(code capi.Info) Info[int64] {
	return rawInfo(code, identity[int64])
}

// durationInfo reads a time expressed in microseconds.
func durationInfo(code capi.Info) Info[time.Duration] {
	return rawInfo(code, func(v int64) time.Duration { return time.Duration(v) * time.Microsecond })
}

// Transfer information.
var (
	EffectiveURL      = stringInfo(capi.InfoEffectiveURL)
	ResponseCode      = intInfo(capi.InfoResponseCode)
	HTTPConnectCode   = intInfo(capi.InfoHTTPConnectCode)
	ContentType       = stringInfo(capi.InfoContentType)
	RedirectCount     = intInfo(capi.InfoRedirectCount)
	RedirectURL       = stringInfo(capi.InfoRedirectURL)
	PrimaryIP         = stringInfo(capi.InfoPrimaryIP)
	PrimaryPort       = intInfo(capi.InfoPrimaryPort)
	LocalIP           = stringInfo(capi.InfoLocalIP)
	LocalPort         = intInfo(capi.InfoLocalPort)
	NumConnects       = intInfo(capi.InfoNumConnects)
	HeaderSize        = int64Info(capi.InfoHeaderSize)
	RequestSize       = int64Info(capi.InfoRequestSize)
	SizeDownload      = int64Info(capi.InfoSizeDownloadT)
	SizeUpload        = int64Info(capi.InfoSizeUploadT)
	TotalTime         = durationInfo(capi.InfoTotalTimeT)
	NameLookupTime    = durationInfo(capi.InfoNameLookupTimeT)
	ConnectTime       = durationInfo(capi.InfoConnectTimeT)
	AppConnectTime    = durationInfo(capi.InfoAppConnectTimeT)
	PreTransferTime   = durationInfo(capi.InfoPreTransferTimeT)
	StartTransferTime = durationInfo(capi.InfoStartTransferTimeT)
	RedirectTime      = durationInfo(capi.InfoRedirectTimeT)

	// HTTPVersionInfo is the HTTP version used by the last request.
	HTTPVersionInfo = rawInfo(capi.InfoHTTPVersion, func(v int64) HTTPVersionFlag { return HTTPVersionFlag(v) })

	// FileTime is the remote modification time when [Filetime] is set
	// and the server sent one, or the zero time.
	FileTime = rawInfo(capi.InfoFiletimeT, func(v int64) time.Time {
		if v < 0 {
			return time.Time{}
		}
		return time.Unix(v, 0)
	})

	// PrivateInfo is the value set with [Private].
	PrivateInfo = stringInfo(capi.InfoPrivate)
)
