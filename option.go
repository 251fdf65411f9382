// SPDX-License-Identifier: GPL-3.0-or-later

package xfer

import (
	"strings"
	"time"

	"github.com/bassosimone/xfer/capi"
)

// Setting is an easy option code paired with a value of the right type.
//
// Build settings with the constructors in this file and apply them
// with [EasyRef.Set].
type Setting struct {
	option capi.Option
	value  any
}

// Option returns the raw option code.
func (s Setting) Option() capi.Option {
	return s.option
}

// Value returns the raw value passed to the engine.
func (s Setting) Value() any {
	return s.value
}

func boolSetting(opt capi.Option, v bool) Setting {
	var n int64
	if v {
		n = 1
	}
	return Setting{opt, n}
}

func longSetting[T ~int64 | ~int](opt capi.Option, v T) Setting {
	return Setting{opt, int64(v)}
}

func millisSetting(opt capi.Option, d time.Duration) Setting {
	return Setting{opt, d.Milliseconds()}
}

// URL sets the URL to transfer.
func URL(u string) Setting {
	return Setting{capi.OptURL, u}
}

// Verbose enables debug events.
func Verbose(v bool) Setting {
	return boolSetting(capi.OptVerbose, v)
}

// FollowLocation enables following redirects.
func FollowLocation(v bool) Setting {
	return boolSetting(capi.OptFollowLocation, v)
}

// MaxRedirs limits the number of redirects followed. Use -1 for no limit.
func MaxRedirs(n int) Setting {
	return longSetting(capi.OptMaxRedirs, n)
}

// NoProgress disables progress events. It is true by default.
func NoProgress(v bool) Setting {
	return boolSetting(capi.OptNoProgress, v)
}

// NoBody sends a HEAD request.
func NoBody(v bool) Setting {
	return boolSetting(capi.OptNoBody, v)
}

// FailOnError fails the transfer when the status code is 400 or more.
func FailOnError(v bool) Setting {
	return boolSetting(capi.OptFailOnError, v)
}

// Filetime asks for the remote modification time, see [FileTime].
func Filetime(v bool) Setting {
	return boolSetting(capi.OptFiletime, v)
}

// Upload sends a PUT request whose body comes from the read handler.
func Upload(v bool) Setting {
	return boolSetting(capi.OptUpload, v)
}

// InFileSize sets the size of the upload body. Use -1 for unknown.
func InFileSize(n int64) Setting {
	return Setting{capi.OptInFileSizeLarge, n}
}

// PostFields sends a POST request with the given body.
func PostFields(body string) Setting {
	return Setting{capi.OptPostFields, body}
}

// CustomRequest overrides the request method.
func CustomRequest(method string) Setting {
	return Setting{capi.OptCustomRequest, method}
}

// HTTPHeader sets extra request headers as "Name: value" lines.
//
// "Name:" removes a header the engine would send and "Name;" sends an
// empty one.
func HTTPHeader(lines ...string) Setting {
	return Setting{capi.OptHTTPHeader, lines}
}

// UserAgent sets the User-Agent header.
func UserAgent(ua string) Setting {
	return Setting{capi.OptUserAgent, ua}
}

// UserPwd sets "user:password" credentials.
func UserPwd(userpwd string) Setting {
	return Setting{capi.OptUserPwd, userpwd}
}

// Username sets the user name.
func Username(user string) Setting {
	return Setting{capi.OptUsername, user}
}

// Password sets the password.
func Password(password string) Setting {
	return Setting{capi.OptPassword, password}
}

// BearerToken sets the token used with [capi.AuthBearer].
func BearerToken(token string) Setting {
	return Setting{capi.OptXOAuth2Bearer, token}
}

// HTTPAuth selects the allowed authentication schemes.
func HTTPAuth(flags AuthFlags) Setting {
	return longSetting(capi.OptHTTPAuth, flags)
}

// Netrc selects how the netrc file is used.
func Netrc(mode NetrcMode) Setting {
	return longSetting(capi.OptNetrc, mode)
}

// NetrcFile sets the netrc file path.
func NetrcFile(path string) Setting {
	return Setting{capi.OptNetrcFile, path}
}

// Timeout limits the whole transfer. Zero means no limit.
func Timeout(d time.Duration) Setting {
	return millisSetting(capi.OptTimeoutMS, d)
}

// ConnectTimeout limits name resolution plus connection setup. Zero
// means no limit.
func ConnectTimeout(d time.Duration) Setting {
	return millisSetting(capi.OptConnectTimeoutMS, d)
}

// SSLVerifyPeer enables certificate chain verification.
func SSLVerifyPeer(v bool) Setting {
	return boolSetting(capi.OptSSLVerifyPeer, v)
}

// SSLVerifyHost enables certificate host name verification.
func SSLVerifyHost(v bool) Setting {
	var n int64
	if v {
		n = 2
	}
	return Setting{capi.OptSSLVerifyHost, n}
}

// CAInfo sets the PEM file holding the trusted roots.
func CAInfo(path string) Setting {
	return Setting{capi.OptCAInfo, path}
}

// HTTPVersion selects the HTTP version.
func HTTPVersion(v HTTPVersionFlag) Setting {
	return longSetting(capi.OptHTTPVersion, v)
}

// AcceptEncoding sets the Accept-Encoding header and enables decoding.
// The empty string asks for every supported encoding.
func AcceptEncoding(encodings string) Setting {
	return Setting{capi.OptAcceptEncoding, encodings}
}

// ForbidReuse closes connections after each transfer.
func ForbidReuse(v bool) Setting {
	return boolSetting(capi.OptForbidReuse, v)
}

// FreshConnect forces a new connection.
func FreshConnect(v bool) Setting {
	return boolSetting(capi.OptFreshConnect, v)
}

// DoHURL resolves names using DNS over HTTPS at the given URL.
func DoHURL(u string) Setting {
	return Setting{capi.OptDoHURL, u}
}

// DNSServers resolves names using the given servers, each an IP address
// with an optional port.
func DNSServers(servers ...string) Setting {
	return Setting{capi.OptDNSServers, strings.Join(servers, ",")}
}

// ErrorBuffer makes the engine write a description of failures into buf.
// A nil buf disables it.
func ErrorBuffer(buf *capi.ErrorBuffer) Setting {
	if buf == nil {
		return Setting{capi.OptErrorBuffer, nil}
	}
	return Setting{capi.OptErrorBuffer, buf}
}

// Private stores a value readable with [PrivateInfo].
func Private(value string) Setting {
	return Setting{capi.OptPrivate, value}
}

// ShareWith attaches the handle to a share handle. The zero [ShareRef]
// detaches it.
func ShareWith(s ShareRef) Setting {
	if !s.Valid() {
		return Setting{capi.OptShare, nil}
	}
	return Setting{capi.OptShare, s.handle}
}
