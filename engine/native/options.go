// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"net"
	"net/netip"
	"slices"
	"strings"
	"time"

	"github.com/bassosimone/xfer/capi"
)

// options contains the value of every easy handle option.
type options struct {
	url            string
	verbose        bool
	noProgress     bool
	noBody         bool
	failOnError    bool
	upload         bool
	followLocation bool
	maxRedirs      int64
	postFields     *string
	customRequest  string
	userAgent      string
	headers        []string
	userPwd        string
	username       string
	password       string
	bearer         string
	httpAuth       capi.AuthFlags
	netrc          capi.NetrcMode
	netrcFile      string
	inFileSize     int64
	timeout        time.Duration
	connectTimeout time.Duration
	verifyPeer     bool
	verifyHost     bool
	caInfo         string
	httpVersion    capi.HTTPVersion

	// acceptEncoding is nil when content decoding is disabled
	acceptEncoding *string

	forbidReuse  bool
	freshConnect bool
	filetime     bool
	dohURL       string
	dnsServers   []netip.AddrPort
	errorBuffer  *capi.ErrorBuffer
	private      string
	share        *share

	writeFn    capi.WriteCallback
	writeData  any
	readFn     capi.ReadCallback
	readData   any
	headerFn   capi.HeaderCallback
	headerData any
	debugFn    capi.DebugCallback
	debugData  any
	seekFn     capi.SeekCallback
	seekData   any
	xferFn     capi.XferInfoCallback
	xferData   any
}

// defaultOptions returns the options of a new or reset handle.
func defaultOptions() options {
	return options{
		noProgress:  true,
		maxRedirs:   30,
		httpAuth:    capi.AuthBasic,
		inFileSize:  -1,
		verifyPeer:  true,
		verifyHost:  true,
		httpVersion: capi.HTTPVersion2TLS,
	}
}

// clone returns a deep copy of the options.
func (o *options) clone() options {
	out := *o
	out.headers = slices.Clone(o.headers)
	out.dnsServers = slices.Clone(o.dnsServers)
	if o.postFields != nil {
		v := *o.postFields
		out.postFields = &v
	}
	if o.acceptEncoding != nil {
		v := *o.acceptEncoding
		out.acceptEncoding = &v
	}
	return out
}

// setFunc stores a raw callback, where nil restores the built-in behavior.
func setFunc[F any](dst *F, value any) capi.Code {
	if value == nil {
		var zero F
		*dst = zero
		return capi.CodeOK
	}
	fn, ok := value.(F)
	if !ok {
		return capi.CodeBadFunctionArgument
	}
	*dst = fn
	return capi.CodeOK
}

func asLong(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	default:
		return 0, false
	}
}

func setLong[T ~int64](dst *T, value any) capi.Code {
	v, ok := asLong(value)
	if !ok {
		return capi.CodeBadFunctionArgument
	}
	*dst = T(v)
	return capi.CodeOK
}

func setBool(dst *bool, value any) capi.Code {
	v, ok := asLong(value)
	if !ok {
		return capi.CodeBadFunctionArgument
	}
	*dst = v != 0
	return capi.CodeOK
}

func setMillis(dst *time.Duration, value any) capi.Code {
	v, ok := asLong(value)
	if !ok || v < 0 {
		return capi.CodeBadFunctionArgument
	}
	*dst = time.Duration(v) * time.Millisecond
	return capi.CodeOK
}

func setString(dst *string, value any) capi.Code {
	if value == nil {
		*dst = ""
		return capi.CodeOK
	}
	v, ok := value.(string)
	if !ok {
		return capi.CodeBadFunctionArgument
	}
	*dst = v
	return capi.CodeOK
}

// setStringPtr stores a string option whose absence differs from "".
func setStringPtr(dst **string, value any) capi.Code {
	if value == nil {
		*dst = nil
		return capi.CodeOK
	}
	v, ok := value.(string)
	if !ok {
		return capi.CodeBadFunctionArgument
	}
	*dst = &v
	return capi.CodeOK
}

func setStrings(dst *[]string, value any) capi.Code {
	if value == nil {
		*dst = nil
		return capi.CodeOK
	}
	v, ok := value.([]string)
	if !ok {
		return capi.CodeBadFunctionArgument
	}
	*dst = slices.Clone(v)
	return capi.CodeOK
}

// parseDNSServers parses a comma separated list of IP addresses with an
// optional port, defaulting to 53.
func parseDNSServers(value string) ([]netip.AddrPort, bool) {
	var out []netip.AddrPort
	for entry := range strings.SplitSeq(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if ap, err := netip.ParseAddrPort(entry); err == nil {
			out = append(out, ap)
			continue
		}
		addr, err := netip.ParseAddr(strings.Trim(entry, "[]"))
		if err != nil {
			return nil, false
		}
		out = append(out, netip.AddrPortFrom(addr, 53))
	}
	return out, true
}

// formatAddrPort splits a "host:port" string into its components.
func formatAddrPort(address string) (ip string, port int64) {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		host, _, _ := net.SplitHostPort(address)
		return host, 0
	}
	return ap.Addr().Unmap().String(), int64(ap.Port())
}
