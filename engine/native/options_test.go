// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"net/netip"
	"testing"
	"time"

	"github.com/bassosimone/xfer/capi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// EasySetopt checks the value type of each option.
func TestEasySetopt(t *testing.T) {
	tests := []struct {
		// name describes what this test case verifies.
		name string

		// opt and value are the option to set.
		opt   capi.Option
		value any

		// want is the expected code.
		want capi.Code
	}{
		{name: "string", opt: capi.OptURL, value: "http://x/", want: capi.CodeOK},
		{name: "string reset", opt: capi.OptURL, value: nil, want: capi.CodeOK},
		{name: "string wrong type", opt: capi.OptURL, value: 1, want: capi.CodeBadFunctionArgument},
		{name: "long as int64", opt: capi.OptVerbose, value: int64(1), want: capi.CodeOK},
		{name: "long as int", opt: capi.OptMaxRedirs, value: 3, want: capi.CodeOK},
		{name: "long wrong type", opt: capi.OptVerbose, value: true, want: capi.CodeBadFunctionArgument},
		{name: "negative timeout", opt: capi.OptTimeoutMS, value: int64(-1), want: capi.CodeBadFunctionArgument},
		{name: "string list", opt: capi.OptHTTPHeader, value: []string{"A: b"}, want: capi.CodeOK},
		{name: "dns servers", opt: capi.OptDNSServers, value: "8.8.8.8,[::1]:5353", want: capi.CodeOK},
		{name: "bad dns servers", opt: capi.OptDNSServers, value: "dns.google", want: capi.CodeBadFunctionArgument},
		{name: "error buffer", opt: capi.OptErrorBuffer, value: &capi.ErrorBuffer{}, want: capi.CodeOK},
		{name: "error buffer wrong type", opt: capi.OptErrorBuffer, value: []byte{}, want: capi.CodeBadFunctionArgument},
		{name: "nil callback", opt: capi.OptWriteFunction, value: nil, want: capi.CodeOK},
		{name: "callback wrong type", opt: capi.OptWriteFunction, value: capi.ReadCallback(nil), want: capi.CodeBadFunctionArgument},
		{name: "opaque data", opt: capi.OptWriteData, value: struct{}{}, want: capi.CodeOK},
		{name: "unknown option", opt: capi.Option(1), value: int64(0), want: capi.CodeUnknownOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			h := e.EasyInit()
			defer e.EasyCleanup(h)
			assert.Equal(t, tt.want, e.EasySetopt(h, tt.opt, tt.value))
		})
	}
}

// parseDNSServers accepts addresses with an optional port.
func TestParseDNSServers(t *testing.T) {
	got, ok := parseDNSServers(" 8.8.8.8, [2001:4860::8888]:5353,,1.1.1.1:853 ")
	require.True(t, ok)
	assert.Equal(t, []netip.AddrPort{
		netip.MustParseAddrPort("8.8.8.8:53"),
		netip.MustParseAddrPort("[2001:4860::8888]:5353"),
		netip.MustParseAddrPort("1.1.1.1:853"),
	}, got)

	_, ok = parseDNSServers("8.8.8.8,not-an-ip")
	assert.False(t, ok)
}

// EasyReset restores the defaults and EasyDuphandle copies the options.
func TestEasyResetDuphandle(t *testing.T) {
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)
	mustSetopt(t, e, h, capi.OptPrivate, "tag")
	mustSetopt(t, e, h, capi.OptTimeoutMS, int64(1500))
	mustSetopt(t, e, h, capi.OptHTTPHeader, []string{"A: b"})

	dup := e.EasyDuphandle(h)
	require.NotZero(t, dup)
	defer e.EasyCleanup(dup)
	e.EasyReset(h)

	assert.Equal(t, "", getinfo[string](t, e, h, capi.InfoPrivate))
	assert.Equal(t, "tag", getinfo[string](t, e, dup, capi.InfoPrivate))
	ez, _ := e.lookupEasy(dup)
	opts := ez.snapshot()
	assert.Equal(t, 1500*time.Millisecond, opts.timeout)
	assert.Equal(t, []string{"A: b"}, opts.headers)

	reset, _ := e.lookupEasy(h)
	assert.Equal(t, defaultOptions(), reset.snapshot())
}

// EasyGetinfo checks the output type and the info code.
func TestEasyGetinfo(t *testing.T) {
	e := newTestEngine()
	h := e.EasyInit()
	defer e.EasyCleanup(h)

	var asInt int
	assert.Equal(t, capi.CodeBadFunctionArgument, e.EasyGetinfo(h, capi.InfoResponseCode, &asInt))
	var asString string
	assert.Equal(t, capi.CodeUnknownOption, e.EasyGetinfo(h, capi.InfoTypeString+99, &asString))
	var total float64
	assert.Equal(t, capi.CodeOK, e.EasyGetinfo(h, capi.InfoTotalTime, &total))
	assert.Equal(t, capi.CodeBadFunctionArgument, e.EasyGetinfo(capi.EasyHandle(1<<62), capi.InfoResponseCode, &asInt))
}

// Unknown easy handles are reported.
func TestEasyBadHandle(t *testing.T) {
	e := newTestEngine()
	bad := capi.EasyHandle(1 << 62)

	assert.Equal(t, capi.CodeBadFunctionArgument, e.EasySetopt(bad, capi.OptURL, "x"))
	assert.Equal(t, capi.CodeBadFunctionArgument, perform(e, bad))
	assert.Equal(t, capi.CodeBadFunctionArgument, e.EasyPause(bad, capi.PauseCont))
	assert.Zero(t, e.EasyDuphandle(bad))
	e.EasyCleanup(bad)
	e.EasyReset(bad)
}

// formatAddrPort unmaps IPv4 addresses and tolerates hostnames.
func TestFormatAddrPort(t *testing.T) {
	ip, port := formatAddrPort("[::ffff:127.0.0.1]:8080")
	assert.Equal(t, "127.0.0.1", ip)
	assert.Equal(t, int64(8080), port)

	ip, port = formatAddrPort("localhost:80")
	assert.Equal(t, "localhost", ip)
	assert.Zero(t, port)
}
