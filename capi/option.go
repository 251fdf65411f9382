// SPDX-License-Identifier: GPL-3.0-or-later

package capi

// Option is an easy handle option code.
//
// The code embeds the type of the value: options below [OptTypeObjectPoint]
// take an int64, options in the object point range take a string, a
// []string, an [*ErrorBuffer], a [ShareHandle] or an opaque data value,
// options in the function point range take a raw callback, options in
// the off_t range take an int64.
type Option int32

// Option type bases.
const (
	OptTypeLong          Option = 0
	OptTypeObjectPoint   Option = 10000
	OptTypeFunctionPoint Option = 20000
	OptTypeOffT          Option = 30000
)

// Easy handle options.
const (
	OptWriteData        = OptTypeObjectPoint + 1
	OptURL              = OptTypeObjectPoint + 2
	OptUserPwd          = OptTypeObjectPoint + 5
	OptReadData         = OptTypeObjectPoint + 9
	OptErrorBuffer      = OptTypeObjectPoint + 10
	OptWriteFunction    = OptTypeFunctionPoint + 11
	OptReadFunction     = OptTypeFunctionPoint + 12
	OptPostFields       = OptTypeObjectPoint + 15
	OptUserAgent        = OptTypeObjectPoint + 18
	OptHTTPHeader       = OptTypeObjectPoint + 23
	OptHeaderData       = OptTypeObjectPoint + 29
	OptCustomRequest    = OptTypeObjectPoint + 36
	OptVerbose          = OptTypeLong + 41
	OptNoProgress       = OptTypeLong + 43
	OptNoBody           = OptTypeLong + 44
	OptFailOnError      = OptTypeLong + 45
	OptUpload           = OptTypeLong + 46
	OptNetrc            = OptTypeLong + 51
	OptFollowLocation   = OptTypeLong + 52
	OptXferInfoData     = OptTypeObjectPoint + 57
	OptSSLVerifyPeer    = OptTypeLong + 64
	OptCAInfo           = OptTypeObjectPoint + 65
	OptMaxRedirs        = OptTypeLong + 68
	OptFiletime         = OptTypeLong + 69
	OptFreshConnect     = OptTypeLong + 74
	OptForbidReuse      = OptTypeLong + 75
	OptHeaderFunction   = OptTypeFunctionPoint + 79
	OptSSLVerifyHost    = OptTypeLong + 81
	OptHTTPVersion      = OptTypeLong + 84
	OptDebugFunction    = OptTypeFunctionPoint + 94
	OptDebugData        = OptTypeObjectPoint + 95
	OptShare            = OptTypeObjectPoint + 100
	OptAcceptEncoding   = OptTypeObjectPoint + 102
	OptPrivate          = OptTypeObjectPoint + 103
	OptHTTPAuth         = OptTypeLong + 107
	OptInFileSizeLarge  = OptTypeOffT + 115
	OptNetrcFile        = OptTypeObjectPoint + 118
	OptTimeoutMS        = OptTypeLong + 155
	OptConnectTimeoutMS = OptTypeLong + 156
	OptSeekFunction     = OptTypeFunctionPoint + 167
	OptSeekData         = OptTypeObjectPoint + 168
	OptUsername         = OptTypeObjectPoint + 173
	OptPassword         = OptTypeObjectPoint + 174
	OptDNSServers       = OptTypeObjectPoint + 211
	OptXferInfoFunction = OptTypeFunctionPoint + 219
	OptXOAuth2Bearer    = OptTypeObjectPoint + 220
	OptDoHURL           = OptTypeObjectPoint + 279
)

// Base returns the type base of the option.
func (o Option) Base() Option {
	switch {
	case o >= OptTypeOffT:
		return OptTypeOffT
	case o >= OptTypeFunctionPoint:
		return OptTypeFunctionPoint
	case o >= OptTypeObjectPoint:
		return OptTypeObjectPoint
	default:
		return OptTypeLong
	}
}

// MultiOption is a multi handle option code.
type MultiOption int32

// Multi handle options.
const (
	MOptMaxConnects         MultiOption = 6
	MOptMaxHostConnections  MultiOption = 7
	MOptMaxTotalConnections MultiOption = 13
)

// ShareOption is a share handle option code.
type ShareOption int32

// Share handle options.
const (
	ShOptShare      ShareOption = 1
	ShOptUnshare    ShareOption = 2
	ShOptLockFunc   ShareOption = 3
	ShOptUnlockFunc ShareOption = 4
	ShOptUserData   ShareOption = 5
)

// AuthFlags is the bit mask for [OptHTTPAuth].
type AuthFlags int64

// Authentication schemes.
const (
	AuthNone      AuthFlags = 0
	AuthBasic     AuthFlags = 1 << 0
	AuthDigest    AuthFlags = 1 << 1
	AuthNegotiate AuthFlags = 1 << 2
	AuthNTLM      AuthFlags = 1 << 3
	AuthDigestIE  AuthFlags = 1 << 4
	AuthNTLMWB    AuthFlags = 1 << 5
	AuthBearer    AuthFlags = 1 << 6
	AuthAWSSigV4  AuthFlags = 1 << 7
	AuthOnly      AuthFlags = 1 << 31
	AuthAny                 = ^AuthDigestIE
	AuthAnySafe             = ^(AuthBasic | AuthDigestIE)
)

// NetrcMode is the value for [OptNetrc].
type NetrcMode int64

// Netrc modes.
const (
	NetrcIgnored  NetrcMode = 0
	NetrcOptional NetrcMode = 1
	NetrcRequired NetrcMode = 2
)

// HTTPVersion is the value for [OptHTTPVersion] and [InfoHTTPVersion].
type HTTPVersion int64

// HTTP versions.
const (
	HTTPVersionNone            HTTPVersion = 0
	HTTPVersion1_0             HTTPVersion = 1
	HTTPVersion1_1             HTTPVersion = 2
	HTTPVersion2_0             HTTPVersion = 3
	HTTPVersion2TLS            HTTPVersion = 4
	HTTPVersion2PriorKnowledge HTTPVersion = 5
)
