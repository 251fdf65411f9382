// SPDX-License-Identifier: GPL-3.0-or-later

package capi

// Info is an easy handle info code.
//
// The code embeds the type of the output argument passed to
// [Engine.EasyGetinfo]: *string for [InfoTypeString], *int64 for
// [InfoTypeLong] and [InfoTypeOffT], *float64 for [InfoTypeDouble],
// *[]string for [InfoTypeSList].
type Info int32

// Info type bases.
const (
	InfoTypeString Info = 0x100000
	InfoTypeLong   Info = 0x200000
	InfoTypeDouble Info = 0x300000
	InfoTypeSList  Info = 0x400000
	InfoTypeOffT   Info = 0x600000
	InfoTypeMask   Info = 0xf00000
)

// Easy handle infos.
const (
	InfoEffectiveURL       = InfoTypeString + 1
	InfoResponseCode       = InfoTypeLong + 2
	InfoTotalTime          = InfoTypeDouble + 3
	InfoSizeUploadT        = InfoTypeOffT + 7
	InfoSizeDownloadT      = InfoTypeOffT + 8
	InfoHeaderSize         = InfoTypeLong + 11
	InfoRequestSize        = InfoTypeLong + 12
	InfoFiletimeT          = InfoTypeOffT + 14
	InfoContentType        = InfoTypeString + 18
	InfoRedirectCount      = InfoTypeLong + 20
	InfoPrivate            = InfoTypeString + 21
	InfoHTTPConnectCode    = InfoTypeLong + 22
	InfoNumConnects        = InfoTypeLong + 26
	InfoRedirectURL        = InfoTypeString + 31
	InfoPrimaryIP          = InfoTypeString + 32
	InfoPrimaryPort        = InfoTypeLong + 40
	InfoLocalIP            = InfoTypeString + 41
	InfoLocalPort          = InfoTypeLong + 42
	InfoHTTPVersion        = InfoTypeLong + 46
	InfoTotalTimeT         = InfoTypeOffT + 50
	InfoNameLookupTimeT    = InfoTypeOffT + 51
	InfoConnectTimeT       = InfoTypeOffT + 52
	InfoPreTransferTimeT   = InfoTypeOffT + 53
	InfoStartTransferTimeT = InfoTypeOffT + 54
	InfoRedirectTimeT      = InfoTypeOffT + 55
	InfoAppConnectTimeT    = InfoTypeOffT + 56
)

// Type returns the type base of the info.
func (i Info) Type() Info {
	return i & InfoTypeMask
}
