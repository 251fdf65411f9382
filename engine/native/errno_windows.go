//go:build windows

//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/common/errclass/windows.go
//

package native

import "golang.org/x/sys/windows"

const (
	errnoEADDRNOTAVAIL   = windows.WSAEADDRNOTAVAIL
	errnoEADDRINUSE      = windows.WSAEADDRINUSE
	errnoECONNREFUSED    = windows.WSAECONNREFUSED
	errnoEHOSTUNREACH    = windows.WSAEHOSTUNREACH
	errnoEINVAL          = windows.WSAEINVAL
	errnoENETDOWN        = windows.WSAENETDOWN
	errnoENETUNREACH     = windows.WSAENETUNREACH
	errnoENOBUFS         = windows.WSAENOBUFS
	errnoEPROTONOSUPPORT = windows.WSAEPROTONOSUPPORT
	errnoETIMEDOUT       = windows.WSAETIMEDOUT
)
