//go:build unix

//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/common/errclass/unix.go
//

package native

import "golang.org/x/sys/unix"

const (
	errnoEADDRNOTAVAIL   = unix.EADDRNOTAVAIL
	errnoEADDRINUSE      = unix.EADDRINUSE
	errnoECONNREFUSED    = unix.ECONNREFUSED
	errnoEHOSTUNREACH    = unix.EHOSTUNREACH
	errnoEINVAL          = unix.EINVAL
	errnoENETDOWN        = unix.ENETDOWN
	errnoENETUNREACH     = unix.ENETUNREACH
	errnoENOBUFS         = unix.ENOBUFS
	errnoEPROTONOSUPPORT = unix.EPROTONOSUPPORT
	errnoETIMEDOUT       = unix.ETIMEDOUT
)
