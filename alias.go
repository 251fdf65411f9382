// SPDX-License-Identifier: GPL-3.0-or-later

package xfer

import (
	"github.com/bassosimone/xfer/capi"
	"github.com/bassosimone/xfer/internal/netx"
)

// SLogger is the structured logger used by this package.
//
// [*slog.Logger] implements it.
type SLogger = netx.SLogger

// DefaultSLogger returns a logger that discards everything.
func DefaultSLogger() SLogger {
	return netx.DefaultSLogger()
}

// ErrClassifier maps errors to short labels for logging.
type ErrClassifier = netx.ErrClassifier

// ErrClassifierFunc adapts a function to [ErrClassifier].
type ErrClassifierFunc = netx.ErrClassifierFunc

// DefaultErrClassifier is the default [ErrClassifier].
var DefaultErrClassifier = netx.DefaultErrClassifier

// NewSpanID returns a new identifier for correlating log entries.
func NewSpanID() string {
	return netx.NewSpanID()
}

// Unit is the result of handlers returning nothing.
type Unit = netx.Unit

// Raw value types used by events and settings.
type (
	InfoType        = capi.InfoType
	LockData        = capi.LockData
	LockAccess      = capi.LockAccess
	SeekResult      = capi.SeekResult
	PauseFlags      = capi.PauseFlags
	AuthFlags       = capi.AuthFlags
	NetrcMode       = capi.NetrcMode
	HTTPVersionFlag = capi.HTTPVersion
)

// Raw constants used by handlers.
const (
	WriteFuncPause = capi.WriteFuncPause
	ReadFuncAbort  = capi.ReadFuncAbort
	ReadFuncPause  = capi.ReadFuncPause

	SeekFuncOK       = capi.SeekFuncOK
	SeekFuncFail     = capi.SeekFuncFail
	SeekFuncCantSeek = capi.SeekFuncCantSeek

	PauseRecv = capi.PauseRecv
	PauseSend = capi.PauseSend
	PauseAll  = capi.PauseAll
	PauseCont = capi.PauseCont

	LockDataShare      = capi.LockDataShare
	LockDataDNS        = capi.LockDataDNS
	LockDataSSLSession = capi.LockDataSSLSession
	LockDataConnect    = capi.LockDataConnect
)
