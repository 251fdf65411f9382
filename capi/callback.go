// SPDX-License-Identifier: GPL-3.0-or-later

package capi

// WriteCallback receives size*nmemb bytes of response body starting at ptr.
//
// It must return size*nmemb to accept the data, [WriteFuncPause] to pause
// receiving, or any other value to fail the transfer with [CodeWriteError].
type WriteCallback func(ptr *byte, size, nmemb uintptr, userdata any) uintptr

// ReadCallback fills at most size*nitems bytes of request body at ptr.
//
// It returns the number of bytes written (zero means end of body),
// [ReadFuncAbort] or [ReadFuncPause].
type ReadCallback func(ptr *byte, size, nitems uintptr, userdata any) uintptr

// HeaderCallback receives one complete header line, including the
// terminating CRLF, of size*nitems bytes.
type HeaderCallback func(ptr *byte, size, nitems uintptr, userdata any) uintptr

// DebugCallback receives verbose information of the given type.
//
// The return value must be zero.
type DebugCallback func(handle EasyHandle, typ InfoType, ptr *byte, size uintptr, userdata any) int

// SeekCallback moves the request body to offset relative to origin.
type SeekCallback func(userdata any, offset int64, origin int) SeekResult

// XferInfoCallback reports transfer progress. A non-zero return
// value aborts the transfer with [CodeAbortedByCallback].
type XferInfoCallback func(userdata any, dltotal, dlnow, ultotal, ulnow int64) int

// LockCallback locks the shared data of a share handle.
type LockCallback func(handle EasyHandle, data LockData, access LockAccess, userptr any)

// UnlockCallback unlocks the shared data of a share handle.
type UnlockCallback func(handle EasyHandle, data LockData, userptr any)

// Callback return sentinels.
const (
	WriteFuncPause uintptr = 0x10000001
	ReadFuncAbort  uintptr = 0x10000000
	ReadFuncPause  uintptr = 0x10000001
)

// XferInfoFuncContinue returned by a [XferInfoCallback] continues the
// transfer like zero does.
const XferInfoFuncContinue = 0x10000001

// SeekResult is the value returned by a [SeekCallback].
type SeekResult int

// Seek results.
const (
	SeekFuncOK       SeekResult = 0
	SeekFuncFail     SeekResult = 1
	SeekFuncCantSeek SeekResult = 2
)

// InfoType is the kind of verbose information passed to a [DebugCallback].
type InfoType int

// Debug info types.
const (
	InfoText       InfoType = 0
	InfoHeaderIn   InfoType = 1
	InfoHeaderOut  InfoType = 2
	InfoDataIn     InfoType = 3
	InfoDataOut    InfoType = 4
	InfoSSLDataIn  InfoType = 5
	InfoSSLDataOut InfoType = 6
)

var infoTypeStrings = [...]string{
	"text", "headerIn", "headerOut", "dataIn", "dataOut", "sslDataIn", "sslDataOut",
}

// String returns a short name for the info type.
func (t InfoType) String() string {
	if t >= 0 && int(t) < len(infoTypeStrings) {
		return infoTypeStrings[t]
	}
	return "unknown"
}

// PauseFlags is the bit mask for [Engine.EasyPause].
type PauseFlags int

// Pause flags.
const (
	PauseRecv     PauseFlags = 1 << 0
	PauseRecvCont PauseFlags = 0
	PauseSend     PauseFlags = 1 << 2
	PauseSendCont PauseFlags = 0
	PauseAll                 = PauseRecv | PauseSend
	PauseCont                = PauseRecvCont | PauseSendCont
)

// LockData identifies the shared data a lock callback protects.
type LockData int

// Lock data values.
const (
	LockDataNone       LockData = 0
	LockDataShare      LockData = 1
	LockDataCookie     LockData = 2
	LockDataDNS        LockData = 3
	LockDataSSLSession LockData = 4
	LockDataConnect    LockData = 5
	LockDataPSL        LockData = 6
)

var lockDataStrings = [...]string{"none", "share", "cookie", "dns", "sslSession", "connect", "psl"}

// String returns a short name for the lock data.
func (d LockData) String() string {
	if d >= 0 && int(d) < len(lockDataStrings) {
		return lockDataStrings[d]
	}
	return "unknown"
}

// LockAccess is the kind of access requested by a lock callback.
type LockAccess int

// Lock access values.
const (
	LockAccessNone   LockAccess = 0
	LockAccessShared LockAccess = 1
	LockAccessSingle LockAccess = 2
)
