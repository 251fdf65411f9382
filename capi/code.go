// SPDX-License-Identifier: GPL-3.0-or-later

package capi

import "fmt"

// Code is an easy handle result code.
//
// A Code implements error so that it can travel through Go error
// values unchanged. [CodeOK] is not a failure; use [Code.Err] to
// obtain a nil error for it.
type Code int

// Easy handle result codes.
const (
	CodeOK                     Code = 0
	CodeUnsupportedProtocol    Code = 1
	CodeFailedInit             Code = 2
	CodeURLMalformat           Code = 3
	CodeNotBuiltIn             Code = 4
	CodeCouldntResolveProxy    Code = 5
	CodeCouldntResolveHost     Code = 6
	CodeCouldntConnect         Code = 7
	CodeWeirdServerReply       Code = 8
	CodeHTTP2                  Code = 16
	CodePartialFile            Code = 18
	CodeHTTPReturnedError      Code = 22
	CodeWriteError             Code = 23
	CodeUploadFailed           Code = 25
	CodeReadError              Code = 26
	CodeOutOfMemory            Code = 27
	CodeOperationTimedOut      Code = 28
	CodeSSLConnectError        Code = 35
	CodeAbortedByCallback      Code = 42
	CodeBadFunctionArgument    Code = 43
	CodeTooManyRedirects       Code = 47
	CodeUnknownOption          Code = 48
	CodeGotNothing             Code = 52
	CodeSendError              Code = 55
	CodeRecvError              Code = 56
	CodePeerFailedVerification Code = 60
	CodeBadContentEncoding     Code = 61
	CodeSendFailRewind         Code = 65
	CodeLoginDenied            Code = 67
	CodeSSLCACertBadFile       Code = 77
	CodeAgain                  Code = 81
	CodeRecursiveAPICall       Code = 93
)

var codeStrings = map[Code]string{
	CodeOK:                     "No error",
	CodeUnsupportedProtocol:    "Unsupported protocol",
	CodeFailedInit:             "Failed initialization",
	CodeURLMalformat:           "URL using bad/illegal format or missing URL",
	CodeNotBuiltIn:             "A requested feature, protocol or option was not found built-in in this libcurl due to a build-time decision.",
	CodeCouldntResolveProxy:    "Couldn't resolve proxy name",
	CodeCouldntResolveHost:     "Couldn't resolve host name",
	CodeCouldntConnect:         "Couldn't connect to server",
	CodeWeirdServerReply:       "Weird server reply",
	CodeHTTP2:                  "Error in the HTTP2 framing layer",
	CodePartialFile:            "Transferred a partial file",
	CodeHTTPReturnedError:      "HTTP response code said error",
	CodeWriteError:             "Failed writing received data to disk/application",
	CodeUploadFailed:           "Upload failed (at start/before it took off)",
	CodeReadError:              "Failed to open/read local data from file/application",
	CodeOutOfMemory:            "Out of memory",
	CodeOperationTimedOut:      "Timeout was reached",
	CodeSSLConnectError:        "SSL connect error",
	CodeAbortedByCallback:      "Operation was aborted by an application callback",
	CodeBadFunctionArgument:    "A libcurl function was given a bad argument",
	CodeTooManyRedirects:       "Number of redirects hit maximum amount",
	CodeUnknownOption:          "An unknown option was passed in to libcurl",
	CodeGotNothing:             "Server returned nothing (no headers, no data)",
	CodeSendError:              "Failed sending data to the peer",
	CodeRecvError:              "Failure when receiving data from the peer",
	CodePeerFailedVerification: "SSL peer certificate or SSH remote key was not OK",
	CodeBadContentEncoding:     "Unrecognized or bad HTTP Content or Transfer-Encoding",
	CodeSendFailRewind:         "Send failed since rewinding of the data stream failed",
	CodeLoginDenied:            "Login denied",
	CodeSSLCACertBadFile:       "Problem with the SSL CA cert (path? access rights?)",
	CodeAgain:                  "Socket not ready for send/recv",
	CodeRecursiveAPICall:       "API function called from within callback",
}

// Error implements error and returns the strerror text.
func (c Code) Error() string {
	if s, ok := codeStrings[c]; ok {
		return s
	}
	return fmt.Sprintf("Unknown error (%d)", int(c))
}

// Failed returns whether the code is not [CodeOK].
func (c Code) Failed() bool {
	return c != CodeOK
}

// Err returns nil for [CodeOK] and the code itself otherwise.
func (c Code) Err() error {
	if !c.Failed() {
		return nil
	}
	return c
}

// MCode is a multi handle result code.
type MCode int

// Multi handle result codes.
const (
	MCodeCallMultiPerform MCode = -1
	MCodeOK               MCode = 0
	MCodeBadHandle        MCode = 1
	MCodeBadEasyHandle    MCode = 2
	MCodeOutOfMemory      MCode = 3
	MCodeInternalError    MCode = 4
	MCodeBadSocket        MCode = 5
	MCodeUnknownOption    MCode = 6
	MCodeAddedAlready     MCode = 7
	MCodeRecursiveAPICall MCode = 8
)

var mcodeStrings = map[MCode]string{
	MCodeCallMultiPerform: "Please call curl_multi_perform() soon",
	MCodeOK:               "No error",
	MCodeBadHandle:        "Invalid multi handle",
	MCodeBadEasyHandle:    "Invalid easy handle",
	MCodeOutOfMemory:      "Out of memory",
	MCodeInternalError:    "Internal error",
	MCodeBadSocket:        "Invalid socket argument",
	MCodeUnknownOption:    "Unknown option",
	MCodeAddedAlready:     "The easy handle is already added to a multi handle",
	MCodeRecursiveAPICall: "API function called from within callback",
}

// Error implements error and returns the strerror text.
func (c MCode) Error() string {
	if s, ok := mcodeStrings[c]; ok {
		return s
	}
	return fmt.Sprintf("Unknown error (%d)", int(c))
}

// Failed returns whether the code is neither [MCodeOK] nor
// [MCodeCallMultiPerform].
func (c MCode) Failed() bool {
	return c != MCodeOK && c != MCodeCallMultiPerform
}

// Err returns nil unless [MCode.Failed].
func (c MCode) Err() error {
	if !c.Failed() {
		return nil
	}
	return c
}

// SHCode is a share handle result code.
type SHCode int

// Share handle result codes.
const (
	SHCodeOK         SHCode = 0
	SHCodeBadOption  SHCode = 1
	SHCodeInUse      SHCode = 2
	SHCodeInvalid    SHCode = 3
	SHCodeNoMem      SHCode = 4
	SHCodeNotBuiltIn SHCode = 5
)

var shcodeStrings = map[SHCode]string{
	SHCodeOK:         "No error",
	SHCodeBadOption:  "Unknown share option",
	SHCodeInUse:      "Share currently in use",
	SHCodeInvalid:    "Invalid share handle",
	SHCodeNoMem:      "Out of memory",
	SHCodeNotBuiltIn: "Feature not enabled in this library",
}

// Error implements error and returns the strerror text.
func (c SHCode) Error() string {
	if s, ok := shcodeStrings[c]; ok {
		return s
	}
	return fmt.Sprintf("Unknown error (%d)", int(c))
}

// Failed returns whether the code is not [SHCodeOK].
func (c SHCode) Failed() bool {
	return c != SHCodeOK
}

// Err returns nil for [SHCodeOK] and the code itself otherwise.
func (c SHCode) Err() error {
	if !c.Failed() {
		return nil
	}
	return c
}
