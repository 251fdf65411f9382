// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"os"
	"syscall"

	"github.com/bassosimone/xfer/capi"
)

// phase is the step of a transfer an error comes from.
type phase int

const (
	phaseResolve phase = iota
	phaseConnect
	phaseTLS
	phaseSend
	phaseRecv
)

// phaseCodes is the result code of a generic failure in each phase.
var phaseCodes = [...]capi.Code{
	phaseResolve: capi.CodeCouldntResolveHost,
	phaseConnect: capi.CodeCouldntConnect,
	phaseTLS:     capi.CodeSSLConnectError,
	phaseSend:    capi.CodeSendError,
	phaseRecv:    capi.CodeRecvError,
}

// errnoCodes maps the errno values that identify a result code
// regardless of the phase.
var errnoCodes = map[syscall.Errno]capi.Code{
	errnoETIMEDOUT:       capi.CodeOperationTimedOut,
	errnoECONNREFUSED:    capi.CodeCouldntConnect,
	errnoEHOSTUNREACH:    capi.CodeCouldntConnect,
	errnoENETUNREACH:     capi.CodeCouldntConnect,
	errnoENETDOWN:        capi.CodeCouldntConnect,
	errnoEADDRNOTAVAIL:   capi.CodeCouldntConnect,
	errnoEADDRINUSE:      capi.CodeCouldntConnect,
	errnoEINVAL:          capi.CodeCouldntConnect,
	errnoEPROTONOSUPPORT: capi.CodeCouldntConnect,
	errnoENOBUFS:         capi.CodeOutOfMemory,
}

// errTransferTimeout is the cause of a context expired by the TIMEOUT_MS option.
var errTransferTimeout = errors.New("native: transfer timeout")

// ctxCode maps a done context to a result code.
func ctxCode(ctx context.Context) capi.Code {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return capi.CodeOperationTimedOut
	}
	return capi.CodeAbortedByCallback
}

// codeFor maps err, which happened during ph, to a result code.
func codeFor(ctx context.Context, ph phase, err error) capi.Code {
	if err == nil {
		return capi.CodeOK
	}
	if ctx.Err() != nil {
		return ctxCode(ctx)
	}

	// errors produced by our own callbacks carry their code
	var code capi.Code
	if errors.As(err, &code) {
		return code
	}

	if ph == phaseResolve {
		return capi.CodeCouldntResolveHost
	}
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return capi.CodeOperationTimedOut
	}
	if isCertificateError(err) {
		return capi.CodePeerFailedVerification
	}
	if ph == phaseTLS {
		return capi.CodeSSLConnectError
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if code, found := errnoCodes[errno]; found {
			return code
		}
	}
	return phaseCodes[ph]
}

func isCertificateError(err error) bool {
	var (
		verificationErr *tls.CertificateVerificationError
		authorityErr    x509.UnknownAuthorityError
		hostnameErr     x509.HostnameError
		invalidErr      x509.CertificateInvalidError
	)
	return errors.As(err, &verificationErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr)
}
