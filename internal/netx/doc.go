// SPDX-License-Identifier: GPL-3.0-or-later

// Package netx contains the network primitives used by the native
// transfer engine.
//
// Each primitive is a [Func] with exactly one success mode and one failure
// mode, composed with [Compose2] and friends into dial pipelines:
//
//	endpoint -> connect -> observe -> [tls handshake] -> http conn
//
// The engine keeps the resulting [*HTTPConn] in a connection cache and
// reuses it for later transfers, so the dial pipelines used for HTTP do
// not include [CancelWatchFunc]. Short lived pipelines (the DNS exchanges
// performed by the resolver) do.
//
// # Observability
//
// Every primitive emits structured log events through an [SLogger] using
// the *Start/*Done naming convention, with fields t0, t, deadline, err,
// errClass, localAddr, remoteAddr and protocol. [ObserveConnFunc] can
// additionally forward raw I/O to hooks, which is how the engine produces
// the SSL data events of verbose transfers.
package netx
