// SPDX-License-Identifier: GPL-3.0-or-later

// Package native implements [capi.Engine] in pure Go.
//
// Transfers speak HTTP/1.1 and HTTP/2 over TCP and TLS using the dial,
// handshake and round trip primitives of internal/netx. Name resolution
// uses the system resolver, DNS over UDP with TCP fallback (when the
// DNS servers option is set) or DNS over HTTPS (when the DoH URL option
// is set).
//
// Every handle is a process-wide unique integer allocated with
// [capi.NextHandle]. The engine keeps a registry of live handles and
// returns a bad handle code for unknown or destroyed ones.
package native
