// SPDX-License-Identifier: GPL-3.0-or-later

package netx

import "net/netip"

// NewEndpointFunc returns a [Func] starting a dial pipeline at endpoint.
func NewEndpointFunc(endpoint netip.AddrPort) Func[Unit, netip.AddrPort] {
	return ConstFunc(endpoint)
}
