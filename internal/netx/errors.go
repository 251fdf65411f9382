// SPDX-License-Identifier: GPL-3.0-or-later

package netx

import "errors"

// ErrNoAddresses indicates that a lookup succeeded without returning addresses.
var ErrNoAddresses = errors.New("netx: no addresses for domain")
