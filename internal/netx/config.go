// SPDX-License-Identifier: GPL-3.0-or-later

package netx

import (
	"context"
	"net"
	"net/netip"
	"time"
)

// Resolver abstracts the [*net.Resolver] behavior.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// Config holds the common configuration of the network primitives.
//
// All fields have sensible defaults set by [NewConfig].
type Config struct {
	// Dialer is used by [*ConnectFunc].
	//
	// Set by [NewConfig] to [*net.Dialer].
	Dialer Dialer

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConfig] to [DefaultErrClassifier].
	ErrClassifier ErrClassifier

	// Resolver is used by [*LookupFunc].
	//
	// Set by [NewConfig] to [net.DefaultResolver].
	Resolver Resolver

	// TLSEngine is used by [*TLSHandshakeFunc].
	//
	// Set by [NewConfig] to [TLSEngineStdlib].
	TLSEngine TLSEngine

	// TimeNow returns the current time.
	//
	// Set by [NewConfig] to [time.Now].
	TimeNow func() time.Time
}

// NewConfig creates a [*Config] with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Dialer:        &net.Dialer{},
		ErrClassifier: DefaultErrClassifier,
		Resolver:      net.DefaultResolver,
		TLSEngine:     TLSEngineStdlib{},
		TimeNow:       time.Now,
	}
}
