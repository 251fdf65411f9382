// SPDX-License-Identifier: GPL-3.0-or-later

package netx

import (
	"context"
	"log/slog"
	"net/netip"
	"time"
)

// NewLookupFunc returns a new [*LookupFunc] using [Config.Resolver].
func NewLookupFunc(cfg *Config, logger SLogger) *LookupFunc {
	return &LookupFunc{
		ErrClassifier: cfg.ErrClassifier,
		Logger:        logger,
		Resolver:      cfg.Resolver,
		TimeNow:       cfg.TimeNow,
	}
}

// LookupFunc resolves a host name with the system resolver.
//
// Returns either a non-empty list of addresses or an error.
type LookupFunc struct {
	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewLookupFunc] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// Logger is the [SLogger] to use.
	//
	// Set by [NewLookupFunc] to the user-provided logger.
	Logger SLogger

	// Resolver is the [Resolver] to use.
	//
	// Set by [NewLookupFunc] from [Config.Resolver].
	Resolver Resolver

	// TimeNow is the function to get the current time.
	//
	// Set by [NewLookupFunc] from [Config.TimeNow].
	TimeNow func() time.Time
}

var _ Func[string, []netip.Addr] = &LookupFunc{}

// Call resolves the given domain name.
func (op *LookupFunc) Call(ctx context.Context, domain string) ([]netip.Addr, error) {
	t0 := op.TimeNow()
	deadline, _ := ctx.Deadline()
	op.Logger.Info(
		"dnsLookupStart",
		slog.Time("deadline", deadline),
		slog.String("dnsDomain", domain),
		slog.String("serverProtocol", "system"),
		slog.Time("t", t0),
	)
	addrs, err := op.Resolver.LookupNetIP(ctx, "ip", domain)
	if err == nil && len(addrs) <= 0 {
		err = ErrNoAddresses
	}
	op.Logger.Info(
		"dnsLookupDone",
		slog.Time("deadline", deadline),
		slog.String("dnsDomain", domain),
		slog.Any("dnsAddrs", addrs),
		slog.Any("err", err),
		slog.String("errClass", op.ErrClassifier.Classify(err)),
		slog.String("serverProtocol", "system"),
		slog.Time("t0", t0),
		slog.Time("t", op.TimeNow()),
	)
	if err != nil {
		return nil, err
	}
	return addrs, nil
}
