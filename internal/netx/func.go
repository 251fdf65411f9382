// SPDX-License-Identifier: GPL-3.0-or-later

package netx

import "context"

// Func is an operation that turns an input into a result or fails.
//
// Resource cleanup contract: a Func receiving a closeable resource that
// returns an error closes the resource before returning, so that composed
// pipelines do not leak on partial failure (see [TLSHandshakeFunc]).
type Func[A, B any] interface {
	Call(ctx context.Context, input A) (B, error)
}

// FuncAdapter turns a function into a [Func].
type FuncAdapter[A, B any] func(ctx context.Context, input A) (B, error)

// Call implements [Func].
func (f FuncAdapter[A, B]) Call(ctx context.Context, input A) (B, error) {
	return f(ctx, input)
}
