// SPDX-License-Identifier: GPL-3.0-or-later

package netx

// Unit is a type with a single, empty value (like `void` in C).
//
// Pipelines that need no input start from Unit; callbacks that return
// nothing are adapted to generic code by returning Unit.
type Unit struct{}
