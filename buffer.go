// SPDX-License-Identifier: GPL-3.0-or-later

package xfer

import "unsafe"

// ConstBuffer is a read-only view over memory owned by the engine.
//
// A ConstBuffer is only valid during the callback receiving it.
type ConstBuffer struct {
	ptr *byte
	n   int
}

func newConstBuffer(ptr *byte, n uintptr) ConstBuffer {
	return ConstBuffer{ptr: ptr, n: int(n)}
}

// Bytes returns a slice aliasing the engine memory, or nil when the
// buffer has no backing memory.
func (b ConstBuffer) Bytes() []byte {
	if b.ptr == nil || b.n <= 0 {
		return nil
	}
	return unsafe.Slice(b.ptr, b.n)
}

// Len returns the size announced by the engine.
func (b ConstBuffer) Len() int {
	return b.n
}

// String returns a copy of the content as a string.
func (b ConstBuffer) String() string {
	return string(b.Bytes())
}

// Copy copies the content into dst and returns the number of bytes copied.
func (b ConstBuffer) Copy(dst []byte) int {
	return copy(dst, b.Bytes())
}

// MutableBuffer is a writable view over memory owned by the engine.
//
// A MutableBuffer is only valid during the callback receiving it.
type MutableBuffer struct {
	ptr *byte
	n   int
}

func newMutableBuffer(ptr *byte, n uintptr) MutableBuffer {
	return MutableBuffer{ptr: ptr, n: int(n)}
}

// Bytes returns a slice aliasing the engine memory, or nil when the
// buffer has no backing memory.
func (b MutableBuffer) Bytes() []byte {
	if b.ptr == nil || b.n <= 0 {
		return nil
	}
	return unsafe.Slice(b.ptr, b.n)
}

// Len returns the capacity announced by the engine.
func (b MutableBuffer) Len() int {
	return b.n
}

// Fill copies src into the buffer and returns the number of bytes copied,
// suitable as the result of a read handler.
func (b MutableBuffer) Fill(src []byte) uintptr {
	return uintptr(copy(b.Bytes(), src))
}
