// SPDX-License-Identifier: GPL-3.0-or-later

package xfer

// DetectMethod binds x as a method handler when it implements H.
// Otherwise it returns the zero [Binding].
func DetectMethod[O, E, R, F, H any](k Kind[O, E, R, F, H], x any) Binding[F] {
	h, ok := x.(H)
	if !ok {
		return Binding[F]{}
	}
	return k.Method(h)
}

// DetectStatic binds the zero T as a stateless handler when T
// implements H. Otherwise it returns the zero [Binding].
func DetectStatic[T, O, E, R, F, H any](k Kind[O, E, R, F, H]) Binding[F] {
	var zero T
	h, ok := any(zero).(H)
	if !ok {
		return Binding[F]{}
	}
	return k.Static(h)
}

// DetectStaticData binds the zero T with d in the data slot when T
// implements [StaticHandler] or [StaticValueHandler] for the kind's event,
// result and D. Otherwise it returns the zero [Binding].
func DetectStaticData[T, D, O, E, R, F, H any](k Kind[O, E, R, F, H], d *D) Binding[F] {
	var zero T
	switch h := any(zero).(type) {
	case StaticHandler[E, R, D]:
		return StaticData(k, h, d)
	case StaticValueHandler[E, R, D]:
		return StaticData(k, StaticHandler[E, R, D](staticValueHandler[E, R, D]{h}), d)
	default:
		return Binding[F]{}
	}
}

// Detect tries, in order, [DetectMethod] on x, [DetectStatic] on T and
// [DetectStaticData] on T with d, returning the first binding found.
func Detect[T, D, O, E, R, F, H any](k Kind[O, E, R, F, H], x *T, d *D) Binding[F] {
	if x != nil {
		if b := DetectMethod(k, x); b.Found() {
			return b
		}
	}
	if b := DetectStatic[T](k); b.Found() {
		return b
	}
	return DetectStaticData[T](k, d)
}
