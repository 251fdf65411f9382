// SPDX-License-Identifier: GPL-3.0-or-later

package xfer

import "reflect"

// Shape tells how a [Binding] reaches its handler.
type Shape int

// Binding shapes.
const (
	// ShapeNone is the zero [Binding]: no handler was found.
	ShapeNone Shape = iota

	// ShapeMethod dispatches to a method of the value in the data slot.
	ShapeMethod

	// ShapeStatic dispatches to a stateless handler with an empty data slot.
	ShapeStatic

	// ShapeStaticData dispatches to a stateless handler receiving the
	// data slot as its data.
	ShapeStaticData

	// ShapeFunc calls a function with an empty data slot.
	ShapeFunc

	// ShapeFuncData calls a function receiving the data slot as its data.
	ShapeFuncData
)

var shapeStrings = [...]string{"none", "method", "static", "staticData", "func", "funcData"}

// String returns a short name for the shape.
func (s Shape) String() string {
	if s >= 0 && int(s) < len(shapeStrings) {
		return shapeStrings[s]
	}
	return "unknown"
}

// Binding pairs a raw callback of type F with the value for its data slot.
//
// The zero Binding means "no handler" and [Kind.Install] replaces it
// with the kind's fallback and an empty data slot.
type Binding[F any] struct {
	fn    F
	data  any
	shape Shape
}

// Found returns whether the binding carries a handler.
func (b Binding[F]) Found() bool {
	return b.shape != ShapeNone
}

// Shape returns the binding shape.
func (b Binding[F]) Shape() Shape {
	return b.shape
}

// Fn returns the raw callback.
func (b Binding[F]) Fn() F {
	return b.fn
}

// Data returns the data slot value.
func (b Binding[F]) Data() any {
	return b.data
}

// isNil reports whether h is nil or a nil pointer, map, slice, func,
// chan or interface stored in an interface.
func isNil(h any) bool {
	if h == nil {
		return true
	}
	v := reflect.ValueOf(h)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// Method binds h, stored in the data slot, as the handler.
//
// A nil h, including a typed nil pointer, yields the zero [Binding].
// When the data slot no longer holds an H, the trampoline returns the
// zero R without calling anything.
func (k Kind[O, E, R, F, H]) Method(h H) Binding[F] {
	if isNil(h) {
		return Binding[F]{}
	}
	invoke := k.invoke
	return Binding[F]{
		fn: k.synth(func(ev E, data any) R {
			handler, ok := data.(H)
			if !ok {
				var zero R
				return zero
			}
			return invoke(handler, ev)
		}),
		data:  h,
		shape: ShapeMethod,
	}
}

// Static binds a stateless handler. The data slot stays empty.
//
// A nil h, including a typed nil pointer, yields the zero [Binding].
func (k Kind[O, E, R, F, H]) Static(h H) Binding[F] {
	if isNil(h) {
		return Binding[F]{}
	}
	invoke := k.invoke
	return Binding[F]{
		fn: k.synth(func(ev E, _ any) R {
			return invoke(h, ev)
		}),
		shape: ShapeStatic,
	}
}

// Func binds fn. The data slot stays empty.
//
// A nil fn yields the zero [Binding].
func (k Kind[O, E, R, F, H]) Func(fn func(ev E) R) Binding[F] {
	if fn == nil {
		return Binding[F]{}
	}
	return Binding[F]{
		fn: k.synth(func(ev E, _ any) R {
			return fn(ev)
		}),
		shape: ShapeFunc,
	}
}

// dataSlot converts a possibly nil pointer into a data slot value.
func dataSlot[D any](d *D) any {
	if d == nil {
		return nil
	}
	return d
}

// StaticData binds a stateless handler receiving d through the data slot.
//
// A nil h yields the zero [Binding]. A nil d leaves the data slot empty
// and the handler then receives a nil pointer.
func StaticData[D, O, E, R, F, H any](k Kind[O, E, R, F, H], h StaticHandler[E, R, D], d *D) Binding[F] {
	if h == nil {
		return Binding[F]{}
	}
	return Binding[F]{
		fn: k.synth(func(ev E, data any) R {
			p, _ := data.(*D)
			return h.Handle(ev, p)
		}),
		data:  dataSlot(d),
		shape: ShapeStaticData,
	}
}

// FuncData binds fn receiving d through the data slot.
//
// A nil fn yields the zero [Binding]. Wrap a function taking its data by
// value with [ByValue].
func FuncData[D, O, E, R, F, H any](k Kind[O, E, R, F, H], fn func(ev E, data *D) R, d *D) Binding[F] {
	if fn == nil {
		return Binding[F]{}
	}
	return Binding[F]{
		fn: k.synth(func(ev E, data any) R {
			p, _ := data.(*D)
			return fn(ev, p)
		}),
		data:  dataSlot(d),
		shape: ShapeFuncData,
	}
}
