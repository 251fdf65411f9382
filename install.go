// SPDX-License-Identifier: GPL-3.0-or-later

package xfer

// Target is a handle accepting the options of a callback kind. [EasyRef],
// [*Easy], [ShareRef] and [*Share] implement it.
type Target[O any] interface {
	setopt(opt O, value any) error
}

// Install writes the binding into t: first the function slot, then the
// data slot. The zero [Binding] installs the fallback with an empty data
// slot.
//
// When writing the data slot fails, Install puts back the fallback and
// an empty data slot, so the function never runs with data meant for
// another function, and returns the original error.
//
// For [Lock] and [Unlock], which share one data slot, Install also
// writes the fallback into the other kind's function slot before
// touching the data slot.
func (k Kind[O, E, R, F, H]) Install(t Target[O], b Binding[F]) error {
	fn, data := b.fn, b.data
	if !b.Found() {
		fn, data = k.fallback, nil
	}
	if err := t.setopt(k.fnOpt, fn); err != nil {
		return err
	}
	if k.paired {
		if err := t.setopt(k.pairOpt, k.pairFallback); err != nil {
			k.rollback(t)
			return err
		}
	}
	if err := t.setopt(k.dataOpt, data); err != nil {
		k.rollback(t)
		return err
	}
	return nil
}

// rollback writes the fallback and an empty data slot ignoring errors.
func (k Kind[O, E, R, F, H]) rollback(t Target[O]) {
	_ = t.setopt(k.fnOpt, k.fallback)
	_ = t.setopt(k.dataOpt, nil)
}

// Reset installs the fallback with an empty data slot.
func (k Kind[O, E, R, F, H]) Reset(t Target[O]) error {
	return k.Install(t, Binding[F]{})
}

// Handle installs h as a method handler, or the fallback when h is nil.
func (k Kind[O, E, R, F, H]) Handle(t Target[O], h H) error {
	return k.Install(t, k.Method(h))
}
