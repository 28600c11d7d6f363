package grid

import "slices"

// Bus is an in-process PointerSource. The TUI forwards terminal mouse
// events to it and tests drive it directly.
type Bus struct {
	listeners []*busEntry
}

type busEntry struct {
	PointerListener
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Listen registers l until the returned release function is called.
func (b *Bus) Listen(l PointerListener) (release func()) {
	e := &busEntry{l}
	b.listeners = append(b.listeners, e)
	return func() {
		b.listeners = slices.DeleteFunc(b.listeners, func(x *busEntry) bool { return x == e })
	}
}

// Len returns the number of registered listeners.
func (b *Bus) Len() int {
	return len(b.listeners)
}

// Move dispatches a pointer move.
func (b *Bus) Move(p Point) {
	b.each(func(l PointerListener) { l.PointerMoved(p) })
}

// Release dispatches a pointer release.
func (b *Bus) Release(p Point) {
	b.each(func(l PointerListener) { l.PointerReleased(p) })
}

// Lost tells every listener that the pointer is gone.
func (b *Bus) Lost() {
	b.each(func(l PointerListener) { l.PointerLost() })
}

// each iterates a snapshot: listeners release themselves while handling events.
func (b *Bus) each(fn func(PointerListener)) {
	for _, e := range slices.Clone(b.listeners) {
		fn(e.PointerListener)
	}
}
