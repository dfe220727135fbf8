// Package notify implements a synchronous, ordered publish/subscribe bus
// whose subscribers are held through weak references.
package notify

import (
	"errors"
	"fmt"
	"sync"
	"weak"

	"go.uber.org/multierr"
)

// Observer receives events of type E.
type Observer[E any] interface {
	Notify(event E) error
}

// ObserverFunc adapts a function into an Observer. Function values cannot
// be referenced weakly, so take its address before subscribing:
//
//	fn := notify.ObserverFunc[E](handle)
//	bus.Subscribe(notify.Weak[E](&fn))
type ObserverFunc[E any] func(event E) error

// Notify calls f(event).
func (f *ObserverFunc[E]) Notify(event E) error {
	return (*f)(event)
}

// Ref is a non-owning handle to an observer.
type Ref[E any] struct {
	resolve func() (Observer[E], bool)
}

// Weak returns a Ref to obs that does not keep obs alive. Once obs is
// garbage collected the Ref resolves to nothing and any bus holding it
// drops it on the next Publish.
func Weak[E any, T any, PT interface {
	*T
	Observer[E]
}](obs PT) Ref[E] {
	ref := weak.Make((*T)(obs))
	return Ref[E]{resolve: func() (Observer[E], bool) {
		target := ref.Value()
		if target == nil {
			return nil, false
		}
		return PT(target), true
	}}
}

// Alive reports whether the referenced observer still exists.
func (r Ref[E]) Alive() bool {
	if r.resolve == nil {
		return false
	}
	_, ok := r.resolve()
	return ok
}

// Bus delivers events to subscribers in subscription order, synchronously
// in the publishing goroutine. Publishes on one bus are serialized, and
// observer callbacks run while the bus lock is held: observers must not
// subscribe to or publish on the same bus.
type Bus[E any] struct {
	mu   sync.Mutex
	subs []Ref[E]
}

// NewBus creates an empty bus.
func NewBus[E any]() *Bus[E] {
	return &Bus[E]{}
}

// Subscribe appends ref to the delivery list. Zero refs are ignored.
func (b *Bus[E]) Subscribe(ref Ref[E]) {
	if ref.resolve == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, ref)
}

// Publish delivers event to every live subscriber. A failing or panicking
// observer does not prevent delivery to the rest; all failures are
// combined into the returned error.
func (b *Bus[E]) Publish(event E) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs error
	live := b.subs[:0]
	for _, sub := range b.subs {
		obs, ok := sub.resolve()
		if !ok {
			continue
		}
		live = append(live, sub)
		errs = multierr.Append(errs, deliver(obs, event))
	}
	clear(b.subs[len(live):])
	b.subs = live
	return errs
}

// Len returns the number of subscriptions whose targets are still alive.
func (b *Bus[E]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, sub := range b.subs {
		if sub.Alive() {
			n++
		}
	}
	return n
}

// Errors splits an error returned by Publish into individual failures.
// The Publish error may be wrapped.
func Errors(err error) []error {
	var group interface{ Errors() []error }
	if errors.As(err, &group) {
		return group.Errors()
	}
	return multierr.Errors(err)
}

func deliver[E any](obs Observer[E], event E) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer %T panicked: %v", obs, r)
		}
	}()
	return obs.Notify(event)
}
