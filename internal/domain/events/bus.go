// Package events is a tiny in-process pub/sub bus, keyed by event type.
// It decouples the queue poller from the cosmetic consumers (metrics,
// presence refresh) without either side importing the other.
package events

import (
	"fmt"
	"sync"
)

type subscriber struct {
	id int
	fn func(any)
}

var (
	mu     sync.RWMutex
	nextID int
	subs   = map[string][]subscriber{} // type name -> subscribers
)

func typeNameOf[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

// Subscribe registers fn for events of type T and returns a cancel
// function that unregisters it.
func Subscribe[T any](fn func(T)) func() {
	name := typeNameOf[T]()
	wrapped := func(v any) {
		if ev, ok := v.(T); ok {
			fn(ev)
		}
	}

	mu.Lock()
	nextID++
	id := nextID
	subs[name] = append(subs[name], subscriber{id: id, fn: wrapped})
	mu.Unlock()

	return func() {
		mu.Lock()
		defer mu.Unlock()
		ss := subs[name]
		for i, s := range ss {
			if s.id == id {
				subs[name] = append(ss[:i], ss[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers ev synchronously to every current subscriber of T.
// A panicking subscriber doesn't take down the publisher.
func Publish[T any](ev T) {
	name := typeNameOf[T]()
	mu.RLock()
	ss := append([]subscriber(nil), subs[name]...)
	mu.RUnlock()
	for _, s := range ss {
		func() {
			defer func() { _ = recover() }()
			s.fn(ev)
		}()
	}
}

// Count returns the number of live subscribers for T.
func Count[T any]() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(subs[typeNameOf[T]()])
}
