package events

import (
	"sync"
	"sync/atomic"
	"testing"
)

type evA struct{ N int }
type evB struct{ S string }

func TestBusTypeIsolation(t *testing.T) {
	var got int32

	cancel := Subscribe(func(ev evA) {
		atomic.AddInt32(&got, int32(ev.N))
	})
	defer cancel()

	Publish(evA{N: 1})
	Publish(evA{N: 2})
	Publish(evB{S: "noop"}) // different type, must not be delivered

	if v := atomic.LoadInt32(&got); v != 3 {
		t.Fatalf("want 3, got %d", v)
	}
}

func TestBusCancelUnsubscribes(t *testing.T) {
	var hits int32

	first := Subscribe(func(evA) { atomic.AddInt32(&hits, 1) })
	second := Subscribe(func(evA) { atomic.AddInt32(&hits, 1) })

	// Cancelling the first must not detach the second.
	first()
	Publish(evA{})
	if v := atomic.LoadInt32(&hits); v != 1 {
		t.Fatalf("want 1 after first cancel, got %d", v)
	}
	if n := Count[evA](); n != 1 {
		t.Fatalf("want 1 live subscriber, got %d", n)
	}

	second()
	Publish(evA{})
	if v := atomic.LoadInt32(&hits); v != 1 {
		t.Fatalf("want no delivery after both cancelled, got %d", v)
	}
}

func TestBusPanickingSubscriber(t *testing.T) {
	var hits int32
	c1 := Subscribe(func(evA) { panic("boom") })
	c2 := Subscribe(func(evA) { atomic.AddInt32(&hits, 1) })
	defer c1()
	defer c2()

	Publish(evA{})
	if v := atomic.LoadInt32(&hits); v != 1 {
		t.Fatalf("panicking subscriber blocked delivery, hits=%d", v)
	}
}

func TestBusConcurrencyNoRaces(t *testing.T) {
	var hits int32

	cancel := Subscribe(func(evA) { atomic.AddInt32(&hits, 1) })
	defer cancel()

	const goroutines = 50
	const perGoroutine = 100
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				Publish(evA{N: 1})
			}
		}()
	}
	wg.Wait()

	if want, got := int32(goroutines*perGoroutine), atomic.LoadInt32(&hits); got != want {
		t.Fatalf("want %d, got %d", want, got)
	}
}
