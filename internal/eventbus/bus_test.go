package eventbus

import "testing"

func TestBusPublishSubscribe(t *testing.T) {
	bus := New[string](0)
	ch := bus.Subscribe()
	bus.Publish("insert")
	if v := <-ch; v != "insert" {
		t.Fatalf("expected insert got %v", v)
	}
	bus.Unsubscribe(ch)
	if bus.Subscribers() != 0 {
		t.Fatalf("subscriber not removed")
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed after unsubscribe")
	}
}

func TestBusDropsOnFullBuffer(t *testing.T) {
	bus := New[int](1)
	ch := bus.Subscribe()
	bus.Publish(1)
	bus.Publish(2)
	if got := bus.Dropped(); got != 1 {
		t.Fatalf("expected 1 dropped, got %d", got)
	}
	if v := <-ch; v != 1 {
		t.Fatalf("expected first event kept, got %d", v)
	}
}

func TestBusClose(t *testing.T) {
	bus := New[int](0)
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
	bus.Publish(3)
	if _, ok := <-bus.Subscribe(); ok {
		t.Fatalf("subscribe after close should yield a closed channel")
	}
}

func TestBusUnsubscribeAfterClose(t *testing.T) {
	bus := New[float64](0)
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}
