package modelscan

import (
	"context"
	"testing"
)

func testKeys(hostnames ...string) []HostKey {
	keys := make([]HostKey, len(hostnames))
	for i, h := range hostnames {
		keys[i] = HostKey{Hostname: h, Port: DefaultPort}
	}
	return keys
}

func TestQueueDrainsInOrder(t *testing.T) {
	keys := testKeys("a", "b", "c")
	q := newWorkQueue(keys)
	ctx := context.Background()

	for i, want := range keys {
		got, ok := q.dequeue(ctx)
		if !ok {
			t.Fatalf("queue drained early at %d", i)
		}
		if got != want {
			t.Errorf("expected %v, got %v", want, got)
		}
	}

	if _, ok := q.dequeue(ctx); ok {
		t.Error("expected drained queue to report no work")
	}
}

func TestQueueClaimIsSingleShot(t *testing.T) {
	q := newWorkQueue(testKeys("a"))
	key := HostKey{Hostname: "a", Port: DefaultPort}

	if !q.claim(key) {
		t.Fatal("first claim must succeed")
	}
	if q.claim(key) {
		t.Error("second claim must fail")
	}
}

// A cancelled dequeue must never hand out work, even with hosts still
// buffered: both select cases are ready, and only an explicit
// cancellation check keeps the choice from being random.
func TestQueueDequeueObservesCancellation(t *testing.T) {
	q := newWorkQueue(testKeys("a", "b", "c"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 200; i++ {
		if key, ok := q.dequeue(ctx); ok {
			t.Fatalf("cancelled dequeue handed out %v on attempt %d", key, i)
		}
	}
}

func TestQueueAccounting(t *testing.T) {
	q := newWorkQueue(testKeys("a", "b", "c"))

	if q.remaining() != 3 {
		t.Fatalf("expected 3 remaining, got %d", q.remaining())
	}

	q.ack()
	q.ack()
	if q.scanned() != 2 {
		t.Errorf("expected 2 scanned, got %d", q.scanned())
	}
	if q.remaining() != 1 {
		t.Errorf("expected 1 remaining, got %d", q.remaining())
	}
}
