package modelscan

import (
	"context"
	"sync"
	"sync/atomic"
)

// workQueue is the run's unit of pending work: a FIFO of canonical
// hosts seeded exactly once, plus the claimed-set that guarantees a
// host is processed by at most one worker.
type workQueue struct {
	items chan HostKey
	total int

	mu      sync.Mutex
	claimed map[HostKey]struct{}

	completed atomic.Int64
}

// newWorkQueue seeds the queue from an already-deduplicated key list.
// No work may be added after construction, so the channel is closed up
// front and drains naturally.
func newWorkQueue(keys []HostKey) *workQueue {
	items := make(chan HostKey, len(keys))
	for _, key := range keys {
		items <- key
	}
	close(items)

	return &workQueue{
		items:   items,
		total:   len(keys),
		claimed: make(map[HostKey]struct{}, len(keys)),
	}
}

// dequeue removes the next host. It returns false when the queue is
// exhausted or the run has been cancelled; this is the only point where
// workers observe cancellation.
func (q *workQueue) dequeue(ctx context.Context) (HostKey, bool) {
	// Cancellation wins over buffered work. Without this check the
	// select below picks a ready case at random, and a stopped run
	// would keep handing out new hosts.
	select {
	case <-ctx.Done():
		return HostKey{}, false
	default:
	}

	select {
	case <-ctx.Done():
		return HostKey{}, false
	case key, ok := <-q.items:
		return key, ok
	}
}

// claim atomically records that a worker owns the host. A false return
// means another worker already took it; the caller must not touch it.
func (q *workQueue) claim(key HostKey) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.claimed[key]; ok {
		return false
	}
	q.claimed[key] = struct{}{}
	return true
}

// ack marks one unit of work finished, success or not. Every dequeued
// host must be acked exactly once or the drain count never settles.
func (q *workQueue) ack() {
	q.completed.Add(1)
}

func (q *workQueue) scanned() int {
	return int(q.completed.Load())
}

func (q *workQueue) remaining() int {
	return q.total - q.scanned()
}
