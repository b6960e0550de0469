package notify

import (
	"sync/atomic"
)

// Queue is a bounded single-producer/single-consumer ring of change
// flags. The audio path is the producer, the coordinating context the
// consumer. Push never blocks and never allocates; when the ring is full
// the flag is dropped, which is safe because delivery is level triggered
// and an earlier queued flag already forces the re-query.
type Queue struct {
	buf  []Change
	mask uint32
	head atomic.Uint32 // next slot to pop
	tail atomic.Uint32 // next slot to push
}

// DefaultQueueCapacity is plenty for the handful of transitions a single
// processing block can produce.
const DefaultQueueCapacity = 64

// NewQueue creates a queue. capacity is rounded up to a power of two;
// values < 2 use DefaultQueueCapacity.
func NewQueue(capacity int) *Queue {
	if capacity < 2 {
		capacity = DefaultQueueCapacity
	}
	size := 1
	for size < capacity {
		size <<= 1
	}
	return &Queue{
		buf:  make([]Change, size),
		mask: uint32(size - 1),
	}
}

// Push enqueues a change flag. It reports false when the ring is full and
// the flag was dropped. Producer side only.
func (q *Queue) Push(change Change) bool {
	tail := q.tail.Load()
	head := q.head.Load()
	if tail-head >= uint32(len(q.buf)) {
		return false
	}
	q.buf[tail&q.mask] = change
	q.tail.Store(tail + 1)
	return true
}

// Pop dequeues the oldest flag. Consumer side only.
func (q *Queue) Pop() (Change, bool) {
	head := q.head.Load()
	if head == q.tail.Load() {
		return Change{}, false
	}
	change := q.buf[head&q.mask]
	q.head.Store(head + 1)
	return change, true
}

// Len reports the number of queued flags. Approximate under concurrency.
func (q *Queue) Len() int {
	return int(q.tail.Load() - q.head.Load())
}

// Cap reports the ring capacity.
func (q *Queue) Cap() int {
	return len(q.buf)
}
