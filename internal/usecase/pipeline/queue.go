package pipeline

import "sync"

// Queue is a FIFO hand-off between one producer and one consumer.
// A capacity of zero means unbounded. With a positive capacity Push blocks
// while the queue is full; items are never dropped.
type Queue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	items    []Item
	capacity int
}

// NewQueue allocates a queue with the given capacity
func NewQueue(capacity int) *Queue {
	if capacity < 0 {
		capacity = 0
	}
	q := &Queue{capacity: capacity}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Push appends an item, blocking while a bounded queue is full
func (q *Queue) Push(item Item) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.capacity > 0 && len(q.items) >= q.capacity {
		q.notFull.Wait()
	}
	q.items = append(q.items, item)
	q.notEmpty.Signal()
}

// Pop removes the oldest item, blocking until one is available
func (q *Queue) Pop() Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 {
		q.notEmpty.Wait()
	}
	item := q.items[0]
	q.items[0] = Item{}
	q.items = q.items[1:]
	q.notFull.Signal()
	return item
}

// Len returns the number of queued items
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Capacity returns the configured bound, zero when unbounded
func (q *Queue) Capacity() int {
	return q.capacity
}
