package people

// boundedQueue is a fixed-capacity FIFO. Pushing onto a full queue evicts
// the oldest entry. Capacity is fixed at construction; all track buffers
// (position queue, timestamp window, velocity history) are instances of it.
type boundedQueue[T any] struct {
	items []T
	cap   int
}

func newBoundedQueue[T any](capacity int) *boundedQueue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &boundedQueue[T]{
		items: make([]T, 0, capacity),
		cap:   capacity,
	}
}

// Push appends v, evicting the oldest entry if the queue is full. It returns
// the evicted entry and whether an eviction happened.
func (q *boundedQueue[T]) Push(v T) (evicted T, ok bool) {
	if len(q.items) == q.cap {
		evicted = q.items[0]
		ok = true
		copy(q.items, q.items[1:])
		q.items[len(q.items)-1] = v
		return evicted, ok
	}
	q.items = append(q.items, v)
	return evicted, false
}

func (q *boundedQueue[T]) Len() int { return len(q.items) }

func (q *boundedQueue[T]) Cap() int { return q.cap }

func (q *boundedQueue[T]) Full() bool { return len(q.items) == q.cap }

// Oldest returns the least recent entry. It must not be called on an empty queue.
func (q *boundedQueue[T]) Oldest() T { return q.items[0] }

// Newest returns the most recent entry. It must not be called on an empty queue.
func (q *boundedQueue[T]) Newest() T { return q.items[len(q.items)-1] }

// Items returns a copy of the queue contents, oldest first.
func (q *boundedQueue[T]) Items() []T {
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}
