package batch

// Queue is the batch's work queue of image paths. It is seeded once and
// sealed, so Pop never waits for more work to appear.
type Queue struct {
	items chan string
}

// NewQueue seeds a sealed queue with paths in order.
func NewQueue(paths []string) *Queue {
	items := make(chan string, len(paths))
	for _, p := range paths {
		items <- p
	}
	close(items)
	return &Queue{items: items}
}

// Pop removes the next path. It returns false once the queue is empty.
// Safe for concurrent use; no two callers receive the same path.
func (q *Queue) Pop() (string, bool) {
	p, ok := <-q.items
	return p, ok
}

// Len returns the number of paths still queued.
func (q *Queue) Len() int {
	return len(q.items)
}
