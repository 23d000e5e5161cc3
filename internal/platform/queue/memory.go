package queue

import "context"

// MemoryQueue is an in-process Queue used by tests and local development
// where Redis is not available.
type MemoryQueue struct {
	ch chan string
}

func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 64
	}
	return &MemoryQueue{ch: make(chan string, size)}
}

func (q *MemoryQueue) Push(ctx context.Context, value string) error {
	select {
	case q.ch <- value:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) Pop(ctx context.Context) (string, error) {
	select {
	case v := <-q.ch:
		return v, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Len reports the number of queued values. Tests use it to assert drainage.
func (q *MemoryQueue) Len() int {
	return len(q.ch)
}
