package queue

import "context"

// MemoryDriver is a channel-backed queue used in development and tests.
type MemoryDriver struct {
	jobs chan []byte
}

// NewMemoryDriver creates an in-process queue with a bounded buffer.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{jobs: make(chan []byte, 1024)}
}

func (d *MemoryDriver) Push(payload []byte) error {
	select {
	case d.jobs <- payload:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload := <-d.jobs:
		return payload, nil
	}
}
