package queue

import (
	"context"
	"errors"
)

// ErrQueueFull is returned by MemoryDriver.Push when the buffer is full.
// Callers dispatching from a listener drop the job rather than block.
var ErrQueueFull = errors.New("queue: buffer full")

// MemoryDriver keeps jobs in a bounded channel. Jobs are lost on restart
// and only workers in the same process see them.
type MemoryDriver struct {
	ch chan []byte
}

// NewMemoryDriver buffers up to capacity jobs (at least one).
func NewMemoryDriver(capacity int) *MemoryDriver {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryDriver{ch: make(chan []byte, capacity)}
}

func (d *MemoryDriver) Push(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case d.ch <- payload:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload := <-d.ch:
		return payload, nil
	}
}

func (d *MemoryDriver) Len(context.Context) (int64, error) { return int64(len(d.ch)), nil }
