package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrDispatcherClosed is returned by Dispatch once Close has been called.
var ErrDispatcherClosed = errors.New("queue: dispatcher closed")

// LocalDispatcher runs tasks on an in-process worker pool. It is the default
// when no Cloud project is configured.
type LocalDispatcher struct {
	tasks   chan Task
	handler Handler
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
}

func NewLocalDispatcher(workers int, handler Handler) *LocalDispatcher {
	d := &LocalDispatcher{
		tasks:   make(chan Task, workers*4),
		handler: handler,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

func (d *LocalDispatcher) worker() {
	defer d.wg.Done()
	for task := range d.tasks {
		d.handler(context.Background(), task)
	}
}

// Dispatch queues the task, blocking only if the buffer is full. After Close
// it returns ErrDispatcherClosed.
func (d *LocalDispatcher) Dispatch(ctx context.Context, task Task) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}
	select {
	case d.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits for in-flight work to finish. It
// blocks until any Dispatch already in progress has queued its task.
func (d *LocalDispatcher) Close() error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.tasks)
	}
	d.mu.Unlock()
	d.wg.Wait()
	return nil
}
