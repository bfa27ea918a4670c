// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package workqueue provides named request queues and semaphores.
//
// A Queue runs posted requests in posting order on at most n
// goroutines. A Queue of size 1 is a single-threaded request
// processor: each request observes the effects of the previous ones.
package workqueue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// ErrClosed is returned when posting to a closed queue.
var ErrClosed = errors.New("workqueue: closed")

type request struct {
	ctx context.Context
	f   func(ctx context.Context)
}

// Queue is a named FIFO request queue.
type Queue struct {
	name string
	sema *Semaphore

	mu       sync.Mutex
	pending  []request
	running  bool
	closed   bool
	inflight sync.WaitGroup

	posts atomic.Int64
}

// New creates a new queue with name that runs up to n requests
// concurrently. The owner of the queue closes it.
func New(name string, n int) *Queue {
	if n < 1 {
		n = 1
	}
	return &Queue{
		name: name,
		sema: NewSemaphore(name, n),
	}
}

// Name returns name of the queue.
func (q *Queue) Name() string {
	return q.name
}

// Post queues f. Requests run in posting order. f is skipped if ctx
// is done by the time it would run.
func (q *Queue) Post(ctx context.Context, f func(ctx context.Context)) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.posts.Add(1)
	q.inflight.Add(1)
	q.pending = append(q.pending, request{ctx: ctx, f: f})
	if !q.running {
		q.running = true
		go q.dispatch()
	}
	return nil
}

func (q *Queue) dispatch() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		req := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		if req.ctx.Err() != nil {
			log.Debugf("workqueue %s: drop request: %v", q.name, context.Cause(req.ctx))
			q.inflight.Done()
			continue
		}
		_, release, err := q.sema.WaitAcquire(req.ctx)
		if err != nil {
			q.inflight.Done()
			continue
		}
		go func() {
			defer q.inflight.Done()
			defer release()
			req.f(req.ctx)
		}()
		if q.sema.Capacity() == 1 {
			// wait for completion so the next request sees
			// the effects of this one.
			_, release, _ := q.sema.WaitAcquire(context.Background())
			release()
		}
	}
}

// Wait waits until all posted requests finish.
func (q *Queue) Wait() {
	q.inflight.Wait()
}

// Close rejects further requests and waits for posted ones.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.Wait()
}

// NumPosts returns total number of posted requests.
func (q *Queue) NumPosts() int {
	return int(q.posts.Load())
}

// Do runs f synchronously under the queue's concurrency limit.
func (q *Queue) Do(ctx context.Context, f func(ctx context.Context) error) error {
	return q.sema.Do(ctx, f)
}
