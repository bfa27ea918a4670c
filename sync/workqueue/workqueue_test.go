// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package workqueue_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/makeproj/sync/workqueue"
)

func TestClose(t *testing.T) {
	ctx := context.Background()
	q := workqueue.New(t.Name(), 1)
	// queues of the same name are independent.
	other := workqueue.New(t.Name(), 1)
	defer other.Close()

	var ran atomic.Bool
	if err := q.Post(ctx, func(context.Context) { ran.Store(true) }); err != nil {
		t.Fatalf("Post=%v; want nil", err)
	}
	q.Close()
	if !ran.Load() {
		t.Errorf("posted request did not run before Close returned")
	}
	if err := q.Post(ctx, func(context.Context) {}); !errors.Is(err, workqueue.ErrClosed) {
		t.Errorf("Post after Close=%v; want %v", err, workqueue.ErrClosed)
	}
	if err := other.Post(ctx, func(context.Context) {}); err != nil {
		t.Errorf("Post to other queue=%v; want nil", err)
	}
}

func TestPostOrder(t *testing.T) {
	ctx := context.Background()
	q := workqueue.New(t.Name(), 1)
	var mu sync.Mutex
	var got []int
	for i := range 20 {
		err := q.Post(ctx, func(ctx context.Context) {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
		if err != nil {
			t.Fatalf("Post(%d)=%v", i, err)
		}
	}
	q.Close()
	var want []int
	for i := range 20 {
		want = append(want, i)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order diff -want +got:\n%s", diff)
	}
	if err := q.Post(ctx, func(context.Context) {}); !errors.Is(err, workqueue.ErrClosed) {
		t.Errorf("Post after Close=%v; want %v", err, workqueue.ErrClosed)
	}
}

func TestPostCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	q := workqueue.New(t.Name(), 2)
	var n atomic.Int32
	if err := q.Post(ctx, func(context.Context) { n.Add(1) }); err != nil {
		t.Fatal(err)
	}
	q.Wait()
	if got := n.Load(); got != 0 {
		t.Errorf("canceled request ran %d times", got)
	}
	q.Close()
}

func TestSemaphore(t *testing.T) {
	ctx := context.Background()
	s := workqueue.NewSemaphore(t.Name(), 2)
	if got, want := s.Capacity(), 2; got != want {
		t.Errorf("Capacity=%d; want %d", got, want)
	}
	_, done1, err := s.WaitAcquire(ctx)
	if err != nil {
		t.Fatal(err)
	}
	_, done2, err := s.WaitAcquire(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.NumServs(); got != 2 {
		t.Errorf("NumServs=%d; want 2", got)
	}
	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, _, err := s.WaitAcquire(cctx); !errors.Is(err, context.Canceled) {
		t.Errorf("WaitAcquire on full semaphore with canceled ctx=%v; want %v", err, context.Canceled)
	}
	done1()
	done2()
	err = s.Do(ctx, func(context.Context) error { return nil })
	if err != nil {
		t.Errorf("Do=%v", err)
	}
	if got, want := s.NumRequests(), 3; got != want {
		t.Errorf("NumRequests=%d; want %d", got, want)
	}
}
