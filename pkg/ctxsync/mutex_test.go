package ctxsync_test

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vinicius-lino-figueiredo/pathdb/pkg/ctxsync"
)

// A fresh mutex must be acquirable immediately, with no other goroutine
// involved.
func TestLockUncontended(t *testing.T) {
	mu := ctxsync.NewMutex()

	done := make(chan struct{})
	go func() {
		defer close(done)
		mu.Lock()
		mu.Unlock()
		assert.NoError(t, mu.LockWithContext(context.Background()))
		mu.Unlock()
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("uncontended Lock did not return")
	}
}

// Multiple goroutines should not be able to acquire the same lock.
func TestLock(t *testing.T) {
	workers := 1000

	n := 0
	mu := ctxsync.NewMutex()

	getReady := sync.WaitGroup{}
	add := sync.WaitGroup{}
	getReady.Add(workers)
	add.Add(workers)

	ch := make(chan struct{})

	for range workers {
		go func() {
			defer add.Done()
			getReady.Done()
			<-ch // released after all goroutines are parked here
			mu.Lock()
			defer mu.Unlock()
			n++
		}()
	}

	getReady.Wait()

	time.Sleep(time.Millisecond)
	close(ch) // unlock so they all call mu.Lock at once

	add.Wait()

	assert.Equal(t, workers, n)
}

// Goroutines should acquire the lock in the same order they called Lock.
func TestOrder(t *testing.T) {
	workers := 1000

	n := make([]int, 0, workers)
	mu := ctxsync.NewMutex()
	wg := sync.WaitGroup{}

	mu.Lock()

	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mu.Lock()
			defer mu.Unlock()
			n = append(n, i)
		}()

		// make sure the next goroutine won't call Lock before this one
		time.Sleep(time.Millisecond)
	}
	mu.Unlock()
	wg.Wait()
	assert.Len(t, n, workers)
	assert.True(t, slices.IsSorted(n))
}

// Should not wait for the lock if the passed context is already canceled.
func TestCanceledContext(t *testing.T) {
	workers := 100

	errs := make([]error, workers)
	mu := ctxsync.NewMutex()
	wg := sync.WaitGroup{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mu.Lock()

	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := mu.LockWithContext(ctx); err != nil {
				errs[i] = err
			}
		}()
	}

	// No need to unlock, they should not even try locking
	wg.Wait()

	for _, e := range errs {
		assert.Error(t, e)
	}
}

// Should return an error when the context is canceled while waiting.
func TestCancelingWhileWaiting(t *testing.T) {
	mu := ctxsync.NewMutex()
	mu.Lock()

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- mu.LockWithContext(ctx)
	}()

	time.Sleep(time.Millisecond)
	cancel()

	assert.Error(t, <-done)

	// the holder can still release and relock
	mu.Unlock()
	assert.True(t, mu.TryLock())
	mu.Unlock()
}

// Should not lock a locked mutex.
func TestTryLockLocked(t *testing.T) {
	mu := ctxsync.NewMutex()
	mu.Lock()
	assert.False(t, mu.TryLock())
	mu.Unlock()
	assert.True(t, mu.TryLock())
	mu.Unlock()
}

// Should panic if Unlock is called before Lock.
func TestUnlockWithoutLock(t *testing.T) {
	mu := ctxsync.NewMutex()
	assert.Panics(t, func() {
		mu.Unlock()
	})
}

// Should panic if Unlock is called twice without another Lock.
func TestDoubleUnlock(t *testing.T) {
	mu := ctxsync.NewMutex()

	mu.Lock()
	mu.Unlock()

	assert.Panics(t, func() {
		mu.Unlock()
	})
}

// BenchmarkLockUnlock tests performance for consecutive Lock/Unlock calls.
func BenchmarkLockUnlock(b *testing.B) {
	mu := ctxsync.NewMutex()
	ctx := context.Background()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			mu.LockWithContext(ctx)
			mu.Unlock()
		}
	})
}
