package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// WorkerPool Creation Tests
// =============================================================================

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("Pool should be running after creation")
	}
}

func TestWorkerPool_CreateZeroWorkers(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	expected := runtime.GOMAXPROCS(0)
	if pool.Workers() != expected {
		t.Errorf("Workers() = %d, want %d (GOMAXPROCS)", pool.Workers(), expected)
	}
}

// =============================================================================
// Submit Tests
// =============================================================================

func TestWorkerPool_Submit(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	numTasks := 20
	done := make(chan struct{})

	for range numTasks {
		ok := pool.Submit(func() {
			if counter.Add(1) == int64(numTasks) {
				close(done)
			}
		})
		if !ok {
			t.Fatal("Submit() = false on a running pool")
		}
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Errorf("timeout waiting for submitted work, counter = %d", counter.Load())
	}
}

func TestWorkerPool_SubmitNeverBlocks(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Close()

	release := make(chan struct{})
	pool.Submit(func() { <-release })

	var counter atomic.Int64
	numTasks := 500 // far more than the queue holds

	submitted := make(chan struct{})
	go func() {
		for range numTasks {
			pool.Submit(func() { counter.Add(1) })
		}
		close(submitted)
	}()

	select {
	case <-submitted:
	case <-time.After(5 * time.Second):
		t.Fatal("Submit blocked while the only worker was busy")
	}
	if pool.QueuedWork() == 0 {
		t.Error("QueuedWork() = 0 while work is pending")
	}

	close(release)
	deadline := time.Now().Add(5 * time.Second)
	for counter.Load() < int64(numTasks) && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if counter.Load() != int64(numTasks) {
		t.Errorf("counter = %d, want %d", counter.Load(), numTasks)
	}
}

func TestWorkerPool_OverflowOrder(t *testing.T) {
	pool := NewWorkerPool(1)

	started := make(chan struct{})
	release := make(chan struct{})
	pool.Submit(func() {
		close(started)
		<-release
	})
	<-started

	var mu sync.Mutex
	var order []int
	for i := range 100 {
		pool.Submit(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	close(release)
	pool.Close()

	if len(order) != 100 {
		t.Fatalf("ran %d tasks, want 100", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("order[%d] = %d; a single worker should run work in submission order", i, v)
		}
	}
}

func TestWorkerPool_SubmitNil(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	if pool.Submit(nil) {
		t.Error("Submit(nil) = true")
	}
}

// =============================================================================
// Close Tests
// =============================================================================

func TestWorkerPool_CloseRunsQueuedWork(t *testing.T) {
	pool := NewWorkerPool(2)

	var counter atomic.Int64
	for range 50 {
		pool.Submit(func() {
			time.Sleep(100 * time.Microsecond)
			counter.Add(1)
		})
	}
	pool.Close()

	if counter.Load() != 50 {
		t.Errorf("counter = %d after Close, want 50", counter.Load())
	}
}

func TestWorkerPool_CloseIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close()

	if pool.IsRunning() {
		t.Error("IsRunning() = true after Close")
	}
	if pool.Submit(func() {}) {
		t.Error("Submit() = true after Close")
	}
}

func TestWorkerPool_ConcurrentSubmit(t *testing.T) {
	pool := NewWorkerPool(4)

	var counter atomic.Int64
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				pool.Submit(func() { counter.Add(1) })
			}
		}()
	}
	wg.Wait()
	pool.Close()

	if counter.Load() != 800 {
		t.Errorf("counter = %d, want 800", counter.Load())
	}
}
