// Package parallel runs background work off the rendering goroutine.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a pool of goroutines for background decode work.
//
// Each worker owns a queue and steals from the others when its own queue is
// empty. Submit never blocks: when every queue is full the work goes to a
// shared overflow list that idle workers drain in FIFO order. The rendering
// goroutine can therefore hand off any number of tile requests in one frame.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers    int
	workQueues []chan func()

	mu       sync.Mutex
	overflow []func()

	// wake nudges a blocked worker when overflow work arrives.
	wake chan struct{}

	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool creates a new worker pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		wake:       make(chan struct{}, workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}

	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	myQueue := p.workQueues[id]

	for {
		select {
		case <-p.done:
			p.drain(myQueue)
			return

		case work := <-myQueue:
			run(work)

		default:
			if stolen := p.steal(id); stolen != nil {
				run(stolen)
				continue
			}
			select {
			case <-p.done:
				p.drain(myQueue)
				return
			case work := <-myQueue:
				run(work)
			case <-p.wake:
			}
		}
	}
}

func run(work func()) {
	if work != nil {
		work()
	}
}

// drain executes the work left in a queue and in the overflow list.
func (p *WorkerPool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			run(work)
		default:
			for work := p.popOverflow(); work != nil; work = p.popOverflow() {
				work()
			}
			return
		}
	}
}

func (p *WorkerPool) popOverflow() func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.overflow) == 0 {
		return nil
	}
	work := p.overflow[0]
	p.overflow[0] = nil
	p.overflow = p.overflow[1:]
	return work
}

// steal takes work from the overflow list, then from another worker's queue.
// Returns nil if no work is available.
func (p *WorkerPool) steal(myID int) func() {
	if work := p.popOverflow(); work != nil {
		return work
	}
	for i := range p.workers {
		if i == myID {
			continue
		}
		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// Submit schedules fn on the worker with the shortest queue. It reports
// false, without running fn, if the pool is closed.
func (p *WorkerPool) Submit(fn func()) bool {
	if fn == nil || !p.running.Load() {
		return false
	}

	minIdx := 0
	minLen := len(p.workQueues[0])
	for i := 1; i < p.workers; i++ {
		if qLen := len(p.workQueues[i]); qLen < minLen {
			minLen = qLen
			minIdx = i
		}
	}

	select {
	case p.workQueues[minIdx] <- fn:
		return true
	default:
	}

	p.mu.Lock()
	p.overflow = append(p.overflow, fn)
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
	return true
}

// Close stops accepting work, runs what is already queued and waits for the
// workers to exit. Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning returns true if the pool is still accepting work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}

// QueuedWork returns the approximate number of work items waiting to run.
func (p *WorkerPool) QueuedWork() int {
	total := 0
	for _, q := range p.workQueues {
		total += len(q)
	}
	p.mu.Lock()
	total += len(p.overflow)
	p.mu.Unlock()
	return total
}
