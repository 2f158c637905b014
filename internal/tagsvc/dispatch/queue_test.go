package dispatch

import (
	"sync"
	"testing"
	"time"
)

// Filling the queue past its bound must evict the oldest unstarted task
// instead of growing without limit.
func TestQueueDropsOldestWhenFull(t *testing.T) {
	q := NewWorkQueue(1, 3)
	defer q.Close()

	started := make(chan struct{})
	release := make(chan struct{})
	q.Enqueue(&Task{Run: func() {
		close(started)
		<-release
	}}, false)
	<-started // blocker is draining, queue itself is empty again

	var mu sync.Mutex
	var ran []string
	var evicted []string
	done := make(chan struct{}, 3)

	mk := func(name string) *Task {
		return &Task{
			Run: func() {
				mu.Lock()
				ran = append(ran, name)
				mu.Unlock()
				done <- struct{}{}
			},
			Evict: func() {
				mu.Lock()
				evicted = append(evicted, name)
				mu.Unlock()
			},
		}
	}

	q.Enqueue(mk("t1"), false)
	q.Enqueue(mk("t2"), false)
	q.Enqueue(mk("t3"), false)
	if q.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", q.Len())
	}

	q.Enqueue(mk("t4"), false) // over capacity, t1 must go

	mu.Lock()
	gotEvicted := append([]string(nil), evicted...)
	mu.Unlock()
	if len(gotEvicted) != 1 || gotEvicted[0] != "t1" {
		t.Fatalf("evicted = %v, want [t1]", gotEvicted)
	}
	if q.Len() != 3 {
		t.Errorf("Len() = %d after eviction, want 3", q.Len())
	}

	close(release)
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("queued tasks did not finish")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(ran) != 3 {
		t.Errorf("ran = %v, want t2 t3 t4", ran)
	}
	for _, name := range ran {
		if name == "t1" {
			t.Error("evicted task still ran")
		}
	}
}

// Live dispatches all enqueue high priority, which front-inserts; the
// overflow drop must still take the oldest task, not whatever sits at
// the front.
func TestQueueDropsOldestWhenFullHighPriority(t *testing.T) {
	q := NewWorkQueue(1, 2)
	defer q.Close()

	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	q.Enqueue(&Task{Run: func() {
		close(started)
		<-release
	}}, false)
	<-started

	var mu sync.Mutex
	var evicted []string

	mk := func(name string) *Task {
		return &Task{
			Run: func() {},
			Evict: func() {
				mu.Lock()
				evicted = append(evicted, name)
				mu.Unlock()
			},
		}
	}

	q.Enqueue(mk("t1"), true)
	q.Enqueue(mk("t2"), true)
	q.Enqueue(mk("t3"), true) // over capacity, t1 is still the oldest

	mu.Lock()
	defer mu.Unlock()
	if len(evicted) != 1 || evicted[0] != "t1" {
		t.Errorf("evicted = %v, want [t1]", evicted)
	}
}

// High-priority tasks are inserted at the front of the buffer.
func TestQueuePriorityRunsFirst(t *testing.T) {
	q := NewWorkQueue(1, 10)
	defer q.Close()

	started := make(chan struct{})
	release := make(chan struct{})
	q.Enqueue(&Task{Run: func() {
		close(started)
		<-release
	}}, false)
	<-started

	var mu sync.Mutex
	var order []string
	done := make(chan struct{}, 2)

	mk := func(name string) *Task {
		return &Task{Run: func() {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			done <- struct{}{}
		}}
	}

	q.Enqueue(mk("normal"), false)
	q.Enqueue(mk("live"), true)

	close(release)
	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("tasks did not finish")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "live" {
		t.Errorf("execution order = %v, want live before normal", order)
	}
}

func TestQueueBatchRunsConcurrently(t *testing.T) {
	q := NewWorkQueue(3, 10)
	defer q.Close()

	var wg sync.WaitGroup
	wg.Add(3)
	barrier := make(chan struct{})

	// all three wait for each other; only possible if the batch is
	// actually concurrent
	for i := 0; i < 3; i++ {
		q.Enqueue(&Task{Run: func() {
			wg.Done()
			<-barrier
		}}, false)
	}

	waited := make(chan struct{})
	go func() {
		wg.Wait()
		close(waited)
	}()

	select {
	case <-waited:
		close(barrier)
	case <-time.After(2 * time.Second):
		t.Fatal("batch items did not run concurrently")
	}
}

func TestEnqueueAfterCloseEvicts(t *testing.T) {
	q := NewWorkQueue(1, 10)
	q.Close()

	evicted := make(chan struct{}, 1)
	q.Enqueue(&Task{
		Run:   func() { t.Error("task ran on a closed queue") },
		Evict: func() { evicted <- struct{}{} },
	}, false)

	select {
	case <-evicted:
	case <-time.After(time.Second):
		t.Fatal("Evict did not fire on closed queue")
	}
}
