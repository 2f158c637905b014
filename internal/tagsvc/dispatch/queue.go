package dispatch

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultBatchSize    = 5
	DefaultMaxQueueSize = 100
)

// Task is one unit of queued work. Evict fires instead of Run when the
// task is dropped, so a waiting caller still gets an answer.
type Task struct {
	Run   func()
	Evict func()

	seq uint64
}

// WorkQueue is a bounded buffer drained in fixed-size batches. Batch
// items run concurrently; when a batch finishes the next one is taken
// immediately. High-priority tasks go to the front, and when the buffer
// is full the oldest queued task is dropped rather than growing memory.
type WorkQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []*Task
	seq    uint64
	batch  int
	max    int
	closed bool
}

func NewWorkQueue(batchSize, maxSize int) *WorkQueue {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxQueueSize
	}
	q := &WorkQueue{batch: batchSize, max: maxSize}
	q.cond = sync.NewCond(&q.mu)
	go q.drain()
	return q
}

func (q *WorkQueue) Enqueue(t *Task, highPriority bool) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		if t.Evict != nil {
			t.Evict()
		}
		return
	}

	q.seq++
	t.seq = q.seq

	// Buffer position does not reflect age once priority tasks are
	// front-inserted, so eviction goes by enqueue sequence.
	var evicted *Task
	if len(q.tasks) >= q.max {
		oldest := 0
		for i, qt := range q.tasks {
			if qt.seq < q.tasks[oldest].seq {
				oldest = i
			}
		}
		evicted = q.tasks[oldest]
		q.tasks = append(q.tasks[:oldest], q.tasks[oldest+1:]...)
		log.Warnf("work queue full (%d), dropping oldest task", q.max)
	}

	if highPriority {
		q.tasks = append([]*Task{t}, q.tasks...)
	} else {
		q.tasks = append(q.tasks, t)
	}
	q.cond.Signal()
	q.mu.Unlock()

	if evicted != nil && evicted.Evict != nil {
		evicted.Evict()
	}
}

func (q *WorkQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Close stops the drain loop once the remaining tasks are worked off.
func (q *WorkQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
}

func (q *WorkQueue) drain() {
	for {
		q.mu.Lock()
		for len(q.tasks) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.tasks) == 0 && q.closed {
			q.mu.Unlock()
			return
		}

		n := q.batch
		if n > len(q.tasks) {
			n = len(q.tasks)
		}
		batch := make([]*Task, n)
		copy(batch, q.tasks[:n])
		q.tasks = q.tasks[n:]
		q.mu.Unlock()

		var wg sync.WaitGroup
		wg.Add(len(batch))
		for _, t := range batch {
			go func(task *Task) {
				defer wg.Done()
				task.Run()
			}(t)
		}
		wg.Wait()
	}
}
