package render

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rowanvale/html2img/internal/logging"
)

// renderJob is one unit of CPU-bound work handed to the pool. The result
// channel is buffered so a worker can always publish and move on, even when
// the submitter has already gone away.
type renderJob struct {
	id       uuid.UUID
	fn       func() ([]byte, error)
	resultCh chan jobResult
}

type jobResult struct {
	bytes    []byte
	err      error
	duration time.Duration
}

// PoolMetrics tracks worker pool throughput.
type PoolMetrics struct {
	TotalJobs     int64
	SuccessJobs   int64
	FailedJobs    int64
	ActiveWorkers int32
	QueueLength   int32
}

// WorkerPool runs render jobs on a fixed set of OS-thread-bound goroutines,
// sized independently of the number of concurrent connections. The job
// channel is bounded; submission blocks when it is full, which is the
// system's backpressure point.
type WorkerPool struct {
	workerCount int
	jobChan     chan *renderJob
	quitChan    chan struct{}
	wg          sync.WaitGroup
	submitters  sync.WaitGroup
	metrics     PoolMetrics

	mu      sync.Mutex
	running bool
}

// NewWorkerPool creates a pool with workerCount workers and a job queue of
// queueSize entries. Non-positive arguments fall back to small defaults.
func NewWorkerPool(workerCount, queueSize int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 3
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &WorkerPool{
		workerCount: workerCount,
		jobChan:     make(chan *renderJob, queueSize),
		quitChan:    make(chan struct{}),
	}
}

// Start launches the workers. Calling Start on a running pool is a no-op.
func (p *WorkerPool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true

	logging.InfoWithComponent(logging.ComponentWorkerPool, "starting render worker pool",
		"workers", p.workerCount, "queue_size", cap(p.jobChan))

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop signals the workers and waits for in-flight jobs to finish. Jobs still
// queued are failed with a task error.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	close(p.quitChan)
	// No new submitter can pass the running check now; wait out the ones
	// already past it so the drain below sees every enqueued job.
	p.submitters.Wait()
	p.wg.Wait()

	// Fail anything the workers never picked up.
	for {
		select {
		case job := <-p.jobChan:
			job.resultCh <- jobResult{err: Taskf("render queue shut down")}
		default:
			logging.InfoWithComponent(logging.ComponentWorkerPool, "worker pool stopped")
			return
		}
	}
}

// Metrics returns a snapshot of the pool counters.
func (p *WorkerPool) Metrics() PoolMetrics {
	return PoolMetrics{
		TotalJobs:     atomic.LoadInt64(&p.metrics.TotalJobs),
		SuccessJobs:   atomic.LoadInt64(&p.metrics.SuccessJobs),
		FailedJobs:    atomic.LoadInt64(&p.metrics.FailedJobs),
		ActiveWorkers: atomic.LoadInt32(&p.metrics.ActiveWorkers),
		QueueLength:   int32(len(p.jobChan)),
	}
}

// Submit enqueues fn and waits for its result. If the queue is full the call
// blocks until space frees up or ctx is done; submitting to a stopped pool
// fails immediately. A job already picked up by a worker is never preempted:
// when ctx is cancelled mid-render the job runs to completion and its result
// is discarded.
func (p *WorkerPool) Submit(ctx context.Context, fn func() ([]byte, error)) ([]byte, *Error) {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil, Taskf("render queue shut down")
	}
	p.submitters.Add(1)
	p.mu.Unlock()

	job := &renderJob{
		id: uuid.New(),
		fn: fn,
		// Buffered so the worker never blocks on an abandoned submitter.
		resultCh: make(chan jobResult, 1),
	}

	select {
	case p.jobChan <- job:
		p.submitters.Done()
	case <-p.quitChan:
		p.submitters.Done()
		return nil, Taskf("render queue shut down")
	case <-ctx.Done():
		p.submitters.Done()
		return nil, Taskf("request cancelled before render started: %v", ctx.Err())
	}

	select {
	case result := <-job.resultCh:
		if result.err != nil {
			return nil, AsError(result.err)
		}
		return result.bytes, nil
	case <-ctx.Done():
		logging.DebugWithComponent(logging.ComponentWorkerPool, "caller gone, render result will be discarded",
			"job_id", job.id)
		return nil, Taskf("request cancelled while rendering: %v", ctx.Err())
	}
}

// worker runs jobs until the pool is stopped.
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	logging.DebugWithComponent(logging.ComponentWorker, "worker started", "id", id)
	atomic.AddInt32(&p.metrics.ActiveWorkers, 1)
	defer atomic.AddInt32(&p.metrics.ActiveWorkers, -1)

	for {
		select {
		case <-p.quitChan:
			logging.DebugWithComponent(logging.ComponentWorker, "worker stopping", "id", id)
			return
		case job := <-p.jobChan:
			p.runJob(id, job)
		}
	}
}

// runJob executes one job, converting a worker panic into a task error
// instead of taking down the process.
func (p *WorkerPool) runJob(workerID int, job *renderJob) {
	atomic.AddInt64(&p.metrics.TotalJobs, 1)

	start := time.Now()
	var result jobResult

	func() {
		defer func() {
			if r := recover(); r != nil {
				result = jobResult{err: Taskf("render worker panicked: %v", r)}
			}
		}()
		bytes, err := job.fn()
		result = jobResult{bytes: bytes, err: err}
	}()
	result.duration = time.Since(start)

	if result.err != nil {
		atomic.AddInt64(&p.metrics.FailedJobs, 1)
		logging.DebugWithComponent(logging.ComponentWorker, "render job failed",
			"worker_id", workerID, "job_id", job.id, "duration", result.duration, "error", result.err)
	} else {
		atomic.AddInt64(&p.metrics.SuccessJobs, 1)
		logging.DebugWithComponent(logging.ComponentWorker, "render job completed",
			"worker_id", workerID, "job_id", job.id, "duration", result.duration)
	}

	job.resultCh <- result
}
