package runworker

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// RunJob is one scheduled automation run. Jobs for the same user always land
// on the same worker, which keeps a user's runs strictly sequential while
// letting runs of distinct users proceed in parallel.
type RunJob struct {
	UserID  string
	Handler func(ctx context.Context)
}

// PoolStats are the live metrics exposed over the REST surface.
type PoolStats struct {
	NumWorkers      int           `json:"num_workers"`
	QueueSize       int           `json:"queue_size"`
	TotalDispatched int64         `json:"total_dispatched"`
	TotalProcessed  int64         `json:"total_processed"`
	TotalDropped    int64         `json:"total_dropped"`
	WorkerStats     []WorkerStats `json:"worker_stats"`
}

type WorkerStats struct {
	WorkerID      int   `json:"worker_id"`
	QueueDepth    int   `json:"queue_depth"`
	IsProcessing  bool  `json:"is_processing"`
	JobsProcessed int64 `json:"jobs_processed"`
}

// Pool is a sharded worker pool for automation runs.
type Pool struct {
	numWorkers int
	queueSize  int
	workers    []*worker
	wg         sync.WaitGroup
	stopOnce   sync.Once
	stopped    int32

	totalDispatched int64
	totalProcessed  int64
	totalDropped    int64
}

type worker struct {
	id            int
	jobQueue      chan RunJob
	cancel        context.CancelFunc
	isProcessing  int32
	jobsProcessed int64
	pool          *Pool
}

func NewPool(numWorkers, queueSize int) *Pool {
	if numWorkers <= 0 {
		numWorkers = 4
	}
	if queueSize <= 0 {
		queueSize = 16
	}
	return &Pool{
		numWorkers: numWorkers,
		queueSize:  queueSize,
		workers:    make([]*worker, numWorkers),
	}
}

// Start launches all workers. The pool stops when ctx is cancelled or Stop
// is called.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		workerCtx, cancel := context.WithCancel(ctx)
		w := &worker{
			id:       i,
			jobQueue: make(chan RunJob, p.queueSize),
			cancel:   cancel,
			pool:     p,
		}
		p.workers[i] = w

		p.wg.Add(1)
		go w.run(workerCtx, &p.wg)
	}

	logrus.Infof("[RUN_POOL] Started with %d workers, queue size: %d", p.numWorkers, p.queueSize)
}

// TryDispatch enqueues a job on the user's shard without blocking. It
// reports false when the pool is stopped or the shard queue is full, so HTTP
// callers can apply backpressure.
func (p *Pool) TryDispatch(job RunJob) bool {
	if atomic.LoadInt32(&p.stopped) == 1 {
		atomic.AddInt64(&p.totalDropped, 1)
		return false
	}

	shard := p.shardFor(job.UserID)
	select {
	case p.workers[shard].jobQueue <- job:
		atomic.AddInt64(&p.totalDispatched, 1)
		return true
	default:
		atomic.AddInt64(&p.totalDropped, 1)
		logrus.Warnf("[RUN_POOL] Worker %d queue full, dropping run for user %s", shard, job.UserID)
		return false
	}
}

// Stop shuts the pool down and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		atomic.StoreInt32(&p.stopped, 1)
		for _, w := range p.workers {
			w.cancel()
			close(w.jobQueue)
		}
		p.wg.Wait()
		logrus.Info("[RUN_POOL] Stopped")
	})
}

// Stats returns a snapshot of the pool metrics.
func (p *Pool) Stats() PoolStats {
	stats := PoolStats{
		NumWorkers:      p.numWorkers,
		QueueSize:       p.queueSize,
		TotalDispatched: atomic.LoadInt64(&p.totalDispatched),
		TotalProcessed:  atomic.LoadInt64(&p.totalProcessed),
		TotalDropped:    atomic.LoadInt64(&p.totalDropped),
	}
	for _, w := range p.workers {
		stats.WorkerStats = append(stats.WorkerStats, WorkerStats{
			WorkerID:      w.id,
			QueueDepth:    len(w.jobQueue),
			IsProcessing:  atomic.LoadInt32(&w.isProcessing) == 1,
			JobsProcessed: atomic.LoadInt64(&w.jobsProcessed),
		})
	}
	return stats
}

func (p *Pool) shardFor(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(p.numWorkers))
}

func (w *worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-w.jobQueue:
			if !ok {
				return
			}
			atomic.StoreInt32(&w.isProcessing, 1)
			job.Handler(ctx)
			atomic.StoreInt32(&w.isProcessing, 0)
			atomic.AddInt64(&w.jobsProcessed, 1)
			atomic.AddInt64(&w.pool.totalProcessed, 1)
		}
	}
}
