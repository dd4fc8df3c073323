package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/config"
	"github.com/dgallion1/docchunk/internal/stats"
)

// ErrStopped is returned by Submit once the orchestrator has shut down.
var ErrStopped = errors.New("chunking pipeline is shutting down")

// Orchestrator runs uploaded documents through load and chunk on a fixed
// pool of workers fed by a bounded queue. Finished jobs stay readable in
// the job store until their TTL expires.
type Orchestrator struct {
	jobs   *JobStore
	queue  chan *Job
	engine *chunker.Engine
	stats  *stats.Latency
	log    *slog.Logger
	cfg    config.Config

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once

	mu     sync.RWMutex // guards closed and sends on queue
	closed bool
}

// NewOrchestrator sizes the queue and job TTL from cfg. Nothing runs until
// Start.
func NewOrchestrator(cfg config.Config, engine *chunker.Engine, st *stats.Latency, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxQueueSize),
		engine: engine,
		stats:  st,
		log:    log,
		cfg:    cfg,
	}
}

// Start launches cfg.WorkerCount workers sharing engine and a janitor that
// evicts expired jobs every five minutes.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.engine, o.stats, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Janitor.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop cancels in-flight jobs, closes the queue and waits for every worker.
// Call it after the HTTP server has stopped accepting uploads.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		if o.cancel != nil {
			o.cancel()
		}
		o.mu.Lock()
		o.closed = true
		close(o.queue)
		o.mu.Unlock()
		o.wg.Wait()
	})
}

// Submit queues a new job for processing. Jobs submitted after Stop are
// failed with ErrStopped.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)

	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		job.Fail("queued", ErrStopped)
		return ErrStopped
	}
	select {
	case o.queue <- job:
		return nil
	default:
		job.Fail("queue_full", fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize))
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns the job with id, or nil once it expired or never existed.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth is the number of uploads waiting for a worker.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
