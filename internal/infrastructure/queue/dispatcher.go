package queue

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/samarth/admin-console/internal/api/metrics"
	"github.com/samarth/admin-console/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// ErrQueueFull is returned by Enqueue when the target worker is saturated.
var ErrQueueFull = errors.New("sync queue full")

// ErrStopped is returned by Enqueue once the dispatcher has been stopped.
var ErrStopped = errors.New("sync dispatcher stopped")

// Dispatcher routes sync jobs to a fixed set of workers using consistent
// hashing on kind/id, so repeated syncs of one resource run in order.
type Dispatcher struct {
	workers []chan ports.SyncJob
	service ports.SyncService
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.SyncService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.SyncJob, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.SyncJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their channel and
// exit after Stop, or return early when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Stop closes every worker channel and waits for in-flight jobs.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// Enqueue assigns the job an ID when it has none and hands it to the worker
// responsible for its resource. It never blocks.
func (d *Dispatcher) Enqueue(job ports.SyncJob) (string, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return "", ErrStopped
	}

	idx := d.shardIndex(job)
	select {
	case d.workers[idx] <- job:
		metrics.SyncQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return job.ID, nil
	default:
		return "", fmt.Errorf("enqueue %s/%d: %w", job.Kind, job.ResourceID, ErrQueueFull)
	}
}

// shardIndex maps a resource deterministically to a worker index.
func (d *Dispatcher) shardIndex(job ports.SyncJob) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(string(job.Kind) + "/" + strconv.Itoa(job.ResourceID)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.SyncJob) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.SyncQueueDepth.WithLabelValues(label).Dec()

			result := "ok"
			if err := d.service.Process(ctx, job); err != nil {
				result = "error"
				d.log.Error().Err(err).
					Str("job_id", job.ID).
					Str("kind", string(job.Kind)).
					Int("resource_id", job.ResourceID).
					Int("worker_id", id).
					Msg("sync job failed")
			}
			metrics.SyncJobsTotal.WithLabelValues(string(job.Kind), result).Inc()
		}
	}
}
