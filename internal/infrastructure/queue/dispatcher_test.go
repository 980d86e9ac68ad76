package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/samarth/admin-console/internal/core/domain"
	"github.com/samarth/admin-console/internal/core/ports"
)

type recordingService struct {
	mu   sync.Mutex
	jobs []ports.SyncJob
	err  error
}

func (s *recordingService) Process(_ context.Context, job ports.SyncJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	return s.err
}

func TestDispatcher_ProcessesJobsInOrderPerResource(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(3, svc, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < 5; i++ {
		if _, err := d.Enqueue(ports.SyncJob{ID: string(rune('a' + i)), Kind: domain.SyncContent, ResourceID: 9}); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	d.Stop()

	if len(svc.jobs) != 5 {
		t.Fatalf("expected 5 processed jobs, got %d", len(svc.jobs))
	}
	for i, job := range svc.jobs {
		if want := string(rune('a' + i)); job.ID != want {
			t.Fatalf("job %d: expected id %s, got %s", i, want, job.ID)
		}
	}
}

func TestDispatcher_AssignsJobID(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(1, svc, zerolog.Nop())
	d.Start(context.Background())

	id, err := d.Enqueue(ports.SyncJob{Kind: domain.SyncTraining, ResourceID: 1})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	d.Stop()

	if id == "" {
		t.Fatalf("expected generated job id")
	}
	if svc.jobs[0].ID != id {
		t.Fatalf("expected processed job to carry id %s, got %s", id, svc.jobs[0].ID)
	}
}

func TestDispatcher_FailedJobDoesNotStopWorker(t *testing.T) {
	svc := &recordingService{err: errors.New("boom")}
	d := NewDispatcher(1, svc, zerolog.Nop())
	d.Start(context.Background())

	_, _ = d.Enqueue(ports.SyncJob{Kind: domain.SyncTraining, ResourceID: 1})
	_, _ = d.Enqueue(ports.SyncJob{Kind: domain.SyncTraining, ResourceID: 2})
	d.Stop()

	if len(svc.jobs) != 2 {
		t.Fatalf("expected both jobs attempted, got %d", len(svc.jobs))
	}
}

func TestDispatcher_QueueFull(t *testing.T) {
	d := NewDispatcher(1, &recordingService{}, zerolog.Nop())
	// Not started, so the single channel fills up.
	for i := 0; i < channelBuffer; i++ {
		if _, err := d.Enqueue(ports.SyncJob{Kind: domain.SyncContent, ResourceID: i}); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	if _, err := d.Enqueue(ports.SyncJob{Kind: domain.SyncContent, ResourceID: 99}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestDispatcher_EnqueueAfterStop(t *testing.T) {
	d := NewDispatcher(2, &recordingService{}, zerolog.Nop())
	d.Start(context.Background())
	d.Stop()
	d.Stop()

	if _, err := d.Enqueue(ports.SyncJob{Kind: domain.SyncContent, ResourceID: 1}); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestShardIndex_Deterministic(t *testing.T) {
	d := NewDispatcher(8, &recordingService{}, zerolog.Nop())
	job := ports.SyncJob{Kind: domain.SyncContent, ResourceID: 42}
	first := d.shardIndex(job)
	for i := 0; i < 10; i++ {
		if got := d.shardIndex(job); got != first {
			t.Fatalf("expected stable shard %d, got %d", first, got)
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard out of range: %d", first)
	}
}
