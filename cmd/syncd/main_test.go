package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"push-channel-sync/internal/domain"
)

// scriptedQueue сначала отдаёт ошибку чтения, затем задание, затем
// останавливает обработчик.
type scriptedQueue struct {
	cancel context.CancelFunc
	job    domain.SyncJob
	step   int
	acked  []bool
}

func (q *scriptedQueue) Enqueue(context.Context, domain.SyncJob) error { return nil }

func (q *scriptedQueue) Pop(ctx context.Context) (domain.SyncJob, domain.SyncAckFunc, error) {
	q.step++
	switch q.step {
	case 1:
		return domain.SyncJob{}, nil, errors.New("broker down")
	case 2:
		ack := func(success bool) error {
			q.acked = append(q.acked, success)
			return nil
		}
		return q.job, ack, nil
	default:
		q.cancel()
		return domain.SyncJob{}, nil, context.Canceled
	}
}

type fakeSyncer struct {
	calls  int
	synced domain.SyncResult
	err    error
}

func (s *fakeSyncer) SyncChannelList(context.Context, []domain.ChannelPayload) (domain.SyncResult, error) {
	s.calls++
	return s.synced, s.err
}

func TestWorkerSurvivesPopErrorAndAcksJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue := &scriptedQueue{
		cancel: cancel,
		job:    domain.SyncJob{ID: "job-1", Cause: domain.SyncCauseColdStart},
	}
	syncer := &fakeSyncer{synced: domain.SyncResult{"OS_a": {}}}
	worker := &syncWorker{
		log:        zerolog.Nop(),
		queue:      queue,
		service:    syncer,
		popBackoff: time.Millisecond,
	}

	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("обработчик не остановился")
	}

	if queue.step < 3 {
		t.Fatalf("ошибка чтения не должна останавливать обработчик, шагов: %d", queue.step)
	}
	if syncer.calls != 1 {
		t.Fatalf("ожидали одну синхронизацию, получили %d", syncer.calls)
	}
	if len(queue.acked) != 1 || !queue.acked[0] {
		t.Fatalf("ожидали подтверждение успешного задания, получили %v", queue.acked)
	}
}

func TestWorkerNacksFailedJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue := &scriptedQueue{
		cancel: cancel,
		job:    domain.SyncJob{ID: "job-2", Cause: domain.SyncCausePush},
	}
	syncer := &fakeSyncer{err: errors.New("host failure")}
	worker := &syncWorker{
		log:        zerolog.Nop(),
		queue:      queue,
		service:    syncer,
		popBackoff: time.Millisecond,
	}

	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("обработчик не остановился")
	}

	if len(queue.acked) != 1 || queue.acked[0] {
		t.Fatalf("неуспешное задание должно подтверждаться с success=false, получили %v", queue.acked)
	}
}
