// Package queue is an in-process job queue for thumbnail derivation with a
// bounded buffer and a pool of consumers.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// State is the lifecycle stage of a job.
type State string

const (
	StateQueued     State = "queued"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Handler processes one job. A non-nil error marks the job failed.
type Handler func(ctx context.Context, job models.ThumbnailJob) error

// Stats counts tracked jobs per state.
type Stats struct {
	Queued     int `json:"queued"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// maxFinished bounds how many completed or failed jobs stay queryable.
const maxFinished = 1024

type envelope struct {
	id  string
	job models.ThumbnailJob
}

// MemoryQueue is a bounded FIFO channel consumed by Process.
type MemoryQueue struct {
	jobs        chan envelope
	concurrency int
	logger      logging.Logger

	mu       sync.Mutex
	closed   bool
	states   map[string]State
	finished []string
}

func NewMemoryQueue(size, concurrency int, logger logging.Logger) *MemoryQueue {
	if size < 1 {
		size = 1
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &MemoryQueue{
		jobs:        make(chan envelope, size),
		concurrency: concurrency,
		logger:      logger.With("module", "queue"),
		states:      make(map[string]State),
	}
}

// Enqueue adds job without blocking and returns its id.
func (q *MemoryQueue) Enqueue(ctx context.Context, job models.ThumbnailJob) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return "", ErrQueueClosed
	}

	e := envelope{id: common.NewID(), job: job}
	select {
	case q.jobs <- e:
		q.states[e.id] = StateQueued
		return e.id, nil
	default:
		return "", ErrQueueFull
	}
}

// Process runs the consumer pool until ctx is cancelled or the queue is
// closed and drained. A job already started runs to completion even if ctx
// is cancelled meanwhile; jobs still buffered are abandoned. Handler errors
// only fail their own job.
func (q *MemoryQueue) Process(ctx context.Context, h Handler) {
	var wg sync.WaitGroup
	for i := 0; i < q.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.consume(ctx, h)
		}()
	}
	wg.Wait()
}

func (q *MemoryQueue) consume(ctx context.Context, h Handler) {
	for {
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case e, ok := <-q.jobs:
			if !ok {
				return
			}
			q.run(context.WithoutCancel(ctx), e, h)
		}
	}
}

func (q *MemoryQueue) run(ctx context.Context, e envelope, h Handler) {
	q.setState(e.id, StateProcessing)

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("handler panic: %v", r)
			}
		}()
		return h(ctx, e.job)
	}()

	if err != nil {
		q.logger.Error(ctx, "job failed", "job_id", e.id, "file_id", e.job.FileID, "error", err)
		q.setState(e.id, StateFailed)
		return
	}
	q.logger.Debug(ctx, "job completed", "job_id", e.id, "file_id", e.job.FileID)
	q.setState(e.id, StateCompleted)
}

func (q *MemoryQueue) setState(id string, s State) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.states[id] = s
	if s != StateCompleted && s != StateFailed {
		return
	}
	q.finished = append(q.finished, id)
	if len(q.finished) > maxFinished {
		delete(q.states, q.finished[0])
		q.finished = q.finished[1:]
	}
}

// state reports the state of a job. ok is false for unknown or evicted ids.
func (q *MemoryQueue) state(id string) (State, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	s, ok := q.states[id]
	return s, ok
}

// Stats counts the jobs still tracked, including up to maxFinished
// completed or failed ones.
func (q *MemoryQueue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	var st Stats
	for _, s := range q.states {
		switch s {
		case StateQueued:
			st.Queued++
		case StateProcessing:
			st.Processing++
		case StateCompleted:
			st.Completed++
		case StateFailed:
			st.Failed++
		}
	}
	return st
}

// Close rejects further Enqueue calls. Consumers stop once the buffer is
// drained.
func (q *MemoryQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.jobs)
}
