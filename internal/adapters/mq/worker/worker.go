// Package worker drains the fan-out queue and hands messages to the hub.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/pitcrew/internal/domain/model"
	"github.com/okian/pitcrew/pkg/logger"
	"github.com/okian/pitcrew/pkg/metrics"
)

const (
	defaultWorkerCount  = 4
	poolShutdownTimeout = 10 * time.Second
)

// Publisher delivers a message to live subscribers of its team.
type Publisher interface {
	Publish(ctx context.Context, m model.Message) error
}

// Queue is the receive side workers read from.
type Queue interface {
	Dequeue() <-chan model.Message
}

// InMemoryWorker publishes messages read from the queue.
type InMemoryWorker struct {
	queue     Queue
	publisher Publisher
	name      string
	done      chan struct{}
	logger    logger.Logger
}

// NewInMemoryWorker creates a worker with configuration options.
func NewInMemoryWorker(q Queue, p Publisher, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		publisher: p,
		name:      "worker",
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Named(w.name)
	}
	return w
}

// Run publishes until ctx is done or the queue channel is closed.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-events:
			if !ok {
				return
			}
			if err := w.process(ctx, m); err != nil {
				w.logger.Error(ctx, "publish failed", logger.String("message_id", m.ID), logger.Error(err))
			}
		}
	}
}

// Done is closed once Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) process(ctx context.Context, m model.Message) error { //nolint:gocritic // hugeParam: received by value from the channel
	start := time.Now()
	err := w.publisher.Publish(ctx, m)
	metrics.RecordPublishLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		metrics.RecordErrorByComponent("worker", "publish_error")
		return fmt.Errorf("publish %s: %w", m.ID, err)
	}
	return nil
}

// Pool runs a fixed set of workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	cancel  context.CancelFunc
	once    sync.Once
	logger  logger.Logger
}

// NewPool creates workerCount workers; values below 1 use the default.
func NewPool(workerCount int, q Queue, p Publisher) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}
	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		logger:  logger.Named("worker-pool"),
	}
	for i := range pool.workers {
		pool.workers[i] = NewInMemoryWorker(q, p, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start launches every worker. Stopping ctx stops them.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown waits for workers to drain a closed queue, then cancels any
// that are still running once ctx or the pool timeout expires.
func (p *Pool) Shutdown(ctx context.Context) error {
	var err error
	p.once.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
		defer cancel()
		for i, w := range p.workers {
			select {
			case <-w.done:
			case <-ctx.Done():
				p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
				err = fmt.Errorf("worker pool shutdown: %w", ctx.Err())
			}
		}
		if p.cancel != nil {
			p.cancel()
		}
	})
	return err
}
