// Package service composes the stores, the callout composer and the
// message fan-out into the operations served by the HTTP API.
package service

import (
	"context"
	"math/rand/v2"
	"sync"

	eventqueue "github.com/okian/pitcrew/internal/adapters/mq/queue"
	workerpool "github.com/okian/pitcrew/internal/adapters/mq/worker"
	"github.com/okian/pitcrew/internal/adapters/repository"
	"github.com/okian/pitcrew/internal/adapters/ws"
	"github.com/okian/pitcrew/internal/domain/callout"
	"github.com/okian/pitcrew/internal/domain/dedupe"
	"github.com/okian/pitcrew/internal/domain/model"
	"github.com/okian/pitcrew/pkg/logger"
	"github.com/okian/pitcrew/pkg/metrics"
)

// DefaultAvatars are handed out to contacts created without an avatar.
var DefaultAvatars = []string{
	"https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=200&h=200&fit=crop",
	"https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=200&h=200&fit=crop",
	"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=200&h=200&fit=crop",
	"https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=200&h=200&fit=crop",
}

// Service owns one instance of every store. Store calls are safe before
// Start; live fan-out only runs between Start and Stop.
type Service struct {
	mu sync.RWMutex

	stores   *repository.Stores
	deduper  dedupe.Deduper
	composer callout.Composer
	queue    *eventqueue.InMemoryQueue
	pool     *workerpool.Pool
	hub      *ws.Hub

	workerCount  int
	queueSize    int
	dedupeSize   int
	strictWinner bool
	seedBattles  bool
	avatarPool   []string
	storeOpts    []repository.Option
	intn         func(n int) int

	started bool
	logger  logger.Logger
}

// New constructs a Service. Stores are ready immediately.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: 4,
		queueSize:   1024,
		dedupeSize:  50_000,
		avatarPool:  DefaultAvatars,
		intn:        rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	s.stores = repository.NewStores(s.storeOpts...)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	if s.composer == nil {
		s.composer = callout.NewCannedComposer()
	}
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))

	if s.seedBattles {
		ctx := context.Background()
		s.stores.Battles.Add(ctx, "Alex Smith", "Mike Johnson", model.RoundTop32)
		b, _ := s.stores.Battles.Add(ctx, "Sarah Wilson", "Tom Davis", model.RoundTop16)
		_, _ = s.stores.Battles.ToggleFavorite(ctx, b.ID)
	}
	return s
}

// Start launches the hub and the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.queue.IsClosed() {
		return ErrStopped
	}
	s.hub = ws.NewHub(context.WithoutCancel(ctx))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.hub)
	s.pool.Start(context.WithoutCancel(ctx))
	metrics.UpdateQueueCapacity(s.queueSize)

	s.started = true
	s.logger.Info(ctx, "pitcrew service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.Bool("strict_winner", s.strictWinner),
	)
	return nil
}

// Stop drains the queue, stops the workers and closes every subscription.
// A stopped service cannot be started again; Start then returns ErrStopped.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping pitcrew service...")

	_ = s.queue.Close()
	err := s.pool.Shutdown(ctx)
	s.hub.Close()

	s.started = false
	s.logger.Info(ctx, "pitcrew service stopped")
	return err
}

// Hub returns the live subscriber hub, or nil before Start.
func (s *Service) Hub() *ws.Hub {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hub
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	contacts := s.stores.Contacts.Count(ctx)
	teams, members := s.stores.Teams.Counts(ctx)
	battles := s.stores.Battles.Count(ctx)
	stats := map[string]any{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueSize":     s.queueSize,
		"dedupeSize":    s.dedupeSize,
		"strictWinner":  s.strictWinner,
		"queueLength":   s.queue.Len(),
		"dedupeEntries": s.deduper.Size(),
		"contacts":      contacts,
		"teams":         teams,
		"members":       members,
		"battles":       battles,
		"messages":      s.stores.Messages.Count(ctx),
	}
	if s.started {
		stats["subscribers"] = s.hub.Subscribers(ctx)
	}

	metrics.UpdateContacts(contacts)
	metrics.UpdateTeams(teams)
	metrics.UpdateMembers(members)
	metrics.UpdateBattles(battles)
	return stats
}
