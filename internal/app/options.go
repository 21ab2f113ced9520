package service

import (
	"github.com/okian/pitcrew/internal/adapters/repository"
	"github.com/okian/pitcrew/internal/domain/callout"
	"github.com/okian/pitcrew/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of fan-out workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the fan-out queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many client message ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStrictWinner rejects winners for battles that are not active.
func WithStrictWinner(strict bool) Option {
	return func(s *Service) {
		s.strictWinner = strict
	}
}

// WithSeedBattles preloads the two sample battles.
func WithSeedBattles(seed bool) Option {
	return func(s *Service) {
		s.seedBattles = seed
	}
}

// WithAvatarPool replaces the avatar URLs handed to new contacts.
func WithAvatarPool(urls []string) Option {
	return func(s *Service) {
		if len(urls) > 0 {
			s.avatarPool = append([]string(nil), urls...)
		}
	}
}

// WithStoreOptions passes options (clock, id generator) to every store.
func WithStoreOptions(opts ...repository.Option) Option {
	return func(s *Service) {
		s.storeOpts = append(s.storeOpts, opts...)
	}
}

// WithComposer replaces the callout composer.
func WithComposer(c callout.Composer) Option {
	return func(s *Service) {
		if c != nil {
			s.composer = c
		}
	}
}

// WithRandom sets the source used to pick avatars. It must return a value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(s *Service) {
		if intn != nil {
			s.intn = intn
		}
	}
}
