package repository_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	repository "github.com/okian/pitcrew/internal/adapters/repository"
)

// tickClock advances one second on every call.
func tickClock() repository.Clock {
	var (
		mu sync.Mutex
		t  = time.Date(2024, 5, 4, 10, 0, 0, 0, time.UTC)
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

// seqIDs yields id-1, id-2, ...
func seqIDs() repository.IDGen {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("id-%d", n.Add(1)) }
}

func testOpts() []repository.Option {
	return []repository.Option{repository.WithClock(tickClock()), repository.WithIDGen(seqIDs())}
}
