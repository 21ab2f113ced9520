// Package ws pushes team messages to live websocket subscribers.
package ws

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/okian/pitcrew/internal/domain/model"
	"github.com/okian/pitcrew/pkg/metrics"
)

const (
	inboxSize  = 64
	outboxSize = 32
)

// ErrHubClosed is returned once the hub loop has stopped.
var ErrHubClosed = errors.New("hub closed")

// Subscription receives the messages of one team.
type Subscription struct {
	id     uint64
	teamID string
	out    chan model.Message
}

// C returns the delivery channel. It is closed on unsubscribe or hub stop.
func (s *Subscription) C() <-chan model.Message { return s.out }

type hubMsg interface{ isHubMsg() }

type subscribe struct {
	sub *Subscription
}

type unsubscribe struct {
	sub *Subscription
}

type publish struct {
	msg model.Message
}

type count struct {
	reply chan int
}

func (subscribe) isHubMsg()   {}
func (unsubscribe) isHubMsg() {}
func (publish) isHubMsg()     {}
func (count) isHubMsg()       {}

// Hub owns the subscriber set. Only its loop goroutine touches the map.
// Senders hold mu for reading while they enqueue; the loop takes it for
// writing before its final drain, so nothing lands in the inbox afterwards.
type Hub struct {
	mu     sync.RWMutex
	closed bool

	inbox  chan hubMsg
	teams  map[string]map[uint64]*Subscription
	nextID atomic.Uint64
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub starts a hub that runs until parent is cancelled or Close is called.
func NewHub(parent context.Context) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan hubMsg, inboxSize),
		teams:  make(map[string]map[uint64]*Subscription),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *Hub) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			for _, subs := range h.teams {
				for _, s := range subs {
					close(s.out)
				}
			}
			clear(h.teams)
			h.mu.Lock()
			h.closed = true
			h.mu.Unlock()
			h.drain()
			metrics.UpdateSubscribers(0)
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case subscribe:
				subs := h.teams[msg.sub.teamID]
				if subs == nil {
					subs = make(map[uint64]*Subscription)
					h.teams[msg.sub.teamID] = subs
				}
				subs[msg.sub.id] = msg.sub
				metrics.UpdateSubscribers(h.total())

			case unsubscribe:
				subs := h.teams[msg.sub.teamID]
				if _, ok := subs[msg.sub.id]; ok {
					delete(subs, msg.sub.id)
					close(msg.sub.out)
					if len(subs) == 0 {
						delete(h.teams, msg.sub.teamID)
					}
				}
				metrics.UpdateSubscribers(h.total())

			case publish:
				for _, s := range h.teams[msg.msg.TeamID] {
					select {
					case s.out <- msg.msg:
						metrics.RecordFanoutDelivered()
					default:
						metrics.RecordFanoutDropped("slow_subscriber")
					}
				}

			case count:
				msg.reply <- h.total()
			}
		}
	}
}

// drain closes subscriptions that were accepted into the inbox but never
// reached the loop.
func (h *Hub) drain() {
	for {
		select {
		case m := <-h.inbox:
			switch msg := m.(type) {
			case subscribe:
				close(msg.sub.out)
			case count:
				msg.reply <- 0
			}
		default:
			return
		}
	}
}

func (h *Hub) total() int {
	n := 0
	for _, subs := range h.teams {
		n += len(subs)
	}
	return n
}

func (h *Hub) send(ctx context.Context, m hubMsg) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed || h.ctx.Err() != nil {
		return ErrHubClosed
	}
	select {
	case h.inbox <- m:
		return nil
	case <-h.ctx.Done():
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers interest in teamID.
func (h *Hub) Subscribe(ctx context.Context, teamID string) (*Subscription, error) {
	s := &Subscription{
		id:     h.nextID.Add(1),
		teamID: teamID,
		out:    make(chan model.Message, outboxSize),
	}
	if err := h.send(ctx, subscribe{sub: s}); err != nil {
		return nil, err
	}
	return s, nil
}

// Unsubscribe removes s; its channel is closed by the hub.
func (h *Hub) Unsubscribe(ctx context.Context, s *Subscription) {
	_ = h.send(ctx, unsubscribe{sub: s})
}

// Publish hands m to every subscriber of m.TeamID. Slow subscribers miss it.
func (h *Hub) Publish(ctx context.Context, m model.Message) error {
	return h.send(ctx, publish{msg: m})
}

// Subscribers returns the number of open subscriptions.
func (h *Hub) Subscribers(ctx context.Context) int {
	reply := make(chan int, 1)
	if err := h.send(ctx, count{reply: reply}); err != nil {
		return 0
	}
	select {
	case n := <-reply:
		return n
	case <-ctx.Done():
		return 0
	}
}

// Close stops the loop and closes every subscription.
func (h *Hub) Close() {
	h.cancel()
	<-h.done
}
