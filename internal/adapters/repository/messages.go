package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/okian/pitcrew/internal/domain/model"
)

// MessageStore is the append-only message log shared by all teams.
type MessageStore struct {
	base
	mu       sync.RWMutex
	messages []model.Message
}

// NewMessageStore creates an empty log.
func NewMessageStore(opts ...Option) *MessageStore {
	return &MessageStore{base: newBase(opts)}
}

// Add appends a message stamped with a fresh id and the current time.
// Text is not validated here.
func (s *MessageStore) Add(_ context.Context, text string, sender model.Role, senderID, teamID string) model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := model.Message{
		ID:        s.newID(),
		Text:      text,
		Sender:    sender,
		SenderID:  senderID,
		Timestamp: s.now(),
		TeamID:    teamID,
	}
	s.messages = append(s.messages, m)
	return m
}

// TeamMessages returns the messages of teamID sorted by timestamp.
// Equal timestamps keep append order.
func (s *MessageStore) TeamMessages(_ context.Context, teamID string) []model.Message {
	s.mu.RLock()
	var out []model.Message
	for _, m := range s.messages {
		if m.TeamID == teamID {
			out = append(out, m)
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b model.Message) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return out
}

// Count returns the total number of messages.
func (s *MessageStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}
