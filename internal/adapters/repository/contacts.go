package repository

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/okian/pitcrew/internal/domain/model"
)

// ContactStore is the contact directory. Insertion order is display order.
type ContactStore struct {
	base
	mu       sync.RWMutex
	contacts []model.Contact
}

// NewContactStore creates an empty directory.
func NewContactStore(opts ...Option) *ContactStore {
	return &ContactStore{base: newBase(opts)}
}

// ValidContactName is the predicate Add uses; callers check it up front.
func ValidContactName(name string) bool {
	return strings.TrimSpace(name) != ""
}

// Add appends a contact. It is a no-op returning false when name is blank.
// The role must already be a valid roster role.
func (s *ContactStore) Add(_ context.Context, name string, role model.MemberRole, avatar string) (model.Contact, bool) {
	if !ValidContactName(name) {
		return model.Contact{}, false
	}
	c := model.Contact{
		ID:        s.newID(),
		Name:      strings.TrimSpace(name),
		Role:      role,
		Avatar:    avatar,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append(s.contacts, c)
	return c, true
}

// Remove deletes the contact with id. Unknown ids are ignored.
func (s *ContactStore) Remove(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = slices.DeleteFunc(s.contacts, func(c model.Contact) bool { return c.ID == id })
}

// List returns a snapshot of every contact.
func (s *ContactStore) List(_ context.Context) []model.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.contacts)
}

// Search returns contacts whose name or role contains query, ignoring case.
// A blank query matches everything.
func (s *ContactStore) Search(ctx context.Context, query string) []model.Contact {
	q := strings.ToLower(strings.TrimSpace(query))
	all := s.List(ctx)
	if q == "" {
		return all
	}
	out := all[:0]
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(string(c.Role), q) {
			out = append(out, c)
		}
	}
	return out
}

// Count returns the number of contacts.
func (s *ContactStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contacts)
}
