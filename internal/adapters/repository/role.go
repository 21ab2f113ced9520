package repository

import (
	"context"
	"sync"

	"github.com/okian/pitcrew/internal/domain/model"
)

// RoleStore tracks which seat this device acts as.
type RoleStore struct {
	mu   sync.RWMutex
	role model.Role
}

// NewRoleStore starts at the default role.
func NewRoleStore() *RoleStore {
	return &RoleStore{role: model.DefaultRole}
}

// Role returns the current role.
func (s *RoleStore) Role(_ context.Context) model.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// Toggle flips the role and returns the new value.
func (s *RoleStore) Toggle(_ context.Context) model.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.role = s.role.Opposite()
	return s.role
}
