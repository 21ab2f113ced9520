package repository

import (
	"context"
	"sync"

	"github.com/okian/pitcrew/internal/domain/model"
)

// SettingsStore holds the device preference toggles.
type SettingsStore struct {
	mu       sync.RWMutex
	settings model.Settings
}

// NewSettingsStore starts from initial.
func NewSettingsStore(initial model.Settings) *SettingsStore {
	return &SettingsStore{settings: initial}
}

// Get returns the current settings.
func (s *SettingsStore) Get(_ context.Context) model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Update applies p and returns the result.
func (s *SettingsStore) Update(_ context.Context, p model.SettingsPatch) model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = p.Apply(s.settings)
	return s.settings
}
