// Package repository holds the in-memory stores. Each store owns its
// collection behind its own lock, so every operation is atomic with
// respect to every other operation on the same store.
package repository

import "github.com/okian/pitcrew/internal/domain/model"

// Stores bundles one instance of every store.
type Stores struct {
	Role     *RoleStore
	Contacts *ContactStore
	Teams    *TeamStore
	Battles  *BattleStore
	Messages *MessageStore
	Settings *SettingsStore
}

// NewStores creates a fresh, empty set of stores sharing opts.
func NewStores(opts ...Option) *Stores {
	return &Stores{
		Role:     NewRoleStore(),
		Contacts: NewContactStore(opts...),
		Teams:    NewTeamStore(opts...),
		Battles:  NewBattleStore(opts...),
		Messages: NewMessageStore(opts...),
		Settings: NewSettingsStore(model.DefaultSettings()),
	}
}
