package repository

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/okian/pitcrew/internal/domain/model"
)

// TeamStore owns teams, their member rows and the active selection.
//
// MemberCount on a team always equals the number of member rows for it:
// every membership mutation recounts inside the same critical section.
// The active selection is stored as an id and resolved on read, so it
// cannot drift from the canonical team record.
type TeamStore struct {
	base
	mu       sync.RWMutex
	teams    []model.Team
	members  []model.TeamMember
	activeID string
}

// NewTeamStore creates an empty roster.
func NewTeamStore(opts ...Option) *TeamStore {
	return &TeamStore{base: newBase(opts)}
}

// ValidTeamName is the predicate AddTeam uses; callers check it up front.
func ValidTeamName(name string) bool {
	return strings.TrimSpace(name) != ""
}

// AddTeam creates a team and enrolls creatorID as its first member with
// role. It is a no-op returning false when name is blank.
func (s *TeamStore) AddTeam(_ context.Context, name string, typ model.TeamType, role model.MemberRole, creatorID string) (model.Team, bool) {
	if !ValidTeamName(name) {
		return model.Team{}, false
	}
	now := s.now()
	t := model.Team{
		ID:        s.newID(),
		Name:      strings.TrimSpace(name),
		Type:      typ,
		Role:      string(role),
		CreatedAt: now,
		CreatedBy: creatorID,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams = append(s.teams, t)
	s.members = append(s.members, model.TeamMember{
		ID:       s.newID(),
		TeamID:   t.ID,
		UserID:   creatorID,
		Role:     role,
		JoinedAt: now,
	})
	s.recount(t.ID)
	return s.teams[len(s.teams)-1], true
}

// RemoveTeam deletes a team and all of its members, clearing the active
// selection if it pointed at the team.
func (s *TeamStore) RemoveTeam(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams = slices.DeleteFunc(s.teams, func(t model.Team) bool { return t.ID == id })
	s.members = slices.DeleteFunc(s.members, func(m model.TeamMember) bool { return m.TeamID == id })
	if s.activeID == id {
		s.activeID = ""
	}
}

// Team looks a team up by id.
func (s *TeamStore) Team(_ context.Context, id string) (model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.teams[i], nil
	}
	return model.Team{}, ErrTeamNotFound
}

// Teams returns a snapshot of every team in creation order.
func (s *TeamStore) Teams(_ context.Context) []model.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.teams)
}

// SetActiveTeam selects the team with id; an empty id clears the selection.
func (s *TeamStore) SetActiveTeam(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" && s.indexOf(id) < 0 {
		return ErrTeamNotFound
	}
	s.activeID = id
	return nil
}

// ActiveTeam returns the selected team, if any.
func (s *TeamStore) ActiveTeam(_ context.Context) (model.Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeID == "" {
		return model.Team{}, false
	}
	if i := s.indexOf(s.activeID); i >= 0 {
		return s.teams[i], true
	}
	return model.Team{}, false
}

// AddMember enrolls userID in teamID. Duplicate enrollments are kept.
func (s *TeamStore) AddMember(_ context.Context, teamID, userID string, role model.MemberRole) (model.TeamMember, error) {
	m := model.TeamMember{
		ID:       s.newID(),
		TeamID:   teamID,
		UserID:   userID,
		Role:     role,
		JoinedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(teamID) < 0 {
		return model.TeamMember{}, ErrTeamNotFound
	}
	s.members = append(s.members, m)
	s.recount(teamID)
	return m, nil
}

// RemoveMember deletes every row matching teamID and userID.
func (s *TeamStore) RemoveMember(_ context.Context, teamID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = slices.DeleteFunc(s.members, func(m model.TeamMember) bool {
		return m.TeamID == teamID && m.UserID == userID
	})
	s.recount(teamID)
}

// Members returns the member rows of teamID in enrollment order.
func (s *TeamStore) Members(_ context.Context, teamID string) []model.TeamMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.TeamMember
	for _, m := range s.members {
		if m.TeamID == teamID {
			out = append(out, m)
		}
	}
	return out
}

// Counts returns the number of teams and member rows.
func (s *TeamStore) Counts(_ context.Context) (teams, members int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.teams), len(s.members)
}

// recount writes the member row count back onto the team. Callers hold mu.
func (s *TeamStore) recount(teamID string) {
	i := s.indexOf(teamID)
	if i < 0 {
		return
	}
	n := 0
	for _, m := range s.members {
		if m.TeamID == teamID {
			n++
		}
	}
	s.teams[i].MemberCount = n
}

func (s *TeamStore) indexOf(id string) int {
	return slices.IndexFunc(s.teams, func(t model.Team) bool { return t.ID == id })
}
