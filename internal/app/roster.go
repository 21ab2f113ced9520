package service

import (
	"context"
	"errors"

	"github.com/okian/pitcrew/internal/adapters/repository"
	"github.com/okian/pitcrew/internal/domain/model"
	"github.com/okian/pitcrew/pkg/logger"
	"github.com/okian/pitcrew/pkg/metrics"
)

// Role returns the local user's current role.
func (s *Service) Role(ctx context.Context) model.Role {
	return s.stores.Role.Role(ctx)
}

// ToggleRole flips between driver and spotter.
func (s *Service) ToggleRole(ctx context.Context) model.Role {
	r := s.stores.Role.Toggle(ctx)
	s.logger.Debug(ctx, "role toggled", logger.String("role", string(r)))
	return r
}

// Contacts lists contacts matching query; an empty query lists all.
func (s *Service) Contacts(ctx context.Context, query string) []model.Contact {
	return s.stores.Contacts.Search(ctx, query)
}

// AddContact stores a contact, picking an avatar from the pool when none is given.
func (s *Service) AddContact(ctx context.Context, name string, role model.MemberRole, avatar string) (model.Contact, error) {
	if role == "" {
		role = model.MemberCrew
	}
	if !role.Valid() {
		return model.Contact{}, ErrInvalidRole
	}
	if avatar == "" && len(s.avatarPool) > 0 {
		avatar = s.avatarPool[s.intn(len(s.avatarPool))]
	}
	c, ok := s.stores.Contacts.Add(ctx, name, role, avatar)
	if !ok {
		return model.Contact{}, ErrInvalidContact
	}
	metrics.UpdateContacts(s.stores.Contacts.Count(ctx))
	return c, nil
}

// RemoveContact deletes a contact. Unknown ids are ignored.
func (s *Service) RemoveContact(ctx context.Context, id string) {
	s.stores.Contacts.Remove(ctx, id)
	metrics.UpdateContacts(s.stores.Contacts.Count(ctx))
}

// Teams lists teams in creation order.
func (s *Service) Teams(ctx context.Context) []model.Team {
	return s.stores.Teams.Teams(ctx)
}

// Team returns one team or repository.ErrTeamNotFound.
func (s *Service) Team(ctx context.Context, id string) (model.Team, error) {
	return s.stores.Teams.Team(ctx, id)
}

// TeamExists reports whether id names a team.
func (s *Service) TeamExists(ctx context.Context, id string) bool {
	_, err := s.stores.Teams.Team(ctx, id)
	return err == nil
}

// CreateTeam creates a team with its creator as the first member.
func (s *Service) CreateTeam(ctx context.Context, name string, typ model.TeamType, role model.MemberRole, creatorID string) (model.Team, error) {
	if typ == "" {
		typ = model.TeamAmateur
	}
	if !typ.Valid() {
		return model.Team{}, ErrInvalidTeamType
	}
	if role == "" {
		role = model.MemberRole(s.stores.Role.Role(ctx))
	}
	if !role.Valid() {
		return model.Team{}, ErrInvalidRole
	}
	t, ok := s.stores.Teams.AddTeam(ctx, name, typ, role, creatorID)
	if !ok {
		return model.Team{}, ErrInvalidTeam
	}
	s.updateTeamGauges(ctx)
	s.logger.Info(ctx, "team created", logger.String("team_id", t.ID), logger.String("name", t.Name))
	return t, nil
}

// RemoveTeam deletes a team, its members and the active selection if it pointed there.
func (s *Service) RemoveTeam(ctx context.Context, id string) {
	s.stores.Teams.RemoveTeam(ctx, id)
	s.updateTeamGauges(ctx)
}

// ActiveTeam returns the selected team, if any.
func (s *Service) ActiveTeam(ctx context.Context) (model.Team, bool) {
	return s.stores.Teams.ActiveTeam(ctx)
}

// SetActiveTeam selects a team; an empty id clears the selection.
func (s *Service) SetActiveTeam(ctx context.Context, id string) error {
	return s.stores.Teams.SetActiveTeam(ctx, id)
}

// Members lists the members of a team.
func (s *Service) Members(ctx context.Context, teamID string) ([]model.TeamMember, error) {
	if !s.TeamExists(ctx, teamID) {
		return nil, repository.ErrTeamNotFound
	}
	return s.stores.Teams.Members(ctx, teamID), nil
}

// AddMember adds userID to a team. Repeated adds create repeated rows.
func (s *Service) AddMember(ctx context.Context, teamID, userID string, role model.MemberRole) (model.TeamMember, error) {
	if role == "" {
		role = model.MemberCrew
	}
	if !role.Valid() {
		return model.TeamMember{}, ErrInvalidRole
	}
	m, err := s.stores.Teams.AddMember(ctx, teamID, userID, role)
	if err != nil {
		return model.TeamMember{}, err
	}
	s.updateTeamGauges(ctx)
	return m, nil
}

// RemoveMember removes every membership row of userID in teamID.
func (s *Service) RemoveMember(ctx context.Context, teamID, userID string) error {
	if !s.TeamExists(ctx, teamID) {
		return repository.ErrTeamNotFound
	}
	s.stores.Teams.RemoveMember(ctx, teamID, userID)
	s.updateTeamGauges(ctx)
	return nil
}

func (s *Service) updateTeamGauges(ctx context.Context) {
	teams, members := s.stores.Teams.Counts(ctx)
	metrics.UpdateTeams(teams)
	metrics.UpdateMembers(members)
}

// Settings returns the current settings.
func (s *Service) Settings(ctx context.Context) model.Settings {
	return s.stores.Settings.Get(ctx)
}

// UpdateSettings applies the fields set in p.
func (s *Service) UpdateSettings(ctx context.Context, p model.SettingsPatch) model.Settings {
	return s.stores.Settings.Update(ctx, p)
}

// IsNotFound reports whether err means an unknown id.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrTeamNotFound) || errors.Is(err, repository.ErrBattleNotFound)
}
