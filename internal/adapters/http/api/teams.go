package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/okian/pitcrew/internal/domain/model"
)

type teamRequest struct {
	Name      string           `json:"name"`
	Type      model.TeamType   `json:"type"`
	Role      model.MemberRole `json:"role"`
	CreatorID string           `json:"creator_id"`
}

type activeTeamRequest struct {
	TeamID string `json:"team_id"`
}

type activeTeamResponse struct {
	Team *model.Team `json:"team"`
}

type memberRequest struct {
	UserID string           `json:"user_id"`
	Role   model.MemberRole `json:"role"`
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, list(s.deps.Teams(r.Context())))
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.CreatorID) == "" {
		s.fail(w, r, NewKind(ErrBadRequest, "creator_id is required"))
		return
	}
	t, err := s.deps.CreateTeam(r.Context(), req.Name, req.Type, req.Role, req.CreatorID)
	if err != nil {
		s.fail(w, r, Wrap("create team", err))
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	t, err := s.deps.Team(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, Wrap("get team", err))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleRemoveTeam(w http.ResponseWriter, r *http.Request) {
	s.deps.RemoveTeam(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetActiveTeam(w http.ResponseWriter, r *http.Request) {
	var resp activeTeamResponse
	if t, ok := s.deps.ActiveTeam(r.Context()); ok {
		resp.Team = &t
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetActiveTeam(w http.ResponseWriter, r *http.Request) {
	var req activeTeamRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.deps.SetActiveTeam(r.Context(), req.TeamID); err != nil {
		s.fail(w, r, Wrap("set active team", err))
		return
	}
	s.handleGetActiveTeam(w, r)
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.deps.Members(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, Wrap("list members", err))
		return
	}
	writeJSON(w, http.StatusOK, list(members))
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		s.fail(w, r, NewKind(ErrBadRequest, "user_id is required"))
		return
	}
	m, err := s.deps.AddMember(r.Context(), chi.URLParam(r, "id"), req.UserID, req.Role)
	if err != nil {
		s.fail(w, r, Wrap("add member", err))
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.RemoveMember(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userID")); err != nil {
		s.fail(w, r, Wrap("remove member", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
