package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/pitcrew/internal/domain/model"
)

type roleResponse struct {
	Role model.Role `json:"role"`
}

func (s *Server) handleGetRole(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, roleResponse{Role: s.deps.Role(r.Context())})
}

func (s *Server) handleToggleRole(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, roleResponse{Role: s.deps.ToggleRole(r.Context())})
}

type contactRequest struct {
	Name   string           `json:"name"`
	Role   model.MemberRole `json:"role"`
	Avatar string           `json:"avatar"`
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, list(s.deps.Contacts(r.Context(), r.URL.Query().Get("q"))))
}

func (s *Server) handleAddContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.deps.AddContact(r.Context(), req.Name, req.Role, req.Avatar)
	if err != nil {
		s.fail(w, r, Wrap("add contact", err))
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleRemoveContact(w http.ResponseWriter, r *http.Request) {
	s.deps.RemoveContact(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Settings(r.Context()))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch model.SettingsPatch
	if err := decode(w, r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.deps.UpdateSettings(r.Context(), patch))
}
