package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/pitcrew/internal/domain/model"
)

type battleRequest struct {
	Driver  string `json:"driver"`
	Spotter string `json:"spotter"`
	Round   string `json:"round"`
}

type orderRequest struct {
	IDs []string `json:"ids"`
}

type winnerRequest struct {
	Winner model.Side `json:"winner"`
}

func (s *Server) handleListBattles(w http.ResponseWriter, r *http.Request) {
	editing := false
	if v := r.URL.Query().Get("editing"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.fail(w, r, NewKind(ErrBadRequest, "editing must be a boolean"))
			return
		}
		editing = b
	}
	writeJSON(w, http.StatusOK, list(s.deps.Battles(r.Context(), editing)))
}

func (s *Server) handleAddBattle(w http.ResponseWriter, r *http.Request) {
	var req battleRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	round, ok := model.ParseRound(req.Round)
	if !ok {
		s.fail(w, r, NewKind(ErrBadRequest, "unknown round "+strconv.Quote(req.Round)))
		return
	}
	b, err := s.deps.AddBattle(r.Context(), req.Driver, req.Spotter, round)
	if err != nil {
		s.fail(w, r, Wrap("add battle", err))
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleReorderBattles(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.deps.ReorderBattles(r.Context(), req.IDs); err != nil {
		s.fail(w, r, Wrap("reorder battles", err))
		return
	}
	writeJSON(w, http.StatusOK, list(s.deps.Battles(r.Context(), true)))
}

func (s *Server) handleSetWinner(w http.ResponseWriter, r *http.Request) {
	var req winnerRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	b, err := s.deps.SetWinner(r.Context(), chi.URLParam(r, "id"), req.Winner)
	if err != nil {
		s.fail(w, r, Wrap("set winner", err))
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	b, err := s.deps.ToggleFavorite(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, Wrap("toggle favorite", err))
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBattle(w http.ResponseWriter, r *http.Request) {
	s.deps.DeleteBattle(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}
