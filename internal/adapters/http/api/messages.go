package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/pitcrew/internal/app"
	"github.com/okian/pitcrew/internal/domain/types"
)

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.deps.Messages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, Wrap("list messages", err))
		return
	}
	writeJSON(w, http.StatusOK, list(msgs))
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	var req service.MessageInput
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	ack, err := s.deps.PostMessage(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		s.fail(w, r, Wrap("post message", err))
		return
	}
	writeAck(w, ack)
}

func (s *Server) handleSendCallout(w http.ResponseWriter, r *http.Request) {
	var req service.CalloutRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	ack, err := s.deps.SendCallout(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		s.fail(w, r, Wrap("send callout", err))
		return
	}
	writeAck(w, ack)
}

func (s *Server) handleQuickMessages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.QuickMessages())
}

// writeAck answers 202 for a new message and 200 for a duplicate.
func writeAck(w http.ResponseWriter, ack types.Ack) {
	status := http.StatusAccepted
	if ack.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, ack)
}
