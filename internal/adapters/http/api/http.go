// Package api serves the pitcrew HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	service "github.com/okian/pitcrew/internal/app"
	"github.com/okian/pitcrew/internal/adapters/ws"
	"github.com/okian/pitcrew/internal/domain/callout"
	"github.com/okian/pitcrew/internal/domain/model"
	"github.com/okian/pitcrew/internal/domain/types"
	"github.com/okian/pitcrew/pkg/logger"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	StatsProvider

	Role(ctx context.Context) model.Role
	ToggleRole(ctx context.Context) model.Role

	Contacts(ctx context.Context, query string) []model.Contact
	AddContact(ctx context.Context, name string, role model.MemberRole, avatar string) (model.Contact, error)
	RemoveContact(ctx context.Context, id string)

	Teams(ctx context.Context) []model.Team
	Team(ctx context.Context, id string) (model.Team, error)
	TeamExists(ctx context.Context, id string) bool
	CreateTeam(ctx context.Context, name string, typ model.TeamType, role model.MemberRole, creatorID string) (model.Team, error)
	RemoveTeam(ctx context.Context, id string)
	ActiveTeam(ctx context.Context) (model.Team, bool)
	SetActiveTeam(ctx context.Context, id string) error
	Members(ctx context.Context, teamID string) ([]model.TeamMember, error)
	AddMember(ctx context.Context, teamID, userID string, role model.MemberRole) (model.TeamMember, error)
	RemoveMember(ctx context.Context, teamID, userID string) error

	Messages(ctx context.Context, teamID string) ([]model.Message, error)
	PostMessage(ctx context.Context, teamID string, in service.MessageInput) (types.Ack, error)
	SendCallout(ctx context.Context, teamID string, req service.CalloutRequest) (types.Ack, error)
	QuickMessages() []callout.QuickMessage

	Battles(ctx context.Context, editing bool) []types.BattleEntry
	AddBattle(ctx context.Context, driver, spotter string, round model.Round) (model.Battle, error)
	SetWinner(ctx context.Context, id string, side model.Side) (model.Battle, error)
	ToggleFavorite(ctx context.Context, id string) (model.Battle, error)
	DeleteBattle(ctx context.Context, id string)
	ReorderBattles(ctx context.Context, ids []string) error

	Settings(ctx context.Context) model.Settings
	UpdateSettings(ctx context.Context, p model.SettingsPatch) model.Settings

	Hub() *ws.Hub
}

// Option configures the router.
type Option func(*Server)

// WithCORSOrigins sets the allowed origins; the default allows any origin.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.corsOrigins = origins
		}
	}
}

// WithMount adds extra routes, e.g. the API docs, to the router.
func WithMount(register func(chi.Router)) Option {
	return func(s *Server) {
		if register != nil {
			s.mounts = append(s.mounts, register)
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps        Dependencies
	corsOrigins []string
	mounts      []func(chi.Router)
	logger      logger.Logger

	healthHandler *HealthHandler
	statsHandler  *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:          deps,
		corsOrigins:   []string{"*"},
		logger:        logger.Named("api"),
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with every route attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)

	r.Get("/role", s.handleGetRole)
	r.Post("/role/toggle", s.handleToggleRole)

	r.Route("/contacts", func(r chi.Router) {
		r.Get("/", s.handleListContacts)
		r.Post("/", s.handleAddContact)
		r.Delete("/{id}", s.handleRemoveContact)
	})

	r.Route("/teams", func(r chi.Router) {
		r.Get("/", s.handleListTeams)
		r.Post("/", s.handleCreateTeam)
		r.Get("/active", s.handleGetActiveTeam)
		r.Put("/active", s.handleSetActiveTeam)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetTeam)
			r.Delete("/", s.handleRemoveTeam)
			r.Get("/members", s.handleListMembers)
			r.Post("/members", s.handleAddMember)
			r.Delete("/members/{userID}", s.handleRemoveMember)
			r.Get("/messages", s.handleListMessages)
			r.Post("/messages", s.handlePostMessage)
			r.Post("/callouts", s.handleSendCallout)
			r.Get("/stream", s.handleStream)
		})
	})
	r.Get("/callouts/quick", s.handleQuickMessages)

	r.Route("/battles", func(r chi.Router) {
		r.Get("/", s.handleListBattles)
		r.Post("/", s.handleAddBattle)
		r.Put("/order", s.handleReorderBattles)
		r.Post("/{id}/winner", s.handleSetWinner)
		r.Post("/{id}/favorite", s.handleToggleFavorite)
		r.Delete("/{id}", s.handleDeleteBattle)
	})

	r.Get("/settings", s.handleGetSettings)
	r.Patch("/settings", s.handleUpdateSettings)

	for _, mount := range s.mounts {
		mount(r)
	}
	return r
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	hub := s.deps.Hub()
	if hub == nil {
		s.fail(w, r, Wrap("stream", service.ErrNotStarted))
		return
	}
	opts := &websocket.AcceptOptions{}
	if !(len(s.corsOrigins) == 1 && s.corsOrigins[0] == "*") {
		opts.OriginPatterns = s.corsOrigins
	} else {
		opts.InsecureSkipVerify = true
	}
	ws.Handler(hub, s.deps, func(r *http.Request) string { return chi.URLParam(r, "id") }, opts)(w, r)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail writes err with the status it classifies to. Server errors are logged.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= statusInternalError {
		s.logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", middleware.GetReqID(r.Context())),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return WrapKind(ErrBadRequest, "decode body", err)
	}
	return nil
}

// list keeps empty collections encoded as [] rather than null.
func list[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
