package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/okian/pitcrew/pkg/logger"
)

const writeTimeout = 5 * time.Second

// TeamResolver reports whether a team exists.
type TeamResolver interface {
	TeamExists(ctx context.Context, teamID string) bool
}

// Handler upgrades GET requests to a websocket that streams the messages
// of the team named by teamID(r).
func Handler(h *Hub, teams TeamResolver, teamID func(*http.Request) string, opts *websocket.AcceptOptions) http.HandlerFunc {
	log := logger.Named("ws")
	return func(w http.ResponseWriter, r *http.Request) {
		id := teamID(r)
		if id == "" || !teams.TeamExists(r.Context(), id) {
			http.Error(w, "team not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, opts)
		if err != nil {
			log.Warn(r.Context(), "websocket accept failed", logger.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		sub, err := h.Subscribe(r.Context(), id)
		if err != nil {
			conn.Close(websocket.StatusGoingAway, "shutting down")
			return
		}
		defer h.Unsubscribe(context.Background(), sub)

		// Clients never send; CloseRead handles control frames and cancels
		// ctx when the peer goes away.
		ctx := conn.CloseRead(r.Context())
		log.Debug(ctx, "subscriber joined", logger.String("team_id", id))

		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-sub.C():
				if !ok {
					conn.Close(websocket.StatusGoingAway, "shutting down")
					return
				}
				wctx, cancel := context.WithTimeout(ctx, writeTimeout)
				err := wsjson.Write(wctx, conn, m)
				cancel()
				if err != nil {
					log.Debug(ctx, "subscriber write failed", logger.Error(err))
					return
				}
			}
		}
	}
}
