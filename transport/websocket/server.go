package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type sessionSubscriber interface {
	Subscribe(ctx context.Context, id string) (<-chan entity.SessionState, func(), error)
}

// Server pushes session states to websocket clients. Clients only listen; anything they send is
// discarded.
type Server struct {
	logger   *slog.Logger
	sessions sessionSubscriber
	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, sessions sessionSubscriber) *Server {
	return &Server{
		logger:   logger.With("component", "websocket"),
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the page is served from another origin
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Register mounts the push endpoint on r.
func (that *Server) Register(r chi.Router) {
	r.Get("/ws/{id}", that.serveSession)
}

func (that *Server) serveSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log := that.logger.With("method", "serveSession", "session", id)

	updates, cancel, err := that.sessions.Subscribe(r.Context(), id)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if err != nil {
		log.Error("failed to subscribe", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	defer cancel()

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	log.Info("WebSocket connection established")

	done := make(chan struct{})
	go that.readPump(conn, done)

	if err = that.writePump(conn, updates, done); err != nil {
		log.Error("error pushing session states", "error", err)
	}

	log.Info("WebSocket connection closed")
}

// readPump keeps the read side alive so control frames are handled. done is closed once the
// client goes away.
func (that *Server) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				that.logger.Warn("unexpected close", "error", err)
			}

			return
		}
	}
}

// writePump sends every state newer than the last one sent and pings the client periodically.
func (that *Server) writePump(conn *websocket.Conn, updates <-chan entity.SessionState, done <-chan struct{}) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	var (
		sent        bool
		lastVersion uint64
	)

	for {
		select {
		case <-done:
			return nil
		case state, ok := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
				return nil
			}

			if sent && state.Version <= lastVersion {
				continue
			}

			msg, err := newStateMessage(state)
			if err != nil {
				return err
			}

			if err = conn.WriteJSON(msg); err != nil {
				return fmt.Errorf("failed to write message: %w", err)
			}

			sent, lastVersion = true, state.Version
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("failed to ping: %w", err)
			}
		}
	}
}
