package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/leonelranieri/tateti/internal/apperror"
	"github.com/leonelranieri/tateti/internal/entity"
)

const sessionQueryParam = "session"

type sessionService interface {
	StartSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	EndSession(ctx context.Context, id string) error

	Play(ctx context.Context, id string, cell int) (*entity.Session, error)
	JumpTo(ctx context.Context, id string, move int) (*entity.Session, error)
	Reset(ctx context.Context, id string) (*entity.Session, error)
}

type handlerFunc func(ctx context.Context, sessionID string, msg *Message) (*entity.Session, error)

type Server struct {
	logger         *slog.Logger
	sessionService sessionService
	upgrader       websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, sessionService sessionService) *Server {
	server := &Server{
		logger:         logger.With("component", "websocket"),
		sessionService: sessionService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	server.handlers = map[string]handlerFunc{
		actionState: server.handleState,
		actionPlay:  server.handlePlay,
		actionJump:  server.handleJump,
		actionReset: server.handleReset,
	}

	return server
}

// ServeHTTP - upgrades the connection and plays one session over it.
// Without a ?session= id a new session is started and ended when the connection closes.
func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()

	session, owned, err := that.attachSession(ctx, r.URL.Query().Get(sessionQueryParam))
	if err != nil {
		log.Error("failed to attach session", "error", err)
		_ = that.sendError(conn, actionState, err)
		return
	}

	log = log.With("sessionID", session.ID)
	log.Info("WebSocket connection established", "owned", owned)

	if owned {
		defer func() {
			// the request context is already done once the client is gone
			if err := that.sessionService.EndSession(context.WithoutCancel(ctx), session.ID); err != nil {
				log.Error("failed to end session", "error", err)
			}
		}()
	}

	if err = that.sendSession(conn, actionState, session); err != nil {
		log.Error("failed to send initial state", "error", err)
		return
	}

	if err = that.handleMessages(ctx, conn, session.ID); err != nil {
		log.Info("WebSocket connection closed", "reason", err)
	}
}

func (that *Server) attachSession(ctx context.Context, sessionID string) (*entity.Session, bool, error) {
	if sessionID != "" {
		session, err := that.sessionService.GetSession(ctx, sessionID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to get session: %w", err)
		}

		return session, false, nil
	}

	session, err := that.sessionService.StartSession(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to start session: %w", err)
	}

	return session, true, nil
}

// handleMessages - processes messages from the client until it disconnects.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn, sessionID string) error {
	log := that.logger.With("method", "handleMessages", "sessionID", sessionID)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("error reading message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			if err = that.sendError(conn, "", apperror.ErrInvalidPayload); err != nil {
				return err
			}
			continue
		}

		session, err := that.dispatch(ctx, sessionID, &message)
		if err != nil {
			log.Warn("error processing message", "action", message.Action, "error", err)
			if err = that.sendError(conn, message.Action, err); err != nil {
				return err
			}
			continue
		}

		if err = that.sendSession(conn, message.Action, session); err != nil {
			return err
		}
	}
}

func (that *Server) dispatch(ctx context.Context, sessionID string, msg *Message) (*entity.Session, error) {
	handler, ok := that.handlers[msg.Action]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownAction, msg.Action)
	}

	return handler(ctx, sessionID, msg)
}

func (that *Server) sendSession(conn *websocket.Conn, action string, session *entity.Session) error {
	payload, err := json.Marshal(newGameResponse(session))
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	return that.send(conn, Message{Action: action, Payload: payload})
}

func (that *Server) sendError(conn *websocket.Conn, action string, cause error) error {
	text := "internal error"
	switch {
	case errors.Is(cause, apperror.ErrSessionNotFound):
		text = apperror.ErrSessionNotFound.Error()
	case errors.Is(cause, apperror.ErrInvalidPayload), errors.Is(cause, apperror.ErrUnknownAction):
		text = cause.Error()
	}

	return that.send(conn, Message{Action: action, Error: text})
}

func (that *Server) send(conn *websocket.Conn, msg Message) error {
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}
