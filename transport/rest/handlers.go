package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leonelranieri/tateti/internal/apperror"
	"github.com/leonelranieri/tateti/internal/entity"
	"github.com/leonelranieri/tateti/internal/tictactoe"
)

type sessionService interface {
	StartSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	EndSession(ctx context.Context, id string) error

	Play(ctx context.Context, id string, cell int) (*entity.Session, error)
	JumpTo(ctx context.Context, id string, move int) (*entity.Session, error)
	Reset(ctx context.Context, id string) (*entity.Session, error)
}

// SessionResponse is the body of every successful session endpoint.
type SessionResponse struct {
	ID   string         `json:"id"`
	View tictactoe.View `json:"view"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type playRequest struct {
	Cell *int `json:"cell"`
}

type jumpRequest struct {
	Move *int `json:"move"`
}

type Handlers struct {
	logger         *slog.Logger
	sessionService sessionService
}

func NewHandlers(logger *slog.Logger, sessionService sessionService) *Handlers {
	return &Handlers{
		logger:         logger.With("component", "rest_handlers"),
		sessionService: sessionService,
	}
}

func (that *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong", "error", err)
	}
}

func (that *Handlers) StartSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessionService.StartSession(r.Context())
	if err != nil {
		that.handleError(w, "StartSession", err)
		return
	}

	writeJSON(w, http.StatusCreated, newSessionResponse(session))
}

func (that *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessionService.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		that.handleError(w, "GetSession", err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

func (that *Handlers) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := that.sessionService.EndSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		that.handleError(w, "EndSession", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Handlers) Play(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := decodeBody(r, &req); err != nil || req.Cell == nil {
		that.handleError(w, "Play", fmt.Errorf("%w: cell is required", apperror.ErrInvalidPayload))
		return
	}

	session, err := that.sessionService.Play(r.Context(), chi.URLParam(r, "sessionID"), *req.Cell)
	if err != nil {
		that.handleError(w, "Play", err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

func (that *Handlers) JumpTo(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if err := decodeBody(r, &req); err != nil || req.Move == nil {
		that.handleError(w, "JumpTo", fmt.Errorf("%w: move is required", apperror.ErrInvalidPayload))
		return
	}

	session, err := that.sessionService.JumpTo(r.Context(), chi.URLParam(r, "sessionID"), *req.Move)
	if err != nil {
		that.handleError(w, "JumpTo", err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

func (that *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessionService.Reset(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		that.handleError(w, "Reset", err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

func (that *Handlers) handleError(w http.ResponseWriter, method string, err error) {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, apperror.ErrSessionNotFound.Error())
	case errors.Is(err, apperror.ErrInvalidPayload):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		that.logger.Error("request failed", "method", method, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func newSessionResponse(session *entity.Session) SessionResponse {
	return SessionResponse{
		ID:   session.ID,
		View: tictactoe.NewView(session.State),
	}
}

func decodeBody(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("failed to decode body: %w", err)
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
