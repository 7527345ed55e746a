package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/leonelranieri/tateti/internal/apperror"
	"github.com/leonelranieri/tateti/internal/entity"
	"github.com/leonelranieri/tateti/internal/tictactoe"
)

func (that *Server) handleState(ctx context.Context, sessionID string, _ *Message) (*entity.Session, error) {
	return that.sessionService.GetSession(ctx, sessionID)
}

func (that *Server) handlePlay(ctx context.Context, sessionID string, msg *Message) (*entity.Session, error) {
	payload, err := decodePayload(msg)
	if err != nil {
		return nil, err
	}

	if payload.Cell == nil {
		return nil, fmt.Errorf("%w: cell is required", apperror.ErrInvalidPayload)
	}

	return that.sessionService.Play(ctx, sessionID, *payload.Cell)
}

func (that *Server) handleJump(ctx context.Context, sessionID string, msg *Message) (*entity.Session, error) {
	payload, err := decodePayload(msg)
	if err != nil {
		return nil, err
	}

	if payload.Move == nil {
		return nil, fmt.Errorf("%w: move is required", apperror.ErrInvalidPayload)
	}

	return that.sessionService.JumpTo(ctx, sessionID, *payload.Move)
}

func (that *Server) handleReset(ctx context.Context, sessionID string, _ *Message) (*entity.Session, error) {
	return that.sessionService.Reset(ctx, sessionID)
}

func decodePayload(msg *Message) (*Payload, error) {
	var payload Payload

	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err)
	}

	return &payload, nil
}

func newGameResponse(session *entity.Session) GameResponse {
	return GameResponse{
		SessionID: session.ID,
		View:      tictactoe.NewView(session.State),
	}
}
