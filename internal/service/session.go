package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/leonelranieri/tateti/internal/entity"
	"github.com/leonelranieri/tateti/internal/pkg"
	"github.com/leonelranieri/tateti/internal/tictactoe"
)

// SessionService applies game operations to stored sessions, one at a time.
type SessionService interface {
	StartSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	EndSession(ctx context.Context, id string) error

	Play(ctx context.Context, id string, cell int) (*entity.Session, error)
	JumpTo(ctx context.Context, id string, move int) (*entity.Session, error)
	Reset(ctx context.Context, id string) (*entity.Session, error)
}

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type reducer func(state entity.GameState) (entity.GameState, bool)

type sessionService struct {
	logger *slog.Logger

	mu          sync.Mutex
	sessionRepo sessionRepo
	now         func() time.Time
}

func NewSessionService(logger *slog.Logger, sessionRepo sessionRepo) SessionService {
	return &sessionService{
		logger:      logger.With("component", "session_service"),
		sessionRepo: sessionRepo,
		now:         time.Now,
	}
}

func (that *sessionService) StartSession(ctx context.Context) (*entity.Session, error) {
	id, err := pkg.GenerateSessionID()
	if err != nil {
		return nil, fmt.Errorf("error generating session ID: %w", err)
	}

	session := entity.NewSession(id, that.now())
	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("session started", "sessionID", id)

	return session, nil
}

func (that *sessionService) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if err = session.State.Validate(); err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}

	return session, nil
}

func (that *sessionService) EndSession(ctx context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session ended", "sessionID", id)

	return nil
}

func (that *sessionService) Play(ctx context.Context, id string, cell int) (*entity.Session, error) {
	return that.apply(ctx, id, "play", func(state entity.GameState) (entity.GameState, bool) {
		return tictactoe.Play(state, cell)
	}, "cell", cell)
}

func (that *sessionService) JumpTo(ctx context.Context, id string, move int) (*entity.Session, error) {
	return that.apply(ctx, id, "jumpTo", func(state entity.GameState) (entity.GameState, bool) {
		return tictactoe.JumpTo(state, move)
	}, "move", move)
}

func (that *sessionService) Reset(ctx context.Context, id string) (*entity.Session, error) {
	return that.apply(ctx, id, "reset", func(entity.GameState) (entity.GameState, bool) {
		return tictactoe.Reset(), true
	})
}

// apply - loads the session, folds the operation into its state and saves it when something changed.
func (that *sessionService) apply(ctx context.Context, id, method string, reduce reducer, args ...any) (*entity.Session, error) {
	log := that.logger.With("method", method, "sessionID", id).With(args...)

	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	next, changed := reduce(session.State)
	if !changed {
		log.Debug("operation ignored", "currentMove", session.State.CurrentMove)
		return session, nil
	}

	session.State = next
	session.UpdatedAt = that.now()

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	log.Debug("operation applied", "currentMove", next.CurrentMove)

	return session, nil
}
