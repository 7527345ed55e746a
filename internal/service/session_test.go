package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/leonelranieri/tateti/internal/apperror"
	"github.com/leonelranieri/tateti/internal/entity"
	"github.com/leonelranieri/tateti/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errStorageDown = errors.New("storage down")

type mockSessionRepo struct {
	mock.Mock
}

func (that *mockSessionRepo) CreateOrUpdate(ctx context.Context, session *entity.Session) error {
	args := that.Called(ctx, session)
	return args.Error(0)
}

func (that *mockSessionRepo) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	args := that.Called(ctx, id)

	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (that *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestService(t *testing.T) (SessionService, *entity.Session) {
	t.Helper()

	sessionService := NewSessionService(newTestLogger(), repository.NewMemorySessionRepository())

	session, err := sessionService.StartSession(context.Background())
	require.NoError(t, err)

	return sessionService, session
}

func TestSessionService_StartSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates an empty game", func(t *testing.T) {
		// Given: a service on a memory repository
		sessionService, session := newTestService(t)

		// Then: the session is stored with the initial state
		assert.NotEmpty(t, session.ID)
		assert.Equal(t, entity.NewGameState(), session.State)

		stored, err := sessionService.GetSession(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, session.State, stored.State)
	})

	t.Run("Storage failure is returned", func(t *testing.T) {
		// Given: a repository that cannot save
		repo := &mockSessionRepo{}
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Session")).Return(errStorageDown).Once()
		sessionService := NewSessionService(newTestLogger(), repo)

		// When: starting a session
		session, err := sessionService.StartSession(ctx)

		// Then: the error is wrapped and returned
		require.ErrorIs(t, err, errStorageDown)
		assert.Nil(t, session)
		repo.AssertExpectations(t)
	})
}

func TestSessionService_Play(t *testing.T) {
	ctx := context.Background()

	t.Run("Scenario: X wins the top row", func(t *testing.T) {
		// Given: a new session
		sessionService, session := newTestService(t)

		// When: X plays 0, 1, 2 and O plays 4, 7
		var err error
		for _, cell := range []int{0, 4, 1, 7, 2} {
			session, err = sessionService.Play(ctx, session.ID, cell)
			require.NoError(t, err)
		}

		// Then: the stored board is won by X and later moves are ignored
		assert.Equal(t, 5, session.State.CurrentMove)

		after, err := sessionService.Play(ctx, session.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, session.State, after.State)
	})

	t.Run("Occupied cell leaves the session unchanged", func(t *testing.T) {
		sessionService, session := newTestService(t)

		played, err := sessionService.Play(ctx, session.ID, 0)
		require.NoError(t, err)

		again, err := sessionService.Play(ctx, session.ID, 0)
		require.NoError(t, err)

		assert.Equal(t, played.State, again.State)
		assert.Equal(t, played.UpdatedAt, again.UpdatedAt)
	})

	t.Run("Unknown session", func(t *testing.T) {
		sessionService, _ := newTestService(t)

		_, err := sessionService.Play(ctx, "missing", 0)

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Ignored moves are not saved", func(t *testing.T) {
		// Given: a repository holding a fresh session and no CreateOrUpdate expectation
		repo := &mockSessionRepo{}
		repo.On("GetByID", mock.Anything, "123").Return(entity.NewSession("123", time.Now()), nil).Once()
		sessionService := NewSessionService(newTestLogger(), repo)

		// When: an out of range cell is played
		session, err := sessionService.Play(ctx, "123", 42)

		// Then: the session is returned untouched and nothing is written
		require.NoError(t, err)
		assert.Equal(t, entity.NewGameState(), session.State)
		repo.AssertExpectations(t)
	})

	t.Run("Corrupted state is rejected", func(t *testing.T) {
		// Given: a stored session whose current move points past its history
		corrupted := entity.NewSession("123", time.Now())
		corrupted.State.CurrentMove = 3

		repo := &mockSessionRepo{}
		repo.On("GetByID", mock.Anything, "123").Return(corrupted, nil).Once()
		sessionService := NewSessionService(newTestLogger(), repo)

		// When: playing on it
		_, err := sessionService.Play(ctx, "123", 0)

		// Then: the invariant violation is reported
		require.ErrorIs(t, err, entity.ErrInvalidState)
		repo.AssertExpectations(t)
	})

	t.Run("Save failure is returned", func(t *testing.T) {
		repo := &mockSessionRepo{}
		repo.On("GetByID", mock.Anything, "123").Return(entity.NewSession("123", time.Now()), nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Session")).Return(errStorageDown).Once()
		sessionService := NewSessionService(newTestLogger(), repo)

		_, err := sessionService.Play(ctx, "123", 0)

		require.ErrorIs(t, err, errStorageDown)
		repo.AssertExpectations(t)
	})

	t.Run("Applied moves bump UpdatedAt", func(t *testing.T) {
		// Given: a service with a fixed clock
		svc, session := newTestService(t)
		later := session.UpdatedAt.Add(time.Minute)
		svc.(*sessionService).now = func() time.Time { return later }

		// When: a move is applied
		played, err := svc.Play(ctx, session.ID, 4)

		// Then: only UpdatedAt moves
		require.NoError(t, err)
		assert.True(t, played.UpdatedAt.Equal(later))
		assert.True(t, played.CreatedAt.Equal(session.CreatedAt))
	})
}

func TestSessionService_JumpTo(t *testing.T) {
	ctx := context.Background()

	t.Run("Jump then play prunes the old future", func(t *testing.T) {
		// Given: four moves
		sessionService, session := newTestService(t)
		for _, cell := range []int{0, 4, 1, 7} {
			_, err := sessionService.Play(ctx, session.ID, cell)
			require.NoError(t, err)
		}

		// When: jumping to move 1 and playing a new move
		jumped, err := sessionService.JumpTo(ctx, session.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, jumped.State.CurrentMove)

		played, err := sessionService.Play(ctx, session.ID, 8)
		require.NoError(t, err)

		// Then: the history has k+2 boards
		assert.Len(t, played.State.History, 3)
		assert.Equal(t, entity.PlayerO, played.State.CurrentBoard()[8])
	})

	t.Run("Jump to zero shows the empty board", func(t *testing.T) {
		sessionService, session := newTestService(t)
		_, err := sessionService.Play(ctx, session.ID, 0)
		require.NoError(t, err)

		jumped, err := sessionService.JumpTo(ctx, session.ID, 0)
		require.NoError(t, err)

		assert.True(t, jumped.State.CurrentBoard().IsEmpty())
	})

	t.Run("Out of range move is ignored", func(t *testing.T) {
		sessionService, session := newTestService(t)

		jumped, err := sessionService.JumpTo(ctx, session.ID, 5)
		require.NoError(t, err)

		assert.Equal(t, entity.NewGameState(), jumped.State)
	})
}

func TestSessionService_Reset(t *testing.T) {
	ctx := context.Background()

	// Given: a won game
	sessionService, session := newTestService(t)
	for _, cell := range []int{0, 4, 1, 7, 2} {
		_, err := sessionService.Play(ctx, session.ID, cell)
		require.NoError(t, err)
	}

	// When: resetting
	reset, err := sessionService.Reset(ctx, session.ID)
	require.NoError(t, err)

	// Then: the initial state is stored
	assert.Equal(t, entity.NewGameState(), reset.State)

	stored, err := sessionService.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.NewGameState(), stored.State)
}

func TestSessionService_EndSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Ended sessions are gone", func(t *testing.T) {
		sessionService, session := newTestService(t)

		require.NoError(t, sessionService.EndSession(ctx, session.ID))

		_, err := sessionService.GetSession(ctx, session.ID)
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Unknown session", func(t *testing.T) {
		sessionService, _ := newTestService(t)

		err := sessionService.EndSession(ctx, "missing")

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}
