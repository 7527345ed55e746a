package entity

import "time"

// Session owns one game for as long as a client keeps playing it.
type Session struct {
	ID        string    `json:"id"`
	State     GameState `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		State:     NewGameState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (that *Session) Clone() *Session {
	clone := *that
	clone.State = that.State.Clone()

	return &clone
}
