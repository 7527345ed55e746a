package entity

import (
	"errors"
	"fmt"
)

var ErrInvalidState = errors.New("invalid game state")

// GameState is the timeline of boards together with the index of the viewed one.
// The marker to move is derived from CurrentMove parity and is never stored.
type GameState struct {
	History     []Board `json:"history"`
	CurrentMove int     `json:"current_move"`
}

func NewGameState() GameState {
	return GameState{
		History:     []Board{{}},
		CurrentMove: 0,
	}
}

func (that GameState) CurrentBoard() Board {
	return that.History[that.CurrentMove]
}

// ActiveMarker - X moves on even moves, O on odd ones.
func (that GameState) ActiveMarker() Marker {
	return MarkerForMove(that.CurrentMove)
}

func MarkerForMove(move int) Marker {
	if move%2 == 0 {
		return PlayerX
	}
	return PlayerO
}

// Clone - returns a copy that shares no memory with the receiver.
func (that GameState) Clone() GameState {
	history := make([]Board, len(that.History))
	copy(history, that.History)

	return GameState{
		History:     history,
		CurrentMove: that.CurrentMove,
	}
}

// Validate - checks the timeline invariants of a state loaded from outside the process.
func (that GameState) Validate() error {
	if len(that.History) == 0 {
		return fmt.Errorf("%w: empty history", ErrInvalidState)
	}

	if that.CurrentMove < 0 || that.CurrentMove >= len(that.History) {
		return fmt.Errorf("%w: current move %d out of range [0, %d)", ErrInvalidState, that.CurrentMove, len(that.History))
	}

	if !that.History[0].IsEmpty() {
		return fmt.Errorf("%w: first board is not empty", ErrInvalidState)
	}

	for i := 1; i < len(that.History); i++ {
		if err := validateStep(that.History[i-1], that.History[i], MarkerForMove(i-1)); err != nil {
			return fmt.Errorf("%w: move %d: %w", ErrInvalidState, i, err)
		}
	}

	return nil
}

var (
	errUnknownMarker  = errors.New("unknown marker")
	errCellOverridden = errors.New("occupied cell changed")
	errWrongMarker    = errors.New("marker placed out of turn")
	errCellCount      = errors.New("exactly one cell must change")
)

func validateStep(prev, next Board, expected Marker) error {
	changed := 0

	for i := range next {
		if !next[i].IsValid() {
			return fmt.Errorf("%w: %q", errUnknownMarker, next[i])
		}

		if prev[i] == next[i] {
			continue
		}

		if prev[i] != EmptyCell {
			return fmt.Errorf("%w: cell %d", errCellOverridden, i)
		}

		if next[i] != expected {
			return fmt.Errorf("%w: cell %d", errWrongMarker, i)
		}

		changed++
	}

	if changed != 1 {
		return fmt.Errorf("%w: got %d", errCellCount, changed)
	}

	return nil
}
