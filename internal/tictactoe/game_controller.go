package tictactoe

import (
	"github.com/leonelranieri/tateti/internal/entity"
)

// WinCombos are checked in this order: rows, columns, then the two diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Result describes a decided board.
type Result struct {
	Winner entity.Marker `json:"winner"`
	Line   [3]int        `json:"line"`
}

// CalculateWinner - returns the first completed line of the board, if any.
func CalculateWinner(board entity.Board) (Result, bool) {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return Result{Winner: a, Line: combo}, true
		}
	}

	return Result{}, false
}

// IsDraw - a full board without a winner.
func IsDraw(board entity.Board) bool {
	if _, ok := CalculateWinner(board); ok {
		return false
	}

	return board.IsFull()
}

// Play - places the active marker on cell and drops any boards after the current one.
// An out of range cell, an occupied cell or a decided board leave the state as is;
// the returned flag reports whether anything changed.
func Play(state entity.GameState, cell int) (entity.GameState, bool) {
	if !entity.IsValidCell(cell) {
		return state, false
	}

	current := state.CurrentBoard()
	if current[cell] != entity.EmptyCell {
		return state, false
	}

	if _, ok := CalculateWinner(current); ok {
		return state, false
	}

	next := current
	next[cell] = state.ActiveMarker()

	history := make([]entity.Board, state.CurrentMove+2)
	copy(history, state.History[:state.CurrentMove+1])
	history[state.CurrentMove+1] = next

	return entity.GameState{
		History:     history,
		CurrentMove: state.CurrentMove + 1,
	}, true
}

// JumpTo - moves the view to an earlier board and discards the boards after it.
// Indices outside the history are ignored.
func JumpTo(state entity.GameState, move int) (entity.GameState, bool) {
	if move < 0 || move >= len(state.History) {
		return state, false
	}

	if move == state.CurrentMove && len(state.History) == move+1 {
		return state, false
	}

	history := make([]entity.Board, move+1)
	copy(history, state.History[:move+1])

	return entity.GameState{
		History:     history,
		CurrentMove: move,
	}, true
}

func Reset() entity.GameState {
	return entity.NewGameState()
}
