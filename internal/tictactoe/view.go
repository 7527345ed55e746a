package tictactoe

import (
	"fmt"

	"github.com/leonelranieri/tateti/internal/entity"
)

const (
	squareClass = "square"
	winnerClass = "winner"
)

// CellView carries the display attributes of a single square.
type CellView struct {
	Index   int           `json:"index"`
	Value   entity.Marker `json:"value"`
	Winning bool          `json:"winning"`
	Class   string        `json:"class"`
}

// MoveView is one entry of the timeline.
type MoveView struct {
	Move    int    `json:"move"`
	Current bool   `json:"current"`
	Label   string `json:"label"`
}

// View is everything a UI needs to draw the current state.
type View struct {
	Board       entity.Board               `json:"board"`
	Cells       [entity.BoardSize]CellView `json:"cells"`
	NextPlayer  entity.Marker              `json:"next_player,omitempty"`
	Winner      entity.Marker              `json:"winner,omitempty"`
	Line        []int                      `json:"line,omitempty"`
	IsDraw      bool                       `json:"is_draw"`
	Status      string                     `json:"status"`
	Position    string                     `json:"position"`
	CurrentMove int                        `json:"current_move"`
	Moves       []MoveView                 `json:"moves"`
}

func NewView(state entity.GameState) View {
	board := state.CurrentBoard()
	result, won := CalculateWinner(board)

	view := View{
		Board:       board,
		CurrentMove: state.CurrentMove,
		Moves:       make([]MoveView, 0, len(state.History)),
	}

	switch {
	case won:
		view.Winner = result.Winner
		view.Line = result.Line[:]
		view.Status = "Winner: " + string(result.Winner)
	case board.IsFull():
		view.IsDraw = true
		view.Status = "Draw"
	default:
		view.NextPlayer = state.ActiveMarker()
		view.Status = "Next player: " + string(view.NextPlayer)
	}

	view.Position = view.Status
	if state.CurrentMove > 0 {
		view.Position = fmt.Sprintf("You are at move #%d", state.CurrentMove)
	}

	for i, value := range board {
		view.Cells[i] = newCellView(i, value, won && onLine(result.Line, i))
	}

	// the initial empty board is not listed
	for move := 1; move < len(state.History); move++ {
		entry := MoveView{Move: move, Current: move == state.CurrentMove}
		if entry.Current {
			entry.Label = fmt.Sprintf("Current move #%d", move)
		} else {
			entry.Label = fmt.Sprintf("Go to move #%d", move)
		}
		view.Moves = append(view.Moves, entry)
	}

	return view
}

func newCellView(index int, value entity.Marker, winning bool) CellView {
	class := squareClass
	if winning {
		class += " " + winnerClass
	}

	if value != entity.EmptyCell {
		class += " " + string(value)
	}

	return CellView{
		Index:   index,
		Value:   value,
		Winning: winning,
		Class:   class,
	}
}

func onLine(line [3]int, cell int) bool {
	for _, i := range line {
		if i == cell {
			return true
		}
	}

	return false
}
